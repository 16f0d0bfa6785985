// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import (
	"path/filepath"
	"strings"

	cc "modernc.org/cc/v4"
)

// Allowlist is the exact set of names permitted to appear in generated
// output. Anything else declared by the parsed headers is dropped.
type Allowlist struct {
	Consts    []string
	Functions []string
	Variables []string
}

// Request describes one binding-generation job: the synthetic root
// translation unit, how to resolve its includes, and the allow-list.
type Request struct {
	HeaderName      string   // name given to the synthetic translation unit
	Header          string   // its content
	WorkDir         string   // effective working directory of the frontend
	SysIncludes     []string // extra system include directories
	SysHeaderPrefix string   // include prefix treated as system headers
	CFlags          []string // compiler flags, passed verbatim
	PkgName         string   // package name of the generated file
	Allow           Allowlist
}

// Backend turns a Request into binding source text.
type Backend interface {
	Generate(*Request) ([]byte, error)
}

// backend is the real Backend, wrapping the modernc.org/cc/v4 frontend.
type backend struct {
	goarch string
	goos   string
}

func newBackend(goos, goarch string) Backend { return &backend{goarch: goarch, goos: goos} }

// Generate translates the synthetic header under the request's flags and
// emits Go declarations for the allow-listed names.
func (b *backend) Generate(r *Request) ([]byte, error) {
	var cfgArgs, incDirs []string
	shortEnums := false
	for i := 0; i < len(r.CFlags); i++ {
		v := r.CFlags[i]
		switch {
		case v == "-I" && i+1 < len(r.CFlags):
			i++
			incDirs = append(incDirs, r.CFlags[i])
		case strings.HasPrefix(v, "-I"):
			incDirs = append(incDirs, v[len("-I"):])
		case strings.HasPrefix(v, "-D"), strings.HasPrefix(v, "-U"), strings.HasPrefix(v, "-std="):
			cfgArgs = append(cfgArgs, v)
		case v == "-fshort-enums":
			shortEnums = true
		default:
			// Codegen and diagnostic flags have no effect on parsing.
		}
	}
	for i, v := range incDirs {
		if !filepath.IsAbs(v) {
			incDirs[i] = filepath.Join(r.WorkDir, v)
		}
	}

	cfg, err := cc.NewConfig(b.goos, b.goarch, cfgArgs...)
	if err != nil {
		return nil, err
	}

	// Quoted includes search the working directory first, then -I
	// directories, then the system directories.
	cfg.IncludePaths = append([]string{"", r.WorkDir}, incDirs...)
	cfg.IncludePaths = append(cfg.IncludePaths, r.SysIncludes...)
	cfg.SysIncludePaths = append(append([]string(nil), incDirs...), r.SysIncludes...)

	sources := []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
		{Name: r.HeaderName, Value: r.Header},
	}
	ast, err := cc.Translate(cfg, sources)
	if err != nil {
		return nil, err
	}

	return newGen(ast, r, b.goos, b.goarch, shortEnums).file()
}
