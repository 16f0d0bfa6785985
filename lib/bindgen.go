// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bindgen implements the bindgen command.
//
// The tool reads an SDK distribution containing a symbol manifest
// (api_symbols.csv) and a compiler-option file (sdk.opts), synthesizes a
// root translation unit covering the SDK's public headers and feeds it to
// a C frontend restricted to the manifest's public function and variable
// names. The result is a single Go source file, bindings.go, written to
// the invoking process's working directory.
package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"modernc.org/opt"
)

// Version is the tool version reported by -version.
const Version = "0.1.0"

const (
	outFile  = "bindings.go"
	optsFile = "sdk.opts"

	visibilityPublic = "+"
	sdkRootVar       = "SDK_ROOT_DIR"
	versionConst     = "API_VERSION"
	sysHeaderPrefix  = "f7_sdk/"
	defaultPkgName   = "sdk"
)

// The device is a 32-bit ARM EABI target; the C frontend is configured for
// it regardless of the build host. TARGET_GOOS/TARGET_GOARCH override.
const (
	DefaultGOOS   = "linux"
	DefaultGOARCH = "arm"
)

// Toolchain include directory relative to the SDK root. The SDK
// distribution unpacks the cross toolchain next to the firmware checkout,
// hence the climb out of the firmware tree.
const (
	toolchainWindows = "../../../toolchain/i686-windows/arm-none-eabi/include"
	toolchainLinux   = "../../../toolchain/x86_64-linux/arm-none-eabi/include"
)

// toolchainInclude selects the toolchain subdirectory for the host
// platform family.
func toolchainInclude(hostOS string) string {
	if hostOS == "windows" {
		return toolchainWindows
	}
	return toolchainLinux
}

// Task represents a single binding-generation job.
type Task struct {
	args    []string // command name in args[0]
	backend Backend
	goarch  string
	goos    string
	host    string // host platform family, selects the toolchain subdir
	log     zerolog.Logger
	pkgName string // -pkgname
	sdkDir  string
	stderr  io.Writer
	stdout  io.Writer
	wd      string // output directory and base for resolving the SDK path

	version bool // -version
}

// NewTask returns a newly created Task. args[0] is the command name. A nil
// backend selects the real C frontend.
func NewTask(goos, goarch string, args []string, stdout, stderr io.Writer, backend Backend) *Task {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if backend == nil {
		backend = newBackend(goos, goarch)
	}
	return &Task{
		args:    args,
		backend: backend,
		goarch:  goarch,
		goos:    goos,
		host:    runtime.GOOS,
		log:     zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger(),
		pkgName: defaultPkgName,
		stderr:  stderr,
		stdout:  stdout,
	}
}

// Main executes the task. Every failure is terminal: the tool performs no
// retries and writes no partial output.
func (t *Task) Main() error {
	if len(t.args) == 0 {
		return errorf("invalid arguments %v", t.args)
	}

	set := opt.NewSet()
	set.Arg("pkgname", false, func(opt, val string) error { t.pkgName = val; return nil })
	set.Opt("version", func(opt string) error { t.version = true; return nil })
	if err := set.Parse(t.args[1:], func(arg string) error {
		if strings.HasPrefix(arg, "-") {
			return errorf("unrecognized command-line option '%s'", arg)
		}

		if t.sdkDir != "" {
			return errorf("unexpected argument %s", arg)
		}

		t.sdkDir = arg
		return nil
	}); err != nil {
		return errorf("parsing %v: %v", t.args[1:], err)
	}

	if t.version {
		fmt.Fprintln(t.stdout, Version)
		return nil
	}

	if t.sdkDir == "" {
		return errorf("missing argument: path to SDK root directory")
	}

	if t.wd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		t.wd = wd
	}

	// The frontend needs absolute paths. Plain joining instead of symlink
	// resolution: on Windows the canonical \\?\ form breaks quoted
	// include handling.
	sdk := t.sdkDir
	if !filepath.IsAbs(sdk) {
		sdk = filepath.Join(t.wd, sdk)
	}
	if fi, err := os.Stat(sdk); err != nil || !fi.IsDir() {
		return errorf("no such directory: %s", t.sdkDir)
	}

	toolchain := filepath.Join(sdk, toolchainInclude(t.host))
	if fi, err := os.Stat(toolchain); err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s (you may need to download it first)", ErrToolchainMissing, toolchain)
	}

	opts, err := loadOpts(filepath.Join(sdk, optsFile))
	if err != nil {
		return err
	}

	// Forward slashes even on Windows, or quoted include paths inside
	// flag strings do not survive the frontend.
	expand := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, sdkRootVar, sdk), `\`, "/")
	}

	symFn := expand(opts.SDKSymbols)
	if !filepath.IsAbs(symFn) {
		symFn = filepath.Join(sdk, symFn)
	}
	syms, err := loadSymbols(symFn)
	if err != nil {
		return err
	}

	cflags, err := shellquote.Split(expand(opts.CCArgs))
	if err != nil {
		return fmt.Errorf("%w: tokenizing cc_args: %v", ErrConfigParse, err)
	}

	t.log.Info().Str("sdk", sdk).Str("api_version", fmt.Sprintf("%08X", syms.apiVersion)).Msg("generating bindings")

	out, err := t.backend.Generate(&Request{
		HeaderName:      "bindings.h",
		Header:          bindingsHeader(syms),
		WorkDir:         sdk,
		SysIncludes:     []string{toolchain},
		SysHeaderPrefix: sysHeaderPrefix,
		CFlags:          append(cflags, "-Wno-error", "-fshort-enums"),
		PkgName:         t.pkgName,
		Allow: Allowlist{
			Consts:    []string{versionConst},
			Functions: syms.functions,
			Variables: syms.variables,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendGeneration, err)
	}

	if err := os.WriteFile(filepath.Join(t.wd, outFile), out, 0666); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}

	t.log.Info().Str("path", outFile).Msg("wrote bindings")
	return nil
}
