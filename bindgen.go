// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bindgen produces Go bindings for the public API of a Flipper
// Zero SDK distribution.
//
// Usage: bindgen [options] <path-to-sdk-root>
package main // import "github.com/flipperzero-go/bindgen"

import (
	"fmt"
	"os"

	bindgen "github.com/flipperzero-go/bindgen/lib"
)

func main() {
	goarch := env("TARGET_GOARCH", bindgen.DefaultGOARCH)
	goos := env("TARGET_GOOS", bindgen.DefaultGOOS)
	if err := bindgen.NewTask(goos, goarch, os.Args, os.Stdout, os.Stderr, nil).Main(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func env(name, deflt string) (r string) {
	r = deflt
	if s := os.Getenv(name); s != "" {
		r = s
	}
	return r
}
