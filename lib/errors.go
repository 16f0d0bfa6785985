// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import "errors"

// Every failure in this tool is terminal. The sentinels below classify the
// abort cause; errors returned from Task.Main wrap exactly one of them, or
// carry a plain message for argument mistakes.
var (
	ErrConfigNotFound    = errors.New("config not found")
	ErrConfigParse       = errors.New("config parse error")
	ErrSymbolParse       = errors.New("symbol parse error")
	ErrToolchainMissing  = errors.New("toolchain missing")
	ErrBackendGeneration = errors.New("backend generation error")
	ErrOutputWrite       = errors.New("output write error")
)
