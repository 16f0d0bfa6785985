// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// sdkOpts mirrors the sdk.opts JSON document at the SDK root. The field
// set below is the contract; unrecognized keys are tolerated so newer SDK
// distributions keep working with older generators.
//
// String fields may contain the SDK_ROOT_DIR placeholder and shell-quoted
// arguments; both are resolved by the caller, not here.
type sdkOpts struct {
	SDKSymbols   string `json:"sdk_symbols" validate:"required"`
	CCArgs       string `json:"cc_args"`
	CPPArgs      string `json:"cpp_args"`
	LinkerArgs   string `json:"linker_args"`
	LinkerScript string `json:"linker_script"`
}

// loadOpts reads and validates the compiler-option file.
func loadOpts(fn string) (*sdkOpts, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	defer f.Close()

	var opts sdkOpts
	if err := json.NewDecoder(f).Decode(&opts); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, fn, err)
	}

	if err := validator.New().Struct(&opts); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, fn, err)
	}

	return &opts, nil
}
