// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Manifest row kinds. Any other first field is ignored so manifest format
// extensions do not break older generators.
const (
	rowVersion  = "Version"
	rowHeader   = "Header"
	rowFunction = "Function"
	rowVariable = "Variable"
)

// apiSymbols is the public API surface extracted from the symbol manifest:
// the packed SDK version, the public header include paths and the
// function/variable names allowed to appear in generated output. Lists
// keep manifest order and duplicates.
type apiSymbols struct {
	apiVersion uint32
	headers    []string
	functions  []string
	variables  []string
}

// loadSymbols reads the symbol manifest, keeping only rows whose
// visibility marker is exactly "+". Each row is (name, visibility, value).
func loadSymbols(fn string) (*apiSymbols, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	syms := &apiSymbols{}
	haveVersion := false
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSymbolParse, fn, err)
		}

		name, visibility, value := rec[0], rec[1], rec[2]
		if visibility != visibilityPublic {
			continue
		}

		switch name {
		case rowVersion:
			v, err := packVersion(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrSymbolParse, fn, err)
			}

			// A repeated identical Version row is harmless, two distinct
			// ones leave the manifest without a single answer.
			if haveVersion && v != syms.apiVersion {
				return nil, fmt.Errorf("%w: %s: ambiguous Version rows: %08X and %08X", ErrSymbolParse, fn, syms.apiVersion, v)
			}

			syms.apiVersion = v
			haveVersion = true
		case rowHeader:
			syms.headers = append(syms.headers, value)
		case rowFunction:
			syms.functions = append(syms.functions, value)
		case rowVariable:
			syms.variables = append(syms.variables, value)
		}
	}
	return syms, nil
}

// packVersion turns "major.minor" into major<<16|minor. Both components
// must parse as 16-bit unsigned integers.
func packVersion(s string) (uint32, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return 0, errorf("invalid version %q", s)
	}

	hi, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return 0, errorf("invalid version %q: %v", s, err)
	}

	lo, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return 0, errorf("invalid version %q: %v", s, err)
	}

	return uint32(hi)<<16 | uint32(lo), nil
}
