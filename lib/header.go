// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import (
	"fmt"
	"strings"
)

// bindingsHeader synthesizes the root translation unit handed to the
// backend: the packed version macro followed by one #include per public
// header, in manifest order. Paths are quoted verbatim and duplicates are
// kept; headers with include guards deduplicate themselves.
func bindingsHeader(s *apiSymbols) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#define %s 0x%08X\n", versionConst, s.apiVersion)
	for _, h := range s.headers {
		fmt.Fprintf(&b, "#include \"%s\"\n", h)
	}
	return b.String()
}
