// Copyright 2024 The Bindgen Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bindgen // import "github.com/flipperzero-go/bindgen/lib"

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	cc "modernc.org/cc/v4"
)

// gen emits the Go binding file for one translated unit. Emission order
// follows the request's allow-list, never map iteration, so identical
// inputs produce byte-identical output.
type gen struct {
	ast    *cc.AST
	b      bytes.Buffer
	goarch string
	goos   string
	req    *Request
	seen   map[string]bool

	shortEnums bool
}

func newGen(ast *cc.AST, req *Request, goos, goarch string, shortEnums bool) *gen {
	return &gen{
		ast:        ast,
		goarch:     goarch,
		goos:       goos,
		req:        req,
		seen:       map[string]bool{},
		shortEnums: shortEnums,
	}
}

func (g *gen) w(s string, args ...interface{}) { fmt.Fprintf(&g.b, s, args...) }

func (g *gen) file() ([]byte, error) {
	g.w("// Code generated for %s/%s by bindgen, DO NOT EDIT.\n\npackage %s\n", g.goos, g.goarch, g.req.PkgName)
	if err := g.consts(); err != nil {
		return nil, err
	}

	decls := g.collect()
	if err := g.functions(decls); err != nil {
		return nil, err
	}

	if err := g.variables(decls); err != nil {
		return nil, err
	}

	b, err := format.Source(g.b.Bytes())
	if err != nil {
		return nil, errorf("internal error: formatting generated bindings: %v", err)
	}

	return b, nil
}

// consts emits one Go constant per allow-listed macro name. The macro must
// be an object-like constant with a single replacement token; its source
// text is kept verbatim, so hex literals stay hex.
func (g *gen) consts() error {
	for _, nm := range g.req.Allow.Consts {
		var m *cc.Macro
		for _, v := range g.ast.Macros {
			if v.Name.SrcStr() == nm {
				m = v
				break
			}
		}
		if m == nil {
			return errorf("macro %s is not defined by the translation unit", nm)
		}

		if !m.IsConst || len(m.ReplacementList()) != 1 {
			return errorf("macro %s is not an object-like constant", nm)
		}

		g.w("\nconst %s = %s\n", nm, m.ReplacementList()[0].SrcStr())
	}
	return nil
}

// collect indexes every external-linkage declarator of the translation
// unit by name. The first declaration wins; redeclarations carry the same
// type.
func (g *gen) collect() map[string]*cc.Declarator {
	decls := map[string]*cc.Declarator{}
	add := func(d *cc.Declarator) {
		if d == nil || d.Linkage() != cc.External {
			return
		}

		if _, ok := decls[d.Name()]; !ok {
			decls[d.Name()] = d
		}
	}
	for n := g.ast.TranslationUnit; n != nil; n = n.TranslationUnit {
		ed := n.ExternalDeclaration
		if ed == nil {
			continue
		}

		switch ed.Case {
		case cc.ExternalDeclarationDecl:
			decl := ed.Declaration
			if decl.Case != cc.DeclarationDecl {
				break
			}

			for l := decl.InitDeclaratorList; l != nil; l = l.InitDeclaratorList {
				add(l.InitDeclarator.Declarator)
			}
		case cc.ExternalDeclarationFuncDef:
			add(ed.FunctionDefinition.Declarator)
		}
	}
	return decls
}

// functions emits one binding slot per allow-listed function, in list
// order. Names the public headers never declare are skipped, duplicates
// emit once.
func (g *gen) functions(decls map[string]*cc.Declarator) error {
	for _, nm := range g.req.Allow.Functions {
		if g.seen[nm] {
			continue
		}

		g.seen[nm] = true
		d := decls[nm]
		if d == nil {
			continue
		}

		ft, ok := d.Type().(*cc.FunctionType)
		if !ok {
			return errorf("%v: %s is not a function", d.Position(), nm)
		}

		sig, err := g.signature(ft)
		if err != nil {
			return errorf("%v: %s: %v", d.Position(), nm, err)
		}

		g.w("\n// %s: %s\nvar X%s func%s\n", nm, d.Type(), nm, sig)
	}
	return nil
}

// variables emits one address slot per allow-listed variable, in list
// order.
func (g *gen) variables(decls map[string]*cc.Declarator) error {
	for _, nm := range g.req.Allow.Variables {
		if g.seen[nm] {
			continue
		}

		g.seen[nm] = true
		d := decls[nm]
		if d == nil {
			continue
		}

		if _, ok := d.Type().(*cc.FunctionType); ok {
			return errorf("%v: %s is a function, not a variable", d.Position(), nm)
		}

		g.w("\n// %s: %s\nvar X%s uintptr\n", nm, d.Type(), nm)
	}
	return nil
}

func (g *gen) signature(ft *cc.FunctionType) (string, error) {
	var b strings.Builder
	b.WriteByte('(')
	params := ft.Parameters()
	if len(params) == 1 && params[0].Type().Kind() == cc.Void {
		params = nil
	}
	for i, p := range params {
		if i != 0 {
			b.WriteString(", ")
		}

		s, err := g.typ(p.Type())
		if err != nil {
			return "", err
		}

		b.WriteString(s)
	}
	if ft.IsVariadic() {
		if len(params) != 0 {
			b.WriteString(", ")
		}

		b.WriteString("...uintptr")
	}
	b.WriteByte(')')
	if ft.Result().Kind() != cc.Void {
		s, err := g.typ(ft.Result())
		if err != nil {
			return "", err
		}

		b.WriteString(" " + s)
	}
	return b.String(), nil
}

// typ maps a C type to its Go carrier in a binding signature. Pointers,
// arrays and function designators decay to uintptr; by-value aggregates
// become byte arrays of the aggregate's size.
func (g *gen) typ(t cc.Type) (string, error) {
	switch t.Kind() {
	case cc.Enum:
		return g.enumTyp(t.(*cc.EnumType))
	case cc.Ptr, cc.Array, cc.Function:
		return "uintptr", nil
	case cc.Float:
		return "float32", nil
	case cc.Double, cc.LongDouble:
		return "float64", nil
	case cc.Struct, cc.Union:
		if t.IsIncomplete() {
			return "", errorf("incomplete type %v passed by value", t)
		}

		return fmt.Sprintf("[%d]byte", t.Size()), nil
	}

	if cc.IsIntegerType(t) {
		if t.Size() > 8 {
			return "", errorf("unsupported %v-byte integer type %v", t.Size(), t)
		}

		if cc.IsSignedInteger(t) {
			return fmt.Sprintf("int%d", 8*t.Size()), nil
		}

		return fmt.Sprintf("uint%d", 8*t.Size()), nil
	}

	return "", errorf("unsupported C type %v", t)
}

// enumTyp picks the Go carrier of an enum. With -fshort-enums in effect
// the target packs each enum into the smallest integer holding every
// enumerator (AAPCS), otherwise the frontend's underlying type applies.
func (g *gen) enumTyp(t *cc.EnumType) (string, error) {
	if !g.shortEnums {
		return g.typ(t.UnderlyingType())
	}

	enums := t.Enumerators()
	if len(enums) == 0 {
		return g.typ(t.UnderlyingType())
	}

	var lo, hi int64
	for _, e := range enums {
		var v int64
		switch x := e.Value().(type) {
		case cc.Int64Value:
			v = int64(x)
		case cc.UInt64Value:
			if uint64(x) > 1<<31-1 {
				return g.typ(t.UnderlyingType())
			}

			v = int64(x)
		default:
			return g.typ(t.UnderlyingType())
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	switch {
	case lo < 0:
		switch {
		case lo >= -1<<7 && hi < 1<<7:
			return "int8", nil
		case lo >= -1<<15 && hi < 1<<15:
			return "int16", nil
		default:
			return "int32", nil
		}
	case hi < 1<<8:
		return "uint8", nil
	case hi < 1<<16:
		return "uint16", nil
	default:
		return "uint32", nil
	}
}
