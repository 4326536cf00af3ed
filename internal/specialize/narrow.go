package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
)

// placeholder finds the abstract type constructor a capability parameter
// stands for: the first type argument of its declared type when that is one
// of fn's type parameters, otherwise the only type parameter fn applies
// through a kind constructor.
func placeholder(fn *ast.ArrowFunction, param *ast.Parameter, isKind func(string) bool) string {
	typeParams := make(map[string]bool, len(fn.TypeParams))
	for _, tp := range fn.TypeParams {
		typeParams[tp.Value] = true
	}
	if ref, ok := param.Type.(*ast.TypeReference); ok && len(ref.Args) > 0 {
		if arg, ok := ref.Args[0].(*ast.TypeReference); ok && len(arg.Args) == 0 && typeParams[arg.Name] {
			return arg.Name
		}
	}
	found := make(map[string]bool)
	ast.Inspect(fn, func(n ast.Node) bool {
		ref, ok := n.(*ast.TypeReference)
		if !ok || !isKind(ref.Name) || len(ref.Args) == 0 {
			return true
		}
		if arg, ok := ref.Args[0].(*ast.TypeReference); ok && len(arg.Args) == 0 && typeParams[arg.Name] {
			found[arg.Name] = true
		}
		return true
	})
	if len(found) != 1 {
		return ""
	}
	for name := range found {
		return name
	}
	return ""
}

// narrowType replaces applications of the placeholder f with the brand:
// K<f, A...> and f<A...> become brand<A...>, a bare f becomes brand.
func narrowType(t ast.Type, f, brand string, isKind func(string) bool) ast.Type {
	switch n := t.(type) {
	case *ast.TypeReference:
		args := n.Args
		if isKind(n.Name) && len(args) > 0 {
			if head, ok := args[0].(*ast.TypeReference); ok && head.Name == f && len(head.Args) == 0 {
				return &ast.TypeReference{Token: n.Token, Name: brand, Args: narrowTypes(args[1:], f, brand, isKind)}
			}
		}
		name := n.Name
		if name == f {
			name = brand
		}
		return &ast.TypeReference{Token: n.Token, Name: name, Args: narrowTypes(args, f, brand, isKind)}
	case *ast.ArrayType:
		return &ast.ArrayType{Token: n.Token, Element: narrowType(n.Element, f, brand, isKind)}
	case *ast.UnionType:
		return &ast.UnionType{Token: n.Token, Types: narrowTypes(n.Types, f, brand, isKind)}
	case *ast.FunctionType:
		narrowParams(n.Parameters, f, brand, isKind)
		n.ReturnType = narrowType(n.ReturnType, f, brand, isKind)
		return n
	case *ast.ObjectType:
		for _, m := range n.Members {
			m.Type = narrowType(m.Type, f, brand, isKind)
		}
		return n
	}
	return t
}

func narrowTypes(ts []ast.Type, f, brand string, isKind func(string) bool) []ast.Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]ast.Type, len(ts))
	for i, t := range ts {
		out[i] = narrowType(t, f, brand, isKind)
	}
	return out
}

func narrowParams(params []*ast.Parameter, f, brand string, isKind func(string) bool) {
	for _, p := range params {
		if p.Type != nil {
			p.Type = narrowType(p.Type, f, brand, isKind)
		}
	}
}

// narrowFunction rewrites every annotation in fn mentioning f and drops f
// from its type parameters. Nested functions that declare their own f are
// left alone.
func narrowFunction(fn *ast.ArrowFunction, f, brand string, isKind func(string) bool) {
	var kept []*ast.Identifier
	for _, tp := range fn.TypeParams {
		if tp.Value != f {
			kept = append(kept, tp)
		}
	}
	fn.TypeParams = kept
	narrowSignature(fn, f, brand, isKind)
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch d := n.(type) {
		case *ast.ArrowFunction:
			for _, tp := range d.TypeParams {
				if tp.Value == f {
					return false
				}
			}
			narrowSignature(d, f, brand, isKind)
		case *ast.VariableDeclaration:
			if d.Type != nil {
				d.Type = narrowType(d.Type, f, brand, isKind)
			}
		}
		return true
	})
}

func narrowSignature(fn *ast.ArrowFunction, f, brand string, isKind func(string) bool) {
	narrowParams(fn.Parameters, f, brand, isKind)
	if fn.ReturnType != nil {
		fn.ReturnType = narrowType(fn.ReturnType, f, brand, isKind)
	}
}
