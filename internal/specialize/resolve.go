package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
)

// Function is a statically resolved function body.
type Function struct {
	// Name is the declared name, empty for an inline arrow.
	Name string
	Node *ast.ArrowFunction
	// Decl is the declaring statement, nil for an inline arrow.
	Decl ast.Node
	// Scope is where the function was written; its free names resolve here.
	Scope *Scope
}

// DisplayName is used in diagnostics and hoisted names.
func (f *Function) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return "fn"
}

// ResolveBody finds the body behind expr as seen from scope: an inline
// arrow, or an identifier whose single reachable declaration is a const
// bound arrow or a function declaration. Anything else is unresolved.
func ResolveBody(scope *Scope, expr ast.Expression) (*Function, bool) {
	switch e := expr.(type) {
	case *ast.ArrowFunction:
		return &Function{Node: e, Scope: scope}, true
	case *ast.Identifier:
		b := scope.Lookup(e.Value)
		if b == nil || b.Count != 1 {
			return nil, false
		}
		switch d := b.Decl.(type) {
		case *ast.VariableDeclaration:
			if !d.IsConst() {
				return nil, false
			}
			fn, ok := d.Value.(*ast.ArrowFunction)
			if !ok {
				return nil, false
			}
			return &Function{Name: e.Value, Node: fn, Decl: d, Scope: b.Scope}, true
		case *ast.FunctionDeclaration:
			return &Function{Name: e.Value, Node: d.Function, Decl: d, Scope: b.Scope}, true
		case *ast.ArrowFunction:
			// Name of a named function expression, seen from its own body.
			if d.Name != nil && d.Name.Value == e.Value {
				return &Function{Name: e.Value, Node: d, Decl: d, Scope: b.Scope.Parent()}, true
			}
		}
	}
	return nil, false
}
