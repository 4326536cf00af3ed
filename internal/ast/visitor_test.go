package ast_test

import (
	"reflect"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/parser"
)

var _ ast.Node = (*ast.Parameter)(nil)

type parameterCollector struct {
	ast.BaseVisitor
	names  []string
	idents []string
}

func (c *parameterCollector) VisitParameter(p *ast.Parameter) {
	c.names = append(c.names, p.Name.Value)
	c.BaseVisitor.VisitParameter(p)
}

func (c *parameterCollector) VisitIdentifier(id *ast.Identifier) {
	c.idents = append(c.idents, id.Value)
}

func TestVisitParameter(t *testing.T) {
	src := "const apply = (x: number, k: (y: number) => number = (z) => z + d) => k(x);\n"
	c := diagnostics.NewCollector("params.ts")
	prog := parser.ParseSource("params.ts", src, c)
	if c.HasErrors() {
		t.Fatalf("parse errors: %v", c.Diagnostics)
	}

	v := &parameterCollector{}
	v.Self = v
	prog.Accept(v)

	if want := []string{"x", "k", "y", "z"}; !reflect.DeepEqual(v.names, want) {
		t.Errorf("parameters visited = %v, want %v", v.names, want)
	}
	// Defaults are reached through the parameter.
	if want := []string{"z", "d", "k", "x"}; !reflect.DeepEqual(v.idents, want) {
		t.Errorf("identifiers visited = %v, want %v", v.idents, want)
	}
}

func TestParameterChildren(t *testing.T) {
	c := diagnostics.NewCollector("params.ts")
	prog := parser.ParseSource("params.ts", "const f = (a: number = b) => a;\n", c)
	if c.HasErrors() {
		t.Fatalf("parse errors: %v", c.Diagnostics)
	}
	var param *ast.Parameter
	ast.Inspect(prog, func(n ast.Node) bool {
		if fn, ok := n.(*ast.ArrowFunction); ok {
			param = fn.Parameters[0]
		}
		return true
	})
	if param == nil {
		t.Fatal("no parameter found")
	}
	if got := param.GetToken().Lexeme; got != "a" {
		t.Errorf("parameter token = %q, want %q", got, "a")
	}
	kids := ast.Children(param)
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2 (type and default)", len(kids))
	}
	if _, ok := kids[1].(*ast.Identifier); !ok {
		t.Errorf("default child is %T, want *ast.Identifier", kids[1])
	}
}
