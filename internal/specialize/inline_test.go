package specialize

import (
	"reflect"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/parser"
)

func TestPlanArguments(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		body   string
		args   []string
		bound  []int
	}{
		{"read once in order", []string{"fa", "f"}, "fa.map(f)", []string{"mk()", "g"}, nil},
		{"read twice", []string{"x"}, "x + x", []string{"mk()"}, []int{0}},
		{"read inside callback", []string{"fa", "f"}, "fa.map((a) => f(a) + fa.length)", []string{"mk()", "g"}, []int{0}},
		{"callback shadows another parameter", []string{"fa", "f"}, "fa.map((f) => f + fa.length)", []string{"mk()", "g"}, []int{0}},
		{"callback shadows the argument", []string{"fa"}, "[fa, (fa) => fa]", []string{"mk()"}, nil},
		{"read in a callback default", []string{"fa"}, "[1].map((a, n = fa) => n)", []string{"mk()"}, []int{0}},
		{"read in a branch", []string{"c", "x"}, "c ? x : 0", []string{"ok", "mk()"}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := parser.ParseExpression(tt.body)
			if err != nil {
				t.Fatal(err)
			}
			args := make([]ast.Expression, len(tt.args))
			for i, a := range tt.args {
				if args[i], err = parser.ParseExpression(a); err != nil {
					t.Fatal(err)
				}
			}
			plan := (&rewriter{}).planArguments(tt.params, body, args)
			if !reflect.DeepEqual(plan.bound, tt.bound) {
				t.Errorf("bound = %v, want %v", plan.bound, tt.bound)
			}
		})
	}
}
