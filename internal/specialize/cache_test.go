package specialize

import (
	"regexp"
	"strings"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
)

func testFunction(t *testing.T, name, src string) *Function {
	t.Helper()
	return &Function{Name: name, Node: parseArrow(t, src)}
}

func TestDedupKey(t *testing.T) {
	fn := testFunction(t, "fold", "(M, xs) => xs")
	a := NewDedupKey(fn, []string{"number", "string"}, []string{"S=Str", "M=Sum"})
	b := NewDedupKey(fn, []string{"string", "number"}, []string{"M=Sum", "S=Str"})
	if a != b {
		t.Errorf("keys differ by input order: %s / %s", a, b)
	}
	if s := a.String(); !strings.HasPrefix(s, "fold@") || !strings.HasSuffix(s, "|number,string|M=Sum,S=Str") {
		t.Errorf("String() = %s", a)
	}
	if !regexp.MustCompile(`^[0-9a-f]{8}$`).MatchString(a.Suffix()) {
		t.Errorf("Suffix() = %q", a.Suffix())
	}
	if a.Suffix() != b.Suffix() {
		t.Error("Suffix is not deterministic")
	}

	other := NewDedupKey(fn, []string{"number"}, []string{"M=Prod"})
	if other == a || other.Suffix() == a.Suffix() {
		t.Error("different tables share a key")
	}
	sum := NewDedupKey(fn, []string{"number"}, []string{"M=Sum"})
	if prod := NewDedupKey(fn, []string{"number"}, []string{"M=Prod"}); prod == sum {
		t.Error("tables of the same brand share a key")
	}
	// Same text, different node.
	twin := NewDedupKey(testFunction(t, "fold", "(M, xs) => xs"), []string{"number", "string"}, []string{"M=Sum", "S=Str"})
	if twin == a {
		t.Error("keys of distinct functions compare equal")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	outer := NewDedupKey(testFunction(t, "outer", "(F) => F"), []string{"Array"}, []string{"F=ArrayFunctor"})
	inner := NewDedupKey(testFunction(t, "inner", "(F) => F"), []string{"Array"}, []string{"F=ArrayFunctor"})

	eo := c.Reserve(outer, "__specialized_outer", nil)
	if got, ok := c.Lookup(outer); !ok || got != eo || got.Decl != nil {
		t.Fatal("reserved entry not visible before Store")
	}
	if !c.IsHoisted("__specialized_outer") || c.Len() != 0 {
		t.Error("a reserved name is hoisted but not yet complete")
	}

	ei := c.Reserve(inner, "__specialized_inner", nil)
	c.Store(ei, &ast.VariableDeclaration{})
	c.Store(eo, &ast.VariableDeclaration{})
	got := c.Hoisted()
	if len(got) != 2 || got[0] != ei || got[1] != eo {
		t.Errorf("Hoisted() order = %v", got)
	}

	c.Reset()
	if c.Len() != 0 || c.IsHoisted("__specialized_outer") {
		t.Error("Reset left entries behind")
	}
	if _, ok := c.Lookup(outer); ok {
		t.Error("Reset left keys behind")
	}
}
