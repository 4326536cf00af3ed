package capability

import (
	"reflect"
	"strings"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/parser"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
)

func parseObject(t *testing.T, src string) *ast.ObjectLiteral {
	t.Helper()
	expr, err := parser.ParseExpression(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	obj, ok := expr.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("%q is a %T", src, expr)
	}
	return obj
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	methods := map[string]*Method{"concat": {Name: "concat"}}
	first := r.Register("Sum", "number", methods)
	methods["empty"] = &Method{Name: "empty"}
	if len(first.Methods) != 1 {
		t.Error("Register kept a reference to the caller's map")
	}

	r.Register("Str", "string", nil)
	second := r.Register("Sum", "bigint", map[string]*Method{"empty": {Name: "empty"}})
	got, ok := r.Lookup("Sum")
	if !ok || got != second || got.Brand != "bigint" {
		t.Errorf("re-registration did not replace: %+v", got)
	}
	if names := r.Names(); !reflect.DeepEqual(names, []string{"Str", "Sum"}) {
		t.Errorf("Names() = %v", names)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}

	copied := r.RegisterTable(&Table{Name: "Show", Brand: "number", Contract: "Show"})
	if copied.Contract != "Show" {
		t.Error("RegisterTable dropped the contract")
	}

	r.Reset()
	if _, ok := r.Lookup("Sum"); ok || r.Len() != 0 {
		t.Error("Reset left tables behind")
	}
}

func TestFromObjectLiteral(t *testing.T) {
	r := NewRegistry()
	base, err := r.FromObjectLiteral("Base", "number", parseObject(t, `{ concat: (x, y) => x + y, empty: 0 }`))
	if err != nil {
		t.Fatal(err)
	}
	r.RegisterTable(base)

	ext, err := r.FromObjectLiteral("Ext", "number", parseObject(t, `{ ...Base, empty: 1, show: (n) => "#" + n }`))
	if err != nil {
		t.Fatal(err)
	}
	if names := ext.MethodNames(); !reflect.DeepEqual(names, []string{"concat", "empty", "show"}) {
		t.Fatalf("methods = %v", names)
	}
	if got := prettyprinter.Print(ext.Methods["empty"].Value); got != "1" {
		t.Errorf("later key should win, empty = %s", got)
	}
	concat, _ := ext.Method("concat")
	if !concat.Inlineable() || !reflect.DeepEqual(concat.Params, []string{"x", "y"}) {
		t.Errorf("concat = %+v", concat)
	}

	for _, src := range []string{`{ ...Missing }`, `{ ...make() }`} {
		if _, err := r.FromObjectLiteral("Bad", "number", parseObject(t, src)); err == nil {
			t.Errorf("%s: expected an error", src)
		}
	}
}

func TestMethodFromExpression(t *testing.T) {
	tests := []struct {
		src        string
		inlineable bool
	}{
		{`(x) => x + 1`, true},
		{`(x) => { return x; }`, true},
		{`function (x) { return x; }`, true},
		{`(...xs) => xs`, false},
		{`(x = 1) => x`, false},
		{`function named(x) { return x; }`, false},
		{`Math.max`, false},
		{`0`, false},
	}
	for _, tt := range tests {
		expr, err := parser.ParseExpression(tt.src)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.src, err)
		}
		m := MethodFromExpression("m", expr)
		if m.Inlineable() != tt.inlineable {
			t.Errorf("%s: Inlineable() = %v", tt.src, m.Inlineable())
		}
		if m.Value != expr {
			t.Errorf("%s: value not kept", tt.src)
		}
	}
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		comments []string
		brand    string
		contract string
		ok       bool
	}{
		{[]string{"// @capability number Monoid"}, "number", "Monoid", true},
		{[]string{"/* @capability Array */"}, "Array", "", true},
		{[]string{"/* @capability */"}, "", "", true},
		{[]string{"// unrelated", "// @capability string"}, "string", "", true},
		{[]string{"// plain comment"}, "", "", false},
		{nil, "", "", false},
	}
	for _, tt := range tests {
		brand, contract, ok := ParseAnnotation(tt.comments)
		if brand != tt.brand || contract != tt.contract || ok != tt.ok {
			t.Errorf("%q = (%q, %q, %v)", tt.comments, brand, contract, ok)
		}
	}
}

func TestParseFile(t *testing.T) {
	tests := []struct {
		path string
		data string
	}{
		{"capabilities.yaml", `
tables:
  - name: ShowNumber
    brand: number
    contract: Show
    methods:
      show: "(n) => \"#\" + String(n)"
      raw: "String"
`},
		{"capabilities.toml", `
[[tables]]
name = "ShowNumber"
brand = "number"
contract = "Show"

[tables.methods]
show = '(n) => "#" + String(n)'
raw = "String"
`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tables, err := ParseFile([]byte(tt.data), tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if len(tables) != 1 {
				t.Fatalf("got %d tables", len(tables))
			}
			tbl := tables[0]
			if tbl.Name != "ShowNumber" || tbl.Brand != "number" || tbl.Contract != "Show" {
				t.Errorf("table = %+v", tbl)
			}
			if m, _ := tbl.Method("show"); !m.Inlineable() {
				t.Error("show should be inlineable")
			}
			if m, _ := tbl.Method("raw"); m.Inlineable() {
				t.Error("raw is a reference and cannot be inlined")
			}
		})
	}
}

func TestParseFileErrors(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"tables:\n  - brand: number\n", "name is required"},
		{"tables:\n  - name: T\n", "brand is required"},
		{"tables:\n  - name: T\n    brand: number\n    methods:\n      m: \"(x) =>\"\n", "T.m"},
		{"tables: [", "parsing"},
	}
	for _, tt := range tests {
		_, err := ParseFile([]byte(tt.data), "capabilities.yaml")
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: err = %v, want mention of %q", tt.data, err, tt.want)
		}
	}
}

func TestObjectLiteral(t *testing.T) {
	tbl := &Table{Name: "Sum", Brand: "number", Methods: map[string]*Method{}}
	for _, src := range []string{"(x, y) => x + y", "0"} {
		expr, err := parser.ParseExpression(src)
		if err != nil {
			t.Fatal(err)
		}
		name := "empty"
		if strings.Contains(src, "=>") {
			name = "concat"
		}
		tbl.Methods[name] = MethodFromExpression(name, expr)
	}
	want := "{ concat: (x, y) => x + y, empty: 0 }"
	if got := prettyprinter.Print(tbl.ObjectLiteral()); got != want {
		t.Errorf("ObjectLiteral() = %s, want %s", got, want)
	}
}

func TestContracts(t *testing.T) {
	c := NewContracts(map[string][]string{"Monoid": {"combine", "unit"}, "Pretty": {"pretty"}})
	m, ok := c.Lookup("Monoid")
	if !ok || !reflect.DeepEqual(m.Methods, []string{"combine", "unit"}) {
		t.Errorf("override not applied: %+v", m)
	}
	if !c.IsContract("Pretty") || !c.IsContract("Functor") || c.IsContract("Array") {
		t.Error("IsContract disagrees with the table")
	}
	names := c.Names()
	if len(names) != 14 || names[0] != "Applicative" {
		t.Errorf("Names() = %v", names)
	}
}
