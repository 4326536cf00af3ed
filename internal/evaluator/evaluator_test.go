package evaluator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	c := diagnostics.NewCollector("test.ts")
	prog := parser.ParseSource("test.ts", src, c)
	if c.HasErrors() {
		t.Fatalf("parse: %v", c.Diagnostics)
	}
	return prog
}

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(&out, nil).Run(parse(t, src))
	return out.String(), err
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic",
			src:  `console.log(1 + 2, "a" + 1, 7 / 2, 2 ** 10, 5 % 3, -0.5 * 4);`,
			want: "3 a1 3.5 1024 2 -2\n",
		},
		{
			name: "closures",
			src: `
const counter = () => {
    let n = 0;
    return () => {
        n += 1;
        return n;
    };
};
const c = counter();
c();
c();
console.log(c());
`,
			want: "3\n",
		},
		{
			name: "array methods",
			src: `
const xs = [1, 2, 3];
console.log(xs.map((x) => x * 2).filter((x) => x > 2).reduce((a, b) => a + b, 0));
console.log([1, [2, "s"]], { a: 1, b: "x" }, xs.length, xs.join("-"));
`,
			want: "10\n[ 1, [ 2, 's' ] ] { a: 1, b: 'x' } 3 1-2-3\n",
		},
		{
			name: "loop bindings",
			src: `
const fs = [];
for (let i = 0; i < 3; i++) {
    fs.push(() => i);
}
console.log(fs.map((f) => f()));
`,
			want: "[ 0, 1, 2 ]\n",
		},
		{
			name: "try finally",
			src: `
const f = () => {
    try {
        throw Error("boom");
    } catch (e) {
        return e.message;
    } finally {
        console.log("finally");
    }
};
console.log(f());
`,
			want: "finally\nboom\n",
		},
		{
			name: "operators",
			src:  `console.log(typeof 1, typeof "s", typeof missing, null ?? "d", 0 || "z", 1 && 2, 1 == "1", 1 === "1");`,
			want: "number string undefined d z 2 true false\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("output =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`throw Error("bad");`, "Uncaught Error: bad"},
		{`const x = 1;
x = 2;`, "Uncaught TypeError: Assignment to constant variable."},
		{`const o = null;
console.log(o.x);`, "TypeError: Cannot read properties of null (reading 'x')"},
		{`nope();`, "ReferenceError: nope is not defined"},
		{`const f = () => f();
f();`, "RangeError: Maximum call stack size exceeded"},
	}
	for _, tt := range tests {
		_, err := run(t, tt.src)
		var rt *RuntimeError
		if !errors.As(err, &rt) {
			t.Errorf("%s: err = %v, want *RuntimeError", tt.src, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %q, want %q", tt.src, err, tt.want)
		}
	}
}

const tables = `
const Sum = { concat: (x, y) => x + y, empty: 0 };
const Show = { show: (n) => "#" + n };
const both = (x, S: Show<number>, M: Monoid<number>) => S.show(M.concat(x, M.empty));
const inc = (x: number) => x + 1;
`

func TestRuntimeSpecialize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"tables land on matched parameters", `console.log(specialize(both, Sum, Show)(4));`, "#4\n"},
		{"table order does not matter", `console.log(specialize(both, Show, Sum)(4));`, "#4\n"},
		{"no capability parameter", `console.log(specialize(inc, Sum) === inc);`, "true\n"},
		{"already specialized", `const f = specialize(both, Sum, Show);
console.log(specialize(f, Sum) === f);`, "true\n"},
		{"inline collapses", `console.log(specializeInline(Sum, (M: Monoid<number>) => M.concat(2, 3)));`, "5\n"},
		{"inline keeps remaining parameters", `console.log(specializeInline(Sum, (M: Monoid<number>, y: number) => M.concat(y, y))(4));`, "8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tables+tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}

	_, err := run(t, tables+`specialize(both);`)
	if err == nil || !strings.Contains(err.Error(), "expects a function and at least one capability table") {
		t.Errorf("err = %v", err)
	}
}

func TestDefineTable(t *testing.T) {
	expr, err := parser.ParseExpression(`(n) => "<" + n + ">"`)
	if err != nil {
		t.Fatal(err)
	}
	tbl := &capability.Table{Name: "Angle", Brand: "number", Contract: "Show", Methods: map[string]*capability.Method{
		"show": capability.MethodFromExpression("show", expr),
	}}

	var out bytes.Buffer
	e := New(&out, nil)
	if err := e.DefineTable(tbl); err != nil {
		t.Fatal(err)
	}
	prog := parse(t, `
const render = (S, xs: number[]) => xs.map((x) => S.show(x)).join("");
console.log(specialize(render, Angle)([1, 2]));
`)
	if err := e.Run(prog); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "<1><2>\n" {
		t.Errorf("output = %q", got)
	}
}
