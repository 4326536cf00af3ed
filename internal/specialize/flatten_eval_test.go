package specialize_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/evaluator"
	"github.com/typesugar/typesugar-sub002/internal/parser"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
	"github.com/typesugar/typesugar-sub002/internal/specialize"
)

// Every accepted body must compute the same value as its flattened form for
// every combination of guard outcomes.
var guardBodies = []string{
	`{ if (a) { return 1; } if (b) return 2; return 3; }`,
	`{ if (a) { if (b) { return "ab"; } return "a"; } const n = c ? 10 : 20; if (b) return n + 1; return n; }`,
	`{ if (a) return b ? "x" : "y"; else { if (c) { return "z"; } return "w"; } }`,
	`{ const k = a && b; if (k) { return 1; } else { return c ? 2 : 3; } }`,
	`{ const s = a ? "A" : ""; if (!b) { const t = s + "b"; if (c) return t + "c"; return t; } return s; }`,
	`{ if (a) { return; } if (b && c) return null; return [a, b, c]; }`,
}

func runSource(t *testing.T, src string) string {
	t.Helper()
	c := diagnostics.NewCollector("guards.ts")
	prog := parser.ParseSource("guards.ts", src, c)
	if c.HasErrors() {
		t.Fatalf("parse: %v\n%s", c.Diagnostics, src)
	}
	var out bytes.Buffer
	if err := evaluator.New(&out, nil).Run(prog); err != nil {
		t.Fatalf("run: %v\n%s", err, src)
	}
	return out.String()
}

func TestFlattenPreservesGuardSemantics(t *testing.T) {
	for i, body := range guardBodies {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			expr, err := parser.ParseExpression("(a, b, c) => " + body)
			if err != nil {
				t.Fatal(err)
			}
			fn := expr.(*ast.ArrowFunction)
			flat, err := specialize.Flatten(fn.Block())
			if err != nil {
				t.Fatalf("Flatten: %v", err)
			}
			if c := specialize.Classify(fn.Block()); c.Kind == specialize.Rejected {
				t.Fatalf("Classify = %s for a body Flatten accepts", c)
			}

			src := fmt.Sprintf(`const f = (a, b, c) => %s;
const g = (a, b, c) => %s;
for (const a of [true, false]) {
    for (const b of [true, false]) {
        for (const c of [true, false]) {
            console.log(f(a, b, c), g(a, b, c));
        }
    }
}
`, body, prettyprinter.Print(flat))
			out := runSource(t, src)
			rows := strings.Split(strings.TrimSpace(out), "\n")
			if len(rows) != 8 {
				t.Fatalf("got %d rows, want 8:\n%s", len(rows), out)
			}
			for _, row := range rows {
				fields := strings.Fields(row)
				half := len(fields) / 2
				if len(fields)%2 != 0 || strings.Join(fields[:half], " ") != strings.Join(fields[half:], " ") {
					t.Errorf("block and flattened results differ: %s\nflattened: %s", row, prettyprinter.Print(flat))
				}
			}
		})
	}
}
