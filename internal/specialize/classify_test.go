package specialize

import (
	"errors"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		body   string
		kind   ClassKind
		reason Reason
	}{
		{`{ return x; }`, Inlineable, ReasonNone},
		{`{ return; }`, Inlineable, ReasonNone},
		{`{ const y = x + 1; return y * 2; }`, Inlineable, ReasonNone},
		{`{ "use strict"; return x; }`, Inlineable, ReasonNone},
		{`{ if (x) { return 1; } return 2; }`, Flattenable, ReasonNone},
		{`{ if (x) return 1; else return 2; }`, Flattenable, ReasonNone},
		{`{ if (a) { if (b) return 1; return 2; } return 3; }`, Flattenable, ReasonNone},
		{`{ const k = a && b; if (k) { return 1; } const j = k ? 2 : 3; return j; }`, Flattenable, ReasonNone},
		{`{ if (x) { return 1; } }`, Rejected, ReasonFallsThrough},
		{`{ let y = 1; return y; }`, Rejected, ReasonMutable},
		{`{ if (x) { var y = 1; } return 2; }`, Rejected, ReasonMutable},
		{`{ for (const v of xs) { } return 1; }`, Rejected, ReasonLoop},
		{`{ while (x) { break; } return 1; }`, Rejected, ReasonLoop},
		{`{ try { return 1; } catch (e) { return 2; } }`, Rejected, ReasonTry},
		{`{ if (x) { throw x; } return 1; }`, Rejected, ReasonThrow},
		{`{ console.log(x); return x; }`, Rejected, ReasonSideEffect},
		{`{ x = 2; return x; }`, Rejected, ReasonSideEffect},
		{`{ function g() { return 1; } return g(); }`, Rejected, ReasonSideEffect},
		{`{ x; }`, Rejected, ReasonNoReturn},
		{`{ { return 1; } }`, Rejected, ReasonUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			fn := parseArrow(t, "(x, a, b, xs) => "+tt.body)
			c := Classify(fn.Block())
			if c.Kind != tt.kind || c.Reason != tt.reason {
				t.Errorf("Classify = %s, want %s", c, Classification{Kind: tt.kind, Reason: tt.reason})
			}
		})
	}
}

func TestClassifyIgnoresNestedFunctions(t *testing.T) {
	fn := parseArrow(t, `(xs) => { const f = (y) => { let n = 0; for (const v of y) { n += v; } return n; }; return f(xs); }`)
	if c := Classify(fn.Block()); c.Kind != Inlineable {
		t.Errorf("Classify = %s, want inlineable", c)
	}
}

func TestFlattenShapes(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{ return x + 1; }`, `x + 1`},
		{`{ if (a) { return 1; } return 2; }`, `a ? 1 : 2`},
		{`{ if (a) return 1; if (b) return 2; return 3; }`, `a ? 1 : b ? 2 : 3`},
		{`{ if (a) { return 1; } else { return 2; } }`, `a ? 1 : 2`},
		{`{ return; }`, `undefined`},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			fn := parseArrow(t, "(x, a, b) => "+tt.body)
			expr, err := Flatten(fn.Block())
			if err != nil {
				t.Fatal(err)
			}
			if got := prettyprinter.Print(expr); got != tt.want {
				t.Errorf("Flatten = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFlattenKeepsConstEvaluationPoint(t *testing.T) {
	fn := parseArrow(t, `(a) => { if (a) { return 0; } const n = a + 1; return n * 2; }`)
	expr, err := Flatten(fn.Block())
	if err != nil {
		t.Fatal(err)
	}
	want := "a ? 0 : (() => {\n    const n = a + 1;\n    return n * 2;\n})()"
	if got := prettyprinter.Print(expr); got != want {
		t.Errorf("Flatten =\n%s\nwant\n%s", got, want)
	}
}

func TestFlattenRejected(t *testing.T) {
	fn := parseArrow(t, `(a) => { if (a) { return 1; } }`)
	_, err := Flatten(fn.Block())
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("err = %v, want *RejectedError", err)
	}
	if rejected.Reason != ReasonFallsThrough {
		t.Errorf("reason = %q", rejected.Reason)
	}
}
