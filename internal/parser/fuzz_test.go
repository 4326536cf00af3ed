package parser

import (
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
)

// FuzzParseRoundTrip checks that whatever parses prints to source that
// parses again and prints identically.
func FuzzParseRoundTrip(f *testing.F) {
	f.Add(roundTripSource)
	f.Add("const f = (x) => x + 1;\nconsole.log(f(2));\n")
	f.Add("let a = [1, { b: 'c' }, ...xs];")
	f.Add(`const o = { ...base, "k-1": v, m(x) { return x; } };`)
	f.Add("if (a) b(); else if (c) { d(); }")
	f.Add("const x = ;")

	f.Fuzz(func(t *testing.T, src string) {
		if len(src) > 2000 {
			return
		}
		c := diagnostics.NewCollector("fuzz.ts")
		prog := ParseSource("fuzz.ts", src, c)
		if c.HasErrors() {
			return
		}
		first := prettyprinter.Print(prog)

		c = diagnostics.NewCollector("fuzz.ts")
		reparsed := ParseSource("fuzz.ts", first, c)
		if c.HasErrors() {
			t.Fatalf("printed program does not parse: %v\ninput:\n%s\nprinted:\n%s", c.Diagnostics, src, first)
		}
		if second := prettyprinter.Print(reparsed); second != first {
			t.Fatalf("printing is not stable\ninput:\n%s\nfirst:\n%s\nsecond:\n%s", src, first, second)
		}
	})
}
