package specialize

import (
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/parser"
)

func TestNameGenerator(t *testing.T) {
	g := NewNameGenerator()
	c := diagnostics.NewCollector("names.ts")
	g.Seed(parser.ParseSource("names.ts", "const x = 1;\nconst y_1 = (x_1) => x_1 + x;\n", c))

	tests := []struct {
		call func() string
		want string
	}{
		{func() string { return g.Fresh("x") }, "x_2"},
		{func() string { return g.Fresh("x_2") }, "x_3"},
		{func() string { return g.Fresh("y") }, "y_2"},
		{func() string { return g.Fresh("") }, "v_1"},
		{func() string { return g.Available("z") }, "z"},
		{func() string { return g.Available("z") }, "z_1"},
		{func() string { return g.Available("const") }, "const_1"},
		{func() string { return g.Fresh("_1") }, "_1_1"},
	}
	for i, tt := range tests {
		if got := tt.call(); got != tt.want {
			t.Errorf("call %d = %q, want %q", i, got, tt.want)
		}
	}
	if !g.Taken("x_3") || !g.Taken("return") || g.Taken("w") {
		t.Error("Taken disagrees with the names handed out")
	}

	g.Reset()
	if got := g.Fresh("x"); got != "x_1" {
		t.Errorf("after Reset Fresh(x) = %q, want x_1", got)
	}
}

func TestNameGeneratorSeedsBinders(t *testing.T) {
	g := NewNameGenerator()
	c := diagnostics.NewCollector("names.ts")
	prog := parser.ParseSource("names.ts", `
function outer(a, ...rest) {
    for (const item of rest) {
        try { item(); } catch (err) { return err; }
    }
    const o = { key: a };
    return a;
}
`, c)
	g.Seed(prog)
	for _, name := range []string{"outer", "a", "rest", "item", "err", "key"} {
		if !g.Taken(name) {
			t.Errorf("%s not reserved", name)
		}
	}
}
