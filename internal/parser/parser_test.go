package parser

import (
	"strings"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/lexer"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	c := diagnostics.NewCollector("test.ts")
	prog := ParseSource("test.ts", src, c)
	if c.HasErrors() {
		t.Fatalf("parse errors: %v\n%s", c.Diagnostics, src)
	}
	return prog
}

const roundTripSource = `
interface Monoid<A> {
    concat(x: A, y: A): A;
    empty: A;
}

// @capability number Monoid
const Sum = { concat: (x, y) => x + y, empty: 0 };

export const fold = <A>(M: Monoid<A>, xs: A[]): A => xs.reduce((acc, x) => M.concat(acc, x), M.empty);

function sign(n: number): string {
    if (n < 0) {
        return "negative";
    } else if (n === 0) {
        return "zero";
    }
    return "positive";
}

const map = <F>(F: Functor<F>, fa: Kind<F, number>, f: (a: number) => number | string): Kind<F, number> => F.map(fa, f);

let total = 0;
for (const row of [[1, 2], [3]]) {
    for (let i = 0; i < row.length; i++) {
        total += row[i];
    }
}
while (total > 100) {
    total = total / 2;
}
try {
    throw Error("x");
} catch (e) {
    console.log(e?.message ?? "none", typeof e, !total, -(-1));
} finally {
    total++;
}
const pick = (o: { a: number; b?: string }, ...rest) => o.a > 0 && rest.length === 0 ? o["a"] : (() => 1)();
`

func TestRoundTrip(t *testing.T) {
	first := prettyprinter.Print(mustParse(t, roundTripSource))
	second := prettyprinter.Print(mustParse(t, first))
	if first != second {
		t.Errorf("printing is not stable:\n--- first\n%s\n--- second\n%s", first, second)
	}
	for _, want := range []string{
		"const fold = <A>(M: Monoid<A>, xs: A[]): A =>",
		"fa: Kind<F, number>",
		"} finally {\n    total++;\n}",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("printed program lacks %q:\n%s", want, first)
		}
	}
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(x + 1) * 2", "(x + 1) * 2"},
		{"a - (b - c)", "a - (b - c)"},
		{"(a - b) - c", "a - b - c"},
		{"a ? 1 : (b ? 2 : 3)", "a ? 1 : b ? 2 : 3"},
		{"(a ? b : c) ? 1 : 2", "(a ? b : c) ? 1 : 2"},
		{"2 ** 3 ** 2", "2 ** 3 ** 2"},
		{"(a ?? b) || c", "(a ?? b) || c"},
		{"((x) => x + 1)(2)", "((x) => x + 1)(2)"},
		{`"a" + 'b'`, `"a" + "b"`},
	}
	for _, tt := range tests {
		expr, err := ParseExpression(tt.src)
		if err != nil {
			t.Errorf("%s: %v", tt.src, err)
			continue
		}
		if got := prettyprinter.Print(expr); got != tt.want {
			t.Errorf("%s printed as %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diagnostics.ErrorCode
	}{
		{"type Pair = [number, number];", diagnostics.ErrP005},
		{"const x;", diagnostics.ErrP005},
		{"const = 1;", diagnostics.ErrP005},
		{"export 1;", diagnostics.ErrP005},
	}
	for _, tt := range tests {
		c := diagnostics.NewCollector("test.ts")
		ParseSource("test.ts", tt.src, c)
		found := false
		for _, code := range c.Codes() {
			if code == tt.code {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: codes = %v, want %s", tt.src, c.Codes(), tt.code)
		}
	}

	if _, err := ParseExpression("(x) =>"); err == nil {
		t.Error("incomplete arrow parsed")
	}
	if _, err := ParseExpression("a b"); err == nil {
		t.Error("trailing tokens accepted")
	}
}

func TestStatementComments(t *testing.T) {
	prog := mustParse(t, `// @capability number Monoid
const Sum = { concat: (x, y) => x + y, empty: 0 };
const f = specialize(fold, Sum); // @no-specialize-warn

/* block */
const g = 1;
const h = 2;
`)
	want := []string{"@capability number Monoid", "@no-specialize-warn", "block", ""}
	for i, stmt := range prog.Statements {
		comments := strings.Join(prog.CommentsOf(stmt), "\n")
		if want[i] == "" {
			if comments != "" {
				t.Errorf("statement %d has comments %q", i, comments)
			}
			continue
		}
		if !strings.Contains(comments, want[i]) {
			t.Errorf("statement %d comments = %q, want %q", i, comments, want[i])
		}
	}
}

func TestLexerTrailingComments(t *testing.T) {
	toks := lexer.New("x === 1 // same line\ny").Tokenize()
	var types []token.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	want := []token.TokenType{token.IDENT, token.STRICT_EQ, token.NUMBER, token.IDENT, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("token types = %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token types = %v, want %v", types, want)
		}
	}
	if len(toks[2].Trailing) != 1 || !strings.Contains(toks[2].Trailing[0], "same line") {
		t.Errorf("trailing comments on 1 = %q", toks[2].Trailing)
	}
	if len(toks[3].Comments) != 0 {
		t.Errorf("same-line comment leaked to the next token: %q", toks[3].Comments)
	}
	if toks[3].Line != 2 {
		t.Errorf("y is on line %d", toks[3].Line)
	}
}
