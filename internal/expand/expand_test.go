package expand

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/evaluator"
	"github.com/typesugar/typesugar-sub002/internal/lexer"
	"github.com/typesugar/typesugar-sub002/internal/parser"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
	"github.com/typesugar/typesugar-sub002/internal/specialize"
)

var update = flag.Bool("update", false, "rewrite the want.out section of each scenario from the unexpanded run")

// Each scenario in testdata is a txtar archive:
//
//	input.ts           the program
//	want.out           what it prints
//	diagnostics        codes reported by expansion, one per line (optional)
//	contains           lines that must occur in the expanded source (optional)
//	absent             lines that must not occur in any statement expansion
//	                   added or changed (optional)
//	hoisted            number of hoisted declarations (optional)
//	specialize.yaml    engine configuration (optional)
//	capabilities.yaml  tables declared outside the program (optional)
//
// The program is run as written, with specialize applied at run time, and
// after expansion; both runs must print want.out. The expanded source is
// then printed, parsed again and run a third time.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenarios found")
	}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			runScenario(t, file)
		})
	}
}

type scenario struct {
	archive  *txtar.Archive
	sections map[string]string
	cfg      *config.Config
	tables   []*capability.Table
}

func loadScenario(t *testing.T, file string) *scenario {
	t.Helper()
	archive, err := txtar.ParseFile(file)
	if err != nil {
		t.Fatal(err)
	}
	s := &scenario{archive: archive, sections: make(map[string]string), cfg: config.Default()}
	for _, f := range archive.Files {
		s.sections[f.Name] = string(f.Data)
	}
	if _, ok := s.sections["input.ts"]; !ok {
		t.Fatalf("%s: missing input.ts section", file)
	}
	if data, ok := s.sections["specialize.yaml"]; ok {
		if s.cfg, err = config.ParseConfig([]byte(data), "specialize.yaml"); err != nil {
			t.Fatal(err)
		}
	}
	if data, ok := s.sections["capabilities.yaml"]; ok {
		if s.tables, err = capability.ParseFile([]byte(data), "capabilities.yaml"); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

type runResult struct {
	out     string
	program *ast.Program
	diags   []*diagnostics.DiagnosticError
}

// run pushes src through the pipeline, expanding first when ctx is set.
func (s *scenario) run(src string, ctx *specialize.CompilationContext) runResult {
	var out bytes.Buffer
	stages := []pipeline.Processor{&lexer.LexerProcessor{}, &parser.ParserProcessor{}}
	if ctx != nil {
		stages = append(stages, New(ctx))
	}
	stages = append(stages, &evaluator.EvaluatorProcessor{
		Out:    &out,
		Config: s.cfg,
		Setup: func(e *evaluator.Evaluator) error {
			for _, tbl := range s.tables {
				if err := e.DefineTable(tbl); err != nil {
					return err
				}
			}
			return nil
		},
	})
	result := pipeline.New(stages...).Run(pipeline.NewContext("input.ts", src))
	return runResult{out: out.String(), program: result.AstRoot, diags: result.Errors}
}

func (s *scenario) context() *specialize.CompilationContext {
	ctx := specialize.NewContext(s.cfg, nil, nil)
	for _, tbl := range s.tables {
		ctx.RegisterTable(tbl.Name, tbl.Brand, tbl.Methods).Contract = tbl.Contract
	}
	return ctx
}

func codes(diags []*diagnostics.DiagnosticError) []string {
	var out []string
	for _, d := range diags {
		out = append(out, string(d.Code))
	}
	return out
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" && !strings.HasPrefix(l, "#") {
			out = append(out, l)
		}
	}
	return out
}

func runScenario(t *testing.T, file string) {
	s := loadScenario(t, file)
	src := s.sections["input.ts"]

	original := s.run(src, nil)
	for _, d := range original.diags {
		t.Errorf("unexpanded run: %v", d)
	}
	if *update {
		for i, f := range s.archive.Files {
			if f.Name == "want.out" {
				s.archive.Files[i].Data = []byte(original.out)
			}
		}
		if err := os.WriteFile(file, txtar.Format(s.archive), 0644); err != nil {
			t.Fatal(err)
		}
		return
	}
	want := s.sections["want.out"]
	if original.out != want {
		t.Errorf("unexpanded output:\n%s\nwant:\n%s", original.out, want)
	}

	ctx := s.context()
	expanded := s.run(src, ctx)
	printed := prettyprinter.Print(expanded.program)
	if got, wantCodes := strings.Join(codes(expanded.diags), " "), strings.Join(lines(s.sections["diagnostics"]), " "); got != wantCodes {
		t.Errorf("diagnostics = [%s], want [%s]\n%s", got, wantCodes, printed)
		for _, d := range expanded.diags {
			t.Log(d)
		}
	}
	if expanded.out != want {
		t.Errorf("expanded output:\n%s\nwant:\n%s\nexpanded source:\n%s", expanded.out, want, printed)
	}

	for _, l := range lines(s.sections["contains"]) {
		if !strings.Contains(printed, l) {
			t.Errorf("expanded source does not contain %q:\n%s", l, printed)
		}
	}
	added := generated(original.program, expanded.program)
	for _, l := range lines(s.sections["absent"]) {
		if strings.Contains(added, l) {
			t.Errorf("expanded statements contain %q:\n%s", l, added)
		}
	}
	if h, ok := s.sections["hoisted"]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			t.Fatal(err)
		}
		if got := ctx.Cache.Len(); got != n {
			t.Errorf("hoisted %d declarations, want %d\n%s", got, n, printed)
		}
		if got := strings.Count(printed, "const "+s.cfg.HoistPrefix); got != n {
			t.Errorf("expanded source declares %d hoisted names, want %d", got, n)
		}
	}

	// The printed form must be a program in its own right.
	reparsed := s.run(printed, nil)
	for _, d := range reparsed.diags {
		t.Errorf("reparsed run: %v\n%s", d, printed)
	}
	if reparsed.out != want {
		t.Errorf("reparsed output:\n%s\nwant:\n%s", reparsed.out, want)
	}
}

// generated prints the statements of expanded that do not occur, as
// printed, in original.
func generated(original, expanded *ast.Program) string {
	seen := make(map[string]bool, len(original.Statements))
	for _, stmt := range original.Statements {
		seen[prettyprinter.Print(stmt)] = true
	}
	var b strings.Builder
	for _, stmt := range expanded.Statements {
		if text := prettyprinter.Print(stmt); !seen[text] {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	c := diagnostics.NewCollector("test.ts")
	prog := parser.ParseSource("test.ts", src, c)
	if c.HasErrors() {
		t.Fatalf("parse errors: %v", c.Diagnostics)
	}
	return prog
}

func expandSource(t *testing.T, cfg *config.Config, src string) (string, *diagnostics.Collector, int) {
	t.Helper()
	prog := parseProgram(t, src)
	c := diagnostics.NewCollector("test.ts")
	ctx := specialize.NewContext(cfg, c, nil)
	sites := New(ctx).Expand(prog)
	return prettyprinter.Print(prog), c, sites
}

func TestExpandReportsMalformedCalls(t *testing.T) {
	src := `
// @capability number
const Sum = { concat: (x, y) => x + y, empty: 0 };
const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((a, b) => M.concat(a, b), M.empty);
const a = specialize();
const b = specializeInline(Sum);
const c = specialize(fold, Sum, Sum, Sum);
const noParams = () => 1;
const d = specialize(noParams, Sum);
`
	out, c, sites := expandSource(t, nil, src)
	if sites != 4 {
		t.Errorf("visited %d sites, want 4", sites)
	}
	want := []diagnostics.ErrorCode{diagnostics.ErrS004, diagnostics.ErrS004, diagnostics.ErrS004, diagnostics.ErrS004}
	got := c.Codes()
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("codes[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	for _, call := range []string{"specialize()", "specializeInline(Sum)", "specialize(fold, Sum, Sum, Sum)", "specialize(noParams, Sum)"} {
		if !strings.Contains(out, call) {
			t.Errorf("invalid call %s was rewritten:\n%s", call, out)
		}
	}
}

func TestExpandRecordsSites(t *testing.T) {
	prog := parseProgram(t, `
// @capability number Monoid
const Sum = { concat: (x, y) => x + y, empty: 0 };
const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((a, b) => M.concat(a, b), M.empty);
const a = specialize(fold, Sum);
const b = specializeInline(Sum, (M: Monoid<number>) => M.concat(1, 2));
const c = specialize();
`)
	e := New(specialize.NewContext(nil, nil, nil))
	if n := e.Expand(prog); n != 3 || len(e.Sites) != 3 {
		t.Fatalf("Expand = %d, Sites = %d, want 3", n, len(e.Sites))
	}
	want := []struct {
		macro  string
		result string
		line   int
	}{
		{"specialize", "__specialized_fold_", 5},
		{"specializeInline", "1 + 2", 6},
		{"specialize", "specialize()", 7},
	}
	for i, w := range want {
		site := e.Sites[i]
		if site.Macro != w.macro || site.Call.Token.Line != w.line {
			t.Errorf("site %d = %s at line %d, want %s at line %d", i, site.Macro, site.Call.Token.Line, w.macro, w.line)
		}
		if got := prettyprinter.Print(site.Result); !strings.HasPrefix(got, w.result) {
			t.Errorf("site %d result = %s, want prefix %s", i, got, w.result)
		}
	}
	if e.Sites[2].Result != ast.Expression(e.Sites[2].Call) {
		t.Error("an invalid call should be recorded as left in place")
	}
}

func TestExpandIgnoresShadowedMacroName(t *testing.T) {
	src := `
// @capability number
const Sum = { concat: (x, y) => x + y, empty: 0 };
const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((a, b) => M.concat(a, b), M.empty);
const run = () => {
    const specialize = (f, t) => f;
    return specialize(fold, Sum);
};
`
	out, c, sites := expandSource(t, nil, src)
	if sites != 0 {
		t.Errorf("visited %d sites, want 0", sites)
	}
	if len(c.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Diagnostics)
	}
	if !strings.Contains(out, "return specialize(fold, Sum);") {
		t.Errorf("local call was rewritten:\n%s", out)
	}
}

func TestExpandRegistersAnnotatedTables(t *testing.T) {
	src := `
// @capability Array Functor
const ArrayFunctor = { map: (fa, f) => fa.map(f) };

/* @capability */
const Unbranded = { show: (x) => String(x) };

// @capability Box
let Mutable = { map: (fa, f) => f(fa) };

// @capability Box
const NotAnObject = 3;

const Plain = { map: (fa, f) => fa };
`
	prog := parseProgram(t, src)
	c := diagnostics.NewCollector("test.ts")
	ctx := specialize.NewContext(nil, c, nil)
	New(ctx).Expand(prog)

	functor, ok := ctx.Registry.Lookup("ArrayFunctor")
	if !ok {
		t.Fatal("ArrayFunctor not registered")
	}
	if functor.Brand != "Array" || functor.Contract != "Functor" {
		t.Errorf("ArrayFunctor = brand %q contract %q", functor.Brand, functor.Contract)
	}
	unbranded, ok := ctx.Registry.Lookup("Unbranded")
	if !ok || unbranded.Brand != "Unbranded" {
		t.Errorf("Unbranded should default its brand to its name, got %+v", unbranded)
	}
	for _, name := range []string{"Mutable", "NotAnObject", "Plain"} {
		if _, ok := ctx.Registry.Lookup(name); ok {
			t.Errorf("%s should not be registered", name)
		}
	}
	got := c.Codes()
	if len(got) != 2 || got[0] != diagnostics.ErrS006 || got[1] != diagnostics.ErrS006 {
		t.Errorf("codes = %v, want [S006 S006]", got)
	}
}

func TestExpandOptOutOnCallLine(t *testing.T) {
	src := `
const Plain = { concat: (x, y) => x + y, empty: 0 };
const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((a, b) => M.concat(a, b), M.empty);
const quiet = specialize(fold, Plain); // @no-specialize-warn
const loud = specialize(fold, Plain);
`
	_, c, _ := expandSource(t, nil, src)
	got := c.Codes()
	if len(got) != 1 || got[0] != diagnostics.ErrS001 {
		t.Fatalf("codes = %v, want [S001]", got)
	}
	if line := c.Diagnostics[0].Token.Line; line != 5 {
		t.Errorf("warning on line %d, want 5", line)
	}
}

func TestExpandCustomMacroNames(t *testing.T) {
	cfg := config.Default()
	cfg.SpecializeName = "spec"
	src := `
// @capability number
const Sum = { concat: (x, y) => x + y, empty: 0 };
const fold = (M: Monoid<number>, xs: number[]): number => xs.reduce((a, b) => M.concat(a, b), M.empty);
const a = spec(fold, Sum);
const b = specialize(fold, Sum);
`
	out, _, sites := expandSource(t, cfg, src)
	if sites != 1 {
		t.Errorf("visited %d sites, want 1", sites)
	}
	if strings.Contains(out, "spec(fold, Sum)") {
		t.Errorf("configured macro was not expanded:\n%s", out)
	}
	if !strings.Contains(out, "specialize(fold, Sum)") {
		t.Errorf("default name should no longer be a macro:\n%s", out)
	}
}
