// Package specialize removes dictionary passing at compile time: given a
// generic function and the capability tables it is called with, it emits a
// copy of the function with the table methods inlined and the table
// parameters gone.
package specialize

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// CompilationContext owns everything a compilation run shares between
// specialization requests. It is single-threaded; independent units that
// are processed in parallel each need their own context.
type CompilationContext struct {
	Registry  *capability.Registry
	Contracts *capability.Contracts
	Cache     *Cache
	Names     *NameGenerator
	Scope     *Scope
	Config    *config.Config
	Reporter  diagnostics.Reporter
	Logger    *log.Logger

	Program *ast.Program

	anchor      ast.Statement
	assigned    map[string]bool
	specialized map[*ast.ArrowFunction]bool
}

// NewContext creates a context. A nil logger discards trace output; a nil
// reporter collects diagnostics nobody reads.
func NewContext(cfg *config.Config, reporter diagnostics.Reporter, logger *log.Logger) *CompilationContext {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if reporter == nil {
		reporter = diagnostics.NewCollector("")
	}
	ctx := &CompilationContext{
		Registry:  capability.NewRegistry(),
		Contracts: capability.NewContracts(cfg.Contracts),
		Cache:     NewCache(),
		Names:     NewNameGenerator(),
		Config:    cfg,
		Reporter:  reporter,
		Logger:    logger,
	}
	ctx.BeginUnit(nil)
	return ctx
}

// BeginUnit starts a new source unit: the dedup cache is flushed and the
// scope and name state are rebuilt from prog. Registered tables persist.
func (ctx *CompilationContext) BeginUnit(prog *ast.Program) {
	ctx.Program = prog
	ctx.Cache.Reset()
	ctx.Names.Reset()
	ctx.anchor = nil
	ctx.specialized = make(map[*ast.ArrowFunction]bool)
	ctx.Scope = ProgramScope(prog)
	if prog != nil {
		ctx.Names.Seed(prog)
		ctx.assigned = AssignedNames(prog)
	} else {
		ctx.assigned = make(map[string]bool)
	}
	for _, name := range ctx.Registry.Names() {
		ctx.Names.Reserve(name)
	}
}

// SetAnchor records the top-level statement currently being expanded;
// hoisted declarations created from now on are placed before it.
func (ctx *CompilationContext) SetAnchor(stmt ast.Statement) {
	ctx.anchor = stmt
}

// RegisterTable forwards to the registry. Re-registration replaces.
func (ctx *CompilationContext) RegisterTable(name, brand string, methods map[string]*capability.Method) *capability.Table {
	ctx.Logger.Printf("register table %s (brand %s, %d methods)", name, brand, len(methods))
	ctx.Names.Reserve(name)
	return ctx.Registry.Register(name, brand, methods)
}

// IsSpecialized reports whether fn was produced by this context.
func (ctx *CompilationContext) IsSpecialized(fn *ast.ArrowFunction) bool {
	return ctx.specialized[fn]
}

// Request is one specialization: the function expression, the table
// expressions and the call site they come from.
type Request struct {
	Function ast.Expression
	Tables   []ast.Expression
	Site     ast.Node
	// Scope is the scope at the call site; nil means program scope.
	Scope *Scope
	// OptOut silences warnings for this site.
	OptOut bool
	// Inline marks specializeInline: never hoisted, and a result without
	// parameters collapses to its body.
	Inline bool

	depth  int
	params []int // forced parameter positions, one per table
}

type result struct {
	expr        ast.Expression
	specialized bool
}

type boundTable struct {
	expr  ast.Expression
	name  string
	table *capability.Table
}

// Specialize expands one request. The returned expression replaces the
// call site. An error means the request itself is invalid; it has already
// been reported and the site should be left as written.
func Specialize(ctx *CompilationContext, req Request) (ast.Expression, error) {
	res, err := ctx.specialize(&req)
	if err != nil {
		return nil, err
	}
	return res.expr, nil
}

// SpecializeInline expands specializeInline(table, lambda).
func SpecializeInline(ctx *CompilationContext, table, lambda ast.Expression, site ast.Node, scope *Scope, optOut bool) (ast.Expression, error) {
	return Specialize(ctx, Request{
		Function: lambda,
		Tables:   []ast.Expression{table},
		Site:     site,
		Scope:    scope,
		OptOut:   optOut,
		Inline:   true,
	})
}

func (req *Request) token() token.Token {
	if req.Site != nil {
		return req.Site.GetToken()
	}
	if req.Function != nil {
		return req.Function.GetToken()
	}
	return token.Token{}
}

func (ctx *CompilationContext) specialize(req *Request) (result, error) {
	if req.Scope == nil {
		req.Scope = ctx.Scope
	}
	at := req.token()
	label := describe(req.Function)

	if len(req.Tables) == 0 {
		return result{}, ctx.fatal(req, at, "'%s' is specialized without any capability table", label)
	}
	if ctx.isSpecializedRef(req.Scope, req.Function) {
		ctx.Logger.Printf("%s is already specialized; returned unchanged", label)
		return result{expr: req.Function}, nil
	}
	tables, missing := ctx.resolveTables(req)
	fn, resolved := ResolveBody(req.Scope, req.Function)
	if resolved {
		if len(fn.Node.Parameters) == 0 {
			return result{}, ctx.fatal(req, at, "'%s' has no parameters, so it cannot take a capability table", label)
		}
		if len(req.Tables) > len(fn.Node.Parameters) {
			return result{}, ctx.fatal(req, at, "%d capability tables supplied but '%s' takes only %d parameter(s)",
				len(req.Tables), label, len(fn.Node.Parameters))
		}
	}
	if len(missing) > 0 {
		d := diagnostics.NewWarning(diagnostics.ErrS001, at, fmt.Sprintf(
			"capability table '%s' is not registered; emitting an unoptimized wrapper", strings.Join(missing, "', '"))).
			WithHint("annotate its declaration with // " + config.CapabilityMarker + " <Brand>, list it in a capabilities file, or add // " +
				ctx.Config.OptOutMarker + " to the call")
		out := ctx.fallback(req, d)
		if resolved {
			ctx.reportWrapperOrder(req, fn, label)
		}
		return out, nil
	}
	if !resolved {
		d := diagnostics.NewWarning(diagnostics.ErrS002, at, fmt.Sprintf(
			"the body of '%s' cannot be resolved statically; emitting an unoptimized wrapper", label)).
			WithHint("declare it as a const arrow function or a function declaration")
		return ctx.fallback(req, d), nil
	}

	params := DescribeParameters(fn.Node, ctx.Contracts, ctx.interfaces(req.Scope), ctx.Config.IsKindConstructor)
	if !HasEligible(params) {
		ctx.Logger.Printf("%s has no capability parameters; returned unchanged", label)
		return result{expr: req.Function}, nil
	}
	assigns, err := ctx.assign(req, params, tables)
	if err != nil {
		return result{}, ctx.fatal(req, at, "cannot specialize '%s': %v", label, err)
	}

	freeF := ast.FreeVariables(fn.Node)
	var tableExprs []ast.Node
	for _, t := range tables {
		tableExprs = append(tableExprs, t.expr)
	}
	freeT := freeOf(tableExprs...)
	hoist := ctx.Config.Hoist && !req.Inline &&
		sameAll(fn.Scope, ctx.Scope, freeF) && sameAll(req.Scope, ctx.Scope, freeT)
	if !hoist && !sameAll(req.Scope, fn.Scope, freeF) {
		d := diagnostics.NewWarning(diagnostics.ErrS002, at, fmt.Sprintf(
			"'%s' refers to bindings that are shadowed at this call site; emitting an unoptimized wrapper", label)).
			WithHint("move the call next to the declaration of '" + label + "' or rename the shadowing binding")
		return ctx.fallback(req, d), nil
	}

	if hoist {
		var brands, pairs []string
		for _, a := range assigns {
			t := tables[a.Table].table
			brands = append(brands, t.Brand)
			pairs = append(pairs, a.Param+"="+t.Name)
		}
		key := NewDedupKey(fn, brands, pairs)
		if e, ok := ctx.Cache.Lookup(key); ok {
			ctx.Logger.Printf("dedup hit for %s: %s", key, e.Name)
			return result{expr: identAt(e.Name, at), specialized: true}, nil
		}
		name := ctx.Names.Available(ctx.Config.HoistPrefix + fn.DisplayName() + "_" + key.Suffix())
		entry := ctx.Cache.Reserve(key, name, ctx.anchor)
		out := ctx.rewrite(req, fn, tables, assigns, ctx.Scope)
		ctx.Cache.Store(entry, constAt(name, out, fn.Node.Token))
		ctx.Logger.Printf("hoisted %s as %s", key, name)
		return result{expr: identAt(name, at), specialized: true}, nil
	}

	out := ctx.rewrite(req, fn, tables, assigns, req.Scope)
	if req.Inline && len(out.Parameters) == 0 && out.Block() == nil {
		return result{expr: out.Body, specialized: true}, nil
	}
	return result{expr: out, specialized: true}, nil
}

// resolveTables looks every table expression up by name. A name that a
// local binding shadows at the site is not the registered table.
func (ctx *CompilationContext) resolveTables(req *Request) ([]boundTable, []string) {
	var tables []boundTable
	var missing []string
	for _, e := range req.Tables {
		name := TableName(e)
		t, ok := ctx.Registry.Lookup(name)
		if ok {
			if id, isIdent := e.(*ast.Identifier); isIdent && !req.Scope.IsGlobal(id.Value) {
				ok = false
			}
		}
		if !ok {
			if name == "" {
				name = describe(e)
			}
			missing = append(missing, name)
			continue
		}
		ctx.Logger.Printf("table %s resolved (brand %s)", name, t.Brand)
		tables = append(tables, boundTable{expr: e, name: name, table: t})
	}
	return tables, missing
}

// TableName is the registry name a table expression refers to: the
// identifier itself, or the last property of a member chain.
func TableName(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Value
	case *ast.MemberExpression:
		if !n.Computed && n.Property != nil {
			return n.Property.Value
		}
	}
	return ""
}

func (ctx *CompilationContext) assign(req *Request, params []Param, tables []boundTable) ([]Assignment, error) {
	if req.params != nil {
		out := make([]Assignment, len(tables))
		for i, idx := range req.params {
			if !params[idx].Eligible {
				return nil, fmt.Errorf("parameter '%s' cannot take a capability table", params[idx].Name)
			}
			out[i] = Assignment{Table: i, Candidate: Candidate{Param: params[idx].Name, Index: idx, Tier: TierPositional}}
		}
		return out, nil
	}
	shapes := make([]TableShape, len(tables))
	for i, t := range tables {
		shapes[i] = ShapeOf(t.table)
	}
	assigns, err := MatchParameters(params, shapes, ctx.Contracts, ctx.Config.OverlapThreshold)
	if err != nil {
		return nil, err
	}
	for _, a := range assigns {
		ctx.Logger.Printf("table %s -> parameter %s (%s, overlap %d)", tables[a.Table].name, a.Param, a.Tier, a.Overlap)
		if a.Tier == TierPositional && ctx.Config.ReportPositionalFallback && req.depth == 0 {
			ctx.Reporter.Report(diagnostics.NewInfo(diagnostics.ErrS005, req.token(), fmt.Sprintf(
				"capability table '%s' was matched to parameter '%s' by position", tables[a.Table].name, a.Param)).
				WithHint("annotate the parameter with its contract type to make the match explicit"))
		}
	}
	return assigns, nil
}

func (ctx *CompilationContext) interfaces(scope *Scope) InterfaceLookup {
	return func(name string) ([]string, bool) {
		if d := scope.LookupInterface(name); d != nil {
			return d.MemberNames(), true
		}
		return nil, false
	}
}

func (ctx *CompilationContext) fatal(req *Request, at token.Token, format string, args ...interface{}) error {
	d := diagnostics.NewError(diagnostics.ErrS004, at, fmt.Sprintf(format, args...))
	if req.depth == 0 {
		ctx.Reporter.Report(d)
	}
	return d
}

// isSpecializedRef follows const aliases from e to see whether it names
// the output of an earlier specialization.
func (ctx *CompilationContext) isSpecializedRef(scope *Scope, e ast.Expression) bool {
	for hops := 0; hops < 16; hops++ {
		switch n := e.(type) {
		case *ast.ArrowFunction:
			return ctx.specialized[n]
		case *ast.Identifier:
			b := scope.Lookup(n.Value)
			if b == nil {
				return ctx.Cache.IsHoisted(n.Value)
			}
			d, ok := b.Decl.(*ast.VariableDeclaration)
			if !ok || b.Count != 1 || !d.IsConst() {
				return false
			}
			e, scope = d.Value, b.Scope
		default:
			return false
		}
	}
	return false
}

func sameAll(a, b *Scope, names map[string]bool) bool {
	for name := range names {
		if !SameBinding(a, b, name) {
			return false
		}
	}
	return true
}

// describe renders an expression for messages, shortened.
func describe(e ast.Expression) string {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Value
	}
	if e == nil {
		return "<nil>"
	}
	if _, ok := e.(*ast.ArrowFunction); ok {
		return "<arrow function>"
	}
	s := strings.Join(strings.Fields(printExpr(e)), " ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
