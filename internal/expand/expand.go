// Package expand is the front end of the specializer: it registers the
// capability tables a unit declares, finds specialize / specializeInline
// call sites in source order and splices the engine's output back in.
package expand

import (
	"fmt"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/pipeline"
	"github.com/typesugar/typesugar-sub002/internal/specialize"
)

type Expander struct {
	ctx *specialize.CompilationContext

	// Sites lists the macro calls of the last unit in source order.
	Sites []Site

	program *ast.Program
	stmt    ast.Statement
}

// Site is one specialize or specializeInline call and what replaced it.
// Result is the call itself when it was left in place.
type Site struct {
	Macro  string
	Call   *ast.CallExpression
	Result ast.Expression
}

func New(ctx *specialize.CompilationContext) *Expander {
	return &Expander{ctx: ctx}
}

// Process is the pipeline stage. Diagnostics go to the pipeline context.
func (e *Expander) Process(pctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if pctx.AstRoot == nil {
		return pctx
	}
	e.ctx.Reporter = pctx
	e.Expand(pctx.AstRoot)
	return pctx
}

// Expand rewrites prog in place and returns the number of call sites
// it visited.
func (e *Expander) Expand(prog *ast.Program) int {
	e.program = prog
	e.Sites = nil
	e.ctx.BeginUnit(prog)
	e.registerTables(prog)

	w := &specialize.Walker{Scope: e.ctx.Scope}
	w.Statement = func(w *specialize.Walker, s ast.Statement) {
		e.stmt = s
		if w.Scope.IsRoot() {
			e.ctx.SetAnchor(s)
		}
	}
	w.Expr = e.expr
	w.Statements(prog.Statements)

	e.spliceHoisted(prog)
	return len(e.Sites)
}

// registerTables registers every const object literal annotated with
// "@capability <Brand> [Contract]".
func (e *Expander) registerTables(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		decl, ok := stmt.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		brand, contract, ok := capability.ParseAnnotation(prog.CommentsOf(stmt))
		if !ok {
			continue
		}
		obj, isObj := decl.Value.(*ast.ObjectLiteral)
		if !decl.IsConst() || !isObj {
			e.ctx.Reporter.Report(diagnostics.NewWarning(diagnostics.ErrS006, decl.Token,
				fmt.Sprintf("'%s' is marked %s but is not a const object literal; it is not registered", decl.Name.Value, config.CapabilityMarker)))
			continue
		}
		if brand == "" {
			brand = decl.Name.Value
		}
		t, err := e.ctx.Registry.FromObjectLiteral(decl.Name.Value, brand, obj)
		if err != nil {
			e.ctx.Reporter.Report(diagnostics.NewWarning(diagnostics.ErrS006, decl.Token, err.Error()))
			continue
		}
		e.ctx.RegisterTable(t.Name, t.Brand, t.Methods).Contract = contract
	}
}

func (e *Expander) optedOut(call *ast.CallExpression) bool {
	marker := e.ctx.Config.OptOutMarker
	for _, c := range e.program.CommentsOf(e.stmt) {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return call.Token.HasComment(marker)
}

func (e *Expander) expr(w *specialize.Walker, x ast.Expression) (ast.Expression, bool) {
	call, ok := x.(*ast.CallExpression)
	if !ok || call.Optional {
		return nil, false
	}
	id, ok := call.Function.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	cfg := e.ctx.Config
	if id.Value != cfg.SpecializeName && id.Value != cfg.SpecializeInlineName {
		return nil, false
	}
	if w.Scope.Lookup(id.Value) != nil {
		// A local function of the same name is not the macro.
		return nil, false
	}
	for i, a := range call.Arguments {
		call.Arguments[i] = w.Expression(a)
	}
	out := e.expand(w, id.Value, call)
	e.Sites = append(e.Sites, Site{Macro: id.Value, Call: call, Result: out})
	return out, true
}

func (e *Expander) expand(w *specialize.Walker, macro string, call *ast.CallExpression) ast.Expression {
	args := call.Arguments
	for _, a := range args {
		if _, spread := a.(*ast.SpreadElement); spread {
			e.ctx.Logger.Printf("%s: spread arguments; call left for the runtime", macro)
			return call
		}
	}

	var out ast.Expression
	var err error
	switch macro {
	case e.ctx.Config.SpecializeInlineName:
		if len(args) != 2 {
			e.ctx.Reporter.Report(diagnostics.NewError(diagnostics.ErrS004, call.Token,
				fmt.Sprintf("%s expects a capability table and a function, got %d argument(s)", macro, len(args))))
			return call
		}
		out, err = specialize.SpecializeInline(e.ctx, args[0], args[1], call, w.Scope, e.optedOut(call))
	default:
		if len(args) == 0 {
			e.ctx.Reporter.Report(diagnostics.NewError(diagnostics.ErrS004, call.Token,
				fmt.Sprintf("%s expects a function and at least one capability table", macro)))
			return call
		}
		out, err = specialize.Specialize(e.ctx, specialize.Request{
			Function: args[0],
			Tables:   args[1:],
			Site:     call,
			Scope:    w.Scope,
			OptOut:   e.optedOut(call),
		})
	}
	if err != nil {
		return call
	}
	return out
}

// spliceHoisted inserts each hoisted declaration before the top-level
// statement that first needed it. Function declarations are callable
// before their own position, so their specializations go first.
func (e *Expander) spliceHoisted(prog *ast.Program) {
	hoisted := e.ctx.Cache.Hoisted()
	if len(hoisted) == 0 {
		return
	}
	before := make(map[ast.Statement][]ast.Statement)
	var front []ast.Statement
	for _, h := range hoisted {
		switch h.Anchor.(type) {
		case nil, *ast.FunctionDeclaration:
			front = append(front, h.Decl)
		default:
			before[h.Anchor] = append(before[h.Anchor], h.Decl)
		}
	}
	out := make([]ast.Statement, 0, len(prog.Statements)+len(hoisted))
	out = append(out, front...)
	for _, s := range prog.Statements {
		out = append(out, before[s]...)
		out = append(out, s)
	}
	prog.Statements = out
}
