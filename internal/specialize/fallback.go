package specialize

import (
	"fmt"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/prettyprinter"
)

// fallback emits the unoptimized partial application
//
//	(...args) => fn(T1, ..., Tn, ...args)
//
// and reports d unless the site opted out. Expressions that are not safe
// to evaluate on every call are evaluated once up front.
func (ctx *CompilationContext) fallback(req *Request, d *diagnostics.DiagnosticError) result {
	if req.depth == 0 {
		if req.OptOut {
			ctx.Logger.Printf("suppressed: %s", d.Message)
		} else {
			ctx.Reporter.Report(d)
		}
	}
	at := req.token()

	var pre []ast.Statement
	once := func(e ast.Expression, base string) ast.Expression {
		if ctx.evaluatesOnce(e) {
			return e
		}
		name := ctx.Names.Fresh(base)
		pre = append(pre, constAt(name, e, at))
		return identAt(name, at)
	}
	fn := once(req.Function, "fn")
	var args []ast.Expression
	for _, t := range req.Tables {
		args = append(args, once(t, "table"))
	}

	rest := "args"
	if ctx.Names.Taken(rest) {
		rest = ctx.Names.Fresh(rest)
	} else {
		ctx.Names.Reserve(rest)
	}
	args = append(args, spreadAt(identAt(rest, at), at))
	wrapper := arrowAt([]*ast.Parameter{paramAt(rest, true, at)}, callAt(fn, args, at), at)
	if len(pre) == 0 {
		return result{expr: wrapper}
	}
	return result{expr: iife(append(pre, returnAt(wrapper, at)), at)}
}

// reportWrapperOrder flags a wrapper that hands a table to a parameter
// which cannot take one. At run time the table goes to the parameter the
// matcher picks, so the two forms disagree on argument positions.
func (ctx *CompilationContext) reportWrapperOrder(req *Request, fn *Function, label string) {
	if req.depth != 0 || req.OptOut {
		return
	}
	params := DescribeParameters(fn.Node, ctx.Contracts, ctx.interfaces(req.Scope), ctx.Config.IsKindConstructor)
	for i := 0; i < len(req.Tables) && i < len(params); i++ {
		if params[i].Eligible {
			continue
		}
		ctx.Reporter.Report(diagnostics.NewInfo(diagnostics.ErrS005, req.token(), fmt.Sprintf(
			"the unoptimized wrapper passes table %d as argument %d of '%s', but parameter '%s' cannot take a capability table",
			i+1, i+1, label, params[i].Name)).
			WithHint("move the capability parameters of '" + label + "' to the front, or register the table"))
		return
	}
}

// evaluatesOnce reports whether re-evaluating e on every wrapper call is
// indistinguishable from evaluating it once at the site.
func (ctx *CompilationContext) evaluatesOnce(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.Identifier:
		return !ctx.assigned[n.Value]
	case *ast.ArrowFunction:
		return true
	}
	return isLiteral(e)
}

func printExpr(e ast.Expression) string {
	return prettyprinter.Print(e)
}
