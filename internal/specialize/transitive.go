package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
)

// transitive re-specializes a resolvable callee that receives one of the
// capability parameters as a plain argument. The table lands on the
// callee's parameter at the same position. Past the depth bound, or when
// the callee cannot be specialized, the call is left to the default walk,
// which passes the table expression explicitly.
func (r *rewriter) transitive(w *Walker, call *ast.CallExpression) (ast.Expression, bool) {
	var forwarded []int
	var refs []*capRef
	for i, a := range call.Arguments {
		if ref := r.capOf(w, a); ref != nil {
			forwarded = append(forwarded, i)
			refs = append(refs, ref)
		}
	}
	if len(forwarded) == 0 || call.Optional {
		return nil, false
	}
	for i := 0; i < forwarded[len(forwarded)-1]; i++ {
		if _, spread := call.Arguments[i].(*ast.SpreadElement); spread {
			return nil, false
		}
	}
	depth := r.req.depth + 1
	if depth >= r.ctx.Config.MaxDepth {
		r.ctx.Logger.Printf("%s: depth bound %d reached; forwarding call left explicit", r.fn.DisplayName(), r.ctx.Config.MaxDepth)
		return nil, false
	}
	callee, ok := ResolveBody(w.Scope, call.Function)
	if !ok {
		return nil, false
	}
	for _, i := range forwarded {
		if i >= len(callee.Node.Parameters) || callee.Node.Parameters[i].Rest {
			return nil, false
		}
	}

	tables := make([]ast.Expression, len(refs))
	for i, ref := range refs {
		tables[i] = ast.CloneExpression(ref.expr)
	}
	sub := &Request{
		Function: call.Function,
		Tables:   tables,
		Site:     call,
		Scope:    w.Scope,
		OptOut:   r.req.OptOut,
		depth:    depth,
		params:   forwarded,
	}
	res, err := r.ctx.specialize(sub)
	if err != nil || !res.specialized {
		return nil, false
	}
	r.ctx.Logger.Printf("%s: forwarded %d table(s) to %s at depth %d", r.fn.DisplayName(), len(refs), callee.DisplayName(), depth)

	var args []ast.Expression
	for i, a := range call.Arguments {
		if contains(forwarded, i) {
			continue
		}
		args = append(args, w.Expression(a))
	}
	return callAt(res.expr, args, call.Token), true
}
