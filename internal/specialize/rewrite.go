package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
)

// capRef is a capability parameter of the function being rewritten and the
// table it receives.
type capRef struct {
	param string
	index int
	table *capability.Table
	expr  ast.Expression
}

type rewriter struct {
	ctx      *CompilationContext
	req      *Request
	fn       *Function
	caps     map[*Binding]*capRef
	assigned map[string]bool
}

// rewrite produces the specialized copy of fn. placement is the scope the
// result will be emitted into.
func (ctx *CompilationContext) rewrite(req *Request, fn *Function, tables []boundTable, assigns []Assignment, placement *Scope) *ast.ArrowFunction {
	clone := ast.CloneFunction(fn.Node)

	capParams := make(map[*ast.Parameter]*capRef, len(assigns))
	keep := make(map[*ast.Parameter]bool, len(assigns))
	var incoming []ast.Node
	for _, a := range assigns {
		bt := tables[a.Table]
		p := clone.Parameters[a.Index]
		capParams[p] = &capRef{param: a.Param, index: a.Index, table: bt.table, expr: bt.expr}
		keep[p] = true
		incoming = append(incoming, bt.expr)
		for _, m := range bt.table.Methods {
			incoming = append(incoming, m.Value)
		}
	}
	// Nothing declared inside the copy may capture a name the tables bring in.
	renameBinders(ctx.Names, clone, freeOf(incoming...), keep)

	r := &rewriter{
		ctx:      ctx,
		req:      req,
		fn:       fn,
		caps:     make(map[*Binding]*capRef, len(assigns)),
		assigned: AssignedNames(clone),
	}
	for name := range ctx.assigned {
		r.assigned[name] = true
	}
	w := &Walker{Scope: placement, Expr: r.expr}
	w.Bind = func(w *Walker, b *Binding) {
		if p, ok := b.Decl.(*ast.Parameter); ok {
			if ref, ok := capParams[p]; ok {
				r.caps[b] = ref
			}
		}
	}
	w.Function(clone)

	var params []*ast.Parameter
	for _, p := range clone.Parameters {
		if _, dropped := capParams[p]; !dropped {
			params = append(params, p)
		}
	}
	for _, a := range assigns {
		if f := placeholder(fn.Node, fn.Node.Parameters[a.Index], ctx.Config.IsKindConstructor); f != "" && tables[a.Table].table.Brand != "" {
			narrowFunction(clone, f, tables[a.Table].table.Brand, ctx.Config.IsKindConstructor)
		}
	}
	clone.Parameters = params

	if clone.Name == nil {
		clone.IsFunction = false
		if block := clone.Block(); block != nil {
			if e, c := InlineBlock(block); c.Kind != Rejected {
				clone.Body = e
			}
		}
	}
	ctx.specialized[clone] = true
	return clone
}

// capOf returns the capability parameter e refers to, if any.
func (r *rewriter) capOf(w *Walker, e ast.Expression) *capRef {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil
	}
	b := w.Scope.Lookup(id.Value)
	if b == nil {
		return nil
	}
	return r.caps[b]
}

func (r *rewriter) expr(w *Walker, e ast.Expression) (ast.Expression, bool) {
	switch n := e.(type) {
	case *ast.CallExpression:
		if me, ok := n.Function.(*ast.MemberExpression); ok && !n.Optional && !me.Optional {
			if ref := r.capOf(w, me.Object); ref != nil {
				if name := staticMember(me); name != "" {
					return r.methodCall(w, n, me, ref, name), true
				}
			}
		}
		return r.transitive(w, n)
	case *ast.MemberExpression:
		if n.Optional {
			return nil, false
		}
		if ref := r.capOf(w, n.Object); ref != nil {
			if name := staticMember(n); name != "" {
				return r.methodValue(n, ref, name, w.Scope), true
			}
		}
	case *ast.Identifier:
		if ref := r.capOf(w, n); ref != nil {
			return ast.CloneExpression(ref.expr), true
		}
	}
	return nil, false
}

// methodScopeSafe reports whether the free names of m mean the same at the
// inlining site as where the table was declared.
func (r *rewriter) methodScopeSafe(scope *Scope, m *capability.Method) bool {
	for name := range ast.FreeVariables(m.Value) {
		if !SameBinding(scope, r.ctx.Scope, name) {
			return false
		}
	}
	return true
}

func (r *rewriter) methodCall(w *Walker, call *ast.CallExpression, me *ast.MemberExpression, ref *capRef, name string) ast.Expression {
	for i, a := range call.Arguments {
		call.Arguments[i] = w.Expression(a)
	}
	residual := func() ast.Expression {
		me.Object = ast.CloneExpression(ref.expr)
		return call
	}
	m, ok := ref.table.Method(name)
	if !ok {
		r.ctx.Logger.Printf("%s: table %s has no method %s; call left in place", r.fn.DisplayName(), ref.table.Name, name)
		return residual()
	}
	if hasSpread(call.Arguments) {
		return residual()
	}
	if !r.methodScopeSafe(w.Scope, m) {
		r.warn(diagnostics.NewWarning(diagnostics.ErrS003, call.Token,
			"method '"+ref.table.Name+"."+name+"' refers to names shadowed inside '"+r.fn.DisplayName()+"'; the call is not inlined"))
		return residual()
	}
	if !m.Inlineable() {
		if !isStableValue(m.Value) {
			return residual()
		}
		return callAt(ast.CloneExpression(m.Value), call.Arguments, call.Token)
	}
	out, reason := r.inlineMethod(m, call.Arguments, call.Token)
	if reason != ReasonNone {
		r.warn(diagnostics.NewWarning(diagnostics.ErrS003, call.Token,
			"method '"+ref.table.Name+"."+name+"' cannot be inlined: "+string(reason)).
			WithHint("the call keeps going through the table; rewrite the method as a single expression to inline it"))
		return residual()
	}
	r.ctx.Logger.Printf("%s: inlined %s.%s", r.fn.DisplayName(), ref.table.Name, name)
	return out
}

// methodValue handles a method read without a call, such as passing
// F.map along as a callback.
func (r *rewriter) methodValue(me *ast.MemberExpression, ref *capRef, name string, scope *Scope) ast.Expression {
	if m, ok := ref.table.Method(name); ok && isStableValue(m.Value) && r.methodScopeSafe(scope, m) {
		return ast.CloneExpression(m.Value)
	}
	me.Object = ast.CloneExpression(ref.expr)
	return me
}

func (r *rewriter) warn(d *diagnostics.DiagnosticError) {
	if r.req.OptOut {
		r.ctx.Logger.Printf("suppressed: %s", d.Message)
		return
	}
	r.ctx.Reporter.Report(d)
}

// isStableValue reports whether copying v to each use site evaluates to
// the same value the table holds.
func isStableValue(v ast.Expression) bool {
	switch n := v.(type) {
	case *ast.Identifier, *ast.ArrowFunction:
		return true
	case *ast.MemberExpression:
		return !n.Computed && !n.Optional && isStableValue(n.Object)
	}
	return isLiteral(v)
}
