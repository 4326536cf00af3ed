package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// AssignedNames collects every identifier that is the target of an
// assignment or update anywhere in n.
func AssignedNames(n ast.Node) map[string]bool {
	out := make(map[string]bool)
	ast.Inspect(n, func(node ast.Node) bool {
		switch e := node.(type) {
		case *ast.AssignExpression:
			if id, ok := e.Target.(*ast.Identifier); ok {
				out[id.Value] = true
			}
		case *ast.UpdateExpression:
			if id, ok := e.Target.(*ast.Identifier); ok {
				out[id.Value] = true
			}
		}
		return true
	})
	return out
}

// hasSideEffects reports whether evaluating e may call, assign or update.
// Function literals are inert: their bodies run later.
func hasSideEffects(e ast.Expression) bool {
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		if found {
			return false
		}
		switch n.(type) {
		case *ast.ArrowFunction:
			return false
		case *ast.CallExpression, *ast.AssignExpression, *ast.UpdateExpression:
			found = true
			return false
		}
		return true
	})
	return found
}

func isLiteral(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral:
		return true
	case *ast.Identifier:
		return n.Value == "undefined"
	case *ast.PrefixExpression:
		_, num := n.Right.(*ast.NumberLiteral)
		return num && (n.Operator == "-" || n.Operator == "+")
	}
	return false
}

func hasSpread(args []ast.Expression) bool {
	for _, a := range args {
		if _, ok := a.(*ast.SpreadElement); ok {
			return true
		}
	}
	return false
}

func freeOf(es ...ast.Node) map[string]bool {
	out := make(map[string]bool)
	for _, e := range es {
		if e == nil {
			continue
		}
		for name := range ast.FreeVariables(e) {
			out[name] = true
		}
	}
	return out
}

// renameBinders alpha-converts every binder inside fn whose name is in
// taken, except the parameters in keep.
func renameBinders(names *NameGenerator, fn *ast.ArrowFunction, taken map[string]bool, keep map[*ast.Parameter]bool) {
	if len(taken) == 0 {
		return
	}
	w := &Walker{Scope: NewScope(nil)}
	w.Bind = func(w *Walker, b *Binding) {
		if !taken[b.Name] {
			return
		}
		if p, ok := b.Decl.(*ast.Parameter); ok && keep[p] {
			return
		}
		b.Name = names.Fresh(b.Name)
	}
	w.Function(fn)
}

// use is one read of a method parameter, in evaluation order.
type use struct {
	param    int
	deferred bool // inside a nested function or a branch that may not run
	effects  int  // calls and assignments evaluated before this read
}

// scanUses records parameter reads and effects of body in the order they
// are evaluated.
type usageScan struct {
	params  map[string]int
	uses    []use
	effects int
}

func (s *usageScan) walk(n ast.Node, deferred bool) {
	if n == nil {
		return
	}
	switch e := n.(type) {
	case *ast.Identifier:
		if i, ok := s.params[e.Value]; ok {
			s.uses = append(s.uses, use{param: i, deferred: deferred, effects: s.effects})
		}
		return
	case *ast.ArrowFunction:
		inner := s
		for _, p := range e.Parameters {
			if _, shadowed := s.params[p.Name.Value]; !shadowed {
				continue
			}
			if inner == s {
				inner = &usageScan{params: make(map[string]int, len(s.params))}
				for name, i := range s.params {
					inner.params[name] = i
				}
			}
			delete(inner.params, p.Name.Value)
		}
		for _, p := range e.Parameters {
			inner.walk(p.Default, true)
		}
		inner.effects = s.effects
		inner.walk(e.Body, true)
		if inner != s {
			s.uses = append(s.uses, inner.uses...)
			s.effects = inner.effects
		}
		return
	case *ast.CallExpression:
		s.walk(e.Function, deferred)
		for _, a := range e.Arguments {
			s.walk(a, deferred)
		}
		s.effects++
		return
	case *ast.AssignExpression:
		s.walk(e.Target, deferred)
		s.walk(e.Value, deferred)
		s.effects++
		return
	case *ast.UpdateExpression:
		s.walk(e.Target, deferred)
		s.effects++
		return
	case *ast.ConditionalExpression:
		s.walk(e.Condition, deferred)
		s.walk(e.Consequence, true)
		s.walk(e.Alternative, true)
		return
	case *ast.InfixExpression:
		s.walk(e.Left, deferred)
		switch e.Operator {
		case "&&", "||", "??":
			s.walk(e.Right, true)
		default:
			s.walk(e.Right, deferred)
		}
		return
	case ast.Type:
		return
	}
	for _, c := range ast.Children(n) {
		s.walk(c, deferred)
	}
}

// argPlan decides, per argument, whether it can be substituted directly
// or must be evaluated once into a const.
type argPlan struct {
	subst map[int]ast.Expression
	bound []int
}

func (r *rewriter) planArguments(params []string, body ast.Expression, args []ast.Expression) argPlan {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}
	scan := &usageScan{params: index}
	scan.walk(body, false)
	counts := make([]int, len(params))
	for _, u := range scan.uses {
		counts[u.param]++
	}

	plan := argPlan{subst: make(map[int]ast.Expression)}
	var complex []int
	for i := range params {
		if i >= len(args) {
			plan.subst[i] = undefinedAt(body.GetToken())
			continue
		}
		arg := args[i]
		switch a := arg.(type) {
		case *ast.Identifier:
			if isLiteral(a) || !r.assigned[a.Value] {
				plan.subst[i] = arg
				continue
			}
		case *ast.ArrowFunction:
			if counts[i] <= 1 {
				plan.subst[i] = arg
				continue
			}
		default:
			if isLiteral(arg) {
				plan.subst[i] = arg
				continue
			}
		}
		complex = append(complex, i)
	}

	// Complex arguments are substituted only when each is read exactly once,
	// unconditionally, in argument order and before any effect in the body.
	inOrder := true
	last := -1
	for _, u := range scan.uses {
		if !contains(complex, u.param) {
			continue
		}
		if u.deferred || counts[u.param] != 1 || u.param < last || u.effects > 0 {
			inOrder = false
			break
		}
		last = u.param
	}
	for _, i := range complex {
		if counts[i] == 0 && hasSideEffects(args[i]) {
			inOrder = false
		}
	}
	for _, i := range complex {
		if inOrder {
			plan.subst[i] = args[i]
		} else {
			plan.bound = append(plan.bound, i)
		}
	}
	for i := len(params); i < len(args); i++ {
		if hasSideEffects(args[i]) {
			plan.bound = append(plan.bound, i)
		}
	}
	return plan
}

func contains(xs []int, x int) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

// substitute replaces free occurrences of the parameters in body.
func substitute(params []string, body ast.Expression, repl map[int]ast.Expression) ast.Expression {
	root := NewScope(nil)
	targets := make(map[*Binding]ast.Expression, len(params))
	for i, p := range params {
		b := root.Declare(p, BindParam, nil, nil)
		if e, ok := repl[i]; ok {
			targets[b] = e
		}
	}
	w := &Walker{Scope: root}
	w.Expr = func(w *Walker, e ast.Expression) (ast.Expression, bool) {
		id, ok := e.(*ast.Identifier)
		if !ok {
			return nil, false
		}
		if with, ok := targets[w.Scope.Lookup(id.Value)]; ok {
			return ast.CloneExpression(with), true
		}
		return id, true
	}
	return w.Expression(body)
}

// inlineMethod splices the body of m applied to args. It fails when the
// body cannot be turned into an expression.
func (r *rewriter) inlineMethod(m *capability.Method, args []ast.Expression, at token.Token) (ast.Expression, Reason) {
	body := ast.CloneExpression(m.Body)

	// Binders in the method must not capture names the arguments use.
	holder := arrowAt(nil, body, at)
	keep := make(map[*ast.Parameter]bool, len(m.Params))
	for _, p := range m.Params {
		param := paramAt(p, false, at)
		holder.Parameters = append(holder.Parameters, param)
		keep[param] = true
	}
	argFree := make(map[string]bool)
	for _, a := range args {
		for name := range ast.FreeVariables(a) {
			argFree[name] = true
		}
	}
	renameBinders(r.ctx.Names, holder, argFree, keep)
	body = holder.Body

	if block, ok := body.(*ast.BlockStatement); ok {
		expr, c := InlineBlock(block)
		if c.Kind == Rejected {
			return nil, c.Reason
		}
		body = expr
	}

	plan := r.planArguments(m.Params, body, args)
	var stmts []ast.Statement
	for _, i := range plan.bound {
		base := "arg"
		if i < len(m.Params) {
			base = m.Params[i]
		}
		name := r.ctx.Names.Fresh(base)
		stmts = append(stmts, constAt(name, args[i], at))
		if i < len(m.Params) {
			plan.subst[i] = identAt(name, at)
		}
	}
	out := substitute(m.Params, body, plan.subst)
	if len(stmts) == 0 {
		return out, ReasonNone
	}
	return iife(append(stmts, returnAt(out, at)), at), ReasonNone
}
