package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
)

// Walker rewrites a tree in place while tracking lexical scopes. Every
// variant of the closed node set has an explicit case; leaves fall through
// unchanged.
type Walker struct {
	Scope *Scope

	// Expr runs before the default traversal of each expression. When it
	// reports handled, its result replaces the expression and the children
	// are not visited (the hook may walk them itself).
	Expr func(w *Walker, e ast.Expression) (ast.Expression, bool)

	// Bind runs for each binder right after it is declared. It may rename
	// the binder by setting b.Name.
	Bind func(w *Walker, b *Binding)

	// Statement runs before each statement is walked.
	Statement func(w *Walker, s ast.Statement)
}

func (w *Walker) push() { w.Scope = NewScope(w.Scope) }
func (w *Walker) pop()  { w.Scope = w.Scope.parent }

func (w *Walker) bind(name string, kind BindingKind, decl ast.Node, ident *ast.Identifier) *Binding {
	b := w.Scope.Declare(name, kind, decl, ident)
	if w.Bind != nil && b.Count == 1 {
		w.Bind(w, b)
	}
	if ident != nil {
		ident.Value = b.Name
	}
	return b
}

func (w *Walker) declareStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.VariableDeclaration:
			w.bind(d.Name.Value, declarationKind(d.Kind), d, d.Name)
		case *ast.FunctionDeclaration:
			w.bind(d.Name.Value, BindFunction, d, d.Name)
		case *ast.InterfaceDeclaration:
			w.Scope.types[d.Name.Value] = d
		}
	}
}

// Statements walks a statement list in the current scope; the caller has
// already declared its names.
func (w *Walker) Statements(stmts []ast.Statement) {
	for i, s := range stmts {
		stmts[i] = w.Stmt(s)
	}
}

// Block walks a block in a fresh scope.
func (w *Walker) Block(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	w.push()
	defer w.pop()
	w.declareStatements(b.Statements)
	w.Statements(b.Statements)
}

func (w *Walker) Stmt(s ast.Statement) ast.Statement {
	if s == nil {
		return nil
	}
	if w.Statement != nil {
		w.Statement(w, s)
	}
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		if n.Value != nil {
			n.Value = w.Expression(n.Value)
		}
	case *ast.FunctionDeclaration:
		w.Function(n.Function)
	case *ast.ReturnStatement:
		if n.Value != nil {
			n.Value = w.Expression(n.Value)
		}
	case *ast.IfStatement:
		n.Condition = w.Expression(n.Condition)
		n.Consequence = w.scoped(n.Consequence)
		if n.Alternative != nil {
			n.Alternative = w.scoped(n.Alternative)
		}
	case *ast.BlockStatement:
		w.Block(n)
	case *ast.ExpressionStatement:
		n.Expression = w.Expression(n.Expression)
	case *ast.ForStatement:
		w.push()
		if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
			w.bind(vd.Name.Value, declarationKind(vd.Kind), vd, vd.Name)
		}
		if n.Init != nil {
			n.Init = w.Stmt(n.Init)
		}
		if n.Condition != nil {
			n.Condition = w.Expression(n.Condition)
		}
		if n.Update != nil {
			n.Update = w.Expression(n.Update)
		}
		n.Body = w.scoped(n.Body)
		w.pop()
	case *ast.ForOfStatement:
		n.Iterable = w.Expression(n.Iterable)
		w.push()
		w.bind(n.Name.Value, declarationKind(n.Kind), n, n.Name)
		n.Body = w.scoped(n.Body)
		w.pop()
	case *ast.WhileStatement:
		n.Condition = w.Expression(n.Condition)
		n.Body = w.scoped(n.Body)
	case *ast.TryStatement:
		w.Block(n.Block)
		if n.Handler != nil {
			w.push()
			if n.Param != nil {
				w.bind(n.Param.Value, BindCatch, n, n.Param)
			}
			w.Block(n.Handler)
			w.pop()
		}
		w.Block(n.Finalizer)
	case *ast.ThrowStatement:
		n.Value = w.Expression(n.Value)
	}
	return s
}

// scoped walks a statement used as a branch or loop body. A non-block
// declaration there still gets its own scope.
func (w *Walker) scoped(s ast.Statement) ast.Statement {
	if _, isBlock := s.(*ast.BlockStatement); isBlock {
		return w.Stmt(s)
	}
	w.push()
	defer w.pop()
	w.declareStatements([]ast.Statement{s})
	return w.Stmt(s)
}

// Function walks a function in its own scope: the name of a named function
// expression, then the parameters, then the body.
func (w *Walker) Function(fn *ast.ArrowFunction) {
	w.push()
	defer w.pop()
	if fn.Name != nil {
		w.bind(fn.Name.Value, BindFunction, fn, fn.Name)
	}
	for _, p := range fn.Parameters {
		w.bind(p.Name.Value, BindParam, p, p.Name)
	}
	for _, p := range fn.Parameters {
		if p.Default != nil {
			p.Default = w.Expression(p.Default)
		}
	}
	if block := fn.Block(); block != nil {
		w.declareStatements(block.Statements)
		w.Statements(block.Statements)
		return
	}
	fn.Body = w.Expression(fn.Body)
}

func (w *Walker) Expression(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	if w.Expr != nil {
		if out, handled := w.Expr(w, e); handled {
			return out
		}
	}
	switch n := e.(type) {
	case *ast.Identifier:
		if b := w.Scope.Lookup(n.Value); b != nil && b.Name != n.Value {
			n.Value = b.Name
		}
	case *ast.ArrayLiteral:
		w.expressions(n.Elements)
	case *ast.ObjectLiteral:
		for _, p := range n.Properties {
			p.Value = w.Expression(p.Value)
			if p.Shorthand {
				if id, ok := p.Value.(*ast.Identifier); !ok || id.Value != p.Key {
					p.Shorthand = false
				}
			}
		}
	case *ast.ArrowFunction:
		w.Function(n)
	case *ast.CallExpression:
		n.Function = w.Expression(n.Function)
		w.expressions(n.Arguments)
	case *ast.MemberExpression:
		n.Object = w.Expression(n.Object)
		if n.Computed {
			n.Index = w.Expression(n.Index)
		}
	case *ast.ConditionalExpression:
		n.Condition = w.Expression(n.Condition)
		n.Consequence = w.Expression(n.Consequence)
		n.Alternative = w.Expression(n.Alternative)
	case *ast.PrefixExpression:
		n.Right = w.Expression(n.Right)
	case *ast.InfixExpression:
		n.Left = w.Expression(n.Left)
		n.Right = w.Expression(n.Right)
	case *ast.AssignExpression:
		n.Target = w.Expression(n.Target)
		n.Value = w.Expression(n.Value)
	case *ast.UpdateExpression:
		n.Target = w.Expression(n.Target)
	case *ast.SpreadElement:
		n.Argument = w.Expression(n.Argument)
	case *ast.BlockStatement:
		w.Block(n)
	}
	return e
}

func (w *Walker) expressions(es []ast.Expression) {
	for i, e := range es {
		es[i] = w.Expression(e)
	}
}
