package evaluator

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
)

// evalStatements runs a statement list in env. Function declarations are
// bound before anything runs.
func (e *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) Object {
	for _, s := range stmts {
		if fd, ok := s.(*ast.FunctionDeclaration); ok {
			env.Set(fd.Name.Value, &Function{Name: fd.Name.Value, Node: fd.Function, Env: env})
		}
	}
	var result Object = UNDEFINED
	for _, s := range stmts {
		result = e.evalStatement(s, env)
		if isSignal(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) evalStatement(stmt ast.Statement, env *Environment) Object {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.evalExpression(s.Expression, env)
	case *ast.VariableDeclaration:
		return e.evalVariableDeclaration(s, env)
	case *ast.FunctionDeclaration, *ast.InterfaceDeclaration:
		return UNDEFINED
	case *ast.ReturnStatement:
		if s.Value == nil {
			return &ReturnValue{Value: UNDEFINED}
		}
		val := e.evalExpression(s.Value, env)
		if isThrown(val) {
			return val
		}
		return &ReturnValue{Value: val}
	case *ast.BlockStatement:
		return e.evalStatements(s.Statements, NewEnclosedEnvironment(env))
	case *ast.IfStatement:
		cond := e.evalExpression(s.Condition, env)
		if isThrown(cond) {
			return cond
		}
		if truthy(cond) {
			return e.evalStatement(s.Consequence, env)
		}
		if s.Alternative != nil {
			return e.evalStatement(s.Alternative, env)
		}
		return UNDEFINED
	case *ast.WhileStatement:
		return e.evalWhile(s, env)
	case *ast.ForStatement:
		return e.evalFor(s, env)
	case *ast.ForOfStatement:
		return e.evalForOf(s, env)
	case *ast.TryStatement:
		return e.evalTry(s, env)
	case *ast.ThrowStatement:
		val := e.evalExpression(s.Value, env)
		if isThrown(val) {
			return val
		}
		return &Thrown{Value: val, Token: s.Token}
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}
	}
	return e.typeError(stmt.GetToken(), "unsupported statement %T", stmt)
}

func (e *Evaluator) evalVariableDeclaration(s *ast.VariableDeclaration, env *Environment) Object {
	var val Object = UNDEFINED
	if s.Value != nil {
		val = e.evalExpression(s.Value, env)
		if isThrown(val) {
			return val
		}
		if fn, ok := val.(*Function); ok && fn.Name == "" {
			fn.Name = s.Name.Value
		}
	}
	if rec, ok := val.(*Record); ok && e.Program != nil {
		if _, contract, annotated := capability.ParseAnnotation(e.Program.CommentsOf(s)); annotated {
			e.tables[rec] = tableInfo{name: s.Name.Value, contract: contract}
		}
	}
	if s.IsConst() {
		env.SetConst(s.Name.Value, val)
	} else {
		env.Set(s.Name.Value, val)
	}
	return UNDEFINED
}

// loopBody runs one iteration. done is true when the loop must stop, with
// result as the loop's completion.
func (e *Evaluator) loopBody(body ast.Statement, env *Environment) (result Object, done bool) {
	r := e.evalStatement(body, env)
	switch r.(type) {
	case *BreakSignal:
		return UNDEFINED, true
	case *ReturnValue, *Thrown:
		return r, true
	}
	return UNDEFINED, false
}

func (e *Evaluator) evalWhile(s *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.evalExpression(s.Condition, env)
		if isThrown(cond) {
			return cond
		}
		if !truthy(cond) {
			return UNDEFINED
		}
		if r, done := e.loopBody(s.Body, env); done {
			return r
		}
	}
}

// evalFor gives every iteration its own copy of let bindings declared in
// the initializer, so closures see the value of their own iteration.
func (e *Evaluator) evalFor(s *ast.ForStatement, env *Environment) Object {
	loopEnv := NewEnclosedEnvironment(env)
	var perIteration []string
	if s.Init != nil {
		if r := e.evalStatement(s.Init, loopEnv); isThrown(r) {
			return r
		}
		if vd, ok := s.Init.(*ast.VariableDeclaration); ok && !vd.IsConst() {
			perIteration = append(perIteration, vd.Name.Value)
		}
	}
	for {
		if s.Condition != nil {
			cond := e.evalExpression(s.Condition, loopEnv)
			if isThrown(cond) {
				return cond
			}
			if !truthy(cond) {
				return UNDEFINED
			}
		}
		if r, done := e.loopBody(s.Body, loopEnv); done {
			return r
		}
		if len(perIteration) > 0 {
			next := NewEnclosedEnvironment(env)
			for _, name := range perIteration {
				v, _ := loopEnv.Get(name)
				next.Set(name, v)
			}
			loopEnv = next
		}
		if s.Update != nil {
			if r := e.evalExpression(s.Update, loopEnv); isThrown(r) {
				return r
			}
		}
	}
}

func (e *Evaluator) evalForOf(s *ast.ForOfStatement, env *Environment) Object {
	iterable := e.evalExpression(s.Iterable, env)
	if isThrown(iterable) {
		return iterable
	}
	var items []Object
	switch it := iterable.(type) {
	case *Array:
		items = it.Elements
	case *String:
		for _, ch := range it.Value {
			items = append(items, &String{Value: string(ch)})
		}
	default:
		return e.typeError(s.Token, "%s is not iterable", typeOf(iterable))
	}
	for i := 0; i < len(items); i++ {
		iterEnv := NewEnclosedEnvironment(env)
		if s.Kind == ast.KindConst {
			iterEnv.SetConst(s.Name.Value, items[i])
		} else {
			iterEnv.Set(s.Name.Value, items[i])
		}
		if r, done := e.loopBody(s.Body, iterEnv); done {
			return r
		}
		if arr, ok := iterable.(*Array); ok {
			items = arr.Elements
		}
	}
	return UNDEFINED
}

func (e *Evaluator) evalTry(s *ast.TryStatement, env *Environment) Object {
	result := e.evalStatement(s.Block, env)
	if th, ok := result.(*Thrown); ok && s.Handler != nil {
		handlerEnv := NewEnclosedEnvironment(env)
		if s.Param != nil {
			handlerEnv.Set(s.Param.Value, th.Value)
		}
		result = e.evalStatements(s.Handler.Statements, handlerEnv)
	}
	if s.Finalizer != nil {
		if fin := e.evalStatement(s.Finalizer, env); isSignal(fin) {
			return fin
		}
	}
	return result
}
