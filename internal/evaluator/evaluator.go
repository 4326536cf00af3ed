// Package evaluator runs host programs. It exists so that a program can be
// executed both as written, with specialize resolved at run time by
// partial application, and after expansion, and the two results compared.
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

const maxCallDepth = 2000

type Evaluator struct {
	Out       io.Writer
	Config    *config.Config
	Contracts *capability.Contracts

	GlobalEnv *Environment
	Program   *ast.Program

	interfaces map[string][]string
	tables     map[*Record]tableInfo
	callDepth  int
}

// tableInfo is what the runtime matcher knows about an annotated table.
type tableInfo struct {
	name     string
	contract string
}

func New(out io.Writer, cfg *config.Config) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Evaluator{
		Out:        out,
		Config:     cfg,
		Contracts:  capability.NewContracts(cfg.Contracts),
		interfaces: make(map[string][]string),
		tables:     make(map[*Record]tableInfo),
	}
	e.GlobalEnv = NewEnvironment()
	RegisterBuiltins(e, e.GlobalEnv)
	return e
}

// RuntimeError is an exception that escaped the program.
type RuntimeError struct {
	Value  Object
	Line   int
	Column int
}

func (r *RuntimeError) Error() string {
	if r.Line > 0 {
		return fmt.Sprintf("%d:%d: Uncaught %s", r.Line, r.Column, describeThrown(r.Value))
	}
	return "Uncaught " + describeThrown(r.Value)
}

// DefineTable binds a table that was declared outside the program, so
// residual references to it resolve.
func (e *Evaluator) DefineTable(t *capability.Table) error {
	if _, ok := e.GlobalEnv.Get(t.Name); ok {
		return nil
	}
	obj := e.Eval(t.ObjectLiteral(), e.GlobalEnv)
	if th, ok := obj.(*Thrown); ok {
		return &RuntimeError{Value: th.Value, Line: th.Token.Line, Column: th.Token.Column}
	}
	if rec, ok := obj.(*Record); ok {
		e.tables[rec] = tableInfo{name: t.Name, contract: t.Contract}
	}
	e.GlobalEnv.SetConst(t.Name, obj)
	return nil
}

// Run evaluates prog in the global environment.
func (e *Evaluator) Run(prog *ast.Program) error {
	e.Program = prog
	ast.Inspect(prog, func(n ast.Node) bool {
		if d, ok := n.(*ast.InterfaceDeclaration); ok {
			e.interfaces[d.Name.Value] = d.MemberNames()
		}
		return true
	})
	result := e.evalStatements(prog.Statements, e.GlobalEnv)
	switch r := result.(type) {
	case *Thrown:
		return &RuntimeError{Value: r.Value, Line: r.Token.Line, Column: r.Token.Column}
	case *BreakSignal, *ContinueSignal:
		return fmt.Errorf("%s outside of a loop", r.Inspect())
	}
	return nil
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Program:
		return e.evalStatements(node.Statements, env)
	case ast.Statement:
		return e.evalStatement(node, env)
	case ast.Expression:
		return e.evalExpression(node, env)
	}
	return UNDEFINED
}

// throwError raises a fresh error object of the given kind.
func (e *Evaluator) throwError(tok token.Token, kind, format string, args ...interface{}) *Thrown {
	rec := NewRecord()
	rec.Set("name", &String{Value: kind})
	rec.Set("message", &String{Value: fmt.Sprintf(format, args...)})
	return &Thrown{Value: rec, Token: tok}
}

func (e *Evaluator) typeError(tok token.Token, format string, args ...interface{}) *Thrown {
	return e.throwError(tok, "TypeError", format, args...)
}
