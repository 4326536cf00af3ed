package specialize

import (
	"fmt"

	"github.com/typesugar/typesugar-sub002/internal/ast"
)

type ClassKind int

const (
	Inlineable ClassKind = iota
	Flattenable
	Rejected
)

func (k ClassKind) String() string {
	switch k {
	case Inlineable:
		return "inlineable"
	case Flattenable:
		return "flattenable"
	}
	return "rejected"
}

type Reason string

const (
	ReasonNone         Reason = ""
	ReasonTry          Reason = "try/catch"
	ReasonLoop         Reason = "loop"
	ReasonMutable      Reason = "mutable binding"
	ReasonThrow        Reason = "throw"
	ReasonNoReturn     Reason = "no return statement"
	ReasonSideEffect   Reason = "side-effecting statement"
	ReasonFallsThrough Reason = "a path falls through without returning"
	ReasonUnsupported  Reason = "unsupported statement"
)

// Classification is the verdict on one block body. It is computed per
// call and never cached.
type Classification struct {
	Kind   ClassKind
	Reason Reason
}

func (c Classification) String() string {
	if c.Reason == ReasonNone {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s (%s)", c.Kind, c.Reason)
}

// RejectedError carries the reason a body could not be turned into an
// expression.
type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string { return "body rejected: " + string(e.Reason) }

// Classify decides whether block can be spliced as an expression.
func Classify(block *ast.BlockStatement) Classification {
	_, c := InlineBlock(block)
	return c
}

// Flatten rewrites block into a single expression, turning guard returns
// into nested conditionals.
func Flatten(block *ast.BlockStatement) (ast.Expression, error) {
	if r := prescan(block.Statements); r != ReasonNone {
		return nil, &RejectedError{Reason: r}
	}
	if countReturns(block.Statements) == 0 {
		return nil, &RejectedError{Reason: ReasonNoReturn}
	}
	return flattenSeq(block.Statements, block)
}

// InlineBlock returns the expression equivalent of block together with its
// classification. The result is nil when the block is rejected. block is
// not modified; the expression shares its nodes.
func InlineBlock(block *ast.BlockStatement) (ast.Expression, Classification) {
	if r := prescan(block.Statements); r != ReasonNone {
		return nil, Classification{Kind: Rejected, Reason: r}
	}
	returns := countReturns(block.Statements)
	if returns == 0 {
		return nil, Classification{Kind: Rejected, Reason: ReasonNoReturn}
	}
	if e, ok := singleReturn(block, returns); ok {
		return e, Classification{Kind: Inlineable}
	}
	e, err := flattenSeq(block.Statements, block)
	if err != nil {
		return nil, Classification{Kind: Rejected, Reason: err.(*RejectedError).Reason}
	}
	return e, Classification{Kind: Flattenable}
}

// prescan rejects constructs that can never be expressed as a conditional
// expression, at any nesting depth outside nested functions.
func prescan(stmts []ast.Statement) Reason {
	for _, s := range stmts {
		if r := prescanStmt(s, false); r != ReasonNone {
			return r
		}
	}
	return ReasonNone
}

func prescanStmt(s ast.Statement, nested bool) Reason {
	switch n := s.(type) {
	case *ast.ForStatement, *ast.ForOfStatement, *ast.WhileStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return ReasonLoop
	case *ast.TryStatement:
		return ReasonTry
	case *ast.ThrowStatement:
		return ReasonThrow
	case *ast.VariableDeclaration:
		if !n.IsConst() {
			return ReasonMutable
		}
	case *ast.FunctionDeclaration:
		return ReasonSideEffect
	case *ast.ExpressionStatement:
		if !isInert(n.Expression) {
			return ReasonSideEffect
		}
	case *ast.IfStatement:
		if r := prescanBranch(n.Consequence); r != ReasonNone {
			return r
		}
		if n.Alternative != nil {
			return prescanBranch(n.Alternative)
		}
	case *ast.BlockStatement:
		if !nested {
			return ReasonUnsupported
		}
		for _, inner := range n.Statements {
			if r := prescanStmt(inner, false); r != ReasonNone {
				return r
			}
		}
	case *ast.ReturnStatement, *ast.InterfaceDeclaration:
	default:
		return ReasonUnsupported
	}
	return ReasonNone
}

// prescanBranch accepts one level of braces around an if branch.
func prescanBranch(s ast.Statement) Reason {
	return prescanStmt(s, true)
}

// isInert reports whether evaluating e as a statement can be dropped.
func isInert(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.Identifier, *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral, *ast.ArrowFunction:
		return true
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			if !isInert(el) {
				return false
			}
		}
		return true
	}
	return false
}

func countReturns(stmts []ast.Statement) int {
	count := 0
	for _, s := range stmts {
		ast.InspectShallow(s, func(n ast.Node) bool {
			if ast.IsFunctionNode(n) {
				return false
			}
			if _, ok := n.(*ast.ReturnStatement); ok {
				count++
			}
			return true
		})
	}
	return count
}

// singleReturn handles the straight-line case: consts and inert statements
// followed by one final return.
func singleReturn(block *ast.BlockStatement, returns int) (ast.Expression, bool) {
	stmts := block.Statements
	if returns != 1 || len(stmts) == 0 {
		return nil, false
	}
	ret, ok := stmts[len(stmts)-1].(*ast.ReturnStatement)
	if !ok {
		return nil, false
	}
	var consts []ast.Statement
	for _, s := range stmts[:len(stmts)-1] {
		switch n := s.(type) {
		case *ast.VariableDeclaration:
			consts = append(consts, n)
		case *ast.ExpressionStatement, *ast.InterfaceDeclaration:
		default:
			return nil, false
		}
	}
	value := returnValue(ret)
	if len(consts) == 0 {
		return value, true
	}
	return iife(append(consts, returnAt(value, ret.Token)), block.Token), true
}

func returnValue(ret *ast.ReturnStatement) ast.Expression {
	if ret.Value == nil {
		return undefinedAt(ret.Token)
	}
	return ret.Value
}

// flattenSeq handles leading const bindings, which keep their original
// evaluation point by opening a closure right there.
func flattenSeq(stmts []ast.Statement, at ast.Node) (ast.Expression, error) {
	i := 0
	var consts []ast.Statement
scan:
	for ; i < len(stmts); i++ {
		switch n := stmts[i].(type) {
		case *ast.VariableDeclaration:
			consts = append(consts, n)
		case *ast.ExpressionStatement, *ast.InterfaceDeclaration:
		default:
			break scan
		}
	}
	rest, err := flattenRest(stmts[i:], at)
	if err != nil {
		return nil, err
	}
	if len(consts) == 0 {
		return rest, nil
	}
	return iife(append(consts, returnAt(rest, at.GetToken())), at.GetToken()), nil
}

func flattenRest(stmts []ast.Statement, at ast.Node) (ast.Expression, error) {
	if len(stmts) == 0 {
		return nil, &RejectedError{Reason: ReasonFallsThrough}
	}
	switch n := stmts[0].(type) {
	case *ast.ReturnStatement:
		return returnValue(n), nil
	case *ast.IfStatement:
		cons, err := flattenBranch(n.Consequence)
		if err != nil {
			return nil, err
		}
		var alt ast.Expression
		if n.Alternative != nil {
			alt, err = flattenBranch(n.Alternative)
		} else {
			alt, err = flattenSeq(stmts[1:], at)
		}
		if err != nil {
			return nil, err
		}
		return conditionalAt(n.Condition, cons, alt, n.Token), nil
	case *ast.VariableDeclaration, *ast.ExpressionStatement, *ast.InterfaceDeclaration:
		return flattenSeq(stmts, stmts[0])
	}
	return nil, &RejectedError{Reason: ReasonUnsupported}
}

func flattenBranch(s ast.Statement) (ast.Expression, error) {
	if b, ok := s.(*ast.BlockStatement); ok {
		return flattenSeq(b.Statements, b)
	}
	return flattenSeq([]ast.Statement{s}, s)
}
