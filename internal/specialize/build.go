package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// Constructors for synthesized nodes. Positions are copied from at so
// diagnostics on generated code still point at the originating site.

func identAt(name string, at token.Token) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Type: token.IDENT, Lexeme: name, Line: at.Line, Column: at.Column}, Value: name}
}

func undefinedAt(at token.Token) *ast.Identifier {
	return identAt("undefined", at)
}

func callAt(fn ast.Expression, args []ast.Expression, at token.Token) *ast.CallExpression {
	return &ast.CallExpression{Token: token.Token{Type: token.LPAREN, Lexeme: "(", Line: at.Line, Column: at.Column}, Function: fn, Arguments: args}
}

func constAt(name string, value ast.Expression, at token.Token) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{
		Token: token.Token{Type: token.CONST, Lexeme: "const", Line: at.Line, Column: at.Column},
		Kind:  ast.KindConst,
		Name:  identAt(name, at),
		Value: value,
	}
}

func returnAt(value ast.Expression, at token.Token) *ast.ReturnStatement {
	return &ast.ReturnStatement{Token: token.Token{Type: token.RETURN, Lexeme: "return", Line: at.Line, Column: at.Column}, Value: value}
}

func blockAt(stmts []ast.Statement, at token.Token) *ast.BlockStatement {
	return &ast.BlockStatement{Token: token.Token{Type: token.LBRACE, Lexeme: "{", Line: at.Line, Column: at.Column}, Statements: stmts}
}

func arrowAt(params []*ast.Parameter, body ast.Expression, at token.Token) *ast.ArrowFunction {
	return &ast.ArrowFunction{Token: token.Token{Type: token.LPAREN, Lexeme: "(", Line: at.Line, Column: at.Column}, Parameters: params, Body: body}
}

func paramAt(name string, rest bool, at token.Token) *ast.Parameter {
	id := identAt(name, at)
	return &ast.Parameter{Token: id.Token, Name: id, Rest: rest}
}

func spreadAt(arg ast.Expression, at token.Token) *ast.SpreadElement {
	return &ast.SpreadElement{Token: token.Token{Type: token.ELLIPSIS, Lexeme: "...", Line: at.Line, Column: at.Column}, Argument: arg}
}

func conditionalAt(cond, cons, alt ast.Expression, at token.Token) *ast.ConditionalExpression {
	return &ast.ConditionalExpression{
		Token:       token.Token{Type: token.QUESTION, Lexeme: "?", Line: at.Line, Column: at.Column},
		Condition:   cond,
		Consequence: cons,
		Alternative: alt,
	}
}

// iife wraps statements ending in a return into (() => { ... })().
func iife(stmts []ast.Statement, at token.Token) *ast.CallExpression {
	return callAt(arrowAt(nil, blockAt(stmts, at), at), nil, at)
}
