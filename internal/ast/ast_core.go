package ast

import (
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Type is a Node that represents a type annotation.
type Type interface {
	Node
	typeNode()
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string
	Statements []Statement
	// Comments maps each parsed statement to the comments written directly
	// before it or on its last line.
	Comments map[Statement][]string
}

// CommentsOf returns the comments recorded for stmt.
func (p *Program) CommentsOf(stmt Statement) []string {
	if p == nil || p.Comments == nil {
		return nil
	}
	return p.Comments[stmt]
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Statements) == 0 {
		return token.Token{}
	}
	return p.Statements[0].GetToken()
}

// Identifier represents a name reference or a binding name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// NumberLiteral represents a numeric literal. All numbers are float64.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) Accept(v Visitor)     { v.VisitNumberLiteral(nl) }
func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}

// StringLiteral represents a string, e.g. "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)     { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// BooleanLiteral represents boolean literals true/false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor)     { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// NullLiteral represents null.
type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) Accept(v Visitor)     { v.VisitNullLiteral(n) }
func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Lexeme }
func (n *NullLiteral) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

// ArrayLiteral represents a list, e.g. [1, 2, ...rest]
type ArrayLiteral struct {
	Token    token.Token // The '[' token
	Elements []Expression
}

func (al *ArrayLiteral) Accept(v Visitor)     { v.VisitArrayLiteral(al) }
func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token {
	if al == nil {
		return token.Token{}
	}
	return al.Token
}

// Property is one entry of an object literal.
// key: value, key (shorthand), key(a) { ... } (method) or ...spread
type Property struct {
	Token     token.Token
	Key       string
	Value     Expression
	Shorthand bool
	Method    bool
	Spread    bool
}

// ObjectLiteral represents { key: value, ... }.
// Properties keep source order; the printer relies on it.
type ObjectLiteral struct {
	Token      token.Token // The '{' token
	Properties []*Property
}

func (ol *ObjectLiteral) Accept(v Visitor)     { v.VisitObjectLiteral(ol) }
func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Lexeme }
func (ol *ObjectLiteral) GetToken() token.Token {
	if ol == nil {
		return token.Token{}
	}
	return ol.Token
}

// Get returns the value of the last non-spread property named key.
func (ol *ObjectLiteral) Get(key string) (Expression, bool) {
	for i := len(ol.Properties) - 1; i >= 0; i-- {
		p := ol.Properties[i]
		if !p.Spread && p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}
