package ast

import (
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// Parameter is a formal parameter of a function or function type.
type Parameter struct {
	Token   token.Token
	Name    *Identifier
	Type    Type       // Optional annotation
	Rest    bool       // ...args
	Default Expression // Optional default value
}

func (p *Parameter) Accept(v Visitor)      { v.VisitParameter(p) }
func (p *Parameter) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token { return p.Token }

// ArrowFunction represents an anonymous function.
// (x: A, y) => x + y, <F>(F: Functor<F>) => { ... } or function name(x) { ... }
type ArrowFunction struct {
	Token      token.Token // The '(' / first parameter token, or 'function'
	Name       *Identifier // Only for named function expressions
	TypeParams []*Identifier
	Parameters []*Parameter
	ReturnType Type
	Body       Expression // An expression or a *BlockStatement
	IsFunction bool       // Written with the 'function' keyword
}

func (af *ArrowFunction) Accept(v Visitor)      { v.VisitArrowFunction(af) }
func (af *ArrowFunction) expressionNode()       {}
func (af *ArrowFunction) TokenLiteral() string  { return af.Token.Lexeme }
func (af *ArrowFunction) GetToken() token.Token { return af.Token }

// Block returns the body as a block, or nil for expression bodies.
func (af *ArrowFunction) Block() *BlockStatement {
	if b, ok := af.Body.(*BlockStatement); ok {
		return b
	}
	return nil
}

// ParamNames returns the parameter names in order.
func (af *ArrowFunction) ParamNames() []string {
	names := make([]string, len(af.Parameters))
	for i, p := range af.Parameters {
		names[i] = p.Name.Value
	}
	return names
}

// CallExpression represents a function call, e.g., f(x, ...ys)
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  Expression
	Arguments []Expression
	Optional  bool // f?.(x)
}

func (ce *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// MemberExpression represents obj.prop, obj?.prop or obj[index].
type MemberExpression struct {
	Token    token.Token // The '.', '?.' or '[' token
	Object   Expression
	Property *Identifier // nil when Computed
	Index    Expression  // set when Computed
	Computed bool
	Optional bool
}

func (me *MemberExpression) Accept(v Visitor)      { v.VisitMemberExpression(me) }
func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token { return me.Token }

// PropertyName returns the static property name, or "" for computed access.
func (me *MemberExpression) PropertyName() string {
	if me.Computed || me.Property == nil {
		return ""
	}
	return me.Property.Value
}

// ConditionalExpression represents cond ? a : b.
type ConditionalExpression struct {
	Token       token.Token // The '?' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ce *ConditionalExpression) Accept(v Visitor)      { v.VisitConditionalExpression(ce) }
func (ce *ConditionalExpression) expressionNode()       {}
func (ce *ConditionalExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ConditionalExpression) GetToken() token.Token { return ce.Token }

// PrefixExpression represents a prefix operation, e.g., -5, !ok or typeof x.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)      { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// InfixExpression represents a binary operation, e.g., a + b.
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)      { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// AssignExpression represents x = v, obj.x += v.
type AssignExpression struct {
	Token    token.Token
	Target   Expression
	Operator string // "=", "+=", "-="
	Value    Expression
}

func (ae *AssignExpression) Accept(v Visitor)      { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

// UpdateExpression represents i++ or --i.
type UpdateExpression struct {
	Token    token.Token
	Operator string
	Prefix   bool
	Target   Expression
}

func (ue *UpdateExpression) Accept(v Visitor)      { v.VisitUpdateExpression(ue) }
func (ue *UpdateExpression) expressionNode()       {}
func (ue *UpdateExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UpdateExpression) GetToken() token.Token { return ue.Token }

// SpreadElement represents ...expr in calls and array literals.
type SpreadElement struct {
	Token    token.Token // The '...' token
	Argument Expression
}

func (se *SpreadElement) Accept(v Visitor)      { v.VisitSpreadElement(se) }
func (se *SpreadElement) expressionNode()       {}
func (se *SpreadElement) TokenLiteral() string  { return se.Token.Lexeme }
func (se *SpreadElement) GetToken() token.Token { return se.Token }
