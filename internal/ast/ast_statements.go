package ast

import (
	"github.com/typesugar/typesugar-sub002/internal/token"
)

const (
	KindConst = "const"
	KindLet   = "let"
	KindVar   = "var"
)

// VariableDeclaration represents const/let/var bindings of a single name.
type VariableDeclaration struct {
	Token    token.Token // The 'const', 'let' or 'var' token
	Kind     string
	Name     *Identifier
	Type     Type // Optional
	Value    Expression
	Exported bool
}

func (vd *VariableDeclaration) Accept(v Visitor)      { v.VisitVariableDeclaration(vd) }
func (vd *VariableDeclaration) statementNode()        {}
func (vd *VariableDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VariableDeclaration) GetToken() token.Token { return vd.Token }

// IsConst reports whether the binding can never be reassigned.
func (vd *VariableDeclaration) IsConst() bool { return vd.Kind == KindConst }

// FunctionDeclaration represents function name<T>(params): R { body }.
// The signature and body live in Function, whose Body is always a block.
type FunctionDeclaration struct {
	Token    token.Token // The 'function' token
	Name     *Identifier
	Function *ArrowFunction
	Exported bool
}

func (fd *FunctionDeclaration) Accept(v Visitor)      { v.VisitFunctionDeclaration(fd) }
func (fd *FunctionDeclaration) statementNode()        {}
func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

// InterfaceMember is a property or method signature.
type InterfaceMember struct {
	Token    token.Token
	Name     string
	Type     Type
	Method   bool
	Optional bool
}

// InterfaceDeclaration represents interface Name<F> { ... }.
type InterfaceDeclaration struct {
	Token      token.Token // The 'interface' token
	Name       *Identifier
	TypeParams []*Identifier
	Members    []*InterfaceMember
	Exported   bool
}

func (id *InterfaceDeclaration) Accept(v Visitor)      { v.VisitInterfaceDeclaration(id) }
func (id *InterfaceDeclaration) statementNode()        {}
func (id *InterfaceDeclaration) TokenLiteral() string  { return id.Token.Lexeme }
func (id *InterfaceDeclaration) GetToken() token.Token { return id.Token }

// MemberNames returns the member names in declaration order.
func (id *InterfaceDeclaration) MemberNames() []string {
	names := make([]string, len(id.Members))
	for i, m := range id.Members {
		names[i] = m.Name
	}
	return names
}

// ReturnStatement represents return or return <expression>.
type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // Optional
}

func (rs *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// IfStatement represents if (cond) stmt [else stmt].
type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence Statement
	Alternative Statement // Optional
}

func (is *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// BlockStatement represents a list of statements within curly braces.
// It doubles as an arrow function body, hence expressionNode.
type BlockStatement struct {
	Token      token.Token // {
	Statements []Statement
}

func (bs *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(bs) }
func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) expressionNode()       {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// ForStatement represents for (init; cond; update) body.
type ForStatement struct {
	Token     token.Token // The 'for' token
	Init      Statement   // Optional
	Condition Expression  // Optional
	Update    Expression  // Optional
	Body      Statement
}

func (fs *ForStatement) Accept(v Visitor)      { v.VisitForStatement(fs) }
func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token { return fs.Token }

// ForOfStatement represents for (const x of xs) body.
type ForOfStatement struct {
	Token    token.Token // The 'for' token
	Kind     string
	Name     *Identifier
	Iterable Expression
	Body     Statement
}

func (fs *ForOfStatement) Accept(v Visitor)      { v.VisitForOfStatement(fs) }
func (fs *ForOfStatement) statementNode()        {}
func (fs *ForOfStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForOfStatement) GetToken() token.Token { return fs.Token }

// WhileStatement represents while (cond) body.
type WhileStatement struct {
	Token     token.Token // The 'while' token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(ws) }
func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) TokenLiteral() string  { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token { return ws.Token }

// TryStatement represents try { } catch (e) { } finally { }.
type TryStatement struct {
	Token     token.Token // The 'try' token
	Block     *BlockStatement
	Param     *Identifier     // Optional catch binding
	Handler   *BlockStatement // Optional
	Finalizer *BlockStatement // Optional
}

func (ts *TryStatement) Accept(v Visitor)      { v.VisitTryStatement(ts) }
func (ts *TryStatement) statementNode()        {}
func (ts *TryStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token { return ts.Token }

// ThrowStatement represents throw <expression>.
type ThrowStatement struct {
	Token token.Token // The 'throw' token
	Value Expression
}

func (ts *ThrowStatement) Accept(v Visitor)      { v.VisitThrowStatement(ts) }
func (ts *ThrowStatement) statementNode()        {}
func (ts *ThrowStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token { return ts.Token }

// BreakStatement represents break.
type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) Accept(v Visitor)      { v.VisitBreakStatement(bs) }
func (bs *BreakStatement) statementNode()        {}
func (bs *BreakStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token { return bs.Token }

// ContinueStatement represents continue.
type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) Accept(v Visitor)      { v.VisitContinueStatement(cs) }
func (cs *ContinueStatement) statementNode()        {}
func (cs *ContinueStatement) TokenLiteral() string  { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token { return cs.Token }
