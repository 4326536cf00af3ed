package ast

import (
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// --- Type annotation nodes ---

// TypeReference represents a named type, optionally applied: Array<A>, Kind<F, A>, F.
type TypeReference struct {
	Token token.Token
	Name  string
	Args  []Type
}

func (tr *TypeReference) Accept(v Visitor)      { v.VisitTypeReference(tr) }
func (tr *TypeReference) typeNode()             {}
func (tr *TypeReference) TokenLiteral() string  { return tr.Token.Lexeme }
func (tr *TypeReference) GetToken() token.Token { return tr.Token }

// ArrayType represents A[].
type ArrayType struct {
	Token   token.Token
	Element Type
}

func (at *ArrayType) Accept(v Visitor)      { v.VisitArrayType(at) }
func (at *ArrayType) typeNode()             {}
func (at *ArrayType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token { return at.Token }

// FunctionType represents (a: A, b: B) => R.
type FunctionType struct {
	Token      token.Token // The '(' token
	Parameters []*Parameter
	ReturnType Type
}

func (ft *FunctionType) Accept(v Visitor)      { v.VisitFunctionType(ft) }
func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }

// UnionType represents A | B.
type UnionType struct {
	Token token.Token
	Types []Type
}

func (ut *UnionType) Accept(v Visitor)      { v.VisitUnionType(ut) }
func (ut *UnionType) typeNode()             {}
func (ut *UnionType) TokenLiteral() string  { return ut.Token.Lexeme }
func (ut *UnionType) GetToken() token.Token { return ut.Token }

// ObjectType represents an inline structural type { map: ...; of(a: A): F }.
type ObjectType struct {
	Token   token.Token
	Members []*InterfaceMember
}

func (ot *ObjectType) Accept(v Visitor)      { v.VisitObjectType(ot) }
func (ot *ObjectType) typeNode()             {}
func (ot *ObjectType) TokenLiteral() string  { return ot.Token.Lexeme }
func (ot *ObjectType) GetToken() token.Token { return ot.Token }
