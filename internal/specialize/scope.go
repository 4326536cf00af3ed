package specialize

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
)

type BindingKind int

const (
	BindConst BindingKind = iota
	BindLet
	BindVar
	BindFunction
	BindParam
	BindCatch
)

func (k BindingKind) String() string {
	switch k {
	case BindConst:
		return "const"
	case BindLet:
		return "let"
	case BindVar:
		return "var"
	case BindFunction:
		return "function"
	case BindParam:
		return "parameter"
	case BindCatch:
		return "catch"
	}
	return "unknown"
}

func declarationKind(kind string) BindingKind {
	switch kind {
	case ast.KindLet:
		return BindLet
	case ast.KindVar:
		return BindVar
	}
	return BindConst
}

// Binding is one declared name. Name is the name emitted for it, which
// differs from the declared name once the binder has been renamed.
type Binding struct {
	Name  string
	Kind  BindingKind
	Decl  ast.Node
	Ident *ast.Identifier
	Scope *Scope
	// Count is the number of declarations of the name in the same scope.
	Count int
}

// Scope is one level of the lexical scope chain. Interfaces live in their
// own namespace.
type Scope struct {
	parent   *Scope
	bindings map[string]*Binding
	types    map[string]*ast.InterfaceDeclaration
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		bindings: make(map[string]*Binding),
		types:    make(map[string]*ast.InterfaceDeclaration),
	}
}

// ProgramScope declares the top-level names of prog.
func ProgramScope(prog *ast.Program) *Scope {
	s := NewScope(nil)
	if prog != nil {
		s.DeclareStatements(prog.Statements)
	}
	return s
}

func (s *Scope) Parent() *Scope { return s.parent }

// Root returns the outermost scope of the chain.
func (s *Scope) Root() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

func (s *Scope) IsRoot() bool { return s.parent == nil }

// Declare adds a binding for name. A second declaration of the same name
// in the same scope keeps the first binding and bumps its Count.
func (s *Scope) Declare(name string, kind BindingKind, decl ast.Node, ident *ast.Identifier) *Binding {
	if b, ok := s.bindings[name]; ok {
		b.Count++
		return b
	}
	b := &Binding{Name: name, Kind: kind, Decl: decl, Ident: ident, Scope: s, Count: 1}
	s.bindings[name] = b
	return b
}

// DeclareStatements declares the names a statement list binds, as happens
// on entry to a block.
func (s *Scope) DeclareStatements(stmts []ast.Statement) []*Binding {
	var out []*Binding
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.VariableDeclaration:
			out = append(out, s.Declare(d.Name.Value, declarationKind(d.Kind), d, d.Name))
		case *ast.FunctionDeclaration:
			out = append(out, s.Declare(d.Name.Value, BindFunction, d, d.Name))
		case *ast.InterfaceDeclaration:
			s.types[d.Name.Value] = d
		}
	}
	return out
}

// Lookup finds the innermost binding of name, or nil for a free name.
func (s *Scope) Lookup(name string) *Binding {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// LookupLocal finds name in this scope only.
func (s *Scope) LookupLocal(name string) *Binding {
	return s.bindings[name]
}

// LookupInterface finds an interface declaration by name.
func (s *Scope) LookupInterface(name string) *ast.InterfaceDeclaration {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.types[name]; ok {
			return d
		}
	}
	return nil
}

// Names returns every name visible from s.
func (s *Scope) Names() map[string]bool {
	out := make(map[string]bool)
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.bindings {
			out[name] = true
		}
	}
	return out
}

// SameBinding reports whether name refers to the same declaration from
// both scopes.
func SameBinding(a, b *Scope, name string) bool {
	return a.Lookup(name) == b.Lookup(name)
}

// IsGlobal reports whether name, seen from s, is either free or bound at
// the root of the chain.
func (s *Scope) IsGlobal(name string) bool {
	b := s.Lookup(name)
	return b == nil || b.Scope.IsRoot()
}
