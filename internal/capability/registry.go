// Package capability holds capability tables: named records of method
// implementations for one concrete type (the table's brand).
package capability

import (
	"sort"

	"github.com/typesugar/typesugar-sub002/internal/ast"
)

// Method is one table entry. Params and Body are set when the value is an
// arrow function with plain parameters; otherwise only Value is known and
// the method can be called but not inlined.
type Method struct {
	Name   string
	Params []string
	Body   ast.Expression // expression or *ast.BlockStatement
	Value  ast.Expression
}

// Inlineable reports whether the method body is available for substitution.
func (m *Method) Inlineable() bool {
	return m.Body != nil
}

type Table struct {
	Name     string
	Brand    string
	Contract string
	Methods  map[string]*Method
}

// MethodNames returns the method names in sorted order.
func (t *Table) MethodNames() []string {
	names := make([]string, 0, len(t.Methods))
	for name := range t.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) Method(name string) (*Method, bool) {
	m, ok := t.Methods[name]
	return m, ok
}

// Registry maps unqualified table names to tables. It belongs to a single
// compilation run and is not safe for concurrent use.
type Registry struct {
	tables map[string]*Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Register stores a table under name. Re-registering a name replaces the
// previous table.
func (r *Registry) Register(name, brand string, methods map[string]*Method) *Table {
	t := &Table{Name: name, Brand: brand, Methods: make(map[string]*Method, len(methods))}
	for k, m := range methods {
		t.Methods[k] = m
	}
	r.tables[name] = t
	return t
}

// RegisterTable stores a copy of t.
func (r *Registry) RegisterTable(t *Table) *Table {
	stored := r.Register(t.Name, t.Brand, t.Methods)
	stored.Contract = t.Contract
	return stored
}

func (r *Registry) Lookup(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Names returns the registered table names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int { return len(r.tables) }

func (r *Registry) Reset() {
	r.tables = make(map[string]*Table)
}
