package specialize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/typesugar/typesugar-sub002/internal/ast"
)

// DedupKey identifies one specialization: the function, the sorted brands
// of the tables it receives and which parameter each table fills.
type DedupKey struct {
	Function *ast.ArrowFunction
	Brands   string
	Tables   string

	label string
}

// NewDedupKey builds a key. pairs are "param=table" entries.
func NewDedupKey(fn *Function, brands []string, pairs []string) DedupKey {
	b := append([]string(nil), brands...)
	sort.Strings(b)
	p := append([]string(nil), pairs...)
	sort.Strings(p)
	tok := fn.Node.Token
	return DedupKey{
		Function: fn.Node,
		Brands:   strings.Join(b, ","),
		Tables:   strings.Join(p, ","),
		label:    fmt.Sprintf("%s@%d:%d", fn.DisplayName(), tok.Line, tok.Column),
	}
}

// String is stable across runs for the same source.
func (k DedupKey) String() string {
	return k.label + "|" + k.Brands + "|" + k.Tables
}

// Suffix is the short content hash used in hoisted names.
func (k DedupKey) Suffix() string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(k.String()))
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}

// Entry is one hoisted specialization. Decl is nil while the body is
// still being rewritten, which is what recursive requests see.
type Entry struct {
	Key    DedupKey
	Name   string
	Anchor ast.Statement
	Decl   *ast.VariableDeclaration
}

// Cache holds the hoisted specializations of one source unit.
type Cache struct {
	entries map[DedupKey]*Entry
	names   map[string]*Entry
	done    []*Entry
}

func NewCache() *Cache {
	c := &Cache{}
	c.Reset()
	return c
}

func (c *Cache) Lookup(key DedupKey) (*Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Reserve claims name for key before its body exists.
func (c *Cache) Reserve(key DedupKey, name string, anchor ast.Statement) *Entry {
	e := &Entry{Key: key, Name: name, Anchor: anchor}
	c.entries[key] = e
	c.names[name] = e
	return e
}

// Store completes a reserved entry with its declaration.
func (c *Cache) Store(e *Entry, decl *ast.VariableDeclaration) {
	e.Decl = decl
	c.done = append(c.done, e)
}

// Hoisted returns completed entries in completion order, so a declaration
// always follows the ones its body was built from.
func (c *Cache) Hoisted() []*Entry {
	return c.done
}

func (c *Cache) IsHoisted(name string) bool {
	_, ok := c.names[name]
	return ok
}

func (c *Cache) Len() int { return len(c.done) }

func (c *Cache) Reset() {
	c.entries = make(map[DedupKey]*Entry)
	c.names = make(map[string]*Entry)
	c.done = nil
}
