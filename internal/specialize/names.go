package specialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// NameGenerator hands out identifiers that occur nowhere else in the unit.
// Every name it returns is reserved, so two calls never collide and a
// generated binder can never capture an existing reference.
type NameGenerator struct {
	used     map[string]bool
	counters map[string]int
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{used: make(map[string]bool), counters: make(map[string]int)}
}

// Seed reserves every identifier that appears in n, binders included.
func (g *NameGenerator) Seed(n ast.Node) {
	ast.Inspect(n, func(node ast.Node) bool {
		switch d := node.(type) {
		case *ast.Identifier:
			g.Reserve(d.Value)
		case *ast.VariableDeclaration:
			g.Reserve(d.Name.Value)
		case *ast.FunctionDeclaration:
			g.Reserve(d.Name.Value)
		case *ast.ArrowFunction:
			if d.Name != nil {
				g.Reserve(d.Name.Value)
			}
			for _, p := range d.Parameters {
				g.Reserve(p.Name.Value)
			}
		case *ast.ForOfStatement:
			g.Reserve(d.Name.Value)
		case *ast.TryStatement:
			if d.Param != nil {
				g.Reserve(d.Param.Value)
			}
		case *ast.ObjectLiteral:
			for _, p := range d.Properties {
				g.Reserve(p.Key)
			}
		}
		return true
	})
}

func (g *NameGenerator) Reserve(name string) {
	g.used[name] = true
}

func (g *NameGenerator) Taken(name string) bool {
	return g.used[name] || token.IsKeyword(name)
}

// Fresh returns base_N for the smallest N not yet taken. A numeric suffix
// already on base is stripped first so renaming x_1 yields x_2, not x_1_1.
func (g *NameGenerator) Fresh(base string) string {
	base = stripSuffix(base)
	if base == "" {
		base = "v"
	}
	for {
		g.counters[base]++
		name := fmt.Sprintf("%s_%d", base, g.counters[base])
		if !g.Taken(name) {
			g.Reserve(name)
			return name
		}
	}
}

// Available returns name itself when it is free, otherwise a fresh variant.
func (g *NameGenerator) Available(name string) string {
	if !g.Taken(name) {
		g.Reserve(name)
		return name
	}
	return g.Fresh(name)
}

func (g *NameGenerator) Reset() {
	g.used = make(map[string]bool)
	g.counters = make(map[string]int)
}

func stripSuffix(name string) string {
	i := strings.LastIndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return name
	}
	if _, err := strconv.Atoi(name[i+1:]); err != nil {
		return name
	}
	return name[:i]
}
