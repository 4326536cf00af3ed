package capability

import "sort"

// Contract is a named capability interface and the methods it requires.
type Contract struct {
	Name    string
	Methods []string
}

var defaultContracts = []Contract{
	{Name: "Functor", Methods: []string{"map"}},
	{Name: "Apply", Methods: []string{"map", "ap"}},
	{Name: "Applicative", Methods: []string{"map", "ap", "of"}},
	{Name: "Chain", Methods: []string{"map", "ap", "flatMap"}},
	{Name: "Monad", Methods: []string{"map", "ap", "of", "flatMap"}},
	{Name: "Foldable", Methods: []string{"reduce", "foldMap"}},
	{Name: "Traversable", Methods: []string{"map", "reduce", "traverse"}},
	{Name: "Semigroup", Methods: []string{"concat"}},
	{Name: "Monoid", Methods: []string{"concat", "empty"}},
	{Name: "Eq", Methods: []string{"equals"}},
	{Name: "Ord", Methods: []string{"equals", "compare"}},
	{Name: "Show", Methods: []string{"show"}},
	{Name: "Numeric", Methods: []string{"add", "sub", "mul", "zero", "one"}},
}

// Contracts is the statically known contract table used by the parameter
// matcher.
type Contracts struct {
	byName map[string]*Contract
}

// NewContracts builds the default contract table; entries in overrides
// replace or extend it.
func NewContracts(overrides map[string][]string) *Contracts {
	c := &Contracts{byName: make(map[string]*Contract)}
	for i := range defaultContracts {
		d := defaultContracts[i]
		c.Add(d.Name, d.Methods)
	}
	for name, methods := range overrides {
		c.Add(name, methods)
	}
	return c
}

func (c *Contracts) Add(name string, methods []string) {
	c.byName[name] = &Contract{Name: name, Methods: append([]string{}, methods...)}
}

func (c *Contracts) Lookup(name string) (*Contract, bool) {
	ct, ok := c.byName[name]
	return ct, ok
}

func (c *Contracts) IsContract(name string) bool {
	_, ok := c.byName[name]
	return ok
}

func (c *Contracts) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
