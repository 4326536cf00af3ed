package specialize

import (
	"fmt"
	"sort"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
)

// Tier orders the ways a parameter can be matched to a table; lower is
// stronger evidence.
type Tier int

const (
	TierContract   Tier = iota + 1 // declared type is a known contract
	TierStructural                 // declared type shares method names with the table
	TierUsage                      // the body calls the table's methods on the parameter
	TierPositional                 // nothing else matched
)

func (t Tier) String() string {
	switch t {
	case TierContract:
		return "contract"
	case TierStructural:
		return "structural"
	case TierUsage:
		return "usage"
	case TierPositional:
		return "positional"
	}
	return "none"
}

// Param is what the matcher knows about one formal parameter.
type Param struct {
	Name  string
	Index int
	// TypeName is the name of the declared type reference, if any.
	TypeName string
	// Members are the method names of the declared type, when known.
	Members []string
	// Used are the member names the body reads from the parameter.
	Used []string
	// Eligible is false for parameters whose declared type is plainly data.
	Eligible bool
}

// TableShape is what the matcher knows about one supplied table.
type TableShape struct {
	Name     string
	Contract string
	Methods  []string
}

// Candidate is one scored (table, parameter) pairing.
type Candidate struct {
	Param     string
	Index     int
	Tier      Tier
	Overlap   int
	NameMatch bool
}

// Assignment binds the table at position Table to a parameter.
type Assignment struct {
	Table int
	Candidate
}

// InterfaceLookup returns the member names of a named interface type.
type InterfaceLookup func(name string) ([]string, bool)

// dataTypes are type references that never denote a capability table.
var dataTypes = map[string]bool{
	"number": true, "string": true, "boolean": true, "bigint": true, "symbol": true,
	"null": true, "undefined": true, "void": true, "never": true,
	"Array": true, "ReadonlyArray": true, "Promise": true, "Map": true, "Set": true,
	"Number": true, "String": true, "Boolean": true,
}

// DescribeParameters collects matcher input for fn. kinds lists the type
// constructors that apply an abstract type to arguments.
func DescribeParameters(fn *ast.ArrowFunction, contracts *capability.Contracts, interfaces InterfaceLookup, kinds func(string) bool) []Param {
	typeParams := make(map[string]bool, len(fn.TypeParams))
	for _, tp := range fn.TypeParams {
		typeParams[tp.Value] = true
	}
	params := make([]Param, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = Param{
			Name:     p.Name.Value,
			Index:    i,
			Eligible: !p.Rest && !isDataType(p.Type, typeParams, kinds),
			Used:     UsedMembers(fn, p.Name.Value),
		}
		switch t := p.Type.(type) {
		case *ast.TypeReference:
			params[i].TypeName = t.Name
			if c, ok := contracts.Lookup(t.Name); ok {
				params[i].Members = c.Methods
			} else if interfaces != nil {
				if members, ok := interfaces(t.Name); ok {
					params[i].Members = members
				}
			}
		case *ast.ObjectType:
			for _, m := range t.Members {
				params[i].Members = append(params[i].Members, m.Name)
			}
		}
	}
	return params
}

func isDataType(t ast.Type, typeParams map[string]bool, kinds func(string) bool) bool {
	switch n := t.(type) {
	case nil:
		return false
	case *ast.ArrayType, *ast.FunctionType:
		return true
	case *ast.UnionType:
		for _, u := range n.Types {
			if !isDataType(u, typeParams, kinds) {
				return false
			}
		}
		return true
	case *ast.TypeReference:
		if dataTypes[n.Name] || typeParams[n.Name] {
			return true
		}
		if kinds != nil && kinds(n.Name) {
			return true
		}
		if n.Name == "" {
			return false
		}
		switch c := n.Name[0]; {
		case c == '"' || c == '\'' || c == '-' || (c >= '0' && c <= '9'):
			return true
		}
		return n.Name == "true" || n.Name == "false"
	}
	return false
}

// UsedMembers lists, in first-use order, the member names read from the
// parameter name anywhere in fn.
func UsedMembers(fn *ast.ArrowFunction, name string) []string {
	var used []string
	seen := make(map[string]bool)
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		me, ok := n.(*ast.MemberExpression)
		if !ok {
			return true
		}
		if id, ok := me.Object.(*ast.Identifier); ok && id.Value == name {
			if m := staticMember(me); m != "" && !seen[m] {
				seen[m] = true
				used = append(used, m)
			}
		}
		return true
	})
	return used
}

// staticMember returns the member name of p.m or p["m"].
func staticMember(me *ast.MemberExpression) string {
	if !me.Computed {
		return me.PropertyName()
	}
	if s, ok := me.Index.(*ast.StringLiteral); ok {
		return s.Value
	}
	return ""
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, x := range b {
		set[x] = true
	}
	n := 0
	for _, x := range a {
		if set[x] {
			n++
			delete(set, x)
		}
	}
	return n
}

// Score ranks every unmatched eligible parameter for table. Candidates come
// back ordered best first: tier, then contract-name equality, then
// overlap, then position.
func Score(params []Param, table TableShape, contracts *capability.Contracts, threshold int, taken map[int]bool) []Candidate {
	need := threshold
	if len(table.Methods) < need {
		need = len(table.Methods)
	}
	if need < 1 {
		need = 1
	}
	var out []Candidate
	for _, p := range params {
		if !p.Eligible || taken[p.Index] {
			continue
		}
		c := Candidate{Param: p.Name, Index: p.Index, NameMatch: p.TypeName != "" && p.TypeName == table.Contract}
		switch {
		case contracts.IsContract(p.TypeName):
			c.Tier = TierContract
			c.Overlap = overlap(table.Methods, p.Members)
			if c.Overlap == 0 && !c.NameMatch {
				continue
			}
		case p.Members != nil:
			c.Tier = TierStructural
			c.Overlap = overlap(table.Methods, p.Members)
			if c.Overlap < need {
				continue
			}
		case len(p.Used) > 0:
			c.Tier = TierUsage
			c.Overlap = overlap(table.Methods, p.Used)
			usageNeed := need
			if len(p.Used) < usageNeed {
				usageNeed = len(p.Used)
			}
			if c.Overlap < usageNeed {
				continue
			}
		default:
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.NameMatch != b.NameMatch {
			return a.NameMatch
		}
		if a.Overlap != b.Overlap {
			return a.Overlap > b.Overlap
		}
		return a.Index < b.Index
	})
	return out
}

// MatchParameters assigns every table to a distinct parameter. Tables are
// matched one by one against the parameters still free; a second pass
// gives any table left over the first free eligible parameter, left to
// right.
func MatchParameters(params []Param, tables []TableShape, contracts *capability.Contracts, threshold int) ([]Assignment, error) {
	taken := make(map[int]bool)
	assigned := make([]*Assignment, len(tables))
	for i, t := range tables {
		if cands := Score(params, t, contracts, threshold, taken); len(cands) > 0 {
			assigned[i] = &Assignment{Table: i, Candidate: cands[0]}
			taken[cands[0].Index] = true
		}
	}
	for i, t := range tables {
		if assigned[i] != nil {
			continue
		}
		for _, p := range params {
			if p.Eligible && !taken[p.Index] {
				assigned[i] = &Assignment{Table: i, Candidate: Candidate{Param: p.Name, Index: p.Index, Tier: TierPositional}}
				taken[p.Index] = true
				break
			}
		}
		if assigned[i] == nil {
			return nil, fmt.Errorf("no parameter left for capability table '%s'", t.Name)
		}
	}
	out := make([]Assignment, len(assigned))
	for i, a := range assigned {
		out[i] = *a
	}
	return out, nil
}

// HasEligible reports whether any parameter could receive a table.
func HasEligible(params []Param) bool {
	for _, p := range params {
		if p.Eligible {
			return true
		}
	}
	return false
}

// ShapeOf describes a registered table for the matcher.
func ShapeOf(t *capability.Table) TableShape {
	return TableShape{Name: t.Name, Contract: t.Contract, Methods: t.MethodNames()}
}
