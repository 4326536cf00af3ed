package specialize

import (
	"reflect"
	"testing"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/capability"
	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/parser"
)

func parseArrow(t *testing.T, src string) *ast.ArrowFunction {
	t.Helper()
	expr, err := parser.ParseExpression(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	fn, ok := expr.(*ast.ArrowFunction)
	if !ok {
		t.Fatalf("%q is a %T, not a function", src, expr)
	}
	return fn
}

func TestDescribeParameters(t *testing.T) {
	cfg := config.Default()
	contracts := capability.NewContracts(nil)
	interfaces := func(name string) ([]string, bool) {
		if name == "Pretty" {
			return []string{"show", "width"}, true
		}
		return nil, false
	}
	fn := parseArrow(t, `<F, T>(M: Monoid<T>, P: Pretty, o: { show: (x: T) => string }, u, xs: number[], f: (a: number) => number, k: Kind<F, number>, v: T, n: number | string, ...rest) => M.concat(u.map(xs), P.show(v))`)
	params := DescribeParameters(fn, contracts, interfaces, cfg.IsKindConstructor)

	eligible := make(map[string]bool)
	for _, p := range params {
		eligible[p.Name] = p.Eligible
	}
	want := map[string]bool{
		"M": true, "P": true, "o": true, "u": true,
		"xs": false, "f": false, "k": false, "v": false, "n": false, "rest": false,
	}
	if !reflect.DeepEqual(eligible, want) {
		t.Errorf("eligible = %v, want %v", eligible, want)
	}

	byName := make(map[string]Param)
	for _, p := range params {
		byName[p.Name] = p
	}
	if m := byName["M"]; m.TypeName != "Monoid" || !reflect.DeepEqual(m.Members, []string{"concat", "empty"}) {
		t.Errorf("M = %+v", m)
	}
	if p := byName["P"]; !reflect.DeepEqual(p.Members, []string{"show", "width"}) {
		t.Errorf("P members = %v", p.Members)
	}
	if o := byName["o"]; !reflect.DeepEqual(o.Members, []string{"show"}) {
		t.Errorf("o members = %v", o.Members)
	}
	if u := byName["u"]; !reflect.DeepEqual(u.Used, []string{"map"}) || u.Members != nil {
		t.Errorf("u = %+v", u)
	}
	if !HasEligible(params) {
		t.Error("HasEligible = false")
	}
	if HasEligible(DescribeParameters(parseArrow(t, `(x: number, s: string) => x`), contracts, nil, cfg.IsKindConstructor)) {
		t.Error("data-only parameters reported eligible")
	}
}

func TestUsedMembers(t *testing.T) {
	fn := parseArrow(t, `(M, x) => M.concat(M.empty, M["combine"](x.empty, M.concat))`)
	if got, want := UsedMembers(fn, "M"), []string{"concat", "empty", "combine"}; !reflect.DeepEqual(got, want) {
		t.Errorf("UsedMembers(M) = %v, want %v", got, want)
	}
	if got := UsedMembers(fn, "y"); got != nil {
		t.Errorf("UsedMembers(y) = %v, want nil", got)
	}
}

func TestScore(t *testing.T) {
	contracts := capability.NewContracts(nil)
	monad := TableShape{Name: "ArrayMonad", Contract: "Monad", Methods: []string{"ap", "flatMap", "map", "of"}}
	sum := TableShape{Name: "Sum", Methods: []string{"concat", "empty"}}

	tests := []struct {
		name   string
		params []Param
		table  TableShape
		want   []string // candidate parameter names, best first
		tiers  []Tier
	}{
		{
			name: "contract beats structural and usage",
			params: []Param{
				{Name: "u", Index: 0, Used: []string{"map", "of"}, Eligible: true},
				{Name: "s", Index: 1, Members: []string{"map", "ap"}, Eligible: true},
				{Name: "c", Index: 2, TypeName: "Functor", Members: []string{"map"}, Eligible: true},
			},
			table: monad,
			want:  []string{"c", "s", "u"},
			tiers: []Tier{TierContract, TierStructural, TierUsage},
		},
		{
			name: "contract name match wins over overlap",
			params: []Param{
				{Name: "a", Index: 0, TypeName: "Chain", Members: []string{"map", "ap", "flatMap"}, Eligible: true},
				{Name: "b", Index: 1, TypeName: "Monad", Members: []string{"map", "ap", "of", "flatMap"}, Eligible: true},
				{Name: "c", Index: 2, TypeName: "Functor", Members: []string{"map"}, Eligible: true},
			},
			table: monad,
			want:  []string{"b", "a", "c"},
		},
		{
			name: "structural below threshold is dropped",
			params: []Param{
				{Name: "p", Index: 0, Members: []string{"concat", "show"}, Eligible: true},
				{Name: "q", Index: 1, Members: []string{"concat", "empty"}, Eligible: true},
			},
			table: sum,
			want:  []string{"q"},
		},
		{
			name: "usage needs only as many methods as are used",
			params: []Param{
				{Name: "u", Index: 0, Used: []string{"empty"}, Eligible: true},
				{Name: "w", Index: 1, Used: []string{"show"}, Eligible: true},
			},
			table: sum,
			want:  []string{"u"},
		},
		{
			name: "contract without shared methods is dropped",
			params: []Param{
				{Name: "e", Index: 0, TypeName: "Eq", Members: []string{"equals"}, Eligible: true},
			},
			table: sum,
			want:  nil,
		},
		{
			name: "ineligible and untyped unused parameters are skipped",
			params: []Param{
				{Name: "xs", Index: 0, TypeName: "Monoid", Members: []string{"concat", "empty"}},
				{Name: "x", Index: 1, Eligible: true},
			},
			table: sum,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := Score(tt.params, tt.table, contracts, 2, map[int]bool{})
			var got []string
			for _, c := range cands {
				got = append(got, c.Param)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("candidates = %v, want %v", got, tt.want)
			}
			for i, tier := range tt.tiers {
				if cands[i].Tier != tier {
					t.Errorf("%s tier = %s, want %s", cands[i].Param, cands[i].Tier, tier)
				}
			}
		})
	}
}

func TestScoreThresholdCappedByTableSize(t *testing.T) {
	contracts := capability.NewContracts(nil)
	params := []Param{{Name: "s", Index: 0, Members: []string{"show", "width"}, Eligible: true}}
	show := TableShape{Name: "ShowNumber", Methods: []string{"show"}}
	if cands := Score(params, show, contracts, 3, map[int]bool{}); len(cands) != 1 {
		t.Fatalf("one-method table should match on one shared name, got %v", cands)
	}
}

func TestMatchParameters(t *testing.T) {
	contracts := capability.NewContracts(nil)
	params := []Param{
		{Name: "x", Index: 0},
		{Name: "S", Index: 1, TypeName: "Show", Members: []string{"show"}, Eligible: true},
		{Name: "M", Index: 2, TypeName: "Monoid", Members: []string{"concat", "empty"}, Eligible: true},
		{Name: "extra", Index: 3, Eligible: true},
	}
	tables := []TableShape{
		{Name: "Sum", Contract: "Monoid", Methods: []string{"concat", "empty"}},
		{Name: "ShowNumber", Methods: []string{"show"}},
		{Name: "Unknown", Methods: []string{"frobnicate"}},
	}
	assigns, err := MatchParameters(params, tables, contracts, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string)
	for _, a := range assigns {
		got[tables[a.Table].Name] = a.Param
	}
	want := map[string]string{"Sum": "M", "ShowNumber": "S", "Unknown": "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assignment = %v, want %v", got, want)
	}
	if assigns[2].Tier != TierPositional {
		t.Errorf("Unknown tier = %s, want positional", assigns[2].Tier)
	}

	// Order of the tables does not change where they land.
	swapped := []TableShape{tables[1], tables[0]}
	assigns, err = MatchParameters(params, swapped, contracts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if assigns[0].Param != "S" || assigns[1].Param != "M" {
		t.Errorf("swapped tables landed on %s, %s", assigns[0].Param, assigns[1].Param)
	}
}

func TestMatchParametersPositionalOrder(t *testing.T) {
	contracts := capability.NewContracts(nil)
	params := []Param{
		{Name: "a", Index: 0, Eligible: true},
		{Name: "n", Index: 1},
		{Name: "b", Index: 2, Eligible: true},
	}
	tables := []TableShape{{Name: "T1"}, {Name: "T2"}}
	assigns, err := MatchParameters(params, tables, contracts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if assigns[0].Index != 0 || assigns[1].Index != 2 {
		t.Errorf("positions = %d, %d; want 0, 2", assigns[0].Index, assigns[1].Index)
	}

	if _, err := MatchParameters(params, []TableShape{{Name: "T1"}, {Name: "T2"}, {Name: "T3"}}, contracts, 2); err == nil {
		t.Error("expected an error when tables outnumber eligible parameters")
	}
}
