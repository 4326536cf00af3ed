package evaluator

import (
	"github.com/typesugar/typesugar-sub002/internal/specialize"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// runtimeSpecialize is specialize(fn, ...tables) left unexpanded: the
// tables are bound to the parameters the compile-time matcher would pick,
// and the result takes the remaining arguments.
func runtimeSpecialize(e *Evaluator, tok token.Token, args ...Object) Object {
	if len(args) < 2 {
		return e.typeError(tok, "%s expects a function and at least one capability table", e.Config.SpecializeName)
	}
	fn, tables := args[0], args[1:]
	if !isCallable(fn) {
		return e.typeError(tok, "%s is not a function", inspect(fn, 1))
	}
	positions, unchanged, th := e.placeTables(tok, fn, tables)
	if th != nil {
		return th
	}
	if unchanged {
		return fn
	}
	return &Partial{Fn: fn, Tables: tables, Positions: positions}
}

// runtimeSpecializeInline is specializeInline(table, fn). A function whose
// only parameter takes the table, and whose body is an expression or a
// block that folds into one, is applied on the spot.
func runtimeSpecializeInline(e *Evaluator, tok token.Token, args ...Object) Object {
	if len(args) != 2 {
		return e.typeError(tok, "%s expects a capability table and a function", e.Config.SpecializeInlineName)
	}
	table, fn := args[0], args[1]
	if !isCallable(fn) {
		return e.typeError(tok, "%s is not a function", inspect(fn, 1))
	}
	positions, unchanged, th := e.placeTables(tok, fn, []Object{table})
	if th != nil {
		return th
	}
	if unchanged {
		return fn
	}
	if f, ok := fn.(*Function); ok && len(f.Node.Parameters) == 1 && collapses(f) {
		return e.apply(f, []Object{table}, tok)
	}
	return &Partial{Fn: fn, Tables: []Object{table}, Positions: positions}
}

func collapses(f *Function) bool {
	block := f.Node.Block()
	if block == nil {
		return true
	}
	return f.Node.Name == nil && specialize.Classify(block).Kind != specialize.Rejected
}

// placeTables picks a parameter position for every table. unchanged is
// true when fn is already specialized or has no parameter that could
// take a table.
func (e *Evaluator) placeTables(tok token.Token, fn Object, tables []Object) (positions []int, unchanged bool, th *Thrown) {
	switch f := fn.(type) {
	case *Partial:
		return nil, true, nil
	case *Function:
		params := specialize.DescribeParameters(f.Node, e.Contracts, e.lookupInterface, e.Config.IsKindConstructor)
		if !specialize.HasEligible(params) {
			return nil, true, nil
		}
		if len(tables) > len(params) {
			return nil, false, e.typeError(tok, "%d capability tables supplied but '%s' takes only %d parameter(s)",
				len(tables), f.Name, len(params))
		}
		shapes := make([]specialize.TableShape, len(tables))
		for i, t := range tables {
			shapes[i] = e.shapeOf(t)
		}
		assigns, err := specialize.MatchParameters(params, shapes, e.Contracts, e.Config.OverlapThreshold)
		if err != nil {
			return nil, false, e.typeError(tok, "%v", err)
		}
		positions = make([]int, len(tables))
		for _, a := range assigns {
			positions[a.Table] = a.Index
		}
		return positions, false, nil
	}
	positions = make([]int, len(tables))
	for i := range tables {
		positions[i] = i
	}
	return positions, false, nil
}

func (e *Evaluator) shapeOf(t Object) specialize.TableShape {
	rec, ok := t.(*Record)
	if !ok {
		return specialize.TableShape{Name: inspect(t, 1)}
	}
	info := e.tables[rec]
	return specialize.TableShape{Name: info.name, Contract: info.contract, Methods: sortedKeys(rec)}
}

func (e *Evaluator) lookupInterface(name string) ([]string, bool) {
	members, ok := e.interfaces[name]
	return members, ok
}
