package evaluator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/config"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

func builtin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{Name: name, Fn: fn}
}

func mathFunc(name string, f func(float64) float64) *Builtin {
	return builtin(name, func(e *Evaluator, tok token.Token, args ...Object) Object {
		return &Number{Value: f(toNumber(arg(args, 0)))}
	})
}

// RegisterBuiltins binds the global objects and functions host programs
// may use, including the runtime forms of the specialize macros.
func RegisterBuiltins(e *Evaluator, env *Environment) {
	console := NewRecord()
	console.Set(config.LogFuncName, builtin(config.LogFuncName, func(e *Evaluator, tok token.Token, args ...Object) Object {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = inspect(a, 0)
		}
		fmt.Fprintln(e.Out, strings.Join(parts, " "))
		return UNDEFINED
	}))
	env.SetConst(config.ConsoleName, console)

	env.SetConst("Number", builtin("Number", func(e *Evaluator, tok token.Token, args ...Object) Object {
		if len(args) == 0 {
			return &Number{}
		}
		return &Number{Value: toNumber(args[0])}
	}))
	env.SetConst("String", builtin("String", func(e *Evaluator, tok token.Token, args ...Object) Object {
		if len(args) == 0 {
			return &String{}
		}
		return &String{Value: toString(args[0])}
	}))
	env.SetConst("Boolean", builtin("Boolean", func(e *Evaluator, tok token.Token, args ...Object) Object {
		return nativeBool(truthy(arg(args, 0)))
	}))
	env.SetConst("isNaN", builtin("isNaN", func(e *Evaluator, tok token.Token, args ...Object) Object {
		return nativeBool(math.IsNaN(toNumber(arg(args, 0))))
	}))
	env.SetConst("Error", builtin("Error", func(e *Evaluator, tok token.Token, args ...Object) Object {
		rec := NewRecord()
		rec.Set("name", &String{Value: "Error"})
		msg := ""
		if _, undef := arg(args, 0).(*Undefined); !undef {
			msg = toString(arg(args, 0))
		}
		rec.Set("message", &String{Value: msg})
		return rec
	}))
	env.SetConst("NaN", &Number{Value: math.NaN()})
	env.SetConst("Infinity", &Number{Value: math.Inf(1)})

	m := NewRecord()
	m.Set("PI", &Number{Value: math.Pi})
	m.Set("E", &Number{Value: math.E})
	m.Set("abs", mathFunc("abs", math.Abs))
	m.Set("floor", mathFunc("floor", math.Floor))
	m.Set("ceil", mathFunc("ceil", math.Ceil))
	m.Set("trunc", mathFunc("trunc", math.Trunc))
	m.Set("sqrt", mathFunc("sqrt", math.Sqrt))
	m.Set("round", mathFunc("round", func(f float64) float64 { return math.Floor(f + 0.5) }))
	m.Set("sign", mathFunc("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		}
		return f
	}))
	m.Set("pow", builtin("pow", func(e *Evaluator, tok token.Token, args ...Object) Object {
		return &Number{Value: math.Pow(toNumber(arg(args, 0)), toNumber(arg(args, 1)))}
	}))
	m.Set("max", builtin("max", func(e *Evaluator, tok token.Token, args ...Object) Object {
		r := math.Inf(-1)
		for _, a := range args {
			f := toNumber(a)
			if math.IsNaN(f) {
				return &Number{Value: f}
			}
			r = math.Max(r, f)
		}
		return &Number{Value: r}
	}))
	m.Set("min", builtin("min", func(e *Evaluator, tok token.Token, args ...Object) Object {
		r := math.Inf(1)
		for _, a := range args {
			f := toNumber(a)
			if math.IsNaN(f) {
				return &Number{Value: f}
			}
			r = math.Min(r, f)
		}
		return &Number{Value: r}
	}))
	env.SetConst("Math", m)

	object := NewRecord()
	object.Set("keys", builtin("keys", func(e *Evaluator, tok token.Token, args ...Object) Object {
		out := &Array{}
		if rec, ok := arg(args, 0).(*Record); ok {
			for _, k := range rec.Keys {
				out.Elements = append(out.Elements, &String{Value: k})
			}
		}
		return out
	}))
	env.SetConst("Object", object)

	array := NewRecord()
	array.Set("isArray", builtin("isArray", func(e *Evaluator, tok token.Token, args ...Object) Object {
		_, ok := arg(args, 0).(*Array)
		return nativeBool(ok)
	}))
	env.SetConst("Array", array)

	env.SetConst(e.Config.SpecializeName, builtin(e.Config.SpecializeName, runtimeSpecialize))
	env.SetConst(e.Config.SpecializeInlineName, builtin(e.Config.SpecializeInlineName, runtimeSpecializeInline))
}

// sortedKeys returns a record's keys in name order, as the compile-time
// registry reports table methods.
func sortedKeys(r *Record) []string {
	keys := append([]string{}, r.Keys...)
	sort.Strings(keys)
	return keys
}
