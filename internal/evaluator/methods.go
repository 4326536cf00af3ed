package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/token"
)

type method func(e *Evaluator, tok token.Token, recv Object, args []Object) Object

func bindMethod(name string, recv Object, m method) *Builtin {
	return &Builtin{Name: name, Fn: func(e *Evaluator, tok token.Token, args ...Object) Object {
		return m(e, tok, recv, args)
	}}
}

func arg(args []Object, i int) Object {
	if i < len(args) {
		return args[i]
	}
	return UNDEFINED
}

// relIndex resolves a possibly negative slice bound against length n.
func relIndex(obj Object, n, def int) int {
	if _, ok := obj.(*Undefined); ok {
		return def
	}
	f := toNumber(obj)
	if math.IsNaN(f) {
		return 0
	}
	i := int(math.Trunc(f))
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	if i > n {
		i = n
	}
	return i
}

var arrayMethods map[string]method

func init() {
	arrayMethods = map[string]method{
		"map":      arrayMap,
		"filter":   arrayFilter,
		"reduce":   arrayReduce,
		"forEach":  arrayForEach,
		"flatMap":  arrayFlatMap,
		"some":     arraySome,
		"every":    arrayEvery,
		"find":     arrayFind,
		"concat":   arrayConcat,
		"push":     arrayPush,
		"join":     arrayJoin,
		"slice":    arraySlice,
		"includes": arrayIncludes,
		"indexOf":  arrayIndexOf,
		"reverse":  arrayReverse,
	}
}

// each calls fn(el, i, arr) for every element until visit returns false.
func (e *Evaluator) each(tok token.Token, arr *Array, fn Object, visit func(i int, el, r Object) bool) *Thrown {
	if !isCallable(fn) {
		return e.typeError(tok, "%s is not a function", inspect(fn, 1))
	}
	for i := 0; i < len(arr.Elements); i++ {
		el := arr.Elements[i]
		r := e.apply(fn, []Object{el, &Number{Value: float64(i)}, arr}, tok)
		if th, ok := r.(*Thrown); ok {
			return th
		}
		if !visit(i, el, r) {
			break
		}
	}
	return nil
}

func arrayMap(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	out := make([]Object, 0, len(arr.Elements))
	if th := e.each(tok, arr, arg(args, 0), func(_ int, _, r Object) bool {
		out = append(out, r)
		return true
	}); th != nil {
		return th
	}
	return &Array{Elements: out}
}

func arrayFilter(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	var out []Object
	if th := e.each(tok, arr, arg(args, 0), func(_ int, el, r Object) bool {
		if truthy(r) {
			out = append(out, el)
		}
		return true
	}); th != nil {
		return th
	}
	return &Array{Elements: out}
}

func arrayFlatMap(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	var out []Object
	if th := e.each(tok, arr, arg(args, 0), func(_ int, _, r Object) bool {
		if inner, ok := r.(*Array); ok {
			out = append(out, inner.Elements...)
		} else {
			out = append(out, r)
		}
		return true
	}); th != nil {
		return th
	}
	return &Array{Elements: out}
}

func arrayForEach(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	if th := e.each(tok, recv.(*Array), arg(args, 0), func(int, Object, Object) bool { return true }); th != nil {
		return th
	}
	return UNDEFINED
}

func arraySome(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	found := false
	if th := e.each(tok, recv.(*Array), arg(args, 0), func(_ int, _, r Object) bool {
		found = truthy(r)
		return !found
	}); th != nil {
		return th
	}
	return nativeBool(found)
}

func arrayEvery(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	all := true
	if th := e.each(tok, recv.(*Array), arg(args, 0), func(_ int, _, r Object) bool {
		all = truthy(r)
		return all
	}); th != nil {
		return th
	}
	return nativeBool(all)
}

func arrayFind(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	var found Object = UNDEFINED
	if th := e.each(tok, recv.(*Array), arg(args, 0), func(_ int, el, r Object) bool {
		if truthy(r) {
			found = el
			return false
		}
		return true
	}); th != nil {
		return th
	}
	return found
}

func arrayReduce(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	fn := arg(args, 0)
	if !isCallable(fn) {
		return e.typeError(tok, "%s is not a function", inspect(fn, 1))
	}
	start := 0
	var acc Object
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(arr.Elements) == 0 {
			return e.typeError(tok, "Reduce of empty array with no initial value")
		}
		acc = arr.Elements[0]
		start = 1
	}
	for i := start; i < len(arr.Elements); i++ {
		acc = e.apply(fn, []Object{acc, arr.Elements[i], &Number{Value: float64(i)}, arr}, tok)
		if isThrown(acc) {
			return acc
		}
	}
	return acc
}

func arrayConcat(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	out := append([]Object{}, arr.Elements...)
	for _, a := range args {
		if inner, ok := a.(*Array); ok {
			out = append(out, inner.Elements...)
		} else {
			out = append(out, a)
		}
	}
	return &Array{Elements: out}
}

func arrayPush(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	arr.Elements = append(arr.Elements, args...)
	return &Number{Value: float64(len(arr.Elements))}
}

func arrayJoin(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	sep := ","
	if s, ok := arg(args, 0).(*String); ok {
		sep = s.Value
	}
	arr := recv.(*Array)
	parts := make([]string, len(arr.Elements))
	for i, el := range arr.Elements {
		switch el.(type) {
		case *Null, *Undefined:
		default:
			parts[i] = toString(el)
		}
	}
	return &String{Value: strings.Join(parts, sep)}
}

func arraySlice(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	n := len(arr.Elements)
	from, to := relIndex(arg(args, 0), n, 0), relIndex(arg(args, 1), n, n)
	if from >= to {
		return &Array{}
	}
	return &Array{Elements: append([]Object{}, arr.Elements[from:to]...)}
}

func arrayIncludes(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	want := arg(args, 0)
	for _, el := range recv.(*Array).Elements {
		if strictEquals(el, want) || (isNaNValue(el) && isNaNValue(want)) {
			return TRUE
		}
	}
	return FALSE
}

func arrayIndexOf(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	want := arg(args, 0)
	for i, el := range recv.(*Array).Elements {
		if strictEquals(el, want) {
			return &Number{Value: float64(i)}
		}
	}
	return &Number{Value: -1}
}

func arrayReverse(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
	arr := recv.(*Array)
	for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
		arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
	}
	return arr
}

func isNaNValue(obj Object) bool {
	n, ok := obj.(*Number)
	return ok && math.IsNaN(n.Value)
}

var stringMethods = map[string]method{
	"toUpperCase": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return &String{Value: strings.ToUpper(recv.(*String).Value)}
	},
	"toLowerCase": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return &String{Value: strings.ToLower(recv.(*String).Value)}
	},
	"trim": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return &String{Value: strings.TrimSpace(recv.(*String).Value)}
	},
	"includes": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return nativeBool(strings.Contains(recv.(*String).Value, toString(arg(args, 0))))
	},
	"startsWith": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return nativeBool(strings.HasPrefix(recv.(*String).Value, toString(arg(args, 0))))
	},
	"endsWith": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return nativeBool(strings.HasSuffix(recv.(*String).Value, toString(arg(args, 0))))
	},
	"concat": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		var sb strings.Builder
		sb.WriteString(recv.(*String).Value)
		for _, a := range args {
			sb.WriteString(toString(a))
		}
		return &String{Value: sb.String()}
	},
	"slice": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		runes := []rune(recv.(*String).Value)
		n := len(runes)
		from, to := relIndex(arg(args, 0), n, 0), relIndex(arg(args, 1), n, n)
		if from >= to {
			return &String{}
		}
		return &String{Value: string(runes[from:to])}
	},
	"split": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		s := recv.(*String).Value
		sep, ok := arg(args, 0).(*String)
		if !ok {
			return &Array{Elements: []Object{&String{Value: s}}}
		}
		var out []Object
		for _, part := range strings.Split(s, sep.Value) {
			out = append(out, &String{Value: part})
		}
		return &Array{Elements: out}
	},
	"repeat": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		n := toNumber(arg(args, 0))
		if n < 0 || math.IsInf(n, 0) {
			return e.throwError(tok, "RangeError", "Invalid count value: %s", formatNumber(n))
		}
		return &String{Value: strings.Repeat(recv.(*String).Value, int(n))}
	},
}

var numberMethods = map[string]method{
	"toFixed": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		digits := 0
		if d, ok := arg(args, 0).(*Number); ok {
			digits = int(d.Value)
		}
		return &String{Value: strconv.FormatFloat(recv.(*Number).Value, 'f', digits, 64)}
	},
	"toString": func(e *Evaluator, tok token.Token, recv Object, args []Object) Object {
		return &String{Value: formatNumber(recv.(*Number).Value)}
	},
}
