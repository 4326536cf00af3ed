package evaluator

import (
	"math"
	"strconv"
	"strings"
)

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// toString is the String(x) conversion.
func toString(obj Object) string {
	switch o := obj.(type) {
	case *String:
		return o.Value
	case *Array:
		parts := make([]string, len(o.Elements))
		for i, el := range o.Elements {
			switch el.(type) {
			case *Null, *Undefined:
			default:
				parts[i] = toString(el)
			}
		}
		return strings.Join(parts, ",")
	case *Record:
		return "[object Object]"
	}
	return obj.Inspect()
}

// toNumber is the Number(x) conversion.
func toNumber(obj Object) float64 {
	switch o := obj.(type) {
	case *Number:
		return o.Value
	case *Boolean:
		if o.Value {
			return 1
		}
		return 0
	case *Null:
		return 0
	case *String:
		s := strings.TrimSpace(o.Value)
		if s == "" {
			return 0
		}
		switch s {
		case "Infinity", "+Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
				return float64(n)
			}
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || strings.ContainsAny(s, "_xXpPnN") {
			return math.NaN()
		}
		return f
	case *Array:
		return toNumber(&String{Value: toString(o)})
	}
	return math.NaN()
}

func truthy(obj Object) bool {
	switch o := obj.(type) {
	case *Boolean:
		return o.Value
	case *Null, *Undefined:
		return false
	case *Number:
		return o.Value != 0 && !math.IsNaN(o.Value)
	case *String:
		return o.Value != ""
	}
	return true
}

func typeOf(obj Object) string {
	switch obj.(type) {
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Boolean:
		return "boolean"
	case *Undefined:
		return "undefined"
	case *Function, *Builtin, *Partial:
		return "function"
	}
	return "object"
}

func isCallable(obj Object) bool {
	return typeOf(obj) == "function"
}

// inspect renders a value the way console.log shows it: strings are bare
// at the top level and quoted inside containers.
func inspect(obj Object, depth int) string {
	switch o := obj.(type) {
	case *String:
		if depth == 0 {
			return o.Value
		}
		return "'" + strings.ReplaceAll(o.Value, "'", "\\'") + "'"
	case *Array:
		if len(o.Elements) == 0 {
			return "[]"
		}
		if depth > 2 {
			return "[Array]"
		}
		parts := make([]string, len(o.Elements))
		for i, el := range o.Elements {
			parts[i] = inspect(el, depth+1)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case *Record:
		if len(o.Keys) == 0 {
			return "{}"
		}
		if depth > 2 {
			return "[Object]"
		}
		parts := make([]string, len(o.Keys))
		for i, k := range o.Keys {
			key := k
			if !isPlainKey(k) {
				key = "'" + k + "'"
			}
			parts[i] = key + ": " + inspect(o.Fields[k], depth+1)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return obj.Inspect()
}

func isPlainKey(k string) bool {
	if k == "" {
		return false
	}
	for i, ch := range k {
		switch {
		case ch == '_' || ch == '$':
		case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z':
		case '0' <= ch && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// arrayIndex converts a property key to an array index.
func arrayIndex(obj Object) (int, bool) {
	var f float64
	switch o := obj.(type) {
	case *Number:
		f = o.Value
	case *String:
		n, err := strconv.Atoi(o.Value)
		if err != nil {
			return 0, false
		}
		f = float64(n)
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// propertyKey is the string form of a computed key.
func propertyKey(obj Object) string {
	if n, ok := obj.(*Number); ok {
		return formatNumber(n.Value)
	}
	return toString(obj)
}
