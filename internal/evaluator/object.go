package evaluator

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

type ObjectType string

const (
	NUMBER_OBJ    = "NUMBER"
	STRING_OBJ    = "STRING"
	BOOLEAN_OBJ   = "BOOLEAN"
	NULL_OBJ      = "NULL"
	UNDEFINED_OBJ = "UNDEFINED"
	ARRAY_OBJ     = "ARRAY"
	RECORD_OBJ    = "RECORD"
	FUNCTION_OBJ  = "FUNCTION"
	BUILTIN_OBJ   = "BUILTIN"
	PARTIAL_OBJ   = "PARTIAL" // result of the runtime specialize builtin

	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
	THROWN_OBJ          = "THROWN"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return formatNumber(n.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

type Undefined struct{}

func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string  { return "undefined" }

var (
	NULL      = &Null{}
	UNDEFINED = &Undefined{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return inspect(a, 0) }

// Record is a plain object. Keys keep insertion order.
type Record struct {
	Keys   []string
	Fields map[string]Object
}

func NewRecord() *Record {
	return &Record{Fields: make(map[string]Object)}
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string  { return inspect(r, 0) }

func (r *Record) Get(key string) (Object, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

func (r *Record) Set(key string, v Object) {
	if _, ok := r.Fields[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Fields[key] = v
}

// Function is a closure over an arrow function or function declaration.
type Function struct {
	Name string
	Node *ast.ArrowFunction
	Env  *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	if f.Name == "" {
		return "[Function (anonymous)]"
	}
	return "[Function: " + f.Name + "]"
}

type BuiltinFunction func(e *Evaluator, tok token.Token, args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "[Function: " + b.Name + "]" }

// Partial is fn with capability tables fixed at Positions. Call arguments
// fill the remaining positions left to right.
type Partial struct {
	Fn        Object
	Tables    []Object
	Positions []int
}

func (p *Partial) Type() ObjectType { return PARTIAL_OBJ }
func (p *Partial) Inspect() string  { return "[Function: specialized]" }

// arguments merges the fixed tables with the call arguments.
func (p *Partial) arguments(args []Object) []Object {
	fixed := make(map[int]Object, len(p.Positions))
	last := -1
	for i, pos := range p.Positions {
		fixed[pos] = p.Tables[i]
		if pos > last {
			last = pos
		}
	}
	var out []Object
	next := 0
	for i := 0; i <= last || next < len(args); i++ {
		if t, ok := fixed[i]; ok {
			out = append(out, t)
			continue
		}
		if next < len(args) {
			out = append(out, args[next])
			next++
		} else {
			out = append(out, UNDEFINED)
		}
	}
	return out
}

type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

// Thrown carries an exception up to the nearest try statement.
type Thrown struct {
	Value Object
	Token token.Token
}

func (t *Thrown) Type() ObjectType { return THROWN_OBJ }
func (t *Thrown) Inspect() string  { return "Uncaught " + describeThrown(t.Value) }

func describeThrown(v Object) string {
	if r, ok := v.(*Record); ok {
		name, _ := r.Get("name")
		msg, _ := r.Get("message")
		if name != nil && msg != nil {
			return toString(name) + ": " + toString(msg)
		}
	}
	return inspect(v, 0)
}

// isSignal reports whether obj interrupts normal statement flow.
func isSignal(obj Object) bool {
	switch obj.(type) {
	case *ReturnValue, *BreakSignal, *ContinueSignal, *Thrown:
		return true
	}
	return false
}

func isThrown(obj Object) bool {
	_, ok := obj.(*Thrown)
	return ok
}
