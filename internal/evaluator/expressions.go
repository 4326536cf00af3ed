package evaluator

import (
	"math"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

func (e *Evaluator) evalExpression(expr ast.Expression, env *Environment) Object {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		return &Number{Value: n.Value}
	case *ast.StringLiteral:
		return &String{Value: n.Value}
	case *ast.BooleanLiteral:
		return nativeBool(n.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.Identifier:
		if v, ok := env.Get(n.Value); ok {
			return v
		}
		if n.Value == "undefined" {
			return UNDEFINED
		}
		return e.throwError(n.Token, "ReferenceError", "%s is not defined", n.Value)
	case *ast.ArrayLiteral:
		elems, th := e.evalList(n.Elements, env)
		if th != nil {
			return th
		}
		return &Array{Elements: elems}
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(n, env)
	case *ast.ArrowFunction:
		fnEnv := env
		name := ""
		if n.Name != nil {
			name = n.Name.Value
			fnEnv = NewEnclosedEnvironment(env)
		}
		fn := &Function{Name: name, Node: n, Env: fnEnv}
		if n.Name != nil {
			fnEnv.SetConst(name, fn)
		}
		return fn
	case *ast.BlockStatement:
		return e.evalStatements(n.Statements, NewEnclosedEnvironment(env))
	case *ast.CallExpression:
		return e.evalCall(n, env)
	case *ast.MemberExpression:
		obj, _, th := e.evalMember(n, env)
		if th != nil {
			return th
		}
		return obj
	case *ast.ConditionalExpression:
		cond := e.evalExpression(n.Condition, env)
		if isThrown(cond) {
			return cond
		}
		if truthy(cond) {
			return e.evalExpression(n.Consequence, env)
		}
		return e.evalExpression(n.Alternative, env)
	case *ast.PrefixExpression:
		return e.evalPrefix(n, env)
	case *ast.InfixExpression:
		return e.evalInfix(n, env)
	case *ast.AssignExpression:
		return e.evalAssign(n, env)
	case *ast.UpdateExpression:
		return e.evalUpdate(n, env)
	case *ast.SpreadElement:
		return e.typeError(n.Token, "unexpected spread")
	}
	return e.typeError(expr.GetToken(), "unsupported expression %T", expr)
}

// evalList evaluates expressions left to right, expanding spreads.
func (e *Evaluator) evalList(exprs []ast.Expression, env *Environment) ([]Object, *Thrown) {
	var out []Object
	for _, x := range exprs {
		if sp, ok := x.(*ast.SpreadElement); ok {
			v := e.evalExpression(sp.Argument, env)
			if th, ok := v.(*Thrown); ok {
				return nil, th
			}
			switch it := v.(type) {
			case *Array:
				out = append(out, it.Elements...)
			case *String:
				for _, ch := range it.Value {
					out = append(out, &String{Value: string(ch)})
				}
			default:
				return nil, e.typeError(sp.Token, "%s is not iterable", typeOf(v))
			}
			continue
		}
		v := e.evalExpression(x, env)
		if th, ok := v.(*Thrown); ok {
			return nil, th
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalObjectLiteral(n *ast.ObjectLiteral, env *Environment) Object {
	rec := NewRecord()
	for _, p := range n.Properties {
		v := e.evalExpression(p.Value, env)
		if isThrown(v) {
			return v
		}
		if p.Spread {
			switch src := v.(type) {
			case *Record:
				for _, k := range src.Keys {
					rec.Set(k, src.Fields[k])
				}
			case *Array:
				for i, el := range src.Elements {
					rec.Set(formatNumber(float64(i)), el)
				}
			}
			continue
		}
		if fn, ok := v.(*Function); ok && fn.Name == "" {
			fn.Name = p.Key
		}
		rec.Set(p.Key, v)
	}
	return rec
}

// evalMember returns the property value and the receiver it was read
// from. An optional chain on null or undefined yields undefined.
func (e *Evaluator) evalMember(n *ast.MemberExpression, env *Environment) (Object, Object, *Thrown) {
	obj := e.evalExpression(n.Object, env)
	if th, ok := obj.(*Thrown); ok {
		return nil, nil, th
	}
	if n.Optional {
		switch obj.(type) {
		case *Null, *Undefined:
			return UNDEFINED, obj, nil
		}
	}
	var key Object
	if n.Computed {
		key = e.evalExpression(n.Index, env)
		if th, ok := key.(*Thrown); ok {
			return nil, nil, th
		}
	} else {
		key = &String{Value: n.Property.Value}
	}
	v, th := e.getProperty(obj, key, n.Token)
	return v, obj, th
}

func (e *Evaluator) getProperty(obj, key Object, tok token.Token) (Object, *Thrown) {
	switch o := obj.(type) {
	case *Null, *Undefined:
		return nil, e.typeError(tok, "Cannot read properties of %s (reading '%s')", obj.Inspect(), propertyKey(key))
	case *Record:
		if v, ok := o.Get(propertyKey(key)); ok {
			return v, nil
		}
		return UNDEFINED, nil
	case *Array:
		if i, ok := arrayIndex(key); ok {
			if i < len(o.Elements) {
				return o.Elements[i], nil
			}
			return UNDEFINED, nil
		}
		name := propertyKey(key)
		if name == "length" {
			return &Number{Value: float64(len(o.Elements))}, nil
		}
		if m, ok := arrayMethods[name]; ok {
			return bindMethod(name, o, m), nil
		}
		return UNDEFINED, nil
	case *String:
		runes := []rune(o.Value)
		if i, ok := arrayIndex(key); ok {
			if i < len(runes) {
				return &String{Value: string(runes[i])}, nil
			}
			return UNDEFINED, nil
		}
		name := propertyKey(key)
		if name == "length" {
			return &Number{Value: float64(len(runes))}, nil
		}
		if m, ok := stringMethods[name]; ok {
			return bindMethod(name, o, m), nil
		}
		return UNDEFINED, nil
	case *Function, *Partial, *Builtin:
		if propertyKey(key) == "name" {
			if f, ok := o.(*Function); ok {
				return &String{Value: f.Name}, nil
			}
		}
		if propertyKey(key) == "length" {
			if f, ok := o.(*Function); ok {
				return &Number{Value: float64(arity(f.Node))}, nil
			}
		}
		return UNDEFINED, nil
	}
	if m, ok := numberMethods[propertyKey(key)]; ok {
		if _, isNum := obj.(*Number); isNum {
			return bindMethod(propertyKey(key), obj, m), nil
		}
	}
	return UNDEFINED, nil
}

// arity counts parameters before the first default or rest parameter.
func arity(fn *ast.ArrowFunction) int {
	n := 0
	for _, p := range fn.Parameters {
		if p.Rest || p.Default != nil {
			break
		}
		n++
	}
	return n
}

func (e *Evaluator) evalCall(n *ast.CallExpression, env *Environment) Object {
	var callee Object
	if me, ok := n.Function.(*ast.MemberExpression); ok {
		v, _, th := e.evalMember(me, env)
		if th != nil {
			return th
		}
		callee = v
	} else {
		callee = e.evalExpression(n.Function, env)
		if isThrown(callee) {
			return callee
		}
	}
	if n.Optional {
		switch callee.(type) {
		case *Null, *Undefined:
			return UNDEFINED
		}
	}
	args, th := e.evalList(n.Arguments, env)
	if th != nil {
		return th
	}
	return e.apply(callee, args, n.Token)
}

// apply calls fn with args.
func (e *Evaluator) apply(fn Object, args []Object, tok token.Token) Object {
	switch f := fn.(type) {
	case *Builtin:
		return f.Fn(e, tok, args...)
	case *Partial:
		return e.apply(f.Fn, f.arguments(args), tok)
	case *Function:
		return e.applyFunction(f, args, tok)
	}
	return e.typeError(tok, "%s is not a function", inspect(fn, 1))
}

func (e *Evaluator) applyFunction(f *Function, args []Object, tok token.Token) Object {
	e.callDepth++
	defer func() { e.callDepth-- }()
	if e.callDepth > maxCallDepth {
		return e.throwError(tok, "RangeError", "Maximum call stack size exceeded")
	}
	env := NewEnclosedEnvironment(f.Env)
	for i, p := range f.Node.Parameters {
		if p.Rest {
			var rest []Object
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			env.Set(p.Name.Value, &Array{Elements: rest})
			break
		}
		var v Object = UNDEFINED
		if i < len(args) {
			v = args[i]
		}
		if _, undef := v.(*Undefined); undef && p.Default != nil {
			v = e.evalExpression(p.Default, env)
			if isThrown(v) {
				return v
			}
		}
		env.Set(p.Name.Value, v)
	}
	if block := f.Node.Block(); block != nil {
		r := e.evalStatements(block.Statements, env)
		switch r := r.(type) {
		case *ReturnValue:
			return r.Value
		case *Thrown:
			return r
		}
		return UNDEFINED
	}
	return e.evalExpression(f.Node.Body, env)
}

func (e *Evaluator) evalPrefix(n *ast.PrefixExpression, env *Environment) Object {
	if n.Operator == "typeof" {
		if id, ok := n.Right.(*ast.Identifier); ok {
			if _, found := env.Get(id.Value); !found {
				return &String{Value: "undefined"}
			}
		}
	}
	right := e.evalExpression(n.Right, env)
	if isThrown(right) {
		return right
	}
	switch n.Operator {
	case "!":
		return nativeBool(!truthy(right))
	case "-":
		return &Number{Value: -toNumber(right)}
	case "+":
		return &Number{Value: toNumber(right)}
	case "typeof":
		return &String{Value: typeOf(right)}
	}
	return e.typeError(n.Token, "unknown operator %s", n.Operator)
}

func (e *Evaluator) evalInfix(n *ast.InfixExpression, env *Environment) Object {
	left := e.evalExpression(n.Left, env)
	if isThrown(left) {
		return left
	}
	switch n.Operator {
	case "&&":
		if !truthy(left) {
			return left
		}
		return e.evalExpression(n.Right, env)
	case "||":
		if truthy(left) {
			return left
		}
		return e.evalExpression(n.Right, env)
	case "??":
		switch left.(type) {
		case *Null, *Undefined:
			return e.evalExpression(n.Right, env)
		}
		return left
	}
	right := e.evalExpression(n.Right, env)
	if isThrown(right) {
		return right
	}
	return e.binary(n.Operator, left, right, n.Token)
}

func (e *Evaluator) binary(op string, left, right Object, tok token.Token) Object {
	switch op {
	case "+":
		lp, rp := toPrimitive(left), toPrimitive(right)
		_, ls := lp.(*String)
		_, rs := rp.(*String)
		if ls || rs {
			return &String{Value: toString(lp) + toString(rp)}
		}
		return &Number{Value: toNumber(lp) + toNumber(rp)}
	case "-":
		return &Number{Value: toNumber(left) - toNumber(right)}
	case "*":
		return &Number{Value: toNumber(left) * toNumber(right)}
	case "/":
		return &Number{Value: toNumber(left) / toNumber(right)}
	case "%":
		return &Number{Value: math.Mod(toNumber(left), toNumber(right))}
	case "**":
		return &Number{Value: math.Pow(toNumber(left), toNumber(right))}
	case "===":
		return nativeBool(strictEquals(left, right))
	case "!==":
		return nativeBool(!strictEquals(left, right))
	case "==":
		return nativeBool(looseEquals(left, right))
	case "!=":
		return nativeBool(!looseEquals(left, right))
	case "<", ">", "<=", ">=":
		return nativeBool(compare(op, toPrimitive(left), toPrimitive(right)))
	}
	return e.typeError(tok, "unknown operator %s", op)
}

func toPrimitive(obj Object) Object {
	switch obj.(type) {
	case *Array, *Record, *Function, *Builtin, *Partial:
		return &String{Value: toString(obj)}
	}
	return obj
}

func compare(op string, a, b Object) bool {
	as, aok := a.(*String)
	bs, bok := b.(*String)
	if aok && bok {
		c := strings.Compare(as.Value, bs.Value)
		switch op {
		case "<":
			return c < 0
		case ">":
			return c > 0
		case "<=":
			return c <= 0
		}
		return c >= 0
	}
	x, y := toNumber(a), toNumber(b)
	switch op {
	case "<":
		return x < y
	case ">":
		return x > y
	case "<=":
		return x <= y
	}
	return x >= y
}

func strictEquals(a, b Object) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Undefined:
		_, ok := b.(*Undefined)
		return ok
	}
	return a == b
}

func looseEquals(a, b Object) bool {
	isNullish := func(o Object) bool {
		switch o.(type) {
		case *Null, *Undefined:
			return true
		}
		return false
	}
	if isNullish(a) || isNullish(b) {
		return isNullish(a) && isNullish(b)
	}
	if a.Type() == b.Type() {
		return strictEquals(a, b)
	}
	switch a.(type) {
	case *Number, *String, *Boolean:
	default:
		a = toPrimitive(a)
	}
	switch b.(type) {
	case *Number, *String, *Boolean:
	default:
		b = toPrimitive(b)
	}
	if a.Type() == b.Type() {
		return strictEquals(a, b)
	}
	return toNumber(a) == toNumber(b)
}

func (e *Evaluator) evalAssign(n *ast.AssignExpression, env *Environment) Object {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		val := e.evalExpression(n.Value, env)
		if isThrown(val) {
			return val
		}
		if n.Operator != "=" {
			cur := e.evalExpression(target, env)
			if isThrown(cur) {
				return cur
			}
			val = e.binary(strings.TrimSuffix(n.Operator, "="), cur, val, n.Token)
		}
		return e.assignName(target, val, env)
	case *ast.MemberExpression:
		obj := e.evalExpression(target.Object, env)
		if isThrown(obj) {
			return obj
		}
		var key Object
		if target.Computed {
			key = e.evalExpression(target.Index, env)
			if isThrown(key) {
				return key
			}
		} else {
			key = &String{Value: target.Property.Value}
		}
		val := e.evalExpression(n.Value, env)
		if isThrown(val) {
			return val
		}
		if n.Operator != "=" {
			cur, th := e.getProperty(obj, key, target.Token)
			if th != nil {
				return th
			}
			val = e.binary(strings.TrimSuffix(n.Operator, "="), cur, val, n.Token)
		}
		if th := e.setProperty(obj, key, val, target.Token); th != nil {
			return th
		}
		return val
	}
	return e.throwError(n.Token, "SyntaxError", "invalid assignment target")
}

func (e *Evaluator) assignName(id *ast.Identifier, val Object, env *Environment) Object {
	found, constant := env.Update(id.Value, val)
	if constant {
		return e.typeError(id.Token, "Assignment to constant variable.")
	}
	if !found {
		return e.throwError(id.Token, "ReferenceError", "%s is not defined", id.Value)
	}
	return val
}

func (e *Evaluator) setProperty(obj, key, val Object, tok token.Token) *Thrown {
	switch o := obj.(type) {
	case *Record:
		o.Set(propertyKey(key), val)
		return nil
	case *Array:
		if i, ok := arrayIndex(key); ok {
			for len(o.Elements) <= i {
				o.Elements = append(o.Elements, UNDEFINED)
			}
			o.Elements[i] = val
			return nil
		}
		if propertyKey(key) == "length" {
			if l, ok := arrayIndex(val); ok && l <= len(o.Elements) {
				o.Elements = o.Elements[:l]
				return nil
			}
			return e.throwError(tok, "RangeError", "Invalid array length")
		}
		return nil
	case *Null, *Undefined:
		return e.typeError(tok, "Cannot set properties of %s (setting '%s')", obj.Inspect(), propertyKey(key))
	}
	return nil
}

func (e *Evaluator) evalUpdate(n *ast.UpdateExpression, env *Environment) Object {
	delta := 1.0
	if n.Operator == "--" {
		delta = -1
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		cur := e.evalExpression(target, env)
		if isThrown(cur) {
			return cur
		}
		old := toNumber(cur)
		if r := e.assignName(target, &Number{Value: old + delta}, env); isThrown(r) {
			return r
		}
		if n.Prefix {
			return &Number{Value: old + delta}
		}
		return &Number{Value: old}
	case *ast.MemberExpression:
		obj := e.evalExpression(target.Object, env)
		if isThrown(obj) {
			return obj
		}
		var key Object
		if target.Computed {
			key = e.evalExpression(target.Index, env)
			if isThrown(key) {
				return key
			}
		} else {
			key = &String{Value: target.Property.Value}
		}
		cur, th := e.getProperty(obj, key, target.Token)
		if th != nil {
			return th
		}
		old := toNumber(cur)
		if th := e.setProperty(obj, key, &Number{Value: old + delta}, target.Token); th != nil {
			return th
		}
		if n.Prefix {
			return &Number{Value: old + delta}
		}
		return &Number{Value: old}
	}
	return e.throwError(n.Token, "SyntaxError", "invalid update target")
}
