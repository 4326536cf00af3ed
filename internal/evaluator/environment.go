package evaluator

type binding struct {
	value    Object
	constant bool
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment is one lexical scope. Evaluation is single-threaded, so it
// carries no lock.
type Environment struct {
	store map[string]*binding
	outer *Environment
}

func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Set declares name in this scope, replacing an earlier declaration.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = &binding{value: val}
	return val
}

func (e *Environment) SetConst(name string, val Object) Object {
	e.store[name] = &binding{value: val, constant: true}
	return val
}

// Update assigns to the nearest declaration of name. found is false when
// no scope declares it; constant is true when the declaration is const.
func (e *Environment) Update(name string, val Object) (found, constant bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			if b.constant {
				return true, true
			}
			b.value = val
			return true, false
		}
	}
	return false, false
}
