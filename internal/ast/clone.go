package ast

// CloneExpression returns a deep copy of e. Tokens are copied by value.
func CloneExpression(e Expression) Expression {
	if isNilNode(e) {
		return nil
	}
	switch n := e.(type) {
	case *Identifier:
		return CloneIdentifier(n)
	case *NumberLiteral:
		c := *n
		return &c
	case *StringLiteral:
		c := *n
		return &c
	case *BooleanLiteral:
		c := *n
		return &c
	case *NullLiteral:
		c := *n
		return &c
	case *ArrayLiteral:
		return &ArrayLiteral{Token: n.Token, Elements: cloneExpressions(n.Elements)}
	case *ObjectLiteral:
		props := make([]*Property, len(n.Properties))
		for i, p := range n.Properties {
			cp := *p
			cp.Value = CloneExpression(p.Value)
			props[i] = &cp
		}
		return &ObjectLiteral{Token: n.Token, Properties: props}
	case *ArrowFunction:
		return CloneFunction(n)
	case *CallExpression:
		return &CallExpression{
			Token:     n.Token,
			Function:  CloneExpression(n.Function),
			Arguments: cloneExpressions(n.Arguments),
			Optional:  n.Optional,
		}
	case *MemberExpression:
		return &MemberExpression{
			Token:    n.Token,
			Object:   CloneExpression(n.Object),
			Property: CloneIdentifier(n.Property),
			Index:    CloneExpression(n.Index),
			Computed: n.Computed,
			Optional: n.Optional,
		}
	case *ConditionalExpression:
		return &ConditionalExpression{
			Token:       n.Token,
			Condition:   CloneExpression(n.Condition),
			Consequence: CloneExpression(n.Consequence),
			Alternative: CloneExpression(n.Alternative),
		}
	case *PrefixExpression:
		return &PrefixExpression{Token: n.Token, Operator: n.Operator, Right: CloneExpression(n.Right)}
	case *InfixExpression:
		return &InfixExpression{
			Token:    n.Token,
			Left:     CloneExpression(n.Left),
			Operator: n.Operator,
			Right:    CloneExpression(n.Right),
		}
	case *AssignExpression:
		return &AssignExpression{
			Token:    n.Token,
			Target:   CloneExpression(n.Target),
			Operator: n.Operator,
			Value:    CloneExpression(n.Value),
		}
	case *UpdateExpression:
		return &UpdateExpression{Token: n.Token, Operator: n.Operator, Prefix: n.Prefix, Target: CloneExpression(n.Target)}
	case *SpreadElement:
		return &SpreadElement{Token: n.Token, Argument: CloneExpression(n.Argument)}
	case *BlockStatement:
		return CloneBlock(n)
	}
	return e
}

func cloneExpressions(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		out[i] = CloneExpression(e)
	}
	return out
}

func CloneIdentifier(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneIdentifiers(ids []*Identifier) []*Identifier {
	if ids == nil {
		return nil
	}
	out := make([]*Identifier, len(ids))
	for i, id := range ids {
		out[i] = CloneIdentifier(id)
	}
	return out
}

// CloneParameter deep-copies a parameter including its annotation.
func CloneParameter(p *Parameter) *Parameter {
	if p == nil {
		return nil
	}
	return &Parameter{
		Token:   p.Token,
		Name:    CloneIdentifier(p.Name),
		Type:    CloneType(p.Type),
		Rest:    p.Rest,
		Default: CloneExpression(p.Default),
	}
}

func CloneFunction(f *ArrowFunction) *ArrowFunction {
	if f == nil {
		return nil
	}
	params := make([]*Parameter, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = CloneParameter(p)
	}
	return &ArrowFunction{
		Token:      f.Token,
		Name:       CloneIdentifier(f.Name),
		TypeParams: cloneIdentifiers(f.TypeParams),
		Parameters: params,
		ReturnType: CloneType(f.ReturnType),
		Body:       CloneExpression(f.Body),
		IsFunction: f.IsFunction,
	}
}

func CloneBlock(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}
	stmts := make([]Statement, len(b.Statements))
	for i, s := range b.Statements {
		stmts[i] = CloneStatement(s)
	}
	return &BlockStatement{Token: b.Token, Statements: stmts}
}

// CloneStatement returns a deep copy of s.
func CloneStatement(s Statement) Statement {
	if isNilNode(s) {
		return nil
	}
	switch n := s.(type) {
	case *VariableDeclaration:
		return &VariableDeclaration{
			Token:    n.Token,
			Kind:     n.Kind,
			Name:     CloneIdentifier(n.Name),
			Type:     CloneType(n.Type),
			Value:    CloneExpression(n.Value),
			Exported: n.Exported,
		}
	case *FunctionDeclaration:
		return &FunctionDeclaration{
			Token:    n.Token,
			Name:     CloneIdentifier(n.Name),
			Function: CloneFunction(n.Function),
			Exported: n.Exported,
		}
	case *InterfaceDeclaration:
		return &InterfaceDeclaration{
			Token:      n.Token,
			Name:       CloneIdentifier(n.Name),
			TypeParams: cloneIdentifiers(n.TypeParams),
			Members:    cloneMembers(n.Members),
			Exported:   n.Exported,
		}
	case *ReturnStatement:
		return &ReturnStatement{Token: n.Token, Value: CloneExpression(n.Value)}
	case *IfStatement:
		return &IfStatement{
			Token:       n.Token,
			Condition:   CloneExpression(n.Condition),
			Consequence: CloneStatement(n.Consequence),
			Alternative: CloneStatement(n.Alternative),
		}
	case *BlockStatement:
		return CloneBlock(n)
	case *ExpressionStatement:
		return &ExpressionStatement{Token: n.Token, Expression: CloneExpression(n.Expression)}
	case *ForStatement:
		return &ForStatement{
			Token:     n.Token,
			Init:      CloneStatement(n.Init),
			Condition: CloneExpression(n.Condition),
			Update:    CloneExpression(n.Update),
			Body:      CloneStatement(n.Body),
		}
	case *ForOfStatement:
		return &ForOfStatement{
			Token:    n.Token,
			Kind:     n.Kind,
			Name:     CloneIdentifier(n.Name),
			Iterable: CloneExpression(n.Iterable),
			Body:     CloneStatement(n.Body),
		}
	case *WhileStatement:
		return &WhileStatement{Token: n.Token, Condition: CloneExpression(n.Condition), Body: CloneStatement(n.Body)}
	case *TryStatement:
		return &TryStatement{
			Token:     n.Token,
			Block:     CloneBlock(n.Block),
			Param:     CloneIdentifier(n.Param),
			Handler:   CloneBlock(n.Handler),
			Finalizer: CloneBlock(n.Finalizer),
		}
	case *ThrowStatement:
		return &ThrowStatement{Token: n.Token, Value: CloneExpression(n.Value)}
	case *BreakStatement:
		c := *n
		return &c
	case *ContinueStatement:
		c := *n
		return &c
	}
	return s
}

func cloneMembers(ms []*InterfaceMember) []*InterfaceMember {
	out := make([]*InterfaceMember, len(ms))
	for i, m := range ms {
		cm := *m
		cm.Type = CloneType(m.Type)
		out[i] = &cm
	}
	return out
}

// CloneType returns a deep copy of a type annotation.
func CloneType(t Type) Type {
	if isNilNode(t) {
		return nil
	}
	switch n := t.(type) {
	case *TypeReference:
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = CloneType(a)
		}
		if n.Args == nil {
			args = nil
		}
		return &TypeReference{Token: n.Token, Name: n.Name, Args: args}
	case *ArrayType:
		return &ArrayType{Token: n.Token, Element: CloneType(n.Element)}
	case *FunctionType:
		params := make([]*Parameter, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = CloneParameter(p)
		}
		return &FunctionType{Token: n.Token, Parameters: params, ReturnType: CloneType(n.ReturnType)}
	case *UnionType:
		types := make([]Type, len(n.Types))
		for i, u := range n.Types {
			types[i] = CloneType(u)
		}
		return &UnionType{Token: n.Token, Types: types}
	case *ObjectType:
		return &ObjectType{Token: n.Token, Members: cloneMembers(n.Members)}
	}
	return t
}
