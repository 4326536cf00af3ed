package ast

import "reflect"

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Children returns the direct child nodes of n in source order.
// Nil optional children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !isNilNode(c) {
			out = append(out, c)
		}
	}
	switch node := n.(type) {
	case *Program:
		for _, s := range node.Statements {
			add(s)
		}
	case *ArrayLiteral:
		for _, e := range node.Elements {
			add(e)
		}
	case *ObjectLiteral:
		for _, p := range node.Properties {
			add(p.Value)
		}
	case *Parameter:
		add(node.Type)
		add(node.Default)
	case *ArrowFunction:
		for _, p := range node.Parameters {
			add(p.Type)
			add(p.Default)
		}
		add(node.ReturnType)
		add(node.Body)
	case *CallExpression:
		add(node.Function)
		for _, a := range node.Arguments {
			add(a)
		}
	case *MemberExpression:
		add(node.Object)
		if node.Computed {
			add(node.Index)
		}
	case *ConditionalExpression:
		add(node.Condition)
		add(node.Consequence)
		add(node.Alternative)
	case *PrefixExpression:
		add(node.Right)
	case *InfixExpression:
		add(node.Left)
		add(node.Right)
	case *AssignExpression:
		add(node.Target)
		add(node.Value)
	case *UpdateExpression:
		add(node.Target)
	case *SpreadElement:
		add(node.Argument)
	case *VariableDeclaration:
		add(node.Type)
		add(node.Value)
	case *FunctionDeclaration:
		add(node.Function)
	case *InterfaceDeclaration:
		for _, m := range node.Members {
			add(m.Type)
		}
	case *ReturnStatement:
		add(node.Value)
	case *IfStatement:
		add(node.Condition)
		add(node.Consequence)
		add(node.Alternative)
	case *BlockStatement:
		for _, s := range node.Statements {
			add(s)
		}
	case *ExpressionStatement:
		add(node.Expression)
	case *ForStatement:
		add(node.Init)
		add(node.Condition)
		add(node.Update)
		add(node.Body)
	case *ForOfStatement:
		add(node.Iterable)
		add(node.Body)
	case *WhileStatement:
		add(node.Condition)
		add(node.Body)
	case *TryStatement:
		add(node.Block)
		add(node.Handler)
		add(node.Finalizer)
	case *ThrowStatement:
		add(node.Value)
	case *TypeReference:
		for _, a := range node.Args {
			add(a)
		}
	case *ArrayType:
		add(node.Element)
	case *FunctionType:
		for _, p := range node.Parameters {
			add(p.Type)
		}
		add(node.ReturnType)
	case *UnionType:
		for _, t := range node.Types {
			add(t)
		}
	case *ObjectType:
		for _, m := range node.Members {
			add(m.Type)
		}
	}
	return out
}

// Inspect traverses the tree depth-first. If f returns false the children
// of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNilNode(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// InspectShallow is Inspect without descending into nested functions.
// The root itself is descended into even when it is a function.
func InspectShallow(n Node, f func(Node) bool) {
	if isNilNode(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		switch c.(type) {
		case *ArrowFunction, *FunctionDeclaration:
			f(c)
			continue
		}
		InspectShallow(c, f)
	}
}

// IsFunctionNode reports whether n introduces a new function scope.
func IsFunctionNode(n Node) bool {
	switch n.(type) {
	case *ArrowFunction, *FunctionDeclaration:
		return true
	}
	return false
}
