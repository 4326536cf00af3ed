package ast

// FreeVariables returns the names referenced by n that are not bound inside n.
// Property names, object keys and type annotations are not references.
func FreeVariables(n Node) map[string]bool {
	free := make(map[string]bool)
	collectFree(n, map[string]bool{}, free)
	return free
}

// DeclaredNames returns the names a statement list binds in its own scope.
func DeclaredNames(stmts []Statement) []string {
	var names []string
	for _, s := range stmts {
		switch d := s.(type) {
		case *VariableDeclaration:
			names = append(names, d.Name.Value)
		case *FunctionDeclaration:
			names = append(names, d.Name.Value)
		}
	}
	return names
}

func extend(bound map[string]bool, names ...string) map[string]bool {
	out := make(map[string]bool, len(bound)+len(names))
	for k := range bound {
		out[k] = true
	}
	for _, n := range names {
		out[n] = true
	}
	return out
}

func collectFree(n Node, bound map[string]bool, free map[string]bool) {
	if isNilNode(n) {
		return
	}
	switch node := n.(type) {
	case *Identifier:
		if !bound[node.Value] {
			free[node.Value] = true
		}
	case *MemberExpression:
		collectFree(node.Object, bound, free)
		if node.Computed {
			collectFree(node.Index, bound, free)
		}
	case *ObjectLiteral:
		for _, p := range node.Properties {
			collectFree(p.Value, bound, free)
		}
	case *ArrowFunction:
		names := node.ParamNames()
		if node.Name != nil {
			names = append(names, node.Name.Value)
		}
		inner := extend(bound, names...)
		for _, p := range node.Parameters {
			collectFree(p.Default, inner, free)
		}
		collectFree(node.Body, inner, free)
	case *BlockStatement:
		inner := extend(bound, DeclaredNames(node.Statements)...)
		for _, s := range node.Statements {
			collectFree(s, inner, free)
		}
	case *Program:
		inner := extend(bound, DeclaredNames(node.Statements)...)
		for _, s := range node.Statements {
			collectFree(s, inner, free)
		}
	case *VariableDeclaration:
		collectFree(node.Value, bound, free)
	case *FunctionDeclaration:
		collectFree(node.Function, extend(bound, node.Name.Value), free)
	case *ForStatement:
		inner := bound
		if vd, ok := node.Init.(*VariableDeclaration); ok {
			inner = extend(bound, vd.Name.Value)
		}
		collectFree(node.Init, inner, free)
		collectFree(node.Condition, inner, free)
		collectFree(node.Update, inner, free)
		collectFree(node.Body, inner, free)
	case *ForOfStatement:
		collectFree(node.Iterable, bound, free)
		collectFree(node.Body, extend(bound, node.Name.Value), free)
	case *TryStatement:
		collectFree(node.Block, bound, free)
		if node.Handler != nil {
			inner := bound
			if node.Param != nil {
				inner = extend(bound, node.Param.Value)
			}
			collectFree(node.Handler, inner, free)
		}
		collectFree(node.Finalizer, bound, free)
	case *InterfaceDeclaration, *TypeReference, *ArrayType, *FunctionType, *UnionType, *ObjectType:
		// types live in their own namespace
	default:
		for _, c := range Children(n) {
			if _, isType := c.(Type); isType {
				continue
			}
			collectFree(c, bound, free)
		}
	}
}

// References counts the free occurrences of name within n.
func References(n Node, name string) int {
	count := 0
	countRefs(n, name, &count)
	return count
}

func countRefs(n Node, name string, count *int) {
	if isNilNode(n) {
		return
	}
	switch node := n.(type) {
	case *Identifier:
		if node.Value == name {
			*count++
		}
		return
	case *MemberExpression:
		countRefs(node.Object, name, count)
		if node.Computed {
			countRefs(node.Index, name, count)
		}
		return
	case *ObjectLiteral:
		for _, p := range node.Properties {
			countRefs(p.Value, name, count)
		}
		return
	case *ArrowFunction:
		for _, p := range node.Parameters {
			if p.Name.Value == name {
				return
			}
		}
		if node.Name != nil && node.Name.Value == name {
			return
		}
		for _, p := range node.Parameters {
			countRefs(p.Default, name, count)
		}
		countRefs(node.Body, name, count)
		return
	case *BlockStatement:
		if declares(node.Statements, name) {
			return
		}
	case *FunctionDeclaration:
		if node.Name.Value == name {
			return
		}
	case *ForOfStatement:
		countRefs(node.Iterable, name, count)
		if node.Name.Value != name {
			countRefs(node.Body, name, count)
		}
		return
	case *ForStatement:
		if vd, ok := node.Init.(*VariableDeclaration); ok && vd.Name.Value == name {
			return
		}
	case *TryStatement:
		countRefs(node.Block, name, count)
		if node.Param == nil || node.Param.Value != name {
			countRefs(node.Handler, name, count)
		}
		countRefs(node.Finalizer, name, count)
		return
	case Type, *InterfaceDeclaration:
		return
	}
	for _, c := range Children(n) {
		countRefs(c, name, count)
	}
}

func declares(stmts []Statement, name string) bool {
	for _, d := range DeclaredNames(stmts) {
		if d == name {
			return true
		}
	}
	return false
}
