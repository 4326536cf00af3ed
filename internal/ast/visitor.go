package ast

// Visitor has one method per node variant. The set of variants is closed:
// every node type in this package dispatches through Accept.
type Visitor interface {
	VisitProgram(node *Program)

	// Expressions
	VisitIdentifier(node *Identifier)
	VisitNumberLiteral(node *NumberLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitBooleanLiteral(node *BooleanLiteral)
	VisitNullLiteral(node *NullLiteral)
	VisitArrayLiteral(node *ArrayLiteral)
	VisitObjectLiteral(node *ObjectLiteral)
	VisitArrowFunction(node *ArrowFunction)
	VisitParameter(node *Parameter)
	VisitCallExpression(node *CallExpression)
	VisitMemberExpression(node *MemberExpression)
	VisitConditionalExpression(node *ConditionalExpression)
	VisitPrefixExpression(node *PrefixExpression)
	VisitInfixExpression(node *InfixExpression)
	VisitAssignExpression(node *AssignExpression)
	VisitUpdateExpression(node *UpdateExpression)
	VisitSpreadElement(node *SpreadElement)

	// Statements
	VisitVariableDeclaration(node *VariableDeclaration)
	VisitFunctionDeclaration(node *FunctionDeclaration)
	VisitInterfaceDeclaration(node *InterfaceDeclaration)
	VisitReturnStatement(node *ReturnStatement)
	VisitIfStatement(node *IfStatement)
	VisitBlockStatement(node *BlockStatement)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitForStatement(node *ForStatement)
	VisitForOfStatement(node *ForOfStatement)
	VisitWhileStatement(node *WhileStatement)
	VisitTryStatement(node *TryStatement)
	VisitThrowStatement(node *ThrowStatement)
	VisitBreakStatement(node *BreakStatement)
	VisitContinueStatement(node *ContinueStatement)

	// Types
	VisitTypeReference(node *TypeReference)
	VisitArrayType(node *ArrayType)
	VisitFunctionType(node *FunctionType)
	VisitUnionType(node *UnionType)
	VisitObjectType(node *ObjectType)
}

// BaseVisitor walks every child and does nothing else. Embed it and override
// the cases of interest; call the embedded method to keep descending.
type BaseVisitor struct {
	// Self is the outer visitor; children are dispatched through it so
	// overrides apply at every depth. Defaults to the BaseVisitor itself.
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) visit(n Node) {
	if n == nil || isNilNode(n) {
		return
	}
	n.Accept(b.self())
}

func (b *BaseVisitor) VisitProgram(node *Program) {
	for _, s := range node.Statements {
		b.visit(s)
	}
}

func (b *BaseVisitor) VisitIdentifier(node *Identifier)               {}
func (b *BaseVisitor) VisitNumberLiteral(node *NumberLiteral)         {}
func (b *BaseVisitor) VisitStringLiteral(node *StringLiteral)         {}
func (b *BaseVisitor) VisitBooleanLiteral(node *BooleanLiteral)       {}
func (b *BaseVisitor) VisitNullLiteral(node *NullLiteral)             {}
func (b *BaseVisitor) VisitBreakStatement(node *BreakStatement)       {}
func (b *BaseVisitor) VisitContinueStatement(node *ContinueStatement) {}

func (b *BaseVisitor) VisitArrayLiteral(node *ArrayLiteral) {
	for _, e := range node.Elements {
		b.visit(e)
	}
}

func (b *BaseVisitor) VisitObjectLiteral(node *ObjectLiteral) {
	for _, p := range node.Properties {
		b.visit(p.Value)
	}
}

func (b *BaseVisitor) VisitArrowFunction(node *ArrowFunction) {
	for _, p := range node.Parameters {
		b.visit(p)
	}
	b.visit(node.ReturnType)
	b.visit(node.Body)
}

func (b *BaseVisitor) VisitParameter(node *Parameter) {
	b.visit(node.Type)
	b.visit(node.Default)
}

func (b *BaseVisitor) VisitCallExpression(node *CallExpression) {
	b.visit(node.Function)
	for _, a := range node.Arguments {
		b.visit(a)
	}
}

func (b *BaseVisitor) VisitMemberExpression(node *MemberExpression) {
	b.visit(node.Object)
	if node.Computed {
		b.visit(node.Index)
	}
}

func (b *BaseVisitor) VisitConditionalExpression(node *ConditionalExpression) {
	b.visit(node.Condition)
	b.visit(node.Consequence)
	b.visit(node.Alternative)
}

func (b *BaseVisitor) VisitPrefixExpression(node *PrefixExpression) { b.visit(node.Right) }

func (b *BaseVisitor) VisitInfixExpression(node *InfixExpression) {
	b.visit(node.Left)
	b.visit(node.Right)
}

func (b *BaseVisitor) VisitAssignExpression(node *AssignExpression) {
	b.visit(node.Target)
	b.visit(node.Value)
}

func (b *BaseVisitor) VisitUpdateExpression(node *UpdateExpression) { b.visit(node.Target) }
func (b *BaseVisitor) VisitSpreadElement(node *SpreadElement)       { b.visit(node.Argument) }

func (b *BaseVisitor) VisitVariableDeclaration(node *VariableDeclaration) {
	b.visit(node.Type)
	b.visit(node.Value)
}

func (b *BaseVisitor) VisitFunctionDeclaration(node *FunctionDeclaration) {
	b.visit(node.Function)
}

func (b *BaseVisitor) VisitInterfaceDeclaration(node *InterfaceDeclaration) {
	for _, m := range node.Members {
		b.visit(m.Type)
	}
}

func (b *BaseVisitor) VisitReturnStatement(node *ReturnStatement) { b.visit(node.Value) }

func (b *BaseVisitor) VisitIfStatement(node *IfStatement) {
	b.visit(node.Condition)
	b.visit(node.Consequence)
	b.visit(node.Alternative)
}

func (b *BaseVisitor) VisitBlockStatement(node *BlockStatement) {
	for _, s := range node.Statements {
		b.visit(s)
	}
}

func (b *BaseVisitor) VisitExpressionStatement(node *ExpressionStatement) {
	b.visit(node.Expression)
}

func (b *BaseVisitor) VisitForStatement(node *ForStatement) {
	b.visit(node.Init)
	b.visit(node.Condition)
	b.visit(node.Update)
	b.visit(node.Body)
}

func (b *BaseVisitor) VisitForOfStatement(node *ForOfStatement) {
	b.visit(node.Iterable)
	b.visit(node.Body)
}

func (b *BaseVisitor) VisitWhileStatement(node *WhileStatement) {
	b.visit(node.Condition)
	b.visit(node.Body)
}

func (b *BaseVisitor) VisitTryStatement(node *TryStatement) {
	b.visit(node.Block)
	b.visit(node.Handler)
	b.visit(node.Finalizer)
}

func (b *BaseVisitor) VisitThrowStatement(node *ThrowStatement) { b.visit(node.Value) }

func (b *BaseVisitor) VisitTypeReference(node *TypeReference) {
	for _, a := range node.Args {
		b.visit(a)
	}
}

func (b *BaseVisitor) VisitArrayType(node *ArrayType) { b.visit(node.Element) }

func (b *BaseVisitor) VisitFunctionType(node *FunctionType) {
	for _, p := range node.Parameters {
		b.visit(p)
	}
	b.visit(node.ReturnType)
}

func (b *BaseVisitor) VisitUnionType(node *UnionType) {
	for _, t := range node.Types {
		b.visit(t)
	}
}

func (b *BaseVisitor) VisitObjectType(node *ObjectType) {
	for _, m := range node.Members {
		b.visit(m.Type)
	}
}
