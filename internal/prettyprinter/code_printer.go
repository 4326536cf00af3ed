package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Expression precedence (higher = binds tighter)
const (
	precAssign = iota + 1
	precConditional
	precNullish
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precPower
	precPrefix
	precPostfix
	precCall
	precPrimary
)

var operatorPrecedence = map[string]int{
	"??":  precNullish,
	"||":  precOr,
	"&&":  precAnd,
	"==":  precEquality,
	"!=":  precEquality,
	"===": precEquality,
	"!==": precEquality,
	"<":   precRelational,
	">":   precRelational,
	"<=":  precRelational,
	">=":  precRelational,
	"+":   precAdditive,
	"-":   precAdditive,
	"*":   precMultiplicative,
	"/":   precMultiplicative,
	"%":   precMultiplicative,
	"**":  precPower,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precPrimary
}

// Right-associative operators
var rightAssoc = map[string]bool{
	"**": true,
}

// exprPrecedence returns how tightly e binds when printed unparenthesised.
func exprPrecedence(e ast.Expression) int {
	switch n := e.(type) {
	case *ast.AssignExpression, *ast.ArrowFunction, *ast.SpreadElement:
		return precAssign
	case *ast.ConditionalExpression:
		return precConditional
	case *ast.InfixExpression:
		return getPrecedence(n.Operator)
	case *ast.PrefixExpression:
		return precPrefix
	case *ast.UpdateExpression:
		if n.Prefix {
			return precPrefix
		}
		return precPostfix
	case *ast.CallExpression, *ast.MemberExpression:
		return precCall
	}
	return precPrimary
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders any node as source text.
func Print(n ast.Node) string {
	p := NewCodePrinter()
	n.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, minPrec int) {
	if expr == nil {
		p.write("<???>")
		return
	}
	if exprPrecedence(expr) < minPrec {
		p.write("(")
		expr.Accept(p)
		p.write(")")
		return
	}
	expr.Accept(p)
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	if stmt == nil {
		p.write("<???>")
		return
	}
	stmt.Accept(p)
}

func (p *CodePrinter) printStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		p.writeIndent()
		p.printStatement(stmt)
		p.write("\n")
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	p.printStatements(n.Statements)
}

// --- Expressions ---

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	if n.Token.Type == token.NUMBER && n.Token.Lexeme != "" {
		p.write(n.Token.Lexeme)
		return
	}
	p.write(strconv.FormatFloat(n.Value, 'f', -1, 64))
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	if n.Value {
		p.write("true")
	} else {
		p.write("false")
	}
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) {
	p.write("null")
}

func (p *CodePrinter) VisitArrayLiteral(n *ast.ArrayLiteral) {
	p.write("[")
	p.printArgs(n.Elements)
	p.write("]")
}

func (p *CodePrinter) printArgs(args []ast.Expression) {
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, precAssign)
	}
}

func (p *CodePrinter) VisitObjectLiteral(n *ast.ObjectLiteral) {
	if len(n.Properties) == 0 {
		p.write("{}")
		return
	}
	multiline := false
	for _, prop := range n.Properties {
		if fn, ok := prop.Value.(*ast.ArrowFunction); ok && fn.Block() != nil {
			multiline = true
		}
	}
	if !multiline {
		p.write("{ ")
		for i, prop := range n.Properties {
			if i > 0 {
				p.write(", ")
			}
			p.printProperty(prop)
		}
		p.write(" }")
		return
	}
	p.write("{\n")
	p.indent++
	for _, prop := range n.Properties {
		p.writeIndent()
		p.printProperty(prop)
		p.write(",\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printProperty(prop *ast.Property) {
	switch {
	case prop.Spread:
		p.write("...")
		p.printExpr(prop.Value, precAssign)
	case prop.Shorthand:
		p.write(prop.Key)
	case prop.Method:
		fn := prop.Value.(*ast.ArrowFunction)
		p.write(propertyKey(prop.Key))
		p.printSignature(fn)
		p.write(" ")
		p.printFunctionBody(fn)
	default:
		p.write(propertyKey(prop.Key))
		p.write(": ")
		p.printExpr(prop.Value, precAssign)
	}
}

func propertyKey(key string) string {
	if isIdentifierName(key) {
		return key
	}
	if _, err := strconv.ParseFloat(key, 64); err == nil && key != "" && key[0] != '-' {
		return key
	}
	return strconv.Quote(key)
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		letter := ch == '_' || ch == '$' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		if !letter && (i == 0 || ch < '0' || ch > '9') {
			return false
		}
	}
	return true
}

func (p *CodePrinter) VisitArrowFunction(n *ast.ArrowFunction) {
	if n.IsFunction {
		p.write("function")
		if n.Name != nil {
			p.write(" " + n.Name.Value)
		}
		p.printSignature(n)
		p.write(" ")
		p.printFunctionBody(n)
		return
	}
	p.printSignature(n)
	p.write(" => ")
	switch body := n.Body.(type) {
	case *ast.BlockStatement:
		p.VisitBlockStatement(body)
	case *ast.ObjectLiteral:
		p.write("(")
		body.Accept(p)
		p.write(")")
	default:
		p.printExpr(body, precAssign)
	}
}

func (p *CodePrinter) printSignature(fn *ast.ArrowFunction) {
	if len(fn.TypeParams) > 0 {
		p.write("<")
		for i, tp := range fn.TypeParams {
			if i > 0 {
				p.write(", ")
			}
			p.write(tp.Value)
		}
		p.write(">")
	}
	p.printParameters(fn.Parameters)
	if fn.ReturnType != nil {
		p.write(": ")
		fn.ReturnType.Accept(p)
	}
}

func (p *CodePrinter) printParameters(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		param.Accept(p)
	}
	p.write(")")
}

func (p *CodePrinter) VisitParameter(n *ast.Parameter) {
	if n.Rest {
		p.write("...")
	}
	p.write(n.Name.Value)
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Default != nil {
		p.write(" = ")
		p.printExpr(n.Default, precAssign)
	}
}

// printFunctionBody prints a 'function' body, which must be a block.
func (p *CodePrinter) printFunctionBody(fn *ast.ArrowFunction) {
	if block := fn.Block(); block != nil {
		p.VisitBlockStatement(block)
		return
	}
	p.write("{ return ")
	p.printExpr(fn.Body, precAssign)
	p.write("; }")
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function, precCall)
	if n.Optional {
		p.write("?.")
	}
	p.write("(")
	p.printArgs(n.Arguments)
	p.write(")")
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	if _, isNum := n.Object.(*ast.NumberLiteral); isNum && !n.Computed {
		p.write("(")
		n.Object.Accept(p)
		p.write(")")
	} else {
		p.printExpr(n.Object, precCall)
	}
	if n.Computed {
		if n.Optional {
			p.write("?.")
		}
		p.write("[")
		p.printExpr(n.Index, precAssign)
		p.write("]")
		return
	}
	if n.Optional {
		p.write("?.")
	} else {
		p.write(".")
	}
	p.write(n.PropertyName())
}

func (p *CodePrinter) VisitConditionalExpression(n *ast.ConditionalExpression) {
	p.printExpr(n.Condition, precNullish)
	p.write(" ? ")
	p.printExpr(n.Consequence, precAssign)
	p.write(" : ")
	p.printExpr(n.Alternative, precAssign)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator)
	if n.Operator == "typeof" {
		p.write(" ")
	} else if startsWithSign(n.Right, n.Operator) {
		p.write(" ")
	}
	p.printExpr(n.Right, precPrefix)
}

// startsWithSign reports whether printing e right after op would fuse into
// a different token, as in "- -x" or "+ ++x".
func startsWithSign(e ast.Expression, op string) bool {
	if op != "-" && op != "+" {
		return false
	}
	switch n := e.(type) {
	case *ast.PrefixExpression:
		return n.Operator[:1] == op
	case *ast.UpdateExpression:
		return n.Prefix && n.Operator[:1] == op
	}
	return false
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	prec := getPrecedence(n.Operator)
	leftMin, rightMin := prec, prec+1
	if rightAssoc[n.Operator] {
		// The left operand of ** may not be a bare unary expression.
		leftMin, rightMin = precPostfix, prec
	}
	p.printOperand(n.Left, n.Operator, leftMin)
	p.write(" " + n.Operator + " ")
	p.printOperand(n.Right, n.Operator, rightMin)
}

// printOperand parenthesises ?? mixed with || or &&, which the grammar
// rejects without explicit grouping.
func (p *CodePrinter) printOperand(e ast.Expression, parentOp string, minPrec int) {
	if child, ok := e.(*ast.InfixExpression); ok && mixesNullish(parentOp, child.Operator) {
		p.write("(")
		e.Accept(p)
		p.write(")")
		return
	}
	p.printExpr(e, minPrec)
}

func mixesNullish(a, b string) bool {
	logical := func(op string) bool { return op == "||" || op == "&&" }
	return (a == "??" && logical(b)) || (b == "??" && logical(a))
}

func (p *CodePrinter) VisitAssignExpression(n *ast.AssignExpression) {
	p.printExpr(n.Target, precCall)
	p.write(" " + n.Operator + " ")
	p.printExpr(n.Value, precAssign)
}

func (p *CodePrinter) VisitUpdateExpression(n *ast.UpdateExpression) {
	if n.Prefix {
		p.write(n.Operator)
		p.printExpr(n.Target, precCall)
		return
	}
	p.printExpr(n.Target, precCall)
	p.write(n.Operator)
}

func (p *CodePrinter) VisitSpreadElement(n *ast.SpreadElement) {
	p.write("...")
	p.printExpr(n.Argument, precAssign)
}

// --- Statements ---

func (p *CodePrinter) VisitVariableDeclaration(n *ast.VariableDeclaration) {
	p.printDeclaration(n)
	p.write(";")
}

func (p *CodePrinter) printDeclaration(n *ast.VariableDeclaration) {
	if n.Exported {
		p.write("export ")
	}
	p.write(n.Kind + " " + n.Name.Value)
	if n.Type != nil {
		p.write(": ")
		n.Type.Accept(p)
	}
	if n.Value != nil {
		p.write(" = ")
		p.printExpr(n.Value, precAssign)
	}
}

func (p *CodePrinter) VisitFunctionDeclaration(n *ast.FunctionDeclaration) {
	if n.Exported {
		p.write("export ")
	}
	p.write("function " + n.Name.Value)
	p.printSignature(n.Function)
	p.write(" ")
	p.printFunctionBody(n.Function)
}

func (p *CodePrinter) VisitInterfaceDeclaration(n *ast.InterfaceDeclaration) {
	if n.Exported {
		p.write("export ")
	}
	p.write("interface " + n.Name.Value)
	if len(n.TypeParams) > 0 {
		names := make([]string, len(n.TypeParams))
		for i, tp := range n.TypeParams {
			names[i] = tp.Value
		}
		p.write("<" + strings.Join(names, ", ") + ">")
	}
	if len(n.Members) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {\n")
	p.indent++
	for _, m := range n.Members {
		p.writeIndent()
		p.printMember(m)
		p.write(";\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printMember(m *ast.InterfaceMember) {
	p.write(propertyKey(m.Name))
	if m.Optional {
		p.write("?")
	}
	if ft, ok := m.Type.(*ast.FunctionType); ok && m.Method {
		p.printParameters(ft.Parameters)
		if ft.ReturnType != nil {
			p.write(": ")
			ft.ReturnType.Accept(p)
		}
		return
	}
	p.write(": ")
	if m.Type != nil {
		m.Type.Accept(p)
	}
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	if n.Value == nil {
		p.write("return;")
		return
	}
	p.write("return ")
	p.printExpr(n.Value, precAssign)
	p.write(";")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if (")
	p.printExpr(n.Condition, precAssign)
	p.write(") ")
	p.printStatement(n.Consequence)
	if n.Alternative == nil {
		return
	}
	if _, isBlock := n.Consequence.(*ast.BlockStatement); isBlock {
		p.write(" else ")
	} else {
		p.write("\n")
		p.writeIndent()
		p.write("else ")
	}
	p.printStatement(n.Alternative)
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	p.printStatements(n.Statements)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	if startsAmbiguously(n.Expression) {
		p.write("(")
		n.Expression.Accept(p)
		p.write(");")
		return
	}
	p.printExpr(n.Expression, 0)
	p.write(";")
}

// startsAmbiguously reports whether e would begin with '{' or 'function'
// and so be read back as a block or declaration.
func startsAmbiguously(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.ObjectLiteral:
		return true
	case *ast.ArrowFunction:
		return n.IsFunction
	case *ast.CallExpression:
		return startsAmbiguously(n.Function)
	case *ast.MemberExpression:
		return startsAmbiguously(n.Object)
	case *ast.InfixExpression:
		return startsAmbiguously(n.Left)
	case *ast.ConditionalExpression:
		return startsAmbiguously(n.Condition)
	case *ast.AssignExpression:
		return startsAmbiguously(n.Target)
	case *ast.UpdateExpression:
		return !n.Prefix && startsAmbiguously(n.Target)
	}
	return false
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	p.write("for (")
	switch init := n.Init.(type) {
	case nil:
	case *ast.VariableDeclaration:
		p.printDeclaration(init)
	case *ast.ExpressionStatement:
		p.printExpr(init.Expression, 0)
	default:
		p.printStatement(init)
	}
	p.write(";")
	if n.Condition != nil {
		p.write(" ")
		p.printExpr(n.Condition, precAssign)
	}
	p.write(";")
	if n.Update != nil {
		p.write(" ")
		p.printExpr(n.Update, precAssign)
	}
	p.write(") ")
	p.printStatement(n.Body)
}

func (p *CodePrinter) VisitForOfStatement(n *ast.ForOfStatement) {
	p.write("for (" + n.Kind + " " + n.Name.Value + " of ")
	p.printExpr(n.Iterable, precAssign)
	p.write(") ")
	p.printStatement(n.Body)
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while (")
	p.printExpr(n.Condition, precAssign)
	p.write(") ")
	p.printStatement(n.Body)
}

func (p *CodePrinter) VisitTryStatement(n *ast.TryStatement) {
	p.write("try ")
	p.VisitBlockStatement(n.Block)
	if n.Handler != nil {
		p.write(" catch ")
		if n.Param != nil {
			p.write("(" + n.Param.Value + ") ")
		}
		p.VisitBlockStatement(n.Handler)
	}
	if n.Finalizer != nil {
		p.write(" finally ")
		p.VisitBlockStatement(n.Finalizer)
	}
}

func (p *CodePrinter) VisitThrowStatement(n *ast.ThrowStatement) {
	p.write("throw ")
	p.printExpr(n.Value, precAssign)
	p.write(";")
}

func (p *CodePrinter) VisitBreakStatement(n *ast.BreakStatement) {
	p.write("break;")
}

func (p *CodePrinter) VisitContinueStatement(n *ast.ContinueStatement) {
	p.write("continue;")
}

// --- Types ---

func (p *CodePrinter) VisitTypeReference(n *ast.TypeReference) {
	p.write(n.Name)
	if len(n.Args) > 0 {
		p.write("<")
		for i, arg := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			arg.Accept(p)
		}
		p.write(">")
	}
}

func (p *CodePrinter) VisitArrayType(n *ast.ArrayType) {
	switch n.Element.(type) {
	case *ast.UnionType, *ast.FunctionType:
		p.write("(")
		n.Element.Accept(p)
		p.write(")")
	default:
		n.Element.Accept(p)
	}
	p.write("[]")
}

func (p *CodePrinter) VisitFunctionType(n *ast.FunctionType) {
	p.printParameters(n.Parameters)
	p.write(" => ")
	if n.ReturnType != nil {
		n.ReturnType.Accept(p)
	} else {
		p.write("void")
	}
}

func (p *CodePrinter) VisitUnionType(n *ast.UnionType) {
	for i, t := range n.Types {
		if i > 0 {
			p.write(" | ")
		}
		if _, isFn := t.(*ast.FunctionType); isFn {
			p.write("(")
			t.Accept(p)
			p.write(")")
			continue
		}
		t.Accept(p)
	}
}

func (p *CodePrinter) VisitObjectType(n *ast.ObjectType) {
	if len(n.Members) == 0 {
		p.write("{}")
		return
	}
	p.write("{ ")
	for i, m := range n.Members {
		if i > 0 {
			p.write("; ")
		}
		p.printMember(m)
	}
	p.write(" }")
}
