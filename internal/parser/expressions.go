package parser

import (
	"strconv"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP004, p.curToken, "expression too complex: recursion depth limit exceeded")
		for !p.peekTokenIs(token.EOF) {
			p.nextToken()
		}
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		if p.breaksLine() {
			break
		}
		if p.peekTokenIs(token.LT) && p.skipTypeArguments() {
			continue
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

// breaksLine reports whether the peek token starts a new statement rather
// than continuing the current expression: a call, index or postfix update
// on the following line is never joined to the previous one.
func (p *Parser) breaksLine() bool {
	if p.peekToken.Line <= p.curToken.Line {
		return false
	}
	switch p.peekToken.Type {
	case token.LPAREN, token.LBRACKET, token.INCREMENT, token.DECREMENT:
		return true
	}
	return false
}

// skipTypeArguments drops explicit type arguments in f<A, B>(x). It only
// fires when the angle brackets enclose a well-formed type list directly
// followed by '('.
func (p *Parser) skipTypeArguments() bool {
	end, ok := p.scanTypeList(p.pos+1, token.LT, token.GT)
	if !ok || p.tokenAt(end+1).Type != token.LPAREN {
		return false
	}
	for p.pos < end {
		p.nextToken()
	}
	return true
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.ARROW) {
		fn := &ast.ArrowFunction{
			Token:      p.curToken,
			Parameters: []*ast.Parameter{{Token: p.curToken, Name: ident}},
		}
		p.nextToken()
		p.parseArrowBody(fn)
		return fn
	}
	return ident
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}
	switch v := p.curToken.Literal.(type) {
	case float64:
		lit.Value = v
	default:
		f, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
		if err != nil {
			p.errorf(diagnostics.ErrP001, p.curToken, "could not parse %q as number", p.curToken.Lexeme)
			return nil
		}
		lit.Value = f
	}
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	expression := &ast.UpdateExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Prefix:   true,
	}
	p.nextToken()
	expression.Target = p.parseExpression(PREFIX)
	if !isAssignable(expression.Target) {
		p.errorf(diagnostics.ErrP001, expression.Token, "invalid operand for %s", expression.Operator)
		return nil
	}
	return expression
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	if !isAssignable(left) {
		p.errorf(diagnostics.ErrP001, p.curToken, "invalid operand for %s", p.curToken.Lexeme)
		return nil
	}
	return &ast.UpdateExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Target:   left,
	}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseRightAssocInfixExpression parses right-associative operators like **
// 2 ** 3 ** 2 parses as 2 ** (3 ** 2)
func (p *Parser) parseRightAssocInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence - 1)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	if !isAssignable(left) {
		p.errorf(diagnostics.ErrP001, p.curToken, "invalid assignment target")
		return nil
	}
	expression := &ast.AssignExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Target:   left,
	}
	p.nextToken()
	expression.Value = p.parseExpression(LOWEST)
	if expression.Value == nil {
		return nil
	}
	return expression
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return true
	}
	return false
}

func (p *Parser) parseConditionalExpression(condition ast.Expression) ast.Expression {
	expression := &ast.ConditionalExpression{Token: p.curToken, Condition: condition}
	p.nextToken()
	expression.Consequence = p.parseExpression(LOWEST)
	if expression.Consequence == nil || !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	expression.Alternative = p.parseExpression(ASSIGN)
	if expression.Alternative == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	member := &ast.MemberExpression{Token: p.curToken, Object: object}
	p.nextToken()
	if !isNameToken(p.curToken) {
		p.errorf(diagnostics.ErrP001, p.curToken, "expected property name after '.', got %s", describeToken(p.curToken))
		return nil
	}
	member.Property = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return member
}

func (p *Parser) parseOptionalChain(object ast.Expression) ast.Expression {
	switch p.peekToken.Type {
	case token.LPAREN:
		p.nextToken()
		call := p.parseCallExpression(object)
		if c, ok := call.(*ast.CallExpression); ok {
			c.Optional = true
		}
		return call
	case token.LBRACKET:
		p.nextToken()
		index := p.parseIndexExpression(object)
		if m, ok := index.(*ast.MemberExpression); ok {
			m.Optional = true
		}
		return index
	}
	member := p.parseMemberExpression(object)
	if m, ok := member.(*ast.MemberExpression); ok {
		m.Optional = true
	}
	return member
}

func (p *Parser) parseIndexExpression(object ast.Expression) ast.Expression {
	member := &ast.MemberExpression{Token: p.curToken, Object: object, Computed: true}
	p.nextToken()
	member.Index = p.parseExpression(LOWEST)
	if member.Index == nil || !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return member
}

// parseExpressionList parses comma separated elements up to end. The
// current token is the opening delimiter; spreads and a trailing comma are
// accepted.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	p.nextToken()
	for {
		el := p.parseListElement()
		if el == nil {
			return nil, false
		}
		list = append(list, el)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseListElement() ast.Expression {
	if p.curTokenIs(token.ELLIPSIS) {
		spread := &ast.SpreadElement{Token: p.curToken}
		p.nextToken()
		spread.Argument = p.parseExpression(LOWEST)
		if spread.Argument == nil {
			return nil
		}
		return spread
	}
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	array.Elements = elements
	return array
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		prop := p.parseProperty()
		if prop == nil {
			return nil
		}
		obj.Properties = append(obj.Properties, prop)
		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	p.nextToken()
	return obj
}

func (p *Parser) parseProperty() *ast.Property {
	prop := &ast.Property{Token: p.curToken}

	if p.curTokenIs(token.ELLIPSIS) {
		prop.Spread = true
		p.nextToken()
		prop.Value = p.parseExpression(LOWEST)
		if prop.Value == nil {
			return nil
		}
		return prop
	}

	switch {
	case p.curTokenIs(token.STRING):
		prop.Key, _ = p.curToken.Literal.(string)
	case p.curTokenIs(token.NUMBER):
		if f, ok := p.curToken.Literal.(float64); ok {
			prop.Key = strconv.FormatFloat(f, 'f', -1, 64)
		} else {
			prop.Key = p.curToken.Lexeme
		}
	case isNameToken(p.curToken):
		prop.Key = p.curToken.Lexeme
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "expected property name, got %s", describeToken(p.curToken))
		return nil
	}

	switch p.peekToken.Type {
	case token.COLON:
		p.nextToken()
		p.nextToken()
		prop.Value = p.parseExpression(LOWEST)
		if prop.Value == nil {
			return nil
		}
	case token.LPAREN, token.LT:
		nameTok := p.curToken
		p.nextToken()
		fn := &ast.ArrowFunction{Token: nameTok, IsFunction: true}
		if !p.parseFunctionSignature(fn) || !p.expectPeek(token.LBRACE) {
			return nil
		}
		fn.Body = p.parseBlockStatement()
		prop.Value = fn
		prop.Method = true
	default:
		if !p.curTokenIs(token.IDENT) {
			p.errorf(diagnostics.ErrP001, p.curToken, "expected ':' after property %q", prop.Key)
			return nil
		}
		prop.Value = &ast.Identifier{Token: p.curToken, Value: prop.Key}
		prop.Shorthand = true
	}
	return prop
}

// parseGroupedOrArrow distinguishes "(a, b) => ..." from a parenthesised
// expression by scanning ahead to the matching ')'.
func (p *Parser) parseGroupedOrArrow() ast.Expression {
	if p.isArrowAhead(p.pos) {
		fn := &ast.ArrowFunction{Token: p.curToken}
		if !p.parseFunctionSignature(fn) {
			return nil
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		p.parseArrowBody(fn)
		return fn
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseGenericArrow parses "<A, B>(x: A) => ...".
func (p *Parser) parseGenericArrow() ast.Expression {
	fn := &ast.ArrowFunction{Token: p.curToken}
	if !p.parseFunctionSignature(fn) || !p.expectPeek(token.ARROW) {
		return nil
	}
	p.parseArrowBody(fn)
	return fn
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	fn := &ast.ArrowFunction{Token: p.curToken, IsFunction: true}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	}
	p.nextToken()
	if !p.parseFunctionSignature(fn) || !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

// parseFunctionSignature parses optional type parameters, the parameter
// list and an optional return type. The current token is '<' or '('; on
// return it is the last token of the signature.
func (p *Parser) parseFunctionSignature(fn *ast.ArrowFunction) bool {
	if p.curTokenIs(token.LT) {
		fn.TypeParams = p.parseTypeParameters()
		if fn.TypeParams == nil || !p.expectPeek(token.LPAREN) {
			return false
		}
	}
	if !p.curTokenIs(token.LPAREN) {
		p.errorf(diagnostics.ErrP001, p.curToken, "expected '(', got %s", describeToken(p.curToken))
		return false
	}
	params, ok := p.parseParameters()
	if !ok {
		return false
	}
	fn.Parameters = params
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseReturnType()
		if fn.ReturnType == nil {
			return false
		}
	}
	return true
}

func (p *Parser) parseParameters() ([]*ast.Parameter, bool) {
	params := []*ast.Parameter{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	p.nextToken()
	for {
		param := p.parseParameter()
		if param == nil {
			return nil, false
		}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseParameter() *ast.Parameter {
	param := &ast.Parameter{Token: p.curToken}
	if p.curTokenIs(token.ELLIPSIS) {
		param.Rest = true
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP005, p.curToken, "expected parameter name, got %s", describeToken(p.curToken))
		return nil
	}
	param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.QUESTION) {
		p.nextToken()
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseType()
		if param.Type == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(ASSIGN)
		if param.Default == nil {
			return nil
		}
	}
	return param
}

func (p *Parser) parseArrowBody(fn *ast.ArrowFunction) {
	p.nextToken()
	if p.curTokenIs(token.LBRACE) {
		fn.Body = p.parseBlockStatement()
		return
	}
	fn.Body = p.parseExpression(LOWEST)
}

// isArrowAhead reports whether the '(' at index start opens an arrow
// function parameter list.
func (p *Parser) isArrowAhead(start int) bool {
	end, ok := p.matchClose(start)
	if !ok {
		return false
	}
	switch p.tokenAt(end + 1).Type {
	case token.ARROW:
		return true
	case token.COLON:
		return p.isReturnTypeThenArrow(end + 2)
	}
	return false
}

// matchClose returns the index of the delimiter closing the one at start.
func (p *Parser) matchClose(start int) (int, bool) {
	depth := 0
	for i := start; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
			if depth == 0 {
				return i, true
			}
		case token.EOF:
			return 0, false
		}
	}
	return 0, false
}

// isReturnTypeThenArrow scans a return type annotation starting at index i
// and reports whether it is followed by '=>'.
func (p *Parser) isReturnTypeThenArrow(i int) bool {
	depth := 0
	for ; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.LT:
			depth++
			continue
		case token.RPAREN, token.RBRACKET, token.RBRACE, token.GT:
			depth--
			if depth < 0 {
				return false
			}
			continue
		case token.EOF:
			return false
		}
		if depth > 0 {
			continue
		}
		switch tok.Type {
		case token.ARROW:
			return true
		case token.IDENT, token.NULL, token.STRING, token.NUMBER, token.DOT, token.PIPE, token.TYPEOF:
		default:
			return false
		}
	}
	return false
}

// scanTypeList checks that the tokens from the opener at start up to its
// closer form a plausible type argument list and returns the closer index.
func (p *Parser) scanTypeList(start int, open, close token.TokenType) (int, bool) {
	depth := 0
	for i := start; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		case token.IDENT, token.COMMA, token.LBRACKET, token.RBRACKET, token.DOT,
			token.PIPE, token.STRING, token.NUMBER, token.NULL:
		default:
			return 0, false
		}
	}
	return 0, false
}
