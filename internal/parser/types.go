package parser

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// parseType parses a type annotation starting at curToken and leaves
// curToken on its last token.
func (p *Parser) parseType() ast.Type {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(diagnostics.ErrP004, p.curToken, "type too complex: recursion depth limit exceeded")
		return nil
	}

	startTok := p.curToken
	if p.curTokenIs(token.PIPE) {
		p.nextToken()
	}
	first := p.parseArrayType()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.PIPE) {
		return first
	}
	union := &ast.UnionType{Token: startTok, Types: []ast.Type{first}}
	for p.peekTokenIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		t := p.parseArrayType()
		if t == nil {
			return nil
		}
		union.Types = append(union.Types, t)
	}
	return union
}

func (p *Parser) parseReturnType() ast.Type {
	return p.parseType()
}

func (p *Parser) parseArrayType() ast.Type {
	t := p.parsePrimaryType()
	if t == nil {
		return nil
	}
	for p.peekTokenIs(token.LBRACKET) && p.tokenAt(p.pos+2).Type == token.RBRACKET {
		p.nextToken()
		p.nextToken()
		t = &ast.ArrayType{Token: p.curToken, Element: t}
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.Type {
	switch p.curToken.Type {
	case token.IDENT:
		ref := &ast.TypeReference{Token: p.curToken, Name: p.curToken.Lexeme}
		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			ref.Name += "." + p.curToken.Lexeme
		}
		if p.peekTokenIs(token.LT) {
			p.nextToken()
			args, ok := p.parseTypeArguments()
			if !ok {
				return nil
			}
			ref.Args = args
		}
		return ref
	case token.NULL, token.STRING, token.NUMBER, token.TRUE, token.FALSE:
		return &ast.TypeReference{Token: p.curToken, Name: p.curToken.Lexeme}
	case token.TYPEOF:
		tok := p.curToken
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		return &ast.TypeReference{Token: tok, Name: "typeof " + p.curToken.Lexeme}
	case token.LPAREN:
		if end, ok := p.matchClose(p.pos); ok && p.tokenAt(end+1).Type == token.ARROW {
			return p.parseFunctionType()
		}
		p.nextToken()
		inner := p.parseType()
		if inner == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
		return inner
	case token.LT:
		// Generic function type: <A>(a: A) => A
		if p.parseTypeParameters() == nil || !p.expectPeek(token.LPAREN) {
			return nil
		}
		return p.parseFunctionType()
	case token.LBRACE:
		obj := &ast.ObjectType{Token: p.curToken}
		members, ok := p.parseTypeMembers()
		if !ok {
			return nil
		}
		obj.Members = members
		return obj
	case token.LBRACKET:
		// Tuple types are kept as arrays of their union.
		tok := p.curToken
		var elems []ast.Type
		for !p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			t := p.parseType()
			if t == nil {
				return nil
			}
			elems = append(elems, t)
			if !p.peekTokenIs(token.RBRACKET) && !p.expectPeek(token.COMMA) {
				return nil
			}
		}
		p.nextToken()
		var elem ast.Type = &ast.TypeReference{Token: tok, Name: "unknown"}
		if len(elems) == 1 {
			elem = elems[0]
		} else if len(elems) > 1 {
			elem = &ast.UnionType{Token: tok, Types: elems}
		}
		return &ast.ArrayType{Token: tok, Element: elem}
	}
	p.errorf(diagnostics.ErrP001, p.curToken, "expected a type, got %s", describeToken(p.curToken))
	return nil
}

func (p *Parser) parseFunctionType() ast.Type {
	ft := &ast.FunctionType{Token: p.curToken}
	params, ok := p.parseParameters()
	if !ok || !p.expectPeek(token.ARROW) {
		return nil
	}
	ft.Parameters = params
	p.nextToken()
	ft.ReturnType = p.parseType()
	if ft.ReturnType == nil {
		return nil
	}
	return ft
}

// parseTypeArguments expects curToken to be '<' and leaves it on '>'.
func (p *Parser) parseTypeArguments() ([]ast.Type, bool) {
	var args []ast.Type
	for {
		p.nextToken()
		t := p.parseType()
		if t == nil {
			return nil, false
		}
		args = append(args, t)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.GT) {
		return nil, false
	}
	return args, true
}

// parseTypeParameters expects curToken to be '<' and leaves it on '>'.
// Constraints and defaults are parsed and dropped.
func (p *Parser) parseTypeParameters() []*ast.Identifier {
	var params []*ast.Identifier
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme})
		if p.peekTokenIs(token.IDENT) && p.peekToken.Lexeme == "extends" {
			p.nextToken()
			p.nextToken()
			if p.parseType() == nil {
				return nil
			}
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if p.parseType() == nil {
				return nil
			}
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.GT) {
		return nil
	}
	return params
}

// parseTypeMembers expects curToken to be '{' and leaves it on '}'.
func (p *Parser) parseTypeMembers() ([]*ast.InterfaceMember, bool) {
	members := []*ast.InterfaceMember{}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if !isNameToken(p.curToken) && !p.curTokenIs(token.STRING) {
			p.errorf(diagnostics.ErrP001, p.curToken, "expected member name, got %s", describeToken(p.curToken))
			return nil, false
		}
		member := &ast.InterfaceMember{Token: p.curToken, Name: p.curToken.Lexeme}
		if s, ok := p.curToken.Literal.(string); ok && p.curTokenIs(token.STRING) {
			member.Name = s
		}
		if p.peekTokenIs(token.QUESTION) {
			p.nextToken()
			member.Optional = true
		}
		switch p.peekToken.Type {
		case token.COLON:
			p.nextToken()
			p.nextToken()
			member.Type = p.parseType()
			if member.Type == nil {
				return nil, false
			}
		case token.LPAREN, token.LT:
			p.nextToken()
			sig := &ast.ArrowFunction{Token: p.curToken}
			if !p.parseFunctionSignature(sig) {
				return nil, false
			}
			member.Method = true
			member.Type = &ast.FunctionType{Token: sig.Token, Parameters: sig.Parameters, ReturnType: sig.ReturnType}
		default:
			p.peekError(token.COLON)
			return nil, false
		}
		members = append(members, member)
		if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken()
	return members, true
}
