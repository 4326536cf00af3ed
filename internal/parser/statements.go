package parser

import (
	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}
	for !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else if p.hasErrors {
			p.synchronize()
		}
		p.nextToken()
	}
	program.Comments = p.comments
	return program
}

// synchronize skips to the end of the broken statement.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.EOF) {
		switch p.peekToken.Type {
		case token.CONST, token.LET, token.VAR, token.FUNCTION, token.INTERFACE, token.EXPORT:
			if p.peekToken.Line > p.curToken.Line {
				return
			}
		}
		p.nextToken()
	}
}

// parseStatement parses one statement and records the comments around it.
func (p *Parser) parseStatement() ast.Statement {
	first := p.curToken
	stmt := p.parseStatementInner()
	if stmt == nil {
		return nil
	}
	comments := append([]string{}, first.Comments...)
	comments = append(comments, p.curToken.Trailing...)
	if p.pos > 0 && len(first.Trailing) > 0 && p.curToken.Line != first.Line {
		comments = append(comments, first.Trailing...)
	}
	if len(comments) > 0 {
		p.comments[stmt] = comments
	}
	return stmt
}

func (p *Parser) parseStatementInner() ast.Statement {
	switch p.curToken.Type {
	case token.CONST, token.LET, token.VAR:
		return p.parseVariableDeclaration(false)
	case token.FUNCTION:
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunctionDeclaration(false)
		}
	case token.INTERFACE:
		return p.parseInterfaceDeclaration(false)
	case token.EXPORT:
		return p.parseExport()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		return nil
	case token.IDENT:
		if p.curToken.Lexeme == "type" && p.peekTokenIs(token.IDENT) {
			p.errorf(diagnostics.ErrP005, p.curToken, "type aliases are not supported; use an interface")
			return nil
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExport() ast.Statement {
	exportTok := p.curToken
	p.nextToken()
	switch p.curToken.Type {
	case token.CONST, token.LET, token.VAR:
		return p.parseVariableDeclaration(true)
	case token.FUNCTION:
		return p.parseFunctionDeclaration(true)
	case token.INTERFACE:
		return p.parseInterfaceDeclaration(true)
	}
	p.errorf(diagnostics.ErrP005, exportTok, "expected declaration after export")
	return nil
}

func (p *Parser) parseVariableDeclaration(exported bool) ast.Statement {
	stmt := &ast.VariableDeclaration{Token: p.curToken, Kind: p.curToken.Lexeme, Exported: exported}
	if !p.peekTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP005, p.peekToken, "expected a binding name after %s, got %s", stmt.Kind, describeToken(p.peekToken))
		return nil
	}
	p.nextToken()
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.Type = p.parseType()
		if stmt.Type == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	} else if stmt.IsConst() {
		p.errorf(diagnostics.ErrP005, stmt.Token, "const %s must be initialised", stmt.Name.Value)
		return nil
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseFunctionDeclaration(exported bool) ast.Statement {
	stmt := &ast.FunctionDeclaration{Token: p.curToken, Exported: exported}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	fn := &ast.ArrowFunction{Token: stmt.Token, IsFunction: true}
	p.nextToken()
	if !p.parseFunctionSignature(fn) || !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	stmt.Function = fn
	return stmt
}

func (p *Parser) parseInterfaceDeclaration(exported bool) ast.Statement {
	stmt := &ast.InterfaceDeclaration{Token: p.curToken, Exported: exported}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		stmt.TypeParams = p.parseTypeParameters()
		if stmt.TypeParams == nil {
			return nil
		}
	}
	// "extends" clauses only contribute types.
	if p.peekTokenIs(token.IDENT) && p.peekToken.Lexeme == "extends" {
		p.nextToken()
		for {
			p.nextToken()
			if p.parseType() == nil {
				return nil
			}
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	members, ok := p.parseTypeMembers()
	if !ok {
		return nil
	}
	stmt.Members = members
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	switch p.peekToken.Type {
	case token.SEMICOLON:
		p.nextToken()
		return stmt
	case token.RBRACE, token.EOF:
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Consequence = p.parseStatement()
	if stmt.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Alternative = p.parseStatement()
		if stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	forTok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	if (p.curTokenIs(token.CONST) || p.curTokenIs(token.LET) || p.curTokenIs(token.VAR)) &&
		p.tokenAt(p.pos+2).Type == token.OF {
		stmt := &ast.ForOfStatement{Token: forTok, Kind: p.curToken.Lexeme}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken() // of
		p.nextToken()
		stmt.Iterable = p.parseExpression(LOWEST)
		if stmt.Iterable == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
		p.nextToken()
		stmt.Body = p.parseStatement()
		if stmt.Body == nil {
			return nil
		}
		return stmt
	}

	stmt := &ast.ForStatement{Token: forTok}
	if !p.curTokenIs(token.SEMICOLON) {
		switch p.curToken.Type {
		case token.CONST, token.LET, token.VAR:
			stmt.Init = p.parseVariableDeclaration(false)
		default:
			stmt.Init = p.parseExpressionStatement()
		}
		if stmt.Init == nil {
			return nil
		}
		// The declaration consumed its own ';'.
		if !p.curTokenIs(token.SEMICOLON) {
			p.peekError(token.SEMICOLON)
			return nil
		}
	}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil {
			return nil
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseExpression(LOWEST)
		if stmt.Update == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Block = p.parseBlockStatement()
	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			stmt.Param = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Handler = p.parseBlockStatement()
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Finalizer = p.parseBlockStatement()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.errorf(diagnostics.ErrP001, stmt.Token, "try requires catch or finally")
		return nil
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

// parseBlockStatement expects curToken to be '{' and leaves it on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorf(diagnostics.ErrP001, p.curToken, "unterminated block starting at line %d", block.Token.Line)
			return block
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else if p.hasErrors {
			p.synchronize()
		}
		p.nextToken()
	}
	return block
}
