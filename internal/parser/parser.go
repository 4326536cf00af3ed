package parser

import (
	"fmt"

	"github.com/typesugar/typesugar-sub002/internal/ast"
	"github.com/typesugar/typesugar-sub002/internal/diagnostics"
	"github.com/typesugar/typesugar-sub002/internal/lexer"
	"github.com/typesugar/typesugar-sub002/internal/token"
)

// MaxRecursionDepth bounds nested expression parsing.
const MaxRecursionDepth = 500

const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -=
	TERNARY     // ? :
	NULLISH     // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // == != === !==
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -x !x typeof x
	POSTFIX     // x++ x--
	CALL        // f(x) a.b a[i]
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:       ASSIGN,
	token.PLUS_ASSIGN:  ASSIGN,
	token.MINUS_ASSIGN: ASSIGN,
	token.QUESTION:     TERNARY,
	token.NULLISH:      NULLISH,
	token.OR:           LOGICAL_OR,
	token.AND:          LOGICAL_AND,
	token.EQ:           EQUALS,
	token.NOT_EQ:       EQUALS,
	token.STRICT_EQ:    EQUALS,
	token.STRICT_NE:    EQUALS,
	token.LT:           LESSGREATER,
	token.GT:           LESSGREATER,
	token.LTE:          LESSGREATER,
	token.GTE:          LESSGREATER,
	token.PLUS:         SUM,
	token.MINUS:        SUM,
	token.ASTERISK:     PRODUCT,
	token.SLASH:        PRODUCT,
	token.PERCENT:      PRODUCT,
	token.POWER:        POWER,
	token.INCREMENT:    POSTFIX,
	token.DECREMENT:    POSTFIX,
	token.LPAREN:       CALL,
	token.DOT:          CALL,
	token.OPT_CHAIN:    CALL,
	token.LBRACKET:     CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	reporter  diagnostics.Reporter
	hasErrors bool
	depth     int

	comments map[ast.Statement][]string

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(tokens []token.Token, reporter diagnostics.Reporter) *Parser {
	p := &Parser{
		tokens:   tokens,
		pos:      -1,
		reporter: reporter,
		comments: make(map[ast.Statement][]string),
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:     p.parseIdentifier,
		token.NUMBER:    p.parseNumberLiteral,
		token.STRING:    p.parseStringLiteral,
		token.TRUE:      p.parseBooleanLiteral,
		token.FALSE:     p.parseBooleanLiteral,
		token.NULL:      p.parseNullLiteral,
		token.BANG:      p.parsePrefixExpression,
		token.MINUS:     p.parsePrefixExpression,
		token.PLUS:      p.parsePrefixExpression,
		token.TYPEOF:    p.parsePrefixExpression,
		token.INCREMENT: p.parsePrefixUpdate,
		token.DECREMENT: p.parsePrefixUpdate,
		token.LPAREN:    p.parseGroupedOrArrow,
		token.LT:        p.parseGenericArrow,
		token.LBRACKET:  p.parseArrayLiteral,
		token.LBRACE:    p.parseObjectLiteral,
		token.FUNCTION:  p.parseFunctionExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.ASSIGN:       p.parseAssignExpression,
		token.PLUS_ASSIGN:  p.parseAssignExpression,
		token.MINUS_ASSIGN: p.parseAssignExpression,
		token.QUESTION:     p.parseConditionalExpression,
		token.NULLISH:      p.parseInfixExpression,
		token.OR:           p.parseInfixExpression,
		token.AND:          p.parseInfixExpression,
		token.EQ:           p.parseInfixExpression,
		token.NOT_EQ:       p.parseInfixExpression,
		token.STRICT_EQ:    p.parseInfixExpression,
		token.STRICT_NE:    p.parseInfixExpression,
		token.LT:           p.parseInfixExpression,
		token.GT:           p.parseInfixExpression,
		token.LTE:          p.parseInfixExpression,
		token.GTE:          p.parseInfixExpression,
		token.PLUS:         p.parseInfixExpression,
		token.MINUS:        p.parseInfixExpression,
		token.ASTERISK:     p.parseInfixExpression,
		token.SLASH:        p.parseInfixExpression,
		token.PERCENT:      p.parseInfixExpression,
		token.POWER:        p.parseRightAssocInfixExpression,
		token.INCREMENT:    p.parsePostfixUpdate,
		token.DECREMENT:    p.parsePostfixUpdate,
		token.LPAREN:       p.parseCallExpression,
		token.DOT:          p.parseMemberExpression,
		token.OPT_CHAIN:    p.parseOptionalChain,
		token.LBRACKET:     p.parseIndexExpression,
	}

	// Load the first two tokens so curToken and peekToken are both set.
	p.nextToken()
	return p
}

// ParseSource lexes and parses a whole program.
func ParseSource(file, src string, reporter diagnostics.Reporter) *ast.Program {
	p := New(lexer.New(src).Tokenize(), reporter)
	prog := p.ParseProgram()
	prog.File = file
	return prog
}

// ParseExpression parses src as a single expression. It is used for method
// bodies loaded from capability files and in tests.
func ParseExpression(src string) (ast.Expression, error) {
	collector := diagnostics.NewCollector("")
	p := New(lexer.New(src).Tokenize(), collector)
	expr := p.parseExpression(LOWEST)
	if !collector.HasErrors() && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if !p.curTokenIs(token.SEMICOLON) || !p.peekTokenIs(token.EOF) {
			p.errorf(diagnostics.ErrP001, p.curToken, "unexpected %q after expression", p.curToken.Lexeme)
		}
	}
	for _, d := range collector.Diagnostics {
		if d.IsError() {
			return nil, d
		}
	}
	return expr, nil
}

func (p *Parser) HasErrors() bool { return p.hasErrors }

func (p *Parser) tokenAt(i int) token.Token {
	if i < 0 {
		return token.Token{Type: token.ILLEGAL}
	}
	if i >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return token.Token{Type: token.EOF, Line: last.Line, Column: last.Column}
		}
		return token.Token{Type: token.EOF}
	}
	return p.tokens[i]
}

func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// skipSemicolon consumes an optional statement terminator.
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	p.hasErrors = true
	if p.reporter != nil {
		p.reporter.Report(diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
	}
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorf(diagnostics.ErrP001, p.peekToken,
		"expected next token to be %s, got %s instead", describe(t), describeToken(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorf(diagnostics.ErrP002, tok, "unexpected %s", describeToken(tok))
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	}
	return fmt.Sprintf("%q", string(t))
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}

// isNameToken reports whether tok can be used as a property name.
func isNameToken(tok token.Token) bool {
	if tok.Type == token.IDENT {
		return true
	}
	return token.IsKeyword(tok.Lexeme)
}
