package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/typesugar/typesugar-sub002/internal/token"
)

type pendingComment struct {
	text string
	line int
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	lastLine int // line of the last emitted token, 0 before the first one
	pending  []pendingComment
	trailing []string
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

// Tokenize lexes the whole input. Comments on the same line as the previous
// token are attached to that token's Trailing list.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if len(l.trailing) > 0 && len(tokens) > 0 {
			prev := &tokens[len(tokens)-1]
			prev.Trailing = append(prev.Trailing, l.trailing...)
		}
		l.trailing = nil
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()
	comments := l.flushComments()

	line, col := l.line, l.column
	switch l.ch {
	case '=':
		switch {
		case l.peekChar() == '=' && l.peekChar2() == '=':
			l.readChar()
			l.readChar()
			tok = l.makeToken(token.STRICT_EQ, "===", line, col)
		case l.peekChar() == '=':
			l.readChar()
			tok = l.makeToken(token.EQ, "==", line, col)
		case l.peekChar() == '>':
			l.readChar()
			tok = l.makeToken(token.ARROW, "=>", line, col)
		default:
			tok = newToken(token.ASSIGN, l.ch, line, col)
		}
	case '!':
		switch {
		case l.peekChar() == '=' && l.peekChar2() == '=':
			l.readChar()
			l.readChar()
			tok = l.makeToken(token.STRICT_NE, "!==", line, col)
		case l.peekChar() == '=':
			l.readChar()
			tok = l.makeToken(token.NOT_EQ, "!=", line, col)
		default:
			tok = newToken(token.BANG, l.ch, line, col)
		}
	case '+':
		switch l.peekChar() {
		case '+':
			l.readChar()
			tok = l.makeToken(token.INCREMENT, "++", line, col)
		case '=':
			l.readChar()
			tok = l.makeToken(token.PLUS_ASSIGN, "+=", line, col)
		default:
			tok = newToken(token.PLUS, l.ch, line, col)
		}
	case '-':
		switch l.peekChar() {
		case '-':
			l.readChar()
			tok = l.makeToken(token.DECREMENT, "--", line, col)
		case '=':
			l.readChar()
			tok = l.makeToken(token.MINUS_ASSIGN, "-=", line, col)
		default:
			tok = newToken(token.MINUS, l.ch, line, col)
		}
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok = l.makeToken(token.POWER, "**", line, col)
		} else {
			tok = newToken(token.ASTERISK, l.ch, line, col)
		}
	case '/':
		tok = newToken(token.SLASH, l.ch, line, col)
	case '%':
		tok = newToken(token.PERCENT, l.ch, line, col)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.makeToken(token.LTE, "<=", line, col)
		} else {
			tok = newToken(token.LT, l.ch, line, col)
		}
	case '>':
		// ">>" is never produced so nested generic arguments close cleanly.
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.makeToken(token.GTE, ">=", line, col)
		} else {
			tok = newToken(token.GT, l.ch, line, col)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = l.makeToken(token.AND, "&&", line, col)
		} else {
			tok = newToken(token.ILLEGAL, l.ch, line, col)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.makeToken(token.OR, "||", line, col)
		} else {
			tok = newToken(token.PIPE, l.ch, line, col)
		}
	case '?':
		switch {
		case l.peekChar() == '?':
			l.readChar()
			tok = l.makeToken(token.NULLISH, "??", line, col)
		case l.peekChar() == '.' && !isDigit(l.peekChar2()):
			l.readChar()
			tok = l.makeToken(token.OPT_CHAIN, "?.", line, col)
		default:
			tok = newToken(token.QUESTION, l.ch, line, col)
		}
	case '.':
		if l.peekChar() == '.' && l.peekChar2() == '.' {
			l.readChar()
			l.readChar()
			tok = l.makeToken(token.ELLIPSIS, "...", line, col)
		} else if isDigit(l.peekChar()) {
			tok = l.readNumber()
			tok.Comments = comments
			l.lastLine = tok.Line
			return tok
		} else {
			tok = newToken(token.DOT, l.ch, line, col)
		}
	case ',':
		tok = newToken(token.COMMA, l.ch, line, col)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, line, col)
	case ':':
		tok = newToken(token.COLON, l.ch, line, col)
	case '(':
		tok = newToken(token.LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(token.RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(token.LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(token.RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, line, col)
	case '"', '\'':
		value, ok := l.readString(l.ch)
		if !ok {
			tok = token.Token{Type: token.ILLEGAL, Lexeme: value, Literal: "unterminated string literal", Line: line, Column: col}
		} else {
			tok = token.Token{Type: token.STRING, Lexeme: strconv.Quote(value), Literal: value, Line: line, Column: col}
		}
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: line, Column: col}
		tok.Comments = comments
		return tok
	default:
		if isLetter(l.ch) {
			lexeme := l.readIdentifier()
			tok = token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
			tok.Comments = comments
			l.lastLine = line
			return tok
		} else if isDigit(l.ch) {
			tok = l.readNumber()
			tok.Comments = comments
			l.lastLine = tok.Line
			return tok
		}
		tok = newToken(token.ILLEGAL, l.ch, line, col)
	}

	tok.Comments = comments
	l.lastLine = line
	l.readChar()
	return tok
}

// flushComments splits pending comments into trailing comments of the
// previous token and leading comments of the next one.
func (l *Lexer) flushComments() []string {
	var leading []string
	for _, c := range l.pending {
		if l.lastLine != 0 && c.line == l.lastLine {
			l.trailing = append(l.trailing, c.text)
			continue
		}
		leading = append(leading, c.text)
	}
	l.pending = nil
	return leading
}

func (l *Lexer) makeToken(t token.TokenType, lexeme string, line, col int) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

// readString reads a quoted string starting at the opening quote and leaves
// the lexer on the closing quote.
func (l *Lexer) readString(quote rune) (string, bool) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0, '\n':
			return sb.String(), false
		case quote:
			return sb.String(), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '0':
				sb.WriteRune(0)
			case 0:
				return sb.String(), false
			default:
				sb.WriteRune(l.ch)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		lexeme := l.input[position:l.position]
		val, err := strconv.ParseInt(lexeme, 0, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: startLine, Column: startCol}
		}
		return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: float64(val), Line: startLine, Column: startCol}
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar2())) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	lexeme := l.input[position:l.position]
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: startLine, Column: startCol}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	pos2 := l.readPosition + w
	if pos2 >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos2:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' {
			if l.peekChar() == '/' {
				line := l.line
				l.readChar() // consume first /
				l.readChar() // consume second /
				start := l.position
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				l.pending = append(l.pending, pendingComment{text: strings.TrimSpace(l.input[start:l.position]), line: line})
				continue
			} else if l.peekChar() == '*' {
				line := l.line
				l.readChar() // consume /
				l.readChar() // consume *
				start := l.position
				end := len(l.input)
				for l.ch != 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						end = l.position
						l.readChar() // consume *
						l.readChar() // consume /
						break
					}
					l.readChar()
				}
				if start > end {
					start = end
				}
				l.pending = append(l.pending, pendingComment{text: strings.TrimSpace(l.input[start:end]), line: line})
				continue
			}
		}
		break
	}
}
