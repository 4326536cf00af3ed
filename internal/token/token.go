package token

import "strings"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int

	// Comments holds the comments that precede the token.
	Comments []string
	// Trailing holds comments that follow the token on the same line.
	Trailing []string
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN       TokenType = "="
	PLUS_ASSIGN  TokenType = "+="
	MINUS_ASSIGN TokenType = "-="
	PLUS         TokenType = "+"
	MINUS        TokenType = "-"
	ASTERISK     TokenType = "*"
	POWER        TokenType = "**"
	SLASH        TokenType = "/"
	PERCENT      TokenType = "%"
	BANG         TokenType = "!"
	INCREMENT    TokenType = "++"
	DECREMENT    TokenType = "--"

	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	STRICT_EQ TokenType = "==="
	STRICT_NE TokenType = "!=="
	LT        TokenType = "<"
	GT        TokenType = ">"
	LTE       TokenType = "<="
	GTE       TokenType = ">="
	AND       TokenType = "&&"
	OR        TokenType = "||"
	NULLISH   TokenType = "??"
	PIPE      TokenType = "|"

	ARROW     TokenType = "=>"
	QUESTION  TokenType = "?"
	OPT_CHAIN TokenType = "?."
	ELLIPSIS  TokenType = "..."

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	CONST     TokenType = "CONST"
	LET       TokenType = "LET"
	VAR       TokenType = "VAR"
	FUNCTION  TokenType = "FUNCTION"
	RETURN    TokenType = "RETURN"
	IF        TokenType = "IF"
	ELSE      TokenType = "ELSE"
	FOR       TokenType = "FOR"
	OF        TokenType = "OF"
	WHILE     TokenType = "WHILE"
	TRY       TokenType = "TRY"
	CATCH     TokenType = "CATCH"
	FINALLY   TokenType = "FINALLY"
	THROW     TokenType = "THROW"
	TRUE      TokenType = "TRUE"
	FALSE     TokenType = "FALSE"
	NULL      TokenType = "NULL"
	TYPEOF    TokenType = "TYPEOF"
	INTERFACE TokenType = "INTERFACE"
	EXPORT    TokenType = "EXPORT"
	BREAK     TokenType = "BREAK"
	CONTINUE  TokenType = "CONTINUE"
)

var keywords = map[string]TokenType{
	"const":     CONST,
	"let":       LET,
	"var":       VAR,
	"function":  FUNCTION,
	"return":    RETURN,
	"if":        IF,
	"else":      ELSE,
	"for":       FOR,
	"of":        OF,
	"while":     WHILE,
	"try":       TRY,
	"catch":     CATCH,
	"finally":   FINALLY,
	"throw":     THROW,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"typeof":    TYPEOF,
	"interface": INTERFACE,
	"export":    EXPORT,
	"break":     BREAK,
	"continue":  CONTINUE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// HasComment reports whether any leading or trailing comment contains marker.
func (t Token) HasComment(marker string) bool {
	if marker == "" {
		return false
	}
	for _, c := range t.Comments {
		if strings.Contains(c, marker) {
			return true
		}
	}
	for _, c := range t.Trailing {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}
