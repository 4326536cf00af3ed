package diagnostics

import (
	"fmt"

	"github.com/typesugar/typesugar-sub002/internal/token"
)

type ErrorCode string

const (
	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // no prefix parse function
	ErrP003 ErrorCode = "P003" // illegal token
	ErrP004 ErrorCode = "P004" // recursion depth exceeded
	ErrP005 ErrorCode = "P005" // invalid declaration

	// Specialization
	ErrS001 ErrorCode = "S001" // capability table not registered
	ErrS002 ErrorCode = "S002" // function body not statically resolvable
	ErrS003 ErrorCode = "S003" // method body cannot be inlined
	ErrS004 ErrorCode = "S004" // structurally invalid request
	ErrS005 ErrorCode = "S005" // positional parameter fallback
	ErrS006 ErrorCode = "S006" // invalid capability declaration

	// Configuration
	ErrC001 ErrorCode = "C001"

	// Runtime
	ErrR001 ErrorCode = "R001" // uncaught exception
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "error"
	}
}

// DiagnosticError is a positioned diagnostic. Warnings and informational
// notes share the type so a single list can be reported in source order.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Token    token.Token
	File     string
	Message  string
	Hint     string
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityError, Token: tok, Message: message}
}

func NewWarning(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityWarning, Token: tok, Message: message}
}

func NewInfo(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityInfo, Token: tok, Message: message}
}

// WithHint attaches a remediation hint.
func (e *DiagnosticError) WithHint(hint string) *DiagnosticError {
	e.Hint = hint
	return e
}

func (e *DiagnosticError) IsError() bool {
	return e.Severity == SeverityError
}

func (e *DiagnosticError) Error() string {
	pos := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	msg := fmt.Sprintf("%s: %s[%s]: %s", pos, e.Severity, e.Code, e.Message)
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	return msg
}

// Reporter receives diagnostics from the engine.
type Reporter interface {
	Report(d *DiagnosticError)
}

// Collector is a Reporter that keeps every diagnostic in report order.
type Collector struct {
	File        string
	Diagnostics []*DiagnosticError
}

func NewCollector(file string) *Collector {
	return &Collector{File: file}
}

func (c *Collector) Report(d *DiagnosticError) {
	if d.File == "" {
		d.File = c.File
	}
	c.Diagnostics = append(c.Diagnostics, d)
}

func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics of the given severity.
func (c *Collector) Filter(severity Severity) []*DiagnosticError {
	var out []*DiagnosticError
	for _, d := range c.Diagnostics {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// Codes lists the codes of all collected diagnostics in order.
func (c *Collector) Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(c.Diagnostics))
	for _, d := range c.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}
