package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/brace/internal/token"
)

type ErrorCode string

// Analysis faults. Any of them aborts the analysis pass.
const (
	ErrA001 ErrorCode = "A001" // invalid identifier
	ErrA002 ErrorCode = "A002" // duplicate identifier
	ErrA003 ErrorCode = "A003" // unknown identifier
	ErrA004 ErrorCode = "A004" // unresolved identifier type
	ErrA005 ErrorCode = "A005" // type mismatch
	ErrA006 ErrorCode = "A006" // invalid statement
	ErrA007 ErrorCode = "A007" // method not found
	ErrA008 ErrorCode = "A008" // unsupported call target
	ErrA009 ErrorCode = "A009" // invalid negation
	ErrA010 ErrorCode = "A010" // unsupported statement
)

// Evaluation faults. Any of them aborts the current run.
const (
	ErrR001 ErrorCode = "R001" // undefined variable
	ErrR002 ErrorCode = "R002" // duplicate binding
	ErrR003 ErrorCode = "R003" // invalid call target
	ErrR004 ErrorCode = "R004" // invalid condition
	ErrR005 ErrorCode = "R005" // marshal error
	ErrR006 ErrorCode = "R006" // not implemented
	ErrR007 ErrorCode = "R007" // too many parameters
	ErrR008 ErrorCode = "R008" // foreign invocation
	ErrR009 ErrorCode = "R009" // invalid operand
	ErrR010 ErrorCode = "R010" // call depth exceeded
)

var codeNames = map[ErrorCode]string{
	ErrA001: "invalid identifier",
	ErrA002: "duplicate identifier",
	ErrA003: "unknown identifier",
	ErrA004: "unresolved identifier type",
	ErrA005: "type mismatch",
	ErrA006: "invalid statement",
	ErrA007: "method not found",
	ErrA008: "unsupported call target",
	ErrA009: "invalid negation",
	ErrA010: "unsupported statement",
	ErrR001: "undefined variable",
	ErrR002: "duplicate binding",
	ErrR003: "invalid call target",
	ErrR004: "invalid condition",
	ErrR005: "marshal error",
	ErrR006: "not implemented",
	ErrR007: "too many parameters",
	ErrR008: "foreign invocation",
	ErrR009: "invalid operand",
	ErrR010: "call depth exceeded",
}

// Title is the human readable name of the code.
func (c ErrorCode) Title() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "error"
}

// IsAnalysis reports whether the code belongs to the analysis taxonomy.
func (c ErrorCode) IsAnalysis() bool {
	return len(c) > 0 && c[0] == 'A'
}

// DiagnosticError is the single error value both phases fail with.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	Cause   error
}

func (e *DiagnosticError) Error() string {
	pos := ""
	if !e.Token.IsZero() {
		tok := e.Token
		if tok.File == "" {
			tok.File = e.File
		}
		pos = " at " + tok.String()
	} else if e.File != "" {
		pos = " in " + e.File
	}
	return fmt.Sprintf("error [%s]%s: %s", e.Code, pos, e.Message)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Cause
}

// Is matches another DiagnosticError carrying the same code, so callers can
// write errors.Is(err, &DiagnosticError{Code: ErrA002}).
func (e *DiagnosticError) Is(target error) bool {
	t, ok := target.(*DiagnosticError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause; the cause stays reachable through errors.Is/As.
func Wrap(code ErrorCode, tok token.Token, cause error, format string, args ...interface{}) *DiagnosticError {
	e := NewError(code, tok, format, args...)
	e.Cause = cause
	return e
}

// CodeOf extracts the code of the first DiagnosticError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}
