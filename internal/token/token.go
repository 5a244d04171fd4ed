package token

import "fmt"

// Token is the source anchor of a syntax tree node. The external parser fills
// Lexeme with the text that produced the node; Line and Column are 1-based.
type Token struct {
	Lexeme string
	File   string
	Line   int
	Column int
}

// IsZero reports whether the token carries no position.
func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0
}

func (t Token) String() string {
	if t.IsZero() {
		return "<unknown>"
	}
	if t.File != "" {
		return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}
