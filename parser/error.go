package parser

import (
	"errors"
	"fmt"

	"github.com/sergev/lox/diag"
	"github.com/sergev/lox/lexer"
)

// ErrorKind classifies a syntax error.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	UnmatchedParenthesis
	ExpectedPrimaryExpression
	// ExpectedEndOfExpression is part of the error vocabulary but no grammar
	// rule currently produces it.
	ExpectedEndOfExpression
	ExpectedSemicolon
	ExpectedIdentifier
)

var errorKindNames = [...]string{
	UnexpectedToken:           "UnexpectedToken",
	UnmatchedParenthesis:      "UnmatchedParenthesis",
	ExpectedPrimaryExpression: "ExpectedPrimaryExpression",
	ExpectedEndOfExpression:   "ExpectedEndOfExpression",
	ExpectedSemicolon:         "ExpectedSemicolon",
	ExpectedIdentifier:        "ExpectedIdentifier",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "ErrorKind"
}

// Error reports a failed parse. Exactly one of Lexical and Syntax is
// populated: lexical errors stop the parse before the grammar runs.
type Error struct {
	Lexical diag.Errors[lexer.LexError]
	Syntax  diag.Errors[ErrorKind]
	// Incomplete is set when every error was caused by running out of
	// input, so more text may complete the program.
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Lexical.HasErrors() {
		return summarize("lexical", e.Lexical.Kinds())
	}
	return summarize("syntax", e.Syntax.Kinds())
}

func summarize[K fmt.Stringer](phase string, kinds []K) string {
	switch len(kinds) {
	case 0:
		return phase + " error"
	case 1:
		return fmt.Sprintf("%s error: %v", phase, kinds[0])
	default:
		return fmt.Sprintf("%s error: %v (and %d more)", phase, kinds[0], len(kinds)-1)
	}
}

// Diagnostics resolves every error against src and renders each as the kind
// and column, the offending line, and a caret under the column.
func (e *Error) Diagnostics(src string) []string {
	if e == nil {
		return nil
	}
	if e.Lexical.HasErrors() {
		return render(e.Lexical.Contexts(src))
	}
	return render(e.Syntax.Contexts(src))
}

func render[K any](contexts []diag.ErrorContext[K]) []string {
	out := make([]string, len(contexts))
	for i, ctx := range contexts {
		out[i] = ctx.String()
	}
	return out
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
