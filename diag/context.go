package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/sergev/lox/lexer"
)

// TabExtraWidth is the number of columns a tab adds beyond its own.
const TabExtraWidth = 3

// ErrorContext is a recorded error resolved to the source line containing
// it and the display column of the offending token.
type ErrorContext[K any] struct {
	Kind   K
	Line   string
	Column int
}

// String renders the context as the kind and column, the line itself, and a
// caret under the offending column.
func (c ErrorContext[K]) String() string {
	return fmt.Sprintf("%v, %d\n%s\n%s^", c.Kind, c.Column, c.Line, strings.Repeat(" ", c.Column))
}

type partialContext[K any] struct {
	kind   K
	column int
}

// replay walks a fresh scanner over the source, tracking the display column
// and the start of the current line.
type replay[K any] struct {
	src       string
	sc        *lexer.Scanner
	lineStart int
	column    int
	partials  []partialContext[K]
	contexts  []ErrorContext[K]
}

// Resolve maps errors, sorted by token index, to their lines and columns by
// re-tokenizing src. An error with token index n points at the n-th token,
// the last one consumed when the error was recorded.
func Resolve[K any](src string, errs []RecordedError[K]) []ErrorContext[K] {
	if len(errs) == 0 {
		return nil
	}
	r := &replay[K]{
		src:      src,
		sc:       lexer.NewScanner(src),
		contexts: make([]ErrorContext[K], 0, len(errs)),
	}
	prev := 0
	for _, err := range errs {
		anchor := max(err.TokenIndex-1, 0)
		skip := max(anchor-prev, 0)
		prev = max(anchor, prev)
		for i := 0; i < skip; i++ {
			if !r.step() {
				break
			}
		}
		r.skipWhitespace()
		r.partials = append(r.partials, partialContext[K]{kind: err.Kind, column: r.column})
	}
	r.finishLine()
	return r.contexts
}

func (r *replay[K]) skipWhitespace() {
	r.column += displayWidth(r.sc.SkipWhitespace())
}

// step consumes one token. It reports false at end of input.
func (r *replay[K]) step() bool {
	r.skipWhitespace()
	tok, span, ok := r.sc.Next()
	if !ok {
		return false
	}
	if tok.Type == lexer.Newline {
		r.flush(span.Start)
		r.lineStart = span.End
		r.column = 0
		return true
	}
	r.column += displayWidth(r.src[span.Start:span.End])
	return true
}

// finishLine scans to the end of the current line so pending contexts get
// their full line text.
func (r *replay[K]) finishLine() {
	if len(r.partials) == 0 {
		return
	}
	for {
		tok, span, ok := r.sc.Next()
		if !ok {
			r.flush(len(r.src))
			return
		}
		if tok.Type == lexer.Newline {
			r.flush(span.Start)
			return
		}
	}
}

func (r *replay[K]) flush(lineEnd int) {
	line := strings.TrimSuffix(r.src[r.lineStart:lineEnd], "\r")
	for _, partial := range r.partials {
		r.contexts = append(r.contexts, ErrorContext[K]{
			Kind:   partial.kind,
			Line:   line,
			Column: partial.column,
		})
	}
	r.partials = nil
}

func displayWidth(s string) int {
	width := 0
	for _, r := range s {
		switch {
		case r == '\t':
			width += 1 + TabExtraWidth
		case r < utf8.RuneSelf:
			width++
		default:
			width += runewidth.RuneWidth(r)
		}
	}
	return width
}
