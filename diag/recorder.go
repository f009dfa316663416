// Package diag records errors against positions in a token stream and maps
// them back to lines and columns of the original source.
package diag

import "github.com/sergev/lox/lexer"

// RecordedError pairs an error kind with the absolute index into the
// original token stream at which it was detected.
type RecordedError[K any] struct {
	Kind       K
	TokenIndex int
}

// Stream is a token source that can report how many tokens it has left,
// counting tokens it skips internally.
type Stream interface {
	Remaining() int
}

// Recorder accumulates errors while a token stream is consumed. It never
// stops consumption; it only remembers where errors happened.
type Recorder[K any] struct {
	total  int
	errors []RecordedError[K]
}

// NewRecorder creates a recorder for a stream of total tokens.
func NewRecorder[K any](total int) *Recorder[K] {
	return &Recorder[K]{total: total}
}

// Record appends kind at the current consumption point of s.
func (r *Recorder[K]) Record(s Stream, kind K) {
	r.errors = append(r.errors, RecordedError[K]{
		Kind:       kind,
		TokenIndex: r.total - s.Remaining(),
	})
}

// HasErrors reports whether anything has been recorded.
func (r *Recorder[K]) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors hands the recorded errors over as an immutable collection. The
// recorder is empty afterwards.
func (r *Recorder[K]) Errors() Errors[K] {
	errs := Errors[K]{list: r.errors}
	r.errors = nil
	return errs
}

// Errors is an ordered, read-only list of recorded errors.
type Errors[K any] struct {
	list []RecordedError[K]
}

// NewErrors wraps an already ordered list.
func NewErrors[K any](list []RecordedError[K]) Errors[K] {
	return Errors[K]{list: append([]RecordedError[K](nil), list...)}
}

// Len returns the number of errors.
func (e Errors[K]) Len() int {
	return len(e.list)
}

// HasErrors reports whether the list is non-empty.
func (e Errors[K]) HasErrors() bool {
	return len(e.list) > 0
}

// All returns a copy of the recorded errors in detection order.
func (e Errors[K]) All() []RecordedError[K] {
	return append([]RecordedError[K](nil), e.list...)
}

// Kinds returns the error kinds in detection order.
func (e Errors[K]) Kinds() []K {
	kinds := make([]K, len(e.list))
	for i, err := range e.list {
		kinds[i] = err.Kind
	}
	return kinds
}

// Contexts resolves every error to its source line and column.
func (e Errors[K]) Contexts(src string) []ErrorContext[K] {
	return Resolve(src, e.list)
}

type tokenSlice struct {
	remaining int
}

func (s tokenSlice) Remaining() int { return s.remaining }

// FromTokens records every error token of a tokenized source, so lexical
// errors resolve through the same machinery as parse errors.
func FromTokens(tokens []lexer.Token) Errors[lexer.LexError] {
	rec := NewRecorder[lexer.LexError](len(tokens))
	for i, tok := range tokens {
		if tok.Type == lexer.Error {
			rec.Record(tokenSlice{remaining: len(tokens) - i - 1}, tok.Err)
		}
	}
	return rec.Errors()
}
