package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner extracts tokens one at a time from source text. It is the only
// place token boundaries are decided, so replaying a fresh Scanner over the
// same source reproduces the spans of an earlier Tokenize call exactly.
type Scanner struct {
	src string
	off int
}

// NewScanner returns a scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Offset returns the byte offset of the next unread character.
func (s *Scanner) Offset() int {
	return s.off
}

// Source returns the text being scanned.
func (s *Scanner) Source() string {
	return s.src
}

// SkipWhitespace discards skippable whitespace and returns the skipped text.
func (s *Scanner) SkipWhitespace() string {
	start := s.off
	for s.off < len(s.src) {
		r, w := utf8.DecodeRuneInString(s.src[s.off:])
		if !IsSkippableWhitespace(r) {
			break
		}
		s.off += w
	}
	return s.src[start:s.off]
}

// Next skips whitespace and extracts the following token. It reports false
// once only skippable whitespace remains.
func (s *Scanner) Next() (Token, Span, bool) {
	s.SkipWhitespace()
	start := s.off
	if start >= len(s.src) {
		return Token{}, Span{Start: start, End: start}, false
	}
	tok, n := extract(s.src[start:])
	s.off += n
	return tok, Span{Start: start, End: s.off}, true
}

// Tokenize converts src into its full token sequence. The boolean result
// reports whether any error token was produced; tokenization never stops
// early.
func Tokenize(src string) ([]Token, bool) {
	sc := NewScanner(src)
	var tokens []Token
	hadError := false
	for {
		tok, _, ok := sc.Next()
		if !ok {
			break
		}
		if tok.Type == Error {
			hadError = true
		}
		tokens = append(tokens, tok)
	}
	return tokens, hadError
}

// IsSkippableWhitespace reports whether r separates tokens without being
// significant. Newlines are tokens and therefore not skippable.
func IsSkippableWhitespace(r rune) bool {
	return unicode.IsSpace(r) && r != '\n'
}

// extract lexes one token from the non-empty input and returns the number of
// bytes it consumed.
func extract(input string) (Token, int) {
	if tt, n, ok := matchFixed(input); ok {
		return Token{Type: tt}, n
	}
	if isNumberStart(input) {
		return scanNumber(input)
	}
	if input[0] == '"' {
		return scanString(input)
	}
	if r, _ := utf8.DecodeRuneInString(input); isIdentifierStart(r) {
		return scanIdentifier(input)
	}
	return scanErrorRun(input)
}

func matchFixed(input string) (TokenType, int, bool) {
	for _, entry := range fixedTokens {
		if !strings.HasPrefix(input, entry.text) {
			continue
		}
		n := len(entry.text)
		if isKeyword(entry.text) && n < len(input) {
			if r, _ := utf8.DecodeRuneInString(input[n:]); isIdentifierPart(r) {
				continue
			}
		}
		return entry.typ, n, true
	}
	if input[0] == '-' && (len(input) == 1 || !isDigit(input[1])) {
		return Minus, 1, true
	}
	return Error, 0, false
}

func isKeyword(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLetter(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberStart(input string) bool {
	if isDigit(input[0]) {
		return true
	}
	return input[0] == '-' && len(input) > 1 && isDigit(input[1])
}

func scanDigits(input string, i int) int {
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	return i
}

func scanNumber(input string) (Token, int) {
	i := 0
	if input[0] == '-' {
		i++
	}
	i = scanDigits(input, i)
	if i+1 < len(input) && input[i] == '.' && isDigit(input[i+1]) {
		i = scanDigits(input, i+1)
	}
	// The span is always well-formed; the only possible error is a range
	// error, for which ParseFloat already returns ±Inf.
	value, _ := strconv.ParseFloat(input[:i], 64)
	return Token{Type: Number, Number: value}, i
}

func scanString(input string) (Token, int) {
	for i := 1; i < len(input); i++ {
		switch input[i] {
		case '"':
			return Token{Type: String, Text: input[1:i]}, i + 1
		case '\n':
			return Token{Type: Error, Err: UnclosedString}, i
		}
	}
	return Token{Type: Error, Err: UnclosedString}, len(input)
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func scanIdentifier(input string) (Token, int) {
	i := 0
	for i < len(input) {
		r, w := utf8.DecodeRuneInString(input[i:])
		if !isIdentifierPart(r) {
			break
		}
		i += w
	}
	return Token{Type: Identifier, Text: input[:i]}, i
}

// scanErrorRun consumes the run of non-whitespace characters so that lexing
// resumes at the next plausible token boundary.
func scanErrorRun(input string) (Token, int) {
	_, i := utf8.DecodeRuneInString(input)
	for i < len(input) {
		r, w := utf8.DecodeRuneInString(input[i:])
		if unicode.IsSpace(r) {
			break
		}
		i += w
	}
	return Token{Type: Error, Err: NoTokenKind}, i
}
