package parser

import (
	"errors"

	"github.com/sergev/lox/diag"
	"github.com/sergev/lox/lexer"
)

// Parse translates source text into a Program AST. Lexical errors fail the
// parse before the grammar runs.
func Parse(src string) (*Program, error) {
	tokens, hadError := lexer.Tokenize(src)
	if hadError {
		return nil, &Error{Lexical: diag.FromTokens(tokens)}
	}
	return ParseTokens(tokens)
}

// ParseTokens runs the grammar over an already tokenized source. Error
// tokens in the input are rejected wherever they appear.
func ParseTokens(tokens []lexer.Token) (*Program, error) {
	p := &parser{
		stream: &tokenStream{tokens: tokens},
		rec:    diag.NewRecorder[ErrorKind](len(tokens)),
	}
	decls, _ := p.parseDeclarations(false)
	if p.rec.HasErrors() {
		incomplete := p.endErrors > 0 && p.hardErrors == 0
		return nil, &Error{Syntax: p.rec.Errors(), Incomplete: incomplete}
	}
	return &Program{Decls: decls}, nil
}

// errSync asks the caller to skip ahead to the next statement boundary.
// errNoSync reports a failure whose errors were already recovered from.
var (
	errSync   = errors.New("parse failed: synchronize")
	errNoSync = errors.New("parse failed")
)

// hardErrors counts errors at an offending token; endErrors counts errors
// caused by running out of tokens. Only the latter can be fixed by more input.
type parser struct {
	stream     *tokenStream
	rec        *diag.Recorder[ErrorKind]
	hardErrors int
	endErrors  int
}

// tokenStream hands out tokens to the grammar. Newlines are invisible to
// the grammar but still occupy positions, so recorded indices stay aligned
// with the full token sequence.
type tokenStream struct {
	tokens []lexer.Token
	pos    int
}

func (s *tokenStream) Remaining() int {
	return len(s.tokens) - s.pos
}

func (s *tokenStream) skipNewlines() {
	for s.pos < len(s.tokens) && s.tokens[s.pos].Type == lexer.Newline {
		s.pos++
	}
}

func (s *tokenStream) peek() (lexer.Token, bool) {
	s.skipNewlines()
	if s.pos >= len(s.tokens) {
		return lexer.Token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *tokenStream) peekIs(tt lexer.TokenType) bool {
	tok, ok := s.peek()
	return ok && tok.Type == tt
}

func (s *tokenStream) next() (lexer.Token, bool) {
	tok, ok := s.peek()
	if ok {
		s.pos++
	}
	return tok, ok
}

type remaining int

func (r remaining) Remaining() int { return int(r) }

// end is the position for errors caused by running out of tokens. Trailing
// newlines belong to no statement, so when the source ends with them the
// position is the first one, right after the last real token.
func (s *tokenStream) end() diag.Stream {
	end := len(s.tokens)
	for end > 0 && s.tokens[end-1].Type == lexer.Newline {
		end--
	}
	if end == len(s.tokens) {
		return remaining(0)
	}
	return remaining(len(s.tokens) - end - 1)
}

// last returns the most recently consumed token.
func (s *tokenStream) last() (lexer.Token, bool) {
	if s.pos == 0 {
		return lexer.Token{}, false
	}
	return s.tokens[s.pos-1], true
}

// fail records kind at the current position. The offending token, if any,
// has already been consumed.
func (p *parser) fail(kind ErrorKind) error {
	p.hardErrors++
	p.rec.Record(p.stream, kind)
	return errSync
}

// recordAtEnd records an error caused by running out of tokens.
func (p *parser) recordAtEnd(kind ErrorKind) {
	p.endErrors++
	p.rec.Record(p.stream.end(), kind)
}

func (p *parser) failAtEnd(kind ErrorKind) error {
	p.recordAtEnd(kind)
	return errSync
}

func (p *parser) expect(tt lexer.TokenType, kind ErrorKind) error {
	tok, ok := p.stream.next()
	if !ok {
		return p.failAtEnd(kind)
	}
	if tok.Type != tt {
		return p.fail(kind)
	}
	return nil
}

// synchronize discards tokens through the next semicolon. When the token
// that caused the error was itself a semicolon the statement is already
// terminated and nothing is skipped.
func (p *parser) synchronize() {
	if last, ok := p.stream.last(); ok && last.Type == lexer.Semicolon {
		return
	}
	for {
		tok, ok := p.stream.next()
		if !ok || tok.Type == lexer.Semicolon {
			return
		}
	}
}

// parseDeclarations consumes declarations until the input ends or, inside
// a block, a closing brace is next. Failed declarations are dropped after
// recovery; the boolean reports whether any failed.
func (p *parser) parseDeclarations(inBlock bool) ([]Decl, bool) {
	var decls []Decl
	failed := false
	for {
		tok, ok := p.stream.peek()
		if !ok || (inBlock && tok.Type == lexer.RightBrace) {
			return decls, failed
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			failed = true
			if errors.Is(err, errSync) {
				p.synchronize()
			}
			continue
		}
		decls = append(decls, decl)
	}
}

func (p *parser) parseDeclaration() (Decl, error) {
	if p.stream.peekIs(lexer.Var) {
		return p.parseVarDecl()
	}
	return p.parseStatement()
}

func (p *parser) parseVarDecl() (*VarDecl, error) {
	p.stream.next() // var
	name, ok := p.stream.next()
	if !ok {
		return nil, p.failAtEnd(ExpectedIdentifier)
	}
	if name.Type != lexer.Identifier {
		return nil, p.fail(ExpectedIdentifier)
	}
	decl := &VarDecl{Name: name.Text}
	if p.stream.peekIs(lexer.Equal) {
		p.stream.next()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if err := p.expect(lexer.Semicolon, ExpectedSemicolon); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	tok, _ := p.stream.peek()
	switch tok.Type {
	case lexer.LeftBrace:
		return p.parseBlock()
	case lexer.If:
		return p.parseIf()
	case lexer.While:
		return p.parseWhile()
	case lexer.For:
		return p.parseFor()
	case lexer.Print:
		p.stream.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.Semicolon, ExpectedSemicolon); err != nil {
			return nil, err
		}
		return &PrintStmt{Expr: expr}, nil
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.Semicolon, ExpectedSemicolon); err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr}, nil
	}
}

// parseBlock reports failure without asking for synchronization: errors
// inside the block were recovered from by its own declaration loop.
func (p *parser) parseBlock() (*BlockStmt, error) {
	p.stream.next() // {
	decls, failed := p.parseDeclarations(true)
	if _, ok := p.stream.next(); !ok {
		p.recordAtEnd(UnexpectedToken)
		return nil, errNoSync
	}
	if failed {
		return nil, errNoSync
	}
	return &BlockStmt{Decls: decls}, nil
}

// parseCondition parses a parenthesized condition.
func (p *parser) parseCondition() (Expr, error) {
	if err := p.expect(lexer.LeftParen, UnexpectedToken); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RightParen, UnexpectedToken); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseIf() (*IfStmt, error) {
	p.stream.next() // if
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Cond: cond, Then: then}
	if p.stream.peekIs(lexer.Else) {
		p.stream.next()
		stmt.Else, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseWhile() (*WhileStmt, error) {
	p.stream.next() // while
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (*ForStmt, error) {
	p.stream.next() // for
	if err := p.expect(lexer.LeftParen, UnexpectedToken); err != nil {
		return nil, err
	}
	if !p.stream.peekIs(lexer.Var) {
		if _, ok := p.stream.next(); !ok {
			return nil, p.failAtEnd(UnexpectedToken)
		}
		return nil, p.fail(UnexpectedToken)
	}
	init, err := p.parseVarDecl()
	if err != nil {
		return nil, err
	}
	stmt := &ForStmt{Init: init}
	if !p.stream.peekIs(lexer.Semicolon) {
		if stmt.Cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.Semicolon, ExpectedSemicolon); err != nil {
		return nil, err
	}
	if !p.stream.peekIs(lexer.RightParen) {
		if stmt.Incr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.RightParen, UnexpectedToken); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}
