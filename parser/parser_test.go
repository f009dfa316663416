package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sergev/lox/diag"
	"github.com/sergev/lox/lexer"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return prog
}

func parseError(t *testing.T, src string) *Error {
	t.Helper()
	prog, err := Parse(src)
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, expected error", src)
	}
	if prog != nil {
		t.Fatalf("Parse(%q) returned a partial program", src)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Parse(%q) returned %T, expected *Error", src, err)
	}
	return perr
}

func onlyExpr(t *testing.T, src string) Expr {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Decls))
	}
	stmt, ok := prog.Decls[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Decls[0])
	}
	return stmt.Expr
}

func TestParseVarAndPrint(t *testing.T) {
	prog := mustParse(t, "var x = 5; print x + 1;")
	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(prog.Decls))
	}
	decl, ok := prog.Decls[0].(*VarDecl)
	if !ok || decl.Name != "x" {
		t.Fatalf("expected VarDecl x, got %#v", prog.Decls[0])
	}
	if num, ok := decl.Init.(*NumberExpr); !ok || num.Value != 5 {
		t.Fatalf("expected initializer 5, got %#v", decl.Init)
	}
	printStmt, ok := prog.Decls[1].(*PrintStmt)
	if !ok {
		t.Fatalf("expected PrintStmt, got %T", prog.Decls[1])
	}
	want := &BinaryExpr{Left: &IdentifierExpr{Name: "x"}, Op: OpAdd, Right: &NumberExpr{Value: 1}}
	if !reflect.DeepEqual(printStmt.Expr, want) {
		t.Fatalf("unexpected print expression %#v", printStmt.Expr)
	}
}

func TestParseVarWithoutInitializer(t *testing.T) {
	prog := mustParse(t, "var x;")
	decl := prog.Decls[0].(*VarDecl)
	if decl.Init != nil {
		t.Fatalf("expected no initializer, got %#v", decl.Init)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "\n\n", "  \t \n"} {
		if prog := mustParse(t, src); len(prog.Decls) != 0 {
			t.Fatalf("%q: expected no declarations, got %d", src, len(prog.Decls))
		}
	}
}

func TestParseNewlinesAreInsignificant(t *testing.T) {
	prog := mustParse(t, "print\n1\n+\n2\n;\n")
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Decls))
	}
}

func TestParsePrecedence(t *testing.T) {
	got := onlyExpr(t, "1 + 2 * 3 - 4 / 2;")
	want := &BinaryExpr{
		Left: &BinaryExpr{
			Left:  &NumberExpr{Value: 1},
			Op:    OpAdd,
			Right: &BinaryExpr{Left: &NumberExpr{Value: 2}, Op: OpMultiply, Right: &NumberExpr{Value: 3}},
		},
		Op:    OpSubtract,
		Right: &BinaryExpr{Left: &NumberExpr{Value: 4}, Op: OpDivide, Right: &NumberExpr{Value: 2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree %#v", got)
	}
}

func TestParseLogicalAndComparison(t *testing.T) {
	got := onlyExpr(t, "a or b and c == d < e;")
	want := &BinaryExpr{
		Left: &IdentifierExpr{Name: "a"},
		Op:   OpOr,
		Right: &BinaryExpr{
			Left: &IdentifierExpr{Name: "b"},
			Op:   OpAnd,
			Right: &BinaryExpr{
				Left:  &IdentifierExpr{Name: "c"},
				Op:    OpEqual,
				Right: &BinaryExpr{Left: &IdentifierExpr{Name: "d"}, Op: OpLess, Right: &IdentifierExpr{Name: "e"}},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree %#v", got)
	}
}

func TestParseUnary(t *testing.T) {
	got := onlyExpr(t, "!!true == -x;")
	want := &BinaryExpr{
		Left:  &UnaryExpr{Op: OpNot, Operand: &UnaryExpr{Op: OpNot, Operand: &BoolExpr{Value: true}}},
		Op:    OpEqual,
		Right: &UnaryExpr{Op: OpNegate, Operand: &IdentifierExpr{Name: "x"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree %#v", got)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	got := onlyExpr(t, "a = b = 3;")
	want := &AssignExpr{Name: "a", Value: &AssignExpr{Name: "b", Value: &NumberExpr{Value: 3}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree %#v", got)
	}
}

func TestParseNonIdentifierAssignmentFallsThrough(t *testing.T) {
	perr := parseError(t, "(a) = 3;")
	if kinds := perr.Syntax.Kinds(); !reflect.DeepEqual(kinds, []ErrorKind{ExpectedSemicolon}) {
		t.Fatalf("expected a single ExpectedSemicolon, got %v", kinds)
	}
}

func TestParseCallChains(t *testing.T) {
	got := onlyExpr(t, "f(1, \"two\")(nil)();")
	want := &CallExpr{
		Callee: &CallExpr{
			Callee: &CallExpr{
				Callee: &IdentifierExpr{Name: "f"},
				Args:   []Expr{&NumberExpr{Value: 1}, &StringExpr{Value: "two"}},
			},
			Args: []Expr{&NilExpr{}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree %#v", got)
	}
}

func TestParseCallArgumentErrors(t *testing.T) {
	perr := parseError(t, "f(1 2); print 3;")
	want := []diag.RecordedError[ErrorKind]{{Kind: UnexpectedToken, TokenIndex: 4}}
	if !reflect.DeepEqual(perr.Syntax.All(), want) {
		t.Fatalf("got %+v, want %+v", perr.Syntax.All(), want)
	}
}

func TestParseGrouping(t *testing.T) {
	got := onlyExpr(t, "(1 + 2) * 3;")
	want := &BinaryExpr{
		Left:  &GroupingExpr{Expr: &BinaryExpr{Left: &NumberExpr{Value: 1}, Op: OpAdd, Right: &NumberExpr{Value: 2}}},
		Op:    OpMultiply,
		Right: &NumberExpr{Value: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tree %#v", got)
	}
}

func TestParseUnmatchedParenthesis(t *testing.T) {
	perr := parseError(t, "print (1; print 2;")
	want := []diag.RecordedError[ErrorKind]{{Kind: UnmatchedParenthesis, TokenIndex: 4}}
	if !reflect.DeepEqual(perr.Syntax.All(), want) {
		t.Fatalf("got %+v, want %+v", perr.Syntax.All(), want)
	}
}

func TestParseBlocks(t *testing.T) {
	prog := mustParse(t, "{ var a = 1; { print a; } }")
	outer, ok := prog.Decls[0].(*BlockStmt)
	if !ok || len(outer.Decls) != 2 {
		t.Fatalf("expected outer block with 2 declarations, got %#v", prog.Decls[0])
	}
	inner, ok := outer.Decls[1].(*BlockStmt)
	if !ok || len(inner.Decls) != 1 {
		t.Fatalf("expected inner block with 1 declaration, got %#v", outer.Decls[1])
	}
	if blk := mustParse(t, "{}").Decls[0].(*BlockStmt); len(blk.Decls) != 0 {
		t.Fatalf("expected empty block")
	}
}

func TestParseBlockErrorsDoNotCascade(t *testing.T) {
	perr := parseError(t, "{ var ; print 1; } print 2;")
	if kinds := perr.Syntax.Kinds(); !reflect.DeepEqual(kinds, []ErrorKind{ExpectedIdentifier}) {
		t.Fatalf("expected only the inner error, got %v", kinds)
	}
	if perr.Incomplete {
		t.Fatalf("error inside a closed block is not incomplete input")
	}
}

func TestParseUnclosedBlockIsIncomplete(t *testing.T) {
	perr := parseError(t, "{ print 1;")
	if kinds := perr.Syntax.Kinds(); !reflect.DeepEqual(kinds, []ErrorKind{UnexpectedToken}) {
		t.Fatalf("expected UnexpectedToken, got %v", kinds)
	}
	if !perr.Incomplete {
		t.Fatalf("expected incomplete input")
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if (a) print 1; else print 2;")
	stmt, ok := prog.Decls[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Decls[0])
	}
	if _, ok := stmt.Then.(*PrintStmt); !ok {
		t.Fatalf("expected print in then branch, got %T", stmt.Then)
	}
	if _, ok := stmt.Else.(*PrintStmt); !ok {
		t.Fatalf("expected print in else branch, got %T", stmt.Else)
	}

	prog = mustParse(t, "if (a) if (b) print 1; else print 2;")
	outer := prog.Decls[0].(*IfStmt)
	if outer.Else != nil {
		t.Fatalf("else must bind to the nearest if")
	}
	if inner := outer.Then.(*IfStmt); inner.Else == nil {
		t.Fatalf("expected inner if to own the else branch")
	}
}

func TestParseIfRequiresParentheses(t *testing.T) {
	perr := parseError(t, "if a print 1; print 2;")
	if kinds := perr.Syntax.Kinds(); !reflect.DeepEqual(kinds, []ErrorKind{UnexpectedToken}) {
		t.Fatalf("expected one UnexpectedToken, got %v", kinds)
	}
}

func TestParseWhile(t *testing.T) {
	prog := mustParse(t, "while (x < 3) { x = x + 1; }")
	stmt, ok := prog.Decls[0].(*WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", prog.Decls[0])
	}
	if _, ok := stmt.Body.(*BlockStmt); !ok {
		t.Fatalf("expected block body, got %T", stmt.Body)
	}
}

func TestParseFor(t *testing.T) {
	prog := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	stmt, ok := prog.Decls[0].(*ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", prog.Decls[0])
	}
	if stmt.Init == nil || stmt.Init.Name != "i" || stmt.Cond == nil || stmt.Incr == nil {
		t.Fatalf("expected all clauses, got %#v", stmt)
	}
	if _, ok := stmt.Incr.(*AssignExpr); !ok {
		t.Fatalf("expected assignment increment, got %T", stmt.Incr)
	}

	stmt = mustParse(t, "for (var i;;) print i;").Decls[0].(*ForStmt)
	if stmt.Cond != nil || stmt.Incr != nil {
		t.Fatalf("expected optional clauses to be absent, got %#v", stmt)
	}
}

func TestParseForRequiresVarInitializer(t *testing.T) {
	perr := parseError(t, "for (i = 0; i < 3; i = i + 1) print i;")
	kinds := perr.Syntax.Kinds()
	if len(kinds) == 0 || kinds[0] != UnexpectedToken {
		t.Fatalf("expected UnexpectedToken first, got %v", kinds)
	}
}

func TestParseSynchronizesAfterMissingPrimary(t *testing.T) {
	perr := parseError(t, "print 1 +;")
	want := []diag.RecordedError[ErrorKind]{{Kind: ExpectedPrimaryExpression, TokenIndex: 4}}
	if !reflect.DeepEqual(perr.Syntax.All(), want) {
		t.Fatalf("got %+v, want %+v", perr.Syntax.All(), want)
	}

	perr = parseError(t, "print 1 +; print 2;")
	if perr.Syntax.Len() != 1 {
		t.Fatalf("following statement should parse cleanly, got %v", perr.Syntax.Kinds())
	}
	if perr.Incomplete {
		t.Fatalf("terminated statement is not incomplete input")
	}
}

func TestParseIndependentErrors(t *testing.T) {
	src := "var ; print 1;\nif 1;"
	perr := parseError(t, src)
	want := []diag.RecordedError[ErrorKind]{
		{Kind: ExpectedIdentifier, TokenIndex: 2},
		{Kind: UnexpectedToken, TokenIndex: 8},
	}
	if !reflect.DeepEqual(perr.Syntax.All(), want) {
		t.Fatalf("got %+v, want %+v", perr.Syntax.All(), want)
	}
	got := perr.Diagnostics(src)
	wantDiag := []string{
		"ExpectedIdentifier, 4\nvar ; print 1;\n    ^",
		"UnexpectedToken, 3\nif 1;\n   ^",
	}
	if !reflect.DeepEqual(got, wantDiag) {
		t.Fatalf("got %q, want %q", got, wantDiag)
	}
	if msg := perr.Error(); msg != "syntax error: ExpectedIdentifier (and 1 more)" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestParseIncompleteInput(t *testing.T) {
	for _, src := range []string{"print 1", "var x = (1 +", "var", "f(1,", "if (x)"} {
		_, err := Parse(src)
		if !IsIncomplete(err) {
			t.Errorf("%q: expected incomplete error, got %v", src, err)
		}
	}
	for _, src := range []string{"print 1 +;", "var 1;", "print (1;", "var ; print 1", "print ) ; print 2\n", "{ var ; print 1;"} {
		_, err := Parse(src)
		if err == nil || IsIncomplete(err) {
			t.Errorf("%q: expected a complete error, got %v", src, err)
		}
	}
	if IsIncomplete(nil) || IsIncomplete(errors.New("other")) {
		t.Fatalf("IsIncomplete must only accept parse errors")
	}
}

func TestParseErrorAtEndSkipsTrailingBlankLines(t *testing.T) {
	cases := []struct {
		src   string
		index int
		diag  string
	}{
		{"print 1", 2, "ExpectedSemicolon, 6\nprint 1\n      ^"},
		{"print 1\n", 3, "ExpectedSemicolon, 7\nprint 1\n       ^"},
		{"print 1\n\n", 3, "ExpectedSemicolon, 7\nprint 1\n       ^"},
		{"print 1\n\n\n", 3, "ExpectedSemicolon, 7\nprint 1\n       ^"},
	}
	for _, tc := range cases {
		perr := parseError(t, tc.src)
		want := []diag.RecordedError[ErrorKind]{{Kind: ExpectedSemicolon, TokenIndex: tc.index}}
		if !reflect.DeepEqual(perr.Syntax.All(), want) {
			t.Errorf("%q: got %+v, want %+v", tc.src, perr.Syntax.All(), want)
		}
		if got := perr.Diagnostics(tc.src); !reflect.DeepEqual(got, []string{tc.diag}) {
			t.Errorf("%q: got %q, want %q", tc.src, got, tc.diag)
		}
	}
}

func TestParseUnclosedBlockAfterBlankLines(t *testing.T) {
	src := "{\n  print 1;\n\n"
	perr := parseError(t, src)
	want := []string{"UnexpectedToken, 10\n  print 1;\n          ^"}
	if got := perr.Diagnostics(src); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !perr.Incomplete {
		t.Fatalf("expected incomplete input")
	}
}

func TestParseLexicalErrorsSkipGrammar(t *testing.T) {
	src := "var @ = ;\nprint \"x"
	perr := parseError(t, src)
	if perr.Syntax.HasErrors() {
		t.Fatalf("grammar must not run on lexical errors, got %v", perr.Syntax.Kinds())
	}
	if kinds := perr.Lexical.Kinds(); !reflect.DeepEqual(kinds, []lexer.LexError{lexer.NoTokenKind, lexer.UnclosedString}) {
		t.Fatalf("unexpected lexical errors %v", kinds)
	}
	got := perr.Diagnostics(src)
	want := []string{
		"NoTokenKind, 4\nvar @ = ;\n    ^",
		"UnclosedString, 6\nprint \"x\n      ^",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if msg := perr.Error(); msg != "lexical error: NoTokenKind (and 1 more)" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestParseTokensRejectsErrorTokens(t *testing.T) {
	tokens := []lexer.Token{
		{Type: lexer.Print},
		{Type: lexer.Error, Err: lexer.NoTokenKind},
		{Type: lexer.Semicolon},
	}
	_, err := ParseTokens(tokens)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	want := []diag.RecordedError[ErrorKind]{{Kind: ExpectedPrimaryExpression, TokenIndex: 2}}
	if !reflect.DeepEqual(perr.Syntax.All(), want) {
		t.Fatalf("got %+v, want %+v", perr.Syntax.All(), want)
	}
}

func TestOperatorStrings(t *testing.T) {
	if OpGreaterEqual.String() != ">=" || OpAnd.String() != "and" || OpNot.String() != "!" || OpNegate.String() != "-" {
		t.Fatalf("unexpected operator spellings")
	}
	if ExpectedSemicolon.String() != "ExpectedSemicolon" || ErrorKind(99).String() != "ErrorKind" {
		t.Fatalf("unexpected error kind names")
	}
}
