// Package sexpr renders token sequences and syntax trees as S-expressions
// for debugging output.
package sexpr

import (
	"strconv"
	"strings"

	"github.com/sergev/lox/lexer"
	"github.com/sergev/lox/parser"
)

// Program renders each top-level declaration on its own line.
func Program(prog *parser.Program) string {
	if prog == nil {
		return ""
	}
	var b strings.Builder
	for _, decl := range prog.Decls {
		writeDecl(&b, decl)
		b.WriteByte('\n')
	}
	return b.String()
}

// Decl renders a single declaration or statement.
func Decl(decl parser.Decl) string {
	var b strings.Builder
	writeDecl(&b, decl)
	return b.String()
}

// Expr renders a single expression.
func Expr(expr parser.Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

// Tokens renders a token sequence as one list. Categories with a payload
// appear as (category payload); fixed tokens appear as their spelling.
func Tokens(tokens []lexer.Token) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, tok := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch tok.Type {
		case lexer.Identifier:
			writeList(&b, "identifier", func() { b.WriteString(tok.Text) })
		case lexer.String:
			writeList(&b, "string", func() { b.WriteString(strconv.Quote(tok.Text)) })
		case lexer.Number:
			writeList(&b, "number", func() { b.WriteString(formatNumber(tok.Number)) })
		case lexer.Error:
			writeList(&b, "error", func() { b.WriteString(tok.Err.String()) })
		default:
			b.WriteString(tok.Type.String())
		}
	}
	b.WriteByte(')')
	return b.String()
}

func writeList(b *strings.Builder, head string, body func()) {
	b.WriteByte('(')
	b.WriteString(head)
	b.WriteByte(' ')
	body()
	b.WriteByte(')')
}

func writeDecls(b *strings.Builder, decls []parser.Decl) {
	for _, decl := range decls {
		b.WriteByte(' ')
		writeDecl(b, decl)
	}
}

func writeDecl(b *strings.Builder, decl parser.Decl) {
	switch d := decl.(type) {
	case *parser.VarDecl:
		b.WriteString("(var ")
		b.WriteString(d.Name)
		if d.Init != nil {
			b.WriteByte(' ')
			writeExpr(b, d.Init)
		}
		b.WriteByte(')')
	case *parser.ExprStmt:
		writeList(b, "expr", func() { writeExpr(b, d.Expr) })
	case *parser.PrintStmt:
		writeList(b, "print", func() { writeExpr(b, d.Expr) })
	case *parser.BlockStmt:
		b.WriteString("(block")
		writeDecls(b, d.Decls)
		b.WriteByte(')')
	case *parser.IfStmt:
		b.WriteString("(if ")
		writeExpr(b, d.Cond)
		b.WriteByte(' ')
		writeDecl(b, d.Then)
		if d.Else != nil {
			b.WriteByte(' ')
			writeDecl(b, d.Else)
		}
		b.WriteByte(')')
	case *parser.WhileStmt:
		b.WriteString("(while ")
		writeExpr(b, d.Cond)
		b.WriteByte(' ')
		writeDecl(b, d.Body)
		b.WriteByte(')')
	case *parser.ForStmt:
		b.WriteString("(for ")
		writeDecl(b, d.Init)
		b.WriteByte(' ')
		writeOptional(b, d.Cond)
		b.WriteByte(' ')
		writeOptional(b, d.Incr)
		b.WriteByte(' ')
		writeDecl(b, d.Body)
		b.WriteByte(')')
	default:
		b.WriteString("<unknown>")
	}
}

// writeOptional renders an absent for-loop clause as ().
func writeOptional(b *strings.Builder, expr parser.Expr) {
	if expr == nil {
		b.WriteString("()")
		return
	}
	writeExpr(b, expr)
}

func writeExpr(b *strings.Builder, expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.NumberExpr:
		b.WriteString(formatNumber(e.Value))
	case *parser.StringExpr:
		b.WriteString(strconv.Quote(e.Value))
	case *parser.BoolExpr:
		b.WriteString(strconv.FormatBool(e.Value))
	case *parser.NilExpr:
		b.WriteString("nil")
	case *parser.IdentifierExpr:
		b.WriteString(e.Name)
	case *parser.GroupingExpr:
		writeList(b, "group", func() { writeExpr(b, e.Expr) })
	case *parser.UnaryExpr:
		writeList(b, e.Op.String(), func() { writeExpr(b, e.Operand) })
	case *parser.BinaryExpr:
		writeList(b, e.Op.String(), func() {
			writeExpr(b, e.Left)
			b.WriteByte(' ')
			writeExpr(b, e.Right)
		})
	case *parser.AssignExpr:
		writeList(b, "assign", func() {
			b.WriteString(e.Name)
			b.WriteByte(' ')
			writeExpr(b, e.Value)
		})
	case *parser.CallExpr:
		b.WriteString("(call ")
		writeExpr(b, e.Callee)
		for _, arg := range e.Args {
			b.WriteByte(' ')
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<unknown>")
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
