package parser

import "github.com/sergev/lox/lexer"

// binaryLevels lists the infix operators from loosest to tightest binding:
// logical or, logical and, equality, comparison, term, factor.
var binaryLevels = []map[lexer.TokenType]BinaryOp{
	{lexer.Or: OpOr},
	{lexer.And: OpAnd},
	{lexer.EqualEqual: OpEqual, lexer.BangEqual: OpNotEqual},
	{
		lexer.Greater:      OpGreater,
		lexer.GreaterEqual: OpGreaterEqual,
		lexer.Less:         OpLess,
		lexer.LessEqual:    OpLessEqual,
	},
	{lexer.Plus: OpAdd, lexer.Minus: OpSubtract},
	{lexer.Star: OpMultiply, lexer.Slash: OpDivide},
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment is right-associative. Only a bare identifier is an
// assignment target; any other left-hand side is left as an ordinary
// expression for the caller to deal with.
func (p *parser) parseAssignment() (Expr, error) {
	expr, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	ident, ok := expr.(*IdentifierExpr)
	if !ok || !p.stream.peekIs(lexer.Equal) {
		return expr, nil
	}
	p.stream.next()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &AssignExpr{Name: ident.Name, Value: value}, nil
}

// parseBinary folds a left-associative chain of the operators at level,
// with operands parsed at the next tighter level.
func (p *parser) parseBinary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.stream.peek()
		if !ok {
			return left, nil
		}
		op, found := binaryLevels[level][tok.Type]
		if !found {
			return left, nil
		}
		p.stream.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok, ok := p.stream.peek()
	if ok && (tok.Type == lexer.Minus || tok.Type == lexer.Bang) {
		p.stream.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := OpNegate
		if tok.Type == lexer.Bang {
			op = OpNot
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parseCall()
}

func (p *parser) parseCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.stream.peekIs(lexer.LeftParen) {
		p.stream.next()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		expr = &CallExpr{Callee: expr, Args: args}
	}
	return expr, nil
}

// parseArguments parses a comma separated argument list after the opening
// parenthesis, consuming the closing one.
func (p *parser) parseArguments() ([]Expr, error) {
	if p.stream.peekIs(lexer.RightParen) {
		p.stream.next()
		return nil, nil
	}
	var args []Expr
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		tok, ok := p.stream.next()
		if !ok {
			return nil, p.failAtEnd(UnexpectedToken)
		}
		switch tok.Type {
		case lexer.Comma:
		case lexer.RightParen:
			return args, nil
		default:
			return nil, p.fail(UnexpectedToken)
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok, ok := p.stream.next()
	if !ok {
		return nil, p.failAtEnd(ExpectedPrimaryExpression)
	}
	switch tok.Type {
	case lexer.True:
		return &BoolExpr{Value: true}, nil
	case lexer.False:
		return &BoolExpr{Value: false}, nil
	case lexer.Nil:
		return &NilExpr{}, nil
	case lexer.Number:
		return &NumberExpr{Value: tok.Number}, nil
	case lexer.String:
		return &StringExpr{Value: tok.Text}, nil
	case lexer.Identifier:
		return &IdentifierExpr{Name: tok.Text}, nil
	case lexer.LeftParen:
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing, ok := p.stream.next()
		if !ok {
			return nil, p.failAtEnd(UnmatchedParenthesis)
		}
		if closing.Type != lexer.RightParen {
			return nil, p.fail(UnmatchedParenthesis)
		}
		return &GroupingExpr{Expr: inner}, nil
	default:
		return nil, p.fail(ExpectedPrimaryExpression)
	}
}
