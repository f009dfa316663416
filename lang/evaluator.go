package lang

import (
	"fmt"
	"io"
	"os"

	"github.com/sergev/lox/parser"
)

// Evaluator executes parsed programs against an environment.
type Evaluator struct {
	Env *Environment
	Out io.Writer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutput directs print statements to w.
func WithOutput(w io.Writer) Option {
	return func(ev *Evaluator) {
		ev.Out = w
	}
}

// WithEnvironment evaluates against env instead of a fresh environment,
// so state persists across calls.
func WithEnvironment(env *Environment) Option {
	return func(ev *Evaluator) {
		ev.Env = env
	}
}

// NewEvaluator constructs an evaluator printing to stdout over a new
// environment unless configured otherwise.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := &Evaluator{Out: os.Stdout}
	for _, opt := range opts {
		opt(ev)
	}
	if ev.Env == nil {
		ev.Env = NewEnvironment()
	}
	return ev
}

// EvaluateProgram runs every declaration of prog.
func (ev *Evaluator) EvaluateProgram(prog *parser.Program) error {
	return ev.Evaluate(prog.Decls)
}

// Evaluate runs decls in order and stops at the first runtime error.
func (ev *Evaluator) Evaluate(decls []parser.Decl) error {
	for _, decl := range decls {
		if err := ev.execDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execDecl(decl parser.Decl) error {
	switch d := decl.(type) {
	case *parser.VarDecl:
		return ev.declare(d)
	case *parser.ExprStmt:
		_, err := ev.eval(d.Expr)
		return err
	case *parser.PrintStmt:
		val, err := ev.eval(d.Expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ev.Out, val.String())
		return err
	case *parser.BlockStmt:
		return ev.Env.Scoped(func() error {
			return ev.Evaluate(d.Decls)
		})
	case *parser.IfStmt:
		cond, err := ev.eval(d.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return ev.execDecl(d.Then)
		}
		if d.Else != nil {
			return ev.execDecl(d.Else)
		}
		return nil
	case *parser.WhileStmt:
		for {
			cond, err := ev.eval(d.Cond)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
			if err := ev.execDecl(d.Body); err != nil {
				return err
			}
		}
	case *parser.ForStmt:
		return ev.Env.Scoped(func() error {
			return ev.execFor(d)
		})
	default:
		return fmt.Errorf("unsupported declaration %T", decl)
	}
}

func (ev *Evaluator) declare(d *parser.VarDecl) error {
	val := Nil
	if d.Init != nil {
		var err error
		if val, err = ev.eval(d.Init); err != nil {
			return err
		}
	}
	return ev.Env.Declare(d.Name, val)
}

// execFor runs inside the loop's own frame, which holds the initializer.
func (ev *Evaluator) execFor(d *parser.ForStmt) error {
	if d.Init != nil {
		if err := ev.declare(d.Init); err != nil {
			return err
		}
	}
	for {
		if d.Cond != nil {
			cond, err := ev.eval(d.Cond)
			if err != nil {
				return err
			}
			if !cond.Truthy() {
				return nil
			}
		}
		if err := ev.execDecl(d.Body); err != nil {
			return err
		}
		if d.Incr != nil {
			if _, err := ev.eval(d.Incr); err != nil {
				return err
			}
		}
	}
}

func (ev *Evaluator) eval(expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.NumberExpr:
		return NumberValue(e.Value), nil
	case *parser.StringExpr:
		return StringValue(e.Value), nil
	case *parser.BoolExpr:
		return BoolValue(e.Value), nil
	case *parser.NilExpr:
		return Nil, nil
	case *parser.IdentifierExpr:
		return ev.Env.Lookup(e.Name)
	case *parser.GroupingExpr:
		return ev.eval(e.Expr)
	case *parser.AssignExpr:
		val, err := ev.eval(e.Value)
		if err != nil {
			return Value{}, err
		}
		if err := ev.Env.Assign(e.Name, val); err != nil {
			return Value{}, err
		}
		return val, nil
	case *parser.UnaryExpr:
		return ev.evalUnary(e)
	case *parser.BinaryExpr:
		if e.Op == parser.OpAnd || e.Op == parser.OpOr {
			return ev.evalLogical(e)
		}
		left, err := ev.eval(e.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := ev.eval(e.Right)
		if err != nil {
			return Value{}, err
		}
		return applyBinary(e.Op, left, right)
	case *parser.CallExpr:
		return ev.evalCall(e)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (ev *Evaluator) evalUnary(e *parser.UnaryExpr) (Value, error) {
	operand, err := ev.eval(e.Operand)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case parser.OpNegate:
		if operand.Type != TypeNumeric {
			return Value{}, newError(TypeError, e.Op.String())
		}
		return NumberValue(-operand.Num()), nil
	default:
		if operand.Type != TypeBoolean {
			return Value{}, newError(TypeError, e.Op.String())
		}
		return BoolValue(!operand.Bool()), nil
	}
}

// evalLogical short-circuits: the right operand is evaluated only when the
// left one does not decide the result. Both operands must be booleans.
func (ev *Evaluator) evalLogical(e *parser.BinaryExpr) (Value, error) {
	left, err := ev.eval(e.Left)
	if err != nil {
		return Value{}, err
	}
	if left.Type != TypeBoolean {
		return Value{}, newError(TypeError, e.Op.String())
	}
	if (e.Op == parser.OpAnd) != left.Bool() {
		return left, nil
	}
	right, err := ev.eval(e.Right)
	if err != nil {
		return Value{}, err
	}
	if right.Type != TypeBoolean {
		return Value{}, newError(TypeError, e.Op.String())
	}
	return right, nil
}

func applyBinary(op parser.BinaryOp, left, right Value) (Value, error) {
	bothNumeric := left.Type == TypeNumeric && right.Type == TypeNumeric
	switch op {
	case parser.OpAdd:
		if left.Type == TypeString && right.Type == TypeString {
			return StringValue(left.Str() + right.Str()), nil
		}
		if bothNumeric {
			return NumberValue(left.Num() + right.Num()), nil
		}
	case parser.OpSubtract:
		if bothNumeric {
			return NumberValue(left.Num() - right.Num()), nil
		}
	case parser.OpMultiply:
		if bothNumeric {
			return NumberValue(left.Num() * right.Num()), nil
		}
	case parser.OpDivide:
		if bothNumeric {
			return NumberValue(left.Num() / right.Num()), nil
		}
	case parser.OpGreater:
		if bothNumeric {
			return BoolValue(left.Num() > right.Num()), nil
		}
	case parser.OpGreaterEqual:
		if bothNumeric {
			return BoolValue(left.Num() >= right.Num()), nil
		}
	case parser.OpLess:
		if bothNumeric {
			return BoolValue(left.Num() < right.Num()), nil
		}
	case parser.OpLessEqual:
		if bothNumeric {
			return BoolValue(left.Num() <= right.Num()), nil
		}
	case parser.OpEqual, parser.OpNotEqual:
		var equal bool
		switch {
		case bothNumeric:
			equal = left.Num() == right.Num()
		case left.Type == TypeBoolean && right.Type == TypeBoolean:
			equal = left.Bool() == right.Bool()
		default:
			return Value{}, newError(TypeError, op.String())
		}
		return BoolValue(equal == (op == parser.OpEqual)), nil
	}
	return Value{}, newError(TypeError, op.String())
}

// evalCall checks the callee and its arity before evaluating any argument.
func (ev *Evaluator) evalCall(e *parser.CallExpr) (Value, error) {
	callee, err := ev.eval(e.Callee)
	if err != nil {
		return Value{}, err
	}
	name := calleeName(e.Callee)
	fn := callee.Callable()
	if callee.Type != TypeCallable || fn == nil {
		return Value{}, newError(NotCallable, name)
	}
	if len(e.Args) != fn.Arity {
		return Value{}, newError(WrongNumberOfArguments, name)
	}
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		if args[i], err = ev.eval(arg); err != nil {
			return Value{}, err
		}
	}
	return fn.Fn(args)
}

func calleeName(expr parser.Expr) string {
	if ident, ok := expr.(*parser.IdentifierExpr); ok {
		return ident.Name
	}
	return ""
}
