package parser

// Program is the root of a parsed Lox source.
type Program struct {
	Decls []Decl
}

// Decl is anything that may appear in a program or block: a variable
// declaration or a statement.
type Decl interface {
	declNode()
}

// Stmt is a statement. Every statement is also a declaration.
type Stmt interface {
	Decl
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	exprNode()
}

// VarDecl declares a variable with an optional initializer.
type VarDecl struct {
	Name string
	Init Expr // nil when absent
}

func (*VarDecl) declNode() {}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) declNode() {}
func (*ExprStmt) stmtNode() {}

// PrintStmt prints the display form of a value followed by a newline.
type PrintStmt struct {
	Expr Expr
}

func (*PrintStmt) declNode() {}
func (*PrintStmt) stmtNode() {}

// BlockStmt is a braced sequence of declarations with its own scope.
type BlockStmt struct {
	Decls []Decl
}

func (*BlockStmt) declNode() {}
func (*BlockStmt) stmtNode() {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (*IfStmt) declNode() {}
func (*IfStmt) stmtNode() {}

// WhileStmt repeats Body while Cond is truthy.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*WhileStmt) declNode() {}
func (*WhileStmt) stmtNode() {}

// ForStmt is a C-style loop. Cond and Incr may be nil.
type ForStmt struct {
	Init *VarDecl
	Cond Expr
	Incr Expr
	Body Stmt
}

func (*ForStmt) declNode() {}
func (*ForStmt) stmtNode() {}

// AssignExpr stores Value into an existing variable.
type AssignExpr struct {
	Name  string
	Value Expr
}

func (*AssignExpr) exprNode() {}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	OpOr BinaryOp = iota
	OpAnd
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

var binaryOpNames = [...]string{
	OpOr:           "or",
	OpAnd:          "and",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpAdd:          "+",
	OpSubtract:     "-",
	OpMultiply:     "*",
	OpDivide:       "/",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// CallExpr invokes a callable value.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Expr Expr
}

func (*GroupingExpr) exprNode() {}

// IdentifierExpr refers to a variable or builtin.
type IdentifierExpr struct {
	Name string
}

func (*IdentifierExpr) exprNode() {}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	Value float64
}

func (*NumberExpr) exprNode() {}

// StringExpr is a double-quoted string literal, without the quotes.
type StringExpr struct {
	Value string
}

func (*StringExpr) exprNode() {}

// BoolExpr is true or false.
type BoolExpr struct {
	Value bool
}

func (*BoolExpr) exprNode() {}

// NilExpr is the nil literal.
type NilExpr struct{}

func (*NilExpr) exprNode() {}
