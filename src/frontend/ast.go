package frontend

import "gaia/src/util"

// Expr is the marker interface implemented by every expression AST
// node. Per spec section 9's design note, gaia uses one concrete Go
// type per node shape plus a type switch in each pass, rather than the
// teacher's single generic Node with double-dispatch visitor methods.
type Expr interface {
	exprNode()
	Location() util.SourceLocation
}

// Stmt is the marker interface implemented by every statement AST node.
type Stmt interface {
	stmtNode()
	Location() util.SourceLocation
}

// Variable references a bound name.
type Variable struct {
	Name string
	Loc  util.SourceLocation
}

// UnaryOp applies a prefix operator (!, unary +, unary -) to Operand.
// Unary operators parse as calls to a first-class operator function
// (spec section 4.2), so Op is the operator's source spelling ("!",
// "+", "-") and is looked up exactly like any other call name.
type UnaryOp struct {
	Op      string
	Operand Expr
	Loc     util.SourceLocation
}

// BinaryOp applies a binary operator to Lhs and Rhs.
type BinaryOp struct {
	Op  BinOpKind
	Lhs Expr
	Rhs Expr
	Loc util.SourceLocation
}

// Call invokes the function, extern, or operator named Name with Args.
type Call struct {
	Name string
	Args []Expr
	Loc  util.SourceLocation
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Loc   util.SourceLocation
}

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
	Loc   util.SourceLocation
}

// BoolLit is a boolean literal (true/false).
type BoolLit struct {
	Value bool
	Loc   util.SourceLocation
}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Loc   util.SourceLocation
}

// NullLit is the null literal. It has no runtime representation (spec
// section 3); the checker types every null literal as Pointer(Void),
// whatever the context.
type NullLit struct {
	Loc util.SourceLocation
}

// IfExpr is the expression form of if: `if cond then thenE else elseE`.
// Both branches are required and must agree in type (spec section 4.4).
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Loc  util.SourceLocation
}

func (*Variable) exprNode()  {}
func (*UnaryOp) exprNode()   {}
func (*BinaryOp) exprNode()  {}
func (*Call) exprNode()      {}
func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*BoolLit) exprNode()   {}
func (*StringLit) exprNode() {}
func (*NullLit) exprNode()   {}
func (*IfExpr) exprNode()    {}

func (n *Variable) Location() util.SourceLocation  { return n.Loc }
func (n *UnaryOp) Location() util.SourceLocation   { return n.Loc }
func (n *BinaryOp) Location() util.SourceLocation  { return n.Loc }
func (n *Call) Location() util.SourceLocation      { return n.Loc }
func (n *IntLit) Location() util.SourceLocation    { return n.Loc }
func (n *FloatLit) Location() util.SourceLocation  { return n.Loc }
func (n *BoolLit) Location() util.SourceLocation   { return n.Loc }
func (n *StringLit) Location() util.SourceLocation { return n.Loc }
func (n *NullLit) Location() util.SourceLocation   { return n.Loc }
func (n *IfExpr) Location() util.SourceLocation    { return n.Loc }

// IfStmt is the statement form of if: braced blocks, an optional else,
// multiple statements per branch (spec section 4.2).
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else branch.
	Loc  util.SourceLocation
}

// Return optionally carries a value; Expr is nil for a bare `return`.
type Return struct {
	Expr Expr // may be nil
	Loc  util.SourceLocation
}

// VarDef binds Name to the result of evaluating Value exactly once
// (spec section 1: no mutable variables).
type VarDef struct {
	Name  string
	Value Expr
	Loc   util.SourceLocation
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	Expr Expr
	Loc  util.SourceLocation
}

func (*IfStmt) stmtNode()   {}
func (*Return) stmtNode()   {}
func (*VarDef) stmtNode()   {}
func (*ExprStmt) stmtNode() {}

func (n *IfStmt) Location() util.SourceLocation   { return n.Loc }
func (n *Return) Location() util.SourceLocation   { return n.Loc }
func (n *VarDef) Location() util.SourceLocation   { return n.Loc }
func (n *ExprStmt) Location() util.SourceLocation { return n.Loc }

// Param is one prototype parameter. TypeName is empty when the
// parameter's type is omitted and must be inferred at call sites (spec
// section 1).
type Param struct {
	Name     string
	TypeName string
}

// Prototype is a function or operator-overload signature: a name (or
// operator symbol), parameters and an optional declared return type.
type Prototype struct {
	Name           string
	Params         []Param
	ReturnTypeName string // empty if the return type is to be inferred.
	IsExtern       bool
	Loc            util.SourceLocation
}

// Function is a top-level function or operator-overload declaration.
// Body is nil for extern prototypes.
type Function struct {
	Proto *Prototype
	Body  []Stmt
}

// File is the parsed result of one source file: an ordered sequence of
// function/extern declarations interleaved with top-level statements
// (spec section 4.2's `file := (decl | topStmt)*`).
type File struct {
	Name      string
	Functions []*Function
	TopLevel  []Stmt
}
