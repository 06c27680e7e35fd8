package ir

import (
	"gaia/src/types"
	"gaia/src/util"
)

// MExpr and MStmt mirror frontend.Expr/Stmt but every node additionally
// carries its resolved types.Type, and names have been resolved to
// concrete call targets: a Call in MIR always names one specific
// monomorphized Prototype, never an overload set (spec section 9:
// tagged per-node Go types instead of a double-dispatch visitor tree).
type MExpr interface {
	mexprNode()
	Loc() util.SourceLocation
	ExprType() types.Type
}

type MStmt interface {
	mstmtNode()
	Loc() util.SourceLocation
}

// MVariable reads a bound local or parameter.
type MVariable struct {
	Name string
	Type types.Type
	Loc_ util.SourceLocation
}

// MCall invokes a single resolved Prototype (already monomorphized if
// it was a user template) with Args.
type MCall struct {
	Target *Prototype
	Args   []MExpr
	Type   types.Type
	Loc_   util.SourceLocation
}

type MIntLit struct {
	Value int64
	Type  types.Type
	Loc_  util.SourceLocation
}

type MFloatLit struct {
	Value float64
	Type  types.Type
	Loc_  util.SourceLocation
}

type MBoolLit struct {
	Value bool
	Loc_  util.SourceLocation
}

type MStringLit struct {
	Value string
	Loc_  util.SourceLocation
}

// MNullLit carries the pointer type the checker gave it, which is
// always Pointer(Void); no pointee type is inferred from context.
type MNullLit struct {
	Type types.Type
	Loc_ util.SourceLocation
}

// MIfExpr is the expression form of if; Then and Else have already been
// checked to share ExprType.
type MIfExpr struct {
	Cond MExpr
	Then MExpr
	Else MExpr
	Type types.Type
	Loc_ util.SourceLocation
}

func (*MVariable) mexprNode()  {}
func (*MCall) mexprNode()      {}
func (*MIntLit) mexprNode()    {}
func (*MFloatLit) mexprNode()  {}
func (*MBoolLit) mexprNode()   {}
func (*MStringLit) mexprNode() {}
func (*MNullLit) mexprNode()   {}
func (*MIfExpr) mexprNode()    {}

func (n *MVariable) Loc() util.SourceLocation  { return n.Loc_ }
func (n *MCall) Loc() util.SourceLocation      { return n.Loc_ }
func (n *MIntLit) Loc() util.SourceLocation    { return n.Loc_ }
func (n *MFloatLit) Loc() util.SourceLocation  { return n.Loc_ }
func (n *MBoolLit) Loc() util.SourceLocation   { return n.Loc_ }
func (n *MStringLit) Loc() util.SourceLocation { return n.Loc_ }
func (n *MNullLit) Loc() util.SourceLocation   { return n.Loc_ }
func (n *MIfExpr) Loc() util.SourceLocation    { return n.Loc_ }

func (n *MVariable) ExprType() types.Type  { return n.Type }
func (n *MCall) ExprType() types.Type      { return n.Type }
func (n *MIntLit) ExprType() types.Type    { return n.Type }
func (n *MFloatLit) ExprType() types.Type  { return n.Type }
func (n *MBoolLit) ExprType() types.Type   { return types.BoolType }
func (n *MStringLit) ExprType() types.Type { return types.StringType }
func (n *MNullLit) ExprType() types.Type   { return n.Type }
func (n *MIfExpr) ExprType() types.Type    { return n.Type }

// MIfStmt is the statement form of if: both branches are statement
// lists, no phi is needed (spec section 4.6).
type MIfStmt struct {
	Cond MExpr
	Then []MStmt
	Else []MStmt
	Loc_ util.SourceLocation
}

// MReturn optionally carries a value.
type MReturn struct {
	Expr MExpr // nil for a bare return
	Loc_ util.SourceLocation
}

// MVarDef binds Name (already checked for redefinition) to Value.
type MVarDef struct {
	Name  string
	Value MExpr
	Loc_  util.SourceLocation
}

// MExprStmt is an expression evaluated for effect.
type MExprStmt struct {
	Expr MExpr
	Loc_ util.SourceLocation
}

func (*MIfStmt) mstmtNode()   {}
func (*MReturn) mstmtNode()   {}
func (*MVarDef) mstmtNode()   {}
func (*MExprStmt) mstmtNode() {}

func (n *MIfStmt) Loc() util.SourceLocation   { return n.Loc_ }
func (n *MReturn) Loc() util.SourceLocation   { return n.Loc_ }
func (n *MVarDef) Loc() util.SourceLocation   { return n.Loc_ }
func (n *MExprStmt) Loc() util.SourceLocation { return n.Loc_ }

// Prototype is one fully-resolved, monomorphized signature: a single
// concrete parameter-type vector and a single concrete return type.
// User function templates produce one Prototype per distinct argument
// type vector observed at a call site (spec section 4.5); extern
// prototypes and primitive operators produce exactly one each.
type Prototype struct {
	Name       string
	ParamNames []string
	ParamTypes []types.Type
	RetType    types.Type
	IsExtern   bool
	Primitive  bool // true for a built-in operator resolved by resolvePrimitive; never reaches codegen as a call
	Loc        util.SourceLocation
}

// Function is a fully checked, monomorphized function body. Body is
// nil for extern prototypes and for primitive operators, which never
// reach codegen as user functions.
type Function struct {
	Proto *Prototype
	Body  []MStmt
}

// Module is the checked result of an entire compilation unit: every
// monomorphized function instantiated across every source file, plus
// the synthesized main body built from top-level statements (spec
// section 6: "all source files ... are concatenated logically").
type Module struct {
	Functions []*Function
	Externs   []*Prototype
	Main      []MStmt
}

// instKey is the monomorphization cache key described in spec section
// 9: a function's declared name plus the canonical printed form of its
// concrete argument type vector. Two calls with the same name and the
// same argument types always resolve to the same Prototype.
type instKey struct {
	name string
	args string
}

func makeInstKey(name string, argTypes []types.Type) instKey {
	s := ""
	for i, t := range argTypes {
		if i > 0 {
			s += ","
		}
		s += t.String()
	}
	return instKey{name: name, args: s}
}
