package ir

import (
	"gaia/src/diag"
	"gaia/src/frontend"
	"gaia/src/types"
	"gaia/src/util"
)

// Checker lowers one or more frontend.File ASTs into typed MIR. Bodies
// of user function templates are checked lazily, on first call with a
// concrete argument type vector (spec section 4.5): declaring a
// function only records its template, it does not type-check its body.
type Checker struct {
	syms *SymbolTable

	instantiated map[instKey]*Prototype
	inProgress   map[instKey]bool

	functions []*Function
	externs   []*Prototype
	main      []MStmt
}

// NewChecker returns a Checker with an empty global scope. repl relaxes
// Redefinition checks at global scope (spec section 9).
func NewChecker(repl bool) *Checker {
	return &Checker{
		syms:         NewSymbolTable(repl),
		instantiated: make(map[instKey]*Prototype),
		inProgress:   make(map[instKey]bool),
	}
}

// Module returns the accumulated checked program. Call it once after
// every file has been declared and checked.
func (c *Checker) Module() *Module {
	return &Module{Functions: c.functions, Externs: c.externs, Main: c.main}
}

// funcCtx threads a single function instantiation's return-type state
// through its nested statements (including inside if-branches) without
// storing it on Checker, since checking one function's body can itself
// trigger checking another function's body through a call.
type funcCtx struct {
	declaredRet *types.Type
	inferredRet *types.Type
}

// ---------------------------
// ----- declare pass --------
// ---------------------------

// DeclareFile registers every function and extern prototype in file
// into the global scope, without checking any bodies. Call this for
// every file before calling CheckTopLevel on any of them, so that
// functions declared later in one file (or in a later file) are
// visible to calls in an earlier one.
func (c *Checker) DeclareFile(file *frontend.File) error {
	for _, fn := range file.Functions {
		tpl, err := c.buildTemplate(fn)
		if err != nil {
			return err
		}
		if tpl.IsExtern {
			if err := c.resolveExtern(tpl); err != nil {
				return err
			}
		}
		if err := c.syms.DefineFunc(tpl.Proto.Name, tpl); err != nil {
			return err
		}
	}
	return nil
}

// buildTemplate resolves a declaration's declared parameter/return type
// names (leaving undeclared parameter types nil, to be inferred per
// call site) without checking the function body.
func (c *Checker) buildTemplate(fn *frontend.Function) (*FuncTemplate, error) {
	proto := fn.Proto
	paramTypes := make([]*types.Type, len(proto.Params))
	for i, p := range proto.Params {
		if p.TypeName == "" {
			if proto.IsExtern {
				return nil, diag.New(diag.InvalidType, proto.Loc,
					"extern parameter %q requires a declared type", p.Name)
			}
			continue
		}
		t, ok := types.Named(p.TypeName)
		if !ok {
			return nil, diag.New(diag.InvalidType, proto.Loc, "unknown type name %q", p.TypeName)
		}
		paramTypes[i] = &t
	}

	var retType *types.Type
	if proto.ReturnTypeName != "" {
		t, ok := types.Named(proto.ReturnTypeName)
		if !ok {
			return nil, diag.New(diag.InvalidType, proto.Loc, "unknown return type name %q", proto.ReturnTypeName)
		}
		retType = &t
	} else if proto.IsExtern {
		v := types.VoidType
		retType = &v
	}

	return &FuncTemplate{
		Proto:      proto,
		Body:       fn.Body,
		ParamTypes: paramTypes,
		RetType:    retType,
		IsExtern:   proto.IsExtern,
	}, nil
}

// resolveExtern finalizes an extern's single Prototype: every parameter
// and the return type are fully declared, so there is nothing to
// monomorphize.
func (c *Checker) resolveExtern(tpl *FuncTemplate) error {
	names := make([]string, len(tpl.Proto.Params))
	concrete := make([]types.Type, len(tpl.Proto.Params))
	for i, p := range tpl.Proto.Params {
		names[i] = p.Name
		concrete[i] = *tpl.ParamTypes[i]
	}
	tpl.Resolved = &Prototype{
		Name:       tpl.Proto.Name,
		ParamNames: names,
		ParamTypes: concrete,
		RetType:    *tpl.RetType,
		IsExtern:   true,
		Loc:        tpl.Proto.Loc,
	}
	c.externs = append(c.externs, tpl.Resolved)
	return nil
}

// ---------------------------
// ----- top-level pass ------
// ---------------------------

// CheckTopLevel checks file's top-level statements (outside any
// function) in source order and appends the resulting MStmts to the
// synthesized main body (spec section 6: every file's top level is
// concatenated, with main.gaia ordered last by the caller).
func (c *Checker) CheckTopLevel(file *frontend.File) error {
	for _, s := range file.TopLevel {
		ms, err := c.checkStmt(s, nil)
		if err != nil {
			return err
		}
		c.main = append(c.main, ms)
	}
	return nil
}

// ---------------------------
// ----- overload resolution -
// ---------------------------

func paramsCompatible(tpl *FuncTemplate, argTypes []types.Type) bool {
	if len(tpl.ParamTypes) != len(argTypes) {
		return false
	}
	for i, pt := range tpl.ParamTypes {
		if pt != nil && !pt.Equal(argTypes[i]) {
			return false
		}
	}
	return true
}

// resolveCall picks the first matching candidate for name, in the
// order spec section 4.4 requires: primitive operator, then user
// function templates (innermost scope first, in declaration order),
// then externs.
func (c *Checker) resolveCall(name string, argTypes []types.Type, loc util.SourceLocation) (*Prototype, error) {
	if proto, ok := resolvePrimitive(name, argTypes); ok {
		return proto, nil
	}

	candidates := c.syms.LookupFuncs(name)
	if len(candidates) == 0 {
		if len(argTypes) == 2 && (name == "+" || name == "-" || name == "*" || name == "/") {
			return nil, diag.New(diag.NoMatchingFunction, loc,
				"invalid types '%s' and '%s' for arithmetic operation", argTypes[0], argTypes[1])
		}
		return nil, diag.New(diag.NoMatchingFunction, loc,
			"no function named %q is in scope for argument types %s", name, typeListString(argTypes))
	}

	arityMatch := false
	for _, tpl := range candidates {
		if len(tpl.ParamTypes) != len(argTypes) {
			continue
		}
		arityMatch = true
		if !paramsCompatible(tpl, argTypes) {
			continue
		}
		if tpl.IsExtern {
			return tpl.Resolved, nil
		}
		return c.instantiateTemplate(name, tpl, argTypes, loc)
	}
	if !arityMatch {
		return nil, diag.NewNoLoc(diag.ArgumentMismatch, "no overload of %q takes %d argument(s)", name, len(argTypes))
	}
	return nil, diag.New(diag.NoMatchingFunction, loc,
		"no matching overload of %q for argument types %s", name, typeListString(argTypes))
}

// resolvePrimitive implements the built-in operators on numeric and
// boolean types (spec section 4.4, first in resolution order). > and >=
// never reach here directly — they are desugared in checkBinaryOp
// before resolveCall is ever consulted for them.
func resolvePrimitive(name string, argTypes []types.Type) (*Prototype, bool) {
	switch len(argTypes) {
	case 1:
		t := argTypes[0]
		switch name {
		case "+", "-":
			if t.IsNumeric() {
				return &Prototype{Name: name, ParamTypes: []types.Type{t}, RetType: t, Primitive: true}, true
			}
		case "!":
			if t.Equal(types.BoolType) {
				return &Prototype{Name: name, ParamTypes: []types.Type{t}, RetType: types.BoolType, Primitive: true}, true
			}
		}
	case 2:
		a, b := argTypes[0], argTypes[1]
		switch name {
		case "+", "-", "*", "/":
			if a.IsNumeric() && a.Equal(b) {
				return &Prototype{Name: name, ParamTypes: []types.Type{a, b}, RetType: a, Primitive: true}, true
			}
		case "==", "!=":
			if (a.IsNumeric() && a.Equal(b)) || (a.Equal(types.BoolType) && b.Equal(types.BoolType)) {
				return &Prototype{Name: name, ParamTypes: []types.Type{a, b}, RetType: types.BoolType, Primitive: true}, true
			}
		case "<", "<=":
			if a.IsNumeric() && a.Equal(b) {
				return &Prototype{Name: name, ParamTypes: []types.Type{a, b}, RetType: types.BoolType, Primitive: true}, true
			}
		}
	}
	return nil, false
}

// coerceComparisonLiterals implements spec section 4.4's literal
// coercion rule for the six comparison operators: if one side is an
// IntLit AST node and the other side checked to Float, the literal is
// promoted to an MFloatLit so the comparison's operand types agree
// (e.g. `5 == 5.0`, `n < 5.0` for an Int literal n). Arithmetic
// operators are not covered by this rule.
func coerceComparisonLiterals(op frontend.BinOpKind, lhsAST, rhsAST frontend.Expr, lhs, rhs MExpr) (MExpr, MExpr) {
	switch op {
	case frontend.OpEq, frontend.OpNeq, frontend.OpLt, frontend.OpLeq, frontend.OpGt, frontend.OpGeq:
	default:
		return lhs, rhs
	}
	if lit, ok := lhsAST.(*frontend.IntLit); ok && lhs.ExprType().Equal(types.IntType) && rhs.ExprType().Equal(types.FloatType) {
		lhs = &MFloatLit{Value: float64(lit.Value), Type: types.FloatType, Loc_: lit.Loc}
	}
	if lit, ok := rhsAST.(*frontend.IntLit); ok && rhs.ExprType().Equal(types.IntType) && lhs.ExprType().Equal(types.FloatType) {
		rhs = &MFloatLit{Value: float64(lit.Value), Type: types.FloatType, Loc_: lit.Loc}
	}
	return lhs, rhs
}

func typeListString(ts []types.Type) string {
	s := "("
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s + ")"
}

// instantiateTemplate monomorphizes tpl for one concrete argument type
// vector, caching by instKey (spec section 9). A call observed while
// the same key is already being checked is a recursive call; it may
// only proceed if the template declares its return type explicitly,
// since otherwise there is no type to give the in-progress call site
// (spec section 9's open question, resolved in favor of rejecting the
// call rather than guessing).
func (c *Checker) instantiateTemplate(name string, tpl *FuncTemplate, argTypes []types.Type, loc util.SourceLocation) (*Prototype, error) {
	key := makeInstKey(name, argTypes)
	if proto, ok := c.instantiated[key]; ok {
		return proto, nil
	}
	if c.inProgress[key] {
		if tpl.RetType == nil {
			return nil, diag.New(diag.InvalidType, loc,
				"recursive call to %q requires a declared return type", name)
		}
	}

	paramNames := make([]string, len(tpl.Proto.Params))
	paramTypes := make([]types.Type, len(tpl.Proto.Params))
	for i, p := range tpl.Proto.Params {
		paramNames[i] = p.Name
		if tpl.ParamTypes[i] != nil {
			paramTypes[i] = *tpl.ParamTypes[i]
		} else {
			paramTypes[i] = argTypes[i]
		}
	}

	var proto *Prototype
	if tpl.RetType != nil {
		// Registering the Prototype before the body is checked lets a
		// recursive call inside that body resolve to this same instance
		// (the instantiated-cache lookup at the top of this function
		// catches it before inProgress is even consulted).
		proto = &Prototype{Name: name, ParamNames: paramNames, ParamTypes: paramTypes, RetType: *tpl.RetType, Loc: tpl.Proto.Loc}
		c.instantiated[key] = proto
	}

	c.inProgress[key] = true
	defer delete(c.inProgress, key)

	// The body sees only the global scope plus its own parameters, never
	// the caller's locals; the caller's scope stack is restored on return.
	saved := c.syms.scopes
	c.syms.scopes = util.Stack{}
	c.syms.scopes.Push(saved.Get(saved.Size()))
	defer func() { c.syms.scopes = saved }()

	c.syms.Push()
	for i, pn := range paramNames {
		if err := c.syms.DefineVar(pn, paramTypes[i], tpl.Proto.Loc); err != nil {
			c.syms.Pop()
			return nil, err
		}
	}
	fc := &funcCtx{declaredRet: tpl.RetType}
	body, err := c.checkStmts(tpl.Body, fc)
	c.syms.Pop()
	if err != nil {
		return nil, err
	}

	retType := types.VoidType
	if fc.inferredRet != nil {
		retType = *fc.inferredRet
	}
	if proto == nil {
		proto = &Prototype{Name: name, ParamNames: paramNames, ParamTypes: paramTypes, RetType: retType, Loc: tpl.Proto.Loc}
		c.instantiated[key] = proto
	}

	c.functions = append(c.functions, &Function{Proto: proto, Body: body})
	return proto, nil
}

// ---------------------------
// ----- statements -----------
// ---------------------------

func (c *Checker) checkStmts(stmts []frontend.Stmt, fc *funcCtx) ([]MStmt, error) {
	out := make([]MStmt, 0, len(stmts))
	for _, s := range stmts {
		ms, err := c.checkStmt(s, fc)
		if err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, nil
}

func (c *Checker) checkStmt(s frontend.Stmt, fc *funcCtx) (MStmt, error) {
	switch s := s.(type) {
	case *frontend.Return:
		return c.checkReturn(s, fc)
	case *frontend.VarDef:
		return c.checkVarDef(s)
	case *frontend.IfStmt:
		return c.checkIfStmt(s, fc)
	case *frontend.ExprStmt:
		e, err := c.checkExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &MExprStmt{Expr: e, Loc_: s.Loc}, nil
	default:
		return nil, diag.New(diag.UnexpectedToken, s.Location(), "unsupported statement")
	}
}

func (c *Checker) checkReturn(s *frontend.Return, fc *funcCtx) (MStmt, error) {
	if fc == nil {
		return nil, diag.New(diag.UnexpectedToken, s.Loc, "return statement outside a function body")
	}
	var mexpr MExpr
	rtype := types.VoidType
	if s.Expr != nil {
		e, err := c.checkExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		mexpr = e
		rtype = e.ExprType()
	}
	switch {
	case fc.declaredRet != nil:
		if !fc.declaredRet.Equal(rtype) {
			return nil, diag.New(diag.MismatchingTypes, s.Loc,
				"return type %s does not match declared return type %s", rtype, *fc.declaredRet)
		}
	case fc.inferredRet != nil:
		if !fc.inferredRet.Equal(rtype) {
			return nil, diag.New(diag.MismatchingTypes, s.Loc,
				"mismatching return types %s and %s", *fc.inferredRet, rtype)
		}
	default:
		fc.inferredRet = &rtype
	}
	return &MReturn{Expr: mexpr, Loc_: s.Loc}, nil
}

func (c *Checker) checkVarDef(s *frontend.VarDef) (MStmt, error) {
	value, err := c.checkExpr(s.Value)
	if err != nil {
		return nil, err
	}
	if err := c.syms.DefineVar(s.Name, value.ExprType(), s.Loc); err != nil {
		return nil, err
	}
	return &MVarDef{Name: s.Name, Value: value, Loc_: s.Loc}, nil
}

func (c *Checker) checkIfStmt(s *frontend.IfStmt, fc *funcCtx) (MStmt, error) {
	cond, err := c.checkExpr(s.Cond)
	if err != nil {
		return nil, err
	}
	if !cond.ExprType().Equal(types.BoolType) {
		return nil, diag.New(diag.MismatchingTypes, s.Cond.Location(),
			"if condition must be Bool, got %s", cond.ExprType())
	}

	c.syms.Push()
	thenStmts, err := c.checkStmts(s.Then, fc)
	c.syms.Pop()
	if err != nil {
		return nil, err
	}

	var elseStmts []MStmt
	if s.Else != nil {
		c.syms.Push()
		elseStmts, err = c.checkStmts(s.Else, fc)
		c.syms.Pop()
		if err != nil {
			return nil, err
		}
	}

	return &MIfStmt{Cond: cond, Then: thenStmts, Else: elseStmts, Loc_: s.Loc}, nil
}

// ---------------------------
// ----- expressions -----------
// ---------------------------

func (c *Checker) checkExpr(e frontend.Expr) (MExpr, error) {
	switch e := e.(type) {
	case *frontend.IntLit:
		return &MIntLit{Value: e.Value, Type: types.IntType, Loc_: e.Loc}, nil
	case *frontend.FloatLit:
		return &MFloatLit{Value: e.Value, Type: types.FloatType, Loc_: e.Loc}, nil
	case *frontend.BoolLit:
		return &MBoolLit{Value: e.Value, Loc_: e.Loc}, nil
	case *frontend.StringLit:
		return &MStringLit{Value: e.Value, Loc_: e.Loc}, nil
	case *frontend.NullLit:
		// Null has no type of its own until context supplies one (spec
		// section 3). As a bare expression it defaults to Pointer(Void);
		// callers that need a specific pointee type (e.g. a declared
		// variable or parameter) are expected to check compatibility
		// themselves rather than relying on this default.
		return &MNullLit{Type: types.PointerTo(types.VoidType), Loc_: e.Loc}, nil
	case *frontend.Variable:
		return c.checkVariable(e)
	case *frontend.UnaryOp:
		return c.checkUnaryOp(e)
	case *frontend.BinaryOp:
		return c.checkBinaryOp(e)
	case *frontend.Call:
		return c.checkCall(e)
	case *frontend.IfExpr:
		return c.checkIfExpr(e)
	default:
		return nil, diag.New(diag.UnexpectedToken, e.Location(), "unsupported expression")
	}
}

func (c *Checker) checkVariable(e *frontend.Variable) (MExpr, error) {
	v, ok := c.syms.LookupVar(e.Name)
	if !ok {
		return nil, diag.New(diag.UnknownIdentifier, e.Loc, "undefined variable %q", e.Name)
	}
	return &MVariable{Name: e.Name, Type: v.Type, Loc_: e.Loc}, nil
}

func (c *Checker) checkUnaryOp(e *frontend.UnaryOp) (MExpr, error) {
	operand, err := c.checkExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	proto, err := c.resolveCall(e.Op, []types.Type{operand.ExprType()}, e.Loc)
	if err != nil {
		return nil, err
	}
	return &MCall{Target: proto, Args: []MExpr{operand}, Type: proto.RetType, Loc_: e.Loc}, nil
}

func (c *Checker) checkBinaryOp(e *frontend.BinaryOp) (MExpr, error) {
	// > and >= are never themselves overloadable (frontend.parseProto
	// rejects them as overload targets); they always desugar in terms of
	// <, so that overloading < also covers > and >= (spec section 4.4).
	switch e.Op {
	case frontend.OpGt:
		return c.checkBinaryOp(&frontend.BinaryOp{Op: frontend.OpLt, Lhs: e.Rhs, Rhs: e.Lhs, Loc: e.Loc})
	case frontend.OpGeq:
		return c.desugarNot(frontend.OpLt, e.Lhs, e.Rhs, e.Loc)
	}

	lhs, err := c.checkExpr(e.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := c.checkExpr(e.Rhs)
	if err != nil {
		return nil, err
	}
	lhs, rhs = coerceComparisonLiterals(e.Op, e.Lhs, e.Rhs, lhs, rhs)
	proto, err := c.resolveCall(e.Op.Symbol(), []types.Type{lhs.ExprType(), rhs.ExprType()}, e.Loc)
	if err == nil {
		return &MCall{Target: proto, Args: []MExpr{lhs, rhs}, Type: proto.RetType, Loc_: e.Loc}, nil
	}

	// != and <= are overloadable in their own right (spec section 4.2)
	// and so are tried directly above first. When neither a primitive
	// match nor a user overload of the symbol itself exists, they fall
	// back to their desugared definition in terms of == and < (spec
	// section 4.4), so that overloading only == or < still covers the
	// whole comparison family for a new type.
	switch e.Op {
	case frontend.OpNeq:
		return c.desugarNot(frontend.OpEq, e.Lhs, e.Rhs, e.Loc)
	case frontend.OpLeq:
		return c.desugarNot(frontend.OpLt, e.Rhs, e.Lhs, e.Loc)
	}
	return nil, err
}

// desugarNot checks `lhs op rhs` and wraps the result in a "!" call,
// implementing the >=, <=, and != desugarings of spec section 4.4 (each
// reduces to the negation of an == or < comparison, possibly with
// swapped operands).
func (c *Checker) desugarNot(op frontend.BinOpKind, lhs, rhs frontend.Expr, loc util.SourceLocation) (MExpr, error) {
	inner, err := c.checkBinaryOp(&frontend.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs, Loc: loc})
	if err != nil {
		return nil, err
	}
	notProto, err := c.resolveCall("!", []types.Type{inner.ExprType()}, loc)
	if err != nil {
		return nil, err
	}
	return &MCall{Target: notProto, Args: []MExpr{inner}, Type: notProto.RetType, Loc_: loc}, nil
}

func (c *Checker) checkCall(e *frontend.Call) (MExpr, error) {
	args := make([]MExpr, len(e.Args))
	argTypes := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		me, err := c.checkExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = me
		argTypes[i] = me.ExprType()
	}
	proto, err := c.resolveCall(e.Name, argTypes, e.Loc)
	if err != nil {
		return nil, err
	}
	return &MCall{Target: proto, Args: args, Type: proto.RetType, Loc_: e.Loc}, nil
}

func (c *Checker) checkIfExpr(e *frontend.IfExpr) (MExpr, error) {
	cond, err := c.checkExpr(e.Cond)
	if err != nil {
		return nil, err
	}
	if !cond.ExprType().Equal(types.BoolType) {
		return nil, diag.New(diag.MismatchingTypes, e.Cond.Location(),
			"if condition must be Bool, got %s", cond.ExprType())
	}
	thenE, err := c.checkExpr(e.Then)
	if err != nil {
		return nil, err
	}
	elseE, err := c.checkExpr(e.Else)
	if err != nil {
		return nil, err
	}
	if !thenE.ExprType().Equal(elseE.ExprType()) {
		return nil, diag.New(diag.MismatchingTypes, e.Loc,
			"if-expression branches have mismatching types %s and %s", thenE.ExprType(), elseE.ExprType())
	}
	return &MIfExpr{Cond: cond, Then: thenE, Else: elseE, Type: thenE.ExprType(), Loc_: e.Loc}, nil
}
