package frontend

import "testing"

func parseOrFatal(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseFile("test.gaia", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	return f
}

func TestParseFunctionDecl(t *testing.T) {
	f := parseOrFatal(t, `function add(a: Int, b: Int) -> Int {
	return a + b
}
`)
	if len(f.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(f.Functions))
	}
	fn := f.Functions[0]
	if fn.Proto.Name != "add" {
		t.Errorf("name = %q, want %q", fn.Proto.Name, "add")
	}
	if len(fn.Proto.Params) != 2 || fn.Proto.Params[0].TypeName != "Int" || fn.Proto.Params[1].TypeName != "Int" {
		t.Fatalf("unexpected params: %+v", fn.Proto.Params)
	}
	if fn.Proto.ReturnTypeName != "Int" {
		t.Errorf("return type = %q, want Int", fn.Proto.ReturnTypeName)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*Return)
	if !ok {
		t.Fatalf("body[0] is %T, want *Return", fn.Body[0])
	}
	bin, ok := ret.Expr.(*BinaryOp)
	if !ok || bin.Op != OpAdd {
		t.Fatalf("return expr is %+v, want a + binary op", ret.Expr)
	}
}

func TestParseExternDecl(t *testing.T) {
	f := parseOrFatal(t, `extern function puts(s: String) -> Int32`)
	if len(f.Functions) != 1 || !f.Functions[0].Proto.IsExtern {
		t.Fatalf("expected one extern function, got %+v", f.Functions)
	}
	if f.Functions[0].Body != nil {
		t.Errorf("extern prototype should have no body, got %+v", f.Functions[0].Body)
	}
}

func TestParseOperatorOverload(t *testing.T) {
	f := parseOrFatal(t, `function +(a: Int, b: Int) -> Int {
	return a
}
`)
	if f.Functions[0].Proto.Name != "+" {
		t.Fatalf("name = %q, want \"+\"", f.Functions[0].Proto.Name)
	}
}

func TestParseOperatorOverloadWrongArity(t *testing.T) {
	_, err := ParseFile("test.gaia", `function *(a: Int) -> Int {
	return a
}
`)
	if err == nil {
		t.Fatal("expected an arity error for a binary overload with one parameter")
	}
}

func TestParseNonOverloadableOperator(t *testing.T) {
	_, err := ParseFile("test.gaia", `function >(a: Int, b: Int) -> Bool {
	return true
}
`)
	if err == nil {
		t.Fatal("expected an error: > is never overloadable")
	}
}

func TestParseIfStatementForm(t *testing.T) {
	f := parseOrFatal(t, `if true {
	x = 1
} else {
	x = 2
}
`)
	if len(f.TopLevel) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(f.TopLevel))
	}
	ifs, ok := f.TopLevel[0].(*IfStmt)
	if !ok {
		t.Fatalf("top-level statement is %T, want *IfStmt", f.TopLevel[0])
	}
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("expected one statement per branch, got then=%d else=%d", len(ifs.Then), len(ifs.Else))
	}
}

func TestParseIfExpressionForm(t *testing.T) {
	f := parseOrFatal(t, `x = if true then 1 else 2`)
	if len(f.TopLevel) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(f.TopLevel))
	}
	def, ok := f.TopLevel[0].(*VarDef)
	if !ok {
		t.Fatalf("top-level statement is %T, want *VarDef", f.TopLevel[0])
	}
	if _, ok := def.Value.(*IfExpr); !ok {
		t.Fatalf("value is %T, want *IfExpr", def.Value)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), not (1 + 2) * 3.
	f := parseOrFatal(t, `x = 1 + 2 * 3`)
	def := f.TopLevel[0].(*VarDef)
	add, ok := def.Value.(*BinaryOp)
	if !ok || add.Op != OpAdd {
		t.Fatalf("top operator is %+v, want +", def.Value)
	}
	if _, ok := add.Lhs.(*IntLit); !ok {
		t.Fatalf("lhs is %T, want *IntLit", add.Lhs)
	}
	mul, ok := add.Rhs.(*BinaryOp)
	if !ok || mul.Op != OpMul {
		t.Fatalf("rhs is %+v, want *", add.Rhs)
	}
}

func TestParseUnaryMinusIsUnaryOp(t *testing.T) {
	f := parseOrFatal(t, `x = -1`)
	def := f.TopLevel[0].(*VarDef)
	neg, ok := def.Value.(*UnaryOp)
	if !ok || neg.Op != "-" {
		t.Fatalf("value is %+v, want unary -", def.Value)
	}
}

func TestParseCallArgs(t *testing.T) {
	f := parseOrFatal(t, `x = add(1, 2)`)
	def := f.TopLevel[0].(*VarDef)
	call, ok := def.Value.(*Call)
	if !ok || call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("value is %+v, want call add(1, 2)", def.Value)
	}
}
