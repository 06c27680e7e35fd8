package ir

import (
	"testing"

	"gaia/src/diag"
	"gaia/src/frontend"
)

func checkSource(t *testing.T, repl bool, src string) (*Checker, error) {
	t.Helper()
	f, err := frontend.ParseFile("test.gaia", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	c := NewChecker(repl)
	if err := c.DeclareFile(f); err != nil {
		return c, err
	}
	return c, c.CheckTopLevel(f)
}

func TestCheckerPrimitiveArithmetic(t *testing.T) {
	c, err := checkSource(t, false, `x = 1 + 2`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(c.main) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(c.main))
	}
	def, ok := c.main[0].(*MVarDef)
	if !ok {
		t.Fatalf("statement is %T, want *MVarDef", c.main[0])
	}
	call, ok := def.Value.(*MCall)
	if !ok || call.Target.Name != "+" || !call.Target.Primitive {
		t.Fatalf("value is %+v, want a primitive + call", def.Value)
	}
}

func TestCheckerMismatchingArithmeticTypes(t *testing.T) {
	_, err := checkSource(t, false, `x = 1 + 1.0`)
	if err == nil {
		t.Fatal("expected a type error mixing Int and Float")
	}
	ce, ok := err.(*diag.CompileError)
	if !ok {
		t.Fatalf("error is %T, want *diag.CompileError", err)
	}
	if ce.Kind != diag.NoMatchingFunction {
		t.Errorf("kind = %v, want NoMatchingFunction", ce.Kind)
	}
}

func TestCheckerUndefinedFunction(t *testing.T) {
	_, err := checkSource(t, false, `x = doesNotExist(1)`)
	ce, ok := err.(*diag.CompileError)
	if !ok {
		t.Fatalf("error is %T, want *diag.CompileError", err)
	}
	if ce.Kind != diag.NoMatchingFunction || !ce.HasLoc {
		t.Errorf("got kind=%v hasLoc=%v, want NoMatchingFunction with a location", ce.Kind, ce.HasLoc)
	}
}

func TestCheckerArityMismatchIsUnlocatedArgumentMismatch(t *testing.T) {
	_, err := checkSource(t, false, `
function add(a: Int, b: Int) -> Int {
	return a + b
}
x = add(1)
`)
	ce, ok := err.(*diag.CompileError)
	if !ok {
		t.Fatalf("error is %T, want *diag.CompileError", err)
	}
	if ce.Kind != diag.ArgumentMismatch || ce.HasLoc {
		t.Errorf("got kind=%v hasLoc=%v, want ArgumentMismatch with no location", ce.Kind, ce.HasLoc)
	}
}

func TestCheckerMonomorphizesPerCallSite(t *testing.T) {
	c, err := checkSource(t, false, `
function identity(x) {
	return x
}
a = identity(1)
b = identity(1.5)
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(c.functions) != 2 {
		t.Fatalf("got %d monomorphized functions, want 2 (one per call site's argument type)", len(c.functions))
	}
	if c.functions[0].Proto.RetType.Equal(c.functions[1].Proto.RetType) {
		t.Fatalf("expected the two instantiations to have different return types, got %s and %s",
			c.functions[0].Proto.RetType, c.functions[1].Proto.RetType)
	}
}

func TestCheckerRecursionRequiresDeclaredReturnType(t *testing.T) {
	_, err := checkSource(t, false, `
function bad(x) {
	return bad(x)
}
y = bad(1)
`)
	if err == nil {
		t.Fatal("expected an error: recursive call with no declared return type")
	}
	ce, ok := err.(*diag.CompileError)
	if !ok || ce.Kind != diag.InvalidType {
		t.Fatalf("error = %+v, want InvalidType", err)
	}
}

func TestCheckerRecursionWithDeclaredReturnType(t *testing.T) {
	_, err := checkSource(t, false, `
function countdown(n: Int) -> Int {
	return if n < 1 then 0 else countdown(n - 1)
}
y = countdown(3)
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestCheckerGreaterThanDesugarsThroughLess(t *testing.T) {
	c, err := checkSource(t, false, `x = 2 > 1`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	def := c.main[0].(*MVarDef)
	call, ok := def.Value.(*MCall)
	if !ok || call.Target.Name != "<" {
		t.Fatalf("2 > 1 should desugar to a < call, got %+v", def.Value)
	}
	// a > b desugars to b < a: the swapped argument order is what makes
	// a user overload of < alone also cover >.
	if _, ok := call.Args[0].(*MIntLit); !ok || call.Args[0].(*MIntLit).Value != 1 {
		t.Fatalf("expected the desugared call's first argument to be 1 (the original rhs), got %+v", call.Args[0])
	}
}

func TestCheckerGreaterEqualDesugarsToNotLess(t *testing.T) {
	c, err := checkSource(t, false, `x = 1 >= 2`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	def := c.main[0].(*MVarDef)
	call, ok := def.Value.(*MCall)
	if !ok || call.Target.Name != "!" {
		t.Fatalf(">= should desugar to a ! call wrapping <, got %+v", def.Value)
	}
	inner, ok := call.Args[0].(*MCall)
	if !ok || inner.Target.Name != "<" {
		t.Fatalf("expected the wrapped call to be <, got %+v", call.Args[0])
	}
}

func TestCheckerNotEqualIsItsOwnPrimitive(t *testing.T) {
	// != has a direct primitive for built-in types (spec section 4.4),
	// so it does not need the != desugaring to resolve here.
	c, err := checkSource(t, false, `x = 1 != 2`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	def := c.main[0].(*MVarDef)
	call, ok := def.Value.(*MCall)
	if !ok || call.Target.Name != "!=" || !call.Target.Primitive {
		t.Fatalf("value is %+v, want a primitive != call", def.Value)
	}
}

func TestCheckerNotEqualDesugarsWhenNoOverloadMatches(t *testing.T) {
	// A user type with only a == overload still resolves !=, by falling
	// back to !(a == b) once neither a primitive nor a direct !=
	// overload exists (spec section 4.4).
	c, err := checkSource(t, false, `
function ==(a: Bool, b: Int) -> Bool {
	return true
}
x = true != 1
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	def := c.main[0].(*MVarDef)
	call, ok := def.Value.(*MCall)
	if !ok || call.Target.Name != "!" {
		t.Fatalf("value is %+v, want a ! call wrapping the user == overload", def.Value)
	}
	inner, ok := call.Args[0].(*MCall)
	if !ok || inner.Target.Name != "==" || inner.Target.Primitive {
		t.Fatalf("expected the wrapped call to be the user == overload, got %+v", call.Args[0])
	}
}

func TestCheckerLessEqualDesugarsWhenNoOverloadMatches(t *testing.T) {
	c, err := checkSource(t, false, `
function <(a: Int, b: Bool) -> Bool {
	return true
}
x = true <= 1
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	def := c.main[0].(*MVarDef)
	call, ok := def.Value.(*MCall)
	if !ok || call.Target.Name != "!" {
		t.Fatalf("value is %+v, want a ! call wrapping the user < overload", def.Value)
	}
	// a <= b desugars to !(b < a): the swapped argument order is what
	// makes a user overload of < alone also cover <=.
	inner, ok := call.Args[0].(*MCall)
	if !ok || inner.Target.Name != "<" || inner.Target.Primitive {
		t.Fatalf("expected the wrapped call to be the user < overload, got %+v", call.Args[0])
	}
}

func TestCheckerIfExprBranchTypeMismatch(t *testing.T) {
	_, err := checkSource(t, false, `x = if true then 1 else 1.0`)
	if err == nil {
		t.Fatal("expected an error: if-expression branches have different types")
	}
}

func TestCheckerRedefinitionRejectedOutsideRepl(t *testing.T) {
	_, err := checkSource(t, false, "foo = 1\nfoo = 2\n")
	if err == nil {
		t.Fatal("expected a redefinition error at global scope outside REPL mode")
	}
}

func TestCheckerRedefinitionAllowedInRepl(t *testing.T) {
	_, err := checkSource(t, true, "foo = 1\nfoo = 2\n")
	if err != nil {
		t.Fatalf("unexpected error in REPL mode: %s", err)
	}
}

func TestCheckerExternCall(t *testing.T) {
	_, err := checkSource(t, false, `
extern function puts(s: String) -> Int32
x = puts("hi")
`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}
