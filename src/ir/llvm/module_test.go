package llvm

import (
	"bytes"
	"strings"
	"testing"

	"gaia/src/frontend"
	"gaia/src/ir"
)

// checkProgram runs src through the frontend and checker, the same two
// passes compiler.Unit.Compile runs before handing the result to the
// code generator.
func checkProgram(t *testing.T, src string) *ir.Module {
	t.Helper()
	f, err := frontend.ParseFile("test.gaia", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	c := ir.NewChecker(false)
	if err := c.DeclareFile(f); err != nil {
		t.Fatalf("unexpected declare error: %s", err)
	}
	if err := c.CheckTopLevel(f); err != nil {
		t.Fatalf("unexpected check error: %s", err)
	}
	return c.Module()
}

func TestGenerateArithmeticFunction(t *testing.T) {
	mod := checkProgram(t, `
function add(a: Int, b: Int) -> Int {
	return a + b
}
x = add(1, 2)
`)
	gen := NewGenerator("test", "")
	defer gen.Dispose()
	if err := gen.Generate(mod); err != nil {
		t.Fatalf("unexpected generate error: %s", err)
	}

	var buf bytes.Buffer
	if err := gen.WriteIR(&buf); err != nil {
		t.Fatalf("unexpected WriteIR error: %s", err)
	}
	ir := buf.String()
	if !strings.Contains(ir, "define") {
		t.Errorf("expected emitted IR to define at least one function, got:\n%s", ir)
	}
	if !strings.Contains(ir, "@main") {
		t.Errorf("expected a synthesized main function, got:\n%s", ir)
	}
}

func TestGenerateIfExprPhi(t *testing.T) {
	mod := checkProgram(t, `
function sign(n: Int) -> Int {
	return if n < 0 then -1 else 1
}
x = sign(5)
`)
	gen := NewGenerator("test", "")
	defer gen.Dispose()
	if err := gen.Generate(mod); err != nil {
		t.Fatalf("unexpected generate error: %s", err)
	}

	var buf bytes.Buffer
	if err := gen.WriteIR(&buf); err != nil {
		t.Fatalf("unexpected WriteIR error: %s", err)
	}
	if !strings.Contains(buf.String(), "phi") {
		t.Errorf("expected the if-expression to lower through a phi node, got:\n%s", buf.String())
	}
}

func TestGenerateExternDeclaration(t *testing.T) {
	mod := checkProgram(t, `
extern function puts(s: String) -> Int32
x = puts("hi")
`)
	gen := NewGenerator("test", "")
	defer gen.Dispose()
	if err := gen.Generate(mod); err != nil {
		t.Fatalf("unexpected generate error: %s", err)
	}

	var buf bytes.Buffer
	if err := gen.WriteIR(&buf); err != nil {
		t.Fatalf("unexpected WriteIR error: %s", err)
	}
	out := buf.String()
	if !strings.Contains(out, "declare") || !strings.Contains(out, "@puts") {
		t.Errorf("expected an extern declaration for puts, got:\n%s", out)
	}
}

func TestDefaultTargetTripleIsHostDefault(t *testing.T) {
	gen := NewGenerator("test", "")
	defer gen.Dispose()
	if gen.Module().Target() == "" {
		t.Error("expected a non-empty default target triple")
	}
}
