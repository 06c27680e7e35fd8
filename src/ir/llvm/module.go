// Package llvm lowers checked MIR (gaia/src/ir) into LLVM IR using
// tinygo.org/x/go-llvm's raw LLVMBuild*/LLVMAdd*-style builder calls —
// the same binding and call shape the teacher's own codegen package
// uses, adapted from VSL's declared-type tree to gaia's typed,
// monomorphized MIR.
package llvm

import (
	"fmt"
	"io"

	"tinygo.org/x/go-llvm"

	"gaia/src/ir"
)

// stringPrefix names every global string constant this package emits,
// mirroring the teacher's stringPrefix convention in transform.go.
const stringPrefix = "L_STR"

// Generator owns one LLVM context, builder and module for the whole
// compilation unit (spec section 5: a single LLVM module per
// compilation, no parallel codegen — contrast the teacher's
// sync.RWMutex-guarded global symbol table and worker-thread fan-out in
// GenLLVM, both dropped here).
type Generator struct {
	ctx     llvm.Context
	builder llvm.Builder
	module  llvm.Module

	// fns caches the declared llvm.Value for each monomorphized
	// Prototype, keyed by pointer identity rather than by name: one gaia
	// source name can produce many distinct Prototypes once
	// monomorphization runs (spec section 4.5).
	fns map[*ir.Prototype]llvm.Value
}

// NewGenerator returns a Generator for a module named name. triple sets
// the module's target triple; an empty string resolves to the host's
// default triple (spec section 6: "Target triple = host default"),
// generalizing the teacher's genTargetTriple away from its four
// hand-picked architecture/vendor/OS combinations, since nothing in
// this repository's pipeline needs to target anything but the host
// LLVM is already configured for.
func NewGenerator(name, triple string) *Generator {
	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}
	ctx := llvm.NewContext()
	mod := ctx.NewModule(name)
	mod.SetTarget(triple)
	return &Generator{
		ctx:     ctx,
		builder: ctx.NewBuilder(),
		module:  mod,
		fns:     make(map[*ir.Prototype]llvm.Value),
	}
}

// Dispose releases the underlying LLVM context, builder and module.
func (g *Generator) Dispose() {
	g.builder.Dispose()
	g.module.Dispose()
	g.ctx.Dispose()
}

// Module returns the underlying llvm.Module, for callers that need to
// run further LLVM passes or verification.
func (g *Generator) Module() llvm.Module {
	return g.module
}

// Generate lowers an entire checked ir.Module: externs are declared
// first, then every monomorphized function is declared (so mutually
// recursive calls resolve) before any body is compiled, then main is
// synthesized from the top-level statements (spec section 6).
func (g *Generator) Generate(mod *ir.Module) error {
	for _, ext := range mod.Externs {
		g.declareExtern(ext)
	}

	for _, fn := range mod.Functions {
		g.declareFunc(fn.Proto)
	}
	for _, fn := range mod.Functions {
		if err := g.genFuncBody(fn); err != nil {
			return fmt.Errorf("function %q: %w", fn.Proto.Name, err)
		}
	}

	if err := g.genMain(mod.Main); err != nil {
		return fmt.Errorf("main: %w", err)
	}
	return nil
}

// declareExtern declares a C-ABI extern prototype in the module without
// a body.
func (g *Generator) declareExtern(proto *ir.Prototype) llvm.Value {
	if fn, ok := g.fns[proto]; ok {
		return fn
	}
	ftyp := g.funcType(proto)
	fn := llvm.AddFunction(g.module, proto.Name, ftyp)
	g.fns[proto] = fn
	return fn
}

// declareFunc declares the header of a monomorphized user function.
// Each distinct Prototype gets its own LLVM function, so two
// instantiations of the same source name (e.g. `add(Int,Int)` and
// `add(Float,Float)`) coexist as two differently-named LLVM globals.
func (g *Generator) declareFunc(proto *ir.Prototype) llvm.Value {
	if fn, ok := g.fns[proto]; ok {
		return fn
	}
	ftyp := g.funcType(proto)
	fn := llvm.AddFunction(g.module, mangledName(proto), ftyp)
	for i, pname := range proto.ParamNames {
		fn.Param(i).SetName(pname)
	}
	g.fns[proto] = fn
	return fn
}

// mangledName disambiguates monomorphized instantiations of the same
// source name by suffixing the parameter type vector (e.g. add$Int$Int);
// only a prototype with no parameters keeps the bare source name.
func mangledName(proto *ir.Prototype) string {
	if len(proto.ParamTypes) == 0 {
		return proto.Name
	}
	name := proto.Name
	for _, t := range proto.ParamTypes {
		name += "$" + t.String()
	}
	return name
}

func (g *Generator) funcType(proto *ir.Prototype) llvm.Type {
	params := make([]llvm.Type, len(proto.ParamTypes))
	for i, t := range proto.ParamTypes {
		params[i] = t.LLVM(g.ctx)
	}
	return llvm.FunctionType(proto.RetType.LLVM(g.ctx), params, false)
}

// WriteIR writes the module's textual LLVM IR representation to w.
func (g *Generator) WriteIR(w io.Writer) error {
	_, err := io.WriteString(w, g.module.String())
	return err
}

// WriteBitcode writes the module's bitcode encoding to path.
func (g *Generator) WriteBitcode(path string) error {
	if err := llvm.WriteBitcodeToFile(g.module, path); err != nil {
		return fmt.Errorf("writing bitcode to %s: %w", path, err)
	}
	return nil
}
