package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"gaia/src/ir"
)

// genExpr lowers one checked MIR expression to a single LLVM value,
// generalizing the teacher's genExpression/genRelation pair (which
// switched on raw ast.Node data types) into a type switch over MExpr's
// concrete node types per spec section 9.
func (g *Generator) genExpr(fg *funcGen, e ir.MExpr) (llvm.Value, error) {
	switch e := e.(type) {
	case *ir.MIntLit:
		return llvm.ConstInt(e.Type.LLVM(g.ctx), uint64(e.Value), true), nil
	case *ir.MFloatLit:
		return llvm.ConstFloat(e.Type.LLVM(g.ctx), e.Value), nil
	case *ir.MBoolLit:
		v := uint64(0)
		if e.Value {
			v = 1
		}
		return llvm.ConstInt(g.ctx.Int1Type(), v, false), nil
	case *ir.MStringLit:
		return g.builder.CreateGlobalStringPtr(e.Value, stringPrefix), nil
	case *ir.MNullLit:
		return llvm.ConstNull(e.Type.LLVM(g.ctx)), nil
	case *ir.MVariable:
		alloc, ok := fg.lookup(e.Name)
		if !ok {
			return llvm.Value{}, fmt.Errorf("undeclared variable %q reached codegen", e.Name)
		}
		return g.builder.CreateLoad(alloc, e.Name), nil
	case *ir.MCall:
		return g.genCall(fg, e)
	case *ir.MIfExpr:
		return g.genIfExpr(fg, e)
	default:
		return llvm.Value{}, fmt.Errorf("unsupported expression %T", e)
	}
}

func (g *Generator) genCall(fg *funcGen, e *ir.MCall) (llvm.Value, error) {
	args := make([]llvm.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := g.genExpr(fg, a)
		if err != nil {
			return llvm.Value{}, err
		}
		args[i] = v
	}

	if e.Target.Primitive {
		return g.genPrimitive(e.Target, args)
	}

	fn, ok := g.fns[e.Target]
	if !ok {
		return llvm.Value{}, fmt.Errorf("call to %q reached codegen before its function was declared", e.Target.Name)
	}
	return g.builder.CreateCall(fn, args, ""), nil
}

// genPrimitive lowers one of the built-in operators resolvePrimitive
// matched in the checker (spec section 4.4) directly to an LLVM
// instruction, choosing the integer or floating point opcode family by
// the (already-checked) operand type — the same dispatch the teacher's
// genExpression/genRelation perform on op1.Type() == i.
func (g *Generator) genPrimitive(proto *ir.Prototype, args []llvm.Value) (llvm.Value, error) {
	isFloat := proto.ParamTypes[0].IsFloat()

	if len(args) == 1 {
		switch proto.Name {
		case "+":
			return args[0], nil
		case "-":
			if isFloat {
				return g.builder.CreateFNeg(args[0], ""), nil
			}
			return g.builder.CreateNeg(args[0], ""), nil
		case "!":
			return g.builder.CreateNot(args[0], ""), nil
		}
		return llvm.Value{}, fmt.Errorf("unsupported unary primitive %q", proto.Name)
	}

	a, b := args[0], args[1]
	switch proto.Name {
	case "+":
		if isFloat {
			return g.builder.CreateFAdd(a, b, ""), nil
		}
		return g.builder.CreateAdd(a, b, ""), nil
	case "-":
		if isFloat {
			return g.builder.CreateFSub(a, b, ""), nil
		}
		return g.builder.CreateSub(a, b, ""), nil
	case "*":
		if isFloat {
			return g.builder.CreateFMul(a, b, ""), nil
		}
		return g.builder.CreateMul(a, b, ""), nil
	case "/":
		if isFloat {
			return g.builder.CreateFDiv(a, b, ""), nil
		}
		return g.builder.CreateSDiv(a, b, ""), nil
	case "==":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatOEQ, a, b, ""), nil
		}
		return g.builder.CreateICmp(llvm.IntEQ, a, b, ""), nil
	case "!=":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatONE, a, b, ""), nil
		}
		return g.builder.CreateICmp(llvm.IntNE, a, b, ""), nil
	case "<":
		if isFloat {
			// Unordered predicate per spec section 4.6: >,<,>=,<= use
			// ULT/UGT/ULE/UGE on floats, not the OLT/OGT/OLE/OGE family.
			return g.builder.CreateFCmp(llvm.FloatULT, a, b, ""), nil
		}
		return g.builder.CreateICmp(llvm.IntSLT, a, b, ""), nil
	case "<=":
		if isFloat {
			return g.builder.CreateFCmp(llvm.FloatULE, a, b, ""), nil
		}
		return g.builder.CreateICmp(llvm.IntSLE, a, b, ""), nil
	}
	return llvm.Value{}, fmt.Errorf("unsupported binary primitive %q", proto.Name)
}

// genIfExpr lowers the expression form of if into then/else/ifcont
// basic blocks joined by a phi node (spec section 4.6), unlike
// genIfStmt in statement.go which discards the branch value.
func (g *Generator) genIfExpr(fg *funcGen, e *ir.MIfExpr) (llvm.Value, error) {
	cond, err := g.genExpr(fg, e.Cond)
	if err != nil {
		return llvm.Value{}, err
	}

	thenBB := llvm.AddBasicBlock(fg.fn, "ifexpr.then")
	elseBB := llvm.AddBasicBlock(fg.fn, "ifexpr.else")
	contBB := llvm.AddBasicBlock(fg.fn, "ifexpr.cont")
	g.builder.CreateCondBr(cond, thenBB, elseBB)

	g.builder.SetInsertPointAtEnd(thenBB)
	thenVal, err := g.genExpr(fg, e.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	thenEnd := g.builder.GetInsertBlock()
	g.builder.CreateBr(contBB)

	g.builder.SetInsertPointAtEnd(elseBB)
	elseVal, err := g.genExpr(fg, e.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	elseEnd := g.builder.GetInsertBlock()
	g.builder.CreateBr(contBB)

	g.builder.SetInsertPointAtEnd(contBB)
	phi := g.builder.CreatePHI(e.Type.LLVM(g.ctx), "")
	phi.AddIncoming([]llvm.Value{thenVal, elseVal}, []llvm.BasicBlock{thenEnd, elseEnd})
	return phi, nil
}
