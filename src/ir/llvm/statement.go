package llvm

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"gaia/src/ir"
)

// genStmts lowers a statement list, stopping early (and reporting
// terminated=true) at the first statement that ends the current basic
// block with a terminator instruction — mirroring the teacher's gen()
// return-bool convention for RETURN inside BLOCK.
func (g *Generator) genStmts(fg *funcGen, stmts []ir.MStmt) (bool, error) {
	for _, s := range stmts {
		terminated, err := g.genStmt(fg, s)
		if err != nil {
			return false, err
		}
		if terminated {
			return true, nil
		}
	}
	return false, nil
}

func (g *Generator) genStmt(fg *funcGen, s ir.MStmt) (bool, error) {
	switch s := s.(type) {
	case *ir.MReturn:
		return g.genReturn(fg, s)
	case *ir.MVarDef:
		return false, g.genVarDef(fg, s)
	case *ir.MIfStmt:
		return g.genIfStmt(fg, s)
	case *ir.MExprStmt:
		_, err := g.genExpr(fg, s.Expr)
		return false, err
	default:
		return false, fmt.Errorf("unsupported statement %T", s)
	}
}

func (g *Generator) genReturn(fg *funcGen, s *ir.MReturn) (bool, error) {
	if s.Expr == nil {
		g.builder.CreateRetVoid()
		return true, nil
	}
	v, err := g.genExpr(fg, s.Expr)
	if err != nil {
		return false, err
	}
	g.builder.CreateRet(v)
	return true, nil
}

func (g *Generator) genVarDef(fg *funcGen, s *ir.MVarDef) error {
	v, err := g.genExpr(fg, s.Value)
	if err != nil {
		return err
	}
	alloc := g.builder.CreateAlloca(v.Type(), s.Name)
	g.builder.CreateStore(v, alloc)
	fg.define(s.Name, alloc)
	return nil
}

// genIfStmt lowers the statement form of if using then/else/continue
// basic blocks with no phi (spec section 4.6) — the statement form
// discards any value, unlike genIfExpr in expr.go. It follows the
// teacher's genIf almost exactly, generalized to gaia's scoped locals.
func (g *Generator) genIfStmt(fg *funcGen, s *ir.MIfStmt) (bool, error) {
	cond, err := g.genExpr(fg, s.Cond)
	if err != nil {
		return false, err
	}

	thenBB := llvm.AddBasicBlock(fg.fn, "if.then")
	var elseBB, contBB llvm.BasicBlock

	if len(s.Else) > 0 {
		elseBB = llvm.AddBasicBlock(fg.fn, "if.else")
		g.builder.CreateCondBr(cond, thenBB, elseBB)
	} else {
		contBB = llvm.AddBasicBlock(fg.fn, "if.cont")
		g.builder.CreateCondBr(cond, thenBB, contBB)
	}

	g.builder.SetInsertPointAtEnd(thenBB)
	fg.push()
	thenTerm, err := g.genStmts(fg, s.Then)
	fg.pop()
	if err != nil {
		return false, err
	}
	if !thenTerm {
		if contBB.IsNil() {
			contBB = llvm.AddBasicBlock(fg.fn, "if.cont")
		}
		g.builder.CreateBr(contBB)
	}

	elseTerm := false
	if len(s.Else) > 0 {
		g.builder.SetInsertPointAtEnd(elseBB)
		fg.push()
		elseTerm, err = g.genStmts(fg, s.Else)
		fg.pop()
		if err != nil {
			return false, err
		}
		if !elseTerm {
			if contBB.IsNil() {
				contBB = llvm.AddBasicBlock(fg.fn, "if.cont")
			}
			g.builder.CreateBr(contBB)
		}
	}

	if !contBB.IsNil() {
		g.builder.SetInsertPointAtEnd(contBB)
	}
	return thenTerm && elseTerm, nil
}
