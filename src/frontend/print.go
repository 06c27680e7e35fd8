package frontend

import (
	"fmt"
	"strings"
)

// String renders a recursive, indented dump of the parsed file: one
// line per node, each child two spaces deeper than its parent — the
// same shape as the teacher's Node.Print(depth, showDepth), adapted
// from a generic Node tree to gaia's per-node-shape AST types.
func (f *File) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File %s\n", f.Name)
	for _, fn := range f.Functions {
		writeFunction(&b, 1, fn)
	}
	for _, s := range f.TopLevel {
		writeStmt(&b, 1, s)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func orInferred(name string) string {
	if name == "" {
		return "<inferred>"
	}
	return name
}

func writeFunction(b *strings.Builder, depth int, fn *Function) {
	indent(b, depth)
	p := fn.Proto
	kind := "function"
	if p.IsExtern {
		kind = "extern function"
	}
	parts := make([]string, len(p.Params))
	for i, param := range p.Params {
		parts[i] = param.Name + ": " + orInferred(param.TypeName)
	}
	fmt.Fprintf(b, "%s %s(%s) -> %s\n", kind, p.Name, strings.Join(parts, ", "), orInferred(p.ReturnTypeName))
	for _, s := range fn.Body {
		writeStmt(b, depth+1, s)
	}
}

func writeStmt(b *strings.Builder, depth int, s Stmt) {
	switch s := s.(type) {
	case *VarDef:
		indent(b, depth)
		fmt.Fprintf(b, "VarDef %s =\n", s.Name)
		writeExpr(b, depth+1, s.Value)
	case *Return:
		indent(b, depth)
		b.WriteString("Return\n")
		if s.Expr != nil {
			writeExpr(b, depth+1, s.Expr)
		}
	case *ExprStmt:
		indent(b, depth)
		b.WriteString("ExprStmt\n")
		writeExpr(b, depth+1, s.Expr)
	case *IfStmt:
		indent(b, depth)
		b.WriteString("IfStmt\n")
		indent(b, depth+1)
		b.WriteString("Cond\n")
		writeExpr(b, depth+2, s.Cond)
		indent(b, depth+1)
		b.WriteString("Then\n")
		for _, st := range s.Then {
			writeStmt(b, depth+2, st)
		}
		if s.Else != nil {
			indent(b, depth+1)
			b.WriteString("Else\n")
			for _, st := range s.Else {
				writeStmt(b, depth+2, st)
			}
		}
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", s)
	}
}

func writeExpr(b *strings.Builder, depth int, e Expr) {
	switch e := e.(type) {
	case *IntLit:
		indent(b, depth)
		fmt.Fprintf(b, "IntLit %d\n", e.Value)
	case *FloatLit:
		indent(b, depth)
		fmt.Fprintf(b, "FloatLit %g\n", e.Value)
	case *BoolLit:
		indent(b, depth)
		fmt.Fprintf(b, "BoolLit %t\n", e.Value)
	case *StringLit:
		indent(b, depth)
		fmt.Fprintf(b, "StringLit %q\n", e.Value)
	case *NullLit:
		indent(b, depth)
		b.WriteString("NullLit\n")
	case *Variable:
		indent(b, depth)
		fmt.Fprintf(b, "Variable %s\n", e.Name)
	case *UnaryOp:
		indent(b, depth)
		fmt.Fprintf(b, "UnaryOp %s\n", e.Op)
		writeExpr(b, depth+1, e.Operand)
	case *BinaryOp:
		indent(b, depth)
		fmt.Fprintf(b, "BinaryOp %s\n", e.Op.Symbol())
		writeExpr(b, depth+1, e.Lhs)
		writeExpr(b, depth+1, e.Rhs)
	case *Call:
		indent(b, depth)
		fmt.Fprintf(b, "Call %s\n", e.Name)
		for _, a := range e.Args {
			writeExpr(b, depth+1, a)
		}
	case *IfExpr:
		indent(b, depth)
		b.WriteString("IfExpr\n")
		writeExpr(b, depth+1, e.Cond)
		writeExpr(b, depth+1, e.Then)
		writeExpr(b, depth+1, e.Else)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", e)
	}
}
