package ir

import (
	"fmt"
	"strings"
)

// String renders a recursive, indented dump of the checked module:
// externs, then every monomorphized function, then the synthesized
// main body — the same one-line-per-node, two-space-per-depth shape as
// frontend.File.String and the teacher's Node.Print(depth, showDepth).
func (m *Module) String() string {
	var b strings.Builder
	b.WriteString("Module\n")
	for _, e := range m.Externs {
		writeProto(&b, 1, "extern", e)
	}
	for _, fn := range m.Functions {
		b.WriteString(fn.String())
	}
	indent(&b, 1)
	b.WriteString("main\n")
	for _, s := range m.Main {
		writeMStmt(&b, 2, s)
	}
	return b.String()
}

// String renders one monomorphized function and its body.
func (fn *Function) String() string {
	var b strings.Builder
	writeProto(&b, 1, "function", fn.Proto)
	for _, s := range fn.Body {
		writeMStmt(&b, 2, s)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func writeProto(b *strings.Builder, depth int, kind string, p *Prototype) {
	indent(b, depth)
	parts := make([]string, len(p.ParamNames))
	for i, n := range p.ParamNames {
		parts[i] = fmt.Sprintf("%s: %s", n, p.ParamTypes[i])
	}
	fmt.Fprintf(b, "%s %s(%s) -> %s\n", kind, p.Name, strings.Join(parts, ", "), p.RetType)
}

func writeMStmt(b *strings.Builder, depth int, s MStmt) {
	switch s := s.(type) {
	case *MVarDef:
		indent(b, depth)
		fmt.Fprintf(b, "MVarDef %s =\n", s.Name)
		writeMExpr(b, depth+1, s.Value)
	case *MReturn:
		indent(b, depth)
		b.WriteString("MReturn\n")
		if s.Expr != nil {
			writeMExpr(b, depth+1, s.Expr)
		}
	case *MExprStmt:
		indent(b, depth)
		b.WriteString("MExprStmt\n")
		writeMExpr(b, depth+1, s.Expr)
	case *MIfStmt:
		indent(b, depth)
		b.WriteString("MIfStmt\n")
		indent(b, depth+1)
		b.WriteString("Cond\n")
		writeMExpr(b, depth+2, s.Cond)
		indent(b, depth+1)
		b.WriteString("Then\n")
		for _, st := range s.Then {
			writeMStmt(b, depth+2, st)
		}
		if s.Else != nil {
			indent(b, depth+1)
			b.WriteString("Else\n")
			for _, st := range s.Else {
				writeMStmt(b, depth+2, st)
			}
		}
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", s)
	}
}

func writeMExpr(b *strings.Builder, depth int, e MExpr) {
	switch e := e.(type) {
	case *MIntLit:
		indent(b, depth)
		fmt.Fprintf(b, "MIntLit %d\n", e.Value)
	case *MFloatLit:
		indent(b, depth)
		fmt.Fprintf(b, "MFloatLit %g\n", e.Value)
	case *MBoolLit:
		indent(b, depth)
		fmt.Fprintf(b, "MBoolLit %t\n", e.Value)
	case *MStringLit:
		indent(b, depth)
		fmt.Fprintf(b, "MStringLit %q\n", e.Value)
	case *MNullLit:
		indent(b, depth)
		fmt.Fprintf(b, "MNullLit %s\n", e.Type)
	case *MVariable:
		indent(b, depth)
		fmt.Fprintf(b, "MVariable %s: %s\n", e.Name, e.Type)
	case *MCall:
		indent(b, depth)
		kind := "call"
		switch {
		case e.Target.Primitive:
			kind = "primitive call"
		case e.Target.IsExtern:
			kind = "extern call"
		}
		fmt.Fprintf(b, "MCall %s %q -> %s\n", kind, e.Target.Name, e.Type)
		for _, a := range e.Args {
			writeMExpr(b, depth+1, a)
		}
	case *MIfExpr:
		indent(b, depth)
		fmt.Fprintf(b, "MIfExpr -> %s\n", e.Type)
		writeMExpr(b, depth+1, e.Cond)
		writeMExpr(b, depth+1, e.Then)
		writeMExpr(b, depth+1, e.Else)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", e)
	}
}
