// Package types defines gaia's closed set of types and the mapping from
// a gaia type to its LLVM representation. Both the type checker (src/ir)
// and the IR generator (src/ir/llvm) depend on this package so neither
// has to re-derive the other's notion of a type.
package types

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// Kind enumerates gaia's closed set of types (spec section 3). Int
// aliases Int64 and Float aliases Float64: Named maps the names Int and
// Float to the Int64 and Float64 kinds, so checked types never carry
// the Int or Float kind values themselves.
type Kind int

const (
	Void Kind = iota
	Int8
	Int16
	Int32
	Int64
	Int // alias of Int64
	Bool
	Float32
	Float64
	Float // alias of Float64
	String
	Null
	Pointer
)

var names = [...]string{
	Void:    "Void",
	Int8:    "Int8",
	Int16:   "Int16",
	Int32:   "Int32",
	Int64:   "Int64",
	Int:     "Int",
	Bool:    "Bool",
	Float32: "Float32",
	Float64: "Float64",
	Float:   "Float",
	String:  "String",
	Null:    "Null",
	Pointer: "Pointer",
}

// Type is a concrete gaia type: a Kind plus, for Pointer, the pointee.
type Type struct {
	Kind Kind
	Elem *Type // non-nil only when Kind == Pointer
}

// Named constructs the primitive Type for one of the closed-set type
// names the parser can spell in source (a declared parameter or return
// type). ok is false if name is not a recognized type name.
func Named(name string) (Type, bool) {
	switch name {
	case "Void":
		return Type{Kind: Void}, true
	case "Int8":
		return Type{Kind: Int8}, true
	case "Int16":
		return Type{Kind: Int16}, true
	case "Int32":
		return Type{Kind: Int32}, true
	case "Int64":
		return Type{Kind: Int64}, true
	case "Int":
		return Type{Kind: Int64}, true // Int aliases Int64.
	case "Bool":
		return Type{Kind: Bool}, true
	case "Float32":
		return Type{Kind: Float32}, true
	case "Float64":
		return Type{Kind: Float64}, true
	case "Float":
		return Type{Kind: Float64}, true // Float aliases Float64.
	case "String":
		return Type{Kind: String}, true
	default:
		return Type{}, false
	}
}

// Equal reports whether t and o are structurally the same type.
// Int/Int64 and Float/Float64 are aliases and always compare equal by
// virtue of Named already collapsing them to the same Kind.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == Pointer {
		return t.Elem.Equal(*o.Elem)
	}
	return true
}

// IsNumeric reports whether t is one of the integer or floating point
// kinds eligible for the primitive arithmetic operators.
func (t Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsInteger reports whether t is one of the integer kinds.
func (t Type) IsInteger() bool {
	switch t.Kind {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is one of the floating point kinds.
func (t Type) IsFloat() bool {
	return t.Kind == Float32 || t.Kind == Float64
}

// String renders t the way diagnostics name a type (spec section 8
// scenario 5: "invalid types 'Int' and 'Float' for arithmetic operation").
func (t Type) String() string {
	if t.Kind == Pointer {
		return fmt.Sprintf("Pointer(%s)", t.Elem.String())
	}
	// Int64 and Float64 print under their alias names.
	switch t.Kind {
	case Int64:
		return "Int"
	case Float64:
		return "Float"
	}
	if int(t.Kind) < 0 || int(t.Kind) >= len(names) {
		return "<invalid type>"
	}
	return names[t.Kind]
}

// PointerTo returns the Pointer(elem) type.
func PointerTo(elem Type) Type {
	e := elem
	return Type{Kind: Pointer, Elem: &e}
}

// VoidType, IntType, BoolType, FloatType and StringType are the
// canonical instances used throughout the checker and IR generator.
var (
	VoidType   = Type{Kind: Void}
	IntType    = Type{Kind: Int64}
	BoolType   = Type{Kind: Bool}
	FloatType  = Type{Kind: Float64}
	StringType = Type{Kind: String}
	NullType   = Type{Kind: Null}
)

// LLVM maps a gaia Type onto the corresponding llvm.Type in the given
// context. String is pointer-to-byte at the LLVM level (spec section 3).
func (t Type) LLVM(ctx llvm.Context) llvm.Type {
	switch t.Kind {
	case Void:
		return ctx.VoidType()
	case Int8:
		return ctx.Int8Type()
	case Int16:
		return ctx.Int16Type()
	case Int32:
		return ctx.Int32Type()
	case Int64, Int:
		return ctx.Int64Type()
	case Bool:
		return ctx.Int1Type()
	case Float32:
		return ctx.FloatType()
	case Float64, Float:
		return ctx.DoubleType()
	case String:
		return llvm.PointerType(ctx.Int8Type(), 0)
	case Pointer:
		return llvm.PointerType(t.Elem.LLVM(ctx), 0)
	case Null:
		// Null has no runtime representation (spec section 3); callers
		// must never reach this by construction.
		return ctx.VoidType()
	default:
		return ctx.VoidType()
	}
}
