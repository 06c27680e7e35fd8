// Package frontend implements gaia's lexer and recursive-descent parser:
// a UTF-8 character stream is scanned into tagged tokens (token.go,
// lexer.go), then parsed into an AST (ast.go, parser.go).
package frontend

import "gaia/src/util"

// TokenType tags the kind of lexeme a Token carries.
type TokenType int

const (
	EOF TokenType = iota
	Newline
	Identifier
	IntLiteral
	FloatLiteral
	StringLiteral
	LeftBrace
	RightBrace
	LeftParen
	RightParen
	Assign
	Colon
	Comma
	Dot
	Arrow
	Not
	Plus
	Minus
	BinaryOpTok
	KeywordTok
)

// BinOpKind identifies a binary operator and its precedence (spec
// section 3). Precedence climbs from Assign (lowest) to Mul/Div
// (highest); all operators are left-associative.
type BinOpKind int

const (
	OpAssign BinOpKind = iota // =   precedence 1
	OpEq                      // ==  precedence 2
	OpNeq                     // !=  precedence 2
	OpLt                      // <   precedence 3
	OpLeq                     // <=  precedence 3
	OpGt                      // >   precedence 3
	OpGeq                     // >=  precedence 3
	OpAdd                     // +   precedence 4
	OpSub                     // -   precedence 4
	OpMul                     // *   precedence 5
	OpDiv                     // /   precedence 5
)

// Precedence returns the binding precedence of op (higher binds tighter).
func (op BinOpKind) Precedence() int {
	switch op {
	case OpAssign:
		return 1
	case OpEq, OpNeq:
		return 2
	case OpLt, OpLeq, OpGt, OpGeq:
		return 3
	case OpAdd, OpSub:
		return 4
	case OpMul, OpDiv:
		return 5
	default:
		return 0
	}
}

// Symbol renders the operator's source spelling, used both by
// diagnostics and as the implicit function name the checker looks up
// when resolving a call to a primitive or user-overloaded operator.
func (op BinOpKind) Symbol() string {
	switch op {
	case OpAssign:
		return "="
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLeq:
		return "<="
	case OpGt:
		return ">"
	case OpGeq:
		return ">="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// KeywordKind identifies one of gaia's reserved words.
type KeywordKind int

const (
	KwFunction KeywordKind = iota
	KwExtern
	KwIf
	KwThen
	KwElse
	KwTrue
	KwFalse
	KwReturn
	KwNull
)

var keywords = map[string]KeywordKind{
	"function": KwFunction,
	"extern":   KwExtern,
	"if":       KwIf,
	"then":     KwThen,
	"else":     KwElse,
	"true":     KwTrue,
	"false":    KwFalse,
	"return":   KwReturn,
	"null":     KwNull,
}

// Token is a single lexeme tagged with its type, source location and,
// where applicable, its payload (name, literal value, keyword/operator
// kind).
type Token struct {
	Type     TokenType
	Loc      util.SourceLocation
	Text     string      // Identifier name, string literal contents, or raw numeric text.
	Int      int64       // Not set by Lexer; the parser converts Text for IntLiteral tokens.
	Float    float64     // Not set by Lexer; the parser converts Text for FloatLiteral tokens.
	BinOp    BinOpKind   // Populated when Type == BinaryOpTok.
	Keyword  KeywordKind // Populated when Type == KeywordTok.
}

// String renders a Token for diagnostics and tests.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case Newline:
		return "newline"
	case Identifier:
		return "identifier(" + t.Text + ")"
	case IntLiteral:
		return "int-literal"
	case FloatLiteral:
		return "float-literal"
	case StringLiteral:
		return "string-literal"
	case BinaryOpTok:
		return "op(" + t.BinOp.Symbol() + ")"
	case KeywordTok:
		return "keyword"
	default:
		return "token"
	}
}
