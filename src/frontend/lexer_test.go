package frontend

import "testing"

// tok is a trimmed-down expectation for one scanned token, mirroring
// the teacher's item{val, typ, line, pos} comparison style in
// lexer_test.go, adapted to gaia's Token/TokenType/Loc shape.
type tok struct {
	typ  TokenType
	text string
	line int
	col  int
}

func TestLexerTokens(t *testing.T) {
	const src = `function add(a: Int, b: Int) -> Int {
	return a + b
}
`
	exp := []tok{
		{KeywordTok, "function", 1, 1},
		{Identifier, "add", 1, 10},
		{LeftParen, "(", 1, 13},
		{Identifier, "a", 1, 14},
		{Colon, ":", 1, 15},
		{Identifier, "Int", 1, 17},
		{Comma, ",", 1, 20},
		{Identifier, "b", 1, 22},
		{Colon, ":", 1, 23},
		{Identifier, "Int", 1, 25},
		{RightParen, ")", 1, 28},
		{Arrow, "->", 1, 30},
		{Identifier, "Int", 1, 33},
		{LeftBrace, "{", 1, 37},
		{Newline, "\n", 1, 38},
		{KeywordTok, "return", 2, 2},
		{Identifier, "a", 2, 9},
		{Plus, "+", 2, 11},
		{Identifier, "b", 2, 13},
		{Newline, "\n", 2, 14},
		{RightBrace, "}", 3, 1},
		{Newline, "\n", 3, 2},
		{EOF, "", 4, 1},
	}

	lex := NewLexer(src)
	for i, want := range exp {
		got, err := lex.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %s", i, err)
		}
		if got.Type != want.typ {
			t.Errorf("token %d: type = %v, want %v", i, got.Type, want.typ)
		}
		if got.Loc.Line != want.line || got.Loc.Column != want.col {
			t.Errorf("token %d (%s): loc = %d:%d, want %d:%d", i, got.Text, got.Loc.Line, got.Loc.Column, want.line, want.col)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	const src = `== != <= >= < > = ! + - * /`
	wantOps := []TokenType{BinaryOpTok, BinaryOpTok, BinaryOpTok, BinaryOpTok, BinaryOpTok, BinaryOpTok, Assign, Not, Plus, Minus, BinaryOpTok, BinaryOpTok}
	lex := NewLexer(src)
	for i, want := range wantOps {
		got, err := lex.NextToken()
		if err != nil {
			t.Fatalf("operator %d: unexpected error: %s", i, err)
		}
		if got.Type != want {
			t.Errorf("operator %d: type = %v, want %v", i, got.Type, want)
		}
	}
}

func TestLexerBlockCommentNesting(t *testing.T) {
	const src = "/* outer /* inner */ still outer */ident"
	lex := NewLexer(src)
	got, err := lex.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.Type != Identifier || got.Text != "ident" {
		t.Errorf("got %v %q, want identifier \"ident\"", got.Type, got.Text)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	lex := NewLexer(`"never closed`)
	if _, err := lex.NextToken(); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}
