// This lexer is adapted from the teacher's Rob-Pike-style scanner
// (next/backup/peek/ignore and a stateFunc dispatch loop), generalized
// from a goroutine-plus-channel scanner driving a goyacc parser into a
// synchronous one: gaia's front end is single-threaded and cooperative
// (spec section 5), so state functions are called directly instead of
// being run on a worker goroutine that emits onto a channel.

package frontend

import (
	"fmt"
	"unicode/utf8"

	"gaia/src/util"
)

const eof = 0 // Same as '\0' for null-terminated C strings.

// stateFunc defines the current scanning state. Each call consumes zero
// or more runes and returns either the next state (to keep scanning) or
// nil together with a ready token.
type stateFunc func(*Lexer) (stateFunc, Token, bool)

// Lexer scans a UTF-8 source string into a stream of Tokens, with a
// one-rune putback (backup) capability.
type Lexer struct {
	input       string
	start       int // Start byte offset of the token currently being scanned.
	pos         int // Current byte offset.
	width       int // Width in bytes of the last rune returned by next.
	line        int
	startOnLine int // Column of start, on the current line.
	state       stateFunc
}

// NewLexer returns a Lexer ready to scan src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		input:       src,
		line:        1,
		startOnLine: 1,
		state:       lexGlobal,
	}
}

// NextToken returns the next token in the input, or an error for an
// unterminated string literal, an unterminated block comment or an
// unexpected character. These are plain errors carrying only a message
// (with the line:column in its text), not *diag.CompileError values.
func (l *Lexer) NextToken() (Token, error) {
	for {
		if l.state == nil {
			return Token{}, fmt.Errorf("lexer: scan already terminated")
		}
		next, tok, ready := l.state(l)
		l.state = next
		if ready {
			return tok, nil
		}
		if next == nil {
			// An error state function stashes its error in the token's
			// Text field by convention (see errorf below).
			return Token{}, fmt.Errorf("%s", tok.Text)
		}
	}
}

// loc returns the SourceLocation of the token currently being scanned
// (i.e. the position of l.start).
func (l *Lexer) loc() util.SourceLocation {
	return util.SourceLocation{Line: l.line, Column: l.startOnLine}
}

// emit packages the pending input (l.start:l.pos) as a token of type typ.
func (l *Lexer) emit(typ TokenType) Token {
	tok := Token{Type: typ, Loc: l.loc(), Text: l.input[l.start:l.pos]}
	l.advanceStart()
	return tok
}

// emitOp emits a BinaryOpTok token.
func (l *Lexer) emitOp(op BinOpKind) Token {
	tok := Token{Type: BinaryOpTok, Loc: l.loc(), BinOp: op, Text: op.Symbol()}
	l.advanceStart()
	return tok
}

// emitKeyword emits a KeywordTok token.
func (l *Lexer) emitKeyword(kw KeywordKind) Token {
	tok := Token{Type: KeywordTok, Loc: l.loc(), Keyword: kw, Text: l.input[l.start:l.pos]}
	l.advanceStart()
	return tok
}

// advanceStart moves the start-of-token marker up to the current
// position, accounting for the column advance on the current line.
func (l *Lexer) advanceStart() {
	l.startOnLine += len(l.input[l.start:l.pos])
	l.start = l.pos
}

// ignore skips over the pending input before this point without
// emitting a token (used for whitespace and comments).
func (l *Lexer) ignore() {
	l.advanceStart()
}

// next returns the next rune in the input, advancing pos. Returns eof
// at end of input.
func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

// backup steps back one rune. Must only be called once per call to next.
func (l *Lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

// peek returns, without consuming, the next rune in the input.
func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// errorf returns a nil next-state together with a token carrying the
// formatted message in Text, which NextToken surfaces as an error.
func (l *Lexer) errorf(format string, args ...interface{}) (stateFunc, Token, bool) {
	return nil, Token{Text: fmt.Sprintf(format, args...)}, false
}

// ----------------------------
// ----- state functions  -----
// ----------------------------

// lexGlobal is the default scanning state.
func lexGlobal(l *Lexer) (stateFunc, Token, bool) {
	for {
		r := l.next()
		switch {
		case r == eof:
			return nil, l.emit(EOF), true
		case r == '\n':
			tok := l.emit(Newline)
			l.line++
			l.startOnLine = 1
			return lexGlobal, tok, true
		case r == ' ' || r == '\t':
			l.ignore()
		case isAlpha(r) || r == '_':
			return lexWord(l)
		case isDigit(r):
			return lexNumber(l)
		case r == '"':
			return lexString(l)
		case r == '{':
			return lexGlobal, l.emit(LeftBrace), true
		case r == '}':
			return lexGlobal, l.emit(RightBrace), true
		case r == '(':
			return lexGlobal, l.emit(LeftParen), true
		case r == ')':
			return lexGlobal, l.emit(RightParen), true
		case r == ':':
			return lexGlobal, l.emit(Colon), true
		case r == ',':
			return lexGlobal, l.emit(Comma), true
		case r == '.':
			return lexGlobal, l.emit(Dot), true // Accepted punctuation (spec section 4.1); no grammar production consumes it yet.
		case r == '=':
			if l.peek() == '=' {
				l.next()
				return lexGlobal, l.emitOp(OpEq), true
			}
			return lexGlobal, l.emit(Assign), true
		case r == '!':
			if l.peek() == '=' {
				l.next()
				return lexGlobal, l.emitOp(OpNeq), true
			}
			return lexGlobal, l.emit(Not), true
		case r == '<':
			if l.peek() == '=' {
				l.next()
				return lexGlobal, l.emitOp(OpLeq), true
			}
			return lexGlobal, l.emitOp(OpLt), true
		case r == '>':
			if l.peek() == '=' {
				l.next()
				return lexGlobal, l.emitOp(OpGeq), true
			}
			return lexGlobal, l.emitOp(OpGt), true
		case r == '-':
			if l.peek() == '>' {
				l.next()
				return lexGlobal, l.emit(Arrow), true
			}
			return lexGlobal, l.emit(Minus), true
		case r == '+':
			return lexGlobal, l.emit(Plus), true
		case r == '*':
			return lexGlobal, l.emitOp(OpMul), true
		case r == '/':
			if l.peek() == '*' {
				l.next()
				return lexBlockComment(l)
			}
			return lexGlobal, l.emitOp(OpDiv), true
		default:
			return l.errorf("unexpected character %q at line %d:%d", r, l.line, l.startOnLine)
		}
	}
}

// lexWord scans an identifier or keyword.
func lexWord(l *Lexer) (stateFunc, Token, bool) {
	for {
		r := l.next()
		if !isAlpha(r) && !isDigit(r) && r != '_' {
			l.backup()
			break
		}
	}
	text := l.input[l.start:l.pos]
	if kw, ok := keywords[text]; ok {
		return lexGlobal, l.emitKeyword(kw), true
	}
	return lexGlobal, l.emit(Identifier), true
}

// lexNumber scans an integer or float literal: one or more decimal
// digits, optionally followed by one '.' and more digits.
func lexNumber(l *Lexer) (stateFunc, Token, bool) {
	isFloat := false
	for {
		r := l.next()
		if isDigit(r) {
			continue
		}
		if r == '.' && !isFloat {
			isFloat = true
			continue
		}
		l.backup()
		break
	}
	if isFloat {
		return lexGlobal, l.emit(FloatLiteral), true
	}
	return lexGlobal, l.emit(IntLiteral), true
}

// lexString scans a "..." string literal. No escape processing is done
// (spec section 4.1).
func lexString(l *Lexer) (stateFunc, Token, bool) {
	loc := l.loc()
	l.ignore() // Drop the opening quote from the emitted token text.
	for {
		r := l.next()
		if r == eof {
			return l.errorf("unterminated string literal at line %d:%d", loc.Line, loc.Column)
		}
		if r == '"' {
			l.backup()
			tok := Token{Type: StringLiteral, Loc: loc, Text: l.input[l.start:l.pos]}
			l.pos++ // Consume the closing quote without including it in Text.
			l.advanceStart()
			return lexGlobal, tok, true
		}
	}
}

// lexBlockComment scans a /* ... */ comment. Comments nest: every `/*`
// increments depth and every `*/` decrements it (spec section 4.1).
func lexBlockComment(l *Lexer) (stateFunc, Token, bool) {
	loc := l.loc()
	depth := 1
	for depth > 0 {
		r := l.next()
		switch r {
		case eof:
			return l.errorf("unterminated block comment starting at line %d:%d", loc.Line, loc.Column)
		case '\n':
			l.line++
			l.startOnLine = 1
		case '/':
			if l.peek() == '*' {
				l.next()
				depth++
			}
		case '*':
			if l.peek() == '/' {
				l.next()
				depth--
			}
		}
	}
	l.ignore()
	return lexGlobal, Token{}, false
}

// ----------------------------
// ----- helper functions -----
// ----------------------------

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
