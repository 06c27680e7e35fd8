// Parser is a recursive-descent parser over the token stream produced
// by Lexer. No goyacc grammar file for the teacher survived into the
// retrieval pack (its go:generate line names frontend/parser-typed.y,
// which was not retrieved), so this parser is written directly against
// spec section 4.2's grammar; it keeps the teacher's general shape of
// "one stage turns lexemes into a tagged tree carrying line/col" but
// implements the grammar productions from scratch.

package frontend

import (
	"strconv"

	"gaia/src/diag"
	"gaia/src/util"
)

// parseIntLiteral and parseFloatLiteral convert a lexer-scanned numeric
// token's raw text into its value; the lexer itself only classifies
// digits into IntLiteral/FloatLiteral and leaves conversion to the
// parser, mirroring the teacher's split between scanning and value
// construction.
func parseIntLiteral(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

func parseFloatLiteral(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// Parser turns a token stream into a File AST. It buffers tokens it has
// already fetched from the Lexer in toks, indexed by pos, so that the
// if-statement-vs-if-expression disambiguation (spec section 4.2) can
// scan ahead and rewind without losing any tokens: this plays the role
// of the "small dequeue of (loc, token)" spec section 9 calls for, sized
// dynamically instead of as a fixed ring buffer.
type Parser struct {
	lex        *Lexer
	toks       []Token
	pos        int
	eofReached bool
	lexErr     error
}

// NewParser returns a Parser ready to parse src.
func NewParser(src string) *Parser {
	return &Parser{lex: NewLexer(src)}
}

// fill ensures toks has an entry at index i, pulling more tokens from
// the lexer (or repeating the final EOF token) as needed.
func (p *Parser) fill(i int) error {
	for len(p.toks) <= i {
		if p.lexErr != nil {
			return p.lexErr
		}
		if p.eofReached {
			p.toks = append(p.toks, p.toks[len(p.toks)-1])
			continue
		}
		tok, err := p.lex.NextToken()
		if err != nil {
			p.lexErr = err
			return err
		}
		p.toks = append(p.toks, tok)
		if tok.Type == EOF {
			p.eofReached = true
		}
	}
	return nil
}

func (p *Parser) at(i int) (Token, error) {
	if err := p.fill(i); err != nil {
		return Token{}, err
	}
	return p.toks[i], nil
}

func (p *Parser) cur() (Token, error)  { return p.at(p.pos) }
func (p *Parser) peekAt(n int) (Token, error) { return p.at(p.pos + n) }

func (p *Parser) advance() (Token, error) {
	t, err := p.at(p.pos)
	if err != nil {
		return t, err
	}
	p.pos++
	return t, nil
}

func (p *Parser) mark() int       { return p.pos }
func (p *Parser) rewind(m int)    { p.pos = m }

// skipNewlines consumes zero or more Newline tokens.
func (p *Parser) skipNewlines() error {
	for {
		t, err := p.cur()
		if err != nil {
			return err
		}
		if t.Type != Newline {
			return nil
		}
		if _, err := p.advance(); err != nil {
			return err
		}
	}
}

// expect consumes the current token if it has type tt, else returns
// UnexpectedToken.
func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	t, err := p.cur()
	if err != nil {
		return t, err
	}
	if t.Type != tt {
		return t, diag.New(diag.UnexpectedToken, t.Loc, "expected %s, got %s", what, t.String())
	}
	return p.advance()
}

// expectKeyword consumes the current token if it is the keyword kw.
func (p *Parser) expectKeyword(kw KeywordKind, what string) (Token, error) {
	t, err := p.cur()
	if err != nil {
		return t, err
	}
	if t.Type != KeywordTok || t.Keyword != kw {
		return t, diag.New(diag.UnexpectedToken, t.Loc, "expected %s, got %s", what, t.String())
	}
	return p.advance()
}

// ---------------------------
// ----- top level / decl -----
// ---------------------------

// ParseFile parses an entire source file (spec section 4.2: `file :=
// (decl | topStmt)*`).
func ParseFile(name, src string) (*File, error) {
	p := NewParser(src)
	f := &File{Name: name}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for {
		t, err := p.cur()
		if err != nil {
			return nil, err
		}
		if t.Type == EOF {
			break
		}
		if t.Type == KeywordTok && (t.Keyword == KwFunction || t.Keyword == KwExtern) {
			fn, err := p.parseDecl()
			if err != nil {
				return nil, err
			}
			f.Functions = append(f.Functions, fn)
		} else {
			stmt, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			f.TopLevel = append(f.TopLevel, stmt)
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// parseDecl parses `"function" proto block | "extern" "function" proto`.
func (p *Parser) parseDecl() (*Function, error) {
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type == KeywordTok && t.Keyword == KwExtern {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword(KwFunction, "'function'"); err != nil {
			return nil, err
		}
		proto, err := p.parseProto(true)
		if err != nil {
			return nil, err
		}
		return &Function{Proto: proto}, nil
	}
	if _, err := p.expectKeyword(KwFunction, "'function'"); err != nil {
		return nil, err
	}
	proto, err := p.parseProto(false)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Function{Proto: proto, Body: body}, nil
}

// overloadableBinary and overloadableUnary list the operators spec
// section 4.2 allows as overload targets.
var overloadableBinary = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true,
	"+": true, "-": true, "*": true, "/": true,
}
var overloadableUnary = map[string]bool{"+": true, "-": true, "!": true}

// parseProto parses `(IDENT | OP) "(" paramList? ")" ("->" IDENT)?` and
// enforces the overloadable-operator arity rule.
func (p *Parser) parseProto(isExtern bool) (*Prototype, error) {
	nameTok, err := p.cur()
	if err != nil {
		return nil, err
	}
	name, isOp, err := p.parseProtoName()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(LeftParen, "'('"); err != nil {
		return nil, err
	}
	var params []Param
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type != RightParen {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			t, err := p.cur()
			if err != nil {
				return nil, err
			}
			if t.Type == Comma {
				if _, err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect(RightParen, "')'"); err != nil {
		return nil, err
	}

	if isOp {
		arity := len(params)
		switch {
		case overloadableBinary[name] && overloadableUnary[name]:
			// + and - are both prefix and infix operators.
			if arity != 1 && arity != 2 {
				return nil, diag.New(diag.InvalidNumberOfParameters, nameTok.Loc,
					"operator %q overload must take 1 or 2 parameters, got %d", name, arity)
			}
		case overloadableBinary[name]:
			if arity != 2 {
				return nil, diag.New(diag.InvalidNumberOfParameters, nameTok.Loc,
					"operator %q overload must take exactly 2 parameters, got %d", name, arity)
			}
		case overloadableUnary[name]:
			if arity != 1 {
				return nil, diag.New(diag.InvalidNumberOfParameters, nameTok.Loc,
					"operator %q overload must take exactly 1 parameter, got %d", name, arity)
			}
		default:
			return nil, diag.New(diag.UnexpectedToken, nameTok.Loc,
				"operator %q is not overloadable", name)
		}
	}

	retName := ""
	t, err = p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type == Arrow {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		rt, err := p.expect(Identifier, "return type name")
		if err != nil {
			return nil, err
		}
		retName = rt.Text
	}

	return &Prototype{
		Name:           name,
		Params:         params,
		ReturnTypeName: retName,
		IsExtern:       isExtern,
		Loc:            nameTok.Loc,
	}, nil
}

// parseProtoName consumes the prototype's name slot, which is either a
// plain identifier or one of the overloadable operator spellings.
func (p *Parser) parseProtoName() (name string, isOp bool, err error) {
	t, err := p.cur()
	if err != nil {
		return "", false, err
	}
	switch t.Type {
	case Identifier:
		p.advance()
		return t.Text, false, nil
	case BinaryOpTok:
		p.advance()
		return t.BinOp.Symbol(), true, nil
	case Not:
		p.advance()
		return "!", true, nil
	case Plus:
		p.advance()
		return "+", true, nil
	case Minus:
		p.advance()
		return "-", true, nil
	default:
		return "", false, diag.New(diag.UnexpectedToken, t.Loc,
			"expected function name or overloadable operator, got %s", t.String())
	}
}

// parseParam parses `IDENT (":" IDENT)?`.
func (p *Parser) parseParam() (Param, error) {
	name, err := p.expect(Identifier, "parameter name")
	if err != nil {
		return Param{}, err
	}
	typeName := ""
	t, err := p.cur()
	if err != nil {
		return Param{}, err
	}
	if t.Type == Colon {
		if _, err := p.advance(); err != nil {
			return Param{}, err
		}
		tn, err := p.expect(Identifier, "parameter type name")
		if err != nil {
			return Param{}, err
		}
		typeName = tn.Text
	}
	return Param{Name: name.Text, TypeName: typeName}, nil
}

// parseBlock parses `"{" NEWLINE stmt* "}"`. Leading/trailing newlines
// around each statement are treated as optional separators rather than
// mandatory tokens, since the spec's own worked examples include
// single-line blocks such as `{ return 1 }` with no newline present.
func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(LeftBrace, "'{'"); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for {
		t, err := p.cur()
		if err != nil {
			return nil, err
		}
		if t.Type == RightBrace {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RightBrace, "'}'"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// ---------------------
// ----- statements -----
// ---------------------

// parseStmt parses one statement production (spec section 4.2).
func (p *Parser) parseStmt() (Stmt, error) {
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	switch {
	case t.Type == KeywordTok && t.Keyword == KwReturn:
		return p.parseReturn()
	case t.Type == KeywordTok && t.Keyword == KwIf:
		return p.parseIfDispatch(true)
	case t.Type == Identifier:
		// Disambiguate `IDENT "=" expr` (variable definition) from a bare
		// expression statement starting with an identifier.
		if nt, err := p.peekAt(1); err == nil && nt.Type == Assign {
			return p.parseVarDef()
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr, Loc: expr.Location()}, nil
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr, Loc: expr.Location()}, nil
	}
}

func (p *Parser) parseReturn() (Stmt, error) {
	tok, err := p.advance() // consume 'return'
	if err != nil {
		return nil, err
	}
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type == Newline || t.Type == RightBrace || t.Type == EOF {
		return &Return{Loc: tok.Loc}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Return{Expr: expr, Loc: tok.Loc}, nil
}

func (p *Parser) parseVarDef() (Stmt, error) {
	name, err := p.advance() // identifier
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Assign, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &VarDef{Name: name.Text, Value: value, Loc: name.Loc}, nil
}

// parseIfDispatch implements the scan-then-rewind disambiguation of
// spec section 4.2: on seeing `if`, scan forward without committing
// until a Newline (statement form) or `then` keyword (expression form)
// is found, then rewind to `if` and dispatch.
func (p *Parser) parseIfDispatch(asStmt bool) (Stmt, error) {
	start := p.mark()
	if _, err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	isExprForm := false
	depth := 0
scan:
	for {
		t, err := p.cur()
		if err != nil {
			p.rewind(start)
			return nil, err
		}
		switch {
		case t.Type == LeftParen:
			depth++
			p.advance()
		case t.Type == RightParen:
			depth--
			p.advance()
		case depth == 0 && t.Type == KeywordTok && t.Keyword == KwThen:
			isExprForm = true
			break scan
		case t.Type == Newline || t.Type == EOF:
			isExprForm = false
			break scan
		case t.Type == LeftBrace:
			isExprForm = false
			break scan
		default:
			p.advance()
		}
	}
	p.rewind(start)
	if isExprForm {
		expr, err := p.parseIfExpr()
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: expr, Loc: expr.Location()}, nil
	}
	return p.parseIfStmt()
}

// parseIfStmt parses `"if" expr block "else" block`.
func (p *Parser) parseIfStmt() (Stmt, error) {
	tok, err := p.advance() // 'if'
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock []Stmt
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	m := p.mark()
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type == KeywordTok && t.Keyword == KwElse {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	} else {
		p.rewind(m)
	}
	return &IfStmt{Cond: cond, Then: thenBlock, Else: elseBlock, Loc: tok.Loc}, nil
}

// parseIfExpr parses `"if" expr "then" expr "else" expr`.
func (p *Parser) parseIfExpr() (Expr, error) {
	tok, err := p.advance() // 'if'
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(KwThen, "'then'"); err != nil {
		return nil, err
	}
	thenE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(KwElse, "'else'"); err != nil {
		return nil, err
	}
	elseE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &IfExpr{Cond: cond, Then: thenE, Else: elseE, Loc: tok.Loc}, nil
}

// ----------------------
// ----- expressions -----
// ----------------------

// parseExpr parses a full expression: an if-expression, or a binary
// expression climbed at the lowest precedence (spec section 4.3).
func (p *Parser) parseExpr() (Expr, error) {
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type == KeywordTok && t.Keyword == KwIf {
		return p.parseIfExpr()
	}
	return p.parseBinary(1)
}

// parseBinary implements precedence climbing: given the current
// minimum precedence, it parses a unary operand and then folds in
// trailing binary operators whose precedence is >= minPrec, all
// left-associative (spec section 4.3).
func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t, err := p.cur()
		if err != nil {
			return nil, err
		}
		// Plus and Minus carry their own TokenTypes (shared with the
		// unary-prefix forms), so they are recognized here by token type
		// rather than by BinOpKind the way the other operators are.
		var op BinOpKind
		switch t.Type {
		case BinaryOpTok:
			op = t.BinOp
		case Plus:
			op = OpAdd
		case Minus:
			op = OpSub
		default:
			return lhs, nil
		}
		prec := op.Precedence()
		if prec < minPrec {
			return lhs, nil
		}
		opLoc := t.Loc
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &BinaryOp{Op: op, Lhs: lhs, Rhs: rhs, Loc: opLoc}
	}
}

// parseUnary handles the prefix operators !, + and -, each parsed into a
// UnaryOp node whose Op the checker resolves like any other call name.
func (p *Parser) parseUnary() (Expr, error) {
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	var opName string
	switch t.Type {
	case Not:
		opName = "!"
	case Plus:
		opName = "+"
	case Minus:
		opName = "-"
	default:
		return p.parsePrimary()
	}
	if _, err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: opName, Operand: operand, Loc: t.Loc}, nil
}

// parsePrimary parses literals, parenthesized expressions, variable
// references and calls.
func (p *Parser) parsePrimary() (Expr, error) {
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case IntLiteral:
		p.advance()
		v, err := parseIntLiteral(t.Text)
		if err != nil {
			return nil, diag.New(diag.UnexpectedToken, t.Loc, "malformed integer literal %q", t.Text)
		}
		return &IntLit{Value: v, Loc: t.Loc}, nil
	case FloatLiteral:
		p.advance()
		v, err := parseFloatLiteral(t.Text)
		if err != nil {
			return nil, diag.New(diag.UnexpectedToken, t.Loc, "malformed float literal %q", t.Text)
		}
		return &FloatLit{Value: v, Loc: t.Loc}, nil
	case StringLiteral:
		p.advance()
		return &StringLit{Value: t.Text, Loc: t.Loc}, nil
	case KeywordTok:
		switch t.Keyword {
		case KwTrue:
			p.advance()
			return &BoolLit{Value: true, Loc: t.Loc}, nil
		case KwFalse:
			p.advance()
			return &BoolLit{Value: false, Loc: t.Loc}, nil
		case KwNull:
			p.advance()
			return &NullLit{Loc: t.Loc}, nil
		case KwIf:
			return p.parseIfExpr()
		default:
			return nil, diag.New(diag.UnexpectedToken, t.Loc, "unexpected keyword in expression: %s", t.String())
		}
	case LeftParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RightParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case Identifier:
		p.advance()
		nt, err := p.cur()
		if err != nil {
			return nil, err
		}
		if nt.Type == LeftParen {
			return p.parseCallArgs(t.Text, t.Loc)
		}
		return &Variable{Name: t.Text, Loc: t.Loc}, nil
	default:
		return nil, diag.New(diag.UnexpectedToken, t.Loc, "unexpected token in expression: %s", t.String())
	}
}

// parseCallArgs parses the `"(" args? ")"` suffix of a call.
func (p *Parser) parseCallArgs(name string, loc util.SourceLocation) (Expr, error) {
	if _, err := p.expect(LeftParen, "'('"); err != nil {
		return nil, err
	}
	var args []Expr
	t, err := p.cur()
	if err != nil {
		return nil, err
	}
	if t.Type != RightParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			t, err := p.cur()
			if err != nil {
				return nil, err
			}
			if t.Type == Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(RightParen, "')'"); err != nil {
		return nil, err
	}
	return &Call{Name: name, Args: args, Loc: loc}, nil
}
