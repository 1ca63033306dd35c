// Package parser turns a token stream from internal/lexer into an
// *ast.Module. It is a straightforward recursive-descent parser with a
// Pratt expression core, modeled on the teacher's curToken/peekToken
// two-token-lookahead style, retargeted to vexel's grammar: no pattern
// matching, no traits, tuple returns and tuple-destructuring instead.
package parser

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/lexer"
)

type prefixParseFn func() ast.Expr
type infixParseFn func(ast.Expr) ast.Expr

// Parser builds a Module from one file's token stream.
type Parser struct {
	l    *lexer.Lexer
	file string

	curToken  lexer.Token
	peekToken lexer.Token

	diags errors.List

	// typeParams holds the generic type-parameter names declared by the
	// function currently being parsed (via `fn name<T, U>(...)`), so a
	// bare identifier in type position resolves to a TypeVarType instead
	// of a NamedType. Nil outside a generic function's signature/body.
	typeParams map[string]bool

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading from l. filename tags every position the
// parser produces.
func New(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{l: l, file: filename}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.INT:      p.parseIntegerLiteral,
		lexer.FLOAT:    p.parseFloatLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.CHAR:     p.parseCharLiteral,
		lexer.TRUE:     p.parseBoolLiteral,
		lexer.FALSE:    p.parseBoolLiteral,
		lexer.LPAREN:   p.parseGroupedOrTupleExpression,
		lexer.LBRACKET: p.parseArrayLiteral,
		lexer.MINUS:    p.parsePrefixExpression,
		lexer.BANG:     p.parsePrefixExpression,
		lexer.HASH:     p.parseLengthExpression,
		lexer.FOR:      p.parseIterationExpression,
		lexer.REPEAT:   p.parseRepeatExpression,
		lexer.RESOURCE: p.parseResourceExpression,
		lexer.PROCESS:  p.parseProcessExpression,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseInfixExpression,
		lexer.MINUS:    p.parseInfixExpression,
		lexer.STAR:     p.parseInfixExpression,
		lexer.SLASH:    p.parseInfixExpression,
		lexer.PERCENT:  p.parseInfixExpression,
		lexer.AMP:      p.parseInfixExpression,
		lexer.PIPE:     p.parseInfixExpression,
		lexer.CARET:    p.parseInfixExpression,
		lexer.EQ:       p.parseInfixExpression,
		lexer.NEQ:      p.parseInfixExpression,
		lexer.LT:       p.parseInfixExpression,
		lexer.GT:       p.parseInfixExpression,
		lexer.LTE:      p.parseInfixExpression,
		lexer.GTE:      p.parseInfixExpression,
		lexer.ANDAND:   p.parseInfixExpression,
		lexer.OROR:     p.parseInfixExpression,
		lexer.SHL:      p.parseInfixExpression,
		lexer.SHR:      p.parseInfixExpression,
		lexer.DOTDOT:   p.parseRangeExpression,
		lexer.ASSIGN:   p.parseAssignmentExpression,
		lexer.WALRUS:   p.parseAssignmentExpression,
		lexer.QUESTION: p.parseTernaryExpression,
		lexer.LPAREN:   p.parseCallExpression,
		lexer.LBRACKET: p.parseIndexExpression,
		lexer.DOT:      p.parseMemberExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Diagnostics returns every diagnostic collected while parsing.
func (p *Parser) Diagnostics() *errors.List { return &p.diags }

// Parse parses the whole token stream into a Module. Errors are
// accumulated in the returned list rather than aborting: the parser
// recovers at the next top-level statement boundary on most errors.
func (p *Parser) Parse() (mod *ast.Module, diags *errors.List) {
	defer func() {
		if r := recover(); r != nil {
			p.err(errors.PAR001, p.curPos(), fmt.Sprintf("internal parser error: %v", r))
			if mod == nil {
				mod = &ast.Module{Filename: p.file}
			}
			diags = &p.diags
		}
	}()

	mod = &ast.Module{Filename: p.file}
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseTopLevelStmt()
		if stmt != nil {
			mod.Statements = append(mod.Statements, stmt)
		}
		if !p.curTokenIs(lexer.EOF) {
			p.nextToken()
		}
	}
	return mod, &p.diags
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) peekPos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.peekToken.Line, Column: p.peekToken.Column}
}

// expectPeek advances past peekToken if it matches t, recording a
// diagnostic and leaving the cursor unmoved otherwise.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.err(errors.PAR001, p.peekPos(), fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type))
}

func (p *Parser) err(code string, pos ast.Pos, msg string) {
	p.diags.Add(errors.New(code, errors.PhaseParser, pos, msg))
}

// peekIsAs reports whether peekToken is the soft "as" cast keyword
// (never reserved by the lexer, so it arrives as a plain IDENT).
func (p *Parser) peekIsAs() bool {
	return p.peekTokenIs(lexer.IDENT) && p.peekToken.Literal == "as"
}

// --- top-level statements ---

func (p *Parser) parseTopLevelStmt() ast.Stmt {
	switch p.curToken.Type {
	case lexer.IMPORT:
		return p.parseImportStmt()
	case lexer.TYPE:
		return p.parseTypeDecl()
	case lexer.LET, lexer.VAR:
		return p.parseVarOrTupleBindDecl()
	case lexer.EXPORT, lexer.PURE, lexer.EXTERN, lexer.FN:
		return p.parseFuncDecl()
	case lexer.SEMI:
		return nil
	default:
		p.err(errors.PAR001, p.curPos(), fmt.Sprintf("unexpected top-level token %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseImportStmt() ast.Stmt {
	pos := p.curPos()
	if !p.expectPeek(lexer.STRING) {
		return nil
	}
	path := p.curToken.Literal
	if p.peekTokenIs(lexer.SEMI) {
		p.nextToken()
	}
	return &ast.Import{StmtBase: ast.NewStmtBase(pos), Path: path}
}

func (p *Parser) parseTypeDecl() ast.Stmt {
	pos := p.curPos()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	var fields []*ast.Field
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		fname := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		ftype := p.parseType()
		fields = append(fields, &ast.Field{Name: fname, Type: ftype})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.err(errors.PAR002, pos, fmt.Sprintf("unterminated type declaration %q, expected }", name))
	}
	return &ast.TypeDecl{StmtBase: ast.NewStmtBase(pos), Name: name, Fields: fields}
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	pos := p.curPos()
	var isExported, isPure, isExternal bool
loop:
	for {
		switch p.curToken.Type {
		case lexer.EXPORT:
			isExported = true
			p.nextToken()
		case lexer.PURE:
			isPure = true
			p.nextToken()
		case lexer.EXTERN:
			isExternal = true
			p.nextToken()
		default:
			break loop
		}
	}
	if !p.curTokenIs(lexer.FN) {
		p.err(errors.PAR001, p.curPos(), fmt.Sprintf("expected fn, got %s", p.curToken.Type))
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	typeParams := p.parseOptionalTypeParams()
	prevTypeParams := p.typeParams
	p.typeParams = typeParams
	defer func() { p.typeParams = prevTypeParams }()

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params := p.parseParamList()

	var returns []ast.Type
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		returns = p.parseReturnTypes()
	}

	fd := &ast.FuncDecl{
		StmtBase:   ast.NewStmtBase(pos),
		Name:       name,
		Params:     params,
		Returns:    returns,
		IsPure:     isPure,
		IsExternal: isExternal,
		IsExported: isExported,
	}

	switch {
	case p.peekTokenIs(lexer.LBRACE):
		p.nextToken()
		fd.Body = p.parseBlock()
	case p.peekTokenIs(lexer.SEMI):
		p.nextToken()
	default:
		p.peekError(lexer.LBRACE)
	}
	return fd
}

// parseOptionalTypeParams parses `<T, U, ...>` if present, returning the
// set of names it declares (nil if there is no type-parameter list).
func (p *Parser) parseOptionalTypeParams() map[string]bool {
	if !p.peekTokenIs(lexer.LT) {
		return nil
	}
	p.nextToken()
	p.nextToken()
	names := map[string]bool{}
	for {
		names[p.curToken.Literal] = true
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.GT)
	return names
}

func (p *Parser) parseReturnTypes() []ast.Type {
	if p.curTokenIs(lexer.LPAREN) {
		p.nextToken()
		var returns []ast.Type
		for {
			returns = append(returns, p.parseType())
			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.expectPeek(lexer.RPAREN)
		return returns
	}
	return []ast.Type{p.parseType()}
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		params = append(params, p.parseParam())
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

func (p *Parser) parseParam() *ast.Param {
	param := &ast.Param{}
	if p.curTokenIs(lexer.AMP) {
		param.IsRecv = true
		p.nextToken()
	}
	if p.curTokenIs(lexer.EXPR) {
		param.ExprParam = true
		p.nextToken()
	}
	param.Name = p.curToken.Literal
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseType()
	}
	return param
}

// --- types ---

var primitiveKinds = map[string]ast.PrimitiveKind{
	"i8": ast.I8, "i16": ast.I16, "i32": ast.I32, "i64": ast.I64,
	"u8": ast.U8, "u16": ast.U16, "u32": ast.U32, "u64": ast.U64,
	"f32": ast.F32, "f64": ast.F64, "bool": ast.Bool, "string": ast.String,
}

func (p *Parser) parseType() ast.Type {
	if p.curTokenIs(lexer.ARRAY) {
		return p.parseArrayType()
	}
	if !p.curTokenIs(lexer.IDENT) {
		p.err(errors.PAR001, p.curPos(), fmt.Sprintf("expected a type, got %s", p.curToken.Type))
		return nil
	}
	name := p.curToken.Literal
	if kind, ok := primitiveKinds[name]; ok {
		return ast.NewPrimitive(kind)
	}
	if p.typeParams != nil && p.typeParams[name] {
		return &ast.TypeVarType{Name: name}
	}
	return &ast.NamedType{Name: name}
}

func (p *Parser) parseArrayType() ast.Type {
	if !p.expectPeek(lexer.LT) {
		return nil
	}
	p.nextToken()
	elem := p.parseType()
	if !p.expectPeek(lexer.COMMA) {
		return nil
	}
	p.nextToken()
	size := p.parseExpression(RELATIONAL)
	if !p.expectPeek(lexer.GT) {
		return nil
	}
	return &ast.ArrayType{Element: elem, Size: size}
}

// --- var / tuple-bind decls (shared by top level and block scope) ---

func (p *Parser) parseVarOrTupleBindDecl() ast.Stmt {
	pos := p.curPos()
	isMutable := p.curTokenIs(lexer.VAR)
	p.nextToken()

	if p.curTokenIs(lexer.LPAREN) {
		return p.parseTupleBindDecl(pos, isMutable)
	}

	name := p.curToken.Literal
	var typ ast.Type
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseType()
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMI) {
		p.nextToken()
	}
	return &ast.VarDecl{StmtBase: ast.NewStmtBase(pos), Name: name, Type: typ, Value: val, IsMutable: isMutable}
}

func (p *Parser) parseTupleBindDecl(pos ast.Pos, isMutable bool) ast.Stmt {
	p.nextToken()
	var names []string
	for {
		names = append(names, p.curToken.Literal)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	val := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMI) {
		p.nextToken()
	}
	return &ast.TupleBindDecl{StmtBase: ast.NewStmtBase(pos), Names: names, Value: val, IsMutable: isMutable}
}
