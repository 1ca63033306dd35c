package parser

import (
	"strconv"
	"strings"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/lexer"
)

// Precedence levels, lowest to highest binding.
const (
	LOWEST int = iota
	ASSIGNPREC
	TERNARY
	LOGICALOR
	LOGICALAND
	BITOR
	BITXOR
	BITAND
	EQUALITY
	RELATIONAL
	SHIFT
	RANGEPREC
	ADDITIVE
	MULTIPLICATIVE
	CAST
	UNARY
	POSTFIX
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   ASSIGNPREC,
	lexer.WALRUS:   ASSIGNPREC,
	lexer.QUESTION: TERNARY,
	lexer.OROR:     LOGICALOR,
	lexer.ANDAND:   LOGICALAND,
	lexer.PIPE:     BITOR,
	lexer.CARET:    BITXOR,
	lexer.AMP:      BITAND,
	lexer.EQ:       EQUALITY,
	lexer.NEQ:      EQUALITY,
	lexer.LT:       RELATIONAL,
	lexer.GT:       RELATIONAL,
	lexer.LTE:      RELATIONAL,
	lexer.GTE:      RELATIONAL,
	lexer.SHL:      SHIFT,
	lexer.SHR:      SHIFT,
	lexer.DOTDOT:   RANGEPREC,
	lexer.PLUS:     ADDITIVE,
	lexer.MINUS:    ADDITIVE,
	lexer.STAR:     MULTIPLICATIVE,
	lexer.SLASH:    MULTIPLICATIVE,
	lexer.PERCENT:  MULTIPLICATIVE,
	lexer.LPAREN:   POSTFIX,
	lexer.LBRACKET: POSTFIX,
	lexer.DOT:      POSTFIX,
}

func (p *Parser) peekPrecedence() int {
	if p.peekIsAs() {
		return CAST
	}
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// parseExpression is the Pratt core: curToken sits on the first token of
// the expression on entry, and on its last token on return.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.err(errors.PAR001, p.curPos(), "unexpected token in expression position: "+p.curToken.Type.String())
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMI) && precedence < p.peekPrecedence() {
		if p.peekIsAs() {
			p.nextToken()
			left = p.parseCastExpression(left)
			continue
		}
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// --- prefix parslets ---

func (p *Parser) parseIdentifier() ast.Expr {
	return &ast.Identifier{ExprBase: ast.NewExprBase(p.curPos()), Name: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expr {
	pos := p.curPos()
	lit := p.curToken.Literal
	var value int64
	var err error
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		var uv uint64
		uv, err = strconv.ParseUint(lit[2:], 16, 64)
		value = int64(uv)
	} else {
		value, err = strconv.ParseInt(lit, 10, 64)
	}
	if err != nil {
		p.err(errors.PAR001, pos, "invalid integer literal "+strconv.Quote(lit))
	}
	return &ast.IntLiteral{
		ExprBase: ast.NewExprBase(pos),
		Value:    value,
		Unsigned: strings.HasPrefix(p.curToken.Suffix, "u"),
	}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	pos := p.curPos()
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.err(errors.PAR001, pos, "invalid float literal "+strconv.Quote(p.curToken.Literal))
	}
	return &ast.FloatLiteral{ExprBase: ast.NewExprBase(pos), Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return &ast.StringLiteral{ExprBase: ast.NewExprBase(p.curPos()), Value: p.curToken.Literal}
}

func (p *Parser) parseCharLiteral() ast.Expr {
	pos := p.curPos()
	var v byte
	if len(p.curToken.Literal) > 0 {
		v = p.curToken.Literal[0]
	}
	return &ast.CharLiteral{ExprBase: ast.NewExprBase(pos), Value: v}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return &ast.BoolLiteral{ExprBase: ast.NewExprBase(p.curPos()), Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expr {
	pos := p.curPos()
	op := p.curToken.Literal
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.Unary{ExprBase: ast.NewExprBase(pos), Op: op, Operand: operand}
}

func (p *Parser) parseLengthExpression() ast.Expr {
	pos := p.curPos()
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.Length{ExprBase: ast.NewExprBase(pos), Operand: operand}
}

// parseGroupedOrTupleExpression handles `(expr)` grouping and
// `(e1, e2, ...)` tuple literals, including the empty tuple `()`.
func (p *Parser) parseGroupedOrTupleExpression() ast.Expr {
	pos := p.curPos()
	p.nextToken()
	if p.curTokenIs(lexer.RPAREN) {
		return &ast.TupleLiteral{ExprBase: ast.NewExprBase(pos)}
	}
	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.expectPeek(lexer.RPAREN)
		return &ast.TupleLiteral{ExprBase: ast.NewExprBase(pos), Elements: elems}
	}
	p.expectPeek(lexer.RPAREN)
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	pos := p.curPos()
	p.nextToken()
	var elems []ast.Expr
	if !p.curTokenIs(lexer.RBRACKET) {
		elems = append(elems, p.parseExpression(LOWEST))
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.expectPeek(lexer.RBRACKET)
	}
	return &ast.ArrayLiteral{ExprBase: ast.NewExprBase(pos), Elements: elems}
}

// parseIterationExpression parses `for [sorted] _ in operand { body }`.
// The bound element is always the implicit name "_", per the checker's
// iteration-binding rule.
func (p *Parser) parseIterationExpression() ast.Expr {
	pos := p.curPos()
	p.nextToken()
	sorted := false
	if p.curTokenIs(lexer.SORTED) {
		sorted = true
		p.nextToken()
	}
	if p.curToken.Literal != "_" {
		p.err(errors.PAR001, p.curPos(), "for-loop binds the implicit element name \"_\"")
	}
	if !p.expectPeek(lexer.IN) {
		return &ast.Iteration{ExprBase: ast.NewExprBase(pos), IsSorted: sorted}
	}
	p.nextToken()
	operand := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.Iteration{ExprBase: ast.NewExprBase(pos), Operand: operand, IsSorted: sorted}
	}
	body := p.parseBlock()
	return &ast.Iteration{ExprBase: ast.NewExprBase(pos), Operand: operand, Right: body, IsSorted: sorted}
}

// parseRepeatExpression parses `repeat { body } until condition`.
func (p *Parser) parseRepeatExpression() ast.Expr {
	pos := p.curPos()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if !p.expectPeek(lexer.UNTIL) {
		return &ast.Repeat{ExprBase: ast.NewExprBase(pos), Right: body}
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	return &ast.Repeat{ExprBase: ast.NewExprBase(pos), Condition: cond, Right: body}
}

// consumeRawBraceBody assumes peekToken is LBRACE and reads the raw text
// up to (not including) the matching RBRACE directly off the lexer,
// bypassing normal tokenization for resource{}/process{} bodies whose
// contents (paths, shell commands) are not vexel token grammar. It
// leaves curToken on the RBRACE.
func (p *Parser) consumeRawBraceBody() (string, bool) {
	if !p.peekTokenIs(lexer.LBRACE) {
		p.peekError(lexer.LBRACE)
		return "", false
	}
	p.curToken = p.peekToken
	raw := p.l.ReadRawUntilRBrace()
	p.peekToken = p.l.NextToken()
	p.nextToken()
	return raw, true
}

func (p *Parser) parseResourceExpression() ast.Expr {
	pos := p.curPos()
	raw, ok := p.consumeRawBraceBody()
	if !ok {
		return &ast.Resource{ExprBase: ast.NewExprBase(pos)}
	}
	return &ast.Resource{ExprBase: ast.NewExprBase(pos), Path: raw}
}

func (p *Parser) parseProcessExpression() ast.Expr {
	pos := p.curPos()
	raw, ok := p.consumeRawBraceBody()
	if !ok {
		return &ast.Process{ExprBase: ast.NewExprBase(pos)}
	}
	return &ast.Process{ExprBase: ast.NewExprBase(pos), Command: raw}
}

// --- infix parslets ---

func (p *Parser) parseInfixExpression(left ast.Expr) ast.Expr {
	pos := p.curPos()
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.Binary{ExprBase: ast.NewExprBase(pos), Op: op, Left: left, Right: right}
}

func (p *Parser) parseRangeExpression(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	right := p.parseExpression(RANGEPREC)
	return &ast.Range{ExprBase: ast.NewExprBase(pos), Left: left, Right: right}
}

func (p *Parser) parseTernaryExpression(cond ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	trueExpr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	falseExpr := p.parseExpression(LOWEST)
	return &ast.Conditional{ExprBase: ast.NewExprBase(pos), Condition: cond, TrueExpr: trueExpr, FalseExpr: falseExpr}
}

// parseAssignmentExpression handles both `=` (rebind) and `:=` (walrus
// declaration-assignment, marking the LHS identifier CreatesNewVariable).
func (p *Parser) parseAssignmentExpression(left ast.Expr) ast.Expr {
	pos := p.curPos()
	creates := p.curTokenIs(lexer.WALRUS)
	p.nextToken()
	right := p.parseExpression(LOWEST)
	if creates {
		if id, ok := left.(*ast.Identifier); ok {
			id.CreatesNewVariable = true
		} else {
			p.err(errors.PAR001, pos, "walrus declaration target must be a plain identifier")
		}
	}
	return &ast.Assignment{ExprBase: ast.NewExprBase(pos), Left: left, Right: right, CreatesNewVariable: creates}
}

func (p *Parser) parseCastExpression(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	target := p.parseType()
	return &ast.Cast{ExprBase: ast.NewExprBase(pos), Operand: left, TargetType: target}
}

// parseCallExpression parses the argument list of a call; an argument
// prefixed with `&` is collected as a receiver rather than a plain arg.
func (p *Parser) parseCallExpression(operand ast.Expr) ast.Expr {
	pos := p.curPos()
	call := &ast.Call{ExprBase: ast.NewExprBase(pos), Operand: operand}
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	for {
		if p.curTokenIs(lexer.AMP) {
			p.nextToken()
			call.Receivers = append(call.Receivers, p.parseExpression(LOWEST))
		} else {
			call.Args = append(call.Args, p.parseExpression(LOWEST))
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return call
}

func (p *Parser) parseIndexExpression(operand ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return &ast.Index{ExprBase: ast.NewExprBase(pos), Operand: operand, Args: []ast.Expr{idx}}
}

// parseMemberExpression parses `.name` and the tuple-field shorthand
// `.0`, `.1`, ... which maps to the synthetic "__i" field name.
func (p *Parser) parseMemberExpression(operand ast.Expr) ast.Expr {
	pos := p.curPos()
	p.nextToken()
	var name string
	switch p.curToken.Type {
	case lexer.IDENT:
		name = p.curToken.Literal
	case lexer.INT:
		idx, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			p.err(errors.PAR001, p.curPos(), "invalid tuple field index "+strconv.Quote(p.curToken.Literal))
		}
		name = ast.TupleFieldName(idx)
	default:
		p.err(errors.PAR001, p.curPos(), "expected a field name after '.', got "+p.curToken.Type.String())
	}
	return &ast.Member{ExprBase: ast.NewExprBase(pos), Operand: operand, Name: name}
}
