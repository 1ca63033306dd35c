package parser

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/lexer"
)

// parseBlock parses a `{ ... }` body. curToken is on LBRACE on entry and
// on RBRACE on return. A trailing expression statement with no terminating
// semicolon becomes the block's ResultExpr rather than an ExprStmt, the
// same "last expression is the value" convention the checker already
// expects from monomorphization clones.
func (p *Parser) parseBlock() *ast.Block {
	pos := p.curPos()
	block := &ast.Block{ExprBase: ast.NewExprBase(pos)}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMI) {
			p.nextToken()
			continue
		}
		stmt, resultExpr := p.parseBlockStmt()
		if resultExpr != nil {
			block.ResultExpr = resultExpr
			p.nextToken()
			break
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseBlockStmt parses one statement inside a block. It returns either a
// Stmt, or (nil, Expr) when the statement turns out to be a bare
// expression immediately followed by RBRACE (the block's result).
func (p *Parser) parseBlockStmt() (ast.Stmt, ast.Expr) {
	switch p.curToken.Type {
	case lexer.LET, lexer.VAR:
		return p.parseVarOrTupleBindDecl(), nil
	case lexer.RETURN:
		return p.parseReturnStmt(), nil
	case lexer.BREAK:
		return p.parseBreakStmt(), nil
	case lexer.CONTINUE:
		return p.parseContinueStmt(), nil
	case lexer.IF:
		return p.parseConditionalStmt(), nil
	default:
		pos := p.curPos()
		expr := p.parseExpression(LOWEST)
		if p.peekTokenIs(lexer.RBRACE) {
			return nil, expr
		}
		stmt := &ast.ExprStmt{StmtBase: ast.NewStmtBase(pos), Expr: expr}
		if p.peekTokenIs(lexer.SEMI) {
			p.nextToken()
		}
		return stmt, nil
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.curPos()
	stmt := &ast.Return{StmtBase: ast.NewStmtBase(pos)}
	if p.peekTokenIs(lexer.SEMI) || p.peekTokenIs(lexer.RBRACE) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMI) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	stmt := &ast.Break{StmtBase: ast.NewStmtBase(p.curPos())}
	if p.peekTokenIs(lexer.SEMI) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseContinueStmt() ast.Stmt {
	stmt := &ast.Continue{StmtBase: ast.NewStmtBase(p.curPos())}
	if p.peekTokenIs(lexer.SEMI) {
		p.nextToken()
	}
	return stmt
}

// parseConditionalStmt parses `if cond { ... } [else ( if ... | { ... } )]`.
func (p *Parser) parseConditionalStmt() *ast.ConditionalStmt {
	pos := p.curPos()
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.ConditionalStmt{StmtBase: ast.NewStmtBase(pos), Condition: cond}
	}
	then := p.parseBlock()
	stmt := &ast.ConditionalStmt{StmtBase: ast.NewStmtBase(pos), Condition: cond, Then: then}

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			nested := p.parseConditionalStmt()
			stmt.Else = &ast.Block{
				ExprBase:   ast.NewExprBase(nested.Pos),
				Statements: []ast.Stmt{nested},
			}
			return stmt
		}
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		stmt.Else = p.parseBlock()
	}
	return stmt
}
