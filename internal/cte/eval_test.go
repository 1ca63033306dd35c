package cte

import (
	"testing"

	"github.com/vexel-lang/vexel/internal/ast"
)

func pos() ast.Pos { return ast.Pos{File: "t.vx", Line: 1, Column: 1} }

func intLit(v int64) *ast.IntLiteral {
	lit := &ast.IntLiteral{ExprBase: ast.NewExprBase(pos()), Value: v}
	lit.SetType(ast.NewPrimitive(ast.I32))
	return lit
}

func binary(op string, l, r ast.Expr, t ast.Type) *ast.Binary {
	b := &ast.Binary{ExprBase: ast.NewExprBase(pos()), Op: op, Left: l, Right: r}
	b.SetType(t)
	return b
}

func TestEvalBinaryArithFolds(t *testing.T) {
	b := binary("+", intLit(2), intLit(3), ast.NewPrimitive(ast.I32))
	r := Eval(b, NewEnv())
	if r.Status != Known {
		t.Fatalf("expected Known, got %v (%s)", r.Status, r.Reason)
	}
	iv, ok := r.Value.(IntVal)
	if !ok || iv.V != 5 {
		t.Fatalf("expected IntVal(5), got %#v", r.Value)
	}
}

func TestEvalDivisionByZeroIsError(t *testing.T) {
	b := binary("/", intLit(10), intLit(0), ast.NewPrimitive(ast.I32))
	r := Eval(b, NewEnv())
	if r.Status != Error {
		t.Fatalf("expected Error, got %v", r.Status)
	}
	if r.Diag.Code != "CTE001" {
		t.Fatalf("expected CTE001, got %s", r.Diag.Code)
	}
}

func TestEvalArithSaturatesToDeclaredWidth(t *testing.T) {
	b := binary("+", intLit(127), intLit(1), ast.NewPrimitive(ast.I8))
	r := Eval(b, NewEnv())
	if r.Status != Known {
		t.Fatalf("expected Known, got %v", r.Status)
	}
	iv := r.Value.(IntVal)
	if iv.V != -128 {
		t.Fatalf("expected wraparound to -128, got %d", iv.V)
	}
}

func TestEvalConditionalSkipsFalseBranch(t *testing.T) {
	cond := &ast.Binary{ExprBase: ast.NewExprBase(pos()), Op: "<", Left: intLit(1), Right: intLit(2)}
	cond.SetType(ast.NewPrimitive(ast.Bool))
	trueExpr := intLit(10)
	falseExpr := intLit(20)
	c := &ast.Conditional{ExprBase: ast.NewExprBase(pos()), Condition: cond, TrueExpr: trueExpr, FalseExpr: falseExpr}
	r := Eval(c, NewEnv())
	if r.Status != Known || r.Value.(IntVal).V != 10 {
		t.Fatalf("expected 10, got %#v status=%v", r.Value, r.Status)
	}
}

func TestEvalBlockBareYieldsZero(t *testing.T) {
	blk := &ast.Block{ExprBase: ast.NewExprBase(pos())}
	r := Eval(blk, NewEnv())
	if r.Status != Known || r.Value.(IntVal).V != 0 {
		t.Fatalf("expected Known 0, got %#v", r)
	}
}

func TestEvalBlockDeclarationDoesNotLeak(t *testing.T) {
	decl := &ast.VarDecl{StmtBase: ast.NewStmtBase(pos()), Name: "x", Value: intLit(7)}
	result := &ast.Identifier{ExprBase: ast.NewExprBase(pos()), Name: "x"}
	inner := &ast.Block{ExprBase: ast.NewExprBase(pos()), Statements: []ast.Stmt{decl}, ResultExpr: result}
	outer := &ast.Block{ExprBase: ast.NewExprBase(pos()), Statements: []ast.Stmt{&ast.ExprStmt{StmtBase: ast.NewStmtBase(pos()), Expr: inner}}, ResultExpr: result}
	r := Eval(outer, NewEnv())
	if r.Status != Unknown {
		t.Fatalf("expected Unknown once x is out of scope, got %v", r.Status)
	}
}

func TestEvalRangeMaterializesAscending(t *testing.T) {
	rg := &ast.Range{ExprBase: ast.NewExprBase(pos()), Left: intLit(1), Right: intLit(4)}
	r := Eval(rg, NewEnv())
	if r.Status != Known {
		t.Fatalf("expected Known, got %v", r.Status)
	}
	av := r.Value.(ArrayVal)
	if len(av.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(av.Elems))
	}
}

func TestEvalRangeRejectsEqualBounds(t *testing.T) {
	rg := &ast.Range{ExprBase: ast.NewExprBase(pos()), Left: intLit(5), Right: intLit(5)}
	r := Eval(rg, NewEnv())
	if r.Status != Error {
		t.Fatalf("expected Error, got %v", r.Status)
	}
}

func TestEvalLoopCapTrips(t *testing.T) {
	env := NewEnv().WithCaps(Caps{MaxRecursionDepth: 10, MaxLoopIterations: 2, MaxSteps: 1000})
	cond := &ast.Binary{ExprBase: ast.NewExprBase(pos()), Op: "==", Left: intLit(1), Right: intLit(2)}
	body := &ast.Block{ExprBase: ast.NewExprBase(pos())}
	rp := &ast.Repeat{ExprBase: ast.NewExprBase(pos()), Condition: cond, Right: body}
	r := Eval(rp, env)
	if r.Status != Error || r.Diag.Code != "CTE004" {
		t.Fatalf("expected CTE004 loop cap error, got %v %#v", r.Status, r.Diag)
	}
}
