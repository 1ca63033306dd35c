package parser

import (
	"strings"
	"testing"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/lexer"
)

func parseModule(t *testing.T, input string) *ast.Module {
	t.Helper()
	l := lexer.New(input, "test.vx")
	p := New(l, "test.vx")
	mod, diags := p.Parse()
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", input, diags.Items())
	}
	return mod
}

func TestVarDecl(t *testing.T) {
	mod := parseModule(t, `let x: i32 = 5;`)
	if len(mod.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(mod.Statements))
	}
	v, ok := mod.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement is not *ast.VarDecl, got %T", mod.Statements[0])
	}
	if v.Name != "x" || v.IsMutable {
		t.Fatalf("unexpected VarDecl: %+v", v)
	}
	lit, ok := v.Value.(*ast.IntLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected IntLiteral(5), got %#v", v.Value)
	}
}

func TestVarDeclMutable(t *testing.T) {
	mod := parseModule(t, `var count = 0;`)
	v := mod.Statements[0].(*ast.VarDecl)
	if !v.IsMutable {
		t.Fatalf("expected var decl to be mutable")
	}
}

func TestTupleBindDecl(t *testing.T) {
	mod := parseModule(t, `let (a, b) = pair();`)
	tb, ok := mod.Statements[0].(*ast.TupleBindDecl)
	if !ok {
		t.Fatalf("statement is not *ast.TupleBindDecl, got %T", mod.Statements[0])
	}
	if len(tb.Names) != 2 || tb.Names[0] != "a" || tb.Names[1] != "b" {
		t.Fatalf("unexpected tuple bind names: %v", tb.Names)
	}
	call, ok := tb.Value.(*ast.Call)
	if !ok {
		t.Fatalf("tuple bind value is not *ast.Call, got %T", tb.Value)
	}
	ident, ok := call.Operand.(*ast.Identifier)
	if !ok || ident.Name != "pair" {
		t.Fatalf("unexpected call operand: %#v", call.Operand)
	}
}

func TestGenericFuncDecl(t *testing.T) {
	mod := parseModule(t, `fn id<T>(x: T) -> T { x }`)
	fd, ok := mod.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("statement is not *ast.FuncDecl, got %T", mod.Statements[0])
	}
	if fd.Name != "id" || len(fd.Params) != 1 {
		t.Fatalf("unexpected FuncDecl: %+v", fd)
	}
	if _, ok := fd.Params[0].Type.(*ast.TypeVarType); !ok {
		t.Fatalf("expected param type to be TypeVarType, got %#v", fd.Params[0].Type)
	}
	if len(fd.Returns) != 1 {
		t.Fatalf("expected 1 return type, got %d", len(fd.Returns))
	}
	if _, ok := fd.Returns[0].(*ast.TypeVarType); !ok {
		t.Fatalf("expected return type to be TypeVarType, got %#v", fd.Returns[0])
	}
	if fd.Body == nil || fd.Body.ResultExpr == nil {
		t.Fatalf("expected body with a result expression")
	}
}

func TestFuncDeclModifiersAndReceiver(t *testing.T) {
	mod := parseModule(t, `pure export fn bump(&x: i32, amount: i32) -> i32 { x }`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	if !fd.IsPure || !fd.IsExported || fd.IsExternal {
		t.Fatalf("unexpected modifiers: %+v", fd)
	}
	if len(fd.Params) != 2 || !fd.Params[0].IsRecv || fd.Params[1].IsRecv {
		t.Fatalf("unexpected params: %+v", fd.Params)
	}
}

func TestExternFuncDeclForwardDecl(t *testing.T) {
	mod := parseModule(t, `extern fn write(expr msg: string) -> i32;`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	if !fd.IsExternal || fd.Body != nil {
		t.Fatalf("unexpected extern FuncDecl: %+v", fd)
	}
	if len(fd.Params) != 1 || !fd.Params[0].ExprParam {
		t.Fatalf("expected an expression parameter: %+v", fd.Params)
	}
}

func TestTupleReturn(t *testing.T) {
	mod := parseModule(t, `fn pair() -> (i32, i32) { (1, 2) }`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	if len(fd.Returns) != 2 {
		t.Fatalf("expected 2 return types, got %d", len(fd.Returns))
	}
	tup, ok := fd.Body.ResultExpr.(*ast.TupleLiteral)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected a 2-tuple result expr, got %#v", fd.Body.ResultExpr)
	}
}

func TestArrayType(t *testing.T) {
	mod := parseModule(t, `let buf: array<u8, 16> = zeros();`)
	v := mod.Statements[0].(*ast.VarDecl)
	at, ok := v.Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected ArrayType, got %#v", v.Type)
	}
	prim, ok := at.Element.(*ast.PrimitiveType)
	if !ok || prim.Kind != ast.U8 {
		t.Fatalf("expected element type u8, got %#v", at.Element)
	}
	size, ok := ast.AsIntLiteral(at.Size)
	if !ok || size != 16 {
		t.Fatalf("expected size literal 16, got %#v", at.Size)
	}
}

func TestNestedArrayType(t *testing.T) {
	mod := parseModule(t, `let grid: array<array<u8, 2>, 3> = zeros();`)
	v := mod.Statements[0].(*ast.VarDecl)
	outer := v.Type.(*ast.ArrayType)
	inner, ok := outer.Element.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected nested ArrayType, got %#v", outer.Element)
	}
	n, _ := ast.AsIntLiteral(inner.Size)
	if n != 2 {
		t.Fatalf("expected inner size 2, got %d", n)
	}
}

func TestConditionalStmt(t *testing.T) {
	mod := parseModule(t, `
fn sign(x: i32) -> i32 {
	if x < 0 {
		return -1;
	} else if x > 0 {
		return 1;
	} else {
		return 0;
	}
}`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	if len(fd.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fd.Body.Statements))
	}
	cond, ok := fd.Body.Statements[0].(*ast.ConditionalStmt)
	if !ok {
		t.Fatalf("expected ConditionalStmt, got %T", fd.Body.Statements[0])
	}
	if cond.Else == nil || len(cond.Else.Statements) != 1 {
		t.Fatalf("expected nested else-if chain, got %+v", cond.Else)
	}
	if _, ok := cond.Else.Statements[0].(*ast.ConditionalStmt); !ok {
		t.Fatalf("expected else-if to nest a ConditionalStmt, got %T", cond.Else.Statements[0])
	}
}

func TestTernaryExpression(t *testing.T) {
	mod := parseModule(t, `let x = a > b ? a : b;`)
	v := mod.Statements[0].(*ast.VarDecl)
	c, ok := v.Value.(*ast.Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %T", v.Value)
	}
	if _, ok := c.Condition.(*ast.Binary); !ok {
		t.Fatalf("expected Binary condition, got %T", c.Condition)
	}
}

func TestCastExpression(t *testing.T) {
	mod := parseModule(t, `let x = y as i64;`)
	v := mod.Statements[0].(*ast.VarDecl)
	cast, ok := v.Value.(*ast.Cast)
	if !ok {
		t.Fatalf("expected Cast, got %T", v.Value)
	}
	prim, ok := cast.TargetType.(*ast.PrimitiveType)
	if !ok || prim.Kind != ast.I64 {
		t.Fatalf("expected target type i64, got %#v", cast.TargetType)
	}
}

func TestIterationExpression(t *testing.T) {
	mod := parseModule(t, `
fn sumAll(xs: array<i32, 4>) -> i32 {
	var total = 0;
	for sorted _ in xs {
		total = total + 1;
	}
	total
}`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	var iterStmt *ast.ExprStmt
	for _, s := range fd.Body.Statements {
		if es, ok := s.(*ast.ExprStmt); ok {
			if _, ok := es.Expr.(*ast.Iteration); ok {
				iterStmt = es
			}
		}
	}
	if iterStmt == nil {
		t.Fatalf("expected an iteration expression statement in body")
	}
	iter := iterStmt.Expr.(*ast.Iteration)
	if !iter.IsSorted {
		t.Fatalf("expected IsSorted true")
	}
}

func TestRepeatExpression(t *testing.T) {
	mod := parseModule(t, `
fn countdown(n: i32) -> i32 {
	repeat {
		n = n - 1;
	} until n == 0;
	n
}`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	found := false
	for _, s := range fd.Body.Statements {
		if es, ok := s.(*ast.ExprStmt); ok {
			if _, ok := es.Expr.(*ast.Repeat); ok {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a repeat expression statement in body")
	}
}

func TestResourceExpression(t *testing.T) {
	mod := parseModule(t, `let cfg = resource{config/app.toml};`)
	v := mod.Statements[0].(*ast.VarDecl)
	r, ok := v.Value.(*ast.Resource)
	if !ok {
		t.Fatalf("expected Resource, got %T", v.Value)
	}
	if strings.TrimSpace(r.Path) != "config/app.toml" {
		t.Fatalf("unexpected resource path %q", r.Path)
	}
}

func TestProcessExpression(t *testing.T) {
	mod := parseModule(t, `let rev = process{git rev-parse HEAD};`)
	v := mod.Statements[0].(*ast.VarDecl)
	pr, ok := v.Value.(*ast.Process)
	if !ok {
		t.Fatalf("expected Process, got %T", v.Value)
	}
	if strings.TrimSpace(pr.Command) != "git rev-parse HEAD" {
		t.Fatalf("unexpected process command %q", pr.Command)
	}
}

func TestTupleFieldAccess(t *testing.T) {
	mod := parseModule(t, `let x = pair().0;`)
	v := mod.Statements[0].(*ast.VarDecl)
	m, ok := v.Value.(*ast.Member)
	if !ok {
		t.Fatalf("expected Member, got %T", v.Value)
	}
	if m.Name != ast.TupleFieldName(0) {
		t.Fatalf("expected tuple field name %q, got %q", ast.TupleFieldName(0), m.Name)
	}
}

func TestTypeDecl(t *testing.T) {
	mod := parseModule(t, `
type Point {
	x: i32,
	y: i32,
}`)
	td, ok := mod.Statements[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("expected TypeDecl, got %T", mod.Statements[0])
	}
	if td.Name != "Point" || len(td.Fields) != 2 {
		t.Fatalf("unexpected TypeDecl: %+v", td)
	}
}

func TestImportStmt(t *testing.T) {
	mod := parseModule(t, `import "collections/list";`)
	im, ok := mod.Statements[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected Import, got %T", mod.Statements[0])
	}
	if im.Path != "collections/list" {
		t.Fatalf("unexpected import path %q", im.Path)
	}
}

func TestWalrusAssignment(t *testing.T) {
	mod := parseModule(t, `
fn run() -> i32 {
	y := 3;
	y
}`)
	fd := mod.Statements[0].(*ast.FuncDecl)
	es, ok := fd.Body.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", fd.Body.Statements[0])
	}
	assign, ok := es.Expr.(*ast.Assignment)
	if !ok || !assign.CreatesNewVariable {
		t.Fatalf("expected walrus Assignment, got %#v", es.Expr)
	}
	ident, ok := assign.Left.(*ast.Identifier)
	if !ok || !ident.CreatesNewVariable {
		t.Fatalf("expected left identifier to carry CreatesNewVariable, got %#v", assign.Left)
	}
}

func TestPrecedenceDump(t *testing.T) {
	mod := parseModule(t, `let x = 1 + 2 * 3;`)
	v := mod.Statements[0].(*ast.VarDecl)
	dumped := ast.Dump(v.Value)
	if dumped != "(+ 1 (* 2 3))" {
		t.Fatalf("expected multiplication to bind tighter in dump: %s", dumped)
	}
}
