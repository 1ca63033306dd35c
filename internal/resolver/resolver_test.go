package resolver

import (
	"testing"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/scope"
)

func TestPredeclareSkipsConstantsAndVariables(t *testing.T) {
	mod := &ast.Module{Statements: []ast.Stmt{
		&ast.FuncDecl{StmtBase: ast.NewStmtBase(ast.Pos{}), Name: "f"},
		&ast.TypeDecl{StmtBase: ast.NewStmtBase(ast.Pos{}), Name: "T"},
		&ast.VarDecl{StmtBase: ast.NewStmtBase(ast.Pos{}), Name: "K"},
	}}
	root := scope.New()
	r := New()
	r.Predeclare(mod, root)

	if _, ok := root.LookupLocal("f"); !ok {
		t.Fatalf("expected function f predeclared")
	}
	if _, ok := root.LookupLocal("T"); !ok {
		t.Fatalf("expected type T predeclared")
	}
	if _, ok := root.LookupLocal("K"); ok {
		t.Fatalf("did not expect constant K to be predeclared")
	}
}

func TestResolveIdentifierUndefined(t *testing.T) {
	root := scope.New()
	r := New()
	id := &ast.Identifier{ExprBase: ast.NewExprBase(ast.Pos{}), Name: "missing"}
	if _, ok := r.ResolveIdentifier(id, root); ok {
		t.Fatalf("expected resolution to fail")
	}
	if !r.Diags.HasErrors() {
		t.Fatalf("expected an undefined-identifier diagnostic")
	}
}

func TestResolveIdentifierIsIdempotent(t *testing.T) {
	root := scope.New()
	root.Define(&scope.Symbol{Name: "x", Kind: scope.KindConstant})
	r := New()
	id := &ast.Identifier{ExprBase: ast.NewExprBase(ast.Pos{}), Name: "x"}

	sym1, ok := r.ResolveIdentifier(id, root)
	if !ok {
		t.Fatalf("expected resolution to succeed")
	}

	// Mutate the scope to prove the second call doesn't re-look-up.
	root.Define(&scope.Symbol{Name: "x", Kind: scope.KindVariable})
	sym2, ok := r.ResolveIdentifier(id, root)
	if !ok || sym2 != sym1 {
		t.Fatalf("expected I2 re-resolution to be a no-op returning the original symbol")
	}
}
