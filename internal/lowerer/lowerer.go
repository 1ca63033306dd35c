// Package lowerer expands TupleBindDecl destructuring into a temporary
// plus one VarDecl per bound name, the last AST-to-AST pass before a
// backend consumes the module. It runs after residualization, so any
// tuple value that folded to a literal is already a TupleLiteral and the
// temporary's initializer is exactly that literal.
package lowerer

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
)

// Run lowers every TupleBindDecl reachable from mod's top-level
// statements and function bodies, returning whether anything changed.
func Run(mod *ast.Module) bool {
	l := &pass{}
	out := make([]ast.Stmt, 0, len(mod.Statements))
	for _, stmt := range mod.Statements {
		out = append(out, l.lowerTopLevel(stmt)...)
	}
	mod.Statements = out

	for _, stmt := range mod.Statements {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd.Body != nil {
			l.lowerBlock(fd.Body)
		}
	}
	return l.changed
}

type pass struct {
	changed bool
	tmpCounter int
}

func (l *pass) lowerTopLevel(stmt ast.Stmt) []ast.Stmt {
	tb, ok := stmt.(*ast.TupleBindDecl)
	if !ok {
		return []ast.Stmt{stmt}
	}
	l.changed = true
	return l.expandTupleBind(tb)
}

// lowerBlock rewrites b.Statements in place, splicing each
// TupleBindDecl into its expansion.
func (l *pass) lowerBlock(b *ast.Block) {
	out := make([]ast.Stmt, 0, len(b.Statements))
	for _, s := range b.Statements {
		switch v := s.(type) {
		case *ast.TupleBindDecl:
			l.changed = true
			out = append(out, l.expandTupleBind(v)...)
		case *ast.ConditionalStmt:
			l.lowerBlock(v.Then)
			if v.Else != nil {
				l.lowerBlock(v.Else)
			}
			out = append(out, v)
		default:
			out = append(out, s)
		}
	}
	b.Statements = out
}

// expandTupleBind turns `let (a, b) = value` into a hidden temporary
// holding value plus one VarDecl per name reading the temporary's "__i"
// field, so every later pass only ever sees plain VarDecls.
func (l *pass) expandTupleBind(tb *ast.TupleBindDecl) []ast.Stmt {
	l.tmpCounter++
	tmpName := tupleTempName(l.tmpCounter)

	tupleType := &ast.NamedType{Name: ast.TupleTypeName(tb.Types)}
	tmp := &ast.VarDecl{
		StmtBase: ast.NewStmtBase(tb.Pos),
		Name: tmpName,
		Type: tupleType,
		Value: tb.Value,
		IsMutable: false,
	}

	stmts := make([]ast.Stmt, 0, len(tb.Names)+1)
	stmts = append(stmts, tmp)
	for i, name := range tb.Names {
		if name == "_" {
			continue
		}
		member := &ast.Member{
			ExprBase: ast.NewExprBase(tb.Pos),
			Operand: &ast.Identifier{ExprBase: ast.NewExprBase(tb.Pos), Name: tmpName},
			Name: ast.TupleFieldName(i),
		}
		member.SetType(tb.Types[i])
		stmts = append(stmts, &ast.VarDecl{
			StmtBase: ast.NewStmtBase(tb.Pos),
			Name: name,
			Type: tb.Types[i],
			Value: member,
			IsMutable: tb.IsMutable,
		})
	}
	return stmts
}

func tupleTempName(n int) string {
	return fmt.Sprintf("__tuple_tmp_%d", n)
}
