// Package resource expands `resource{segment/segment/...}` expressions
// into literal AST nodes before the resolver ever sees them: a file
// becomes its contents as a string literal, a directory becomes an
// array of (filename, contents) tuples, and a missing path becomes an
// empty array of that same tuple type. This mirrors the loader's own
// file-resolution idiom (clean-and-join against a base path) rather
// than introducing a second path-handling convention.
package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
)

// EntryTupleType is the synthetic tuple type a resource directory
// expands into: `__Tuple2_string_string`.
var EntryTupleType = ast.TupleTypeName([]ast.Type{ast.NewPrimitive(ast.String), ast.NewPrimitive(ast.String)})

// Expander expands resource{} expressions against a fixed project root
// and the directory of the file currently being loaded.
type Expander struct {
	ProjectRoot string
	FileDir string
}

// Expand walks mod's top-level statements and substitutes every Resource
// expression it finds with its resolved literal, collecting diagnostics
// for paths that escape the project root.
func (x *Expander) Expand(mod *ast.Module) *errors.List {
	var diags errors.List
	for _, stmt := range mod.Statements {
		x.expandStmt(stmt, &diags)
	}
	return &diags
}

func (x *Expander) expandStmt(s ast.Stmt, diags *errors.List) {
	switch v := s.(type) {
	case *ast.VarDecl:
		v.Value = x.expandExpr(v.Value, diags)
	case *ast.TupleBindDecl:
		v.Value = x.expandExpr(v.Value, diags)
	case *ast.FuncDecl:
		if v.Body != nil {
			x.expandBlock(v.Body, diags)
		}
	case *ast.ExprStmt:
		v.Expr = x.expandExpr(v.Expr, diags)
	case *ast.Return:
		if v.Value != nil {
			v.Value = x.expandExpr(v.Value, diags)
		}
	case *ast.ConditionalStmt:
		x.expandBlock(v.Then, diags)
		if v.Else != nil {
			x.expandBlock(v.Else, diags)
		}
	}
}

func (x *Expander) expandBlock(b *ast.Block, diags *errors.List) {
	for _, s := range b.Statements {
		x.expandStmt(s, diags)
	}
	if b.ResultExpr != nil {
		b.ResultExpr = x.expandExpr(b.ResultExpr, diags)
	}
}

// expandExpr recurses into every expression-holding field, returning a
// possibly-replaced node for the slot the caller holds (Resource nodes
// are swapped out entirely; everything else keeps its own identity and
// has its children expanded in place).
func (x *Expander) expandExpr(e ast.Expr, diags *errors.List) ast.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.Resource:
		return x.expandResource(v, diags)
	case *ast.Binary:
		v.Left = x.expandExpr(v.Left, diags)
		v.Right = x.expandExpr(v.Right, diags)
	case *ast.Unary:
		v.Operand = x.expandExpr(v.Operand, diags)
	case *ast.Cast:
		v.Operand = x.expandExpr(v.Operand, diags)
	case *ast.Call:
		for i, a := range v.Receivers {
			v.Receivers[i] = x.expandExpr(a, diags)
		}
		for i, a := range v.Args {
			v.Args[i] = x.expandExpr(a, diags)
		}
	case *ast.Index:
		v.Operand = x.expandExpr(v.Operand, diags)
		for i, a := range v.Args {
			v.Args[i] = x.expandExpr(a, diags)
		}
	case *ast.Member:
		v.Operand = x.expandExpr(v.Operand, diags)
	case *ast.ArrayLiteral:
		for i, el := range v.Elements {
			v.Elements[i] = x.expandExpr(el, diags)
		}
	case *ast.TupleLiteral:
		for i, el := range v.Elements {
			v.Elements[i] = x.expandExpr(el, diags)
		}
	case *ast.Range:
		v.Left = x.expandExpr(v.Left, diags)
		v.Right = x.expandExpr(v.Right, diags)
	case *ast.Length:
		v.Operand = x.expandExpr(v.Operand, diags)
	case *ast.Conditional:
		v.Condition = x.expandExpr(v.Condition, diags)
		v.TrueExpr = x.expandExpr(v.TrueExpr, diags)
		v.FalseExpr = x.expandExpr(v.FalseExpr, diags)
	case *ast.Assignment:
		v.Left = x.expandExpr(v.Left, diags)
		v.Right = x.expandExpr(v.Right, diags)
	case *ast.Block:
		x.expandBlock(v, diags)
	case *ast.Iteration:
		v.Operand = x.expandExpr(v.Operand, diags)
		v.Right = x.expandExpr(v.Right, diags)
	case *ast.Repeat:
		v.Right = x.expandExpr(v.Right, diags)
		v.Condition = x.expandExpr(v.Condition, diags)
	}
	return e
}

func (x *Expander) expandResource(r *ast.Resource, diags *errors.List) ast.Expr {
	full := filepath.Join(x.FileDir, filepath.FromSlash(r.Path))
	full = filepath.Clean(full)

	rel, err := filepath.Rel(x.ProjectRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		diags.Add(errors.New(errors.RUN002, errors.PhaseResource, r.Pos, fmt.Sprintf("resource path %q escapes the project root", r.Path)))
		return r
	}

	info, err := os.Stat(full)
	if err != nil {
		return emptyEntryArray(r.Pos)
	}
	if !info.IsDir() {
		content, err := os.ReadFile(full)
		if err != nil {
			diags.Add(errors.New(errors.RUN002, errors.PhaseResource, r.Pos, fmt.Sprintf("resource %q: %v", r.Path, err)))
			return r
		}
		return &ast.StringLiteral{ExprBase: ast.NewExprBase(r.Pos), Value: string(content)}
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		diags.Add(errors.New(errors.RUN002, errors.PhaseResource, r.Pos, fmt.Sprintf("resource %q: %v", r.Path, err)))
		return r
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	elems := make([]ast.Expr, 0, len(entries))
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(full, de.Name()))
		if err != nil {
			diags.Add(errors.New(errors.RUN002, errors.PhaseResource, r.Pos, fmt.Sprintf("resource %q/%s: %v", r.Path, de.Name(), err)))
			continue
		}
		elems = append(elems, &ast.TupleLiteral{
			ExprBase: ast.NewExprBase(r.Pos),
			Elements: []ast.Expr{
				&ast.StringLiteral{ExprBase: ast.NewExprBase(r.Pos), Value: de.Name()},
				&ast.StringLiteral{ExprBase: ast.NewExprBase(r.Pos), Value: string(content)},
			},
		})
	}
	return &ast.ArrayLiteral{ExprBase: ast.NewExprBase(r.Pos), Elements: elems}
}

func emptyEntryArray(pos ast.Pos) ast.Expr {
	return &ast.ArrayLiteral{ExprBase: ast.NewExprBase(pos), Elements: nil}
}
