// Package resolver implements two-phase name resolution: a predeclare
// pass over top-level functions/types, followed by on-demand resolution
// of identifiers and type names during type checking.
package resolver

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/scope"
)

// Resolver carries no state across modules; one instance is created per
// module being checked (mirroring a per-file resolver pass).
type Resolver struct {
	Diags errors.List
}

func New() *Resolver {
	return &Resolver{}
}

// Predeclare walks top-level statements once (phase 1): every
// FuncDecl and TypeDecl gets a symbol in root with its declaration
// pointer, before any type checking happens. Constants and variables are
// deliberately skipped here — they resolve in parse order during phase 2,
// so a constant can never observe a later top-level definition.
func (r *Resolver) Predeclare(mod *ast.Module, root *scope.Scope) {
	for _, stmt := range mod.Statements {
		switch d := stmt.(type) {
		case *ast.FuncDecl:
			r.declare(root, &scope.Symbol{
				Name: d.Name,
				Kind: scope.KindFunction,
				IsExternal: d.IsExternal,
				IsExported: d.IsExported,
				Declaration: d,
			})
		case *ast.TypeDecl:
			r.declare(root, &scope.Symbol{
				Name: d.Name,
				Kind: scope.KindType,
				Declaration: d,
			})
		}
	}
}

func (r *Resolver) declare(sc *scope.Scope, sym *scope.Symbol) {
	if shadowed := sc.Define(sym); shadowed {
		r.Diags.Add(errors.New(errors.RES002, errors.PhaseResolver, pos(sym.Declaration), fmt.Sprintf("%q shadows an existing definition", sym.Name)))
	}
}

func pos(n ast.Node) ast.Pos {
	if n == nil {
		return ast.Pos{}
	}
	return n.Position()
}

// DeclareLocal defines a new constant/variable/parameter symbol in sc,
// used by the type checker during phase 2 as it walks statements in parse
// order. Reports "name shadows existing definition" unless name is "_".
func (r *Resolver) DeclareLocal(sc *scope.Scope, sym *scope.Symbol, at ast.Pos) {
	if shadowed := sc.Define(sym); shadowed {
		r.Diags.Add(errors.New(errors.RES002, errors.PhaseResolver, at, fmt.Sprintf("%q shadows an existing definition", sym.Name)))
	}
}

// ResolveIdentifier attaches a symbol to id exactly once. If id
// already carries a ResolvedSymbol (e.g. because the enclosing statement
// is being re-checked idempotently), it is returned unchanged rather than
// looked up again.
func (r *Resolver) ResolveIdentifier(id *ast.Identifier, sc *scope.Scope) (*scope.Symbol, bool) {
	if id.ResolvedSymbol != nil {
		return id.ResolvedSymbol.(*scope.Symbol), true
	}
	sym, ok := sc.Lookup(id.Name)
	if !ok {
		r.Diags.Add(errors.New(errors.RES001, errors.PhaseResolver, id.Position(), fmt.Sprintf("undefined identifier: %s", id.Name)))
		return nil, false
	}
	id.ResolvedSymbol = sym
	return sym, true
}

// ResolveNamedType attaches a symbol to a NamedType exactly once.
func (r *Resolver) ResolveNamedType(nt *ast.NamedType, sc *scope.Scope) (*scope.Symbol, bool) {
	if nt.ResolvedSymbol != nil {
		return nt.ResolvedSymbol.(*scope.Symbol), true
	}
	sym, ok := sc.Lookup(nt.Name)
	if !ok {
		r.Diags.Add(errors.New(errors.RES001, errors.PhaseResolver, ast.Pos{}, fmt.Sprintf("undefined type: %s", nt.Name)))
		return nil, false
	}
	nt.ResolvedSymbol = sym
	return sym, true
}

// QualifiedFunctionName builds "TypeName::method" lookups
func QualifiedFunctionName(typeName, method string) string {
	return scope.QualifiedMethodName(typeName, method)
}
