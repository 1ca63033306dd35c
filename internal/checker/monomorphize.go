package checker

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/scope"
)

// monoState caches generic-function instantiations so that two call
// sites with the same concrete argument types reuse a single clone
// instead of emitting duplicate specializations.
type monoState struct {
	c *Checker
	cache map[string]*ast.FuncDecl
}

func newMonoState(c *Checker) *monoState {
	return &monoState{c: c, cache: make(map[string]*ast.FuncDecl)}
}

// instantiate returns a concrete FuncDecl specialized for argTypes,
// cloning and appending fd to the module's statement list the first time
// a given (name, scope instance, argument signature) combination is seen.
// The module's checker loop iterates Statements by index, so the
// appended clone is picked up and type-checked before CheckModule
// returns — this is the "drain loop" that lets monomorphization
// terminate without a separate worklist.
func (m *monoState) instantiate(fd *ast.FuncDecl, sym *scope.Symbol, argTypes []ast.Type) *ast.FuncDecl {
	key := fmt.Sprintf("%s|%d|%s", fd.Name, sym.ScopeInstanceID, ast.MangleTypeTag(argTypes))
	if cached, ok := m.cache[key]; ok {
		return cached
	}

	clone := ast.CloneFuncDecl(fd)
	clone.Name = fd.Name + "_G_" + ast.MangleTypeTag(argTypes)
	clone.IsMonomorphized = true
	clone.MonoOf = fd.Name

	typeVars := make(map[string]ast.Type)
	argIdx := 0
	for _, p := range clone.Params {
		if p.ExprParam {
			continue
		}
		if argIdx >= len(argTypes) {
			break
		}
		concrete := argTypes[argIdx]
		if p.Type == nil || ast.IsTypeVar(p.Type) {
			if tv, ok := p.Type.(*ast.TypeVarType); ok {
				typeVars[tv.Name] = concrete
			}
			p.Type = concrete
		}
		argIdx++
	}
	for i, r := range clone.Returns {
		if tv, ok := r.(*ast.TypeVarType); ok {
			if concrete, ok := typeVars[tv.Name]; ok {
				clone.Returns[i] = concrete
			}
		}
	}

	m.c.module.Statements = append(m.c.module.Statements, clone)
	m.c.root.Define(&scope.Symbol{
		Name: clone.Name,
		Kind: scope.KindFunction,
		IsExported: clone.IsExported,
		Declaration: clone,
	})

	m.cache[key] = clone
	return clone
}
