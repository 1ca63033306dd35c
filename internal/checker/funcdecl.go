package checker

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/scope"
)

// IsGeneric reports whether f is generic: a function is generic if any
// non-expression parameter has no declared type or a TypeVar type, or if
// any declared return is a TypeVar.
func IsGeneric(f *ast.FuncDecl) bool {
	for _, p := range f.Params {
		if p.ExprParam {
			continue
		}
		if p.Type == nil || ast.IsTypeVar(p.Type) {
			return true
		}
	}
	for _, r := range f.Returns {
		if ast.IsTypeVar(r) {
			return true
		}
	}
	return false
}

func (c *Checker) checkFuncDecl(f *ast.FuncDecl) {
	if IsGeneric(f) {
		if f.IsExternal || f.IsExported {
			c.err(errors.SEM011, errors.PhaseTypeChecker, f.Pos, fmt.Sprintf("generic function %q cannot be external or exported", f.Name))
		}
		// Generic bodies are only checked once monomorphized; the
		// un-specialized declaration is left alone here.
		return
	}

	if f.IsExternal {
		for _, p := range f.Params {
			if p.Type != nil && !isPrimitive(p.Type) {
				c.err(errors.SEM010, errors.PhaseTypeChecker, f.Pos, fmt.Sprintf("external function %q parameter %q must be a primitive type", f.Name, p.Name))
			}
		}
		for _, r := range f.Returns {
			if !isPrimitive(r) {
				c.err(errors.SEM010, errors.PhaseTypeChecker, f.Pos, fmt.Sprintf("external function %q return type must be primitive", f.Name))
			}
		}
		// External bodies (if any) are provided by the backend, not
		// type-checked here.
		return
	}

	fnScope := c.root.Child()
	for _, p := range f.Params {
		fnScope.Define(&scope.Symbol{
			Name: p.Name,
			Kind: scope.KindVariable,
			Type: p.Type,
			IsMutable: p.IsRecv,
		})
	}

	lc := &loopCtx{}
	var result ast.Type
	if f.Body != nil {
		result = c.checkBlock(f.Body, fnScope, lc)
	}

	switch len(f.Returns) {
	case 0:
		// Void function: nothing further to unify.
	case 1:
		if result != nil && !typesCompatible(f.Returns[0], result) {
			c.err(errors.SEM001, errors.PhaseTypeChecker, f.Pos, fmt.Sprintf("function %q: body type %s does not match declared return %s", f.Name, result, f.Returns[0]))
		}
	default:
		// Multi-return functions are checked as returning a synthetic
		// Named tuple type.
		tupleName := ast.TupleTypeName(f.Returns)
		c.Registry.RegisterTuple(tupleName, f.Returns)
	}

	if isPurityViolated(f) {
		c.err(errors.SEM012, errors.PhaseTypeChecker, f.Pos, fmt.Sprintf("function %q mutates a receiver outside its own call", f.Name))
	}
}

func isPrimitive(t ast.Type) bool {
	_, ok := t.(*ast.PrimitiveType)
	return ok
}

// isPurityViolated always reports false: no declaration-level purity
// check is made. Assignment to a receiver parameter is rejected only
// during compile-time evaluation, where cte.Env tracks the current call
// frame's receivers.
func isPurityViolated(f *ast.FuncDecl) bool { return false }

func typesCompatible(declared, actual ast.Type) bool {
	if declared.Equals(actual) {
		return true
	}
	dp, dok := declared.(*ast.PrimitiveType)
	ap, aok := actual.(*ast.PrimitiveType)
	if dok && aok {
		return sameFamily(dp.Kind, ap.Kind)
	}
	return false
}
