// Package checker implements local type inference, generic
// monomorphization, purity rules, tuple-return synthesis, and the
// compile-time-constant checks array sizes require.
package checker

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/cte"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/resolver"
	"github.com/vexel-lang/vexel/internal/scope"
)

// loopCtx tracks how many enclosing loops surround the expression
// currently being checked, so Break/Continue can be rejected outside a
// loop. Return is not checked against it.
type loopCtx struct {
	loopDepth int
}

// Checker is constructed once per module (mirrors the usual
// per-module Elaborator/TypeChecker pairing).
type Checker struct {
	Resolver *resolver.Resolver
	Registry *TypeRegistry
	Diags errors.List

	module *ast.Module
	root *scope.Scope
	checked map[uint64]bool

	mono *monoState

	// cteEnv accumulates folded top-level constants as globals, in the
	// order they're checked, so a later constant's initializer can read
	// an earlier one's Known value.
	cteEnv *cte.Env
}

// New creates a Checker ready to check mod. root is the module's top
// scope (tagged with its import instance id).
func New(mod *ast.Module, root *scope.Scope) *Checker {
	c := &Checker{
		Resolver: resolver.New(),
		Registry: NewTypeRegistry(),
		module: mod,
		root: root,
		checked: make(map[uint64]bool),
		cteEnv: cte.NewEnv(),
	}
	c.mono = newMonoState(c)
	return c
}

// CheckModule type-checks every top-level statement in order. It iterates
// by index, not range, because monomorphization appends new statements
// mid-loop that must also be checked before the pass finishes;
// re-entrancy into an already-checked statement is a no-op.
func (c *Checker) CheckModule() error {
	c.Resolver.Predeclare(c.module, c.root)
	c.declareTypeDecls()

	for i := 0; i < len(c.module.Statements); i++ {
		stmt := c.module.Statements[i]
		c.checkTopLevelStmt(stmt)
	}

	c.Diags.Extend(c.Resolver.Diags.Items())

	if c.Diags.HasErrors() {
		return &c.Diags
	}
	return nil
}

func (c *Checker) declareTypeDecls() {
	for _, stmt := range c.module.Statements {
		if td, ok := stmt.(*ast.TypeDecl); ok {
			c.Registry.Declare(td)
		}
	}
}

func (c *Checker) checkTopLevelStmt(stmt ast.Stmt) {
	if c.checked[stmt.ID()] {
		return
	}
	c.checked[stmt.ID()] = true

	switch s := stmt.(type) {
	case *ast.FuncDecl:
		c.checkFuncDecl(s)
	case *ast.TypeDecl:
		c.checkTypeDecl(s)
	case *ast.VarDecl:
		c.checkVarDecl(s, c.root, &loopCtx{})
	case *ast.Import:
		// The loader loads and checks each imported module on its own
		// before this checker runs; none of its declarations are added
		// to this module's scope, so there is nothing to validate here.
	default:
		c.checkStmt(stmt, c.root, &loopCtx{})
	}
}

// checkStmt handles statement kinds that can also appear nested inside a
// function body (everything except top-level-only FuncDecl/TypeDecl).
func (c *Checker) checkStmt(stmt ast.Stmt, sc *scope.Scope, lc *loopCtx) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(s, sc, lc)
	case *ast.TupleBindDecl:
		c.checkTupleBindDecl(s, sc, lc)
	case *ast.ExprStmt:
		c.checkExpr(s.Expr, sc, lc)
	case *ast.Return:
		if s.Value != nil {
			c.checkExpr(s.Value, sc, lc)
		}
	case *ast.Break:
		if lc.loopDepth == 0 {
			c.err(errors.SEM003, errors.PhaseTypeChecker, s.Pos, "break used outside a loop")
		}
	case *ast.Continue:
		if lc.loopDepth == 0 {
			c.err(errors.SEM003, errors.PhaseTypeChecker, s.Pos, "continue used outside a loop")
		}
	case *ast.ConditionalStmt:
		c.checkConditionalStmt(s, sc, lc)
	case *ast.FuncDecl:
		// Nested function declarations are not part of vexel's grammar;
		// guard defensively rather than panic if a future pass emits one.
		c.checkFuncDecl(s)
	default:
		panic(fmt.Sprintf("checker: unhandled statement %T", stmt))
	}
}

func (c *Checker) checkVarDecl(v *ast.VarDecl, sc *scope.Scope, lc *loopCtx) {
	var declared ast.Type
	if v.Type != nil {
		declared = v.Type
	}
	valType := c.checkExpr(v.Value, sc, lc)
	t := declared
	if t == nil {
		t = valType
	} else {
		c.checkAssignable(declared, valType, v.Value, v.Pos)
	}

	if sc == c.root && !v.IsMutable {
		c.checkConstant(v, t)
		return
	}

	c.Resolver.DeclareLocal(sc, &scope.Symbol{
		Name: v.Name,
		Kind: kindFor(v),
		Type: t,
		IsMutable: v.IsMutable,
		Declaration: v,
	}, v.Pos)
}

// checkConstant finishes checking a top-level constant: the resolver does
// not predeclare constants, so it defines the constant's symbol in the
// module root only now, after its initializer was checked (statements
// before it cannot see it), then attempts to fold the initializer with
// CTE, recording the result as a global for later constants to read.
func (c *Checker) checkConstant(v *ast.VarDecl, t ast.Type) {
	sym, ok := c.root.LookupLocal(v.Name)
	if !ok {
		sym = &scope.Symbol{Name: v.Name, Kind: scope.KindConstant, Declaration: v}
		c.root.Define(sym)
	}
	sym.Type = t

	r := cte.Eval(v.Value, c.cteEnv)
	switch r.Status {
	case cte.Known:
		c.cteEnv.SetGlobal(sym, r.Value)
	case cte.Error:
		c.Diags.Add(r.Diag)
	}
}

// checkTupleBindDecl validates Value is a registered tuple type with
// exactly len(Names) elements, records each element's type in Types, and
// declares one local symbol per name.
func (c *Checker) checkTupleBindDecl(d *ast.TupleBindDecl, sc *scope.Scope, lc *loopCtx) {
	vt := c.checkExpr(d.Value, sc, lc)
	named, ok := vt.(*ast.NamedType)
	if !ok || !c.Registry.IsTuple(named.Name) {
		c.err(errors.SEM001, errors.PhaseTypeChecker, d.Pos, "tuple-destructuring source must be a tuple-returning expression")
		return
	}
	elems, _ := c.Registry.TupleElements(named.Name)
	if len(elems) != len(d.Names) {
		c.err(errors.SEM008, errors.PhaseTypeChecker, d.Pos, "tuple-destructuring name count does not match the tuple's arity")
		return
	}
	d.Types = elems
	for i, name := range d.Names {
		c.Resolver.DeclareLocal(sc, &scope.Symbol{
			Name: name,
			Kind: kindForMutable(d.IsMutable),
			Type: elems[i],
			IsMutable: d.IsMutable,
			Declaration: d,
		}, d.Pos)
	}
}

func kindForMutable(mutable bool) scope.Kind {
	if mutable {
		return scope.KindVariable
	}
	return scope.KindConstant
}

func kindFor(v *ast.VarDecl) scope.Kind {
	if v.IsMutable {
		return scope.KindVariable
	}
	return scope.KindConstant
}

func (c *Checker) checkTypeDecl(t *ast.TypeDecl) {
	if recursiveType(t, c.Registry) {
		c.err(errors.SEM009, errors.PhaseTypeChecker, t.Pos, fmt.Sprintf("type %q is directly recursive", t.Name))
	}
}

// recursiveType rejects direct self-reference in any field: a type that
// embeds itself by name can never be constructed.
func recursiveType(t *ast.TypeDecl, reg *TypeRegistry) bool {
	for _, f := range t.Fields {
		if named, ok := f.Type.(*ast.NamedType); ok && named.Name == t.Name {
			return true
		}
	}
	return false
}

func (c *Checker) err(code, phase string, pos ast.Pos, msg string) {
	c.Diags.Add(errors.New(code, phase, pos, msg))
}
