package checker

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/cte"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/scope"
)

// checkExpr infers/validates e's type, records it on e's type slot
// (except for genuinely void expressions), and returns it. Dispatch
// covers every Expr kind; unsupported combinations raise SEM001.
func (c *Checker) checkExpr(e ast.Expr, sc *scope.Scope, lc *loopCtx) ast.Type {
	switch v := e.(type) {
	case *ast.IntLiteral:
		t := SmallestFittingPrimitive(v)
		v.SetType(t)
		return t
	case *ast.FloatLiteral:
		t := ast.NewPrimitive(ast.F64)
		v.SetType(t)
		return t
	case *ast.StringLiteral:
		t := ast.NewPrimitive(ast.String)
		v.SetType(t)
		return t
	case *ast.CharLiteral:
		t := ast.NewPrimitive(ast.U8)
		v.SetType(t)
		return t
	case *ast.BoolLiteral:
		t := ast.NewPrimitive(ast.Bool)
		v.SetType(t)
		return t
	case *ast.Identifier:
		return c.checkIdentifier(v, sc, lc)
	case *ast.Binary:
		return c.checkBinary(v, sc, lc)
	case *ast.Unary:
		return c.checkUnary(v, sc, lc)
	case *ast.Cast:
		return c.checkCast(v, sc, lc)
	case *ast.Call:
		return c.checkCall(v, sc, lc)
	case *ast.Index:
		return c.checkIndex(v, sc, lc)
	case *ast.Member:
		return c.checkMember(v, sc, lc)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(v, sc, lc)
	case *ast.TupleLiteral:
		return c.checkTupleLiteral(v, sc, lc)
	case *ast.Range:
		return c.checkRange(v, sc, lc)
	case *ast.Length:
		return c.checkLength(v, sc, lc)
	case *ast.Conditional:
		return c.checkConditional(v, sc, lc)
	case *ast.Assignment:
		return c.checkAssignment(v, sc, lc)
	case *ast.Block:
		return c.checkBlock(v, sc, lc)
	case *ast.Iteration:
		return c.checkIteration(v, sc, lc)
	case *ast.Repeat:
		return c.checkRepeat(v, sc, lc)
	case *ast.Resource, *ast.Process:
		// Expanded away by their loader collaborators before the
		// resolver ever runs in a fully wired pipeline.
		return nil
	default:
		panic(fmt.Sprintf("checker: unhandled expression %T", e))
	}
}

func (c *Checker) checkIdentifier(id *ast.Identifier, sc *scope.Scope, lc *loopCtx) ast.Type {
	sym, ok := c.Resolver.ResolveIdentifier(id, sc)
	if !ok {
		return nil
	}
	if sym.Kind == scope.KindConstant && sym.Type == nil {
		if vd, isVd := sym.Declaration.(*ast.VarDecl); isVd {
			if c.checked[vd.ID()] {
				c.err(errors.CTE006, errors.PhaseCTE, id.Pos, fmt.Sprintf("compile-time dependency cycle detected at symbol: %s", sym.Name))
				return nil
			}
			c.checkTopLevelStmt(vd)
		}
	}
	id.SetType(sym.Type)
	return sym.Type
}

func (c *Checker) checkBinary(b *ast.Binary, sc *scope.Scope, lc *loopCtx) ast.Type {
	lt := c.checkExpr(b.Left, sc, lc)
	rt := c.checkExpr(b.Right, sc, lc)
	if lt == nil || rt == nil {
		return nil
	}

	switch b.Op {
	case "&&", "||":
		if !isBoolType(lt) || !isBoolType(rt) {
			c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("operator %q requires bool operands", b.Op))
		}
		t := ast.NewPrimitive(ast.Bool)
		b.SetType(t)
		return t
	case "==", "!=":
		if !lt.Equals(rt) && !(isPrimitive(lt) && isPrimitive(rt) && sameFamily(lt.(*ast.PrimitiveType).Kind, rt.(*ast.PrimitiveType).Kind)) {
			c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("cannot compare %s and %s", lt, rt))
		}
		t := ast.NewPrimitive(ast.Bool)
		b.SetType(t)
		return t
	case "<", "<=", ">", ">=":
		if _, ok := UnifyArith(lt, rt); !ok {
			c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("cannot compare %s and %s", lt, rt))
		}
		t := ast.NewPrimitive(ast.Bool)
		b.SetType(t)
		return t
	case "%", "&", "|", "^":
		if !isUnsignedType(lt) || !isUnsignedType(rt) {
			c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("operator %q requires unsigned operands", b.Op))
			b.SetType(lt)
			return lt
		}
		t, _ := UnifyArith(lt, rt)
		if t == nil {
			t = lt
		}
		b.SetType(t)
		return t
	case "<<", ">>":
		if !isUnsignedType(lt) || !isUnsignedType(rt) {
			c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("operator %q requires unsigned operands", b.Op))
		}
		b.SetType(lt)
		return lt
	case "+":
		if isStringType(lt) && isStringType(rt) {
			t := ast.NewPrimitive(ast.String)
			b.SetType(t)
			return t
		}
		fallthrough
	case "-", "*", "/":
		t, ok := UnifyArith(lt, rt)
		if !ok {
			c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("operator %q: incompatible operand types %s, %s", b.Op, lt, rt))
			t = lt
		}
		b.SetType(t)
		return t
	default:
		c.err(errors.SEM001, errors.PhaseTypeChecker, b.Pos, fmt.Sprintf("unknown operator %q", b.Op))
		return lt
	}
}

func (c *Checker) checkUnary(u *ast.Unary, sc *scope.Scope, lc *loopCtx) ast.Type {
	t := c.checkExpr(u.Operand, sc, lc)
	if t == nil {
		return nil
	}
	if u.Op == "!" && !isBoolType(t) {
		c.err(errors.SEM001, errors.PhaseTypeChecker, u.Pos, "operator \"!\" requires a bool operand")
	}
	u.SetType(t)
	return t
}

func (c *Checker) checkCast(cst *ast.Cast, sc *scope.Scope, lc *loopCtx) ast.Type {
	c.checkExpr(cst.Operand, sc, lc)
	if at, ok := cst.TargetType.(*ast.ArrayType); ok {
		if pt, ok := at.Element.(*ast.PrimitiveType); ok && pt.Kind == ast.Bool {
			// array<bool,N> is itself the valid cast-to target family;
			// nothing further to check here at the type level.
		}
		if _, known := ast.AsIntLiteral(at.Size); !known {
			c.err(errors.SEM007, errors.PhaseTypeChecker, cst.Pos, "array cast target size must be a literal")
		}
	}
	cst.SetType(cst.TargetType)
	return cst.TargetType
}

// checkCall dispatches an Operand identifier either as a type constructor
// (when its name resolves to a declared composite type, producing that
// Named type) or as a function call (resolving arity, triggering
// monomorphization for a generic callee, and yielding its return type —
// wrapped as a synthetic tuple Named type for a multi-return function).
func (c *Checker) checkCall(call *ast.Call, sc *scope.Scope, lc *loopCtx) ast.Type {
	for _, r := range call.Receivers {
		c.checkExpr(r, sc, lc)
	}
	for _, a := range call.Args {
		c.checkExpr(a, sc, lc)
	}

	name, ok := call.Operand.(*ast.Identifier)
	if !ok {
		c.err(errors.SEM015, errors.PhaseTypeChecker, call.Pos, "call target must be a function or type name")
		return nil
	}

	if td, ok := c.Registry.Lookup(name.Name); ok {
		t := &ast.NamedType{Name: td.Name}
		call.SetType(t)
		return t
	}

	sym, ok := c.Resolver.ResolveIdentifier(name, sc)
	if !ok {
		return nil
	}
	if sym.Kind != scope.KindFunction {
		c.err(errors.SEM015, errors.PhaseTypeChecker, call.Pos, fmt.Sprintf("%q is not callable", name.Name))
		return nil
	}

	fd, ok := sym.Declaration.(*ast.FuncDecl)
	if !ok {
		return nil
	}

	if IsGeneric(fd) {
		argTypes := make([]ast.Type, 0, len(call.Args))
		for _, a := range call.Args {
			argTypes = append(argTypes, a.GetType())
		}
		inst := c.mono.instantiate(fd, sym, argTypes)
		if inst == nil {
			return nil
		}
		fd = inst
		// Rebind the call site to the concrete specialization so the
		// residualizer/lowerer see a direct reference to the clone
		// rather than the still-generic declaration.
		name.Name = fd.Name
		name.ResolvedSymbol = nil
		c.Resolver.ResolveIdentifier(name, c.root)
	}

	wantArgs := 0
	for _, p := range fd.Params {
		if !p.IsRecv {
			wantArgs++
		}
	}
	if wantArgs != len(call.Args) || len(fd.Params)-wantArgs != len(call.Receivers) {
		c.err(errors.SEM008, errors.PhaseTypeChecker, call.Pos, fmt.Sprintf("function %q: argument count mismatch", fd.Name))
	}

	switch len(fd.Returns) {
	case 0:
		call.SetType(nil)
		return nil
	case 1:
		call.SetType(fd.Returns[0])
		return fd.Returns[0]
	default:
		tname := ast.TupleTypeName(fd.Returns)
		c.Registry.RegisterTuple(tname, fd.Returns)
		t := &ast.NamedType{Name: tname}
		call.SetType(t)
		return t
	}
}

func (c *Checker) checkIndex(ix *ast.Index, sc *scope.Scope, lc *loopCtx) ast.Type {
	ot := c.checkExpr(ix.Operand, sc, lc)
	for _, a := range ix.Args {
		c.checkExpr(a, sc, lc)
	}
	var t ast.Type
	switch base := ot.(type) {
	case *ast.ArrayType:
		t = base.Element
	case *ast.PrimitiveType:
		if base.Kind == ast.String {
			t = ast.NewPrimitive(ast.U8)
		}
	}
	if t == nil {
		c.err(errors.SEM001, errors.PhaseTypeChecker, ix.Pos, fmt.Sprintf("cannot index into %s", ot))
		return nil
	}
	ix.SetType(t)
	return t
}

func (c *Checker) checkMember(m *ast.Member, sc *scope.Scope, lc *loopCtx) ast.Type {
	ot := c.checkExpr(m.Operand, sc, lc)
	named, ok := ot.(*ast.NamedType)
	if !ok {
		c.err(errors.SEM014, errors.PhaseTypeChecker, m.Pos, fmt.Sprintf("%s has no members", ot))
		return nil
	}
	ft, ok := c.Registry.Field(named.Name, m.Name)
	if !ok {
		c.err(errors.SEM014, errors.PhaseTypeChecker, m.Pos, fmt.Sprintf("%s has no field %q", named.Name, m.Name))
		return nil
	}
	m.SetType(ft)
	return ft
}

func (c *Checker) checkArrayLiteral(a *ast.ArrayLiteral, sc *scope.Scope, lc *loopCtx) ast.Type {
	var elemType ast.Type
	for _, e := range a.Elements {
		t := c.checkExpr(e, sc, lc)
		if elemType == nil {
			elemType = t
		}
	}
	sizeLit := &ast.IntLiteral{ExprBase: ast.NewExprBase(a.Pos), Value: int64(len(a.Elements))}
	t := &ast.ArrayType{Element: elemType, Size: sizeLit}
	a.SetType(t)
	return t
}

func (c *Checker) checkTupleLiteral(tup *ast.TupleLiteral, sc *scope.Scope, lc *loopCtx) ast.Type {
	elemTypes := make([]ast.Type, len(tup.Elements))
	for i, e := range tup.Elements {
		elemTypes[i] = c.checkExpr(e, sc, lc)
	}
	name := ast.TupleTypeName(elemTypes)
	c.Registry.RegisterTuple(name, elemTypes)
	t := &ast.NamedType{Name: name}
	tup.SetType(t)
	return t
}

func (c *Checker) checkRange(r *ast.Range, sc *scope.Scope, lc *loopCtx) ast.Type {
	c.checkExpr(r.Left, sc, lc)
	c.checkExpr(r.Right, sc, lc)

	lv, lok := c.constEvalInt(r.Left)
	rv, rok := c.constEvalInt(r.Right)
	if !lok || !rok {
		c.err(errors.SEM006, errors.PhaseTypeChecker, r.Pos, "range bounds must be compile-time integer constants")
	} else if lv == rv {
		c.err(errors.SEM005, errors.PhaseTypeChecker, r.Pos, "range with equal bounds is not allowed")
	}

	n := rv - lv
	if n < 0 {
		n = -n
	}
	sizeLit := &ast.IntLiteral{ExprBase: ast.NewExprBase(r.Pos), Value: n}
	t := &ast.ArrayType{Element: ast.NewPrimitive(ast.I64), Size: sizeLit}
	r.SetType(t)
	return t
}

func (c *Checker) checkLength(l *ast.Length, sc *scope.Scope, lc *loopCtx) ast.Type {
	c.checkExpr(l.Operand, sc, lc)
	t := ast.NewPrimitive(ast.U64)
	l.SetType(t)
	return t
}

func (c *Checker) checkConditional(cond *ast.Conditional, sc *scope.Scope, lc *loopCtx) ast.Type {
	condType := c.checkExpr(cond.Condition, sc, lc)
	if condType != nil && !isBoolType(condType) {
		c.err(errors.SEM001, errors.PhaseTypeChecker, cond.Pos, "conditional expression's condition must be bool")
	}

	if v, ok := c.constEvalBool(cond.Condition); ok {
		var t ast.Type
		if v {
			t = c.checkExpr(cond.TrueExpr, sc, lc)
		} else {
			t = c.checkExpr(cond.FalseExpr, sc, lc)
		}
		cond.SetType(t)
		return t
	}

	tt := c.checkExpr(cond.TrueExpr, sc, lc)
	ft := c.checkExpr(cond.FalseExpr, sc, lc)
	if tt != nil && ft != nil && !tt.Equals(ft) {
		if u, ok := UnifyArith(tt, ft); ok {
			tt = u
		} else {
			c.err(errors.SEM001, errors.PhaseTypeChecker, cond.Pos, fmt.Sprintf("conditional branches disagree: %s vs %s", tt, ft))
		}
	}
	cond.SetType(tt)
	return tt
}

func (c *Checker) checkAssignment(a *ast.Assignment, sc *scope.Scope, lc *loopCtx) ast.Type {
	rt := c.checkExpr(a.Right, sc, lc)

	if a.CreatesNewVariable {
		id, ok := a.Left.(*ast.Identifier)
		if !ok {
			c.err(errors.SEM001, errors.PhaseTypeChecker, a.Pos, "declaration-assignment requires a bare identifier on the left")
			return rt
		}
		sym := &scope.Symbol{Name: id.Name, Kind: scope.KindVariable, Type: rt, IsMutable: true, Declaration: a}
		c.Resolver.DeclareLocal(sc, sym, id.Pos)
		id.ResolvedSymbol = sym
		id.SetType(rt)
		a.SetType(rt)
		return rt
	}

	switch lhs := a.Left.(type) {
	case *ast.Identifier:
		sym, ok := c.Resolver.ResolveIdentifier(lhs, sc)
		if !ok {
			return rt
		}
		if !sym.IsMutable {
			c.err(errors.SEM002, errors.PhaseTypeChecker, a.Pos, fmt.Sprintf("cannot assign to immutable constant %q", sym.Name))
		}
		c.checkAssignable(sym.Type, rt, a.Right, a.Pos)
	default:
		lt := c.checkExpr(a.Left, sc, lc)
		c.checkAssignable(lt, rt, a.Right, a.Pos)
	}
	a.SetType(rt)
	return rt
}

// checkAssignable validates that actual (the checked type of actualExpr)
// may flow into declared, special-casing a bare integer literal so it is
// judged by range-fit rather than by its provisionally inferred type.
func (c *Checker) checkAssignable(declared, actual ast.Type, actualExpr ast.Expr, pos ast.Pos) {
	if declared == nil || actual == nil {
		return
	}
	if lit, ok := actualExpr.(*ast.IntLiteral); ok {
		if dp, ok := declared.(*ast.PrimitiveType); ok {
			if !LiteralAssignableTo(dp, lit) {
				c.err(errors.SEM001, errors.PhaseTypeChecker, pos, fmt.Sprintf("literal does not fit target type %s", declared))
			}
			return
		}
	}
	if !typesCompatible(declared, actual) {
		c.err(errors.SEM001, errors.PhaseTypeChecker, pos, fmt.Sprintf("cannot assign %s to %s", actual, declared))
	}
}

func isBoolType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.Bool
}

func isStringType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind == ast.String
}

func isUnsignedType(t ast.Type) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Kind.IsUnsigned()
}

// checkIteration validates Operand is iterable (an array, or a Named type
// exposing an "@"/"@@" iteration-hook method) and checks Right with the
// loop depth incremented so break/continue are legal inside it. For an
// array operand, "_" is bound to the element type inside Right. A
// NamedType iteration is only validated: no pass rewrites it into the
// hook Call, and "_" is not bound for it.
func (c *Checker) checkIteration(it *ast.Iteration, sc *scope.Scope, lc *loopCtx) ast.Type {
	ot := c.checkExpr(it.Operand, sc, lc)
	switch t := ot.(type) {
	case *ast.ArrayType:
		// Direct array traversal: no resolver lookup needed.
	case *ast.NamedType:
		suffix := scope.IterMethodSuffix
		if it.IsSorted {
			suffix = scope.SortedIterMethodSuffix
		}
		qname := scope.QualifiedMethodName(t.Name, suffix)
		if _, ok := sc.Lookup(qname); !ok {
			c.err(errors.SEM013, errors.PhaseTypeChecker, it.Pos, fmt.Sprintf("%s has no %q iteration hook", t.Name, suffix))
		}
	case nil:
		// Operand failed to type; already diagnosed.
	default:
		c.err(errors.SEM013, errors.PhaseTypeChecker, it.Pos, fmt.Sprintf("%s is not iterable", ot))
	}

	inner := &loopCtx{loopDepth: lc.loopDepth + 1}
	bodyScope := sc.Child()
	if at, ok := ot.(*ast.ArrayType); ok {
		bodyScope.Define(&scope.Symbol{Name: "_", Kind: scope.KindConstant, Type: at.Element, Declaration: it})
	}
	c.checkExpr(it.Right, bodyScope, inner)
	it.SetType(nil)
	return nil
}

func (c *Checker) checkRepeat(rp *ast.Repeat, sc *scope.Scope, lc *loopCtx) ast.Type {
	inner := &loopCtx{loopDepth: lc.loopDepth + 1}
	c.checkExpr(rp.Right, sc.Child(), inner)
	condType := c.checkExpr(rp.Condition, sc, inner)
	if condType != nil && !isBoolType(condType) {
		c.err(errors.SEM001, errors.PhaseTypeChecker, rp.Pos, "repeat-until condition must be bool")
	}
	rp.SetType(nil)
	return nil
}

// constEvalInt attempts to fold e to a known integer value using the
// checker's shared constant environment; used for array sizes and range
// bounds, which must be compile-time constants.
func (c *Checker) constEvalInt(e ast.Expr) (int64, bool) {
	r := cte.Eval(e, c.cteEnv)
	if r.Status != cte.Known {
		return 0, false
	}
	switch v := r.Value.(type) {
	case cte.IntVal:
		return v.V, true
	case cte.UIntVal:
		return int64(v.V), true
	}
	return 0, false
}

func (c *Checker) constEvalBool(e ast.Expr) (bool, bool) {
	r := cte.Eval(e, c.cteEnv)
	if r.Status != cte.Known {
		return false, false
	}
	b, ok := r.Value.(cte.BoolVal)
	return b.V, ok
}
