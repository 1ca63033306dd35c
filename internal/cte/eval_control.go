package cte

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
)

func evalConditional(c *ast.Conditional, env *Env) Result {
	cond := Eval(c.Condition, env)
	if cond.Status != Known {
		return propagate(cond)
	}
	bv, ok := cond.Value.(BoolVal)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "ternary condition is not boolean"))
	}
	if bv.V {
		return Eval(c.TrueExpr, env)
	}
	return Eval(c.FalseExpr, env)
}

func evalBlock(b *ast.Block, env *Env) ControlFlow {
	env.pushScope()
	defer env.popScope()
	for _, stmt := range b.Statements {
		cf := evalStmt(stmt, env)
		if cf.Kind != cfValue {
			return cf
		}
	}
	if b.ResultExpr == nil {
		return cfVal(known(IntVal{V: 0}))
	}
	return cfVal(Eval(b.ResultExpr, env))
}

func evalStmt(stmt ast.Stmt, env *Env) ControlFlow {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return evalVarDeclStmt(s, env)
	case *ast.ExprStmt:
		r := Eval(s.Expr, env)
		if r.Status == Error {
			return cfVal(r)
		}
		return cfVal(known(IntVal{V: 0}))
	case *ast.Return:
		if s.Value == nil {
			return cfReturnFlow(known(IntVal{V: 0}))
		}
		r := Eval(s.Value, env)
		return cfReturnFlow(r)
	case *ast.Break:
		return cfBreakFlow()
	case *ast.Continue:
		return cfContinueFlow()
	case *ast.ConditionalStmt:
		return evalConditionalStmt(s, env)
	default:
		return cfVal(unknown("statement kind has no compile-time evaluation rule"))
	}
}

func evalVarDeclStmt(v *ast.VarDecl, env *Env) ControlFlow {
	if v.Value == nil {
		env.defineLocal(v.Name, UninitVal{})
		return cfVal(known(IntVal{V: 0}))
	}
	r := Eval(v.Value, env)
	if r.Status != Known {
		env.defineLocal(v.Name, UninitVal{})
		return cfVal(r)
	}
	env.defineLocal(v.Name, r.Value)
	return cfVal(known(IntVal{V: 0}))
}

func evalConditionalStmt(c *ast.ConditionalStmt, env *Env) ControlFlow {
	cond := Eval(c.Condition, env)
	if cond.Status != Known {
		return cfVal(propagate(cond))
	}
	bv, ok := cond.Value.(BoolVal)
	if !ok {
		return cfVal(errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "if condition is not boolean")))
	}
	if bv.V {
		return evalBlock(c.Then, env)
	}
	if c.Else != nil {
		return evalBlock(c.Else, env)
	}
	return cfVal(known(IntVal{V: 0}))
}

func evalIteration(it *ast.Iteration, env *Env) ControlFlow {
	operand := Eval(it.Operand, env)
	if operand.Status != Known {
		return cfVal(propagate(operand))
	}
	av, ok := operand.Value.(ArrayVal)
	if !ok {
		return cfVal(errResult(errors.New(errors.CTE008, errors.PhaseCTE, it.Position(), "iteration target is not an array")))
	}
	body, ok := it.Right.(*ast.Block)
	if !ok {
		return cfVal(errResult(errors.New(errors.CTE008, errors.PhaseCTE, it.Position(), "iteration body must be a block")))
	}
	if len(av.Elems) > env.caps.MaxLoopIterations {
		return cfVal(errResult(errors.New(errors.CTE004, errors.PhaseCTE, it.Position(), "iteration count exceeds the compile-time loop cap")))
	}
	for _, elem := range av.Elems {
		env.pushScope()
		env.defineLocal("_", elem)
		cf := evalBlockStatementsOnly(body, env)
		env.popScope()
		switch cf.Kind {
		case cfBreak:
			return cfVal(known(IntVal{V: 0}))
		case cfContinue:
			continue
		case cfReturn:
			return cf
		case cfValue:
			if cf.Value.Status == Error {
				return cf
			}
		}
	}
	return cfVal(known(IntVal{V: 0}))
}

func evalRepeat(rp *ast.Repeat, env *Env) ControlFlow {
	body, ok := rp.Right.(*ast.Block)
	if !ok {
		return cfVal(errResult(errors.New(errors.CTE008, errors.PhaseCTE, rp.Position(), "repeat body must be a block")))
	}
	for i := 0; i < env.caps.MaxLoopIterations; i++ {
		cond := Eval(rp.Condition, env)
		if cond.Status != Known {
			return cfVal(propagate(cond))
		}
		bv, ok := cond.Value.(BoolVal)
		if !ok {
			return cfVal(errResult(errors.New(errors.CTE008, errors.PhaseCTE, rp.Position(), "repeat condition is not boolean")))
		}
		if bv.V {
			return cfVal(known(IntVal{V: 0}))
		}
		env.pushScope()
		cf := evalBlockStatementsOnly(body, env)
		env.popScope()
		switch cf.Kind {
		case cfBreak:
			return cfVal(known(IntVal{V: 0}))
		case cfContinue:
			continue
		case cfReturn:
			return cf
		case cfValue:
			if cf.Value.Status == Error {
				return cf
			}
		}
	}
	return cfVal(errResult(errors.New(errors.CTE004, errors.PhaseCTE, rp.Position(), "repeat exceeded the compile-time loop cap")))
}

// evalBlockStatementsOnly runs a loop body's own scope (already pushed by
// the caller, which owns the per-element bindings) without pushing a second
// nested scope the way evalBlock does for an ordinary block expression.
func evalBlockStatementsOnly(b *ast.Block, env *Env) ControlFlow {
	for _, stmt := range b.Statements {
		cf := evalStmt(stmt, env)
		if cf.Kind != cfValue {
			return cf
		}
		if cf.Value.Status == Error {
			return cf
		}
	}
	if b.ResultExpr == nil {
		return cfVal(known(IntVal{V: 0}))
	}
	return cfVal(Eval(b.ResultExpr, env))
}

func evalAssignment(a *ast.Assignment, env *Env) Result {
	right := Eval(a.Right, env)
	if right.Status != Known {
		return propagate(right)
	}
	if a.CreatesNewVariable {
		id, ok := a.Left.(*ast.Identifier)
		if !ok {
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, a.Position(), "declaration-assignment target must be an identifier"))
		}
		env.defineLocal(id.Name, right.Value)
		return known(right.Value)
	}
	switch lhs := a.Left.(type) {
	case *ast.Identifier:
		if env.isReceiver(lhs.Name) {
			return errResult(errors.New(errors.CTE011, errors.PhaseCTE, a.Position(), "assignment to a receiver parameter is not permitted at compile time"))
		}
		if env.assignLocal(lhs.Name, right.Value) {
			return known(right.Value)
		}
		return errResult(errors.New(errors.CTE011, errors.PhaseCTE, a.Position(), "assignment to a mutable global or receiver is not permitted at compile time"))
	case *ast.Member:
		return evalMemberAssignment(lhs, right.Value, env)
	case *ast.Index:
		return evalIndexAssignment(lhs, right.Value, env)
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, a.Position(), "unsupported assignment target"))
	}
}

func evalMemberAssignment(m *ast.Member, val Value, env *Env) Result {
	id, ok := m.Operand.(*ast.Identifier)
	if !ok {
		return errResult(errors.New(errors.CTE011, errors.PhaseCTE, m.Position(), "only a local composite's own field may be assigned at compile time"))
	}
	base, ok := env.lookupLocal(id.Name)
	if !ok {
		return errResult(errors.New(errors.CTE011, errors.PhaseCTE, m.Position(), "assignment to a mutable global or receiver is not permitted at compile time"))
	}
	cv, ok := base.(CompositeVal)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, m.Position(), "member assignment target is not a composite"))
	}
	updated := cv.WithField(m.Name, val)
	env.assignLocal(id.Name, updated)
	return known(val)
}

func evalIndexAssignment(ix *ast.Index, val Value, env *Env) Result {
	id, ok := ix.Operand.(*ast.Identifier)
	if !ok {
		return errResult(errors.New(errors.CTE011, errors.PhaseCTE, ix.Position(), "only a local array's own element may be assigned at compile time"))
	}
	base, ok := env.lookupLocal(id.Name)
	if !ok {
		return errResult(errors.New(errors.CTE011, errors.PhaseCTE, ix.Position(), "assignment to a mutable global or receiver is not permitted at compile time"))
	}
	av, ok := base.(ArrayVal)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, ix.Position(), "index assignment target is not an array"))
	}
	idx := Eval(ix.Args[0], env)
	if idx.Status != Known {
		return propagate(idx)
	}
	i, ok := intFromValue(idx.Value)
	if !ok || i < 0 || i >= int64(len(av.Elems)) {
		return errResult(errors.New(errors.CTE002, errors.PhaseCTE, ix.Position(), "index out of bounds"))
	}
	updated := av.WithIndex(int(i), val)
	env.assignLocal(id.Name, updated)
	return known(val)
}
