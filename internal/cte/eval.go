package cte

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/scope"
)

// Eval evaluates expr under env and returns a Result.
// It is pure with respect to env's globals map and never aliases
// composite/array payloads across calls that didn't create them.
func Eval(expr ast.Expr, env *Env) Result {
	if !env.tickStep() {
		return errResult(errors.New(errors.CTE005, errors.PhaseCTE, expr.Position(), "compile-time evaluator step budget exceeded"))
	}
	r := evalDispatch(expr, env)
	if r.Status == Known && env.OnEval != nil {
		env.OnEval(expr.ID(), r.Value)
	}
	return r
}

func evalDispatch(expr ast.Expr, env *Env) Result {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		if e.Unsigned {
			return known(UIntVal{V: uint64(e.Value)})
		}
		return known(IntVal{V: e.Value})
	case *ast.FloatLiteral:
		return known(FloatVal{V: e.Value})
	case *ast.StringLiteral:
		return known(StringVal{V: e.Value})
	case *ast.CharLiteral:
		return known(UIntVal{V: uint64(e.Value)})
	case *ast.BoolLiteral:
		return known(BoolVal{V: e.Value})
	case *ast.Identifier:
		return evalIdentifier(e, env)
	case *ast.Binary:
		return evalBinary(e, env)
	case *ast.Unary:
		return evalUnary(e, env)
	case *ast.Cast:
		return evalCast(e, env)
	case *ast.Call:
		return evalCall(e, env)
	case *ast.Index:
		return evalIndex(e, env)
	case *ast.Member:
		return evalMember(e, env)
	case *ast.ArrayLiteral:
		return evalArrayLiteral(e, env)
	case *ast.TupleLiteral:
		return evalTupleLiteral(e, env)
	case *ast.Range:
		return evalRange(e, env)
	case *ast.Length:
		return evalLength(e, env)
	case *ast.Conditional:
		return evalConditional(e, env)
	case *ast.Assignment:
		return evalAssignment(e, env)
	case *ast.Block:
		cf := evalBlock(e, env)
		return cfResult(cf, expr.Position())
	case *ast.Iteration:
		cf := evalIteration(e, env)
		return cfResult(cf, expr.Position())
	case *ast.Repeat:
		cf := evalRepeat(e, env)
		return cfResult(cf, expr.Position())
	case *ast.Resource, *ast.Process:
		return unknown("resource/process expressions are resolved before the CTE ever runs")
	default:
		return unknown(fmt.Sprintf("unsupported expression kind %T", expr))
	}
}

// cfResult turns a ControlFlow produced by a Block/Iteration/Repeat used
// in expression position into a Result: a value or a Return yields its
// Result, and a stray Break/Continue becomes a hard Error.
func cfResult(cf ControlFlow, pos ast.Pos) Result {
	switch cf.Kind {
	case cfValue, cfReturn:
		return cf.Value
	default:
		return errResult(errors.New(errors.CTE009, errors.PhaseCTE, pos, "break/continue escaped its enclosing loop"))
	}
}

func evalIdentifier(id *ast.Identifier, env *Env) Result {
	if v, ok := env.lookupLocal(id.Name); ok {
		if _, isUninit := v.(UninitVal); isUninit {
			return errResult(errors.New(errors.CTE007, errors.PhaseCTE, id.Pos, fmt.Sprintf("%q is uninitialized", id.Name)))
		}
		return known(v)
	}
	if th, ok := env.exprThunks[id.Name]; ok {
		if env.thunkGuard[id.Name] {
			return errResult(errors.New(errors.CTE006, errors.PhaseCTE, id.Pos, fmt.Sprintf("expression parameter %q is used cyclically", id.Name)))
		}
		env.thunkGuard[id.Name] = true
		r := Eval(th.expr, th.env)
		delete(env.thunkGuard, id.Name)
		return r
	}
	sym, _ := id.ResolvedSymbol.(*scope.Symbol)
	if sym == nil {
		return unknown(fmt.Sprintf("%q has no resolved binding", id.Name))
	}
	if sym.IsMutable {
		return unknown(fmt.Sprintf("%q is a mutable global", id.Name))
	}
	if v, ok := env.globals[sym]; ok {
		if env.OnGlobalRead != nil {
			env.OnGlobalRead(sym)
		}
		return known(v)
	}
	return unknown(fmt.Sprintf("%q has no known compile-time value", id.Name))
}
