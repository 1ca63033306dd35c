package cte

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/scope"
)

func evalCall(c *ast.Call, env *Env) Result {
	id, ok := c.Operand.(*ast.Identifier)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "call target must be a name"))
	}
	sym, _ := id.ResolvedSymbol.(*scope.Symbol)
	if sym == nil {
		return unknown("call target has no resolved binding")
	}
	switch sym.Kind {
	case scope.KindType:
		return evalTypeConstructor(c, sym, env)
	case scope.KindFunction:
		return evalFunctionCall(c, sym, env)
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "call target is neither a function nor a type"))
	}
}

func evalTypeConstructor(c *ast.Call, sym *scope.Symbol, env *Env) Result {
	td, ok := sym.Declaration.(*ast.TypeDecl)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "type symbol has no declaration"))
	}
	if len(c.Args) != len(td.Fields) {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "constructor arity mismatch"))
	}
	fields := make(map[string]Value, len(td.Fields))
	order := make([]string, len(td.Fields))
	for i, f := range td.Fields {
		r := Eval(c.Args[i], env)
		if r.Status != Known {
			return propagate(r)
		}
		fields[f.Name] = r.Value
		order[i] = f.Name
	}
	return known(CompositeVal{TypeName: td.Name, Order: order, Fields: fields})
}

func evalFunctionCall(c *ast.Call, sym *scope.Symbol, env *Env) Result {
	fd, ok := sym.Declaration.(*ast.FuncDecl)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "function symbol has no declaration"))
	}
	if fd.IsExternal {
		return errResult(errors.New(errors.CTE010, errors.PhaseCTE, c.Position(), "external function has no compile-time definition"))
	}
	if env.recursionDepth >= env.caps.MaxRecursionDepth {
		return errResult(errors.New(errors.CTE003, errors.PhaseCTE, c.Position(), "recursion depth cap exceeded"))
	}

	var recvParams, argParams []*ast.Param
	for _, p := range fd.Params {
		if p.IsRecv {
			recvParams = append(recvParams, p)
		} else {
			argParams = append(argParams, p)
		}
	}
	if len(recvParams) != len(c.Receivers) || len(argParams) != len(c.Args) {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "argument count mismatch"))
	}

	recvVals := make([]Value, len(recvParams))
	for i, re := range c.Receivers {
		r := Eval(re, env)
		if r.Status != Known {
			return propagate(r)
		}
		recvVals[i] = r.Value.Clone()
	}

	recvNames := make([]string, len(recvParams))
	for i, p := range recvParams {
		recvNames[i] = p.Name
	}

	// Bind expression parameters as thunks in the CALLER's environment
	// before the frame swaps, so they can still see caller locals when
	// later forced inside the callee.
	callerThunks := map[string]thunk{}
	for i, p := range argParams {
		if p.ExprParam {
			callerThunks[p.Name] = thunk{expr: c.Args[i], env: env}
		}
	}

	argVals := make([]Value, len(argParams))
	for i, p := range argParams {
		if p.ExprParam {
			continue
		}
		r := Eval(c.Args[i], env)
		if r.Status != Known {
			return propagate(r)
		}
		argVals[i] = r.Value
	}

	restore := env.enterCall(recvNames)
	env.recursionDepth++
	savedThunks := env.exprThunks
	env.exprThunks = callerThunks
	defer func() {
		env.recursionDepth--
		env.exprThunks = savedThunks
		restore()
	}()

	for i, p := range recvParams {
		env.defineLocal(p.Name, recvVals[i])
	}
	for i, p := range argParams {
		if p.ExprParam {
			continue
		}
		env.defineLocal(p.Name, argVals[i])
	}

	cf := evalBlockStatementsOnly(fd.Body, env)
	switch cf.Kind {
	case cfReturn, cfValue:
		return cf.Value
	default:
		return errResult(errors.New(errors.CTE009, errors.PhaseCTE, c.Position(), "break/continue escaped a function body"))
	}
}
