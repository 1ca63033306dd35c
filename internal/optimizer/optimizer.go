// Package optimizer walks a type-checked module, evaluating top-level
// constant initializers and parameterless function bodies through the
// compile-time evaluator and recording what came back Known. Functions
// with parameters are not evaluated; each gets a skip reason. It never
// touches the AST itself — the residualizer is the only pass allowed to
// rewrite nodes, so the optimizer's output is purely a set of facts
// keyed by node identity.
package optimizer

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/checker"
	"github.com/vexel-lang/vexel/internal/cte"
)

// Facts is everything the residualizer and backends need to know about
// what folded at compile time. Every map is keyed by NodeID rather than
// by the (instance_id, expr) pair a multi-module system would need,
// because a node cloned into another module instance (monomorphization,
// import) is always assigned a fresh NodeID at clone time — so NodeID
// alone already disambiguates identical source across instances.
type Facts struct {
	ConstexprValues map[uint64]cte.Value
	ConstexprInits map[uint64]bool
	FoldableFunctions map[string]bool
	ConstexprConditions map[uint64]bool
	FoldSkipReasons map[string]string
}

func newFacts() *Facts {
	return &Facts{
		ConstexprValues: make(map[uint64]cte.Value),
		ConstexprInits: make(map[uint64]bool),
		FoldableFunctions: make(map[string]bool),
		ConstexprConditions: make(map[uint64]bool),
		FoldSkipReasons: make(map[string]string),
	}
}

// Run folds every immutable top-level constant initializer in mod, hands
// every FuncDecl to foldFunction, and returns the accumulated Facts.
func Run(mod *ast.Module) *Facts {
	f := newFacts()
	env := cte.NewEnv()
	env.OnEval = func(id uint64, v cte.Value) { f.ConstexprValues[id] = v }

	for _, stmt := range mod.Statements {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if s.IsMutable {
				continue
			}
			r := cte.Eval(s.Value, env)
			if r.Status == cte.Known {
				f.ConstexprInits[s.ID()] = true
			}
			foldConditions(s.Value, env, f)
		case *ast.FuncDecl:
			foldFunction(s, env, f)
		}
	}

	return f
}

// foldFunction puts fd in FoldableFunctions when it has no parameters and
// its body evaluates to Known within the CTE's depth/step budgets. A
// function with parameters is never evaluated here and never lands in
// FoldableFunctions; like a generic (un-monomorphized), external or
// bodiless declaration, it only gets a FoldSkipReasons entry.
func foldFunction(fd *ast.FuncDecl, env *cte.Env, f *Facts) {
	if checker.IsGeneric(fd) || fd.IsExternal || fd.Body == nil {
		f.FoldSkipReasons[fd.Name] = "external or generic declaration has no foldable body"
		return
	}
	if len(fd.Params) > 0 {
		f.FoldSkipReasons[fd.Name] = "foldability at arbitrary call sites requires concrete argument bindings; evaluated per call site instead"
		return
	}
	r := cte.Eval(fd.Body, env)
	if r.Status == cte.Known {
		f.FoldableFunctions[fd.Name] = true
	} else {
		f.FoldSkipReasons[fd.Name] = reasonFor(r)
	}
}

func foldConditions(e ast.Expr, env *cte.Env, f *Facts) {
	switch v := e.(type) {
	case *ast.Conditional:
		r := cte.Eval(v.Condition, env)
		if r.Status == cte.Known {
			if b, ok := r.Value.(cte.BoolVal); ok {
				f.ConstexprConditions[v.ID()] = b.V
			}
		}
	case *ast.Block:
		for _, s := range v.Statements {
			foldStmtConditions(s, env, f)
		}
		if v.ResultExpr != nil {
			foldConditions(v.ResultExpr, env, f)
		}
	}
}

func foldStmtConditions(s ast.Stmt, env *cte.Env, f *Facts) {
	switch v := s.(type) {
	case *ast.ConditionalStmt:
		r := cte.Eval(v.Condition, env)
		if r.Status == cte.Known {
			if b, ok := r.Value.(cte.BoolVal); ok {
				f.ConstexprConditions[v.ID()] = b.V
			}
		}
	case *ast.ExprStmt:
		foldConditions(v.Expr, env, f)
	}
}

func reasonFor(r cte.Result) string {
	if r.Status == cte.Unknown {
		return r.Reason
	}
	if r.Diag != nil {
		return r.Diag.Message
	}
	return fmt.Sprintf("evaluation did not reach Known (status=%s)", r.Status)
}
