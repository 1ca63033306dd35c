// Package process expands `process{"shell command"}` expressions into
// string literals of the command's captured stdout. It runs alongside
// the resource expander, before the resolver, and is disabled by
// default: a Process node survives unexpanded (and type-checking it
// later fails loudly) unless the driver explicitly opted in with
// --allow-process.
package process

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
)

// Expander expands process{} expressions, gated by Allowed.
type Expander struct {
	Allowed bool
	// Shell and ShellFlag name the interpreter used to run the command,
	// mirroring the conventional POSIX /bin/sh -c invocation.
	Shell string
	ShellFlag string
}

// NewExpander returns an Expander using /bin/sh -c, the shell every
// mainstream Go process-exec example in the ecosystem defaults to.
func NewExpander(allowed bool) *Expander {
	return &Expander{Allowed: allowed, Shell: "/bin/sh", ShellFlag: "-c"}
}

// Expand walks mod's top-level statements and substitutes every Process
// expression with a string literal of its stdout, or records RUN001 if
// process execution is not allowed for this run.
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

func (x *Expander) expandExpr(e ast.Expr, diags *errors.List) ast.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.Process:
		return x.expandProcess(v, diags)
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

func (x *Expander) expandProcess(p *ast.Process, diags *errors.List) ast.Expr {
	if !x.Allowed {
		diags.Add(errors.New(errors.RUN001, errors.PhaseProcess, p.Pos, "process{} used without --allow-process").
			WithSuggestion("pass --allow-process to the driver to enable shell execution at compile time"))
		return p
	}

	cmd := exec.Command(x.Shell, x.ShellFlag, p.Command)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		diags.Add(errors.New(errors.RUN001, errors.PhaseProcess, p.Pos, fmt.Sprintf("process{%q} failed: %v", p.Command, err)))
		return p
	}
	return &ast.StringLiteral{ExprBase: ast.NewExprBase(p.Pos), Value: stdout.String()}
}
