// Package residualizer rewrites a type-checked, optimized module in
// place: constexpr expressions collapse to literals, dead conditional
// branches are pruned, and dead pure expression statements are dropped.
// It is the only pass permitted to mutate AST node contents; it never
// replaces a node's identity, so NodeID-keyed side tables built by the
// optimizer stay valid against the rewritten tree.
package residualizer

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/checker"
	"github.com/vexel-lang/vexel/internal/cte"
	"github.com/vexel-lang/vexel/internal/optimizer"
)

// Run applies every rewrite rule to mod and reports whether anything
// changed.
func Run(mod *ast.Module, facts *optimizer.Facts, reg *checker.TypeRegistry) bool {
	r := &pass{facts: facts, reg: reg}
	for _, stmt := range mod.Statements {
		r.rewriteTopLevel(stmt)
	}
	return r.changed
}

type pass struct {
	facts *optimizer.Facts
	reg *checker.TypeRegistry
	changed bool
}

func (p *pass) rewriteTopLevel(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		s.Value = p.rewriteExpr(s.Value)
	case *ast.FuncDecl:
		if s.Body != nil {
			p.rewriteBlockStatements(s.Body)
		}
	}
}

// rewriteBlockStatements rewrites b's statement list in place, dropping
// dead pure ExprStmts and stopping as soon as a terminal statement
// (Return/Break/Continue) is reached so code the control-flow analysis
// already knows is unreachable is never touched.
func (p *pass) rewriteBlockStatements(b *ast.Block) {
	kept := make([]ast.Stmt, 0, len(b.Statements))
	terminated := false
	for _, s := range b.Statements {
		if terminated {
			break
		}
		switch v := s.(type) {
		case *ast.ExprStmt:
			v.Expr = p.rewriteExpr(v.Expr)
			if p.isDeadPureStmt(v.Expr) {
				p.changed = true
				continue
			}
		case *ast.VarDecl:
			v.Value = p.rewriteExpr(v.Value)
		case *ast.Return:
			if v.Value != nil {
				v.Value = p.rewriteExpr(v.Value)
			}
			terminated = true
		case *ast.Break, *ast.Continue:
			terminated = true
		case *ast.ConditionalStmt:
			p.rewriteConditionalStmt(v)
			kept = append(kept, v)
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) != len(b.Statements) {
		p.changed = true
	}
	b.Statements = kept
	if b.ResultExpr != nil {
		b.ResultExpr = p.rewriteExpr(b.ResultExpr)
	}
}

// isDeadPureStmt reports whether an expression statement has no
// observable effect and can therefore be dropped: no call (a call might
// be impure or, even if foldable, was already folded to a literal with
// no side effect to preserve), no assignment, no resource/process probe.
func (p *pass) isDeadPureStmt(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Call, *ast.Assignment, *ast.Resource, *ast.Process:
		return false
	default:
		return true
	}
}

func (p *pass) rewriteConditionalStmt(s *ast.ConditionalStmt) {
	if taken, ok := p.facts.ConstexprConditions[s.ID()]; ok {
		if taken {
			p.rewriteBlockStatements(s.Then)
		} else if s.Else != nil {
			p.rewriteBlockStatements(s.Else)
		}
		// The dead branch is left unlinked from execution by the caller
		// replacing this statement, but ConditionalStmt itself stays in
		// the tree (dropping it here would require the caller to splice
		// the list, which rewriteBlockStatements already does for the
		// ExprStmt case) — so instead collapse it onto whichever side
		// survives by emptying the other.
		if taken {
			s.Else = nil
		} else {
			s.Then = &ast.Block{}
		}
		p.changed = true
		return
	}
	p.rewriteBlockStatements(s.Then)
	if s.Else != nil {
		p.rewriteBlockStatements(s.Else)
	}
}

// rewriteExpr replaces e with a literal when facts has a Known value for
// it, recursing into subexpressions first so nested folds happen
// bottom-up. The replacement always carries e's original type slot and
// position, satisfying the type-stability invariant.
func (p *pass) rewriteExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	e = p.rewriteChildren(e)

	if v, ok := p.facts.ConstexprValues[e.ID()]; ok {
		if lit := p.literalFor(v, e.GetType(), e.Position()); lit != nil {
			p.changed = true
			return lit
		}
	}
	return e
}

func (p *pass) rewriteChildren(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.Binary:
		v.Left = p.rewriteExpr(v.Left)
		v.Right = p.rewriteExpr(v.Right)
	case *ast.Unary:
		v.Operand = p.rewriteExpr(v.Operand)
	case *ast.Cast:
		v.Operand = p.rewriteExpr(v.Operand)
	case *ast.Call:
		for i, a := range v.Receivers {
			v.Receivers[i] = p.rewriteExpr(a)
		}
		for i, a := range v.Args {
			v.Args[i] = p.rewriteExpr(a)
		}
	case *ast.Index:
		v.Operand = p.rewriteExpr(v.Operand)
		for i, a := range v.Args {
			v.Args[i] = p.rewriteExpr(a)
		}
	case *ast.Member:
		v.Operand = p.rewriteExpr(v.Operand)
	case *ast.ArrayLiteral:
		for i, el := range v.Elements {
			v.Elements[i] = p.rewriteExpr(el)
		}
	case *ast.TupleLiteral:
		for i, el := range v.Elements {
			v.Elements[i] = p.rewriteExpr(el)
		}
	case *ast.Range:
		v.Left = p.rewriteExpr(v.Left)
		v.Right = p.rewriteExpr(v.Right)
	case *ast.Length:
		v.Operand = p.rewriteExpr(v.Operand)
	case *ast.Conditional:
		if taken, ok := p.facts.ConstexprConditions[v.ID()]; ok {
			if taken {
				return p.rewriteExpr(v.TrueExpr)
			}
			return p.rewriteExpr(v.FalseExpr)
		}
		v.Condition = p.rewriteExpr(v.Condition)
		v.TrueExpr = p.rewriteExpr(v.TrueExpr)
		v.FalseExpr = p.rewriteExpr(v.FalseExpr)
	case *ast.Assignment:
		v.Right = p.rewriteExpr(v.Right)
		if !v.CreatesNewVariable {
			v.Left = p.rewriteExpr(v.Left)
		}
	case *ast.Block:
		p.rewriteBlockStatements(v)
	case *ast.Iteration:
		v.Operand = p.rewriteExpr(v.Operand)
		v.Right = p.rewriteExpr(v.Right)
	case *ast.Repeat:
		v.Right = p.rewriteExpr(v.Right)
		v.Condition = p.rewriteExpr(v.Condition)
	}
	return e
}

// literalFor builds the AST literal node matching v, typed t at pos.
// Returns nil when v has no direct literal representation under t, in
// which case the original expression is left untouched rather than
// producing a node with a wrong shape.
func (p *pass) literalFor(v cte.Value, t ast.Type, pos ast.Pos) ast.Expr {
	switch val := v.(type) {
	case cte.IntVal:
		return &ast.IntLiteral{ExprBase: litBase(t, pos), Value: val.V}
	case cte.UIntVal:
		return &ast.IntLiteral{ExprBase: litBase(t, pos), Value: int64(val.V), Unsigned: true}
	case cte.FloatVal:
		return &ast.FloatLiteral{ExprBase: litBase(t, pos), Value: val.V}
	case cte.BoolVal:
		return &ast.BoolLiteral{ExprBase: litBase(t, pos), Value: val.V}
	case cte.StringVal:
		return &ast.StringLiteral{ExprBase: litBase(t, pos), Value: val.V}
	case cte.ArrayVal:
		elemType := elementTypeOf(t)
		elems := make([]ast.Expr, len(val.Elems))
		for i, ev := range val.Elems {
			lit := p.literalFor(ev, elemType, pos)
			if lit == nil {
				return nil
			}
			elems[i] = lit
		}
		return &ast.ArrayLiteral{ExprBase: litBase(t, pos), Elements: elems}
	case cte.CompositeVal:
		decl, ok := p.reg.Lookup(val.TypeName)
		if !ok {
			return nil
		}
		args := make([]ast.Expr, len(decl.Fields))
		for i, field := range decl.Fields {
			fv, ok := val.Get(field.Name)
			if !ok {
				return nil
			}
			lit := p.literalFor(fv, field.Type, pos)
			if lit == nil {
				return nil
			}
			args[i] = lit
		}
		if p.reg.IsTuple(val.TypeName) {
			return &ast.TupleLiteral{ExprBase: litBase(t, pos), Elements: args}
		}
		return &ast.Call{ExprBase: litBase(t, pos), Operand: &ast.Identifier{ExprBase: ast.NewExprBase(pos), Name: val.TypeName}, Args: args}
	default:
		return nil
	}
}

func elementTypeOf(t ast.Type) ast.Type {
	if a, ok := t.(*ast.ArrayType); ok {
		return a.Element
	}
	return nil
}

func litBase(t ast.Type, pos ast.Pos) ast.ExprBase {
	b := ast.NewExprBase(pos)
	b.Type = t
	return b
}
