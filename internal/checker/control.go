package checker

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/scope"
)

// checkBlock opens a fresh child scope, checks every statement in
// sequence, and returns the type of its trailing ResultExpr (nil for a
// bare block).
func (c *Checker) checkBlock(b *ast.Block, sc *scope.Scope, lc *loopCtx) ast.Type {
	child := sc.Child()
	for _, s := range b.Statements {
		c.checkStmt(s, child, lc)
	}
	if b.ResultExpr == nil {
		return nil
	}
	return c.checkExpr(b.ResultExpr, child, lc)
}

// checkConditionalStmt validates the condition is bool, then checks
// whichever branch survives: when the condition folds to a Known
// constant, only that branch is checked so a dead branch referencing
// e.g. an external-only symbol never raises a spurious diagnostic.
func (c *Checker) checkConditionalStmt(s *ast.ConditionalStmt, sc *scope.Scope, lc *loopCtx) {
	condType := c.checkExpr(s.Condition, sc, lc)
	if condType != nil && !isBoolType(condType) {
		c.err(errors.SEM001, errors.PhaseTypeChecker, s.Pos, "if condition must be bool")
	}

	if v, ok := c.constEvalBool(s.Condition); ok {
		if v {
			c.checkBlock(s.Then, sc, lc)
		} else if s.Else != nil {
			c.checkBlock(s.Else, sc, lc)
		}
		return
	}

	c.checkBlock(s.Then, sc, lc)
	if s.Else != nil {
		c.checkBlock(s.Else, sc, lc)
	}
}
