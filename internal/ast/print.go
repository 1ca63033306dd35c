package ast

import (
	"fmt"
	"strings"
)

// Dump renders a node as a compact, deterministic s-expression. It is used
// by golden tests in the checker/CTE/residualizer packages to assert shape
// without depending on pointer identity or NodeID values (which are
// monotone-global and therefore not reproducible run to run).
func Dump(n Node) string {
	switch v := n.(type) {
	case nil:
		return "nil"
	case *IntLiteral:
		if v.Unsigned {
			return fmt.Sprintf("%du", v.Value)
		}
		return fmt.Sprintf("%d", v.Value)
	case *FloatLiteral:
		return fmt.Sprintf("%g", v.Value)
	case *StringLiteral:
		return fmt.Sprintf("%q", v.Value)
	case *CharLiteral:
		return fmt.Sprintf("'%c'", v.Value)
	case *BoolLiteral:
		return fmt.Sprintf("%t", v.Value)
	case *Identifier:
		return v.Name
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", v.Op, Dump(v.Left), Dump(v.Right))
	case *Unary:
		return fmt.Sprintf("(%s %s)", v.Op, Dump(v.Operand))
	case *Cast:
		return fmt.Sprintf("(cast %s %s)", Dump(v.Operand), v.TargetType)
	case *Call:
		args := dumpExprs(v.Args)
		recv := dumpExprs(v.Receivers)
		return fmt.Sprintf("(call %s recv=(%s) args=(%s))", Dump(v.Operand), recv, args)
	case *Index:
		return fmt.Sprintf("(index %s %s)", Dump(v.Operand), dumpExprs(v.Args))
	case *Member:
		return fmt.Sprintf("(member %s %s)", Dump(v.Operand), v.Name)
	case *ArrayLiteral:
		return fmt.Sprintf("[%s]", dumpExprs(v.Elements))
	case *TupleLiteral:
		return fmt.Sprintf("(%s)", dumpExprs(v.Elements))
	case *Range:
		return fmt.Sprintf("(range %s %s)", Dump(v.Left), Dump(v.Right))
	case *Length:
		return fmt.Sprintf("(len %s)", Dump(v.Operand))
	case *Conditional:
		return fmt.Sprintf("(?: %s %s %s)", Dump(v.Condition), Dump(v.TrueExpr), Dump(v.FalseExpr))
	case *Assignment:
		marker := "="
		if v.CreatesNewVariable {
			marker = ":="
		}
		return fmt.Sprintf("(%s %s %s)", marker, Dump(v.Left), Dump(v.Right))
	case *Block:
		var parts []string
		for _, s := range v.Statements {
			parts = append(parts, Dump(s))
		}
		if v.ResultExpr != nil {
			parts = append(parts, Dump(v.ResultExpr))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, "; "))
	case *Iteration:
		op := "@"
		if v.IsSorted {
			op = "@@"
		}
		return fmt.Sprintf("(for%s %s %s)", op, Dump(v.Operand), Dump(v.Right))
	case *Repeat:
		return fmt.Sprintf("(repeat %s %s)", Dump(v.Condition), Dump(v.Right))
	case *Resource:
		return fmt.Sprintf("(resource %s)", v.Path)
	case *Process:
		return fmt.Sprintf("(process %q)", v.Command)
	case *FuncDecl:
		return fmt.Sprintf("(func %s %s)", v.Name, Dump(v.Body))
	case *TypeDecl:
		return fmt.Sprintf("(type %s)", v.Name)
	case *VarDecl:
		return fmt.Sprintf("(var %s %s)", v.Name, Dump(v.Value))
	case *TupleBindDecl:
		return fmt.Sprintf("(tuple-bind (%s) %s)", strings.Join(v.Names, " "), Dump(v.Value))
	case *Import:
		return fmt.Sprintf("(import %s)", v.Path)
	case *ExprStmt:
		return Dump(v.Expr)
	case *Return:
		if v.Value == nil {
			return "(return)"
		}
		return fmt.Sprintf("(return %s)", Dump(v.Value))
	case *Break:
		return "(break)"
	case *Continue:
		return "(continue)"
	case *ConditionalStmt:
		if v.Else != nil {
			return fmt.Sprintf("(if %s %s %s)", Dump(v.Condition), Dump(v.Then), Dump(v.Else))
		}
		return fmt.Sprintf("(if %s %s)", Dump(v.Condition), Dump(v.Then))
	default:
		return fmt.Sprintf("<%T>", n)
	}
}

func dumpExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = Dump(e)
	}
	return strings.Join(parts, " ")
}
