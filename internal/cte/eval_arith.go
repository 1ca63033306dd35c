package cte

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
)

func evalBinary(b *ast.Binary, env *Env) Result {
	left := Eval(b.Left, env)
	if left.Status != Known {
		return propagate(left)
	}
	right := Eval(b.Right, env)
	if right.Status != Known {
		return propagate(right)
	}
	switch b.Op {
	case "&&":
		return known(BoolVal{V: truthy(left.Value) && truthy(right.Value)})
	case "||":
		return known(BoolVal{V: truthy(left.Value) || truthy(right.Value)})
	case "==":
		return known(BoolVal{V: valuesEqual(left.Value, right.Value)})
	case "!=":
		return known(BoolVal{V: !valuesEqual(left.Value, right.Value)})
	case "<", "<=", ">", ">=":
		return compare(b, left.Value, right.Value)
	}
	kind := widthKindOf(b.GetType())
	switch lv := left.Value.(type) {
	case IntVal:
		rv, ok := right.Value.(IntVal)
		if !ok {
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "operand family mismatch in signed arithmetic"))
		}
		return evalSignedArith(b, lv.V, rv.V, kind)
	case UIntVal:
		rv, ok := right.Value.(UIntVal)
		if !ok {
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "operand family mismatch in unsigned arithmetic"))
		}
		return evalUnsignedArith(b, lv.V, rv.V, kind)
	case FloatVal:
		rv, ok := right.Value.(FloatVal)
		if !ok {
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "operand family mismatch in float arithmetic"))
		}
		return evalFloatArith(b, lv.V, rv.V)
	case StringVal:
		rv, ok := right.Value.(StringVal)
		if !ok || b.Op != "+" {
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "unsupported string operator"))
		}
		return known(StringVal{V: lv.V + rv.V})
	default:
		return unknown(fmt.Sprintf("binary %s has no constant-folding rule for %T", b.Op, left.Value))
	}
}

func widthKindOf(t ast.Type) ast.PrimitiveKind {
	if pt, ok := t.(*ast.PrimitiveType); ok {
		return pt.Kind
	}
	return ast.I64
}

func maskSigned(v int64, width int) int64 {
	if width >= 64 {
		return v
	}
	m := int64(1) << width
	v = v % m
	half := int64(1) << (width - 1)
	if v >= half {
		v -= m
	} else if v < -half {
		v += m
	}
	return v
}

func maskUnsigned(v uint64, width int) uint64 {
	if width >= 64 {
		return v
	}
	return v & ((uint64(1) << width) - 1)
}

func evalSignedArith(b *ast.Binary, l, r int64, kind ast.PrimitiveKind) Result {
	w := kind.BitWidth()
	switch b.Op {
	case "+":
		return known(IntVal{V: maskSigned(l+r, w)})
	case "-":
		return known(IntVal{V: maskSigned(l-r, w)})
	case "*":
		return known(IntVal{V: maskSigned(l*r, w)})
	case "/":
		if r == 0 {
			return errResult(errors.New(errors.CTE001, errors.PhaseCTE, b.Position(), "division by zero"))
		}
		return known(IntVal{V: maskSigned(l/r, w)})
	case "%":
		if r == 0 {
			return errResult(errors.New(errors.CTE001, errors.PhaseCTE, b.Position(), "modulo by zero"))
		}
		return known(IntVal{V: maskSigned(l%r, w)})
	case "&":
		return known(IntVal{V: maskSigned(l&r, w)})
	case "|":
		return known(IntVal{V: maskSigned(l|r, w)})
	case "^":
		return known(IntVal{V: maskSigned(l^r, w)})
	case "<<":
		return known(IntVal{V: maskSigned(l<<uint(r), w)})
	case ">>":
		return known(IntVal{V: maskSigned(l>>uint(r), w)})
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "unsupported signed operator "+b.Op))
	}
}

func evalUnsignedArith(b *ast.Binary, l, r uint64, kind ast.PrimitiveKind) Result {
	w := kind.BitWidth()
	switch b.Op {
	case "+":
		return known(UIntVal{V: maskUnsigned(l+r, w)})
	case "-":
		return known(UIntVal{V: maskUnsigned(l-r, w)})
	case "*":
		return known(UIntVal{V: maskUnsigned(l*r, w)})
	case "/":
		if r == 0 {
			return errResult(errors.New(errors.CTE001, errors.PhaseCTE, b.Position(), "division by zero"))
		}
		return known(UIntVal{V: maskUnsigned(l/r, w)})
	case "%":
		if r == 0 {
			return errResult(errors.New(errors.CTE001, errors.PhaseCTE, b.Position(), "modulo by zero"))
		}
		return known(UIntVal{V: maskUnsigned(l%r, w)})
	case "&":
		return known(UIntVal{V: maskUnsigned(l&r, w)})
	case "|":
		return known(UIntVal{V: maskUnsigned(l|r, w)})
	case "^":
		return known(UIntVal{V: maskUnsigned(l^r, w)})
	case "<<":
		return known(UIntVal{V: maskUnsigned(l<<r, w)})
	case ">>":
		return known(UIntVal{V: maskUnsigned(l>>r, w)})
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "unsupported unsigned operator "+b.Op))
	}
}

func evalFloatArith(b *ast.Binary, l, r float64) Result {
	switch b.Op {
	case "+":
		return known(FloatVal{V: l + r})
	case "-":
		return known(FloatVal{V: l - r})
	case "*":
		return known(FloatVal{V: l * r})
	case "/":
		if r == 0 {
			return errResult(errors.New(errors.CTE001, errors.PhaseCTE, b.Position(), "float division by zero"))
		}
		return known(FloatVal{V: l / r})
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "unsupported float operator "+b.Op))
	}
}

func compare(b *ast.Binary, l, r Value) Result {
	var lt, gt, eq bool
	switch lv := l.(type) {
	case IntVal:
		rv := r.(IntVal)
		lt, gt, eq = lv.V < rv.V, lv.V > rv.V, lv.V == rv.V
	case UIntVal:
		rv := r.(UIntVal)
		lt, gt, eq = lv.V < rv.V, lv.V > rv.V, lv.V == rv.V
	case FloatVal:
		rv := r.(FloatVal)
		lt, gt, eq = lv.V < rv.V, lv.V > rv.V, lv.V == rv.V
	case StringVal:
		rv := r.(StringVal)
		lt, gt, eq = lv.V < rv.V, lv.V > rv.V, lv.V == rv.V
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "operand type is not ordered"))
	}
	switch b.Op {
	case "<":
		return known(BoolVal{V: lt})
	case "<=":
		return known(BoolVal{V: lt || eq})
	case ">":
		return known(BoolVal{V: gt})
	case ">=":
		return known(BoolVal{V: gt || eq})
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, b.Position(), "unreachable comparison operator"))
	}
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntVal:
		bv, ok := b.(IntVal)
		return ok && av.V == bv.V
	case UIntVal:
		bv, ok := b.(UIntVal)
		return ok && av.V == bv.V
	case FloatVal:
		bv, ok := b.(FloatVal)
		return ok && av.V == bv.V
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av.V == bv.V
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av.V == bv.V
	default:
		return false
	}
}

func truthy(v Value) bool {
	if bv, ok := v.(BoolVal); ok {
		return bv.V
	}
	return false
}

func evalUnary(u *ast.Unary, env *Env) Result {
	operand := Eval(u.Operand, env)
	if operand.Status != Known {
		return propagate(operand)
	}
	kind := widthKindOf(u.Operand.GetType())
	switch u.Op {
	case "-":
		switch v := operand.Value.(type) {
		case IntVal:
			return known(IntVal{V: maskSigned(-v.V, kind.BitWidth())})
		case FloatVal:
			return known(FloatVal{V: -v.V})
		default:
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, u.Position(), "unary minus on non-numeric operand"))
		}
	case "!":
		if bv, ok := operand.Value.(BoolVal); ok {
			return known(BoolVal{V: !bv.V})
		}
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, u.Position(), "logical not on non-boolean operand"))
	case "~":
		switch v := operand.Value.(type) {
		case UIntVal:
			return known(UIntVal{V: maskUnsigned(^v.V, kind.BitWidth())})
		default:
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, u.Position(), "bitwise not requires an unsigned operand"))
		}
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, u.Position(), "unsupported unary operator "+u.Op))
	}
}

// propagate passes a non-Known Result up through an enclosing expression
// unchanged, keeping its original Diag/Reason rather than synthesizing a
// new one.
func propagate(r Result) Result {
	return r
}
