package cte

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/errors"
)

func evalCast(c *ast.Cast, env *Env) Result {
	operand := Eval(c.Operand, env)
	if operand.Status != Known {
		return propagate(operand)
	}
	switch target := c.TargetType.(type) {
	case *ast.PrimitiveType:
		return castToPrimitive(c, operand.Value, target)
	case *ast.ArrayType:
		return castToArray(c, operand.Value, target)
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "unsupported cast target"))
	}
}

func castToPrimitive(c *ast.Cast, v Value, target *ast.PrimitiveType) Result {
	switch target.Kind {
	case ast.F32, ast.F64:
		switch src := v.(type) {
		case IntVal:
			return known(FloatVal{V: float64(src.V)})
		case UIntVal:
			return known(FloatVal{V: float64(src.V)})
		case FloatVal:
			return known(FloatVal{V: src.V})
		}
	case ast.Bool:
		if bv, ok := v.(BoolVal); ok {
			return known(bv)
		}
	default:
		if target.Kind.IsSigned() {
			switch src := v.(type) {
			case IntVal:
				return known(IntVal{V: maskSigned(src.V, target.Kind.BitWidth())})
			case UIntVal:
				return known(IntVal{V: maskSigned(int64(src.V), target.Kind.BitWidth())})
			case FloatVal:
				return known(IntVal{V: maskSigned(int64(src.V), target.Kind.BitWidth())})
			}
		}
		if target.Kind.IsUnsigned() {
			switch src := v.(type) {
			case IntVal:
				return known(UIntVal{V: maskUnsigned(uint64(src.V), target.Kind.BitWidth())})
			case UIntVal:
				return known(UIntVal{V: maskUnsigned(src.V, target.Kind.BitWidth())})
			case FloatVal:
				return known(UIntVal{V: maskUnsigned(uint64(src.V), target.Kind.BitWidth())})
			case ArrayVal:
				return packBoolArrayToUnsigned(c, src, target.Kind)
			}
		}
	}
	return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "value cannot be cast to "+target.String()))
}

// castToArray handles integer -> array<u8,N> big-endian decomposition, the
// only array-valued cast target the language defines.
func castToArray(c *ast.Cast, v Value, target *ast.ArrayType) Result {
	elemPrim, ok := target.Element.(*ast.PrimitiveType)
	if !ok || elemPrim.Kind != ast.U8 {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "array cast target must be array<u8,N>"))
	}
	n, ok := ast.AsIntLiteral(target.Size)
	if !ok {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "array cast target size must be a known constant"))
	}
	var bits uint64
	switch src := v.(type) {
	case IntVal:
		bits = uint64(src.V)
	case UIntVal:
		bits = src.V
	default:
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "only integers cast to a byte array"))
	}
	elems := make([]Value, n)
	for i := int64(0); i < n; i++ {
		shift := uint((n - 1 - i) * 8)
		elems[i] = UIntVal{V: (bits >> shift) & 0xFF}
	}
	return known(ArrayVal{Elems: elems})
}

// packBoolArrayToUnsigned implements array<bool,N> -> unsigned, MSB-first.
func packBoolArrayToUnsigned(c *ast.Cast, av ArrayVal, kind ast.PrimitiveKind) Result {
	if len(av.Elems) > kind.BitWidth() && kind.BitWidth() != 0 {
		return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "boolean array is wider than the target integer type"))
	}
	var acc uint64
	for _, e := range av.Elems {
		bv, ok := e.(BoolVal)
		if !ok {
			return errResult(errors.New(errors.CTE008, errors.PhaseCTE, c.Position(), "array cast to integer requires an array of bool"))
		}
		acc <<= 1
		if bv.V {
			acc |= 1
		}
	}
	return known(UIntVal{V: acc})
}
