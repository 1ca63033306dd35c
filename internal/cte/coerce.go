package cte

import "github.com/vexel-lang/vexel/internal/ast"

// CoerceToType re-masks a Known numeric value to the bit width/signedness
// of t, used where the checker has already accepted the conversion (a
// literal narrowed to its declared type, a parameter bound from an
// argument of a wider compatible family) and the evaluator just needs to
// make the stored value match.
func CoerceToType(v Value, t ast.Type) Value {
	pt, ok := t.(*ast.PrimitiveType)
	if !ok {
		return v
	}
	switch src := v.(type) {
	case IntVal:
		if pt.Kind.IsUnsigned() {
			return UIntVal{V: maskUnsigned(uint64(src.V), pt.Kind.BitWidth())}
		}
		return IntVal{V: maskSigned(src.V, pt.Kind.BitWidth())}
	case UIntVal:
		if pt.Kind.IsSigned() {
			return IntVal{V: maskSigned(int64(src.V), pt.Kind.BitWidth())}
		}
		return UIntVal{V: maskUnsigned(src.V, pt.Kind.BitWidth())}
	default:
		return v
	}
}
