package checker

import "github.com/vexel-lang/vexel/internal/ast"

// sameFamily reports whether a and b belong to the same numeric family
// (signed, unsigned, or float).
func sameFamily(a, b ast.PrimitiveKind) bool {
	switch {
	case a.IsSigned() && b.IsSigned():
		return true
	case a.IsUnsigned() && b.IsUnsigned():
		return true
	case a.IsFloat() && b.IsFloat():
		return true
	default:
		return false
	}
}

// wider returns whichever of a, b has the larger bit width (same family
// assumed already verified by the caller).
func wider(a, b ast.PrimitiveKind) ast.PrimitiveKind {
	if a.BitWidth() >= b.BitWidth() {
		return a
	}
	return b
}

// UnifyArith implements binary-arithmetic unification: the result type
// promotes within a numeric family to the wider type; across families is
// a type error unless the AST already shows an explicit cast on one side
// (which simply makes both operands the same family before unification
// ever runs).
func UnifyArith(left, right ast.Type) (ast.Type, bool) {
	lp, lok := left.(*ast.PrimitiveType)
	rp, rok := right.(*ast.PrimitiveType)
	if !lok || !rok || !lp.Kind.IsNumeric() || !rp.Kind.IsNumeric() {
		return nil, false
	}
	if lp.Kind == rp.Kind {
		return lp, true
	}
	if !sameFamily(lp.Kind, rp.Kind) {
		return nil, false
	}
	return ast.NewPrimitive(wider(lp.Kind, rp.Kind)), true
}

// LiteralAssignableTo implements the literal-fit rule: an integer
// literal L is assignable to primitive T iff L's value fits T's range
// under two's-complement/bitwidth semantics.
func LiteralAssignableTo(t *ast.PrimitiveType, lit *ast.IntLiteral) bool {
	if !t.Kind.IsInteger() {
		return false
	}
	if t.Kind.IsUnsigned() && lit.Value < 0 {
		return false
	}
	w := t.Kind.BitWidth()
	if t.Kind.IsSigned() {
		min := -(int64(1) << (w - 1))
		max := (int64(1) << (w - 1)) - 1
		return lit.Value >= min && lit.Value <= max
	}
	// Unsigned: compare against the max unsigned value representable in
	// w bits. For w == 64 that maximum exceeds any int64, so only the
	// sign is checked, which also avoids overflowing the shift below.
	if w == 64 {
		return lit.Value >= 0
	}
	maxU := (int64(1) << w) - 1
	return lit.Value >= 0 && lit.Value <= maxU
}

// SmallestFittingPrimitive picks the smallest family-appropriate
// primitive that fits lit's value.
func SmallestFittingPrimitive(lit *ast.IntLiteral) *ast.PrimitiveType {
	candidates := []ast.PrimitiveKind{ast.I8, ast.I16, ast.I32, ast.I64}
	if lit.Unsigned {
		candidates = []ast.PrimitiveKind{ast.U8, ast.U16, ast.U32, ast.U64}
	}
	for _, k := range candidates {
		t := ast.NewPrimitive(k)
		if LiteralAssignableTo(t, lit) {
			return t
		}
	}
	// Falls back to the widest family member; CTE/backends surface range
	// errors for genuinely out-of-range literals later if consumed as a
	// narrower type.
	return ast.NewPrimitive(candidates[len(candidates)-1])
}
