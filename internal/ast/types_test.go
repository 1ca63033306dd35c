package ast

import "testing"

func TestPrimitiveEquals(t *testing.T) {
	a := NewPrimitive(I32)
	b := NewPrimitive(I32)
	c := NewPrimitive(U32)
	if !a.Equals(b) {
		t.Fatalf("expected i32 == i32")
	}
	if a.Equals(c) {
		t.Fatalf("expected i32 != u32")
	}
}

func TestArrayEqualsBySizeWhenBothLiteral(t *testing.T) {
	mk := func(n int64) *ArrayType {
		return &ArrayType{Element: NewPrimitive(U8), Size: &IntLiteral{ExprBase: NewExprBase(Pos{}), Value: n}}
	}
	a4 := mk(4)
	b4 := mk(4)
	c8 := mk(8)
	if !a4.Equals(b4) {
		t.Fatalf("expected array<u8,4> == array<u8,4>")
	}
	if a4.Equals(c8) {
		t.Fatalf("expected array<u8,4> != array<u8,8>")
	}
}

func TestArrayEqualsIgnoresNonLiteralSize(t *testing.T) {
	dyn := &ArrayType{Element: NewPrimitive(I32), Size: &Identifier{ExprBase: NewExprBase(Pos{}), Name: "n"}}
	lit := &ArrayType{Element: NewPrimitive(I32), Size: &IntLiteral{ExprBase: NewExprBase(Pos{}), Value: 10}}
	if !dyn.Equals(lit) {
		t.Fatalf("expected array equality to fall back to element-only comparison when a size isn't a literal")
	}
}

func TestTupleTypeNameAndFieldRoundTrip(t *testing.T) {
	name := TupleTypeName([]Type{NewPrimitive(I32), NewPrimitive(Bool)})
	if name != "__Tuple2_i32_bool" {
		t.Fatalf("got %q", name)
	}
	for i := 0; i < 3; i++ {
		field := TupleFieldName(i)
		idx, ok := TupleFieldIndex(field)
		if !ok || idx != i {
			t.Fatalf("round-trip failed for index %d: field=%s idx=%d ok=%v", i, field, idx, ok)
		}
	}
	if _, ok := TupleFieldIndex("name"); ok {
		t.Fatalf("expected non-__N field name to fail parse")
	}
}

func TestMangleTypeTag(t *testing.T) {
	tag := MangleTypeTag([]Type{NewPrimitive(I32), NewPrimitive(Bool)})
	if tag != "i32_bool" {
		t.Fatalf("got %q", tag)
	}
}
