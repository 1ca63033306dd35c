package ast

import (
	"fmt"
	"strings"
)

// Type is the sum of Primitive, Array, Named, and TypeVar. Equality is
// structural, not identity: two freshly built Primitive(I32) values
// compare equal.
type Type interface {
	fmt.Stringer
	typeNode()
	// Equals implements structural equality: arrays compare by element
	// type and, when both sizes are known integer literals, by size too.
	Equals(Type) bool
}

// PrimitiveKind enumerates the primitive families.
type PrimitiveKind string

const (
	I8 PrimitiveKind = "i8"
	I16 PrimitiveKind = "i16"
	I32 PrimitiveKind = "i32"
	I64 PrimitiveKind = "i64"
	U8 PrimitiveKind = "u8"
	U16 PrimitiveKind = "u16"
	U32 PrimitiveKind = "u32"
	U64 PrimitiveKind = "u64"
	F32 PrimitiveKind = "f32"
	F64 PrimitiveKind = "f64"
	Bool PrimitiveKind = "bool"
	String PrimitiveKind = "string"
)

// BitWidth returns the bit width of an integer/float primitive, or 0 for
// bool/string where width is not meaningful to the caller.
func (k PrimitiveKind) BitWidth() int {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64:
		return 64
	default:
		return 0
	}
}

// IsSigned reports whether k is a signed integer family.
func (k PrimitiveKind) IsSigned() bool {
	switch k {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether k is an unsigned integer family.
func (k PrimitiveKind) IsUnsigned() bool {
	switch k {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether k is a floating point family.
func (k PrimitiveKind) IsFloat() bool {
	return k == F32 || k == F64
}

// IsInteger reports signed-or-unsigned.
func (k PrimitiveKind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsNumeric reports integer-or-float.
func (k PrimitiveKind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// PrimitiveType is a leaf primitive type.
type PrimitiveType struct {
	Kind PrimitiveKind
}

func NewPrimitive(k PrimitiveKind) *PrimitiveType { return &PrimitiveType{Kind: k} }

func (p *PrimitiveType) typeNode() {}
func (p *PrimitiveType) String() string { return string(p.Kind) }
func (p *PrimitiveType) Equals(other Type) bool {
	o, ok := other.(*PrimitiveType)
	return ok && o.Kind == p.Kind
}

// ArrayType is array<Element, Size>. Size is an Expr so that sizes which
// are not yet known literals can still be carried around before the
// checker validates that they are constexpr.
type ArrayType struct {
	Element Type
	Size Expr
}

func (a *ArrayType) typeNode() {}
func (a *ArrayType) String() string {
	return fmt.Sprintf("array<%s,%s>", a.Element, sizeString(a.Size))
}

func sizeString(size Expr) string {
	if lit, ok := AsIntLiteral(size); ok {
		return fmt.Sprintf("%d", lit)
	}
	if size == nil {
		return "?"
	}
	return "<expr>"
}

// Equals compares element type, and if both sizes are known integer
// literals, compares size too. Otherwise two arrays with non-literal
// sizes are considered equal on element type alone; the checker is
// responsible for rejecting mismatched non-constexpr sizes earlier.
func (a *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	if !ok || !a.Element.Equals(o.Element) {
		return false
	}
	aLit, aOK := AsIntLiteral(a.Size)
	oLit, oOK := AsIntLiteral(o.Size)
	if aOK && oOK {
		return aLit == oLit
	}
	return true
}

// AsIntLiteral extracts a constant integer value directly out of the AST
// without running the CTE, for the common case of a literal array size.
func AsIntLiteral(e Expr) (int64, bool) {
	lit, ok := e.(*IntLiteral)
	if !ok {
		return 0, false
	}
	return lit.Value, true
}

// NamedType references a user-declared type by name. ResolvedSymbol is
// filled in by the resolver and points back at the type's
// declaration for field-layout lookups.
type NamedType struct {
	Name string
	ResolvedSymbol interface{} // *scope.Symbol; interface{} to avoid an import cycle
}

func (n *NamedType) typeNode() {}
func (n *NamedType) String() string { return n.Name }
func (n *NamedType) Equals(other Type) bool {
	o, ok := other.(*NamedType)
	return ok && o.Name == n.Name
}

// TypeVarType is an unresolved generic parameter, e.g. `T` in `fn id<T>(x:T)`.
type TypeVarType struct {
	Name string
}

func (t *TypeVarType) typeNode() {}
func (t *TypeVarType) String() string { return t.Name }
func (t *TypeVarType) Equals(other Type) bool {
	o, ok := other.(*TypeVarType)
	return ok && o.Name == t.Name
}

// IsTypeVar reports whether t is an unresolved generic parameter.
func IsTypeVar(t Type) bool {
	_, ok := t.(*TypeVarType)
	return ok
}

// Signature canonicalizes a type into a string safe for use as a cache
// key component (generic instantiation cache) and for name mangling. It
// is deterministic and collision-free for this package's finite type
// grammar.
func Signature(t Type) string {
	switch v := t.(type) {
	case *PrimitiveType:
		return string(v.Kind)
	case *ArrayType:
		n, ok := AsIntLiteral(v.Size)
		if ok {
			return fmt.Sprintf("A%d_%s", n, Signature(v.Element))
		}
		return fmt.Sprintf("Ax_%s", Signature(v.Element))
	case *NamedType:
		return "N_" + v.Name
	case *TypeVarType:
		return "V_" + v.Name
	default:
		return "?"
	}
}

// MangleTypeTag turns a slice of concrete argument types into the suffix
// used by monomorphization name mangling (`base + "_G_" + tags`)
func MangleTypeTag(types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = Signature(t)
	}
	return strings.Join(parts, "_")
}

// TupleTypeName builds the synthetic name for an N-ary tuple type:
// "__TupleN_T1_T2_...".
func TupleTypeName(elems []Type) string {
	parts := make([]string, len(elems))
	for i, t := range elems {
		parts[i] = Signature(t)
	}
	return fmt.Sprintf("__Tuple%d_%s", len(elems), strings.Join(parts, "_"))
}

// TupleFieldName returns the synthetic field name "__i" for tuple index i.
func TupleFieldName(i int) string { return fmt.Sprintf("__%d", i) }

// TupleFieldIndex parses a synthetic tuple field name back to an index.
// Returns -1, false if name is not of the "__i" form.
func TupleFieldIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, "__") {
		return -1, false
	}
	rest := name[2:]
	if rest == "" {
		return -1, false
	}
	n := 0
	for _, c := range rest {
		if c < '0' || c > '9' {
			return -1, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
