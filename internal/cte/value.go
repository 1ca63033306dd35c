// Package cte implements a tree-walking compile-time evaluator: a
// single-threaded interpreter over the typed AST that yields a tagged
// Value under a three-valued status {Known, Unknown, Error}.
package cte

import "fmt"

// Value is the tagged value domain CTE evaluates into.
type Value interface {
	fmt.Stringer
	valueNode()
	// Clone returns a value safe to mutate independently of the
	// original, implementing copy-on-write for Array/Composite.
	Clone() Value
}

type IntVal struct{ V int64 }

func (IntVal) valueNode() {}
func (v IntVal) String() string { return fmt.Sprintf("%d", v.V) }
func (v IntVal) Clone() Value { return v }

type UIntVal struct{ V uint64 }

func (UIntVal) valueNode() {}
func (v UIntVal) String() string { return fmt.Sprintf("%d", v.V) }
func (v UIntVal) Clone() Value { return v }

type FloatVal struct{ V float64 }

func (FloatVal) valueNode() {}
func (v FloatVal) String() string { return fmt.Sprintf("%g", v.V) }
func (v FloatVal) Clone() Value { return v }

type BoolVal struct{ V bool }

func (BoolVal) valueNode() {}
func (v BoolVal) String() string { return fmt.Sprintf("%t", v.V) }
func (v BoolVal) Clone() Value { return v }

type StringVal struct{ V string }

func (StringVal) valueNode() {}
func (v StringVal) String() string { return v.V }
func (v StringVal) Clone() Value { return v }

// ArrayVal is a sequence of values. Arrays use copy-on-write: Clone
// performs a shallow copy of the backing slice (element values are
// themselves immutable scalars or are cloned recursively on element
// mutation by the caller), so two ArrayVals never alias the same backing
// array across two separate CTE invocations.
type ArrayVal struct{ Elems []Value }

func (ArrayVal) valueNode() {}
func (v ArrayVal) String() string {
	return fmt.Sprintf("%v", v.Elems)
}
func (v ArrayVal) Clone() Value {
	elems := make([]Value, len(v.Elems))
	copy(elems, v.Elems)
	return ArrayVal{Elems: elems}
}

// CompositeVal is a named struct value. Fields preserves the declared
// field order (needed when the residualizer rebuilds a positional
// constructor call from a Known composite).
type CompositeVal struct {
	TypeName string
	Order []string
	Fields map[string]Value
}

func (CompositeVal) valueNode() {}
func (v CompositeVal) String() string {
	return fmt.Sprintf("%s%v", v.TypeName, v.Fields)
}
func (v CompositeVal) Clone() Value {
	fields := make(map[string]Value, len(v.Fields))
	for k, fv := range v.Fields {
		fields[k] = fv
	}
	return CompositeVal{TypeName: v.TypeName, Order: append([]string(nil), v.Order...), Fields: fields}
}

// UninitVal marks a declared-but-not-yet-assigned local or field.
// Accessing one is a hard CTE Error.
type UninitVal struct{}

func (UninitVal) valueNode() {}
func (UninitVal) String() string { return "<uninitialized>" }
func (v UninitVal) Clone() Value { return v }

// Get looks up a field on a Composite, with positional access for
// synthetic tuples.
func (v CompositeVal) Get(field string) (Value, bool) {
	fv, ok := v.Fields[field]
	return fv, ok
}

// WithField returns a copy of v with field set to val (copy-on-write,
// used by the Assignment lvalue path).
func (v CompositeVal) WithField(field string, val Value) CompositeVal {
	c := v.Clone().(CompositeVal)
	c.Fields[field] = val
	return c
}

// WithIndex returns a copy of v with index i set to val.
func (v ArrayVal) WithIndex(i int, val Value) ArrayVal {
	c := v.Clone().(ArrayVal)
	c.Elems[i] = val
	return c
}
