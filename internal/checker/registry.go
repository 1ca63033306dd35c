package checker

import "github.com/vexel-lang/vexel/internal/ast"

// TypeRegistry holds declared composite (record) types and the synthetic
// tuple types monomorphization/tuple-returns register along the way.
// The residualizer consults the same registry when reconstructing
// composite/array literals, so it lives here rather than privately inside
// the checker.
type TypeRegistry struct {
	decls map[string]*ast.TypeDecl
	tuples map[string][]ast.Type // "forced_tuple_types" side table
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		decls: make(map[string]*ast.TypeDecl),
		tuples: make(map[string][]ast.Type),
	}
}

func (r *TypeRegistry) Declare(d *ast.TypeDecl) { r.decls[d.Name] = d }

func (r *TypeRegistry) Lookup(name string) (*ast.TypeDecl, bool) {
	d, ok := r.decls[name]
	return d, ok
}

// Field returns the declared type of a field on a Named type, or (for a
// synthetic tuple type) the element type the "__i" field name decodes to.
func (r *TypeRegistry) Field(typeName, fieldName string) (ast.Type, bool) {
	if elems, ok := r.tuples[typeName]; ok {
		if idx, ok := ast.TupleFieldIndex(fieldName); ok && idx >= 0 && idx < len(elems) {
			return elems[idx], true
		}
		return nil, false
	}
	if d, ok := r.decls[typeName]; ok {
		for _, f := range d.Fields {
			if f.Name == fieldName {
				return f.Type, true
			}
		}
	}
	return nil, false
}

// RegisterTuple records a synthetic tuple type's element layout,
// keyed by the name TupleTypeName already computed.
func (r *TypeRegistry) RegisterTuple(name string, elems []ast.Type) {
	if _, exists := r.tuples[name]; exists {
		return
	}
	r.tuples[name] = append([]ast.Type(nil), elems...)
	// A synthetic tuple is also a nameable Named type with positional
	// "__i" fields, so it can be looked up as a TypeDecl-shaped thing by
	// callers that only know about record field layouts.
	fields := make([]*ast.Field, len(elems))
	for i, t := range elems {
		fields[i] = &ast.Field{Name: ast.TupleFieldName(i), Type: t}
	}
	r.decls[name] = &ast.TypeDecl{Name: name, Fields: fields}
}

// TupleElements returns the element types of a synthetic tuple type.
func (r *TypeRegistry) TupleElements(name string) ([]ast.Type, bool) {
	elems, ok := r.tuples[name]
	return elems, ok
}

// IsTuple reports whether name is a registered synthetic tuple type.
func (r *TypeRegistry) IsTuple(name string) bool {
	_, ok := r.tuples[name]
	return ok
}
