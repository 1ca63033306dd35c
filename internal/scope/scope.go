// Package scope implements the lexical scope and symbol table: scopes
// keyed by a monotone id, symbols tagged with a kind and
// mutability/visibility flags.
package scope

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
)

// Kind tags what a Symbol denotes.
type Kind int

const (
	KindFunction Kind = iota
	KindType
	KindConstant
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Symbol is a named binding in a Scope.
type Symbol struct {
	Name string
	Kind Kind
	Type ast.Type
	IsMutable bool
	IsExternal bool
	IsExported bool
	Declaration ast.Node // FuncDecl, TypeDecl, VarDecl, or Param site
	ScopeInstanceID int
}

// Scope is one lexical block. Every scope has a monotone ID distinguishing
// it from every other scope ever created in this process, so that two
// structurally identical scopes (e.g. two calls to the same generic
// function) never collide in side tables keyed by scope id.
type Scope struct {
	ID int
	Parent *Scope
	symbols map[string]*Symbol
	// InstanceID tags symbols declared while resolving an imported module
	// (GLOSSARY "Instance id"), carried down to children.
	InstanceID int
}

var nextScopeID int

// New creates a root scope (InstanceID 0, the "local module" instance).
func New() *Scope {
	return &Scope{ID: nextScopeIDAlloc(), symbols: make(map[string]*Symbol)}
}

// NewWithInstance creates a root scope tagged with an import instance id.
func NewWithInstance(instanceID int) *Scope {
	s := New()
	s.InstanceID = instanceID
	return s
}

func nextScopeIDAlloc() int {
	nextScopeID++
	return nextScopeID
}

// Child creates a nested scope, inheriting the parent's instance id.
func (s *Scope) Child() *Scope {
	return &Scope{
		ID: nextScopeIDAlloc(),
		Parent: s,
		symbols: make(map[string]*Symbol),
		InstanceID: s.InstanceID,
	}
}

// Define inserts sym into this scope. "_" may always shadow a prior
// definition in the same scope; any other name redefined in the SAME
// scope is an error the resolver surfaces as "name shadows existing
// definition" — Define itself just reports whether the name already
// existed here so callers can decide.
func (s *Scope) Define(sym *Symbol) (shadowed bool) {
	sym.ScopeInstanceID = s.InstanceID
	if sym.Name != "_" {
		if _, exists := s.symbols[sym.Name]; exists {
			shadowed = true
		}
	}
	s.symbols[sym.Name] = sym
	return shadowed
}

// Lookup searches this scope and its ancestors.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only this scope, not ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// QualifiedMethodName builds "TypeName::method" / "TypeName::op" /
// "TypeName::@" / "TypeName::@@" lookup names.
func QualifiedMethodName(typeName, method string) string {
	return fmt.Sprintf("%s::%s", typeName, method)
}

const (
	OpMethodSuffix = "op"
	IterMethodSuffix = "@"
	SortedIterMethodSuffix = "@@"
)
