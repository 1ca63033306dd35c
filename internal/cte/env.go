package cte

import (
	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/scope"
)

// Caps bound the evaluator's recursion depth, loop iteration count, and
// total step budget. They are fields (not constants) so tests can shrink
// them to exercise the cap-exceeded paths cheaply.
type Caps struct {
	MaxRecursionDepth int
	MaxLoopIterations int
	MaxSteps int
}

// DefaultCaps returns the evaluator's production limits.
func DefaultCaps() Caps {
	return Caps{MaxRecursionDepth: 1000, MaxLoopIterations: 65536, MaxSteps: 2_000_000}
}

// OnEvalFunc is invoked with (expr, value) after every successful
// evaluation; the optimizer uses this to populate OptimizationFacts.
type OnEvalFunc func(nodeID uint64, v Value)

// OnGlobalReadFunc is invoked with a global symbol on every read; used to
// build the constexpr-readers graph for cycle detection.
type OnGlobalReadFunc func(sym *scope.Symbol)

// Env is the binding environment CTE evaluates against. It is
// single-threaded. Its globals and its step counter persist across every
// Eval call made with the same Env: the checker keeps one Env for a whole
// module so that a later constant can read an earlier one's Known value.
type Env struct {
	// locals is a stack of scopes; each Block push/pops one for lexical
	// shadowing.
	locals []map[string]Value
	// globals holds Known values for constants/variables visible from
	// the enclosing module, keyed by qualified symbol identity.
	globals map[*scope.Symbol]Value

	caps Caps

	recursionDepth int
	returnDepth int
	loopDepth int
	steps int

	// exprThunks holds unevaluated expression-parameter bindings, keyed
	// by parameter name, together with the Env they must be evaluated in
	// (the *caller's* environment, since an expression parameter
	// re-evaluates the caller's expression inside the callee).
	exprThunks map[string]thunk
	// thunkGuard detects a cycle among expression-parameter uses.
	thunkGuard map[string]bool

	// receivers names the current call frame's receiver-parameter
	// bindings; assigning to one of these is rejected the same way as a
	// mutable global, since a receiver is bound by value at the call site.
	receivers map[string]bool

	OnEval OnEvalFunc
	OnGlobalRead OnGlobalReadFunc
}

type thunk struct {
	expr ast.Expr
	env *Env
}

// NewEnv creates a fresh top-level environment.
func NewEnv() *Env {
	return &Env{
		locals: []map[string]Value{make(map[string]Value)},
		globals: make(map[*scope.Symbol]Value),
		caps: DefaultCaps(),
		exprThunks: make(map[string]thunk),
		thunkGuard: make(map[string]bool),
	}
}

// WithCaps overrides the default caps (used by tests that shrink the caps
// to reach the cap-exceeded paths).
func (e *Env) WithCaps(c Caps) *Env {
	e.caps = c
	return e
}

// SetGlobal registers a Known value for a global symbol, as built up by
// the checker/optimizer while walking VarDecls in order.
func (e *Env) SetGlobal(sym *scope.Symbol, v Value) {
	e.globals[sym] = v
}

func (e *Env) pushScope() { e.locals = append(e.locals, make(map[string]Value)) }
func (e *Env) popScope() { e.locals = e.locals[:len(e.locals)-1] }

func (e *Env) defineLocal(name string, v Value) {
	e.locals[len(e.locals)-1][name] = v
}

// lookupLocal searches only the local-scope stack (innermost first),
// NOT globals — used to distinguish a local binding from a global read.
func (e *Env) lookupLocal(name string) (Value, bool) {
	for i := len(e.locals) - 1; i >= 0; i-- {
		if v, ok := e.locals[i][name]; ok {
			return v, true
		}
	}
	return Value(nil), false
}

// assignLocal mutates the nearest scope that already defines name:
// outer-variable assignments persist past the block that wrote them,
// while declarations do not leak out of the block that introduced them.
// Returns false if name isn't bound in any local scope.
func (e *Env) assignLocal(name string, v Value) bool {
	for i := len(e.locals) - 1; i >= 0; i-- {
		if _, ok := e.locals[i][name]; ok {
			e.locals[i][name] = v
			return true
		}
	}
	return false
}

// enterCall swaps in a fresh local-scope stack and receiver set for a
// function invocation, returning a closure that restores the caller's
// frame. Isolating the stack this way keeps a callee from ever seeing the
// caller's locals except through its declared parameters.
func (e *Env) enterCall(recvNames []string) func() {
	savedLocals := e.locals
	savedReceivers := e.receivers
	e.locals = []map[string]Value{make(map[string]Value)}
	e.receivers = make(map[string]bool, len(recvNames))
	for _, n := range recvNames {
		e.receivers[n] = true
	}
	return func() {
		e.locals = savedLocals
		e.receivers = savedReceivers
	}
}

func (e *Env) isReceiver(name string) bool {
	return e.receivers[name]
}

func (e *Env) tickStep() bool {
	e.steps++
	return e.steps <= e.caps.MaxSteps
}
