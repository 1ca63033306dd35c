package cte

import "github.com/vexel-lang/vexel/internal/errors"

// Status is the three-valued outcome of evaluating an expression: Known
// means the expression deterministically produces Value on every
// reachable path; Unknown is a soft failure (blocked by a non-constexpr
// input, never aborts compilation); Error is a hard, provable
// compile-time failure.
type Status int

const (
	Known Status = iota
	Unknown
	Error
)

func (s Status) String() string {
	switch s {
	case Known:
		return "Known"
	case Unknown:
		return "Unknown"
	case Error:
		return "Error"
	default:
		return "?"
	}
}

// Result is what Eval returns for every expression.
type Result struct {
	Status Status
	Value Value
	Reason string // populated for Unknown
	Diag *errors.Diagnostic // populated for Error
}

func known(v Value) Result { return Result{Status: Known, Value: v} }
func unknown(reason string) Result { return Result{Status: Unknown, Reason: reason} }
func errResult(d *errors.Diagnostic) Result { return Result{Status: Error, Diag: d} }

// ControlFlow is the non-local transfer sum: modeling break/continue/
// return as an explicit value avoids exception-based control flow while
// keeping every evaluator step a plain function return.
type ControlFlow struct {
	Kind cfKind
	Value Result // for cfReturn: the returned Result; for cfValue: the expression's own Result
}

type cfKind int

const (
	cfValue cfKind = iota
	cfBreak
	cfContinue
	cfReturn
)

func cfVal(r Result) ControlFlow { return ControlFlow{Kind: cfValue, Value: r} }
func cfBreakFlow() ControlFlow { return ControlFlow{Kind: cfBreak} }
func cfContinueFlow() ControlFlow { return ControlFlow{Kind: cfContinue} }
func cfReturnFlow(r Result) ControlFlow { return ControlFlow{Kind: cfReturn, Value: r} }
