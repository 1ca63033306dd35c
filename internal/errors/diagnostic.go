package errors

import (
	"fmt"

	"github.com/vexel-lang/vexel/internal/ast"
)

// Diagnostic is the structured error type every core pass returns
// instead of printing — the core never prints, only the driver formats
// these for display.
type Diagnostic struct {
	Code string
	Phase string
	Pos ast.Pos
	Message string
	Suggestion string
}

func (d *Diagnostic) Error() string {
	if d.Suggestion != "" {
		return fmt.Sprintf("%s: %s [%s] (%s) — %s", d.Pos, d.Message, d.Code, d.Phase, d.Suggestion)
	}
	return fmt.Sprintf("%s: %s [%s] (%s)", d.Pos, d.Message, d.Code, d.Phase)
}

// New builds a Diagnostic.
func New(code, phase string, pos ast.Pos, message string) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Pos: pos, Message: message}
}

// WithSuggestion attaches a fix hint and returns the same Diagnostic for
// chaining at the call site.
func (d *Diagnostic) WithSuggestion(s string) *Diagnostic {
	d.Suggestion = s
	return d
}

// List accumulates diagnostics across a pass. A semantic error
// terminates the *current* top-level statement, not the whole module —
// so passes keep going and collect multiple diagnostics rather than
// aborting on the first one.
type List struct {
	items []*Diagnostic
}

func (l *List) Add(d *Diagnostic) { l.items = append(l.items, d) }

// Extend appends every diagnostic from others onto l.
func (l *List) Extend(others []*Diagnostic) { l.items = append(l.items, others...) }

func (l *List) HasErrors() bool { return len(l.items) > 0 }

func (l *List) Items() []*Diagnostic { return l.items }

func (l *List) Error() string {
	if len(l.items) == 0 {
		return ""
	}
	msg := l.items[0].Error()
	if len(l.items) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(l.items)-1)
	}
	return msg
}
