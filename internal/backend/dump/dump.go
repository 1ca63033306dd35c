// Package dump registers the "dump" backend, which prints the fully
// checked, optimized, residualized and lowered module tree using
// ast.Dump. It exists as the zero-dependency baseline backend, the way
// the teacher's builtins package registers a "Show" default before any
// richer renderer is wired in.
package dump

import (
	"fmt"
	"io"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/backend"
)

type dumpBackend struct{}

func init() {
	backend.Register(&dumpBackend{})
}

func (dumpBackend) Info() backend.Info {
	return backend.Info{Name: "dump", Description: "print the lowered AST as an s-expression tree", Version: "0.1.0"}
}

func (dumpBackend) Emit(ctx *backend.Context) error {
	for _, stmt := range ctx.Module.Statements {
		fmt.Fprintln(ctx.Out, ast.Dump(stmt))
	}
	return nil
}

func (dumpBackend) ParseOption(argv []string, index int) backend.ParseResult {
	return backend.ParseResult{Owned: false}
}

func (dumpBackend) PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "dump backend: no options")
}
