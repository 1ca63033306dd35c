// Package interp registers the "interp" backend, which runs a checked
// module's top-level, non-external `main` function (exported or not)
// directly through the compile-time
// evaluator. It reuses internal/cte's tree-walking interpreter rather
// than writing a second evaluator, the same way the teacher's REPL
// reuses the eval package instead of carrying its own execution engine.
package interp

import (
	"fmt"
	"io"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/backend"
	"github.com/vexel-lang/vexel/internal/cte"
	"github.com/vexel-lang/vexel/internal/scope"
)

type interpBackend struct{}

func init() {
	backend.Register(&interpBackend{})
}

func (interpBackend) Info() backend.Info {
	return backend.Info{Name: "interp", Description: "execute main() through the compile-time evaluator", Version: "0.1.0"}
}

func (interpBackend) Emit(ctx *backend.Context) error {
	fd := findMain(ctx.Module)
	if fd == nil {
		return fmt.Errorf("interp: no top-level fn main() found")
	}

	sym := &scope.Symbol{Name: fd.Name, Kind: scope.KindFunction, Declaration: fd}
	callee := &ast.Identifier{ExprBase: ast.NewExprBase(fd.Pos), Name: fd.Name, ResolvedSymbol: sym}
	call := &ast.Call{ExprBase: ast.NewExprBase(fd.Pos), Operand: callee}

	env := cte.NewEnv()
	result := cte.Eval(call, env)

	out := ctx.Out
	if out == nil {
		out = io.Discard
	}

	switch result.Status {
	case cte.Known:
		fmt.Fprintln(out, result.Value)
		return nil
	case cte.Error:
		return fmt.Errorf("interp: %s", result.Diag.Message)
	default:
		return fmt.Errorf("interp: main() is not compile-time evaluable: %s", result.Reason)
	}
}

func findMain(mod *ast.Module) *ast.FuncDecl {
	for _, stmt := range mod.Statements {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd.Name == "main" && !fd.IsExternal {
			return fd
		}
	}
	return nil
}

func (interpBackend) ParseOption(argv []string, index int) backend.ParseResult {
	return backend.ParseResult{Owned: false}
}

func (interpBackend) PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "interp backend: no options")
}
