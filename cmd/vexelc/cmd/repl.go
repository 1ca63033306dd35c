package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/checker"
	"github.com/vexel-lang/vexel/internal/cte"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/lexer"
	"github.com/vexel-lang/vexel/internal/parser"
	"github.com/vexel-lang/vexel/internal/scope"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	RunE: func(c *cobra.Command, args []string) error {
		runREPL(os.Stdin, os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runREPL evaluates one expression per line. Each line is checked and
// evaluated as a fresh `fn main() { <line> }`, so declarations do not
// persist across lines; this keeps the REPL built directly on the same
// single-module pipeline `run`/`check` use instead of a second,
// stateful evaluation path.
func runREPL(in io.Reader, out io.Writer) {
	fmt.Fprintf(out, "%s %s\n", bold("vexelc"), bold(Version))
	fmt.Fprintln(out, "Type an expression to evaluate it, :quit to exit.")

	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		runREPLWithLiner(out)
		return
	}
	runREPLWithScanner(in, out)
}

func runREPLWithLiner(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	for {
		input, err := line.Prompt("vexel> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nbye"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		line.AppendHistory(input)
		if !evalREPLLine(input, out) {
			return
		}
	}
}

func runREPLWithScanner(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "vexel> ")
	for scanner.Scan() {
		if !evalREPLLine(scanner.Text(), out) {
			return
		}
		fmt.Fprint(out, "vexel> ")
	}
	fmt.Fprintln(out, green("bye"))
}

func evalREPLLine(input string, out io.Writer) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return true
	}
	if input == ":quit" || input == ":q" || input == ":exit" {
		fmt.Fprintln(out, green("bye"))
		return false
	}

	src := fmt.Sprintf("fn main() { %s }", input)
	l := lexer.New(src, "<repl>")
	p := parser.New(l, "<repl>")
	mod, diags := p.Parse()
	if diags.HasErrors() {
		printREPLDiags(diags, out)
		return true
	}

	root := scope.New()
	c := checker.New(mod, root)
	if err := c.CheckModule(); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return true
	}
	if c.Diags.HasErrors() {
		printREPLDiags(&c.Diags, out)
		return true
	}

	fd := mod.Statements[0].(*ast.FuncDecl)
	sym := &scope.Symbol{Name: "main", Kind: scope.KindFunction, Declaration: fd}
	callee := &ast.Identifier{ExprBase: ast.NewExprBase(fd.Pos), Name: "main", ResolvedSymbol: sym}
	call := &ast.Call{ExprBase: ast.NewExprBase(fd.Pos), Operand: callee}

	result := cte.Eval(call, cte.NewEnv())
	switch result.Status {
	case cte.Known:
		fmt.Fprintln(out, result.Value)
	case cte.Error:
		fmt.Fprintf(out, "%s: %s\n", red("error"), result.Diag.Message)
	default:
		fmt.Fprintf(out, "%s: not compile-time evaluable: %s\n", yellow("note"), result.Reason)
	}
	return true
}

func printREPLDiags(diags *errors.List, out io.Writer) {
	for _, d := range diags.Items() {
		fmt.Fprintf(out, "%s: %s\n", red("error"), d.Message)
	}
}
