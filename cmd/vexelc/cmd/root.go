package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set by ldflags during release builds.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var (
	projectRoot  string
	allowProcess bool
)

var rootCmd = &cobra.Command{
	Use:   "vexelc",
	Short: "vexel compiler driver",
	Long: `vexelc is the reference driver for vexel, a statically-typed
systems language with a compile-time evaluator and a pluggable backend
registry.

It runs a module through the full pipeline: lex, parse, resolve,
type-check and monomorphize, fold compile-time-constant expressions,
optimize, residualize, lower, and hand the result to a named backend.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", ".", "root directory resource{} paths and imports are resolved against")
	rootCmd.PersistentFlags().BoolVar(&allowProcess, "allow-process", false, "allow process{} expressions to execute a shell command at compile time")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
