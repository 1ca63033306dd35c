// Command vexelc is the vexel compiler driver: lex, parse, resolve,
// type-check, monomorphize, fold constants, optimize, residualize,
// lower, and hand the result to a registered backend.
package main

import (
	"fmt"
	"os"

	"github.com/vexel-lang/vexel/cmd/vexelc/cmd"

	// Backends self-register from their own init(); blank-importing here
	// is what makes them visible to the registry without the driver
	// importing a concrete backend type directly.
	_ "github.com/vexel-lang/vexel/internal/backend/dump"
	_ "github.com/vexel-lang/vexel/internal/backend/interp"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
