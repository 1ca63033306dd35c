package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vexel-lang/vexel/internal/config"
	"github.com/vexel-lang/vexel/internal/errors"
	"github.com/vexel-lang/vexel/internal/loader"
)

// resolveOptions layers any vexel.yaml found at or above projectRoot
// under the flags the user set explicitly, matching config.Options.Merge's
// flags-always-win contract.
func resolveOptions(backend string) (*config.Options, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	opts := &config.Options{
		ProjectRoot:  root,
		Backend:      backend,
		AllowProcess: allowProcess,
	}
	if manifestPath, ok := config.FindManifest(root); ok {
		manifest, err := config.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		opts.Merge(manifest)
	}
	return opts, nil
}

// loadAndCheck runs a file through the loader (parse, resource/process
// expansion, resolve, check, optimize, residualize, lower) and prints any
// diagnostics in the teacher's red/yellow color scheme.
func loadAndCheck(opts *config.Options, file string) (*loader.LoadedModule, bool) {
	ld := loader.New(opts.ProjectRoot, opts.AllowProcess)
	mod, diags := ld.LoadFile(file)
	printDiagnostics(diags)
	return mod, !diags.HasErrors()
}

func printDiagnostics(diags *errors.List) {
	for _, d := range diags.Items() {
		label := red("error")
		fmt.Fprintf(os.Stderr, "%s[%s] %s:%d:%d: %s\n", label, d.Code, d.Pos.File, d.Pos.Line, d.Pos.Column, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s %s\n", yellow("help:"), d.Suggestion)
		}
	}
}
