package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vexel-lang/vexel/internal/backend"
)

var (
	runBackend string
	backendArgs []string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Check a module and emit it through a backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		opts, err := resolveOptions(runBackend)
		if err != nil {
			return err
		}
		if opts.Backend == "" {
			opts.Backend = "interp"
		}

		b, ok := backend.Find(opts.Backend)
		if !ok {
			available := make([]string, 0)
			for _, info := range backend.List() {
				available = append(available, info.Name)
			}
			return &backend.NotFoundError{Name: opts.Backend, Available: available}
		}

		mod, ok := loadAndCheck(opts, args[0])
		if !ok {
			return fmt.Errorf("compilation failed")
		}

		bopts := backend.NewOptions()
		for i := 0; i < len(backendArgs); i++ {
			res := b.ParseOption(backendArgs, i)
			if res.Err != nil {
				return res.Err
			}
		}

		ctx := &backend.Context{
			Module:            mod.Module,
			Checker:           mod.Checker,
			Options:           bopts,
			OptimizationFacts: mod.Facts,
			Out:               os.Stdout,
		}
		return b.Emit(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runBackend, "backend", "", "backend to emit through (default: interp, or the manifest's default_backend)")
	runCmd.Flags().StringArrayVar(&backendArgs, "backend-arg", nil, "option forwarded to the selected backend's ParseOption")
}
