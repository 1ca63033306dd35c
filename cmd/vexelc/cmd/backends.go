package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vexel-lang/vexel/internal/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List registered backends",
	RunE: func(c *cobra.Command, args []string) error {
		for _, info := range backend.List() {
			fmt.Printf("%s\t%s\t%s\n", bold(info.Name), info.Version, info.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
