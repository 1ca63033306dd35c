package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse and type-check a module without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		opts, err := resolveOptions("")
		if err != nil {
			return err
		}
		_, ok := loadAndCheck(opts, args[0])
		if !ok {
			return fmt.Errorf("check failed")
		}
		fmt.Println(green("ok"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
