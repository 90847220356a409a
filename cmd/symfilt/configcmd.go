package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config <path>",
	Short: "Write the effective configuration to a YAML file",
	Long: `Write the configuration in effect for this invocation, after the config
file, environment and flags have been applied, to path. The result can be
passed back with --config.

Example:
  symfilt --cxx-option no_params -j 4 config ~/.config/symfilt.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Save(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(output, "Wrote %s\n", args[0])
		return nil
	},
}
