package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var filterCmd = &cobra.Command{
	Use:   "filter [file...]",
	Short: "Demangle symbols inside text such as stack traces",
	Long: `Copy text to the output, replacing every mangled symbol it contains
with its demangled form. Reads standard input when no files are given.

Example:
  valgrind ./prog 2>&1 | symfilt filter`,
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return demangler.FilterLines(output, cmd.InOrStdin())
	}

	for _, path := range args {
		if err := filterFile(path); err != nil {
			return err
		}
	}
	return nil
}

func filterFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return demangler.FilterLines(output, f)
}
