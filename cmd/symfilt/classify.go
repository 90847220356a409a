package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/symdemangle/internal/rustsym"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <name>...",
	Short: "Report whether names carry Rust legacy mangling",
	Long: `Report whether each name, already stripped of its C++ mangling,
looks like a Rust legacy name (a path ending in ::h followed by a 16 digit
hash), and what it decodes to.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	for _, name := range args {
		if rustsym.IsMangled(name) {
			fmt.Fprintf(output, "rust  %s => %s\n", name, rustsym.Demangle(name))
		} else {
			fmt.Fprintf(output, "plain %s\n", name)
		}
	}
	return nil
}
