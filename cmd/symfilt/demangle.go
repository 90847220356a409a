package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	demangleNoCXX bool
	demangleNoZ   bool
)

var demangleCmd = &cobra.Command{
	Use:   "demangle [symbol...]",
	Short: "Demangle symbol names",
	Long: `Demangle each symbol given on the command line, or each line of
standard input when no symbols are given. Names that cannot be demangled are
printed unchanged.`,
	RunE: runDemangle,
}

func init() {
	demangleCmd.Flags().BoolVar(&demangleNoCXX, "no-cxx", false, "skip C++ and Rust demangling")
	demangleCmd.Flags().BoolVar(&demangleNoZ, "no-z", false, "skip Z-encoded spec decoding")
}

func runDemangle(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		for _, sym := range args {
			if err := demangleOne(sym); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := demangleOne(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func demangleOne(sym string) error {
	doCXX := cfg.CXX && !demangleNoCXX
	doZ := cfg.Z && !demangleNoZ

	name, err := demangler.Resolve(doCXX, doZ, sym)
	if err != nil {
		if cfg.FatalReservedPrefix {
			return err
		}
		logger.Error("reserved library prefix in Z-encoded symbol", zap.String("symbol", sym), zap.Error(err))
	}
	fmt.Fprintln(output, name)
	return nil
}
