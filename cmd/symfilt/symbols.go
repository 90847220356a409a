package main

import (
	"debug/elf"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skdltmxn/symdemangle/zenc"
)

var (
	symbolsDynamic bool
	symbolsFuncs   bool
	symbolsLimit   int
	symbolsRaw     bool
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <elf-file>",
	Short: "List ELF symbols with demangled names",
	Long: `List the symbols of an ELF object together with their demangled names.

By default the static symbol table is read. Use --dynamic for the dynamic
symbol table and --funcs to show only functions.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().BoolVarP(&symbolsDynamic, "dynamic", "D", false, "read the dynamic symbol table")
	symbolsCmd.Flags().BoolVarP(&symbolsFuncs, "funcs", "f", false, "show only function symbols")
	symbolsCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", 0, "limit number of symbols shown (0 = unlimited)")
	symbolsCmd.Flags().BoolVarP(&symbolsRaw, "raw", "r", false, "also show the raw symbol name")
}

type symbolRow struct {
	sym       elf.Symbol
	demangled string
}

func runSymbols(cmd *cobra.Command, args []string) error {
	f, err := elf.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open ELF: %w", err)
	}
	defer f.Close()

	var syms []elf.Symbol
	if symbolsDynamic {
		syms, err = f.DynamicSymbols()
	} else {
		syms, err = f.Symbols()
	}
	if err != nil {
		return fmt.Errorf("failed to get symbols: %w", err)
	}

	rows := make([]symbolRow, 0, len(syms))
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		if symbolsFuncs && elf.ST_TYPE(s.Info) != elf.STT_FUNC {
			continue
		}
		rows = append(rows, symbolRow{sym: s})
		if symbolsLimit > 0 && len(rows) >= symbolsLimit {
			break
		}
	}

	if err := demangleRows(cmd, rows); err != nil {
		return err
	}

	if symbolsRaw {
		fmt.Fprintf(output, "%-18s %-8s %-8s %-40s %s\n", "VALUE", "SIZE", "TYPE", "RAW", "NAME")
	} else {
		fmt.Fprintf(output, "%-18s %-8s %-8s %s\n", "VALUE", "SIZE", "TYPE", "NAME")
	}
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 90))

	for _, r := range rows {
		typ := strings.TrimPrefix(elf.ST_TYPE(r.sym.Info).String(), "STT_")
		if symbolsRaw {
			fmt.Fprintf(output, "0x%016X %-8d %-8s %-40s %s\n", r.sym.Value, r.sym.Size, typ, r.sym.Name, r.demangled)
		} else {
			fmt.Fprintf(output, "0x%016X %-8d %-8s %s\n", r.sym.Value, r.sym.Size, typ, r.demangled)
		}
	}

	fmt.Fprintf(output, "\nTotal: %d symbols\n", len(rows))
	return nil
}

// demangleRows fills in demangled names using up to cfg.Jobs workers.
func demangleRows(cmd *cobra.Command, rows []symbolRow) error {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)

	const chunk = 256
	for start := 0; start < len(rows); start += chunk {
		start := start
		end := min(start+chunk, len(rows))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				name, err := demangler.Resolve(cfg.CXX, cfg.Z, rows[i].sym.Name)
				if err != nil {
					if cfg.FatalReservedPrefix && errors.Is(err, zenc.ErrReservedPrefix) {
						return err
					}
					logger.Error("reserved library prefix in Z-encoded symbol",
						zap.String("symbol", rows[i].sym.Name), zap.Error(err))
				}
				rows[i].demangled = name
			}
			return nil
		})
	}
	return g.Wait()
}
