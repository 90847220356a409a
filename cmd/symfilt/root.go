package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skdltmxn/symdemangle/demangle"
	"github.com/skdltmxn/symdemangle/internal/config"
	"github.com/skdltmxn/symdemangle/internal/logging"
)

var (
	outputFile string
	configFile string
	verbose    bool

	output    io.Writer
	cfg       *config.Config
	logger    *zap.Logger
	demangler *demangle.Demangler
)

var rootCmd = &cobra.Command{
	Use:   "symfilt",
	Short: "Symbol name demangler for diagnostics",
	Long: `symfilt turns raw linker symbol names into readable names.

It undoes Z-encoded interception specs (_vgr00000ZU_libcZdsoZa_malloc),
Itanium C++ mangling (_ZN3foo3barEv) and Rust legacy mangling
(_ZN3foo3bar17h05af221e174051e9E), in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = cmd.OutOrStdout()
		}

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}

		demangler, err = cfg.Demangler(demangle.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to configure demangler: %w", err)
		}
		logger.Debug("configured",
			zap.Bool("demangle", cfg.Demangle),
			zap.Bool("cxx", cfg.CXX),
			zap.Bool("z", cfg.Z),
			zap.Strings("cxx_options", cfg.GeneralOptions))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(demangleCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(zdecodeCmd)
	rootCmd.AddCommand(zencodeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(configCmd)
}
