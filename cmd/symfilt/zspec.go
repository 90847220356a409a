package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/symdemangle/zenc"
)

var zdecodeCmd = &cobra.Command{
	Use:   "zdecode <symbol>...",
	Short: "Show the fields of Z-encoded interception specs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runZDecode,
}

var (
	zencodeLib   string
	zencodeFn    string
	zencodeWrap  bool
	zencodeTag   int
	zencodePrio  int
	zencodePlain bool
)

var zencodeCmd = &cobra.Command{
	Use:   "zencode --lib <soname> --fn <function>",
	Short: "Build a Z-encoded interception spec",
	Long: `Build the symbol name that redirects or wraps a function in a library.

Example:
  symfilt zencode --lib 'libc.so*' --fn malloc
  _vgr00000ZZ_libcZdsoZa_malloc`,
	Args: cobra.NoArgs,
	RunE: runZEncode,
}

func init() {
	zencodeCmd.Flags().StringVar(&zencodeLib, "lib", "", "library soname pattern")
	zencodeCmd.Flags().StringVar(&zencodeFn, "fn", "", "function name pattern")
	zencodeCmd.Flags().BoolVar(&zencodeWrap, "wrap", false, "wrap instead of redirect")
	zencodeCmd.Flags().IntVar(&zencodeTag, "tag", 0, "equivalence-class tag (0-9999)")
	zencodeCmd.Flags().IntVar(&zencodePrio, "prio", 0, "equivalence-class priority (0-9)")
	zencodeCmd.Flags().BoolVar(&zencodePlain, "plain", false, "store the function name without escaping")
	_ = zencodeCmd.MarkFlagRequired("lib")
	_ = zencodeCmd.MarkFlagRequired("fn")
}

func runZDecode(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, sym := range args {
		spec, err := zenc.Decode(sym)
		if err != nil {
			if cfg.FatalReservedPrefix && errors.Is(err, zenc.ErrReservedPrefix) {
				return err
			}
			fmt.Fprintf(output, "%s: %v\n\n", sym, err)
			failed++
			continue
		}
		printSpec(sym, spec)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d symbols are not valid Z-encoded specs", failed, len(args))
	}
	return nil
}

func printSpec(sym string, spec zenc.Spec) {
	kind := "redirect"
	if spec.Wrap {
		kind = "wrap"
	}
	fmt.Fprintf(output, "Symbol: %s\n", sym)
	fmt.Fprintf(output, "  Kind: %s\n", kind)
	fmt.Fprintf(output, "  Library: %s\n", spec.Library)
	fmt.Fprintf(output, "  Function: %s\n", spec.Function)
	fmt.Fprintf(output, "  EClassTag: %d\n", spec.EClassTag)
	fmt.Fprintf(output, "  EClassPrio: %d\n", spec.EClassPrio)
	fmt.Fprintln(output)
}

func runZEncode(cmd *cobra.Command, args []string) error {
	sym, err := zenc.Encode(zenc.Spec{
		Library:    zencodeLib,
		Function:   zencodeFn,
		Wrap:       zencodeWrap,
		EClassTag:  zencodeTag,
		EClassPrio: zencodePrio,
	}, !zencodePlain)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, sym)
	return nil
}
