package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ps1dev/dlinker"
	"github.com/ps1dev/dlinker/loader"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:          "dlinker",
	Short:        "Inspect and exercise the MIPS PIC dynamic linker",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			loader.SetLogger(log.New(cmd.ErrOrStderr(), "", 0))
		}
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <symbol-map-file>",
	Short: "Parse an nm-style symbol map and report the accepted symbol count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := dlinker.LoadSymbolMap(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "accepted %d symbols\n", n)
		return nil
	},
}

var (
	openMode    string
	openSymName string
	openDump    bool
)

var openCmd = &cobra.Command{
	Use:   "open <module-image>",
	Short: "Load a module image and optionally resolve one symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := dlinker.Lazy
		if openMode == "now" {
			mode = dlinker.Now
		}

		module, err := dlinker.Open(args[0], mode)
		if err != nil {
			return err
		}
		defer module.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "ok")

		if openDump {
			dumpDescriptor(cmd, module)
		}

		if openSymName == "" {
			return nil
		}
		addr, err := module.Sym(openSymName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %#x\n", openSymName, addr)
		return nil
	},
}

// dumpDescriptor prints the descriptor's introspection-only fields: plain
// read-only debug output, never consulted by the loader itself.
func dumpDescriptor(cmd *cobra.Command, module *dlinker.Module) {
	d := module.Descriptor()
	fmt.Fprintf(cmd.OutOrStdout(), "size=%d symbols=%d got_length=%d strsz=%d hipageno=%d unrefextno=%d\n",
		d.Size(), d.SymbolCount(), d.GOTLength(), d.StrSize(), d.HiPageNo(), d.UnrefExtNo())
}

var symCmd = &cobra.Command{
	Use:   "sym <name>",
	Short: "Resolve a name against the process-wide symbol map (RTLD_DEFAULT)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := dlinker.GetSymbolByName(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %#x\n", args[0], addr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable loader debug tracing")

	openCmd.Flags().StringVar(&openMode, "mode", "lazy", "resolve mode: lazy or now")
	openCmd.Flags().StringVar(&openSymName, "sym", "", "resolve this symbol after loading")
	openCmd.Flags().BoolVar(&openDump, "dump", false, "print descriptor introspection fields after loading")

	rootCmd.AddCommand(mapCmd, openCmd, symCmd)
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
