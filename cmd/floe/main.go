package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"floe/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "floe",
	Short: "Incremental semantic indexer for Python",
	Long:  `Floe builds per-file semantic indexes of Python source: scopes, symbols, definitions, and flow-sensitive name binding.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers (0=auto)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk result cache")
	rootCmd.PersistentFlags().String("trace", "off", "trace verbosity (off|phase|detail|debug)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
