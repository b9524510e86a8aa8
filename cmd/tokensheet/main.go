package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tokensheet/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tokensheet",
	Short: "Calculator token registry and tokenization toolkit",
	Long: `tokensheet maintains the versioned registry of calculator BASIC tokens:
what byte value a token has, what it was called on which model and OS
release, and how to translate between token bytes and source text.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(detokenizeCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("sheet", "", "token sheet XML (default: from tokensheet.toml)")
	rootCmd.PersistentFlags().String("model", "", "calculator model for queries (default: latest)")
	rootCmd.PersistentFlags().String("os", "", "OS version for queries, e.g. 5.3")
	rootCmd.PersistentFlags().String("lang", "", "language for names (default: en)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Bool("no-cache", false, "skip the decoded-sheet disk cache")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
