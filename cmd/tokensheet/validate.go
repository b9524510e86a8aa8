package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokensheet/internal/diagfmt"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] [SHEET]",
	Short: "Check a token sheet for timeline and naming defects",
	Long: `Validate builds the full registry from the sheet and reports every
defect found: inverted or overlapping intervals, unknown models, duplicate
or ambiguous names. The exit code is non-zero when errors are present.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	sheetArg := ""
	if len(args) == 1 {
		sheetArg = args[0]
	}
	tgt, err := resolveTarget(cmd, sheetArg)
	if err != nil {
		return err
	}
	res := tgt.res
	summary := diagfmt.Summarize(res.Registry, res.Bag)

	switch format {
	case "pretty":
		// resolveTarget already rendered the diagnostics to stderr.
		diagfmt.SummaryPretty(cmd.OutOrStdout(), summary, useColor(cmd, os.Stdout))
	case "json":
		if err := diagfmt.JSON(cmd.OutOrStdout(), res.Bag, diagfmt.JSONOpts{IncludeNotes: true}); err != nil {
			return err
		}
		if err := diagfmt.SummaryJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if res.Bag.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("sheet has %d errors", summary.Errors)
	}
	return nil
}
