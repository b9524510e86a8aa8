package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokensheet/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags]",
	Short: "Export the registry for other tools",
	Long: `Export renders the registry in a machine-readable form: the full
versioned sheet as JSON, or a TokenIDE-compatible XML snapshot scoped to
the selected model and OS version.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "json", "output format (json|tokenide)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	tgt, err := resolveTarget(cmd, "")
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return export.JSON(cmd.OutOrStdout(), tgt.res.Registry)
	case "tokenide":
		return export.TokenIDE(cmd.OutOrStdout(), tgt.res.Registry, tgt.point, tgt.lang)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
