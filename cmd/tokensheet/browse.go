package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tokensheet/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [flags]",
	Short: "Browse the registry interactively",
	Long: `Browse opens a terminal browser over every token in the registry,
filterable by name or byte value, scoped to the selected model and OS
version.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("browse needs a terminal")
	}

	tgt, err := resolveTarget(cmd, "")
	if err != nil {
		return err
	}

	model := ui.NewBrowseModel(tgt.res.Registry, tgt.point, tgt.lang)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err = program.Run()
	return err
}
