package main

import (
	"fmt"

	"mhwmm/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var manageCmd = &cobra.Command{
	Use:     "manage",
	Aliases: []string{"tui"},
	Short:   "Browse installed mods interactively",
	Long: `Open an interactive list of installed mods.

space toggles a mod, d deletes it after confirmation, r reloads and ? shows
all keys.`,
	Args: cobra.NoArgs,
	RunE: runManage,
}

func init() {
	rootCmd.AddCommand(manageCmd)
}

func runManage(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	p := tea.NewProgram(tui.NewApp(cmd.Context(), svc), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
