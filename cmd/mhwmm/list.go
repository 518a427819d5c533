package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"mhwmm/internal/domain"
	"mhwmm/internal/tui/views"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

type listJSONOutput struct {
	Mods   []domain.InstalledMod `json:"mods"`
	Errors []string              `json:"errors,omitempty"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed mods in registry order",
	Long: `List installed mods in the order they were installed.

Mods whose manifest cannot be read are skipped with a warning.

Examples:
  mhwmm list
  mhwmm list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	mods, failures, err := svc.LoadAll()
	if err != nil {
		return err
	}

	if jsonOutput {
		out := listJSONOutput{Mods: mods}
		if out.Mods == nil {
			out.Mods = []domain.InstalledMod{}
		}
		for _, f := range failures {
			out.Errors = append(out.Errors, f.Error())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorYellow("warning:"), f)
	}
	if len(mods) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	fmt.Println(renderModTable(mods))
	return nil
}

// renderModTable formats mods as a bordered table
func renderModTable(mods []domain.InstalledMod) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", "Status", "Categories", "Files", "Size", "Installed")

	if colorEnabled() {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	}

	for _, m := range mods {
		t = t.Row(
			strconv.Itoa(m.Order),
			m.Name,
			stateLabel(&m.ModManifest),
			strings.Join(m.Categories, ", "),
			strconv.Itoa(m.Files.Count()),
			views.FormatSize(m.FileSize),
			m.InstallDate.Local().Format("2006-01-02"),
		)
	}
	return t.String()
}
