package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mhwmm/internal/domain"
	"mhwmm/internal/source/nexusmods"
	"mhwmm/internal/tui/views"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a mod's manifest and file list",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	mod, err := svc.LoadMod(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mod); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	deployed, err := svc.DeployedFiles(mod.Name)
	if err != nil {
		return fmt.Errorf("reading deployed files: %w", err)
	}

	printModInfo(mod, deployed, paths.Prefs.NexusGameDomain)
	return nil
}

// stateLabel colors a mod's lifecycle state for terminal output
func stateLabel(m *domain.ModManifest) string {
	switch state := m.State(); state {
	case domain.StateEnabled:
		return colorGreen(state.String())
	default:
		return colorYellow(state.String())
	}
}

func printModInfo(mod *domain.InstalledMod, deployed []string, nexusDomain string) {
	status := stateLabel(&mod.ModManifest)

	fmt.Printf("Name:       %s\n", mod.Name)
	fmt.Printf("Status:     %s\n", status)
	fmt.Printf("Order:      %d\n", mod.Order)
	if mod.ExternalID != "" {
		fmt.Printf("Nexus ID:   %s (%s)\n", mod.ExternalID, nexusmods.ModURL(nexusDomain, mod.ExternalID))
	}
	if len(mod.Categories) > 0 {
		fmt.Printf("Categories: %s\n", strings.Join(mod.Categories, ", "))
	}
	fmt.Printf("Installed:  %s\n", mod.InstallDate.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Size:       %s\n", views.FormatSize(mod.FileSize))

	if mod.Enabled && deployed != nil {
		fmt.Printf("Deployed:   %d files tracked in the game directory\n", len(deployed))
	}

	fmt.Printf("\nGame paths (%d):\n", mod.Files.Count())
	for _, p := range mod.Files.GamePaths() {
		fmt.Printf("  %s\n", p)
	}
}
