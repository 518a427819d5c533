package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type conflictJSON struct {
	Path string   `json:"path"`
	Mods []string `json:"mods"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show game files deployed by more than one enabled mod",
	Long: `Display every game path that more than one enabled mod has placed.

The file on disk belongs to whichever of those mods was enabled last.
Nothing is changed; disable or re-enable mods to pick a winner.

Examples:
  mhwmm conflicts
  mhwmm conflicts --json`,
	Args: cobra.NoArgs,
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	owners, err := svc.Conflicts()
	if err != nil {
		return fmt.Errorf("listing conflicts: %w", err)
	}

	if jsonOutput {
		out := make([]conflictJSON, 0, len(owners))
		for _, o := range owners {
			out = append(out, conflictJSON{Path: o.RelativePath, Mods: o.Mods})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	if len(owners) == 0 {
		fmt.Println("No conflicts.")
		return nil
	}

	fmt.Printf("%s %d conflicting path(s):\n\n", colorYellow("⚠"), len(owners))
	for _, o := range owners {
		fmt.Printf("  %s\n", o.RelativePath)
		fmt.Printf("    %s\n", strings.Join(o.Mods, ", "))
	}
	return nil
}
