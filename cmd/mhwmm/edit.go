package main

import (
	"fmt"
	"strings"

	"mhwmm/internal/core"

	"github.com/spf13/cobra"
)

var (
	editNexusID    string
	editCategories []string
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a mod's Nexus ID or categories",
	Long: `Change the metadata stored in a mod's manifest.

Only the Nexus ID and the categories can be edited. Pass an empty value to
clear either one.

Examples:
  mhwmm edit "Better Lighting" --nexus-id 1234
  mhwmm edit "Better Lighting" --category Cosmetic --category Utility
  mhwmm edit "Better Lighting" --category ""`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editNexusID, "nexus-id", "", "new Nexus Mods ID")
	editCmd.Flags().StringSliceVarP(&editCategories, "category", "c", nil, "replace categories (repeatable)")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	var edit core.ModEdit
	if cmd.Flags().Changed("nexus-id") {
		id := strings.TrimSpace(editNexusID)
		edit.ExternalID = &id
	}
	if cmd.Flags().Changed("category") {
		edit.Categories = []string{}
		for _, c := range editCategories {
			if c = strings.TrimSpace(c); c != "" {
				edit.Categories = append(edit.Categories, c)
			}
		}
	}
	if edit.ExternalID == nil && edit.Categories == nil {
		return fmt.Errorf("nothing to edit; use --nexus-id or --category")
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	manifest, err := svc.EditMod(args[0], edit)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %s\n", manifest.Name)
	if manifest.ExternalID != "" {
		fmt.Printf("  Nexus ID:   %s\n", manifest.ExternalID)
	}
	fmt.Printf("  Categories: %s\n", strings.Join(manifest.Categories, ", "))
	return nil
}
