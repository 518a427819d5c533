package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage mod categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and their colors",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name> <color>",
	Short: "Add a category",
	Long: `Add a category with a display color (hex like #ff6b6b or an ANSI number).

Examples:
  mhwmm category add Utility "#4ecdc4"`,
	Args: cobra.ExactArgs(2),
	RunE: runCategoryAdd,
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a category",
	Long:  `Remove a category. Mods that use it keep the name in their manifest.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryRemove,
}

func init() {
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	reg, err := svc.Registry()
	if err != nil {
		return err
	}
	if len(reg.Categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, c := range reg.Categories {
		swatch := "■"
		if colorEnabled() {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(swatch)
		}
		fmt.Printf("%s %-20s %s\n", swatch, c.Name, c.Color)
	}
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	if err := svc.AddCategory(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Added category %s\n", args[0])
	return nil
}

func runCategoryRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	if err := svc.RemoveCategory(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed category %s\n", args[0])
	return nil
}
