package main

import (
	"bufio"
	"fmt"
	"strings"

	"mhwmm/internal/domain"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm", "uninstall"},
	Short:   "Remove a mod from the game directory and the mod store",
	Long: `Delete an installed mod.

An enabled mod is disabled first, then its store folder and registry entry
are removed. This cannot be undone; reinstall from the archive to get the
mod back.

Examples:
  mhwmm delete "Better Lighting"
  mhwmm delete "Better Lighting" --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	state, err := svc.ModState(name)
	if err != nil {
		return err
	}
	if state == domain.StateAbsent {
		return domain.NotFound("delete", svc.Store().ModPath(name), domain.ErrModDirNotFound)
	}

	if !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %s (%s)? [y/N] ", name, state)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return ErrCancelled
		}
	}

	if err := svc.Delete(cmd.Context(), name); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", colorRed("Deleted"), name)
	return nil
}
