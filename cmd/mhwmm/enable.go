package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Copy a mod's files into the game directory",
	Long: `Enable an installed mod.

The mod's nativePC folder is merged into <game>/nativepc and its other
top-level entries are placed in the game root. Existing files are
overwritten, including files placed there by other enabled mods; use
'mhwmm conflicts' to see overlapping paths. Enabling an enabled mod copies
its files again.

Examples:
  mhwmm enable "Better Lighting"`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Remove a mod's files from the game directory",
	Long: `Disable an installed mod.

Only the paths recorded in the mod's manifest are removed. Paths that are
already gone are skipped. The mod stays in the mod store.

Examples:
  mhwmm disable "Better Lighting"`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	if err := svc.Enable(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", colorGreen("Enabled"), args[0])
	return nil
}

func runDisable(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	if err := svc.Disable(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", colorYellow("Disabled"), args[0])
	return nil
}
