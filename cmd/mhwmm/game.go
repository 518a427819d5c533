package main

import (
	"errors"
	"fmt"

	"mhwmm/internal/source/steam"
	"mhwmm/internal/tui"

	"github.com/spf13/cobra"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Show or change the game directory",
	Long: `Manage the game directory mods are enabled into.

Without a subcommand, prints the configured directory.`,
	Args: cobra.NoArgs,
	RunE: runGameShow,
}

var gameShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured game directory",
	Args:  cobra.NoArgs,
	RunE:  runGameShow,
}

var gameSetCmd = &cobra.Command{
	Use:   "set <dir>",
	Short: "Set the game directory",
	Long: `Set the game directory. The directory must exist; '~' is expanded.

Examples:
  mhwmm game set "~/.local/share/Steam/steamapps/common/Monster Hunter World"`,
	Args: cobra.ExactArgs(1),
	RunE: runGameSet,
}

var gamePickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose the game directory with a folder picker",
	Args:  cobra.NoArgs,
	RunE:  runGamePick,
}

var gameDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Find the game in the local Steam libraries",
	Long: `Search the Steam libraries for Monster Hunter: World and use its folder.

Steam roots are searched in the usual locations; set STEAM_ROOT to search a
specific installation first. The Steam App ID comes from the steam_app_id
preference (default 582010).`,
	Args: cobra.NoArgs,
	RunE: runGameDetect,
}

func init() {
	gameCmd.AddCommand(gameShowCmd)
	gameCmd.AddCommand(gameSetCmd)
	gameCmd.AddCommand(gamePickCmd)
	gameCmd.AddCommand(gameDetectCmd)
	rootCmd.AddCommand(gameCmd)
}

func runGameShow(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	reg, err := svc.Registry()
	if err != nil {
		return err
	}
	if reg.GameDirectory == "" {
		fmt.Println("Game directory not set. Use 'mhwmm game detect', 'game pick' or 'game set <dir>'.")
		return nil
	}
	fmt.Println(reg.GameDirectory)
	return nil
}

func runGameSet(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	dir, err := svc.SetGameDirectory(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Game directory set to %s\n", dir)
	return nil
}

func runGamePick(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	dir, err := svc.SelectGameDirectory(cmd.Context(), tui.NewPicker(""))
	if err != nil {
		return cancelledOnNoSelection(err)
	}
	fmt.Printf("Game directory set to %s\n", dir)
	return nil
}

func runGameDetect(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	roots := steam.FindSteamRoots()
	if len(roots) == 0 {
		return fmt.Errorf("no Steam installation found; set STEAM_ROOT or use 'mhwmm game set <dir>'")
	}
	if verbose {
		for _, r := range roots {
			fmt.Printf("Searching Steam root %s\n", r)
		}
	}

	install, err := steam.FindApp(paths.Prefs.SteamAppID, roots)
	if err != nil {
		if errors.Is(err, steam.ErrAppNotInstalled) {
			return fmt.Errorf("app %s is not installed in any Steam library; use 'mhwmm game set <dir>'", paths.Prefs.SteamAppID)
		}
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	dir, err := svc.SetGameDirectory(install.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Found %s in %s\n", install.Name, install.Library)
	fmt.Printf("Game directory set to %s\n", dir)
	return nil
}
