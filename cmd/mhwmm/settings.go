package main

import (
	"fmt"
	"strconv"

	"mhwmm/internal/domain"

	"github.com/spf13/cobra"
)

// settingKeys maps accepted key spellings to setters
var settingKeys = map[string]func(*domain.AppSettings, bool){
	"auto-detect-conflicts":  func(s *domain.AppSettings, v bool) { s.AutoDetectConflicts = v },
	"autoDetectConflicts":    func(s *domain.AppSettings, v bool) { s.AutoDetectConflicts = v },
	"show-conflict-warnings": func(s *domain.AppSettings, v bool) { s.ShowConflictWarnings = v },
	"showConflictWarnings":   func(s *domain.AppSettings, v bool) { s.ShowConflictWarnings = v },
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change application settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <true|false>",
	Short: "Change a setting",
	Long: `Change a setting stored in config.json.

Keys:
  auto-detect-conflicts    look up files owned by other mods when enabling
  show-conflict-warnings   warn about those files

Examples:
  mhwmm settings set show-conflict-warnings false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	reg, err := svc.Registry()
	if err != nil {
		return err
	}
	printSettings(reg.Settings)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	set, ok := settingKeys[args[0]]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: auto-detect-conflicts, show-conflict-warnings)", args[0])
	}
	value, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid value %q: expected true or false", args[1])
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer closeService(svc)

	settings, err := svc.UpdateSettings(func(s *domain.AppSettings) { set(s, value) })
	if err != nil {
		return err
	}
	printSettings(settings)
	return nil
}

func printSettings(s domain.AppSettings) {
	fmt.Printf("auto-detect-conflicts:  %t\n", s.AutoDetectConflicts)
	fmt.Printf("show-conflict-warnings: %t\n", s.ShowConflictWarnings)
}
