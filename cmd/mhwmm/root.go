package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mhwmm/internal/core"
	"mhwmm/internal/domain"
	"mhwmm/internal/source/nexusmods"
	"mhwmm/internal/storage/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrCancelled is returned when the user cancels an operation (picker closed, prompt declined).
// When returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

var (
	version = "0.3.0"

	// Global flags
	configDir  string
	dataDir    string
	configFile string
	verbose    bool
	jsonOutput bool
	noColor    bool
)

// env resolves directory and API key settings from the environment
var env = viper.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mhwmm",
	Short: "Monster Hunter: World mod manager",
	Long: `mhwmm installs Monster Hunter: World mods from ZIP archives into a private
mod store and enables or disables them in the game directory without losing
track of which files each mod placed there.

Use subcommands for operations. Run 'mhwmm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/mhwmm, env MHWMM_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "mod store directory (default: ~/.local/share/mhwmm, env MHWMM_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "explicit preferences file (absolute .yaml path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (preview, list, info, conflicts)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	env.SetEnvPrefix("MHWMM")
	env.AutomaticEnv()
	_ = env.BindEnv("nexus_api_key", "NEXUSMODS_API_KEY")
	env.SetDefault("log_level", "")
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorGreen(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiGreen + s + ansiReset
}

func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiRed + s + ansiReset
}

func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiYellow + s + ansiReset
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q,"kind":%q}`+"\n", err.Error(), domain.KindOf(err).String())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// appPaths is the resolved configuration for one invocation
type appPaths struct {
	ConfigDir string
	DataDir   string
	Prefs     *config.Config
}

// resolvePaths applies flag > environment > preferences > default for the
// config and data directories and loads the preferences file.
func resolvePaths() (*appPaths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home directory: %w", err)
	}

	p := &appPaths{ConfigDir: configDir, DataDir: dataDir}
	if p.ConfigDir == "" {
		p.ConfigDir = env.GetString("config_dir")
	}
	if p.ConfigDir == "" {
		p.ConfigDir = filepath.Join(homeDir, ".config", "mhwmm")
	}

	if configFile != "" {
		path, err := config.ParseConfigPath(configFile)
		if err != nil {
			return nil, fmt.Errorf("--config-file: %w", err)
		}
		p.Prefs, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		p.Prefs, err = config.Load(p.ConfigDir)
		if err != nil {
			return nil, err
		}
	}

	if p.DataDir == "" {
		p.DataDir = env.GetString("data_dir")
	}
	if p.DataDir == "" {
		p.DataDir = p.Prefs.DataDir
	}
	if p.DataDir == "" {
		p.DataDir = filepath.Join(homeDir, ".local", "share", "mhwmm")
	}

	return p, nil
}

// newLogger builds the stderr logger. --verbose wins over the log_level
// environment variable, which wins over the preferences file.
func newLogger(prefLevel string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mhwmm"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}

	level := env.GetString("log_level")
	if level == "" {
		level = prefLevel
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	paths, err := resolvePaths()
	if err != nil {
		return nil, err
	}

	return core.NewService(core.ServiceConfig{
		DataDir:    paths.DataDir,
		LinkMethod: paths.Prefs.DeployMethod,
		Logger:     newLogger(paths.Prefs.LogLevel),
	})
}

// closeService closes the service, warning on failure
func closeService(svc *core.Service) {
	if err := svc.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing service: %v\n", err)
	}
}

// getNexusAPIKey retrieves the Nexus API key from the environment or database
func getNexusAPIKey(svc *core.Service) string {
	if key := env.GetString("nexus_api_key"); key != "" {
		return key
	}

	token, err := svc.GetSourceToken(nexusmods.SourceID)
	if err != nil || token == nil {
		return ""
	}
	return token.APIKey
}

// cancelledOnNoSelection maps a closed picker to ErrCancelled
func cancelledOnNoSelection(err error) error {
	if domain.KindOf(err) == domain.KindNoSelection {
		return ErrCancelled
	}
	return err
}
