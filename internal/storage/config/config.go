package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mhwmm/internal/domain"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultNexusGameDomain is the Nexus Mods domain for Monster Hunter: World
	DefaultNexusGameDomain = "monsterhunterworld"
	// DefaultSteamAppID is Monster Hunter: World's Steam App ID
	DefaultSteamAppID = "582010"
)

// Config holds user preferences for the command line tool
type Config struct {
	DeployMethod    domain.LinkMethod `yaml:"-"`
	DeployMethodStr string            `yaml:"deploy_method"`
	DataDir         string            `yaml:"data_dir,omitempty"`
	LogLevel        string            `yaml:"log_level"`
	NexusGameDomain string            `yaml:"nexus_game_domain"`
	SteamAppID      string            `yaml:"steam_app_id"`
}

// FileName is the preferences file inside the config directory
const FileName = "config.yaml"

// Load reads preferences from the given directory
func Load(configDir string) (*Config, error) {
	return LoadFile(filepath.Join(configDir, FileName))
}

// LoadFile reads preferences from an explicit file path
func LoadFile(configPath string) (*Config, error) {
	cfg := &Config{
		DeployMethod:    domain.LinkCopy,
		LogLevel:        "info",
		NexusGameDomain: DefaultNexusGameDomain,
		SteamAppID:      DefaultSteamAppID,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DeployMethodStr != "" {
		cfg.DeployMethod = domain.ParseLinkMethod(cfg.DeployMethodStr)
	}

	return cfg, nil
}

// Save writes preferences to the given directory
func (c *Config) Save(configDir string) error {
	c.DeployMethodStr = c.DeployMethod.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, FileName), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
