package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"mhwmm/internal/domain"
	"mhwmm/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkCopy, cfg.DeployMethod)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.DefaultNexusGameDomain, cfg.NexusGameDomain)
	assert.Equal(t, config.DefaultSteamAppID, cfg.SteamAppID)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
deploy_method: hardlink
log_level: debug
data_dir: /srv/mods
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkHardlink, cfg.DeployMethod)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/srv/mods", cfg.DataDir)
	assert.Equal(t, config.DefaultNexusGameDomain, cfg.NexusGameDomain)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("deploy_method: [unclosed"), 0644))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	cfg.DeployMethod = domain.LinkSymlink

	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkSymlink, loaded.DeployMethod)
}
