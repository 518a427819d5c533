package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mhwmm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_Structure(t *testing.T) {
	assert.Equal(t, "install [archive]", installCmd.Use)
	for _, name := range []string{"name", "nexus-id", "category", "enable"} {
		assert.NotNil(t, installCmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "delete <name>", deleteCmd.Use)
	assert.NotNil(t, deleteCmd.Flags().Lookup("yes"))

	assert.NotNil(t, editCmd.Flags().Lookup("nexus-id"))
	assert.NotNil(t, editCmd.Flags().Lookup("category"))

	assert.NotEmpty(t, listCmd.Short)
	assert.NotEmpty(t, conflictsCmd.Short)
	assert.NotEmpty(t, previewCmd.Short)
	assert.Len(t, gameCmd.Commands(), 4)
	assert.Len(t, categoryCmd.Commands(), 3)
	assert.Len(t, settingsCmd.Commands(), 2)
	assert.Len(t, authCmd.Commands(), 3)

	// help text names the directory enable actually writes
	assert.Contains(t, enableCmd.Long, "<game>/"+domain.NativePCDir)
	assert.NotContains(t, enableCmd.Long, "<game>/nativePC")
}

func TestLifecycleCommands(t *testing.T) {
	useTempDirs(t)
	installName, installNexusID, installCategories, installEnable = "", "", nil, false
	deleteYes = true
	t.Cleanup(func() { deleteYes = false })

	gameDir := t.TempDir()
	archive := writeZip(t, t.TempDir(), "Better_Lighting-1234-1-0.zip", map[string]string{
		"nativePC/common/light.bin": "light",
		"readme.txt":                "read me",
	})

	_, err := execute(t, installCmd, "", "install", archive)
	require.NoError(t, err)

	manifestPath := filepath.Join(dataDir, "Better Lighting", domain.ManifestFile)
	require.FileExists(t, manifestPath)

	// Enable needs a game directory
	_, err = execute(t, enableCmd, "", "enable", "Better Lighting")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGameDirNotSet)

	_, err = execute(t, gameCmd, "", "game", "set", gameDir)
	require.NoError(t, err)

	_, err = execute(t, enableCmd, "", "enable", "Better Lighting")
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(gameDir, "nativepc", "common", "light.bin"))
	require.NoError(t, err)
	assert.Equal(t, "light", string(content))
	assert.FileExists(t, filepath.Join(gameDir, "readme.txt"))

	_, err = execute(t, infoCmd, "", "info", "Better Lighting")
	require.NoError(t, err)

	_, err = execute(t, disableCmd, "", "disable", "Better Lighting")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(gameDir, "nativepc", "common", "light.bin"))

	_, err = execute(t, deleteCmd, "", "delete", "Better Lighting")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dataDir, "Better Lighting"))

	_, err = execute(t, deleteCmd, "", "delete", "Better Lighting")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestInstallCmd_NexusIDFromArchiveName(t *testing.T) {
	useTempDirs(t)
	installName, installNexusID, installCategories, installEnable = "", "", nil, false

	archive := writeZip(t, t.TempDir(), "Transmog_Plus-4321-2-1-1700000000.zip", map[string]string{
		"nativepc/a.bin": "a",
	})
	_, err := execute(t, installCmd, "", "install", archive, "--category", "Cosmetic")
	require.NoError(t, err)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	mod, err := svc.LoadMod("Transmog Plus")
	require.NoError(t, err)
	assert.Equal(t, "4321", mod.ExternalID)
	assert.Equal(t, []string{"Cosmetic"}, mod.Categories)
	assert.False(t, mod.Enabled)
}

func TestDeleteCmd_DeclinedPrompt(t *testing.T) {
	useTempDirs(t)
	installName, installNexusID, installCategories, installEnable = "mod", "", nil, false
	t.Cleanup(func() { installName = "" })
	deleteYes = false

	archive := writeZip(t, t.TempDir(), "mod.zip", map[string]string{"nativepc/a.bin": "a"})
	_, err := execute(t, installCmd, "", "install", archive)
	require.NoError(t, err)

	out, err := execute(t, deleteCmd, "n\n", "delete", "mod")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, out, "Aborted.")
	assert.DirExists(t, filepath.Join(dataDir, "mod"))
}

func TestEditCmd(t *testing.T) {
	useTempDirs(t)

	_, err := execute(t, editCmd, "", "edit", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to edit")

	installName, installNexusID, installCategories, installEnable = "mod", "", nil, false
	t.Cleanup(func() { installName = "" })
	archive := writeZip(t, t.TempDir(), "mod.zip", map[string]string{"nativepc/a.bin": "a"})
	_, err = execute(t, installCmd, "", "install", archive)
	require.NoError(t, err)

	_, err = execute(t, editCmd, "", "edit", "mod", "--nexus-id", "77", "--category", "Weapons,Armor")
	require.NoError(t, err)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	mod, err := svc.LoadMod("mod")
	require.NoError(t, err)
	assert.Equal(t, "77", mod.ExternalID)
	assert.Equal(t, []string{"Weapons", "Armor"}, mod.Categories)
}

func TestSettingsCmd(t *testing.T) {
	useTempDirs(t)

	_, err := execute(t, settingsCmd, "", "settings", "set", "bogus", "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")

	_, err = execute(t, settingsCmd, "", "settings", "set", "show-conflict-warnings", "maybe")
	require.Error(t, err)

	_, err = execute(t, settingsCmd, "", "settings", "set", "show-conflict-warnings", "false")
	require.NoError(t, err)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	reg, err := svc.Registry()
	require.NoError(t, err)
	assert.False(t, reg.Settings.ShowConflictWarnings)
	assert.True(t, reg.Settings.AutoDetectConflicts)
}

func TestCategoryCmd(t *testing.T) {
	useTempDirs(t)

	_, err := execute(t, categoryCmd, "", "category", "add", "Utility", "#123456")
	require.NoError(t, err)

	_, err = execute(t, categoryCmd, "", "category", "add", "Utility", "#123456")
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	_, err = execute(t, categoryCmd, "", "category", "remove", "Utility")
	require.NoError(t, err)

	_, err = execute(t, categoryCmd, "", "category", "remove", "Utility")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestGameSetCmd_MissingDirectory(t *testing.T) {
	useTempDirs(t)

	_, err := execute(t, gameCmd, "", "game", "set", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGameDirNotFound)
}

func TestGameDetectCmd(t *testing.T) {
	useTempDirs(t)

	root := t.TempDir()
	steamapps := filepath.Join(root, "steamapps")
	require.NoError(t, os.MkdirAll(filepath.Join(steamapps, "common", "Monster Hunter World"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(steamapps, "libraryfolders.vdf"),
		[]byte("\"libraryfolders\"\n{\n\t\"0\"\n\t{\n\t\t\"path\"\t\t\""+root+"\"\n\t}\n}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(steamapps, "appmanifest_582010.acf"),
		[]byte("\"AppState\"\n{\n\t\"appid\"\t\t\"582010\"\n\t\"name\"\t\t\"Monster Hunter: World\"\n\t\"installdir\"\t\t\"Monster Hunter World\"\n}\n"), 0644))
	t.Setenv("STEAM_ROOT", root)

	_, err := execute(t, gameCmd, "", "game", "detect")
	require.NoError(t, err)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	reg, err := svc.Registry()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(steamapps, "common", "Monster Hunter World"), reg.GameDirectory)
}

func TestListAndConflictsCmd_Empty(t *testing.T) {
	useTempDirs(t)

	_, err := execute(t, listCmd, "", "list")
	require.NoError(t, err)

	_, err = execute(t, conflictsCmd, "", "conflicts")
	require.NoError(t, err)
}

func TestPreviewCmd(t *testing.T) {
	archive := writeZip(t, t.TempDir(), "mod.zip", map[string]string{"Data/NativePC/a.bin": "a"})

	_, err := execute(t, previewCmd, "", "preview", archive)
	require.NoError(t, err)

	_, err = execute(t, previewCmd, "", "preview", filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestArchiveCmds_RejectUnsupportedFormat(t *testing.T) {
	useTempDirs(t)
	installName, installNexusID, installCategories, installEnable = "", "", nil, false

	archive := filepath.Join(t.TempDir(), "mod.rar")
	require.NoError(t, os.WriteFile(archive, []byte("Rar!"), 0644))

	_, err := execute(t, previewCmd, "", "preview", archive)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrArchiveUnreadable)

	_, err = execute(t, installCmd, "", "install", archive)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.IsDir(), "no mod directory expected, found %s", e.Name())
	}
}

func TestAuthCmd_SaveAndLogout(t *testing.T) {
	useTempDirs(t)

	_, err := execute(t, authCmd, "", "auth", "nexus", "abcd1234efgh")
	require.NoError(t, err)

	svc, err := initService()
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh", getNexusAPIKey(svc))
	require.NoError(t, svc.Close())

	t.Setenv("NEXUSMODS_API_KEY", "from-env-key")
	svc, err = initService()
	require.NoError(t, err)
	assert.Equal(t, "from-env-key", getNexusAPIKey(svc))
	require.NoError(t, svc.Close())

	_, err = execute(t, authCmd, "", "auth", "logout")
	require.NoError(t, err)
}

func TestInstallCmd_FromURL(t *testing.T) {
	useTempDirs(t)
	installName, installNexusID, installCategories, installEnable = "", "", nil, false

	archive := writeZip(t, t.TempDir(), "local.zip", map[string]string{"nativepc/a.bin": "a"})
	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	_, err = execute(t, installCmd, "", "install", server.URL+"/files/Remote_Mod-808-1-0.zip")
	require.NoError(t, err)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	mod, err := svc.LoadMod("Remote Mod")
	require.NoError(t, err)
	assert.Equal(t, "808", mod.ExternalID)
	assert.Equal(t, []string{"a.bin"}, mod.Files.NativePC)
}
