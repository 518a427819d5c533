package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"mhwmm/internal/core"
	"mhwmm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract_Zip(t *testing.T) {
	zipPath := createTestZip(t, t.TempDir(), "mod.zip",
		zipEntry{name: "readme.txt", content: "This is a readme file"},
		zipEntry{name: "nativepc/pl/f_equip/a.tex", content: "texture"},
		zipEntry{name: "empty/"},
	)
	destDir := filepath.Join(t.TempDir(), "nested", "dest")

	require.NoError(t, core.NewExtractor().Extract(zipPath, destDir))

	assert.Equal(t, map[string]string{
		"readme.txt":                "This is a readme file",
		"nativepc/pl/f_equip/a.tex": "texture",
	}, snapshot(t, destDir))

	info, err := os.Stat(filepath.Join(destDir, "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExtractor_Extract_NormalizesNativePC(t *testing.T) {
	zipPath := createTestZip(t, t.TempDir(), "mod.zip",
		zipEntry{name: "NativePC/"},
		zipEntry{name: "NativePC/textures/a.dds", content: "dds"},
	)
	destDir := t.TempDir()

	require.NoError(t, core.NewExtractor().Extract(zipPath, destDir))

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nativepc", entries[0].Name())

	content, err := os.ReadFile(filepath.Join(destDir, "nativepc", "textures", "a.dds"))
	require.NoError(t, err)
	assert.Equal(t, "dds", string(content))
}

func TestExtractor_Extract_OverwritesExisting(t *testing.T) {
	destDir := t.TempDir()
	writeFile(t, filepath.Join(destDir, "readme.txt"), "old contents that are longer")
	zipPath := createTestZip(t, t.TempDir(), "mod.zip", zipEntry{name: "readme.txt", content: "new"})

	require.NoError(t, core.NewExtractor().Extract(zipPath, destDir))

	content, err := os.ReadFile(filepath.Join(destDir, "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestExtractor_Extract_BackslashNames(t *testing.T) {
	zipPath := createTestZip(t, t.TempDir(), "mod.zip",
		zipEntry{name: `nativePC\common\text.gmd`, content: "gmd"},
	)
	destDir := t.TempDir()

	require.NoError(t, core.NewExtractor().Extract(zipPath, destDir))

	assert.Equal(t, map[string]string{"nativepc/common/text.gmd": "gmd"}, snapshot(t, destDir))
}

func TestExtractor_Extract_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	zipPath := createTestZip(t, t.TempDir(), "evil.zip",
		zipEntry{name: "../escaped.txt", content: "x"},
	)
	destDir := filepath.Join(base, "dest")

	err := core.NewExtractor().Extract(zipPath, destDir)
	require.Error(t, err)
	assert.Equal(t, domain.KindIO, domain.KindOf(err))

	_, statErr := os.Stat(filepath.Join(base, "escaped.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractor_Extract_KeepsEarlierEntriesOnFailure(t *testing.T) {
	// The third entry needs "first.txt" to be a directory, so it cannot be written.
	zipPath := createTestZip(t, t.TempDir(), "mod.zip",
		zipEntry{name: "first.txt", content: "one"},
		zipEntry{name: "nativepc/a.bin", content: "a"},
		zipEntry{name: "first.txt/second.txt", content: "two"},
	)
	destDir := t.TempDir()

	err := core.NewExtractor().Extract(zipPath, destDir)
	require.Error(t, err)
	assert.Equal(t, domain.KindIO, domain.KindOf(err))

	assert.Equal(t, map[string]string{
		"first.txt":      "one",
		"nativepc/a.bin": "a",
	}, snapshot(t, destDir))
}

func TestExtractor_Extract_MissingArchive(t *testing.T) {
	err := core.NewExtractor().Extract(filepath.Join(t.TempDir(), "missing.zip"), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrArchiveUnreadable)
	assert.ErrorIs(t, err, domain.ErrArchiveNotFound)
}

func TestExtractor_Extract_NotAZip(t *testing.T) {
	bogus := filepath.Join(t.TempDir(), "bogus.zip")
	writeFile(t, bogus, "this is not a zip archive")

	err := core.NewExtractor().Extract(bogus, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, domain.KindCorrupt, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrArchiveUnreadable)
}

func TestNormalizeNativePC(t *testing.T) {
	tests := []struct {
		name string
		dirs []string
		want []string
	}{
		{"mixed case", []string{"NATIVEPC"}, []string{"nativepc"}},
		{"already lowercase", []string{"nativepc"}, []string{"nativepc"}},
		{"absent", []string{"data"}, []string{"data"}},
		{"nested is untouched", []string{"Data/NativePC"}, []string{"Data"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.FromSlash(d)), 0755))
			}

			require.NoError(t, core.NormalizeNativePC(dir))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestNormalizeNativePC_IgnoresFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "NativePC"), "not a directory")

	require.NoError(t, core.NormalizeNativePC(dir))

	_, err := os.Stat(filepath.Join(dir, "NativePC"))
	assert.NoError(t, err)
}

func TestExtractor_CanExtract(t *testing.T) {
	e := core.NewExtractor()
	assert.True(t, e.CanExtract("mod.zip"))
	assert.True(t, e.CanExtract("MOD.ZIP"))
	assert.False(t, e.CanExtract("mod.7z"))
	assert.False(t, e.CanExtract("mod.rar"))
	assert.Equal(t, "zip", e.DetectFormat("a.Zip"))
}
