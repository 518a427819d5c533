package core_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mhwmm/internal/core"
	"mhwmm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloader_Fetch(t *testing.T) {
	content := []byte("test file content")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "17")
		w.Write(content)
	}))
	defer server.Close()

	var progressCalls []core.DownloadProgress
	dest := t.TempDir()

	result, err := core.NewDownloader(nil).Fetch(context.Background(), server.URL+"/files/Better_Lighting-1234-1-0.zip", dest,
		func(p core.DownloadProgress) { progressCalls = append(progressCalls, p) })
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "Better_Lighting-1234-1-0.zip"), result.Path)
	assert.Equal(t, int64(17), result.Size)
	assert.Len(t, result.SHA256, 64)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	require.NotEmpty(t, progressCalls)
	last := progressCalls[len(progressCalls)-1]
	assert.Equal(t, int64(17), last.Downloaded)
	assert.InDelta(t, 100.0, last.Percentage, 0.001)
	assert.NoFileExists(t, result.Path+".part")
}

func TestDownloader_Fetch_ContentDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../../Mod-55-2-0.zip"`)
		w.Write([]byte("zip"))
	}))
	defer server.Close()

	dest := t.TempDir()
	result, err := core.NewDownloader(nil).Fetch(context.Background(), server.URL+"/download?id=1", dest, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "Mod-55-2-0.zip"), result.Path)
}

func TestDownloader_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	dest := t.TempDir()
	_, err := core.NewDownloader(nil).Fetch(context.Background(), server.URL+"/mod.zip", dest, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDownloadFailed)
	assert.Equal(t, domain.KindIO, domain.KindOf(err))

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloader_Fetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never read"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := core.NewDownloader(nil).Fetch(ctx, server.URL+"/mod.zip", t.TempDir(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRemoteArchive(t *testing.T) {
	assert.True(t, core.IsRemoteArchive("https://example.com/mod.zip"))
	assert.True(t, core.IsRemoteArchive("http://localhost:8080/a.zip"))
	assert.False(t, core.IsRemoteArchive("/home/user/mod.zip"))
	assert.False(t, core.IsRemoteArchive("mod.zip"))
	assert.False(t, core.IsRemoteArchive("file:///tmp/mod.zip"))
}
