package db_test

import (
	"path/filepath"
	"testing"

	"mhwmm/internal/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RunsMigrations(t *testing.T) {
	database := openTestDB(t)

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM deployed_files").Scan(&count))
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM auth_tokens").Scan(&count))

	var version int
	require.NoError(t, database.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), db.FileName)

	first, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, first.RecordDeployedFiles("mod", []string{"nativepc/a"}))
	require.NoError(t, first.Close())

	second, err := db.New(path)
	require.NoError(t, err)
	defer second.Close()

	paths, err := second.GetDeployedFilesForMod("mod")
	require.NoError(t, err)
	assert.Equal(t, []string{"nativepc/a"}, paths)
}
