package linker_test

import (
	"os"
	"path/filepath"
	"testing"

	"mhwmm/internal/domain"
	"mhwmm/internal/linker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyLinker_Deploy(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "nested", "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("content"), 0644))

	l := linker.NewCopy()
	require.NoError(t, l.Deploy(srcFile, dstFile))

	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)
}

func TestCopyLinker_DeployOverwrites(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dstFile, []byte("old content"), 0644))

	require.NoError(t, linker.NewCopy().Deploy(srcFile, dstFile))

	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestCopyLinker_DoesNotWriteThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	storeFile := filepath.Join(dir, "store.txt")
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(storeFile, []byte("store"), 0644))
	require.NoError(t, os.WriteFile(srcFile, []byte("replacement"), 0644))
	require.NoError(t, os.Symlink(storeFile, dstFile))

	require.NoError(t, linker.NewCopy().Deploy(srcFile, dstFile))

	content, err := os.ReadFile(storeFile)
	require.NoError(t, err)
	assert.Equal(t, "store", string(content))

	info, err := os.Lstat(dstFile)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestSymlinkLinker_Deploy(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst", "test.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("content"), 0644))

	require.NoError(t, linker.NewSymlink().Deploy(srcFile, dstFile))

	info, err := os.Lstat(dstFile)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)

	content, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)
}

func TestHardlinkLinker_Deploy(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "src.txt")
	dstFile := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(srcFile, []byte("content"), 0644))

	require.NoError(t, linker.NewHardlink().Deploy(srcFile, dstFile))

	srcInfo, err := os.Stat(srcFile)
	require.NoError(t, err)
	dstInfo, err := os.Stat(dstFile)
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo))
}

func TestDeployTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "empty"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("deep"), 0644))

	deployed, err := linker.DeployTree(linker.NewCopy(), src, dst)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"top.txt", "a/b/deep.txt"}, deployed)

	content, err := os.ReadFile(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(content))

	info, err := os.Stat(filepath.Join(dst, "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	tree := filepath.Join(dir, "tree")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "sub", "f"), []byte("x"), 0644))

	require.NoError(t, linker.Remove(file))
	require.NoError(t, linker.Remove(tree))
	require.NoError(t, linker.Remove(filepath.Join(dir, "missing")))

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(tree)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_ReturnsCorrectLinker(t *testing.T) {
	assert.Equal(t, domain.LinkSymlink, linker.New(domain.LinkSymlink).Method())
	assert.Equal(t, domain.LinkHardlink, linker.New(domain.LinkHardlink).Method())
	assert.Equal(t, domain.LinkCopy, linker.New(domain.LinkCopy).Method())
}
