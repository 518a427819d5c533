package core

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mhwmm/internal/domain"
)

// Extractor unpacks mod archives into a store directory
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// CanExtract returns true if the extractor can handle the given filename
func (e *Extractor) CanExtract(filename string) bool {
	return e.DetectFormat(filename) != ""
}

// DetectFormat returns the archive format based on filename extension.
// Only ZIP archives are supported.
func (e *Extractor) DetectFormat(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".zip") {
		return "zip"
	}
	return ""
}

// Extract writes every archive entry under destDir in archive order, then renames
// a top-level nativepc folder of any casing to lowercase. Entries already written
// are left in place when a later entry fails.
func (e *Extractor) Extract(archivePath, destDir string) (err error) {
	r, err := openZip(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = domain.IOFailure("close archive", archivePath, cerr)
		}
	}()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return domain.IOFailure("create destination", destDir, err)
	}

	for _, f := range r.File {
		if err := e.extractZipFile(f, destDir); err != nil {
			return err
		}
	}

	return NormalizeNativePC(destDir)
}

// extractZipFile extracts a single file from a ZIP archive
func (e *Extractor) extractZipFile(f *zip.File, destDir string) (err error) {
	destPath, err := e.sanitizePath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() || strings.HasSuffix(entryName(f.Name), "/") {
		if err := os.MkdirAll(destPath, 0755); err != nil {
			return domain.IOFailure("create directory", destPath, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return domain.IOFailure("create directory", filepath.Dir(destPath), err)
	}

	rc, err := f.Open()
	if err != nil {
		return domain.Corrupt("read archive entry", f.Name, fmt.Errorf("%w: %w", domain.ErrArchiveUnreadable, err))
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode|0200)
	if err != nil {
		return domain.IOFailure("write file", destPath, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = domain.IOFailure("write file", destPath, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return domain.Corrupt("read archive entry", f.Name, fmt.Errorf("%w: %w", domain.ErrArchiveUnreadable, err))
		}
		return domain.IOFailure("write file", destPath, err)
	}

	return nil
}

// sanitizePath resolves an entry name under destDir, rejecting names that would
// escape it ("zip slip").
func (e *Extractor) sanitizePath(destDir, name string) (string, error) {
	slashed := entryName(name)
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", domain.IOFailure("extract", name, fmt.Errorf("path traversal detected"))
		}
	}
	return filepath.Join(destDir, filepath.FromSlash(path.Clean("/"+slashed))), nil
}

// entryName treats backslashes written by Windows archivers as separators
func entryName(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

// NormalizeNativePC renames the first top-level directory named "nativepc" in
// any casing to exactly "nativepc". No such directory is not an error.
func NormalizeNativePC(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.IOFailure("scan for nativepc", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.EqualFold(entry.Name(), domain.NativePCDir) {
			continue
		}
		if entry.Name() == domain.NativePCDir {
			return nil
		}
		from := filepath.Join(dir, entry.Name())
		to := filepath.Join(dir, domain.NativePCDir)
		if err := os.Rename(from, to); err != nil {
			return domain.IOFailure("rename nativepc", from, fmt.Errorf("%w: %w", domain.ErrRenameFailed, err))
		}
		return nil
	}

	return nil
}

func openZip(archivePath string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil && errors.Is(err, zip.ErrInsecurePath) && r != nil {
		// Entry names are checked one by one during extraction.
		return r, nil
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NotFound("open archive", archivePath, fmt.Errorf("%w: %w", domain.ErrArchiveUnreadable, domain.ErrArchiveNotFound))
		}
		return nil, domain.Corrupt("open archive", archivePath, fmt.Errorf("%w: %w", domain.ErrArchiveUnreadable, err))
	}
	return r, nil
}
