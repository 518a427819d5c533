// Package store manages the private on-disk copy of each installed mod.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mhwmm/internal/domain"
)

// Store is the directory holding one subdirectory per installed mod
type Store struct {
	basePath string
}

// New creates a store rooted at basePath
func New(basePath string) *Store {
	return &Store{basePath: basePath}
}

// BasePath returns the store root
func (s *Store) BasePath() string {
	return s.basePath
}

// ModPath returns the directory holding a mod's payload and manifest
func (s *Store) ModPath(name string) string {
	return filepath.Join(s.basePath, name)
}

// Exists reports whether the mod's store directory is present
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.ModPath(name))
	return err == nil && info.IsDir()
}

// Create makes a fresh, empty store directory for a mod.
func (s *Store) Create(name string) error {
	path := s.ModPath(name)
	if s.Exists(name) {
		return domain.AlreadyExists("create mod directory", path, domain.ErrStoreDirExists)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return domain.IOFailure("create mod directory", path, err)
	}
	return nil
}

// Delete removes a mod's store directory and everything in it
func (s *Store) Delete(name string) error {
	path := s.ModPath(name)
	if !s.Exists(name) {
		return domain.NotFound("delete mod directory", path, domain.ErrModDirNotFound)
	}
	if err := os.RemoveAll(path); err != nil {
		return domain.IOFailure("delete mod directory", path, err)
	}
	return nil
}

// ComputeSize returns the total size in bytes of all files in the mod directory.
// Stat failures (broken symlinks, permissions) are returned, not skipped.
func (s *Store) ComputeSize(name string) (int64, error) {
	modPath := s.ModPath(name)

	var total int64
	err := filepath.WalkDir(modPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, domain.IOFailure("compute mod size", modPath, err)
	}

	return total, nil
}

// CollectFiles builds the file manifest for a mod: every file under nativepc/
// (relative to it) and the names of the other top-level entries.
func (s *Store) CollectFiles(name string) (domain.FileManifest, error) {
	modPath := s.ModPath(name)
	files := domain.FileManifest{NativePC: []string{}, Root: []string{}}

	nativePath := filepath.Join(modPath, domain.NativePCDir)
	if info, err := os.Stat(nativePath); err == nil && info.IsDir() {
		err := filepath.WalkDir(nativePath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(nativePath, path)
			if err != nil {
				return err
			}
			files.NativePC = append(files.NativePC, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return domain.FileManifest{}, domain.IOFailure("collect nativepc files", nativePath, err)
		}
	}

	entries, err := os.ReadDir(modPath)
	if err != nil {
		return domain.FileManifest{}, domain.IOFailure("collect root files", modPath, err)
	}
	for _, e := range entries {
		if e.Name() == domain.NativePCDir || e.Name() == domain.ManifestFile {
			continue
		}
		files.Root = append(files.Root, e.Name())
	}

	return files, nil
}

// RootEntries returns the top-level entries deployed to the game root, excluding
// nativepc/ and the manifest.
func (s *Store) RootEntries(name string) ([]os.DirEntry, error) {
	modPath := s.ModPath(name)
	entries, err := os.ReadDir(modPath)
	if err != nil {
		return nil, domain.IOFailure("read mod directory", modPath, err)
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Name() == domain.NativePCDir || e.Name() == domain.ManifestFile {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// LoadManifest reads a mod's mod-info.json
func (s *Store) LoadManifest(name string) (*domain.ModManifest, error) {
	path := filepath.Join(s.ModPath(name), domain.ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NotFound("load manifest", path, domain.ErrManifestNotFound)
		}
		return nil, domain.IOFailure("load manifest", path, err)
	}

	var m domain.ModManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, domain.Corrupt("load manifest", path, fmt.Errorf("%w: %w", domain.ErrManifestCorrupt, err))
	}
	return &m, nil
}

// SaveManifest writes a mod's mod-info.json, creating the directory if needed
func (s *Store) SaveManifest(name string, m *domain.ModManifest) error {
	modPath := s.ModPath(name)
	if err := os.MkdirAll(modPath, 0755); err != nil {
		return domain.IOFailure("save manifest", modPath, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := filepath.Join(modPath, domain.ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.IOFailure("save manifest", path, err)
	}
	return nil
}
