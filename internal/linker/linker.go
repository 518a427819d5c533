package linker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mhwmm/internal/domain"
)

// Linker places a single mod file at a destination inside the game directory
type Linker interface {
	Deploy(src, dst string) error
	Method() domain.LinkMethod
}

// New creates a linker for the given method
func New(method domain.LinkMethod) Linker {
	switch method {
	case domain.LinkHardlink:
		return NewHardlink()
	case domain.LinkSymlink:
		return NewSymlink()
	default:
		return NewCopy()
	}
}

// DeployTree mirrors every file under src into dst using l, creating directories
// as needed and replacing files that already exist at the destination.
// It returns the slash-separated paths deployed, relative to dst.
func DeployTree(l Linker, src, dst string) ([]string, error) {
	var deployed []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			return nil
		}
		if err := l.Deploy(path, target); err != nil {
			return fmt.Errorf("deploying %s: %w", rel, err)
		}
		deployed = append(deployed, filepath.ToSlash(rel))
		return nil
	})
	return deployed, err
}

// Remove deletes a file or directory tree. A missing path is not an error.
func Remove(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// clearDestination removes an existing non-directory at dst so a new file never
// writes through a link that points back into the mod store.
func clearDestination(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}
	info, err := os.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking destination: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("destination is a directory: %s", dst)
	}
	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("removing existing file: %w", err)
	}
	return nil
}
