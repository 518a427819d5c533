package linker

import (
	"fmt"
	"os"
	"path/filepath"

	"mhwmm/internal/domain"
)

// SymlinkLinker deploys mod files as symbolic links into the mod store
type SymlinkLinker struct{}

// NewSymlink creates a new symlink linker
func NewSymlink() *SymlinkLinker {
	return &SymlinkLinker{}
}

// Deploy creates a symlink at dst pointing to src
func (l *SymlinkLinker) Deploy(src, dst string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}
	if err := clearDestination(dst); err != nil {
		return err
	}
	if err := os.Symlink(abs, dst); err != nil {
		return fmt.Errorf("creating symlink: %w", err)
	}
	return nil
}

// Method returns the link method
func (l *SymlinkLinker) Method() domain.LinkMethod {
	return domain.LinkSymlink
}
