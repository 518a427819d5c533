package linker

import (
	"fmt"
	"os"

	"mhwmm/internal/domain"
)

// HardlinkLinker deploys mod files using hard links
type HardlinkLinker struct{}

// NewHardlink creates a new hardlink linker
func NewHardlink() *HardlinkLinker {
	return &HardlinkLinker{}
}

// Deploy creates a hard link from src to dst
func (l *HardlinkLinker) Deploy(src, dst string) error {
	if err := clearDestination(dst); err != nil {
		return err
	}
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("creating hardlink: %w", err)
	}
	return nil
}

// Method returns the link method
func (l *HardlinkLinker) Method() domain.LinkMethod {
	return domain.LinkHardlink
}
