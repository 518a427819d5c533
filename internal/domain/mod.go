package domain

import (
	"strings"
	"time"
)

const (
	// NativePCDir is the game's asset override folder, always lowercase on disk.
	NativePCDir = "nativepc"
	// ManifestFile is the per-mod metadata file inside each store directory.
	ManifestFile = "mod-info.json"
)

// ModState is the lifecycle state of a mod
type ModState int

const (
	StateAbsent ModState = iota
	StateDisabled
	StateEnabled
)

func (s ModState) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	default:
		return "absent"
	}
}

// FileManifest lists the paths a mod contributes when enabled
type FileManifest struct {
	NativePC []string `json:"nativepc"` // Relative to the mod's nativepc/ folder, files only
	Root     []string `json:"root"`     // Top-level entries beside nativepc/, not expanded
}

// Count returns the number of tracked paths
func (f FileManifest) Count() int {
	return len(f.NativePC) + len(f.Root)
}

// GamePaths returns every tracked path relative to the game directory, slash separated.
func (f FileManifest) GamePaths() []string {
	paths := make([]string, 0, f.Count())
	for _, p := range f.NativePC {
		paths = append(paths, NativePCDir+"/"+strings.TrimPrefix(p, "/"))
	}
	paths = append(paths, f.Root...)
	return paths
}

// ModManifest is the mod-info.json record stored alongside a mod's files
type ModManifest struct {
	Name        string       `json:"name"`
	ExternalID  string       `json:"nexusId,omitempty"` // Upstream catalog ID, omitted when unknown
	Categories  []string     `json:"categories"`
	Enabled     bool         `json:"enabled"`
	InstallDate time.Time    `json:"installDate"`
	FileSize    int64        `json:"fileSize"` // Bytes at install time; not re-verified
	Files       FileManifest `json:"files"`
}

// State returns the manifest's lifecycle state
func (m *ModManifest) State() ModState {
	if m.Enabled {
		return StateEnabled
	}
	return StateDisabled
}

// InstalledMod is a manifest joined with its registry position, used for listings
type InstalledMod struct {
	ModManifest
	Order int `json:"order"`
}
