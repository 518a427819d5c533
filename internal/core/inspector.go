package core

import (
	"path"
	"strings"

	"mhwmm/internal/domain"
)

const nativePCMarker = domain.NativePCDir

// Inspector previews archive contents without extracting them
type Inspector struct{}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect lists every archive entry in archive order and reports where the
// first nativepc folder sits, keeping the archive's own casing.
func (i *Inspector) Inspect(archivePath string) (*domain.ArchivePreview, error) {
	r, err := openZip(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	preview := &domain.ArchivePreview{Files: make([]domain.ArchiveNode, 0, len(r.File))}
	for _, f := range r.File {
		if !preview.HasNativePC {
			if p, ok := nativePCPrefix(f.Name); ok {
				preview.HasNativePC = true
				preview.NativePCPath = p
			}
		}

		preview.Files = append(preview.Files, domain.ArchiveNode{
			Name:        entryBase(f.Name),
			Path:        f.Name,
			IsDirectory: f.FileInfo().IsDir(),
		})
	}

	return preview, nil
}

// nativePCPrefix reports whether name contains "nativepc/" or "nativepc\" in
// any casing. The returned prefix ends at the first "nativepc" occurrence and
// keeps the original casing.
func nativePCPrefix(name string) (string, bool) {
	n := len(nativePCMarker)
	first := -1
	for i := 0; i+n <= len(name); i++ {
		if !strings.EqualFold(name[i:i+n], nativePCMarker) {
			continue
		}
		if first < 0 {
			first = i
		}
		if i+n < len(name) && (name[i+n] == '/' || name[i+n] == '\\') {
			return name[:first+n], true
		}
	}
	return "", false
}

// entryBase returns the final path segment of an entry name
func entryBase(name string) string {
	trimmed := strings.TrimRight(entryName(name), "/")
	if trimmed == "" {
		return name
	}
	return path.Base(trimmed)
}
