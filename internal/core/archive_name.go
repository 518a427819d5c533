package core

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ArchiveName holds what can be read from a downloaded archive's file name
type ArchiveName struct {
	Title   string // Readable name, e.g. "Better Lighting"
	NexusID string // Empty unless the name follows the Nexus download pattern
	Version string
}

// Nexus downloads are named "<Title>-<ModID>-<Version>-<UnixTime>.zip", with
// spaces in the title turned into underscores or dashes.
var (
	nexusArchivePattern = regexp.MustCompile(`^(.+?)-(\d{2,})-(.+?)(?:-(\d{10,}))?$`)
	separatorRun        = regexp.MustCompile(`[_\s]+`)
)

// ParseArchiveName extracts a title and, when present, the Nexus mod ID and
// version from an archive path.
func ParseArchiveName(archivePath string) ArchiveName {
	base := filepath.Base(archivePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	m := nexusArchivePattern.FindStringSubmatch(stem)
	if m == nil {
		return ArchiveName{Title: cleanTitle(stem)}
	}

	return ArchiveName{
		Title:   cleanTitle(m[1]),
		NexusID: m[2],
		Version: strings.ReplaceAll(m[3], "-", "."),
	}
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(separatorRun.ReplaceAllString(s, " "))
	if s == "" {
		return "Unnamed Mod"
	}
	return s
}
