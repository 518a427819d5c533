package domain

// LinkMethod determines how enabled mod files are placed in the game directory
type LinkMethod int

const (
	LinkCopy     LinkMethod = iota // Default: copy (the game sees plain files)
	LinkHardlink                   // Hardlink (same filesystem only)
	LinkSymlink                    // Symlink into the mod store
)

func (m LinkMethod) String() string {
	switch m {
	case LinkCopy:
		return "copy"
	case LinkHardlink:
		return "hardlink"
	case LinkSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// ParseLinkMethod converts a string to LinkMethod
func ParseLinkMethod(s string) LinkMethod {
	switch s {
	case "hardlink":
		return LinkHardlink
	case "symlink":
		return LinkSymlink
	default:
		return LinkCopy
	}
}
