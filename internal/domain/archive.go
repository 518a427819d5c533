package domain

// ArchiveNode is one entry enumerated from an archive
type ArchiveNode struct {
	Name        string        `json:"name"` // Final path segment
	Path        string        `json:"path"` // Full entry path as stored in the archive
	IsDirectory bool          `json:"isDirectory"`
	Children    []ArchiveNode `json:"children,omitempty"`
}

// ArchivePreview describes an archive before it is installed
type ArchivePreview struct {
	HasNativePC  bool          `json:"hasNativePC"`
	NativePCPath string        `json:"nativePCPath"` // Original casing, e.g. "Data/NativePC"
	Files        []ArchiveNode `json:"files"`
}
