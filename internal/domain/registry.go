package domain

// RegistryVersion is the schema version written to new registries
const RegistryVersion = "0.1.0"

// RegistryEntry is one installed mod in the registry
type RegistryEntry struct {
	Name    string `json:"name"`
	Order   int    `json:"order"` // 1-based display position, never renumbered
	Enabled bool   `json:"enabled"`
}

// Category is a user-defined label with a display color
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// AppSettings holds user toggles persisted in the registry
type AppSettings struct {
	AutoDetectConflicts  bool `json:"autoDetectConflicts"`
	ShowConflictWarnings bool `json:"showConflictWarnings"`
}

// Registry is the config.json record: installed mods, game directory and settings
type Registry struct {
	Version       string          `json:"version"`
	GameDirectory string          `json:"gameDirectory"`
	DataDirectory string          `json:"dataDirectory"`
	Mods          []RegistryEntry `json:"mods"`
	Categories    []Category      `json:"categories"`
	Settings      AppSettings     `json:"settings"`
}

// DefaultCategories are seeded into a new registry
func DefaultCategories() []Category {
	return []Category{
		{Name: "Weapons", Color: "#FF5733"},
		{Name: "Armor", Color: "#33FF57"},
		{Name: "Cosmetic", Color: "#3357FF"},
	}
}

// DefaultRegistry returns the registry written on first run
func DefaultRegistry(dataDir string) *Registry {
	return &Registry{
		Version:       RegistryVersion,
		DataDirectory: dataDir,
		Mods:          []RegistryEntry{},
		Categories:    DefaultCategories(),
		Settings: AppSettings{
			AutoDetectConflicts:  true,
			ShowConflictWarnings: true,
		},
	}
}

// Find returns the entry with the given name
func (r *Registry) Find(name string) (*RegistryEntry, bool) {
	for i := range r.Mods {
		if r.Mods[i].Name == name {
			return &r.Mods[i], true
		}
	}
	return nil, false
}

// Has reports whether a mod with the given name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Find(name)
	return ok
}

// Append registers a new disabled mod at the end of the list.
func (r *Registry) Append(name string) RegistryEntry {
	entry := RegistryEntry{Name: name, Order: len(r.Mods) + 1}
	r.Mods = append(r.Mods, entry)
	return entry
}

// Remove drops the named entry, leaving the order of the others untouched.
func (r *Registry) Remove(name string) bool {
	for i := range r.Mods {
		if r.Mods[i].Name == name {
			r.Mods = append(r.Mods[:i], r.Mods[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled updates the enabled flag of the named entry
func (r *Registry) SetEnabled(name string, enabled bool) bool {
	entry, ok := r.Find(name)
	if !ok {
		return false
	}
	entry.Enabled = enabled
	return true
}

// FindCategory returns the index of the named category, or -1
func (r *Registry) FindCategory(name string) int {
	for i, c := range r.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}
