package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mhwmm/internal/domain"
)

// RegistryFileName is the registry file inside the data directory
const RegistryFileName = "config.json"

// RegistryStore loads and saves the registry as a whole. Callers do a full
// read-modify-write; there are no partial updates.
type RegistryStore interface {
	Load() (*domain.Registry, error)
	Save(reg *domain.Registry) error
}

// FileRegistry persists the registry as pretty-printed JSON
type FileRegistry struct {
	dataDir string
}

// NewFileRegistry creates a registry backed by dataDir/config.json
func NewFileRegistry(dataDir string) *FileRegistry {
	return &FileRegistry{dataDir: dataDir}
}

// Path returns the registry file location
func (r *FileRegistry) Path() string {
	return filepath.Join(r.dataDir, RegistryFileName)
}

// Load reads the registry. When no file exists yet the default registry is
// written and returned; an existing file is never reset.
func (r *FileRegistry) Load() (*domain.Registry, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			reg := domain.DefaultRegistry(r.dataDir)
			if err := r.Save(reg); err != nil {
				return nil, err
			}
			return reg, nil
		}
		return nil, domain.IOFailure("load registry", r.Path(), err)
	}

	var reg domain.Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, domain.Corrupt("load registry", r.Path(), fmt.Errorf("%w: %w", domain.ErrRegistryCorrupt, err))
	}
	if reg.Mods == nil {
		reg.Mods = []domain.RegistryEntry{}
	}
	return &reg, nil
}

// Save overwrites the registry file
func (r *FileRegistry) Save(reg *domain.Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return domain.IOFailure("save registry", r.dataDir, err)
	}

	if err := os.WriteFile(r.Path(), data, 0644); err != nil {
		return domain.IOFailure("save registry", r.Path(), err)
	}
	return nil
}

// MemoryRegistry keeps the registry in memory. Load and Save hand out copies so
// callers cannot mutate the stored record without saving it.
type MemoryRegistry struct {
	mu      sync.Mutex
	reg     *domain.Registry
	dataDir string
	saves   int
}

// NewMemoryRegistry creates an empty in-memory registry
func NewMemoryRegistry(dataDir string) *MemoryRegistry {
	return &MemoryRegistry{dataDir: dataDir}
}

// Load returns a copy of the stored registry, seeding defaults on first use
func (m *MemoryRegistry) Load() (*domain.Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reg == nil {
		m.reg = domain.DefaultRegistry(m.dataDir)
		m.saves++
	}
	return cloneRegistry(m.reg), nil
}

// Save replaces the stored registry with a copy of reg
func (m *MemoryRegistry) Save(reg *domain.Registry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reg = cloneRegistry(reg)
	m.saves++
	return nil
}

// Saves returns how many times the registry has been written
func (m *MemoryRegistry) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneRegistry(reg *domain.Registry) *domain.Registry {
	out := *reg
	out.Mods = append([]domain.RegistryEntry{}, reg.Mods...)
	out.Categories = append([]domain.Category{}, reg.Categories...)
	return &out
}
