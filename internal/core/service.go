package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"mhwmm/internal/domain"
	"mhwmm/internal/linker"
	"mhwmm/internal/storage/config"
	"mhwmm/internal/storage/db"
	"mhwmm/internal/storage/store"

	"github.com/charmbracelet/log"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	DataDir    string               // Mod store root; also holds config.json and the database
	Registry   config.RegistryStore // Defaults to config.json under DataDir
	LinkMethod domain.LinkMethod    // How enable places files in the game directory
	NoTracking bool                 // Skip the deployment database entirely
	Logger     *log.Logger
	Now        func() time.Time
}

// Service coordinates install, enable, disable and delete. Every lifecycle
// operation holds the service lock for its whole read-modify-write.
type Service struct {
	mu sync.Mutex

	registry  config.RegistryStore
	store     *store.Store
	db        *db.DB
	extractor *Extractor
	inspector *Inspector
	deployer  *Deployer
	logger    *log.Logger
	now       func() time.Time
}

// InstallRequest describes an archive to install
type InstallRequest struct {
	ArchivePath string
	Name        string
	ExternalID  string
	Categories  []string
}

// ModEdit holds metadata changes; nil fields are left untouched
type ModEdit struct {
	ExternalID *string
	Categories []string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, domain.IOFailure("create data directory", cfg.DataDir, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	registry := cfg.Registry
	if registry == nil {
		registry = config.NewFileRegistry(cfg.DataDir)
	}

	var database *db.DB
	if !cfg.NoTracking {
		var err error
		database, err = db.New(filepath.Join(cfg.DataDir, db.FileName))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
	}

	return &Service{
		registry:  registry,
		store:     store.New(cfg.DataDir),
		db:        database,
		extractor: NewExtractor(),
		inspector: NewInspector(),
		deployer:  NewDeployer(linker.New(cfg.LinkMethod), database, logger),
		logger:    logger,
		now:       now,
	}, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DataDir returns the mod store root
func (s *Service) DataDir() string {
	return s.store.BasePath()
}

// DB returns the deployment database, or nil when tracking is off
func (s *Service) DB() *db.DB {
	return s.db
}

// Store returns the mod store
func (s *Service) Store() *store.Store {
	return s.store
}

// Registry loads the current registry
func (s *Service) Registry() (*domain.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Load()
}

// PreviewArchive lists an archive's entries without extracting it
func (s *Service) PreviewArchive(archivePath string) (*domain.ArchivePreview, error) {
	return s.inspector.Inspect(archivePath)
}

// Install extracts an archive into the store, writes its manifest and appends
// a disabled registry entry.
func (s *Service) Install(ctx context.Context, req InstallRequest) (*domain.ModManifest, error) {
	if err := ValidateModName(req.Name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkArchive(req.ArchivePath); err != nil {
		return nil, err
	}

	reg, err := s.registry.Load()
	if err != nil {
		return nil, err
	}
	if reg.Has(req.Name) {
		return nil, domain.AlreadyExists("install", req.Name, domain.ErrNameAlreadyExists)
	}

	if err := s.store.Create(req.Name); err != nil {
		return nil, err
	}
	modPath := s.store.ModPath(req.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.extractor.Extract(req.ArchivePath, modPath); err != nil {
		return nil, err
	}

	size, err := s.store.ComputeSize(req.Name)
	if err != nil {
		return nil, err
	}
	files, err := s.store.CollectFiles(req.Name)
	if err != nil {
		return nil, err
	}

	categories := req.Categories
	if categories == nil {
		categories = []string{}
	}
	manifest := &domain.ModManifest{
		Name:        req.Name,
		ExternalID:  req.ExternalID,
		Categories:  categories,
		Enabled:     false,
		InstallDate: s.now().UTC(),
		FileSize:    size,
		Files:       files,
	}
	if err := s.store.SaveManifest(req.Name, manifest); err != nil {
		return nil, err
	}

	reg.Append(req.Name)
	if err := s.registry.Save(reg); err != nil {
		return nil, err
	}

	s.logger.Info("installed mod", "name", req.Name, "files", files.Count(), "size", size)
	return manifest, nil
}

// Enable deploys a mod's files into the game directory and marks it enabled.
// Files already present in the game directory are overwritten.
func (s *Service) Enable(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return err
	}
	if !s.store.Exists(name) {
		return domain.NotFound("enable", s.store.ModPath(name), domain.ErrModDirNotFound)
	}
	if !reg.Has(name) {
		return domain.NotFound("enable", name, domain.ErrModNotRegistered)
	}
	gameDir, err := requireGameDir("enable", reg)
	if err != nil {
		return err
	}
	manifest, err := s.store.LoadManifest(name)
	if err != nil {
		return err
	}

	rootEntries, err := s.store.RootEntries(name)
	if err != nil {
		return err
	}
	deployed, err := s.deployer.Deploy(ctx, s.store.ModPath(name), rootEntries, gameDir)
	if err != nil {
		return err
	}

	manifest.Enabled = true
	if err := s.store.SaveManifest(name, manifest); err != nil {
		return err
	}
	reg.SetEnabled(name, true)
	if err := s.registry.Save(reg); err != nil {
		return err
	}

	s.logger.Info("enabled mod", "name", name, "files", len(deployed), "method", s.deployer.Method())

	conflicts, err := s.deployer.Track(name, deployed, reg.Settings.AutoDetectConflicts)
	if err != nil {
		s.logger.Warn("could not record deployed files", "name", name, "err", err)
		return nil
	}
	if len(conflicts) > 0 && reg.Settings.ShowConflictWarnings {
		owners := make(map[string]int)
		for _, c := range conflicts {
			owners[c.ModName]++
		}
		for owner, count := range owners {
			s.logger.Warn("mod overwrote files from another mod", "name", name, "other", owner, "files", count)
		}
	}
	return nil
}

// Disable removes a mod's recorded files from the game directory and marks it
// disabled. Files that are already missing are skipped.
func (s *Service) Disable(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return err
	}
	if !s.store.Exists(name) {
		return domain.NotFound("disable", s.store.ModPath(name), domain.ErrModDirNotFound)
	}
	if !reg.Has(name) {
		return domain.NotFound("disable", name, domain.ErrModNotRegistered)
	}
	manifest, err := s.store.LoadManifest(name)
	if err != nil {
		return err
	}
	gameDir, err := requireGameDir("disable", reg)
	if err != nil {
		return err
	}

	if err := s.deployer.Undeploy(ctx, gameDir, manifest.Files); err != nil {
		return err
	}

	manifest.Enabled = false
	if err := s.store.SaveManifest(name, manifest); err != nil {
		return err
	}
	reg.SetEnabled(name, false)
	if err := s.registry.Save(reg); err != nil {
		return err
	}

	if err := s.deployer.Untrack(name); err != nil {
		s.logger.Warn("could not clear deployed files", "name", name, "err", err)
	}
	s.logger.Info("disabled mod", "name", name, "files", manifest.Files.Count())
	return nil
}

// Delete removes a mod from the game directory (if enabled), the store and the
// registry.
func (s *Service) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return err
	}
	if !reg.Has(name) || !s.store.Exists(name) {
		return domain.NotFound("delete", s.store.ModPath(name), domain.ErrModDirNotFound)
	}
	manifest, err := s.store.LoadManifest(name)
	if err != nil {
		return err
	}

	if manifest.Enabled {
		gameDir, err := requireGameDir("delete", reg)
		if err != nil {
			return err
		}
		if err := s.deployer.Undeploy(ctx, gameDir, manifest.Files); err != nil {
			return err
		}
	}

	if err := s.store.Delete(name); err != nil {
		return err
	}
	reg.Remove(name)
	if err := s.registry.Save(reg); err != nil {
		return err
	}

	if err := s.deployer.Untrack(name); err != nil {
		s.logger.Warn("could not clear deployed files", "name", name, "err", err)
	}
	s.logger.Info("deleted mod", "name", name, "was_enabled", manifest.Enabled)
	return nil
}

// LoadMod returns one installed mod with its registry order
func (s *Service) LoadMod(name string) (*domain.InstalledMod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return nil, err
	}
	entry, ok := reg.Find(name)
	if !ok {
		return nil, domain.NotFound("load mod", name, domain.ErrModNotRegistered)
	}
	manifest, err := s.store.LoadManifest(name)
	if err != nil {
		return nil, err
	}
	return &domain.InstalledMod{ModManifest: *manifest, Order: entry.Order}, nil
}

// LoadAll returns every registered mod in order. Entries whose manifest cannot
// be read are skipped; their errors are logged and returned alongside.
func (s *Service) LoadAll() ([]domain.InstalledMod, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.RegistryEntry, len(reg.Mods))
	copy(entries, reg.Mods)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

	mods := make([]domain.InstalledMod, 0, len(entries))
	var failures []error
	for _, entry := range entries {
		manifest, err := s.store.LoadManifest(entry.Name)
		if err != nil {
			s.logger.Warn("skipping mod", "name", entry.Name, "err", err)
			failures = append(failures, fmt.Errorf("%s: %w", entry.Name, err))
			continue
		}
		mods = append(mods, domain.InstalledMod{ModManifest: *manifest, Order: entry.Order})
	}
	return mods, failures, nil
}

// ModState reports whether a mod is absent, disabled or enabled
func (s *Service) ModState(name string) (domain.ModState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return domain.StateAbsent, err
	}
	entry, ok := reg.Find(name)
	if !ok {
		return domain.StateAbsent, nil
	}
	if entry.Enabled {
		return domain.StateEnabled, nil
	}
	return domain.StateDisabled, nil
}

// EditMod updates a mod's external ID or categories in its manifest
func (s *Service) EditMod(name string, edit ModEdit) (*domain.ModManifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Exists(name) {
		return nil, domain.NotFound("edit mod", s.store.ModPath(name), domain.ErrModDirNotFound)
	}
	manifest, err := s.store.LoadManifest(name)
	if err != nil {
		return nil, err
	}
	if edit.ExternalID != nil {
		manifest.ExternalID = *edit.ExternalID
	}
	if edit.Categories != nil {
		manifest.Categories = edit.Categories
	}
	if err := s.store.SaveManifest(name, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// SetGameDirectory stores an existing directory as the game root
func (s *Service) SetGameDirectory(dir string) (string, error) {
	dir, err := expandPath(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", domain.NotFound("set game directory", dir, domain.ErrGameDirNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return "", err
	}
	reg.GameDirectory = dir
	if err := s.registry.Save(reg); err != nil {
		return "", err
	}
	s.logger.Info("game directory set", "path", dir)
	return dir, nil
}

// SelectGameDirectory asks the picker for a folder and stores it
func (s *Service) SelectGameDirectory(ctx context.Context, picker Picker) (string, error) {
	dir, ok, err := picker.PickFolder(ctx, "Select the Monster Hunter: World folder")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.NoSelection("select game directory")
	}
	return s.SetGameDirectory(dir)
}

// SelectArchive asks the picker for a mod archive
func (s *Service) SelectArchive(ctx context.Context, picker Picker) (string, error) {
	path, ok, err := picker.PickArchive(ctx, "Select a mod archive")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.NoSelection("select archive")
	}
	return path, nil
}

// AddCategory appends a category to the registry
func (s *Service) AddCategory(name, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return err
	}
	if reg.FindCategory(name) >= 0 {
		return domain.AlreadyExists("add category", name, domain.ErrCategoryExists)
	}
	reg.Categories = append(reg.Categories, domain.Category{Name: name, Color: color})
	return s.registry.Save(reg)
}

// RemoveCategory drops a category from the registry. Manifests that still
// reference it are left as they are.
func (s *Service) RemoveCategory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return err
	}
	idx := reg.FindCategory(name)
	if idx < 0 {
		return domain.NotFound("remove category", name, domain.ErrCategoryNotFound)
	}
	reg.Categories = append(reg.Categories[:idx], reg.Categories[idx+1:]...)
	return s.registry.Save(reg)
}

// UpdateSettings applies fn to the stored settings
func (s *Service) UpdateSettings(fn func(*domain.AppSettings)) (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.registry.Load()
	if err != nil {
		return domain.AppSettings{}, err
	}
	fn(&reg.Settings)
	if err := s.registry.Save(reg); err != nil {
		return domain.AppSettings{}, err
	}
	return reg.Settings, nil
}

// DeployedFiles returns the game paths recorded for a mod at its last enable.
// Without the database it returns nil.
func (s *Service) DeployedFiles(name string) ([]string, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.GetDeployedFilesForMod(name)
}

// Conflicts lists game paths deployed by more than one enabled mod
func (s *Service) Conflicts() ([]db.PathOwners, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.ListConflicts()
}

// SaveSourceToken saves an API token for a source
func (s *Service) SaveSourceToken(sourceID, apiKey string) error {
	if s.db == nil {
		return errors.New("token storage is unavailable without the database")
	}
	return s.db.SaveToken(sourceID, apiKey)
}

// GetSourceToken retrieves an API token for a source; nil when none is stored
func (s *Service) GetSourceToken(sourceID string) (*db.StoredToken, error) {
	if s.db == nil {
		return nil, nil
	}
	return s.db.GetToken(sourceID)
}

// DeleteSourceToken removes an API token for a source
func (s *Service) DeleteSourceToken(sourceID string) error {
	if s.db == nil {
		return nil
	}
	return s.db.DeleteToken(sourceID)
}

var reservedNames = map[string]bool{
	config.RegistryFileName:  true,
	db.FileName:              true,
	db.FileName + "-wal":     true,
	db.FileName + "-shm":     true,
	db.FileName + "-journal": true,
}

// ValidateModName rejects names that cannot be used as a store directory
func ValidateModName(name string) error {
	switch {
	case strings.TrimSpace(name) == "",
		name == "." || name == "..",
		strings.ContainsAny(name, `/\`+"\x00"),
		reservedNames[strings.ToLower(name)]:
		return domain.Invalid("validate mod name", name, domain.ErrInvalidModName)
	}
	return nil
}

func requireGameDir(op string, reg *domain.Registry) (string, error) {
	if reg.GameDirectory == "" {
		return "", domain.NotFound(op, "", domain.ErrGameDirNotSet)
	}
	info, err := os.Stat(reg.GameDirectory)
	if err != nil || !info.IsDir() {
		return "", domain.NotFound(op, reg.GameDirectory, domain.ErrGameDirNotFound)
	}
	return reg.GameDirectory, nil
}

// checkArchive fails early so a bad archive does not leave a store directory behind
func checkArchive(archivePath string) error {
	r, err := openZip(archivePath)
	if err != nil {
		return err
	}
	return r.Close()
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
