package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mhwmm/internal/domain"
	"mhwmm/internal/linker"
	"mhwmm/internal/storage/db"

	"github.com/charmbracelet/log"
)

// Deployer copies a mod's payload into the game directory and removes it again
type Deployer struct {
	linker linker.Linker
	db     *db.DB // Optional: records which mod owns which game path
	logger *log.Logger
}

// NewDeployer creates a deployer. database and logger may be nil.
func NewDeployer(lnk linker.Linker, database *db.DB, logger *log.Logger) *Deployer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Deployer{linker: lnk, db: database, logger: logger}
}

// Method returns the deployment method in use
func (d *Deployer) Method() domain.LinkMethod {
	return d.linker.Method()
}

// Deploy places modDir/nativepc under gameDir/nativepc and each of rootEntries
// (the store's top-level entries other than nativepc and the manifest) directly
// under gameDir, replacing existing files. It returns the slash-separated game
// paths written.
func (d *Deployer) Deploy(ctx context.Context, modDir string, rootEntries []os.DirEntry, gameDir string) ([]string, error) {
	var deployed []string

	nativeSrc := filepath.Join(modDir, domain.NativePCDir)
	if info, err := os.Stat(nativeSrc); err == nil && info.IsDir() {
		nativeDst := filepath.Join(gameDir, domain.NativePCDir)
		paths, err := linker.DeployTree(d.linker, nativeSrc, nativeDst)
		if err != nil {
			return deployed, domain.IOFailure("copy nativepc", nativeDst, err)
		}
		for _, p := range paths {
			deployed = append(deployed, domain.NativePCDir+"/"+p)
		}
		d.logger.Debug("deployed nativepc", "files", len(paths), "method", d.linker.Method())
	} else if err != nil && !os.IsNotExist(err) {
		return deployed, domain.IOFailure("copy nativepc", nativeSrc, err)
	}

	for _, entry := range rootEntries {
		if err := ctx.Err(); err != nil {
			return deployed, err
		}

		name := entry.Name()

		src := filepath.Join(modDir, name)
		dst := filepath.Join(gameDir, name)
		if entry.IsDir() {
			paths, err := linker.DeployTree(d.linker, src, dst)
			if err != nil {
				return deployed, domain.IOFailure("copy root entry", dst, err)
			}
			for _, p := range paths {
				deployed = append(deployed, name+"/"+p)
			}
		} else {
			if err := d.linker.Deploy(src, dst); err != nil {
				return deployed, domain.IOFailure("copy root entry", dst, err)
			}
			deployed = append(deployed, name)
		}
		d.logger.Debug("deployed root entry", "entry", name)
	}

	return deployed, nil
}

// Undeploy removes the recorded files of a mod from gameDir. Paths that are
// already gone are skipped.
func (d *Deployer) Undeploy(ctx context.Context, gameDir string, files domain.FileManifest) error {
	nativeRoot := filepath.Join(gameDir, domain.NativePCDir)
	for _, p := range files.NativePC {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.remove(nativeRoot, p); err != nil {
			return err
		}
	}

	for _, p := range files.Root {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.remove(gameDir, p); err != nil {
			return err
		}
	}

	return nil
}

func (d *Deployer) remove(root, rel string) error {
	target, err := joinInside(root, rel)
	if err != nil {
		return domain.IOFailure("remove mod file", rel, err)
	}
	if err := linker.Remove(target); err != nil {
		return domain.IOFailure("remove mod file", target, err)
	}
	d.logger.Debug("removed", "path", target)
	return nil
}

// Track records the game paths a mod deployed and returns paths that other
// enabled mods had already deployed. Without a database it does nothing.
func (d *Deployer) Track(modName string, paths []string, detectConflicts bool) ([]db.FileConflict, error) {
	if d.db == nil {
		return nil, nil
	}
	if err := d.db.RecordDeployedFiles(modName, paths); err != nil {
		return nil, fmt.Errorf("tracking deployed files: %w", err)
	}
	if !detectConflicts {
		return nil, nil
	}
	conflicts, err := d.db.CheckFileConflicts(modName, paths)
	if err != nil {
		return nil, fmt.Errorf("detecting conflicts: %w", err)
	}
	return conflicts, nil
}

// Untrack forgets the game paths recorded for a mod
func (d *Deployer) Untrack(modName string) error {
	if d.db == nil {
		return nil
	}
	return d.db.DeleteDeployedFiles(modName)
}

// joinInside joins a slash-separated manifest path to root, refusing paths that
// would leave root.
// Backslash separators from manifests written on Windows are accepted.
func joinInside(root, rel string) (string, error) {
	slashed := strings.ReplaceAll(rel, `\`, "/")
	if slashed == "" || filepath.IsAbs(rel) || strings.HasPrefix(slashed, "/") {
		return "", fmt.Errorf("invalid path %q", rel)
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", fmt.Errorf("path escapes game directory: %q", rel)
		}
	}
	return filepath.Join(root, filepath.FromSlash(slashed)), nil
}
