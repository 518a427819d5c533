// Package steam finds a game's install folder in the local Steam libraries.
package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrAppNotInstalled is returned when no Steam library has the app
var ErrAppNotInstalled = errors.New("app not installed in any Steam library")

// Install is a located Steam app
type Install struct {
	AppID   string
	Name    string
	Path    string // Absolute path, e.g. .../steamapps/common/Monster Hunter World
	Library string
}

// FindSteamRoots returns existing Steam installation roots in search order.
// STEAM_ROOT, when set, is searched first.
func FindSteamRoots() []string {
	var candidates []string
	if p := os.Getenv("STEAM_ROOT"); p != "" {
		candidates = append(candidates, p)
	}

	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			if p := os.Getenv(env); p != "" {
				candidates = append(candidates, filepath.Join(p, "Steam"))
			}
		}
	case "darwin":
		candidates = append(candidates, filepath.Join(home, "Library", "Application Support", "Steam"))
	default:
		candidates = append(candidates,
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		)
	}

	var roots []string
	seen := make(map[string]bool)
	for _, p := range candidates {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			continue
		}
		// ~/.steam/steam is usually a symlink to ~/.local/share/Steam
		key := p
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			key = resolved
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		roots = append(roots, p)
	}
	return roots
}

// LibraryPaths returns every library listed in a Steam root's
// libraryfolders.vdf. A root without the file is its own single library.
func LibraryPaths(steamRoot string) ([]string, error) {
	vdfPath := filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf")
	f, err := os.Open(vdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{steamRoot}, nil
		}
		return nil, fmt.Errorf("reading libraryfolders: %w", err)
	}
	defer f.Close()

	root, err := ParseVDF(f)
	if err != nil {
		return nil, fmt.Errorf("parsing libraryfolders: %w", err)
	}
	paths := libraryPaths(root)
	if len(paths) == 0 {
		return []string{steamRoot}, nil
	}
	return paths, nil
}

// FindApp searches the libraries of the given Steam roots for appID and
// returns the first install whose folder exists.
func FindApp(appID string, roots []string) (*Install, error) {
	for _, steamRoot := range roots {
		libraries, err := LibraryPaths(steamRoot)
		if err != nil {
			continue
		}
		for _, lib := range libraries {
			if inst, ok := findInLibrary(appID, lib); ok {
				return inst, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAppNotInstalled, appID)
}

func findInLibrary(appID, lib string) (*Install, bool) {
	steamapps := filepath.Join(lib, "steamapps")
	f, err := os.Open(filepath.Join(steamapps, "appmanifest_"+appID+".acf"))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	manifest, err := ParseAppManifest(f)
	if err != nil || manifest.InstallDir == "" {
		return nil, false
	}
	if manifest.AppID != "" && manifest.AppID != appID {
		return nil, false
	}

	installPath := filepath.Join(steamapps, "common", manifest.InstallDir)
	info, err := os.Stat(installPath)
	if err != nil || !info.IsDir() {
		return nil, false
	}

	abs, err := filepath.Abs(installPath)
	if err != nil {
		abs = installPath
	}
	return &Install{AppID: appID, Name: manifest.Name, Path: abs, Library: lib}, true
}
