// Package config persists the mod registry (config.json) and the command line
// preferences (config.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrEmptyPath     = errors.New("config path cannot be empty")
	ErrRelativePath  = errors.New("config path must be absolute")
	ErrTraversalPath = errors.New("config path contains invalid traversal")
	ErrMissingFile   = errors.New("config file does not exist")
	ErrDirectoryPath = errors.New("config path is a directory, not a file")
	ErrExtension     = errors.New("config file must have .yaml or .yml extension")
)

var yamlExtensions = []string{".yaml", ".yml"}

// ParseConfigPath validates a preferences file given with --config-file and
// returns it cleaned.
func ParseConfigPath(path string) (string, error) {
	switch {
	case path == "":
		return "", ErrEmptyPath
	case !filepath.IsAbs(path):
		return "", ErrRelativePath
	case slices.Contains(strings.Split(filepath.ToSlash(path), "/"), ".."):
		return "", ErrTraversalPath
	case !slices.Contains(yamlExtensions, strings.ToLower(filepath.Ext(path))):
		return "", ErrExtension
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrMissingFile
		}
		return "", fmt.Errorf("checking config path: %w", err)
	}
	if info.IsDir() {
		return "", ErrDirectoryPath
	}

	return filepath.Clean(path), nil
}
