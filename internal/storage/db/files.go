package db

import (
	"fmt"
	"strings"
)

// conflictChunk bounds the number of bound parameters per IN query
const conflictChunk = 500

// FileConflict is a game path already deployed by another mod
type FileConflict struct {
	RelativePath string
	ModName      string
}

// PathOwners lists every mod that has deployed the same game path
type PathOwners struct {
	RelativePath string
	Mods         []string
}

// RecordDeployedFiles replaces the set of game paths owned by a mod.
func (d *DB) RecordDeployedFiles(modName string, paths []string) (err error) {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM deployed_files WHERE mod_name = ?`, modName); err != nil {
		return fmt.Errorf("clearing deployed files: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO deployed_files (mod_name, relative_path)
		VALUES (?, ?)
		ON CONFLICT(mod_name, relative_path) DO UPDATE SET deployed_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err = stmt.Exec(modName, p); err != nil {
			return fmt.Errorf("saving deployed file %s: %w", p, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing deployed files: %w", err)
	}
	return nil
}

// DeleteDeployedFiles removes all deployed file records for a mod.
func (d *DB) DeleteDeployedFiles(modName string) error {
	if _, err := d.Exec(`DELETE FROM deployed_files WHERE mod_name = ?`, modName); err != nil {
		return fmt.Errorf("deleting deployed files: %w", err)
	}
	return nil
}

// GetDeployedFilesForMod returns all game paths deployed by a mod.
func (d *DB) GetDeployedFilesForMod(modName string) ([]string, error) {
	rows, err := d.Query(`
		SELECT relative_path FROM deployed_files
		WHERE mod_name = ?
		ORDER BY relative_path
	`, modName)
	if err != nil {
		return nil, fmt.Errorf("querying deployed files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// CheckFileConflicts returns which of the given paths are already deployed by
// mods other than modName.
func (d *DB) CheckFileConflicts(modName string, paths []string) ([]FileConflict, error) {
	var conflicts []FileConflict
	for start := 0; start < len(paths); start += conflictChunk {
		end := min(start+conflictChunk, len(paths))
		chunk := paths[start:end]

		placeholders := make([]string, len(chunk))
		args := make([]interface{}, 0, len(chunk)+1)
		args = append(args, modName)
		for i, p := range chunk {
			placeholders[i] = "?"
			args = append(args, p)
		}

		query := fmt.Sprintf(`
			SELECT relative_path, mod_name FROM deployed_files
			WHERE mod_name != ? AND relative_path IN (%s)
			ORDER BY relative_path, mod_name
		`, strings.Join(placeholders, ","))

		found, err := d.scanConflicts(query, args...)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, found...)
	}
	return conflicts, nil
}

// ListConflicts returns every game path deployed by more than one mod.
func (d *DB) ListConflicts() ([]PathOwners, error) {
	found, err := d.scanConflicts(`
		SELECT relative_path, mod_name FROM deployed_files
		WHERE relative_path IN (
			SELECT relative_path FROM deployed_files
			GROUP BY relative_path HAVING COUNT(*) > 1
		)
		ORDER BY relative_path, mod_name
	`)
	if err != nil {
		return nil, err
	}

	var owners []PathOwners
	for _, c := range found {
		if n := len(owners); n > 0 && owners[n-1].RelativePath == c.RelativePath {
			owners[n-1].Mods = append(owners[n-1].Mods, c.ModName)
			continue
		}
		owners = append(owners, PathOwners{RelativePath: c.RelativePath, Mods: []string{c.ModName}})
	}
	return owners, nil
}

func (d *DB) scanConflicts(query string, args ...interface{}) ([]FileConflict, error) {
	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []FileConflict
	for rows.Next() {
		var c FileConflict
		if err := rows.Scan(&c.RelativePath, &c.ModName); err != nil {
			return nil, fmt.Errorf("scanning conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}
