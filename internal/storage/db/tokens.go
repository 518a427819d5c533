package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StoredToken is an API key saved for an upstream catalog
type StoredToken struct {
	SourceID  string
	APIKey    string
	UpdatedAt time.Time
}

// SaveToken saves or replaces the API key for a source
func (d *DB) SaveToken(sourceID, apiKey string) error {
	_, err := d.Exec(`
		INSERT INTO auth_tokens (source_id, token_data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source_id) DO UPDATE SET
			token_data = excluded.token_data,
			updated_at = CURRENT_TIMESTAMP
	`, sourceID, apiKey)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// GetToken returns the stored key for a source, or nil if none is stored
func (d *DB) GetToken(sourceID string) (*StoredToken, error) {
	var token StoredToken
	err := d.QueryRow(`
		SELECT source_id, token_data, updated_at FROM auth_tokens WHERE source_id = ?
	`, sourceID).Scan(&token.SourceID, &token.APIKey, &token.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return &token, nil
}

// DeleteToken forgets the key for a source
func (d *DB) DeleteToken(sourceID string) error {
	if _, err := d.Exec("DELETE FROM auth_tokens WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
