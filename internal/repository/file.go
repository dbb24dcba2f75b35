// Package repository provides the session record stores: one record under a
// fixed key, on disk for device use or in Postgres for gateway deployments.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"rentmap/internal/models"
)

// FileStore keeps the session record in a single JSON file, the equivalent
// of the mobile app's keyed device storage.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the record. A missing file is (nil, nil); an unreadable or
// undecodable file is an error, which callers treat as logged-out.
func (s *FileStore) Load(_ context.Context) (*models.SessionRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: read session file: %w", err)
	}

	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("repository: decode session file: %w", err)
	}
	return &rec, nil
}

// Save writes the record, replacing any previous one. The file is private to
// the owner since it holds a bearer token.
func (s *FileStore) Save(_ context.Context, rec models.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("repository: encode session record: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("repository: write session file: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (s *FileStore) Delete(_ context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("repository: remove session file: %w", err)
	}
	return nil
}
