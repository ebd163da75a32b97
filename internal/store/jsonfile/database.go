// Package jsonfile persists the item database as a single JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/hay-kot/hadaf/internal/core/database"
)

// DatabaseStore implements database.Storage using a JSON file for persistence.
type DatabaseStore struct {
	fs   afero.Fs
	path string
	mu   sync.RWMutex
}

// NewDatabaseStore creates a JSON file store at path on fs.
func NewDatabaseStore(fs afero.Fs, path string) *DatabaseStore {
	return &DatabaseStore{fs: fs, path: path}
}

// Path returns the database file location.
func (s *DatabaseStore) Path() string {
	return s.path
}

// Read loads the database. A missing or empty file yields an empty database.
func (s *DatabaseStore) Read(ctx context.Context) (*database.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load()
}

// Write replaces the database file.
func (s *DatabaseStore) Write(ctx context.Context, data *database.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(data)
}

// load reads the database file from disk.
func (s *DatabaseStore) load() (*database.Data, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return database.NewData(), nil
		}
		return nil, err
	}

	if len(raw) == 0 {
		return database.NewData(), nil
	}

	var data database.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	data.Normalize()

	return &data, nil
}

// save writes the database file atomically.
func (s *DatabaseStore) save(data *database.Data) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, raw, 0o644); err != nil {
		return err
	}

	return s.fs.Rename(tmp, s.path)
}
