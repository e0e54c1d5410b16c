package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/metricsync/internal/config"
	apperrors "git.home.luguber.info/inful/metricsync/internal/errors"
)

// Store persists the catalogue document at a fixed path.
type Store struct {
	path string
}

// New creates a store for the given catalogue path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the catalogue location.
func (s *Store) Path() string { return s.path }

// Load reads and parses the catalogue.
func (s *Store) Load() (*config.Config, error) {
	return config.Load(s.path)
}

// Save writes the catalogue atomically: the document is marshalled to a
// temporary file in the same directory and renamed over the target, so
// readers never observe a half-written catalogue.
func (s *Store) Save(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return apperrors.StoreWriteError(s.path, fmt.Errorf("marshal catalogue: %w", err))
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".targets-*.yaml")
	if err != nil {
		return apperrors.StoreWriteError(s.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.StoreWriteError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.StoreWriteError(s.path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperrors.StoreWriteError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.StoreWriteError(s.path, err)
	}
	return nil
}
