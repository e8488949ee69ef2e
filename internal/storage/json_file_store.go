package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// DefaultDataFile is the data file used when none is configured.
const DefaultDataFile = "hotel_data.json"

// JSONFileStore keeps the snapshot in a single JSON document:
//
//	{
//	    "rooms": {"1": {"status": "available", "guest_name": null, "check_in_time": null}, ...},
//	    "history": [{"room_number": 2, "guest_name": "Alice", "check_in_time": "...", "check_out_time": "..."}]
//	}
//
// Saves write a temporary file next to the target and rename it into place.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a store for the document at path.
func NewJSONFileStore(path string) *JSONFileStore {
	if path == "" {
		path = DefaultDataFile
	}
	return &JSONFileStore{path: path}
}

// Load reads and decodes the document. A missing file yields registry.ErrNoSnapshot.
func (s *JSONFileStore) Load(_ context.Context) (registry.Snapshot, error) {
	// #nosec G304 - path is the operator-configured data file
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return registry.Snapshot{}, registry.ErrNoSnapshot
		}
		return registry.Snapshot{}, herrors.StorageCorrupt(s.path, fmt.Errorf("read data file: %w", err))
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		return registry.Snapshot{}, herrors.StorageCorrupt(s.path, err)
	}
	return snapshot, nil
}

// Save replaces the document with snapshot.
func (s *JSONFileStore) Save(_ context.Context, snapshot registry.Snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return herrors.StorageWriteFailed(s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return herrors.StorageWriteFailed(s.path, fmt.Errorf("create data directory: %w", err))
	}

	tempPath := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return herrors.StorageWriteFailed(s.path, fmt.Errorf("write temporary data file: %w", err))
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return herrors.StorageWriteFailed(s.path, fmt.Errorf("replace data file: %w", err))
	}
	return nil
}

// Location returns the data file path.
func (s *JSONFileStore) Location() string {
	return s.path
}

// Close releases resources.
func (s *JSONFileStore) Close() error {
	return nil
}
