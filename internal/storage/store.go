// Package storage provides registry.Store backends: a JSON document on disk
// (the default), a SQLite database and an in-memory store for tests.
package storage

import (
	"fmt"

	"git.home.luguber.info/inful/hotelkeys/internal/normalization"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// Store is a registry.Store that may hold resources.
type Store interface {
	registry.Store

	// Close releases any resources held by the store.
	Close() error
}

// Backend identifies a storage implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

var backendNormalizer = normalization.NewNormalizer(map[string]Backend{
	"json":   BackendJSON,
	"sqlite": BackendSQLite,
}, BackendJSON)

// ParseBackend converts a configured backend name.
func ParseBackend(raw string) (Backend, error) {
	return backendNormalizer.Parse(raw)
}

// Backends lists the accepted backend names.
func Backends() []string {
	return backendNormalizer.ValidKeys()
}

// Open creates the store for backend at path.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendJSON:
		return NewJSONFileStore(path), nil
	case BackendSQLite:
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}
