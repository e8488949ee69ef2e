package registry

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Store.Load when nothing has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot persisted")

// Store persists whole registry snapshots.
type Store interface {
	// Load returns the persisted snapshot, or ErrNoSnapshot if there is none.
	Load(ctx context.Context) (Snapshot, error)

	// Save overwrites the persisted snapshot.
	Save(ctx context.Context, snapshot Snapshot) error

	// Location describes where data lives, for messages and logs.
	Location() string
}
