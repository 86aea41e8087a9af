// internal/store/store.go
//
// Persistence gateway for player records.
// Records are opaque byte blobs (JSON documents in practice) replaced whole on
// every Set; there are no partial-field updates.
//
// Backends:
//   - memory (this package, memory.go): process-local, used in tests and dev.
//   - sqlite (sqlite.go): kv_records table of the server database.
//   - redis  (redis.go): one string key per record.

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("store: not found")

// KV is the key/value contract the progress layer depends on.
type KV interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the whole value at key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
