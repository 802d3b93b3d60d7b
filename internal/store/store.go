// Package store provides local persistence for the stockwatch client: a
// SQLite-backed key-value store for credentials and favorites, and a Parquet
// archive for exported price history.
package store

import "context"

// Well-known keys of the local key-value store.
const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyFavorites = "favorites"
)

// KV persists small client-side values under fixed string keys.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
