// Package storage defines the durable key-value contract the session identity is
// mirrored into, with sqlite, JSON-file and in-memory backends.
package storage

import (
	"context"
	"errors"
)

// DefaultKey is the fixed key the session identity is stored under.
const DefaultKey = "userId"

// ErrUnavailable is returned by backends that cannot be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// Storage is a small string key-value store that survives process restarts.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
