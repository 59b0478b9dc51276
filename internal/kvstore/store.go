// Package kvstore provides the persistent key-value storage used by the
// weather cache, history recorder, location fix cache and settings.
// Values are opaque strings; callers own serialization.
package kvstore

import (
	"context"
	"errors"
)

// Storage errors.
var (
	// ErrKeyNotFound is returned when a key has no value.
	ErrKeyNotFound = errors.New("key not found")
)

// Store defines the key-value storage contract.
type Store interface {
	// Get retrieves the value for a key. Returns ErrKeyNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value under a key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// RemoveMany deletes multiple keys in one call.
	RemoveMany(ctx context.Context, keys []string) error

	// ListKeys returns all keys starting with the given prefix.
	// An empty prefix lists every key.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
