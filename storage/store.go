// Package storage provides the durable key-value capability the chat core
// persists through. Values are strings only; callers JSON-encode structured
// data before Set and decode after Get. There are no transactions.
package storage

import "context"

// Store is a string-keyed, string-valued durable store. Implementations
// are stateless and perform I/O on each call without caching.
type Store interface {
	// Get retrieves the value for key. Returns ErrKeyNotFound when the key
	// has never been set or has been removed.
	Get(ctx context.Context, key string) (string, error)
	// Set persists value under key, creating or overwriting as needed.
	Set(ctx context.Context, key, value string) error
	// Remove deletes the value for key. Missing keys are ignored.
	Remove(ctx context.Context, key string) error
}
