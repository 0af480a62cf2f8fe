package providers

import (
	"context"

	apperrors "github.com/Hash-621/TEAM202507-01-Final/pkg/errors"
)

// CacheProvider is a byte-oriented key/value store with expiry. Geocoding
// providers use it to avoid resolving the same address twice.
type CacheProvider interface {
	// Get retrieves a value from cache. Missing or expired keys return ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}

// ErrCacheMiss is returned by CacheProvider.Get for absent keys
var ErrCacheMiss = apperrors.NewNotFoundError("cache miss")
