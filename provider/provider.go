// Package provider defines the storage abstraction used by issuecache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding, no mutation).
//
// TTL expiry is owned entirely by the store; the facade supplies a TTL at
// write time and never enforces it on read.
package provider

import (
	"context"
	"errors"
	"time"
)

// ErrPatternUnsupported is returned by Keys on stores that cannot enumerate
// their keyspace (e.g. Ristretto). The facade absorbs it like any other
// operation failure.
var ErrPatternUnsupported = errors.New("provider: pattern enumeration not supported")

// Provider is a minimal byte store with TTLs and wildcard enumeration.
// Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes keys in one batch (best-effort). A zero-length call is a no-op.
	Del(ctx context.Context, keys ...string) error

	// Keys returns every key matching a glob-style pattern ("nearby:*").
	// Zero matches is (nil, nil), not an error.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
