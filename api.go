package issuecache

import (
	"context"
	"time"

	c "github.com/civiclens/issuecache/codec"
	pr "github.com/civiclens/issuecache/provider"
)

// Provider is re-exported so callers only need this package for Options.
type Provider = pr.Provider

// ComputeFunc produces a fresh value on cache miss, typically a database
// query. Its error is the caller's error semantics; the cache never
// swallows it.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Cache is the resilient facade over a remote key-value backend.
// V is the caller's value type. Serialization is handled by a pluggable Codec[V].
//
// Every method absorbs backend failures: Get reports them as a miss,
// Set/Delete/InvalidateByPattern report them as false, and GetOrCompute
// falls back to the compute function. The only error a caller can observe
// is its own compute function's error.
type Cache[V any] interface {
	// Enabled reports whether a live backend is attached. The disabled
	// variant behaves like a permanently unreachable backend, minus the
	// connection log noise.
	Enabled() bool

	// Close releases the underlying provider.
	Close(ctx context.Context) error

	// Get returns the cached value for key. A transport error, a clean
	// miss, and a corrupt payload are all reported as (zero, false);
	// callers cannot and should not distinguish them.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores value under key with the given TTL. ttl <= 0 stores
	// without expiry; callers normally pass keys.TTL(resource).
	// Returns false on any failure.
	Set(ctx context.Context, key string, value V, ttl time.Duration) bool

	// Delete removes a single entry. Returns false on failure.
	Delete(ctx context.Context, key string) bool

	// GetOrCompute is the read-through path: return the cached value if
	// present, otherwise call compute, opportunistically store its result
	// with ttl, and return it. The returned error is compute's error and
	// nothing else.
	GetOrCompute(ctx context.Context, key string, compute ComputeFunc[V], ttl time.Duration) (V, error)

	// InvalidateByPattern enumerates keys matching a wildcard pattern and
	// deletes them in one batch. Zero matches is success. Returns false
	// only when the attempt itself failed at the transport level.
	InvalidateByPattern(ctx context.Context, pattern string) bool
}

// Options tune the facade. Provider and Codec are required unless Disabled.
type Options[V any] struct {
	// Namespace prefixes every storage key to isolate value types sharing
	// one backend. e.g. "issues", "users". Optional.
	Namespace string

	Provider Provider
	Codec    c.Codec[V]

	Logger   Logger // nil => NopLogger
	Disabled bool   // true => inert facade; Provider/Codec may be nil
}

// New builds a Cache. With Disabled set it returns the inert variant,
// which never touches a backend and makes GetOrCompute call compute
// directly. This is how deployments without a cache backend run.
func New[V any](opts Options[V]) (Cache[V], error) {
	if opts.Disabled {
		return noop[V]{}, nil
	}
	return newCache[V](opts)
}
