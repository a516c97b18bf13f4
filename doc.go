// Package issuecache implements the read-through cache facade for the
// civic-issue reporting service. It sits between the application's read
// paths (nearby-issue queries, paginated listings, per-issue detail) and a
// remote key-value backend, and guarantees that backend unavailability is
// never observable as an error by callers: every store failure degrades to
// a miss or a fresh compute.
//
// Components:
//   - Cache[V]: the public facade (Get, Set, Delete, GetOrCompute,
//     InvalidateByPattern). Store failures are absorbed here; compute
//     failures pass through untouched.
//   - Provider: byte store with TTLs and pattern enumeration
//     (Redis, BigCache, Ristretto).
//   - Codec[V]: (de)serializes V <-> []byte. JSON by default.
//   - conn.Manager: one Redis client per process, lazily constructed, with
//     a bounded reconnect probe and observable connection state.
//   - keys: deterministic cache keys and per-resource TTLs.
//
// Read-through pattern:
//
//	v, err := cache.GetOrCompute(ctx, keys.Issue(42), fetchIssue, keys.TTL(keys.ResourceIssue))
//
// A hit returns the cached value; a miss (including any transport error)
// invokes fetchIssue, stores the result opportunistically, and returns it.
// Only fetchIssue's own error can surface to the caller.
package issuecache
