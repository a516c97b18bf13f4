package issuecache

import (
	"context"
	"fmt"
	"time"

	"github.com/civiclens/issuecache/codec"
)

type cache[V any] struct {
	ns       string
	provider Provider
	codec    codec.Codec[V]
	log      Logger
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("issuecache: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("issuecache: codec is required")
	}
	return &cache[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		log:      coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

func (c *cache[V]) Enabled() bool { return true }

func (c *cache[V]) Close(ctx context.Context) error {
	return c.provider.Close(ctx)
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	k := c.storageKey(key)
	raw, ok, err := c.provider.Get(ctx, k)
	if err != nil {
		// Expected under backend restarts and network blips; warn, not error.
		c.log.Warn("cache read failed", Fields{"key": key, "err": err})
		return zero, false
	}
	if !ok {
		return zero, false
	}
	v, err := c.codec.Decode(raw)
	if err != nil {
		// Corrupt payload reads as a miss; drop it so the next read
		// repopulates cleanly instead of failing decode forever.
		_ = c.provider.Del(ctx, k)
		c.log.Warn("cache payload corrupt, entry dropped", Fields{"key": key, "err": err})
		return zero, false
	}
	return v, true
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) bool {
	raw, err := c.codec.Encode(value)
	if err != nil {
		c.log.Warn("cache encode failed", Fields{"key": key, "err": err})
		return false
	}
	if ttl < 0 {
		ttl = 0 // non-positive => no expiry, per provider contract
	}
	if err := c.provider.Set(ctx, c.storageKey(key), raw, ttl); err != nil {
		c.log.Warn("cache write failed", Fields{"key": key, "err": err})
		return false
	}
	return true
}

func (c *cache[V]) Delete(ctx context.Context, key string) bool {
	if err := c.provider.Del(ctx, c.storageKey(key)); err != nil {
		c.log.Warn("cache delete failed", Fields{"key": key, "err": err})
		return false
	}
	return true
}

func (c *cache[V]) GetOrCompute(ctx context.Context, key string, compute ComputeFunc[V], ttl time.Duration) (V, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	// Miss for any reason, including a down backend: compute fresh. Two
	// concurrent callers on a cold key may both land here; last write wins
	// and both return correct data.
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(ctx, key, v, ttl) // opportunistic; result does not affect the return
	return v, nil
}

func (c *cache[V]) InvalidateByPattern(ctx context.Context, pattern string) bool {
	if err := c.invalidate(ctx, pattern); err != nil {
		c.log.Warn("cache invalidation failed", Fields{"pattern": pattern, "err": err})
		return false
	}
	return true
}

// invalidate keeps the enumeration and deletion errors typed and separate;
// InvalidateByPattern collapses them to the public boolean.
func (c *cache[V]) invalidate(ctx context.Context, pattern string) error {
	p := c.storageKey(pattern)
	matched, err := c.provider.Keys(ctx, p)
	if err != nil {
		return &PatternError{Pattern: pattern, ScanErr: err}
	}
	if len(matched) == 0 {
		return nil
	}
	if err := c.provider.Del(ctx, matched...); err != nil {
		return &PatternError{Pattern: pattern, DelErr: err}
	}
	c.log.Debug("cache invalidated by pattern", Fields{"pattern": pattern, "keys": len(matched)})
	return nil
}

func (c *cache[V]) storageKey(userKey string) string {
	if c.ns == "" {
		return userKey
	}
	return c.ns + ":" + userKey
}
