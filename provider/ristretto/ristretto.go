// Package ristretto backs issuecache with an in-process Ristretto cache.
// Ristretto honors per-entry TTLs but cannot enumerate its keyspace, so
// Keys reports ErrPatternUnsupported and pattern invalidation degrades to
// a clean failure at the facade.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/civiclens/issuecache/provider"
)

type Provider struct {
	c *rc.Cache
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	// Cost is payload size; a rejected admission is not an error, the
	// facade simply misses next time.
	if ttl < 0 {
		ttl = 0
	}
	p.c.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

func (p *Provider) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		p.c.Del(k)
	}
	return nil
}

func (p *Provider) Keys(context.Context, string) ([]string, error) {
	return nil, pr.ErrPatternUnsupported
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes Ristretto's own counters for applications that want them.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
