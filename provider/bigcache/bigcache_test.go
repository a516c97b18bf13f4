package bigcache

import (
	"context"
	"sort"
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{LifeWindow: time.Minute})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	if _, ok, err := p.Get(ctx, "issue:1"); err != nil || ok {
		t.Fatalf("cold Get: ok=%v err=%v", ok, err)
	}
	if err := p.Set(ctx, "issue:1", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := p.Get(ctx, "issue:1")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("Get: ok=%v err=%v b=%q", ok, err, b)
	}
	if err := p.Del(ctx, "issue:1", "issue:never-existed"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "issue:1"); ok {
		t.Fatalf("entry survived Del")
	}
}

func TestKeysMatchesPattern(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	for _, k := range []string{"nearby:a", "nearby:b", "issue:1"} {
		if err := p.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("seed %q: %v", k, err)
		}
	}
	got, err := p.Keys(ctx, "nearby:*")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "nearby:a" || got[1] != "nearby:b" {
		t.Fatalf("Keys = %v", got)
	}
}
