package issuecache

import (
	"context"
	"errors"
	"fmt"
	"path"
	"testing"
	"time"

	c "github.com/civiclens/issuecache/codec"
	pr "github.com/civiclens/issuecache/provider"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memProvider struct {
	m map[string]memEntry
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, exp: exp}
	return nil
}

func (p *memProvider) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(p.m, k)
	}
	return nil
}

func (p *memProvider) Keys(_ context.Context, pattern string) ([]string, error) {
	var out []string
	for k := range p.m {
		if ok, err := path.Match(pattern, k); err != nil {
			return nil, err
		} else if ok {
			out = append(out, k)
		}
	}
	return out, nil
}

func (p *memProvider) Close(_ context.Context) error { return nil }

// downProvider simulates an unreachable backend: every operation fails at
// the transport level.
type downProvider struct{}

var _ pr.Provider = downProvider{}

var errTransport = errors.New("connection refused")

func (downProvider) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errTransport
}
func (downProvider) Set(context.Context, string, []byte, time.Duration) error { return errTransport }
func (downProvider) Del(context.Context, ...string) error                     { return errTransport }
func (downProvider) Keys(context.Context, string) ([]string, error)           { return nil, errTransport }
func (downProvider) Close(context.Context) error                              { return nil }

type issue struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func newTestCache(t *testing.T, p pr.Provider, optsOpt func(*Options[issue])) Cache[issue] {
	t.Helper()
	opts := Options[issue]{
		Namespace: "issues",
		Provider:  p,
		Codec:     c.JSON[issue]{},
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	cc, err := New[issue](opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cc
}

func TestNewRequiresProviderAndCodec(t *testing.T) {
	if _, err := New[issue](Options[issue]{Codec: c.JSON[issue]{}}); err == nil {
		t.Fatalf("expected error without provider")
	}
	if _, err := New[issue](Options[issue]{Provider: newMemProvider()}); err == nil {
		t.Fatalf("expected error without codec")
	}
	// Disabled mode needs neither.
	if _, err := New[issue](Options[issue]{Disabled: true}); err != nil {
		t.Fatalf("disabled New: %v", err)
	}
}

func TestGetSetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := newTestCache(t, mp, nil)
	defer cc.Close(ctx)

	k := "issue:42"
	v := issue{ID: 42, Title: "pothole on 5th", Status: "open"}

	if _, ok := cc.Get(ctx, k); ok {
		t.Fatalf("expected miss on cold key")
	}
	if !cc.Set(ctx, k, v, 10*time.Minute) {
		t.Fatalf("Set should succeed")
	}
	if got, ok := cc.Get(ctx, k); !ok || got != v {
		t.Fatalf("Get after set: ok=%v got=%+v", ok, got)
	}
	if !cc.Delete(ctx, k) {
		t.Fatalf("Delete should succeed")
	}
	if _, ok := cc.Get(ctx, k); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestSetWithoutTTLHasNoExpiry(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := newTestCache(t, mp, nil)

	if !cc.Set(ctx, "issue:7", issue{ID: 7}, 0) {
		t.Fatalf("Set with zero ttl should succeed")
	}
	e, ok := mp.m["issues:issue:7"]
	if !ok {
		t.Fatalf("entry not stored")
	}
	if !e.exp.IsZero() {
		t.Fatalf("zero ttl must store without expiry, got exp=%v", e.exp)
	}
}

func TestGetOrComputeColdKey(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := newTestCache(t, mp, nil)

	want := issue{ID: 1, Title: "broken streetlight", Status: "open"}
	calls := 0
	got, err := cc.GetOrCompute(ctx, "issue:1", func(context.Context) (issue, error) {
		calls++
		return want, nil
	}, time.Minute)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if got != want {
		t.Fatalf("GetOrCompute = %+v, want %+v", got, want)
	}
	if calls != 1 {
		t.Fatalf("compute invoked %d times, want exactly 1", calls)
	}

	// Key is populated: an immediate Get hits without recompute.
	if got2, ok := cc.Get(ctx, "issue:1"); !ok || got2 != want {
		t.Fatalf("Get after read-through: ok=%v got=%+v", ok, got2)
	}

	// And a second GetOrCompute never calls compute.
	_, err = cc.GetOrCompute(ctx, "issue:1", func(context.Context) (issue, error) {
		calls++
		return issue{}, nil
	}, time.Minute)
	if err != nil {
		t.Fatalf("GetOrCompute warm: %v", err)
	}
	if calls != 1 {
		t.Fatalf("compute invoked on warm key")
	}
}

// TestUnreachableBackendScenario is the end-to-end degradation contract:
// with the store down, Set reports false, Get reports a miss, and
// GetOrCompute returns exactly the fresh value without raising.
func TestUnreachableBackendScenario(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, downProvider{}, nil)

	data := issue{ID: 42, Title: "flooded underpass", Status: "open"}

	if cc.Set(ctx, "issue:42", data, 600*time.Second) {
		t.Fatalf("Set against a down backend must report false")
	}
	if _, ok := cc.Get(ctx, "issue:42"); ok {
		t.Fatalf("Get against a down backend must report a miss")
	}

	calls := 0
	got, err := cc.GetOrCompute(ctx, "issue:42", func(context.Context) (issue, error) {
		calls++
		return data, nil
	}, 600*time.Second)
	if err != nil {
		t.Fatalf("GetOrCompute must not surface backend failure: %v", err)
	}
	if got != data || calls != 1 {
		t.Fatalf("fallback: got=%+v calls=%d", got, calls)
	}

	if cc.Delete(ctx, "issue:42") {
		t.Fatalf("Delete against a down backend must report false")
	}
	if cc.InvalidateByPattern(ctx, "issue:*") {
		t.Fatalf("InvalidateByPattern against a down backend must report false")
	}
}

// TestComputeErrorPassesThrough checks error isolation: a failing compute
// surfaces identically whether the store is reachable or not.
func TestComputeErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("pq: connection reset")

	for name, p := range map[string]pr.Provider{
		"reachable":   newMemProvider(),
		"unreachable": downProvider{},
	} {
		t.Run(name, func(t *testing.T) {
			cc := newTestCache(t, p, nil)
			_, err := cc.GetOrCompute(ctx, "issue:9", func(context.Context) (issue, error) {
				return issue{}, dbErr
			}, time.Minute)
			if !errors.Is(err, dbErr) {
				t.Fatalf("compute error must pass through unchanged, got %v", err)
			}
		})
	}
}

func TestCorruptPayloadReadsAsMissAndIsDropped(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := newTestCache(t, mp, nil)

	storageKey := "issues:issue:3"
	if err := mp.Set(ctx, storageKey, []byte("{not json"), time.Minute); err != nil {
		t.Fatalf("inject: %v", err)
	}
	if _, ok := cc.Get(ctx, "issue:3"); ok {
		t.Fatalf("corrupt payload must read as miss")
	}
	if _, ok := mp.m[storageKey]; ok {
		t.Fatalf("corrupt entry should have been dropped")
	}
}

func TestInvalidateByPattern(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	cc := newTestCache(t, mp, nil)

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("nearby:40.712%d:-74.0060:5.0:1:20", i)
		if !cc.Set(ctx, key, issue{ID: int64(i)}, time.Minute) {
			t.Fatalf("seed %d", i)
		}
	}
	cc.Set(ctx, "issue:1", issue{ID: 1}, time.Minute)

	if !cc.InvalidateByPattern(ctx, "nearby:*") {
		t.Fatalf("InvalidateByPattern should succeed")
	}
	for k := range mp.m {
		if ok, _ := path.Match("issues:nearby:*", k); ok {
			t.Fatalf("key %q survived invalidation", k)
		}
	}
	// Unrelated keys untouched.
	if _, ok := cc.Get(ctx, "issue:1"); !ok {
		t.Fatalf("unrelated key was invalidated")
	}

	// Zero matches is success, and repeating is a no-op.
	if !cc.InvalidateByPattern(ctx, "nearby:*") {
		t.Fatalf("zero-match invalidation must be success")
	}
	if !cc.InvalidateByPattern(ctx, "nearby:*") {
		t.Fatalf("repeated invalidation must be success")
	}
}

func TestDisabledModeIsInert(t *testing.T) {
	ctx := context.Background()
	cc, err := New[issue](Options[issue]{Disabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cc.Enabled() {
		t.Fatalf("disabled cache must report Enabled()==false")
	}

	if cc.Set(ctx, "issue:1", issue{ID: 1}, time.Minute) {
		t.Fatalf("disabled Set must report false")
	}
	if _, ok := cc.Get(ctx, "issue:1"); ok {
		t.Fatalf("disabled Get must report a miss")
	}
	if cc.Delete(ctx, "issue:1") {
		t.Fatalf("disabled Delete must report false")
	}
	if cc.InvalidateByPattern(ctx, "issue:*") {
		t.Fatalf("disabled InvalidateByPattern must report false")
	}

	want := issue{ID: 5, Title: "graffiti", Status: "resolved"}
	calls := 0
	got, err := cc.GetOrCompute(ctx, "issue:5", func(context.Context) (issue, error) {
		calls++
		return want, nil
	}, time.Minute)
	if err != nil || got != want || calls != 1 {
		t.Fatalf("disabled GetOrCompute: got=%+v err=%v calls=%d", got, err, calls)
	}
	if err := cc.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()

	issues := newTestCache(t, mp, nil)
	users := newTestCache(t, mp, func(o *Options[issue]) { o.Namespace = "users" })

	issues.Set(ctx, "detail:1", issue{ID: 1, Title: "a"}, time.Minute)
	users.Set(ctx, "detail:1", issue{ID: 2, Title: "b"}, time.Minute)

	got, ok := issues.Get(ctx, "detail:1")
	if !ok || got.ID != 1 {
		t.Fatalf("namespace collision: got=%+v", got)
	}

	// Pattern invalidation stays inside the namespace.
	if !issues.InvalidateByPattern(ctx, "detail:*") {
		t.Fatalf("invalidate")
	}
	if _, ok := users.Get(ctx, "detail:1"); !ok {
		t.Fatalf("invalidation crossed namespaces")
	}
}

func TestPatternErrorReporting(t *testing.T) {
	scanErr := &PatternError{Pattern: "nearby:*", ScanErr: errTransport}
	if !errors.Is(scanErr, errTransport) {
		t.Fatalf("PatternError must unwrap its scan error")
	}
	delErr := &PatternError{Pattern: "nearby:*", DelErr: errTransport}
	if !errors.Is(delErr, errTransport) {
		t.Fatalf("PatternError must unwrap its delete error")
	}
	if scanErr.Error() == delErr.Error() {
		t.Fatalf("scan and delete failures should read differently")
	}
}
