package issuecache

import (
	"context"
	"time"
)

// noop is the disabled-backend facade. To callers it is indistinguishable
// from a permanently unreachable backend: every operation reports the
// miss/failure sentinel and GetOrCompute runs the compute function directly.
type noop[V any] struct{}

var _ Cache[struct{}] = noop[struct{}]{}

func (noop[V]) Enabled() bool               { return false }
func (noop[V]) Close(context.Context) error { return nil }

func (noop[V]) Get(context.Context, string) (V, bool) {
	var zero V
	return zero, false
}

func (noop[V]) Set(context.Context, string, V, time.Duration) bool { return false }
func (noop[V]) Delete(context.Context, string) bool                { return false }
func (noop[V]) InvalidateByPattern(context.Context, string) bool   { return false }

func (noop[V]) GetOrCompute(ctx context.Context, _ string, compute ComputeFunc[V], _ time.Duration) (V, error) {
	return compute(ctx)
}
