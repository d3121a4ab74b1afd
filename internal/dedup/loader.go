// Package dedup collapses concurrent identical reads into one in-flight call.
//
// It is not a cache: an entry lives only while its call is in flight and is
// evicted as soon as the call settles, successfully or not. The next call
// with the same key always issues a fresh load.
package dedup

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Loader de-duplicates calls to load that share the same key.
type Loader[A, V any] struct {
	key   func(A) string
	load  func(context.Context, A) (V, error)
	group singleflight.Group
}

// New creates a Loader. key maps the call arguments to the de-duplication
// key, load performs the underlying request.
func New[A, V any](key func(A) string, load func(context.Context, A) (V, error)) *Loader[A, V] {
	return &Loader[A, V]{key: key, load: load}
}

// Do returns the result of load(arg), joining an in-flight call with the
// same key if there is one.
//
// The shared load is detached from the caller's cancellation so one caller
// giving up does not fail the others. A caller whose ctx is done stops
// waiting and gets ctx.Err(); the result is discarded for that caller only.
func (l *Loader[A, V]) Do(ctx context.Context, arg A) (V, error) {
	var zero V
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(l.key(arg), func() (any, error) {
		return l.load(shared, arg)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Forget drops the in-flight entry for arg so the next call starts a new
// load instead of joining one that may predate a write.
func (l *Loader[A, V]) Forget(arg A) {
	l.group.Forget(l.key(arg))
}
