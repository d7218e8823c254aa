// Package singleflight coalesces concurrent calls for the same cache key
// so that the expensive fetch/compute runs at most once.
package singleflight

import (
	"context"
	"sync"
)

// Group deduplicates in-flight calls by key. The first caller for a key
// becomes the leader and runs fn; concurrent callers for the same key wait
// on the shared completion channel and receive the leader's result.
//
// Publishing (val, err) happens-before close(done), so reads after <-done
// observe the final values. Cancelling a follower's ctx unblocks only that
// follower; the leader's fn always runs to completion so remaining waiters
// still get a result.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

type call struct {
	done chan struct{} // closed when val/err are published
	val  []byte
	err  error
}

// Do runs fn once for the given key and returns its result to every
// concurrent caller of the same key. After completion the in-flight record
// is cleared, so a later Do starts a fresh invocation.
func (g *Group) Do(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[string]*call)
	}
	if c, ok := g.m[key]; ok {
		done := c.done
		g.mu.Unlock()

		select {
		case <-done:
			return c.val, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Leader for this key.
	c := &call{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Run fn outside the lock so unrelated keys proceed concurrently.
	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return c.val, c.err
}
