// Package livecache keeps locally cached, ordered collections mirroring the
// remote tables. Each collection does a full fetch on start, refetches in
// full whenever the change feed signals its table, and exposes a synchronous
// Refresh for read-after-write paths. No incremental patching: simplicity is
// chosen over bandwidth.
package livecache

import (
	"context"
	"log"
	"sync"
	"time"

	"gestor/internal/realtime"
)

// FetchFunc loads the full collection from the store, already ordered.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// SessionChecker gates the initial fetch: with no active session the
// collection resolves empty and not-loading.
type SessionChecker interface {
	HasSession() bool
}

const fetchTimeout = 15 * time.Second

type Collection[T any] struct {
	name  string
	fetch FetchFunc[T]
	sub   *realtime.Subscription

	mu      sync.RWMutex
	items   []T
	lastErr string
	loading bool
	closed  bool
}

// NewCollection subscribes to the feed for the given tables and performs the
// initial fetch (unless there is no session). Callers must Close it.
func NewCollection[T any](name string, fetch FetchFunc[T], sess SessionChecker, feed *realtime.Feed, tables ...string) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		fetch:   fetch,
		loading: true,
	}

	if sess == nil || sess.HasSession() {
		if err := c.Refresh(context.Background()); err != nil {
			log.Printf("[cache][%s][err] initial fetch: %v", name, err)
		}
	} else {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}

	c.sub = feed.Subscribe("", tables...)
	go c.watch()
	return c
}

func (c *Collection[T]) watch() {
	for range c.sub.C {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		if err := c.Refresh(ctx); err != nil {
			log.Printf("[cache][%s][err] refetch on change: %v", c.name, err)
		}
		cancel()
	}
}

// Refresh performs a full fetch and swaps the cache. On failure the previous
// items are kept, the error is recorded, and loading ends.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		// Late result after Close: discard.
		return nil
	}
	c.loading = false
	if err != nil {
		c.lastErr = err.Error()
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.lastErr = ""
	return nil
}

// Snapshot returns the cached items plus loading/error state. The returned
// slice must not be mutated.
func (c *Collection[T]) Snapshot() (items []T, loading bool, errMsg string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil {
		return []T{}, c.loading, c.lastErr
	}
	return c.items, c.loading, c.lastErr
}

// Close unsubscribes from the change feed and marks the collection inactive;
// in-flight fetches resolve into the void.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.sub.Unsubscribe()
}
