package livecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestor/internal/realtime"
)

type sessionStub struct{ active bool }

func (s *sessionStub) HasSession() bool { return s.active }

type fetchStub struct {
	mu    sync.Mutex
	items []string
	err   error
	calls int
}

func (f *fetchStub) fetch(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fetchStub) set(items []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items, f.err = items, err
}

func (f *fetchStub) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestCollectionInitialFetch(t *testing.T) {
	feed := realtime.NewFeed()
	src := &fetchStub{items: []string{"a", "b"}}

	c := NewCollection("test", src.fetch, &sessionStub{active: true}, feed, "things")
	defer c.Close()

	items, loading, errMsg := c.Snapshot()
	assert.Equal(t, []string{"a", "b"}, items)
	assert.False(t, loading)
	assert.Empty(t, errMsg)
	assert.Equal(t, 1, src.callCount())
}

func TestCollectionNoSessionResolvesEmpty(t *testing.T) {
	feed := realtime.NewFeed()
	src := &fetchStub{items: []string{"a"}}

	c := NewCollection("test", src.fetch, &sessionStub{active: false}, feed, "things")
	defer c.Close()

	items, loading, _ := c.Snapshot()
	assert.Empty(t, items)
	assert.False(t, loading, "no session must not leave the collection loading")
	assert.Zero(t, src.callCount())
}

func TestCollectionRefetchesOnFeedEvent(t *testing.T) {
	feed := realtime.NewFeed()
	src := &fetchStub{items: []string{"a"}}

	c := NewCollection("test", src.fetch, &sessionStub{active: true}, feed, "things")
	defer c.Close()

	src.set([]string{"a", "b"}, nil)
	feed.Publish(realtime.Event{Table: "things", Action: realtime.ActionInsert, RowID: "b"})

	require.Eventually(t, func() bool {
		items, _, _ := c.Snapshot()
		return len(items) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestCollectionIgnoresOtherTables(t *testing.T) {
	feed := realtime.NewFeed()
	src := &fetchStub{items: []string{"a"}}

	c := NewCollection("test", src.fetch, &sessionStub{active: true}, feed, "things")
	defer c.Close()

	feed.Publish(realtime.Event{Table: "other", Action: realtime.ActionInsert})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, src.callCount())
}

func TestCollectionKeepsStaleItemsOnError(t *testing.T) {
	feed := realtime.NewFeed()
	src := &fetchStub{items: []string{"a"}}

	c := NewCollection("test", src.fetch, &sessionStub{active: true}, feed, "things")
	defer c.Close()

	src.set(nil, errors.New("db down"))
	err := c.Refresh(context.Background())
	require.Error(t, err)

	items, _, errMsg := c.Snapshot()
	assert.Equal(t, []string{"a"}, items, "previous items survive a failed refetch")
	assert.Equal(t, "db down", errMsg)

	// Recovery clears the recorded error.
	src.set([]string{"a", "c"}, nil)
	require.NoError(t, c.Refresh(context.Background()))
	items, _, errMsg = c.Snapshot()
	assert.Equal(t, []string{"a", "c"}, items)
	assert.Empty(t, errMsg)
}

func TestCollectionCloseStopsWatching(t *testing.T) {
	feed := realtime.NewFeed()
	src := &fetchStub{items: []string{"a"}}

	c := NewCollection("test", src.fetch, &sessionStub{active: true}, feed, "things")
	c.Close()

	calls := src.callCount()
	feed.Publish(realtime.Event{Table: "things", Action: realtime.ActionInsert})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, src.callCount())

	// Close twice is fine.
	c.Close()
}
