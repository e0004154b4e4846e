package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c chan Event) Event {
	t.Helper()
	select {
	case e := <-c:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestSubscribeReceivesMatchingTable(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe("", "tasks")
	defer sub.Unsubscribe()

	f.Publish(Event{Table: "tasks", Action: ActionInsert, RowID: "t1"})
	e := recv(t, sub.C)
	assert.Equal(t, "t1", e.RowID)
}

func TestSubscribeIgnoresOtherTables(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe("", "tasks")
	defer sub.Unsubscribe()

	f.Publish(Event{Table: "clients", Action: ActionInsert})
	select {
	case e := <-sub.C:
		t.Fatalf("unexpected event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUserScopedEvents(t *testing.T) {
	f := NewFeed()
	mine := f.Subscribe("u1", "notifications")
	theirs := f.Subscribe("u2", "notifications")
	defer mine.Unsubscribe()
	defer theirs.Unsubscribe()

	f.Publish(Event{Table: "notifications", Action: ActionInsert, RowID: "n1", UserID: "u1"})

	e := recv(t, mine.C)
	assert.Equal(t, "n1", e.RowID)
	select {
	case e := <-theirs.C:
		t.Fatalf("event leaked to another user: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}

	// An unscoped event on the same table reaches both.
	f.Publish(Event{Table: "notifications", Action: ActionUpdate})
	recv(t, mine.C)
	recv(t, theirs.C)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe("", "tasks")

	sub.Unsubscribe()
	_, open := <-sub.C
	require.False(t, open)

	// Idempotent, and publishing after is safe.
	sub.Unsubscribe()
	f.Publish(Event{Table: "tasks", Action: ActionInsert})
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	f := NewFeed()
	sub := f.Subscribe("", "tasks")
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			f.Publish(Event{Table: "tasks", Action: ActionInsert})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
