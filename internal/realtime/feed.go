package realtime

import "sync"

// Event announces a row-level mutation on a table. Action is one of
// "insert", "update", "delete" or "*" (unqualified).
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	RowID  string `json:"rowId,omitempty"`
	UserID string `json:"userId,omitempty"` // target user for user-scoped tables
}

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAny    = "*"
)

// Subscription receives events on C. The channel is buffered and lossy:
// consumers react to any event with a full refetch, so dropped events are
// coalesced into the next one.
type Subscription struct {
	C chan Event

	feed   *Feed
	tables map[string]struct{}
	userID string // empty = no user filter
	once   sync.Once
}

func (s *Subscription) matches(e Event) bool {
	if _, ok := s.tables[e.Table]; !ok {
		return false
	}
	if s.userID != "" && e.UserID != "" && e.UserID != s.userID {
		return false
	}
	return true
}

// Unsubscribe detaches the subscription and closes C. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.remove(s)
		close(s.C)
	})
}

// Feed is the in-process change feed: every committed mutation is published
// here and fanned out to table-scoped subscribers.
type Feed struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers for changes on the given tables. A non-empty userID
// additionally filters user-scoped events (e.g. notifications).
func (f *Feed) Subscribe(userID string, tables ...string) *Subscription {
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}
	sub := &Subscription{
		C:      make(chan Event, 16),
		feed:   f,
		tables: set,
		userID: userID,
	}
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	return sub
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

// Publish fans the event out without blocking. Subscribers with a full
// buffer miss this event and catch up on the next.
func (f *Feed) Publish(e Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subs {
		if !sub.matches(e) {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
}
