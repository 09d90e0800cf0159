package app

import (
	"sort"

	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

// EventList is a display-ordered, de-duplicated, size-bounded list of events.
// Identity is Event.ID. The snapshot fetch and the live feed race on mount
// and can both deliver the same row, in either order, so every mutation goes
// through this type.
type EventList struct {
	limit  int
	events []store.Event
	seen   map[int64]struct{}
}

// NewEventList returns a list bounded to limit entries. limit <= 0 means
// unbounded, which the single-session detail view uses.
func NewEventList(limit int) *EventList {
	return &EventList{limit: limit, seen: make(map[int64]struct{})}
}

// ReplaceWithSnapshot discards the current contents and installs the
// snapshot sorted newest first.
func (l *EventList) ReplaceWithSnapshot(events []store.Event) {
	l.events = make([]store.Event, len(events))
	copy(l.events, events)
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].Timestamp.After(l.events[j].Timestamp)
	})
	l.seen = make(map[int64]struct{}, len(l.events))
	for _, ev := range l.events {
		l.seen[ev.ID] = struct{}{}
	}
	l.truncate()
}

// Insert prepends a live-delivered event. Returns false when the id was
// already present (delivered by both the snapshot and the feed).
func (l *EventList) Insert(ev store.Event) bool {
	if _, dup := l.seen[ev.ID]; dup {
		return false
	}
	l.seen[ev.ID] = struct{}{}
	l.events = append([]store.Event{ev}, l.events...)
	l.truncate()
	return true
}

func (l *EventList) truncate() {
	if l.limit <= 0 || len(l.events) <= l.limit {
		return
	}
	for _, ev := range l.events[l.limit:] {
		delete(l.seen, ev.ID)
	}
	l.events = l.events[:l.limit]
}

// Events returns the current display order, newest first. The returned slice
// is owned by the list; callers must not mutate it.
func (l *EventList) Events() []store.Event { return l.events }

// Len returns the number of events held.
func (l *EventList) Len() int { return len(l.events) }
