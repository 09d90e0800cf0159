package app

import (
	"testing"
	"time"

	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

func makeEvent(id int64, ts time.Time) store.Event {
	return store.Event{ID: id, SessionID: "sess-1", EventType: "pipeline", Timestamp: ts}
}

func TestEventListDeduplicatesByID(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(100)

	l.ReplaceWithSnapshot([]store.Event{
		makeEvent(3, base.Add(3*time.Second)),
		makeEvent(2, base.Add(2*time.Second)),
		makeEvent(1, base.Add(1*time.Second)),
	})

	// The feed re-delivers a row already in the snapshot.
	if l.Insert(makeEvent(2, base.Add(2*time.Second))) {
		t.Error("duplicate id should not insert")
	}
	if l.Len() != 3 {
		t.Errorf("len = %d, want 3", l.Len())
	}

	seen := map[int64]int{}
	for _, ev := range l.Events() {
		seen[ev.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %d appears %d times", id, n)
		}
	}
}

func TestEventListInsertPrepends(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(100)
	l.ReplaceWithSnapshot([]store.Event{makeEvent(1, base)})

	if !l.Insert(makeEvent(2, base.Add(time.Second))) {
		t.Fatal("insert should succeed")
	}
	if l.Events()[0].ID != 2 {
		t.Errorf("newest event should be first, got id %d", l.Events()[0].ID)
	}
}

func TestEventListBoundEvictsOldest(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(100)

	for i := int64(1); i <= 150; i++ {
		l.Insert(makeEvent(i, base.Add(time.Duration(i)*time.Second)))
	}

	if l.Len() != 100 {
		t.Fatalf("len = %d, want 100", l.Len())
	}
	// The survivors are exactly ids 51..150, newest first.
	events := l.Events()
	if events[0].ID != 150 {
		t.Errorf("first id = %d, want 150", events[0].ID)
	}
	if events[99].ID != 51 {
		t.Errorf("last id = %d, want 51", events[99].ID)
	}

	// Evicted ids may be re-inserted later; they are no longer tracked.
	if !l.Insert(makeEvent(1, base.Add(time.Second))) {
		t.Error("evicted id should be insertable again")
	}
}

func TestEventListSnapshotSortsDescending(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(100)

	l.ReplaceWithSnapshot([]store.Event{
		makeEvent(1, base.Add(1*time.Second)),
		makeEvent(3, base.Add(3*time.Second)),
		makeEvent(2, base.Add(2*time.Second)),
	})

	events := l.Events()
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Fatalf("events not newest first: %v", events)
		}
	}
}

func TestEventListSnapshotReplacesWholesale(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(100)

	// Live inserts land before the snapshot resolves.
	l.Insert(makeEvent(10, base.Add(10*time.Second)))
	l.Insert(makeEvent(11, base.Add(11*time.Second)))

	l.ReplaceWithSnapshot([]store.Event{
		makeEvent(11, base.Add(11*time.Second)),
		makeEvent(9, base.Add(9*time.Second)),
	})

	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
	// A feed row also present in the snapshot stays single after both paths.
	if l.Insert(makeEvent(11, base.Add(11*time.Second))) {
		t.Error("snapshot row should be tracked as seen")
	}
}

func TestEventListUnbounded(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(0)

	for i := int64(1); i <= 500; i++ {
		l.Insert(makeEvent(i, base.Add(time.Duration(i)*time.Second)))
	}
	if l.Len() != 500 {
		t.Errorf("unbounded list len = %d, want 500", l.Len())
	}
}

func TestEventListSnapshotBound(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewEventList(10)

	var snapshot []store.Event
	for i := int64(1); i <= 25; i++ {
		snapshot = append(snapshot, makeEvent(i, base.Add(time.Duration(i)*time.Second)))
	}
	l.ReplaceWithSnapshot(snapshot)

	if l.Len() != 10 {
		t.Fatalf("len = %d, want 10", l.Len())
	}
	if l.Events()[0].ID != 25 {
		t.Errorf("first id = %d, want 25", l.Events()[0].ID)
	}
}
