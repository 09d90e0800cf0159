package app

import (
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/feed"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

// Messages for the sessions overview.

// SessionsLoadedMsg carries the sessions snapshot plus its per-session event
// counts and the aggregate stats, fetched together.
type SessionsLoadedMsg struct {
	Sessions []store.Session
	Counts   map[string]int
	Stats    store.Stats
}

// SessionsErrorMsg is sent when any part of the sessions snapshot fails.
// The view falls back to an empty list; partial data is never shown as
// complete.
type SessionsErrorMsg struct {
	Err error
}

// Messages for the live feed view. Gen identifies the mount that issued the
// request; a message whose Gen is stale is discarded without touching state.

// FeedEventsMsg carries the feed snapshot.
type FeedEventsMsg struct {
	Gen    int
	Events []store.Event
}

// FeedErrorMsg is sent when the feed snapshot fetch fails.
type FeedErrorMsg struct {
	Gen int
	Err error
}

// FeedSubscribedMsg carries a newly opened global feed subscription.
type FeedSubscribedMsg struct {
	Gen int
	Sub *feed.Subscription
}

// FeedSubscribeErrorMsg is sent when opening the feed subscription fails;
// the view keeps working from snapshot data only.
type FeedSubscribeErrorMsg struct {
	Gen int
	Err error
}

// FeedInsertMsg carries one live-delivered event for the global feed.
type FeedInsertMsg struct {
	Gen   int
	Event store.Event
}

// FeedReadErrorMsg is sent when the live feed stream breaks.
type FeedReadErrorMsg struct {
	Gen int
	Err error
}

// Messages for the session detail view.

// DetailLoadedMsg carries the detail snapshot. Session is nil when the
// session id is unknown to the store.
type DetailLoadedMsg struct {
	Gen     int
	Session *store.Session
	Events  []store.Event
}

// DetailErrorMsg is sent when the detail snapshot fetch fails.
type DetailErrorMsg struct {
	Gen int
	Err error
}

// DetailSubscribedMsg carries the per-session subscription, opened only
// while the session is still active.
type DetailSubscribedMsg struct {
	Gen int
	Sub *feed.Subscription
}

// DetailSubscribeErrorMsg is sent when the per-session subscription fails.
type DetailSubscribeErrorMsg struct {
	Gen int
	Err error
}

// DetailInsertMsg carries one live-delivered event for the open session.
type DetailInsertMsg struct {
	Gen   int
	Event store.Event
}

// DetailReadErrorMsg is sent when the per-session stream breaks.
type DetailReadErrorMsg struct {
	Gen int
	Err error
}
