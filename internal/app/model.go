package app

import (
	"context"
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/feed"
	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

// ViewID identifies which screen is on display.
type ViewID int

const (
	ViewSessions ViewID = iota
	ViewFeed
	ViewDetail
)

const eventsTable = "fox_events"

// Options configure the model at construction.
type Options struct {
	FeedChannel  string
	SessionLimit int
	FeedLimit    int
}

// Model is the root bubbletea model for the observatory TUI. The store and
// feed clients are constructed once at startup and injected; the model never
// creates its own.
type Model struct {
	store *store.Store
	feed  *feed.Feed
	opts  Options

	view ViewID

	// Sessions overview
	sessions        []store.Session
	counts          map[string]int
	stats           store.Stats
	sessionsErr     string
	loadingSessions bool
	selected        int

	// Global live feed. feedGen identifies the current mount of the view;
	// messages carrying an older generation are dropped so a torn-down
	// view's in-flight results never land in a later mount's state.
	feedList    *EventList
	feedSub     *feed.Subscription
	feedGen     int
	feedErr     string
	feedOffline bool
	feedScroll  int
	loadingFeed bool

	// Session detail
	detailID      string
	detail        *store.Session
	detailList    *EventList
	detailSub     *feed.Subscription
	detailGen     int
	detailErr     string
	detailLive    bool
	detailScroll  int
	loadingDetail bool

	width  int
	height int
}

// New creates a Model around an explicitly constructed store and feed client.
func New(st *store.Store, fd *feed.Feed, opts Options) Model {
	return Model{
		store:           st,
		feed:            fd,
		opts:            opts,
		feedList:        NewEventList(opts.FeedLimit),
		detailList:      NewEventList(0),
		loadingSessions: true,
	}
}

// Init starts the sessions snapshot fetch.
func (m Model) Init() tea.Cmd {
	return loadSessionsCmd(m.store, m.opts.SessionLimit)
}

// loadSessionsCmd fetches the sessions snapshot, per-session event counts,
// and aggregate stats together. A failure in any of the three surfaces one
// error; partial data is never presented as complete.
func loadSessionsCmd(st *store.Store, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		sessions, err := st.RecentSessions(ctx, limit)
		if err != nil {
			return SessionsErrorMsg{Err: err}
		}
		counts, err := st.EventCounts(ctx)
		if err != nil {
			return SessionsErrorMsg{Err: err}
		}
		stats, err := st.Stats(ctx)
		if err != nil {
			return SessionsErrorMsg{Err: err}
		}
		return SessionsLoadedMsg{Sessions: sessions, Counts: counts, Stats: stats}
	}
}

func loadFeedCmd(st *store.Store, limit, gen int) tea.Cmd {
	return func() tea.Msg {
		events, err := st.RecentEvents(context.Background(), limit)
		if err != nil {
			return FeedErrorMsg{Gen: gen, Err: err}
		}
		return FeedEventsMsg{Gen: gen, Events: events}
	}
}

func subscribeFeedCmd(fd *feed.Feed, channel string, gen int) tea.Cmd {
	return func() tea.Msg {
		sub, err := fd.Subscribe(context.Background(), channel, eventsTable, nil)
		if err != nil {
			return FeedSubscribeErrorMsg{Gen: gen, Err: err}
		}
		return FeedSubscribedMsg{Gen: gen, Sub: sub}
	}
}

// readFeedCmd reads the next live insert for the global feed. Rows that do
// not decode as events are skipped, never surfaced as failures.
func readFeedCmd(sub *feed.Subscription, gen int) tea.Cmd {
	return func() tea.Msg {
		for {
			ins, err := sub.Read(context.Background())
			if err != nil {
				return FeedReadErrorMsg{Gen: gen, Err: err}
			}
			var ev store.Event
			if err := json.Unmarshal(ins.Row, &ev); err != nil {
				continue
			}
			return FeedInsertMsg{Gen: gen, Event: ev}
		}
	}
}

func loadDetailCmd(st *store.Store, sessionID string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		sess, err := st.SessionByID(ctx, sessionID)
		if err != nil {
			return DetailErrorMsg{Gen: gen, Err: err}
		}
		events, err := st.EventsForSession(ctx, sessionID)
		if err != nil {
			return DetailErrorMsg{Gen: gen, Err: err}
		}
		return DetailLoadedMsg{Gen: gen, Session: sess, Events: events}
	}
}

func subscribeDetailCmd(fd *feed.Feed, channel, sessionID string, gen int) tea.Cmd {
	return func() tea.Msg {
		filter := &feed.Filter{Column: "session_id", Value: sessionID}
		sub, err := fd.Subscribe(context.Background(), channel, eventsTable, filter)
		if err != nil {
			return DetailSubscribeErrorMsg{Gen: gen, Err: err}
		}
		return DetailSubscribedMsg{Gen: gen, Sub: sub}
	}
}

func readDetailCmd(sub *feed.Subscription, gen int) tea.Cmd {
	return func() tea.Msg {
		for {
			ins, err := sub.Read(context.Background())
			if err != nil {
				return DetailReadErrorMsg{Gen: gen, Err: err}
			}
			var ev store.Event
			if err := json.Unmarshal(ins.Row, &ev); err != nil {
				continue
			}
			return DetailInsertMsg{Gen: gen, Event: ev}
		}
	}
}

// unsubscribeCmd tears a subscription down off the update loop.
func unsubscribeCmd(sub *feed.Subscription) tea.Cmd {
	return func() tea.Msg {
		_ = sub.Unsubscribe(context.Background())
		return nil
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SessionsLoadedMsg:
		m.loadingSessions = false
		m.sessions = msg.Sessions
		m.counts = msg.Counts
		m.stats = msg.Stats
		m.sessionsErr = ""
		if m.selected >= len(m.sessions) {
			m.selected = max(0, len(m.sessions)-1)
		}
		return m, nil

	case SessionsErrorMsg:
		m.loadingSessions = false
		m.sessions = nil
		m.counts = nil
		m.stats = store.Stats{}
		m.sessionsErr = msg.Err.Error()
		return m, nil

	case FeedEventsMsg:
		if msg.Gen != m.feedGen {
			return m, nil
		}
		m.loadingFeed = false
		m.feedErr = ""
		m.feedList.ReplaceWithSnapshot(msg.Events)
		return m, nil

	case FeedErrorMsg:
		if msg.Gen != m.feedGen {
			return m, nil
		}
		m.loadingFeed = false
		m.feedList.ReplaceWithSnapshot(nil)
		m.feedErr = msg.Err.Error()
		return m, nil

	case FeedSubscribedMsg:
		if msg.Gen != m.feedGen {
			// The view that asked for this subscription is gone.
			return m, unsubscribeCmd(msg.Sub)
		}
		m.feedSub = msg.Sub
		m.feedOffline = false
		return m, readFeedCmd(msg.Sub, msg.Gen)

	case FeedSubscribeErrorMsg:
		if msg.Gen != m.feedGen {
			return m, nil
		}
		m.feedOffline = true
		return m, nil

	case FeedInsertMsg:
		if msg.Gen != m.feedGen {
			return m, nil
		}
		m.feedList.Insert(msg.Event)
		return m, readFeedCmd(m.feedSub, m.feedGen)

	case FeedReadErrorMsg:
		if msg.Gen != m.feedGen {
			return m, nil
		}
		m.feedSub = nil
		m.feedOffline = true
		return m, nil

	case DetailLoadedMsg:
		if msg.Gen != m.detailGen {
			return m, nil
		}
		m.loadingDetail = false
		m.detailErr = ""
		m.detail = msg.Session
		m.detailList.ReplaceWithSnapshot(msg.Events)
		// Live subscription is only opened while the session has not
		// ended; an ended session is a static historical record.
		if msg.Session != nil && msg.Session.Active() {
			return m, subscribeDetailCmd(m.feed, m.opts.FeedChannel, msg.Session.ID, msg.Gen)
		}
		return m, nil

	case DetailErrorMsg:
		if msg.Gen != m.detailGen {
			return m, nil
		}
		m.loadingDetail = false
		m.detailList.ReplaceWithSnapshot(nil)
		m.detailErr = msg.Err.Error()
		return m, nil

	case DetailSubscribedMsg:
		if msg.Gen != m.detailGen {
			return m, unsubscribeCmd(msg.Sub)
		}
		m.detailSub = msg.Sub
		m.detailLive = true
		return m, readDetailCmd(msg.Sub, msg.Gen)

	case DetailSubscribeErrorMsg:
		if msg.Gen != m.detailGen {
			return m, nil
		}
		m.detailLive = false
		return m, nil

	case DetailInsertMsg:
		if msg.Gen != m.detailGen {
			return m, nil
		}
		m.detailList.Insert(msg.Event)
		return m, readDetailCmd(m.detailSub, m.detailGen)

	case DetailReadErrorMsg:
		if msg.Gen != m.detailGen {
			return m, nil
		}
		m.detailSub = nil
		m.detailLive = false
		return m, nil
	}

	return m, nil
}

// openFeed mounts the live feed view: snapshot fetch and subscription start
// concurrently; the list merge rule tolerates either resolution order.
func (m *Model) openFeed() tea.Cmd {
	m.feedGen++
	m.feedList = NewEventList(m.opts.FeedLimit)
	m.feedErr = ""
	m.feedOffline = false
	m.feedScroll = 0
	m.loadingFeed = true
	return tea.Batch(
		loadFeedCmd(m.store, m.opts.FeedLimit, m.feedGen),
		subscribeFeedCmd(m.feed, m.opts.FeedChannel, m.feedGen),
	)
}

// closeFeed tears the feed view down. Bumping the generation makes any
// in-flight result for the old mount a no-op.
func (m *Model) closeFeed() tea.Cmd {
	m.feedGen++
	m.loadingFeed = false
	if m.feedSub == nil {
		return nil
	}
	sub := m.feedSub
	m.feedSub = nil
	return unsubscribeCmd(sub)
}

func (m *Model) openDetail(sessionID string) tea.Cmd {
	m.detailGen++
	m.detailID = sessionID
	m.detail = nil
	m.detailList = NewEventList(0)
	m.detailErr = ""
	m.detailLive = false
	m.detailScroll = 0
	m.loadingDetail = true
	return loadDetailCmd(m.store, sessionID, m.detailGen)
}

func (m *Model) closeDetail() tea.Cmd {
	m.detailGen++
	m.loadingDetail = false
	m.detailLive = false
	if m.detailSub == nil {
		return nil
	}
	sub := m.detailSub
	m.detailSub = nil
	return unsubscribeCmd(sub)
}

func (m *Model) leaveCurrent() tea.Cmd {
	switch m.view {
	case ViewFeed:
		return m.closeFeed()
	case ViewDetail:
		return m.closeDetail()
	}
	return nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		var cmds []tea.Cmd
		if c := m.closeFeed(); c != nil {
			cmds = append(cmds, c)
		}
		if c := m.closeDetail(); c != nil {
			cmds = append(cmds, c)
		}
		cmds = append(cmds, tea.Quit)
		return m, tea.Sequence(cmds...)

	case KeySessions:
		if m.view == ViewSessions {
			return m, nil
		}
		cmd := m.leaveCurrent()
		m.view = ViewSessions
		m.loadingSessions = true
		return m, tea.Batch(cmd, loadSessionsCmd(m.store, m.opts.SessionLimit))

	case KeyFeed:
		if m.view == ViewFeed {
			return m, nil
		}
		cmd := m.leaveCurrent()
		m.view = ViewFeed
		return m, tea.Batch(cmd, m.openFeed())

	case KeyTab:
		switch m.view {
		case ViewSessions:
			m.view = ViewFeed
			return m, m.openFeed()
		case ViewFeed:
			cmd := m.closeFeed()
			m.view = ViewSessions
			m.loadingSessions = true
			return m, tea.Batch(cmd, loadSessionsCmd(m.store, m.opts.SessionLimit))
		}
		return m, nil

	case KeyBack:
		if m.view == ViewDetail {
			cmd := m.closeDetail()
			m.view = ViewSessions
			return m, cmd
		}
		return m, nil

	case KeyRefresh:
		// Refresh is manual-only; there is no polling timer anywhere.
		switch m.view {
		case ViewSessions:
			m.loadingSessions = true
			return m, loadSessionsCmd(m.store, m.opts.SessionLimit)
		case ViewFeed:
			m.loadingFeed = true
			cmds := []tea.Cmd{loadFeedCmd(m.store, m.opts.FeedLimit, m.feedGen)}
			if m.feedSub == nil {
				// Explicit action may also retry a dead subscription.
				cmds = append(cmds, subscribeFeedCmd(m.feed, m.opts.FeedChannel, m.feedGen))
			}
			return m, tea.Batch(cmds...)
		case ViewDetail:
			unsub := m.closeDetail()
			return m, tea.Batch(unsub, m.openDetail(m.detailID))
		}
		return m, nil

	case KeyUp, KeyK:
		switch m.view {
		case ViewSessions:
			if m.selected > 0 {
				m.selected--
			}
		case ViewFeed:
			if m.feedScroll > 0 {
				m.feedScroll--
			}
		case ViewDetail:
			if m.detailScroll > 0 {
				m.detailScroll--
			}
		}
		return m, nil

	case KeyDown, KeyJ:
		switch m.view {
		case ViewSessions:
			if m.selected < len(m.sessions)-1 {
				m.selected++
			}
		case ViewFeed:
			if m.feedScroll < max(0, m.feedList.Len()-1) {
				m.feedScroll++
			}
		case ViewDetail:
			if m.detailScroll < max(0, m.detailList.Len()-1) {
				m.detailScroll++
			}
		}
		return m, nil

	case KeyEnter:
		if m.view == ViewSessions && m.selected < len(m.sessions) {
			id := m.sessions[m.selected].ID
			m.view = ViewDetail
			return m, m.openDetail(id)
		}
		return m, nil
	}

	return m, nil
}
