// Package feed provides the realtime change-feed client. Each subscription
// owns a dedicated Postgres connection LISTENing on a notification channel;
// an insert trigger on the store side publishes each new row as
// {"table": "...", "row": {...}}.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Insert is one newly committed row delivered by the feed.
type Insert struct {
	Table string          `json:"table"`
	Row   json.RawMessage `json:"row"`
}

// Filter restricts a subscription to rows whose Column equals Value.
type Filter struct {
	Column string
	Value  string
}

// State tracks the subscription lifecycle. Once Unsubscribed after being
// Active, a subscription is never reused.
type State int

const (
	StateUnsubscribed State = iota
	StateSubscribing
	StateActive
)

// Feed creates change-feed subscriptions against the backing store. It holds
// no connection itself; Subscribe dials one per subscription so concurrently
// open views never share a delivery channel.
type Feed struct {
	connString string
}

// New returns a Feed for the given connection string.
func New(connString string) *Feed {
	return &Feed{connString: connString}
}

// Subscription is a live change-feed channel for one table.
//
// The dedicated pgx.Conn is not safe for concurrent use, so Unsubscribe
// never touches it while a Read is blocked in WaitForNotification. Teardown
// cancels the subscription's lifetime context instead; the blocked Read
// observes the cancellation, returns, and closes the connection itself.
// Only when no read is in flight does Unsubscribe close the connection
// directly.
type Subscription struct {
	channel string
	table   string
	filter  *Filter

	lifetime context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	state   State
	conn    *pgx.Conn
	reading bool
	closed  bool
}

// Subscribe opens a dedicated connection and starts listening on channel for
// inserts into table. filter may be nil.
func (f *Feed) Subscribe(ctx context.Context, channel, table string, filter *Filter) (*Subscription, error) {
	lifetime, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		channel:  channel,
		table:    table,
		filter:   filter,
		lifetime: lifetime,
		cancel:   cancel,
		state:    StateSubscribing,
	}

	conn, err := pgx.Connect(ctx, f.connString)
	if err != nil {
		cancel()
		sub.state = StateUnsubscribed
		return nil, fmt.Errorf("connect feed: %w", err)
	}
	if _, err := conn.Exec(ctx, "listen "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Close(ctx)
		cancel()
		sub.state = StateUnsubscribed
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	sub.conn = conn
	sub.state = StateActive
	return sub, nil
}

// State returns the current lifecycle state.
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Read blocks until the next insert matching the subscription's table and
// filter arrives, in commit order. Notifications for other tables, rows
// failing the filter, and malformed payloads are skipped. Returns an error
// once the subscription is unsubscribed or the connection drops.
func (s *Subscription) Read(ctx context.Context) (Insert, error) {
	s.mu.Lock()
	if s.state != StateActive || s.conn == nil {
		s.mu.Unlock()
		return Insert{}, fmt.Errorf("subscription closed")
	}
	conn := s.conn
	s.reading = true
	s.mu.Unlock()
	defer s.finishRead(conn)

	// Unsubscribe cancels the lifetime context rather than closing the
	// connection out from under this goroutine.
	waitCtx, cancelWait := context.WithCancel(ctx)
	defer cancelWait()
	stop := context.AfterFunc(s.lifetime, cancelWait)
	defer stop()

	for {
		n, err := conn.WaitForNotification(waitCtx)
		if err != nil {
			if s.lifetime.Err() != nil {
				return Insert{}, fmt.Errorf("subscription closed")
			}
			return Insert{}, fmt.Errorf("wait notification: %w", err)
		}
		if n.Channel != s.channel {
			continue
		}
		if ins, ok := s.match([]byte(n.Payload)); ok {
			return ins, nil
		}
	}
}

// finishRead clears the in-flight marker and performs the connection close
// that Unsubscribe deferred to the reading goroutine.
func (s *Subscription) finishRead(conn *pgx.Conn) {
	s.mu.Lock()
	s.reading = false
	needClose := s.state == StateUnsubscribed && !s.closed
	if needClose {
		s.closed = true
	}
	s.mu.Unlock()
	if needClose {
		conn.Close(context.Background())
	}
}

// match decodes a notification payload and applies the table and filter
// predicates.
func (s *Subscription) match(payload []byte) (Insert, bool) {
	var ins Insert
	if err := json.Unmarshal(payload, &ins); err != nil {
		return Insert{}, false
	}
	if ins.Table != s.table || len(ins.Row) == 0 {
		return Insert{}, false
	}
	if s.filter != nil {
		var row map[string]any
		if err := json.Unmarshal(ins.Row, &row); err != nil {
			return Insert{}, false
		}
		v, ok := row[s.filter.Column].(string)
		if !ok || v != s.filter.Value {
			return Insert{}, false
		}
	}
	return ins, true
}

// Unsubscribe stops delivery and releases the connection. Safe to call more
// than once, and safe before any insert was ever delivered. A pending Read
// is unblocked by cancellation and closes the connection on its way out;
// the connection is closed here only when no read is in flight.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateUnsubscribed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateUnsubscribed
	if s.cancel != nil {
		s.cancel()
	}
	conn := s.conn
	deferToReader := conn == nil || s.reading || s.closed
	if !deferToReader {
		s.closed = true
	}
	s.mu.Unlock()

	if deferToReader {
		return nil
	}
	if err := conn.Close(ctx); err != nil {
		return fmt.Errorf("close feed connection: %w", err)
	}
	return nil
}
