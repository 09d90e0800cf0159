package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides snapshot queries against the remote observatory database.
// All methods are idempotent reads.
type Store struct {
	pool *pgxpool.Pool
}

// Open creates a connection pool and fails fast if the database is
// unreachable.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close shuts down the connection pool.
func (s *Store) Close() { s.pool.Close() }

const sessionColumns = `id, device_id, device_name, app_version, started_at, ended_at, settings`

const eventColumns = `id, session_id, event_type, timestamp, latitude, longitude, speed, heading,
	candidates, winner_id, winner_title, winner_score, feedback, payload`

// RecentSessions returns the most recent sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM fox_sessions
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SessionByID returns a single session, or nil if no such row exists.
func (s *Store) SessionByID(ctx context.Context, id string) (*Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM fox_sessions
		WHERE id = $1
	`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// RecentEvents returns the most recent events across all sessions, newest
// first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM fox_events
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// EventsForSession returns every event recorded for one session, newest
// first.
func (s *Store) EventsForSession(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM fox_events
		WHERE session_id = $1
		ORDER BY timestamp DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// EventCounts returns the number of events recorded per session.
func (s *Store) EventCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, COUNT(*)
		FROM fox_events
		GROUP BY session_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query event counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var sessionID string
		var count int
		if err := rows.Scan(&sessionID, &count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		counts[sessionID] = count
	}
	return counts, rows.Err()
}

// Stats returns the aggregate counters for the sessions overview.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM fox_sessions),
			(SELECT COUNT(*) FROM fox_sessions WHERE ended_at IS NULL),
			(SELECT COUNT(*) FROM fox_events)
	`).Scan(&st.TotalSessions, &st.ActiveSessions, &st.TotalEvents)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var sess Session
	var settings []byte
	if err := sc.Scan(&sess.ID, &sess.DeviceID, &sess.DeviceName, &sess.AppVersion,
		&sess.StartedAt, &sess.EndedAt, &settings); err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	// Malformed settings degrade to nil and render as absent.
	if len(settings) > 0 {
		_ = json.Unmarshal(settings, &sess.Settings)
	}
	return sess, nil
}

func scanEvent(sc scanner) (Event, error) {
	var ev Event
	var candidates, payload []byte
	if err := sc.Scan(&ev.ID, &ev.SessionID, &ev.EventType, &ev.Timestamp,
		&ev.Latitude, &ev.Longitude, &ev.Speed, &ev.Heading,
		&candidates, &ev.WinnerID, &ev.WinnerTitle, &ev.WinnerScore,
		&ev.Feedback, &payload); err != nil {
		return Event{}, fmt.Errorf("scan event: %w", err)
	}
	if len(candidates) > 0 {
		_ = json.Unmarshal(candidates, &ev.Candidates)
	}
	if len(payload) > 0 {
		var p Payload
		if json.Unmarshal(payload, &p) == nil {
			ev.Payload = &p
		}
	}
	return ev, nil
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
