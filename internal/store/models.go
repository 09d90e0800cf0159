// Package store provides read-only Postgres access to the observatory
// database. The mobile app writes fox_sessions and fox_events; this side
// only ever queries them.
package store

import "time"

// Session represents one recording period from one device.
type Session struct {
	ID         string         `json:"id"`
	DeviceID   string         `json:"device_id"`
	DeviceName *string        `json:"device_name"`
	AppVersion *string        `json:"app_version"`
	StartedAt  time.Time      `json:"started_at"`
	EndedAt    *time.Time     `json:"ended_at"`
	Settings   map[string]any `json:"settings"`
}

// Active reports whether the session has not yet ended.
func (s Session) Active() bool { return s.EndedAt == nil }

// Event types recorded by the app.
const (
	EventTypePipeline        = "pipeline"
	EventTypeContextUpdate   = "context_update"
	EventTypeContentSelected = "content_selected"
	EventTypeUserFeedback    = "user_feedback"
	EventTypeError           = "error"
)

// Event is one timestamped record of pipeline activity, feedback, or error
// within a session. Append-only; rows are never updated once written.
type Event struct {
	ID          int64       `json:"id"`
	SessionID   string      `json:"session_id"`
	EventType   string      `json:"event_type"`
	Timestamp   time.Time   `json:"timestamp"`
	Latitude    *float64    `json:"latitude"`
	Longitude   *float64    `json:"longitude"`
	Speed       *float64    `json:"speed"`
	Heading     *float64    `json:"heading"`
	Candidates  []Candidate `json:"candidates"`
	WinnerID    *string     `json:"winner_id"`
	WinnerTitle *string     `json:"winner_title"`
	WinnerScore *float64    `json:"winner_score"`
	Feedback    *string     `json:"feedback"`
	Payload     *Payload    `json:"payload"`
}

// Candidate is one scored content option considered during a pipeline run.
// List order is author-assigned and not guaranteed sorted by score.
type Candidate struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Score        float64    `json:"score"`
	Distance     float64    `json:"distance"`
	Type         *string    `json:"type,omitempty"`
	Source       *string    `json:"source,omitempty"`
	ProsePreview *string    `json:"prose_preview,omitempty"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
}

// Breakdown holds the stored per-component sub-scores for a candidate.
type Breakdown struct {
	Total   float64  `json:"total"`
	Dist    float64  `json:"dist"`
	Hist    float64  `json:"hist"`
	Var     float64  `json:"var"`
	Heading float64  `json:"heading"`
	Notes   []string `json:"notes"`
}

// Payload carries per-event-type diagnostics. Known keys are typed; anything
// the producer adds beyond them lands in RawData and passes through for
// display untouched.
type Payload struct {
	POICount             *int           `json:"poi_count,omitempty"`
	CandidateCount       *int           `json:"candidate_count,omitempty"`
	GeminiPayloadPreview *string        `json:"gemini_payload_preview,omitempty"`
	PromptPersona        *string        `json:"prompt_persona,omitempty"`
	PromptLyricism       *float64       `json:"prompt_lyricism,omitempty"`
	UserHistoryTags      []string       `json:"user_history_tags,omitempty"`
	Preprocessing        *Preprocessing `json:"preprocessing,omitempty"`
	RawData              map[string]any `json:"raw_data,omitempty"`
}

// Preprocessing describes the prose-synthesis step, when it ran.
type Preprocessing struct {
	Enabled          bool    `json:"enabled"`
	Model            *string `json:"model,omitempty"`
	OriginalProse    *string `json:"original_prose,omitempty"`
	SynthesizedProse *string `json:"synthesized_prose,omitempty"`
	LatencyMS        *int    `json:"latency_ms,omitempty"`
}

// Stats aggregates the counters shown on the sessions overview.
type Stats struct {
	TotalSessions  int
	ActiveSessions int
	TotalEvents    int
}
