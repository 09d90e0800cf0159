// Package view maps raw store records into display fields. Every function is
// a pure transform over its input; callers re-derive on each render pass and
// never mutate the source records.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

// Placeholder stands in for any missing optional field.
const Placeholder = "—"

// MaxCandidateRows is how many candidates a pipeline card previews.
const MaxCandidateRows = 8

// Badge classifies an event type for visual grouping.
type Badge int

const (
	BadgePipeline Badge = iota
	BadgeFeedback
	BadgeError
)

// BadgeKind maps an event type to its display badge. Unrecognized types
// group with pipeline; the fallback is deliberate.
func BadgeKind(eventType string) Badge {
	switch eventType {
	case store.EventTypeUserFeedback:
		return BadgeFeedback
	case store.EventTypeError:
		return BadgeError
	default:
		return BadgePipeline
	}
}

// BadgeLabel is the human-readable badge text for an event type.
func BadgeLabel(eventType string) string {
	switch eventType {
	case store.EventTypePipeline:
		return "Pipeline"
	case store.EventTypeUserFeedback:
		return "Feedback"
	case store.EventTypeError:
		return "Error"
	default:
		return strings.ReplaceAll(eventType, "_", " ")
	}
}

// FormatDuration renders a session's span. A session with no end time is
// "Active"; under an hour it is whole minutes, otherwise hours and minutes.
func FormatDuration(start time.Time, end *time.Time) string {
	if end == nil {
		return "Active"
	}
	mins := int(end.Sub(start).Minutes())
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

// FormatClockTime renders a timestamp as local HH:MM:SS.
func FormatClockTime(t time.Time) string {
	return t.Local().Format("15:04:05")
}

// FormatDateTime renders a timestamp for the sessions list.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("Jan 2 15:04")
}

// CandidatePreview returns at most MaxCandidateRows candidates in their
// stored order, plus the count of entries not shown. No re-sorting.
func CandidatePreview(candidates []store.Candidate) ([]store.Candidate, int) {
	if len(candidates) <= MaxCandidateRows {
		return candidates, 0
	}
	return candidates[:MaxCandidateRows], len(candidates) - MaxCandidateRows
}

// IsWinner reports whether a candidate row is the event's selected winner.
func IsWinner(ev store.Event, c store.Candidate) bool {
	return ev.WinnerID != nil && c.ID == *ev.WinnerID
}

// Display weighting applied to stored sub-scores. Cosmetic only; it does not
// reconstruct the upstream scoring formula.
const (
	DistWeight    = 0.3
	HistWeight    = 0.5
	HeadingWeight = 0.2
)

// WeightedBreakdown returns the rescaled sub-scores for display.
func WeightedBreakdown(b store.Breakdown) (dist, hist, heading float64) {
	return b.Dist * DistWeight, b.Hist * HistWeight, b.Heading * HeadingWeight
}

// EventSummary is the one-line description shown per feed row.
func EventSummary(ev store.Event) string {
	switch {
	case ev.WinnerTitle != nil && *ev.WinnerTitle != "":
		return "Selected: " + *ev.WinnerTitle
	case ev.Feedback != nil && *ev.Feedback != "":
		return "User Feedback: " + *ev.Feedback
	default:
		return ev.EventType
	}
}

// LocationBadge renders the event's coordinates with speed in km/h, or ""
// when the event carries no location.
func LocationBadge(ev store.Event) string {
	if ev.Latitude == nil || ev.Longitude == nil {
		return ""
	}
	badge := fmt.Sprintf("%.4f, %.4f", *ev.Latitude, *ev.Longitude)
	if ev.Speed != nil && *ev.Speed > 0 {
		badge += fmt.Sprintf(" • %.0f km/h", *ev.Speed*3.6)
	}
	return badge
}

// SessionTitle is the session's device name, with a fallback for devices
// that never reported one.
func SessionTitle(s store.Session) string {
	if s.DeviceName != nil && *s.DeviceName != "" {
		return *s.DeviceName
	}
	return "Unknown Device"
}

// SourceLabel classifies where a candidate came from.
func SourceLabel(c store.Candidate) string {
	src := ""
	if c.Source != nil {
		src = *c.Source
	}
	switch {
	case strings.Contains(src, "supabase"):
		return "DB"
	case strings.Contains(src, "apple"):
		return "Map"
	case c.Type != nil && *c.Type != "":
		return *c.Type
	default:
		return "?"
	}
}

// ShortID abbreviates an opaque identifier for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// TruncateProse trims preview text to n runes with an ellipsis. Cutting on
// rune boundaries keeps multi-byte prose valid UTF-8.
func TruncateProse(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// StringOrDash renders an optional string, or the placeholder.
func StringOrDash(p *string) string {
	if p == nil || *p == "" {
		return Placeholder
	}
	return *p
}

// FloatOrDash renders an optional float with prec decimals, or the
// placeholder. Missing is never rendered as "0".
func FloatOrDash(p *float64, prec int) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.*f", prec, *p)
}

// IntOrDash renders an optional int, or the placeholder.
func IntOrDash(p *int) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d", *p)
}
