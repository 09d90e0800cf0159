package view

import (
	"fmt"
	"math"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonorri23/thefoxSwift21jan-observatory/internal/store"
)

func TestBadgeKind(t *testing.T) {
	cases := []struct {
		eventType string
		want      Badge
	}{
		{"pipeline", BadgePipeline},
		{"user_feedback", BadgeFeedback},
		{"error", BadgeError},
		{"context_update", BadgePipeline},
		{"content_selected", BadgePipeline},
		{"something_new", BadgePipeline},
	}
	for _, tc := range cases {
		if got := BadgeKind(tc.eventType); got != tc.want {
			t.Errorf("BadgeKind(%q) = %v, want %v", tc.eventType, got, tc.want)
		}
	}
}

func TestBadgeLabel(t *testing.T) {
	if got := BadgeLabel("pipeline"); got != "Pipeline" {
		t.Errorf("pipeline label = %q", got)
	}
	if got := BadgeLabel("user_feedback"); got != "Feedback" {
		t.Errorf("user_feedback label = %q", got)
	}
	if got := BadgeLabel("context_update"); got != "context update" {
		t.Errorf("context_update label = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := FormatDuration(start, nil); got != "Active" {
		t.Errorf("nil end = %q, want Active", got)
	}

	end := start.Add(59 * time.Second)
	if got := FormatDuration(start, &end); got != "0m" {
		t.Errorf("59s = %q, want 0m", got)
	}

	end = start.Add(5 * time.Minute)
	if got := FormatDuration(start, &end); got != "5m" {
		t.Errorf("5m = %q", got)
	}

	end = start.Add(time.Hour + 5*time.Minute)
	if got := FormatDuration(start, &end); got != "1h 5m" {
		t.Errorf("65m = %q, want 1h 5m", got)
	}
}

func TestCandidatePreview(t *testing.T) {
	var candidates []store.Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, store.Candidate{
			ID:    fmt.Sprintf("c-%d", i),
			Score: float64(i), // deliberately ascending: preview must not re-sort
		})
	}

	shown, more := CandidatePreview(candidates)
	if len(shown) != 8 {
		t.Fatalf("shown = %d, want 8", len(shown))
	}
	if more != 2 {
		t.Errorf("more = %d, want 2", more)
	}
	for i, c := range shown {
		if c.ID != fmt.Sprintf("c-%d", i) {
			t.Errorf("stored order not preserved at %d: %q", i, c.ID)
		}
	}

	shown, more = CandidatePreview(candidates[:3])
	if len(shown) != 3 || more != 0 {
		t.Errorf("short list: shown=%d more=%d", len(shown), more)
	}
}

func TestIsWinner(t *testing.T) {
	winner := "abc"
	ev := store.Event{WinnerID: &winner}

	if !IsWinner(ev, store.Candidate{ID: "abc"}) {
		t.Error("candidate abc should be the winner")
	}
	if IsWinner(ev, store.Candidate{ID: "def"}) {
		t.Error("candidate def should not be the winner")
	}
	if IsWinner(store.Event{}, store.Candidate{ID: "abc"}) {
		t.Error("event without winner_id has no winner")
	}
}

func TestWeightedBreakdown(t *testing.T) {
	b := store.Breakdown{Dist: 1.0, Hist: 2.0, Heading: 3.0}
	dist, hist, heading := WeightedBreakdown(b)
	if math.Abs(dist-0.3) > 1e-9 || math.Abs(hist-1.0) > 1e-9 || math.Abs(heading-0.6) > 1e-9 {
		t.Errorf("weighted = %v %v %v", dist, hist, heading)
	}
}

func TestEventSummary(t *testing.T) {
	title := "Harbor Walk"
	feedback := "like"

	if got := EventSummary(store.Event{WinnerTitle: &title}); got != "Selected: Harbor Walk" {
		t.Errorf("winner summary = %q", got)
	}
	if got := EventSummary(store.Event{Feedback: &feedback}); got != "User Feedback: like" {
		t.Errorf("feedback summary = %q", got)
	}
	if got := EventSummary(store.Event{EventType: "context_update"}); got != "context_update" {
		t.Errorf("fallback summary = %q", got)
	}
}

func TestLocationBadge(t *testing.T) {
	if got := LocationBadge(store.Event{}); got != "" {
		t.Errorf("no location = %q, want empty", got)
	}

	lat, lon := 64.1466, -21.9426
	ev := store.Event{Latitude: &lat, Longitude: &lon}
	if got := LocationBadge(ev); got != "64.1466, -21.9426" {
		t.Errorf("location = %q", got)
	}

	speed := 10.0 // m/s -> 36 km/h
	ev.Speed = &speed
	if got := LocationBadge(ev); got != "64.1466, -21.9426 • 36 km/h" {
		t.Errorf("location with speed = %q", got)
	}
}

func TestSessionTitle(t *testing.T) {
	name := "iPhone 15"
	if got := SessionTitle(store.Session{DeviceName: &name}); got != "iPhone 15" {
		t.Errorf("title = %q", got)
	}
	if got := SessionTitle(store.Session{}); got != "Unknown Device" {
		t.Errorf("fallback title = %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := StringOrDash(nil); got != Placeholder {
		t.Errorf("StringOrDash(nil) = %q", got)
	}
	if got := FloatOrDash(nil, 3); got != Placeholder {
		t.Errorf("FloatOrDash(nil) = %q", got)
	}
	if got := IntOrDash(nil); got != Placeholder {
		t.Errorf("IntOrDash(nil) = %q", got)
	}

	f := 0.913
	if got := FloatOrDash(&f, 3); got != "0.913" {
		t.Errorf("FloatOrDash = %q", got)
	}
	n := 12
	if got := IntOrDash(&n); got != "12" {
		t.Errorf("IntOrDash = %q", got)
	}
	s := "poet"
	if got := StringOrDash(&s); got != "poet" {
		t.Errorf("StringOrDash = %q", got)
	}
}

func TestSourceLabel(t *testing.T) {
	db := "supabase_pois"
	apple := "apple_maps"
	poiType := "cafe"

	if got := SourceLabel(store.Candidate{Source: &db}); got != "DB" {
		t.Errorf("db label = %q", got)
	}
	if got := SourceLabel(store.Candidate{Source: &apple}); got != "Map" {
		t.Errorf("map label = %q", got)
	}
	if got := SourceLabel(store.Candidate{Type: &poiType}); got != "cafe" {
		t.Errorf("type label = %q", got)
	}
	if got := SourceLabel(store.Candidate{}); got != "?" {
		t.Errorf("unknown label = %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abcdefghijkl"); got != "abcdefgh" {
		t.Errorf("ShortID = %q", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID short = %q", got)
	}
}

func TestTruncateProse(t *testing.T) {
	if got := TruncateProse("short", 80); got != "short" {
		t.Errorf("TruncateProse = %q", got)
	}
	if got := TruncateProse("abcdefgh", 5); got != "abcde…" {
		t.Errorf("TruncateProse = %q", got)
	}

	// Multi-byte prose must be cut on rune boundaries, never mid-rune.
	got := TruncateProse("señor café über straße", 10)
	if !utf8.ValidString(got) {
		t.Errorf("TruncateProse produced invalid UTF-8: %q", got)
	}
	if got != "señor café…" {
		t.Errorf("TruncateProse = %q", got)
	}
}
