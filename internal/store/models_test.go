package store

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventDecodeFullRow(t *testing.T) {
	raw := `{
		"id": 42,
		"session_id": "sess-1",
		"event_type": "pipeline",
		"timestamp": "2024-01-01T00:05:00+00:00",
		"latitude": 64.1466,
		"longitude": -21.9426,
		"speed": 5.5,
		"heading": 180,
		"candidates": [
			{"id": "c-1", "title": "Harbor Walk", "score": 0.91, "distance": 120,
			 "source": "supabase_pois",
			 "breakdown": {"total": 0.91, "dist": 0.4, "hist": 0.3, "var": 0.1, "heading": 0.11, "notes": ["boosted"]}}
		],
		"winner_id": "c-1",
		"winner_title": "Harbor Walk",
		"winner_score": 0.91,
		"feedback": null,
		"payload": {"poi_count": 12, "prompt_persona": "poet", "user_history_tags": ["sea", "night"]}
	}`

	var ev Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ev.ID != 42 {
		t.Errorf("ID = %d, want 42", ev.ID)
	}
	if ev.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", ev.SessionID)
	}
	if ev.EventType != EventTypePipeline {
		t.Errorf("EventType = %q", ev.EventType)
	}
	if len(ev.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(ev.Candidates))
	}
	c := ev.Candidates[0]
	if c.Breakdown == nil || c.Breakdown.Hist != 0.3 {
		t.Errorf("breakdown = %+v", c.Breakdown)
	}
	if len(c.Breakdown.Notes) != 1 || c.Breakdown.Notes[0] != "boosted" {
		t.Errorf("notes = %v", c.Breakdown.Notes)
	}
	if ev.WinnerID == nil || *ev.WinnerID != "c-1" {
		t.Errorf("WinnerID = %v", ev.WinnerID)
	}
	if ev.Feedback != nil {
		t.Errorf("Feedback = %v, want nil", ev.Feedback)
	}
	if ev.Payload == nil || ev.Payload.POICount == nil || *ev.Payload.POICount != 12 {
		t.Errorf("payload = %+v", ev.Payload)
	}
	if len(ev.Payload.UserHistoryTags) != 2 {
		t.Errorf("tags = %v", ev.Payload.UserHistoryTags)
	}
}

func TestEventDecodeMissingOptionals(t *testing.T) {
	raw := `{"id": 7, "session_id": "sess-2", "event_type": "context_update",
		"timestamp": "2024-01-01T00:00:00Z"}`

	var ev Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if ev.Latitude != nil || ev.WinnerID != nil || ev.Payload != nil {
		t.Errorf("optionals should stay nil: %+v", ev)
	}
	if ev.Candidates != nil {
		t.Errorf("candidates = %v, want nil", ev.Candidates)
	}
}

func TestPayloadUnknownKeysIgnored(t *testing.T) {
	raw := `{"poi_count": 3, "some_future_key": {"deep": true},
		"preprocessing": {"enabled": true, "model": "gemini-flash", "latency_ms": 240}}`

	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.POICount == nil || *p.POICount != 3 {
		t.Errorf("poi_count = %v", p.POICount)
	}
	if p.Preprocessing == nil || !p.Preprocessing.Enabled {
		t.Fatalf("preprocessing = %+v", p.Preprocessing)
	}
	if p.Preprocessing.Model == nil || *p.Preprocessing.Model != "gemini-flash" {
		t.Errorf("model = %v", p.Preprocessing.Model)
	}
	if p.Preprocessing.LatencyMS == nil || *p.Preprocessing.LatencyMS != 240 {
		t.Errorf("latency = %v", p.Preprocessing.LatencyMS)
	}
}

func TestSessionActive(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sess := Session{ID: "s-1", StartedAt: started}
	if !sess.Active() {
		t.Error("session without ended_at should be active")
	}

	ended := started.Add(30 * time.Minute)
	sess.EndedAt = &ended
	if sess.Active() {
		t.Error("ended session should not be active")
	}
}
