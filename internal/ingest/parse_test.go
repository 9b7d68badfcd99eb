package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestParseActivities(t *testing.T) {
	log := `estimated_time,scrape_time,user,action,time_ago_raw
2026-03-01T10:00:00Z,2026-03-01T10:05:00Z,alice,started a 25 minute work session,5 min ago
2026-03-01T09:00:00Z,2026-03-01T10:05:00Z,bob,joined the room,1 hour ago
`
	recs := ParseActivities(strings.NewReader(log))
	if len(recs) != 2 {
		t.Fatalf("parsed %d records, want 2", len(recs))
	}
	if recs[0].User != "alice" {
		t.Errorf("user: got %q, want alice", recs[0].User)
	}
	if recs[0].Action != "started a 25 minute work session" {
		t.Errorf("action: got %q", recs[0].Action)
	}
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if !recs[0].EstimatedTime.Equal(want) {
		t.Errorf("estimated_time: got %v, want %v", recs[0].EstimatedTime, want)
	}
	if recs[1].RawTimeAgo != "1 hour ago" {
		t.Errorf("time_ago_raw: got %q", recs[1].RawTimeAgo)
	}
}

func TestParseActivities_SkipsMalformedRows(t *testing.T) {
	log := `estimated_time,scrape_time,user,action,time_ago_raw
2026-03-01T10:00:00Z,2026-03-01T10:05:00Z,alice,started a 25 minute work session,5 min ago
not-a-time,2026-03-01T10:05:00Z,bob,joined the room,5 min ago
only,three,columns
2026-03-01T11:00:00Z,2026-03-01T11:05:00Z,carol,took a break,5 min ago
`
	recs := ParseActivities(strings.NewReader(log))
	if len(recs) != 2 {
		t.Fatalf("parsed %d records, want 2 (malformed rows skipped)", len(recs))
	}
	if recs[1].User != "carol" {
		t.Errorf("second surviving record user: got %q, want carol", recs[1].User)
	}
}

func TestParsePresence(t *testing.T) {
	log := `timestamp,user_count,users
2026-03-01T10:00:00Z,2,"alice;bob"
2026-03-01T10:10:00Z,0,""
`
	snaps := ParsePresence(strings.NewReader(log))
	if len(snaps) != 2 {
		t.Fatalf("parsed %d snapshots, want 2", len(snaps))
	}
	if len(snaps[0].Users) != 2 || !snaps[0].Has("alice") || !snaps[0].Has("bob") {
		t.Errorf("first snapshot users: got %v", snaps[0].Users)
	}
	if len(snaps[1].Users) != 0 {
		t.Errorf("empty snapshot users: got %v, want none", snaps[1].Users)
	}
}

func TestParseTimerSnapshots(t *testing.T) {
	log := `timestamp,timer_running,timer_value,session_type
2026-03-01T10:00:00Z,true,24:31,work
2026-03-01T10:10:00Z,false,,
`
	snaps := ParseTimerSnapshots(strings.NewReader(log))
	if len(snaps) != 2 {
		t.Fatalf("parsed %d snapshots, want 2", len(snaps))
	}
	if !snaps[0].TimerRunning || snaps[0].SessionType != "work" {
		t.Errorf("first snapshot: got %+v", snaps[0])
	}
	if snaps[1].TimerRunning {
		t.Error("second snapshot should not be running")
	}
}

func TestReadActivities_MissingFile(t *testing.T) {
	recs, err := ReadActivities("/nonexistent/activities.log")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("missing file: got %d records, want 0", len(recs))
	}
}
