package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/roompulse/roompulse/internal/classify"
	"github.com/roompulse/roompulse/internal/engage"
	"github.com/roompulse/roompulse/internal/timeline"
)

// SessionsDoc is the debug document: everything the engine derived on the
// way to the leaderboard, with RFC3339 timestamps. Not consumed downstream.
type SessionsDoc struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Room        string             `json:"room,omitempty"`
	TimerEvents []TimerEventRecord `json:"timer_events"`
	TimerSpans  []TimerSpanRecord  `json:"timer_spans"`
	Users       []UserSessions     `json:"users"`
}

// TimerEventRecord is one feed-derived timer start.
type TimerEventRecord struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Type      string    `json:"type"`
	Minutes   float64   `json:"minutes"`
	StartedBy string    `json:"started_by"`
}

// TimerSpanRecord is one observed shared-timer running span.
type TimerSpanRecord struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	SessionType string    `json:"session_type,omitempty"`
	Open        bool      `json:"open,omitempty"`
}

// UserSessions lists one user's presence windows and raw stats.
type UserSessions struct {
	User    string           `json:"user"`
	Windows []WindowRecord   `json:"windows"`
	Stats   engage.UserStats `json:"stats"`
}

// WindowRecord is one presence window.
type WindowRecord struct {
	Join         time.Time `json:"join"`
	Leave        time.Time `json:"leave"`
	Minutes      float64   `json:"minutes"`
	StillPresent bool      `json:"still_present,omitempty"`
}

// BuildSessionsDoc assembles the debug document from the run's intermediate
// results. Users appear in leaderboard order.
func BuildSessionsDoc(room string, lb *engage.Leaderboard, windows timeline.Windows, events []classify.TimerEvent, spans []timeline.TimerSpan) *SessionsDoc {
	doc := &SessionsDoc{
		GeneratedAt: lb.GeneratedAt,
		Room:        room,
		TimerEvents: make([]TimerEventRecord, 0, len(events)),
		TimerSpans:  make([]TimerSpanRecord, 0, len(spans)),
		Users:       make([]UserSessions, 0, len(lb.Users)),
	}
	for _, ev := range events {
		doc.TimerEvents = append(doc.TimerEvents, TimerEventRecord{
			Start:     ev.StartTime,
			End:       ev.EndTime,
			Type:      string(ev.Type),
			Minutes:   ev.Duration.Minutes(),
			StartedBy: ev.StartedBy,
		})
	}
	for _, sp := range spans {
		doc.TimerSpans = append(doc.TimerSpans, TimerSpanRecord{
			Start:       sp.Start,
			End:         sp.End,
			SessionType: sp.SessionType,
			Open:        sp.Open,
		})
	}
	for _, stats := range lb.Users {
		us := UserSessions{User: stats.User, Stats: stats}
		for _, w := range windows[stats.User] {
			us.Windows = append(us.Windows, WindowRecord{
				Join:         w.JoinTime,
				Leave:        w.LeaveTime,
				Minutes:      w.Duration().Minutes(),
				StillPresent: w.StillPresent,
			})
		}
		doc.Users = append(doc.Users, us)
	}
	return doc
}

// WriteJSON writes v as indented JSON to path, atomically. The parent
// directory is created if needed.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes data to path via a temp file and rename so partial
// writes are never visible.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("report: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("report: rename temp file: %w", err)
	}
	return nil
}
