package classify

import (
	"sort"
	"time"

	"github.com/roompulse/roompulse/internal/ingest"
)

// TimerType distinguishes work timers from break timers.
type TimerType string

const (
	TimerWork  TimerType = "work"
	TimerBreak TimerType = "break"
)

// TimerEvent is a detected work or break timer start mined from the feed.
// EndTime is always StartTime + Duration; the room timer runs to completion
// from the room's point of view even when everyone leaves.
type TimerEvent struct {
	StartTime time.Time
	EndTime   time.Time
	Type      TimerType
	Duration  time.Duration
	StartedBy string
}

// ExtractTimerEvents classifies every activity record and returns the timer
// starts, sorted by start time ascending. Records from reserved system actors
// and text matching no start phrasing are skipped silently.
func ExtractTimerEvents(records []ingest.ActivityRecord) []TimerEvent {
	var events []TimerEvent
	for _, rec := range records {
		if ReservedActor(rec.User) {
			continue
		}
		c := Classify(rec.Action)
		var typ TimerType
		switch c.Kind {
		case KindWorkStart:
			typ = TimerWork
		case KindBreakStart:
			typ = TimerBreak
		default:
			continue
		}
		if c.Duration <= 0 {
			continue
		}
		events = append(events, TimerEvent{
			StartTime: rec.EstimatedTime,
			EndTime:   rec.EstimatedTime.Add(c.Duration),
			Type:      typ,
			Duration:  c.Duration,
			StartedBy: rec.User,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events
}

// JoinTimes mines precise join timestamps from the feed, per user, sorted
// ascending. The presence window builder prefers these over synthesized join
// times because the feed pins the join to a minute while snapshots only bound
// it to an interval.
func JoinTimes(records []ingest.ActivityRecord) map[string][]time.Time {
	joins := make(map[string][]time.Time)
	for _, rec := range records {
		if ReservedActor(rec.User) {
			continue
		}
		if Classify(rec.Action).Kind != KindJoin {
			continue
		}
		joins[rec.User] = append(joins[rec.User], rec.EstimatedTime)
	}
	for user := range joins {
		ts := joins[user]
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	}
	return joins
}
