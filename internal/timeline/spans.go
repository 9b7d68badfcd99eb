package timeline

import (
	"time"

	"github.com/roompulse/roompulse/internal/ingest"
)

// TimerSpan is one contiguous stretch during which the room's shared timer
// was observed running. SessionType is taken from the first snapshot of the
// run ("work" or "break", as the room reported it).
type TimerSpan struct {
	Start       time.Time
	End         time.Time
	SessionType string
	Open        bool
}

// TimerSpans folds the ordered timer snapshot sequence into running spans.
// A span opens at the first snapshot where the timer is running and closes
// at the first following snapshot where it is not. A span still running at
// the last snapshot closes at now with Open set.
//
// The spans are diagnostic only: attribution uses feed-derived TimerEvents,
// which carry type, duration and actor, while these spans corroborate them
// in the session document.
func TimerSpans(snaps []ingest.TimerSnapshot, now time.Time) []TimerSpan {
	var spans []TimerSpan
	var cur *TimerSpan
	for _, s := range snaps {
		switch {
		case s.TimerRunning && cur == nil:
			spans = append(spans, TimerSpan{Start: s.Timestamp, SessionType: s.SessionType})
			cur = &spans[len(spans)-1]
		case !s.TimerRunning && cur != nil:
			cur.End = s.Timestamp
			cur = nil
		}
	}
	if cur != nil {
		cur.End = now
		cur.Open = true
	}
	return spans
}
