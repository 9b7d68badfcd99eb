package engage

import (
	"time"

	"github.com/roompulse/roompulse/internal/timeline"
)

// joinGrace is how long after a timer starts a joining user is still credited
// with the timer's count. Applies to counts only, never to minute totals.
const joinGrace = 5 * time.Minute

// EligibleForTimer reports whether the user's presence windows credit a timer
// started at start: some window contains the start, or some window's join
// falls within the grace period after it.
func EligibleForTimer(windows []timeline.Window, start time.Time) bool {
	graceEnd := start.Add(joinGrace)
	for _, w := range windows {
		if w.Contains(start) {
			return true
		}
		if !w.JoinTime.Before(start) && !w.JoinTime.After(graceEnd) {
			return true
		}
	}
	return false
}

// Overlap returns the total co-presence between the user's windows and the
// timer interval [start, end]. Windows never overlap each other, so the sum
// never exceeds the timer's duration.
func Overlap(windows []timeline.Window, start, end time.Time) time.Duration {
	var total time.Duration
	for _, w := range windows {
		s := laterOf(w.JoinTime, start)
		e := earlierOf(w.LeaveTime, end)
		if e.After(s) {
			total += e.Sub(s)
		}
	}
	return total
}

// OverlapMinutes is Overlap converted to minutes.
func OverlapMinutes(windows []timeline.Window, start, end time.Time) float64 {
	return Overlap(windows, start, end).Minutes()
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
