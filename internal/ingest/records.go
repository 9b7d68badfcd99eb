package ingest

import "time"

// ActivityRecord is one entry from the scraped activity feed.
// EstimatedTime is the best-guess absolute event time derived at scrape time
// from the feed's relative "N min ago" phrasing; RawTimeAgo preserves that
// phrasing so the dedup bucket can track its precision.
type ActivityRecord struct {
	EstimatedTime time.Time
	ScrapeTime    time.Time
	User          string
	Action        string
	RawTimeAgo    string
}

// PresenceSnapshot is one point-in-time sample of room membership.
type PresenceSnapshot struct {
	Timestamp time.Time
	Users     []string
}

// Has reports whether user appears in the snapshot's membership list.
func (s PresenceSnapshot) Has(user string) bool {
	for _, u := range s.Users {
		if u == user {
			return true
		}
	}
	return false
}

// TimerSnapshot is one point-in-time sample of the room's shared timer.
// TimerValue is the countdown display as scraped (e.g. "24:31").
type TimerSnapshot struct {
	Timestamp    time.Time
	TimerRunning bool
	TimerValue   string
	SessionType  string
}
