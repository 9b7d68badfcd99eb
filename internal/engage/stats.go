package engage

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roompulse/roompulse/internal/classify"
	"github.com/roompulse/roompulse/internal/ingest"
	"github.com/roompulse/roompulse/internal/timeline"
)

// UserStats is the aggregated engagement record for one user.
// Minute fields are rounded to a tenth of a minute — the sources are only
// minute-precise, finer output would be noise.
type UserStats struct {
	User               string    `json:"user"`
	PresenceMinutes    float64   `json:"presence_minutes"`
	WorkMinutes        float64   `json:"work_minutes"`
	BreakMinutes       float64   `json:"break_minutes"`
	Pomodoros          int       `json:"pomodoros"`
	Breaks             int       `json:"breaks"`
	AvgPomodoroMinutes float64   `json:"avg_pomodoro_minutes"`
	AvgBreakMinutes    float64   `json:"avg_break_minutes"`
	FirstSeen          time.Time `json:"first_seen"`
	LastSeen           time.Time `json:"last_seen"`
	CurrentlyPresent   bool      `json:"currently_present"`
}

// Leaderboard is the final ranked output of one engine run. GeneratedAt and
// RunID are the only fields allowed to differ between two runs over an
// unchanged log; everything else must be byte-identical.
type Leaderboard struct {
	GeneratedAt      time.Time   `json:"generated_at"`
	RunID            string      `json:"run_id"`
	CurrentlyPresent []string    `json:"currently_present"`
	TotalUsers       int         `json:"total_users"`
	TotalPomodoros   int         `json:"total_pomodoros"`
	TotalWorkMinutes float64     `json:"total_work_minutes"`
	Users            []UserStats `json:"users"`
}

// BuildLeaderboard folds presence windows and timer events into ranked
// per-user statistics.
//
// Ranking is descending by presence minutes; ties keep encounter order, with
// encounter order fixed as (first seen, name) ascending so reruns are
// deterministic. The currently-present flag comes from the latest presence
// snapshot rather than window state — the snapshot is the most precise
// signal available for "right now". latest may be nil when the presence log
// is empty.
func BuildLeaderboard(windows timeline.Windows, events []classify.TimerEvent, latest *ingest.PresenceSnapshot, now time.Time) *Leaderboard {
	lb := &Leaderboard{
		GeneratedAt: now,
		RunID:       uuid.NewString(),
	}

	for _, user := range windows.Users() {
		lb.Users = append(lb.Users, buildUserStats(user, windows[user], events))
	}

	// Encounter order before the ranking sort: first seen, then name.
	sort.SliceStable(lb.Users, func(i, j int) bool {
		a, b := lb.Users[i], lb.Users[j]
		if !a.FirstSeen.Equal(b.FirstSeen) {
			return a.FirstSeen.Before(b.FirstSeen)
		}
		return a.User < b.User
	})
	sort.SliceStable(lb.Users, func(i, j int) bool {
		return lb.Users[i].PresenceMinutes > lb.Users[j].PresenceMinutes
	})

	if latest != nil {
		present := append([]string(nil), latest.Users...)
		sort.Strings(present)
		lb.CurrentlyPresent = present
		for i := range lb.Users {
			lb.Users[i].CurrentlyPresent = latest.Has(lb.Users[i].User)
		}
	}

	lb.TotalUsers = len(lb.Users)
	for _, ev := range events {
		if ev.Type == classify.TimerWork {
			lb.TotalPomodoros++
		}
	}
	for _, u := range lb.Users {
		lb.TotalWorkMinutes += u.WorkMinutes
	}
	lb.TotalWorkMinutes = roundMinutes(lb.TotalWorkMinutes)

	return lb
}

func buildUserStats(user string, wins []timeline.Window, events []classify.TimerEvent) UserStats {
	st := UserStats{User: user}

	var presence time.Duration
	for _, w := range wins {
		presence += w.Duration()
	}
	st.PresenceMinutes = roundMinutes(presence.Minutes())

	if len(wins) > 0 {
		st.FirstSeen = wins[0].JoinTime
		st.LastSeen = wins[len(wins)-1].LeaveTime
	}

	var workMinutes, breakMinutes float64
	for _, ev := range events {
		eligible := EligibleForTimer(wins, ev.StartTime)
		overlap := OverlapMinutes(wins, ev.StartTime, ev.EndTime)
		switch ev.Type {
		case classify.TimerWork:
			if eligible {
				st.Pomodoros++
			}
			workMinutes += overlap
		case classify.TimerBreak:
			if eligible {
				st.Breaks++
			}
			breakMinutes += overlap
		}
	}
	st.WorkMinutes = roundMinutes(workMinutes)
	st.BreakMinutes = roundMinutes(breakMinutes)
	if st.Pomodoros > 0 {
		st.AvgPomodoroMinutes = roundMinutes(st.WorkMinutes / float64(st.Pomodoros))
	}
	if st.Breaks > 0 {
		st.AvgBreakMinutes = roundMinutes(st.BreakMinutes / float64(st.Breaks))
	}
	return st
}

// roundMinutes rounds to a tenth of a minute.
func roundMinutes(m float64) float64 {
	return math.Round(m*10) / 10
}
