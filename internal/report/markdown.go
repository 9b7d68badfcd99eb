package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/roompulse/roompulse/internal/engage"
)

// Markdown renders the ranked leaderboard as a markdown table. It reads only
// the leaderboard document, never the engine's intermediate state, so it can
// be regenerated later from the persisted JSON alone.
func Markdown(room string, lb *engage.Leaderboard) string {
	var b strings.Builder

	title := "Room Leaderboard"
	if room != "" {
		title = fmt.Sprintf("%s — Leaderboard", room)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated %s — %d users, %d pomodoros, %s of tracked work.\n\n",
		lb.GeneratedAt.Format(time.RFC3339), lb.TotalUsers, lb.TotalPomodoros,
		FormatMinutes(lb.TotalWorkMinutes))
	if len(lb.CurrentlyPresent) > 0 {
		fmt.Fprintf(&b, "In the room now: %s\n\n", strings.Join(lb.CurrentlyPresent, ", "))
	}

	b.WriteString("| # | User | Presence | Work | Pomodoros | Breaks | Avg pomodoro |\n")
	b.WriteString("|---|------|----------|------|-----------|--------|--------------|\n")
	for i, u := range lb.Users {
		name := u.User
		if u.CurrentlyPresent {
			name += " *"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %d | %s |\n",
			i+1, name,
			FormatMinutes(u.PresenceMinutes),
			FormatMinutes(u.WorkMinutes),
			u.Pomodoros, u.Breaks,
			FormatMinutes(u.AvgPomodoroMinutes))
	}
	if len(lb.CurrentlyPresent) > 0 {
		b.WriteString("\n`*` currently in the room\n")
	}
	return b.String()
}

// WriteMarkdown renders the leaderboard and writes it to path atomically.
func WriteMarkdown(path, room string, lb *engage.Leaderboard) error {
	return writeAtomic(path, []byte(Markdown(room, lb)))
}

// FormatMinutes formats a minute total as "3h 25m", "45m" or "0m".
func FormatMinutes(minutes float64) string {
	total := int(minutes + 0.5)
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
