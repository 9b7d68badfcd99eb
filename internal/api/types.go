package api

import (
	"github.com/roompulse/roompulse/internal/engage"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"`
	Room         string `json:"room,omitempty"`
	Runs         int    `json:"runs"`
	LastRunAt    string `json:"last_run_at,omitempty"` // RFC3339
	TrackedUsers int    `json:"tracked_users"`
}

// LeaderboardResponse is the payload for GET /api/v1/leaderboard — the
// leaderboard document plus the time it was stored.
type LeaderboardResponse struct {
	StoredAt    string             `json:"stored_at"` // RFC3339
	Leaderboard *engage.Leaderboard `json:"leaderboard"`
}

// UserResponse is the payload for GET /api/v1/users/{name}.
type UserResponse struct {
	StoredAt string           `json:"stored_at"` // RFC3339
	User     engage.UserStats `json:"user"`
}

// HistoryEntry is one run in GET /api/v1/history. Only the run-level totals
// are kept per entry; full per-user records live in the current leaderboard.
type HistoryEntry struct {
	StoredAt         string  `json:"stored_at"` // RFC3339
	RunID            string  `json:"run_id"`
	TotalUsers       int     `json:"total_users"`
	TotalPomodoros   int     `json:"total_pomodoros"`
	TotalWorkMinutes float64 `json:"total_work_minutes"`
	PresentNow       int     `json:"present_now"`
}

// ErrorResponse is the JSON body for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
