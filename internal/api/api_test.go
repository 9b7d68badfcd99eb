package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/roompulse/roompulse/internal/api"
	"github.com/roompulse/roompulse/internal/engage"
	"github.com/roompulse/roompulse/internal/pipeline"
	"github.com/roompulse/roompulse/internal/store"
)

// --- test helpers -----------------------------------------------------------

func newStore(results ...*pipeline.Result) *store.Store {
	st := store.New(10)
	for _, r := range results {
		st.Put(r)
	}
	return st
}

func result(runID string, users ...engage.UserStats) *pipeline.Result {
	present := []string{}
	for _, u := range users {
		if u.CurrentlyPresent {
			present = append(present, u.User)
		}
	}
	return &pipeline.Result{
		Leaderboard: &engage.Leaderboard{
			RunID:            runID,
			CurrentlyPresent: present,
			TotalUsers:       len(users),
			TotalPomodoros:   3,
			TotalWorkMinutes: 75,
			Users:            users,
		},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- endpoints --------------------------------------------------------------

func TestHealth(t *testing.T) {
	st := newStore(result("r1",
		engage.UserStats{User: "alice", CurrentlyPresent: true},
	))
	h := api.New(st, "deep-focus")

	rr := get(t, h, "/api/v1/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" || resp.Runs != 1 || resp.TrackedUsers != 1 {
		t.Errorf("health: got %+v", resp)
	}
	if resp.Room != "deep-focus" {
		t.Errorf("room: got %q", resp.Room)
	}
}

func TestLeaderboard(t *testing.T) {
	st := newStore(result("r1",
		engage.UserStats{User: "alice", PresenceMinutes: 120},
		engage.UserStats{User: "bob", PresenceMinutes: 60},
	))
	h := api.New(st, "")

	rr := get(t, h, "/api/v1/leaderboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp api.LeaderboardResponse
	decode(t, rr, &resp)
	if resp.Leaderboard.RunID != "r1" || len(resp.Leaderboard.Users) != 2 {
		t.Errorf("leaderboard: got %+v", resp.Leaderboard)
	}
}

func TestLeaderboard_NoRunYet(t *testing.T) {
	h := api.New(newStore(), "")
	rr := get(t, h, "/api/v1/leaderboard")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 before the first run", rr.Code)
	}
}

func TestUser(t *testing.T) {
	st := newStore(result("r1",
		engage.UserStats{User: "alice", Pomodoros: 4},
	))
	h := api.New(st, "")

	rr := get(t, h, "/api/v1/users/alice")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp api.UserResponse
	decode(t, rr, &resp)
	if resp.User.User != "alice" || resp.User.Pomodoros != 4 {
		t.Errorf("user: got %+v", resp.User)
	}

	if rr := get(t, h, "/api/v1/users/nobody"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", rr.Code)
	}
}

func TestHistory(t *testing.T) {
	st := newStore(result("r1"), result("r2"))
	h := api.New(st, "")

	rr := get(t, h, "/api/v1/history")
	var entries []api.HistoryEntry
	decode(t, rr, &entries)
	if len(entries) != 2 {
		t.Fatalf("history: got %d entries, want 2", len(entries))
	}
	if entries[0].RunID != "r1" || entries[1].RunID != "r2" {
		t.Errorf("history order: got %q then %q", entries[0].RunID, entries[1].RunID)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := api.New(newStore(), "")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/leaderboard", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rr.Code)
	}
}

func TestMetrics(t *testing.T) {
	st := newStore(result("r1",
		engage.UserStats{User: "alice", CurrentlyPresent: true},
		engage.UserStats{User: "bob"},
	))
	h := api.New(st, "")

	rr := get(t, h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"roompulse_runs 1",
		"roompulse_tracked_users 2",
		"roompulse_present_users 1",
		"roompulse_pomodoros_total 3",
		"roompulse_work_minutes_total 75",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q:\n%s", want, body)
		}
	}
}
