package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/roompulse/roompulse/internal/store"
)

// Handler serves all /api/v1/* endpoints plus /metrics.
// It reads computed runs from the store and returns JSON responses.
type Handler struct {
	store *store.Store
	room  string
	mux   *http.ServeMux
}

// New creates a Handler wired to the given run store and registers all routes.
func New(st *store.Store, room string) http.Handler {
	h := &Handler{store: st, room: room, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/leaderboard", h.leaderboard)
	h.mux.HandleFunc("/api/v1/users/", h.user) // subtree — extracts {name}
	h.mux.HandleFunc("/api/v1/history", h.history)
	h.mux.HandleFunc("/metrics", h.metrics)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — run counts and last-run time.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{Status: "ok", Room: h.room, Runs: h.store.Count()}
	if e, ok := h.store.Current(); ok {
		resp.LastRunAt = e.StoredAt.Format(time.RFC3339)
		resp.TrackedUsers = e.Result.Leaderboard.TotalUsers
	}
	jsonResp(w, http.StatusOK, resp)
}

// leaderboard returns GET /api/v1/leaderboard — the current ranked document.
func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	e, ok := h.store.Current()
	if !ok {
		jsonErr(w, http.StatusServiceUnavailable, "no run computed yet")
		return
	}
	jsonResp(w, http.StatusOK, LeaderboardResponse{
		StoredAt:    e.StoredAt.Format(time.RFC3339),
		Leaderboard: e.Result.Leaderboard,
	})
}

// user returns GET /api/v1/users/{name} — one user's current stats.
func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	if name == "" {
		jsonErr(w, http.StatusNotFound, "user not found")
		return
	}

	e, ok := h.store.Current()
	if !ok {
		jsonErr(w, http.StatusServiceUnavailable, "no run computed yet")
		return
	}
	for _, u := range e.Result.Leaderboard.Users {
		if u.User == name {
			jsonResp(w, http.StatusOK, UserResponse{
				StoredAt: e.StoredAt.Format(time.RFC3339),
				User:     u,
			})
			return
		}
	}
	jsonErr(w, http.StatusNotFound, "user not found")
}

// history returns GET /api/v1/history — run-level totals, oldest first.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := h.store.History()
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		lb := e.Result.Leaderboard
		out = append(out, HistoryEntry{
			StoredAt:         e.StoredAt.Format(time.RFC3339),
			RunID:            lb.RunID,
			TotalUsers:       lb.TotalUsers,
			TotalPomodoros:   lb.TotalPomodoros,
			TotalWorkMinutes: lb.TotalWorkMinutes,
			PresentNow:       len(lb.CurrentlyPresent),
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// --- JSON helpers -----------------------------------------------------------

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response", "err", err)
	}
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, ErrorResponse{Error: msg})
}
