// Package pipeline wires the stages together: read the three log tables,
// mine timer events and join times from the feed, fold snapshots into
// presence windows and timer spans, and aggregate everything into the
// leaderboard and sessions documents. One Run is one full batch
// recomputation over the whole log — there is no incremental state.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roompulse/roompulse/internal/classify"
	"github.com/roompulse/roompulse/internal/config"
	"github.com/roompulse/roompulse/internal/engage"
	"github.com/roompulse/roompulse/internal/ingest"
	"github.com/roompulse/roompulse/internal/report"
	"github.com/roompulse/roompulse/internal/timeline"
)

// Result bundles everything one run produced.
type Result struct {
	Leaderboard *engage.Leaderboard
	Sessions    *report.SessionsDoc
}

// Run performs one full recomputation over the configured logs. Missing logs
// are empty tables; the result is always well formed, possibly empty.
//
// now is passed explicitly so callers (and tests) control the clock.
func Run(cfg *config.Config, now time.Time) (*Result, error) {
	activities, err := ingest.ReadActivities(cfg.Logs.ActivitiesPath())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	activities = ingest.Dedup(activities)
	presence, err := ingest.ReadPresence(cfg.Logs.PresencePath())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	timerSnaps, err := ingest.ReadTimerSnapshots(cfg.Logs.SnapshotsPath())
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	events := classify.ExtractTimerEvents(activities)
	joins := classify.JoinTimes(activities)
	windows := timeline.Build(presence, joins, now)
	spans := timeline.TimerSpans(timerSnaps, now)

	var latest *ingest.PresenceSnapshot
	if len(presence) > 0 {
		latest = &presence[len(presence)-1]
	}

	lb := engage.BuildLeaderboard(windows, events, latest, now)
	sessions := report.BuildSessionsDoc(cfg.Room.Name, lb, windows, events, spans)

	slog.Info("pipeline: run complete",
		"activities", len(activities),
		"presence_snapshots", len(presence),
		"timer_events", len(events),
		"users", lb.TotalUsers,
		"pomodoros", lb.TotalPomodoros,
	)
	return &Result{Leaderboard: lb, Sessions: sessions}, nil
}

// WriteDocuments writes the leaderboard, sessions and markdown documents for
// res to the configured output paths, replacing prior content wholesale.
func WriteDocuments(cfg *config.Config, res *Result) error {
	if err := report.WriteJSON(cfg.Output.LeaderboardPath(), res.Leaderboard); err != nil {
		return err
	}
	if err := report.WriteJSON(cfg.Output.SessionsPath(), res.Sessions); err != nil {
		return err
	}
	return report.WriteMarkdown(cfg.Output.MarkdownPath(), cfg.Room.Name, res.Leaderboard)
}
