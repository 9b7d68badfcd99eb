package engage

import (
	"testing"
	"time"

	"github.com/roompulse/roompulse/internal/classify"
	"github.com/roompulse/roompulse/internal/ingest"
	"github.com/roompulse/roompulse/internal/timeline"
)

func workEvent(startMin, durMin int, by string) classify.TimerEvent {
	return classify.TimerEvent{
		StartTime: tick(startMin),
		EndTime:   tick(startMin + durMin),
		Type:      classify.TimerWork,
		Duration:  time.Duration(durMin) * time.Minute,
		StartedBy: by,
	}
}

func breakEvent(startMin, durMin int, by string) classify.TimerEvent {
	ev := workEvent(startMin, durMin, by)
	ev.Type = classify.TimerBreak
	return ev
}

func userWindow(user string, joinMin, leaveMin int) timeline.Window {
	return timeline.Window{User: user, JoinTime: tick(joinMin), LeaveTime: tick(leaveMin)}
}

func findUser(t *testing.T, lb *Leaderboard, name string) UserStats {
	t.Helper()
	for _, u := range lb.Users {
		if u.User == name {
			return u
		}
	}
	t.Fatalf("user %q not in leaderboard: %+v", name, lb.Users)
	return UserStats{}
}

// X is present from t=-5 to t=30 and a 25-minute work timer starts at t=0:
// X is eligible and overlaps the timer exactly.
func TestBuildLeaderboard_FullPomodoro(t *testing.T) {
	windows := timeline.Windows{
		"x": {userWindow("x", -5, 30)},
	}
	events := []classify.TimerEvent{workEvent(0, 25, "x")}

	lb := BuildLeaderboard(windows, events, nil, tick(60))
	x := findUser(t, lb, "x")

	if x.Pomodoros != 1 {
		t.Errorf("pomodoros = %d, want 1", x.Pomodoros)
	}
	if !almostEqual(x.WorkMinutes, 25, 0.01) {
		t.Errorf("work minutes = %.2f, want 25", x.WorkMinutes)
	}
	if !almostEqual(x.AvgPomodoroMinutes, 25, 0.01) {
		t.Errorf("avg pomodoro minutes = %.2f, want 25", x.AvgPomodoroMinutes)
	}
	if !almostEqual(x.PresenceMinutes, 35, 0.01) {
		t.Errorf("presence minutes = %.2f, want 35", x.PresenceMinutes)
	}
	if lb.TotalPomodoros != 1 {
		t.Errorf("total pomodoros = %d, want 1", lb.TotalPomodoros)
	}
}

// Y joins 3 minutes into a 25-minute timer: credited the count, but only the
// 22 minutes actually overlapped.
func TestBuildLeaderboard_GraceJoinerCountsButPartialMinutes(t *testing.T) {
	windows := timeline.Windows{
		"y": {userWindow("y", 3, 60)},
	}
	events := []classify.TimerEvent{workEvent(0, 25, "someone-else")}

	lb := BuildLeaderboard(windows, events, nil, tick(90))
	y := findUser(t, lb, "y")

	if y.Pomodoros != 1 {
		t.Errorf("pomodoros = %d, want 1 (grace join)", y.Pomodoros)
	}
	if !almostEqual(y.WorkMinutes, 22, 0.01) {
		t.Errorf("work minutes = %.2f, want 22", y.WorkMinutes)
	}
}

func TestBuildLeaderboard_BreakCountsSeparately(t *testing.T) {
	windows := timeline.Windows{
		"x": {userWindow("x", 0, 60)},
	}
	events := []classify.TimerEvent{
		workEvent(0, 25, "x"),
		breakEvent(30, 5, "x"),
	}

	lb := BuildLeaderboard(windows, events, nil, tick(90))
	x := findUser(t, lb, "x")

	if x.Pomodoros != 1 || x.Breaks != 1 {
		t.Errorf("counts: pomodoros=%d breaks=%d, want 1 and 1", x.Pomodoros, x.Breaks)
	}
	if !almostEqual(x.BreakMinutes, 5, 0.01) {
		t.Errorf("break minutes = %.2f, want 5", x.BreakMinutes)
	}
	if lb.TotalPomodoros != 1 {
		t.Errorf("total pomodoros = %d, want 1 (breaks excluded)", lb.TotalPomodoros)
	}
}

func TestBuildLeaderboard_RanksByPresenceDescending(t *testing.T) {
	windows := timeline.Windows{
		"short": {userWindow("short", 0, 10)},
		"long":  {userWindow("long", 0, 50)},
		"mid":   {userWindow("mid", 0, 30)},
	}
	lb := BuildLeaderboard(windows, nil, nil, tick(60))

	order := []string{lb.Users[0].User, lb.Users[1].User, lb.Users[2].User}
	want := []string{"long", "mid", "short"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("ranking = %v, want %v", order, want)
		}
	}
}

func TestBuildLeaderboard_TiesKeepEncounterOrder(t *testing.T) {
	// Equal presence; "early" was seen first and must rank first.
	windows := timeline.Windows{
		"late":  {userWindow("late", 10, 40)},
		"early": {userWindow("early", 0, 30)},
	}
	lb := BuildLeaderboard(windows, nil, nil, tick(60))
	if lb.Users[0].User != "early" || lb.Users[1].User != "late" {
		t.Errorf("tie order = [%s %s], want [early late]",
			lb.Users[0].User, lb.Users[1].User)
	}
}

// The latest snapshot's membership overrides window state for the
// currently-present flag.
func TestBuildLeaderboard_LatestSnapshotOverridesPresence(t *testing.T) {
	windows := timeline.Windows{
		"alice": {{User: "alice", JoinTime: tick(0), LeaveTime: tick(60), StillPresent: true}},
		"bob":   {userWindow("bob", 0, 30)},
	}
	latest := &ingest.PresenceSnapshot{Timestamp: tick(60), Users: []string{"bob"}}

	lb := BuildLeaderboard(windows, nil, latest, tick(60))

	if findUser(t, lb, "alice").CurrentlyPresent {
		t.Error("alice not in latest snapshot — must not be flagged present")
	}
	if !findUser(t, lb, "bob").CurrentlyPresent {
		t.Error("bob is in latest snapshot — must be flagged present")
	}
	if len(lb.CurrentlyPresent) != 1 || lb.CurrentlyPresent[0] != "bob" {
		t.Errorf("currently present = %v, want [bob]", lb.CurrentlyPresent)
	}
}

// Degenerate inputs produce a well-formed empty leaderboard, never a panic.
func TestBuildLeaderboard_EmptyInputs(t *testing.T) {
	lb := BuildLeaderboard(timeline.Windows{}, nil, nil, tick(0))
	if lb.TotalUsers != 0 || len(lb.Users) != 0 {
		t.Errorf("empty inputs: got %+v", lb)
	}
	if lb.TotalPomodoros != 0 || lb.TotalWorkMinutes != 0 {
		t.Errorf("empty totals: got %+v", lb)
	}
	if lb.RunID == "" {
		t.Error("run id should still be stamped")
	}
}

// A timer nobody overlaps contributes zero everywhere; averages stay defined.
func TestBuildLeaderboard_OrphanTimer(t *testing.T) {
	windows := timeline.Windows{
		"x": {userWindow("x", 100, 160)},
	}
	events := []classify.TimerEvent{workEvent(0, 25, "ghost")}

	lb := BuildLeaderboard(windows, events, nil, tick(200))
	x := findUser(t, lb, "x")
	if x.Pomodoros != 0 || x.WorkMinutes != 0 || x.AvgPomodoroMinutes != 0 {
		t.Errorf("orphan timer credited: %+v", x)
	}
}

// Two runs over identical inputs agree on everything except GeneratedAt/RunID.
func TestBuildLeaderboard_Deterministic(t *testing.T) {
	windows := timeline.Windows{
		"a": {userWindow("a", 0, 30)},
		"b": {userWindow("b", 0, 30)},
		"c": {userWindow("c", 5, 35)},
	}
	events := []classify.TimerEvent{workEvent(0, 25, "a"), breakEvent(40, 5, "b")}
	latest := &ingest.PresenceSnapshot{Timestamp: tick(35), Users: []string{"c"}}

	lb1 := BuildLeaderboard(windows, events, latest, tick(60))
	lb2 := BuildLeaderboard(windows, events, latest, tick(60))

	lb2.GeneratedAt, lb2.RunID = lb1.GeneratedAt, lb1.RunID
	if len(lb1.Users) != len(lb2.Users) {
		t.Fatalf("user counts differ: %d vs %d", len(lb1.Users), len(lb2.Users))
	}
	for i := range lb1.Users {
		if lb1.Users[i] != lb2.Users[i] {
			t.Errorf("user %d differs:\n%+v\n%+v", i, lb1.Users[i], lb2.Users[i])
		}
	}
}
