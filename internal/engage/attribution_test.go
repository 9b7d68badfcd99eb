package engage

import (
	"math"
	"testing"
	"time"

	"github.com/roompulse/roompulse/internal/timeline"
)

// baseTime is a fixed reference point so all test timings are deterministic.
var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// tick returns baseTime advanced by n minutes.
func tick(n int) time.Time {
	return baseTime.Add(time.Duration(n) * time.Minute)
}

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func window(joinMin, leaveMin int) timeline.Window {
	return timeline.Window{User: "u", JoinTime: tick(joinMin), LeaveTime: tick(leaveMin)}
}

func TestEligibleForTimer_PresentAtStart(t *testing.T) {
	wins := []timeline.Window{window(-5, 30)}
	if !EligibleForTimer(wins, tick(0)) {
		t.Error("user present at timer start should be eligible")
	}
}

func TestEligibleForTimer_GraceJoin(t *testing.T) {
	wins := []timeline.Window{window(3, 30)}
	if !EligibleForTimer(wins, tick(0)) {
		t.Error("join 3 minutes after start is within the 5-minute grace")
	}
}

func TestEligibleForTimer_GraceBoundary(t *testing.T) {
	exact := []timeline.Window{window(5, 30)}
	if !EligibleForTimer(exact, tick(0)) {
		t.Error("join exactly at the grace boundary should still be eligible")
	}
	late := []timeline.Window{window(6, 30)}
	if EligibleForTimer(late, tick(0)) {
		t.Error("join past the grace period should not be eligible")
	}
}

func TestEligibleForTimer_NoWindows(t *testing.T) {
	if EligibleForTimer(nil, tick(0)) {
		t.Error("no windows should never be eligible")
	}
}

func TestOverlapMinutes_FullCoverage(t *testing.T) {
	wins := []timeline.Window{window(-5, 30)}
	got := OverlapMinutes(wins, tick(0), tick(25))
	if !almostEqual(got, 25, 0.01) {
		t.Errorf("overlap = %.2f, want 25", got)
	}
}

func TestOverlapMinutes_PartialFromLateJoin(t *testing.T) {
	wins := []timeline.Window{window(3, 60)}
	got := OverlapMinutes(wins, tick(0), tick(25))
	if !almostEqual(got, 22, 0.01) {
		t.Errorf("overlap = %.2f, want 22", got)
	}
}

func TestOverlapMinutes_DisjointIsZero(t *testing.T) {
	wins := []timeline.Window{window(40, 60)}
	if got := OverlapMinutes(wins, tick(0), tick(25)); got != 0 {
		t.Errorf("overlap = %.2f, want 0", got)
	}
}

func TestOverlapMinutes_SplitWindows(t *testing.T) {
	wins := []timeline.Window{window(0, 10), window(15, 25)}
	got := OverlapMinutes(wins, tick(0), tick(25))
	if !almostEqual(got, 20, 0.01) {
		t.Errorf("overlap across two windows = %.2f, want 20", got)
	}
}

// Overlap can never exceed the timer duration or the user's total presence.
func TestOverlap_Bounds(t *testing.T) {
	cases := [][]timeline.Window{
		{window(-60, 120)},
		{window(0, 5), window(10, 12)},
		{window(20, 22)},
	}
	start, end := tick(0), tick(25)
	timerMinutes := end.Sub(start).Minutes()
	for _, wins := range cases {
		var presence float64
		for _, w := range wins {
			presence += w.Duration().Minutes()
		}
		got := OverlapMinutes(wins, start, end)
		if got > timerMinutes+1e-9 {
			t.Errorf("overlap %.2f exceeds timer duration %.2f", got, timerMinutes)
		}
		if got > presence+1e-9 {
			t.Errorf("overlap %.2f exceeds total presence %.2f", got, presence)
		}
	}
}

// A grace-period joiner can be eligible with nearly no overlap — the two
// queries must stay independent.
func TestEligibilityAndOverlap_Independent(t *testing.T) {
	wins := []timeline.Window{window(4, 5)} // joins in grace, leaves almost immediately
	start, end := tick(0), tick(25)
	if !EligibleForTimer(wins, start) {
		t.Fatal("grace-period join should be eligible")
	}
	got := OverlapMinutes(wins, start, end)
	if !almostEqual(got, 1, 0.01) {
		t.Errorf("overlap = %.2f, want 1 (eligibility must not inflate overlap)", got)
	}
}
