package timeline

import (
	"sort"
	"time"

	"github.com/roompulse/roompulse/internal/ingest"
)

const (
	// maxJoinGap caps how much of an unobserved inter-snapshot gap is
	// credited as presence when a user newly appears. Without the cap a
	// collector outage would credit everyone present afterwards with the
	// whole silent stretch.
	maxJoinGap = 30 * time.Minute

	// snapshotEdge nudges synthesized join/leave times just inside a
	// snapshot boundary so adjacent windows never touch.
	snapshotEdge = time.Second
)

// Window is one continuous stay of a user in the room. LeaveTime is always
// set once the builder returns: a window still open after the last snapshot
// is closed at the builder's "now" and flagged StillPresent.
type Window struct {
	User         string
	JoinTime     time.Time
	LeaveTime    time.Time
	StillPresent bool
}

// Duration returns the window's length.
func (w Window) Duration() time.Duration {
	return w.LeaveTime.Sub(w.JoinTime)
}

// Contains reports whether t falls within the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.JoinTime) && !t.After(w.LeaveTime)
}

// Windows maps each user to their presence windows in join-time order.
// At most the final window per user may have StillPresent set.
type Windows map[string][]Window

// Users returns the window owners sorted by name.
func (ws Windows) Users() []string {
	users := make([]string, 0, len(ws))
	for u := range ws {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Build folds the ordered snapshot sequence into per-user presence windows.
//
// joins holds precise per-user join timestamps mined from the activity feed,
// sorted ascending; when a user appears between two snapshots and a feed join
// falls in that interval, the feed time wins. Otherwise the join is
// synthesized: one second after the previous snapshot when the gap is at most
// maxJoinGap (presence is credited generously — the user could have joined
// any time in the gap), or maxJoinGap before the current snapshot when the
// gap is longer. A user present in the very first snapshot joins at that
// snapshot's time.
//
// A user absent from a snapshot after being present closes their window one
// second before that snapshot. Windows still open after the last snapshot
// close at now with StillPresent set.
func Build(snaps []ingest.PresenceSnapshot, joins map[string][]time.Time, now time.Time) Windows {
	st := builderState{windows: Windows{}, open: map[string]bool{}}
	for i := range snaps {
		st = st.step(snaps[i], joins)
	}
	return st.finish(now)
}

// builderState is the fold accumulator. step returns a fresh value with
// copied maps, so callers holding an earlier state keep an unchanged view.
type builderState struct {
	windows Windows
	open    map[string]bool
	prev    *ingest.PresenceSnapshot
}

func (st builderState) clone() builderState {
	next := builderState{
		windows: make(Windows, len(st.windows)),
		open:    make(map[string]bool, len(st.open)),
		prev:    st.prev,
	}
	for u, ws := range st.windows {
		next.windows[u] = append([]Window(nil), ws...)
	}
	for u, v := range st.open {
		next.open[u] = v
	}
	return next
}

// step advances the fold by one snapshot.
func (st builderState) step(snap ingest.PresenceSnapshot, joins map[string][]time.Time) builderState {
	next := st.clone()

	// Leaves: users with an open window who are absent from this snapshot.
	for user, isOpen := range st.open {
		if !isOpen || snap.Has(user) {
			continue
		}
		next.closeWindow(user, snap.Timestamp.Add(-snapshotEdge))
	}

	// Joins: users present now without an open window.
	for _, user := range snap.Users {
		if st.open[user] {
			continue
		}
		joinTime := joinTimeFor(user, st.prev, snap, joins)
		next.windows[user] = append(next.windows[user], Window{User: user, JoinTime: joinTime})
		next.open[user] = true
	}

	snapCopy := snap
	next.prev = &snapCopy
	return next
}

// finish closes every still-open window at now and returns the windows.
func (st builderState) finish(now time.Time) Windows {
	final := st.clone()
	for user, isOpen := range st.open {
		if isOpen {
			final.closeWindowAt(user, now, true)
		}
	}
	return final.windows
}

func (st builderState) closeWindow(user string, leave time.Time) {
	st.closeWindowAt(user, leave, false)
}

func (st builderState) closeWindowAt(user string, leave time.Time, stillPresent bool) {
	ws := st.windows[user]
	if len(ws) == 0 {
		return
	}
	last := &ws[len(ws)-1]
	if leave.Before(last.JoinTime) {
		// Degenerate ordering from sub-second snapshot spacing; clamp so the
		// join<=leave invariant holds.
		leave = last.JoinTime
	}
	last.LeaveTime = leave
	last.StillPresent = stillPresent
	st.open[user] = false
}

// joinTimeFor picks the join time for a user first seen in snap.
func joinTimeFor(user string, prev *ingest.PresenceSnapshot, snap ingest.PresenceSnapshot, joins map[string][]time.Time) time.Time {
	if prev == nil {
		return snap.Timestamp
	}
	// A feed join strictly after the previous snapshot and at or before this
	// one is the most precise signal available.
	for _, t := range joins[user] {
		if t.After(prev.Timestamp) && !t.After(snap.Timestamp) {
			return t
		}
	}
	gap := snap.Timestamp.Sub(prev.Timestamp)
	if gap <= maxJoinGap {
		return prev.Timestamp.Add(snapshotEdge)
	}
	// Gap protection: never credit more than maxJoinGap of unobserved time.
	return snap.Timestamp.Add(-maxJoinGap)
}
