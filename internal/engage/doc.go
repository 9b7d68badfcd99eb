// Package engage answers the two attribution questions the leaderboard is
// built from and folds the answers into ranked per-user statistics.
//
// Timer credit and timer minutes are deliberately separate queries. Whether a
// user "did" a pomodoro (eligibility: present at its start, or joined within
// a short grace period after) tolerates latecomers; how many minutes they
// actually sat through it (overlap: interval intersection with their presence
// windows) does not. Eligibility never gates overlap and overlap never gates
// eligibility — a grace-period joiner can be credited a pomodoro while
// overlapping only part of it.
package engage
