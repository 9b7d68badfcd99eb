// Package report serializes a run's results to the output documents: the
// leaderboard JSON consumed downstream, the sessions JSON kept for
// inspection, and a markdown table derived purely from the leaderboard.
// Each document is rewritten wholesale every run via a temp-file rename, so
// readers never observe a half-written file.
package report
