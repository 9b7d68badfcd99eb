// Package api exposes the serve mode's read-only HTTP surface: the current
// leaderboard, per-user detail, run history, health, and a Prometheus text
// metrics endpoint. All endpoints read from the run store; nothing here
// triggers a recomputation.
package api
