// Package timeline reconstructs continuous intervals from discrete samples:
// per-user presence windows from room-membership snapshots (window.go) and
// shared-timer running spans from timer snapshots (spans.go).
//
// The window builder is an explicit fold — each snapshot produces a new
// accumulator value rather than mutating shared state — so any prefix of the
// snapshot sequence can be fed to it in tests and the intermediate result
// inspected. Source timestamps are minute-precise at best; the one-second
// offsets applied at snapshot boundaries only keep adjacent windows from
// touching, they claim no real precision.
package timeline
