// Package classify turns free-text activity feed entries into typed events.
//
// The feed is semi-structured prose ("alice started a 25 minute work
// session"), so classification is an ordered list of pattern rules rather
// than a grammar: the first rule whose pattern matches wins, and text that
// matches nothing is Unrecognized — uninformative, not an error. The rule
// table lives in classify.go as data so it can be tested independently of
// event extraction and aggregation.
package classify
