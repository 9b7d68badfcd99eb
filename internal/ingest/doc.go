// Package ingest parses the three persisted room logs — activity feed entries,
// presence snapshots, and timer snapshots — into typed in-memory records, and
// computes the bucketed deduplication key that keeps re-scraped feed entries
// from being logged twice.
//
// All readers degrade gracefully: a missing log file yields an empty table and
// a malformed row is skipped, never fatal. The source data is only
// minute-precise at best, so no stage downstream of ingestion may assume
// exact timestamps.
package ingest
