package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"
)

// Dedup bucket granularities. The feed reports relative age with decreasing
// precision as events get older ("5 min ago" vs "2 hours ago"), so the dedup
// bucket must widen to match or the same event gets logged again on the next
// scrape with a slightly different estimated time.
const (
	fineBucket   = 30 * time.Minute
	coarseBucket = time.Hour
)

// DedupKey returns the stable identity of a feed entry, bucketed by the
// precision of its raw "time ago" phrasing. The key is a pure function of
// (rounded estimated time, user, action) — never of the scrape time.
//
// The persisted log stores actions with commas replaced by semicolons, so the
// action is normalized the same way here. A freshly scraped comma form and
// its persisted semicolon form must produce the same key.
func DedupKey(estimated time.Time, user, action, rawTimeAgo string) string {
	bucket := fineBucket
	lower := strings.ToLower(rawTimeAgo)
	if strings.Contains(lower, "hour") || strings.Contains(lower, "day") {
		bucket = coarseBucket
	}
	rounded := estimated.UTC().Truncate(bucket)
	return rounded.Format("2006-01-02T15:04") + "|" + user + "|" + normalizeAction(action)
}

// normalizeAction applies the log format's comma-to-semicolon replacement.
func normalizeAction(action string) string {
	return strings.ReplaceAll(action, ",", ";")
}

// Key returns the record's deduplication key.
func (r ActivityRecord) Key() string {
	return DedupKey(r.EstimatedTime, r.User, r.Action, r.RawTimeAgo)
}

// ExistingKeys re-derives dedup keys from an already-persisted activities log
// so a collector can compare freshly scraped entries against it. A missing
// file yields an empty set; malformed rows are skipped like everywhere else.
func ExistingKeys(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	keys := make(map[string]struct{})
	for _, rec := range ParseActivities(f) {
		keys[rec.Key()] = struct{}{}
	}
	return keys, nil
}

// Dedup filters recs down to one record per dedup key, keeping the first
// occurrence. The persisted log should already be duplicate free, but logs
// written by collectors that predate key bucketing are not.
func Dedup(recs []ActivityRecord) []ActivityRecord {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0:0]
	for _, rec := range recs {
		k := rec.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// AppendActivities merges recs into the activities log at path, appending
// only records whose dedup key is not already persisted. Re-running the same
// batch is a no-op. Returns how many records were actually written.
func AppendActivities(path string, recs []ActivityRecord) (int, error) {
	seen, err := ExistingKeys(path)
	if err != nil {
		return 0, fmt.Errorf("ingest: read existing keys: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("ingest: open activities log for append: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("ingest: stat activities log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write([]string{"estimated_time", "scrape_time", "user", "action", "time_ago_raw"}); err != nil {
			return 0, fmt.Errorf("ingest: write header: %w", err)
		}
	}

	added := 0
	for _, rec := range recs {
		k := rec.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		row := []string{
			rec.EstimatedTime.UTC().Format(timeLayout),
			rec.ScrapeTime.UTC().Format(timeLayout),
			rec.User,
			normalizeAction(rec.Action),
			rec.RawTimeAgo,
		}
		if err := w.Write(row); err != nil {
			return added, fmt.Errorf("ingest: append activity row: %w", err)
		}
		added++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return added, fmt.Errorf("ingest: flush activities log: %w", err)
	}
	return added, nil
}
