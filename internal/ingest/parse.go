package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// timeLayout is the timestamp format used in all persisted logs.
const timeLayout = time.RFC3339

// Column counts for each log table, including the header row.
const (
	activityColumns = 5 // estimated_time, scrape_time, user, action, time_ago_raw
	presenceColumns = 3 // timestamp, user_count, users
	snapshotColumns = 4 // timestamp, timer_running, timer_value, session_type
)

// ReadActivities loads the activities log at path. A missing file is treated
// as an empty table.
func ReadActivities(path string) ([]ActivityRecord, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: open activities log: %w", err)
	}
	defer f.Close()
	return ParseActivities(f), nil
}

// ParseActivities reads activity rows from r, skipping the header and any
// malformed rows. Rows that fail to parse are logged and dropped, never fatal.
func ParseActivities(r io.Reader) []ActivityRecord {
	var out []ActivityRecord
	forEachRow(r, activityColumns, func(fields []string) {
		estimated, err := time.Parse(timeLayout, fields[0])
		if err != nil {
			slog.Debug("ingest: bad estimated_time, skipping row", "value", fields[0])
			return
		}
		scraped, err := time.Parse(timeLayout, fields[1])
		if err != nil {
			slog.Debug("ingest: bad scrape_time, skipping row", "value", fields[1])
			return
		}
		out = append(out, ActivityRecord{
			EstimatedTime: estimated,
			ScrapeTime:    scraped,
			User:          fields[2],
			Action:        fields[3],
			RawTimeAgo:    fields[4],
		})
	})
	return out
}

// ReadPresence loads the presence log at path. A missing file is treated as
// an empty table.
func ReadPresence(path string) ([]PresenceSnapshot, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: open presence log: %w", err)
	}
	defer f.Close()
	return ParsePresence(f), nil
}

// ParsePresence reads presence snapshot rows from r. The users column is a
// semicolon-joined list; user_count is informational and not trusted over the
// list itself.
func ParsePresence(r io.Reader) []PresenceSnapshot {
	var out []PresenceSnapshot
	forEachRow(r, presenceColumns, func(fields []string) {
		ts, err := time.Parse(timeLayout, fields[0])
		if err != nil {
			slog.Debug("ingest: bad presence timestamp, skipping row", "value", fields[0])
			return
		}
		out = append(out, PresenceSnapshot{
			Timestamp: ts,
			Users:     splitUsers(fields[2]),
		})
	})
	return out
}

// ReadTimerSnapshots loads the timer snapshot log at path. A missing file is
// treated as an empty table.
func ReadTimerSnapshots(path string) ([]TimerSnapshot, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: open snapshots log: %w", err)
	}
	defer f.Close()
	return ParseTimerSnapshots(f), nil
}

// ParseTimerSnapshots reads timer snapshot rows from r.
func ParseTimerSnapshots(r io.Reader) []TimerSnapshot {
	var out []TimerSnapshot
	forEachRow(r, snapshotColumns, func(fields []string) {
		ts, err := time.Parse(timeLayout, fields[0])
		if err != nil {
			slog.Debug("ingest: bad snapshot timestamp, skipping row", "value", fields[0])
			return
		}
		running, err := strconv.ParseBool(fields[1])
		if err != nil {
			slog.Debug("ingest: bad timer_running flag, skipping row", "value", fields[1])
			return
		}
		out = append(out, TimerSnapshot{
			Timestamp:    ts,
			TimerRunning: running,
			TimerValue:   fields[2],
			SessionType:  fields[3],
		})
	})
	return out
}

// forEachRow parses delimited rows from r and calls fn for every data row
// with exactly wantColumns fields. The header row and rows with the wrong
// column count are skipped.
func forEachRow(r io.Reader, wantColumns int, fn func(fields []string)) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validate counts ourselves so bad rows don't abort the read
	first := true
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			// Quoting error or similar on one row; keep reading the rest.
			slog.Debug("ingest: unreadable row, skipping", "err", err)
			continue
		}
		if first {
			first = false
			continue
		}
		if len(fields) != wantColumns {
			slog.Debug("ingest: wrong column count, skipping row",
				"got", len(fields), "want", wantColumns)
			continue
		}
		fn(fields)
	}
}

// splitUsers splits the semicolon-joined users column into identifiers,
// dropping empty entries left by trailing separators.
func splitUsers(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
