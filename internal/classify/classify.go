package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies what an activity feed entry describes.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindWorkStart
	KindBreakStart
	KindStop
	KindJoin
)

// String returns the kind's name for logs and the debug document.
func (k Kind) String() string {
	switch k {
	case KindWorkStart:
		return "work_start"
	case KindBreakStart:
		return "break_start"
	case KindStop:
		return "stop"
	case KindJoin:
		return "join"
	default:
		return "unrecognized"
	}
}

// Classification is the typed outcome of matching one feed entry.
// Duration is set only for KindWorkStart and KindBreakStart.
type Classification struct {
	Kind     Kind
	Duration time.Duration
}

// rule pairs a pattern with its outcome. Patterns with a capture group
// capture the duration in minutes.
type rule struct {
	re   *regexp.Regexp
	kind Kind
}

// rules is evaluated in order; the first match wins. Break phrasing is listed
// before the generic duration-bearing "started" pattern so "started a 5 minute
// break" is not claimed by the work fallback.
var rules = []rule{
	{regexp.MustCompile(`(?i)\bstarted\b.*?\b(\d+)\s*(?:minute|min)s?\b.*?\bbreak\b`), KindBreakStart},
	{regexp.MustCompile(`(?i)\bstarted\b.*?\bbreak\b.*?\b(\d+)\s*(?:minute|min)s?\b`), KindBreakStart},
	{regexp.MustCompile(`(?i)\bstarted\b.*?\b(\d+)\s*(?:minute|min)s?\b.*?\b(?:work|focus|pomodoro)\b`), KindWorkStart},
	{regexp.MustCompile(`(?i)\bstarted\b.*?\b(\d+)\s*(?:minute|min)s?\b`), KindWorkStart},
	{regexp.MustCompile(`(?i)\bstopped\b.*?\b(?:timer|session|break)\b`), KindStop},
	{regexp.MustCompile(`(?i)\bjoined\b`), KindJoin},
}

// Reserved system actors whose feed entries carry no user activity. "unknown"
// is the placeholder the collector writes when the avatar could not be
// resolved; "system" is the feed's own announcement account.
var reservedActors = map[string]struct{}{
	"unknown": {},
	"system":  {},
}

// ReservedActor reports whether user is a system actor to be ignored.
func ReservedActor(user string) bool {
	_, ok := reservedActors[strings.ToLower(strings.TrimSpace(user))]
	return ok
}

// Classify matches action text against the rule table and returns the typed
// outcome. Unmatched text yields KindUnrecognized with zero duration.
func Classify(action string) Classification {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(action)
		if m == nil {
			continue
		}
		c := Classification{Kind: r.kind}
		if len(m) > 1 {
			minutes, err := strconv.Atoi(m[1])
			if err != nil || minutes <= 0 {
				// A start phrase without a usable duration tells us nothing.
				continue
			}
			c.Duration = time.Duration(minutes) * time.Minute
		}
		return c
	}
	return Classification{Kind: KindUnrecognized}
}
