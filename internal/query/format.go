package query

import (
	"strings"
	"time"
)

// notFoundSentinel prefixes every "no data in range" answer. The summary
// composer and the orchestrator both key off it, so the exact wording is
// load-bearing.
const notFoundSentinel = "I couldn't find"

// hasData reports whether a handler answer carries real data rather than
// the not-found sentinel.
func hasData(answer string) bool {
	return !strings.Contains(answer, notFoundSentinel)
}

// capitalize upper-cases the first letter only, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// splitHoursMinutes converts a duration in seconds into whole hours and the
// remaining whole minutes.
func splitHoursMinutes(seconds int) (int, int) {
	return seconds / 3600, (seconds % 3600) / 60
}

// daysInRange counts whole days between the bounds, inclusive. The resolver
// hands out end instants one microsecond shy of midnight, so the truncating
// division plus one lands on the calendar day count.
func daysInRange(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// dayKey buckets an instant by its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// containsAny reports whether any of the words occurs in the query text.
func containsAny(query string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(query, word) {
			return true
		}
	}
	return false
}

// dedupeSources removes duplicate source names preserving first-seen order.
func dedupeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// percentChange returns (new-old)/old*100, guarding the zero baseline.
func percentChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}

// significantChange is the narration gate: changes of 5% or less stay quiet.
func significantChange(pct float64) bool {
	if pct < 0 {
		pct = -pct
	}
	return pct > 5
}
