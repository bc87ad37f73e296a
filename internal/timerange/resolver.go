// Package timerange maps free-text time phrases onto concrete UTC windows.
package timerange

import (
	"strings"
	"time"
)

// phrase pairs a query substring with the canonical range label it resolves
// to. Declaration order is significant: the first phrase found in the query
// wins, so aliases sit after the canonical phrases they map onto.
type phrase struct {
	Text  string
	Label string
}

// vocabulary is the fixed phrase table. It is constructed once and never
// mutated; the Resolver holds it by value rather than reading a package
// global at match time.
var vocabulary = []phrase{
	{"today", "today"},
	{"yesterday", "yesterday"},
	{"this week", "this week"},
	{"last week", "last week"},
	{"this month", "this month"},
	{"last month", "last month"},
	{"this year", "this year"},
	{"last year", "last year"},
	{"past week", "past week"},
	{"past month", "past month"},
	{"past year", "past year"},
	{"last 7 days", "past week"},
	{"last 30 days", "past month"},
	{"last 365 days", "past year"},
}

// DefaultLabel is assumed when a query names no recognizable time phrase.
const DefaultLabel = "this week"

// Resolver turns query text into [start, end] instant pairs. Now is
// overridable for tests and defaults to time.Now.
type Resolver struct {
	phrases []phrase
	Now     func() time.Time
}

// NewResolver constructs a Resolver over the fixed vocabulary.
func NewResolver() *Resolver {
	return &Resolver{phrases: vocabulary, Now: time.Now}
}

// Extract returns the canonical label of the first phrase found in the
// query, or DefaultLabel when none matches. The query is expected to be
// lower-cased by the caller.
func (r *Resolver) Extract(query string) string {
	for _, p := range r.phrases {
		if strings.Contains(query, p.Text) {
			return p.Label
		}
	}
	return DefaultLabel
}

// Resolve converts a canonical label into a concrete window. Calendar
// phrases ("last week", "this month") align to calendar boundaries; "past"
// phrases are rolling windows ending today. The two families are distinct
// on purpose: "last week" is the previous Monday-Sunday span, "past week"
// is the trailing seven days.
func (r *Resolver) Resolve(label string) (time.Time, time.Time) {
	today := r.Now().UTC().Truncate(24 * time.Hour)

	switch label {
	case "today":
		return today, endOfDay(today)

	case "yesterday":
		yesterday := today.AddDate(0, 0, -1)
		return yesterday, endOfDay(yesterday)

	case "last week":
		start := today.AddDate(0, 0, -(mondayOffset(today) + 7))
		return start, start.AddDate(0, 0, 7).Add(-time.Microsecond)

	case "this month":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), endOfDay(today)

	case "last month":
		year, month := today.Year(), today.Month()
		if month == time.January {
			year, month = year-1, time.December
		} else {
			month--
		}
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond)
		return start, end

	case "this year":
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), endOfDay(today)

	case "last year":
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(today.Year()-1, time.December, 31, 23, 59, 59, 999999000, time.UTC)
		return start, end

	case "past week":
		return today.AddDate(0, 0, -7), endOfDay(today)

	case "past month":
		return today.AddDate(0, 0, -30), endOfDay(today)

	case "past year":
		return today.AddDate(0, 0, -365), endOfDay(today)

	default: // "this week" and anything unrecognized
		return today.AddDate(0, 0, -mondayOffset(today)), endOfDay(today)
	}
}

// Window is a convenience combining Extract and Resolve. It returns the
// matched label along with the bounds so handlers can echo it in answers.
func (r *Resolver) Window(query string) (string, time.Time, time.Time) {
	label := r.Extract(query)
	start, end := r.Resolve(label)
	return label, start, end
}

// mondayOffset returns days since the most recent Monday (0 on Mondays).
func mondayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// endOfDay is the last representable microsecond of the given day, matching
// the store's timestamp precision.
func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Microsecond)
}
