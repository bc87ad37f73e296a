package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Wednesday, June 18 2025, 14:30 UTC.
var wednesday = time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)

func newTestResolver(now time.Time) *Resolver {
	r := NewResolver()
	r.Now = func() time.Time { return now }
	return r
}

func TestExtractFirstPhraseWins(t *testing.T) {
	r := NewResolver()

	require.Equal(t, "today", r.Extract("how did i sleep today compared to last week"))
	require.Equal(t, "this week", r.Extract("show my workouts this week and last month"))
}

func TestExtractAliases(t *testing.T) {
	r := NewResolver()

	require.Equal(t, "past week", r.Extract("steps in the last 7 days"))
	require.Equal(t, "past month", r.Extract("calories over the last 30 days"))
	require.Equal(t, "past year", r.Extract("distance for the last 365 days"))
}

func TestExtractDefault(t *testing.T) {
	r := NewResolver()

	require.Equal(t, "this week", r.Extract("how is my heart rate"))
}

func TestResolveToday(t *testing.T) {
	r := newTestResolver(wednesday)

	start, end := r.Resolve("today")
	require.Equal(t, time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, time.June, 18, 23, 59, 59, 999999000, time.UTC), end)
}

func TestResolveYesterday(t *testing.T) {
	r := newTestResolver(wednesday)

	start, end := r.Resolve("yesterday")
	require.Equal(t, time.Date(2025, time.June, 17, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, time.June, 17, 23, 59, 59, 999999000, time.UTC), end)
}

func TestResolveLastWeekIsMondayThroughSunday(t *testing.T) {
	// Try several weekdays: last week must always be the full prior
	// Monday-Sunday span, strictly before the current week's Monday.
	for days := 0; days < 7; days++ {
		now := wednesday.AddDate(0, 0, days)
		r := newTestResolver(now)

		start, end := r.Resolve("last week")
		require.Equal(t, time.Monday, start.Weekday())

		thisMonday := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -mondayOffset(now.UTC().Truncate(24*time.Hour)))
		require.True(t, end.Before(thisMonday))
		require.Equal(t, start.AddDate(0, 0, 7).Add(-time.Microsecond), end)
	}
}

func TestResolvePastWeekIsRolling(t *testing.T) {
	r := newTestResolver(wednesday)

	start, end := r.Resolve("past week")
	require.Equal(t, time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, time.June, 18, 23, 59, 59, 999999000, time.UTC), end)
}

func TestResolveLastMonthJanuaryRollover(t *testing.T) {
	r := newTestResolver(time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC))

	start, end := r.Resolve("last month")
	require.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 999999000, time.UTC), end)
}

func TestResolveLastYear(t *testing.T) {
	r := newTestResolver(wednesday)

	start, end := r.Resolve("last year")
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, time.December, 31, 23, 59, 59, 999999000, time.UTC), end)
}

func TestResolveThisWeekStartsMonday(t *testing.T) {
	r := newTestResolver(wednesday)

	start, end := r.Resolve("this week")
	require.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, time.June, 18, 23, 59, 59, 999999000, time.UTC), end)
}

func TestWindowEchoesLabel(t *testing.T) {
	r := newTestResolver(wednesday)

	label, start, end := r.Window("how did i eat last month")
	require.Equal(t, "last month", label)
	require.True(t, start.Before(end))
}
