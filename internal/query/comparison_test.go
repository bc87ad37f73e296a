package query

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/persistence/memory"
)

func newComparisonHandler(store *memory.Store) *ComparisonHandler {
	ranges := fixedResolver()
	activity := NewActivityHandler(store, store, ranges)
	food := NewFoodHandler(store, store, ranges)
	sleep := NewSleepHandler(store, store, ranges)
	workout := NewWorkoutHandler(store, store, ranges)
	summary := NewSummaryComposer(activity, food, sleep, workout, stubInsights{}, ranges)
	return NewComparisonHandler(activity, food, sleep, workout, summary, ranges)
}

// stubInsights keeps summary sections deterministic in comparison tests.
type stubInsights struct{}

func (stubInsights) Generate(ctx context.Context, userID string, start, end time.Time) ([]domain.Insight, error) {
	return nil, nil
}

func TestComparePeriodsForSleep(t *testing.T) {
	store := newTestStore()
	seedSleep(t, store, time.Date(2025, time.June, 10, 23, 0, 0, 0, time.UTC), 8*3600, 85)
	seedSleep(t, store, time.Date(2025, time.June, 17, 23, 0, 0, 0, time.UTC), 6*3600, 70)

	h := newComparisonHandler(store)
	answer, used, err := h.Handle(context.Background(), testUser, "compare my sleep this week vs last week")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(answer, "Comparing sleep:\n\n"))
	require.Contains(t, answer, "\n\nThis week: ")
	require.Contains(t, answer, "\n\nLast week: ")
	require.Contains(t, answer, "you slept an average of 6.0 hours per night")
	require.Contains(t, answer, "you slept an average of 8.0 hours per night")
	require.Equal(t, []string{"Apple Health", "Apple Health"}, used)
}

func TestCompareMetricsOverOnePeriod(t *testing.T) {
	store := newTestStore()
	seedSleep(t, store, time.Date(2025, time.June, 17, 23, 0, 0, 0, time.UTC), 7*3600, 80)
	err := store.InsertFoodEntry(context.Background(), domain.FoodEntry{
		UserID:        testUser,
		MealType:      "lunch",
		ConsumedAt:    time.Date(2025, time.June, 17, 13, 0, 0, 0, time.UTC),
		TotalCalories: 650,
	}, nil)
	require.NoError(t, err)

	h := newComparisonHandler(store)
	answer, _, err := h.Handle(context.Background(), testUser, "compare calories vs sleep this week")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(answer, "Comparing calories and sleep for this week:\n\n"))
	require.Contains(t, answer, "\n\nCalories: ")
	require.Contains(t, answer, "\n\nSleep: ")
}

func TestCompareFallbackMessage(t *testing.T) {
	store := newTestStore()

	h := newComparisonHandler(store)
	answer, used, err := h.Handle(context.Background(), testUser, "compare stuff")
	require.NoError(t, err)
	require.Equal(t, "I can compare different time periods (like 'this week vs last week') or different metrics (like 'steps vs calories'). Please specify what you'd like to compare.", answer)
	require.Nil(t, used)
}
