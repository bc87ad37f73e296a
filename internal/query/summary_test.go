package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mihircjain/localhealthrepo/internal/insights"
	"github.com/mihircjain/localhealthrepo/internal/persistence/memory"
)

func newSummaryComposer(store *memory.Store) *SummaryComposer {
	ranges := fixedResolver()
	generator := insights.NewGenerator(store, store, store, store, store)
	generator.Now = func() time.Time { return wednesday }

	activity := NewActivityHandler(store, store, ranges)
	food := NewFoodHandler(store, store, ranges)
	sleep := NewSleepHandler(store, store, ranges)
	workout := NewWorkoutHandler(store, store, ranges)
	return NewSummaryComposer(activity, food, sleep, workout, generator, ranges)
}

func TestSummaryOmitsDomainsWithoutData(t *testing.T) {
	store := newTestStore()

	h := newSummaryComposer(store)
	answer, used, err := h.Handle(context.Background(), testUser, "health summary this week")
	require.NoError(t, err)
	require.Equal(t, "Here's your health summary for this week:\n\n", answer)
	require.Empty(t, used)
}

func TestSummarySectionsAndInsightsInGenerationOrder(t *testing.T) {
	store := newTestStore()
	seedActivity(t, store, time.Date(2025, time.June, 17, 7, 0, 0, 0, time.UTC), "run", 1800, 5000)
	for day := 16; day <= 18; day++ {
		seedSleep(t, store, time.Date(2025, time.June, day, 23, 0, 0, 0, time.UTC), 19800, 0)
	}

	h := newSummaryComposer(store)
	answer, used, err := h.Handle(context.Background(), testUser, "health summary this week")
	require.NoError(t, err)
	require.Equal(t,
		"Here's your health summary for this week:\n\n"+
			"Activity: During this period (this week), you completed 1 activities (1 run). "+
			"You spent 0 hours and 30 minutes exercising, covering a total distance of 5.00 km.\n\n"+
			"Sleep: During this period (this week), you slept an average of 5.5 hours per night. \n\n"+
			"Insights:\n"+
			"- Your most active day was Tuesday, June 17 with 1 activities.\n"+
			"- Your longest activity was a run on June 17 lasting 0 hours and 30 minutes.\n"+
			"- Your average sleep duration of 5.5 hours is below the recommended 7-9 hours. Consider adjusting your sleep schedule to improve overall health.\n",
		answer)
	require.Equal(t, []string{"Strava", "Apple Health"}, used)
}

func TestSummaryDropsOnlyTheFailingSection(t *testing.T) {
	store := newTestStore()
	seedSleep(t, store, time.Date(2025, time.June, 17, 23, 0, 0, 0, time.UTC), 7*3600, 82)

	ranges := fixedResolver()
	generator := insights.NewGenerator(store, store, store, store, store)
	generator.Now = func() time.Time { return wednesday }
	sleep := NewSleepHandler(store, store, ranges)

	h := NewSummaryComposer(failingHandler{}, failingHandler{}, sleep, failingHandler{}, generator, ranges)
	answer, used, err := h.Handle(context.Background(), testUser, "health summary this week")
	require.NoError(t, err)
	require.Contains(t, answer, "Sleep: ")
	require.NotContains(t, answer, "Activity:")
	require.NotContains(t, answer, "Nutrition:")
	require.Equal(t, []string{"Apple Health"}, used)
}

func TestSummaryIsIdempotent(t *testing.T) {
	store := newTestStore()
	seedActivity(t, store, time.Date(2025, time.June, 17, 7, 0, 0, 0, time.UTC), "run", 1800, 5000)
	seedSleep(t, store, time.Date(2025, time.June, 17, 23, 0, 0, 0, time.UTC), 7*3600, 82)

	h := newSummaryComposer(store)
	first, _, err := h.Handle(context.Background(), testUser, "health summary this week")
	require.NoError(t, err)
	second, _, err := h.Handle(context.Background(), testUser, "health summary this week")
	require.NoError(t, err)
	require.Equal(t, first, second)
}
