package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/persistence/memory"
)

const testUser = "user-1"

var (
	windowStart = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)
)

func newTestGenerator(store *memory.Store) *Generator {
	g := NewGenerator(store, store, store, store, store)
	g.Now = func() time.Time { return time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC) }
	return g
}

func seedSleepNight(t *testing.T, store *memory.Store, start time.Time, duration, score int) {
	t.Helper()
	err := store.InsertSleepRecord(context.Background(), domain.SleepRecord{
		UserID:    testUser,
		StartTime: start,
		EndTime:   start.Add(time.Duration(duration) * time.Second),
		Duration:  duration,
		Score:     score,
	})
	require.NoError(t, err)
}

func TestShortSleepProducesSingleRecommendation(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	// Seven nights averaging 5.5 hours, no scores.
	for day := 10; day < 17; day++ {
		seedSleepNight(t, store, time.Date(2025, time.June, day, 23, 0, 0, 0, time.UTC), 19800, 0)
	}

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, domain.InsightRecommendation, out[0].Type)
	require.Equal(t, 0.95, out[0].Relevance)
	require.Equal(t, []string{"Apple Health"}, out[0].DataSources)
	require.Equal(t,
		"Your average sleep duration of 5.5 hours is below the recommended 7-9 hours. Consider adjusting your sleep schedule to improve overall health.",
		out[0].Text)
}

func TestLongSleepProducesObservation(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	for day := 10; day < 13; day++ {
		seedSleepNight(t, store, time.Date(2025, time.June, day, 22, 0, 0, 0, time.UTC), 35100, 0)
	}

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, domain.InsightObservation, out[0].Type)
	require.Equal(t, 0.7, out[0].Relevance)
	require.Contains(t, out[0].Text, "Your average sleep duration of 9.8 hours is above the typical recommendation.")
}

func TestBestAndWorstSleepTrend(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	seedSleepNight(t, store, time.Date(2025, time.June, 10, 23, 0, 0, 0, time.UTC), 7*3600, 91)
	seedSleepNight(t, store, time.Date(2025, time.June, 11, 23, 0, 0, 0, time.UTC), 7*3600, 64)
	seedSleepNight(t, store, time.Date(2025, time.June, 12, 23, 0, 0, 0, time.UTC), 7*3600, 78)

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, domain.InsightTrend, out[0].Type)
	require.Equal(t, 0.9, out[0].Relevance)
	require.Equal(t,
		"Your best sleep was on Tuesday, June 10 with a score of 91. Your worst sleep was on Wednesday, June 11 with a score of 64.",
		out[0].Text)
}

func TestActivityRules(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	days := []struct {
		day      int
		kind     string
		duration int
	}{
		{10, "run", 1800},
		{12, "ride", 5400},
		{12, "walk", 1200},
	}
	for _, d := range days {
		err := store.InsertActivity(context.Background(), domain.Activity{
			UserID:       testUser,
			ActivityType: d.kind,
			StartTime:    time.Date(2025, time.June, d.day, 7, 0, 0, 0, time.UTC),
			Duration:     d.duration,
		})
		require.NoError(t, err)
	}

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, domain.InsightTrend, out[0].Type)
	require.Equal(t, "Your most active day was Thursday, June 12 with 2 activities.", out[0].Text)
	require.Equal(t, domain.InsightHighlight, out[1].Type)
	require.Equal(t, "Your longest activity was a ride on June 12 lasting 1 hours and 30 minutes.", out[1].Text)
}

func TestLowWorkoutFrequencyRecommendation(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	err := store.InsertWorkout(context.Background(), domain.Workout{
		UserID: testUser,
		Name:   "Push Day",
		Date:   time.Date(2025, time.June, 5, 18, 0, 0, 0, time.UTC),
	}, nil)
	require.NoError(t, err)

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, domain.InsightRecommendation, out[0].Type)
	require.Equal(t, 0.9, out[0].Relevance)
	require.Equal(t,
		"You worked out on 1 days out of 18 (6%). Consider increasing your workout frequency for better fitness results.",
		out[0].Text)
}

func TestLowProteinShareRecommendation(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	err := store.InsertFoodEntry(context.Background(), domain.FoodEntry{
		UserID:        testUser,
		MealType:      "lunch",
		ConsumedAt:    time.Date(2025, time.June, 10, 13, 0, 0, 0, time.UTC),
		TotalCalories: 2000,
		TotalProtein:  20,
		TotalCarbs:    150,
		TotalFat:      70,
	}, nil)
	require.NoError(t, err)

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, domain.InsightRecommendation, out[0].Type)
	require.Equal(t, 0.85, out[0].Relevance)
	require.Contains(t, out[0].Text, "Your protein intake is relatively low at 8% of your macronutrients.")
}

func TestSleepAfterActivityCorrelation(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	err := store.InsertActivity(context.Background(), domain.Activity{
		UserID:       testUser,
		ActivityType: "run",
		StartTime:    time.Date(2025, time.June, 16, 7, 0, 0, 0, time.UTC),
		Duration:     1800,
	})
	require.NoError(t, err)
	seedSleepNight(t, store, time.Date(2025, time.June, 16, 23, 0, 0, 0, time.UTC), 7*3600, 60)
	seedSleepNight(t, store, time.Date(2025, time.June, 17, 23, 0, 0, 0, time.UTC), 7*3600, 90)

	g := newTestGenerator(store)
	out, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)

	var correlation *domain.Insight
	for i := range out {
		if out[i].Type == domain.InsightCorrelation {
			correlation = &out[i]
		}
	}
	require.NotNil(t, correlation)
	require.Equal(t, 0.95, correlation.Relevance)
	require.Equal(t, []string{"Strava", "Apple Health"}, correlation.DataSources)
	require.Equal(t,
		"Your sleep quality tends to be better after days with physical activity. Your average sleep score after active days is 90 compared to your overall average of 75.",
		correlation.Text)
}

func TestGenerateReplacesStoredSet(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(testUser)
	for day := 10; day < 17; day++ {
		seedSleepNight(t, store, time.Date(2025, time.June, day, 23, 0, 0, 0, time.UTC), 19800, 0)
	}

	g := newTestGenerator(store)
	first, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), testUser, windowStart, windowEnd)
	require.NoError(t, err)

	// The stored set is fully replaced, not appended to, and repeated runs
	// produce the same texts.
	total, err := store.CountInsights(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, len(second), total)
	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].Text, second[i].Text)
		require.NotEqual(t, first[i].ID, second[i].ID)
	}
}
