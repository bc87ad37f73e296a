// Package insights derives typed, scored observations from a user's health
// records. Every generation run replaces the user's previous insight set.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/observability"
)

// defaultWindow is the trailing window used when the caller passes zero
// bounds.
const defaultWindow = 30 * 24 * time.Hour

// Generator evaluates the insight rules over one user's records.
type Generator struct {
	activities domain.ActivityStore
	sleep      domain.SleepStore
	food       domain.FoodStore
	workouts   domain.WorkoutStore
	store      domain.InsightStore

	// Now is swappable for tests.
	Now func() time.Time
}

// NewGenerator constructs a Generator.
func NewGenerator(activities domain.ActivityStore, sleep domain.SleepStore, food domain.FoodStore, workouts domain.WorkoutStore, store domain.InsightStore) *Generator {
	return &Generator{
		activities: activities,
		sleep:      sleep,
		food:       food,
		workouts:   workouts,
		store:      store,
		Now:        time.Now,
	}
}

// Generate runs every rule over the window, replaces the user's stored
// insight set with the result, and returns the new set in generation
// order. Zero bounds default to the trailing thirty days.
func (g *Generator) Generate(ctx context.Context, userID string, start, end time.Time) ([]domain.Insight, error) {
	if start.IsZero() {
		start = g.Now().UTC().Add(-defaultWindow)
	}
	if end.IsZero() {
		end = g.Now().UTC()
	}

	activities, err := g.activities.ListActivities(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	sleepRecords, err := g.sleep.ListSleepRecords(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	foodEntries, err := g.food.ListFoodEntries(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	workouts, err := g.workouts.ListWorkouts(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	var out []domain.Insight
	add := func(kind domain.InsightType, text string, sources []string, relevance float64) {
		out = append(out, domain.Insight{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        kind,
			Text:        text,
			DataSources: sources,
			Relevance:   relevance,
			StartDate:   start,
			EndDate:     end,
			CreatedAt:   g.Now().UTC(),
		})
	}

	g.activityRules(activities, add)
	g.sleepRules(sleepRecords, add)
	g.nutritionRules(foodEntries, add)
	g.workoutRules(workouts, start, end, add)
	g.correlationRules(activities, sleepRecords, add)

	if err := g.store.ReplaceInsights(ctx, userID, out); err != nil {
		return nil, fmt.Errorf("replace insights: %w", err)
	}
	observability.RecordInsightRun(len(out))

	return out, nil
}

type addFunc func(kind domain.InsightType, text string, sources []string, relevance float64)

func (g *Generator) activityRules(activities []domain.Activity, add addFunc) {
	if len(activities) == 0 {
		return
	}

	// Most active day, first-seen day wins ties.
	counts := make(map[string]int)
	firstStart := make(map[string]time.Time)
	var dayOrder []string
	for _, a := range activities {
		day := a.StartTime.UTC().Format("2006-01-02")
		if _, ok := counts[day]; !ok {
			dayOrder = append(dayOrder, day)
			firstStart[day] = a.StartTime
		}
		counts[day]++
	}
	mostActive := dayOrder[0]
	for _, day := range dayOrder[1:] {
		if counts[day] > counts[mostActive] {
			mostActive = day
		}
	}
	add(domain.InsightTrend,
		fmt.Sprintf("Your most active day was %s with %d activities.",
			firstStart[mostActive].Format("Monday, January 02"), counts[mostActive]),
		[]string{"Strava"}, 0.8)

	longest := activities[0]
	for _, a := range activities[1:] {
		if a.Duration > longest.Duration {
			longest = a
		}
	}
	if longest.Duration > 0 {
		hours := longest.Duration / 3600
		minutes := (longest.Duration % 3600) / 60
		add(domain.InsightHighlight,
			fmt.Sprintf("Your longest activity was a %s on %s lasting %d hours and %d minutes.",
				longest.ActivityType, longest.StartTime.Format("January 02"), hours, minutes),
			[]string{"Strava"}, 0.7)
	}
}

func (g *Generator) sleepRules(records []domain.SleepRecord, add addFunc) {
	if len(records) == 0 {
		return
	}

	var scored []domain.SleepRecord
	for _, r := range records {
		if r.Score > 0 {
			scored = append(scored, r)
		}
	}
	if len(scored) > 0 {
		best, worst := scored[0], scored[0]
		for _, r := range scored[1:] {
			if r.Score > best.Score {
				best = r
			}
			if r.Score < worst.Score {
				worst = r
			}
		}
		add(domain.InsightTrend,
			fmt.Sprintf("Your best sleep was on %s with a score of %d. Your worst sleep was on %s with a score of %d.",
				best.StartTime.Format("Monday, January 02"), best.Score,
				worst.StartTime.Format("Monday, January 02"), worst.Score),
			[]string{"Apple Health"}, 0.9)
	}

	totalDuration := 0
	for _, r := range records {
		totalDuration += r.Duration
	}
	avgDuration := float64(totalDuration) / float64(len(records))
	if avgDuration > 0 {
		switch {
		case avgDuration < 6*3600:
			add(domain.InsightRecommendation,
				fmt.Sprintf("Your average sleep duration of %.1f hours is below the recommended 7-9 hours. Consider adjusting your sleep schedule to improve overall health.",
					avgDuration/3600),
				[]string{"Apple Health"}, 0.95)
		case avgDuration > 9*3600:
			add(domain.InsightObservation,
				fmt.Sprintf("Your average sleep duration of %.1f hours is above the typical recommendation. While individual needs vary, consistently sleeping more than 9 hours might be worth discussing with a healthcare provider.",
					avgDuration/3600),
				[]string{"Apple Health"}, 0.7)
		}
	}
}

func (g *Generator) nutritionRules(entries []domain.FoodEntry, add addFunc) {
	if len(entries) == 0 {
		return
	}

	dailyCalories := make(map[string]float64)
	for _, e := range entries {
		dailyCalories[e.ConsumedAt.UTC().Format("2006-01-02")] += e.TotalCalories
	}
	total := 0.0
	for _, c := range dailyCalories {
		total += c
	}
	avgCalories := total / float64(len(dailyCalories))
	switch {
	case avgCalories > 2500:
		add(domain.InsightObservation,
			fmt.Sprintf("Your average daily calorie intake of %.0f calories is relatively high. Consider reviewing your nutrition if weight management is a goal.", avgCalories),
			[]string{"HealthifyMe"}, 0.8)
	case avgCalories < 1500:
		add(domain.InsightObservation,
			fmt.Sprintf("Your average daily calorie intake of %.0f calories is relatively low. Ensure you're getting adequate nutrition for your activity level.", avgCalories),
			[]string{"HealthifyMe"}, 0.8)
	}

	var protein, carbs, fat float64
	for _, e := range entries {
		protein += e.TotalProtein
		carbs += e.TotalCarbs
		fat += e.TotalFat
	}
	if protein > 0 && carbs > 0 && fat > 0 {
		proteinPct := protein / (protein + carbs + fat) * 100
		if proteinPct < 15 {
			add(domain.InsightRecommendation,
				fmt.Sprintf("Your protein intake is relatively low at %.0f%% of your macronutrients. Consider incorporating more protein-rich foods for muscle maintenance and recovery.", proteinPct),
				[]string{"HealthifyMe"}, 0.85)
		}
	}
}

func (g *Generator) workoutRules(workouts []domain.Workout, start, end time.Time, add addFunc) {
	if len(workouts) == 0 {
		return
	}

	days := make(map[string]struct{})
	for _, w := range workouts {
		days[w.Date.UTC().Format("2006-01-02")] = struct{}{}
	}
	workedOut := len(days)
	totalDays := int(end.Sub(start).Hours()/24) + 1
	share := float64(workedOut) / float64(totalDays)

	switch {
	case share < 0.2:
		add(domain.InsightRecommendation,
			fmt.Sprintf("You worked out on %d days out of %d (%.0f%%). Consider increasing your workout frequency for better fitness results.",
				workedOut, totalDays, share*100),
			[]string{"Hevy"}, 0.9)
	case share > 0.7:
		add(domain.InsightObservation,
			fmt.Sprintf("You worked out on %d days out of %d (%.0f%%). That's an impressive consistency! Remember to include adequate rest days for recovery.",
				workedOut, totalDays, share*100),
			[]string{"Hevy"}, 0.8)
	}
}

// correlationRules compares sleep scores on nights following an active day
// against the overall average.
func (g *Generator) correlationRules(activities []domain.Activity, records []domain.SleepRecord, add addFunc) {
	if len(activities) == 0 || len(records) == 0 {
		return
	}

	activityDays := make(map[string]struct{})
	for _, a := range activities {
		activityDays[a.StartTime.UTC().Format("2006-01-02")] = struct{}{}
	}

	sleepByDay := make(map[string]domain.SleepRecord)
	for _, r := range records {
		day := r.StartTime.UTC().Format("2006-01-02")
		if _, ok := sleepByDay[day]; !ok {
			sleepByDay[day] = r
		}
	}

	var afterActivity []int
	for day := range activityDays {
		if _, slept := sleepByDay[day]; !slept {
			continue
		}
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		nextDay := parsed.AddDate(0, 0, 1).Format("2006-01-02")
		if next, ok := sleepByDay[nextDay]; ok && next.Score > 0 {
			afterActivity = append(afterActivity, next.Score)
		}
	}

	var allScores []int
	for _, r := range records {
		if r.Score > 0 {
			allScores = append(allScores, r.Score)
		}
	}
	if len(afterActivity) == 0 || len(allScores) == 0 {
		return
	}

	avgAfter := average(afterActivity)
	avgAll := average(allScores)
	if avgAfter > avgAll*1.1 {
		add(domain.InsightCorrelation,
			fmt.Sprintf("Your sleep quality tends to be better after days with physical activity. Your average sleep score after active days is %.0f compared to your overall average of %.0f.",
				avgAfter, avgAll),
			[]string{"Strava", "Apple Health"}, 0.95)
	}
}

func average(values []int) float64 {
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}
