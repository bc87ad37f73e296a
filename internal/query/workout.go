package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

// WorkoutHandler answers questions about strength workouts and exercises.
type WorkoutHandler struct {
	workouts domain.WorkoutStore
	sources  domain.SourceStore
	ranges   *timerange.Resolver
}

// NewWorkoutHandler constructs a WorkoutHandler.
func NewWorkoutHandler(workouts domain.WorkoutStore, sources domain.SourceStore, ranges *timerange.Resolver) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts, sources: sources, ranges: ranges}
}

// commonExercises are the exercise names recognized directly in query text,
// checked in order.
var commonExercises = []string{"bench press", "squat", "deadlift", "pull up", "shoulder press", "bicep curl"}

// loggedSet is one exercise occurrence joined with its workout date.
type loggedSet struct {
	Date   time.Time
	Sets   int
	Reps   int
	Weight float64
}

// Handle answers a specific-exercise progress question, a metric question
// (volume, duration, calories), or a period summary.
func (h *WorkoutHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	var used []string
	if src, err := h.sources.FindSourceByName(ctx, "Hevy"); err != nil {
		return "", used, err
	} else if src != nil {
		used = append(used, "Hevy")
	}

	label, start, end := h.ranges.Window(query)

	workouts, err := h.workouts.ListWorkouts(ctx, userID, start, end)
	if err != nil {
		return "", used, err
	}
	if len(workouts) == 0 {
		return fmt.Sprintf("I couldn't find any workouts in the specified time range (%s).", label), used, nil
	}

	for _, name := range commonExercises {
		if !strings.Contains(query, name) {
			continue
		}
		exercise, err := h.workouts.FindExerciseByName(ctx, name)
		if err != nil {
			return "", used, err
		}
		if exercise == nil {
			continue
		}
		answer, err := h.exerciseAnswer(ctx, workouts, exercise, label)
		return answer, used, err
	}

	if strings.Contains(query, "volume") {
		totalVolume := 0.0
		for _, w := range workouts {
			exercises, err := h.workouts.ListWorkoutExercises(ctx, w.ID)
			if err != nil {
				return "", used, err
			}
			for _, ex := range exercises {
				if ex.Sets != 0 && ex.Reps != 0 && ex.Weight != 0 {
					totalVolume += float64(ex.Sets*ex.Reps) * ex.Weight
				}
			}
		}
		avgVolume := totalVolume / float64(len(workouts))
		return fmt.Sprintf("Your total workout volume was %.0fkg, averaging %.0fkg per workout.",
			totalVolume, avgVolume), used, nil
	}

	if containsAny(query, "duration", "time") {
		totalSeconds := 0
		for _, w := range workouts {
			totalSeconds += w.Duration
		}
		avgMinutes := float64(totalSeconds) / float64(len(workouts)) / 60
		hours, minutes := splitHoursMinutes(totalSeconds)
		return fmt.Sprintf("You spent a total of %d hours and %d minutes working out, averaging %.0f minutes per session.",
			hours, minutes, avgMinutes), used, nil
	}

	if strings.Contains(query, "calories") {
		totalCalories := 0.0
		for _, w := range workouts {
			totalCalories += w.CaloriesBurned
		}
		avgCalories := totalCalories / float64(len(workouts))
		return fmt.Sprintf("You burned approximately %.0f calories in total during your workouts, averaging %.0f calories per session.",
			totalCalories, avgCalories), used, nil
	}

	// Period summary.
	counts := make(map[string]int)
	var order []string
	totalSeconds := 0
	totalCalories := 0.0
	for _, w := range workouts {
		if _, ok := counts[w.Name]; !ok {
			order = append(order, w.Name)
		}
		counts[w.Name]++
		totalSeconds += w.Duration
		totalCalories += w.CaloriesBurned
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	answer := fmt.Sprintf("During this period (%s), you completed %d workouts. ", label, len(workouts))

	answer += "Your most frequent workout types were: "
	var parts []string
	for i, name := range order {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%d times)", name, counts[name]))
	}
	answer += strings.Join(parts, ", ") + ". "

	if totalSeconds > 0 {
		hours, minutes := splitHoursMinutes(totalSeconds)
		answer += fmt.Sprintf("You spent a total of %d hours and %d minutes exercising. ", hours, minutes)
	}
	if totalCalories > 0 {
		answer += fmt.Sprintf("You burned approximately %.0f calories during these workouts.", totalCalories)
	}

	return answer, used, nil
}

// exerciseAnswer reports the latest session for one exercise and, when the
// weight moved by more than five percent across the window, the progression.
func (h *WorkoutHandler) exerciseAnswer(ctx context.Context, workouts []domain.Workout, exercise *domain.Exercise, label string) (string, error) {
	var sets []loggedSet
	for _, w := range workouts {
		exercises, err := h.workouts.ListWorkoutExercises(ctx, w.ID)
		if err != nil {
			return "", err
		}
		for _, ex := range exercises {
			if ex.ExerciseID == exercise.ID {
				sets = append(sets, loggedSet{Date: w.Date, Sets: ex.Sets, Reps: ex.Reps, Weight: ex.Weight})
			}
		}
	}
	if len(sets) == 0 {
		return fmt.Sprintf("I couldn't find any %s exercises in the specified time range (%s).", exercise.Name, label), nil
	}

	sort.SliceStable(sets, func(i, j int) bool { return sets[i].Date.After(sets[j].Date) })
	latest := sets[0]

	answer := fmt.Sprintf("For %s, your most recent workout on %s was %d sets of %d reps at %gkg. ",
		exercise.Name, latest.Date.Format("January 02"), latest.Sets, latest.Reps, latest.Weight)

	weighted := len(sets) > 1
	for _, s := range sets {
		if s.Weight == 0 {
			weighted = false
		}
	}
	if !weighted {
		return strings.TrimSuffix(answer, " "), nil
	}

	oldest := sets[len(sets)-1]
	change := latest.Weight - oldest.Weight
	pct := percentChange(oldest.Weight, latest.Weight)
	if significantChange(pct) {
		if change > 0 {
			answer += fmt.Sprintf("You've increased your weight by %.1fkg (%.1f%%) since %s.",
				change, pct, oldest.Date.Format("January 02"))
		} else {
			answer += fmt.Sprintf("Your weight has decreased by %.1fkg (%.1f%%) since %s.",
				abs(change), abs(pct), oldest.Date.Format("January 02"))
		}
	}

	return answer, nil
}
