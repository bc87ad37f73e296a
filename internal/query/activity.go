// Package query implements the query engine: per-domain handlers, the
// comparison engine, the summary composer, and the orchestrator that routes
// a submitted question to one of them.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

// Handler is the common contract every domain handler satisfies: answer the
// query for one user and report which data sources were consulted.
type Handler interface {
	Handle(ctx context.Context, userID, query string) (string, []string, error)
}

// ActivityHandler answers questions about tracked activities.
type ActivityHandler struct {
	activities domain.ActivityStore
	sources    domain.SourceStore
	ranges     *timerange.Resolver
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(activities domain.ActivityStore, sources domain.SourceStore, ranges *timerange.Resolver) *ActivityHandler {
	return &ActivityHandler{activities: activities, sources: sources, ranges: ranges}
}

// stepsPerMeter converts distance to an approximate step count.
const stepsPerMeter = 1.31

// Handle resolves the time window, loads activities, and answers either a
// specific metric question (steps, distance, heart rate, calories) or a
// period summary.
func (h *ActivityHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	var used []string
	if src, err := h.sources.FindSourceByName(ctx, "Strava"); err != nil {
		return "", used, err
	} else if src != nil {
		used = append(used, "Strava")
	}

	label, start, end := h.ranges.Window(query)

	activities, err := h.activities.ListActivities(ctx, userID, start, end)
	if err != nil {
		return "", used, err
	}
	if len(activities) == 0 {
		return fmt.Sprintf("I couldn't find any activities in the specified time range (%s).", label), used, nil
	}

	if strings.Contains(query, "steps") {
		totalSteps := 0.0
		for _, a := range activities {
			if a.Distance != 0 {
				totalSteps += a.Distance * stepsPerMeter
			}
		}
		avgSteps := totalSteps / float64(len(activities))
		return fmt.Sprintf("You took approximately %d steps in total during this period, averaging %d steps per activity.",
			int(totalSteps), int(avgSteps)), used, nil
	}

	if strings.Contains(query, "distance") {
		totalDistance := 0.0
		for _, a := range activities {
			totalDistance += a.Distance
		}
		avgDistance := totalDistance / float64(len(activities))
		return fmt.Sprintf("You covered %.2f km in total during this period, averaging %.2f km per activity.",
			totalDistance/1000, avgDistance/1000), used, nil
	}

	if containsAny(query, "heart rate", "heartrate") {
		sumHR, countHR, maxHR := 0.0, 0, 0.0
		for _, a := range activities {
			if a.AvgHeartRate == 0 {
				continue
			}
			sumHR += a.AvgHeartRate
			countHR++
			if a.MaxHeartRate > maxHR {
				maxHR = a.MaxHeartRate
			}
		}
		if countHR == 0 {
			return "I couldn't find any heart rate data for your activities in this period.", used, nil
		}
		return fmt.Sprintf("Your average heart rate during activities was %.0f bpm, with a maximum of %.0f bpm.",
			sumHR/float64(countHR), maxHR), used, nil
	}

	if strings.Contains(query, "calories") {
		totalCalories, count := 0.0, 0
		for _, a := range activities {
			if a.Calories != 0 {
				totalCalories += a.Calories
				count++
			}
		}
		if count == 0 {
			return "I couldn't find any calorie data for your activities in this period.", used, nil
		}
		return fmt.Sprintf("You burned approximately %.0f calories in total during this period, averaging %.0f calories per activity.",
			totalCalories, totalCalories/float64(count)), used, nil
	}

	// Aggregate summary: type breakdown in first-seen order, total time and
	// distance.
	typeOrder := make([]string, 0)
	typeCounts := make(map[string]int)
	totalDuration := 0
	totalDistance := 0.0
	for _, a := range activities {
		if _, ok := typeCounts[a.ActivityType]; !ok {
			typeOrder = append(typeOrder, a.ActivityType)
		}
		typeCounts[a.ActivityType]++
		totalDuration += a.Duration
		totalDistance += a.Distance
	}

	parts := make([]string, 0, len(typeOrder))
	for _, at := range typeOrder {
		parts = append(parts, fmt.Sprintf("%d %s", typeCounts[at], at))
	}

	hours, minutes := splitHoursMinutes(totalDuration)
	answer := fmt.Sprintf("During this period (%s), you completed %d activities (%s). ", label, len(activities), strings.Join(parts, ", "))
	answer += fmt.Sprintf("You spent %d hours and %d minutes exercising, ", hours, minutes)
	answer += fmt.Sprintf("covering a total distance of %.2f km.", totalDistance/1000)

	return answer, used, nil
}
