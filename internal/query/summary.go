package query

import (
	"context"
	"fmt"
	"time"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

// InsightProvider regenerates a user's insight set for a window and returns
// it in generation order.
type InsightProvider interface {
	Generate(ctx context.Context, userID string, start, end time.Time) ([]domain.Insight, error)
}

// SummaryComposer builds the overall health summary by asking each domain
// handler for its period summary and appending the top insights.
type SummaryComposer struct {
	activity Handler
	food     Handler
	sleep    Handler
	workout  Handler
	insights InsightProvider
	ranges   *timerange.Resolver
}

// NewSummaryComposer constructs a SummaryComposer.
func NewSummaryComposer(activity, food, sleep, workout Handler, insights InsightProvider, ranges *timerange.Resolver) *SummaryComposer {
	return &SummaryComposer{
		activity: activity,
		food:     food,
		sleep:    sleep,
		workout:  workout,
		insights: insights,
		ranges:   ranges,
	}
}

// Handle composes the cross-domain summary. Domains with no data in the
// window are left out rather than reported as missing, and a failing domain
// handler drops only its own section instead of blanking the summary.
func (h *SummaryComposer) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	label, start, end := h.ranges.Window(query)

	var used []string
	section := func(handler Handler, topic string) string {
		answer, sources, err := handler.Handle(ctx, userID, fmt.Sprintf("%s summary %s", topic, label))
		if err != nil || !hasData(answer) {
			return ""
		}
		used = append(used, sources...)
		return answer
	}

	activityAnswer := section(h.activity, "activity")
	foodAnswer := section(h.food, "food")
	sleepAnswer := section(h.sleep, "sleep")
	workoutAnswer := section(h.workout, "workout")

	answer := fmt.Sprintf("Here's your health summary for %s:\n\n", label)
	if activityAnswer != "" {
		answer += fmt.Sprintf("Activity: %s\n\n", activityAnswer)
	}
	if sleepAnswer != "" {
		answer += fmt.Sprintf("Sleep: %s\n\n", sleepAnswer)
	}
	if foodAnswer != "" {
		answer += fmt.Sprintf("Nutrition: %s\n\n", foodAnswer)
	}
	if workoutAnswer != "" {
		answer += fmt.Sprintf("Workouts: %s\n\n", workoutAnswer)
	}

	insights, err := h.insights.Generate(ctx, userID, start, end)
	if err != nil {
		return "", used, err
	}
	if len(insights) > 0 {
		answer += "Insights:\n"
		for i, insight := range insights {
			if i == 3 {
				break
			}
			answer += fmt.Sprintf("- %s\n", insight.Text)
		}
	}

	return answer, used, nil
}
