package query

import (
	"context"
	"fmt"

	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

// ComparisonHandler answers side-by-side questions, either two time periods
// for one domain or two metrics over one period. It re-submits synthetic
// queries to the domain handlers and stitches the answers together.
type ComparisonHandler struct {
	activity Handler
	food     Handler
	sleep    Handler
	workout  Handler
	summary  Handler
	ranges   *timerange.Resolver
}

// NewComparisonHandler constructs a ComparisonHandler over the per-domain
// handlers and the summary composer.
func NewComparisonHandler(activity, food, sleep, workout, summary Handler, ranges *timerange.Resolver) *ComparisonHandler {
	return &ComparisonHandler{
		activity: activity,
		food:     food,
		sleep:    sleep,
		workout:  workout,
		summary:  summary,
		ranges:   ranges,
	}
}

// comparablePeriods lists the period labels eligible for side-by-side
// comparison, in precedence order.
var comparablePeriods = []string{"today", "yesterday", "this week", "last week", "this month", "last month"}

// comparableMetrics lists the metric names eligible for comparison, in
// precedence order.
var comparableMetrics = []string{"steps", "calories", "sleep", "heart rate", "weight"}

// Handle looks for a period pair first, then a metric pair, and falls back
// to an instructional message when neither is present.
func (h *ComparisonHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	if p1, p2, ok := firstPair(query, comparablePeriods); ok {
		return h.comparePeriods(ctx, userID, query, p1, p2)
	}
	if m1, m2, ok := firstPair(query, comparableMetrics); ok {
		return h.compareMetrics(ctx, userID, query, m1, m2)
	}
	return "I can compare different time periods (like 'this week vs last week') or different metrics (like 'steps vs calories'). Please specify what you'd like to compare.", nil, nil
}

// firstPair returns the first two vocabulary entries, in vocabulary order,
// that both occur in the query.
func firstPair(query string, vocabulary []string) (string, string, bool) {
	for i, first := range vocabulary {
		if !containsAny(query, first) {
			continue
		}
		for _, second := range vocabulary[i+1:] {
			if containsAny(query, second) {
				return first, second, true
			}
		}
	}
	return "", "", false
}

func (h *ComparisonHandler) comparePeriods(ctx context.Context, userID, query, period1, period2 string) (string, []string, error) {
	var (
		subject string
		handler Handler
		topic   string
	)
	switch {
	case containsAny(query, "activity", "steps"):
		subject, handler, topic = "activities", h.activity, "activity"
	case containsAny(query, "food", "calories", "nutrition"):
		subject, handler, topic = "nutrition", h.food, "food"
	case containsAny(query, "sleep"):
		subject, handler, topic = "sleep", h.sleep, "sleep"
	case containsAny(query, "workout", "exercise"):
		subject, handler, topic = "workouts", h.workout, "workout"
	default:
		return h.compareSummaries(ctx, userID, period1, period2)
	}

	answer1, sources1, err := handler.Handle(ctx, userID, fmt.Sprintf("%s %s", topic, period1))
	if err != nil {
		return "", sources1, err
	}
	answer2, sources2, err := handler.Handle(ctx, userID, fmt.Sprintf("%s %s", topic, period2))
	if err != nil {
		return "", sources2, err
	}

	used := append(append([]string{}, sources1...), sources2...)
	return fmt.Sprintf("Comparing %s:\n\n%s: %s\n\n%s: %s",
		subject, capitalize(period1), answer1, capitalize(period2), answer2), used, nil
}

func (h *ComparisonHandler) compareSummaries(ctx context.Context, userID, period1, period2 string) (string, []string, error) {
	answer1, sources1, err := h.summary.Handle(ctx, userID, "summary "+period1)
	if err != nil {
		return "", sources1, err
	}
	answer2, sources2, err := h.summary.Handle(ctx, userID, "summary "+period2)
	if err != nil {
		return "", sources2, err
	}

	used := append(append([]string{}, sources1...), sources2...)
	return fmt.Sprintf("Comparing health summaries:\n\n%s:\n%s\n\n%s:\n%s",
		capitalize(period1), answer1, capitalize(period2), answer2), used, nil
}

func (h *ComparisonHandler) compareMetrics(ctx context.Context, userID, query, metric1, metric2 string) (string, []string, error) {
	label := h.ranges.Extract(query)

	var used []string
	ask := func(metric string) (string, error) {
		var (
			handler Handler
			probe   string
		)
		switch metric {
		case "steps":
			handler, probe = h.activity, "steps "+label
		case "calories":
			handler, probe = h.food, "calories "+label
		case "sleep":
			handler, probe = h.sleep, "sleep duration "+label
		case "heart rate":
			handler, probe = h.activity, "heart rate "+label
		case "weight":
			handler, probe = h.workout, "weight "+label
		}
		answer, sources, err := handler.Handle(ctx, userID, probe)
		used = append(used, sources...)
		return answer, err
	}

	answer1, err := ask(metric1)
	if err != nil {
		return "", used, err
	}
	answer2, err := ask(metric2)
	if err != nil {
		return "", used, err
	}

	return fmt.Sprintf("Comparing %s and %s for %s:\n\n%s: %s\n\n%s: %s",
		metric1, metric2, label, capitalize(metric1), answer1, capitalize(metric2), answer2), used, nil
}
