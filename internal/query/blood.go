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

// BloodHandler answers questions about blood reports and their metrics.
type BloodHandler struct {
	blood  domain.BloodStore
	ranges *timerange.Resolver
}

// NewBloodHandler constructs a BloodHandler.
func NewBloodHandler(blood domain.BloodStore, ranges *timerange.Resolver) *BloodHandler {
	return &BloodHandler{blood: blood, ranges: ranges}
}

// metricCategory names a metric family and the query keywords that select
// it. Scanned in order; the first category with a keyword hit wins.
type metricCategory struct {
	Name     string
	Keywords []string
}

var metricCategories = []metricCategory{
	{"cholesterol", []string{"cholesterol", "ldl", "hdl"}},
	{"glucose", []string{"glucose", "blood sugar"}},
	{"hemoglobin", []string{"hemoglobin", "hgb", "hb"}},
	{"white blood cell", []string{"white blood cell", "wbc"}},
	{"red blood cell", []string{"red blood cell", "rbc"}},
	{"platelet", []string{"platelet"}},
	{"vitamin d", []string{"vitamin d"}},
	{"vitamin b12", []string{"vitamin b12"}},
	{"iron", []string{"iron"}},
	{"thyroid", []string{"thyroid", "tsh", "t3", "t4"}},
}

// datedMetric pairs a metric with its report date for trend ordering.
type datedMetric struct {
	Metric domain.BloodMetric
	Date   time.Time
}

// Handle answers either a metric-family question (latest value, normal
// range, trend) or a latest-report overview.
func (h *BloodHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	used := []string{"Blood Reports"}

	label, start, end := h.ranges.Window(query)

	reports, err := h.blood.ListBloodReports(ctx, userID, start, end)
	if err != nil {
		return "", used, err
	}
	if len(reports) == 0 {
		return fmt.Sprintf("I couldn't find any blood reports in the specified time range (%s).", label), used, nil
	}

	for _, category := range metricCategories {
		if !containsAny(query, category.Keywords...) {
			continue
		}
		answer, err := h.categoryAnswer(ctx, reports, category.Name)
		return answer, used, err
	}

	// Overview of the most recent report.
	latest := reports[0]
	metrics, err := h.blood.ListBloodMetrics(ctx, latest.ID)
	if err != nil {
		return "", used, err
	}

	var abnormal []string
	for _, m := range metrics {
		if m.IsNormal != nil && !*m.IsNormal {
			abnormal = append(abnormal, m.Name)
		}
	}

	answer := fmt.Sprintf("Your most recent blood report is from %s. ", latest.ReportDate.Format("January 02, 2006"))
	if latest.Provider != "" {
		answer += fmt.Sprintf("It was provided by %s. ", latest.Provider)
	}
	answer += fmt.Sprintf("The report includes %d different metrics. ", len(metrics))
	if len(abnormal) > 0 {
		answer += fmt.Sprintf("The following metrics were outside the normal range: %s.", strings.Join(abnormal, ", "))
	} else {
		answer += "All metrics were within normal ranges."
	}

	return answer, used, nil
}

// categoryAnswer reports the latest value for a metric family plus its
// trend against the oldest observation in range.
func (h *BloodHandler) categoryAnswer(ctx context.Context, reports []domain.BloodReport, category string) (string, error) {
	var all []datedMetric
	for _, report := range reports {
		metrics, err := h.blood.SearchBloodMetrics(ctx, report.ID, category)
		if err != nil {
			return "", err
		}
		for _, m := range metrics {
			all = append(all, datedMetric{Metric: m, Date: report.ReportDate})
		}
	}
	if len(all) == 0 {
		return fmt.Sprintf("I couldn't find any %s data in your blood reports for this period.", category), nil
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	latest := all[0]

	answer := fmt.Sprintf("Your most recent %s level was %g %s on %s. ",
		latest.Metric.Name, latest.Metric.Value, latest.Metric.Unit, latest.Date.Format("January 02, 2006"))

	if latest.Metric.ReferenceRange != "" {
		answer += fmt.Sprintf("The reference range is %s %s. ", latest.Metric.ReferenceRange, latest.Metric.Unit)
	}
	if latest.Metric.IsNormal != nil {
		if *latest.Metric.IsNormal {
			answer += "This is within the normal range."
		} else {
			answer += "This is outside the normal range."
		}
	}

	if len(all) > 1 {
		oldest := all[len(all)-1]
		change := latest.Metric.Value - oldest.Metric.Value
		pct := percentChange(oldest.Metric.Value, latest.Metric.Value)
		if significantChange(pct) {
			direction := "increased"
			if change < 0 {
				direction = "decreased"
			}
			answer += fmt.Sprintf(" Your %s has %s by %.1f %s (%.1f%%) since %s.",
				latest.Metric.Name, direction, abs(change), latest.Metric.Unit, abs(pct), oldest.Date.Format("January 02, 2006"))
		}
	}

	return answer, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
