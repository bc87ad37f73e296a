package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/persistence/memory"
)

func boolPtr(v bool) *bool { return &v }

func seedGlucoseReport(store *memory.Store, date time.Time, value float64) {
	store.AddBloodReport(domain.BloodReport{
		UserID:     testUser,
		ReportDate: date,
		Name:       "Metabolic Panel",
		Provider:   "Quest Diagnostics",
	}, []domain.BloodMetric{{
		Name:           "Glucose",
		Value:          value,
		Unit:           "mg/dL",
		ReferenceRange: "70-100",
		IsNormal:       boolPtr(true),
	}})
}

func TestBloodGlucoseTrendNarratesIncrease(t *testing.T) {
	store := newTestStore()
	seedGlucoseReport(store, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), 90)
	seedGlucoseReport(store, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), 100)

	h := NewBloodHandler(store, fixedResolver())
	answer, used, err := h.Handle(context.Background(), testUser, "how is my glucose trending this year")
	require.NoError(t, err)
	require.Equal(t, []string{"Blood Reports"}, used)
	require.Equal(t,
		"Your most recent Glucose level was 100 mg/dL on June 10, 2025. "+
			"The reference range is 70-100 mg/dL. This is within the normal range. "+
			"Your Glucose has increased by 10.0 mg/dL (11.1%) since May 20, 2025.",
		answer)
}

func TestBloodTrendGateAtFivePercent(t *testing.T) {
	cases := []struct {
		name     string
		latest   float64
		narrated bool
	}{
		{"four percent stays quiet", 104, false},
		{"six percent is narrated", 106, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore()
			seedGlucoseReport(store, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), 100)
			seedGlucoseReport(store, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), tc.latest)

			h := NewBloodHandler(store, fixedResolver())
			answer, _, err := h.Handle(context.Background(), testUser, "glucose this year")
			require.NoError(t, err)
			if tc.narrated {
				require.Contains(t, answer, "has increased by")
			} else {
				require.NotContains(t, answer, "has increased by")
			}
		})
	}
}

func TestBloodLatestReportOverview(t *testing.T) {
	store := newTestStore()
	store.AddBloodReport(domain.BloodReport{
		UserID:     testUser,
		ReportDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Name:       "Lipid Panel",
		Provider:   "Quest Diagnostics",
	}, []domain.BloodMetric{
		{Name: "Hemoglobin", Value: 14.2, Unit: "g/dL", IsNormal: boolPtr(true)},
		{Name: "LDL Cholesterol", Value: 165, Unit: "mg/dL", IsNormal: boolPtr(false)},
	})

	h := NewBloodHandler(store, fixedResolver())
	answer, _, err := h.Handle(context.Background(), testUser, "show my latest lab results this year")
	require.NoError(t, err)
	require.Equal(t,
		"Your most recent blood report is from June 10, 2025. "+
			"It was provided by Quest Diagnostics. "+
			"The report includes 2 different metrics. "+
			"The following metrics were outside the normal range: LDL Cholesterol.",
		answer)
}

func TestBloodNoReportsInRange(t *testing.T) {
	store := newTestStore()

	h := NewBloodHandler(store, fixedResolver())
	answer, _, err := h.Handle(context.Background(), testUser, "glucose this week")
	require.NoError(t, err)
	require.Equal(t, "I couldn't find any blood reports in the specified time range (this week).", answer)
}
