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

// MedicationHandler answers questions about medication intake and adherence.
type MedicationHandler struct {
	meds   domain.MedicationStore
	ranges *timerange.Resolver
}

// NewMedicationHandler constructs a MedicationHandler.
func NewMedicationHandler(meds domain.MedicationStore, ranges *timerange.Resolver) *MedicationHandler {
	return &MedicationHandler{meds: meds, ranges: ranges}
}

// takenDose is one intake event joined with its medication names.
type takenDose struct {
	Name       string
	CustomName string
	TakenAt    time.Time
}

// Handle answers either a single-medication adherence question or an
// intake summary across all tracked medications.
func (h *MedicationHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	used := []string{"Medications"}

	label, start, end := h.ranges.Window(query)

	userMeds, err := h.meds.ListUserMedications(ctx, userID)
	if err != nil {
		return "", used, err
	}
	if len(userMeds) == 0 {
		return "You don't have any medications tracked in the system.", used, nil
	}

	// Join each log with its catalog name up front; both the specific
	// and the summary branch need the flattened view.
	catalog := make(map[string]*domain.Medication, len(userMeds))
	var doses []takenDose
	for _, um := range userMeds {
		logs, err := h.meds.ListMedicationLogs(ctx, um.ID, start, end)
		if err != nil {
			return "", used, err
		}
		med, ok := catalog[um.MedicationID]
		if !ok {
			med, err = h.meds.GetMedication(ctx, um.MedicationID)
			if err != nil {
				return "", used, err
			}
			catalog[um.MedicationID] = med
		}
		name := "Unknown"
		if med != nil {
			name = med.Name
		}
		for _, l := range logs {
			doses = append(doses, takenDose{Name: name, CustomName: um.CustomName, TakenAt: l.TakenAt})
		}
	}

	if len(doses) == 0 {
		return fmt.Sprintf("I couldn't find any medication logs in the specified time range (%s).", label), used, nil
	}

	for _, um := range userMeds {
		med := catalog[um.MedicationID]
		if med == nil || !strings.Contains(query, strings.ToLower(med.Name)) {
			continue
		}
		taken := 0
		for _, d := range doses {
			if strings.EqualFold(d.Name, med.Name) {
				taken++
			}
		}
		if taken == 0 {
			return fmt.Sprintf("I couldn't find any logs for %s in the specified time range (%s).", med.Name, label), used, nil
		}

		rate := float64(taken) / float64(daysInRange(start, end))
		if strings.Contains(strings.ToLower(um.Frequency), "daily") {
			return fmt.Sprintf("You took %s %d times during this period, with an adherence rate of %.0f%% for your daily schedule.",
				med.Name, taken, rate*100), used, nil
		}
		return fmt.Sprintf("You took %s %d times during this period, averaging %.1f doses per day.",
			med.Name, taken, rate), used, nil
	}

	// Summary across every medication.
	counts := make(map[string]int)
	var order []string
	for _, d := range doses {
		name := d.CustomName
		if name == "" {
			name = d.Name
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	answer := fmt.Sprintf("During this period (%s), you took %d medication doses in total. ", label, len(doses))

	answer += "Your most frequently taken medications were: "
	var parts []string
	for i, name := range order {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%d times)", name, counts[name]))
	}
	answer += strings.Join(parts, ", ") + ". "

	dailyMeds := 0
	for _, um := range userMeds {
		if strings.Contains(strings.ToLower(um.Frequency), "daily") {
			dailyMeds++
		}
	}
	if dailyMeds > 0 {
		expected := dailyMeds * daysInRange(start, end)
		adherence := float64(len(doses)) / float64(expected) * 100
		answer += fmt.Sprintf("Your overall medication adherence rate was %.0f%%.", adherence)
	}

	return answer, used, nil
}
