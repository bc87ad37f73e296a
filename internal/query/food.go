package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

// FoodHandler answers questions about nutrition and logged meals.
type FoodHandler struct {
	food    domain.FoodStore
	sources domain.SourceStore
	ranges  *timerange.Resolver
}

// NewFoodHandler constructs a FoodHandler.
func NewFoodHandler(food domain.FoodStore, sources domain.SourceStore, ranges *timerange.Resolver) *FoodHandler {
	return &FoodHandler{food: food, sources: sources, ranges: ranges}
}

var mealTypes = []string{"breakfast", "lunch", "dinner", "snack"}

// Handle answers macro questions (calories, protein, carbs, fat), per-meal
// questions, or a period nutrition summary.
func (h *FoodHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	var used []string
	if src, err := h.sources.FindSourceByName(ctx, "HealthifyMe"); err != nil {
		return "", used, err
	} else if src != nil {
		used = append(used, "HealthifyMe")
	}

	label, start, end := h.ranges.Window(query)

	entries, err := h.food.ListFoodEntries(ctx, userID, start, end)
	if err != nil {
		return "", used, err
	}
	if len(entries) == 0 {
		return fmt.Sprintf("I couldn't find any food entries in the specified time range (%s).", label), used, nil
	}

	type macro struct {
		keywords []string
		noun     string // follows the total, e.g. "g of protein"
		unit     string // follows the daily average
		total    func(domain.FoodEntry) float64
	}
	macros := []macro{
		{[]string{"calories"}, " calories", " calories", func(e domain.FoodEntry) float64 { return e.TotalCalories }},
		{[]string{"protein"}, "g of protein", "g", func(e domain.FoodEntry) float64 { return e.TotalProtein }},
		{[]string{"carbs", "carbohydrates"}, "g of carbohydrates", "g", func(e domain.FoodEntry) float64 { return e.TotalCarbs }},
		{[]string{"fat"}, "g of fat", "g", func(e domain.FoodEntry) float64 { return e.TotalFat }},
	}
	for _, m := range macros {
		if !containsAny(query, m.keywords...) {
			continue
		}
		total := 0.0
		for _, e := range entries {
			total += m.total(e)
		}
		avg := total / float64(len(entries))
		return fmt.Sprintf("You consumed approximately %.0f%s in total during this period, averaging %.0f%s per day.",
			total, m.noun, avg, m.unit), used, nil
	}

	for _, mealType := range mealTypes {
		if !strings.Contains(query, mealType) {
			continue
		}
		answer, err := h.mealAnswer(ctx, entries, mealType, label)
		return answer, used, err
	}

	// Aggregate summary: daily macro averages plus the meal distribution.
	totalCalories, totalProtein, totalCarbs, totalFat := 0.0, 0.0, 0.0, 0.0
	for _, e := range entries {
		totalCalories += e.TotalCalories
		totalProtein += e.TotalProtein
		totalCarbs += e.TotalCarbs
		totalFat += e.TotalFat
	}

	days := daysInRange(start, end)
	answer := fmt.Sprintf("During this period (%s), you consumed an average of %.0f calories per day, ", label, totalCalories/float64(days))
	answer += fmt.Sprintf("with %.0fg of protein, %.0fg of carbohydrates, and %.0fg of fat. ",
		totalProtein/float64(days), totalCarbs/float64(days), totalFat/float64(days))

	mealOrder := make([]string, 0)
	mealCounts := make(map[string]int)
	for _, e := range entries {
		if _, ok := mealCounts[e.MealType]; !ok {
			mealOrder = append(mealOrder, e.MealType)
		}
		mealCounts[e.MealType]++
	}
	parts := make([]string, 0, len(mealOrder))
	for _, mt := range mealOrder {
		parts = append(parts, fmt.Sprintf("%d %ss", mealCounts[mt], mt))
	}
	answer += fmt.Sprintf("You logged %d meals in total (%s).", len(entries), strings.Join(parts, ", "))

	return answer, used, nil
}

// mealAnswer reports calorie averages and common foods for one meal type.
func (h *FoodHandler) mealAnswer(ctx context.Context, entries []domain.FoodEntry, mealType, label string) (string, error) {
	var mealEntries []domain.FoodEntry
	for _, e := range entries {
		if e.MealType == mealType {
			mealEntries = append(mealEntries, e)
		}
	}
	if len(mealEntries) == 0 {
		return fmt.Sprintf("I couldn't find any %s entries in the specified time range (%s).", mealType, label), nil
	}

	totalCalories := 0.0
	for _, e := range mealEntries {
		totalCalories += e.TotalCalories
	}
	avgCalories := totalCalories / float64(len(mealEntries))

	nameOrder := make([]string, 0)
	nameCounts := make(map[string]int)
	for _, e := range mealEntries {
		items, err := h.food.ListFoodItems(ctx, e.ID)
		if err != nil {
			return "", err
		}
		for _, item := range items {
			if _, ok := nameCounts[item.Name]; !ok {
				nameOrder = append(nameOrder, item.Name)
			}
			nameCounts[item.Name]++
		}
	}

	sort.SliceStable(nameOrder, func(i, j int) bool {
		return nameCounts[nameOrder[i]] > nameCounts[nameOrder[j]]
	})
	if len(nameOrder) > 3 {
		nameOrder = nameOrder[:3]
	}

	return fmt.Sprintf("For %s, you consumed an average of %.0f calories. Your most common foods were %s.",
		mealType, avgCalories, strings.Join(nameOrder, ", ")), nil
}
