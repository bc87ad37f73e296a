// Package intent routes query text to a coarse health-data category by
// keyword scoring. There is deliberately no language model here: scoring is
// plain substring containment so routing stays deterministic.
package intent

import "strings"

// Intent is the coarse category a query is routed to.
type Intent string

const (
	Activity   Intent = "activity"
	Food       Intent = "food"
	Sleep      Intent = "sleep"
	Blood      Intent = "blood"
	Medication Intent = "medication"
	Workout    Intent = "workout"
	Summary    Intent = "summary"
	Comparison Intent = "comparison"
)

// keywordTable maps each intent to its fixed keyword list. Built once at
// init and treated as immutable; the Classifier captures it by reference
// instead of consulting a mutable global.
var keywordTable = map[Intent][]string{
	Activity:   {"activity", "activities", "run", "running", "walk", "walking", "cycle", "cycling", "steps", "distance", "strava"},
	Food:       {"food", "eat", "eating", "nutrition", "diet", "calories", "carbs", "protein", "fat", "meal", "breakfast", "lunch", "dinner", "snack", "healthifyme"},
	Sleep:      {"sleep", "slept", "bedtime", "wake", "rem", "deep", "light", "apple health", "oura", "fitbit"},
	Blood:      {"blood", "test", "report", "cholesterol", "glucose", "hemoglobin", "lab"},
	Medication: {"medication", "medicine", "pill", "drug", "prescription", "dose", "dosage"},
	Workout:    {"workout", "exercise", "gym", "weight", "strength", "training", "hevy", "bench", "squat", "deadlift"},
	Summary:    {"summary", "overall", "health", "status", "dashboard", "overview"},
	Comparison: {"compare", "comparison", "versus", "vs", "difference", "between", "than"},
}

// Classifier scores query text against per-intent keyword sets.
type Classifier struct {
	keywords map[Intent][]string
}

// NewClassifier constructs a Classifier over the fixed keyword table.
func NewClassifier() *Classifier {
	return &Classifier{keywords: keywordTable}
}

// Classify picks the intent for the given query text. The text is expected
// to be lower-cased and trimmed by the caller. A unique top scorer wins;
// a zero max or a tie falls through to explicit pattern checks, and the
// final default is Summary.
func (c *Classifier) Classify(query string) Intent {
	scores := make(map[Intent]int, len(c.keywords))
	for in, words := range c.keywords {
		for _, word := range words {
			if strings.Contains(query, word) {
				scores[in]++
			}
		}
	}

	maxScore := 0
	for _, score := range scores {
		if score > maxScore {
			maxScore = score
		}
	}

	if maxScore > 0 {
		var top []Intent
		for in, score := range scores {
			if score == maxScore {
				top = append(top, in)
			}
		}
		if len(top) == 1 {
			return top[0]
		}
	}

	// No clear winner: fall back to explicit patterns, then Summary.
	if strings.Contains(query, "compare") || strings.Contains(query, " vs ") || strings.Contains(query, "versus") {
		return Comparison
	}
	for _, word := range []string{"summary", "overview", "dashboard"} {
		if strings.Contains(query, word) {
			return Summary
		}
	}
	return Summary
}
