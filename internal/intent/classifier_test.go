package intent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyDominantKeywords(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		query string
		want  Intent
	}{
		{"how far did i run cycling and walking this week", Activity},
		{"what did i eat for breakfast and lunch", Food},
		{"how much deep sleep and rem did i get", Sleep},
		{"show my glucose and cholesterol from the lab report", Blood},
		{"did i take my medication dose yesterday", Medication},
		{"bench and squat strength at the gym", Workout},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, c.Classify(tc.query), "query: %s", tc.query)
	}
}

func TestClassifyTieFallsBackToSummary(t *testing.T) {
	c := NewClassifier()

	// One activity keyword and one sleep keyword, no fallback patterns.
	require.Equal(t, Summary, c.Classify("my run and my sleep"))
}

func TestClassifyZeroScorePatterns(t *testing.T) {
	c := NewClassifier()

	require.Equal(t, Summary, c.Classify("give me an overview"))
	require.Equal(t, Summary, c.Classify("what happened recently"))
}

func TestClassifyComparePatternBreaksTies(t *testing.T) {
	c := NewClassifier()

	// Three-way tie (compare/sleep/run each score one); the compare
	// pattern fallback decides.
	require.Equal(t, Comparison, c.Classify("compare my sleep to my run"))
}

func TestClassifyComparisonKeywords(t *testing.T) {
	c := NewClassifier()

	require.Equal(t, Comparison, c.Classify("difference between versus comparison"))
}
