package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

// SleepHandler answers questions about sleep records.
type SleepHandler struct {
	sleep   domain.SleepStore
	sources domain.SourceStore
	ranges  *timerange.Resolver
}

// NewSleepHandler constructs a SleepHandler.
func NewSleepHandler(sleep domain.SleepStore, sources domain.SourceStore, ranges *timerange.Resolver) *SleepHandler {
	return &SleepHandler{sleep: sleep, sources: sources, ranges: ranges}
}

// Handle answers phase questions (deep sleep, REM), nightly heart rate,
// sleep score, or a period sleep summary.
func (h *SleepHandler) Handle(ctx context.Context, userID, query string) (string, []string, error) {
	var used []string
	sleepSources, err := h.sources.ListSourcesByType(ctx, "sleep")
	if err != nil {
		return "", used, err
	}
	for _, src := range sleepSources {
		used = append(used, src.Name)
	}

	label, start, end := h.ranges.Window(query)

	records, err := h.sleep.ListSleepRecords(ctx, userID, start, end)
	if err != nil {
		return "", used, err
	}
	if len(records) == 0 {
		return fmt.Sprintf("I couldn't find any sleep records in the specified time range (%s).", label), used, nil
	}

	if strings.Contains(query, "deep sleep") {
		sum, count := 0, 0
		for _, r := range records {
			if r.DeepDuration != 0 {
				sum += r.DeepDuration
				count++
			}
		}
		if count == 0 {
			return "I couldn't find any deep sleep data for this period.", used, nil
		}
		return fmt.Sprintf("You averaged %.1f hours of deep sleep per night during this period.",
			float64(sum)/float64(count)/3600), used, nil
	}

	if strings.Contains(query, "rem") {
		sum, count := 0, 0
		for _, r := range records {
			if r.REMDuration != 0 {
				sum += r.REMDuration
				count++
			}
		}
		if count == 0 {
			return "I couldn't find any REM sleep data for this period.", used, nil
		}
		return fmt.Sprintf("You averaged %.1f hours of REM sleep per night during this period.",
			float64(sum)/float64(count)/3600), used, nil
	}

	if containsAny(query, "heart rate", "heartrate") {
		sumHR, countHR := 0.0, 0
		minHR := 0.0
		for _, r := range records {
			if r.HeartRateAvg == 0 {
				continue
			}
			sumHR += r.HeartRateAvg
			countHR++
			if r.HeartRateMin != 0 && (minHR == 0 || r.HeartRateMin < minHR) {
				minHR = r.HeartRateMin
			}
		}
		if countHR == 0 {
			return "I couldn't find any heart rate data during sleep for this period.", used, nil
		}
		return fmt.Sprintf("Your average heart rate during sleep was %.0f bpm, with a minimum of %.0f bpm.",
			sumHR/float64(countHR), minHR), used, nil
	}

	if strings.Contains(query, "score") {
		sum, count, maxScore := 0, 0, 0
		for _, r := range records {
			if r.Score == 0 {
				continue
			}
			sum += r.Score
			count++
			if r.Score > maxScore {
				maxScore = r.Score
			}
		}
		if count == 0 {
			return "I couldn't find any sleep score data for this period.", used, nil
		}
		var bestDate string
		for _, r := range records {
			if r.Score == maxScore {
				bestDate = r.StartTime.Format("Monday, January 02")
				break
			}
		}
		return fmt.Sprintf("Your average sleep score was %.0f/100. Your best night was %s with a score of %d.",
			float64(sum)/float64(count), bestDate, maxScore), used, nil
	}

	// Aggregate summary: average duration, phase split, and score.
	totalDuration := 0
	for _, r := range records {
		totalDuration += r.Duration
	}
	avgDuration := float64(totalDuration) / float64(len(records))

	avgDeep := phaseAverage(records, func(r domain.SleepRecord) int { return r.DeepDuration })
	avgLight := phaseAverage(records, func(r domain.SleepRecord) int { return r.LightDuration })
	avgREM := phaseAverage(records, func(r domain.SleepRecord) int { return r.REMDuration })

	sumScore, countScore := 0, 0
	for _, r := range records {
		if r.Score != 0 {
			sumScore += r.Score
			countScore++
		}
	}

	answer := fmt.Sprintf("During this period (%s), you slept an average of %.1f hours per night. ", label, avgDuration/3600)
	if avgDeep > 0 {
		answer += fmt.Sprintf("Your sleep consisted of %.1f hours of deep sleep, ", avgDeep/3600)
	}
	if avgLight > 0 {
		answer += fmt.Sprintf("%.1f hours of light sleep, ", avgLight/3600)
	}
	if avgREM > 0 {
		answer += fmt.Sprintf("and %.1f hours of REM sleep. ", avgREM/3600)
	}
	if countScore > 0 {
		answer += fmt.Sprintf("Your average sleep score was %.0f/100.", float64(sumScore)/float64(countScore))
	}

	return answer, used, nil
}

// phaseAverage averages a sleep phase over the records that report it.
func phaseAverage(records []domain.SleepRecord, phase func(domain.SleepRecord) int) float64 {
	sum, count := 0, 0
	for _, r := range records {
		if v := phase(r); v != 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
