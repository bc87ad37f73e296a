package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mihircjain/localhealthrepo/internal/domain"
)

// Event types emitted by the provider sync pipeline.
const (
	EventActivitySynced   = "activity.synced"
	EventSleepSynced      = "sleep.synced"
	EventFoodSynced       = "food.synced"
	EventWorkoutSynced    = "workout.synced"
	EventMedicationLogged = "medication.logged"
)

// RecordHandler lands decoded sync events as domain records.
type RecordHandler struct {
	writer  domain.RecordWriter
	sources domain.SourceStore
}

// NewRecordHandler constructs a RecordHandler.
func NewRecordHandler(writer domain.RecordWriter, sources domain.SourceStore) *RecordHandler {
	return &RecordHandler{writer: writer, sources: sources}
}

type activityPayload struct {
	ExternalID    string    `json:"external_id"`
	ActivityType  string    `json:"activity_type"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationSec   int       `json:"duration_sec"`
	DistanceM     float64   `json:"distance_m"`
	Calories      float64   `json:"calories"`
	AvgHeartRate  float64   `json:"avg_heart_rate"`
	MaxHeartRate  float64   `json:"max_heart_rate"`
	ElevationGain float64   `json:"elevation_gain"`
	Title         string    `json:"title"`
}

type sleepPayload struct {
	ExternalID   string    `json:"external_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	DurationSec  int       `json:"duration_sec"`
	DeepSec      int       `json:"deep_sec"`
	LightSec     int       `json:"light_sec"`
	REMSec       int       `json:"rem_sec"`
	AwakeSec     int       `json:"awake_sec"`
	Score        int       `json:"score"`
	HeartRateAvg float64   `json:"heart_rate_avg"`
	HeartRateMin float64   `json:"heart_rate_min"`
	HeartRateMax float64   `json:"heart_rate_max"`
}

type foodItemPayload struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type foodPayload struct {
	ExternalID    string            `json:"external_id"`
	MealType      string            `json:"meal_type"`
	ConsumedAt    time.Time         `json:"consumed_at"`
	TotalCalories float64           `json:"total_calories"`
	TotalCarbs    float64           `json:"total_carbs"`
	TotalProtein  float64           `json:"total_protein"`
	TotalFat      float64           `json:"total_fat"`
	TotalFiber    float64           `json:"total_fiber"`
	Items         []foodItemPayload `json:"items"`
}

type workoutExercisePayload struct {
	ExerciseID  string  `json:"exercise_id"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weight_kg"`
	DurationSec int     `json:"duration_sec"`
	DistanceM   float64 `json:"distance_m"`
}

type workoutPayload struct {
	ExternalID     string                   `json:"external_id"`
	Name           string                   `json:"name"`
	Date           time.Time                `json:"date"`
	DurationSec    int                      `json:"duration_sec"`
	CaloriesBurned float64                  `json:"calories_burned"`
	Exercises      []workoutExercisePayload `json:"exercises"`
}

type medicationLogPayload struct {
	UserMedicationID string    `json:"user_medication_id"`
	TakenAt          time.Time `json:"taken_at"`
	DosageTaken      string    `json:"dosage_taken"`
}

// Handle routes one sync event to the matching record writer method.
func (h *RecordHandler) Handle(ctx context.Context, msg Message) error {
	sourceID, err := h.resolveSource(ctx, msg.Source)
	if err != nil {
		return err
	}

	switch msg.EventType {
	case EventActivitySynced:
		var p activityPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode activity payload: %w", err)
		}
		return h.writer.InsertActivity(ctx, domain.Activity{
			UserID:        msg.UserID,
			SourceID:      sourceID,
			ExternalID:    p.ExternalID,
			ActivityType:  p.ActivityType,
			StartTime:     p.StartTime,
			EndTime:       p.EndTime,
			Duration:      p.DurationSec,
			Distance:      p.DistanceM,
			Calories:      p.Calories,
			AvgHeartRate:  p.AvgHeartRate,
			MaxHeartRate:  p.MaxHeartRate,
			ElevationGain: p.ElevationGain,
			Title:         p.Title,
		})

	case EventSleepSynced:
		var p sleepPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode sleep payload: %w", err)
		}
		return h.writer.InsertSleepRecord(ctx, domain.SleepRecord{
			UserID:        msg.UserID,
			SourceID:      sourceID,
			ExternalID:    p.ExternalID,
			StartTime:     p.StartTime,
			EndTime:       p.EndTime,
			Duration:      p.DurationSec,
			DeepDuration:  p.DeepSec,
			LightDuration: p.LightSec,
			REMDuration:   p.REMSec,
			AwakeDuration: p.AwakeSec,
			Score:         p.Score,
			HeartRateAvg:  p.HeartRateAvg,
			HeartRateMin:  p.HeartRateMin,
			HeartRateMax:  p.HeartRateMax,
		})

	case EventFoodSynced:
		var p foodPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode food payload: %w", err)
		}
		items := make([]domain.FoodItem, 0, len(p.Items))
		for _, item := range p.Items {
			items = append(items, domain.FoodItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Unit:     item.Unit,
				Calories: item.Calories,
				Carbs:    item.Carbs,
				Protein:  item.Protein,
				Fat:      item.Fat,
				Fiber:    item.Fiber,
			})
		}
		return h.writer.InsertFoodEntry(ctx, domain.FoodEntry{
			UserID:        msg.UserID,
			SourceID:      sourceID,
			ExternalID:    p.ExternalID,
			MealType:      p.MealType,
			ConsumedAt:    p.ConsumedAt,
			TotalCalories: p.TotalCalories,
			TotalCarbs:    p.TotalCarbs,
			TotalProtein:  p.TotalProtein,
			TotalFat:      p.TotalFat,
			TotalFiber:    p.TotalFiber,
		}, items)

	case EventWorkoutSynced:
		var p workoutPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode workout payload: %w", err)
		}
		exercises := make([]domain.WorkoutExercise, 0, len(p.Exercises))
		for _, ex := range p.Exercises {
			exercises = append(exercises, domain.WorkoutExercise{
				ExerciseID: ex.ExerciseID,
				Sets:       ex.Sets,
				Reps:       ex.Reps,
				Weight:     ex.WeightKg,
				Duration:   ex.DurationSec,
				Distance:   ex.DistanceM,
			})
		}
		return h.writer.InsertWorkout(ctx, domain.Workout{
			UserID:         msg.UserID,
			SourceID:       sourceID,
			ExternalID:     p.ExternalID,
			Name:           p.Name,
			Date:           p.Date,
			Duration:       p.DurationSec,
			CaloriesBurned: p.CaloriesBurned,
		}, exercises)

	case EventMedicationLogged:
		var p medicationLogPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode medication payload: %w", err)
		}
		return h.writer.InsertMedicationLog(ctx, domain.MedicationLog{
			UserMedicationID: p.UserMedicationID,
			TakenAt:          p.TakenAt,
			DosageTaken:      p.DosageTaken,
		})

	default:
		return fmt.Errorf("unknown event type: %s", msg.EventType)
	}
}

func (h *RecordHandler) resolveSource(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	src, err := h.sources.FindSourceByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("resolve source %q: %w", name, err)
	}
	if src == nil {
		return "", nil
	}
	return src.ID, nil
}
