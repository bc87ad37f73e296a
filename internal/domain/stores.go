package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserNotFound indicates the user id does not resolve to a known user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInsightNotFound is returned when an insight cannot be located.
	ErrInsightNotFound = errors.New("insight not found")
	// ErrQueryNotFound is returned when a query record cannot be located.
	ErrQueryNotFound = errors.New("query not found")
)

// UserStore resolves user identities.
type UserStore interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// SourceStore looks up the data source catalog.
type SourceStore interface {
	FindSourceByName(ctx context.Context, name string) (*DataSource, error)
	ListSourcesByType(ctx context.Context, sourceType string) ([]DataSource, error)
}

// ActivityStore reads activities. Lists are ordered by start time descending.
type ActivityStore interface {
	ListActivities(ctx context.Context, userID string, start, end time.Time) ([]Activity, error)
}

// FoodStore reads food entries and their items. Entries are ordered by
// consumed-at descending; items are fetched explicitly per entry.
type FoodStore interface {
	ListFoodEntries(ctx context.Context, userID string, start, end time.Time) ([]FoodEntry, error)
	ListFoodItems(ctx context.Context, foodEntryID string) ([]FoodItem, error)
}

// SleepStore reads sleep records ordered by start time descending.
type SleepStore interface {
	ListSleepRecords(ctx context.Context, userID string, start, end time.Time) ([]SleepRecord, error)
}

// BloodStore reads blood reports and their metrics. Reports are ordered by
// report date descending. SearchMetrics matches the metric name
// case-insensitively as a substring.
type BloodStore interface {
	ListBloodReports(ctx context.Context, userID string, start, end time.Time) ([]BloodReport, error)
	ListBloodMetrics(ctx context.Context, reportID string) ([]BloodMetric, error)
	SearchBloodMetrics(ctx context.Context, reportID, nameFragment string) ([]BloodMetric, error)
}

// MedicationStore reads a user's medication schedule and intake logs.
type MedicationStore interface {
	ListUserMedications(ctx context.Context, userID string) ([]UserMedication, error)
	GetMedication(ctx context.Context, medicationID string) (*Medication, error)
	ListMedicationLogs(ctx context.Context, userMedicationID string, start, end time.Time) ([]MedicationLog, error)
}

// WorkoutStore reads workouts, their exercises, and the exercise catalog.
// Workouts are ordered by date descending. FindExerciseByName matches
// case-insensitively as a substring and returns nil when nothing matches.
type WorkoutStore interface {
	ListWorkouts(ctx context.Context, userID string, start, end time.Time) ([]Workout, error)
	ListWorkoutExercises(ctx context.Context, workoutID string) ([]WorkoutExercise, error)
	FindExerciseByName(ctx context.Context, name string) (*Exercise, error)
}

// QueryStore persists submitted queries and their responses.
type QueryStore interface {
	CreateQuery(ctx context.Context, query *UserQuery) error
	AttachResponse(ctx context.Context, queryID, responseText string, sources []string) error
	ListQueries(ctx context.Context, userID string, limit, offset int) ([]UserQuery, error)
	CountQueries(ctx context.Context, userID string) (int, error)
}

// InsightStore persists generated insights. ReplaceInsights atomically
// deletes the user's existing set and inserts the new one; listing is
// ordered by relevance descending.
type InsightStore interface {
	ReplaceInsights(ctx context.Context, userID string, insights []Insight) error
	ListInsights(ctx context.Context, userID string, limit, offset int) ([]Insight, error)
	CountInsights(ctx context.Context, userID string) (int, error)
	MarkInsightRead(ctx context.Context, insightID string) error
}

// RecordWriter is the ingestion edge's write surface. Provider sync events
// land here; the query engine itself never writes domain records.
type RecordWriter interface {
	InsertActivity(ctx context.Context, activity Activity) error
	InsertSleepRecord(ctx context.Context, record SleepRecord) error
	InsertFoodEntry(ctx context.Context, entry FoodEntry, items []FoodItem) error
	InsertWorkout(ctx context.Context, workout Workout, exercises []WorkoutExercise) error
	InsertMedicationLog(ctx context.Context, log MedicationLog) error
}

// Store bundles every read/write surface a fully wired deployment needs.
type Store interface {
	UserStore
	SourceStore
	ActivityStore
	FoodStore
	SleepStore
	BloodStore
	MedicationStore
	WorkoutStore
	QueryStore
	InsightStore
	RecordWriter
}
