// Package domain defines the health record entities and store contracts
// shared by the query engine, the insight generator, and the ingestion edge.
package domain

import "time"

// Activity is a single tracked activity (run, ride, swim, ...) imported from
// a provider such as Strava. Durations are stored in seconds and distances
// in meters; zero means the provider did not report the value.
type Activity struct {
	ID            string
	UserID        string
	SourceID      string
	ExternalID    string
	ActivityType  string
	StartTime     time.Time
	EndTime       time.Time
	Duration      int
	Distance      float64
	Calories      float64
	AvgHeartRate  float64
	MaxHeartRate  float64
	ElevationGain float64
	Title         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FoodEntry is one logged meal with aggregate macro totals. The totals are
// provider-supplied and are never recomputed from the child items.
type FoodEntry struct {
	ID            string
	UserID        string
	SourceID      string
	ExternalID    string
	MealType      string
	ConsumedAt    time.Time
	TotalCalories float64
	TotalCarbs    float64
	TotalProtein  float64
	TotalFat      float64
	TotalFiber    float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FoodItem is a single food within a meal entry.
type FoodItem struct {
	ID          string
	FoodEntryID string
	Name        string
	Quantity    float64
	Unit        string
	Calories    float64
	Carbs       float64
	Protein     float64
	Fat         float64
	Fiber       float64
}

// SleepRecord is one night of sleep with phase durations in seconds and an
// optional 0-100 score (zero means no score was reported).
type SleepRecord struct {
	ID            string
	UserID        string
	SourceID      string
	ExternalID    string
	StartTime     time.Time
	EndTime       time.Time
	Duration      int
	DeepDuration  int
	LightDuration int
	REMDuration   int
	AwakeDuration int
	Score         int
	HeartRateAvg  float64
	HeartRateMin  float64
	HeartRateMax  float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BloodReport groups the metrics extracted from one lab report.
type BloodReport struct {
	ID         string
	UserID     string
	ReportDate time.Time
	Name       string
	Provider   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BloodMetric is one measured value inside a blood report. IsNormal is
// tri-state: nil when the report did not flag the value either way.
type BloodMetric struct {
	ID             string
	BloodReportID  string
	Name           string
	Value          float64
	Unit           string
	ReferenceRange string
	IsNormal       *bool
}

// Medication is a catalog entry describing a drug independent of any user.
type Medication struct {
	ID             string
	Name           string
	GenericName    string
	MedicationType string
	StandardDosage string
}

// UserMedication links a catalog medication to a user with their personal
// dosage and frequency ("once daily", "twice daily", ...).
type UserMedication struct {
	ID           string
	UserID       string
	MedicationID string
	CustomName   string
	Dosage       string
	Frequency    string
	StartDate    time.Time
	EndDate      time.Time
}

// MedicationLog is one recorded intake event. DosageTaken overrides the
// prescription dosage when set.
type MedicationLog struct {
	ID               string
	UserMedicationID string
	TakenAt          time.Time
	DosageTaken      string
}

// Workout is one strength-training session imported from a provider such as
// Hevy. Duration is in seconds.
type Workout struct {
	ID             string
	UserID         string
	SourceID       string
	ExternalID     string
	Name           string
	Date           time.Time
	Duration       int
	CaloriesBurned float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Exercise is a catalog entry referenced by workout exercises.
type Exercise struct {
	ID          string
	Name        string
	MuscleGroup string
	Type        string
}

// WorkoutExercise records sets/reps/weight (or duration/distance for timed
// and distance exercises) for one exercise inside a workout.
type WorkoutExercise struct {
	ID         string
	WorkoutID  string
	ExerciseID string
	Sets       int
	Reps       int
	Weight     float64
	Duration   int
	Distance   float64
}

// DataSource is a named origin catalog entry (Strava, HealthifyMe, ...).
type DataSource struct {
	ID         string
	Name       string
	SourceType string
}

// UserQuery is the persisted record of one submitted question. ResponseText
// and SourcesUsed are attached once after the query is answered.
type UserQuery struct {
	ID           string
	UserID       string
	QueryText    string
	QueryTime    time.Time
	ResponseText string
	SourcesUsed  []string
}

// InsightType tags the kind of observation an insight carries.
type InsightType string

const (
	InsightTrend          InsightType = "trend"
	InsightCorrelation    InsightType = "correlation"
	InsightRecommendation InsightType = "recommendation"
	InsightObservation    InsightType = "observation"
	InsightHighlight      InsightType = "highlight"
)

// Insight is a scored, typed observation derived from a user's records over
// a window. The full set per user is replaced on every generation run.
type Insight struct {
	ID          string
	UserID      string
	Type        InsightType
	Text        string
	DataSources []string
	Relevance   float64
	StartDate   time.Time
	EndDate     time.Time
	IsRead      bool
	CreatedAt   time.Time
}
