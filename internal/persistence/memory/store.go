// Package memory provides an in-memory Store for local development and
// tests. Ordering guarantees match the postgres implementation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mihircjain/localhealthrepo/internal/domain"
)

// Store keeps every record in process memory behind one RWMutex.
type Store struct {
	mu sync.RWMutex

	users           map[string]struct{}
	sources         []domain.DataSource
	activities      []domain.Activity
	foodEntries     []domain.FoodEntry
	foodItems       map[string][]domain.FoodItem
	sleepRecords    []domain.SleepRecord
	bloodReports    []domain.BloodReport
	bloodMetrics    map[string][]domain.BloodMetric
	medications     map[string]domain.Medication
	userMedications []domain.UserMedication
	medicationLogs  map[string][]domain.MedicationLog
	workouts        []domain.Workout
	exercises       []domain.Exercise
	workoutSets     map[string][]domain.WorkoutExercise
	queries         []domain.UserQuery
	insights        map[string][]domain.Insight
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		users:          make(map[string]struct{}),
		foodItems:      make(map[string][]domain.FoodItem),
		bloodMetrics:   make(map[string][]domain.BloodMetric),
		medications:    make(map[string]domain.Medication),
		medicationLogs: make(map[string][]domain.MedicationLog),
		workoutSets:    make(map[string][]domain.WorkoutExercise),
		insights:       make(map[string][]domain.Insight),
	}
}

// AddUser registers a user id.
func (s *Store) AddUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
}

// AddSource registers a data source catalog entry.
func (s *Store) AddSource(source domain.DataSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	s.sources = append(s.sources, source)
}

// AddBloodReport stores a report together with its metrics.
func (s *Store) AddBloodReport(report domain.BloodReport, metrics []domain.BloodMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	for i := range metrics {
		if metrics[i].ID == "" {
			metrics[i].ID = uuid.NewString()
		}
		metrics[i].BloodReportID = report.ID
	}
	s.bloodReports = append(s.bloodReports, report)
	s.bloodMetrics[report.ID] = metrics
}

// AddMedication registers a catalog medication.
func (s *Store) AddMedication(med domain.Medication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if med.ID == "" {
		med.ID = uuid.NewString()
	}
	s.medications[med.ID] = med
}

// AddUserMedication links a medication to a user.
func (s *Store) AddUserMedication(um domain.UserMedication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if um.ID == "" {
		um.ID = uuid.NewString()
	}
	s.userMedications = append(s.userMedications, um)
}

// AddExercise registers an exercise catalog entry.
func (s *Store) AddExercise(exercise domain.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exercise.ID == "" {
		exercise.ID = uuid.NewString()
	}
	s.exercises = append(s.exercises, exercise)
}

// UserExists implements domain.UserStore.
func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

// FindSourceByName returns the source with the exact name, or nil.
func (s *Store) FindSourceByName(ctx context.Context, name string) (*domain.DataSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, src := range s.sources {
		if src.Name == name {
			out := src
			return &out, nil
		}
	}
	return nil, nil
}

// ListSourcesByType returns every source of the given type in insertion
// order.
func (s *Store) ListSourcesByType(ctx context.Context, sourceType string) ([]domain.DataSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DataSource
	for _, src := range s.sources {
		if src.SourceType == sourceType {
			out = append(out, src)
		}
	}
	return out, nil
}

// ListActivities implements domain.ActivityStore, newest first.
func (s *Store) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Activity
	for _, a := range s.activities {
		if a.UserID == userID && within(a.StartTime, start, end) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// ListFoodEntries implements domain.FoodStore, newest first.
func (s *Store) ListFoodEntries(ctx context.Context, userID string, start, end time.Time) ([]domain.FoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.FoodEntry
	for _, e := range s.foodEntries {
		if e.UserID == userID && within(e.ConsumedAt, start, end) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConsumedAt.After(out[j].ConsumedAt) })
	return out, nil
}

// ListFoodItems returns the items belonging to one food entry.
func (s *Store) ListFoodItems(ctx context.Context, foodEntryID string) ([]domain.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FoodItem(nil), s.foodItems[foodEntryID]...), nil
}

// ListSleepRecords implements domain.SleepStore, newest first.
func (s *Store) ListSleepRecords(ctx context.Context, userID string, start, end time.Time) ([]domain.SleepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SleepRecord
	for _, r := range s.sleepRecords {
		if r.UserID == userID && within(r.StartTime, start, end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

// ListBloodReports implements domain.BloodStore, newest report first.
func (s *Store) ListBloodReports(ctx context.Context, userID string, start, end time.Time) ([]domain.BloodReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.BloodReport
	for _, r := range s.bloodReports {
		if r.UserID == userID && within(r.ReportDate, start, end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReportDate.After(out[j].ReportDate) })
	return out, nil
}

// ListBloodMetrics returns every metric of one report.
func (s *Store) ListBloodMetrics(ctx context.Context, reportID string) ([]domain.BloodMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.BloodMetric(nil), s.bloodMetrics[reportID]...), nil
}

// SearchBloodMetrics returns metrics whose name contains the fragment,
// case-insensitively.
func (s *Store) SearchBloodMetrics(ctx context.Context, reportID, nameFragment string) ([]domain.BloodMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fragment := strings.ToLower(nameFragment)
	var out []domain.BloodMetric
	for _, m := range s.bloodMetrics[reportID] {
		if strings.Contains(strings.ToLower(m.Name), fragment) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListUserMedications implements domain.MedicationStore.
func (s *Store) ListUserMedications(ctx context.Context, userID string) ([]domain.UserMedication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.UserMedication
	for _, um := range s.userMedications {
		if um.UserID == userID {
			out = append(out, um)
		}
	}
	return out, nil
}

// GetMedication returns a catalog medication, or nil when unknown.
func (s *Store) GetMedication(ctx context.Context, medicationID string) (*domain.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	med, ok := s.medications[medicationID]
	if !ok {
		return nil, nil
	}
	return &med, nil
}

// ListMedicationLogs returns intake events within the window.
func (s *Store) ListMedicationLogs(ctx context.Context, userMedicationID string, start, end time.Time) ([]domain.MedicationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MedicationLog
	for _, l := range s.medicationLogs[userMedicationID] {
		if within(l.TakenAt, start, end) {
			out = append(out, l)
		}
	}
	return out, nil
}

// ListWorkouts implements domain.WorkoutStore, newest first.
func (s *Store) ListWorkouts(ctx context.Context, userID string, start, end time.Time) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Workout
	for _, w := range s.workouts {
		if w.UserID == userID && within(w.Date, start, end) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ListWorkoutExercises returns the exercises of one workout.
func (s *Store) ListWorkoutExercises(ctx context.Context, workoutID string) ([]domain.WorkoutExercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.WorkoutExercise(nil), s.workoutSets[workoutID]...), nil
}

// FindExerciseByName returns the first exercise whose name contains the
// fragment case-insensitively, or nil.
func (s *Store) FindExerciseByName(ctx context.Context, name string) (*domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fragment := strings.ToLower(name)
	for _, ex := range s.exercises {
		if strings.Contains(strings.ToLower(ex.Name), fragment) {
			out := ex
			return &out, nil
		}
	}
	return nil, nil
}

// CreateQuery implements domain.QueryStore.
func (s *Store) CreateQuery(ctx context.Context, query *domain.UserQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query.ID == "" {
		query.ID = uuid.NewString()
	}
	s.queries = append(s.queries, *query)
	return nil
}

// AttachResponse records the answer on an existing query row.
func (s *Store) AttachResponse(ctx context.Context, queryID, responseText string, sources []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.queries {
		if s.queries[i].ID == queryID {
			s.queries[i].ResponseText = responseText
			s.queries[i].SourcesUsed = append([]string(nil), sources...)
			return nil
		}
	}
	return domain.ErrQueryNotFound
}

// ListQueries returns a user's queries newest first with limit and offset.
func (s *Store) ListQueries(ctx context.Context, userID string, limit, offset int) ([]domain.UserQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.UserQuery
	for _, q := range s.queries {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].QueryTime.After(out[j].QueryTime) })
	return page(out, limit, offset), nil
}

// CountQueries counts a user's stored queries.
func (s *Store) CountQueries(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, q := range s.queries {
		if q.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ReplaceInsights swaps the user's insight set atomically.
func (s *Store) ReplaceInsights(ctx context.Context, userID string, insights []domain.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights[userID] = append([]domain.Insight(nil), insights...)
	return nil
}

// ListInsights returns insights ordered by relevance descending.
func (s *Store) ListInsights(ctx context.Context, userID string, limit, offset int) ([]domain.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.Insight(nil), s.insights[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return page(out, limit, offset), nil
}

// CountInsights counts the user's stored insights.
func (s *Store) CountInsights(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.insights[userID]), nil
}

// MarkInsightRead flags one insight as read.
func (s *Store) MarkInsightRead(ctx context.Context, insightID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID := range s.insights {
		for i := range s.insights[userID] {
			if s.insights[userID][i].ID == insightID {
				s.insights[userID][i].IsRead = true
				return nil
			}
		}
	}
	return domain.ErrInsightNotFound
}

// InsertActivity implements domain.RecordWriter.
func (s *Store) InsertActivity(ctx context.Context, activity domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	s.activities = append(s.activities, activity)
	return nil
}

// InsertSleepRecord implements domain.RecordWriter.
func (s *Store) InsertSleepRecord(ctx context.Context, record domain.SleepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	s.sleepRecords = append(s.sleepRecords, record)
	return nil
}

// InsertFoodEntry stores the entry together with its items.
func (s *Store) InsertFoodEntry(ctx context.Context, entry domain.FoodEntry, items []domain.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].FoodEntryID = entry.ID
	}
	s.foodEntries = append(s.foodEntries, entry)
	s.foodItems[entry.ID] = items
	return nil
}

// InsertWorkout stores the workout together with its exercises.
func (s *Store) InsertWorkout(ctx context.Context, workout domain.Workout, exercises []domain.WorkoutExercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = uuid.NewString()
		}
		exercises[i].WorkoutID = workout.ID
	}
	s.workouts = append(s.workouts, workout)
	s.workoutSets[workout.ID] = exercises
	return nil
}

// InsertMedicationLog implements domain.RecordWriter.
func (s *Store) InsertMedicationLog(ctx context.Context, log domain.MedicationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	s.medicationLogs[log.UserMedicationID] = append(s.medicationLogs[log.UserMedicationID], log)
	return nil
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]T(nil), items...)
}
