// Package postgres provides the pgx-backed Store implementation.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mihircjain/localhealthrepo/internal/domain"
)

// Repository provides Postgres-backed persistence for every health record
// type, the query log, and the insight set.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UserExists implements domain.UserStore.
func (r *Repository) UserExists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindSourceByName returns the data source with the exact name, or nil.
func (r *Repository) FindSourceByName(ctx context.Context, name string) (*domain.DataSource, error) {
	const query = `SELECT source_id, name, source_type FROM data_sources WHERE name=$1`
	var src domain.DataSource
	if err := r.pool.QueryRow(ctx, query, name).Scan(&src.ID, &src.Name, &src.SourceType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &src, nil
}

// ListSourcesByType returns sources of one type ordered by name.
func (r *Repository) ListSourcesByType(ctx context.Context, sourceType string) ([]domain.DataSource, error) {
	const query = `SELECT source_id, name, source_type FROM data_sources WHERE source_type=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, sourceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DataSource
	for rows.Next() {
		var src domain.DataSource
		if err := rows.Scan(&src.ID, &src.Name, &src.SourceType); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// ListActivities implements domain.ActivityStore, newest first.
func (r *Repository) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]domain.Activity, error) {
	const query = `SELECT activity_id, user_id, COALESCE(source_id,''), COALESCE(external_id,''), activity_type, start_time, COALESCE(end_time, start_time), duration_sec, distance_m, calories, avg_heart_rate, max_heart_rate, elevation_gain, title, created_at, updated_at
        FROM activities WHERE user_id=$1 AND start_time>=$2 AND start_time<=$3 ORDER BY start_time DESC`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.SourceID, &a.ExternalID, &a.ActivityType, &a.StartTime, &a.EndTime, &a.Duration, &a.Distance, &a.Calories, &a.AvgHeartRate, &a.MaxHeartRate, &a.ElevationGain, &a.Title, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListFoodEntries implements domain.FoodStore, newest first.
func (r *Repository) ListFoodEntries(ctx context.Context, userID string, start, end time.Time) ([]domain.FoodEntry, error) {
	const query = `SELECT food_entry_id, user_id, COALESCE(source_id,''), COALESCE(external_id,''), meal_type, consumed_at, total_calories, total_carbs, total_protein, total_fat, total_fiber, created_at, updated_at
        FROM food_entries WHERE user_id=$1 AND consumed_at>=$2 AND consumed_at<=$3 ORDER BY consumed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FoodEntry
	for rows.Next() {
		var e domain.FoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.SourceID, &e.ExternalID, &e.MealType, &e.ConsumedAt, &e.TotalCalories, &e.TotalCarbs, &e.TotalProtein, &e.TotalFat, &e.TotalFiber, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListFoodItems returns the items belonging to one entry.
func (r *Repository) ListFoodItems(ctx context.Context, foodEntryID string) ([]domain.FoodItem, error) {
	const query = `SELECT food_item_id, food_entry_id, name, quantity, unit, calories, carbs, protein, fat, fiber
        FROM food_items WHERE food_entry_id=$1`

	rows, err := r.pool.Query(ctx, query, foodEntryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FoodItem
	for rows.Next() {
		var item domain.FoodItem
		if err := rows.Scan(&item.ID, &item.FoodEntryID, &item.Name, &item.Quantity, &item.Unit, &item.Calories, &item.Carbs, &item.Protein, &item.Fat, &item.Fiber); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListSleepRecords implements domain.SleepStore, newest first.
func (r *Repository) ListSleepRecords(ctx context.Context, userID string, start, end time.Time) ([]domain.SleepRecord, error) {
	const query = `SELECT sleep_record_id, user_id, COALESCE(source_id,''), COALESCE(external_id,''), start_time, COALESCE(end_time, start_time), duration_sec, deep_sec, light_sec, rem_sec, awake_sec, score, heart_rate_avg, heart_rate_min, heart_rate_max, created_at, updated_at
        FROM sleep_records WHERE user_id=$1 AND start_time>=$2 AND start_time<=$3 ORDER BY start_time DESC`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SleepRecord
	for rows.Next() {
		var rec domain.SleepRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SourceID, &rec.ExternalID, &rec.StartTime, &rec.EndTime, &rec.Duration, &rec.DeepDuration, &rec.LightDuration, &rec.REMDuration, &rec.AwakeDuration, &rec.Score, &rec.HeartRateAvg, &rec.HeartRateMin, &rec.HeartRateMax, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListBloodReports implements domain.BloodStore, newest report first.
func (r *Repository) ListBloodReports(ctx context.Context, userID string, start, end time.Time) ([]domain.BloodReport, error) {
	const query = `SELECT blood_report_id, user_id, report_date, name, provider, created_at, updated_at
        FROM blood_reports WHERE user_id=$1 AND report_date>=$2 AND report_date<=$3 ORDER BY report_date DESC`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BloodReport
	for rows.Next() {
		var rep domain.BloodReport
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.ReportDate, &rep.Name, &rep.Provider, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// ListBloodMetrics returns every metric of one report.
func (r *Repository) ListBloodMetrics(ctx context.Context, reportID string) ([]domain.BloodMetric, error) {
	const query = `SELECT blood_metric_id, blood_report_id, name, value, unit, reference_range, is_normal
        FROM blood_metrics WHERE blood_report_id=$1`
	return r.scanMetrics(ctx, query, reportID)
}

// SearchBloodMetrics filters one report's metrics by a case-insensitive
// name fragment.
func (r *Repository) SearchBloodMetrics(ctx context.Context, reportID, nameFragment string) ([]domain.BloodMetric, error) {
	const query = `SELECT blood_metric_id, blood_report_id, name, value, unit, reference_range, is_normal
        FROM blood_metrics WHERE blood_report_id=$1 AND name ILIKE '%' || $2 || '%'`
	return r.scanMetrics(ctx, query, reportID, nameFragment)
}

func (r *Repository) scanMetrics(ctx context.Context, query string, args ...interface{}) ([]domain.BloodMetric, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BloodMetric
	for rows.Next() {
		var m domain.BloodMetric
		if err := rows.Scan(&m.ID, &m.BloodReportID, &m.Name, &m.Value, &m.Unit, &m.ReferenceRange, &m.IsNormal); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListUserMedications implements domain.MedicationStore.
func (r *Repository) ListUserMedications(ctx context.Context, userID string) ([]domain.UserMedication, error) {
	const query = `SELECT user_medication_id, user_id, medication_id, custom_name, dosage, frequency, COALESCE(start_date, 'epoch'::timestamptz), COALESCE(end_date, 'epoch'::timestamptz)
        FROM user_medications WHERE user_id=$1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserMedication
	for rows.Next() {
		var um domain.UserMedication
		if err := rows.Scan(&um.ID, &um.UserID, &um.MedicationID, &um.CustomName, &um.Dosage, &um.Frequency, &um.StartDate, &um.EndDate); err != nil {
			return nil, err
		}
		out = append(out, um)
	}
	return out, rows.Err()
}

// GetMedication returns a catalog medication, or nil when unknown.
func (r *Repository) GetMedication(ctx context.Context, medicationID string) (*domain.Medication, error) {
	const query = `SELECT medication_id, name, generic_name, medication_type, standard_dosage FROM medications WHERE medication_id=$1`
	var med domain.Medication
	if err := r.pool.QueryRow(ctx, query, medicationID).Scan(&med.ID, &med.Name, &med.GenericName, &med.MedicationType, &med.StandardDosage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &med, nil
}

// ListMedicationLogs returns intake events within the window.
func (r *Repository) ListMedicationLogs(ctx context.Context, userMedicationID string, start, end time.Time) ([]domain.MedicationLog, error) {
	const query = `SELECT medication_log_id, user_medication_id, taken_at, dosage_taken
        FROM medication_logs WHERE user_medication_id=$1 AND taken_at>=$2 AND taken_at<=$3 ORDER BY taken_at`

	rows, err := r.pool.Query(ctx, query, userMedicationID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MedicationLog
	for rows.Next() {
		var l domain.MedicationLog
		if err := rows.Scan(&l.ID, &l.UserMedicationID, &l.TakenAt, &l.DosageTaken); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListWorkouts implements domain.WorkoutStore, newest first.
func (r *Repository) ListWorkouts(ctx context.Context, userID string, start, end time.Time) ([]domain.Workout, error) {
	const query = `SELECT workout_id, user_id, COALESCE(source_id,''), COALESCE(external_id,''), name, workout_date, duration_sec, calories_burned, created_at, updated_at
        FROM workouts WHERE user_id=$1 AND workout_date>=$2 AND workout_date<=$3 ORDER BY workout_date DESC`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Workout
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.SourceID, &w.ExternalID, &w.Name, &w.Date, &w.Duration, &w.CaloriesBurned, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListWorkoutExercises returns the exercises of one workout.
func (r *Repository) ListWorkoutExercises(ctx context.Context, workoutID string) ([]domain.WorkoutExercise, error) {
	const query = `SELECT workout_exercise_id, workout_id, exercise_id, sets, reps, weight_kg, duration_sec, distance_m
        FROM workout_exercises WHERE workout_id=$1`

	rows, err := r.pool.Query(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WorkoutExercise
	for rows.Next() {
		var ex domain.WorkoutExercise
		if err := rows.Scan(&ex.ID, &ex.WorkoutID, &ex.ExerciseID, &ex.Sets, &ex.Reps, &ex.Weight, &ex.Duration, &ex.Distance); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

// FindExerciseByName returns the first catalog exercise whose name contains
// the fragment case-insensitively, or nil.
func (r *Repository) FindExerciseByName(ctx context.Context, name string) (*domain.Exercise, error) {
	const query = `SELECT exercise_id, name, muscle_group, exercise_type
        FROM exercises WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 1`
	var ex domain.Exercise
	if err := r.pool.QueryRow(ctx, query, name).Scan(&ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Type); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ex, nil
}

// CreateQuery implements domain.QueryStore.
func (r *Repository) CreateQuery(ctx context.Context, query *domain.UserQuery) error {
	if query.ID == "" {
		query.ID = uuid.NewString()
	}
	const stmt = `INSERT INTO user_queries (query_id, user_id, query_text, query_time) VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, stmt, query.ID, query.UserID, query.QueryText, query.QueryTime)
	return err
}

// AttachResponse records the answer on an existing query row.
func (r *Repository) AttachResponse(ctx context.Context, queryID, responseText string, sources []string) error {
	if sources == nil {
		sources = []string{}
	}
	body, err := json.Marshal(sources)
	if err != nil {
		return err
	}

	const stmt = `UPDATE user_queries SET response_text=$2, sources_used=$3 WHERE query_id=$1`
	tag, err := r.pool.Exec(ctx, stmt, queryID, responseText, body)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQueryNotFound
	}
	return nil
}

// ListQueries returns a user's queries newest first.
func (r *Repository) ListQueries(ctx context.Context, userID string, limit, offset int) ([]domain.UserQuery, error) {
	const query = `SELECT query_id, user_id, query_text, query_time, response_text, sources_used
        FROM user_queries WHERE user_id=$1 ORDER BY query_time DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserQuery
	for rows.Next() {
		var q domain.UserQuery
		var sources []byte
		if err := rows.Scan(&q.ID, &q.UserID, &q.QueryText, &q.QueryTime, &q.ResponseText, &sources); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sources, &q.SourcesUsed); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// CountQueries counts a user's stored queries.
func (r *Repository) CountQueries(ctx context.Context, userID string) (int, error) {
	const query = `SELECT count(*) FROM user_queries WHERE user_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceInsights deletes the user's insight set and inserts the new one in
// a single transaction.
func (r *Repository) ReplaceInsights(ctx context.Context, userID string, insights []domain.Insight) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM insights WHERE user_id=$1`, userID); err != nil {
		return err
	}

	const stmt = `INSERT INTO insights (insight_id, user_id, insight_type, insight_text, data_sources, relevance, start_date, end_date, is_read, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	for _, insight := range insights {
		if insight.ID == "" {
			insight.ID = uuid.NewString()
		}
		body, err := json.Marshal(insight.DataSources)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, stmt,
			insight.ID,
			insight.UserID,
			string(insight.Type),
			insight.Text,
			body,
			insight.Relevance,
			insight.StartDate,
			insight.EndDate,
			insight.IsRead,
			insight.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListInsights returns insights ordered by relevance descending.
func (r *Repository) ListInsights(ctx context.Context, userID string, limit, offset int) ([]domain.Insight, error) {
	const query = `SELECT insight_id, user_id, insight_type, insight_text, data_sources, relevance, COALESCE(start_date, 'epoch'::timestamptz), COALESCE(end_date, 'epoch'::timestamptz), is_read, created_at
        FROM insights WHERE user_id=$1 ORDER BY relevance DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Insight
	for rows.Next() {
		var insight domain.Insight
		var kind string
		var sources []byte
		if err := rows.Scan(&insight.ID, &insight.UserID, &kind, &insight.Text, &sources, &insight.Relevance, &insight.StartDate, &insight.EndDate, &insight.IsRead, &insight.CreatedAt); err != nil {
			return nil, err
		}
		insight.Type = domain.InsightType(kind)
		if err := json.Unmarshal(sources, &insight.DataSources); err != nil {
			return nil, err
		}
		out = append(out, insight)
	}
	return out, rows.Err()
}

// CountInsights counts the user's stored insights.
func (r *Repository) CountInsights(ctx context.Context, userID string) (int, error) {
	const query = `SELECT count(*) FROM insights WHERE user_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkInsightRead flags one insight as read.
func (r *Repository) MarkInsightRead(ctx context.Context, insightID string) error {
	const stmt = `UPDATE insights SET is_read=TRUE WHERE insight_id=$1`
	tag, err := r.pool.Exec(ctx, stmt, insightID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsightNotFound
	}
	return nil
}

// InsertActivity implements domain.RecordWriter.
func (r *Repository) InsertActivity(ctx context.Context, a domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	const stmt = `INSERT INTO activities (activity_id, user_id, source_id, external_id, activity_type, start_time, end_time, duration_sec, distance_m, calories, avg_heart_rate, max_heart_rate, elevation_gain, title, created_at, updated_at)
        VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())`
	_, err := r.pool.Exec(ctx, stmt, a.ID, a.UserID, a.SourceID, a.ExternalID, a.ActivityType, a.StartTime, a.EndTime, a.Duration, a.Distance, a.Calories, a.AvgHeartRate, a.MaxHeartRate, a.ElevationGain, a.Title)
	return err
}

// InsertSleepRecord implements domain.RecordWriter.
func (r *Repository) InsertSleepRecord(ctx context.Context, rec domain.SleepRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	const stmt = `INSERT INTO sleep_records (sleep_record_id, user_id, source_id, external_id, start_time, end_time, duration_sec, deep_sec, light_sec, rem_sec, awake_sec, score, heart_rate_avg, heart_rate_min, heart_rate_max, created_at, updated_at)
        VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,now(),now())`
	_, err := r.pool.Exec(ctx, stmt, rec.ID, rec.UserID, rec.SourceID, rec.ExternalID, rec.StartTime, rec.EndTime, rec.Duration, rec.DeepDuration, rec.LightDuration, rec.REMDuration, rec.AwakeDuration, rec.Score, rec.HeartRateAvg, rec.HeartRateMin, rec.HeartRateMax)
	return err
}

// InsertFoodEntry stores the entry and its items in one transaction.
func (r *Repository) InsertFoodEntry(ctx context.Context, entry domain.FoodEntry, items []domain.FoodItem) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const entryStmt = `INSERT INTO food_entries (food_entry_id, user_id, source_id, external_id, meal_type, consumed_at, total_calories, total_carbs, total_protein, total_fat, total_fiber, created_at, updated_at)
        VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,$8,$9,$10,$11,now(),now())`
	if _, err := tx.Exec(ctx, entryStmt, entry.ID, entry.UserID, entry.SourceID, entry.ExternalID, entry.MealType, entry.ConsumedAt, entry.TotalCalories, entry.TotalCarbs, entry.TotalProtein, entry.TotalFat, entry.TotalFiber); err != nil {
		return err
	}

	const itemStmt = `INSERT INTO food_items (food_item_id, food_entry_id, name, quantity, unit, calories, carbs, protein, fat, fiber)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, itemStmt, item.ID, entry.ID, item.Name, item.Quantity, item.Unit, item.Calories, item.Carbs, item.Protein, item.Fat, item.Fiber); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// InsertWorkout stores the workout and its exercises in one transaction.
func (r *Repository) InsertWorkout(ctx context.Context, workout domain.Workout, exercises []domain.WorkoutExercise) error {
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const workoutStmt = `INSERT INTO workouts (workout_id, user_id, source_id, external_id, name, workout_date, duration_sec, calories_burned, created_at, updated_at)
        VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,$8,now(),now())`
	if _, err := tx.Exec(ctx, workoutStmt, workout.ID, workout.UserID, workout.SourceID, workout.ExternalID, workout.Name, workout.Date, workout.Duration, workout.CaloriesBurned); err != nil {
		return err
	}

	const exerciseStmt = `INSERT INTO workout_exercises (workout_exercise_id, workout_id, exercise_id, sets, reps, weight_kg, duration_sec, distance_m)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	for _, ex := range exercises {
		if ex.ID == "" {
			ex.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, exerciseStmt, ex.ID, workout.ID, ex.ExerciseID, ex.Sets, ex.Reps, ex.Weight, ex.Duration, ex.Distance); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// InsertMedicationLog implements domain.RecordWriter.
func (r *Repository) InsertMedicationLog(ctx context.Context, log domain.MedicationLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	const stmt = `INSERT INTO medication_logs (medication_log_id, user_medication_id, taken_at, dosage_taken)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, stmt, log.ID, log.UserMedicationID, log.TakenAt, log.DosageTaken)
	return err
}
