package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// LocationRepository is the append-only store for position samples.
// History results are ordered by recorded_at with insertion order breaking
// ties, so replays are deterministic even with duplicate timestamps.
type LocationRepository interface {
	Append(ctx context.Context, sample *models.PositionSample) error
	LatestBySubject(ctx context.Context, subjectID string) (*models.PositionSample, error)
	History(ctx context.Context, subjectID string, from, to time.Time) ([]models.PositionSample, error)
}

// SQLiteLocationRepository persists samples in the location_events table
type SQLiteLocationRepository struct {
	db *sql.DB
}

// NewSQLiteLocationRepository creates a new sqlite-backed location repository
func NewSQLiteLocationRepository(db *sql.DB) *SQLiteLocationRepository {
	return &SQLiteLocationRepository{db: db}
}

// Append inserts one sample and sets its generated ID
func (r *SQLiteLocationRepository) Append(ctx context.Context, sample *models.PositionSample) error {
	query := `INSERT INTO location_events
		(subject_id, latitude, longitude, accuracy_m, altitude_m, speed_mps,
		 heading_deg, battery_pct, connectivity, task_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		sample.SubjectID, sample.Latitude, sample.Longitude,
		nullFloat(sample.AccuracyM), nullFloat(sample.AltitudeM),
		nullFloat(sample.SpeedMps), nullFloat(sample.HeadingDeg),
		nullFloat(sample.BatteryPct), sample.Connectivity,
		nullString(sample.TaskID), sample.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert location event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted event id: %w", err)
	}
	sample.ID = id
	return nil
}

const locationColumns = `id, subject_id, latitude, longitude, accuracy_m, altitude_m,
	speed_mps, heading_deg, battery_pct, connectivity, task_id, recorded_at`

// LatestBySubject returns the most recent sample for a subject, or nil
// when none exists
func (r *SQLiteLocationRepository) LatestBySubject(ctx context.Context, subjectID string) (*models.PositionSample, error) {
	query := `SELECT ` + locationColumns + ` FROM location_events
		WHERE subject_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, subjectID)
	sample, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest position: %w", err)
	}
	return sample, nil
}

// History returns samples in [from, to] ordered by recorded_at, id
func (r *SQLiteLocationRepository) History(ctx context.Context, subjectID string, from, to time.Time) ([]models.PositionSample, error) {
	query := `SELECT ` + locationColumns + ` FROM location_events
		WHERE subject_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, subjectID, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query location history: %w", err)
	}
	defer rows.Close()

	var samples []models.PositionSample
	for rows.Next() {
		sample, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location event: %w", err)
		}
		samples = append(samples, *sample)
	}
	return samples, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLocation(row rowScanner) (*models.PositionSample, error) {
	var (
		s          models.PositionSample
		accuracy   sql.NullFloat64
		altitude   sql.NullFloat64
		speed      sql.NullFloat64
		heading    sql.NullFloat64
		battery    sql.NullFloat64
		taskID     sql.NullString
		recordedAt int64
	)

	err := row.Scan(
		&s.ID, &s.SubjectID, &s.Latitude, &s.Longitude,
		&accuracy, &altitude, &speed, &heading, &battery,
		&s.Connectivity, &taskID, &recordedAt,
	)
	if err != nil {
		return nil, err
	}

	s.AccuracyM = floatPtr(accuracy)
	s.AltitudeM = floatPtr(altitude)
	s.SpeedMps = floatPtr(speed)
	s.HeadingDeg = floatPtr(heading)
	s.BatteryPct = floatPtr(battery)
	s.TaskID = stringPtr(taskID)
	s.RecordedAt = time.UnixMilli(recordedAt).UTC()
	return &s, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
