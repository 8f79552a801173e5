package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// TransitionRepository persists geofence transition events. Rows are
// append-only; the evaluator is the sole producer.
type TransitionRepository struct {
	db *sql.DB
}

// NewTransitionRepository creates a new transition repository
func NewTransitionRepository(db *sql.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

// Append inserts one transition event
func (r *TransitionRepository) Append(ctx context.Context, ev *models.GeofenceTransitionEvent) error {
	query := `INSERT INTO geofence_transitions
		(id, subject_id, geofence_id, event_type, latitude, longitude, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		ev.ID, ev.SubjectID, ev.GeofenceID, ev.Type,
		ev.Latitude, ev.Longitude, ev.RecordedAt.UnixMilli(), ev.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transition event: %w", err)
	}
	return nil
}

// ListBySubject returns a subject's transition events within [from, to]
func (r *TransitionRepository) ListBySubject(ctx context.Context, subjectID string, from, to time.Time) ([]models.GeofenceTransitionEvent, error) {
	query := `SELECT id, subject_id, geofence_id, event_type, latitude, longitude, recorded_at, created_at
		FROM geofence_transitions
		WHERE subject_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, subjectID, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query transition events: %w", err)
	}
	defer rows.Close()

	var events []models.GeofenceTransitionEvent
	for rows.Next() {
		var (
			ev         models.GeofenceTransitionEvent
			recordedAt int64
			createdAt  int64
		)
		if err := rows.Scan(&ev.ID, &ev.SubjectID, &ev.GeofenceID, &ev.Type,
			&ev.Latitude, &ev.Longitude, &recordedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transition event: %w", err)
		}
		ev.RecordedAt = time.UnixMilli(recordedAt).UTC()
		ev.CreatedAt = time.UnixMilli(createdAt).UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}
