package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist
var ErrNotFound = errors.New("not found")

// RequirementRepository handles database operations for task location
// requirements
type RequirementRepository struct {
	db *sql.DB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db *sql.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// Create inserts a requirement. Callers validate the spec first; the
// database accepts whatever shape it is given.
func (r *RequirementRepository) Create(ctx context.Context, req *models.TaskLocationRequirement) error {
	query := `INSERT INTO task_location_requirements
		(task_id, geofence_id, latitude, longitude, radius_meters, arrival_required, departure_required)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		req.TaskID, nullString(req.GeofenceID),
		nullFloat(req.Latitude), nullFloat(req.Longitude),
		req.RadiusM, boolToInt(req.ArrivalRequired), boolToInt(req.DepartureRequired),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task requirement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted requirement id: %w", err)
	}
	req.ID = id
	return nil
}

// ListByTask returns all requirements attached to a task
func (r *RequirementRepository) ListByTask(ctx context.Context, taskID string) ([]models.TaskLocationRequirement, error) {
	query := `SELECT id, task_id, geofence_id, latitude, longitude, radius_meters,
		arrival_required, departure_required
		FROM task_location_requirements WHERE task_id = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task requirements: %w", err)
	}
	defer rows.Close()

	var reqs []models.TaskLocationRequirement
	for rows.Next() {
		var (
			req      models.TaskLocationRequirement
			geofence sql.NullString
			lat, lng sql.NullFloat64
			arr, dep int
		)
		if err := rows.Scan(&req.ID, &req.TaskID, &geofence, &lat, &lng,
			&req.RadiusM, &arr, &dep); err != nil {
			return nil, fmt.Errorf("failed to scan task requirement: %w", err)
		}
		req.GeofenceID = stringPtr(geofence)
		req.Latitude = floatPtr(lat)
		req.Longitude = floatPtr(lng)
		req.ArrivalRequired = arr != 0
		req.DepartureRequired = dep != 0
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Delete removes a requirement
func (r *RequirementRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM task_location_requirements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task requirement: %w", err)
	}
	return requireRow(res)
}
