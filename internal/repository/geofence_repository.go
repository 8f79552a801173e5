package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/models"
)

// GeofenceRepository handles database operations for geofences
type GeofenceRepository struct {
	db *sql.DB
}

// NewGeofenceRepository creates a new geofence repository
func NewGeofenceRepository(db *sql.DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

const geofenceColumns = `id, name, center_latitude, center_longitude, radius_meters,
	is_active, created_by, created_at`

// Create inserts a new geofence
func (r *GeofenceRepository) Create(ctx context.Context, g *models.Geofence) error {
	query := `INSERT INTO geofences
		(id, name, center_latitude, center_longitude, radius_meters, is_active, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, g.CenterLat, g.CenterLng, g.RadiusM,
		boolToInt(g.Active), g.CreatedBy, g.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert geofence: %w", err)
	}
	return nil
}

// Update replaces name, center and radius of an existing geofence
func (r *GeofenceRepository) Update(ctx context.Context, g *models.Geofence) error {
	query := `UPDATE geofences
		SET name = ?, center_latitude = ?, center_longitude = ?, radius_meters = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, g.Name, g.CenterLat, g.CenterLng, g.RadiusM, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update geofence: %w", err)
	}
	return requireRow(res)
}

// SetActive activates or deactivates a geofence
func (r *GeofenceRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE geofences SET is_active = ? WHERE id = ?", boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("failed to set geofence active flag: %w", err)
	}
	return requireRow(res)
}

// Delete removes a geofence permanently
func (r *GeofenceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM geofences WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete geofence: %w", err)
	}
	return requireRow(res)
}

// GetByID returns one geofence, or nil when it does not exist
func (r *GeofenceRepository) GetByID(ctx context.Context, id string) (*models.Geofence, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+geofenceColumns+` FROM geofences WHERE id = ?`, id)

	g, err := scanGeofence(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query geofence: %w", err)
	}
	return g, nil
}

// List returns all geofences, optionally only active ones
func (r *GeofenceRepository) List(ctx context.Context, activeOnly bool) ([]models.Geofence, error) {
	query := `SELECT ` + geofenceColumns + ` FROM geofences`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query geofences: %w", err)
	}
	defer rows.Close()

	var fences []models.Geofence
	for rows.Next() {
		g, err := scanGeofence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence: %w", err)
		}
		fences = append(fences, *g)
	}
	return fences, rows.Err()
}

// ListActive returns the geofences currently subject to evaluation
func (r *GeofenceRepository) ListActive(ctx context.Context) ([]models.Geofence, error) {
	return r.List(ctx, true)
}

func scanGeofence(row rowScanner) (*models.Geofence, error) {
	var (
		g         models.Geofence
		active    int
		createdAt int64
	)
	err := row.Scan(&g.ID, &g.Name, &g.CenterLat, &g.CenterLng, &g.RadiusM,
		&active, &g.CreatedBy, &createdAt)
	if err != nil {
		return nil, err
	}
	g.Active = active != 0
	g.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &g, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow converts a zero-row update/delete into ErrNotFound
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
