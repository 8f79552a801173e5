package models

import (
	"errors"
	"time"
)

// ErrInvalidGeofenceSpec is returned when a geofence or location requirement
// fails validation at creation time. Invalid specs never reach evaluation.
var ErrInvalidGeofenceSpec = errors.New("invalid geofence spec")

// Geofence is a circular area used for arrival/departure detection and
// task location gating
type Geofence struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	CenterLat float64   `json:"centerLat" db:"center_latitude"`
	CenterLng float64   `json:"centerLng" db:"center_longitude"`
	RadiusM   float64   `json:"radiusM" db:"radius_meters"`
	Active    bool      `json:"active" db:"is_active"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Validate checks the geometric constraints of a geofence spec
func (g *Geofence) Validate() error {
	if g.RadiusM <= 0 {
		return ErrInvalidGeofenceSpec
	}
	if g.CenterLat < -90 || g.CenterLat > 90 || g.CenterLng < -180 || g.CenterLng > 180 {
		return ErrInvalidGeofenceSpec
	}
	return nil
}

// Transition event types
const (
	TransitionArrival   = "arrival"
	TransitionDeparture = "departure"
)

// GeofenceTransitionEvent records a debounced containment change for one
// (subject, geofence) pair. Produced exclusively by the evaluator, one per
// genuine transition, never mutated.
type GeofenceTransitionEvent struct {
	ID         string    `json:"id" db:"id"`
	SubjectID  string    `json:"subjectId" db:"subject_id"`
	GeofenceID string    `json:"geofenceId" db:"geofence_id"`
	Type       string    `json:"type" db:"event_type"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
