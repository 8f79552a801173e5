package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldtrack/location-backend-go/internal/geofence"
	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
)

// GeofenceService owns geofence administration. Specs are validated here,
// at creation, so invalid geometry never reaches evaluation.
type GeofenceService struct {
	repo      *repository.GeofenceRepository
	evaluator *geofence.Evaluator
}

// NewGeofenceService creates a new geofence service
func NewGeofenceService(repo *repository.GeofenceRepository, evaluator *geofence.Evaluator) *GeofenceService {
	return &GeofenceService{repo: repo, evaluator: evaluator}
}

// Create validates and stores a new geofence
func (s *GeofenceService) Create(ctx context.Context, g *models.Geofence) error {
	if err := g.Validate(); err != nil {
		return err
	}
	g.ID = uuid.NewString()
	g.Active = true
	g.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, g); err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}
	return nil
}

// Update validates and applies edits to an existing geofence
func (s *GeofenceService) Update(ctx context.Context, g *models.Geofence) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return err
	}
	// geometry changed; stale containment state must not suppress the
	// next genuine transition
	s.evaluator.Forget(g.ID)
	return nil
}

// SetActive toggles evaluation of a geofence
func (s *GeofenceService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	if !active {
		s.evaluator.Forget(id)
	}
	return nil
}

// Delete removes a geofence permanently
func (s *GeofenceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evaluator.Forget(id)
	return nil
}

// Get returns one geofence
func (s *GeofenceService) Get(ctx context.Context, id string) (*models.Geofence, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all geofences
func (s *GeofenceService) List(ctx context.Context) ([]models.Geofence, error) {
	return s.repo.List(ctx, false)
}
