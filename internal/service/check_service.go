package service

import (
	"context"

	"github.com/fieldtrack/location-backend-go/internal/binder"
	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
)

// CheckService gates task check-in/check-out on location requirements.
// Decisions are pure; the task status itself is mutated by the task layer
// after it receives an approval.
type CheckService struct {
	requirementRepo *repository.RequirementRepository
	geofenceRepo    *repository.GeofenceRepository
}

// NewCheckService creates a new check service
func NewCheckService(requirementRepo *repository.RequirementRepository, geofenceRepo *repository.GeofenceRepository) *CheckService {
	return &CheckService{
		requirementRepo: requirementRepo,
		geofenceRepo:    geofenceRepo,
	}
}

// AddRequirement validates and stores a task location requirement
func (s *CheckService) AddRequirement(ctx context.Context, req *models.TaskLocationRequirement) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.requirementRepo.Create(ctx, req)
}

// ListRequirements returns a task's location requirements
func (s *CheckService) ListRequirements(ctx context.Context, taskID string) ([]models.TaskLocationRequirement, error) {
	return s.requirementRepo.ListByTask(ctx, taskID)
}

// RemoveRequirement deletes a requirement
func (s *CheckService) RemoveRequirement(ctx context.Context, id int64) error {
	return s.requirementRepo.Delete(ctx, id)
}

// CheckIn decides whether the subject may check in to the task at the
// presented position
func (s *CheckService) CheckIn(ctx context.Context, taskID string, sample *models.PositionSample) (models.Decision, error) {
	reqs, err := s.requirementRepo.ListByTask(ctx, taskID)
	if err != nil {
		return models.Decision{}, err
	}
	return binder.CheckIn(sample, reqs, s.resolver(ctx))
}

// CheckOut decides whether the subject may check out of the task. The
// caller supplies whether the task is currently checked in.
func (s *CheckService) CheckOut(ctx context.Context, taskID string, sample *models.PositionSample, checkedIn bool) (models.Decision, error) {
	reqs, err := s.requirementRepo.ListByTask(ctx, taskID)
	if err != nil {
		return models.Decision{}, err
	}
	return binder.CheckOut(sample, reqs, checkedIn, s.resolver(ctx))
}

func (s *CheckService) resolver(ctx context.Context) binder.GeofenceResolver {
	return func(id string) (*models.Geofence, error) {
		return s.geofenceRepo.GetByID(ctx, id)
	}
}
