package service

import (
	"context"
	"time"

	"github.com/fieldtrack/location-backend-go/internal/config"
	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
	"github.com/fieldtrack/location-backend-go/internal/route"
)

// RouteService computes route statistics over the stored history
type RouteService struct {
	store repository.LocationRepository
	opts  route.Options
}

// NewRouteService creates a route service with thresholds from config
func NewRouteService(store repository.LocationRepository, cfg *config.Config) *RouteService {
	return &RouteService{
		store: store,
		opts: route.Options{
			StopDistanceM: cfg.StopDistanceM,
			StopDuration:  cfg.StopDuration,
			RouteBreak:    cfg.RouteBreak,
		},
	}
}

// GetRouteStatistics aggregates a subject's samples within [from, to].
// An empty window defaults to the last 24 hours.
func (s *RouteService) GetRouteStatistics(ctx context.Context, subjectID string, from, to time.Time) (models.RouteStatistics, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-24 * time.Hour)
	}

	samples, err := s.store.History(ctx, subjectID, from, to)
	if err != nil {
		return models.RouteStatistics{}, err
	}
	return route.Aggregate(subjectID, from, to, samples, s.opts), nil
}

// GetHistory returns the raw sample window
func (s *RouteService) GetHistory(ctx context.Context, subjectID string, from, to time.Time) ([]models.PositionSample, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-24 * time.Hour)
	}
	return s.store.History(ctx, subjectID, from, to)
}
