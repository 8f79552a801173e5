package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldtrack/location-backend-go/internal/activity"
	"github.com/fieldtrack/location-backend-go/internal/cache"
	"github.com/fieldtrack/location-backend-go/internal/config"
	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
)

// ActivityService reports subject liveness from the latest stored sample
type ActivityService struct {
	store      repository.LocationRepository
	thresholds activity.Thresholds
}

// NewActivityService creates an activity service with thresholds from config
func NewActivityService(store repository.LocationRepository, cfg *config.Config) *ActivityService {
	return &ActivityService{
		store: store,
		thresholds: activity.Thresholds{
			ActiveWindow: cfg.ActiveWindow,
			RecentWindow: cfg.RecentWindow,
		},
	}
}

// GetActivityStatus classifies a subject. The cache is consulted first;
// a miss falls through to the store. Subjects with no samples at all are
// offline.
func (s *ActivityService) GetActivityStatus(ctx context.Context, subjectID string) (*models.ActivityReport, error) {
	latest, err := cache.LatestPosition(ctx, subjectID)
	if err != nil {
		logrus.WithError(err).Warn("Latest-position cache read failed")
		latest = nil
	}
	if latest == nil {
		latest, err = s.store.LatestBySubject(ctx, subjectID)
		if err != nil {
			return nil, err
		}
	}

	report := &models.ActivityReport{SubjectID: subjectID, Status: models.ActivityOffline}
	if latest == nil {
		return report, nil
	}

	report.Connectivity = latest.Connectivity
	report.LastUpdateAt = &latest.RecordedAt
	report.Status = activity.Classify(latest.RecordedAt, latest.Connectivity, time.Now().UTC(), s.thresholds)
	return report, nil
}
