package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldtrack/location-backend-go/internal/cache"
	"github.com/fieldtrack/location-backend-go/internal/config"
	"github.com/fieldtrack/location-backend-go/internal/geofence"
	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
	"github.com/fieldtrack/location-backend-go/internal/tracking"
)

// TrackingService drives per-subject tracking agents and fans persisted
// samples out to the geofence evaluator, the transition log, and the
// latest-position cache.
type TrackingService struct {
	manager        *tracking.Manager
	store          repository.LocationRepository
	geofenceRepo   *repository.GeofenceRepository
	transitionRepo *repository.TransitionRepository
	evaluator      *geofence.Evaluator
	persisted      chan *models.PositionSample
}

// NewTrackingService wires a manager over the location store
func NewTrackingService(
	store repository.LocationRepository,
	geofenceRepo *repository.GeofenceRepository,
	transitionRepo *repository.TransitionRepository,
	evaluator *geofence.Evaluator,
	permission tracking.PermissionFunc,
	battery tracking.BatteryFunc,
	cfg *config.Config,
) *TrackingService {
	s := &TrackingService{
		store:          store,
		geofenceRepo:   geofenceRepo,
		transitionRepo: transitionRepo,
		evaluator:      evaluator,
		persisted:      make(chan *models.PositionSample, 256),
	}
	go s.fanoutLoop()

	opts := tracking.Options{
		MovementThresholdM: cfg.MovementThresholdM,
		RetryBase:          cfg.RetryBase,
		RetryMax:           cfg.RetryMax,
		RetryLimit:         cfg.RetryLimit,
		Battery:            battery,
		OnPersisted:        s.onPersisted,
		OnFatal: func(subjectID string, err error) {
			logrus.WithFields(logrus.Fields{
				"subject": subjectID,
				"error":   err,
			}).Error("Tracking halted")
		},
	}
	s.manager = tracking.NewManager(store, permission, opts)
	return s
}

// StartTracking begins or resumes tracking for a subject
func (s *TrackingService) StartTracking(ctx context.Context, subjectID string) error {
	return s.manager.Start(ctx, subjectID)
}

// StopTracking halts a subject's agent, keeping queued samples
func (s *TrackingService) StopTracking(subjectID string) error {
	return s.manager.Stop(subjectID)
}

// TrackingStatus is the externally visible agent state
type TrackingStatus struct {
	SubjectID  string `json:"subjectId"`
	State      string `json:"state"`
	FatalError string `json:"fatalError,omitempty"`
}

// Status reports the agent state. A stopped agent is distinguishable from
// one that was never started, which yields tracking.ErrNotTracking.
func (s *TrackingService) Status(subjectID string) (*TrackingStatus, error) {
	state, err := s.manager.Status(subjectID)
	if err != nil {
		return nil, err
	}
	status := &TrackingStatus{SubjectID: subjectID, State: state.String()}
	if fatal := s.manager.FatalErr(subjectID); fatal != nil {
		status.FatalError = fatal.Error()
	}
	return status, nil
}

// IngestFix routes one positioning fix into the subject's agent
func (s *TrackingService) IngestFix(ctx context.Context, subjectID string, fix models.Fix) error {
	return s.manager.HandleFix(ctx, subjectID, fix)
}

// SetConnectivity forwards a connectivity signal
func (s *TrackingService) SetConnectivity(subjectID string, online bool) error {
	return s.manager.SetConnectivity(subjectID, online)
}

// SetTask binds a subject's subsequent samples to a task
func (s *TrackingService) SetTask(subjectID string, taskID *string) error {
	return s.manager.SetTask(subjectID, taskID)
}

// Transitions returns a subject's geofence transition events in [from, to].
// An empty window defaults to the last 24 hours.
func (s *TrackingService) Transitions(ctx context.Context, subjectID string, from, to time.Time) ([]models.GeofenceTransitionEvent, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-24 * time.Hour)
	}
	return s.transitionRepo.ListBySubject(ctx, subjectID, from, to)
}

// onPersisted runs after every successfully stored sample, including
// replayed ones. The sample is already durable, so the cache/evaluation
// fan-out is handed to a worker and the ingest goroutine returns
// immediately.
func (s *TrackingService) onPersisted(sample *models.PositionSample) {
	s.persisted <- sample
}

// fanoutLoop consumes persisted samples one at a time, keeping
// evaluation in persistence order. Fan-out failures are logged, never
// propagated.
func (s *TrackingService) fanoutLoop() {
	for sample := range s.persisted {
		s.fanout(sample)
	}
}

func (s *TrackingService) fanout(sample *models.PositionSample) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.SetLatestPosition(ctx, sample); err != nil {
		logrus.WithError(err).Warn("Failed to cache latest position")
	}

	fences, err := s.geofenceRepo.ListActive(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load active geofences for evaluation")
		return
	}

	for _, ev := range s.evaluator.Evaluate(sample, fences) {
		if err := s.transitionRepo.Append(ctx, &ev); err != nil {
			logrus.WithFields(logrus.Fields{
				"subject":  ev.SubjectID,
				"geofence": ev.GeofenceID,
				"type":     ev.Type,
				"error":    err,
			}).Error("Failed to persist transition event")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"subject":  ev.SubjectID,
			"geofence": ev.GeofenceID,
			"type":     ev.Type,
		}).Info("Geofence transition")
	}
}
