package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldtrack/location-backend-go/internal/config"
	"github.com/fieldtrack/location-backend-go/internal/database"
	"github.com/fieldtrack/location-backend-go/internal/geofence"
	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
)

type trackingFixture struct {
	service        *TrackingService
	geofenceRepo   *repository.GeofenceRepository
	transitionRepo *repository.TransitionRepository
	store          repository.LocationRepository
}

func setupTrackingService(t *testing.T) *trackingFixture {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cfg := &config.Config{
		MovementThresholdM: 10,
		RetryBase:          time.Millisecond,
		RetryMax:           5 * time.Millisecond,
		RetryLimit:         3,
		DebounceWindow:     5 * time.Minute,
	}
	f := &trackingFixture{
		geofenceRepo:   repository.NewGeofenceRepository(db),
		transitionRepo: repository.NewTransitionRepository(db),
		store:          repository.NewSQLiteLocationRepository(db),
	}
	f.service = NewTrackingService(f.store, f.geofenceRepo, f.transitionRepo,
		geofence.NewEvaluator(cfg.DebounceWindow), nil, nil, cfg)
	return f
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestIngestFanoutRecordsTransition(t *testing.T) {
	f := setupTrackingService(t)
	ctx := context.Background()

	fence := &models.Geofence{
		ID:        "gf-1",
		Name:      "Depot",
		CenterLat: -1.2921,
		CenterLng: 36.8219,
		RadiusM:   150,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.geofenceRepo.Create(ctx, fence); err != nil {
		t.Fatalf("Create geofence failed: %v", err)
	}

	if err := f.service.StartTracking(ctx, "s1"); err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}

	recordedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fix := models.Fix{Latitude: -1.2921, Longitude: 36.8219, Timestamp: recordedAt}
	if err := f.service.IngestFix(ctx, "s1", fix); err != nil {
		t.Fatalf("IngestFix failed: %v", err)
	}

	// the sample is durable when IngestFix returns
	latest, err := f.store.LatestBySubject(ctx, "s1")
	if err != nil {
		t.Fatalf("LatestBySubject failed: %v", err)
	}
	if latest == nil || !latest.RecordedAt.Equal(recordedAt) {
		t.Fatalf("persisted sample = %+v, want one at %v", latest, recordedAt)
	}

	// evaluation happens off the ingest path; the arrival appears shortly
	waitFor(t, "transition event", func() bool {
		events, err := f.transitionRepo.ListBySubject(ctx, "s1",
			recordedAt.Add(-time.Minute), recordedAt.Add(time.Minute))
		return err == nil && len(events) == 1
	})

	events, err := f.transitionRepo.ListBySubject(ctx, "s1",
		recordedAt.Add(-time.Minute), recordedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("ListBySubject failed: %v", err)
	}
	if events[0].Type != models.TransitionArrival || events[0].GeofenceID != "gf-1" {
		t.Errorf("transition = %+v, want arrival at gf-1", events[0])
	}
}

func TestStatusForUnknownSubject(t *testing.T) {
	f := setupTrackingService(t)

	if _, err := f.service.Status("ghost"); err == nil {
		t.Error("Status for unknown subject should fail")
	}
}
