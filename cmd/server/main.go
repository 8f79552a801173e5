package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fieldtrack/location-backend-go/internal/api"
	"github.com/fieldtrack/location-backend-go/internal/cache"
	"github.com/fieldtrack/location-backend-go/internal/config"
	"github.com/fieldtrack/location-backend-go/internal/database"
	"github.com/fieldtrack/location-backend-go/internal/geofence"
	"github.com/fieldtrack/location-backend-go/internal/handler"
	"github.com/fieldtrack/location-backend-go/internal/logger"
	"github.com/fieldtrack/location-backend-go/internal/repository"
	"github.com/fieldtrack/location-backend-go/internal/service"
	"github.com/fieldtrack/location-backend-go/internal/tracking"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogPath)

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	cache.Initialize(cfg.RedisURL)
	defer cache.Close()

	db := database.GetDB()
	locationRepo := repository.NewSQLiteLocationRepository(db)
	geofenceRepo := repository.NewGeofenceRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)

	evaluator := geofence.NewEvaluator(cfg.DebounceWindow)

	// Permission is granted by the push protocol itself: a source that can
	// reach the fix endpoint has positioning access.
	permission := tracking.PermissionFunc(func(ctx context.Context, subjectID string) error {
		return nil
	})

	trackingService := service.NewTrackingService(locationRepo, geofenceRepo, transitionRepo, evaluator, permission, nil, cfg)
	geofenceService := service.NewGeofenceService(geofenceRepo, evaluator)
	checkService := service.NewCheckService(requirementRepo, geofenceRepo)
	routeService := service.NewRouteService(locationRepo, cfg)
	activityService := service.NewActivityService(locationRepo, cfg)

	router := api.SetupRouter(api.Handlers{
		Tracking: handler.NewTrackingHandler(trackingService),
		Subject:  handler.NewSubjectHandler(routeService, activityService, trackingService),
		Geofence: handler.NewGeofenceHandler(geofenceService),
		Task:     handler.NewTaskHandler(checkService),
	})

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := router.Run(cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
