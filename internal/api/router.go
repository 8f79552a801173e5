package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldtrack/location-backend-go/internal/handler"
	"github.com/fieldtrack/location-backend-go/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts
type Handlers struct {
	Tracking *handler.TrackingHandler
	Subject  *handler.SubjectHandler
	Geofence *handler.GeofenceHandler
	Task     *handler.TaskHandler
}

// SetupRouter builds the gin engine and mounts all routes
func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Location Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		tracking := api.Group("/tracking")
		{
			tracking.POST("/:subject/start", h.Tracking.Start)
			tracking.POST("/:subject/stop", h.Tracking.Stop)
			tracking.GET("/:subject/status", h.Tracking.Status)
			// Fixes arrive once a second per source at worst
			tracking.POST("/:subject/fix", middleware.SubjectRateLimit(120, time.Minute), h.Tracking.Fix)
			tracking.POST("/:subject/connectivity", h.Tracking.Connectivity)
			tracking.PUT("/:subject/task", h.Tracking.Task)
		}

		subjects := api.Group("/subjects")
		{
			subjects.GET("/:subject/route", h.Subject.Route)
			subjects.GET("/:subject/positions", h.Subject.Positions)
			subjects.GET("/:subject/transitions", h.Subject.Transitions)
			subjects.GET("/:subject/activity", h.Subject.Activity)
		}

		// admin surfaces get a coarse per-IP limit
		geofences := api.Group("/geofences", middleware.RateLimit(60, time.Minute))
		{
			geofences.POST("", h.Geofence.Create)
			geofences.GET("", h.Geofence.List)
			geofences.GET("/:id", h.Geofence.Get)
			geofences.PUT("/:id", h.Geofence.Update)
			geofences.PUT("/:id/active", h.Geofence.SetActive)
			geofences.DELETE("/:id", h.Geofence.Delete)
		}

		tasks := api.Group("/tasks", middleware.RateLimit(60, time.Minute))
		{
			tasks.POST("/:task/requirements", h.Task.AddRequirement)
			tasks.GET("/:task/requirements", h.Task.ListRequirements)
			tasks.DELETE("/:task/requirements/:id", h.Task.RemoveRequirement)
			tasks.POST("/:task/checkin", h.Task.CheckIn)
			tasks.POST("/:task/checkout", h.Task.CheckOut)
		}
	}

	return r
}
