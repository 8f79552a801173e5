package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/service"
	"github.com/fieldtrack/location-backend-go/internal/tracking"
	"github.com/fieldtrack/location-backend-go/pkg/response"
)

// TrackingHandler handles HTTP requests for the tracking lifecycle and
// the signals pushed by the positioning/connectivity sources
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// Start handles POST /api/v1/tracking/:subject/start
func (h *TrackingHandler) Start(c *gin.Context) {
	subjectID := c.Param("subject")

	err := h.trackingService.StartTracking(c.Request.Context(), subjectID)
	switch {
	case err == nil:
		status, _ := h.trackingService.Status(subjectID)
		response.Success(c, status)
	case errors.Is(err, tracking.ErrPermissionDenied):
		response.Forbidden(c, "Positioning permission denied")
	case errors.Is(err, tracking.ErrAlreadyTracking):
		response.Conflict(c, "Subject is already being tracked")
	default:
		response.InternalError(c, err.Error())
	}
}

// Stop handles POST /api/v1/tracking/:subject/stop
func (h *TrackingHandler) Stop(c *gin.Context) {
	subjectID := c.Param("subject")

	if err := h.trackingService.StopTracking(subjectID); err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			response.NotFound(c, "Subject is not being tracked")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	status, _ := h.trackingService.Status(subjectID)
	response.Success(c, status)
}

// Status handles GET /api/v1/tracking/:subject/status
func (h *TrackingHandler) Status(c *gin.Context) {
	subjectID := c.Param("subject")

	status, err := h.trackingService.Status(subjectID)
	if err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			response.NotFound(c, "Subject has never been tracked")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, status)
}

// Fix handles POST /api/v1/tracking/:subject/fix, the push endpoint for
// the positioning source
func (h *TrackingHandler) Fix(c *gin.Context) {
	subjectID := c.Param("subject")

	var fix models.Fix
	if err := c.ShouldBindJSON(&fix); err != nil {
		response.BadRequest(c, "Invalid fix payload")
		return
	}

	if err := h.trackingService.IngestFix(c.Request.Context(), subjectID, fix); err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			response.Conflict(c, "Subject is not actively tracked")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"accepted": true})
}

type taskBindingRequest struct {
	TaskID *string `json:"taskId"`
}

// Task handles PUT /api/v1/tracking/:subject/task. A null taskId clears
// the binding.
func (h *TrackingHandler) Task(c *gin.Context) {
	subjectID := c.Param("subject")

	var req taskBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid task binding payload")
		return
	}

	if err := h.trackingService.SetTask(subjectID, req.TaskID); err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			response.NotFound(c, "Subject is not being tracked")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"taskId": req.TaskID})
}

type connectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// Connectivity handles POST /api/v1/tracking/:subject/connectivity
func (h *TrackingHandler) Connectivity(c *gin.Context) {
	subjectID := c.Param("subject")

	var req connectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid connectivity payload")
		return
	}

	if err := h.trackingService.SetConnectivity(subjectID, *req.Online); err != nil {
		if errors.Is(err, tracking.ErrNotTracking) {
			response.NotFound(c, "Subject is not being tracked")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"online": *req.Online})
}
