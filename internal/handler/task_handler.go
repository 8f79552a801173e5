package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
	"github.com/fieldtrack/location-backend-go/internal/service"
	"github.com/fieldtrack/location-backend-go/pkg/response"
)

// TaskHandler handles HTTP requests for task location requirements and
// check-in/check-out decisions
type TaskHandler struct {
	checkService *service.CheckService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(checkService *service.CheckService) *TaskHandler {
	return &TaskHandler{checkService: checkService}
}

type requirementRequest struct {
	GeofenceID        *string  `json:"geofenceId"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	RadiusM           float64  `json:"radiusM"`
	ArrivalRequired   bool     `json:"arrivalRequired"`
	DepartureRequired bool     `json:"departureRequired"`
}

// AddRequirement handles POST /api/v1/tasks/:task/requirements
func (h *TaskHandler) AddRequirement(c *gin.Context) {
	var req requirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid requirement payload")
		return
	}

	requirement := &models.TaskLocationRequirement{
		TaskID:            c.Param("task"),
		GeofenceID:        req.GeofenceID,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		RadiusM:           req.RadiusM,
		ArrivalRequired:   req.ArrivalRequired,
		DepartureRequired: req.DepartureRequired,
	}
	if err := h.checkService.AddRequirement(c.Request.Context(), requirement); err != nil {
		if errors.Is(err, models.ErrInvalidGeofenceSpec) {
			response.BadRequest(c, "Requirement needs a geofence or explicit coordinates with a positive radius")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, requirement)
}

// ListRequirements handles GET /api/v1/tasks/:task/requirements
func (h *TaskHandler) ListRequirements(c *gin.Context) {
	reqs, err := h.checkService.ListRequirements(c.Request.Context(), c.Param("task"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, reqs)
}

// RemoveRequirement handles DELETE /api/v1/tasks/:task/requirements/:id
func (h *TaskHandler) RemoveRequirement(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid requirement ID")
		return
	}

	if err := h.checkService.RemoveRequirement(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Requirement not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

type checkRequest struct {
	SubjectID string  `json:"subjectId" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	CheckedIn bool    `json:"checkedIn"`
}

func (r checkRequest) sample() *models.PositionSample {
	return &models.PositionSample{
		SubjectID:  r.SubjectID,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		RecordedAt: time.Now().UTC(),
	}
}

// CheckIn handles POST /api/v1/tasks/:task/checkin
func (h *TaskHandler) CheckIn(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid check-in payload")
		return
	}

	decision, err := h.checkService.CheckIn(c.Request.Context(), c.Param("task"), req.sample())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, decision)
}

// CheckOut handles POST /api/v1/tasks/:task/checkout
func (h *TaskHandler) CheckOut(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid check-out payload")
		return
	}

	decision, err := h.checkService.CheckOut(c.Request.Context(), c.Param("task"), req.sample(), req.CheckedIn)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, decision)
}
