package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
	"github.com/fieldtrack/location-backend-go/internal/service"
	"github.com/fieldtrack/location-backend-go/pkg/response"
)

// GeofenceHandler handles HTTP requests for geofence administration
type GeofenceHandler struct {
	geofenceService *service.GeofenceService
}

// NewGeofenceHandler creates a new geofence handler
func NewGeofenceHandler(geofenceService *service.GeofenceService) *GeofenceHandler {
	return &GeofenceHandler{geofenceService: geofenceService}
}

type geofenceRequest struct {
	Name      string  `json:"name" binding:"required"`
	CenterLat float64 `json:"centerLat" binding:"min=-90,max=90"`
	CenterLng float64 `json:"centerLng" binding:"min=-180,max=180"`
	RadiusM   float64 `json:"radiusM" binding:"required,gt=0"`
	CreatedBy string  `json:"createdBy"`
}

// Create handles POST /api/v1/geofences
func (h *GeofenceHandler) Create(c *gin.Context) {
	var req geofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid geofence payload")
		return
	}

	fence := &models.Geofence{
		Name:      req.Name,
		CenterLat: req.CenterLat,
		CenterLng: req.CenterLng,
		RadiusM:   req.RadiusM,
		CreatedBy: req.CreatedBy,
	}
	if err := h.geofenceService.Create(c.Request.Context(), fence); err != nil {
		if errors.Is(err, models.ErrInvalidGeofenceSpec) {
			response.BadRequest(c, "Invalid geofence spec")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, fence)
}

// List handles GET /api/v1/geofences
func (h *GeofenceHandler) List(c *gin.Context) {
	fences, err := h.geofenceService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, fences)
}

// Get handles GET /api/v1/geofences/:id
func (h *GeofenceHandler) Get(c *gin.Context) {
	fence, err := h.geofenceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if fence == nil {
		response.NotFound(c, "Geofence not found")
		return
	}
	response.Success(c, fence)
}

// Update handles PUT /api/v1/geofences/:id
func (h *GeofenceHandler) Update(c *gin.Context) {
	var req geofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid geofence payload")
		return
	}

	fence := &models.Geofence{
		ID:        c.Param("id"),
		Name:      req.Name,
		CenterLat: req.CenterLat,
		CenterLng: req.CenterLng,
		RadiusM:   req.RadiusM,
	}
	if err := h.geofenceService.Update(c.Request.Context(), fence); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidGeofenceSpec):
			response.BadRequest(c, "Invalid geofence spec")
		case errors.Is(err, repository.ErrNotFound):
			response.NotFound(c, "Geofence not found")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}
	response.Success(c, fence)
}

type activeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PUT /api/v1/geofences/:id/active
func (h *GeofenceHandler) SetActive(c *gin.Context) {
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid payload")
		return
	}

	if err := h.geofenceService.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Geofence not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"active": *req.Active})
}

// Delete handles DELETE /api/v1/geofences/:id
func (h *GeofenceHandler) Delete(c *gin.Context) {
	if err := h.geofenceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Geofence not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
