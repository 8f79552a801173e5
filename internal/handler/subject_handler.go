package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/service"
	"github.com/fieldtrack/location-backend-go/pkg/response"
)

// SubjectHandler handles HTTP requests for derived subject views: route
// statistics, raw history, transitions, and liveness
type SubjectHandler struct {
	routeService    *service.RouteService
	activityService *service.ActivityService
	trackingService *service.TrackingService
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(routeService *service.RouteService, activityService *service.ActivityService, trackingService *service.TrackingService) *SubjectHandler {
	return &SubjectHandler{
		routeService:    routeService,
		activityService: activityService,
		trackingService: trackingService,
	}
}

// Route handles GET /api/v1/subjects/:subject/route
func (h *SubjectHandler) Route(c *gin.Context) {
	var filter models.PositionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid window parameters")
		return
	}

	stats, err := h.routeService.GetRouteStatistics(c.Request.Context(), c.Param("subject"), filter.From, filter.To)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

// Positions handles GET /api/v1/subjects/:subject/positions
func (h *SubjectHandler) Positions(c *gin.Context) {
	var filter models.PositionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid window parameters")
		return
	}

	samples, err := h.routeService.GetHistory(c.Request.Context(), c.Param("subject"), filter.From, filter.To)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, samples)
}

// Transitions handles GET /api/v1/subjects/:subject/transitions
func (h *SubjectHandler) Transitions(c *gin.Context) {
	var filter models.PositionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid window parameters")
		return
	}

	events, err := h.trackingService.Transitions(c.Request.Context(), c.Param("subject"), filter.From, filter.To)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, events)
}

// Activity handles GET /api/v1/subjects/:subject/activity
func (h *SubjectHandler) Activity(c *gin.Context) {
	report, err := h.activityService.GetActivityStatus(c.Request.Context(), c.Param("subject"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, report)
}
