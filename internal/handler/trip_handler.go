package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rotas-rs/service-tripcost/internal/application"
	"github.com/rotas-rs/service-tripcost/internal/platform/response"
)

// SessionHeader scopes the displayed estimate to one client.
const SessionHeader = "X-Session-ID"

// TripHandler handles HTTP requests for trip estimates.
type TripHandler struct {
	service *application.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(service *application.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// RegisterRoutes registers all trip routes on the given router group.
func (h *TripHandler) RegisterRoutes(r *gin.RouterGroup) {
	trips := r.Group("/api/v1/trips")
	{
		trips.POST("/estimate", h.Estimate)
		trips.GET("/current", h.Current)
	}
}

// Estimate handles POST /api/v1/trips/estimate.
func (h *TripHandler) Estimate(c *gin.Context) {
	var req application.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Estimate(c.Request.Context(), sessionID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Current handles GET /api/v1/trips/current.
func (h *TripHandler) Current(c *gin.Context) {
	result, err := h.service.Current(sessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	return application.DefaultSession
}
