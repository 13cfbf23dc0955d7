package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rotas-rs/service-tripcost/internal/application"
	"github.com/rotas-rs/service-tripcost/internal/platform/response"
)

// AdminHandler handles operator requests for POI feed management.
type AdminHandler struct {
	service *application.POIService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.POIService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.POST("/pois/refresh", h.RefreshPOIs)
		admin.GET("/stats/pois", h.POIStats)
	}
}

// RefreshPOIs handles POST /api/v1/admin/pois/refresh.
func (h *AdminHandler) RefreshPOIs(c *gin.Context) {
	result, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// POIStats handles GET /api/v1/admin/stats/pois.
func (h *AdminHandler) POIStats(c *gin.Context) {
	response.Success(c, h.service.Stats())
}
