package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotas-rs/service-tripcost/internal/application"
	"github.com/rotas-rs/service-tripcost/internal/platform/response"
)

// POIHandler handles HTTP requests for POI listings.
type POIHandler struct {
	service *application.POIService
}

// NewPOIHandler creates a new POIHandler.
func NewPOIHandler(service *application.POIService) *POIHandler {
	return &POIHandler{service: service}
}

// RegisterRoutes registers all POI routes on the given router group.
func (h *POIHandler) RegisterRoutes(r *gin.RouterGroup) {
	pois := r.Group("/api/v1/pois")
	{
		pois.GET("", h.ListPOIs)
		pois.GET("/geojson", h.GeoJSON)
	}
}

// ListPOIs handles GET /api/v1/pois?category=.
func (h *POIHandler) ListPOIs(c *gin.Context) {
	pois, err := h.service.List(c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, pois)
}

// GeoJSON handles GET /api/v1/pois/geojson. The body is a bare FeatureCollection so map clients can load it directly.
func (h *POIHandler) GeoJSON(c *gin.Context) {
	fc := h.service.GeoJSON()
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}
