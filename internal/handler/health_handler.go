package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rotas-rs/service-tripcost/internal/application"
)

// HealthHandler reports liveness, the loaded POI set and, when configured, database reachability.
type HealthHandler struct {
	service *application.POIService
	db      *gorm.DB
	name    string
}

// NewHealthHandler creates a new HealthHandler. db may be nil.
func NewHealthHandler(service *application.POIService, db *gorm.DB, name string) *HealthHandler {
	return &HealthHandler{service: service, db: db, name: name}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	stats := h.service.Stats()
	body := gin.H{
		"status":  "healthy",
		"service": h.name,
		"pois": gin.H{
			"tolls":            stats.Tolls,
			"roadworks":        stats.Roadworks,
			"duplicated_lanes": stats.DuplicatedLanes,
			"loaded_at":        stats.LoadedAt,
		},
	}

	if h.db != nil {
		if err := h.pingDB(c.Request.Context()); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}

	c.JSON(http.StatusOK, body)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
