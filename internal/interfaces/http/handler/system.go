package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oms/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports service and database health
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "ok",
	})
}
