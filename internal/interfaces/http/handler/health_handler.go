package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/skute123/genai-defect-management/internal/interfaces/http/router"
)

// Pinger is anything that can report liveness of a dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the health probe
type HealthHandler struct {
	BaseHandler
	db      Pinger
	version string
}

// NewHealthHandler creates the health handler
func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// RegisterRoutes mounts the health route
func (h *HealthHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("/health", h.Health)
}

// Health reports service and dependency status
func (h *HealthHandler) Health(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"version": h.version,
	}
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}
	h.Success(c, status)
}
