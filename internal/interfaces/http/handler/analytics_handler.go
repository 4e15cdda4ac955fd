package handler

import (
	"github.com/gin-gonic/gin"

	appdefect "github.com/skute123/genai-defect-management/internal/application/defect"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/dto"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/router"
)

// AnalyticsHandler serves defect distribution endpoints
type AnalyticsHandler struct {
	BaseHandler
	analytics *appdefect.AnalyticsService
}

// NewAnalyticsHandler creates the analytics handler
func NewAnalyticsHandler(analytics *appdefect.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// RegisterRoutes mounts the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("/analytics/osf-systems", h.OSFSystems)
	g.GET("/analytics/vendor-applications", h.VendorApplications)
}

type analyticsRequest struct {
	Env string `form:"env" binding:"required,oneof=acc sit"`
}

// OSFSystems returns the defect breakdown by OSF system
func (h *AnalyticsHandler) OSFSystems(c *gin.Context) {
	var req analyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	dist, err := h.analytics.OSFSystemDistribution(c.Request.Context(), req.Env)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dist)
}

// VendorApplications returns the breakdown by vendor and application
func (h *AnalyticsHandler) VendorApplications(c *gin.Context) {
	var req analyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	dist, err := h.analytics.VendorApplicationDistribution(c.Request.Context(), req.Env)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dist)
}
