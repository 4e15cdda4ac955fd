package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appdefect "github.com/skute123/genai-defect-management/internal/application/defect"
	"github.com/skute123/genai-defect-management/internal/domain/shared"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/dto"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/router"
)

// DefectHandler serves defect listing and search endpoints
type DefectHandler struct {
	BaseHandler
	queries *appdefect.QueryService
}

// NewDefectHandler creates the defect handler
func NewDefectHandler(queries *appdefect.QueryService) *DefectHandler {
	return &DefectHandler{queries: queries}
}

// RegisterRoutes mounts the defect routes
func (h *DefectHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("/defects", h.List)
	g.GET("/defects/search", h.SearchKeyword)
	g.GET("/defects/search/export", h.ExportCSV)
	g.GET("/defects/:issueKey", h.SearchIssueKey)
}

// List returns a page of defects for one environment
func (h *DefectHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	page, err := h.queries.ListDefects(c.Request.Context(), req.Env, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, &dto.Meta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// SearchIssueKey looks a defect up by exact key across environments
func (h *DefectHandler) SearchIssueKey(c *gin.Context) {
	result, err := h.queries.SearchByIssueKey(c.Request.Context(), c.Param("issueKey"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type keywordSearchRequest struct {
	dto.ListRequest
	Q       string `form:"q" binding:"required"`
	Columns string `form:"columns"` // comma separated
}

func (r *keywordSearchRequest) columnList() []string {
	if strings.TrimSpace(r.Columns) == "" {
		return nil
	}
	return strings.Split(r.Columns, ",")
}

// SearchKeyword runs the keyword search over selected columns
func (h *DefectHandler) SearchKeyword(c *gin.Context) {
	var req keywordSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	page, err := h.queries.SearchByKeyword(c.Request.Context(), req.Env, req.Q, req.columnList(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, &dto.Meta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// ExportCSV streams keyword search results as a CSV download
func (h *DefectHandler) ExportCSV(c *gin.Context) {
	var req keywordSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	filename := fmt.Sprintf("defects_%s_%s.csv", req.Env, time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Status(http.StatusOK)

	if err := h.queries.ExportCSV(c.Request.Context(), req.Env, req.Q, req.columnList(), c.Writer); err != nil {
		// Headers are committed; all we can do is log and cut the stream
		_ = c.Error(err)
	}
}
