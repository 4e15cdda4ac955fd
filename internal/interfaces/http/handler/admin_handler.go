package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/skute123/genai-defect-management/internal/application/genai"
	appimport "github.com/skute123/genai-defect-management/internal/application/importing"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/dto"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/router"
)

// AdminHandler serves import and reindex operations
type AdminHandler struct {
	BaseHandler
	imports    *appimport.ImportService
	similarity *genai.SimilarityService
	documents  *genai.DocumentService
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(imports *appimport.ImportService, similarity *genai.SimilarityService, documents *genai.DocumentService) *AdminHandler {
	return &AdminHandler{imports: imports, similarity: similarity, documents: documents}
}

// RegisterRoutes mounts the admin routes
func (h *AdminHandler) RegisterRoutes(g *router.DomainGroup) {
	g.POST("/admin/import/jira", h.ImportJira)
	g.POST("/admin/import/ttwos", h.ImportTTWOS)
	g.POST("/admin/import/merged", h.ImportMerged)
	g.POST("/admin/reindex", h.Reindex)
	g.POST("/admin/reindex/documents", h.ReindexDocuments)
}

type importForm struct {
	Env string `form:"env" binding:"required,oneof=acc sit"`
}

func (h *AdminHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	return h.openUploadField(c, "file")
}

func (h *AdminHandler) openUploadField(c *gin.Context, field string) (multipart.File, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "multipart field '"+field+"' is required")
		return nil, false
	}
	f, err := file.Open()
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "failed to open uploaded file")
		return nil, false
	}
	return f, true
}

// ImportJira loads a tracker CSV export
func (h *AdminHandler) ImportJira(c *gin.Context) {
	var form importForm
	if err := c.ShouldBind(&form); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	f, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	report, err := h.imports.ImportJiraCSV(c.Request.Context(), form.Env, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ImportTTWOS loads a TTWOS spreadsheet extract
func (h *AdminHandler) ImportTTWOS(c *gin.Context) {
	var form importForm
	if err := c.ShouldBind(&form); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	f, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	report, err := h.imports.ImportTTWOSXLSX(c.Request.Context(), form.Env, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ImportMerged loads a tracker CSV and a TTWOS extract in one run.
// On duplicate issue keys the tracker row wins.
func (h *AdminHandler) ImportMerged(c *gin.Context) {
	var form importForm
	if err := c.ShouldBind(&form); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	tracker, ok := h.openUploadField(c, "tracker")
	if !ok {
		return
	}
	defer tracker.Close()

	ttwos, ok := h.openUploadField(c, "ttwos")
	if !ok {
		return
	}
	defer ttwos.Close()

	report, err := h.imports.MergeAndImport(c.Request.Context(), form.Env, tracker, ttwos)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

type reindexRequest struct {
	Force bool `json:"force"`
}

// Reindex rebuilds the defect vector index
func (h *AdminHandler) Reindex(c *gin.Context) {
	var req reindexRequest
	_ = c.ShouldBindJSON(&req)

	report, err := h.similarity.IndexDefects(c.Request.Context(), req.Force)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ReindexDocuments rebuilds the knowledge base index
func (h *AdminHandler) ReindexDocuments(c *gin.Context) {
	report, err := h.documents.IndexKnowledgeBase(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
