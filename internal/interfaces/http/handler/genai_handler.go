package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skute123/genai-defect-management/internal/application/genai"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/dto"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/router"
)

// GenAIHandler serves the assistant endpoints
type GenAIHandler struct {
	BaseHandler
	similarity *genai.SimilarityService
	documents  *genai.DocumentService
	enhanced   *genai.EnhancedSearchService
	suggester  *genai.ResolutionSuggester
}

// NewGenAIHandler creates the assistant handler
func NewGenAIHandler(
	similarity *genai.SimilarityService,
	documents *genai.DocumentService,
	enhanced *genai.EnhancedSearchService,
	suggester *genai.ResolutionSuggester,
) *GenAIHandler {
	return &GenAIHandler{
		similarity: similarity,
		documents:  documents,
		enhanced:   enhanced,
		suggester:  suggester,
	}
}

// RegisterRoutes mounts the assistant routes
func (h *GenAIHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("/genai/defects/:issueKey/similar", h.SimilarDefects)
	g.POST("/genai/defects/:issueKey/suggest", h.SuggestResolution)
	g.POST("/genai/search", h.EnhancedSearch)
	g.GET("/genai/documents/search", h.SearchDocuments)
}

type similarRequest struct {
	TopK          int     `form:"top_k,default=5" binding:"omitempty,min=1,max=50"`
	MinSimilarity float64 `form:"min_similarity" binding:"omitempty,min=0,max=1"`
	ResolvedOnly  bool    `form:"resolved_only"`
}

// SimilarDefects returns defects semantically close to the given one
func (h *GenAIHandler) SimilarDefects(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}
	if req.MinSimilarity == 0 {
		req.MinSimilarity = genai.DefaultSimilarDefectMin
	}

	results, err := h.similarity.FindSimilar(c.Request.Context(), c.Param("issueKey"),
		req.TopK, req.MinSimilarity, req.ResolvedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

type enhancedSearchRequest struct {
	IssueKey string `json:"issue_key"`
	Text     string `json:"text"`
	TopK     int    `json:"top_k" binding:"omitempty,min=1,max=50"`
}

// EnhancedSearch runs the combined assistant search for an issue key
// or a free-text problem description
func (h *GenAIHandler) EnhancedSearch(c *gin.Context) {
	var req enhancedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	var (
		result *genai.EnhancedResultDTO
		err    error
	)
	switch {
	case req.IssueKey != "":
		result, err = h.enhanced.SearchByIssueKey(c.Request.Context(), req.IssueKey, req.TopK)
	case req.Text != "":
		result, err = h.enhanced.SearchByText(c.Request.Context(), req.Text, req.TopK)
	default:
		h.Error(c, dto.ErrCodeInvalidInput, "either issue_key or text is required")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type documentSearchRequest struct {
	Q    string `form:"q" binding:"required"`
	TopK int    `form:"top_k,default=5" binding:"omitempty,min=1,max=50"`
}

// SearchDocuments queries the knowledge base
func (h *GenAIHandler) SearchDocuments(c *gin.Context) {
	var req documentSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	hits, err := h.documents.Search(c.Request.Context(), req.Q, req.TopK, genai.DefaultDocumentSearchMin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, hits)
}

// SuggestResolution proposes a fix from similar resolved defects
func (h *GenAIHandler) SuggestResolution(c *gin.Context) {
	target, err := h.similarity.Lookup(c.Request.Context(), c.Param("issueKey"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	similar, err := h.similarity.FindSimilar(c.Request.Context(), target.IssueKey,
		genai.DefaultTopK, genai.DefaultSimilarDefectMin, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	suggestion := h.suggester.Suggest(c.Request.Context(), target.DocumentQuery(), similar)
	if suggestion == nil {
		h.Error(c, dto.ErrCodeNotFound, "no resolved similar defects to learn from")
		return
	}
	h.Success(c, suggestion)
}
