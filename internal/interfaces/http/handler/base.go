package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/shared"
	"github.com/skute123/genai-defect-management/internal/infrastructure/logger"
	"github.com/skute123/genai-defect-management/internal/interfaces/http/dto"
)

// BaseHandler provides uniform response helpers for all handlers
type BaseHandler struct{}

// Success writes a 200 envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 envelope with metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, meta *dto.Meta) {
	meta.RequestID = getRequestID(c)
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Created writes a 201 envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error writes an error envelope with the status derived from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// HandleError translates domain errors into API errors. Unknown
// errors become a 500 without leaking internals.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "internal server error")
}

func getRequestID(c *gin.Context) string {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
