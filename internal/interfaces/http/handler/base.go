// Package handler implements the REST endpoints of the marketplace API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	// exposeErrors adds the raw error text to 500 responses
	exposeErrors bool
}

// NewBaseHandler creates the shared helpers. exposeErrors should only be
// set in development.
func NewBaseHandler(exposeErrors bool) BaseHandler {
	return BaseHandler{exposeErrors: exposeErrors}
}

// PageQuery is the page/page_size pair of simple list endpoints
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Success sends a 200 with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Success(data))
}

// Created sends a 201 with data
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.SuccessMessage(message, data))
}

// Message sends a 200 with a message and optional data
func (h *BaseHandler) Message(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.SuccessMessage(message, data))
}

// Error sends a failure envelope with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.Failure(code, message))
}

// NotFound sends the 404 envelope
func (h *BaseHandler) NotFound(c *gin.Context) {
	h.Error(c, http.StatusNotFound, shared.ErrNotFound.Code, shared.ErrNotFound.Message)
}

// HandleError maps domain errors to their status; anything else is a 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.StatusFor(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	resp := dto.Failure(dto.CodeInternal, "Internal server error")
	if h.exposeErrors {
		resp.Data = gin.H{"detail": err.Error()}
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

// BindJSON binds and validates the body, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.Invalid("Validation failed", middleware.FieldErrors(err)))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.Invalid("Invalid query parameters", middleware.FieldErrors(err)))
		return false
	}
	return true
}

// ParamID parses a uuid path parameter. A malformed id cannot name an
// existing record, so it is answered like a missing one.
func (h *BaseHandler) ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.NotFound(c)
		return uuid.Nil, false
	}
	return id, true
}

// page writes a paginated list with its meta block
func page[T any](c *gin.Context, p shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.Page(p))
}
