package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/support"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// MessageService is the support inbox API the handler drives
type MessageService interface {
	Submit(ctx context.Context, req support.SubmitMessageRequest, origin support.Origin) (*support.MessageResponse, error)
	List(ctx context.Context, f support.MessageListFilter) (shared.Paginated[support.MessageResponse], error)
	ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[support.MessageResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*support.MessageResponse, error)
	GetMine(ctx context.Context, id, userID uuid.UUID) (*support.MessageResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req support.UpdateMessageStatusRequest) (*support.MessageResponse, error)
	AddResponse(ctx context.Context, id, adminID uuid.UUID, req support.AddResponseRequest) (*support.MessageResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageHandler handles contact and support messages
type MessageHandler struct {
	BaseHandler
	messages MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(base BaseHandler, messages MessageService) *MessageHandler {
	return &MessageHandler{BaseHandler: base, messages: messages}
}

// Submit godoc
// @Summary      Send a contact, hire or support message
// @Description  Open to anonymous visitors. A bearer token links the message to the account.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request body support.SubmitMessageRequest true "Message"
// @Success      201 {object} APIResponse[support.MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /messages [post]
func (h *MessageHandler) Submit(c *gin.Context) {
	var req support.SubmitMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	origin := support.Origin{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if id := middleware.CurrentUserID(c); id != uuid.Nil {
		origin.UserID = &id
	}
	msg, err := h.messages.Submit(c.Request.Context(), req, origin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Message received, we will get back to you soon", msg)
}

// ListMine godoc
// @Summary      List the caller's messages
// @Tags         messages
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]support.MessageResponse]
// @Security     BearerAuth
// @Router       /messages/my [get]
func (h *MessageHandler) ListMine(c *gin.Context) {
	var q PageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	msgs, err := h.messages.ListMine(c.Request.Context(), middleware.CurrentUserID(c), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, msgs)
}

// GetMine godoc
// @Summary      Get one of the caller's messages
// @Description  Internal notes are left out.
// @Tags         messages
// @Produce      json
// @Param        id path string true "Message ID" format(uuid)
// @Success      200 {object} APIResponse[support.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages/my/{id} [get]
func (h *MessageHandler) GetMine(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	msg, err := h.messages.GetMine(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// List godoc
// @Summary      List the inbox
// @Tags         messages
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Name, email, subject or body"
// @Param        type      query string false "contact, hire or support"
// @Param        status    query string false "Message status"
// @Param        priority  query string false "Priority"
// @Success      200 {object} APIResponse[[]support.MessageResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	var f support.MessageListFilter
	if !h.BindQuery(c, &f) {
		return
	}
	msgs, err := h.messages.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, msgs)
}

// Get godoc
// @Summary      Get a message
// @Description  Opening a new message marks it read.
// @Tags         messages
// @Produce      json
// @Param        id path string true "Message ID" format(uuid)
// @Success      200 {object} APIResponse[support.MessageResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// UpdateStatus godoc
// @Summary      Change a message's status or priority
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id      path string true "Message ID" format(uuid)
// @Param        request body support.UpdateMessageStatusRequest true "Status"
// @Success      200 {object} APIResponse[support.MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages/{id}/status [patch]
func (h *MessageHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req support.UpdateMessageStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	msg, err := h.messages.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Message updated", msg)
}

// AddResponse godoc
// @Summary      Reply to a message
// @Description  The first public reply moves the message to responded. Internal notes never change the status.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id      path string true "Message ID" format(uuid)
// @Param        request body support.AddResponseRequest true "Reply"
// @Success      201 {object} APIResponse[support.MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages/{id}/responses [post]
func (h *MessageHandler) AddResponse(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req support.AddResponseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	msg, err := h.messages.AddResponse(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Response added", msg)
}

// Delete godoc
// @Summary      Delete a message
// @Tags         messages
// @Produce      json
// @Param        id path string true "Message ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Message deleted", nil)
}
