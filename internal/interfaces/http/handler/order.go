package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// OrderService is the order API the handler drives
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req trade.PlaceOrderRequest, idempotencyKey string) (*trade.OrderResponse, bool, error)
	Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*trade.OrderResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[trade.OrderResponse], error)
	ListAll(ctx context.Context, f trade.OrderListFilter) (shared.Paginated[trade.OrderResponse], error)
	UpdateStatus(ctx context.Context, id, adminID uuid.UUID, req trade.UpdateStatusRequest) (*trade.OrderResponse, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, reason string) (*trade.OrderResponse, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, req trade.UpdatePaymentRequest) (*trade.OrderResponse, error)
	AddNote(ctx context.Context, id, adminID uuid.UUID, req trade.AddNoteRequest) (*trade.OrderResponse, error)
	AddDeliveryFiles(ctx context.Context, id uuid.UUID, req trade.AddDeliveryFilesRequest) (*trade.OrderResponse, error)
}

// StockConflicts counts orders refused for lack of stock
type StockConflicts interface {
	RecordStockConflict()
}

type noStockConflicts struct{}

func (noStockConflicts) RecordStockConflict() {}

const maxIdempotencyKeyLength = 200

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orders    OrderService
	conflicts StockConflicts
}

// NewOrderHandler creates a new OrderHandler. conflicts may be nil.
func NewOrderHandler(base BaseHandler, orders OrderService, conflicts StockConflicts) *OrderHandler {
	if conflicts == nil {
		conflicts = noStockConflicts{}
	}
	return &OrderHandler{BaseHandler: base, orders: orders, conflicts: conflicts}
}

// idempotencyKey reads the optional Idempotency-Key header
func (h *BaseHandler) idempotencyKey(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.CodeValidation, "Idempotency-Key is too long")
		return "", false
	}
	return key, true
}

// placed answers a placement: 201 for a new order, 200 plus the replay
// header when the idempotency key had already been used
func (h *BaseHandler) placed(c *gin.Context, order *trade.OrderResponse, replayed bool) {
	if replayed {
		c.Header(middleware.IdempotentReplayHeader, "true")
		h.Message(c, "Order already placed", order)
		return
	}
	h.Created(c, "Order placed", order)
}

func recordStockConflict(err error, conflicts StockConflicts) {
	if errors.Is(err, shared.ErrInsufficientStock) {
		conflicts.RecordStockConflict()
	}
}

// Place godoc
// @Summary      Place an order
// @Description  Prices come from the catalog. Stock is reserved atomically; any short line fails the whole order.
// @Description  Repeating a request with the same Idempotency-Key returns the first result.
// @Description  Only admins may send a discount.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied retry key"
// @Param        request body trade.PlaceOrderRequest true "Order"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Success      200 {object} APIResponse[trade.OrderResponse] "Replayed result"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	key, ok := h.idempotencyKey(c)
	if !ok {
		return
	}
	var req trade.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.Discount != nil && !middleware.IsAdmin(c) {
		h.Error(c, http.StatusForbidden, shared.ErrForbidden.Code, "Only admins can apply a discount")
		return
	}
	order, replayed, err := h.orders.PlaceOrder(c.Request.Context(), middleware.CurrentUserID(c), req, key)
	if err != nil {
		recordStockConflict(err, h.conflicts)
		h.HandleError(c, err)
		return
	}
	h.placed(c, order, replayed)
}

// ListMine godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]trade.OrderResponse]
// @Security     BearerAuth
// @Router       /orders/my [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	var q PageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	orders, err := h.orders.ListMine(c.Request.Context(), middleware.CurrentUserID(c), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, orders)
}

// Get godoc
// @Summary      Get an order
// @Description  Owners see their own orders without internal notes; admins see everything.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id, middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Customers may cancel pending or confirmed orders; admins any open order. Stock is returned.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body trade.CancelOrderRequest false "Reason"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.CancelOrderRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), id, middleware.CurrentUserID(c), middleware.IsAdmin(c), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Order cancelled", order)
}

// ListAll godoc
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Param        page           query int    false "Page number"
// @Param        page_size      query int    false "Page size"
// @Param        status         query string false "Order status"
// @Param        payment_status query string false "Payment status"
// @Param        user_id        query string false "Customer" format(uuid)
// @Param        from           query string false "Created from (RFC 3339 or YYYY-MM-DD)"
// @Param        to             query string false "Created to (RFC 3339 or YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]trade.OrderResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var f trade.OrderListFilter
	if !h.BindQuery(c, &f) {
		return
	}
	orders, err := h.orders.ListAll(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, orders)
}

// UpdateStatus godoc
// @Summary      Move an order to another status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body trade.UpdateStatusRequest true "Status"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Order status updated", order)
}

// UpdatePayment godoc
// @Summary      Record a payment status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body trade.UpdatePaymentRequest true "Payment"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/payment [patch]
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.UpdatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Payment status updated", order)
}

// AddNote godoc
// @Summary      Add a note to an order
// @Description  Internal notes are hidden from the customer.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body trade.AddNoteRequest true "Note"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/notes [post]
func (h *OrderHandler) AddNote(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.AddNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.AddNote(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Note added", order)
}

// AddDeliveryFiles godoc
// @Summary      Attach deliverables to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body trade.AddDeliveryFilesRequest true "Files"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/delivery-files [post]
func (h *OrderHandler) AddDeliveryFiles(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.AddDeliveryFilesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.AddDeliveryFiles(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Delivery files added", order)
}
