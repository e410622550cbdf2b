package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// CartService is the server-side cart API the handler drives
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.Response, error)
	AddItem(ctx context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.Response, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req cart.UpdateItemRequest) (*cart.Response, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cart.Response, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Checkout(ctx context.Context, userID uuid.UUID, req cart.CheckoutRequest, idempotencyKey string) (*trade.OrderResponse, bool, error)
}

// CartHandler handles the caller's cart
type CartHandler struct {
	BaseHandler
	carts     CartService
	conflicts StockConflicts
}

// NewCartHandler creates a new CartHandler. conflicts may be nil.
func NewCartHandler(base BaseHandler, carts CartService, conflicts StockConflicts) *CartHandler {
	if conflicts == nil {
		conflicts = noStockConflicts{}
	}
	return &CartHandler{BaseHandler: base, carts: carts, conflicts: conflicts}
}

// Get godoc
// @Summary      Get the cart
// @Description  Lines are re-priced from the catalog; unavailable products are dropped.
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cart.Response]
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.carts.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart increases its quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.AddItemRequest true "Line"
// @Success      200 {object} APIResponse[cart.Response]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.carts.AddItem(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Item added to cart", resp)
}

// UpdateItem godoc
// @Summary      Set a line's quantity
// @Description  A quantity of zero removes the line.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request   body cart.UpdateItemRequest true "Quantity"
// @Success      200 {object} APIResponse[cart.Response]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, ok := h.ParamID(c, "productId")
	if !ok {
		return
	}
	var req cart.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.carts.UpdateItem(c.Request.Context(), middleware.CurrentUserID(c), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Cart updated", resp)
}

// RemoveItem godoc
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[cart.Response]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.ParamID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.carts.RemoveItem(c.Request.Context(), middleware.CurrentUserID(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Item removed from cart", resp)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} MessageResponse
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Cart cleared", nil)
}

// Checkout godoc
// @Summary      Place an order from the cart
// @Description  The cart is emptied only when the order is placed.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied retry key"
// @Param        request body cart.CheckoutRequest true "Payment and billing"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	key, ok := h.idempotencyKey(c)
	if !ok {
		return
	}
	var req cart.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, replayed, err := h.carts.Checkout(c.Request.Context(), middleware.CurrentUserID(c), req, key)
	if err != nil {
		recordStockConflict(err, h.conflicts)
		h.HandleError(c, err)
		return
	}
	h.placed(c, order, replayed)
}
