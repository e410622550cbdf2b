// Package cart implements the server-side shopping cart.
package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductLookup loads the products referenced by a cart
type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error)
}

// OrderPlacer places the checkout order
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req trade.PlaceOrderRequest, idempotencyKey string) (*trade.OrderResponse, bool, error)
}

// AddItemRequest adds a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1,max=100"`
}

// UpdateItemRequest sets the quantity of a line; zero removes it
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=100"`
}

// CheckoutRequest carries the order details the cart does not hold
type CheckoutRequest struct {
	PaymentMethod  string               `json:"payment_method" binding:"required,oneof=card paypal bank_transfer crypto"`
	BillingAddress trade.AddressRequest `json:"billing_address" binding:"required"`
	CustomerNotes  string               `json:"customer_notes" binding:"max=2000"`
}

// ItemResponse is a cart line priced from the current catalog
type ItemResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Title          string          `json:"title"`
	Image          string          `json:"image,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	LineTotal      decimal.Decimal `json:"line_total"`
	InStock        bool            `json:"in_stock"`
	AvailableStock *int            `json:"available_stock"`
	AddedAt        time.Time       `json:"added_at"`
}

// Response is the priced cart
type Response struct {
	Items     []ItemResponse  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Service manages carts
type Service struct {
	store    cart.Store
	products ProductLookup
	orders   OrderPlacer
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService creates a cart service. Carts expire ttl after the last change.
func NewService(store cart.Store, products ProductLookup, orders OrderPlacer, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{store: store, products: products, orders: orders, ttl: ttl, logger: logger}
}

// Get returns the cart with current titles and prices. Lines whose
// product was removed or deactivated are dropped.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Response, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, c)
}

// AddItem adds quantity (default 1) of a product, merging with an existing line
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*Response, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	product, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.Add(req.ProductID, qty); err != nil {
		return nil, err
	}
	if err := product.CanFulfil(quantityOf(c, req.ProductID)); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// UpdateItem sets the quantity of a line. Zero removes it.
func (s *Service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*Response, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		product, err := s.product(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := product.CanFulfil(req.Quantity); err != nil {
			return nil, err
		}
	}
	if err := c.UpdateQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, c)
}

// RemoveItem drops a line
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Response, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	return s.save(ctx, c)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Delete(ctx, userID)
}

// Checkout places an order for the cart contents and then empties the
// cart. The cart is kept when placement fails.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest, idempotencyKey string) (*trade.OrderResponse, bool, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if _, err := s.price(ctx, c); err != nil {
		return nil, false, err
	}
	if c.IsEmpty() {
		return nil, false, shared.NewDomainError("EMPTY_CART", "Your cart is empty")
	}

	lines := make([]trade.OrderLineRequest, len(c.Items))
	for i, it := range c.Items {
		lines[i] = trade.OrderLineRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	order, replayed, err := s.orders.PlaceOrder(ctx, userID, trade.PlaceOrderRequest{
		Items:          lines,
		PaymentMethod:  req.PaymentMethod,
		BillingAddress: req.BillingAddress,
		CustomerNotes:  req.CustomerNotes,
	}, idempotencyKey)
	if err != nil {
		return nil, false, err
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	return order, replayed, nil
}

func (s *Service) product(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	found, err := s.products.FindByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || !found[0].IsActive {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found or unavailable")
	}
	return found[0], nil
}

func (s *Service) save(ctx context.Context, c *cart.Cart) (*Response, error) {
	if err := s.store.Save(ctx, c, s.ttl); err != nil {
		return nil, err
	}
	return s.price(ctx, c)
}

// price joins the cart with the catalog. Stale lines are removed from c
// and the pruned cart is stored.
func (s *Service) price(ctx context.Context, c *cart.Cart) (*Response, error) {
	resp := &Response{Items: []ItemResponse{}, Subtotal: decimal.Zero, UpdatedAt: c.UpdatedAt}
	if c.IsEmpty() {
		return resp, nil
	}

	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var stale []uuid.UUID
	lines := make([]decimal.Decimal, 0, len(c.Items))
	for _, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsActive {
			stale = append(stale, it.ProductID)
			continue
		}
		line := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		resp.Items = append(resp.Items, ItemResponse{
			ProductID:      p.ID,
			Title:          p.Title,
			Image:          image,
			Price:          p.Price,
			Quantity:       it.Quantity,
			LineTotal:      line,
			InStock:        p.CanFulfil(it.Quantity) == nil,
			AvailableStock: p.Stock,
			AddedAt:        it.AddedAt,
		})
		lines = append(lines, line)
	}

	if len(stale) > 0 {
		for _, id := range stale {
			c.Remove(id)
		}
		if err := s.store.Save(ctx, c, s.ttl); err != nil {
			s.logger.Warn("Failed to prune cart", zap.String("user_id", c.UserID.String()), zap.Error(err))
		}
		resp.UpdatedAt = c.UpdatedAt
	}
	resp.ItemCount = c.ItemCount()
	resp.Subtotal = valueobject.SumMoney(lines...)
	return resp, nil
}

func quantityOf(c *cart.Cart, productID uuid.UUID) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}
