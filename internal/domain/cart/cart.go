// Package cart holds the server-side shopping cart. A cart only remembers
// product ids and quantities; titles and prices are always read from the
// catalog.
package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxQuantity caps a single cart line
const MaxQuantity = 100

// Item is one cart line
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart belongs to exactly one user
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty cart
func New(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: []Item{}, UpdatedAt: time.Now()}
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty of a product in the cart, merging with an existing line
func (c *Cart) Add(productID uuid.UUID, qty int) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if i := c.indexOf(productID); i >= 0 {
		total := c.Items[i].Quantity + qty
		if total > MaxQuantity {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line limit")
		}
		c.Items[i].Quantity = total
	} else {
		if qty > MaxQuantity {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line limit")
		}
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: qty, AddedAt: time.Now()})
	}
	c.UpdatedAt = time.Now()
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it.
func (c *Cart) UpdateQuantity(productID uuid.UUID, qty int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return shared.NewDomainError("NOT_IN_CART", "Product is not in the cart")
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	if qty > MaxQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line limit")
	}
	c.Items[i].Quantity = qty
	c.UpdatedAt = time.Now()
	return nil
}

// Remove drops a line. Removing a product that is not in the cart is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of all quantities
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Store persists carts. Get returns an empty cart when none is stored.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart, ttl time.Duration) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
