package trade

import (
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricingPolicy holds the tax and shipping rules applied at checkout
type PricingPolicy struct {
	TaxRate               decimal.Decimal // fraction, 0.10 = 10%
	FreeShippingThreshold decimal.Decimal // shipping is free when subtotal is strictly above
	ShippingFee           decimal.Decimal
}

// DefaultPricingPolicy is 10% tax, free shipping above $100, $10 otherwise
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               decimal.NewFromFloat(0.10),
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.NewFromInt(10),
	}
}

// Quote is the price breakdown of an order
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Quote prices a subtotal. The total may be negative when the discount is
// larger than the order; callers reject that.
func (p PricingPolicy) Quote(subtotal, discount decimal.Decimal) Quote {
	subtotal = valueobject.RoundMoney(subtotal)
	discount = valueobject.RoundMoney(discount)
	tax := valueobject.Percent(subtotal, p.TaxRate)
	shipping := p.ShippingFor(subtotal)
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}

// ShippingFor returns the shipping charge for a subtotal
func (p PricingPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return valueobject.RoundMoney(p.ShippingFee)
}
