package services

import (
	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat storefront tax, 8%.
var TaxRate = decimal.NewFromFloat(0.08)

// DefaultDeliveryFee applies until the user has a stored override.
var DefaultDeliveryFee = decimal.NewFromFloat(3.99)

// CartTotals is the derived money view of a cart. Recomputed on every
// cart or delivery-fee change, never stored.
type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"itemCount"`
}

// LineTotal prices one line: (unit price + selected option deltas) × qty.
// Malformed lines contribute zero instead of failing the cart.
func LineTotal(l entity.CartLine) decimal.Decimal {
	if !l.Valid() {
		return decimal.Zero
	}
	unit := l.FoodItem.Price
	for _, opt := range l.SelectedOptions {
		unit = unit.Add(opt.PriceDelta)
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Subtotal sums line totals, rounded to 2 decimals. Order of lines does
// not matter.
func Subtotal(lines []entity.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	return sum.Round(2)
}

// Tax is subtotal × 8%, rounded to 2 decimals.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// Totals derives the full money view for a cart and delivery fee.
func Totals(lines []entity.CartLine, deliveryFee decimal.Decimal) CartTotals {
	sub := Subtotal(lines)
	tax := Tax(sub)
	count := 0
	for _, l := range lines {
		if l.Quantity > 0 {
			count++
		}
	}
	return CartTotals{
		Subtotal:    sub,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Total:       sub.Add(deliveryFee).Add(tax).Round(2),
		ItemCount:   count,
	}
}
