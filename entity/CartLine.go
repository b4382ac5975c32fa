package entity

import (
	"github.com/shopspring/decimal"
)

// SelectedOption is one customization choice picked on a cart line.
type SelectedOption struct {
	Group      string          `json:"group"`
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

// CartLine lives in the key/value session store, not the database.
// The FoodItem is snapshotted whole so the cart survives menu edits.
type CartLine struct {
	ID              string           `json:"id"` // "<foodItemID>-<unix ms>"
	FoodItem        FoodItem         `json:"foodItem"`
	Quantity        int              `json:"quantity"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
}

// Valid reports whether a stored line is usable. Loads drop invalid
// lines one by one instead of rejecting the whole cart.
func (l CartLine) Valid() bool {
	return l.ID != "" && l.FoodItem.ID != 0 && l.Quantity > 0 && l.FoodItem.Price.IsPositive()
}
