package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is an immutable snapshot of a cart line at submission time.
// Name and price are copied so later menu edits never rewrite history.
type OrderItem struct {
	gorm.Model
	OrderID uint `json:"orderId"`

	FoodItemID uint   `json:"foodItemId"`
	Name       string `json:"name"`

	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unitPrice"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`

	// selected customization choices, serialized as stored on the cart line
	SelectedOptions string `json:"selectedOptions,omitempty"`
}
