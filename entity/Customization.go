package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomizationGroup is a named set of choices on a food item
// (e.g. "Size", "Extras").
type CustomizationGroup struct {
	gorm.Model
	FoodItemID uint   `json:"-"`
	Name       string `json:"name"`

	Choices []CustomizationChoice `gorm:"foreignKey:GroupID" json:"choices"`
}

type CustomizationChoice struct {
	gorm.Model
	GroupID    uint            `json:"-"`
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `gorm:"type:decimal(10,2)" json:"priceDelta"`
}
