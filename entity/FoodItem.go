package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DietaryType classifies a food item for preference filtering.
type DietaryType string

const (
	DietaryVegetarian    DietaryType = "vegetarian"
	DietaryVegan         DietaryType = "vegan"
	DietaryNonVegetarian DietaryType = "non-vegetarian"
	DietarySeafood       DietaryType = "seafood"
)

type FoodItem struct {
	gorm.Model
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Category    string          `json:"category"`
	Popular     bool            `json:"popular"`

	DietaryType DietaryType `json:"dietaryType,omitempty"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Nutrition *NutritionalInfo `gorm:"foreignKey:FoodItemID" json:"nutritionalInfo,omitempty"`

	CustomizationGroups []CustomizationGroup `gorm:"foreignKey:FoodItemID" json:"options,omitempty"`
}
