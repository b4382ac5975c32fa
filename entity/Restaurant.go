package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Image       string `json:"image"`
	Cuisine     string `json:"cuisine"`

	// aggregate maintained by the review service
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`

	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2)" json:"deliveryFee"`
	IsOpen      bool            `gorm:"default:true" json:"isOpen"`

	OwnerID uint `json:"ownerId"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"-"`

	FoodItems []FoodItem `json:"-"`
	Orders    []Order    `json:"-"`
	Reviews   []Review   `json:"-"`
}
