package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2)" json:"deliveryFee"`
	Tax         decimal.Decimal `gorm:"type:decimal(10,2)" json:"tax"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`

	Status OrderStatus `gorm:"not null;default:pending" json:"status"`

	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod"` // credit_card | cash | cashapp

	EstimatedDelivery time.Time `json:"estimatedDelivery"`

	UserID uint `json:"userId"`
	User   User `json:"-"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	DeliveryPartnerID *uint            `json:"deliveryPartnerId,omitempty"`
	DeliveryPartner   *DeliveryPartner `json:"deliveryPartner,omitempty"`

	// preload only on detail
	Items           []OrderItem      `json:"items,omitempty"`
	TrackingUpdates []TrackingUpdate `json:"trackingUpdates,omitempty"`
}
