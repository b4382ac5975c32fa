package entity

import (
	"time"

	"gorm.io/gorm"
)

type TrackingUpdate struct {
	gorm.Model
	OrderID     uint        `json:"orderId"`
	Status      OrderStatus `json:"status"`
	Description string      `json:"description"`
	RecordedAt  time.Time   `json:"recordedAt"`
}
