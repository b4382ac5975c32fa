package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentIntentStatus string

const (
	IntentCreated    PaymentIntentStatus = "created"
	IntentProcessing PaymentIntentStatus = "processing"
	IntentSucceeded  PaymentIntentStatus = "succeeded"
	IntentFailed     PaymentIntentStatus = "failed"
)

// PaymentIntent mirrors the simulated payment provider's record.
// Keyed by uuid rather than an autoincrement id so intent ids are opaque.
type PaymentIntent struct {
	ID     string              `gorm:"primaryKey" json:"id"`
	Amount decimal.Decimal     `gorm:"type:decimal(10,2)" json:"amount"`
	Email  string              `json:"email"`
	Status PaymentIntentStatus `gorm:"not null;default:created" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
