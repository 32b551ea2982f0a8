package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"     // efectivo
	PaymentTransfer PaymentMethod = "transfer" // transferencia
	PaymentOther    PaymentMethod = "other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

// Payment es inmutable: no hay update ni delete en el núcleo.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Date       time.Time       `gorm:"index;not null" json:"date"`
	CustomerID uint            `gorm:"index;not null" json:"customer_id"`
	OrderID    *uint           `gorm:"index" json:"order_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Method     PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Notes      string          `gorm:"size:255" json:"notes"`
	RecordedBy uint            `gorm:"not null" json:"recorded_by"`
	CreatedAt  time.Time       `json:"created_at"`
}
