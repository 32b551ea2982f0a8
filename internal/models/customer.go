package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCreditLimit aplica cuando el cliente no tiene un límite explícito.
var DefaultCreditLimit = decimal.NewFromInt(200)

type Customer struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:150;not null" json:"name"`
	Phone       string           `gorm:"size:50" json:"phone"`
	CreditLimit *decimal.Decimal `gorm:"type:decimal(14,2)" json:"credit_limit"` // nil: límite por defecto
	Approved    bool             `gorm:"not null;default:false" json:"approved"`
	Status      RecordStatus     `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (c Customer) IsActive() bool {
	return c.Status != StatusInactive
}

// EffectiveCreditLimit: límite propio del cliente (0 = sin crédito) o el de
// por defecto cuando no tiene uno.
func (c Customer) EffectiveCreditLimit(fallback decimal.Decimal) decimal.Decimal {
	if c.CreditLimit != nil && !c.CreditLimit.IsNegative() {
		return *c.CreditLimit
	}
	return fallback
}
