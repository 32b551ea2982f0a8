package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supply: insumo (masa, harina...). El precio vigente es el SupplyPrice más reciente.
type Supply struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Unit      string `gorm:"size:20;not null;default:kg"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SupplyPrice struct {
	ID            uint            `gorm:"primaryKey"`
	SupplyID      uint            `gorm:"index;not null"`
	PricePerUnit  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	EffectiveDate time.Time       `gorm:"index;not null"`
	CreatedAt     time.Time
}
