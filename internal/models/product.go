package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null;unique" json:"name"`
	Code      string          `gorm:"size:50;index" json:"code"`
	Unit      string          `gorm:"size:20;not null;default:kg" json:"unit"`
	ListPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"list_price"`
	Status    RecordStatus    `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BranchPrice: precio especial de un producto en una sucursal
type BranchPrice struct {
	ID        uint            `gorm:"primaryKey"`
	BranchID  uint            `gorm:"not null;uniqueIndex:idx_branch_price"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_branch_price"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerPrice: precio pactado con un cliente, tiene prioridad sobre la sucursal
type CustomerPrice struct {
	ID         uint            `gorm:"primaryKey"`
	CustomerID uint            `gorm:"not null;uniqueIndex:idx_customer_price"`
	ProductID  uint            `gorm:"not null;uniqueIndex:idx_customer_price"`
	Price      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
