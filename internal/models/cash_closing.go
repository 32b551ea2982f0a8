package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClosingStatus string

const (
	ClosingDraft     ClosingStatus = "draft"
	ClosingCompleted ClosingStatus = "completed"
)

// CashClosing: corte de caja diario, uno por (fecha, sucursal).
// En sucursales virtuales los campos numéricos quedan en NULL.
type CashClosing struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Date         time.Time        `gorm:"not null;uniqueIndex:idx_closing_date_branch" json:"date"`
	BranchID     uint             `gorm:"not null;uniqueIndex:idx_closing_date_branch;index" json:"branch_id"`
	Status       ClosingStatus    `gorm:"size:20;not null;default:draft" json:"status"`
	CashInDrawer *decimal.Decimal `gorm:"type:decimal(14,2)" json:"cash_in_drawer"`
	SaleTotal    *decimal.Decimal `gorm:"type:decimal(14,2)" json:"sale_total"`
	FlourBags    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"flour_bags"` // bultos de harina usados
	Notes        string           `gorm:"size:500" json:"notes"`
	CreatedBy    uint             `json:"created_by"`
	FinalizedBy  *uint            `json:"finalized_by"`
	FinalizedAt  *time.Time       `json:"finalized_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Expenses []Expense `gorm:"foreignKey:ClosingID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
}

func (c CashClosing) IsCompleted() bool {
	return c.Status == ClosingCompleted
}
