package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategoryType string

const (
	ExpenseCategoryOperational ExpenseCategoryType = "operational"
	ExpenseCategoryPayroll     ExpenseCategoryType = "payroll"
)

type ExpenseCategory struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	Name      string              `gorm:"size:100;not null;unique" json:"name"`
	Type      ExpenseCategoryType `gorm:"size:20;not null;default:operational" json:"type"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Expense cuelga de un corte; BranchID y Date se copian del corte al registrarlo.
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClosingID   uint            `gorm:"index;not null" json:"closing_id"`
	BranchID    uint            `gorm:"index;not null" json:"branch_id"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedBy   uint            `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
