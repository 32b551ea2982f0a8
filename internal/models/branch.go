package models

import "time"

type BranchType string

const (
	BranchTypePhysical BranchType = "physical" // mostrador: vende y reporta efectivo
	BranchTypeVirtual  BranchType = "virtual"  // bolsa interna: nómina, ahorro, gastos globales
)

// BranchPurpose reemplaza la detección por nombre ("Ahorro", "Nómina", ...) de las bolsas virtuales.
type BranchPurpose string

const (
	BranchPurposeSales       BranchPurpose = "sales"
	BranchPurposePayroll     BranchPurpose = "payroll"
	BranchPurposeSavings     BranchPurpose = "savings"
	BranchPurposeGlobalCosts BranchPurpose = "global_costs"
)

type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

type Branch struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:100;not null;unique" json:"name"`
	Address   string        `gorm:"size:255" json:"address"`
	Type      BranchType    `gorm:"size:20;not null;default:physical" json:"type"`
	Purpose   BranchPurpose `gorm:"size:20;not null;default:sales" json:"purpose"`
	Status    RecordStatus  `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (b Branch) IsPhysical() bool {
	return b.Type == BranchTypePhysical
}
