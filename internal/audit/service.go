package audit

import (
	"encoding/json"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	EntityOrder       = "order"
	EntityPayment     = "payment"
	EntityCashClosing = "cash_closing"
	EntityExpense     = "expense"
)

type LogOptions struct {
	BranchID    *uint
	UserID      uint
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog inserta el registro con la misma tx que el cambio: si la
// operación se revierte, el registro también.
func WriteLog(tx *gorm.DB, opts LogOptions) error {
	// Postgres: para jsonb hay que mandar "null", no cadena vacía
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return errors.Wrap(err, "no se pudo guardar la bitácora")
	}
	return nil
}

type Filter struct {
	BranchID   *uint
	UserID     *uint
	EntityType string
	EntityID   *uint
	Limit      int
}

func List(tx *gorm.DB, f Filter) ([]models.AuditLog, error) {
	q := tx.Model(&models.AuditLog{})
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudo leer la bitácora")
	}
	return logs, nil
}
