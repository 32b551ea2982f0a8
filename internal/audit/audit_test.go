package audit

import (
	"errors"
	"testing"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/database/dbtest"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWriteLog_SerializesStates(t *testing.T) {
	db := dbtest.New(t)
	branchID := uint(3)

	err := WriteLog(db, LogOptions{
		BranchID:    &branchID,
		UserID:      1,
		EntityType:  EntityCashClosing,
		EntityID:    9,
		Action:      models.AuditActionUpdate,
		Description: "efectivo actualizado",
		Before:      map[string]string{"cash_in_drawer": "100"},
	})
	require.NoError(t, err)

	logs, err := List(db, Filter{EntityType: EntityCashClosing})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"cash_in_drawer":"100"}`, logs[0].BeforeData)
	assert.Equal(t, "null", logs[0].AfterData)
}

func TestWriteLog_RolledBackWithTransaction(t *testing.T) {
	db := dbtest.New(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, WriteLog(tx, LogOptions{UserID: 1, EntityType: EntityPayment, EntityID: 1, Action: models.AuditActionCreate}))
		return errors.New("falla después")
	})
	require.Error(t, err)

	logs, err := List(db, Filter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestList_Filters(t *testing.T) {
	db := dbtest.New(t)
	b1, b2 := uint(1), uint(2)
	for i, b := range []*uint{&b1, &b2, &b1} {
		require.NoError(t, WriteLog(db, LogOptions{BranchID: b, UserID: 1, EntityType: EntityExpense, EntityID: uint(i + 1), Action: models.AuditActionCreate}))
	}

	logs, err := List(db, Filter{BranchID: &b1})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	id := uint(2)
	logs, err = List(db, Filter{EntityID: &id})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, &b2, logs[0].BranchID)
}
