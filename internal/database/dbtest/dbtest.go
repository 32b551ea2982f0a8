// Package dbtest abre bases SQLite en memoria para las pruebas de los servicios.
package dbtest

import (
	"testing"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New devuelve una base migrada y aislada por prueba.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

func Day(s string) time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Branch(t *testing.T, db *gorm.DB, name string, typ models.BranchType, purpose models.BranchPurpose) models.Branch {
	t.Helper()
	b := models.Branch{Name: name, Type: typ, Purpose: purpose, Status: models.StatusActive}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func Customer(t *testing.T, db *gorm.DB, name string, limit string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name, Approved: true, Status: models.StatusActive}
	if limit != "" {
		c.CreditLimit = DecPtr(limit)
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func Product(t *testing.T, db *gorm.DB, name, code, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Code: code, Unit: "kg", ListPrice: Dec(price), Status: models.StatusActive}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func Category(t *testing.T, db *gorm.DB, name string, typ models.ExpenseCategoryType) models.ExpenseCategory {
	t.Helper()
	c := models.ExpenseCategory{Name: name, Type: typ}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// DeliveredOrder guarda un pedido entregado con saldo pendiente igual al total.
func DeliveredOrder(t *testing.T, db *gorm.DB, customerID, branchID uint, date string, total string) models.Order {
	t.Helper()
	now := time.Now().UTC()
	o := models.Order{
		Date:        Day(date),
		CustomerID:  &customerID,
		BranchID:    branchID,
		Status:      models.OrderDelivered,
		Total:       Dec(total),
		AmountPaid:  decimal.Zero,
		BalanceDue:  Dec(total),
		DeliveredAt: &now,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}
