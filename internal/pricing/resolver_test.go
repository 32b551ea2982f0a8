package pricing

import (
	"context"
	"testing"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/database/dbtest"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Hierarchy(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	branch := dbtest.Branch(t, db, "Centro", models.BranchTypePhysical, models.BranchPurposeSales)
	customer := dbtest.Customer(t, db, "Fonda Lupita", "")
	tortilla := dbtest.Product(t, db, "Tortilla", "tortilla", "22")
	totopo := dbtest.Product(t, db, "Totopo", "totopo", "40")
	salsa := dbtest.Product(t, db, "Salsa", "salsa", "15")

	require.NoError(t, db.Create(&models.BranchPrice{BranchID: branch.ID, ProductID: tortilla.ID, Price: dbtest.Dec("20")}).Error)
	require.NoError(t, db.Create(&models.BranchPrice{BranchID: branch.ID, ProductID: totopo.ID, Price: dbtest.Dec("38")}).Error)
	require.NoError(t, db.Create(&models.CustomerPrice{CustomerID: customer.ID, ProductID: tortilla.ID, Price: dbtest.Dec("18.5")}).Error)

	r := NewResolver()
	prices, err := r.Resolve(ctx, db, &customer.ID, &branch.ID, []uint{tortilla.ID, totopo.ID, salsa.ID, tortilla.ID})
	require.NoError(t, err)
	require.Len(t, prices, 3)

	assert.True(t, prices[tortilla.ID].Amount.Equal(dbtest.Dec("18.5")))
	assert.Equal(t, SourceCustomer, prices[tortilla.ID].Source)
	assert.True(t, prices[totopo.ID].Amount.Equal(dbtest.Dec("38")))
	assert.Equal(t, SourceBranch, prices[totopo.ID].Source)
	assert.True(t, prices[salsa.ID].Amount.Equal(dbtest.Dec("15")))
	assert.Equal(t, SourceList, prices[salsa.ID].Source)

	// sin cliente ni sucursal: precio de lista
	prices, err = r.Resolve(ctx, db, nil, nil, []uint{tortilla.ID})
	require.NoError(t, err)
	assert.True(t, prices[tortilla.ID].Amount.Equal(dbtest.Dec("22")))
}

func TestResolve_UnknownOrInactiveProduct(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	p := dbtest.Product(t, db, "Tortilla", "tortilla", "22")

	_, err := NewResolver().Resolve(ctx, db, nil, nil, []uint{p.ID, 999})
	assert.True(t, apperr.HasCode(err, apperr.CodeProductNotFound))

	require.NoError(t, db.Model(&p).Update("status", models.StatusInactive).Error)
	_, err = NewResolver().Resolve(ctx, db, nil, nil, []uint{p.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUnitPriceByCode(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	branch := dbtest.Branch(t, db, "Centro", models.BranchTypePhysical, models.BranchPurposeSales)
	p := dbtest.Product(t, db, "Tortilla", "tortilla", "22")
	require.NoError(t, db.Create(&models.BranchPrice{BranchID: branch.ID, ProductID: p.ID, Price: dbtest.Dec("24")}).Error)

	r := NewResolver()
	price, ok, err := r.UnitPriceByCode(ctx, db, branch.ID, "tortilla")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, price.Equal(dbtest.Dec("24")))

	_, ok, err = r.UnitPriceByCode(ctx, db, branch.ID, "no-existe")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.UnitPrice(ctx, db, branch.ID, 12345)
	require.NoError(t, err)
	assert.False(t, ok)
}
