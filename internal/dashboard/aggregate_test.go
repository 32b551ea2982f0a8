package dashboard

import (
	"testing"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/database/dbtest"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		date, monday, sunday string
	}{
		{"2024-03-06", "2024-03-04", "2024-03-10"}, // miércoles
		{"2024-03-04", "2024-03-04", "2024-03-10"}, // lunes
		{"2024-03-10", "2024-03-04", "2024-03-10"}, // domingo
		{"2024-01-01", "2024-01-01", "2024-01-07"},
		{"2023-12-31", "2023-12-25", "2023-12-31"},
	}
	for _, tc := range cases {
		from, to := WeekBounds(dbtest.Day(tc.date))
		assert.Equal(t, tc.monday, from.Format(models.DateLayout), tc.date)
		assert.Equal(t, tc.sunday, to.Format(models.DateLayout), tc.date)
	}
}

func TestMonthAndYearBounds(t *testing.T) {
	from, to := MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", from.Format(models.DateLayout))
	assert.Equal(t, "2024-02-29", to.Format(models.DateLayout))

	from, to = YearBounds(2023)
	assert.Equal(t, "2023-01-01", from.Format(models.DateLayout))
	assert.Equal(t, "2023-12-31", to.Format(models.DateLayout))
}

func TestGrowthPct(t *testing.T) {
	assert.Nil(t, growthPct(dbtest.Dec("100"), decimal.Zero))

	g := growthPct(dbtest.Dec("150"), dbtest.Dec("100"))
	require.NotNil(t, g)
	assert.True(t, g.Equal(dbtest.Dec("50")))

	g = growthPct(dbtest.Dec("50"), dbtest.Dec("100"))
	require.NotNil(t, g)
	assert.True(t, g.Equal(dbtest.Dec("-50")))
}

func TestDataset_VirtualBranchHasNoSales(t *testing.T) {
	cash := dbtest.Dec("100")
	ds := &dataset{
		branches: map[uint]models.Branch{
			1: {ID: 1, Name: "Centro", Type: models.BranchTypePhysical, Status: models.StatusActive},
			2: {ID: 2, Name: "Nómina", Type: models.BranchTypeVirtual, Status: models.StatusActive},
		},
		categories: map[uint]models.ExpenseCategory{
			1: {ID: 1, Name: "Gas"},
			2: {ID: 2, Name: "Sueldos"},
		},
		closings: []models.CashClosing{
			{ID: 10, BranchID: 1, Date: dbtest.Day("2024-03-01"), CashInDrawer: &cash},
			{ID: 11, BranchID: 2, Date: dbtest.Day("2024-03-01")},
		},
		expenses: []models.Expense{
			{ClosingID: 10, BranchID: 1, CategoryID: 1, Date: dbtest.Day("2024-03-01"), Amount: dbtest.Dec("25")},
			{ClosingID: 11, BranchID: 2, CategoryID: 2, Date: dbtest.Day("2024-03-01"), Amount: dbtest.Dec("60")},
		},
	}

	tot := ds.totals()
	assert.True(t, tot.Sales.Equal(dbtest.Dec("125")))
	assert.True(t, tot.Expenses.Equal(dbtest.Dec("85")))
	assert.True(t, tot.Utility.Equal(dbtest.Dec("40")))

	branches := ds.byBranch()
	require.Len(t, branches, 2)
	assert.True(t, branches[1].Sales.IsZero())
	assert.True(t, branches[1].Utility.Equal(dbtest.Dec("-60")))

	rank := ranking(branches)
	require.Len(t, rank, 1)
	assert.Equal(t, uint(1), rank[0].BranchID)

	top := ds.topCategories(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Sueldos", top[0].Name)
	assert.True(t, top[0].SharePct.Equal(dbtest.Dec("70.59")), top[0].SharePct.String())
}
