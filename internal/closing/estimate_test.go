package closing

import (
	"testing"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCeilTenth(t *testing.T) {
	cases := map[string]string{
		"12.01": "12.1",
		"12.1":  "12.1",
		"12":    "12",
		"0.001": "0.1",
	}
	for in, want := range cases {
		assert.True(t, CeilTenth(d(in)).Equal(d(want)), "%s → %s", in, CeilTenth(d(in)))
	}
}

func TestBreakdownMass(t *testing.T) {
	b := BreakdownMass(d("137.6"), d("50"))
	assert.Equal(t, int64(2), b.Whole)
	assert.Equal(t, int64(1), b.Half)
	assert.Equal(t, int64(1), b.Quarter)
	assert.True(t, b.RemainderKg.Equal(d("0.1")), b.RemainderKg.String())

	// sobrante menor a un cuarto
	b = BreakdownMass(d("137.4"), d("50"))
	assert.Equal(t, int64(2), b.Whole)
	assert.Equal(t, int64(1), b.Half)
	assert.Equal(t, int64(0), b.Quarter)
	assert.True(t, b.RemainderKg.Equal(d("12.4")), b.RemainderKg.String())

	b = BreakdownMass(d("12.5"), d("50"))
	assert.Equal(t, int64(0), b.Whole)
	assert.Equal(t, int64(0), b.Half)
	assert.Equal(t, int64(1), b.Quarter)
	assert.True(t, b.RemainderKg.IsZero())

	b = BreakdownMass(decimal.Zero, d("50"))
	assert.Zero(t, b.Whole+b.Half+b.Quarter)
	assert.True(t, b.RemainderKg.IsZero())
}

func TestCompare(t *testing.T) {
	diff, has := Compare(d("900"), d("990"))
	assert.True(t, has)
	assert.True(t, diff.Equal(d("-90")))

	diff, has = Compare(d("990"), d("990"))
	assert.False(t, has)
	assert.True(t, diff.IsZero())

	_, has = Compare(d("1000"), d("990"))
	assert.False(t, has)
}

func TestComputeEstimate(t *testing.T) {
	cfg := config.DefaultEstimate()

	// 400 de masa a 8/kg = 50 kg = 1 unidad → 45 kg; 1 bulto → 36 kg; 81 kg × 22 = 1782
	est := ComputeEstimate(cfg, EstimateInput{
		DoughSpend:    d("400"),
		DoughPrice:    d("8"),
		DoughSource:   PriceStored,
		FlourBags:     d("1"),
		UnitPrice:     d("22"),
		UnitSource:    PriceStored,
		CashInDrawer:  d("1300"),
		ExpensesTotal: d("482"),
	})
	assert.True(t, est.DoughMassKg.Equal(d("50")))
	assert.Equal(t, int64(1), est.DoughBreakdown.Whole)
	assert.True(t, est.FinishedMassKg.Equal(d("81")), est.FinishedMassKg.String())
	assert.True(t, est.EstimatedRevenue.Equal(d("1782")))
	assert.True(t, est.ActualSale.Equal(d("1782")))
	assert.False(t, est.HasDiscrepancy, "igualdad no es faltante")
	assert.True(t, est.Discrepancy.IsZero())
}

func TestComputeEstimate_FallsBackToDefaults(t *testing.T) {
	cfg := config.DefaultEstimate()

	est := ComputeEstimate(cfg, EstimateInput{
		DoughSpend:    d("100"),
		FlourBags:     decimal.Zero,
		CashInDrawer:  d("100"),
		ExpensesTotal: d("100"),
	})
	assert.Equal(t, PriceDefault, est.DoughPriceSource)
	assert.Equal(t, PriceDefault, est.UnitPriceSource)
	// 100/8 = 12.5 kg → 12.5/50 × 45 = 11.25 kg × 22 = 247.5
	assert.True(t, est.DoughMassKg.Equal(d("12.5")))
	assert.True(t, est.EstimatedRevenue.Equal(d("247.5")), est.EstimatedRevenue.String())
	assert.True(t, est.HasDiscrepancy)
	assert.True(t, est.Discrepancy.Equal(d("-47.5")))
}
