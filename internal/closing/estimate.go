package closing

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/config"

	"github.com/shopspring/decimal"
)

var ten = decimal.NewFromInt(10)

// SaleTotal es la venta del día de una sucursal física: lo que quedó en caja
// más lo que se pagó de caja en gastos.
func SaleTotal(cash decimal.Decimal, expenses ...decimal.Decimal) decimal.Decimal {
	total := cash
	for _, e := range expenses {
		total = total.Add(e)
	}
	return total
}

// CeilTenth redondea hacia arriba a la décima.
func CeilTenth(v decimal.Decimal) decimal.Decimal {
	return v.Mul(ten).Ceil().Div(ten)
}

// Breakdown describe la masa consumida en unidades de compra.
type Breakdown struct {
	Whole       int64           `json:"whole"`
	Half        int64           `json:"half"`
	Quarter     int64           `json:"quarter"`
	RemainderKg decimal.Decimal `json:"remainder_kg"`
}

func BreakdownMass(mass, unitKg decimal.Decimal) Breakdown {
	if !unitKg.IsPositive() || !mass.IsPositive() {
		return Breakdown{RemainderKg: decimal.Max(mass, decimal.Zero)}
	}
	half := unitKg.Div(decimal.NewFromInt(2))
	quarter := unitKg.Div(decimal.NewFromInt(4))

	var b Breakdown
	rest := mass

	whole := rest.Div(unitKg).Floor()
	b.Whole = whole.IntPart()
	rest = rest.Sub(whole.Mul(unitKg))

	halves := rest.Div(half).Floor()
	b.Half = halves.IntPart()
	rest = rest.Sub(halves.Mul(half))

	quarters := rest.Div(quarter).Floor()
	b.Quarter = quarters.IntPart()
	rest = rest.Sub(quarters.Mul(quarter))

	b.RemainderKg = rest
	return b
}

type PriceSource string

const (
	PriceStored  PriceSource = "stored"
	PriceDefault PriceSource = "default"
)

// EstimateInput son los datos ya leídos de la base para un corte.
type EstimateInput struct {
	DoughSpend    decimal.Decimal
	DoughPrice    decimal.Decimal
	DoughSource   PriceSource
	FlourBags     decimal.Decimal
	UnitPrice     decimal.Decimal
	UnitSource    PriceSource
	CashInDrawer  decimal.Decimal
	ExpensesTotal decimal.Decimal
}

type Estimate struct {
	ClosingID        uint            `json:"closing_id"`
	DoughSpend       decimal.Decimal `json:"dough_spend"`
	DoughPricePerKg  decimal.Decimal `json:"dough_price_per_kg"`
	DoughPriceSource PriceSource     `json:"dough_price_source"`
	DoughMassKg      decimal.Decimal `json:"dough_mass_kg"`
	DoughBreakdown   Breakdown       `json:"dough_breakdown"`
	FlourBags        decimal.Decimal `json:"flour_bags"`
	FinishedMassKg   decimal.Decimal `json:"finished_mass_kg"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitPriceSource  PriceSource     `json:"unit_price_source"`
	EstimatedRevenue decimal.Decimal `json:"estimated_revenue"`
	ActualSale       decimal.Decimal `json:"actual_sale"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
	HasDiscrepancy   bool            `json:"has_discrepancy"`
}

// Compare: hay faltante solo si la venta reportada queda por debajo del estimado.
func Compare(actual, estimated decimal.Decimal) (decimal.Decimal, bool) {
	return actual.Sub(estimated), actual.LessThan(estimated)
}

// ComputeEstimate convierte el gasto en masa y los bultos de harina en kilos
// de tortilla y los valora al precio de la sucursal.
func ComputeEstimate(cfg config.EstimateConfig, in EstimateInput) Estimate {
	doughPrice, doughSource := in.DoughPrice, in.DoughSource
	if !doughPrice.IsPositive() {
		doughPrice, doughSource = cfg.DefaultDoughPrice, PriceDefault
	}
	unitPrice, unitSource := in.UnitPrice, in.UnitSource
	if !unitPrice.IsPositive() {
		unitPrice, unitSource = cfg.DefaultProductPrice, PriceDefault
	}

	mass := decimal.Zero
	if in.DoughSpend.IsPositive() && doughPrice.IsPositive() {
		mass = CeilTenth(in.DoughSpend.Div(doughPrice))
	}

	finished := in.FlourBags.Mul(cfg.YieldPerFlourBag)
	if cfg.DoughUnitKg.IsPositive() {
		finished = finished.Add(mass.Div(cfg.DoughUnitKg).Mul(cfg.YieldPerDoughUnit))
	}

	estimated := finished.Mul(unitPrice).Round(2)
	actual := SaleTotal(in.CashInDrawer, in.ExpensesTotal)
	discrepancy, has := Compare(actual, estimated)

	return Estimate{
		DoughSpend:       in.DoughSpend,
		DoughPricePerKg:  doughPrice,
		DoughPriceSource: doughSource,
		DoughMassKg:      mass,
		DoughBreakdown:   BreakdownMass(mass, cfg.DoughUnitKg),
		FlourBags:        in.FlourBags,
		FinishedMassKg:   finished,
		UnitPrice:        unitPrice,
		UnitPriceSource:  unitSource,
		EstimatedRevenue: estimated,
		ActualSale:       actual,
		Discrepancy:      discrepancy,
		HasDiscrepancy:   has,
	}
}
