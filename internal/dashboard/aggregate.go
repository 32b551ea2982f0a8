package dashboard

import (
	"sort"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/closing"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Utility  decimal.Decimal `json:"utility"`
}

func (t *Totals) add(sales, expenses decimal.Decimal) {
	t.Sales = t.Sales.Add(sales)
	t.Expenses = t.Expenses.Add(expenses)
	t.Utility = t.Sales.Sub(t.Expenses)
}

type DayTotals struct {
	Date string `json:"date"`
	Totals
}

type BranchTotals struct {
	BranchID uint                 `json:"branch_id"`
	Name     string               `json:"name"`
	Type     models.BranchType    `json:"type"`
	Purpose  models.BranchPurpose `json:"purpose"`
	Closings int                  `json:"closings"`
	Totals
}

type CategoryTotal struct {
	CategoryID uint                       `json:"category_id"`
	Name       string                     `json:"name"`
	Type       models.ExpenseCategoryType `json:"type"`
	Total      decimal.Decimal            `json:"total"`
	SharePct   decimal.Decimal            `json:"share_pct"`
}

type BranchRank struct {
	Rank     int             `json:"rank"`
	BranchID uint            `json:"branch_id"`
	Name     string          `json:"name"`
	Sales    decimal.Decimal `json:"sales"`
	Utility  decimal.Decimal `json:"utility"`
}

type SeriesPoint struct {
	Label    string          `json:"label"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
}

// dataset son las filas crudas de un rango de fechas; todo se recalcula de aquí.
type dataset struct {
	closings   []models.CashClosing
	expenses   []models.Expense
	branches   map[uint]models.Branch
	categories map[uint]models.ExpenseCategory
}

// closingSales: venta por corte con la misma fórmula del cierre de caja.
// Las sucursales virtuales no venden.
func (ds *dataset) closingSales() map[uint]decimal.Decimal {
	byClosing := make(map[uint][]decimal.Decimal)
	for _, e := range ds.expenses {
		byClosing[e.ClosingID] = append(byClosing[e.ClosingID], e.Amount)
	}

	sales := make(map[uint]decimal.Decimal, len(ds.closings))
	for _, c := range ds.closings {
		if !ds.branches[c.BranchID].IsPhysical() {
			continue
		}
		cash := decimal.Zero
		if c.CashInDrawer != nil {
			cash = *c.CashInDrawer
		}
		sales[c.ID] = closing.SaleTotal(cash, byClosing[c.ID]...)
	}
	return sales
}

func (ds *dataset) totals() Totals {
	var t Totals
	for _, s := range ds.closingSales() {
		t.add(s, decimal.Zero)
	}
	for _, e := range ds.expenses {
		t.add(decimal.Zero, e.Amount)
	}
	return t
}

// days arma un renglón por cada día de [from, to], aunque no haya movimiento.
func (ds *dataset) days(from, to time.Time) []DayTotals {
	var out []DayTotals
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, DayTotals{Date: d.Format(models.DateLayout)})
	}
	dailyMap := make(map[string]*DayTotals, len(out))
	for i := range out {
		dailyMap[out[i].Date] = &out[i]
	}

	sales := ds.closingSales()
	for _, c := range ds.closings {
		if day := dailyMap[c.Date.UTC().Format(models.DateLayout)]; day != nil {
			day.add(sales[c.ID], decimal.Zero)
		}
	}
	for _, e := range ds.expenses {
		if day := dailyMap[e.Date.UTC().Format(models.DateLayout)]; day != nil {
			day.add(decimal.Zero, e.Amount)
		}
	}
	return out
}

// byBranch incluye las sucursales activas y las inactivas con movimiento en el rango.
func (ds *dataset) byBranch() []BranchTotals {
	acc := make(map[uint]*BranchTotals)
	get := func(id uint) *BranchTotals {
		if bt, ok := acc[id]; ok {
			return bt
		}
		b := ds.branches[id]
		bt := &BranchTotals{BranchID: id, Name: b.Name, Type: b.Type, Purpose: b.Purpose}
		acc[id] = bt
		return bt
	}
	for id, b := range ds.branches {
		if b.Status != models.StatusInactive {
			get(id)
		}
	}

	sales := ds.closingSales()
	for _, c := range ds.closings {
		bt := get(c.BranchID)
		bt.Closings++
		bt.add(sales[c.ID], decimal.Zero)
	}
	for _, e := range ds.expenses {
		get(e.BranchID).add(decimal.Zero, e.Amount)
	}

	out := make([]BranchTotals, 0, len(acc))
	for _, bt := range acc {
		out = append(out, *bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchID < out[j].BranchID })
	return out
}

// topCategories: mayores gastos por categoría; n <= 0 = todas.
func (ds *dataset) topCategories(n int) []CategoryTotal {
	acc := make(map[uint]decimal.Decimal)
	total := decimal.Zero
	for _, e := range ds.expenses {
		acc[e.CategoryID] = acc[e.CategoryID].Add(e.Amount)
		total = total.Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(acc))
	for id, amount := range acc {
		cat := ds.categories[id]
		ct := CategoryTotal{CategoryID: id, Name: cat.Name, Type: cat.Type, Total: amount, SharePct: decimal.Zero}
		if total.IsPositive() {
			ct.SharePct = amount.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ranking ordena las sucursales físicas por venta.
func ranking(branches []BranchTotals) []BranchRank {
	physical := make([]BranchTotals, 0, len(branches))
	for _, b := range branches {
		if b.Type == models.BranchTypePhysical {
			physical = append(physical, b)
		}
	}
	sort.SliceStable(physical, func(i, j int) bool {
		return physical[i].Sales.GreaterThan(physical[j].Sales)
	})

	out := make([]BranchRank, 0, len(physical))
	for i, b := range physical {
		out = append(out, BranchRank{Rank: i + 1, BranchID: b.BranchID, Name: b.Name, Sales: b.Sales, Utility: b.Utility})
	}
	return out
}

func dailySeries(days []DayTotals) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(days))
	for _, d := range days {
		out = append(out, SeriesPoint{Label: d.Date, Sales: d.Sales, Expenses: d.Expenses})
	}
	return out
}

// monthlySeries: doce puntos "2024-01".."2024-12".
func (ds *dataset) monthlySeries(year int) []SeriesPoint {
	out := make([]SeriesPoint, 12)
	for m := 0; m < 12; m++ {
		out[m] = SeriesPoint{
			Label:    time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Sales:    decimal.Zero,
			Expenses: decimal.Zero,
		}
	}

	sales := ds.closingSales()
	for _, c := range ds.closings {
		if d := c.Date.UTC(); d.Year() == year {
			p := &out[d.Month()-1]
			p.Sales = p.Sales.Add(sales[c.ID])
		}
	}
	for _, e := range ds.expenses {
		if d := e.Date.UTC(); d.Year() == year {
			p := &out[d.Month()-1]
			p.Expenses = p.Expenses.Add(e.Amount)
		}
	}
	return out
}

// growthPct: nil si el periodo anterior fue cero.
func growthPct(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	g := current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2)
	return &g
}

// WeekBounds devuelve lunes y domingo de la semana de date.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	d := models.Day(date)
	daysToMonday := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -daysToMonday)
	return start, start.AddDate(0, 0, 6)
}

func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, -1)
}
