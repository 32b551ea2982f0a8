package dashboard

import (
	"context"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/logger"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAnnual  = "annual"
)

// Report: saldo inicial + utilidad del periodo = saldo final.
type Report struct {
	Period         string          `json:"period"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Totals
	ClosingBalance decimal.Decimal `json:"closing_balance"`

	Days          []DayTotals     `json:"days,omitempty"`
	Branches      []BranchTotals  `json:"branches"`
	TopCategories []CategoryTotal `json:"top_categories,omitempty"`
	Ranking       []BranchRank    `json:"ranking,omitempty"`
	Series        []SeriesPoint   `json:"series,omitempty"`
	Previous      *Comparison     `json:"previous,omitempty"`
}

// Comparison contra el periodo comparable anterior (mes o año).
type Comparison struct {
	From string `json:"from"`
	To   string `json:"to"`
	Totals
	SalesGrowthPct    *decimal.Decimal `json:"sales_growth_pct"`
	ExpensesGrowthPct *decimal.Decimal `json:"expenses_growth_pct"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log.Named("dashboard")}
}

// PettyCash es el saldo acumulado a la fecha de corte: venta de todos los
// cortes físicos (borrador o finalizados) menos todos los gastos.
func (s *Service) PettyCash(ctx context.Context, cutoff time.Time) (decimal.Decimal, error) {
	cutoff = models.Day(cutoff)
	db := s.db.WithContext(ctx)

	cash, err := sum(db.Model(&models.CashClosing{}).
		Joins("JOIN branches ON branches.id = cash_closings.branch_id").
		Where("branches.type = ? AND cash_closings.date <= ?", models.BranchTypePhysical, cutoff),
		"cash_closings.cash_in_drawer")
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "no se pudo sumar el efectivo de los cortes")
	}
	physicalExpenses, err := sum(db.Model(&models.Expense{}).
		Joins("JOIN branches ON branches.id = expenses.branch_id").
		Where("branches.type = ? AND expenses.date <= ?", models.BranchTypePhysical, cutoff),
		"expenses.amount")
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "no se pudieron sumar los gastos de sucursales físicas")
	}
	allExpenses, err := sum(db.Model(&models.Expense{}).Where("date <= ?", cutoff), "amount")
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "no se pudieron sumar los gastos")
	}

	sales := cash.Add(physicalExpenses)
	return sales.Sub(allExpenses), nil
}

func (s *Service) Daily(ctx context.Context, date time.Time) (*Report, error) {
	d := models.Day(date)
	return s.build(ctx, PeriodDaily, d, d, nil, 0)
}

// Weekly: semana lunes a domingo que contiene date.
func (s *Service) Weekly(ctx context.Context, date time.Time) (*Report, error) {
	from, to := WeekBounds(date)
	return s.build(ctx, PeriodWeekly, from, to, nil, 0)
}

func (s *Service) Monthly(ctx context.Context, year int, month time.Month, topN int) (*Report, error) {
	if err := checkYear(year); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "month debe estar entre 1 y 12")
	}
	from, to := MonthBounds(year, month)
	prevFrom, prevTo := MonthBounds(from.AddDate(0, -1, 0).Year(), from.AddDate(0, -1, 0).Month())
	return s.build(ctx, PeriodMonthly, from, to, &[2]time.Time{prevFrom, prevTo}, topN)
}

func (s *Service) Annual(ctx context.Context, year int, topN int) (*Report, error) {
	if err := checkYear(year); err != nil {
		return nil, err
	}
	from, to := YearBounds(year)
	prevFrom, prevTo := YearBounds(year - 1)
	return s.build(ctx, PeriodAnnual, from, to, &[2]time.Time{prevFrom, prevTo}, topN)
}

// build lee en paralelo el saldo inicial, el periodo y el periodo anterior.
// Son lecturas independientes fuera de transacción.
func (s *Service) build(ctx context.Context, period string, from, to time.Time, prev *[2]time.Time, topN int) (*Report, error) {
	var (
		opening decimal.Decimal
		cur     *dataset
		before  *dataset
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opening, err = s.PettyCash(gctx, from.AddDate(0, 0, -1))
		return err
	})
	g.Go(func() error {
		var err error
		cur, err = s.load(gctx, from, to)
		return err
	})
	if prev != nil {
		g.Go(func() error {
			var err error
			before, err = s.load(gctx, prev[0], prev[1])
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := cur.totals()
	r := &Report{
		Period:         period,
		From:           from.Format(models.DateLayout),
		To:             to.Format(models.DateLayout),
		OpeningBalance: opening,
		Totals:         totals,
		ClosingBalance: opening.Add(totals.Utility),
		Branches:       cur.byBranch(),
	}

	switch period {
	case PeriodDaily, PeriodWeekly:
		r.Days = cur.days(from, to)
	case PeriodMonthly:
		r.Days = cur.days(from, to)
		r.Series = dailySeries(r.Days)
	case PeriodAnnual:
		// serie diaria completa del año y la mensual para la gráfica
		r.Days = cur.days(from, to)
		r.Series = cur.monthlySeries(from.Year())
	}

	if prev != nil {
		r.TopCategories = cur.topCategories(topN)
		r.Ranking = ranking(r.Branches)

		pt := before.totals()
		r.Previous = &Comparison{
			From:              prev[0].Format(models.DateLayout),
			To:                prev[1].Format(models.DateLayout),
			Totals:            pt,
			SalesGrowthPct:    growthPct(totals.Sales, pt.Sales),
			ExpensesGrowthPct: growthPct(totals.Expenses, pt.Expenses),
		}
	}

	logger.For(ctx, s.log).Debug("reporte calculado",
		zap.String("period", period),
		zap.String("from", r.From),
		zap.String("to", r.To),
		zap.Int("closings", len(cur.closings)),
		zap.Int("expenses", len(cur.expenses)),
	)
	return r, nil
}

func (s *Service) load(ctx context.Context, from, to time.Time) (*dataset, error) {
	db := s.db.WithContext(ctx)
	ds := &dataset{
		branches:   make(map[uint]models.Branch),
		categories: make(map[uint]models.ExpenseCategory),
	}

	if err := db.Select("id", "date", "branch_id", "status", "cash_in_drawer").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, id ASC").
		Find(&ds.closings).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer los cortes")
	}
	if err := db.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, id ASC").
		Find(&ds.expenses).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer los gastos")
	}

	var branches []models.Branch
	if err := db.Find(&branches).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer las sucursales")
	}
	for _, b := range branches {
		ds.branches[b.ID] = b
	}

	var categories []models.ExpenseCategory
	if err := db.Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer las categorías")
	}
	for _, c := range categories {
		ds.categories[c.ID] = c
	}
	return ds, nil
}

// sum: SUM redondeado a centavos; SQLite devuelve REAL.
func sum(q *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(" + column + "), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

func checkYear(year int) error {
	if year < 2000 || year > 9999 {
		return apperr.Validation(apperr.CodeInvalidInput, "year inválido")
	}
	return nil
}
