package closing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/audit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/config"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/logger"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/pricing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateInput struct {
	Date         time.Time
	BranchID     *uint
	CashInDrawer *decimal.Decimal
	FlourBags    *decimal.Decimal
	Notes        string
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	CashInDrawer *decimal.Decimal
	FlourBags    *decimal.Decimal
	Notes        *string
}

type ExpenseInput struct {
	CategoryID  uint
	Amount      decimal.Decimal
	Description string
}

type Filter struct {
	From     *time.Time
	To       *time.Time
	BranchID *uint
	Status   models.ClosingStatus
}

type ExpenseLine struct {
	models.Expense
	CategoryName string `json:"category_name"`
}

// Detail es el corte con sus gastos y totales ya calculados.
type Detail struct {
	models.CashClosing
	BranchName    string            `json:"branch_name"`
	BranchType    models.BranchType `json:"branch_type"`
	Expenses      []ExpenseLine     `json:"expenses"`
	ExpensesTotal decimal.Decimal   `json:"expenses_total"`
}

type Service struct {
	db       *gorm.DB
	resolver *pricing.Resolver
	estimate config.EstimateConfig
	log      *zap.Logger
}

func NewService(db *gorm.DB, resolver *pricing.Resolver, estimate config.EstimateConfig, log *zap.Logger) *Service {
	return &Service{db: db, resolver: resolver, estimate: estimate, log: log.Named("closing")}
}

// Create abre el corte del día. Solo puede haber uno por (fecha, sucursal).
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (*models.CashClosing, error) {
	branchID, err := actor.ResolveBranch(in.BranchID)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(in.CashInDrawer, 2); err != nil {
		return nil, err
	}
	if err := checkAmount(in.FlourBags, 2); err != nil {
		return nil, err
	}
	date := models.Day(in.Date)
	if in.Date.IsZero() {
		date = models.Day(time.Now())
	}

	var closing models.CashClosing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		branch, err := loadBranch(ctx, tx, branchID)
		if err != nil {
			return err
		}

		existing, err := findByDay(ctx, tx, date, branchID)
		if err != nil {
			return err
		}
		if existing != nil {
			return closingExists(date, branch, existing.ID)
		}

		closing = models.CashClosing{
			Date:      date,
			BranchID:  branchID,
			Status:    models.ClosingDraft,
			Notes:     in.Notes,
			CreatedBy: actor.UserID,
		}
		if branch.IsPhysical() {
			cash := valueOrZero(in.CashInDrawer)
			bags := valueOrZero(in.FlourBags)
			sale := SaleTotal(cash)
			closing.CashInDrawer = &cash
			closing.FlourBags = &bags
			closing.SaleTotal = &sale
		} else if in.CashInDrawer != nil || in.FlourBags != nil {
			return virtualBranchError()
		}

		// otro alta pudo entrar entre la consulta y el insert; el índice único lo rechaza
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&closing).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := findByDay(ctx, tx, date, branchID)
			if err != nil {
				return err
			}
			if existing == nil {
				return apperr.Conflict(apperr.CodeClosingExists,
					fmt.Sprintf("Ya existe un corte para %s en %s", date.Format(models.DateLayout), branch.Name))
			}
			return closingExists(date, branch, existing.ID)
		}
		if err != nil {
			return errors.Wrap(err, "no se pudo crear el corte")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &branchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityCashClosing,
			EntityID:    closing.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Corte %s de %s", date.Format(models.DateLayout), branch.Name),
			After:       closing,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.log).Info("corte creado",
		zap.Uint("closing_id", closing.ID),
		zap.Uint("branch_id", branchID),
		zap.String("date", date.Format(models.DateLayout)),
	)
	return &closing, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, closingID uint) (*Detail, error) {
	closing, err := findClosing(ctx, s.db, closingID, false)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckBranch(closing.BranchID); err != nil {
		return nil, err
	}
	return loadDetail(ctx, s.db, closing)
}

func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter) ([]models.CashClosing, error) {
	branchID, err := actor.ScopeBranch(f.BranchID)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&models.CashClosing{})
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var closings []models.CashClosing
	if err := q.Order("date DESC, branch_id ASC").Find(&closings).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron listar los cortes")
	}
	return closings, nil
}

// RecordExpense agrega un gasto pagado de caja. El gasto hereda sucursal y fecha del corte.
func (s *Service) RecordExpense(ctx context.Context, actor auth.Actor, closingID uint, in ExpenseInput) (*models.Expense, error) {
	if err := checkAmount(&in.Amount, 2); err != nil {
		return nil, err
	}

	var expense models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closing, branch, err := lockClosing(ctx, tx, actor, closingID)
		if err != nil {
			return err
		}
		if err := checkEditable(actor, closing); err != nil {
			return err
		}

		var category models.ExpenseCategory
		err = tx.First(&category, in.CategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(apperr.CodeCategoryNotFound, fmt.Sprintf("Categoría %d no encontrada", in.CategoryID))
		}
		if err != nil {
			return errors.Wrap(err, "no se pudo leer la categoría")
		}

		expense = models.Expense{
			ClosingID:   closing.ID,
			BranchID:    closing.BranchID,
			CategoryID:  category.ID,
			Date:        closing.Date,
			Amount:      in.Amount,
			Description: in.Description,
			CreatedBy:   actor.UserID,
		}
		if err := tx.Create(&expense).Error; err != nil {
			return errors.Wrap(err, "no se pudo guardar el gasto")
		}
		if err := refreshSaleTotal(tx, closing, branch); err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &closing.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityExpense,
			EntityID:    expense.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Gasto de %s (%s) en corte %d", expense.Amount.StringFixed(2), category.Name, closing.ID),
			After:       expense,
		})
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, actor auth.Actor, closingID, expenseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closing, branch, err := lockClosing(ctx, tx, actor, closingID)
		if err != nil {
			return err
		}
		if err := checkEditable(actor, closing); err != nil {
			return err
		}

		var expense models.Expense
		err = tx.Where("id = ? AND closing_id = ?", expenseID, closingID).First(&expense).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(apperr.CodeExpenseNotFound, fmt.Sprintf("Gasto %d no encontrado en el corte", expenseID))
		}
		if err != nil {
			return errors.Wrap(err, "no se pudo leer el gasto")
		}

		if err := tx.Delete(&models.Expense{}, expense.ID).Error; err != nil {
			return errors.Wrap(err, "no se pudo borrar el gasto")
		}
		if err := refreshSaleTotal(tx, closing, branch); err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &closing.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityExpense,
			EntityID:    expense.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Gasto de %s borrado del corte %d", expense.Amount.StringFixed(2), closing.ID),
			Before:      expense,
		})
	})
}

// UpdateFields cambia efectivo, bultos o notas. En sucursales virtuales solo notas.
func (s *Service) UpdateFields(ctx context.Context, actor auth.Actor, closingID uint, in UpdateInput) (*models.CashClosing, error) {
	if err := checkAmount(in.CashInDrawer, 2); err != nil {
		return nil, err
	}
	if err := checkAmount(in.FlourBags, 2); err != nil {
		return nil, err
	}

	var closing *models.CashClosing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			branch *models.Branch
			err    error
		)
		closing, branch, err = lockClosing(ctx, tx, actor, closingID)
		if err != nil {
			return err
		}
		if err := checkEditable(actor, closing); err != nil {
			return err
		}
		if !branch.IsPhysical() && (in.CashInDrawer != nil || in.FlourBags != nil) {
			return virtualBranchError()
		}

		before := *closing
		updates := map[string]any{}
		if in.CashInDrawer != nil {
			cash := *in.CashInDrawer
			closing.CashInDrawer = &cash
			updates["cash_in_drawer"] = cash
		}
		if in.FlourBags != nil {
			bags := *in.FlourBags
			closing.FlourBags = &bags
			updates["flour_bags"] = bags
		}
		if in.Notes != nil {
			closing.Notes = *in.Notes
			updates["notes"] = *in.Notes
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.CashClosing{}).Where("id = ?", closing.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "no se pudo actualizar el corte")
		}
		if err := refreshSaleTotal(tx, closing, branch); err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &closing.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityCashClosing,
			EntityID:    closing.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Corte %d actualizado", closing.ID),
			Before:      before,
			After:       closing,
		})
	})
	if err != nil {
		return nil, err
	}
	return closing, nil
}

// Finalize congela el corte. Después solo super_admin puede enmendarlo.
func (s *Service) Finalize(ctx context.Context, actor auth.Actor, closingID uint) (*models.CashClosing, error) {
	var closing *models.CashClosing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var (
			branch *models.Branch
			err    error
		)
		closing, branch, err = lockClosing(ctx, tx, actor, closingID)
		if err != nil {
			return err
		}
		if closing.IsCompleted() {
			return apperr.State(apperr.CodeClosingCompleted, "El corte ya está finalizado")
		}

		before := *closing
		now := time.Now()
		finalizedBy := actor.UserID
		updates := map[string]any{
			"status":       models.ClosingCompleted,
			"finalized_by": finalizedBy,
			"finalized_at": now,
		}
		if branch.IsPhysical() {
			total, err := expensesTotal(tx, closing.ID)
			if err != nil {
				return err
			}
			sale := SaleTotal(valueOrZero(closing.CashInDrawer), total)
			closing.SaleTotal = &sale
			updates["sale_total"] = sale
		} else {
			closing.SaleTotal = nil
			updates["sale_total"] = gorm.Expr("NULL")
		}
		closing.Status = models.ClosingCompleted
		closing.FinalizedBy = &finalizedBy
		closing.FinalizedAt = &now

		if err := tx.Model(&models.CashClosing{}).Where("id = ?", closing.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "no se pudo finalizar el corte")
		}

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &closing.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityCashClosing,
			EntityID:    closing.ID,
			Action:      models.AuditActionFinalize,
			Description: fmt.Sprintf("Corte %d finalizado", closing.ID),
			Before:      before,
			After:       closing,
		})
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.Uint("closing_id", closing.ID), zap.Uint("branch_id", closing.BranchID)}
	if closing.SaleTotal != nil {
		fields = append(fields, zap.String("sale_total", closing.SaleTotal.String()))
	}
	logger.For(ctx, s.log).Info("corte finalizado", fields...)
	return closing, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, closingID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closing, _, err := lockClosing(ctx, tx, actor, closingID)
		if err != nil {
			return err
		}
		if err := checkEditable(actor, closing); err != nil {
			return err
		}

		if err := tx.Where("closing_id = ?", closing.ID).Delete(&models.Expense{}).Error; err != nil {
			return errors.Wrap(err, "no se pudieron borrar los gastos del corte")
		}
		if err := tx.Delete(&models.CashClosing{}, closing.ID).Error; err != nil {
			return errors.Wrap(err, "no se pudo borrar el corte")
		}

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &closing.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityCashClosing,
			EntityID:    closing.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Corte %d borrado", closing.ID),
			Before:      closing,
		})
	})
}

// EstimateRevenue calcula la venta esperada según masa y harina consumidas.
func (s *Service) EstimateRevenue(ctx context.Context, actor auth.Actor, closingID uint) (*Estimate, error) {
	closing, err := findClosing(ctx, s.db, closingID, false)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckBranch(closing.BranchID); err != nil {
		return nil, err
	}
	branch, err := loadBranch(ctx, s.db, closing.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsPhysical() {
		return nil, apperr.Validation(apperr.CodeVirtualBranch, "Las sucursales virtuales no tienen estimado de venta")
	}

	lines, err := expenseLines(ctx, s.db, closing.ID)
	if err != nil {
		return nil, err
	}
	in := EstimateInput{
		FlourBags:    valueOrZero(closing.FlourBags),
		CashInDrawer: valueOrZero(closing.CashInDrawer),
	}
	for _, l := range lines {
		in.ExpensesTotal = in.ExpensesTotal.Add(l.Amount)
		if strings.EqualFold(strings.TrimSpace(l.CategoryName), s.estimate.DoughSupplyName) {
			in.DoughSpend = in.DoughSpend.Add(l.Amount)
		}
	}

	price, ok, err := s.doughPrice(ctx, closing.Date)
	if err != nil {
		return nil, err
	}
	if ok {
		in.DoughPrice, in.DoughSource = price, PriceStored
	}

	unit, ok, err := s.resolver.UnitPriceByCode(ctx, s.db, closing.BranchID, s.estimate.ProductCode)
	if err != nil {
		return nil, err
	}
	if ok {
		in.UnitPrice, in.UnitSource = unit, PriceStored
	}

	est := ComputeEstimate(s.estimate, in)
	est.ClosingID = closing.ID
	if est.HasDiscrepancy {
		logger.For(ctx, s.log).Warn("venta por debajo del estimado",
			zap.Uint("closing_id", closing.ID),
			zap.String("discrepancy", est.Discrepancy.String()),
		)
	}
	return &est, nil
}

// doughPrice: precio vigente de la masa a la fecha del corte.
func (s *Service) doughPrice(ctx context.Context, date time.Time) (decimal.Decimal, bool, error) {
	var supply models.Supply
	err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", s.estimate.DoughSupplyName).First(&supply).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errors.Wrap(err, "no se pudo leer el insumo de masa")
	}

	var price models.SupplyPrice
	err = s.db.WithContext(ctx).
		Where("supply_id = ? AND effective_date <= ?", supply.ID, date).
		Order("effective_date DESC, id DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errors.Wrap(err, "no se pudo leer el precio de la masa")
	}
	return price.PricePerUnit, price.PricePerUnit.IsPositive(), nil
}

func findByDay(ctx context.Context, tx *gorm.DB, date time.Time, branchID uint) (*models.CashClosing, error) {
	var existing models.CashClosing
	err := tx.WithContext(ctx).Where("date = ? AND branch_id = ?", date, branchID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo verificar el corte existente")
	}
	return &existing, nil
}

func closingExists(date time.Time, branch *models.Branch, existingID uint) error {
	return apperr.Conflict(apperr.CodeClosingExists,
		fmt.Sprintf("Ya existe un corte para %s en %s", date.Format(models.DateLayout), branch.Name)).
		WithDetails(map[string]any{"existing_id": existingID})
}

func findClosing(ctx context.Context, db *gorm.DB, closingID uint, lock bool) (*models.CashClosing, error) {
	q := db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var c models.CashClosing
	err := q.First(&c, closingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeClosingNotFound, fmt.Sprintf("Corte %d no encontrado", closingID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo leer el corte")
	}
	return &c, nil
}

func lockClosing(ctx context.Context, tx *gorm.DB, actor auth.Actor, closingID uint) (*models.CashClosing, *models.Branch, error) {
	c, err := findClosing(ctx, tx, closingID, true)
	if err != nil {
		return nil, nil, err
	}
	if err := actor.CheckBranch(c.BranchID); err != nil {
		return nil, nil, err
	}
	var branch models.Branch
	if err := tx.First(&branch, c.BranchID).Error; err != nil {
		return nil, nil, errors.Wrap(err, "no se pudo leer la sucursal del corte")
	}
	return c, &branch, nil
}

func loadBranch(ctx context.Context, db *gorm.DB, branchID uint) (*models.Branch, error) {
	var branch models.Branch
	err := db.WithContext(ctx).First(&branch, branchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && branch.Status == models.StatusInactive) {
		return nil, apperr.NotFound(apperr.CodeBranchNotFound, fmt.Sprintf("Sucursal %d no encontrada", branchID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo leer la sucursal")
	}
	return &branch, nil
}

func checkEditable(actor auth.Actor, c *models.CashClosing) error {
	if c.IsCompleted() && !actor.IsElevated() {
		return apperr.State(apperr.CodeClosingCompleted, "El corte está finalizado; solo un super admin puede modificarlo")
	}
	return nil
}

// refreshSaleTotal mantiene sale_total = efectivo + gastos en sucursales físicas.
func refreshSaleTotal(tx *gorm.DB, c *models.CashClosing, branch *models.Branch) error {
	if !branch.IsPhysical() {
		return nil
	}
	total, err := expensesTotal(tx, c.ID)
	if err != nil {
		return err
	}
	sale := SaleTotal(valueOrZero(c.CashInDrawer), total)
	c.SaleTotal = &sale
	if err := tx.Model(&models.CashClosing{}).Where("id = ?", c.ID).Update("sale_total", sale).Error; err != nil {
		return errors.Wrap(err, "no se pudo actualizar la venta del corte")
	}
	return nil
}

func expensesTotal(tx *gorm.DB, closingID uint) (decimal.Decimal, error) {
	var expenses []models.Expense
	if err := tx.Select("id", "amount").Where("closing_id = ?", closingID).Find(&expenses).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "no se pudieron leer los gastos del corte")
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func expenseLines(ctx context.Context, db *gorm.DB, closingID uint) ([]ExpenseLine, error) {
	var expenses []models.Expense
	if err := db.WithContext(ctx).Where("closing_id = ?", closingID).Order("id ASC").Find(&expenses).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer los gastos del corte")
	}
	if len(expenses) == 0 {
		return []ExpenseLine{}, nil
	}

	ids := make([]uint, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.CategoryID)
	}
	var categories []models.ExpenseCategory
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer las categorías")
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	lines := make([]ExpenseLine, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, ExpenseLine{Expense: e, CategoryName: names[e.CategoryID]})
	}
	return lines, nil
}

func loadDetail(ctx context.Context, db *gorm.DB, c *models.CashClosing) (*Detail, error) {
	var branch models.Branch
	if err := db.WithContext(ctx).First(&branch, c.BranchID).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudo leer la sucursal del corte")
	}
	lines, err := expenseLines(ctx, db, c.ID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return &Detail{
		CashClosing:   *c,
		BranchName:    branch.Name,
		BranchType:    branch.Type,
		Expenses:      lines,
		ExpensesTotal: total,
	}, nil
}

// checkAmount: nil pasa; si viene debe ser >= 0 y con a lo más places decimales.
func checkAmount(v *decimal.Decimal, places int32) error {
	if v == nil {
		return nil
	}
	if v.IsNegative() || !v.Equal(v.Round(places)) {
		return apperr.Validation(apperr.CodeInvalidAmount,
			fmt.Sprintf("El monto %s debe ser mayor o igual a cero y con máximo %d decimales", v.String(), places))
	}
	return nil
}

func virtualBranchError() error {
	return apperr.Validation(apperr.CodeVirtualBranch, "En sucursales virtuales solo se pueden capturar notas y gastos")
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
