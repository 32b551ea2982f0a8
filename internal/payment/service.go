package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/audit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/credit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/logger"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApplyInput struct {
	CustomerID uint
	Amount     decimal.Decimal
	Method     models.PaymentMethod
	OrderID    *uint // nil = FIFO sobre los pedidos entregados con saldo
	Date       time.Time
	Notes      string
}

type Result struct {
	Applied            decimal.Decimal `json:"applied"`
	Leftover           decimal.Decimal `json:"leftover"`
	Allocations        []Allocation    `json:"allocations"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

type Filter struct {
	CustomerID *uint
	OrderID    *uint
	From       *time.Time
	To         *time.Time
}

type Service struct {
	db    *gorm.DB
	guard *credit.Guard
	log   *zap.Logger
}

func NewService(db *gorm.DB, guard *credit.Guard, log *zap.Logger) *Service {
	return &Service{db: db, guard: guard, log: log.Named("payment")}
}

// ApplyPayment registra un abono. Todo ocurre en una tx con el cliente
// bloqueado: o se guardan todas las asignaciones o ninguna.
func (s *Service) ApplyPayment(ctx context.Context, actor auth.Actor, in ApplyInput) (*Result, error) {
	if !in.Amount.IsPositive() || !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, apperr.Validation(apperr.CodeInvalidAmount, "El monto debe ser mayor a cero y con máximo dos decimales")
	}
	if in.Method == "" {
		in.Method = models.PaymentCash
	}
	if !in.Method.IsValid() {
		return nil, apperr.Validation(apperr.CodeInvalidInput, fmt.Sprintf("Método de pago %q inválido", in.Method))
	}
	date := models.Day(in.Date)
	if in.Date.IsZero() {
		date = models.Day(time.Now())
	}

	var result Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := credit.LoadCustomer(ctx, tx, in.CustomerID, true); err != nil {
			return err
		}

		targets, err := s.targets(ctx, tx, actor, in)
		if err != nil {
			return err
		}

		allocs, leftover := Allocate(in.Amount, targets)
		applied := in.Amount.Sub(leftover)

		for i := range allocs {
			if err := s.persist(ctx, tx, actor, in, date, &allocs[i]); err != nil {
				return err
			}
		}

		outstanding, err := s.guard.OutstandingBalance(ctx, tx, in.CustomerID)
		if err != nil {
			return err
		}
		result = Result{
			Applied:            applied,
			Leftover:           leftover,
			Allocations:        allocs,
			OutstandingBalance: outstanding,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.log).Info("abono aplicado",
		zap.Uint("customer_id", in.CustomerID),
		zap.String("applied", result.Applied.String()),
		zap.String("leftover", result.Leftover.String()),
		zap.Int("orders", len(result.Allocations)),
	)
	return &result, nil
}

func (s *Service) targets(ctx context.Context, tx *gorm.DB, actor auth.Actor, in ApplyInput) ([]Target, error) {
	if in.OrderID != nil {
		var o models.Order
		err := tx.WithContext(ctx).First(&o, *in.OrderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeOrderNotFound, fmt.Sprintf("Pedido %d no encontrado", *in.OrderID))
		}
		if err != nil {
			return nil, errors.Wrap(err, "no se pudo leer el pedido")
		}
		if o.CustomerID == nil || *o.CustomerID != in.CustomerID {
			return nil, apperr.NotFound(apperr.CodeNotOwnedByCustomer, "El pedido no pertenece al cliente")
		}
		if err := actor.CheckBranch(o.BranchID); err != nil {
			return nil, err
		}
		if o.Status == models.OrderCancelled {
			return nil, apperr.State(apperr.CodeOrderCancelled, "El pedido está cancelado")
		}
		if !o.BalanceDue.IsPositive() {
			return nil, apperr.State(apperr.CodeOrderAlreadySettled, "El pedido ya está liquidado")
		}
		return []Target{{OrderID: o.ID, Date: o.Date, CreatedAt: o.CreatedAt, Balance: o.BalanceDue}}, nil
	}

	var orders []models.Order
	err := tx.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND balance_due > 0", in.CustomerID, models.OrderDelivered).
		Order("date ASC, created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer los pedidos con saldo")
	}
	if len(orders) == 0 {
		return nil, apperr.State(apperr.CodeNoOutstandingOrders, "El cliente no tiene pedidos con saldo")
	}

	targets := make([]Target, 0, len(orders))
	for _, o := range orders {
		targets = append(targets, Target{OrderID: o.ID, Date: o.Date, CreatedAt: o.CreatedAt, Balance: o.BalanceDue})
	}
	SortFIFO(targets)
	return targets, nil
}

func (s *Service) persist(ctx context.Context, tx *gorm.DB, actor auth.Actor, in ApplyInput, date time.Time, alloc *Allocation) error {
	var o models.Order
	if err := tx.WithContext(ctx).First(&o, alloc.OrderID).Error; err != nil {
		return errors.Wrap(err, "no se pudo releer el pedido")
	}
	before := o
	o.ApplyPayment(alloc.Amount)
	if o.AmountPaid.GreaterThan(o.Total) {
		return apperr.State(apperr.CodeOrderAlreadySettled, fmt.Sprintf("El abono excede el total del pedido %d", o.ID))
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"amount_paid": o.AmountPaid,
		"balance_due": o.BalanceDue,
	}).Error; err != nil {
		return errors.Wrap(err, "no se pudo actualizar el saldo del pedido")
	}

	orderID := o.ID
	p := models.Payment{
		Date:       date,
		CustomerID: in.CustomerID,
		OrderID:    &orderID,
		Amount:     alloc.Amount,
		Method:     in.Method,
		Notes:      in.Notes,
		RecordedBy: actor.UserID,
	}
	if err := tx.Create(&p).Error; err != nil {
		return errors.Wrap(err, "no se pudo guardar el abono")
	}
	alloc.PaymentID = p.ID
	alloc.RemainingBalance = o.BalanceDue

	return audit.WriteLog(tx, audit.LogOptions{
		BranchID:    &o.BranchID,
		UserID:      actor.UserID,
		EntityType:  audit.EntityPayment,
		EntityID:    p.ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("Abono de %s al pedido %d", p.Amount.StringFixed(2), o.ID),
		Before:      map[string]any{"order_id": o.ID, "balance_due": before.BalanceDue},
		After:       p,
	})
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{})
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.OrderID != nil {
		q = q.Where("order_id = ?", *f.OrderID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}

	var payments []models.Payment
	if err := q.Order("date DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron listar los abonos")
	}
	return payments, nil
}
