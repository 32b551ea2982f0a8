package order

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
	"github.com/luisrdz5/sistemahacienda-sub001/internal/pricing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateInput struct {
	CustomerID *uint // nil = venta de mostrador, sin chequeo de crédito
	BranchID   *uint
	Date       time.Time
	Lines      []credit.LineItem
	Notes      string
}

type Filter struct {
	CustomerID *uint
	BranchID   *uint
	Status     models.OrderStatus
	From       *time.Time
	To         *time.Time
}

type Service struct {
	db      *gorm.DB
	guard   *credit.Guard
	pricing *pricing.Resolver
	log     *zap.Logger
}

func NewService(db *gorm.DB, guard *credit.Guard, resolver *pricing.Resolver, log *zap.Logger) *Service {
	return &Service{db: db, guard: guard, pricing: resolver, log: log.Named("order")}
}

// CreateOrder congela los precios de las líneas y, si hay cliente, bloquea su
// fila y pasa por el Credit Guard dentro de la misma tx.
func (s *Service) CreateOrder(ctx context.Context, actor auth.Actor, in CreateInput) (*models.Order, error) {
	branchID, err := actor.ResolveBranch(in.BranchID)
	if err != nil {
		return nil, err
	}
	if err := credit.ValidateLines(in.Lines); err != nil {
		return nil, err
	}
	date := models.Day(in.Date)
	if in.Date.IsZero() {
		date = models.Day(time.Now())
	}

	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkBranch(ctx, tx, branchID); err != nil {
			return err
		}

		var prices map[uint]pricing.Price
		if in.CustomerID != nil {
			if _, err := credit.LoadCustomer(ctx, tx, *in.CustomerID, true); err != nil {
				return err
			}
			result, err := s.guard.AuthorizeOrder(ctx, tx, *in.CustomerID, branchID, in.Lines)
			if err != nil {
				return err
			}
			prices = result.Prices
		} else {
			ids := make([]uint, 0, len(in.Lines))
			for _, l := range in.Lines {
				ids = append(ids, l.ProductID)
			}
			if prices, err = s.pricing.Resolve(ctx, tx, nil, &branchID, ids); err != nil {
				return err
			}
		}

		total := decimal.Zero
		lines := make([]models.OrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			unit := prices[l.ProductID].Amount
			subtotal := credit.LineSubtotal(l.Quantity, unit)
			total = total.Add(subtotal)
			lines = append(lines, models.OrderLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: unit,
				Subtotal:  subtotal,
			})
		}

		order = models.Order{
			Date:       date,
			CustomerID: in.CustomerID,
			BranchID:   branchID,
			Status:     models.OrderPending,
			Total:      total,
			AmountPaid: decimal.Zero,
			BalanceDue: total,
			Notes:      in.Notes,
			CreatedBy:  actor.UserID,
			Lines:      lines,
		}
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "no se pudo guardar el pedido")
		}

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &branchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityOrder,
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Pedido por %s", total.StringFixed(2)),
			After:       order,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.For(ctx, s.log).Info("pedido creado",
		zap.Uint("order_id", order.ID),
		zap.Uint("branch_id", branchID),
		zap.String("total", order.Total.String()),
	)
	return &order, nil
}

// AdvanceStatus mueve el pedido hacia adelante en el flujo de entrega.
// Al entregar se registra la fecha y la sucursal que entregó.
func (s *Service) AdvanceStatus(ctx context.Context, actor auth.Actor, orderID uint, next models.OrderStatus, deliveryBranchID *uint) (*models.Order, error) {
	if next == models.OrderCancelled {
		return s.CancelOrder(ctx, actor, orderID)
	}
	if !next.IsValid() {
		return nil, apperr.Validation(apperr.CodeInvalidInput, fmt.Sprintf("Estado %q inválido", next))
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, actor, orderID)
		if err != nil {
			return err
		}
		before := *o

		if o.Status.IsFinal() {
			return apperr.State(apperr.CodeInvalidTransition, fmt.Sprintf("El pedido ya está %s", o.Status))
		}
		if !o.Status.CanAdvanceTo(next) {
			return apperr.State(apperr.CodeInvalidTransition, fmt.Sprintf("No se puede pasar de %s a %s", o.Status, next))
		}

		updates := map[string]any{"status": next}
		o.Status = next
		if next == models.OrderDelivered {
			now := time.Now().UTC()
			deliveredBy := o.BranchID
			if deliveryBranchID != nil {
				if err := actor.CheckBranch(*deliveryBranchID); err != nil {
					return err
				}
				if err := checkBranch(ctx, tx, *deliveryBranchID); err != nil {
					return err
				}
				deliveredBy = *deliveryBranchID
			}
			o.DeliveredAt = &now
			o.DeliveryBranchID = &deliveredBy
			updates["delivered_at"] = now
			updates["delivery_branch_id"] = deliveredBy
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "no se pudo actualizar el pedido")
		}
		order = *o

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &o.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityOrder,
			EntityID:    o.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Estado %s → %s", before.Status, next),
			Before:      before,
			After:       order,
		})
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder solo desde pendiente y sin abonos.
func (s *Service) CancelOrder(ctx context.Context, actor auth.Actor, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := lockOrder(ctx, tx, actor, orderID)
		if err != nil {
			return err
		}
		if o.Status != models.OrderPending {
			return apperr.State(apperr.CodeInvalidTransition, "Solo se pueden cancelar pedidos pendientes")
		}
		if o.AmountPaid.IsPositive() {
			return apperr.State(apperr.CodeInvalidTransition, "El pedido ya tiene abonos")
		}

		before := *o
		o.Status = models.OrderCancelled
		if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Update("status", o.Status).Error; err != nil {
			return errors.Wrap(err, "no se pudo cancelar el pedido")
		}
		order = *o

		return audit.WriteLog(tx, audit.LogOptions{
			BranchID:    &o.BranchID,
			UserID:      actor.UserID,
			EntityType:  audit.EntityOrder,
			EntityID:    o.ID,
			Action:      models.AuditActionUpdate,
			Description: "Pedido cancelado",
			Before:      before,
			After:       order,
		})
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, orderID uint) (*models.Order, error) {
	o, err := findOrder(ctx, s.db, orderID, false)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckBranch(o.BranchID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("order_id = ?", o.ID).Order("id ASC").Find(&o.Lines).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer las líneas")
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter) ([]models.Order, error) {
	branchID, err := actor.ScopeBranch(f.BranchID)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&models.Order{})
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}

	var orders []models.Order
	if err := q.Order("date DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron listar los pedidos")
	}
	return orders, nil
}

func findOrder(ctx context.Context, db *gorm.DB, orderID uint, lock bool) (*models.Order, error) {
	q := db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var o models.Order
	err := q.First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeOrderNotFound, fmt.Sprintf("Pedido %d no encontrado", orderID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo leer el pedido")
	}
	return &o, nil
}

func lockOrder(ctx context.Context, tx *gorm.DB, actor auth.Actor, orderID uint) (*models.Order, error) {
	o, err := findOrder(ctx, tx, orderID, true)
	if err != nil {
		return nil, err
	}
	if err := actor.CheckBranch(o.BranchID); err != nil {
		return nil, err
	}
	return o, nil
}

func checkBranch(ctx context.Context, tx *gorm.DB, branchID uint) error {
	var branch models.Branch
	err := tx.WithContext(ctx).First(&branch, branchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && branch.Status == models.StatusInactive) {
		return apperr.NotFound(apperr.CodeBranchNotFound, fmt.Sprintf("Sucursal %d no encontrada", branchID))
	}
	if err != nil {
		return errors.Wrap(err, "no se pudo leer la sucursal")
	}
	return nil
}
