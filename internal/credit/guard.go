package credit

import (
	"context"
	"fmt"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/pricing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LineItem struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// LimitDetail viaja en el error CreditLimitExceeded y en la respuesta de autorización.
type LimitDetail struct {
	CurrentDebt decimal.Decimal `json:"current_debt"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	NewDebt     decimal.Decimal `json:"new_debt"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Excess      decimal.Decimal `json:"excess"`
}

type Authorization struct {
	LimitDetail
	Available decimal.Decimal        `json:"available"`
	Prices    map[uint]pricing.Price `json:"-"`
}

type Guard struct {
	pricing      *pricing.Resolver
	defaultLimit decimal.Decimal
}

func NewGuard(resolver *pricing.Resolver, defaultLimit decimal.Decimal) *Guard {
	if !defaultLimit.IsPositive() {
		defaultLimit = models.DefaultCreditLimit
	}
	return &Guard{pricing: resolver, defaultLimit: defaultLimit}
}

// LoadCustomer lee el cliente; con lock=true toma SELECT ... FOR UPDATE para
// serializar chequeos de crédito y abonos del mismo cliente.
func LoadCustomer(ctx context.Context, tx *gorm.DB, customerID uint, lock bool) (*models.Customer, error) {
	q := tx.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var customer models.Customer
	err := q.First(&customer, customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(apperr.CodeCustomerNotFound, fmt.Sprintf("Cliente %d no encontrado", customerID))
	}
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo leer el cliente")
	}
	return &customer, nil
}

// OutstandingBalance = Σ saldo de los pedidos entregados con saldo > 0.
func (g *Guard) OutstandingBalance(ctx context.Context, db *gorm.DB, customerID uint) (decimal.Decimal, error) {
	var orders []models.Order
	err := db.WithContext(ctx).
		Select("id", "balance_due").
		Where("customer_id = ? AND status = ? AND balance_due > 0", customerID, models.OrderDelivered).
		Find(&orders).Error
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "no se pudo calcular la deuda")
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.BalanceDue)
	}
	return total, nil
}

// Status es la foto del crédito del cliente sin pedido nuevo.
func (g *Guard) Status(ctx context.Context, db *gorm.DB, customerID uint) (*Authorization, error) {
	customer, err := LoadCustomer(ctx, db, customerID, false)
	if err != nil {
		return nil, err
	}
	debt, err := g.OutstandingBalance(ctx, db, customerID)
	if err != nil {
		return nil, err
	}
	return g.evaluate(customer, debt, decimal.Zero, nil), nil
}

// AuthorizeOrder valora las líneas con la jerarquía de precios y rechaza el
// pedido si deuda actual + total > límite. No reserva crédito: el llamador
// debe tener el cliente bloqueado dentro de su tx.
func (g *Guard) AuthorizeOrder(ctx context.Context, db *gorm.DB, customerID, branchID uint, lines []LineItem) (*Authorization, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	customer, err := LoadCustomer(ctx, db, customerID, false)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, apperr.Validation(apperr.CodeCustomerInactive, "El cliente está inactivo")
	}

	productIDs := make([]uint, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	prices, err := g.pricing.Resolve(ctx, db, &customerID, &branchID, productIDs)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineSubtotal(l.Quantity, prices[l.ProductID].Amount))
	}

	debt, err := g.OutstandingBalance(ctx, db, customerID)
	if err != nil {
		return nil, err
	}

	result := g.evaluate(customer, debt, total, prices)
	if result.Excess.IsPositive() {
		return nil, &apperr.Error{
			Kind:    apperr.KindCreditLimitExceeded,
			Code:    apperr.CodeCreditLimitExceeded,
			Message: fmt.Sprintf("El pedido excede el límite de crédito por %s", result.Excess.StringFixed(2)),
			Details: result.LimitDetail,
		}
	}
	return result, nil
}

func (g *Guard) evaluate(customer *models.Customer, debt, orderTotal decimal.Decimal, prices map[uint]pricing.Price) *Authorization {
	limit := customer.EffectiveCreditLimit(g.defaultLimit)
	newDebt := debt.Add(orderTotal)

	excess := newDebt.Sub(limit)
	if excess.IsNegative() {
		excess = decimal.Zero
	}
	available := limit.Sub(newDebt)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return &Authorization{
		LimitDetail: LimitDetail{
			CurrentDebt: debt,
			OrderTotal:  orderTotal,
			NewDebt:     newDebt,
			CreditLimit: limit,
			Excess:      excess,
		},
		Available: available,
		Prices:    prices,
	}
}

func ValidateLines(lines []LineItem) error {
	if len(lines) == 0 {
		return apperr.Validation(apperr.CodeInvalidInput, "El pedido no tiene líneas")
	}
	for _, l := range lines {
		if l.ProductID == 0 {
			return apperr.Validation(apperr.CodeInvalidInput, "product_id es obligatorio")
		}
		if !l.Quantity.IsPositive() {
			return apperr.Validation(apperr.CodeInvalidInput, "La cantidad debe ser mayor a cero")
		}
	}
	return nil
}

// LineSubtotal redondea a centavos.
func LineSubtotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Round(2)
}
