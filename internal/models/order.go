package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPrepared  OrderStatus = "prepared"
	OrderInTransit OrderStatus = "in_transit"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPending:   0,
	OrderPrepared:  1,
	OrderInTransit: 2,
	OrderDelivered: 3,
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok || s == OrderCancelled
}

// IsFinal: entregado o cancelado, solo los campos de pago cambian después.
func (s OrderStatus) IsFinal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanAdvanceTo: el flujo de entrega solo avanza (se pueden saltar pasos).
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Date             time.Time       `gorm:"index;not null" json:"date"`
	CustomerID       *uint           `gorm:"index" json:"customer_id"` // nil = venta de mostrador
	BranchID         uint            `gorm:"index;not null" json:"branch_id"`
	Status           OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	Total            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount_paid"`
	BalanceDue       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balance_due"`
	DeliveryBranchID *uint           `json:"delivery_branch_id"`
	DeliveredAt      *time.Time      `json:"delivered_at"`
	Notes            string          `gorm:"size:255" json:"notes"`
	CreatedBy        uint            `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// ApplyPayment suma un abono y recalcula el saldo; nunca deja saldo negativo.
func (o *Order) ApplyPayment(amount decimal.Decimal) {
	o.AmountPaid = o.AmountPaid.Add(amount)
	o.BalanceDue = o.Total.Sub(o.AmountPaid)
	if o.BalanceDue.IsNegative() {
		o.BalanceDue = decimal.Zero
	}
}

type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"` // congelado al crear
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}
