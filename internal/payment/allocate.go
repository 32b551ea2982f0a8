package payment

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Target es un pedido con saldo que puede recibir parte del abono.
type Target struct {
	OrderID   uint
	Date      time.Time
	CreatedAt time.Time
	Balance   decimal.Decimal
}

type Allocation struct {
	OrderID          uint            `json:"order_id"`
	OrderDate        string          `json:"order_date"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaymentID        uint            `json:"payment_id"`
}

// SortFIFO ordena del adeudo más viejo al más nuevo: fecha del pedido,
// luego hora de creación, luego id.
func SortFIFO(targets []Target) {
	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.OrderID < b.OrderID
	})
}

// Allocate reparte amount en el orden recibido hasta agotarlo. Devuelve lo
// asignado a cada pedido tocado y el sobrante sin aplicar.
func Allocate(amount decimal.Decimal, targets []Target) ([]Allocation, decimal.Decimal) {
	remaining := amount
	allocs := make([]Allocation, 0, len(targets))

	for _, t := range targets {
		if !remaining.IsPositive() {
			break
		}
		if !t.Balance.IsPositive() {
			continue
		}
		applied := decimal.Min(remaining, t.Balance)
		allocs = append(allocs, Allocation{
			OrderID:          t.OrderID,
			OrderDate:        t.Date.Format("2006-01-02"),
			Amount:           applied,
			RemainingBalance: t.Balance.Sub(applied),
		})
		remaining = remaining.Sub(applied)
	}
	return allocs, remaining
}
