package payment

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/httpx"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ApplyPaymentRequest struct {
	Date       string               `json:"date"` // "2024-03-01", vacío = hoy
	CustomerID uint                 `json:"customer_id" validate:"required"`
	Amount     decimal.Decimal      `json:"amount"`
	Method     models.PaymentMethod `json:"method" validate:"omitempty,oneof=cash transfer other"`
	OrderID    *uint                `json:"order_id"`
	Notes      string               `json:"notes" validate:"max=255"`
}

// POST /api/payments
func ApplyPaymentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var body ApplyPaymentRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		date, err := httpx.ParseDate(body.Date)
		if err != nil {
			return err
		}

		result, err := svc.ApplyPayment(c.UserContext(), actor, ApplyInput{
			CustomerID: body.CustomerID,
			Amount:     body.Amount,
			Method:     body.Method,
			OrderID:    body.OrderID,
			Date:       date,
			Notes:      body.Notes,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// GET /api/payments?customer_id=&order_id=&from=&to=
func ListPaymentsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			f   Filter
			err error
		)
		if f.CustomerID, err = httpx.QueryUint(c, "customer_id"); err != nil {
			return err
		}
		if f.OrderID, err = httpx.QueryUint(c, "order_id"); err != nil {
			return err
		}
		if f.From, err = httpx.QueryDate(c, "from"); err != nil {
			return err
		}
		if f.To, err = httpx.QueryDate(c, "to"); err != nil {
			return err
		}

		payments, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(payments)
	}
}
