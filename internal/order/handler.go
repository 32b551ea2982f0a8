package order

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/credit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/httpx"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	Date       string            `json:"date"` // "2024-03-01", vacío = hoy
	CustomerID *uint             `json:"customer_id"`
	BranchID   *uint             `json:"branch_id"` // super_admin: obligatorio
	Lines      []credit.LineItem `json:"lines" validate:"required,min=1,dive"`
	Notes      string            `json:"notes" validate:"max=255"`
}

type UpdateStatusRequest struct {
	Status           models.OrderStatus `json:"status" validate:"required,oneof=pending prepared in_transit delivered cancelled"`
	DeliveryBranchID *uint              `json:"delivery_branch_id"`
}

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var body CreateOrderRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		date, err := httpx.ParseDate(body.Date)
		if err != nil {
			return err
		}

		o, err := svc.CreateOrder(c.UserContext(), actor, CreateInput{
			CustomerID: body.CustomerID,
			BranchID:   body.BranchID,
			Date:       date,
			Lines:      body.Lines,
			Notes:      body.Notes,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// GET /api/orders?customer_id=&branch_id=&status=&from=&to=
func ListOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var f Filter
		if f.CustomerID, err = httpx.QueryUint(c, "customer_id"); err != nil {
			return err
		}
		if f.BranchID, err = httpx.QueryUint(c, "branch_id"); err != nil {
			return err
		}
		if f.From, err = httpx.QueryDate(c, "from"); err != nil {
			return err
		}
		if f.To, err = httpx.QueryDate(c, "to"); err != nil {
			return err
		}
		f.Status = models.OrderStatus(c.Query("status"))

		orders, err := svc.List(c.UserContext(), actor, f)
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/:id
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// PUT /api/orders/:id/status
func UpdateStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateStatusRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		o, err := svc.AdvanceStatus(c.UserContext(), actor, id, body.Status, body.DeliveryBranchID)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := svc.CancelOrder(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}
