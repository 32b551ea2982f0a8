package credit

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/httpx"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthorizeRequest struct {
	BranchID *uint      `json:"branch_id"`
	Lines    []LineItem `json:"lines" validate:"required,min=1,dive"`
}

// GET /api/customers/:id/credit
func StatusHandler(db *gorm.DB, guard *Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		status, err := guard.Status(c.UserContext(), db, customerID)
		if err != nil {
			return err
		}
		return c.JSON(status)
	}
}

// POST /api/customers/:id/credit/authorize
// Simula el pedido sin guardarlo: 200 si cabe en el límite, 422 si no.
func AuthorizeHandler(db *gorm.DB, guard *Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		customerID, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body AuthorizeRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		branchID, err := actor.ResolveBranch(body.BranchID)
		if err != nil {
			return err
		}

		result, err := guard.AuthorizeOrder(c.UserContext(), db, customerID, branchID, body.Lines)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}
