package closing

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/httpx"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateClosingRequest struct {
	Date         string           `json:"date"` // "2024-03-01", vacío = hoy
	BranchID     *uint            `json:"branch_id"`
	CashInDrawer *decimal.Decimal `json:"cash_in_drawer"`
	FlourBags    *decimal.Decimal `json:"flour_bags"`
	Notes        string           `json:"notes" validate:"max=500"`
}

type UpdateClosingRequest struct {
	CashInDrawer *decimal.Decimal `json:"cash_in_drawer"`
	FlourBags    *decimal.Decimal `json:"flour_bags"`
	Notes        *string          `json:"notes" validate:"omitempty,max=500"`
}

type ExpenseRequest struct {
	CategoryID  uint            `json:"category_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
}

// POST /api/cash-closings
func CreateClosingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var body CreateClosingRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		date, err := httpx.ParseDate(body.Date)
		if err != nil {
			return err
		}

		closing, err := svc.Create(c.UserContext(), actor, CreateInput{
			Date:         date,
			BranchID:     body.BranchID,
			CashInDrawer: body.CashInDrawer,
			FlourBags:    body.FlourBags,
			Notes:        body.Notes,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(closing)
	}
}

// GET /api/cash-closings?from=&to=&branch_id=&status=
func ListClosingsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var f Filter
		if f.From, err = httpx.QueryDate(c, "from"); err != nil {
			return err
		}
		if f.To, err = httpx.QueryDate(c, "to"); err != nil {
			return err
		}
		if f.BranchID, err = httpx.QueryUint(c, "branch_id"); err != nil {
			return err
		}
		f.Status = models.ClosingStatus(c.Query("status"))

		closings, err := svc.List(c.UserContext(), actor, f)
		if err != nil {
			return err
		}
		return c.JSON(closings)
	}
}

// GET /api/cash-closings/:id
func GetClosingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		detail, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(detail)
	}
}

// PUT /api/cash-closings/:id
func UpdateClosingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateClosingRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		closing, err := svc.UpdateFields(c.UserContext(), actor, id, UpdateInput{
			CashInDrawer: body.CashInDrawer,
			FlourBags:    body.FlourBags,
			Notes:        body.Notes,
		})
		if err != nil {
			return err
		}
		return c.JSON(closing)
	}
}

// DELETE /api/cash-closings/:id
func DeleteClosingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/cash-closings/:id/expenses
func CreateExpenseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body ExpenseRequest
		if err := httpx.ParseBody(c, &body); err != nil {
			return err
		}
		expense, err := svc.RecordExpense(c.UserContext(), actor, id, ExpenseInput{
			CategoryID:  body.CategoryID,
			Amount:      body.Amount,
			Description: body.Description,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(expense)
	}
}

// DELETE /api/cash-closings/:id/expenses/:expenseId
func DeleteExpenseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		expenseID, err := httpx.ParamID(c, "expenseId")
		if err != nil {
			return err
		}
		if err := svc.DeleteExpense(c.UserContext(), actor, id, expenseID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/cash-closings/:id/estimate
func EstimateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		est, err := svc.EstimateRevenue(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(est)
	}
}

// POST /api/cash-closings/:id/finalize
func FinalizeClosingHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		closing, err := svc.Finalize(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(closing)
	}
}
