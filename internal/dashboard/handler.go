package dashboard

import (
	"fmt"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/httpx"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultTopN = 5

type PettyCashResponse struct {
	Cutoff  string `json:"cutoff"`
	Balance string `json:"balance"`
}

// GET /api/dashboard/petty-cash?date=2024-03-01
func PettyCashHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cutoff, err := httpx.RequiredDate(c, "date")
		if err != nil {
			return err
		}
		balance, err := svc.PettyCash(c.UserContext(), cutoff)
		if err != nil {
			return err
		}
		return c.JSON(PettyCashResponse{
			Cutoff:  cutoff.Format(models.DateLayout),
			Balance: balance.StringFixed(2),
		})
	}
}

// GET /api/dashboard/daily?date=2024-03-01
func DailyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := httpx.RequiredDate(c, "date")
		if err != nil {
			return err
		}
		r, err := svc.Daily(c.UserContext(), date)
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/dashboard/weekly?date=2024-03-06
func WeeklyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := httpx.RequiredDate(c, "date")
		if err != nil {
			return err
		}
		r, err := svc.Weekly(c.UserContext(), date)
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/dashboard/monthly?year=2024&month=3&top=5
func MonthlyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := yearMonth(c)
		if err != nil {
			return err
		}
		top, err := httpx.QueryInt(c, "top", defaultTopN)
		if err != nil {
			return err
		}
		r, err := svc.Monthly(c.UserContext(), year, month, top)
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/dashboard/annual?year=2024&top=5
func AnnualHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, err := httpx.QueryInt(c, "year", time.Now().Year())
		if err != nil {
			return err
		}
		top, err := httpx.QueryInt(c, "top", defaultTopN)
		if err != nil {
			return err
		}
		r, err := svc.Annual(c.UserContext(), year, top)
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/dashboard/monthly/export?year=2024&month=3
func ExportMonthlyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := yearMonth(c)
		if err != nil {
			return err
		}
		data, err := svc.ExportMonthly(c.UserContext(), year, month)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="resumen-%04d-%02d.xlsx"`, year, int(month)))
		return c.Send(data)
	}
}

// yearMonth: por defecto el mes en curso.
func yearMonth(c *fiber.Ctx) (int, time.Month, error) {
	now := time.Now()
	year, err := httpx.QueryInt(c, "year", now.Year())
	if err != nil {
		return 0, 0, err
	}
	month, err := httpx.QueryInt(c, "month", int(now.Month()))
	if err != nil {
		return 0, 0, err
	}
	return year, time.Month(month), nil
}
