package main

import (
	"strings"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/audit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/catalog"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/closing"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/config"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/credit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/dashboard"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/logger"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/order"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/payment"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newApp(cfg *config.Config, db *gorm.DB, log *zap.Logger) *fiber.App {
	resolver := pricing.NewResolver()
	guard := credit.NewGuard(resolver, cfg.DefaultCreditLimit)
	orders := order.NewService(db, guard, resolver, log)
	payments := payment.NewService(db, guard, log)
	closings := closing.NewService(db, resolver, cfg.Estimate, log)
	reports := dashboard.NewService(db, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler(log),
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + logger.HeaderRequestID,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: logger.HeaderRequestID + ", Content-Disposition",
	}))
	app.Use(logger.Middleware(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Datos maestros
	protected.Get("/branches", catalog.ListBranchesHandler(db))
	protected.Get("/expense-categories", catalog.ListExpenseCategoriesHandler(db))
	protected.Get("/customers", catalog.ListCustomersHandler(db))
	protected.Get("/products", catalog.ListProductsHandler(db, resolver))

	// Crédito
	protected.Get("/customers/:id/credit", credit.StatusHandler(db, guard))
	protected.Post("/customers/:id/credit/authorize", credit.AuthorizeHandler(db, guard))

	// Pedidos
	protected.Post("/orders", order.CreateOrderHandler(orders))
	protected.Get("/orders", order.ListOrdersHandler(orders))
	protected.Get("/orders/:id", order.GetOrderHandler(orders))
	protected.Put("/orders/:id/status", order.UpdateStatusHandler(orders))
	protected.Post("/orders/:id/cancel", order.CancelOrderHandler(orders))

	// Abonos
	protected.Post("/payments", payment.ApplyPaymentHandler(payments))
	protected.Get("/payments", payment.ListPaymentsHandler(payments))

	// Cortes de caja
	protected.Post("/cash-closings", closing.CreateClosingHandler(closings))
	protected.Get("/cash-closings", closing.ListClosingsHandler(closings))
	protected.Get("/cash-closings/:id", closing.GetClosingHandler(closings))
	protected.Put("/cash-closings/:id", closing.UpdateClosingHandler(closings))
	protected.Delete("/cash-closings/:id", closing.DeleteClosingHandler(closings))
	protected.Post("/cash-closings/:id/expenses", closing.CreateExpenseHandler(closings))
	protected.Delete("/cash-closings/:id/expenses/:expenseId", closing.DeleteExpenseHandler(closings))
	protected.Get("/cash-closings/:id/estimate", closing.EstimateHandler(closings))
	protected.Post("/cash-closings/:id/finalize", closing.FinalizeClosingHandler(closings))

	// Tablero: cifras de toda la empresa, solo super admin
	board := protected.Group("/dashboard")
	board.Use(auth.RequireRole(models.RoleSuperAdmin))
	board.Get("/petty-cash", dashboard.PettyCashHandler(reports))
	board.Get("/daily", dashboard.DailyHandler(reports))
	board.Get("/weekly", dashboard.WeeklyHandler(reports))
	board.Get("/monthly", dashboard.MonthlyHandler(reports))
	board.Get("/monthly/export", dashboard.ExportMonthlyHandler(reports))
	board.Get("/annual", dashboard.AnnualHandler(reports))

	// Bitácora
	protected.Get("/audit-logs", auth.RequireRole(models.RoleSuperAdmin), audit.ListAuditLogsHandler(db))

	return app
}
