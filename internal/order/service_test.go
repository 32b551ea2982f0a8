package order

import (
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/audit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/credit"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/database/dbtest"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	branch   models.Branch
	customer models.Customer
	tortilla models.Product
	totopo   models.Product
	admin    auth.Actor
	cashier  auth.Actor
}

func newFixture(t *testing.T) fixture {
	db := dbtest.New(t)
	resolver := pricing.NewResolver()
	branch := dbtest.Branch(t, db, "Centro", models.BranchTypePhysical, models.BranchPurposeSales)
	return fixture{
		db:       db,
		svc:      NewService(db, credit.NewGuard(resolver, decimal.NewFromInt(200)), resolver, zap.NewNop()),
		branch:   branch,
		customer: dbtest.Customer(t, db, "Fonda Lupita", ""),
		tortilla: dbtest.Product(t, db, "Tortilla", "tortilla", "22"),
		totopo:   dbtest.Product(t, db, "Totopo", "totopo", "35.50"),
		admin:    auth.Actor{UserID: 1, Role: models.RoleSuperAdmin},
		cashier:  auth.Actor{UserID: 2, Role: models.RoleBranchAdmin, BranchID: &branch.ID},
	}
}

func TestCreateOrder_TotalsAndFrozenPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, f.cashier, CreateInput{
		CustomerID: &f.customer.ID,
		Date:       dbtest.Day("2024-03-01"),
		Lines: []credit.LineItem{
			{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("2.5")},
			{ProductID: f.totopo.ID, Quantity: dbtest.Dec("1")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, f.branch.ID, o.BranchID)
	assert.True(t, o.Total.Equal(dbtest.Dec("90.5")), o.Total.String())
	assert.True(t, o.BalanceDue.Equal(o.Total.Sub(o.AmountPaid)))

	// un cambio de precio posterior no toca el pedido
	require.NoError(t, f.db.Model(&f.tortilla).Update("list_price", dbtest.Dec("30")).Error)

	got, err := f.svc.Get(ctx, f.cashier, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	sum := decimal.Zero
	for _, l := range got.Lines {
		sum = sum.Add(l.Subtotal)
	}
	assert.True(t, got.Total.Equal(sum))
	assert.True(t, got.Lines[0].UnitPrice.Equal(dbtest.Dec("22")))

	logs, err := audit.List(f.db, audit.Filter{EntityType: audit.EntityOrder})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestCreateOrder_CreditLimitRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.DeliveredOrder(t, f.db, f.customer.ID, f.branch.ID, "2024-02-01", "190")

	_, err := f.svc.CreateOrder(ctx, f.cashier, CreateInput{
		CustomerID: &f.customer.ID,
		Lines:      []credit.LineItem{{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("1")}},
	})
	require.True(t, apperr.IsKind(err, apperr.KindCreditLimitExceeded))

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrder_WalkInSkipsCredit(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.CreateOrder(context.Background(), f.cashier, CreateInput{
		Lines: []credit.LineItem{{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("100")}},
	})
	require.NoError(t, err)
	assert.Nil(t, o.CustomerID)
	assert.True(t, o.Total.Equal(dbtest.Dec("2200")))
}

func TestCreateOrder_BranchScope(t *testing.T) {
	f := newFixture(t)
	other := dbtest.Branch(t, f.db, "Norte", models.BranchTypePhysical, models.BranchPurposeSales)
	lines := []credit.LineItem{{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("1")}}

	_, err := f.svc.CreateOrder(context.Background(), f.cashier, CreateInput{BranchID: &other.ID, Lines: lines})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	_, err = f.svc.CreateOrder(context.Background(), f.admin, CreateInput{Lines: lines})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	missing := uint(999)
	_, err = f.svc.CreateOrder(context.Background(), f.admin, CreateInput{BranchID: &missing, Lines: lines})
	assert.True(t, apperr.HasCode(err, apperr.CodeBranchNotFound))
}

func TestAdvanceStatus_ForwardOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.svc.CreateOrder(ctx, f.cashier, CreateInput{
		CustomerID: &f.customer.ID,
		Lines:      []credit.LineItem{{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("1")}},
	})
	require.NoError(t, err)

	// saltar pasos hacia adelante está permitido
	o, err = f.svc.AdvanceStatus(ctx, f.cashier, o.ID, models.OrderInTransit, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderInTransit, o.Status)

	_, err = f.svc.AdvanceStatus(ctx, f.cashier, o.ID, models.OrderPrepared, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidTransition))

	o, err = f.svc.AdvanceStatus(ctx, f.cashier, o.ID, models.OrderDelivered, nil)
	require.NoError(t, err)
	require.NotNil(t, o.DeliveredAt)
	require.NotNil(t, o.DeliveryBranchID)
	assert.Equal(t, f.branch.ID, *o.DeliveryBranchID)

	_, err = f.svc.AdvanceStatus(ctx, f.cashier, o.ID, models.OrderDelivered, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindState))

	_, err = f.svc.CancelOrder(ctx, f.cashier, o.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindState))

	debt, err := credit.NewGuard(pricing.NewResolver(), decimal.NewFromInt(200)).OutstandingBalance(ctx, f.db, f.customer.ID)
	require.NoError(t, err)
	assert.True(t, debt.Equal(dbtest.Dec("22")))
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.svc.CreateOrder(ctx, f.cashier, CreateInput{
		Lines: []credit.LineItem{{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("1")}},
	})
	require.NoError(t, err)

	o, err = f.svc.AdvanceStatus(ctx, f.cashier, o.ID, models.OrderCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, o.Status)
	assert.True(t, o.BalanceDue.Equal(o.Total.Sub(o.AmountPaid)))

	_, err = f.svc.AdvanceStatus(ctx, f.cashier, o.ID, models.OrderPrepared, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindState))

	_, err = f.svc.CancelOrder(ctx, f.cashier, 12345)
	assert.True(t, apperr.HasCode(err, apperr.CodeOrderNotFound))
}

func TestList_ScopedToBranch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := dbtest.Branch(t, f.db, "Norte", models.BranchTypePhysical, models.BranchPurposeSales)
	lines := []credit.LineItem{{ProductID: f.tortilla.ID, Quantity: dbtest.Dec("1")}}

	_, err := f.svc.CreateOrder(ctx, f.cashier, CreateInput{Lines: lines, Date: dbtest.Day("2024-03-01")})
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, f.admin, CreateInput{BranchID: &other.ID, Lines: lines, Date: dbtest.Day("2024-03-02")})
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.cashier, Filter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.List(ctx, f.admin, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.ID, all[0].BranchID)

	from := dbtest.Day("2024-03-02")
	ranged, err := f.svc.List(ctx, f.admin, Filter{From: &from})
	require.NoError(t, err)
	assert.Len(t, ranged, 1)
}

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler(zap.NewNop())})
	app.Use(func(c *fiber.Ctx) error {
		auth.SetActor(c, f.cashier)
		return c.Next()
	})
	app.Post("/orders", CreateOrderHandler(f.svc))
	app.Get("/orders", ListOrdersHandler(f.svc))
	app.Get("/orders/:id", GetOrderHandler(f.svc))
	app.Put("/orders/:id/status", UpdateStatusHandler(f.svc))
	app.Post("/orders/:id/cancel", CancelOrderHandler(f.svc))

	send := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	body := `{"date":"2024-03-01","customer_id":` + strconv.Itoa(int(f.customer.ID)) +
		`,"lines":[{"product_id":` + strconv.Itoa(int(f.tortilla.ID)) + `,"quantity":2}]}`
	assert.Equal(t, fiber.StatusCreated, send("POST", "/orders", body))
	assert.Equal(t, fiber.StatusBadRequest, send("POST", "/orders", `{"lines":[]}`))

	var o models.Order
	require.NoError(t, f.db.First(&o).Error)
	id := strconv.Itoa(int(o.ID))

	assert.Equal(t, fiber.StatusOK, send("GET", "/orders/"+id, ""))
	assert.Equal(t, fiber.StatusOK, send("GET", "/orders?status=pending", ""))
	assert.Equal(t, fiber.StatusBadRequest, send("PUT", "/orders/"+id+"/status", `{"status":"perdido"}`))
	assert.Equal(t, fiber.StatusOK, send("PUT", "/orders/"+id+"/status", `{"status":"prepared"}`))
	assert.Equal(t, fiber.StatusConflict, send("POST", "/orders/"+id+"/cancel", ""))
}
