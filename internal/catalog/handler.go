// Package catalog expone en solo lectura los datos maestros que usan pedidos y cortes.
package catalog

import (
	"strings"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/httpx"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Unit        string          `json:"unit"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Price       decimal.Decimal `json:"price"`
	PriceSource pricing.Source  `json:"price_source"`
}

// GET /api/branches?type=physical
// Un admin de sucursal solo ve la suya.
func ListBranchesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		branchID, err := actor.ScopeBranch(nil)
		if err != nil {
			return err
		}

		q := db.WithContext(c.UserContext()).Model(&models.Branch{})
		if branchID != nil {
			q = q.Where("id = ?", *branchID)
		}
		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", t)
		}

		var branches []models.Branch
		if err := q.Order("name ASC").Find(&branches).Error; err != nil {
			return errors.Wrap(err, "no se pudieron listar las sucursales")
		}
		return c.JSON(branches)
	}
}

// GET /api/expense-categories
func ListExpenseCategoriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.ExpenseCategory
		if err := db.WithContext(c.UserContext()).Order("name ASC").Find(&categories).Error; err != nil {
			return errors.Wrap(err, "no se pudieron listar las categorías")
		}
		return c.JSON(categories)
	}
}

// GET /api/customers?q=lupita
func ListCustomersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.WithContext(c.UserContext()).Where("status = ?", models.StatusActive)
		if term := strings.TrimSpace(c.Query("q")); term != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
		}

		var customers []models.Customer
		if err := q.Order("name ASC").Find(&customers).Error; err != nil {
			return errors.Wrap(err, "no se pudieron listar los clientes")
		}
		return c.JSON(customers)
	}
}

// GET /api/products?branch_id=&customer_id=
// Devuelve cada producto activo con el precio que se le cobraría.
func ListProductsHandler(db *gorm.DB, resolver *pricing.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		requested, err := httpx.QueryUint(c, "branch_id")
		if err != nil {
			return err
		}
		branchID, err := actor.ScopeBranch(requested)
		if err != nil {
			return err
		}
		customerID, err := httpx.QueryUint(c, "customer_id")
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		var products []models.Product
		if err := db.WithContext(ctx).Where("status = ?", models.StatusActive).Order("name ASC").Find(&products).Error; err != nil {
			return errors.Wrap(err, "no se pudieron listar los productos")
		}

		ids := make([]uint, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		prices, err := resolver.Resolve(ctx, db, customerID, branchID, ids)
		if err != nil {
			return err
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			price := prices[p.ID]
			res = append(res, ProductResponse{
				ID:          p.ID,
				Name:        p.Name,
				Code:        p.Code,
				Unit:        p.Unit,
				ListPrice:   p.ListPrice,
				Price:       price.Amount,
				PriceSource: price.Source,
			})
		}
		return c.JSON(res)
	}
}
