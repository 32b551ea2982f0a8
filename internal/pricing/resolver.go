// Package pricing resuelve el precio unitario de un producto con la jerarquía
// cliente → sucursal → lista, en una sola consulta por tabla de precios.
package pricing

import (
	"context"
	"fmt"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Source indica de qué nivel de la jerarquía salió el precio.
type Source string

const (
	SourceCustomer Source = "customer"
	SourceBranch   Source = "branch"
	SourceList     Source = "list"
)

type Price struct {
	ProductID uint            `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Source    Source          `json:"source"`
}

// Resolver no guarda estado; db se recibe en cada llamada para poder usar la tx del llamador.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve devuelve el precio de cada producto pedido. Un producto inexistente o
// inactivo es NotFound. customerID y branchID son opcionales.
func (r *Resolver) Resolve(ctx context.Context, db *gorm.DB, customerID, branchID *uint, productIDs []uint) (map[uint]Price, error) {
	ids := unique(productIDs)
	if len(ids) == 0 {
		return map[uint]Price{}, nil
	}
	tx := db.WithContext(ctx)

	var products []models.Product
	if err := tx.Where("id IN ? AND status = ?", ids, models.StatusActive).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "no se pudieron leer los productos")
	}
	prices := make(map[uint]Price, len(products))
	for _, p := range products {
		prices[p.ID] = Price{ProductID: p.ID, Amount: p.ListPrice, Source: SourceList}
	}
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, apperr.NotFound(apperr.CodeProductNotFound, fmt.Sprintf("Producto %d no encontrado", id)).
				WithDetails(map[string]uint{"product_id": id})
		}
	}

	if branchID != nil {
		var rows []models.BranchPrice
		if err := tx.Where("branch_id = ? AND product_id IN ?", *branchID, ids).Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "no se pudieron leer los precios de sucursal")
		}
		for _, bp := range rows {
			prices[bp.ProductID] = Price{ProductID: bp.ProductID, Amount: bp.Price, Source: SourceBranch}
		}
	}

	if customerID != nil {
		var rows []models.CustomerPrice
		if err := tx.Where("customer_id = ? AND product_id IN ?", *customerID, ids).Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "no se pudieron leer los precios de cliente")
		}
		for _, cp := range rows {
			prices[cp.ProductID] = Price{ProductID: cp.ProductID, Amount: cp.Price, Source: SourceCustomer}
		}
	}

	return prices, nil
}

// UnitPrice es la versión de un solo producto sin cliente. ok=false si el
// producto no existe, para que el llamador use su propio valor por defecto.
func (r *Resolver) UnitPrice(ctx context.Context, db *gorm.DB, branchID, productID uint) (decimal.Decimal, bool, error) {
	prices, err := r.Resolve(ctx, db, nil, &branchID, []uint{productID})
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return prices[productID].Amount, true, nil
}

// UnitPriceByCode busca el producto activo por código y aplica UnitPrice.
func (r *Resolver) UnitPriceByCode(ctx context.Context, db *gorm.DB, branchID uint, code string) (decimal.Decimal, bool, error) {
	var product models.Product
	err := db.WithContext(ctx).
		Where("code = ? AND status = ?", code, models.StatusActive).
		Order("id ASC").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errors.Wrap(err, "no se pudo leer el producto")
	}
	return r.UnitPrice(ctx, db, branchID, product.ID)
}

func unique(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
