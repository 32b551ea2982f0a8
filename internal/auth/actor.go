package auth

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Actor es la identidad que llega a los servicios: rol y alcance de sucursal.
type Actor struct {
	UserID   uint
	Role     models.UserRole
	BranchID *uint
}

// IsElevated: super_admin puede enmendar cortes completados y ver todas las sucursales.
func (a Actor) IsElevated() bool {
	return a.Role == models.RoleSuperAdmin
}

func (a Actor) CanAccessBranch(branchID uint) bool {
	if a.IsElevated() {
		return true
	}
	return a.BranchID != nil && *a.BranchID == branchID
}

// CheckBranch devuelve AuthorizationError si la sucursal está fuera de su alcance.
func (a Actor) CheckBranch(branchID uint) error {
	if !a.CanAccessBranch(branchID) {
		return apperr.Forbidden(apperr.CodeBranchScope, "No tienes acceso a esta sucursal")
	}
	return nil
}

// ScopeBranch resuelve el filtro de sucursal de una consulta: un admin de
// sucursal siempre queda limitado a la suya; super_admin usa lo pedido (nil = todas).
func (a Actor) ScopeBranch(requested *uint) (*uint, error) {
	if a.IsElevated() {
		return requested, nil
	}
	if a.BranchID == nil {
		return nil, apperr.Forbidden(apperr.CodeBranchScope, "Usuario sin sucursal asignada")
	}
	if requested != nil && *requested != *a.BranchID {
		return nil, apperr.Forbidden(apperr.CodeBranchScope, "No tienes acceso a esta sucursal")
	}
	own := *a.BranchID
	return &own, nil
}

// ResolveBranch es ScopeBranch cuando la sucursal es obligatoria.
func (a Actor) ResolveBranch(requested *uint) (uint, error) {
	scoped, err := a.ScopeBranch(requested)
	if err != nil {
		return 0, err
	}
	if scoped == nil {
		return 0, apperr.Validation(apperr.CodeInvalidInput, "branch_id es obligatorio")
	}
	return *scoped, nil
}

// ActorFromCtx arma el Actor con lo que dejó JWTMiddleware en Locals.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "No se pudo leer el rol")
	}
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "No se pudo leer el usuario")
	}
	branchID, _ := c.Locals(CtxBranchIDKey).(*uint)
	return Actor{UserID: userID, Role: role, BranchID: branchID}, nil
}
