package audit

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/auth"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	BranchID    *uint              `json:"branch_id"`
	UserID      uint               `json:"user_id"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

func optionalUint(c *fiber.Ctx, key string) *uint {
	v := c.QueryInt(key, 0)
	if v <= 0 {
		return nil
	}
	u := uint(v)
	return &u
}

// GET /api/audit-logs?entity_type=cash_closing&entity_id=1&branch_id=1
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		branchID, err := actor.ScopeBranch(optionalUint(c, "branch_id"))
		if err != nil {
			return err
		}

		logs, err := List(db.WithContext(c.UserContext()), Filter{
			BranchID:   branchID,
			UserID:     optionalUint(c, "user_id"),
			EntityType: c.Query("entity_type"),
			EntityID:   optionalUint(c, "entity_id"),
			Limit:      c.QueryInt("limit", 200),
		})
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				BranchID:    l.BranchID,
				UserID:      l.UserID,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}
		return c.JSON(resp)
	}
}
