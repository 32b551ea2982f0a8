package auth

import (
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}

		response := fiber.Map{
			"user_id":   actor.UserID,
			"role":      actor.Role,
			"branch_id": actor.BranchID,
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, actor.UserID).Error; err == nil {
			response["name"] = user.Name
			response["email"] = user.Email
		}

		if actor.BranchID != nil {
			var branch models.Branch
			if err := db.WithContext(c.UserContext()).First(&branch, *actor.BranchID).Error; err == nil {
				response["branch"] = fiber.Map{
					"id":      branch.ID,
					"name":    branch.Name,
					"type":    branch.Type,
					"purpose": branch.Purpose,
				}
			}
		}

		return c.JSON(response)
	}
}
