package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/models"
)

// AdminVaildator gates the admin route group. Runs after Authenticate,
// so CurrentUser is always present.
func AdminVaildator(c *fiber.Ctx) error {
	CurrentUser := c.Locals("CurrentUser").(*models.Member)

	if CurrentUser.State != "active" {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"authz.member_not_active"},
		})
	}

	if CurrentUser.Role != "admin" && CurrentUser.Role != "superadmin" {
		return c.Status(422).JSON(helpers.Errors{
			Errors: []string{"authz.invalid_permission"},
		})
	}

	return c.Next()
}
