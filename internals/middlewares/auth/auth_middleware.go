// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authService "weekreport_backend/internals/features/users/auth/service"
	helper "weekreport_backend/internals/helpers"
)

// AuthMiddleware accepts a Bearer header or the access_token cookie, rejects
// blacklisted tokens and disabled users, and stores the user id in Locals("user_id").
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	svc := authService.NewAuthService(db)
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "no token provided")
		}

		userID, err := svc.Authenticate(c.UserContext(), raw)
		if err != nil {
			lgr.Printf("[DEBUG] auth rejected %s %s: %v", c.Method(), c.Path(), err)
			return helper.JsonFromError(c, err)
		}

		helper.SetRawAccessToken(c, raw)
		c.Locals(helper.LocalsUserID, userID.String())
		return c.Next()
	}
}
