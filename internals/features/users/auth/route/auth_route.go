// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "weekreport_backend/internals/features/users/auth/controller"
	rateLimiter "weekreport_backend/internals/middlewares"
)

// AuthPublicRoutes: /api/auth/login, no token required.
func AuthPublicRoutes(api fiber.Router, db *gorm.DB) {
	h := controller.NewAuthController(db)
	api.Post("/auth/login", rateLimiter.LoginRateLimiter(), h.Login)
}

// AuthRoutes: behind the auth middleware.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	h := controller.NewAuthController(db)

	g := api.Group("/auth")
	g.Post("/logout", h.Logout)                  // 🚪 revoke token
	g.Get("/me", h.Me)                           // 👤 current user
	g.Post("/change-password", h.ChangePassword) // 🔑
}
