package middlewares

import (
	"github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns a panic into a 500 through the error handler and logs it.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			lgr.Printf("[ERROR] panic %s %s reqid=%v: %v", c.Method(), c.OriginalURL(), c.Locals("reqid"), e)
		},
	})
}
