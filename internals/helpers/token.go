// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessTokenCookie = "access_token"
	LocRawToken       = "raw_token"
)

// GetRawAccessToken returns the access token from, in order:
// 1) Locals("raw_token") set by the auth middleware
// 2) Authorization: Bearer <token> (scheme case-insensitive)
// 3) the access_token cookie
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if fields := strings.Fields(c.Get(fiber.HeaderAuthorization)); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	return strings.TrimSpace(c.Cookies(AccessTokenCookie))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
