package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"weekreport_backend/internals/configs"
	"weekreport_backend/internals/features/users/auth/dto"
	"weekreport_backend/internals/features/users/auth/service"
	helper "weekreport_backend/internals/helpers"
)

type AuthController struct {
	Svc      *service.AuthService
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{Svc: service.NewAuthService(db), Validate: helper.NewValidator()}
}

func setAccessCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.AccessTokenCookie,
		Value:    value,
		HTTPOnly: true,
		Secure:   configs.GetEnvBool("COOKIE_SECURE", true),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  expires,
	})
}

/* ==========================
   POST /api/auth/login
========================== */
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := req.Validate(ac.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}

	res, err := ac.Svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	setAccessCookie(c, res.AccessToken, res.ExpiresAt)

	return helper.JsonOK(c, "login successful", dto.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        dto.FromUserModel(&res.User),
	})
}

/* ==========================
   POST /api/auth/logout
========================== */
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c)); err != nil {
		return helper.JsonFromError(c, err)
	}
	setAccessCookie(c, "", time.Now().Add(-time.Hour))
	return helper.JsonOK(c, "logout successful", nil)
}

/* ==========================
   GET /api/auth/me
========================== */
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	u, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "current user", dto.FromUserModel(u))
}

/* ==========================
   POST /api/auth/change-password
========================== */
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(ac.Validate); err != nil {
		return helper.JsonFromError(c, err)
	}

	if err := ac.Svc.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "password changed", nil)
}
