// internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"weekreport_backend/internals/configs"
	authRepo "weekreport_backend/internals/features/users/auth/repository"
	userModel "weekreport_backend/internals/features/users/user/model"
	helper "weekreport_backend/internals/helpers"
)

var (
	ErrInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	ErrAccountDisabled    = fiber.NewError(fiber.StatusForbidden, "account is disabled")
	ErrWrongPassword      = fiber.NewError(fiber.StatusBadRequest, "current password is incorrect")
)

type AuthService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB) *AuthService {
	ttl := configs.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{DB: db, Secret: configs.JWTSecret, TTL: ttl, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        userModel.UserModel
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tok, exp, err := IssueAccessToken(s.Secret, user.ID, s.now(), s.TTL)
	if err != nil {
		return nil, err
	}
	lgr.Printf("[INFO] login %s", user.Email)
	return &LoginResult{AccessToken: tok, ExpiresAt: exp, User: *user}, nil
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklists the token until its own expiry. A token that no longer parses is ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, exp, err := ParseAccessToken(s.Secret, token)
	if err != nil {
		lgr.Printf("[DEBUG] logout with unusable token: %v", err)
		return nil
	}
	return authRepo.BlacklistToken(ctx, s.DB, token, exp)
}

// Authenticate resolves a raw bearer token to an active user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	id, _, err := ParseAccessToken(s.Secret, token)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	}
	revoked, err := authRepo.IsTokenBlacklisted(ctx, s.DB, token)
	if err != nil {
		return uuid.Nil, err
	}
	if revoked {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "token has been revoked")
	}
	active, err := authRepo.IsUserActive(ctx, s.DB, id)
	if err != nil {
		return uuid.Nil, err
	}
	if !active {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user not found or disabled")
	}
	return id, nil
}

/* ==========================
   ME / CHANGE PASSWORD
========================== */

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	u, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NotFound("user")
	}
	return u, err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPasswordHash(u.Password, current); err != nil {
		return ErrWrongPassword
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := authRepo.UpdateUserPassword(ctx, s.DB, userID, hash); err != nil {
		return err
	}
	lgr.Printf("[INFO] password changed for %s", u.Email)
	return nil
}
