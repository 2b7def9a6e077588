package dto

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	userModel "weekreport_backend/internals/features/users/user/model"
	helper "weekreport_backend/internals/helpers"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (r *ChangePasswordRequest) Validate(v *validator.Validate) error {
	return helper.ValidationFromValidator(v.Struct(r))
}

type UserResponse struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

func FromUserModel(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		UserName: u.UserName,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
