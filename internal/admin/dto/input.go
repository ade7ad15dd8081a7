package dto

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type CreateAdminInput struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     model.AdminRole `json:"role"`
}

// LoginInput accepts either the username or the email as identifier.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UpdateAdminInput struct {
	ID       int64            `json:"-"`
	Email    *string          `json:"email"`
	Role     *model.AdminRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
