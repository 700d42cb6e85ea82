package auth

import (
	"github.com/DhavalSuthar-24/cricbook/internal/user"
)

type RegisterRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100" example:"Virat Kohli"`
	Username        string `json:"username" binding:"required,min=3,max=20,username" example:"virat_18"`
	Password        string `json:"password" binding:"required,min=6,max=100" example:"coverdrive"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password" example:"coverdrive"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"virat_18"`
	Password string `json:"password" binding:"required" example:"coverdrive"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token,omitempty"`
	InvalidateAllSessions bool   `json:"invalidate_all_sessions,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=100"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=NewPassword"`
}

// UserResponse is the account as returned to its owner.
type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func FilterUserRecord(u *user.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Role:       u.Role,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}
