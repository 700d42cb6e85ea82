package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/cricbook/config"
	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"github.com/DhavalSuthar-24/cricbook/pkg/dberr"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/DhavalSuthar-24/cricbook/pkg/token"
	"github.com/DhavalSuthar-24/cricbook/pkg/utils"
	"github.com/DhavalSuthar-24/cricbook/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const refreshTokenLength = 64

type AuthController struct {
	repo   AuthRepository
	users  user.UserRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, users user.UserRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, users: users, config: cfg}
}

func (ac *AuthController) generateAndSaveTokens(ctx context.Context, u *user.User) (string, string, error) {
	accessToken, err := token.GenerateJWT(u.ID, u.Username, u.Role, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString := utils.GenerateRandomToken(refreshTokenLength)
	if refreshTokenString == "" {
		return "", "", errors.New("refresh token generation failed")
	}
	refreshToken := &user.RefreshToken{
		UserID:    u.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}
	if err := ac.repo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

// @Summary      Register user
// @Description  Create a regular user account and return tokens.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	taken, err := ac.users.UsernameTaken(ctx, req.Username)
	if err != nil {
		responses.InternalServerError(c, "Failed to check username")
		return
	}
	if taken {
		responses.SendError(c, http.StatusConflict, "Username is already taken")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	newUser := &user.User{
		Name:     strings.TrimSpace(req.Name),
		Username: req.Username,
		Password: hashedPassword,
		Role:     common.RoleUser,
	}
	if err := ac.users.Create(ctx, newUser); err != nil {
		if dberr.IsUniqueViolation(err) {
			responses.SendError(c, http.StatusConflict, "Username is already taken")
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("create user failed")
		responses.InternalServerError(c, "User creation failed")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(ctx, newUser)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(newUser),
	})
}

// @Summary      Check username availability
// @Tags         Auth
// @Produce      json
// @Param        username query string true "Username"
// @Success      200 {object} responses.SuccessResponse
// @Router       /auth/username-available [get]
func (ac *AuthController) UsernameAvailable(c *gin.Context) {
	username := c.Query("username")
	if len(username) < 3 || len(username) > 20 || !validator.IsUsername(username) {
		responses.SendSuccess(c, http.StatusOK, "", gin.H{"available": false, "reason": "invalid"})
		return
	}
	taken, err := ac.users.UsernameTaken(c.Request.Context(), username)
	if err != nil {
		responses.InternalServerError(c, "Failed to check username")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"available": !taken})
}

// @Summary      Login user
// @Description  Authenticate a regular user. Admin accounts must use the admin login.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	ac.login(c, false)
}

// @Summary      Login admin
// @Description  Authenticate an admin account.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200 {object} AuthResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Router       /auth/admin/login [post]
func (ac *AuthController) AdminLogin(c *gin.Context) {
	ac.login(c, true)
}

func (ac *AuthController) login(c *gin.Context, admin bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	foundUser, err := ac.users.GetByUsername(ctx, req.Username)
	if err != nil {
		responses.InternalServerError(c, "Database error")
		return
	}
	if foundUser == nil || !utils.CheckPassword(foundUser.Password, req.Password) {
		responses.Unauthorized(c, "Invalid username or password")
		return
	}

	isAdmin := foundUser.Role == common.RoleAdmin
	if isAdmin && !admin {
		responses.Forbidden(c, "Please use the admin login page")
		return
	}
	if !isAdmin && admin {
		responses.Forbidden(c, "Admin access required")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(ctx, foundUser)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(foundUser),
	})
}

// @Summary      Refresh Access Token
// @Description  Issues a new access token for a valid, unrevoked refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh Token Request"
// @Success      200 {object} map[string]string
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	rt, err := ac.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil || rt == nil {
		responses.Unauthorized(c, "Invalid or expired refresh token")
		return
	}
	u, err := ac.users.GetByID(ctx, rt.UserID)
	if err != nil || u == nil {
		responses.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	newAccessToken, err := token.GenerateJWT(u.ID, u.Username, u.Role, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "New access token generation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": newAccessToken})
}

// @Summary      Current account
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} UserResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	u, err := ac.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", FilterUserRecord(u))
}

// @Summary      Change password
// @Tags         Auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} responses.SuccessResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/change-password [post]
func (ac *AuthController) ChangePassword(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	u, err := ac.users.GetByID(ctx, p.UserID)
	if err != nil || u == nil {
		responses.NotFound(c, "User")
		return
	}
	if !utils.CheckPassword(u.Password, req.OldPassword) {
		responses.Unauthorized(c, "Old password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}
	u.Password = hashed
	if err := ac.users.Update(ctx, u); err != nil {
		responses.InternalServerError(c, "Failed to update password")
		return
	}
	if err := ac.repo.InvalidateAllRefreshTokensForUser(ctx, u.ID); err != nil {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("failed to revoke sessions after password change")
	}
	responses.SendSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

// @Summary      Logout User
// @Description  Revokes the given refresh token, or every session of the caller.
// @Tags         Auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Logout options"
// @Success      200 {object} responses.SuccessResponse
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.ValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.RefreshToken != "" {
		if err := ac.repo.InvalidateRefreshToken(ctx, p.UserID, req.RefreshToken); err != nil {
			responses.InternalServerError(c, "Failed to invalidate refresh token")
			return
		}
	}
	if req.InvalidateAllSessions {
		if err := ac.repo.InvalidateAllRefreshTokensForUser(ctx, p.UserID); err != nil {
			responses.InternalServerError(c, "Failed to invalidate all sessions")
			return
		}
	}
	responses.SendSuccess(c, http.StatusOK, "Logged out successfully", gin.H{"all_sessions_invalidated": req.InvalidateAllSessions})
}
