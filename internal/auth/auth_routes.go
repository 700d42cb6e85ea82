package auth

import (
	"github.com/DhavalSuthar-24/cricbook/config"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAuthRoutes mounts /auth. limiter guards the credential endpoints.
func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, users user.UserRepository, authMW, limiter gin.HandlerFunc) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, users, appConfig)

	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", limiter, authController.Register)
		authPublic.POST("/login", limiter, authController.Login)
		authPublic.POST("/admin/login", limiter, authController.AdminLogin)
		authPublic.POST("/refresh-token", limiter, authController.RefreshToken)
		authPublic.GET("/username-available", authController.UsernameAvailable)
	}

	authProtected := router.Group("/auth")
	authProtected.Use(authMW)
	{
		authProtected.GET("/me", authController.Me)
		authProtected.POST("/change-password", authController.ChangePassword)
		authProtected.POST("/logout", authController.Logout)
	}
}
