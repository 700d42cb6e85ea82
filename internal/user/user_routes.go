package user

import (
	"github.com/gin-gonic/gin"
)

// UserRoutes mounts profile, follow and user search endpoints. optionalMW
// resolves the principal when present, authMW requires it.
func UserRoutes(router *gin.RouterGroup, uc *UserController, authMW, optionalMW gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("", uc.Search)
		users.GET("/:username", optionalMW, uc.GetProfile)
		users.GET("/:username/followers", uc.Followers)
		users.GET("/:username/following", uc.Following)
	}

	authed := router.Group("/users")
	authed.Use(authMW)
	{
		authed.PUT("/me", uc.UpdateMe)
		authed.POST("/:username/follow", uc.ToggleFollow)
	}
}
