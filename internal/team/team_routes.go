package team

import (
	"github.com/DhavalSuthar-24/cricbook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
)

// TeamRoutes sets up team and player routes. Writes are admin only.
func TeamRoutes(router *gin.RouterGroup, tc *TeamController, authMW gin.HandlerFunc) {
	router.GET("/teams", tc.GetAllTeams)
	router.GET("/teams/:id", tc.GetTeamByID)
	router.GET("/teams/:id/players", tc.GetTeamPlayers)

	adminRoutes := router.Group("")
	adminRoutes.Use(authMW, rmiddleware.AdminMiddleware())
	{
		adminRoutes.POST("/teams", tc.CreateTeam)
		adminRoutes.POST("/players", tc.CreatePlayer)
	}
}
