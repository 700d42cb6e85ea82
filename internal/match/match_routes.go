package match

import (
	"github.com/DhavalSuthar-24/cricbook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
)

// MatchRoutes sets up match and summary routes. Writes are admin only.
func MatchRoutes(router *gin.RouterGroup, mc *MatchController, authMW gin.HandlerFunc) {
	matches := router.Group("/matches")
	{
		matches.GET("", mc.GetMatches)
		matches.GET("/:id", mc.GetMatchByID)
		matches.GET("/:id/summary", mc.GetSummary)
	}

	adminRoutes := router.Group("/matches")
	adminRoutes.Use(authMW, rmiddleware.AdminMiddleware())
	{
		adminRoutes.POST("", mc.CreateMatch)
		adminRoutes.PUT("/:id", mc.UpdateMatch)
		adminRoutes.PUT("/:id/summary", mc.UpsertSummary)
	}
}
