package commentary

import (
	"github.com/DhavalSuthar-24/cricbook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
)

func CommentaryRoutes(router *gin.RouterGroup, cc *CommentaryController, authMW, optionalMW gin.HandlerFunc) {
	router.GET("/matches/:id/commentary", optionalMW, cc.List)

	admin := router.Group("/matches/:id/commentary")
	admin.Use(authMW, rmiddleware.AdminMiddleware())
	{
		admin.POST("", cc.Add)
		admin.PUT("/:commentaryId", cc.Update)
		admin.DELETE("/:commentaryId", cc.Delete)
	}

	authed := router.Group("")
	authed.Use(authMW)
	{
		authed.POST("/commentary/:id/reactions", cc.React)
		authed.POST("/commentary/:id/comments", cc.Comment)
		authed.POST("/commentary-comments/:id/reactions", cc.ReactToComment)
	}
}
