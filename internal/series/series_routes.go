package series

import (
	"github.com/DhavalSuthar-24/cricbook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
)

func SeriesRoutes(router *gin.RouterGroup, sc *SeriesController, authMW gin.HandlerFunc) {
	router.GET("/series", sc.List)
	router.GET("/series/:id", sc.Get)
	router.POST("/series", authMW, rmiddleware.AdminMiddleware(), sc.Create)
}
