package live

import "github.com/gin-gonic/gin"

func LiveRoutes(router *gin.RouterGroup, lc *LiveController) {
	router.GET("/matches/:id/live", lc.GetLive)
	router.GET("/ws/matches/:id", lc.Subscribe)
}
