package search

import "github.com/gin-gonic/gin"

func SearchRoutes(router *gin.RouterGroup, sc *SearchController) {
	router.GET("/search", sc.Search)
}
