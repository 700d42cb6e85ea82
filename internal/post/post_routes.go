package post

import (
	"github.com/gin-gonic/gin"
)

// PostRoutes mounts posts, polls, bookmarks and hashtags. limiter throttles
// writes and may be a pass-through handler.
func PostRoutes(router *gin.RouterGroup, pc *PostController, authMW, optionalMW, limiter gin.HandlerFunc) {
	router.GET("/posts", optionalMW, pc.GetFeed)
	router.GET("/posts/:id", optionalMW, pc.GetPost)
	router.GET("/hashtags/trending", pc.GetTrending)

	authed := router.Group("")
	authed.Use(authMW)
	{
		authed.POST("/posts", limiter, pc.CreatePost)
		authed.DELETE("/posts/:id", pc.DeletePost)
		authed.POST("/posts/:id/like", pc.ToggleLike)
		authed.POST("/posts/:id/bookmark", pc.ToggleBookmark)
		authed.POST("/posts/:id/repost", limiter, pc.ToggleRepost)
		authed.POST("/posts/:id/comments", limiter, pc.AddComment)
		authed.POST("/polls/options/:optionId/vote", pc.Vote)
		authed.GET("/bookmarks", pc.GetBookmarks)
	}
}
