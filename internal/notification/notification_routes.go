package notification

import (
	"github.com/gin-gonic/gin"
)

// NotificationRoutes mounts the caller's notification inbox. authMW must
// resolve the principal.
func NotificationRoutes(router *gin.RouterGroup, repo NotificationRepository, authMW gin.HandlerFunc) {
	nc := NewNotificationController(repo)

	inbox := router.Group("/notifications")
	inbox.Use(authMW)
	{
		inbox.GET("", nc.List)
		inbox.GET("/unread-count", nc.UnreadCount)
		inbox.POST("/read", nc.MarkRead)
	}
}
