package notification

import (
	"net/http"

	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	repo NotificationRepository
}

func NewNotificationController(repo NotificationRepository) *NotificationController {
	return &NotificationController{repo: repo}
}

// MarkReadRequest marks the given ids, or everything when All is set.
type MarkReadRequest struct {
	IDs []uint `json:"ids" binding:"omitempty,max=100"`
	All bool   `json:"all"`
}

// @Summary      List notifications
// @Description  Notifications for the caller, newest first, with the sender attached.
// @Tags         Notifications
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int false "Page number" default(1)
// @Param        limit  query int false "Page size" default(20)
// @Success      200 {object} responses.PaginatedResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /notifications [get]
func (nc *NotificationController) List(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := responses.PageParams(c)

	items, total, err := nc.repo.List(c.Request.Context(), p.UserID, page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch notifications")
		return
	}
	responses.SendPaginated(c, "Notifications retrieved successfully", items, total, page, pageSize)
}

// @Summary      Unread notification count
// @Tags         Notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} responses.SuccessResponse
// @Router       /notifications/unread-count [get]
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	count, err := nc.repo.UnreadCount(c.Request.Context(), p.UserID)
	if err != nil {
		responses.InternalServerError(c, "Failed to count notifications")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"unread_count": count})
}

// @Summary      Mark notifications as read
// @Tags         Notifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body MarkReadRequest true "Ids to mark, or all"
// @Success      200 {object} responses.SuccessResponse
// @Failure      400 {object} responses.ErrorResponse
// @Router       /notifications/read [post]
func (nc *NotificationController) MarkRead(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	if !req.All && len(req.IDs) == 0 {
		responses.BadRequest(c, "Provide notification ids or set all to true")
		return
	}

	var updated int64
	var err error
	if req.All {
		updated, err = nc.repo.MarkAllRead(c.Request.Context(), p.UserID)
	} else {
		updated, err = nc.repo.MarkRead(c.Request.Context(), p.UserID, req.IDs)
	}
	if err != nil {
		responses.InternalServerError(c, "Failed to mark notifications as read")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": updated})
}
