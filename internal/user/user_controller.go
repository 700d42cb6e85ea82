package user

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxSearchResults = 50

// PostCounter reports how many posts a user has authored.
type PostCounter interface {
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type UserController struct {
	repo     UserRepository
	posts    PostCounter
	notifier notification.Notifier
}

func NewUserController(repo UserRepository, posts PostCounter, notifier notification.Notifier) *UserController {
	return &UserController{repo: repo, posts: posts, notifier: notifier}
}

// UpdateProfileRequest only changes fields that are present.
type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=100"`
	Bio            *string `json:"bio" binding:"omitempty,max=160"`
	Location       *string `json:"location" binding:"omitempty,max=100"`
	Website        *string `json:"website" binding:"omitempty,url"`
	Avatar         *string `json:"avatar" binding:"omitempty,url"`
	CoverImage     *string `json:"cover_image" binding:"omitempty,url"`
	FavoriteTeam   *string `json:"favorite_team" binding:"omitempty,max=100"`
	FavoritePlayer *string `json:"favorite_player" binding:"omitempty,max=100"`
}

// BuildProfile fills counts and the viewer's follow state.
func (uc *UserController) BuildProfile(ctx context.Context, u *User, viewer *common.Principal) (Profile, error) {
	p := NewProfile(u)

	followers, following, err := uc.repo.FollowCounts(ctx, u.ID)
	if err != nil {
		return p, err
	}
	p.FollowerCount, p.FollowingCount = followers, following

	if uc.posts != nil {
		if p.PostCount, err = uc.posts.CountByAuthor(ctx, u.ID); err != nil {
			return p, err
		}
	}
	if viewer != nil && viewer.UserID != u.ID {
		if p.IsFollowing, err = uc.repo.IsFollowing(ctx, viewer.UserID, u.ID); err != nil {
			return p, err
		}
	}
	return p, nil
}

// @Summary      Get a user profile
// @Description  Public profile with follower, following and post counts. is_following is set for authenticated callers.
// @Tags         Users
// @Produce      json
// @Param        username path string true "Username"
// @Success      200 {object} Profile
// @Failure      404 {object} responses.ErrorResponse
// @Router       /users/{username} [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := uc.repo.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}

	profile, err := uc.BuildProfile(ctx, u, common.OptionalPrincipal(c))
	if err != nil {
		responses.InternalServerError(c, "Failed to build profile")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User retrieved successfully", profile)
}

// @Summary      Update own profile
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} Profile
// @Failure      400 {object} responses.ErrorResponse
// @Router       /users/me [put]
func (uc *UserController) UpdateMe(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	u, err := uc.repo.GetByID(ctx, p.UserID)
	if err != nil || u == nil {
		responses.NotFound(c, "User")
		return
	}
	applyProfileUpdate(u, req)
	if err := uc.repo.Update(ctx, u); err != nil {
		responses.InternalServerError(c, "Failed to update profile")
		return
	}

	profile, err := uc.BuildProfile(ctx, u, &p)
	if err != nil {
		responses.InternalServerError(c, "Failed to build profile")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated successfully", profile)
}

func applyProfileUpdate(u *User, req UpdateProfileRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, req.Name)
	set(&u.Bio, req.Bio)
	set(&u.Location, req.Location)
	set(&u.Website, req.Website)
	set(&u.Avatar, req.Avatar)
	set(&u.CoverImage, req.CoverImage)
	set(&u.FavoriteTeam, req.FavoriteTeam)
	set(&u.FavoritePlayer, req.FavoritePlayer)
}

// @Summary      Follow or unfollow a user
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Param        username path string true "Username to follow"
// @Success      200 {object} responses.SuccessResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /users/{username}/follow [post]
func (uc *UserController) ToggleFollow(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	target, err := uc.repo.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if target == nil {
		responses.NotFound(c, "User")
		return
	}
	targetID := target.ID
	if targetID == p.UserID {
		responses.BadRequest(c, "Cannot follow yourself")
		return
	}

	following, err := uc.repo.ToggleFollow(ctx, p.UserID, targetID)
	if err != nil {
		log.Error().Err(err).Uint("follower_id", p.UserID).Uint("following_id", targetID).Msg("toggle follow failed")
		responses.InternalServerError(c, "Failed to update follow")
		return
	}
	if following {
		sender := p.UserID
		notification.NotifyAll(ctx, uc.notifier, notification.Event{
			Type:        notification.TypeFollow,
			RecipientID: targetID,
			SenderID:    &sender,
			Message:     fmt.Sprintf("@%s started following you", p.Username),
		})
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"following": following})
}

// @Summary      List followers
// @Tags         Users
// @Produce      json
// @Param        username path string true "Username"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} responses.PaginatedResponse
// @Router       /users/{username}/followers [get]
func (uc *UserController) Followers(c *gin.Context) {
	uc.followList(c, uc.repo.Followers)
}

// @Summary      List followed users
// @Tags         Users
// @Produce      json
// @Param        username path string true "Username"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} responses.PaginatedResponse
// @Router       /users/{username}/following [get]
func (uc *UserController) Following(c *gin.Context) {
	uc.followList(c, uc.repo.Following)
}

func (uc *UserController) followList(c *gin.Context, fetch func(context.Context, uint, int, int) ([]models.Actor, int64, error)) {
	ctx := c.Request.Context()
	u, err := uc.repo.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	page, pageSize := responses.PageParams(c)
	items, total, err := fetch(ctx, u.ID, page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch users")
		return
	}
	responses.SendPaginated(c, "", items, total, page, pageSize)
}

// @Summary      Search users
// @Tags         Users
// @Produce      json
// @Param        q query string true "Username or name fragment"
// @Param        limit query int false "Max results" default(20)
// @Success      200 {object} responses.SuccessResponse
// @Failure      400 {object} responses.ErrorResponse
// @Router       /users [get]
func (uc *UserController) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		responses.BadRequest(c, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = responses.DefaultPageSize
	}
	if limit > maxSearchResults {
		limit = maxSearchResults
	}
	users, err := uc.repo.Search(c.Request.Context(), q, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to search users")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", users)
}
