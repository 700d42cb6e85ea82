package post

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/DhavalSuthar-24/cricbook/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MentionResolver looks up the users named by @mentions.
type MentionResolver interface {
	FindByUsernames(ctx context.Context, usernames []string) ([]models.Actor, error)
}

type PostController struct {
	repo     PostRepository
	matches  match.MatchRepository
	mentions MentionResolver
	notifier notification.Notifier
	trending *Trending
}

func NewPostController(repo PostRepository, matches match.MatchRepository, mentions MentionResolver, notifier notification.Notifier, trending *Trending) *PostController {
	return &PostController{repo: repo, matches: matches, mentions: mentions, notifier: notifier, trending: trending}
}

func (pc *PostController) buildViews(ctx context.Context, posts []Post, viewer uint) ([]PostView, error) {
	ids := make([]uint, len(posts))
	var pollIDs []uint
	for i := range posts {
		ids[i] = posts[i].ID
		if posts[i].Poll != nil {
			pollIDs = append(pollIDs, posts[i].Poll.ID)
		}
	}

	stats, err := pc.repo.Stats(ctx, ids, viewer)
	if err != nil {
		return nil, err
	}
	votes, err := pc.repo.VoteCounts(ctx, pollIDs)
	if err != nil {
		return nil, err
	}
	mine, err := pc.repo.VotesBy(ctx, viewer, pollIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{Post: p, Stats: stats[p.ID]}
		if v.Hashtags == nil {
			v.Hashtags = []Hashtag{}
		}
		if p.Poll != nil {
			for i := range v.Poll.Options {
				v.Poll.Options[i].VoteCount = votes[v.Poll.Options[i].ID]
			}
			if opt, ok := mine[p.Poll.ID]; ok {
				v.MyVote = &opt
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (pc *PostController) loadPost(c *gin.Context) *Post {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return nil
	}
	p, err := pc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve post")
		return nil
	}
	if p == nil {
		responses.NotFound(c, "Post")
		return nil
	}
	return p
}

func (pc *PostController) notify(ctx context.Context, typ notification.Type, recipient, sender, postID uint, message string) {
	notification.NotifyAll(ctx, pc.notifier, notification.Event{
		Type:        typ,
		RecipientID: recipient,
		SenderID:    &sender,
		PostID:      &postID,
		Message:     message,
	})
}

// GetFeed godoc
// @Summary List posts
// @Description Newest first, optionally filtered by author, match or hashtag. Viewer flags are set for authenticated callers.
// @Tags Posts
// @Produce json
// @Param author_id query int false "Author ID"
// @Param match_id query int false "Match ID"
// @Param hashtag query string false "Hashtag without #"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]PostView}
// @Router /posts [get]
func (pc *PostController) GetFeed(c *gin.Context) {
	page, pageSize := responses.PageParams(c)
	filter := FeedFilter{
		AuthorID: responses.QueryID(c, "author_id"),
		MatchID:  responses.QueryID(c, "match_id"),
		Hashtag:  c.Query("hashtag"),
	}
	ctx := c.Request.Context()

	posts, total, err := pc.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list posts")
		responses.InternalServerError(c, "Failed to fetch posts")
		return
	}
	views, err := pc.buildViews(ctx, posts, common.OptionalPrincipal(c).Viewer())
	if err != nil {
		log.Error().Err(err).Msg("failed to build post views")
		responses.InternalServerError(c, "Failed to fetch posts")
		return
	}
	responses.SendPaginated(c, "", views, total, page, pageSize)
}

// GetPost godoc
// @Summary Get a post with its comments
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse{data=PostView}
// @Failure 404 {object} responses.ErrorResponse
// @Router /posts/{id} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	p := pc.loadPost(c)
	if p == nil {
		return
	}
	ctx := c.Request.Context()

	views, err := pc.buildViews(ctx, []Post{*p}, common.OptionalPrincipal(c).Viewer())
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve post")
		return
	}
	view := views[0]
	if view.Comments, err = pc.repo.ListComments(ctx, p.ID); err != nil {
		responses.InternalServerError(c, "Failed to retrieve comments")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", view)
}

// CreatePost godoc
// @Summary Create a post
// @Description Hashtags are extracted from the content. Mentioned users are notified. An optional poll has 2 to 4 options.
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post"
// @Success 201 {object} responses.SuccessResponse{data=PostView}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Security BearerAuth
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	if req.MatchID != nil {
		m, err := pc.matches.GetMatchByID(ctx, *req.MatchID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify match")
			return
		}
		if m == nil {
			responses.NotFound(c, "Match")
			return
		}
	}

	p := &Post{Content: req.Content, Images: req.Images, AuthorID: principal.UserID, MatchID: req.MatchID}
	if err := pc.repo.Create(ctx, p, utils.ExtractHashtags(req.Content), req.Poll); err != nil {
		log.Error().Err(err).Uint("author_id", principal.UserID).Msg("failed to create post")
		responses.InternalServerError(c, "Failed to create post")
		return
	}

	if names := utils.ExtractMentions(req.Content); len(names) > 0 {
		mentioned, err := pc.mentions.FindByUsernames(ctx, names)
		if err != nil {
			log.Warn().Err(err).Uint("post_id", p.ID).Msg("could not resolve mentions")
		}
		for _, u := range mentioned {
			pc.notify(ctx, notification.TypeMention, u.ID, principal.UserID, p.ID, "@"+principal.Username+" mentioned you in a post")
		}
	}

	stored, err := pc.repo.GetByID(ctx, p.ID)
	if err != nil || stored == nil {
		stored = p
	}
	views, err := pc.buildViews(ctx, []Post{*stored}, principal.UserID)
	if err != nil {
		responses.SendSuccess(c, http.StatusCreated, "Post created", stored)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Post created", views[0])
}

// DeletePost godoc
// @Summary Delete a post
// @Description Only the author may delete a post. Reposts of it are removed too.
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	p := pc.loadPost(c)
	if p == nil {
		return
	}
	if p.AuthorID != principal.UserID {
		responses.Forbidden(c, "You can only delete your own posts")
		return
	}
	if err := pc.repo.Delete(c.Request.Context(), p.ID); err != nil {
		responses.InternalServerError(c, "Failed to delete post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Post deleted", nil)
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (pc *PostController) ToggleLike(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	p := pc.loadPost(c)
	if p == nil {
		return
	}
	ctx := c.Request.Context()

	liked, err := pc.repo.ToggleLike(ctx, principal.UserID, p.ID)
	if err != nil {
		responses.InternalServerError(c, "Failed to like post")
		return
	}
	if liked {
		pc.notify(ctx, notification.TypeLike, p.AuthorID, principal.UserID, p.ID, "@"+principal.Username+" liked your post")
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"liked": liked})
}

// ToggleBookmark godoc
// @Summary Bookmark or un-bookmark a post
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/bookmark [post]
func (pc *PostController) ToggleBookmark(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	p := pc.loadPost(c)
	if p == nil {
		return
	}

	bookmarked, err := pc.repo.ToggleBookmark(c.Request.Context(), principal.UserID, p.ID)
	if err != nil {
		responses.InternalServerError(c, "Failed to bookmark post")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"bookmarked": bookmarked})
}

// ToggleRepost godoc
// @Summary Repost or undo a repost
// @Description Reposting a repost targets the original post.
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/repost [post]
func (pc *PostController) ToggleRepost(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	p := pc.loadPost(c)
	if p == nil {
		return
	}
	ctx := c.Request.Context()

	if p.IsRepost && p.OriginalPost != nil {
		p = p.OriginalPost
	}
	repost, reposted, err := pc.repo.ToggleRepost(ctx, principal.UserID, p)
	if err != nil {
		responses.InternalServerError(c, "Failed to repost")
		return
	}
	if reposted {
		pc.notify(ctx, notification.TypeRepost, p.AuthorID, principal.UserID, p.ID, "@"+principal.Username+" reposted your post")
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"reposted": reposted, "post": repost})
}

// AddComment godoc
// @Summary Comment on a post
// @Description parent_id makes the comment a reply and must belong to the same post.
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param comment body CreateCommentRequest true "Comment"
// @Success 201 {object} responses.SuccessResponse{data=Comment}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (pc *PostController) AddComment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	p := pc.loadPost(c)
	if p == nil {
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	if req.ParentID != nil {
		parent, err := pc.repo.GetComment(ctx, *req.ParentID)
		if err != nil {
			responses.InternalServerError(c, "Failed to create comment")
			return
		}
		if parent == nil || parent.PostID != p.ID {
			responses.BadRequest(c, "Parent comment does not belong to this post")
			return
		}
	}

	comment := &Comment{Content: req.Content, PostID: p.ID, AuthorID: principal.UserID, ParentID: req.ParentID}
	if err := pc.repo.CreateComment(ctx, comment); err != nil {
		responses.InternalServerError(c, "Failed to create comment")
		return
	}
	pc.notify(ctx, notification.TypeComment, p.AuthorID, principal.UserID, p.ID, "@"+principal.Username+" commented on your post")

	if stored, err := pc.repo.GetComment(ctx, comment.ID); err == nil && stored != nil {
		comment = stored
	}
	responses.SendSuccess(c, http.StatusCreated, "Comment added", comment)
}

// Vote godoc
// @Summary Vote in a poll
// @Tags Posts
// @Param optionId path int true "Poll option ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Already voted"
// @Failure 410 {object} responses.ErrorResponse "Poll expired"
// @Security BearerAuth
// @Router /polls/options/{optionId}/vote [post]
func (pc *PostController) Vote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	optionID, ok := responses.ParamID(c, "optionId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	option, err := pc.repo.GetOption(ctx, optionID)
	if err != nil {
		responses.InternalServerError(c, "Failed to vote")
		return
	}
	if option == nil || option.Poll == nil {
		responses.NotFound(c, "Poll option")
		return
	}
	if option.Poll.Expired(time.Now()) {
		responses.SendError(c, http.StatusGone, "Poll has expired")
		return
	}

	if err := pc.repo.Vote(ctx, principal.UserID, option); err != nil {
		if errors.Is(err, ErrAlreadyVoted) {
			responses.SendError(c, http.StatusConflict, "You have already voted on this poll")
			return
		}
		responses.InternalServerError(c, "Failed to vote")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Vote recorded", gin.H{"poll_id": option.PollID, "option_id": option.ID})
}

// GetBookmarks godoc
// @Summary The caller's bookmarked posts
// @Tags Posts
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]PostView}
// @Security BearerAuth
// @Router /bookmarks [get]
func (pc *PostController) GetBookmarks(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := responses.PageParams(c)
	ctx := c.Request.Context()

	posts, total, err := pc.repo.ListBookmarked(ctx, principal.UserID, page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch bookmarks")
		return
	}
	views, err := pc.buildViews(ctx, posts, principal.UserID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch bookmarks")
		return
	}
	responses.SendPaginated(c, "", views, total, page, pageSize)
}

// GetTrending godoc
// @Summary Trending hashtags
// @Description Ranked by posts in the last seven days.
// @Tags Posts
// @Produce json
// @Param limit query int false "Maximum hashtags" default(10)
// @Success 200 {object} responses.SuccessResponse{data=[]TrendingHashtag}
// @Router /hashtags/trending [get]
func (pc *PostController) GetTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	tags, err := pc.trending.Top(c.Request.Context(), limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch trending hashtags")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", tags)
}
