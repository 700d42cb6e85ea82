package commentary

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CommentaryController struct {
	repo    CommentaryRepository
	matches match.MatchRepository
	keeper  *match.ScoreKeeper
}

func NewCommentaryController(repo CommentaryRepository, matches match.MatchRepository, keeper *match.ScoreKeeper) *CommentaryController {
	return &CommentaryController{repo: repo, matches: matches, keeper: keeper}
}

// @Summary      List ball-by-ball commentary
// @Description  Deliveries newest first with reaction counts, comments and the caller's reactions.
// @Tags         Commentary
// @Produce      json
// @Param        id path int true "Match ID"
// @Param        innings query int false "Innings number"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(20)
// @Success      200 {object} responses.PaginatedResponse{data=[]CommentaryView}
// @Failure      404 {object} responses.ErrorResponse
// @Router       /matches/{id}/commentary [get]
func (cc *CommentaryController) List(c *gin.Context) {
	matchID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	m, err := cc.matches.GetMatchByID(ctx, matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	var innings *int
	if raw := c.Query("innings"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 4 {
			responses.BadRequest(c, "innings must be between 1 and 4")
			return
		}
		innings = &n
	}

	page, pageSize := responses.PageParams(c)
	items, total, err := cc.matches.ListCommentary(ctx, matchID, innings, page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch commentary")
		return
	}
	views, err := cc.buildViews(ctx, items, common.OptionalPrincipal(c).Viewer())
	if err != nil {
		log.Error().Err(err).Uint("match_id", matchID).Msg("commentary enrichment failed")
		responses.InternalServerError(c, "Failed to fetch commentary")
		return
	}
	responses.SendPaginated(c, "", views, total, page, pageSize)
}

func (cc *CommentaryController) buildViews(ctx context.Context, items []match.Commentary, viewer uint) ([]CommentaryView, error) {
	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	counts, err := cc.repo.CommentaryReactionCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	mine, err := cc.repo.CommentaryReactionsBy(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	comments, err := cc.repo.CommentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	var commentIDs []uint
	for _, list := range comments {
		for _, cm := range list {
			commentIDs = append(commentIDs, cm.ID)
		}
	}
	commentCounts, err := cc.repo.CommentReactionCounts(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	myCommentReactions, err := cc.repo.CommentReactionsBy(ctx, viewer, commentIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CommentaryView, 0, len(items))
	for _, item := range items {
		v := CommentaryView{
			Commentary:     item,
			ReactionCounts: nonNilCounts(counts[item.ID]),
			MyReactions:    nonNil(mine[item.ID]),
			Comments:       []CommentView{},
		}
		for _, cm := range comments[item.ID] {
			v.Comments = append(v.Comments, CommentView{
				CommentaryComment: cm,
				ReactionCounts:    nonNilCounts(commentCounts[cm.ID]),
				MyReactions:       nonNil(myCommentReactions[cm.ID]),
			})
		}
		v.CommentCount = len(v.Comments)
		views = append(views, v)
	}
	return views, nil
}

func nonNilCounts(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// @Summary      Add a delivery
// @Description  Appends to the ball log and re-derives the match score in the same transaction.
// @Tags         Commentary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Match ID"
// @Param        ball body match.CommentaryInput true "Delivery"
// @Success      201 {object} responses.SuccessResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /matches/{id}/commentary [post]
func (cc *CommentaryController) Add(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	matchID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var in match.CommentaryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.ValidationError(c, err)
		return
	}

	entry, m, err := cc.keeper.AddBall(c.Request.Context(), matchID, p.UserID, in)
	if err != nil {
		match.WriteKeeperError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Commentary added", gin.H{"commentary": entry, "match": m})
}

// @Summary      Edit a delivery
// @Tags         Commentary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Match ID"
// @Param        commentaryId path int true "Commentary ID"
// @Param        ball body match.CommentaryInput true "Delivery"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /matches/{id}/commentary/{commentaryId} [put]
func (cc *CommentaryController) Update(c *gin.Context) {
	matchID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	commentaryID, ok := responses.ParamID(c, "commentaryId")
	if !ok {
		return
	}
	var in match.CommentaryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.ValidationError(c, err)
		return
	}

	entry, m, err := cc.keeper.UpdateBall(c.Request.Context(), matchID, commentaryID, in)
	if err != nil {
		match.WriteKeeperError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Commentary updated", gin.H{"commentary": entry, "match": m})
}

// @Summary      Delete a delivery
// @Tags         Commentary
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Match ID"
// @Param        commentaryId path int true "Commentary ID"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /matches/{id}/commentary/{commentaryId} [delete]
func (cc *CommentaryController) Delete(c *gin.Context) {
	matchID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	commentaryID, ok := responses.ParamID(c, "commentaryId")
	if !ok {
		return
	}

	m, err := cc.keeper.DeleteBall(c.Request.Context(), matchID, commentaryID)
	if err != nil {
		match.WriteKeeperError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Commentary deleted", gin.H{"match": m})
}

// @Summary      Toggle a reaction on a delivery
// @Tags         Commentary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Commentary ID"
// @Param        reaction body ReactionRequest true "Reaction"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /commentary/{id}/reactions [post]
func (cc *CommentaryController) React(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	entry, err := cc.matches.GetCommentary(ctx, id)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch commentary")
		return
	}
	if entry == nil {
		responses.NotFound(c, "Commentary")
		return
	}

	added, err := cc.repo.ToggleCommentaryReaction(ctx, p.UserID, id, req.Type)
	if err != nil {
		responses.InternalServerError(c, "Failed to update reaction")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"reacted": added, "type": req.Type})
}

// @Summary      Comment on a delivery
// @Tags         Commentary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Commentary ID"
// @Param        comment body CommentRequest true "Comment"
// @Success      201 {object} responses.SuccessResponse{data=CommentaryComment}
// @Failure      404 {object} responses.ErrorResponse
// @Router       /commentary/{id}/comments [post]
func (cc *CommentaryController) Comment(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	entry, err := cc.matches.GetCommentary(ctx, id)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch commentary")
		return
	}
	if entry == nil {
		responses.NotFound(c, "Commentary")
		return
	}

	comment := &CommentaryComment{CommentaryID: id, UserID: p.UserID, Content: req.Content}
	if err := cc.repo.CreateComment(ctx, comment); err != nil {
		responses.InternalServerError(c, "Failed to add comment")
		return
	}
	if stored, err := cc.repo.GetComment(ctx, comment.ID); err == nil && stored != nil {
		comment = stored
	}
	responses.SendSuccess(c, http.StatusCreated, "Comment added", comment)
}

// @Summary      Toggle a reaction on a commentary comment
// @Tags         Commentary
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Comment ID"
// @Param        reaction body ReactionRequest true "Reaction"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /commentary-comments/{id}/reactions [post]
func (cc *CommentaryController) ReactToComment(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	comment, err := cc.repo.GetComment(ctx, id)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch comment")
		return
	}
	if comment == nil {
		responses.NotFound(c, "Comment")
		return
	}

	added, err := cc.repo.ToggleCommentReaction(ctx, p.UserID, id, req.Type)
	if err != nil {
		responses.InternalServerError(c, "Failed to update reaction")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", gin.H{"reacted": added, "type": req.Type})
}
