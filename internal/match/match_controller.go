package match

import (
	"errors"
	"net/http"

	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MatchController handles HTTP requests for matches and summaries.
type MatchController struct {
	repo       MatchRepository
	keeper     *ScoreKeeper
	teamRepo   team.TeamRepository
	seriesRepo series.SeriesRepository
}

func NewMatchController(repo MatchRepository, keeper *ScoreKeeper, teamRepo team.TeamRepository, seriesRepo series.SeriesRepository) *MatchController {
	return &MatchController{repo: repo, keeper: keeper, teamRepo: teamRepo, seriesRepo: seriesRepo}
}

// CreateMatch godoc
// @Summary Create a match
// @Description Schedules a fixture between two existing teams. New matches start as upcoming.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Match"
// @Success 201 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse "Team or series not found"
// @Security BearerAuth
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	for _, id := range []uint{req.HomeTeamID, req.AwayTeamID} {
		t, err := mc.teamRepo.GetTeamByID(ctx, id)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify teams")
			return
		}
		if t == nil {
			responses.NotFound(c, "Team")
			return
		}
	}
	if req.SeriesID != nil {
		s, err := mc.seriesRepo.GetByID(ctx, *req.SeriesID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify series")
			return
		}
		if s == nil {
			responses.NotFound(c, "Series")
			return
		}
	}

	m := Match{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		SeriesID:   req.SeriesID,
		MatchType:  req.MatchType,
		Format:     req.Format,
		Venue:      req.Venue,
		City:       req.City,
		Country:    req.Country,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Weather:    req.Weather,
		Pitch:      req.Pitch,
		Status:     StatusUpcoming,
	}
	if err := mc.repo.CreateMatch(ctx, &m); err != nil {
		log.Error().Err(err).Msg("create match failed")
		responses.InternalServerError(c, "Failed to create match")
		return
	}

	created, err := mc.repo.GetMatchByID(ctx, m.ID)
	if err != nil || created == nil {
		created = &m
	}
	responses.SendSuccess(c, http.StatusCreated, "Match created successfully", created)
}

// GetMatches godoc
// @Summary List matches
// @Description Newest first; upcoming matches are listed soonest first.
// @Tags Matches
// @Produce json
// @Param status query string false "upcoming, live, completed or abandoned"
// @Param format query string false "international, domestic or league"
// @Param match_type query string false "test, odi, t20 or t10"
// @Param team_id query int false "Either side"
// @Param series_id query int false "Series"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Match}
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, pageSize := responses.PageParams(c)
	filter := MatchFilter{
		Status:    c.Query("status"),
		Format:    c.Query("format"),
		MatchType: c.Query("match_type"),
		TeamID:    responses.QueryID(c, "team_id"),
		SeriesID:  responses.QueryID(c, "series_id"),
	}

	matches, total, err := mc.repo.GetMatches(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve matches")
		return
	}
	responses.SendPaginated(c, "Matches retrieved successfully", matches, total, page, pageSize)
}

// GetMatchByID godoc
// @Summary Get a match
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	m, err := mc.repo.GetMatchByID(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match retrieved successfully", m)
}

// UpdateMatch godoc
// @Summary Update a match
// @Description Changes status, venue details or toss. A toss change re-derives the score.
// @Tags Matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param match body UpdateMatchRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{id} [put]
func (mc *MatchController) UpdateMatch(c *gin.Context) {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	m, err := mc.keeper.UpdateMatch(c.Request.Context(), id, req)
	if err != nil {
		WriteKeeperError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match updated successfully", m)
}

// GetSummary godoc
// @Summary Get a match summary
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchSummary}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id}/summary [get]
func (mc *MatchController) GetSummary(c *gin.Context) {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	s, err := mc.repo.GetSummary(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve summary")
		return
	}
	if s == nil {
		responses.NotFound(c, "Summary")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", s)
}

// UpsertSummary godoc
// @Summary Write a match summary
// @Description Creates or replaces the summary of a match.
// @Tags Matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param summary body SummaryRequest true "Summary"
// @Success 200 {object} responses.SuccessResponse{data=MatchSummary}
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{id}/summary [put]
func (mc *MatchController) UpsertSummary(c *gin.Context) {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	m, err := mc.repo.GetMatchByID(ctx, id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	if err := mc.repo.UpsertSummary(ctx, &MatchSummary{MatchID: id, Title: req.Title, Content: req.Content}); err != nil {
		log.Error().Err(err).Uint("match_id", id).Msg("upsert summary failed")
		responses.InternalServerError(c, "Failed to save summary")
		return
	}
	s, err := mc.repo.GetSummary(ctx, id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve summary")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Summary saved", s)
}

// WriteKeeperError maps ScoreKeeper errors to responses.
func WriteKeeperError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		responses.NotFound(c, "Match")
	case errors.Is(err, ErrCommentaryNotFound):
		responses.NotFound(c, "Commentary")
	case errors.Is(err, ErrInvalidTossWinner):
		responses.BadRequest(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("score update failed")
		responses.InternalServerError(c, "Failed to update match")
	}
}
