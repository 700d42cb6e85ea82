package prediction

import (
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/middleware"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PredictionController struct {
	repo    PredictionRepository
	matches match.MatchRepository
}

func NewPredictionController(repo PredictionRepository, matches match.MatchRepository) *PredictionController {
	return &PredictionController{repo: repo, matches: matches}
}

// MatchPredictions is the public breakdown plus the caller's own pick.
type MatchPredictions struct {
	MatchID uint             `json:"match_id"`
	Total   int64            `json:"total"`
	Teams   []TeamShare      `json:"teams"`
	Mine    *MatchPrediction `json:"mine,omitempty"`
}

// loadMatch writes the 404/500 itself and returns nil when the handler should stop.
func (pc *PredictionController) loadMatch(c *gin.Context) *match.Match {
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return nil
	}
	m, err := pc.matches.GetMatchByID(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve match")
		return nil
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return nil
	}
	return m
}

// GetMatchPredictions godoc
// @Summary Winner predictions for a match
// @Tags Predictions
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchPredictions}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id}/predictions [get]
func (pc *PredictionController) GetMatchPredictions(c *gin.Context) {
	m := pc.loadMatch(c)
	if m == nil {
		return
	}
	ctx := c.Request.Context()

	shares, total, err := pc.repo.Aggregate(ctx, m.ID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch predictions")
		return
	}
	out := MatchPredictions{MatchID: m.ID, Total: total, Teams: shares}
	if out.Teams == nil {
		out.Teams = []TeamShare{}
	}
	if viewer := common.OptionalPrincipal(c).Viewer(); viewer != 0 {
		if out.Mine, err = pc.repo.GetMatchPrediction(ctx, viewer, m.ID); err != nil {
			responses.InternalServerError(c, "Failed to fetch predictions")
			return
		}
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// PredictWinner godoc
// @Summary Predict the winner of a match
// @Description Replaces any earlier pick by the same user. Closed once the match is completed or abandoned.
// @Tags Predictions
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param prediction body MatchPredictionRequest true "Prediction"
// @Success 200 {object} responses.SuccessResponse{data=MatchPrediction}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{id}/predictions [post]
func (pc *PredictionController) PredictWinner(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	m := pc.loadMatch(c)
	if m == nil {
		return
	}
	var req MatchPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	if m.Status.Finished() {
		responses.BadRequest(c, "Predictions are closed for this match")
		return
	}
	if !m.HasTeam(req.PredictedTeamID) {
		responses.BadRequest(c, "Predicted team is not playing in this match")
		return
	}

	pred := &MatchPrediction{UserID: p.UserID, MatchID: m.ID, PredictedTeamID: req.PredictedTeamID, Confidence: req.Confidence}
	if err := pc.repo.UpsertMatchPrediction(c.Request.Context(), pred); err != nil {
		log.Error().Err(err).Uint("match_id", m.ID).Msg("failed to save match prediction")
		responses.InternalServerError(c, "Failed to submit vote")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Prediction saved", pred)
}

// ListOvers godoc
// @Summary Over summaries for an innings
// @Tags Predictions
// @Produce json
// @Param id path int true "Match ID"
// @Param innings query int false "Innings number" default(1)
// @Success 200 {object} responses.SuccessResponse{data=[]OverSummary}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id}/overs [get]
func (pc *PredictionController) ListOvers(c *gin.Context) {
	m := pc.loadMatch(c)
	if m == nil {
		return
	}
	innings, err := strconv.Atoi(c.DefaultQuery("innings", "1"))
	if err != nil || innings < 1 || innings > 4 {
		responses.BadRequest(c, "innings must be between 1 and 4")
		return
	}

	overs, err := pc.repo.ListOverSummaries(c.Request.Context(), m.ID, innings)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch over summaries")
		return
	}
	if overs == nil {
		overs = []OverSummary{}
	}
	responses.SendSuccess(c, http.StatusOK, "", overs)
}

// RecordOver godoc
// @Summary Record an over summary
// @Description Creates or replaces the summary for (innings, over) and grades existing over predictions.
// @Tags Predictions
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param over body OverSummaryRequest true "Over"
// @Success 200 {object} responses.SuccessResponse{data=OverSummary}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /matches/{id}/overs [post]
func (pc *PredictionController) RecordOver(c *gin.Context) {
	m := pc.loadMatch(c)
	if m == nil {
		return
	}
	var req OverSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	over := &OverSummary{
		MatchID:       m.ID,
		InningsNumber: req.InningsNumber,
		OverNumber:    *req.OverNumber,
		Balls:         req.Balls,
		TotalRuns:     req.TotalRuns,
		Wickets:       req.Wickets,
		Extras:        req.Extras,
		BowlerName:    req.BowlerName,
	}
	if err := pc.repo.UpsertOverSummary(c.Request.Context(), over); err != nil {
		log.Error().Err(err).Uint("match_id", m.ID).Int("over", over.OverNumber).Msg("failed to save over summary")
		responses.InternalServerError(c, "Failed to add over summary")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Over summary saved", over)
}

// PredictOver godoc
// @Summary Predict runs and wicket for an over
// @Tags Predictions
// @Accept json
// @Produce json
// @Param id path int true "Over summary ID"
// @Param prediction body OverPredictionRequest true "Prediction"
// @Success 200 {object} responses.SuccessResponse{data=OverPrediction}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /overs/{id}/predictions [post]
func (pc *PredictionController) PredictOver(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	var req OverPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}
	ctx := c.Request.Context()

	over, err := pc.repo.GetOverSummary(ctx, id)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch over summary")
		return
	}
	if over == nil {
		responses.NotFound(c, "Over summary")
		return
	}

	pred := &OverPrediction{OverSummaryID: over.ID, UserID: p.UserID, PredictedRuns: *req.PredictedRuns, PredictedWicket: req.PredictedWicket}
	if err := pc.repo.UpsertOverPrediction(ctx, pred); err != nil {
		log.Error().Err(err).Uint("over_summary_id", over.ID).Msg("failed to save over prediction")
		responses.InternalServerError(c, "Failed to submit prediction")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Prediction saved", pred)
}
