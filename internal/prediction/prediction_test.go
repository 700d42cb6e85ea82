package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/internal/testdb"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	db     *gorm.DB
	repo   PredictionRepository
	router *gin.Engine
	home   uint
	away   uint
}

// setup creates a live match (id 1) and a completed one (id 2) between
// Sri Lanka and Bangladesh.
func setup(t *testing.T) *env {
	db := testdb.Open(t, &models.Actor{}, &team.Team{}, &series.Series{}, &match.Match{},
		&MatchPrediction{}, &OverSummary{}, &OverPrediction{})
	ctx := context.Background()

	for _, a := range []models.Actor{{Username: "scorer"}, {Username: "fan1"}, {Username: "fan2"}} {
		a := a
		require.NoError(t, db.Create(&a).Error)
	}
	teams := team.NewTeamRepository(db)
	home, _, err := teams.FindOrCreateByName(ctx, "Sri Lanka", team.Team{})
	require.NoError(t, err)
	away, _, err := teams.FindOrCreateByName(ctx, "Bangladesh", team.Team{})
	require.NoError(t, err)

	matches := match.NewGormMatchRepository(db)
	for _, status := range []match.MatchStatus{match.StatusLive, match.StatusCompleted} {
		m := &match.Match{HomeTeamID: home.ID, AwayTeamID: away.ID, Venue: "R. Premadasa Stadium", Status: status, StartDate: time.Now()}
		require.NoError(t, matches.CreateMatch(ctx, m))
	}

	repo := NewPredictionRepository(db)
	principal := func(required bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			switch who := c.GetHeader("X-User"); who {
			case "admin":
				common.SetPrincipal(c, common.Principal{UserID: 1, Username: "scorer", Role: common.RoleAdmin})
			case "2", "3":
				common.SetPrincipal(c, common.Principal{UserID: uint(who[0] - '0'), Role: common.RoleUser})
			default:
				if required {
					c.AbortWithStatus(http.StatusUnauthorized)
					return
				}
			}
			c.Next()
		}
	}
	r := gin.New()
	PredictionRoutes(r.Group("/api"), NewPredictionController(repo, matches), principal(true), principal(false))
	return &env{db: db, repo: repo, router: r, home: home.ID, away: away.ID}
}

func (e *env) do(method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRepository_UpsertAndAggregate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	picks := []MatchPrediction{
		{UserID: 1, MatchID: 1, PredictedTeamID: e.away},
		{UserID: 2, MatchID: 1, PredictedTeamID: e.home},
		{UserID: 3, MatchID: 1, PredictedTeamID: e.home},
		// Changing one's mind replaces the earlier pick.
		{UserID: 1, MatchID: 1, PredictedTeamID: e.home},
		{UserID: 1, MatchID: 1, PredictedTeamID: e.away},
	}
	for i := range picks {
		require.NoError(t, e.repo.UpsertMatchPrediction(ctx, &picks[i]))
	}
	assert.Equal(t, picks[0].ID, picks[4].ID)

	var rows int64
	require.NoError(t, e.db.Model(&MatchPrediction{}).Count(&rows).Error)
	assert.Equal(t, int64(3), rows)

	shares, total, err := e.repo.Aggregate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []TeamShare{
		{TeamID: e.home, Count: 2, Percentage: 67},
		{TeamID: e.away, Count: 1, Percentage: 33},
	}, shares)

	ids, err := e.repo.PredictorIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids)

	shares, total, err = e.repo.Aggregate(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, shares)
}

func TestRepository_OverPredictionsAreGraded(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	over := &OverSummary{MatchID: 1, InningsNumber: 1, OverNumber: 4, Balls: models.StringSlice{"1", "4", "0", "0", "2", "1"}, TotalRuns: 8}
	require.NoError(t, e.repo.UpsertOverSummary(ctx, over))

	pred := &OverPrediction{OverSummaryID: over.ID, UserID: 2, PredictedRuns: 8}
	require.NoError(t, e.repo.UpsertOverPrediction(ctx, pred))
	require.NotNil(t, pred.IsCorrectRuns)
	assert.True(t, *pred.IsCorrectRuns)
	assert.True(t, *pred.IsCorrectWicket)

	// The scorer corrects the over: a run out on the last ball.
	fixed := &OverSummary{MatchID: 1, InningsNumber: 1, OverNumber: 4, Balls: models.StringSlice{"1", "4", "0", "0", "2", "W"}, TotalRuns: 7, Wickets: 1}
	require.NoError(t, e.repo.UpsertOverSummary(ctx, fixed))
	assert.Equal(t, over.ID, fixed.ID)
	require.Len(t, fixed.Predictions, 1)
	assert.False(t, *fixed.Predictions[0].IsCorrectRuns)
	assert.False(t, *fixed.Predictions[0].IsCorrectWicket)

	overs, err := e.repo.ListOverSummaries(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, overs, 1)
	assert.Equal(t, models.StringSlice{"1", "4", "0", "0", "2", "W"}, overs[0].Balls)
	require.Len(t, overs[0].Predictions, 1)
	assert.Equal(t, "fan1", overs[0].Predictions[0].User.Username)
}

func TestController_PredictWinner(t *testing.T) {
	e := setup(t)

	body := func(team uint) string {
		b, _ := json.Marshal(map[string]interface{}{"predicted_team_id": team, "confidence": 80})
		return string(b)
	}
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/api/matches/1/predictions", "", body(e.home)).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/matches/1/predictions", "2", body(99)).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/matches/2/predictions", "2", body(e.home)).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/matches/7/predictions", "2", body(e.home)).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/matches/1/predictions", "2",
		`{"predicted_team_id":1,"confidence":101}`).Code)

	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/matches/1/predictions", "2", body(e.home)).Code)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/matches/1/predictions", "3", body(e.away)).Code)

	w := e.do(http.MethodGet, "/api/matches/1/predictions", "2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data MatchPredictions `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Total)
	require.Len(t, resp.Data.Teams, 2)
	assert.Equal(t, 50, resp.Data.Teams[0].Percentage)
	require.NotNil(t, resp.Data.Mine)
	assert.Equal(t, e.home, resp.Data.Mine.PredictedTeamID)
	assert.Equal(t, 80, *resp.Data.Mine.Confidence)

	w = e.do(http.MethodGet, "/api/matches/1/predictions", "", "")
	resp.Data = MatchPredictions{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.Mine)
}

func TestController_Overs(t *testing.T) {
	e := setup(t)
	over := `{"innings_number":2,"over_number":0,"balls":["0","0","1","W","0","4"],"total_runs":5,"wickets":1,"bowler_name":"Mustafizur"}`

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/api/matches/1/overs", "2", over).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/matches/1/overs", "admin", `{"innings_number":5,"over_number":0,"balls":[]}`).Code)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/matches/1/overs", "admin", over).Code)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/overs/1/predictions", "3", `{"predicted_runs":37}`).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/overs/9/predictions", "3", `{"predicted_runs":6}`).Code)
	w := e.do(http.MethodPost, "/api/overs/1/predictions", "3", `{"predicted_runs":5,"predicted_wicket":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_correct_runs":true`)

	w = e.do(http.MethodGet, "/api/matches/1/overs?innings=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bowler_name":"Mustafizur"`)
	assert.Contains(t, w.Body.String(), `"username":"fan2"`)

	w = e.do(http.MethodGet, "/api/matches/1/overs", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Mustafizur")
}
