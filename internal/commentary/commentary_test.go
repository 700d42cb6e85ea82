package commentary

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
	db      *gorm.DB
	router  *gin.Engine
	repo    CommentaryRepository
	matchID uint
}

// setup serves the routes with the principal taken from the X-User header:
// "admin" for the scorer, a numeric id for a fan, nothing for anonymous.
func setup(t *testing.T) *env {
	db := testdb.Open(t, &models.Actor{}, &team.Team{}, &series.Series{}, &match.Match{}, &match.Commentary{},
		&CommentaryReaction{}, &CommentaryComment{}, &CommentReaction{})
	ctx := context.Background()

	for _, a := range []models.Actor{{Username: "scorer"}, {Username: "fan1"}, {Username: "fan2"}} {
		a := a
		require.NoError(t, db.Create(&a).Error)
	}
	teams := team.NewTeamRepository(db)
	home, _, err := teams.FindOrCreateByName(ctx, "Pakistan", team.Team{})
	require.NoError(t, err)
	away, _, err := teams.FindOrCreateByName(ctx, "New Zealand", team.Team{})
	require.NoError(t, err)

	matches := match.NewGormMatchRepository(db)
	m := &match.Match{HomeTeamID: home.ID, AwayTeamID: away.ID, Venue: "Gaddafi Stadium", Status: match.StatusLive, StartDate: time.Now()}
	require.NoError(t, matches.CreateMatch(ctx, m))

	repo := NewCommentaryRepository(db)
	cc := NewCommentaryController(repo, matches, match.NewScoreKeeper(matches, nil, nil, nil))

	principal := func(required bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			switch who := c.GetHeader("X-User"); who {
			case "admin":
				common.SetPrincipal(c, common.Principal{UserID: 1, Username: "scorer", Role: common.RoleAdmin})
			case "2", "3":
				id := uint(who[0] - '0')
				common.SetPrincipal(c, common.Principal{UserID: id, Role: common.RoleUser})
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
	CommentaryRoutes(r.Group("/api"), cc, principal(true), principal(false))
	return &env{db: db, router: r, repo: repo, matchID: m.ID}
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

func TestAdminBallLifecycle(t *testing.T) {
	e := setup(t)

	four := `{"innings_number":1,"over_number":0,"ball_number":1,"runs":4,"is_boundary":true,"description":"Driven through covers"}`
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/api/matches/1/commentary", "2", four).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/matches/1/commentary", "admin", `{"innings_number":1,"ball_number":7,"description":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/matches/42/commentary", "admin", four).Code)

	w := e.do(http.MethodPost, "/api/matches/1/commentary", "admin", four)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"home_score":"4/0"`)

	w = e.do(http.MethodPut, "/api/matches/1/commentary/1", "admin",
		`{"innings_number":1,"over_number":0,"ball_number":1,"runs":0,"is_wicket":true,"wicket_type":"bowled","description":"Timber!"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"home_score":"0/1"`)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/matches/1/commentary/99", "admin", "").Code)
	w = e.do(http.MethodDelete, "/api/matches/1/commentary/1", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"home_score":null`)
}

func TestReactionsAndComments(t *testing.T) {
	e := setup(t)
	w := e.do(http.MethodPost, "/api/matches/1/commentary", "admin", `{"innings_number":1,"over_number":3,"ball_number":2,"runs":6,"is_six":true,"description":"Into the stands"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, typ := range ReactionTypes {
		assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/commentary/1/reactions", "2", `{"type":"`+typ+`"}`).Code)
	}
	assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/commentary/1/reactions", "3", `{"type":"fire"}`).Code)
	// Toggling again removes it.
	w = e.do(http.MethodPost, "/api/commentary/1/reactions", "2", `{"type":"wow"}`)
	assert.Contains(t, w.Body.String(), `"reacted":false`)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/commentary/1/reactions", "2", `{"type":"meh"}`).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/commentary/5/reactions", "2", `{"type":"fire"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/api/commentary/1/reactions", "", `{"type":"fire"}`).Code)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/commentary/1/comments", "3", `{"content":"`+strings.Repeat("a", 501)+`"}`).Code)
	w = e.do(http.MethodPost, "/api/commentary/1/comments", "3", `{"content":"What a hit"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"fan2"`)
	assert.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/commentary-comments/1/reactions", "2", `{"type":"clap"}`).Code)

	w = e.do(http.MethodGet, "/api/matches/1/commentary", "2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []CommentaryView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	v := body.Data[0]
	assert.Equal(t, int64(2), v.ReactionCounts["fire"])
	assert.Zero(t, v.ReactionCounts["wow"])
	assert.Equal(t, []string{"ball", "bat", "clap", "fire", "mindblown"}, v.MyReactions)
	require.Equal(t, 1, v.CommentCount)
	assert.Equal(t, int64(1), v.Comments[0].ReactionCounts["clap"])
	assert.Equal(t, []string{"clap"}, v.Comments[0].MyReactions)

	w = e.do(http.MethodGet, "/api/matches/1/commentary", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data[0].MyReactions)
}

func TestListFiltersInnings(t *testing.T) {
	e := setup(t)
	for _, b := range []string{
		`{"innings_number":1,"over_number":0,"ball_number":1,"runs":1,"description":"single"}`,
		`{"innings_number":2,"over_number":0,"ball_number":1,"runs":2,"description":"two"}`,
	} {
		require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/matches/1/commentary", "admin", b).Code)
	}

	w := e.do(http.MethodGet, "/api/matches/1/commentary?innings=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"two"`)
	assert.NotContains(t, w.Body.String(), `"description":"single"`)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/matches/1/commentary?innings=9", "", "").Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/matches/8/commentary", "", "").Code)
}
