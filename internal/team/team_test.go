package team

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/testdb"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFindOrCreateByName(t *testing.T) {
	db := testdb.Open(t, &Team{}, &Player{})
	repo := NewTeamRepository(db)
	ctx := context.Background()

	first, created, err := repo.FindOrCreateByName(ctx, " Australia ", Team{ShortName: "AUS", Country: "Australia"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Australia", first.Name)
	assert.Equal(t, TypeNational, first.TeamType)

	again, created, err := repo.FindOrCreateByName(ctx, "Australia", Team{ShortName: "OZ"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "AUS", again.ShortName)

	_, _, err = repo.FindOrCreateByName(ctx, "  ", Team{})
	assert.Error(t, err)
}

func TestFindOrCreateByName_Concurrent(t *testing.T) {
	db := testdb.Open(t, &Team{})
	repo := NewTeamRepository(db)

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			team, _, err := repo.FindOrCreateByName(context.Background(), "Mumbai Indians", Team{TeamType: TypeFranchise})
			if assert.NoError(t, err) {
				ids[i] = team.ID
			}
		}(i)
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&Team{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestListTeams_Filters(t *testing.T) {
	db := testdb.Open(t, &Team{})
	repo := NewTeamRepository(db)
	ctx := context.Background()
	for _, tm := range []Team{
		{Name: "India", ShortName: "IND", Country: "India", TeamType: TypeNational},
		{Name: "Chennai Super Kings", ShortName: "CSK", Country: "India", TeamType: TypeFranchise},
		{Name: "England", ShortName: "ENG", Country: "England", TeamType: TypeNational},
	} {
		_, _, err := repo.FindOrCreateByName(ctx, tm.Name, tm)
		require.NoError(t, err)
	}

	teams, total, err := repo.ListTeams(ctx, 1, 20, TeamFilter{Country: "india"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, teams, 2)

	teams, _, err = repo.ListTeams(ctx, 1, 20, TeamFilter{TeamType: TypeFranchise})
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "CSK", teams[0].ShortName)

	ids, err := repo.SearchTeamIDs(ctx, "eng")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func newRouter(t *testing.T, role string) *gin.Engine {
	db := testdb.Open(t, &Team{}, &Player{})
	tc := NewTeamController(NewTeamRepository(db))
	as := func(c *gin.Context) {
		common.SetPrincipal(c, common.Principal{UserID: 1, Username: "scorer", Role: role})
		c.Next()
	}
	r := gin.New()
	TeamRoutes(r.Group("/api"), tc, as)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestController_AdminWrites(t *testing.T) {
	r := newRouter(t, common.RoleUser)
	assert.Equal(t, http.StatusForbidden, post(r, "/api/teams", `{"name":"India"}`).Code)

	r = newRouter(t, common.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/teams", `{"name":"India","team_type":"school"}`).Code)
	assert.Equal(t, http.StatusCreated, post(r, "/api/teams", `{"name":"India","short_name":"IND"}`).Code)
	assert.Equal(t, http.StatusOK, post(r, "/api/teams", `{"name":"India"}`).Code)

	w := post(r, "/api/players", `{"name":"Ellyse Perry","role":"all-rounder","team_name":"Australia"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data Player `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Data.TeamID)

	assert.Equal(t, http.StatusNotFound, post(r, "/api/players", `{"name":"Nobody","team_id":999}`).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/teams/%d/players", *body.Data.TeamID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ellyse Perry")
}
