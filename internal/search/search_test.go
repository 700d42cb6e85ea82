package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/post"
	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/internal/testdb"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) *gin.Engine {
	db := testdb.Open(t, &user.User{}, &team.Team{}, &series.Series{}, &match.Match{},
		&post.Hashtag{}, &post.Post{}, &post.PostHashtag{}, &post.Poll{}, &post.PollOption{})
	ctx := context.Background()

	users := user.NewUserRepository(db)
	for _, name := range []string{"sachin", "saurav", "rahul"} {
		require.NoError(t, users.Create(ctx, &user.User{Username: name, Name: name, Password: "x", Role: "user"}))
	}

	teams := team.NewTeamRepository(db)
	india, _, err := teams.FindOrCreateByName(ctx, "India", team.Team{ShortName: "IND"})
	require.NoError(t, err)
	aus, _, err := teams.FindOrCreateByName(ctx, "Australia", team.Team{ShortName: "AUS"})
	require.NoError(t, err)
	eng, _, err := teams.FindOrCreateByName(ctx, "England", team.Team{ShortName: "ENG"})
	require.NoError(t, err)

	matches := match.NewGormMatchRepository(db)
	require.NoError(t, matches.CreateMatch(ctx, &match.Match{HomeTeamID: india.ID, AwayTeamID: aus.ID, Venue: "Eden Gardens", City: "Kolkata", Status: match.StatusUpcoming, StartDate: time.Now()}))
	require.NoError(t, matches.CreateMatch(ctx, &match.Match{HomeTeamID: eng.ID, AwayTeamID: aus.ID, Venue: "The Oval", City: "London", Status: match.StatusUpcoming, StartDate: time.Now()}))

	posts := post.NewPostRepository(db)
	require.NoError(t, posts.Create(ctx, &post.Post{Content: "Eden is buzzing #EdenGardens", AuthorID: 1}, []string{"edengardens"}, nil))
	require.NoError(t, posts.Create(ctx, &post.Post{Content: "Rain at the Oval", AuthorID: 2}, nil, nil))

	r := gin.New()
	SearchRoutes(r.Group("/api"), NewSearchController(NewService(users, posts, teams, matches)))
	return r
}

func get(r *gin.Engine, path string) (*httptest.ResponseRecorder, Results) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body struct {
		Data Results `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body.Data
}

func TestSearch_All(t *testing.T) {
	r := setup(t)

	w, res := get(r, "/api/search?q=eden")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, res.Users)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Eden is buzzing #EdenGardens", res.Posts[0].Content)
	require.Len(t, res.Hashtags, 1)
	assert.Equal(t, "edengardens", res.Hashtags[0].Name)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Eden Gardens", res.Matches[0].Venue)

	_, res = get(r, "/api/search?q=sa&type=users")
	require.Len(t, res.Users, 2)
	assert.Nil(t, res.Posts)
	assert.Nil(t, res.Matches)
}

func TestSearch_MatchesByTeamName(t *testing.T) {
	r := setup(t)

	_, res := get(r, "/api/search?q=australia&type=matches")
	assert.Len(t, res.Matches, 2)

	_, res = get(r, "/api/search?q=IND&type=matches&limit=1")
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "India", res.Matches[0].HomeTeam.Name)
}

func TestSearch_Validation(t *testing.T) {
	r := setup(t)
	for _, path := range []string{
		"/api/search",
		"/api/search?q=%20%20",
		"/api/search?q=x&type=teams",
		"/api/search?q=x&limit=51",
	} {
		w, _ := get(r, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
