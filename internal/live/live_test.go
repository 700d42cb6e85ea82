package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/internal/testdb"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	hub    *Hub
	keeper *match.ScoreKeeper
	server *httptest.Server
	match  *match.Match
}

func setup(t *testing.T, cache *ScoreCache) *env {
	db := testdb.Open(t, &models.Actor{}, &team.Team{}, &series.Series{}, &match.Match{}, &match.Commentary{})
	ctx := context.Background()

	teams := team.NewTeamRepository(db)
	home, _, err := teams.FindOrCreateByName(ctx, "South Africa", team.Team{})
	require.NoError(t, err)
	away, _, err := teams.FindOrCreateByName(ctx, "West Indies", team.Team{})
	require.NoError(t, err)
	repo := match.NewGormMatchRepository(db)
	m := &match.Match{HomeTeamID: home.ID, AwayTeamID: away.ID, Venue: "Newlands", Status: match.StatusLive, StartDate: time.Now()}
	require.NoError(t, repo.CreateMatch(ctx, m))

	hub := NewHub()
	keeper := match.NewScoreKeeper(repo, NewPublisher(hub, nil, cache), nil, nil)

	r := gin.New()
	LiveRoutes(r.Group("/api"), NewLiveController(hub, cache, repo, "http://localhost:3000"))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &env{hub: hub, keeper: keeper, server: srv, match: m}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebsocket_SnapshotThenUpdates(t *testing.T) {
	e := setup(t, nil)
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/ws/matches/1"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readMessage(t, conn)
	assert.Equal(t, MessageScore, first.Type)
	assert.Equal(t, TriggerSnapshot, first.Data.Trigger)
	assert.Nil(t, first.Data.HomeScore)
	require.Eventually(t, func() bool { return e.hub.Subscribers(1) == 1 }, time.Second, 10*time.Millisecond)

	_, _, err = e.keeper.AddBall(context.Background(), e.match.ID, 0, match.CommentaryInput{
		InningsNumber: 1, OverNumber: 0, BallNumber: 1, Runs: 6, IsSix: true, Description: "Over long-on",
	})
	require.NoError(t, err)

	update := readMessage(t, conn)
	assert.Equal(t, match.TriggerAdd, update.Data.Trigger)
	require.NotNil(t, update.Data.HomeScore)
	assert.Equal(t, "6/0", *update.Data.HomeScore)
	require.NotNil(t, update.Data.Commentary)
	assert.Equal(t, "Over long-on", update.Data.Commentary.Description)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return e.hub.Subscribers(1) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebsocket_RejectsUnknownMatchAndForeignOrigin(t *testing.T) {
	e := setup(t, nil)
	base := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/ws/matches/"

	_, resp, err := websocket.DefaultDialer.Dial(base+"42", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"1", http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"1", http.Header{"Origin": []string{"http://localhost:3000"}})
	require.NoError(t, err)
	_ = conn.Close()
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, matchID: 7, send: make(chan []byte, 1)}
	fast := &Client{hub: hub, matchID: 7, send: make(chan []byte, 4)}
	other := &Client{hub: hub, matchID: 8, send: make(chan []byte, 4)}
	for _, c := range []*Client{slow, fast, other} {
		hub.subscribe(c)
	}

	assert.Equal(t, 2, hub.Broadcast(7, []byte("a")))
	assert.Equal(t, 1, hub.Broadcast(7, []byte("b")))
	assert.Equal(t, 1, hub.Subscribers(7))
	assert.Len(t, other.send, 0)

	_, open := <-slow.send
	assert.True(t, open, "buffered message is still readable")
	_, open = <-slow.send
	assert.False(t, open, "dropped client's channel is closed")

	hub.Close()
	assert.Zero(t, hub.Subscribers(7))
	assert.Zero(t, hub.Subscribers(8))
	hub.unsubscribe(fast)
}

func TestGetLive_FallsBackToDatabase(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	e := setup(t, NewScoreCache(rdb, time.Minute))

	_, _, err := e.keeper.AddBall(context.Background(), e.match.ID, 0, match.CommentaryInput{
		InningsNumber: 1, OverNumber: 0, BallNumber: 1, Runs: 2, Description: "Two to third man",
	})
	require.NoError(t, err)

	resp, err := http.Get(e.server.URL + "/api/matches/1/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data match.ScoreUpdate `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2/0", *body.Data.HomeScore)
	assert.Equal(t, "0/0", *body.Data.AwayScore)

	resp, err = http.Get(e.server.URL + "/api/matches/5/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNilSinks(t *testing.T) {
	assert.Nil(t, NewStreamPublisher(nil, "s", 10))
	assert.Nil(t, NewScoreCache(nil, time.Second))
	NewPublisher(nil, nil, nil).PublishScore(context.Background(), match.ScoreUpdate{MatchID: 1})
}
