package live

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/pkg/responses"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const TriggerSnapshot = "snapshot"

type LiveController struct {
	hub      *Hub
	cache    *ScoreCache
	matches  match.MatchRepository
	upgrader websocket.Upgrader
}

// NewLiveController accepts websocket upgrades from allowedOrigins; "*"
// accepts any origin.
func NewLiveController(hub *Hub, cache *ScoreCache, matches match.MatchRepository, allowedOrigins ...string) *LiveController {
	lc := &LiveController{hub: hub, cache: cache, matches: matches}
	lc.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return lc
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

// snapshot returns the latest score for matchID from the cache, falling back
// to the database. It returns nil when the match does not exist.
func (lc *LiveController) snapshot(ctx context.Context, matchID uint) (*match.ScoreUpdate, error) {
	if lc.cache != nil {
		u, err := lc.cache.Get(ctx, matchID)
		if err != nil {
			log.Warn().Err(err).Uint("match_id", matchID).Msg("score cache read failed")
		}
		if u != nil {
			return u, nil
		}
	}

	m, err := lc.matches.GetMatchByID(ctx, matchID)
	if err != nil || m == nil {
		return nil, err
	}
	u := match.NewScoreUpdate(m, TriggerSnapshot, nil)
	if lc.cache != nil {
		if payload, err := json.Marshal(u); err == nil {
			_ = lc.cache.Set(ctx, matchID, payload)
		}
	}
	return &u, nil
}

// GetLive godoc
// @Summary Latest live score
// @Description Served from the score cache when warm, otherwise from the match row.
// @Tags Live
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=match.ScoreUpdate}
// @Failure 404 {object} responses.ErrorResponse
// @Router /matches/{id}/live [get]
func (lc *LiveController) GetLive(c *gin.Context) {
	matchID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	u, err := lc.snapshot(c.Request.Context(), matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve live score")
		return
	}
	if u == nil {
		responses.NotFound(c, "Match")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", u)
}

// Subscribe godoc
// @Summary Live score websocket
// @Description Upgrades to a websocket that first receives the current score, then every change.
// @Tags Live
// @Param id path int true "Match ID"
// @Success 101
// @Failure 404 {object} responses.ErrorResponse
// @Router /ws/matches/{id} [get]
func (lc *LiveController) Subscribe(c *gin.Context) {
	matchID, ok := responses.ParamID(c, "id")
	if !ok {
		return
	}
	u, err := lc.snapshot(c.Request.Context(), matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve live score")
		return
	}
	if u == nil {
		responses.NotFound(c, "Match")
		return
	}

	conn, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Uint("match_id", matchID).Msg("websocket upgrade failed")
		return
	}

	client := newClient(lc.hub, conn, matchID)
	if first, err := json.Marshal(Message{Type: MessageScore, Data: *u}); err == nil {
		client.send <- first
	}
	lc.hub.subscribe(client)

	go client.writePump()
	go client.readPump()
}
