package live

import (
	"context"
	"encoding/json"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	"github.com/rs/zerolog/log"
)

const MessageScore = "score"

// Message is the envelope written to websocket subscribers.
type Message struct {
	Type string            `json:"type"`
	Data match.ScoreUpdate `json:"data"`
}

// Publisher fans committed score updates out to the websocket hub, the
// Redis stream and the score cache. Any of the three may be nil.
type Publisher struct {
	hub    *Hub
	stream *StreamPublisher
	cache  *ScoreCache
}

func NewPublisher(hub *Hub, stream *StreamPublisher, cache *ScoreCache) *Publisher {
	return &Publisher{hub: hub, stream: stream, cache: cache}
}

// PublishScore never fails the caller; sink errors are logged and counted.
func (p *Publisher) PublishScore(ctx context.Context, u match.ScoreUpdate) {
	payload, err := json.Marshal(u)
	if err != nil {
		log.Error().Err(err).Uint("match_id", u.MatchID).Msg("encode score update")
		return
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, u.MatchID, payload); err != nil {
			metrics.LivePublishErrors.WithLabelValues("cache").Inc()
			log.Warn().Err(err).Uint("match_id", u.MatchID).Msg("score cache write failed")
		}
	}
	if p.stream != nil {
		if err := p.stream.Add(ctx, u, payload); err != nil {
			metrics.LivePublishErrors.WithLabelValues("stream").Inc()
			log.Warn().Err(err).Uint("match_id", u.MatchID).Msg("score stream append failed")
		}
	}
	if p.hub != nil {
		msg, err := json.Marshal(Message{Type: MessageScore, Data: u})
		if err != nil {
			metrics.LivePublishErrors.WithLabelValues("hub").Inc()
			return
		}
		p.hub.Broadcast(u.MatchID, msg)
	}
}
