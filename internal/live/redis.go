package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/redis/go-redis/v9"
)

// StreamPublisher appends score updates to a capped Redis stream for
// out-of-process consumers.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, stream string, maxLen int64) *StreamPublisher {
	if client == nil {
		return nil
	}
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (s *StreamPublisher) Add(ctx context.Context, u match.ScoreUpdate, payload []byte) error {
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"match_id":  u.MatchID,
			"trigger":   u.Trigger,
			"data":      string(payload),
			"timestamp": u.UpdatedAt.Unix(),
		},
	}).Err()
}

// ScoreCache keeps the latest score update per match.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	if client == nil {
		return nil
	}
	return &ScoreCache{client: client, ttl: ttl}
}

func scoreKey(matchID uint) string {
	return fmt.Sprintf("cricbook:live:match:%d", matchID)
}

func (c *ScoreCache) Set(ctx context.Context, matchID uint, payload []byte) error {
	return c.client.Set(ctx, scoreKey(matchID), payload, c.ttl).Err()
}

// Get returns the cached update, or nil on a miss.
func (c *ScoreCache) Get(ctx context.Context, matchID uint) (*match.ScoreUpdate, error) {
	raw, err := c.client.Get(ctx, scoreKey(matchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var u match.ScoreUpdate
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode cached score: %w", err)
	}
	return &u, nil
}
