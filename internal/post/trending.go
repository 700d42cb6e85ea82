package post

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	trendingKey   = "cricbook:trending:hashtags"
	trendingLimit = 20
)

// Trending serves the trending hashtag list from Redis, recomputing it from
// the database on a miss. A nil client disables caching.
type Trending struct {
	repo PostRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewTrending(repo PostRepository, rdb *redis.Client, ttl time.Duration) *Trending {
	return &Trending{repo: repo, rdb: rdb, ttl: ttl}
}

// Top returns up to limit hashtags ranked over the last seven days.
func (t *Trending) Top(ctx context.Context, limit int) ([]TrendingHashtag, error) {
	if limit < 1 || limit > trendingLimit {
		limit = trendingLimit
	}
	if tags, ok := t.cached(ctx); ok {
		if len(tags) > limit {
			tags = tags[:limit]
		}
		return tags, nil
	}
	tags, err := t.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (t *Trending) cached(ctx context.Context) ([]TrendingHashtag, bool) {
	if t.rdb == nil {
		return nil, false
	}
	raw, err := t.rdb.Get(ctx, trendingKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("trending cache read failed")
		}
		return nil, false
	}
	var tags []TrendingHashtag
	if err := json.Unmarshal(raw, &tags); err != nil {
		log.Warn().Err(err).Msg("trending cache holds malformed data")
		return nil, false
	}
	return tags, true
}

// Refresh recomputes the ranking and stores it in the cache.
func (t *Trending) Refresh(ctx context.Context) ([]TrendingHashtag, error) {
	tags, err := t.repo.Trending(ctx, time.Now().Add(-trendingWindow), trendingLimit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []TrendingHashtag{}
	}
	if t.rdb != nil {
		body, err := json.Marshal(tags)
		if err == nil {
			err = t.rdb.Set(ctx, trendingKey, body, t.ttl).Err()
		}
		if err != nil {
			log.Warn().Err(err).Msg("trending cache write failed")
		}
	}
	return tags, nil
}
