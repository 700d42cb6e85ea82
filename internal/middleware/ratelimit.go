package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/cricbook/config"
	"github.com/DhavalSuthar-24/cricbook/internal/common"
	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimit applies a per ip and user token bucket kept in Redis. It is a
// no-op when disabled or when rdb is nil, and fails open on Redis errors.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, scope string) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := rateKey(cfg.Prefix, scope, c)
		args := []interface{}{
			time.Now().UnixMilli(),
			cfg.Capacity,
			cfg.RefillTokens,
			cfg.RefillInterval.Milliseconds(),
			int64(cfg.TTL / time.Second),
		}

		vals, err := tokenBucketScript.Run(c.Request.Context(), rdb, []string{key}, args...).Int64Slice()
		if err != nil || len(vals) != 3 {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			c.Header("Retry-After", strconv.Itoa(secs))
			metrics.RateLimitedTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":      "error",
				"message":     "rate limit exceeded",
				"code":        http.StatusTooManyRequests,
				"retry_after": secs,
			})
			return
		}
		c.Next()
	}
}

func rateKey(prefix, scope string, c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := "anon"
	if p := common.OptionalPrincipal(c); p != nil {
		uid = fmt.Sprint(p.UserID)
	}
	return strings.Join([]string{prefix, scope, "ip", ip, "user", uid}, ":")
}
