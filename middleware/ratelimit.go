package middleware

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/wander-list/api-go/utils"
)

// RateLimitConfig shapes the token bucket guarding the places proxies.
type RateLimitConfig struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Capacity:       30,
		RefillTokens:   10,
		RefillInterval: 10 * time.Second,
		TTL:            10 * time.Minute,
		Prefix:         "ratelimit",
	}
}

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
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimit is a Redis token bucket keyed by user (falling back to client
// IP). A nil client disables limiting, and so does any Redis failure: the
// proxy must keep working when Redis is down.
func RateLimit(cfg RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := cfg.Prefix + ":" + rateKey(c)

		args := []interface{}{
			time.Now().UnixMilli(),
			cfg.Capacity,
			cfg.RefillTokens,
			cfg.RefillInterval.Milliseconds(),
			int64(cfg.TTL / time.Second),
		}

		vals, err := tokenBucketScript.Run(c.Request.Context(), rdb, []string{key}, args...).Result()
		if err != nil {
			log.Printf("rate limit script failed for %s: %v", key, err)
			c.Next()
			return
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 3 {
			c.Next()
			return
		}
		allowed := asInt64(arr[0]) == 1
		remaining := asInt64(arr[1])
		retryMs := asInt64(arr[2])

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			if secs < 0 {
				secs = 0
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": secs,
				"success":     false,
			})
			return
		}

		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if user := utils.GetUser(c); user != nil {
		return "user:" + user.UserID
	}
	return "ip:" + c.ClientIP()
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
