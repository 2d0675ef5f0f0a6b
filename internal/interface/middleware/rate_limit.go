package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/docvault-api/pkg/response"
)

// KeyFunc builds a rate-limit bucket key from the request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true to let a request bypass the limiter.
type AllowFunc func(*gin.Context) bool

// RateRule is a fixed-window limit: at most Limit requests per Window for
// each key.
type RateRule struct {
	Limit  int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

func routePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIPAndPath limits each client IP per route.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routePath(c) + ":ip:" + ClientIP(c)
	}
}

// KeyByUserID limits authenticated callers per user and everyone else per IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserID); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ClientIP(c)
	}
}

// windowScript increments the bucket, arms its expiry on the first hit and
// returns {count, remaining ttl in ms}.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit enforces rule with a Redis counter. Without Redis, or with an
// incomplete rule, it is a no-op. Redis errors fail open.
func RateLimit(rdb *redis.Client, rule RateRule) gin.HandlerFunc {
	if rdb == nil || rule.Limit <= 0 || rule.Window <= 0 || rule.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(rule.Limit)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (rule.Allow != nil && rule.Allow(c)) {
			c.Next()
			return
		}

		res, err := windowScript.Run(c.Request.Context(), rdb, []string{rule.Key(c)}, rule.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
		reset := strconv.Itoa(int(max(ttl, 0).Seconds()))

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(rule.Limit-count, 0)))
		c.Header("X-RateLimit-Reset", reset)
		if count > rule.Limit {
			c.Header("Retry-After", reset)
			response.Abort(c, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
			return
		}
		c.Next()
	}
}
