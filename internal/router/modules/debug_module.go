package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/docvault-api/internal/interface/middleware"
)

type DebugModule struct {
	Redis *redis.Client
}

func NewDebugModule(rdb *redis.Client) *DebugModule { return &DebugModule{Redis: rdb} }

func (m *DebugModule) Routes() []Route {
	// Public metrics endpoint (expvar), rate-limited per IP; private networks are not limited.
	rl := middleware.RateLimit(m.Redis, middleware.RateRule{
		Limit: 120, Window: time.Minute, Key: middleware.KeyByIPAndPath(), Allow: middleware.AllowPrivateIP(),
	})
	return []Route{
		route(http.MethodGet, "/debug/vars", GuardNone, rl, gin.WrapH(expvar.Handler())),
	}
}
