package modules

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/docvault-api/internal/interface/http"
	"github.com/oksasatya/docvault-api/internal/interface/middleware"
)

// UserModule wires account routes under /users.
// Public: register, login, refresh and the account administration routes.
// Protected: logout, profile.
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
	// AuthLimit requests per AuthWindow per client IP on register/login/refresh.
	AuthLimit  int
	AuthWindow time.Duration
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, authLimit int, authWindow time.Duration) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, AuthLimit: authLimit, AuthWindow: authWindow}
}

func (m *UserModule) Routes() []Route {
	limiter := middleware.RateLimit(m.Redis, middleware.RateRule{Limit: m.AuthLimit, Window: m.AuthWindow, Key: middleware.KeyByIPAndPath()})
	return []Route{
		route(http.MethodPost, "/users/register", GuardNone, limiter, m.Handler.Register),
		route(http.MethodPost, "/users/login", GuardNone, limiter, m.Handler.Login),
		route(http.MethodPost, "/users/refresh", GuardNone, limiter, m.Handler.Refresh),
		route(http.MethodPost, "/users/logout", GuardProtect, m.Handler.Logout),
		route(http.MethodGet, "/users/profile", GuardProtect, m.Handler.GetProfile),
		route(http.MethodGet, "/users", GuardNone, m.Handler.List),
		route(http.MethodPut, "/users/:id", GuardNone, m.Handler.SetAdmin),
		route(http.MethodDelete, "/users/:id", GuardNone, m.Handler.Delete),
	}
}
