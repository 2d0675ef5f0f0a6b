package modules

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/docvault-api/internal/interface/http"
	"github.com/oksasatya/docvault-api/internal/interface/middleware"
)

// DocumentModule wires /documents. Every route requires a valid token.
type DocumentModule struct {
	Handler *handlers.DocumentHandler
	Redis   *redis.Client
}

func NewDocumentModule(h *handlers.DocumentHandler, rdb *redis.Client) *DocumentModule {
	return &DocumentModule{Handler: h, Redis: rdb}
}

func (m *DocumentModule) Routes() []Route {
	uploadLimiter := middleware.RateLimit(m.Redis, middleware.RateRule{Limit: 30, Window: time.Minute, Key: middleware.KeyByUserID()})
	return []Route{
		route(http.MethodGet, "/documents", GuardProtect, m.Handler.List),
		route(http.MethodGet, "/documents/search", GuardProtect, m.Handler.Search),
		route(http.MethodGet, "/documents/vault/:vaultId", GuardProtect, m.Handler.ListByVault),
		route(http.MethodGet, "/documents/:id", GuardProtect, m.Handler.Get),
		route(http.MethodPost, "/documents", GuardProtect, uploadLimiter, m.Handler.Create),
		route(http.MethodPut, "/documents/:id", GuardProtect, m.Handler.Update),
		route(http.MethodDelete, "/documents/:id", GuardProtect, m.Handler.Delete),
	}
}
