package modules

import (
	"net/http"

	handlers "github.com/oksasatya/docvault-api/internal/interface/http"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
}

func NewNotificationModule(h *handlers.NotificationHandler) *NotificationModule {
	return &NotificationModule{Handler: h}
}

func (m *NotificationModule) Routes() []Route {
	return []Route{
		route(http.MethodGet, "/notifications/admin", GuardAdmin, m.Handler.ListForAdmins),
		route(http.MethodPut, "/notifications/:id/read", GuardNone, m.Handler.MarkRead),
		route(http.MethodGet, "/notifications/user/:userId", GuardNone, m.Handler.ListForUser),
	}
}
