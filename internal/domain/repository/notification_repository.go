package repository

import (
	"context"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListUnreadByUser returns unread notifications for userID, newest first.
	ListUnreadByUser(ctx context.Context, userID string) ([]entity.Notification, error)
	// ListUnread returns every unread notification with Requester populated, newest first.
	ListUnread(ctx context.Context) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
