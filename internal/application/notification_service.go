package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
	repo "github.com/oksasatya/docvault-api/internal/domain/repository"
	"github.com/oksasatya/docvault-api/pkg/mailer"
	mailtpl "github.com/oksasatya/docvault-api/pkg/mailer/templates"
)

type NotificationService struct {
	Repo   repo.NotificationRepository
	Users  repo.UserRepository
	Pub    JobPublisher
	Logger *logrus.Logger
	// EmailEnabled mirrors every user-facing notification into an email job.
	EmailEnabled bool
	AppName      string
}

func NewNotificationService(r repo.NotificationRepository, users repo.UserRepository, pub JobPublisher, logger *logrus.Logger, emailEnabled bool, appName string) *NotificationService {
	return &NotificationService{Repo: r, Users: users, Pub: pub, Logger: logger, EmailEnabled: emailEnabled, AppName: appName}
}

// Notify persists n. When template is non-empty an email job for the addressed
// user is enqueued as well; enqueue failures are logged and swallowed.
func (s *NotificationService) Notify(ctx context.Context, n *entity.Notification, template string, opts ...mailtpl.Option) error {
	if err := s.Repo.Create(ctx, n); err != nil {
		return apperror.Storage("Error creating notification", err)
	}
	if template != "" {
		s.enqueueEmail(ctx, n, template, opts)
	}
	return nil
}

func (s *NotificationService) enqueueEmail(ctx context.Context, n *entity.Notification, template string, opts []mailtpl.Option) {
	if !s.EmailEnabled || s.Pub == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, n.UserID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", n.UserID).Warn("notification email skipped: user lookup failed")
		}
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: mailtpl.NewVaultEventData(s.AppName, u.Name, n.VaultName, n.Message,
			append([]mailtpl.Option{mailtpl.WithLink(n.Link)}, opts...)...),
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("notification_id", n.ID).Warn("failed to publish notification email")
	}
}

func (s *NotificationService) ListUnreadForUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	list, err := s.Repo.ListUnreadByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Storage("Failed to fetch notifications.", err)
	}
	return list, nil
}

// ListUnreadForAdmins returns every unread notification. Callers are expected
// to have passed the admin guard.
func (s *NotificationService) ListUnreadForAdmins(ctx context.Context) ([]entity.Notification, error) {
	list, err := s.Repo.ListUnread(ctx)
	if err != nil {
		return nil, apperror.Storage("Server error", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.Repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("Notification not found")
		}
		return apperror.Storage("Failed to mark notification as read", err)
	}
	return nil
}
