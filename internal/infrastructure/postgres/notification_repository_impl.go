package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message, is_read, link, vault_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, n.UserID, n.Message, n.IsRead, n.Link, n.VaultName)

	return mapErr(row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt))
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	out := make([]entity.Notification, 0)
	if !validID(userID) {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, message, is_read, link, vault_name, created_at, updated_at
		FROM notifications
		WHERE user_id = $1 AND is_read = false
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.Link, &n.VaultName,
			&n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) ListUnread(ctx context.Context) ([]entity.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.user_id, n.message, n.is_read, n.link, n.vault_name, n.created_at, n.updated_at,
		       COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM notifications n
		LEFT JOIN users u ON u.id = n.user_id
		WHERE n.is_read = false
		ORDER BY n.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		var who entity.UserSummary
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.Link, &n.VaultName,
			&n.CreatedAt, &n.UpdatedAt, &who.Name, &who.Email); err != nil {
			return nil, err
		}
		who.ID = n.UserID
		n.Requester = &who
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
