package repository

import (
	"context"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, d *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context) ([]entity.Document, error)
	ListByVault(ctx context.Context, vaultID string) ([]entity.Document, error)
	CountByVault(ctx context.Context, vaultID string) (int, error)
	// Update persists title, content, file url and tags.
	Update(ctx context.Context, d *entity.Document) error
	Delete(ctx context.Context, id string) error
}
