package repository

import (
	"context"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

type VaultRepository interface {
	Create(ctx context.Context, v *entity.Vault) error
	GetByID(ctx context.Context, id string) (*entity.Vault, error)
	// ListByUser returns vaults in creation order.
	ListByUser(ctx context.Context, userID string) ([]entity.Vault, error)
	// ListPending returns Processing vaults with Owner populated.
	ListPending(ctx context.Context) ([]entity.Vault, error)
	// Update persists status, reason and the legacy document list.
	Update(ctx context.Context, v *entity.Vault) error
}
