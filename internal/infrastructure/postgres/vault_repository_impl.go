package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/domain/repository"
)

const vaultColumns = `v.id, v.user_id, v.vault_name, v.status, v.reason, v.documents, v.document_limit, v.created_at, v.updated_at`

type VaultRepository struct {
	pool *pgxpool.Pool
}

func NewVaultRepository(pool *pgxpool.Pool) *VaultRepository {
	return &VaultRepository{pool: pool}
}

func vaultDest(v *entity.Vault) []any {
	return []any{&v.ID, &v.UserID, &v.Name, &v.Status, &v.Reason, &v.Documents, &v.DocumentLimit,
		&v.CreatedAt, &v.UpdatedAt}
}

func (r *VaultRepository) Create(ctx context.Context, v *entity.Vault) error {
	if v.Documents == nil {
		v.Documents = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vaults (user_id, vault_name, status, reason, documents, document_limit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, v.UserID, v.Name, v.Status, v.Reason, v.Documents, v.DocumentLimit)

	return mapErr(row.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt))
}

func (r *VaultRepository) GetByID(ctx context.Context, id string) (*entity.Vault, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	v := &entity.Vault{}
	row := r.pool.QueryRow(ctx, `SELECT `+vaultColumns+` FROM vaults v WHERE v.id = $1`, id)
	if err := row.Scan(vaultDest(v)...); err != nil {
		return nil, mapErr(err)
	}
	return v, nil
}

func (r *VaultRepository) ListByUser(ctx context.Context, userID string) ([]entity.Vault, error) {
	if !validID(userID) {
		return []entity.Vault{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+vaultColumns+`
		FROM vaults v
		WHERE v.user_id = $1
		ORDER BY v.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectVaults(rows, false)
}

func (r *VaultRepository) ListPending(ctx context.Context) ([]entity.Vault, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+vaultColumns+`, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM vaults v
		LEFT JOIN users u ON u.id = v.user_id
		WHERE v.status = $1
		ORDER BY v.created_at
	`, entity.VaultProcessing)
	if err != nil {
		return nil, err
	}
	return collectVaults(rows, true)
}

func collectVaults(rows pgx.Rows, withOwner bool) ([]entity.Vault, error) {
	defer rows.Close()
	out := make([]entity.Vault, 0)
	for rows.Next() {
		var v entity.Vault
		dest := vaultDest(&v)
		var owner entity.UserSummary
		if withOwner {
			dest = append(dest, &owner.Name, &owner.Email)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if withOwner {
			owner.ID = v.UserID
			v.Owner = &owner
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VaultRepository) Update(ctx context.Context, v *entity.Vault) error {
	if !validID(v.ID) {
		return repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE vaults
		SET status = $1, reason = $2, documents = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, v.Status, v.Reason, v.Documents, v.ID)

	return mapErr(row.Scan(&v.UpdatedAt))
}

var _ repository.VaultRepository = (*VaultRepository)(nil)
