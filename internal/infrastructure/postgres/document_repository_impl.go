package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/internal/domain/repository"
)

const documentColumns = `id, user_id, vault_id, title, content, file_url, tags, author, uploaded_by, upload_date, created_at`

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	d := &entity.Document{}
	if err := row.Scan(&d.ID, &d.UserID, &d.VaultID, &d.Title, &d.Content, &d.FileURL, &d.Tags,
		&d.Metadata.Author, &d.Metadata.UploadedBy, &d.Metadata.UploadDate, &d.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func collectDocuments(rows pgx.Rows) ([]entity.Document, error) {
	defer rows.Close()
	out := make([]entity.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DocumentRepository) Create(ctx context.Context, d *entity.Document) error {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO documents (user_id, vault_id, title, content, file_url, tags, author, uploaded_by, upload_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, d.UserID, d.VaultID, d.Title, d.Content, d.FileURL, d.Tags,
		d.Metadata.Author, d.Metadata.UploadedBy, d.Metadata.UploadDate, d.CreatedAt)

	return mapErr(row.Scan(&d.ID))
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanDocument(r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
}

func (r *DocumentRepository) List(ctx context.Context) ([]entity.Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *DocumentRepository) ListByVault(ctx context.Context, vaultID string) ([]entity.Document, error) {
	if !validID(vaultID) {
		return []entity.Document{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE vault_id = $1
		ORDER BY created_at
	`, vaultID)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *DocumentRepository) CountByVault(ctx context.Context, vaultID string) (int, error) {
	if !validID(vaultID) {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM documents WHERE vault_id = $1`, vaultID).Scan(&n)
	return n, err
}

func (r *DocumentRepository) Update(ctx context.Context, d *entity.Document) error {
	if !validID(d.ID) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET title = $1, content = $2, file_url = $3, tags = $4
		WHERE id = $5
	`, d.Title, d.Content, d.FileURL, d.Tags, d.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)
