package application

import (
	"context"
	"io"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

// FileStore persists uploaded binaries and returns the path clients fetch them from.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	// Remove deletes a file previously returned by Save. Unknown files are not an error.
	Remove(ctx context.Context, fileURL string) error
}

// DocumentIndexer keeps a search index of documents in sync with the store.
type DocumentIndexer interface {
	Index(ctx context.Context, d *entity.Document) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]entity.Document, error)
}

// JobPublisher enqueues a JSON job for an out-of-process worker.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
