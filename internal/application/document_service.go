package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
	repo "github.com/oksasatya/docvault-api/internal/domain/repository"
)

const (
	DefaultSearchSize = 10
	MaxSearchSize     = 100
)

var (
	errDocumentNotFound = apperror.NotFound("Document not found")
	errVaultNotActive   = apperror.Validation("Vault is not active")
)

type DocumentService struct {
	Repo    repo.DocumentRepository
	Vaults  repo.VaultRepository
	Files   FileStore
	Indexer DocumentIndexer
	Logger  *logrus.Logger
	now     func() time.Time
}

func NewDocumentService(r repo.DocumentRepository, vaults repo.VaultRepository, files FileStore, indexer DocumentIndexer, logger *logrus.Logger) *DocumentService {
	return &DocumentService{Repo: r, Vaults: vaults, Files: files, Indexer: indexer, Logger: logger, now: time.Now}
}

// UploadedFile is the single binary attached to a create request.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type CreateDocumentInput struct {
	UserID   string
	VaultID  string
	Title    string
	Content  string
	Tags     entity.Tags
	Metadata string
	File     *UploadedFile
}

// metadataInput is the client-supplied metadata JSON. Unknown keys are ignored.
type metadataInput struct {
	Author     string     `json:"author"`
	UploadedBy string     `json:"uploadedBy"`
	UploadDate *time.Time `json:"uploadDate"`
}

func (s *DocumentService) ListAll(ctx context.Context) ([]entity.Document, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperror.Storage("Error fetching documents", err)
	}
	return docs, nil
}

func (s *DocumentService) ListByVault(ctx context.Context, vaultID string) ([]entity.Document, error) {
	docs, err := s.Repo.ListByVault(ctx, vaultID)
	if err != nil {
		return nil, apperror.Storage("Server error while fetching documents", err)
	}
	if len(docs) == 0 {
		return nil, apperror.NotFound("No documents found for this vault")
	}
	return docs, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errDocumentNotFound
		}
		return nil, apperror.Storage("Error fetching document", err)
	}
	return d, nil
}

// Create validates the request against the vault, stores the file and then the
// record. Nothing is written when any check fails. Checks run in order: vault
// id, vault lookup, status, capacity, title, metadata, file.
func (s *DocumentService) Create(ctx context.Context, in CreateDocumentInput) (*entity.Document, error) {
	in.VaultID = strings.TrimSpace(in.VaultID)
	if in.VaultID == "" {
		return nil, apperror.Validation("Vault ID is required")
	}

	vault, err := s.Vaults.GetByID(ctx, in.VaultID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errVaultNotFound
		}
		return nil, apperror.Storage("Error uploading document", err)
	}
	if vault.Status != entity.VaultActive {
		return nil, errVaultNotActive
	}
	count, err := s.Repo.CountByVault(ctx, vault.ID)
	if err != nil {
		return nil, apperror.Storage("Error uploading document", err)
	}
	if vault.Full(count) {
		return nil, capacityError(vault.DocumentLimit)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.Validation("Title is required")
	}

	meta, err := parseMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}
	if in.File == nil || in.File.Reader == nil {
		return nil, apperror.Validation("File is required")
	}

	now := s.now()
	fileURL, err := s.Files.Save(ctx, storedFileName(now, in.File.Filename), in.File.Reader, in.File.ContentType)
	if err != nil {
		return nil, apperror.Storage("Error uploading document", err)
	}

	d := &entity.Document{
		UserID:    in.UserID,
		VaultID:   vault.ID,
		Title:     in.Title,
		Content:   in.Content,
		FileURL:   fileURL,
		Tags:      in.Tags.Normalize(),
		Metadata:  entity.DocumentMetadata{Author: meta.Author, UploadedBy: meta.UploadedBy, UploadDate: now.UTC()},
		CreatedAt: now.UTC(),
	}
	if d.Metadata.UploadedBy == "" {
		d.Metadata.UploadedBy = in.UserID
	}
	if meta.UploadDate != nil {
		d.Metadata.UploadDate = meta.UploadDate.UTC()
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		if rmErr := s.Files.Remove(ctx, fileURL); rmErr != nil && s.Logger != nil {
			s.Logger.WithError(rmErr).WithField("file", fileURL).Warn("orphaned upload not removed")
		}
		return nil, apperror.Storage("Error uploading document", err)
	}
	documentsCreated.Add(1)
	s.index(ctx, d)
	return d, nil
}

func parseMetadata(raw string) (metadataInput, error) {
	var meta metadataInput
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return meta, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil || probe == nil {
		return meta, apperror.Validation("Invalid metadata format")
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return meta, apperror.Validation("Invalid metadata format")
	}
	return meta, nil
}

// storedFileName yields <unix millis>-<random><ext>, unique across concurrent uploads.
func storedFileName(now time.Time, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)
}

func (s *DocumentService) Update(ctx context.Context, id string, upd entity.DocumentUpdate) (*entity.Document, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !upd.Apply(d) {
		return d, nil
	}
	if err := s.Repo.Update(ctx, d); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errDocumentNotFound
		}
		return nil, apperror.Storage("Error updating document", err)
	}
	s.index(ctx, d)
	return d, nil
}

// Delete removes the record only; the vault's URL list is left as is.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errDocumentNotFound
		}
		return apperror.Storage("Error deleting document", err)
	}
	documentsDeleted.Add(1)
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("document_id", id).Warn("search index remove failed")
		}
	}
	return nil
}

// Search queries the document index. size is clamped to [1, MaxSearchSize].
func (s *DocumentService) Search(ctx context.Context, query string, size int) ([]entity.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("Search query is required")
	}
	if s.Indexer == nil {
		return nil, apperror.Storage("Search is not available", errors.New("no document indexer configured"))
	}
	if size <= 0 {
		size = DefaultSearchSize
	}
	if size > MaxSearchSize {
		size = MaxSearchSize
	}
	docs, err := s.Indexer.Search(ctx, query, size)
	if err != nil {
		return nil, apperror.Storage("Error searching documents", err)
	}
	return docs, nil
}

func (s *DocumentService) index(ctx context.Context, d *entity.Document) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, d); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("document_id", d.ID).Warn("search index update failed")
	}
}
