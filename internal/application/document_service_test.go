package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

func pdf(name string) *UploadedFile {
	return &UploadedFile{Filename: name, ContentType: "application/pdf", Size: 3, Reader: strings.NewReader("pdf")}
}

// vault returns an approved vault with the given limit.
func (f *fixture) vault(t *testing.T, limit int) *entity.Vault {
	t.Helper()
	ctx := context.Background()
	v, err := f.vaults.RequestVault(ctx, "u1", "Docs", limit)
	require.NoError(t, err)
	v, err = f.vaults.Approve(ctx, v.ID)
	require.NoError(t, err)
	return v
}

func TestCreateDocument_FillsVaultThenRejects(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 2)

	for i := 0; i < 2; i++ {
		d, err := f.documents.Create(ctx, CreateDocumentInput{
			UserID: "u1", VaultID: v.ID, Title: "Doc", Tags: entity.CSVTags("a, b,,a"), File: pdf("Scan.PDF"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, d.Tags)
		assert.True(t, strings.HasSuffix(d.FileURL, ".pdf"))
		assert.Equal(t, "u1", d.Metadata.UploadedBy)
		assert.False(t, d.Metadata.UploadDate.IsZero())
	}

	_, err := f.documents.Create(ctx, CreateDocumentInput{UserID: "u1", VaultID: v.ID, Title: "Third", File: pdf("c.pdf")})
	require.Error(t, err)
	assert.Equal(t, apperror.KindCapacity, apperror.KindOf(err))
	assert.Equal(t, "Vault limit reached (2 documents max)", apperror.Message(err, ""))

	docs, err := f.documents.ListByVault(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Len(t, f.files.saved, 2, "the rejected upload stored nothing")
	assert.Len(t, f.indexer.docs, 2)
}

func TestCreateDocument_CheckOrder(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 1)
	full := f.vault(t, 1)
	_, err := f.documents.Create(ctx, CreateDocumentInput{UserID: "u1", VaultID: full.ID, Title: "t", File: pdf("a.pdf")})
	require.NoError(t, err)
	pending, err := f.vaults.RequestVault(ctx, "u1", "Pending", 3)
	require.NoError(t, err)
	denied, err := f.vaults.RequestVault(ctx, "u1", "Denied", 3)
	require.NoError(t, err)
	_, err = f.vaults.Deny(ctx, denied.ID, "no")
	require.NoError(t, err)
	saved := len(f.files.saved)

	cases := []struct {
		name string
		in   CreateDocumentInput
		kind apperror.Kind
		msg  string
	}{
		{"no vault id", CreateDocumentInput{Title: "t", File: pdf("a.pdf")}, apperror.KindValidation, "Vault ID is required"},
		{"unknown vault", CreateDocumentInput{VaultID: "nope", File: pdf("a.pdf")}, apperror.KindNotFound, "Vault not found"},
		{"processing vault", CreateDocumentInput{VaultID: pending.ID, Title: "t", File: pdf("a.pdf")}, apperror.KindValidation, "Vault is not active"},
		{"denied vault", CreateDocumentInput{VaultID: denied.ID, Title: "t", File: pdf("a.pdf")}, apperror.KindValidation, "Vault is not active"},
		{"full vault without title", CreateDocumentInput{VaultID: full.ID, File: pdf("a.pdf")}, apperror.KindCapacity, "Vault limit reached (1 documents max)"},
		{"no title", CreateDocumentInput{VaultID: v.ID, Title: " ", File: pdf("a.pdf")}, apperror.KindValidation, "Title is required"},
		{"metadata not json", CreateDocumentInput{VaultID: v.ID, Title: "t", Metadata: "{oops", File: pdf("a.pdf")}, apperror.KindValidation, "Invalid metadata format"},
		{"metadata array", CreateDocumentInput{VaultID: v.ID, Title: "t", Metadata: "[]", File: pdf("a.pdf")}, apperror.KindValidation, "Invalid metadata format"},
		{"no file", CreateDocumentInput{VaultID: v.ID, Title: "t"}, apperror.KindValidation, "File is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.documents.Create(ctx, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err))
			assert.Equal(t, tc.msg, apperror.Message(err, ""))
		})
	}
	assert.Len(t, f.files.saved, saved, "rejected requests store no file")
}

func TestCreateDocument_Metadata(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 1)

	d, err := f.documents.Create(ctx, CreateDocumentInput{
		UserID: "u1", VaultID: v.ID, Title: "Lease", File: pdf("lease.pdf"),
		Metadata: `{"author":"Jane","uploadedBy":"clerk","uploadDate":"2024-03-01T10:00:00Z","extra":1}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", d.Metadata.Author)
	assert.Equal(t, "clerk", d.Metadata.UploadedBy)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), d.Metadata.UploadDate)
}

func TestCreateDocument_RecordFailureRemovesFile(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 1)
	f.documents.Repo = failingDocuments{f.store.Documents()}

	_, err := f.documents.Create(ctx, CreateDocumentInput{UserID: "u1", VaultID: v.ID, Title: "t", File: pdf("a.pdf")})
	require.Error(t, err)
	assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
	assert.Empty(t, f.files.saved)
	assert.Len(t, f.files.removed, 1)
}

func TestCreateDocument_StorageFailure(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 1)
	f.files.failErr = assert.AnError

	_, err := f.documents.Create(ctx, CreateDocumentInput{UserID: "u1", VaultID: v.ID, Title: "t", File: pdf("a.pdf")})
	require.Error(t, err)
	assert.Equal(t, "Error uploading document", apperror.Message(err, ""))
	n, err := f.store.Documents().CountByVault(ctx, v.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateDocument(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 1)
	d, err := f.documents.Create(ctx, CreateDocumentInput{UserID: "u1", VaultID: v.ID, Title: "Old", Content: "body", Tags: entity.CSVTags("x"), File: pdf("a.pdf")})
	require.NoError(t, err)

	upd := entity.DocumentUpdate{
		Title: entity.Some("New"),
		Tags:  entity.Some(entity.ListTags([]string{" y ", "", "z", "y"})),
	}
	got, err := f.documents.Update(ctx, d.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "body", got.Content)
	assert.Equal(t, []string{"y", "z"}, got.Tags)
	assert.Equal(t, "New", f.indexer.docs[d.ID].Title)

	_, err = f.documents.Update(ctx, "missing", upd)
	assert.Equal(t, "Document not found", apperror.Message(err, ""))
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v := f.vault(t, 1)
	d, err := f.documents.Create(ctx, CreateDocumentInput{UserID: "u1", VaultID: v.ID, Title: "t", File: pdf("a.pdf")})
	require.NoError(t, err)

	require.NoError(t, f.documents.Delete(ctx, d.ID))
	assert.NotContains(t, f.indexer.docs, d.ID)

	err = f.documents.Delete(ctx, d.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.documents.ListByVault(ctx, v.ID)
	assert.Equal(t, "No documents found for this vault", apperror.Message(err, ""))
}

func TestSearchDocuments(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	_, err := f.documents.Search(ctx, "  ", 5)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.documents.Search(ctx, "lease", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchSize, f.indexer.lastSz)

	_, err = f.documents.Search(ctx, "lease", 5000)
	require.NoError(t, err)
	assert.Equal(t, MaxSearchSize, f.indexer.lastSz)

	f.documents.Indexer = nil
	_, err = f.documents.Search(ctx, "lease", 1)
	assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
}
