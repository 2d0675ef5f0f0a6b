package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
	"github.com/oksasatya/docvault-api/pkg/mailer"
	mailtpl "github.com/oksasatya/docvault-api/pkg/mailer/templates"
)

func TestRequestVault_Validation(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		vault  string
		limit  int
		msg    string
	}{
		{"missing name", "u1", "", 2, "Vault name and document limit are required"},
		{"missing user", "", "Docs", 2, "Vault name and document limit are required"},
		{"zero limit", "u1", "Docs", 0, "Vault name and document limit are required"},
		{"limit too high", "u1", "Docs", 11, "Document limit must be between 1 and 10"},
		{"negative limit", "u1", "Docs", -1, "Document limit must be between 1 and 10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.vaults.RequestVault(ctx, tc.userID, tc.vault, tc.limit)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.Equal(t, tc.msg, apperror.Message(err, ""))
		})
	}

	pending, err := f.vaults.ListPendingRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestVault_CreatesProcessingVaultAndAdminNotice(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	v, err := f.vaults.RequestVault(ctx, "u1", "Docs", 10)
	require.NoError(t, err)
	assert.Equal(t, entity.VaultProcessing, v.Status)
	assert.Equal(t, "Docs", v.Name)
	assert.Empty(t, v.Documents)

	list, err := f.notify.ListUnreadForAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].UserID)
	assert.Equal(t, "User with ID u1 has requested a vault named Docs.", list[0].Message)
	assert.Equal(t, AdminVaultRequestsLink, list[0].Link)
	assert.Empty(t, f.pub.jobs, "the request notice is not emailed")
}

func TestApproveAndDeny_NotifyOwner(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	a, err := f.vaults.RequestVault(ctx, "u1", "Docs", 2)
	require.NoError(t, err)
	b, err := f.vaults.RequestVault(ctx, "u1", "Taxes", 2)
	require.NoError(t, err)

	approved, err := f.vaults.Approve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VaultActive, approved.Status)

	denied, err := f.vaults.Deny(ctx, b.ID, "insufficient justification")
	require.NoError(t, err)
	assert.Equal(t, entity.VaultDenied, denied.Status)
	assert.Equal(t, "insufficient justification", denied.Reason)

	list, err := f.notify.ListUnreadForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, `Your vault request "Taxes" has been denied. Reason: insufficient justification`, list[0].Message)
	assert.Equal(t, `Your vault request "Docs" has been approved.`, list[1].Message)

	pending, err := f.vaults.ListPendingRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.vaults.Approve(ctx, "nope")
	assert.ErrorIs(t, err, apperror.NotFound(""))
	assert.Equal(t, "Vault not found", apperror.Message(err, ""))
}

func TestDeny_EmptyReasonStoredVerbatim(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v, err := f.vaults.RequestVault(ctx, "u1", "Docs", 1)
	require.NoError(t, err)

	denied, err := f.vaults.Deny(ctx, v.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "", denied.Reason)
}

func TestNotify_EmailJobsOnlyWhenEnabled(t *testing.T) {
	ctx := context.Background()

	off := newFixture(false)
	u := &entity.User{Name: "Alice", Email: "alice@x.com"}
	require.NoError(t, off.store.Users().Create(ctx, u))
	v, err := off.vaults.RequestVault(ctx, u.ID, "Docs", 1)
	require.NoError(t, err)
	_, err = off.vaults.Approve(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, off.pub.jobs)

	on := newFixture(true)
	require.NoError(t, on.store.Users().Create(ctx, u))
	v, err = on.vaults.RequestVault(ctx, u.ID, "Docs", 1)
	require.NoError(t, err)
	_, err = on.vaults.Deny(ctx, v.ID, "no room")
	require.NoError(t, err)

	require.Len(t, on.pub.jobs, 1)
	job, ok := on.pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "alice@x.com", job.To)
	assert.Equal(t, mailtpl.VaultDenied, job.Template)
	assert.Equal(t, "no room", job.Data["Reason"])
	assert.Equal(t, "Docs", job.Data["VaultName"])
}

func TestNotify_PublishFailureDoesNotFailTheAction(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	f.pub.err = assert.AnError
	u := &entity.User{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, f.store.Users().Create(ctx, u))

	v, err := f.vaults.RequestVault(ctx, u.ID, "Docs", 1)
	require.NoError(t, err)
	_, err = f.vaults.Approve(ctx, v.ID)
	assert.NoError(t, err)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	_, err := f.vaults.RequestVault(ctx, "u1", "Docs", 1)
	require.NoError(t, err)

	list, err := f.notify.ListUnreadForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.notify.MarkRead(ctx, list[0].ID))
	require.NoError(t, f.notify.MarkRead(ctx, list[0].ID))

	list, err = f.notify.ListUnreadForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	err = f.notify.MarkRead(ctx, "missing")
	assert.Equal(t, "Notification not found", apperror.Message(err, ""))
}

func TestUploadDocumentURL_Capacity(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	v, err := f.vaults.RequestVault(ctx, "u1", "Links", 2)
	require.NoError(t, err)

	for _, url := range []string{"https://x/a", "https://x/b"} {
		_, err := f.vaults.UploadDocumentURL(ctx, v.ID, url)
		require.NoError(t, err)
	}
	_, err = f.vaults.UploadDocumentURL(ctx, v.ID, "https://x/c")
	require.Error(t, err)
	assert.Equal(t, apperror.KindCapacity, apperror.KindOf(err))
	assert.Equal(t, "Vault limit reached (2 documents max)", apperror.Message(err, ""))

	stored, err := f.store.Vaults().GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/a", "https://x/b"}, stored.Documents)
}

func TestVaultMessages_KeepNameVerbatim(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	v, err := f.vaults.RequestVault(ctx, "u1", ` My "x" `, 2)
	require.NoError(t, err)
	assert.Equal(t, ` My "x" `, v.Name)

	_, err = f.vaults.Approve(ctx, v.ID)
	require.NoError(t, err)
	_, err = f.vaults.Deny(ctx, v.ID, "")
	require.NoError(t, err)

	list, err := f.notify.ListUnreadForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, `Your vault request " My "x" " has been denied. Reason: `, list[0].Message)
	assert.Equal(t, `Your vault request " My "x" " has been approved.`, list[1].Message)
}
