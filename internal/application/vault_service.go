package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/domain/apperror"
	"github.com/oksasatya/docvault-api/internal/domain/entity"
	repo "github.com/oksasatya/docvault-api/internal/domain/repository"
	mailtpl "github.com/oksasatya/docvault-api/pkg/mailer/templates"
)

// AdminVaultRequestsLink is where the vault-request notification points admins to.
const AdminVaultRequestsLink = "/admin/vault-requests"

var errVaultNotFound = apperror.NotFound("Vault not found")

type VaultService struct {
	Repo          repo.VaultRepository
	Notifications *NotificationService
	Logger        *logrus.Logger
}

func NewVaultService(r repo.VaultRepository, notifications *NotificationService, logger *logrus.Logger) *VaultService {
	return &VaultService{Repo: r, Notifications: notifications, Logger: logger}
}

func capacityError(limit int) error {
	return apperror.Capacity("Vault limit reached (%d documents max)", limit)
}

// RequestVault creates a Processing vault and a notification for the admins.
// The notification is stored under the requester's id; admins read it through
// the unread feed, not by recipient.
func (s *VaultService) RequestVault(ctx context.Context, userID, name string, limit int) (*entity.Vault, error) {
	if userID == "" || name == "" || limit == 0 {
		return nil, apperror.Validation("Vault name and document limit are required")
	}
	if !entity.ValidDocumentLimit(limit) {
		return nil, apperror.Validation("Document limit must be between %d and %d", entity.MinDocumentLimit, entity.MaxDocumentLimit)
	}

	v := &entity.Vault{
		UserID:        userID,
		Name:          name,
		Status:        entity.VaultProcessing,
		Documents:     []string{},
		DocumentLimit: limit,
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return nil, apperror.Storage("Server error", err)
	}
	vaultRequests.Add(1)

	n := &entity.Notification{
		UserID:    userID,
		Message:   fmt.Sprintf("User with ID %s has requested a vault named %s.", userID, name),
		Link:      AdminVaultRequestsLink,
		VaultName: name,
	}
	if err := s.Notifications.Notify(ctx, n, ""); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VaultService) ListVaultsForUser(ctx context.Context, userID string) ([]entity.Vault, error) {
	vaults, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Storage("Server error", err)
	}
	return vaults, nil
}

func (s *VaultService) ListPendingRequests(ctx context.Context) ([]entity.Vault, error) {
	vaults, err := s.Repo.ListPending(ctx)
	if err != nil {
		return nil, apperror.Storage("Server error", err)
	}
	return vaults, nil
}

func (s *VaultService) get(ctx context.Context, id string) (*entity.Vault, error) {
	v, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errVaultNotFound
		}
		return nil, apperror.Storage("Server error", err)
	}
	return v, nil
}

// Approve activates the vault. Approving an already active vault succeeds again.
func (s *VaultService) Approve(ctx context.Context, vaultID string) (*entity.Vault, error) {
	v, err := s.get(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	v.Status = entity.VaultActive
	if err := s.Repo.Update(ctx, v); err != nil {
		return nil, apperror.Storage("Internal server error", err)
	}
	vaultApprovals.Add(1)

	n := &entity.Notification{
		UserID:    v.UserID,
		Message:   fmt.Sprintf("Your vault request \"%s\" has been approved.", v.Name),
		VaultName: v.Name,
	}
	if err := s.Notifications.Notify(ctx, n, mailtpl.VaultApproved); err != nil {
		return nil, err
	}
	return v, nil
}

// Deny rejects the vault and stores reason verbatim, empty included.
func (s *VaultService) Deny(ctx context.Context, vaultID, reason string) (*entity.Vault, error) {
	v, err := s.get(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	v.Status = entity.VaultDenied
	v.Reason = reason
	if err := s.Repo.Update(ctx, v); err != nil {
		return nil, apperror.Storage("Server error", err)
	}
	vaultDenials.Add(1)

	n := &entity.Notification{
		UserID:    v.UserID,
		Message:   fmt.Sprintf("Your vault request \"%s\" has been denied. Reason: %s", v.Name, reason),
		VaultName: v.Name,
	}
	if err := s.Notifications.Notify(ctx, n, mailtpl.VaultDenied, mailtpl.WithReason(reason)); err != nil {
		return nil, err
	}
	return v, nil
}

// UploadDocumentURL appends a raw URL to the vault's own document list. It is
// independent of the document service and its records.
func (s *VaultService) UploadDocumentURL(ctx context.Context, vaultID, documentURL string) (*entity.Vault, error) {
	v, err := s.get(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if v.Full(len(v.Documents)) {
		return nil, capacityError(v.DocumentLimit)
	}
	v.Documents = append(v.Documents, documentURL)
	if err := s.Repo.Update(ctx, v); err != nil {
		return nil, apperror.Storage("Server error", err)
	}
	return v, nil
}
