package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/docvault-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when an id or filter does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}
