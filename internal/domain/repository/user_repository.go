package repository

import (
	"context"

	"github.com/recipebox/recipebox/internal/domain/entity"
)

// UserRepository defines the interface for account-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	InsertAuditLog(ctx context.Context, e *entity.AuditLog) error
}
