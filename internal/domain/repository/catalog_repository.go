package repository

import (
	"context"

	"github.com/recipebox/recipebox/internal/domain/entity"
)

// TagRepository is the owner-scoped tag store. GetOrCreate upserts on
// (user_id, name) so explicit creation and lazy creation during recipe
// reconciliation converge on the same row.
type TagRepository interface {
	List(ctx context.Context, userID string, assignedOnly bool) ([]entity.Tag, error)
	GetOrCreate(ctx context.Context, userID, name string) (*entity.Tag, error)
	Rename(ctx context.Context, userID, id, name string) (*entity.Tag, error)
	Delete(ctx context.Context, userID, id string) error
}

// IngredientRepository mirrors TagRepository in its own namespace.
type IngredientRepository interface {
	List(ctx context.Context, userID string, assignedOnly bool) ([]entity.Ingredient, error)
	GetOrCreate(ctx context.Context, userID, name string) (*entity.Ingredient, error)
	Rename(ctx context.Context, userID, id, name string) (*entity.Ingredient, error)
	Delete(ctx context.Context, userID, id string) error
}
