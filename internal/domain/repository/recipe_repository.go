package repository

import (
	"context"

	"github.com/recipebox/recipebox/internal/domain/entity"
)

// RecipeFilter narrows a listing to recipes matching at least one id within
// each non-empty list. The two lists combine with AND.
type RecipeFilter struct {
	TagIDs        []string
	IngredientIDs []string
}

// RecipeChanges carries a recipe update. Nil field pointers mean "leave
// unchanged". Tags/Ingredients follow the association presence rule: nil
// keeps the current set, an empty slice clears it.
type RecipeChanges struct {
	Title       *string
	TimeMinutes *int
	Price       *string
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// RecipeRepository is the owner-scoped recipe store. Every method takes the
// owner's user id explicitly; addressing a row owned by someone else behaves
// exactly like the row not existing.
type RecipeRepository interface {
	List(ctx context.Context, userID string, f RecipeFilter) ([]entity.Recipe, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Recipe, error)

	// Create persists the recipe and reconciles the given tag/ingredient
	// names into its association sets in a single transaction.
	Create(ctx context.Context, r *entity.Recipe, tagNames, ingredientNames []string) error

	// Update applies the changes in a single transaction and returns the
	// fresh representation.
	Update(ctx context.Context, userID, id string, ch RecipeChanges) (*entity.Recipe, error)

	Delete(ctx context.Context, userID, id string) error
	SetImageURL(ctx context.Context, userID, id, url string) (*entity.Recipe, error)
}
