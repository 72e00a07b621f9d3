package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/recipebox/recipebox/internal/domain/entity"
	repo "github.com/recipebox/recipebox/internal/domain/repository"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// CatalogService covers the tag and ingredient surfaces. The two namespaces
// are independent but behave identically.
type CatalogService struct {
	Tags        repo.TagRepository
	Ingredients repo.IngredientRepository
	Logger      *logrus.Logger
}

func NewCatalogService(tags repo.TagRepository, ingredients repo.IngredientRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Tags: tags, Ingredients: ingredients, Logger: logger}
}

func (s *CatalogService) ListTags(ctx context.Context, userID string, assignedOnly bool) ([]entity.Tag, error) {
	return s.Tags.List(ctx, userID, assignedOnly)
}

func (s *CatalogService) CreateTag(ctx context.Context, userID, name string) (*entity.Tag, error) {
	return s.Tags.GetOrCreate(ctx, userID, name)
}

func (s *CatalogService) RenameTag(ctx context.Context, userID, id, name string) (*entity.Tag, error) {
	t, err := s.Tags.Rename(ctx, userID, id, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *CatalogService) DeleteTag(ctx context.Context, userID, id string) error {
	if err := s.Tags.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTagNotFound
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListIngredients(ctx context.Context, userID string, assignedOnly bool) ([]entity.Ingredient, error) {
	return s.Ingredients.List(ctx, userID, assignedOnly)
}

func (s *CatalogService) CreateIngredient(ctx context.Context, userID, name string) (*entity.Ingredient, error) {
	return s.Ingredients.GetOrCreate(ctx, userID, name)
}

func (s *CatalogService) RenameIngredient(ctx context.Context, userID, id, name string) (*entity.Ingredient, error) {
	ing, err := s.Ingredients.Rename(ctx, userID, id, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ing, nil
}

func (s *CatalogService) DeleteIngredient(ctx context.Context, userID, id string) error {
	if err := s.Ingredients.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrIngredientNotFound
		}
		return err
	}
	return nil
}
