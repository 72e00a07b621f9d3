package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/recipebox/recipebox/internal/domain/entity"
	repo "github.com/recipebox/recipebox/internal/domain/repository"
	"github.com/recipebox/recipebox/pkg/helpers"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeService struct {
	Repo      repo.RecipeRepository
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

func NewRecipeService(r repo.RecipeRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *RecipeService {
	return &RecipeService{Repo: r, GCS: gcs, GCSBucket: gcsBucket, ES: es, ESIndex: esIndex, Logger: logger}
}

type CreateRecipeInput struct {
	Title       string
	TimeMinutes int
	Price       string
	Description string
	Link        string
	Tags        []string
	Ingredients []string
}

func (s *RecipeService) List(ctx context.Context, userID string, f repo.RecipeFilter) ([]entity.Recipe, error) {
	return s.Repo.List(ctx, userID, f)
}

func (s *RecipeService) Get(ctx context.Context, userID, id string) (*entity.Recipe, error) {
	rec, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *RecipeService) Create(ctx context.Context, userID string, in CreateRecipeInput) (*entity.Recipe, error) {
	rec := &entity.Recipe{
		UserID:      userID,
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Description: in.Description,
		Link:        in.Link,
	}
	if err := s.Repo.Create(ctx, rec, in.Tags, in.Ingredients); err != nil {
		return nil, err
	}
	_ = s.indexRecipe(ctx, rec)
	return rec, nil
}

func (s *RecipeService) Update(ctx context.Context, userID, id string, ch repo.RecipeChanges) (*entity.Recipe, error) {
	rec, err := s.Repo.Update(ctx, userID, id, ch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	_ = s.indexRecipe(ctx, rec)
	return rec, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.deleteRecipeDoc(ctx, id)
	return nil
}

// UploadImage stores the recipe image in GCS and saves its public URL.
func (s *RecipeService) UploadImage(ctx context.Context, userID, id string, r io.Reader, filename, contentType string) (*entity.Recipe, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("gcs not configured")
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("recipes", userID, uuid.NewString()+ext))
	url, err := helpers.UploadImage(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}

	rec, err := s.Repo.SetImageURL(ctx, userID, id, url)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	_ = s.indexRecipe(ctx, rec)
	return rec, nil
}

func (s *RecipeService) indexRecipe(ctx context.Context, rec *entity.Recipe) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	tagNames := make([]string, len(rec.Tags))
	for i, t := range rec.Tags {
		tagNames[i] = t.Name
	}
	ingredientNames := make([]string, len(rec.Ingredients))
	for i, ing := range rec.Ingredients {
		ingredientNames[i] = ing.Name
	}
	doc := map[string]any{
		"id":           rec.ID,
		"user_id":      rec.UserID,
		"title":        rec.Title,
		"description":  rec.Description,
		"time_minutes": rec.TimeMinutes,
		"price":        rec.Price,
		"tags":         tagNames,
		"ingredients":  ingredientNames,
		"created_at":   rec.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":   rec.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: rec.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", rec.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("recipe_id", rec.ID).Warn("es index response error")
	}
	return nil
}

func (s *RecipeService) deleteRecipeDoc(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match over the caller's indexed recipes.
func (s *RecipeService) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description", "tags", "ingredients"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
