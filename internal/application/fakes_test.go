package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/recipebox/recipebox/internal/domain/entity"
	repo "github.com/recipebox/recipebox/internal/domain/repository"
)

// In-memory repository fakes. They mirror the owner-scoping and association
// reconciliation rules of the real store closely enough for service and
// handler tests.

type fakeUserRepo struct {
	users  map[string]*entity.User // keyed by id
	audits []*entity.AuditLog
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repo.ErrConflict
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) InsertAuditLog(_ context.Context, e *entity.AuditLog) error {
	f.audits = append(f.audits, e)
	return nil
}

type fakeRecipeRepo struct {
	recipes     map[string]*entity.Recipe // keyed by id
	tags        *fakeCatalog
	ingredients *fakeCatalog
	nextID      int
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{
		recipes:     make(map[string]*entity.Recipe),
		tags:        newFakeCatalog("tag"),
		ingredients: newFakeCatalog("ing"),
	}
}

func (f *fakeRecipeRepo) owned(userID, id string) (*entity.Recipe, bool) {
	r, ok := f.recipes[id]
	if !ok || r.UserID != userID {
		return nil, false
	}
	return r, true
}

func (f *fakeRecipeRepo) List(_ context.Context, userID string, flt repo.RecipeFilter) ([]entity.Recipe, error) {
	var out []entity.Recipe
	for _, r := range f.recipes {
		if r.UserID != userID {
			continue
		}
		if len(flt.TagIDs) > 0 && !matchesAny(r.Tags, flt.TagIDs) {
			continue
		}
		if len(flt.IngredientIDs) > 0 && !matchesAnyIngredient(r.Ingredients, flt.IngredientIDs) {
			continue
		}
		out = append(out, f.snapshot(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func matchesAny(tags []entity.Tag, ids []string) bool {
	for _, t := range tags {
		for _, id := range ids {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

func matchesAnyIngredient(ingredients []entity.Ingredient, ids []string) bool {
	for _, ing := range ingredients {
		for _, id := range ids {
			if ing.ID == id {
				return true
			}
		}
	}
	return false
}

func (f *fakeRecipeRepo) snapshot(r *entity.Recipe) entity.Recipe {
	cp := *r
	cp.Tags = append([]entity.Tag(nil), r.Tags...)
	cp.Ingredients = append([]entity.Ingredient(nil), r.Ingredients...)
	return cp
}

func (f *fakeRecipeRepo) GetByID(_ context.Context, userID, id string) (*entity.Recipe, error) {
	r, ok := f.owned(userID, id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := f.snapshot(r)
	return &cp, nil
}

func (f *fakeRecipeRepo) Create(_ context.Context, r *entity.Recipe, tagNames, ingredientNames []string) error {
	f.nextID++
	r.ID = fmt.Sprintf("recipe-%d", f.nextID)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	r.Tags = f.tags.resolve(r.UserID, tagNames)
	r.Ingredients = entityIngredients(f.ingredients.resolve(r.UserID, ingredientNames))
	cp := f.snapshot(r)
	f.recipes[r.ID] = &cp
	return nil
}

func (f *fakeRecipeRepo) Update(_ context.Context, userID, id string, ch repo.RecipeChanges) (*entity.Recipe, error) {
	r, ok := f.owned(userID, id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	if ch.Title != nil {
		r.Title = *ch.Title
	}
	if ch.TimeMinutes != nil {
		r.TimeMinutes = *ch.TimeMinutes
	}
	if ch.Price != nil {
		r.Price = *ch.Price
	}
	if ch.Description != nil {
		r.Description = *ch.Description
	}
	if ch.Link != nil {
		r.Link = *ch.Link
	}
	if ch.Tags != nil {
		r.Tags = f.tags.resolve(userID, *ch.Tags)
	}
	if ch.Ingredients != nil {
		r.Ingredients = entityIngredients(f.ingredients.resolve(userID, *ch.Ingredients))
	}
	r.UpdatedAt = time.Now()
	cp := f.snapshot(r)
	return &cp, nil
}

func (f *fakeRecipeRepo) Delete(_ context.Context, userID, id string) error {
	if _, ok := f.owned(userID, id); !ok {
		return repo.ErrNotFound
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepo) SetImageURL(_ context.Context, userID, id, url string) (*entity.Recipe, error) {
	r, ok := f.owned(userID, id)
	if !ok {
		return nil, repo.ErrNotFound
	}
	r.ImageURL = url
	r.UpdatedAt = time.Now()
	cp := f.snapshot(r)
	return &cp, nil
}

// fakeCatalog backs tags and ingredients with per-owner name uniqueness.
type fakeCatalog struct {
	prefix string
	rows   map[string]entity.Tag // keyed by id
	nextID int
}

func newFakeCatalog(prefix string) *fakeCatalog {
	return &fakeCatalog{prefix: prefix, rows: make(map[string]entity.Tag)}
}

func (c *fakeCatalog) find(userID, name string) (entity.Tag, bool) {
	for _, row := range c.rows {
		if row.UserID == userID && row.Name == name {
			return row, true
		}
	}
	return entity.Tag{}, false
}

func (c *fakeCatalog) getOrCreate(userID, name string) entity.Tag {
	if row, ok := c.find(userID, name); ok {
		return row
	}
	c.nextID++
	row := entity.Tag{
		ID:        fmt.Sprintf("%s-%d", c.prefix, c.nextID),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	c.rows[row.ID] = row
	return row
}

// resolve reconciles a name list into rows, deduplicating on name.
func (c *fakeCatalog) resolve(userID string, names []string) []entity.Tag {
	seen := make(map[string]bool, len(names))
	out := make([]entity.Tag, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, c.getOrCreate(userID, name))
	}
	return out
}

func entityIngredients(rows []entity.Tag) []entity.Ingredient {
	out := make([]entity.Ingredient, len(rows))
	for i, r := range rows {
		out[i] = entity.Ingredient(r)
	}
	return out
}

// fakeTagRepo adapts fakeCatalog to the TagRepository interface.
type fakeTagRepo struct {
	catalog  *fakeCatalog
	assigned map[string]bool // tag ids currently on a recipe
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{catalog: newFakeCatalog("tag"), assigned: make(map[string]bool)}
}

func (f *fakeTagRepo) List(_ context.Context, userID string, assignedOnly bool) ([]entity.Tag, error) {
	var out []entity.Tag
	for _, row := range f.catalog.rows {
		if row.UserID != userID {
			continue
		}
		if assignedOnly && !f.assigned[row.ID] {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (f *fakeTagRepo) GetOrCreate(_ context.Context, userID, name string) (*entity.Tag, error) {
	row := f.catalog.getOrCreate(userID, name)
	return &row, nil
}

func (f *fakeTagRepo) Rename(_ context.Context, userID, id, name string) (*entity.Tag, error) {
	row, ok := f.catalog.rows[id]
	if !ok || row.UserID != userID {
		return nil, repo.ErrNotFound
	}
	if other, exists := f.catalog.find(userID, name); exists && other.ID != id {
		return nil, repo.ErrConflict
	}
	row.Name = name
	row.UpdatedAt = time.Now()
	f.catalog.rows[id] = row
	return &row, nil
}

func (f *fakeTagRepo) Delete(_ context.Context, userID, id string) error {
	row, ok := f.catalog.rows[id]
	if !ok || row.UserID != userID {
		return repo.ErrNotFound
	}
	delete(f.catalog.rows, id)
	return nil
}

// fakeIngredientRepo mirrors fakeTagRepo for the ingredient namespace.
type fakeIngredientRepo struct {
	inner *fakeTagRepo
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	inner := &fakeTagRepo{catalog: newFakeCatalog("ing"), assigned: make(map[string]bool)}
	return &fakeIngredientRepo{inner: inner}
}

func (f *fakeIngredientRepo) List(ctx context.Context, userID string, assignedOnly bool) ([]entity.Ingredient, error) {
	rows, err := f.inner.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}
	return entityIngredients(rows), nil
}

func (f *fakeIngredientRepo) GetOrCreate(ctx context.Context, userID, name string) (*entity.Ingredient, error) {
	row, err := f.inner.GetOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	ing := entity.Ingredient(*row)
	return &ing, nil
}

func (f *fakeIngredientRepo) Rename(ctx context.Context, userID, id, name string) (*entity.Ingredient, error) {
	row, err := f.inner.Rename(ctx, userID, id, name)
	if err != nil {
		return nil, err
	}
	ing := entity.Ingredient(*row)
	return &ing, nil
}

func (f *fakeIngredientRepo) Delete(ctx context.Context, userID, id string) error {
	return f.inner.Delete(ctx, userID, id)
}
