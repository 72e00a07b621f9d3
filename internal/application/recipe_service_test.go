package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/recipebox/recipebox/internal/domain/repository"
)

func newRecipeService(r *fakeRecipeRepo) *RecipeService {
	return NewRecipeService(r, nil, "", nil, "", nil)
}

func strPtr(s string) *string         { return &s }
func intPtr(i int) *int               { return &i }
func namesPtr(ss ...string) *[]string { return &ss }

func TestCreateRecipeReconcilesNames(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{
		Title:       "Dal",
		TimeMinutes: 35,
		Price:       "4.50",
		Tags:        []string{"Vegan", "Dinner", "Vegan"},
		Ingredients: []string{"Lentils"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	require.Len(t, rec.Tags, 2)
	tagNames := []string{rec.Tags[0].Name, rec.Tags[1].Name}
	assert.ElementsMatch(t, []string{"Vegan", "Dinner"}, tagNames)
	require.Len(t, rec.Ingredients, 1)
	for _, tag := range rec.Tags {
		assert.Equal(t, "u1", tag.UserID)
	}
}

func TestCreateReusesExistingCatalogRows(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	first, err := svc.Create(context.Background(), "u1", CreateRecipeInput{
		Title: "Dal", TimeMinutes: 35, Price: "4.50", Tags: []string{"Vegan"},
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), "u1", CreateRecipeInput{
		Title: "Soup", TimeMinutes: 20, Price: "3.00", Tags: []string{"Vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)
}

func TestCatalogRowsAreOwnerScoped(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	a, err := svc.Create(context.Background(), "u1", CreateRecipeInput{
		Title: "Dal", TimeMinutes: 35, Price: "4.50", Tags: []string{"Vegan"},
	})
	require.NoError(t, err)

	b, err := svc.Create(context.Background(), "u2", CreateRecipeInput{
		Title: "Dal", TimeMinutes: 35, Price: "4.50", Tags: []string{"Vegan"},
	})
	require.NoError(t, err)

	// Same name, different owners, distinct rows.
	assert.NotEqual(t, a.Tags[0].ID, b.Tags[0].ID)
}

func TestGetScopedToOwner(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{Title: "Dal", TimeMinutes: 35, Price: "4.50"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	// Another owner addressing the same id sees not-found, never forbidden.
	_, err = svc.Get(context.Background(), "u2", rec.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestUpdateAssociationPresence(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{
		Title: "Dal", TimeMinutes: 35, Price: "4.50",
		Tags: []string{"Vegan"}, Ingredients: []string{"Lentils"},
	})
	require.NoError(t, err)

	// Nil association pointer leaves the set untouched.
	got, err := svc.Update(context.Background(), "u1", rec.ID, repo.RecipeChanges{Title: strPtr("Red Dal")})
	require.NoError(t, err)
	assert.Equal(t, "Red Dal", got.Title)
	assert.Len(t, got.Tags, 1)
	assert.Len(t, got.Ingredients, 1)

	// Empty slice clears the set.
	got, err = svc.Update(context.Background(), "u1", rec.ID, repo.RecipeChanges{Tags: namesPtr()})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Len(t, got.Ingredients, 1)

	// A fresh list replaces the set.
	got, err = svc.Update(context.Background(), "u1", rec.ID, repo.RecipeChanges{Tags: namesPtr("Comfort", "Dinner")})
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)
	assert.ElementsMatch(t, []string{"Comfort", "Dinner"}, []string{got.Tags[0].Name, got.Tags[1].Name})
}

func TestUpdateScalarFields(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{Title: "Dal", TimeMinutes: 35, Price: "4.50"})
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), "u1", rec.ID, repo.RecipeChanges{
		TimeMinutes: intPtr(40),
		Price:       strPtr("5.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dal", got.Title)
	assert.Equal(t, 40, got.TimeMinutes)
	assert.Equal(t, "5.25", got.Price)
}

func TestUpdateOtherOwnerNotFound(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{Title: "Dal", TimeMinutes: 35, Price: "4.50"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "u2", rec.ID, repo.RecipeChanges{Title: strPtr("Stolen")})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{Title: "Dal", TimeMinutes: 35, Price: "4.50"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", rec.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), "u1", rec.ID), ErrRecipeNotFound)
}

func TestListFiltersByAssociation(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	tagged, err := svc.Create(context.Background(), "u1", CreateRecipeInput{
		Title: "Dal", TimeMinutes: 35, Price: "4.50", Tags: []string{"Vegan"},
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "u1", CreateRecipeInput{Title: "Ramen", TimeMinutes: 50, Price: "8.75"})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), "u1", repo.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(context.Background(), "u1", repo.RecipeFilter{TagIDs: []string{tagged.Tags[0].ID}})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, tagged.ID, filtered[0].ID)
}

func TestUploadImageRequiresStorage(t *testing.T) {
	fake := newFakeRecipeRepo()
	svc := newRecipeService(fake)

	rec, err := svc.Create(context.Background(), "u1", CreateRecipeInput{Title: "Dal", TimeMinutes: 35, Price: "4.50"})
	require.NoError(t, err)

	_, err = svc.UploadImage(context.Background(), "u1", rec.ID, strings.NewReader("img"), "dal.jpg", "image/jpeg")
	assert.Error(t, err)
}

func TestSearchWithoutIndexReturnsEmpty(t *testing.T) {
	svc := newRecipeService(newFakeRecipeRepo())

	results, err := svc.Search(context.Background(), "u1", "dal", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
