package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipebox/recipebox/internal/domain/entity"
	"github.com/recipebox/recipebox/internal/domain/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// assocTables names the tables behind one association kind. Values are
// compile-time constants, never user input.
type assocTables struct {
	table    string
	junction string
	fk       string
}

var (
	tagAssoc        = assocTables{table: "tags", junction: "recipe_tags", fk: "tag_id"}
	ingredientAssoc = assocTables{table: "ingredients", junction: "recipe_ingredients", fk: "ingredient_id"}
)

const recipeCols = `r.id, r.user_id, r.title, r.time_minutes, r.price::text, r.description, r.link, r.image_url, r.created_at, r.updated_at`

// mapWriteError translates a lost uniqueness race into repository.ErrConflict.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

func (repo *RecipeRepository) List(ctx context.Context, userID string, f repository.RecipeFilter) ([]entity.Recipe, error) {
	q := `SELECT ` + recipeCols + ` FROM recipes r WHERE r.user_id = $1`
	args := []any{userID}
	if len(f.TagIDs) > 0 {
		args = append(args, f.TagIDs)
		q += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag_id = ANY($%d::uuid[]))`, len(args))
	}
	if len(f.IngredientIDs) > 0 {
		args = append(args, f.IngredientIDs)
		q += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = r.id AND ri.ingredient_id = ANY($%d::uuid[]))`, len(args))
	}
	q += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := repo.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]entity.Recipe, 0)
	for rows.Next() {
		var rec entity.Recipe
		if err := scanRecipe(rows, &rec); err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachAssociations(ctx, repo.pool, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (repo *RecipeRepository) GetByID(ctx context.Context, userID, id string) (*entity.Recipe, error) {
	return fetchRecipe(ctx, repo.pool, userID, id)
}

func (repo *RecipeRepository) Create(ctx context.Context, rec *entity.Recipe, tagNames, ingredientNames []string) error {
	tx, err := repo.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO recipes (user_id, title, time_minutes, price, description, link)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING id, price::text, image_url, created_at, updated_at
	`, rec.UserID, rec.Title, rec.TimeMinutes, rec.Price, rec.Description, rec.Link)
	if err := row.Scan(&rec.ID, &rec.Price, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return mapWriteError(err)
	}

	if err := replaceAssociations(ctx, tx, rec.UserID, rec.ID, tagNames, tagAssoc); err != nil {
		return mapWriteError(err)
	}
	if err := replaceAssociations(ctx, tx, rec.UserID, rec.ID, ingredientNames, ingredientAssoc); err != nil {
		return mapWriteError(err)
	}

	one := []entity.Recipe{*rec}
	if err := attachAssociations(ctx, tx, one); err != nil {
		return err
	}
	*rec = one[0]
	return tx.Commit(ctx)
}

func (repo *RecipeRepository) Update(ctx context.Context, userID, id string, ch repository.RecipeChanges) (*entity.Recipe, error) {
	tx, err := repo.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rec := &entity.Recipe{ID: id, UserID: userID}
	row := tx.QueryRow(ctx, `
		SELECT title, time_minutes, price::text, description, link, image_url, created_at
		FROM recipes
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, id, userID)
	if err := row.Scan(&rec.Title, &rec.TimeMinutes, &rec.Price, &rec.Description,
		&rec.Link, &rec.ImageURL, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if ch.Title != nil {
		rec.Title = *ch.Title
	}
	if ch.TimeMinutes != nil {
		rec.TimeMinutes = *ch.TimeMinutes
	}
	if ch.Price != nil {
		rec.Price = *ch.Price
	}
	if ch.Description != nil {
		rec.Description = *ch.Description
	}
	if ch.Link != nil {
		rec.Link = *ch.Link
	}

	row = tx.QueryRow(ctx, `
		UPDATE recipes
		SET title = $1, time_minutes = $2, price = $3::numeric, description = $4, link = $5, updated_at = now()
		WHERE id = $6
		RETURNING price::text, updated_at
	`, rec.Title, rec.TimeMinutes, rec.Price, rec.Description, rec.Link, id)
	if err := row.Scan(&rec.Price, &rec.UpdatedAt); err != nil {
		return nil, mapWriteError(err)
	}

	// Association fields: nil pointer means the key was absent, leave the
	// current set untouched. An empty list clears the set.
	if ch.Tags != nil {
		if err := replaceAssociations(ctx, tx, userID, id, *ch.Tags, tagAssoc); err != nil {
			return nil, mapWriteError(err)
		}
	}
	if ch.Ingredients != nil {
		if err := replaceAssociations(ctx, tx, userID, id, *ch.Ingredients, ingredientAssoc); err != nil {
			return nil, mapWriteError(err)
		}
	}

	one := []entity.Recipe{*rec}
	if err := attachAssociations(ctx, tx, one); err != nil {
		return nil, err
	}
	*rec = one[0]
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (repo *RecipeRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := repo.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (repo *RecipeRepository) SetImageURL(ctx context.Context, userID, id, url string) (*entity.Recipe, error) {
	res, err := repo.pool.Exec(ctx, `
		UPDATE recipes SET image_url = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, id, userID, url)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return fetchRecipe(ctx, repo.pool, userID, id)
}

// replaceAssociations makes recipeID's association set for one kind equal the
// reconciliation of names, inside the caller's transaction. Rows referenced
// by the outgoing set are detached, never deleted.
func replaceAssociations(ctx context.Context, tx pgx.Tx, userID, recipeID string, names []string, t assocTables) error {
	existing := make(map[string]string, len(names))
	if len(names) > 0 {
		rows, err := tx.Query(ctx,
			fmt.Sprintf(`SELECT name, id FROM %s WHERE user_id = $1 AND name = ANY($2)`, t.table),
			userID, names)
		if err != nil {
			return err
		}
		for rows.Next() {
			var name, id string
			if err := rows.Scan(&name, &id); err != nil {
				rows.Close()
				return err
			}
			existing[name] = id
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	target, err := reconcileNames(names,
		func(name string) (string, bool) {
			id, ok := existing[name]
			return id, ok
		},
		func(name string) (string, error) {
			// The upsert keeps a concurrent create of the same (owner, name)
			// from producing a duplicate row: both writers converge on one id.
			var id string
			err := tx.QueryRow(ctx, fmt.Sprintf(`
				INSERT INTO %s (user_id, name) VALUES ($1, $2)
				ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, t.table), userID, name).Scan(&id)
			return id, err
		})
	if err != nil {
		return err
	}

	var current []string
	rows, err := tx.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE recipe_id = $1`, t.fk, t.junction), recipeID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		current = append(current, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	add, remove := diffAssociations(current, target)
	if len(remove) > 0 {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1 AND %s = ANY($2::uuid[])`, t.junction, t.fk),
			recipeID, remove)
		if err != nil {
			return err
		}
	}
	if len(add) > 0 {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) SELECT $1, unnest($2::uuid[])`, t.junction, t.fk),
			recipeID, add)
		if err != nil {
			return err
		}
	}
	return nil
}

func fetchRecipe(ctx context.Context, q querier, userID, id string) (*entity.Recipe, error) {
	var rec entity.Recipe
	row := q.QueryRow(ctx, `SELECT `+recipeCols+` FROM recipes r WHERE r.id = $1 AND r.user_id = $2`, id, userID)
	if err := scanRecipe(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	one := []entity.Recipe{rec}
	if err := attachAssociations(ctx, q, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func scanRecipe(row pgx.Row, rec *entity.Recipe) error {
	return row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &rec.Price,
		&rec.Description, &rec.Link, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt)
}

// attachAssociations loads the tag and ingredient sets for the given recipes.
func attachAssociations(ctx context.Context, q querier, recipes []entity.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]string, len(recipes))
	index := make(map[string]*entity.Recipe, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = &recipes[i]
		recipes[i].Tags = []entity.Tag{}
		recipes[i].Ingredients = []entity.Ingredient{}
	}

	rows, err := q.Query(ctx, `
		SELECT rt.recipe_id, t.id, t.user_id, t.name, t.created_at, t.updated_at
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1::uuid[])
		ORDER BY t.name
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID string
		var t entity.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			rows.Close()
			return err
		}
		if rec, ok := index[recipeID]; ok {
			rec.Tags = append(rec.Tags, t)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.user_id, i.name, i.created_at, i.updated_at
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1::uuid[])
		ORDER BY i.name
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID string
		var ing entity.Ingredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			rows.Close()
			return err
		}
		if rec, ok := index[recipeID]; ok {
			rec.Ingredients = append(rec.Ingredients, ing)
		}
	}
	rows.Close()
	return rows.Err()
}

var _ repository.RecipeRepository = (*RecipeRepository)(nil)
