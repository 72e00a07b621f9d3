package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipebox/recipebox/internal/domain/entity"
	"github.com/recipebox/recipebox/internal/domain/repository"
)

// catalogStore holds the SQL shared by tags and ingredients; the two tables
// are identical in shape and differ only in name.
type catalogStore struct {
	pool *pgxpool.Pool
	t    assocTables
}

type catalogRow struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *catalogStore) list(ctx context.Context, userID string, assignedOnly bool) ([]catalogRow, error) {
	q := fmt.Sprintf(`SELECT c.id, c.user_id, c.name, c.created_at, c.updated_at FROM %s c WHERE c.user_id = $1`, s.t.table)
	if assignedOnly {
		q += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM %s j WHERE j.%s = c.id)`, s.t.junction, s.t.fk)
	}
	q += ` ORDER BY c.name DESC`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalogRow, 0)
	for rows.Next() {
		var r catalogRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *catalogStore) getOrCreate(ctx context.Context, userID, name string) (*catalogRow, error) {
	var r catalogRow
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, name) VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, user_id, name, created_at, updated_at
	`, s.t.table), userID, name)
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapWriteError(err)
	}
	return &r, nil
}

func (s *catalogStore) rename(ctx context.Context, userID, id, name string) (*catalogRow, error) {
	var r catalogRow
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET name = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, created_at, updated_at
	`, s.t.table), id, userID, name)
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapWriteError(err)
	}
	return &r, nil
}

func (s *catalogStore) delete(ctx context.Context, userID, id string) error {
	res, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, s.t.table), id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type TagRepository struct {
	store catalogStore
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{store: catalogStore{pool: pool, t: tagAssoc}}
}

func (r *TagRepository) List(ctx context.Context, userID string, assignedOnly bool) ([]entity.Tag, error) {
	rows, err := r.store.list(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}
	tags := make([]entity.Tag, len(rows))
	for i, row := range rows {
		tags[i] = entity.Tag(row)
	}
	return tags, nil
}

func (r *TagRepository) GetOrCreate(ctx context.Context, userID, name string) (*entity.Tag, error) {
	row, err := r.store.getOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	t := entity.Tag(*row)
	return &t, nil
}

func (r *TagRepository) Rename(ctx context.Context, userID, id, name string) (*entity.Tag, error) {
	row, err := r.store.rename(ctx, userID, id, name)
	if err != nil {
		return nil, err
	}
	t := entity.Tag(*row)
	return &t, nil
}

func (r *TagRepository) Delete(ctx context.Context, userID, id string) error {
	return r.store.delete(ctx, userID, id)
}

type IngredientRepository struct {
	store catalogStore
}

func NewIngredientRepository(pool *pgxpool.Pool) *IngredientRepository {
	return &IngredientRepository{store: catalogStore{pool: pool, t: ingredientAssoc}}
}

func (r *IngredientRepository) List(ctx context.Context, userID string, assignedOnly bool) ([]entity.Ingredient, error) {
	rows, err := r.store.list(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}
	ingredients := make([]entity.Ingredient, len(rows))
	for i, row := range rows {
		ingredients[i] = entity.Ingredient(row)
	}
	return ingredients, nil
}

func (r *IngredientRepository) GetOrCreate(ctx context.Context, userID, name string) (*entity.Ingredient, error) {
	row, err := r.store.getOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	ing := entity.Ingredient(*row)
	return &ing, nil
}

func (r *IngredientRepository) Rename(ctx context.Context, userID, id, name string) (*entity.Ingredient, error) {
	row, err := r.store.rename(ctx, userID, id, name)
	if err != nil {
		return nil, err
	}
	ing := entity.Ingredient(*row)
	return &ing, nil
}

func (r *IngredientRepository) Delete(ctx context.Context, userID, id string) error {
	return r.store.delete(ctx, userID, id)
}

var (
	_ repository.TagRepository        = (*TagRepository)(nil)
	_ repository.IngredientRepository = (*IngredientRepository)(nil)
)
