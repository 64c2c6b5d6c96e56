package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var categoryColumns = []string{"id", "name", "slug", "created_at"}

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every category ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	return collect(ctx, r.db, psql.Select(categoryColumns...).From("categories").OrderBy("name"), scanCategory)
}

// FindBySlug retrieves a category by its slug
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	sql, args, err := psql.Select(categoryColumns...).From("categories").Where(squirrel.Eq{"slug": slug}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	category, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return category, nil
}

// GetByIDs batch-loads categories
func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error) {
	out := make(map[uuid.UUID]*models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	categories, err := collect(ctx, r.db, psql.Select(categoryColumns...).From("categories").Where(squirrel.Eq{"id": ids}), scanCategory)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		out[c.ID] = c
	}
	return out, nil
}

// Upsert creates a category or refreshes its name, keyed by slug
func (r *CategoryRepository) Upsert(ctx context.Context, name, slug string) (*models.Category, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, created_at`, name, slug)
	category, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return category, nil
}
