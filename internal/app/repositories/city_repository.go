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

var cityColumns = []string{"id", "name", "slug", "is_active", "created_at"}

// CityRepository handles database operations for cities
type CityRepository struct {
	db *pgxpool.Pool
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(db *pgxpool.Pool) *CityRepository {
	return &CityRepository{db: db}
}

func scanCity(row pgx.Row) (*models.City, error) {
	var c models.City
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActive returns active cities ordered by name
func (r *CityRepository) ListActive(ctx context.Context) ([]*models.City, error) {
	query := psql.Select(cityColumns...).From("cities").Where("is_active").OrderBy("name")
	return collect(ctx, r.db, query, scanCity)
}

// FindBySlug retrieves a city by its slug
func (r *CityRepository) FindBySlug(ctx context.Context, slug string) (*models.City, error) {
	sql, args, err := psql.Select(cityColumns...).From("cities").Where(squirrel.Eq{"slug": slug}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	city, err := scanCity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return city, nil
}

// GetByIDs batch-loads cities
func (r *CityRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.City, error) {
	out := make(map[uuid.UUID]*models.City, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cities, err := collect(ctx, r.db, psql.Select(cityColumns...).From("cities").Where(squirrel.Eq{"id": ids}), scanCity)
	if err != nil {
		return nil, err
	}
	for _, c := range cities {
		out[c.ID] = c
	}
	return out, nil
}

// Upsert creates a city or refreshes its name, keyed by slug
func (r *CityRepository) Upsert(ctx context.Context, name, slug string) (*models.City, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO cities (name, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, is_active, created_at`, name, slug)
	city, err := scanCity(row)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return city, nil
}
