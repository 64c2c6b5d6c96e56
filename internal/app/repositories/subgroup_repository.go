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

var subgroupColumns = []string{"id", "group_id", "name", "type", "created_by", "created_at"}

// SubgroupRepository handles database operations for chat subgroups
type SubgroupRepository struct {
	db *pgxpool.Pool
}

// NewSubgroupRepository creates a new SubgroupRepository
func NewSubgroupRepository(db *pgxpool.Pool) *SubgroupRepository {
	return &SubgroupRepository{db: db}
}

func scanSubgroup(row pgx.Row) (*models.Subgroup, error) {
	var s models.Subgroup
	if err := row.Scan(&s.ID, &s.GroupID, &s.Name, &s.Type, &s.CreatedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a subgroup
func (r *SubgroupRepository) Create(ctx context.Context, s *models.Subgroup) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO subgroups (group_id, name, type, created_by) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		s.GroupID, s.Name, string(s.Type), s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// ListByGroup returns a group's subgroups by type then name
func (r *SubgroupRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Subgroup, error) {
	query := psql.Select(subgroupColumns...).From("subgroups").Where(squirrel.Eq{"group_id": groupID}).OrderBy("type", "name")
	return collect(ctx, r.db, query, scanSubgroup)
}

// FindByID retrieves a subgroup by id
func (r *SubgroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subgroup, error) {
	sql, args, err := psql.Select(subgroupColumns...).From("subgroups").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	s, err := scanSubgroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}
