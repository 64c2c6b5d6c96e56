package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const groupSlugConstraint = "groups_city_category_slug_key"

var groupColumns = []string{
	"id", "slug", "name", "description", "cover_image_url", "is_approved",
	"category_id", "city_id", "creator_id", "created_at",
}

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	err := row.Scan(
		&g.ID, &g.Slug, &g.Name, &g.Description, &g.CoverImageURL, &g.IsApproved,
		&g.CategoryID, &g.CityID, &g.CreatorID, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Group, error) {
	sql, args, err := psql.Select(groupColumns...).From("groups").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	group, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return group, nil
}

// FindByID retrieves a group by id
func (r *GroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindBySlug retrieves a group by its (city, category, slug) key
func (r *GroupRepository) FindBySlug(ctx context.Context, cityID, categoryID uuid.UUID, slug string) (*models.Group, error) {
	return r.findOne(ctx, squirrel.Eq{"city_id": cityID, "category_id": categoryID, "slug": slug})
}

// GetByIDs batch-loads groups
func (r *GroupRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Group, error) {
	out := make(map[uuid.UUID]*models.Group, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	groups, err := collect(ctx, r.db, psql.Select(groupColumns...).From("groups").Where(squirrel.Eq{"id": ids}), scanGroup)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		out[g.ID] = g
	}
	return out, nil
}

// ListVisible returns the groups of a city/category that the viewer may see:
// approved ones, the viewer's own pending ones, and every pending one for admins.
func (r *GroupRepository) ListVisible(ctx context.Context, cityID, categoryID uuid.UUID, viewer models.Viewer) ([]*models.Group, error) {
	visibility := squirrel.Or{squirrel.Eq{"is_approved": true}}
	if viewer.IsAdmin {
		visibility = squirrel.Or{squirrel.Expr("TRUE")}
	} else if viewer.Authenticated {
		visibility = append(visibility, squirrel.Eq{"creator_id": viewer.ID})
	}

	query := psql.Select(groupColumns...).From("groups").
		Where(squirrel.Eq{"city_id": cityID, "category_id": categoryID}).
		Where(visibility).
		OrderBy("is_approved DESC", "created_at DESC")
	return collect(ctx, r.db, query, scanGroup)
}

// ListPending returns groups waiting for approval, oldest first
func (r *GroupRepository) ListPending(ctx context.Context) ([]*models.Group, error) {
	query := psql.Select(groupColumns...).From("groups").Where(squirrel.Eq{"is_approved": false}).OrderBy("created_at")
	return collect(ctx, r.db, query, scanGroup)
}

// ListByMember returns the approved groups a profile belongs to
func (r *GroupRepository) ListByMember(ctx context.Context, profileID uuid.UUID) ([]*models.Group, error) {
	cols := make([]string, len(groupColumns))
	for i, c := range groupColumns {
		cols[i] = "g." + c
	}
	query := psql.Select(cols...).From("groups g").
		Join("group_members gm ON gm.group_id = g.id").
		Where(squirrel.Eq{"gm.profile_id": profileID}).
		OrderBy("gm.joined_at DESC")
	return collect(ctx, r.db, query, scanGroup)
}

// SlugExists reports whether slug is taken inside a city/category
func (r *GroupRepository) SlugExists(ctx context.Context, cityID, categoryID uuid.UUID, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE city_id = $1 AND category_id = $2 AND slug = $3)`,
		cityID, categoryID, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// Create inserts an unapproved group and makes its creator the first member
func (r *GroupRepository) Create(ctx context.Context, g *models.Group) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO groups (slug, name, description, cover_image_url, is_approved, category_id, city_id, creator_id)
			VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7)
			RETURNING id, created_at`,
			g.Slug, g.Name, g.Description, g.CoverImageURL, g.CategoryID, g.CityID, g.CreatorID,
		).Scan(&g.ID, &g.CreatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, groupSlugConstraint) {
				return apperrors.NewConflictError("A group with this name already exists here")
			}
			return fmt.Errorf("error executing query: %w", err)
		}
		g.IsApproved = false

		_, err = tx.Exec(ctx,
			`INSERT INTO group_members (group_id, profile_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			g.ID, g.CreatorID,
		)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		return nil
	})
}

// Approve marks a group as approved
func (r *GroupRepository) Approve(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, psql.Update("groups").Set("is_approved", true).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a group and, through cascades, its chat and events
func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, psql.Delete("groups").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
