package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberRepository handles database operations for group membership
type MemberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Add inserts a membership row; joining twice is a no-op
func (r *MemberRepository) Add(ctx context.Context, groupID, profileID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO group_members (group_id, profile_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		groupID, profileID,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Remove deletes a membership row
func (r *MemberRepository) Remove(ctx context.Context, groupID, profileID uuid.UUID) error {
	_, err := exec(ctx, r.db, psql.Delete("group_members").Where(squirrel.Eq{"group_id": groupID, "profile_id": profileID}))
	return err
}

// IsMember checks if a profile belongs to a group
func (r *MemberRepository) IsMember(ctx context.Context, groupID, profileID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND profile_id = $2)`,
		groupID, profileID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// CountsByGroupIDs returns member counts in one grouped query
func (r *MemberRepository) CountsByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	query := psql.Select("group_id", "COUNT(*)").
		From("group_members").
		Where(squirrel.Eq{"group_id": groupIDs}).
		GroupBy("group_id")

	type row struct {
		id    uuid.UUID
		count int
	}
	rows, err := collect(ctx, r.db, query, func(s pgx.Row) (row, error) {
		var out row
		err := s.Scan(&out.id, &out.count)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.id] = rw.count
	}
	return counts, nil
}

// ListMemberIDs returns the profile ids of a group, earliest members first
func (r *MemberRepository) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	query := psql.Select("profile_id").From("group_members").Where(squirrel.Eq{"group_id": groupID}).OrderBy("joined_at")
	return collect(ctx, r.db, query, scanUUID)
}

func scanUUID(row pgx.Row) (uuid.UUID, error) {
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
