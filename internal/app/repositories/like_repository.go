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

// LikeRepository handles database operations for message likes
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle adds the like when absent and removes it when present
func (r *LikeRepository) Toggle(ctx context.Context, messageID, userID uuid.UUID) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO message_likes (message_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			messageID, userID,
		)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM message_likes WHERE message_id = $1 AND user_id = $2`, messageID, userID); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		return nil
	})
}

// States batch-loads like counts and whether viewerID liked each message
func (r *LikeRepository) States(ctx context.Context, messageIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]models.LikeState, error) {
	states := make(map[uuid.UUID]models.LikeState, len(messageIDs))
	if len(messageIDs) == 0 {
		return states, nil
	}

	query := psql.Select("message_id", "COUNT(*)").
		Column(squirrel.Expr("BOOL_OR(user_id = ?)", viewerID)).
		From("message_likes").
		Where(squirrel.Eq{"message_id": messageIDs}).
		GroupBy("message_id")

	type row struct {
		id    uuid.UUID
		state models.LikeState
	}
	rows, err := collect(ctx, r.db, query, func(s pgx.Row) (row, error) {
		var out row
		err := s.Scan(&out.id, &out.state.Count, &out.state.Mine)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		states[rw.id] = rw.state
	}
	return states, nil
}
