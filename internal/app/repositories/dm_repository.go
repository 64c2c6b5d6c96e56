package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DMRepository handles database operations for direct message threads
type DMRepository struct {
	db *pgxpool.Pool
}

// NewDMRepository creates a new DMRepository
func NewDMRepository(db *pgxpool.Pool) *DMRepository {
	return &DMRepository{db: db}
}

func scanThread(row pgx.Row) (*models.DMThread, error) {
	var t models.DMThread
	if err := row.Scan(&t.ID, &t.PairKey, &t.CreatedAt, &t.LastMessageAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanDirectMessage(row pgx.Row) (models.DirectMessage, error) {
	var m models.DirectMessage
	err := row.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.CreatedAt, &m.ReadAt)
	return m, err
}

// GetOrCreateThread returns the thread between a and b, creating it with both participants when missing
func (r *DMRepository) GetOrCreateThread(ctx context.Context, a, b uuid.UUID) (*models.DMThread, error) {
	key := models.PairKey(a, b)
	var thread *models.DMThread

	err := withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		created, err := scanThread(tx.QueryRow(ctx, `
			INSERT INTO dm_threads (pair_key) VALUES ($1)
			ON CONFLICT (pair_key) DO NOTHING
			RETURNING id, pair_key, created_at, last_message_at`, key))
		if err == nil {
			_, err = tx.Exec(ctx,
				`INSERT INTO dm_participants (thread_id, profile_id) VALUES ($1, $2), ($1, $3)`,
				created.ID, a, b,
			)
			if err != nil {
				return fmt.Errorf("error executing query: %w", err)
			}
			thread = created
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("error executing query: %w", err)
		}

		existing, err := scanThread(tx.QueryRow(ctx,
			`SELECT id, pair_key, created_at, last_message_at FROM dm_threads WHERE pair_key = $1`, key))
		if err != nil {
			return notFound(err)
		}
		thread = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// OtherParticipant returns the profile on the other side of a thread. It fails with
// ErrPermissionDenied when me is not a participant.
func (r *DMRepository) OtherParticipant(ctx context.Context, threadID, me uuid.UUID) (uuid.UUID, error) {
	ids, err := collect(ctx, r.db,
		psql.Select("profile_id").From("dm_participants").Where(squirrel.Eq{"thread_id": threadID}),
		scanUUID)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, apperrors.ErrResourceNotFound
	}

	other, isParticipant := uuid.Nil, false
	for _, id := range ids {
		if id == me {
			isParticipant = true
		} else {
			other = id
		}
	}
	if !isParticipant {
		return uuid.Nil, apperrors.ErrPermissionDenied
	}
	return other, nil
}

// ListSummaries returns the inbox of a profile, most recent activity first
func (r *DMRepository) ListSummaries(ctx context.Context, profileID uuid.UUID) ([]models.DMThreadSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.pair_key, t.created_at, t.last_message_at, other.profile_id,
			lm.id, lm.sender_id, lm.content, lm.created_at, lm.read_at,
			(SELECT COUNT(*) FROM direct_messages u
				WHERE u.thread_id = t.id AND u.sender_id <> $1 AND u.read_at IS NULL)
		FROM dm_participants me
		JOIN dm_threads t ON t.id = me.thread_id
		JOIN dm_participants other ON other.thread_id = t.id AND other.profile_id <> me.profile_id
		LEFT JOIN LATERAL (
			SELECT d.id, d.sender_id, d.content, d.created_at, d.read_at
			FROM direct_messages d WHERE d.thread_id = t.id
			ORDER BY d.created_at DESC LIMIT 1
		) lm ON TRUE
		WHERE me.profile_id = $1
		ORDER BY COALESCE(t.last_message_at, t.created_at) DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var summaries []models.DMThreadSummary
	for rows.Next() {
		var (
			s         models.DMThreadSummary
			lastID    *uuid.UUID
			senderID  *uuid.UUID
			content   *string
			createdAt *time.Time
			readAt    *time.Time
		)
		err := rows.Scan(
			&s.Thread.ID, &s.Thread.PairKey, &s.Thread.CreatedAt, &s.Thread.LastMessageAt, &s.OtherID,
			&lastID, &senderID, &content, &createdAt, &readAt,
			&s.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if lastID != nil {
			s.LastMessage = &models.DirectMessage{
				ID:        *lastID,
				ThreadID:  s.Thread.ID,
				SenderID:  *senderID,
				Content:   *content,
				CreatedAt: *createdAt,
				ReadAt:    readAt,
			}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return summaries, nil
}

// ListMessages returns a thread's messages oldest first
func (r *DMRepository) ListMessages(ctx context.Context, threadID uuid.UUID) ([]models.DirectMessage, error) {
	query := psql.Select("id", "thread_id", "sender_id", "content", "created_at", "read_at").
		From("direct_messages").
		Where(squirrel.Eq{"thread_id": threadID}).
		OrderBy("created_at", "id")
	return collect(ctx, r.db, query, scanDirectMessage)
}

// MarkRead stamps every unread message not sent by reader
func (r *DMRepository) MarkRead(ctx context.Context, threadID, reader uuid.UUID) error {
	_, err := exec(ctx, r.db, psql.Update("direct_messages").
		Set("read_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"thread_id": threadID, "read_at": nil}).
		Where(squirrel.NotEq{"sender_id": reader}))
	return err
}

// Send inserts a message and bumps the thread's activity time
func (r *DMRepository) Send(ctx context.Context, m *models.DirectMessage) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO direct_messages (thread_id, sender_id, content) VALUES ($1, $2, $3) RETURNING id, created_at`,
			m.ThreadID, m.SenderID, m.Content,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE dm_threads SET last_message_at = $2 WHERE id = $1`, m.ThreadID, m.CreatedAt); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		return nil
	})
}
