package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var messageColumns = []string{
	"id", "group_id", "sender_id", "content", "location_subgroup_id", "age_subgroup_id",
	"is_pinned", "pinned_at", "pinned_by", "parent_message_id", "created_at", "edited_at",
}

// MessageFilter narrows a feed page
type MessageFilter struct {
	GroupID    uuid.UUID
	SubgroupID *uuid.UUID
	Before     *time.Time
	BeforeID   *uuid.UUID // tie-break for messages sharing Before
	Limit      int
}

// MessageRepository handles database operations for group chat messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID, &m.GroupID, &m.SenderID, &m.Content, &m.LocationSubgroupID, &m.AgeSubgroupID,
		&m.IsPinned, &m.PinnedAt, &m.PinnedBy, &m.ParentMessageID, &m.CreatedAt, &m.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func insertMessage(ctx context.Context, q querier, m *models.Message) error {
	err := q.QueryRow(ctx, `
		INSERT INTO messages (group_id, sender_id, content, location_subgroup_id, age_subgroup_id, parent_message_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		m.GroupID, m.SenderID, m.Content, m.LocationSubgroupID, m.AgeSubgroupID, m.ParentMessageID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return insertMessage(ctx, r.db, m)
}

// FindByID retrieves a message by id
func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	sql, args, err := psql.Select(messageColumns...).From("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	m, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// ListTopLevel returns top-level messages newest first. A subgroup filter matches
// either the location or the age partition.
func (r *MessageRepository) ListTopLevel(ctx context.Context, f MessageFilter) ([]*models.Message, error) {
	return collect(ctx, r.db, topLevelQuery(f), scanMessage)
}

func topLevelQuery(f MessageFilter) squirrel.SelectBuilder {
	query := psql.Select(messageColumns...).From("messages").
		Where(squirrel.Eq{"group_id": f.GroupID, "parent_message_id": nil})
	if f.SubgroupID != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"location_subgroup_id": *f.SubgroupID},
			squirrel.Eq{"age_subgroup_id": *f.SubgroupID},
		})
	}
	switch {
	case f.Before != nil && f.BeforeID != nil:
		query = query.Where(squirrel.Expr("(created_at, id) < (?, ?)", *f.Before, *f.BeforeID))
	case f.Before != nil:
		query = query.Where(squirrel.Lt{"created_at": *f.Before})
	}
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}
	return query.OrderBy("created_at DESC", "id DESC")
}

// ListReplies returns the replies of the given parents, oldest first
func (r *MessageRepository) ListReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*models.Message, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	query := psql.Select(messageColumns...).From("messages").
		Where(squirrel.Eq{"parent_message_id": parentIDs}).
		OrderBy("created_at", "id")
	return collect(ctx, r.db, query, scanMessage)
}

// ListPinned returns a group's pinned messages, most recently pinned first
func (r *MessageRepository) ListPinned(ctx context.Context, groupID uuid.UUID) ([]*models.Message, error) {
	query := psql.Select(messageColumns...).From("messages").
		Where(squirrel.Eq{"group_id": groupID, "is_pinned": true}).
		OrderBy("pinned_at DESC NULLS LAST")
	return collect(ctx, r.db, query, scanMessage)
}

// UpdateContent edits a message and stamps edited_at
func (r *MessageRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	n, err := exec(ctx, r.db, psql.Update("messages").
		Set("content", content).
		Set("edited_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// SetPinned pins (by is non-nil) or unpins a message
func (r *MessageRepository) SetPinned(ctx context.Context, id uuid.UUID, by *uuid.UUID) error {
	update := psql.Update("messages").Where(squirrel.Eq{"id": id})
	if by != nil {
		update = update.Set("is_pinned", true).Set("pinned_at", squirrel.Expr("now()")).Set("pinned_by", *by)
	} else {
		update = update.Set("is_pinned", false).Set("pinned_at", nil).Set("pinned_by", nil)
	}
	n, err := exec(ctx, r.db, update)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a message and its replies
func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, psql.Delete("messages").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
