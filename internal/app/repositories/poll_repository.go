package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var pollColumns = []string{"id", "group_id", "creator_id", "question", "is_multi", "closes_at", "created_at"}

// PollRepository handles database operations for polls, options and votes
type PollRepository struct {
	db *pgxpool.Pool
}

// NewPollRepository creates a new PollRepository
func NewPollRepository(db *pgxpool.Pool) *PollRepository {
	return &PollRepository{db: db}
}

func scanPoll(row pgx.Row) (*models.Poll, error) {
	var p models.Poll
	if err := row.Scan(&p.ID, &p.GroupID, &p.CreatorID, &p.Question, &p.IsMulti, &p.ClosesAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPollOption(row pgx.Row) (*models.PollOption, error) {
	var o models.PollOption
	if err := row.Scan(&o.ID, &o.PollID, &o.Label, &o.Position); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateWithMarker inserts the poll, its options in order and the chat marker message in one transaction
func (r *PollRepository) CreateWithMarker(ctx context.Context, p *models.Poll, labels []string, marker *models.Message) ([]*models.PollOption, error) {
	var options []*models.PollOption
	err := withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO polls (group_id, creator_id, question, is_multi, closes_at) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
			p.GroupID, p.CreatorID, p.Question, p.IsMulti, p.ClosesAt,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}

		options = make([]*models.PollOption, 0, len(labels))
		for i, label := range labels {
			opt := &models.PollOption{PollID: p.ID, Label: label, Position: i}
			err := tx.QueryRow(ctx,
				`INSERT INTO poll_options (poll_id, label, position) VALUES ($1, $2, $3) RETURNING id`,
				p.ID, label, i,
			).Scan(&opt.ID)
			if err != nil {
				return fmt.Errorf("error executing query: %w", err)
			}
			options = append(options, opt)
		}

		marker.GroupID = p.GroupID
		marker.SenderID = p.CreatorID
		marker.Content = models.PollMarkerFor(p.ID)
		return insertMessage(ctx, tx, marker)
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}

// FindByID retrieves a poll by id
func (r *PollRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	sql, args, err := psql.Select(pollColumns...).From("polls").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	p, err := scanPoll(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GetByIDs batch-loads polls
func (r *PollRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Poll, error) {
	out := make(map[uuid.UUID]*models.Poll, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	polls, err := collect(ctx, r.db, psql.Select(pollColumns...).From("polls").Where(squirrel.Eq{"id": ids}), scanPoll)
	if err != nil {
		return nil, err
	}
	for _, p := range polls {
		out[p.ID] = p
	}
	return out, nil
}

// ListByGroup returns a group's polls, newest first
func (r *PollRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Poll, error) {
	query := psql.Select(pollColumns...).From("polls").Where(squirrel.Eq{"group_id": groupID}).OrderBy("created_at DESC")
	return collect(ctx, r.db, query, scanPoll)
}

// OptionsByPollIDs batch-loads options, ordered by position
func (r *PollRepository) OptionsByPollIDs(ctx context.Context, pollIDs []uuid.UUID) (map[uuid.UUID][]*models.PollOption, error) {
	out := make(map[uuid.UUID][]*models.PollOption, len(pollIDs))
	if len(pollIDs) == 0 {
		return out, nil
	}
	query := psql.Select("id", "poll_id", "label", "position").From("poll_options").
		Where(squirrel.Eq{"poll_id": pollIDs}).
		OrderBy("poll_id", "position")
	options, err := collect(ctx, r.db, query, scanPollOption)
	if err != nil {
		return nil, err
	}
	for _, o := range options {
		out[o.PollID] = append(out[o.PollID], o)
	}
	return out, nil
}

// Votes batch-loads every vote of the given polls
func (r *PollRepository) Votes(ctx context.Context, pollIDs []uuid.UUID) ([]models.PollVote, error) {
	if len(pollIDs) == 0 {
		return nil, nil
	}
	query := psql.Select("poll_id", "option_id", "voter_id").From("poll_votes").Where(squirrel.Eq{"poll_id": pollIDs})
	return collect(ctx, r.db, query, func(row pgx.Row) (models.PollVote, error) {
		var v models.PollVote
		err := row.Scan(&v.PollID, &v.OptionID, &v.VoterID)
		return v, err
	})
}

// lockVoterSQL serialises one voter's toggles on one poll until the transaction ends.
const lockVoterSQL = `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`

// ToggleVote removes the voter's vote on optionID when present. Otherwise it adds it,
// first clearing the voter's other votes when the poll is single-choice.
func (r *PollRepository) ToggleVote(ctx context.Context, p *models.Poll, optionID, voterID uuid.UUID) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return toggleVote(ctx, tx, p, optionID, voterID)
	})
}

func toggleVote(ctx context.Context, q querier, p *models.Poll, optionID, voterID uuid.UUID) error {
	if _, err := q.Exec(ctx, lockVoterSQL, p.ID.String(), voterID.String()); err != nil {
		return fmt.Errorf("error locking vote: %w", err)
	}

	tag, err := q.Exec(ctx,
		`DELETE FROM poll_votes WHERE poll_id = $1 AND option_id = $2 AND voter_id = $3`,
		p.ID, optionID, voterID,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if !p.IsMulti {
		if _, err := q.Exec(ctx, `DELETE FROM poll_votes WHERE poll_id = $1 AND voter_id = $2`, p.ID, voterID); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
	}

	_, err = q.Exec(ctx,
		`INSERT INTO poll_votes (poll_id, option_id, voter_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		p.ID, optionID, voterID,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Delete removes a poll and its chat marker
func (r *PollRepository) Delete(ctx context.Context, p *models.Poll) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM polls WHERE id = $1`, p.ID)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrResourceNotFound
		}
		_, err = tx.Exec(ctx, `DELETE FROM messages WHERE group_id = $1 AND content = $2`, p.GroupID, models.PollMarkerFor(p.ID))
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		return nil
	})
}
