package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository handles the shared contact inbox
type ContactRepository struct {
	db *pgxpool.Pool
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts an inbox row
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO contact_messages (kind, name, email, message, profile_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		string(m.Kind), m.Name, m.Email, m.Message, m.ProfileID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// List returns a page of the inbox, newest first, optionally filtered by kind
func (r *ContactRepository) List(ctx context.Context, kind *models.ContactKind, offset uint64, limit int) ([]*models.ContactMessage, int64, error) {
	where := squirrel.And{}
	if kind != nil {
		where = append(where, squirrel.Eq{"kind": string(*kind)})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("contact_messages").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}

	query := psql.Select("id", "kind", "name", "email", "message", "profile_id", "created_at", "handled_at").
		From("contact_messages").
		Where(where).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit))
	items, err := collect(ctx, r.db, query, func(row pgx.Row) (*models.ContactMessage, error) {
		var m models.ContactMessage
		err := row.Scan(&m.ID, &m.Kind, &m.Name, &m.Email, &m.Message, &m.ProfileID, &m.CreatedAt, &m.HandledAt)
		return &m, err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MarkHandled stamps an inbox row as dealt with
func (r *ContactRepository) MarkHandled(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, psql.Update("contact_messages").
		Set("handled_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// WaitlistRepository handles coming-soon signups
type WaitlistRepository struct {
	db *pgxpool.Pool
}

// NewWaitlistRepository creates a new WaitlistRepository
func NewWaitlistRepository(db *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Add stores an email; a duplicate (ignoring case) returns ErrAlreadyOnList
func (r *WaitlistRepository) Add(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{Email: strings.TrimSpace(email)}
	err := r.db.QueryRow(ctx,
		`INSERT INTO waitlist (email) VALUES ($1) RETURNING id, created_at`, entry.Email,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyOnList
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return entry, nil
}
