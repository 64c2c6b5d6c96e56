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

var eventColumns = []string{
	"id", "group_id", "creator_id", "title", "description", "location", "starts_at", "cover_image_url",
	"is_approved", "is_cancelled", "latitude", "longitude", "created_at", "updated_at",
}

// EventFilter narrows a group's event list
type EventFilter struct {
	GroupID      uuid.UUID
	Viewer       models.Viewer
	UpcomingFrom *time.Time
}

// EventRepository handles database operations for community events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.CommunityEvent, error) {
	var e models.CommunityEvent
	err := row.Scan(
		&e.ID, &e.GroupID, &e.CreatorID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.CoverImageURL,
		&e.IsApproved, &e.IsCancelled, &e.Latitude, &e.Longitude, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an unapproved event
func (r *EventRepository) Create(ctx context.Context, e *models.CommunityEvent) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO community_events (group_id, creator_id, title, description, location, starts_at, cover_image_url, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, is_approved, is_cancelled, created_at, updated_at`,
		e.GroupID, e.CreatorID, e.Title, e.Description, e.Location, e.StartsAt, e.CoverImageURL, e.Latitude, e.Longitude,
	).Scan(&e.ID, &e.IsApproved, &e.IsCancelled, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// FindByID retrieves an event by id
func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CommunityEvent, error) {
	sql, args, err := psql.Select(eventColumns...).From("community_events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// GetByIDs batch-loads events ordered by start time
func (r *EventRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.CommunityEvent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := psql.Select(eventColumns...).From("community_events").Where(squirrel.Eq{"id": ids}).OrderBy("starts_at")
	return collect(ctx, r.db, query, scanEvent)
}

// ListByGroup applies the approval gate for the viewer
func (r *EventRepository) ListByGroup(ctx context.Context, f EventFilter) ([]*models.CommunityEvent, error) {
	query := psql.Select(eventColumns...).From("community_events").Where(squirrel.Eq{"group_id": f.GroupID})
	if !f.Viewer.IsAdmin {
		visibility := squirrel.Or{squirrel.Eq{"is_approved": true}}
		if f.Viewer.Authenticated {
			visibility = append(visibility, squirrel.Eq{"creator_id": f.Viewer.ID})
		}
		query = query.Where(visibility)
	}
	if f.UpcomingFrom != nil {
		query = query.Where(squirrel.GtOrEq{"starts_at": *f.UpcomingFrom})
	}
	return collect(ctx, r.db, query.OrderBy("starts_at"), scanEvent)
}

// ListPending returns events waiting for approval, oldest first
func (r *EventRepository) ListPending(ctx context.Context) ([]*models.CommunityEvent, error) {
	query := psql.Select(eventColumns...).From("community_events").Where(squirrel.Eq{"is_approved": false}).OrderBy("created_at")
	return collect(ctx, r.db, query, scanEvent)
}

// IDsCreatedBy returns the events a profile created
func (r *EventRepository) IDsCreatedBy(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	return collect(ctx, r.db, psql.Select("id").From("community_events").Where(squirrel.Eq{"creator_id": profileID}), scanUUID)
}

// Update writes the editable fields of an event
func (r *EventRepository) Update(ctx context.Context, e *models.CommunityEvent) error {
	n, err := exec(ctx, r.db, psql.Update("community_events").
		Set("title", e.Title).
		Set("description", e.Description).
		Set("location", e.Location).
		Set("starts_at", e.StartsAt).
		Set("cover_image_url", e.CoverImageURL).
		Set("latitude", e.Latitude).
		Set("longitude", e.Longitude).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": e.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func (r *EventRepository) setFlag(ctx context.Context, id uuid.UUID, column string) error {
	n, err := exec(ctx, r.db, psql.Update("community_events").
		Set(column, true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Approve marks an event as approved
func (r *EventRepository) Approve(ctx context.Context, id uuid.UUID) error {
	return r.setFlag(ctx, id, "is_approved")
}

// Cancel marks an event as cancelled
func (r *EventRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.setFlag(ctx, id, "is_cancelled")
}

// Delete removes an event and its attendance rows
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.db, psql.Delete("community_events").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
