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

// AttendeeRepository handles database operations for event RSVPs
type AttendeeRepository struct {
	db *pgxpool.Pool
}

// NewAttendeeRepository creates a new AttendeeRepository
func NewAttendeeRepository(db *pgxpool.Pool) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// Toggle adds the RSVP when absent and removes it when present
func (r *AttendeeRepository) Toggle(ctx context.Context, eventID, profileID uuid.UUID) error {
	return withTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO event_attendees (event_id, profile_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			eventID, profileID,
		)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM event_attendees WHERE event_id = $1 AND profile_id = $2`, eventID, profileID); err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
		return nil
	})
}

// States batch-loads attendee counts and whether viewerID attends each event
func (r *AttendeeRepository) States(ctx context.Context, eventIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]models.AttendanceState, error) {
	states := make(map[uuid.UUID]models.AttendanceState, len(eventIDs))
	if len(eventIDs) == 0 {
		return states, nil
	}

	query := psql.Select("event_id", "COUNT(*)").
		Column(squirrel.Expr("BOOL_OR(profile_id = ?)", viewerID)).
		From("event_attendees").
		Where(squirrel.Eq{"event_id": eventIDs}).
		GroupBy("event_id")

	type row struct {
		id    uuid.UUID
		state models.AttendanceState
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

// EventIDsAttendedBy returns the events a profile RSVP'd to
func (r *AttendeeRepository) EventIDsAttendedBy(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	return collect(ctx, r.db, psql.Select("event_id").From("event_attendees").Where(squirrel.Eq{"profile_id": profileID}), scanUUID)
}
