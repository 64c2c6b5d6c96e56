package services

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/repositories"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/girlscollective/collective/internal/pkg/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventService handles community events and attendance
type EventService interface {
	CreateEvent(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.CreateEventRequest) (*dto.EventView, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer, req *dto.UpdateEventRequest) (*dto.EventView, error)
	CancelEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.EventView, error)
	DeleteEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) error
	ApproveEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.EventView, error)
	GetEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.EventView, error)
	ListGroupEvents(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, upcomingOnly bool) ([]dto.EventView, error)
	ToggleAttendance(ctx context.Context, eventID uuid.UUID, viewer models.Viewer) (*models.AttendanceState, error)
}

type eventServiceImpl struct {
	groups      groupStore
	members     memberStore
	events      eventStore
	attendees   attendeeStore
	views       *viewBuilder
	distributor worker.TaskDistributor
	adminURL    string
	logger      zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	groups groupStore,
	members memberStore,
	events eventStore,
	attendees attendeeStore,
	views *viewBuilder,
	distributor worker.TaskDistributor,
	adminURL string,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		groups:      groups,
		members:     members,
		events:      events,
		attendees:   attendees,
		views:       views,
		distributor: distributor,
		adminURL:    adminURL,
		logger:      logger,
	}
}

func (s *eventServiceImpl) view(ctx context.Context, e *models.CommunityEvent, viewer models.Viewer) (*dto.EventView, error) {
	views, err := s.views.eventViews(ctx, []*models.CommunityEvent{e}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.CreateEventRequest) (*dto.EventView, error) {
	g, err := visibleGroup(ctx, s.groups, groupID, viewer)
	if err != nil {
		return nil, err
	}
	if !g.IsApproved {
		return nil, apperrors.ErrGroupNotApproved
	}
	if err := requireMember(ctx, s.members, groupID, viewer); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewBadRequestError("event title is required")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, apperrors.NewBadRequestError("latitude and longitude must be set together")
	}

	e := &models.CommunityEvent{
		GroupID:       groupID,
		CreatorID:     viewer.ID,
		Title:         title,
		Description:   helpers.NullIfBlank(req.Description),
		Location:      helpers.NullIfBlank(req.Location),
		StartsAt:      req.StartsAt,
		CoverImageURL: helpers.NullIfBlank(req.CoverImageURL),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info().Str("eventID", e.ID.String()).Str("groupID", groupID.String()).Msg("Event created, pending approval")

	item := map[string]interface{}{
		"id":       e.ID,
		"title":    e.Title,
		"group":    g.Name,
		"startsAt": e.StartsAt,
	}
	if e.Location != nil {
		item["location"] = *e.Location
	}
	notice := notify.ApprovalNotice{Type: notify.TypeEvent, Item: item, AdminURL: s.adminURL}
	if err := s.distributor.DistributeTaskApprovalNotice(ctx, notice); err != nil {
		s.logger.Error().Err(err).Msg("Failed to enqueue approval notice")
	}

	return s.view(ctx, e, viewer)
}

// findEvent loads an event through the approval gate. Hidden events look missing.
func (s *eventServiceImpl) findEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*models.CommunityEvent, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("event not found")
		}
		return nil, err
	}
	if !viewer.CanSee(e.IsApproved, e.CreatorID) {
		return nil, apperrors.NewResourceNotFoundError("event not found")
	}
	return e, nil
}

// UpdateEvent is reserved to the creator
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer, req *dto.UpdateEventRequest) (*dto.EventView, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	e, err := s.findEvent(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(e.CreatorID) {
		return nil, apperrors.NewForbiddenError("only the creator can edit this event")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewBadRequestError("event title is required")
		}
		e.Title = title
	}
	if req.Description != nil {
		e.Description = helpers.NullIfBlank(req.Description)
	}
	if req.Location != nil {
		e.Location = helpers.NullIfBlank(req.Location)
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.CoverImageURL != nil {
		e.CoverImageURL = helpers.NullIfBlank(req.CoverImageURL)
	}
	if req.Latitude != nil || req.Longitude != nil {
		if (req.Latitude == nil) != (req.Longitude == nil) {
			return nil, apperrors.NewBadRequestError("latitude and longitude must be set together")
		}
		e.Latitude, e.Longitude = req.Latitude, req.Longitude
	}

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.view(ctx, e, viewer)
}

// CancelEvent is allowed to the creator and admins
func (s *eventServiceImpl) CancelEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.EventView, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	e, err := s.findEvent(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.CanModerate(e.CreatorID) {
		return nil, apperrors.NewForbiddenError("only the creator or an admin can cancel this event")
	}
	if err := s.events.Cancel(ctx, id); err != nil {
		return nil, err
	}
	e.IsCancelled = true
	return s.view(ctx, e, viewer)
}

// DeleteEvent is allowed to the creator and admins
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) error {
	if err := requireAuth(viewer); err != nil {
		return err
	}
	e, err := s.findEvent(ctx, id, viewer)
	if err != nil {
		return err
	}
	if !viewer.CanModerate(e.CreatorID) {
		return apperrors.NewForbiddenError("only the creator or an admin can delete this event")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("eventID", id.String()).Str("by", viewer.ID.String()).Msg("Event deleted")
	return nil
}

// ApproveEvent is reserved to admins
func (s *eventServiceImpl) ApproveEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.EventView, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	e, err := s.findEvent(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if err := s.events.Approve(ctx, id); err != nil {
		return nil, err
	}
	e.IsApproved = true
	return s.view(ctx, e, viewer)
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.EventView, error) {
	e, err := s.findEvent(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, e, viewer)
}

func (s *eventServiceImpl) ListGroupEvents(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, upcomingOnly bool) ([]dto.EventView, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	filter := repositories.EventFilter{GroupID: groupID, Viewer: viewer}
	if upcomingOnly {
		now := s.views.now()
		filter.UpcomingFrom = &now
	}
	events, err := s.events.ListByGroup(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views.eventViews(ctx, events, viewer)
}

// ToggleAttendance adds or removes the viewer's RSVP on an open event, then re-reads the counter
func (s *eventServiceImpl) ToggleAttendance(ctx context.Context, eventID uuid.UUID, viewer models.Viewer) (*models.AttendanceState, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	e, err := s.findEvent(ctx, eventID, viewer)
	if err != nil {
		return nil, err
	}
	if !e.OpenForAttendance() {
		return nil, apperrors.ErrEventClosed
	}
	if err := s.attendees.Toggle(ctx, eventID, viewer.ID); err != nil {
		return nil, err
	}

	states, err := s.attendees.States(ctx, []uuid.UUID{eventID}, viewer.ID)
	if err != nil {
		return nil, err
	}
	state := states[eventID]
	return &state, nil
}
