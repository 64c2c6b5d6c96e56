package services

import (
	"context"
	"errors"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminService backs the moderation panel
type AdminService interface {
	ListPending(ctx context.Context, viewer models.Viewer) (*dto.PendingResponse, error)
	ApproveGroup(ctx context.Context, id uuid.UUID, viewer models.Viewer) error
	DeleteGroup(ctx context.Context, id uuid.UUID, viewer models.Viewer) error
	ListContactMessages(ctx context.Context, viewer models.Viewer, kind *models.ContactKind, page, pageSize int) ([]*models.ContactMessage, dto.PaginationInfo, error)
	MarkContactHandled(ctx context.Context, id uuid.UUID, viewer models.Viewer) error
	ActivateHost(ctx context.Context, profileID uuid.UUID, viewer models.Viewer) error
}

type adminServiceImpl struct {
	groups   groupStore
	events   eventStore
	contacts contactStore
	profiles profileStore
	views    *viewBuilder
	logger   zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(groups groupStore, events eventStore, contacts contactStore, profiles profileStore, views *viewBuilder, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		groups:   groups,
		events:   events,
		contacts: contacts,
		profiles: profiles,
		views:    views,
		logger:   logger,
	}
}

// ListPending returns unapproved groups and events with their creators
func (s *adminServiceImpl) ListPending(ctx context.Context, viewer models.Viewer) (*dto.PendingResponse, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	groups, err := s.groups.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.PendingResponse{}
	if resp.Groups, err = s.views.groupSummaries(ctx, groups); err != nil {
		return nil, err
	}
	if resp.Events, err = s.views.eventViews(ctx, events, viewer); err != nil {
		return nil, err
	}
	return resp, nil
}

func notFoundAs(err error, message string) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}

func (s *adminServiceImpl) ApproveGroup(ctx context.Context, id uuid.UUID, viewer models.Viewer) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if err := s.groups.Approve(ctx, id); err != nil {
		return notFoundAs(err, "group not found")
	}
	s.logger.Info().Str("groupID", id.String()).Str("adminID", viewer.ID.String()).Msg("Group approved")
	return nil
}

func (s *adminServiceImpl) DeleteGroup(ctx context.Context, id uuid.UUID, viewer models.Viewer) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		return notFoundAs(err, "group not found")
	}
	s.logger.Info().Str("groupID", id.String()).Str("adminID", viewer.ID.String()).Msg("Group deleted")
	return nil
}

func (s *adminServiceImpl) ListContactMessages(ctx context.Context, viewer models.Viewer, kind *models.ContactKind, page, pageSize int) ([]*models.ContactMessage, dto.PaginationInfo, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	if kind != nil && !kind.Valid() {
		return nil, dto.PaginationInfo{}, apperrors.NewBadRequestError("unknown contact kind")
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	items, total, err := s.contacts.List(ctx, kind, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	if items == nil {
		items = []*models.ContactMessage{}
	}
	return items, helpers.NewPaginationInfo(total, page, pageSize), nil
}

func (s *adminServiceImpl) MarkContactHandled(ctx context.Context, id uuid.UUID, viewer models.Viewer) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	return notFoundAs(s.contacts.MarkHandled(ctx, id), "contact message not found")
}

// ActivateHost turns on hosting for a profile after a host activation request
func (s *adminServiceImpl) ActivateHost(ctx context.Context, profileID uuid.UUID, viewer models.Viewer) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if err := s.profiles.SetHost(ctx, profileID, true); err != nil {
		return notFoundAs(err, "profile not found")
	}
	s.logger.Info().Str("profileID", profileID.String()).Msg("Hosting activated")
	return nil
}
