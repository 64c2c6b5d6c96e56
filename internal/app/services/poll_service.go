package services

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	minPollOptions = 2
	maxPollOptions = 10
)

// PollService handles polls and their votes
type PollService interface {
	CreatePoll(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.CreatePollRequest) (*dto.PollView, error)
	Vote(ctx context.Context, pollID uuid.UUID, viewer models.Viewer, optionID uuid.UUID) (*dto.PollView, error)
	GetPoll(ctx context.Context, pollID uuid.UUID, viewer models.Viewer) (*dto.PollView, error)
	ListPolls(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) ([]dto.PollView, error)
	DeletePoll(ctx context.Context, pollID uuid.UUID, viewer models.Viewer) error
}

type pollServiceImpl struct {
	groups    groupStore
	members   memberStore
	polls     pollStore
	views     *viewBuilder
	publisher Publisher
	logger    zerolog.Logger
}

// NewPollService creates a new PollService
func NewPollService(groups groupStore, members memberStore, polls pollStore, views *viewBuilder, publisher Publisher, logger zerolog.Logger) PollService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &pollServiceImpl{
		groups:    groups,
		members:   members,
		polls:     polls,
		views:     views,
		publisher: publisher,
		logger:    logger,
	}
}

func cleanOptions(options []string) ([]string, error) {
	out := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		key := strings.ToLower(o)
		if o == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	if len(out) < minPollOptions || len(out) > maxPollOptions {
		return nil, apperrors.NewBadRequestError("a poll needs between 2 and 10 distinct options")
	}
	return out, nil
}

func (s *pollServiceImpl) view(ctx context.Context, p *models.Poll, viewer models.Viewer) (*dto.PollView, error) {
	views, err := s.views.pollViews(ctx, []*models.Poll{p}, viewer)
	if err != nil {
		return nil, err
	}
	v := views[p.ID]
	return &v, nil
}

// CreatePoll stores the poll, its options and the POLL:<id> chat marker together
func (s *pollServiceImpl) CreatePoll(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.CreatePollRequest) (*dto.PollView, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.members, groupID, viewer); err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperrors.NewBadRequestError("poll question is required")
	}
	labels, err := cleanOptions(req.Options)
	if err != nil {
		return nil, err
	}
	if req.ClosesAt != nil && !req.ClosesAt.After(s.views.now()) {
		return nil, apperrors.NewBadRequestError("closing time must be in the future")
	}

	p := &models.Poll{
		GroupID:   groupID,
		CreatorID: viewer.ID,
		Question:  question,
		IsMulti:   req.IsMulti,
		ClosesAt:  req.ClosesAt,
	}
	marker := &models.Message{GroupID: groupID, SenderID: viewer.ID}
	if _, err := s.polls.CreateWithMarker(ctx, p, labels, marker); err != nil {
		return nil, err
	}

	s.logger.Info().Str("pollID", p.ID.String()).Str("groupID", groupID.String()).Msg("Poll created")

	if views, err := s.views.messageViews(ctx, groupID, []*models.Message{marker}, viewer); err == nil {
		s.publisher.Publish(groupID, websocket.EventMessageCreated, views[0].Public())
	} else {
		s.logger.Warn().Err(err).Msg("Failed to render poll marker for broadcast")
	}
	return s.view(ctx, p, viewer)
}

func (s *pollServiceImpl) findPoll(ctx context.Context, pollID uuid.UUID, viewer models.Viewer) (*models.Poll, error) {
	p, err := s.polls.FindByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("poll not found")
		}
		return nil, err
	}
	if _, err := visibleGroup(ctx, s.groups, p.GroupID, viewer); err != nil {
		return nil, err
	}
	return p, nil
}

// Vote toggles optionID for the viewer. On single-choice polls a new option replaces the old one.
func (s *pollServiceImpl) Vote(ctx context.Context, pollID uuid.UUID, viewer models.Viewer, optionID uuid.UUID) (*dto.PollView, error) {
	p, err := s.findPoll(ctx, pollID, viewer)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.members, p.GroupID, viewer); err != nil {
		return nil, err
	}
	if p.IsClosed(s.views.now()) {
		return nil, apperrors.ErrPollClosed
	}

	options, err := s.polls.OptionsByPollIDs(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	valid := false
	for _, o := range options[p.ID] {
		if o.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperrors.ErrInvalidOption
	}

	if err := s.polls.ToggleVote(ctx, p, optionID, viewer.ID); err != nil {
		return nil, err
	}

	view, err := s.view(ctx, p, viewer)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(p.GroupID, websocket.EventPollUpdated, view.Public())
	return view, nil
}

func (s *pollServiceImpl) GetPoll(ctx context.Context, pollID uuid.UUID, viewer models.Viewer) (*dto.PollView, error) {
	p, err := s.findPoll(ctx, pollID, viewer)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p, viewer)
}

func (s *pollServiceImpl) ListPolls(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) ([]dto.PollView, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	polls, err := s.polls.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	views, err := s.views.pollViews(ctx, polls, viewer)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PollView, 0, len(polls))
	for _, p := range polls {
		out = append(out, views[p.ID])
	}
	return out, nil
}

// DeletePoll removes a poll and its chat marker. Creator or admin only.
func (s *pollServiceImpl) DeletePoll(ctx context.Context, pollID uuid.UUID, viewer models.Viewer) error {
	if err := requireAuth(viewer); err != nil {
		return err
	}
	p, err := s.findPoll(ctx, pollID, viewer)
	if err != nil {
		return err
	}
	if !viewer.CanModerate(p.CreatorID) {
		return apperrors.NewForbiddenError("only the creator or an admin can delete this poll")
	}
	if err := s.polls.Delete(ctx, p); err != nil {
		return err
	}
	s.publisher.Publish(p.GroupID, websocket.EventPollUpdated, map[string]interface{}{"id": p.ID, "deleted": true})
	return nil
}
