package services

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/repositories"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultFeedLimit = 30
	maxFeedLimit     = 100
)

// FeedService composes and mutates group chat feeds
type FeedService interface {
	ListMessages(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, q dto.FeedQuery) (*dto.FeedResponse, error)
	PostMessage(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.PostMessageRequest) (*dto.MessageView, error)
	EditMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer, content string) (*dto.MessageView, error)
	DeleteMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) error
	PinMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.MessageView, error)
	UnpinMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.MessageView, error)
	ToggleLike(ctx context.Context, messageID uuid.UUID, viewer models.Viewer) (*dto.LikeResponse, error)
}

type feedServiceImpl struct {
	groups    groupStore
	members   memberStore
	subgroups subgroupStore
	messages  messageStore
	likes     likeStore
	views     *viewBuilder
	publisher Publisher
	logger    zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(
	groups groupStore,
	members memberStore,
	subgroups subgroupStore,
	messages messageStore,
	likes likeStore,
	views *viewBuilder,
	publisher Publisher,
	logger zerolog.Logger,
) FeedService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &feedServiceImpl{
		groups:    groups,
		members:   members,
		subgroups: subgroups,
		messages:  messages,
		likes:     likes,
		views:     views,
		publisher: publisher,
		logger:    logger,
	}
}

func clampFeedLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultFeedLimit
	case limit > maxFeedLimit:
		return maxFeedLimit
	}
	return limit
}

// ListMessages returns a page of top-level messages, newest first, each with its replies attached,
// plus the group's pinned messages.
func (s *feedServiceImpl) ListMessages(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, q dto.FeedQuery) (*dto.FeedResponse, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}

	limit := clampFeedLimit(q.Limit)
	top, err := s.messages.ListTopLevel(ctx, repositories.MessageFilter{
		GroupID:    groupID,
		SubgroupID: q.SubgroupID,
		Before:     q.Before,
		BeforeID:   q.BeforeID,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	parentIDs := make([]uuid.UUID, 0, len(top))
	for _, m := range top {
		parentIDs = append(parentIDs, m.ID)
	}
	replies, err := s.messages.ListReplies(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	pinned, err := s.messages.ListPinned(ctx, groupID)
	if err != nil {
		return nil, err
	}

	// Render everything in one batch, then split back out.
	all := make([]*models.Message, 0, len(top)+len(replies)+len(pinned))
	all = append(all, top...)
	all = append(all, replies...)
	all = append(all, pinned...)
	views, err := s.views.messageViews(ctx, groupID, all, viewer)
	if err != nil {
		return nil, err
	}

	topViews := views[:len(top)]
	replyViews := views[len(top) : len(top)+len(replies)]
	byParent := make(map[uuid.UUID][]dto.MessageView, len(top))
	for _, r := range replyViews {
		byParent[*r.ParentMessageID] = append(byParent[*r.ParentMessageID], r)
	}

	resp := &dto.FeedResponse{
		Pinned:   append([]dto.MessageView{}, views[len(top)+len(replies):]...),
		Messages: make([]dto.MessageView, 0, len(top)),
	}
	for _, v := range topViews {
		v.Replies = byParent[v.ID]
		resp.Messages = append(resp.Messages, v)
	}
	if len(top) == limit {
		last := top[len(top)-1]
		next, nextID := last.CreatedAt, last.ID
		resp.NextBefore = &next
		resp.NextBeforeID = &nextID
	}
	return resp, nil
}

func (s *feedServiceImpl) render(ctx context.Context, m *models.Message, viewer models.Viewer) (*dto.MessageView, error) {
	views, err := s.views.messageViews(ctx, m.GroupID, []*models.Message{m}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *feedServiceImpl) checkSubgroup(ctx context.Context, groupID uuid.UUID, id *uuid.UUID, want models.SubgroupType) error {
	if id == nil {
		return nil
	}
	sg, err := s.subgroups.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewBadRequestError("unknown subgroup")
		}
		return err
	}
	if sg.GroupID != groupID || sg.Type != want {
		return apperrors.NewBadRequestError("subgroup does not belong to this group")
	}
	return nil
}

func (s *feedServiceImpl) PostMessage(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.PostMessageRequest) (*dto.MessageView, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.members, groupID, viewer); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("message content is required")
	}

	if req.ParentMessageID != nil {
		parent, err := s.messages.FindByID(ctx, *req.ParentMessageID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewBadRequestError("parent message not found")
			}
			return nil, err
		}
		if parent.GroupID != groupID {
			return nil, apperrors.NewBadRequestError("parent message belongs to another group")
		}
		if parent.IsReply() {
			return nil, apperrors.NewBadRequestError("replies cannot be nested")
		}
	}
	if err := s.checkSubgroup(ctx, groupID, req.LocationSubgroupID, models.SubgroupLocation); err != nil {
		return nil, err
	}
	if err := s.checkSubgroup(ctx, groupID, req.AgeSubgroupID, models.SubgroupAge); err != nil {
		return nil, err
	}

	m := &models.Message{
		GroupID:            groupID,
		SenderID:           viewer.ID,
		Content:            content,
		ParentMessageID:    req.ParentMessageID,
		LocationSubgroupID: req.LocationSubgroupID,
		AgeSubgroupID:      req.AgeSubgroupID,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	view, err := s.render(ctx, m, viewer)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(groupID, websocket.EventMessageCreated, view.Public())
	return view, nil
}

func (s *feedServiceImpl) findMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*models.Message, error) {
	m, err := s.messages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("message not found")
		}
		return nil, err
	}
	if _, err := visibleGroup(ctx, s.groups, m.GroupID, viewer); err != nil {
		return nil, err
	}
	return m, nil
}

// EditMessage lets the author replace the content
func (s *feedServiceImpl) EditMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer, content string) (*dto.MessageView, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	m, err := s.findMessage(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(m.SenderID) {
		return nil, apperrors.NewForbiddenError("only the author can edit this message")
	}
	if _, isPoll := m.PollMarker(); isPoll {
		return nil, apperrors.NewBadRequestError("poll messages cannot be edited")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("message content is required")
	}
	if err := s.messages.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}

	if m, err = s.messages.FindByID(ctx, id); err != nil {
		return nil, err
	}
	view, err := s.render(ctx, m, viewer)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(m.GroupID, websocket.EventMessageUpdated, view.Public())
	return view, nil
}

// DeleteMessage is reserved to admins
func (s *feedServiceImpl) DeleteMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	m, err := s.findMessage(ctx, id, viewer)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("messageID", id.String()).Str("adminID", viewer.ID.String()).Msg("Message deleted")
	s.publisher.Publish(m.GroupID, websocket.EventMessageDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *feedServiceImpl) setPinned(ctx context.Context, id uuid.UUID, viewer models.Viewer, pin bool) (*dto.MessageView, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}
	if _, err := s.findMessage(ctx, id, viewer); err != nil {
		return nil, err
	}

	var by *uuid.UUID
	if pin {
		adminID := viewer.ID
		by = &adminID
	}
	if err := s.messages.SetPinned(ctx, id, by); err != nil {
		return nil, err
	}

	m, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.render(ctx, m, viewer)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(m.GroupID, websocket.EventMessagePinned, view.Public())
	return view, nil
}

func (s *feedServiceImpl) PinMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.MessageView, error) {
	return s.setPinned(ctx, id, viewer, true)
}

func (s *feedServiceImpl) UnpinMessage(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.MessageView, error) {
	return s.setPinned(ctx, id, viewer, false)
}

// ToggleLike inserts or deletes the viewer's like, then re-reads the counter
func (s *feedServiceImpl) ToggleLike(ctx context.Context, messageID uuid.UUID, viewer models.Viewer) (*dto.LikeResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	if _, err := s.findMessage(ctx, messageID, viewer); err != nil {
		return nil, err
	}
	if err := s.likes.Toggle(ctx, messageID, viewer.ID); err != nil {
		return nil, err
	}

	states, err := s.likes.States(ctx, []uuid.UUID{messageID}, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{MessageID: messageID, Likes: states[messageID]}, nil
}
