package services

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DMService handles two-person conversations
type DMService interface {
	StartThread(ctx context.Context, viewer models.Viewer, recipientID uuid.UUID) (*dto.ThreadSummary, error)
	ListThreads(ctx context.Context, viewer models.Viewer) ([]dto.ThreadSummary, error)
	GetThread(ctx context.Context, threadID uuid.UUID, viewer models.Viewer) (*dto.ThreadResponse, error)
	Send(ctx context.Context, threadID uuid.UUID, viewer models.Viewer, content string) (*models.DirectMessage, error)
}

type dmServiceImpl struct {
	dms      dmStore
	profiles profileStore
	views    *viewBuilder
	logger   zerolog.Logger
}

// NewDMService creates a new DMService
func NewDMService(dms dmStore, profiles profileStore, views *viewBuilder, logger zerolog.Logger) DMService {
	return &dmServiceImpl{dms: dms, profiles: profiles, views: views, logger: logger}
}

// StartThread returns the existing thread with recipientID or creates it
func (s *dmServiceImpl) StartThread(ctx context.Context, viewer models.Viewer, recipientID uuid.UUID) (*dto.ThreadSummary, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	if recipientID == viewer.ID {
		return nil, apperrors.NewBadRequestError("cannot start a conversation with yourself")
	}
	if _, err := s.profiles.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("recipient not found")
		}
		return nil, err
	}

	thread, err := s.dms.GetOrCreateThread(ctx, viewer.ID, recipientID)
	if err != nil {
		return nil, err
	}
	previews, err := s.views.profilePreviews(ctx, []uuid.UUID{recipientID})
	if err != nil {
		return nil, err
	}
	return &dto.ThreadSummary{
		ID:            thread.ID,
		Other:         previews[recipientID],
		LastMessageAt: thread.LastMessageAt,
	}, nil
}

// ListThreads is the viewer's inbox, most recent first
func (s *dmServiceImpl) ListThreads(ctx context.Context, viewer models.Viewer) ([]dto.ThreadSummary, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	summaries, err := s.dms.ListSummaries(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	others := make([]uuid.UUID, 0, len(summaries))
	for _, sm := range summaries {
		others = append(others, sm.OtherID)
	}
	previews, err := s.views.profilePreviews(ctx, others)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ThreadSummary, 0, len(summaries))
	for _, sm := range summaries {
		out = append(out, dto.ThreadSummary{
			ID:            sm.Thread.ID,
			Other:         previews[sm.OtherID],
			LastMessage:   sm.LastMessage,
			LastMessageAt: sm.Thread.LastMessageAt,
			UnreadCount:   sm.UnreadCount,
		})
	}
	return out, nil
}

// GetThread returns the conversation and marks incoming messages as read
func (s *dmServiceImpl) GetThread(ctx context.Context, threadID uuid.UUID, viewer models.Viewer) (*dto.ThreadResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	otherID, err := s.dms.OtherParticipant(ctx, threadID, viewer.ID)
	if err != nil {
		return nil, err
	}
	messages, err := s.dms.ListMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if err := s.dms.MarkRead(ctx, threadID, viewer.ID); err != nil {
		s.logger.Warn().Err(err).Str("threadID", threadID.String()).Msg("Failed to mark thread as read")
	}

	previews, err := s.views.profilePreviews(ctx, []uuid.UUID{otherID})
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.DirectMessage{}
	}
	return &dto.ThreadResponse{ID: threadID, Other: previews[otherID], Messages: messages}, nil
}

func (s *dmServiceImpl) Send(ctx context.Context, threadID uuid.UUID, viewer models.Viewer, content string) (*models.DirectMessage, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("message content is required")
	}
	if _, err := s.dms.OtherParticipant(ctx, threadID, viewer.ID); err != nil {
		return nil, err
	}

	m := &models.DirectMessage{ThreadID: threadID, SenderID: viewer.ID, Content: content}
	if err := s.dms.Send(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
