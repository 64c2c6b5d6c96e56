package services

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AlreadyOnListMessage is shown when an email signs up twice
const AlreadyOnListMessage = "Ya estás en la lista"

// ContactService writes the shared contact inbox and the waitlist
type ContactService interface {
	SubmitContact(ctx context.Context, req *dto.ContactRequest) error
	RequestAccountDeletion(ctx context.Context, viewer models.Viewer, reason string) error
	RequestHostActivation(ctx context.Context, viewer models.Viewer, message string) error
	JoinWaitlist(ctx context.Context, email string) error
}

type contactServiceImpl struct {
	contacts contactStore
	waitlist waitlistStore
	profiles profileStore
	logger   zerolog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contacts contactStore, waitlist waitlistStore, profiles profileStore, logger zerolog.Logger) ContactService {
	return &contactServiceImpl{contacts: contacts, waitlist: waitlist, profiles: profiles, logger: logger}
}

func (s *contactServiceImpl) SubmitContact(ctx context.Context, req *dto.ContactRequest) error {
	m := &models.ContactMessage{
		Kind:    models.ContactKindContact,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: strings.TrimSpace(req.Message),
	}
	if m.Name == "" || m.Message == "" {
		return apperrors.NewBadRequestError("name and message are required")
	}
	return s.contacts.Create(ctx, m)
}

// accountRequest records a request made by a signed-in member. The historical name
// discriminator is kept alongside the typed kind.
func (s *contactServiceImpl) accountRequest(ctx context.Context, viewer models.Viewer, kind models.ContactKind, name, message string) error {
	if err := requireAuth(viewer); err != nil {
		return err
	}

	profileID := viewer.ID
	m := &models.ContactMessage{
		Kind:      kind,
		Name:      name,
		Email:     viewer.Email,
		Message:   strings.TrimSpace(message),
		ProfileID: &profileID,
	}
	if p, err := s.profiles.FindByID(ctx, viewer.ID); err == nil && p.Username != "" {
		m.Message = strings.TrimSpace("@" + p.Username + "\n" + m.Message)
	} else if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return err
	}

	if err := s.contacts.Create(ctx, m); err != nil {
		return err
	}
	s.logger.Info().Str("kind", string(kind)).Str("profileID", viewer.ID.String()).Msg("Account request recorded")
	return nil
}

func (s *contactServiceImpl) RequestAccountDeletion(ctx context.Context, viewer models.Viewer, reason string) error {
	return s.accountRequest(ctx, viewer, models.ContactKindAccountDeletion, models.AccountDeletionName, reason)
}

func (s *contactServiceImpl) RequestHostActivation(ctx context.Context, viewer models.Viewer, message string) error {
	if strings.TrimSpace(message) == "" {
		return apperrors.NewBadRequestError("message is required")
	}
	return s.accountRequest(ctx, viewer, models.ContactKindHostActivation, models.HostActivationName, message)
}

// JoinWaitlist adds an email. A duplicate is reported as a friendly conflict.
func (s *contactServiceImpl) JoinWaitlist(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.NewBadRequestError("email is required")
	}
	if _, err := s.waitlist.Add(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyOnList) {
			return apperrors.NewCustomError(apperrors.ErrAlreadyOnList, AlreadyOnListMessage)
		}
		return err
	}
	return nil
}
