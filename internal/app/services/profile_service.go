package services

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/girlscollective/collective/internal/pkg/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UsernameTakenMessage is shown when a username is already in use
const UsernameTakenMessage = "Ese nombre de usuario ya está en uso"

func usernameTaken() error {
	return apperrors.NewCustomError(apperrors.ErrUsernameTaken, UsernameTakenMessage)
}

// ProfileService handles onboarding, profile pages and host cards
type ProfileService interface {
	UsernameAvailable(ctx context.Context, username string, viewer models.Viewer) (*dto.UsernameAvailabilityResponse, error)
	SaveProfile(ctx context.Context, viewer models.Viewer, req *dto.SaveProfileRequest) (*dto.ProfileResponse, error)
	GetMyProfile(ctx context.Context, viewer models.Viewer) (*dto.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error)
	UpdateHost(ctx context.Context, viewer models.Viewer, req *dto.UpdateHostRequest) (*dto.ProfileResponse, error)
}

type profileServiceImpl struct {
	profiles   profileStore
	cities     cityStore
	categories categoryStore
	logger     zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles profileStore, cities cityStore, categories categoryStore, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		profiles:   profiles,
		cities:     cities,
		categories: categories,
		logger:     logger,
	}
}

// UsernameAvailable checks case-insensitively, ignoring the viewer's own row
func (s *profileServiceImpl) UsernameAvailable(ctx context.Context, username string, viewer models.Viewer) (*dto.UsernameAvailabilityResponse, error) {
	username = strings.TrimSpace(username)
	resp := &dto.UsernameAvailabilityResponse{Username: username}
	if !validation.IsValidUsername(username) {
		return resp, nil
	}
	taken, err := s.profiles.UsernameTaken(ctx, username, viewer.ID)
	if err != nil {
		return nil, err
	}
	resp.Available = !taken
	return resp, nil
}

func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func cleanURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// SaveProfile creates or updates the viewer's profile. The username is checked before
// writing, and a unique violation during the write maps to the same error.
func (s *profileServiceImpl) SaveProfile(ctx context.Context, viewer models.Viewer, req *dto.SaveProfileRequest) (*dto.ProfileResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if !validation.IsValidUsername(username) {
		return nil, apperrors.NewValidationError("invalid username", map[string]interface{}{
			"username": "3-30 letters, digits, dots or underscores",
		})
	}
	taken, err := s.profiles.UsernameTaken(ctx, username, viewer.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, usernameTaken()
	}

	cities, err := s.cities.GetByIDs(ctx, []uuid.UUID{req.CityID})
	if err != nil {
		return nil, err
	}
	if _, ok := cities[req.CityID]; !ok {
		return nil, apperrors.NewBadRequestError("unknown city")
	}

	categoryIDs := helpers.UniqueIDs(req.CategoryIDs)
	if len(categoryIDs) > 0 {
		known, err := s.categories.GetByIDs(ctx, categoryIDs)
		if err != nil {
			return nil, err
		}
		if len(known) != len(categoryIDs) {
			return nil, apperrors.NewBadRequestError("unknown category")
		}
	}

	cityID := req.CityID
	p := &models.Profile{
		ID:            viewer.ID,
		Username:      username,
		Bio:           helpers.NullIfBlank(req.Bio),
		CityID:        &cityID,
		AvatarURL:     helpers.NullIfBlank(req.AvatarURL),
		FavoriteEmoji: helpers.NullIfBlank(req.FavoriteEmoji),
		Quote:         helpers.NullIfBlank(req.Quote),
		BirthYear:     req.BirthYear,
	}
	if viewer.Email != "" {
		email := viewer.Email
		p.Email = &email
	}

	aux := models.ProfileAux{
		CategoryIDs:     categoryIDs,
		CustomInterests: cleanInterests(req.CustomInterests),
		PhotoURLs:       cleanURLs(req.Photos),
	}
	if err := s.profiles.Save(ctx, p, aux); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil, usernameTaken()
		}
		return nil, err
	}

	s.logger.Info().Str("profileID", p.ID.String()).Str("username", p.Username).Msg("Profile saved")
	return s.response(ctx, p, &aux)
}

func (s *profileServiceImpl) response(ctx context.Context, p *models.Profile, aux *models.ProfileAux) (*dto.ProfileResponse, error) {
	if aux == nil {
		var err error
		if aux, err = s.profiles.Aux(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	resp := &dto.ProfileResponse{
		ID:              p.ID,
		Username:        p.Username,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		FavoriteEmoji:   p.FavoriteEmoji,
		Quote:           p.Quote,
		BirthYear:       p.BirthYear,
		IsHost:          p.IsHost,
		HostBio:         p.HostBio,
		HostInstagram:   p.HostInstagram,
		HostWebsite:     p.HostWebsite,
		IsAdmin:         p.IsAdmin,
		Categories:      []dto.CategoryResponse{},
		CustomInterests: append([]string{}, aux.CustomInterests...),
		Photos:          append([]string{}, aux.PhotoURLs...),
		CreatedAt:       p.CreatedAt,
	}

	if p.CityID != nil {
		cities, err := s.cities.GetByIDs(ctx, []uuid.UUID{*p.CityID})
		if err != nil {
			return nil, err
		}
		if c, ok := cities[*p.CityID]; ok {
			cr := toCityResponse(c)
			resp.City = &cr
		}
	}

	if len(aux.CategoryIDs) > 0 {
		categories, err := s.categories.GetByIDs(ctx, aux.CategoryIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range aux.CategoryIDs {
			if c, ok := categories[id]; ok {
				resp.Categories = append(resp.Categories, toCategoryResponse(c))
			}
		}
	}
	return resp, nil
}

func (s *profileServiceImpl) GetMyProfile(ctx context.Context, viewer models.Viewer) (*dto.ProfileResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	p, err := s.profiles.FindByID(ctx, viewer.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrProfileRequired
		}
		return nil, err
	}
	return s.response(ctx, p, nil)
}

func (s *profileServiceImpl) GetProfileByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	p, err := s.profiles.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("profile not found")
		}
		return nil, err
	}
	return s.response(ctx, p, nil)
}

// UpdateHost edits the host card. Hosting must have been activated by an admin first.
func (s *profileServiceImpl) UpdateHost(ctx context.Context, viewer models.Viewer, req *dto.UpdateHostRequest) (*dto.ProfileResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	p, err := s.profiles.FindByID(ctx, viewer.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrProfileRequired
		}
		return nil, err
	}
	if !p.IsHost {
		return nil, apperrors.NewForbiddenError("hosting is not activated for this profile")
	}

	p.HostBio = helpers.NullIfBlank(req.HostBio)
	p.HostInstagram = helpers.NullIfBlank(req.HostInstagram)
	p.HostWebsite = helpers.NullIfBlank(req.HostWebsite)
	if err := s.profiles.UpdateHost(ctx, p); err != nil {
		return nil, err
	}
	return s.response(ctx, p, nil)
}
