package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProfileFinder loads a profile by id
type ProfileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// AdminResolver decides who may moderate. A profile is an admin when profiles.is_admin is
// set or when its email is in the configured allowlist.
type AdminResolver struct {
	profiles ProfileFinder
	emails   map[string]struct{}
	logger   zerolog.Logger
}

// NewAdminResolver creates an AdminResolver. The allowlist is fixed for the process lifetime.
func NewAdminResolver(profiles ProfileFinder, allowlist []string, logger zerolog.Logger) *AdminResolver {
	emails := make(map[string]struct{}, len(allowlist))
	for _, e := range allowlist {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails[e] = struct{}{}
		}
	}
	return &AdminResolver{profiles: profiles, emails: emails, logger: logger}
}

// InAllowlist reports whether email is a configured admin address
func (r *AdminResolver) InAllowlist(email string) bool {
	_, ok := r.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// IsAdmin checks the allowlist first and falls back to the profile flag.
// A missing profile is not an error.
func (r *AdminResolver) IsAdmin(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	if r.InAllowlist(email) {
		return true, nil
	}
	p, err := r.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.IsAdmin, nil
}

// Viewer builds the request viewer for an authenticated account. Lookup failures
// degrade to a non-admin viewer.
func (r *AdminResolver) Viewer(ctx context.Context, id uuid.UUID, email string) models.Viewer {
	v := models.Viewer{ID: id, Email: email, Authenticated: true}
	isAdmin, err := r.IsAdmin(ctx, id, email)
	if err != nil {
		r.logger.Warn().Err(err).Str("userID", id.String()).Msg("Admin lookup failed, treating viewer as member")
		return v
	}
	v.IsAdmin = isAdmin
	return v
}
