package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileMap map[uuid.UUID]*models.Profile

func (m profileMap) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if id == uuid.Nil {
		return nil, errors.New("db down")
	}
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrResourceNotFound
}

func TestAdminResolver(t *testing.T) {
	ctx := context.Background()
	flagged := &models.Profile{ID: uuid.New(), IsAdmin: true}
	plain := &models.Profile{ID: uuid.New()}
	r := NewAdminResolver(profileMap{flagged.ID: flagged, plain.ID: plain},
		[]string{" Founder@GirlsCollective.es ", ""}, zerolog.Nop())

	ok, err := r.IsAdmin(ctx, uuid.New(), "founder@girlscollective.es")
	require.NoError(t, err)
	assert.True(t, ok, "allowlisted email without a profile")

	ok, err = r.IsAdmin(ctx, flagged.ID, "someone@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsAdmin(ctx, plain.ID, "someone@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.IsAdmin(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.IsAdmin(ctx, uuid.Nil, "")
	require.Error(t, err)
}

func TestViewerDegradesOnLookupFailure(t *testing.T) {
	r := NewAdminResolver(profileMap{}, nil, zerolog.Nop())
	v := r.Viewer(context.Background(), uuid.Nil, "x@example.com")
	assert.True(t, v.Authenticated)
	assert.False(t, v.IsAdmin)
}
