package services

import (
	"context"
	"testing"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartThreadIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	lucia := env.db.addProfile("lucia")
	marta := env.db.addProfile("marta")

	first, err := env.dms.StartThread(ctx, member(lucia), marta.ID)
	require.NoError(t, err)
	again, err := env.dms.StartThread(ctx, member(marta), lucia.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "marta", first.Other.Username)
	assert.Equal(t, "lucia", again.Other.Username)
	assert.Len(t, env.db.threads, 1)
}

func TestStartThreadRejections(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	lucia := env.db.addProfile("lucia")

	_, err := env.dms.StartThread(ctx, member(lucia), lucia.ID)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = env.dms.StartThread(ctx, member(lucia), uuid.New())
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = env.dms.StartThread(ctx, models.Anonymous(), lucia.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestThreadParticipantsOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	lucia := env.db.addProfile("lucia")
	marta := env.db.addProfile("marta")
	ana := env.db.addProfile("ana")

	thread, err := env.dms.StartThread(ctx, member(lucia), marta.ID)
	require.NoError(t, err)

	sent, err := env.dms.Send(ctx, thread.ID, member(lucia), " ¿Vienes el domingo? ")
	require.NoError(t, err)
	assert.Equal(t, "¿Vienes el domingo?", sent.Content)

	_, err = env.dms.Send(ctx, thread.ID, member(ana), "hola")
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = env.dms.GetThread(ctx, thread.ID, member(ana))
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	conv, err := env.dms.GetThread(ctx, thread.ID, member(marta))
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "lucia", conv.Other.Username)
	assert.NotNil(t, env.db.dms[0].ReadAt, "incoming messages are marked read")
}
