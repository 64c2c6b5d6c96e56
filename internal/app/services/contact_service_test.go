package services

import (
	"context"
	"testing"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRequestsUseNameDiscriminator(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	lucia := env.db.addProfile("lucia")
	viewer := member(lucia)
	viewer.Email = "lucia@example.com"

	require.NoError(t, env.contact.RequestAccountDeletion(ctx, viewer, ""))
	require.NoError(t, env.contact.RequestHostActivation(ctx, viewer, "Organizo quedadas de running"))
	require.ErrorIs(t, env.contact.RequestHostActivation(ctx, viewer, " "), apperrors.ErrBadRequest)

	require.Len(t, env.db.contacts, 2)
	deletion, host := env.db.contacts[0], env.db.contacts[1]
	assert.Equal(t, models.AccountDeletionName, deletion.Name)
	assert.Equal(t, models.ContactKindAccountDeletion, deletion.Kind)
	assert.Equal(t, "lucia@example.com", deletion.Email)
	assert.Equal(t, "@lucia", deletion.Message)
	assert.Equal(t, models.HostActivationName, host.Name)
	assert.Contains(t, host.Message, "Organizo quedadas")
	require.NotNil(t, host.ProfileID)
	assert.Equal(t, lucia.ID, *host.ProfileID)

	require.ErrorIs(t, env.contact.RequestAccountDeletion(ctx, models.Anonymous(), ""), apperrors.ErrUnauthorized)
}

func TestContactInboxForAdmins(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	require.NoError(t, env.contact.SubmitContact(ctx, &dto.ContactRequest{Name: "Ana", Email: " Ana@Example.com ", Message: "Hola"}))
	require.ErrorIs(t, env.contact.SubmitContact(ctx, &dto.ContactRequest{Name: "Ana", Message: " "}), apperrors.ErrBadRequest)

	_, _, err := env.admin.ListContactMessages(ctx, member(env.db.addProfile("lucia")), nil, 1, 10)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	kind := models.ContactKindContact
	items, page, err := env.admin.ListContactMessages(ctx, adminViewer(), &kind, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ana@example.com", items[0].Email)
	assert.EqualValues(t, 1, page.TotalItems)

	require.NoError(t, env.admin.MarkContactHandled(ctx, items[0].ID, adminViewer()))
	assert.NotNil(t, env.db.contacts[0].HandledAt)
}

func TestJoinWaitlistDuplicateIsFriendly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.contact.JoinWaitlist(ctx, "ana@example.com"))
	err := env.contact.JoinWaitlist(ctx, " ANA@example.com")
	require.ErrorIs(t, err, apperrors.ErrAlreadyOnList)
	assert.Equal(t, AlreadyOnListMessage, apperrors.UserMessage(err, ""))

	require.ErrorIs(t, env.contact.JoinWaitlist(ctx, ""), apperrors.ErrBadRequest)
}

func TestModerationQueue(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	pending := f.env.db.addGroup(f.env.db.cities[f.group.CityID], f.env.db.categories[f.group.CategoryID],
		"night-runners", f.marta.ID, false)
	f.env.db.addEvent(f.group.ID, f.marta.ID, testNow, false)

	_, err := f.env.admin.ListPending(ctx, member(f.lucia))
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	queue, err := f.env.admin.ListPending(ctx, adminViewer())
	require.NoError(t, err)
	assert.Len(t, queue.Groups, 1)
	assert.Len(t, queue.Events, 1)

	require.NoError(t, f.env.admin.ApproveGroup(ctx, pending.ID, adminViewer()))
	resp, err := f.env.directory.ListGroups(ctx, "madrid", "running", models.Anonymous())
	require.NoError(t, err)
	assert.Len(t, resp.Groups, 2)

	require.NoError(t, f.env.admin.DeleteGroup(ctx, pending.ID, adminViewer()))
	require.ErrorIs(t, f.env.admin.DeleteGroup(ctx, pending.ID, adminViewer()), apperrors.ErrResourceNotFound)
}
