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

func TestListGroupsApprovalGate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	madrid := env.db.addCity("Madrid", "madrid")
	running := env.db.addCategory("Running", "running")
	creator := env.db.addProfile("lucia")
	stranger := env.db.addProfile("marta")

	env.db.addGroup(madrid, running, "sunday-runners", creator.ID, true)
	env.db.addGroup(madrid, running, "night-runners", creator.ID, false)

	slugs := func(resp *dto.GroupListResponse) []string {
		var out []string
		for _, g := range resp.Groups {
			out = append(out, g.Slug)
		}
		return out
	}

	for name, tc := range map[string]struct {
		viewer models.Viewer
		want   []string
	}{
		"anonymous": {models.Anonymous(), []string{"sunday-runners"}},
		"stranger":  {member(stranger), []string{"sunday-runners"}},
		"creator":   {member(creator), []string{"night-runners", "sunday-runners"}},
		"admin":     {adminViewer(), []string{"night-runners", "sunday-runners"}},
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := env.directory.ListGroups(ctx, "madrid", "running", tc.viewer)
			require.NoError(t, err)
			assert.Equal(t, tc.want, slugs(resp))
		})
	}
}

func TestListGroupsMissingLinkIsEmpty(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	madrid := env.db.addCity("Madrid", "madrid")
	running := env.db.addCategory("Running", "running")
	env.db.addGroup(madrid, running, "sunday-runners", env.db.addProfile("lucia").ID, true)

	for _, pair := range [][2]string{{"paris", "running"}, {"madrid", "knitting"}, {"", ""}} {
		resp, err := env.directory.ListGroups(ctx, pair[0], pair[1], models.Anonymous())
		require.NoError(t, err)
		assert.Empty(t, resp.Groups, "%v", pair)
		assert.NotNil(t, resp.Groups)
	}

	resp, err := env.directory.ListGroups(ctx, "madrid", "knitting", models.Anonymous())
	require.NoError(t, err)
	require.NotNil(t, resp.City)
	assert.Equal(t, "madrid", resp.City.Slug)
	assert.Nil(t, resp.Category)
}

func TestResolveGroup(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	madrid := env.db.addCity("Madrid", "madrid")
	running := env.db.addCategory("Running", "running")
	creator := env.db.addProfile("lucia")
	pending := env.db.addGroup(madrid, running, "night-runners", creator.ID, false)

	g, err := env.directory.ResolveGroup(ctx, "madrid", "running", "night-runners", member(env.db.addProfile("marta")))
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = env.directory.ResolveGroup(ctx, "madrid", "running", "night-runners", member(creator))
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, pending.ID, g.ID)

	g, err = env.directory.ResolveGroup(ctx, "madrid", "running", "nope", adminViewer())
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = env.directory.ResolveGroup(ctx, "lisboa", "running", "night-runners", adminViewer())
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGetGroupHiddenLooksMissing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	g := env.db.addGroup(env.db.addCity("Madrid", "madrid"), env.db.addCategory("Running", "running"),
		"night-runners", env.db.addProfile("lucia").ID, false)

	_, err := env.groups.GetGroup(ctx, g.ID, models.Anonymous())
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	detail, err := env.groups.GetGroup(ctx, g.ID, adminViewer())
	require.NoError(t, err)
	assert.False(t, detail.IsApproved)
}
