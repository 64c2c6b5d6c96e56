package services

import (
	"context"
	"testing"
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedFixture struct {
	env   *testEnv
	group *models.Group
	lucia *models.Profile
	marta *models.Profile
}

func newFeedFixture() *feedFixture {
	env := newTestEnv()
	lucia := env.db.addProfile("lucia")
	marta := env.db.addProfile("marta")
	g := env.db.addGroup(env.db.addCity("Madrid", "madrid"), env.db.addCategory("Running", "running"),
		"sunday-runners", lucia.ID, true)
	env.db.join(g.ID, lucia.ID)
	env.db.join(g.ID, marta.ID)
	return &feedFixture{env: env, group: g, lucia: lucia, marta: marta}
}

func TestToggleLikeTwiceRestoresCount(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	msg := f.env.db.addMessage(f.group.ID, f.lucia.ID, "hola")
	require.NoError(t, fakeLikes{f.env.db}.Toggle(ctx, msg.ID, f.lucia.ID))

	liked, err := f.env.feed.ToggleLike(ctx, msg.ID, member(f.marta))
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 2, Mine: true}, liked.Likes)

	unliked, err := f.env.feed.ToggleLike(ctx, msg.ID, member(f.marta))
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 1, Mine: false}, unliked.Likes)
}

func TestMissingPollMarkerRendersAsText(t *testing.T) {
	f := newFeedFixture()
	content := models.PollMarkerFor(uuid.New())
	f.env.db.addMessage(f.group.ID, f.lucia.ID, content)

	feed, err := f.env.feed.ListMessages(context.Background(), f.group.ID, models.Anonymous(), dto.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, feed.Messages, 1)
	assert.Equal(t, dto.MessageKindText, feed.Messages[0].Kind)
	assert.Equal(t, content, feed.Messages[0].Content)
	assert.Nil(t, feed.Messages[0].Poll)
}

func TestPollMarkerFromAnotherGroupRendersAsText(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	other := f.env.db.addGroup(f.env.db.cities[f.group.CityID], f.env.db.categories[f.group.CategoryID],
		"other", f.lucia.ID, true)
	f.env.db.join(other.ID, f.lucia.ID)

	poll, err := f.env.polls.CreatePoll(ctx, other.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Brunch o picnic?", Options: []string{"Brunch", "Picnic"}})
	require.NoError(t, err)
	f.env.db.addMessage(f.group.ID, f.lucia.ID, models.PollMarkerFor(poll.ID))

	feed, err := f.env.feed.ListMessages(ctx, f.group.ID, models.Anonymous(), dto.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, feed.Messages, 1)
	assert.Equal(t, dto.MessageKindText, feed.Messages[0].Kind)
}

func TestListMessagesInlinesPollsAndReplies(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()

	poll, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Brunch o picnic?", Options: []string{"Brunch", "Picnic"}})
	require.NoError(t, err)

	top, err := f.env.feed.PostMessage(ctx, f.group.ID, member(f.marta), &dto.PostMessageRequest{Content: "  ¿Quién viene?  "})
	require.NoError(t, err)
	assert.Equal(t, "¿Quién viene?", top.Content)

	_, err = f.env.feed.PostMessage(ctx, f.group.ID, member(f.lucia),
		&dto.PostMessageRequest{Content: "Yo", ParentMessageID: &top.ID})
	require.NoError(t, err)

	feed, err := f.env.feed.ListMessages(ctx, f.group.ID, member(f.marta), dto.FeedQuery{})
	require.NoError(t, err)
	require.Len(t, feed.Messages, 2)

	assert.Equal(t, top.ID, feed.Messages[0].ID)
	require.Len(t, feed.Messages[0].Replies, 1)
	assert.Equal(t, "Yo", feed.Messages[0].Replies[0].Content)

	pollMsg := feed.Messages[1]
	assert.Equal(t, dto.MessageKindPoll, pollMsg.Kind)
	require.NotNil(t, pollMsg.Poll)
	assert.Equal(t, poll.ID, pollMsg.Poll.ID)
	assert.Nil(t, feed.NextBefore)
}

func TestListMessagesPagination(t *testing.T) {
	f := newFeedFixture()
	for i := 0; i < 3; i++ {
		f.env.db.addMessage(f.group.ID, f.lucia.ID, "msg")
	}

	page, err := f.env.feed.ListMessages(context.Background(), f.group.ID, models.Anonymous(), dto.FeedQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.NotNil(t, page.NextBefore)

	rest, err := f.env.feed.ListMessages(context.Background(), f.group.ID, models.Anonymous(),
		dto.FeedQuery{Limit: 2, Before: page.NextBefore})
	require.NoError(t, err)
	assert.Len(t, rest.Messages, 1)
	assert.Nil(t, rest.NextBefore)
}

func TestListMessagesPaginationKeepsSameTimestamp(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	at := testNow.Add(time.Hour)
	seen := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		f.env.db.addMessage(f.group.ID, f.lucia.ID, "misma hora").CreatedAt = at
	}

	page, err := f.env.feed.ListMessages(ctx, f.group.ID, models.Anonymous(), dto.FeedQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.NotNil(t, page.NextBefore)
	require.NotNil(t, page.NextBeforeID)
	assert.Equal(t, page.Messages[1].ID, *page.NextBeforeID)
	for _, m := range page.Messages {
		seen[m.ID] = true
	}

	rest, err := f.env.feed.ListMessages(ctx, f.group.ID, models.Anonymous(),
		dto.FeedQuery{Limit: 2, Before: page.NextBefore, BeforeID: page.NextBeforeID})
	require.NoError(t, err)
	require.Len(t, rest.Messages, 1)
	assert.False(t, seen[rest.Messages[0].ID])
}

func TestPostMessageRules(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	outsider := f.env.db.addProfile("ana")

	_, err := f.env.feed.PostMessage(ctx, f.group.ID, member(outsider), &dto.PostMessageRequest{Content: "hola"})
	require.ErrorIs(t, err, apperrors.ErrNotMember)

	_, err = f.env.feed.PostMessage(ctx, f.group.ID, models.Anonymous(), &dto.PostMessageRequest{Content: "hola"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	parent := f.env.db.addMessage(f.group.ID, f.lucia.ID, "top")
	reply, err := f.env.feed.PostMessage(ctx, f.group.ID, member(f.marta),
		&dto.PostMessageRequest{Content: "reply", ParentMessageID: &parent.ID})
	require.NoError(t, err)

	_, err = f.env.feed.PostMessage(ctx, f.group.ID, member(f.marta),
		&dto.PostMessageRequest{Content: "nested", ParentMessageID: &reply.ID})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)

	require.NotEmpty(t, f.env.publisher.events)
	assert.Equal(t, websocket.EventMessageCreated, f.env.publisher.events[0].eventType)
}

func TestEditAndModerateMessages(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	msg := f.env.db.addMessage(f.group.ID, f.lucia.ID, "hola")

	_, err := f.env.feed.EditMessage(ctx, msg.ID, member(f.marta), "hackeado")
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	edited, err := f.env.feed.EditMessage(ctx, msg.ID, member(f.lucia), "hola a todas")
	require.NoError(t, err)
	assert.Equal(t, "hola a todas", edited.Content)
	assert.NotNil(t, edited.EditedAt)

	_, err = f.env.feed.PinMessage(ctx, msg.ID, member(f.lucia))
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	admin := adminViewer()
	pinned, err := f.env.feed.PinMessage(ctx, msg.ID, admin)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	feed, err := f.env.feed.ListMessages(ctx, f.group.ID, models.Anonymous(), dto.FeedQuery{})
	require.NoError(t, err)
	assert.Len(t, feed.Pinned, 1)

	unpinned, err := f.env.feed.UnpinMessage(ctx, msg.ID, admin)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)

	require.ErrorIs(t, f.env.feed.DeleteMessage(ctx, msg.ID, member(f.lucia)), apperrors.ErrPermissionDenied)
	require.NoError(t, f.env.feed.DeleteMessage(ctx, msg.ID, admin))
	_, err = f.env.feed.EditMessage(ctx, msg.ID, member(f.lucia), "otra vez")
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBroadcastsCarryNoViewerState(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	admin := adminViewer()
	msg := f.env.db.addMessage(f.group.ID, f.lucia.ID, "hola")
	require.NoError(t, fakeLikes{f.env.db}.Toggle(ctx, msg.ID, admin.ID))
	require.NoError(t, fakeLikes{f.env.db}.Toggle(ctx, msg.ID, f.lucia.ID))

	pinned, err := f.env.feed.PinMessage(ctx, msg.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Count: 2, Mine: true}, pinned.Likes)

	last := f.env.publisher.last()
	assert.Equal(t, websocket.EventMessagePinned, last.eventType)
	broadcast, ok := last.data.(dto.MessageView)
	require.True(t, ok)
	assert.Equal(t, models.LikeState{Count: 2, Mine: false}, broadcast.Likes)

	edited, err := f.env.feed.EditMessage(ctx, msg.ID, member(f.lucia), "hola de nuevo")
	require.NoError(t, err)
	assert.True(t, edited.Likes.Mine)

	last = f.env.publisher.last()
	assert.Equal(t, websocket.EventMessageUpdated, last.eventType)
	broadcast, ok = last.data.(dto.MessageView)
	require.True(t, ok)
	assert.False(t, broadcast.Likes.Mine)
	assert.Equal(t, 2, broadcast.Likes.Count)
}
