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

func votesOf(db *memDB, pollID, voterID uuid.UUID) []models.PollVote {
	var out []models.PollVote
	for _, v := range db.votes {
		if v.PollID == pollID && v.VoterID == voterID {
			out = append(out, v)
		}
	}
	return out
}

func TestSingleChoiceVoteReplacesPrevious(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	poll, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Dónde quedamos?", Options: []string{"Retiro", "Casa de Campo", "Madrid Río"}})
	require.NoError(t, err)
	first, second := poll.Options[0].ID, poll.Options[1].ID

	view, err := f.env.polls.Vote(ctx, poll.ID, member(f.marta), first)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first}, view.Mine)

	view, err = f.env.polls.Vote(ctx, poll.ID, member(f.marta), second)
	require.NoError(t, err)

	votes := votesOf(f.env.db, poll.ID, f.marta.ID)
	require.Len(t, votes, 1)
	assert.Equal(t, second, votes[0].OptionID)
	assert.Equal(t, []uuid.UUID{second}, view.Mine)
	assert.Equal(t, 0, view.Options[0].Votes)
	assert.Equal(t, 1, view.Options[1].Votes)
	assert.Equal(t, 1, view.TotalVotes)

	last := f.env.publisher.last()
	assert.Equal(t, websocket.EventPollUpdated, last.eventType)
	broadcast, ok := last.data.(dto.PollView)
	require.True(t, ok)
	assert.Empty(t, broadcast.Mine)
	assert.Equal(t, 1, broadcast.TotalVotes)
}

func TestVoteSameOptionRemovesIt(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	poll, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Sábado?", Options: []string{"Sí", "No"}})
	require.NoError(t, err)

	_, err = f.env.polls.Vote(ctx, poll.ID, member(f.marta), poll.Options[0].ID)
	require.NoError(t, err)
	view, err := f.env.polls.Vote(ctx, poll.ID, member(f.marta), poll.Options[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Mine)
	assert.Equal(t, 0, view.TotalVotes)
}

func TestMultiChoiceVotesAccumulate(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	poll, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Qué días?", Options: []string{"Lunes", "Martes"}, IsMulti: true})
	require.NoError(t, err)

	_, err = f.env.polls.Vote(ctx, poll.ID, member(f.marta), poll.Options[0].ID)
	require.NoError(t, err)
	view, err := f.env.polls.Vote(ctx, poll.ID, member(f.marta), poll.Options[1].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{poll.Options[0].ID, poll.Options[1].ID}, view.Mine)
	assert.Len(t, votesOf(f.env.db, poll.ID, f.marta.ID), 2)
}

func TestVoteRejections(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	closesAt := testNow.Add(time.Hour)
	poll, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Cena?", Options: []string{"Sí", "No"}, ClosesAt: &closesAt})
	require.NoError(t, err)

	_, err = f.env.polls.Vote(ctx, poll.ID, member(f.marta), uuid.New())
	require.ErrorIs(t, err, apperrors.ErrInvalidOption)

	_, err = f.env.polls.Vote(ctx, poll.ID, member(f.env.db.addProfile("ana")), poll.Options[0].ID)
	require.ErrorIs(t, err, apperrors.ErrNotMember)

	past := testNow.Add(-time.Minute)
	f.env.db.polls[poll.ID].ClosesAt = &past
	_, err = f.env.polls.Vote(ctx, poll.ID, member(f.marta), poll.Options[0].ID)
	require.ErrorIs(t, err, apperrors.ErrPollClosed)
}

func TestCreatePollValidation(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	past := testNow.Add(-time.Hour)

	for name, req := range map[string]*dto.CreatePollRequest{
		"duplicate options": {Question: "¿?", Options: []string{"Sí", " sí "}},
		"blank question":    {Question: "  ", Options: []string{"a", "b"}},
		"closed already":    {Question: "¿Cena?", Options: []string{"a", "b"}, ClosesAt: &past},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia), req)
			require.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}

	labels, err := cleanOptions([]string{" Brunch ", "brunch", "Picnic", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brunch", "Picnic"}, labels)
}

func TestDeletePollRemovesMarker(t *testing.T) {
	f := newFeedFixture()
	ctx := context.Background()
	poll, err := f.env.polls.CreatePoll(ctx, f.group.ID, member(f.lucia),
		&dto.CreatePollRequest{Question: "¿Cena?", Options: []string{"Sí", "No"}})
	require.NoError(t, err)

	require.ErrorIs(t, f.env.polls.DeletePoll(ctx, poll.ID, member(f.marta)), apperrors.ErrPermissionDenied)
	require.NoError(t, f.env.polls.DeletePoll(ctx, poll.ID, member(f.lucia)))

	feed, err := f.env.feed.ListMessages(ctx, f.group.ID, models.Anonymous(), dto.FeedQuery{})
	require.NoError(t, err)
	assert.Empty(t, feed.Messages)

	polls, err := f.env.polls.ListPolls(ctx, f.group.ID, models.Anonymous())
	require.NoError(t, err)
	assert.Empty(t, polls)
}
