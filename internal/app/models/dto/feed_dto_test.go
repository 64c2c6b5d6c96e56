package dto

import (
	"testing"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageViewPublic(t *testing.T) {
	view := MessageView{
		Likes: models.LikeState{Count: 1, Mine: true},
		Poll:  &PollView{TotalVotes: 4, Mine: []uuid.UUID{uuid.New()}},
		Replies: []MessageView{
			{Likes: models.LikeState{Count: 3, Mine: true}},
		},
	}

	public := view.Public()
	assert.Equal(t, models.LikeState{Count: 1}, public.Likes)
	require.NotNil(t, public.Poll)
	assert.Empty(t, public.Poll.Mine)
	assert.NotNil(t, public.Poll.Mine)
	assert.Equal(t, 4, public.Poll.TotalVotes)
	assert.Equal(t, models.LikeState{Count: 3}, public.Replies[0].Likes)

	// the original keeps the viewer's state
	assert.True(t, view.Likes.Mine)
	assert.Len(t, view.Poll.Mine, 1)
	assert.True(t, view.Replies[0].Likes.Mine)
}
