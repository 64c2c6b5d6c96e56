package dto

import (
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/google/uuid"
)

// Message kinds
const (
	MessageKindText = "text"
	MessageKindPoll = "poll"
)

// FeedQuery filters a group feed page
type FeedQuery struct {
	SubgroupID *uuid.UUID
	Before     *time.Time
	BeforeID   *uuid.UUID
	Limit      int
}

// PostMessageRequest posts to a group chat
type PostMessageRequest struct {
	Content            string     `json:"content" binding:"required,max=4000" example:"Who is in for Sunday?"`
	ParentMessageID    *uuid.UUID `json:"parentMessageId,omitempty"`
	LocationSubgroupID *uuid.UUID `json:"locationSubgroupId,omitempty"`
	AgeSubgroupID      *uuid.UUID `json:"ageSubgroupId,omitempty"`
}

// EditMessageRequest replaces the content of a message
type EditMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// MessageView is a rendered chat message
type MessageView struct {
	ID                 uuid.UUID        `json:"id"`
	GroupID            uuid.UUID        `json:"groupId"`
	Kind               string           `json:"kind" example:"text" enums:"text,poll"`
	Content            string           `json:"content"`
	Poll               *PollView        `json:"poll,omitempty"`
	Sender             ProfilePreview   `json:"sender"`
	Likes              models.LikeState `json:"likes"`
	IsPinned           bool             `json:"isPinned"`
	PinnedAt           *time.Time       `json:"pinnedAt,omitempty"`
	ParentMessageID    *uuid.UUID       `json:"parentMessageId,omitempty"`
	LocationSubgroupID *uuid.UUID       `json:"locationSubgroupId,omitempty"`
	AgeSubgroupID      *uuid.UUID       `json:"ageSubgroupId,omitempty"`
	Replies            []MessageView    `json:"replies,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	EditedAt           *time.Time       `json:"editedAt,omitempty"`
}

// Public strips the per-viewer state (own like, own poll votes) from the message and its
// replies so the view can be pushed to every group subscriber.
func (v MessageView) Public() MessageView {
	v.Likes.Mine = false
	if v.Poll != nil {
		poll := v.Poll.Public()
		v.Poll = &poll
	}
	if len(v.Replies) > 0 {
		replies := make([]MessageView, len(v.Replies))
		for i, r := range v.Replies {
			replies[i] = r.Public()
		}
		v.Replies = replies
	}
	return v
}

// FeedResponse is one page of a group chat
type FeedResponse struct {
	Pinned       []MessageView `json:"pinned"`
	Messages     []MessageView `json:"messages"`
	NextBefore   *time.Time    `json:"nextBefore,omitempty"`
	NextBeforeID *uuid.UUID    `json:"nextBeforeId,omitempty"`
}

// LikeResponse is the like state after a toggle
type LikeResponse struct {
	MessageID uuid.UUID        `json:"messageId"`
	Likes     models.LikeState `json:"likes"`
}
