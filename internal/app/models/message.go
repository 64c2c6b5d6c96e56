package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PollMarkerPrefix starts a message that stands in for a poll
const PollMarkerPrefix = "POLL:"

var pollMarkerPattern = regexp.MustCompile(`^POLL:([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)

// Message is a group chat message. Replies are one level deep through ParentMessageID.
type Message struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	GroupID            uuid.UUID  `json:"groupId" db:"group_id"`
	SenderID           uuid.UUID  `json:"senderId" db:"sender_id"`
	Content            string     `json:"content" db:"content"`
	LocationSubgroupID *uuid.UUID `json:"locationSubgroupId,omitempty" db:"location_subgroup_id"`
	AgeSubgroupID      *uuid.UUID `json:"ageSubgroupId,omitempty" db:"age_subgroup_id"`
	IsPinned           bool       `json:"isPinned" db:"is_pinned"`
	PinnedAt           *time.Time `json:"pinnedAt,omitempty" db:"pinned_at"`
	PinnedBy           *uuid.UUID `json:"pinnedBy,omitempty" db:"pinned_by"`
	ParentMessageID    *uuid.UUID `json:"parentMessageId,omitempty" db:"parent_message_id"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	EditedAt           *time.Time `json:"editedAt,omitempty" db:"edited_at"`
}

// IsReply reports whether the message belongs to a thread.
func (m *Message) IsReply() bool {
	return m.ParentMessageID != nil
}

// PollMarker returns the poll id when content is exactly "POLL:<uuid>".
func (m *Message) PollMarker() (uuid.UUID, bool) {
	return ParsePollMarker(m.Content)
}

// ParsePollMarker extracts the poll id from an inline poll marker.
func ParsePollMarker(content string) (uuid.UUID, bool) {
	match := pollMarkerPattern.FindStringSubmatch(content)
	if match == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(match[1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// PollMarkerFor builds the marker content for a poll.
func PollMarkerFor(pollID uuid.UUID) string {
	return PollMarkerPrefix + strings.ToLower(pollID.String())
}

// LikeState is the per-message like counter as seen by one viewer
type LikeState struct {
	Count int  `json:"count"`
	Mine  bool `json:"mine"`
}
