package models

import (
	"time"

	"github.com/google/uuid"
)

// DMThread is a two-person conversation
type DMThread struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	PairKey       string     `json:"-" db:"pair_key"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`
}

// DirectMessage is a message inside a thread
type DirectMessage struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ThreadID  uuid.UUID  `json:"threadId" db:"thread_id"`
	SenderID  uuid.UUID  `json:"senderId" db:"sender_id"`
	Content   string     `json:"content" db:"content"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	ReadAt    *time.Time `json:"readAt,omitempty" db:"read_at"`
}

// DMThreadSummary is an inbox row for one participant
type DMThreadSummary struct {
	Thread      DMThread
	OtherID     uuid.UUID
	LastMessage *DirectMessage
	UnreadCount int
}

// PairKey orders two profile ids so the same pair always maps to one thread.
func PairKey(a, b uuid.UUID) string {
	as, bs := a.String(), b.String()
	if as > bs {
		as, bs = bs, as
	}
	return as + ":" + bs
}
