package models

import (
	"time"

	"github.com/google/uuid"
)

// Poll is a question posted to a group chat
type Poll struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	GroupID   uuid.UUID  `json:"groupId" db:"group_id"`
	CreatorID uuid.UUID  `json:"creatorId" db:"creator_id"`
	Question  string     `json:"question" db:"question"`
	IsMulti   bool       `json:"isMulti" db:"is_multi"`
	ClosesAt  *time.Time `json:"closesAt,omitempty" db:"closes_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// IsClosed reports whether the poll stopped accepting votes at now.
func (p *Poll) IsClosed(now time.Time) bool {
	return p.ClosesAt != nil && !now.Before(*p.ClosesAt)
}

// PollOption is one answer of a poll
type PollOption struct {
	ID       uuid.UUID `json:"id" db:"id"`
	PollID   uuid.UUID `json:"pollId" db:"poll_id"`
	Label    string    `json:"label" db:"label"`
	Position int       `json:"position" db:"position"`
}

// PollVote is one voter's choice. Single-choice polls hold at most one per voter.
type PollVote struct {
	PollID   uuid.UUID `json:"pollId" db:"poll_id"`
	OptionID uuid.UUID `json:"optionId" db:"option_id"`
	VoterID  uuid.UUID `json:"voterId" db:"voter_id"`
}
