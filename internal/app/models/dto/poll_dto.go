package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePollRequest creates a poll and its chat marker
type CreatePollRequest struct {
	Question string     `json:"question" binding:"required,min=3,max=300" example:"Brunch or picnic?"`
	Options  []string   `json:"options" binding:"required,min=2,max=10,dive,required,max=120"`
	IsMulti  bool       `json:"isMulti"`
	ClosesAt *time.Time `json:"closesAt,omitempty"`
}

// VoteRequest toggles a vote on one option
type VoteRequest struct {
	OptionID uuid.UUID `json:"optionId" binding:"required"`
}

// PollOptionTally is one option and its vote count
type PollOptionTally struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Votes int       `json:"votes"`
}

// PollView is a poll with its current tallies
type PollView struct {
	ID         uuid.UUID         `json:"id"`
	GroupID    uuid.UUID         `json:"groupId"`
	Question   string            `json:"question"`
	IsMulti    bool              `json:"isMulti"`
	ClosesAt   *time.Time        `json:"closesAt,omitempty"`
	IsClosed   bool              `json:"isClosed"`
	Creator    *ProfilePreview   `json:"creator,omitempty"`
	Options    []PollOptionTally `json:"options"`
	TotalVotes int               `json:"totalVotes"`
	Mine       []uuid.UUID       `json:"mine"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Public returns a copy without the viewer's own votes, for group-wide broadcasts.
func (v PollView) Public() PollView {
	v.Mine = []uuid.UUID{}
	return v
}
