package models

import (
	"time"

	"github.com/google/uuid"
)

// CommunityEvent is a group event. Created unapproved.
type CommunityEvent struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GroupID       uuid.UUID `json:"groupId" db:"group_id"`
	CreatorID     uuid.UUID `json:"creatorId" db:"creator_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Location      *string   `json:"location,omitempty" db:"location"`
	StartsAt      time.Time `json:"startsAt" db:"starts_at"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty" db:"cover_image_url"`
	IsApproved    bool      `json:"isApproved" db:"is_approved"`
	IsCancelled   bool      `json:"isCancelled" db:"is_cancelled"`
	Latitude      *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// OpenForAttendance reports whether RSVPs are accepted.
func (e *CommunityEvent) OpenForAttendance() bool {
	return e.IsApproved && !e.IsCancelled
}

// AttendanceState is the attendee counter as seen by one viewer
type AttendanceState struct {
	Count int  `json:"count"`
	Mine  bool `json:"mine"`
}
