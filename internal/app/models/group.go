package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a city/category scoped community, hidden from the public feed until approved
type Group struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Slug          string    `json:"slug" db:"slug"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty" db:"cover_image_url"`
	IsApproved    bool      `json:"isApproved" db:"is_approved"`
	CategoryID    uuid.UUID `json:"categoryId" db:"category_id"`
	CityID        uuid.UUID `json:"cityId" db:"city_id"`
	CreatorID     uuid.UUID `json:"creatorId" db:"creator_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// GroupMember is the existence-only membership row
type GroupMember struct {
	GroupID   uuid.UUID `json:"groupId" db:"group_id"`
	ProfileID uuid.UUID `json:"profileId" db:"profile_id"`
	JoinedAt  time.Time `json:"joinedAt" db:"joined_at"`
}

// SubgroupType partitions a group's chat
type SubgroupType string

const (
	SubgroupLocation SubgroupType = "location"
	SubgroupAge      SubgroupType = "age"
)

// Valid reports whether t is a known subgroup type.
func (t SubgroupType) Valid() bool {
	return t == SubgroupLocation || t == SubgroupAge
}

// Subgroup is a secondary partition of a group's chat
type Subgroup struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	GroupID   uuid.UUID    `json:"groupId" db:"group_id"`
	Name      string       `json:"name" db:"name"`
	Type      SubgroupType `json:"type" db:"type"`
	CreatedBy *uuid.UUID   `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
