package dto

import (
	"time"

	"github.com/google/uuid"
)

// CityResponse is a city as exposed by the API
type CityResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name" example:"Madrid"`
	Slug string    `json:"slug" example:"madrid"`
}

// CategoryResponse is a category as exposed by the API
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name" example:"Running"`
	Slug string    `json:"slug" example:"running"`
}

// ProfilePreview is the compact author card used by every list
type ProfilePreview struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username" example:"lucia"`
	AvatarURL     *string   `json:"avatarUrl,omitempty"`
	FavoriteEmoji *string   `json:"favoriteEmoji,omitempty" example:"🌸"`
}

// GroupSummary is a group card in listings
type GroupSummary struct {
	ID            uuid.UUID        `json:"id"`
	Slug          string           `json:"slug" example:"sunday-runners"`
	Name          string           `json:"name" example:"Sunday Runners"`
	Description   string           `json:"description"`
	CoverImageURL *string          `json:"coverImageUrl,omitempty"`
	IsApproved    bool             `json:"isApproved"`
	City          CityResponse     `json:"city"`
	Category      CategoryResponse `json:"category"`
	Creator       *ProfilePreview  `json:"creator,omitempty"`
	MemberCount   int              `json:"memberCount"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// GroupListResponse lists the groups of a city/category page
type GroupListResponse struct {
	City     *CityResponse     `json:"city,omitempty"`
	Category *CategoryResponse `json:"category,omitempty"`
	Groups   []GroupSummary    `json:"groups"`
}
