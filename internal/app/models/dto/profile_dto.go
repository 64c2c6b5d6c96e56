package dto

import (
	"time"

	"github.com/google/uuid"
)

// SaveProfileRequest is the onboarding and edit-profile form
type SaveProfileRequest struct {
	Username        string      `json:"username" binding:"required,min=3,max=30,username" example:"lucia"`
	Bio             *string     `json:"bio,omitempty" binding:"omitempty,max=500"`
	CityID          uuid.UUID   `json:"cityId" binding:"required"`
	AvatarURL       *string     `json:"avatarUrl,omitempty" binding:"omitempty,url"`
	FavoriteEmoji   *string     `json:"favoriteEmoji,omitempty" binding:"omitempty,max=16"`
	Quote           *string     `json:"quote,omitempty" binding:"omitempty,max=200"`
	BirthYear       *int        `json:"birthYear,omitempty" binding:"omitempty,min=1900,max=2100"`
	CategoryIDs     []uuid.UUID `json:"categoryIds" binding:"max=20"`
	CustomInterests []string    `json:"customInterests" binding:"max=10,dive,required,max=40"`
	Photos          []string    `json:"photos" binding:"max=6,dive,url"`
}

// UpdateHostRequest edits the host card of an activated host
type UpdateHostRequest struct {
	HostBio       *string `json:"hostBio,omitempty" binding:"omitempty,max=1000"`
	HostInstagram *string `json:"hostInstagram,omitempty" binding:"omitempty,max=60"`
	HostWebsite   *string `json:"hostWebsite,omitempty" binding:"omitempty,url"`
}

// UsernameAvailabilityResponse answers the onboarding availability check
type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// ProfileResponse is a full profile page
type ProfileResponse struct {
	ID              uuid.UUID          `json:"id"`
	Username        string             `json:"username"`
	Bio             *string            `json:"bio,omitempty"`
	City            *CityResponse      `json:"city,omitempty"`
	AvatarURL       *string            `json:"avatarUrl,omitempty"`
	FavoriteEmoji   *string            `json:"favoriteEmoji,omitempty"`
	Quote           *string            `json:"quote,omitempty"`
	BirthYear       *int               `json:"birthYear,omitempty"`
	IsHost          bool               `json:"isHost"`
	HostBio         *string            `json:"hostBio,omitempty"`
	HostInstagram   *string            `json:"hostInstagram,omitempty"`
	HostWebsite     *string            `json:"hostWebsite,omitempty"`
	IsAdmin         bool               `json:"isAdmin"`
	Categories      []CategoryResponse `json:"categories"`
	CustomInterests []string           `json:"customInterests"`
	Photos          []string           `json:"photos"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// UploadResponse is the public location of an uploaded file
type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
