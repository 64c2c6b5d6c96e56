package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is one row per authenticated account
type Profile struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         *string    `json:"-" db:"email"`
	Username      string     `json:"username" db:"username"`
	Bio           *string    `json:"bio,omitempty" db:"bio"`
	CityID        *uuid.UUID `json:"cityId,omitempty" db:"city_id"`
	AvatarURL     *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	FavoriteEmoji *string    `json:"favoriteEmoji,omitempty" db:"favorite_emoji"`
	Quote         *string    `json:"quote,omitempty" db:"quote"`
	BirthYear     *int       `json:"birthYear,omitempty" db:"birth_year"`
	IsHost        bool       `json:"isHost" db:"is_host"`
	HostBio       *string    `json:"hostBio,omitempty" db:"host_bio"`
	HostInstagram *string    `json:"hostInstagram,omitempty" db:"host_instagram"`
	HostWebsite   *string    `json:"hostWebsite,omitempty" db:"host_website"`
	IsAdmin       bool       `json:"isAdmin" db:"is_admin"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// ProfileCustomInterest is a free-text interest
type ProfileCustomInterest struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProfileID uuid.UUID `json:"profileId" db:"profile_id"`
	Label     string    `json:"label" db:"label"`
	Position  int       `json:"position" db:"position"`
}

// ProfilePhoto is a gallery image
type ProfilePhoto struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProfileID uuid.UUID `json:"profileId" db:"profile_id"`
	URL       string    `json:"url" db:"url"`
	Position  int       `json:"position" db:"position"`
}

// ProfileAux holds the auxiliary rows replaced together with a profile save
type ProfileAux struct {
	CategoryIDs     []uuid.UUID
	CustomInterests []string
	PhotoURLs       []string
}
