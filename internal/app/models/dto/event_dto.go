package dto

import (
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/google/uuid"
)

// CreateEventRequest proposes an event for a group
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required,min=3,max=120" example:"Retiro picnic"`
	Description   *string   `json:"description,omitempty" binding:"omitempty,max=4000"`
	Location      *string   `json:"location,omitempty" binding:"omitempty,max=300"`
	StartsAt      time.Time `json:"startsAt" binding:"required" example:"2025-06-01T11:00:00Z"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty" binding:"omitempty,url"`
	Latitude      *float64  `json:"latitude,omitempty" binding:"omitempty,latitude"`
	Longitude     *float64  `json:"longitude,omitempty" binding:"omitempty,longitude"`
}

// UpdateEventRequest changes the editable fields of an event
type UpdateEventRequest struct {
	Title         *string    `json:"title,omitempty" binding:"omitempty,min=3,max=120"`
	Description   *string    `json:"description,omitempty" binding:"omitempty,max=4000"`
	Location      *string    `json:"location,omitempty" binding:"omitempty,max=300"`
	StartsAt      *time.Time `json:"startsAt,omitempty"`
	CoverImageURL *string    `json:"coverImageUrl,omitempty" binding:"omitempty,url"`
	Latitude      *float64   `json:"latitude,omitempty" binding:"omitempty,latitude"`
	Longitude     *float64   `json:"longitude,omitempty" binding:"omitempty,longitude"`
}

// EventGroupRef locates the group an event belongs to
type EventGroupRef struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	CitySlug     string    `json:"citySlug"`
	CategorySlug string    `json:"categorySlug"`
}

// EventView is an event with its group, creator and attendance
type EventView struct {
	ID            uuid.UUID              `json:"id"`
	Title         string                 `json:"title"`
	Description   *string                `json:"description,omitempty"`
	Location      *string                `json:"location,omitempty"`
	StartsAt      time.Time              `json:"startsAt"`
	CoverImageURL *string                `json:"coverImageUrl,omitempty"`
	IsApproved    bool                   `json:"isApproved"`
	IsCancelled   bool                   `json:"isCancelled"`
	Latitude      *float64               `json:"latitude,omitempty"`
	Longitude     *float64               `json:"longitude,omitempty"`
	Group         *EventGroupRef         `json:"group,omitempty"`
	Creator       *ProfilePreview        `json:"creator,omitempty"`
	Attendance    models.AttendanceState `json:"attendance"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// CalendarDay groups events by their UTC date
type CalendarDay struct {
	Date   string      `json:"date" example:"2025-01-02"`
	Events []EventView `json:"events"`
}

// CalendarResponse is the viewer's calendar
type CalendarResponse struct {
	Days []CalendarDay `json:"days"`
}
