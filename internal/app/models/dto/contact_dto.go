package dto

import "github.com/girlscollective/collective/internal/app/models"

// ContactRequest is the public contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}

// AccountDeletionRequest asks the team to delete the viewer's account
type AccountDeletionRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// HostActivationRequest asks the team to activate hosting for the viewer
type HostActivationRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// WaitlistRequest signs up for launch news
type WaitlistRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PreviewRequest unlocks the site while it is gated
type PreviewRequest struct {
	Key string `json:"key" binding:"required"`
}

// PendingResponse is the moderation queue
type PendingResponse struct {
	Groups []GroupSummary `json:"groups"`
	Events []EventView    `json:"events"`
}

// GeocodeRequest resolves a free-form location
type GeocodeRequest struct {
	Location string `json:"location"`
	City     string `json:"city"`
}

// GeocodeResponse is the first geocoding match
type GeocodeResponse struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted"`
}

// ContactListResponse is one page of the contact inbox
type ContactListResponse struct {
	Messages   []*models.ContactMessage `json:"messages"`
	Pagination PaginationInfo           `json:"pagination"`
}
