package dto

import (
	"time"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/google/uuid"
)

// StartThreadRequest opens (or reuses) a conversation with another member
type StartThreadRequest struct {
	RecipientID uuid.UUID `json:"recipientId" binding:"required"`
}

// SendDirectMessageRequest sends a message in a thread
type SendDirectMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// ThreadSummary is an inbox row
type ThreadSummary struct {
	ID            uuid.UUID             `json:"id"`
	Other         ProfilePreview        `json:"other"`
	LastMessage   *models.DirectMessage `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time            `json:"lastMessageAt,omitempty"`
	UnreadCount   int                   `json:"unreadCount"`
}

// ThreadResponse is a conversation with its messages
type ThreadResponse struct {
	ID       uuid.UUID              `json:"id"`
	Other    ProfilePreview         `json:"other"`
	Messages []models.DirectMessage `json:"messages"`
}
