package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactKind distinguishes the requests that share the contact inbox
type ContactKind string

const (
	ContactKindContact         ContactKind = "contact"
	ContactKindAccountDeletion ContactKind = "account_deletion"
	ContactKindHostActivation  ContactKind = "host_activation"
)

// Names written to contact_messages.name for account requests
const (
	AccountDeletionName = "Delete Account Request"
	HostActivationName  = "Host Activation Request"
)

// Valid reports whether k is a known kind.
func (k ContactKind) Valid() bool {
	switch k {
	case ContactKindContact, ContactKindAccountDeletion, ContactKindHostActivation:
		return true
	}
	return false
}

// ContactMessage is a row of the shared inbox
type ContactMessage struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Kind      ContactKind `json:"kind" db:"kind"`
	Name      string      `json:"name" db:"name"`
	Email     string      `json:"email" db:"email"`
	Message   string      `json:"message" db:"message"`
	ProfileID *uuid.UUID  `json:"profileId,omitempty" db:"profile_id"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	HandledAt *time.Time  `json:"handledAt,omitempty" db:"handled_at"`
}

// WaitlistEntry is a coming-soon signup
type WaitlistEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
