package models

import "github.com/google/uuid"

// Viewer is the caller of a request. The zero value is an anonymous visitor.
type Viewer struct {
	ID            uuid.UUID
	Email         string
	IsAdmin       bool
	Authenticated bool
}

// Anonymous returns a viewer without an account.
func Anonymous() Viewer {
	return Viewer{}
}

// Owns reports whether the viewer is the given profile.
func (v Viewer) Owns(profileID uuid.UUID) bool {
	return v.Authenticated && profileID != uuid.Nil && v.ID == profileID
}

// CanSee applies the approval gate: approved items are public, pending ones are
// visible to their creator and to admins only.
func (v Viewer) CanSee(isApproved bool, creatorID uuid.UUID) bool {
	return isApproved || v.IsAdmin || v.Owns(creatorID)
}

// CanModerate reports whether the viewer may cancel or delete an item created by creatorID.
func (v Viewer) CanModerate(creatorID uuid.UUID) bool {
	return v.IsAdmin || v.Owns(creatorID)
}
