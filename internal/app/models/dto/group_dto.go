package dto

import (
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/google/uuid"
)

// CreateGroupRequest creates a pending group
type CreateGroupRequest struct {
	Name          string    `json:"name" binding:"required,min=3,max=80" example:"Sunday Runners"`
	Slug          string    `json:"slug,omitempty" binding:"omitempty,slug,max=80" example:"sunday-runners"`
	Description   string    `json:"description" binding:"max=1000"`
	CityID        uuid.UUID `json:"cityId" binding:"required"`
	CategoryID    uuid.UUID `json:"categoryId" binding:"required"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty" binding:"omitempty,url"`
}

// GroupDetailResponse is a group page
type GroupDetailResponse struct {
	GroupSummary
	IsMember  bool              `json:"isMember"`
	Subgroups []models.Subgroup `json:"subgroups"`
}

// CreateSubgroupRequest adds a location or age partition to a group chat
type CreateSubgroupRequest struct {
	Name string              `json:"name" binding:"required,min=2,max=60" example:"Malasaña"`
	Type models.SubgroupType `json:"type" binding:"required,oneof=location age" example:"location"`
}

// MembershipResponse reports the viewer's membership after join/leave
type MembershipResponse struct {
	GroupID     uuid.UUID `json:"groupId"`
	IsMember    bool      `json:"isMember"`
	MemberCount int       `json:"memberCount"`
}
