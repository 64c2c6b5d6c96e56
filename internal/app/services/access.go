package services

import (
	"context"
	"errors"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/google/uuid"
)

func requireAuth(viewer models.Viewer) error {
	if !viewer.Authenticated {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func requireAdmin(viewer models.Viewer) error {
	if err := requireAuth(viewer); err != nil {
		return err
	}
	if !viewer.IsAdmin {
		return apperrors.NewForbiddenError("admin access required")
	}
	return nil
}

// visibleGroup loads a group through the approval gate. Hidden groups look missing.
func visibleGroup(ctx context.Context, groups groupStore, id uuid.UUID, viewer models.Viewer) (*models.Group, error) {
	g, err := groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("group not found")
		}
		return nil, err
	}
	if !viewer.CanSee(g.IsApproved, g.CreatorID) {
		return nil, apperrors.NewResourceNotFoundError("group not found")
	}
	return g, nil
}

func requireMember(ctx context.Context, members memberStore, groupID uuid.UUID, viewer models.Viewer) error {
	if err := requireAuth(viewer); err != nil {
		return err
	}
	ok, err := members.IsMember(ctx, groupID, viewer.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotMember
	}
	return nil
}
