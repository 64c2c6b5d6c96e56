package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/girlscollective/collective/internal/pkg/worker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxSlugAttempts = 50

// GroupService handles groups, membership and subgroups
type GroupService interface {
	CreateGroup(ctx context.Context, viewer models.Viewer, req *dto.CreateGroupRequest) (*dto.GroupSummary, error)
	GetGroup(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.GroupDetailResponse, error)
	DetailFor(ctx context.Context, g *models.Group, viewer models.Viewer) (*dto.GroupDetailResponse, error)
	ListMyGroups(ctx context.Context, viewer models.Viewer) ([]dto.GroupSummary, error)
	Join(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) (*dto.MembershipResponse, error)
	Leave(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) (*dto.MembershipResponse, error)
	IsMember(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) (bool, error)
	ListMembers(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) ([]dto.ProfilePreview, error)
	CreateSubgroup(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.CreateSubgroupRequest) (*models.Subgroup, error)
	ListSubgroups(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) ([]*models.Subgroup, error)
}

type groupServiceImpl struct {
	groups      groupStore
	members     memberStore
	subgroups   subgroupStore
	cities      cityStore
	categories  categoryStore
	views       *viewBuilder
	distributor worker.TaskDistributor
	adminURL    string
	logger      zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groups groupStore,
	members memberStore,
	subgroups subgroupStore,
	cities cityStore,
	categories categoryStore,
	views *viewBuilder,
	distributor worker.TaskDistributor,
	adminURL string,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groups:      groups,
		members:     members,
		subgroups:   subgroups,
		cities:      cities,
		categories:  categories,
		views:       views,
		distributor: distributor,
		adminURL:    adminURL,
		logger:      logger,
	}
}

// uniqueSlug derives a slug and appends -2, -3... until it is free within the city/category
func (s *groupServiceImpl) uniqueSlug(ctx context.Context, cityID, categoryID uuid.UUID, requested, name string) (string, error) {
	base := helpers.Slugify(requested)
	if base == "" {
		base = helpers.Slugify(name)
	}
	if base == "" {
		base = "grupo"
	}

	candidate := base
	for i := 2; i < maxSlugAttempts+2; i++ {
		taken, err := s.groups.SlugExists(ctx, cityID, categoryID, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", apperrors.NewConflictError("could not find a free slug for this group")
}

func (s *groupServiceImpl) CreateGroup(ctx context.Context, viewer models.Viewer, req *dto.CreateGroupRequest) (*dto.GroupSummary, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}

	cities, err := s.cities.GetByIDs(ctx, []uuid.UUID{req.CityID})
	if err != nil {
		return nil, err
	}
	if _, ok := cities[req.CityID]; !ok {
		return nil, apperrors.NewBadRequestError("unknown city")
	}
	categories, err := s.categories.GetByIDs(ctx, []uuid.UUID{req.CategoryID})
	if err != nil {
		return nil, err
	}
	if _, ok := categories[req.CategoryID]; !ok {
		return nil, apperrors.NewBadRequestError("unknown category")
	}

	slug, err := s.uniqueSlug(ctx, req.CityID, req.CategoryID, req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	g := &models.Group{
		Slug:          slug,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		CoverImageURL: helpers.NullIfBlank(req.CoverImageURL),
		CityID:        req.CityID,
		CategoryID:    req.CategoryID,
		CreatorID:     viewer.ID,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info().Str("groupID", g.ID.String()).Str("slug", g.Slug).Msg("Group created, pending approval")

	summaries, err := s.views.groupSummaries(ctx, []*models.Group{g})
	if err != nil {
		return nil, err
	}
	summary := summaries[0]
	s.notifyApproval(ctx, notify.TypeGroup, map[string]interface{}{
		"id":          g.ID,
		"name":        g.Name,
		"slug":        g.Slug,
		"description": g.Description,
		"city":        summary.City.Name,
		"category":    summary.Category.Name,
	})
	return &summary, nil
}

func (s *groupServiceImpl) notifyApproval(ctx context.Context, kind string, item map[string]interface{}) {
	notice := notify.ApprovalNotice{Type: kind, Item: item, AdminURL: s.adminURL}
	if err := s.distributor.DistributeTaskApprovalNotice(ctx, notice); err != nil {
		s.logger.Error().Err(err).Str("type", kind).Msg("Failed to enqueue approval notice")
	}
}

func (s *groupServiceImpl) GetGroup(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*dto.GroupDetailResponse, error) {
	g, err := visibleGroup(ctx, s.groups, id, viewer)
	if err != nil {
		return nil, err
	}
	return s.DetailFor(ctx, g, viewer)
}

// DetailFor builds the group page for an already resolved group
func (s *groupServiceImpl) DetailFor(ctx context.Context, g *models.Group, viewer models.Viewer) (*dto.GroupDetailResponse, error) {
	summaries, err := s.views.groupSummaries(ctx, []*models.Group{g})
	if err != nil {
		return nil, err
	}
	subgroups, err := s.subgroups.ListByGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.GroupDetailResponse{
		GroupSummary: summaries[0],
		Subgroups:    make([]models.Subgroup, 0, len(subgroups)),
	}
	for _, sg := range subgroups {
		resp.Subgroups = append(resp.Subgroups, *sg)
	}
	if viewer.Authenticated {
		if resp.IsMember, err = s.members.IsMember(ctx, g.ID, viewer.ID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *groupServiceImpl) ListMyGroups(ctx context.Context, viewer models.Viewer) ([]dto.GroupSummary, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	groups, err := s.groups.ListByMember(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	visible := groups[:0]
	for _, g := range groups {
		if viewer.CanSee(g.IsApproved, g.CreatorID) {
			visible = append(visible, g)
		}
	}
	return s.views.groupSummaries(ctx, visible)
}

func (s *groupServiceImpl) membership(ctx context.Context, groupID uuid.UUID, isMember bool) (*dto.MembershipResponse, error) {
	counts, err := s.members.CountsByGroupIDs(ctx, []uuid.UUID{groupID})
	if err != nil {
		return nil, err
	}
	return &dto.MembershipResponse{GroupID: groupID, IsMember: isMember, MemberCount: counts[groupID]}, nil
}

func (s *groupServiceImpl) Join(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) (*dto.MembershipResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	g, err := visibleGroup(ctx, s.groups, groupID, viewer)
	if err != nil {
		return nil, err
	}
	if !g.IsApproved && !viewer.Owns(g.CreatorID) {
		return nil, apperrors.ErrGroupNotApproved
	}
	if err := s.members.Add(ctx, groupID, viewer.ID); err != nil {
		return nil, err
	}
	return s.membership(ctx, groupID, true)
}

func (s *groupServiceImpl) Leave(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) (*dto.MembershipResponse, error) {
	if err := requireAuth(viewer); err != nil {
		return nil, err
	}
	if err := s.members.Remove(ctx, groupID, viewer.ID); err != nil {
		return nil, err
	}
	return s.membership(ctx, groupID, false)
}

func (s *groupServiceImpl) IsMember(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) (bool, error) {
	if !viewer.Authenticated {
		return false, nil
	}
	return s.members.IsMember(ctx, groupID, viewer.ID)
}

func (s *groupServiceImpl) ListMembers(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) ([]dto.ProfilePreview, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	ids, err := s.members.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	previews, err := s.views.profilePreviews(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfilePreview, 0, len(ids))
	for _, id := range ids {
		out = append(out, previews[id])
	}
	return out, nil
}

func (s *groupServiceImpl) CreateSubgroup(ctx context.Context, groupID uuid.UUID, viewer models.Viewer, req *dto.CreateSubgroupRequest) (*models.Subgroup, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.members, groupID, viewer); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewBadRequestError("subgroup type must be location or age")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("subgroup name is required")
	}

	creator := viewer.ID
	sg := &models.Subgroup{GroupID: groupID, Name: name, Type: req.Type, CreatedBy: &creator}
	if err := s.subgroups.Create(ctx, sg); err != nil {
		return nil, err
	}
	return sg, nil
}

func (s *groupServiceImpl) ListSubgroups(ctx context.Context, groupID uuid.UUID, viewer models.Viewer) ([]*models.Subgroup, error) {
	if _, err := visibleGroup(ctx, s.groups, groupID, viewer); err != nil {
		return nil, err
	}
	return s.subgroups.ListByGroup(ctx, groupID)
}
