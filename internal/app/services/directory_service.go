package services

import (
	"context"
	"errors"

	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// DirectoryService resolves the city/category/group slug hierarchy
type DirectoryService interface {
	ListActiveCities(ctx context.Context) ([]dto.CityResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListGroups(ctx context.Context, citySlug, categorySlug string, viewer models.Viewer) (*dto.GroupListResponse, error)
	ResolveGroup(ctx context.Context, citySlug, categorySlug, groupSlug string, viewer models.Viewer) (*models.Group, error)
}

type directoryServiceImpl struct {
	cities     cityStore
	categories categoryStore
	groups     groupStore
	views      *viewBuilder
	logger     zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(cities cityStore, categories categoryStore, groups groupStore, views *viewBuilder, logger zerolog.Logger) DirectoryService {
	return &directoryServiceImpl{
		cities:     cities,
		categories: categories,
		groups:     groups,
		views:      views,
		logger:     logger,
	}
}

func (s *directoryServiceImpl) ListActiveCities(ctx context.Context) ([]dto.CityResponse, error) {
	cities, err := s.cities.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CityResponse, 0, len(cities))
	for _, c := range cities {
		out = append(out, toCityResponse(c))
	}
	return out, nil
}

func (s *directoryServiceImpl) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// resolveLinks finds the city and category for a slug pair. A missing link is (nil, nil, nil).
func (s *directoryServiceImpl) resolveLinks(ctx context.Context, citySlug, categorySlug string) (*models.City, *models.Category, error) {
	city, err := s.cities.FindBySlug(ctx, citySlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	category, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return city, nil, nil
		}
		return nil, nil, err
	}
	return city, category, nil
}

// ListGroups returns the groups of a city/category page. Missing slugs give an empty list.
func (s *directoryServiceImpl) ListGroups(ctx context.Context, citySlug, categorySlug string, viewer models.Viewer) (*dto.GroupListResponse, error) {
	resp := &dto.GroupListResponse{Groups: []dto.GroupSummary{}}

	city, category, err := s.resolveLinks(ctx, citySlug, categorySlug)
	if err != nil {
		return nil, err
	}
	if city != nil {
		c := toCityResponse(city)
		resp.City = &c
	}
	if city == nil || category == nil {
		s.logger.Debug().Str("city", citySlug).Str("category", categorySlug).Msg("Slug link missing, returning empty group list")
		return resp, nil
	}
	cat := toCategoryResponse(category)
	resp.Category = &cat

	groups, err := s.groups.ListVisible(ctx, city.ID, category.ID, viewer)
	if err != nil {
		return nil, err
	}
	if resp.Groups, err = s.views.groupSummaries(ctx, groups); err != nil {
		return nil, err
	}
	return resp, nil
}

// ResolveGroup walks city -> category -> group. Any missing or hidden link returns (nil, nil).
func (s *directoryServiceImpl) ResolveGroup(ctx context.Context, citySlug, categorySlug, groupSlug string, viewer models.Viewer) (*models.Group, error) {
	city, category, err := s.resolveLinks(ctx, citySlug, categorySlug)
	if err != nil || city == nil || category == nil {
		return nil, err
	}

	g, err := s.groups.FindBySlug(ctx, city.ID, category.ID, groupSlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !viewer.CanSee(g.IsApproved, g.CreatorID) {
		return nil, nil
	}
	return g, nil
}
