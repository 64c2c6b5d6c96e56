package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
)

// DirectoryController serves cities, categories and the slug-based group directory
type DirectoryController struct {
	directoryService services.DirectoryService
	groupService     services.GroupService
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directoryService services.DirectoryService, groupService services.GroupService) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
		groupService:     groupService,
	}
}

// ListCities returns the active cities
// @Summary List cities
// @Tags directory
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CityResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /cities [get]
func (c *DirectoryController) ListCities(ctx *gin.Context) {
	cities, err := c.directoryService.ListActiveCities(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, cities)
}

// ListCategories returns every category
// @Summary List categories
// @Tags directory
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /categories [get]
func (c *DirectoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.directoryService.ListCategories(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, categories)
}

// ListGroups lists the groups of a city and category
// @Summary List groups by city and category
// @Description Unknown slugs yield an empty list. Pending groups are included for their creator and for admins.
// @Tags directory
// @Produce json
// @Param city path string true "City slug"
// @Param category path string true "Category slug"
// @Success 200 {object} dto.APIResponse{data=dto.GroupListResponse}
// @Failure 500 {object} dto.ErrorResponse
// @Router /directory/{city}/{category} [get]
func (c *DirectoryController) ListGroups(ctx *gin.Context) {
	groups, err := c.directoryService.ListGroups(ctx, ctx.Param("city"), ctx.Param("category"), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, groups)
}

// ResolveGroup returns a group page by its slug path
// @Summary Get a group by slugs
// @Tags directory
// @Produce json
// @Param city path string true "City slug"
// @Param category path string true "Category slug"
// @Param group path string true "Group slug"
// @Success 200 {object} dto.APIResponse{data=dto.GroupDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Group not found or not visible"
// @Failure 500 {object} dto.ErrorResponse
// @Router /directory/{city}/{category}/{group} [get]
func (c *DirectoryController) ResolveGroup(ctx *gin.Context) {
	viewer := middleware.GetViewer(ctx)
	group, err := c.directoryService.ResolveGroup(ctx, ctx.Param("city"), ctx.Param("category"), ctx.Param("group"), viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if group == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrResourceNotFound)
		return
	}

	detail, err := c.groupService.DetailFor(ctx, group, viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, detail)
}
