package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
)

// GroupController handles groups, membership and subgroups
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// CreateGroup proposes a new group
// @Summary Create a group
// @Description The group stays pending until an admin approves it. The creator joins automatically.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group"
// @Success 201 {object} dto.APIResponse{data=dto.GroupSummary}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.CreateGroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	group, err := c.groupService.CreateGroup(ctx, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, group)
}

// GetGroup returns a group page by ID
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.GroupDetailResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	group, err := c.groupService.GetGroup(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, group)
}

// ListMyGroups returns the groups the viewer belongs to
// @Summary List my groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupSummary}
// @Failure 401 {object} dto.ErrorResponse
// @Router /me/groups [get]
func (c *GroupController) ListMyGroups(ctx *gin.Context) {
	groups, err := c.groupService.ListMyGroups(ctx, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, groups)
}

// Join adds the viewer to a group
// @Summary Join a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Group is pending approval"
// @Router /groups/{id}/members [post]
func (c *GroupController) Join(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	membership, err := c.groupService.Join(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, membership)
}

// Leave removes the viewer from a group
// @Summary Leave a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /groups/{id}/members/me [delete]
func (c *GroupController) Leave(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	membership, err := c.groupService.Leave(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, membership)
}

// ListMembers returns member previews
// @Summary List group members
// @Tags groups
// @Produce json
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.ProfilePreview}
// @Failure 404 {object} dto.ErrorResponse
// @Router /groups/{id}/members [get]
func (c *GroupController) ListMembers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	members, err := c.groupService.ListMembers(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, members)
}

// CreateSubgroup adds a location or age subgroup
// @Summary Create a subgroup
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Param request body dto.CreateSubgroupRequest true "Subgroup"
// @Success 201 {object} dto.APIResponse{data=models.Subgroup}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /groups/{id}/subgroups [post]
func (c *GroupController) CreateSubgroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateSubgroupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subgroup, err := c.groupService.CreateSubgroup(ctx, id, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, subgroup)
}

// ListSubgroups returns the subgroups of a group
// @Summary List subgroups
// @Tags groups
// @Produce json
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]models.Subgroup}
// @Router /groups/{id}/subgroups [get]
func (c *GroupController) ListSubgroups(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	subgroups, err := c.groupService.ListSubgroups(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subgroups)
}
