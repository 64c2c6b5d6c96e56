package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
	"github.com/girlscollective/collective/internal/pkg/helpers"
)

// AdminController serves the moderation dashboard
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// ListPending returns the groups and events awaiting approval
// @Summary Moderation queue
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PendingResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/pending [get]
func (c *AdminController) ListPending(ctx *gin.Context) {
	pending, err := c.adminService.ListPending(ctx, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, pending)
}

// ApproveGroup publishes a pending group
// @Summary Approve a group
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Success 204 "Approved"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/groups/{id}/approve [post]
func (c *AdminController) ApproveGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.ApproveGroup(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeleteGroup removes a group and everything in it
// @Summary Delete a group
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/groups/{id} [delete]
func (c *AdminController) DeleteGroup(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteGroup(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListContactMessages pages through the contact inbox
// @Summary Contact inbox
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Filter by kind" Enums(contact, account_deletion, host_activation)
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ContactListResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown kind"
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/contact-messages [get]
func (c *AdminController) ListContactMessages(ctx *gin.Context) {
	var kind *models.ContactKind
	if raw := ctx.Query("kind"); raw != "" {
		k := models.ContactKind(raw)
		kind = &k
	}
	page, size := helpers.ParsePaginationParams(ctx)

	messages, pagination, err := c.adminService.ListContactMessages(ctx, middleware.GetViewer(ctx), kind, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.ContactListResponse{Messages: messages, Pagination: pagination})
}

// MarkContactHandled archives an inbox entry
// @Summary Mark a contact message as handled
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Contact message ID" Format(uuid)
// @Success 204 "Handled"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/contact-messages/{id}/handled [post]
func (c *AdminController) MarkContactHandled(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.MarkContactHandled(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ActivateHost turns on hosting for a profile
// @Summary Activate a host
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Profile ID" Format(uuid)
// @Success 204 "Activated"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/hosts/{id}/activate [post]
func (c *AdminController) ActivateHost(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.ActivateHost(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
