package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/girlscollective/collective/internal/pkg/websocket"
	"github.com/google/uuid"
)

// FeedController handles group chat messages, likes, pins and the live stream
type FeedController struct {
	feedService    services.FeedService
	groupService   services.GroupService
	hub            *websocket.Hub
	allowedOrigins []string
}

// NewFeedController creates a new FeedController
func NewFeedController(feedService services.FeedService, groupService services.GroupService, hub *websocket.Hub, allowedOrigins []string) *FeedController {
	return &FeedController{
		feedService:    feedService,
		groupService:   groupService,
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
}

// ListMessages returns one page of a group chat
// @Summary List group messages
// @Description Newest first, one level of replies attached, pinned messages listed separately.
// @Tags feed
// @Produce json
// @Param id path string true "Group ID" Format(uuid)
// @Param subgroupId query string false "Only messages of this subgroup" Format(uuid)
// @Param before query string false "Cursor: createdAt of the last message seen (RFC3339)"
// @Param beforeId query string false "Cursor: id of the last message seen"
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.FeedResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /groups/{id}/messages [get]
func (c *FeedController) ListMessages(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	before, beforeID, limit := helpers.ParseCursorParams(ctx)
	q := dto.FeedQuery{Before: before, BeforeID: beforeID, Limit: limit}
	if raw := ctx.Query("subgroupId"); raw != "" {
		if sid, err := uuid.Parse(raw); err == nil {
			q.SubgroupID = &sid
		}
	}

	feed, err := c.feedService.ListMessages(ctx, id, middleware.GetViewer(ctx), q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, feed)
}

// PostMessage posts to a group chat
// @Summary Post a message
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Param request body dto.PostMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageView}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /groups/{id}/messages [post]
func (c *FeedController) PostMessage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.PostMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.feedService.PostMessage(ctx, id, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, msg)
}

// EditMessage changes the content of the viewer's own message
// @Summary Edit a message
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID" Format(uuid)
// @Param request body dto.EditMessageRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=dto.MessageView}
// @Failure 403 {object} dto.ErrorResponse "Only the author can edit"
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{id} [patch]
func (c *FeedController) EditMessage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.EditMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.feedService.EditMessage(ctx, id, middleware.GetViewer(ctx), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, msg)
}

// DeleteMessage removes a message
// @Summary Delete a message (admin)
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID" Format(uuid)
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{id} [delete]
func (c *FeedController) DeleteMessage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.feedService.DeleteMessage(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// PinMessage pins a message to the top of the chat
// @Summary Pin a message (admin)
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.MessageView}
// @Failure 403 {object} dto.ErrorResponse
// @Router /messages/{id}/pin [post]
func (c *FeedController) PinMessage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	msg, err := c.feedService.PinMessage(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, msg)
}

// UnpinMessage clears a pin
// @Summary Unpin a message (admin)
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.MessageView}
// @Failure 403 {object} dto.ErrorResponse
// @Router /messages/{id}/pin [delete]
func (c *FeedController) UnpinMessage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	msg, err := c.feedService.UnpinMessage(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, msg)
}

// ToggleLike likes or unlikes a message
// @Summary Toggle like
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/{id}/like [post]
func (c *FeedController) ToggleLike(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	likes, err := c.feedService.ToggleLike(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, likes)
}

// Stream upgrades to a websocket carrying the group's live events
// @Summary Group live events
// @Description Pushes message.created, message.updated, message.deleted, message.pinned and poll.updated. Members only.
// @Tags feed
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Param token query string false "Access token for clients that cannot set headers"
// @Success 101 "Switching protocols"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /groups/{id}/ws [get]
func (c *FeedController) Stream(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	viewer := middleware.GetViewer(ctx)
	member, err := c.groupService.IsMember(ctx, id, viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !member {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Join the group to follow its chat")
		ctx.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	// Serve writes its own handshake error response
	_ = websocket.Serve(c.hub, ctx.Writer, ctx.Request, id, viewer.ID, c.allowedOrigins)
}
