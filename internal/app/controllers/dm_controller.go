package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
)

// DMController handles direct message threads
type DMController struct {
	dmService services.DMService
}

// NewDMController creates a new DMController
func NewDMController(dmService services.DMService) *DMController {
	return &DMController{
		dmService: dmService,
	}
}

// StartThread opens the conversation with another member, reusing an existing one
// @Summary Start a conversation
// @Tags dm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartThreadRequest true "Recipient"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadSummary}
// @Failure 400 {object} dto.ErrorResponse "Cannot message yourself"
// @Failure 404 {object} dto.ErrorResponse
// @Router /dm/threads [post]
func (c *DMController) StartThread(ctx *gin.Context) {
	var req dto.StartThreadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	thread, err := c.dmService.StartThread(ctx, middleware.GetViewer(ctx), req.RecipientID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, thread)
}

// ListThreads returns the viewer's inbox
// @Summary List conversations
// @Tags dm
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ThreadSummary}
// @Router /dm/threads [get]
func (c *DMController) ListThreads(ctx *gin.Context) {
	threads, err := c.dmService.ListThreads(ctx, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, threads)
}

// GetThread returns a conversation and marks incoming messages as read
// @Summary Get a conversation
// @Tags dm
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /dm/threads/{id} [get]
func (c *DMController) GetThread(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	thread, err := c.dmService.GetThread(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, thread)
}

// Send posts a message to a conversation
// @Summary Send a direct message
// @Tags dm
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID" Format(uuid)
// @Param request body dto.SendDirectMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.DirectMessage}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /dm/threads/{id}/messages [post]
func (c *DMController) Send(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SendDirectMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.dmService.Send(ctx, id, middleware.GetViewer(ctx), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, msg)
}
