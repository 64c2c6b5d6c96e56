package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
)

// PollController handles group polls
type PollController struct {
	pollService services.PollService
}

// NewPollController creates a new PollController
func NewPollController(pollService services.PollService) *PollController {
	return &PollController{
		pollService: pollService,
	}
}

// CreatePoll creates a poll and posts its marker message
// @Summary Create a poll
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Param request body dto.CreatePollRequest true "Poll"
// @Success 201 {object} dto.APIResponse{data=dto.PollView}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /groups/{id}/polls [post]
func (c *PollController) CreatePoll(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreatePollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	poll, err := c.pollService.CreatePoll(ctx, groupID, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, poll)
}

// ListPolls returns the polls of a group
// @Summary List group polls
// @Tags polls
// @Produce json
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=[]dto.PollView}
// @Router /groups/{id}/polls [get]
func (c *PollController) ListPolls(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	polls, err := c.pollService.ListPolls(ctx, groupID, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, polls)
}

// GetPoll returns a poll with its tallies
// @Summary Get a poll
// @Tags polls
// @Produce json
// @Param id path string true "Poll ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.PollView}
// @Failure 404 {object} dto.ErrorResponse
// @Router /polls/{id} [get]
func (c *PollController) GetPoll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	poll, err := c.pollService.GetPoll(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, poll)
}

// Vote toggles the viewer's vote on an option
// @Summary Vote on a poll
// @Description Voting for an option the viewer already holds removes the vote. Single-choice polls replace any previous vote.
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Poll ID" Format(uuid)
// @Param request body dto.VoteRequest true "Option"
// @Success 200 {object} dto.APIResponse{data=dto.PollView}
// @Failure 400 {object} dto.ErrorResponse "Option does not belong to the poll"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 409 {object} dto.ErrorResponse "Poll is closed"
// @Router /polls/{id}/votes [post]
func (c *PollController) Vote(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.VoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	poll, err := c.pollService.Vote(ctx, id, middleware.GetViewer(ctx), req.OptionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, poll)
}

// DeletePoll removes a poll and its marker message
// @Summary Delete a poll
// @Tags polls
// @Security BearerAuth
// @Param id path string true "Poll ID" Format(uuid)
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /polls/{id} [delete]
func (c *PollController) DeletePoll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.pollService.DeletePoll(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
