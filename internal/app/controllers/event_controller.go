package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
)

// EventController handles group events, attendance and the personal calendar
type EventController struct {
	eventService    services.EventService
	calendarService services.CalendarService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, calendarService services.CalendarService) *EventController {
	return &EventController{
		eventService:    eventService,
		calendarService: calendarService,
	}
}

// CreateEvent proposes an event for a group
// @Summary Create an event
// @Description The event stays pending until an admin approves it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" Format(uuid)
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=dto.EventView}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 409 {object} dto.ErrorResponse "Group is pending approval"
// @Router /groups/{id}/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx, groupID, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, event)
}

// ListGroupEvents returns the visible events of a group
// @Summary List group events
// @Tags events
// @Produce json
// @Param id path string true "Group ID" Format(uuid)
// @Param upcoming query bool false "Only events that have not started yet"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventView}
// @Router /groups/{id}/events [get]
func (c *EventController) ListGroupEvents(ctx *gin.Context) {
	groupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	upcoming, _ := strconv.ParseBool(ctx.DefaultQuery("upcoming", "false"))

	events, err := c.eventService.ListGroupEvents(ctx, groupID, middleware.GetViewer(ctx), upcoming)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, events)
}

// GetEvent returns one event
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.EventView}
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

// UpdateEvent edits an event
// @Summary Update an event (creator)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID" Format(uuid)
// @Param request body dto.UpdateEventRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.EventView}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [patch]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx, id, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

// CancelEvent marks an event as cancelled
// @Summary Cancel an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.EventView}
// @Failure 403 {object} dto.ErrorResponse
// @Router /events/{id}/cancel [post]
func (c *EventController) CancelEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.CancelEvent(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

// DeleteEvent removes an event
// @Summary Delete an event
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID" Format(uuid)
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.DeleteEvent(ctx, id, middleware.GetViewer(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ApproveEvent publishes a pending event
// @Summary Approve an event (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.EventView}
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/events/{id}/approve [post]
func (c *EventController) ApproveEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.ApproveEvent(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

// ToggleAttendance marks or unmarks the viewer as attending
// @Summary Toggle attendance
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.AttendanceState}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Event is pending or cancelled"
// @Router /events/{id}/attendance [post]
func (c *EventController) ToggleAttendance(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	state, err := c.eventService.ToggleAttendance(ctx, id, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, state)
}

// MyCalendar returns the viewer's events bucketed by UTC day
// @Summary My calendar
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CalendarResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /me/calendar [get]
func (c *EventController) MyCalendar(ctx *gin.Context) {
	calendar, err := c.calendarService.MyCalendar(ctx, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, calendar)
}
