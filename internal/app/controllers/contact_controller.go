package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
)

// ContactController handles the contact form and account requests
type ContactController struct {
	contactService services.ContactService
}

// NewContactController creates a new ContactController
func NewContactController(contactService services.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
	}
}

// SubmitContact stores a contact form message
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /contact [post]
func (c *ContactController) SubmitContact(ctx *gin.Context) {
	var req dto.ContactRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.contactService.SubmitContact(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, dto.SuccessResponse{Message: "Mensaje enviado"})
}

// RequestAccountDeletion asks the team to delete the viewer's account
// @Summary Request account deletion
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AccountDeletionRequest false "Reason"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /me/account-deletion [post]
func (c *ContactController) RequestAccountDeletion(ctx *gin.Context) {
	var req dto.AccountDeletionRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.contactService.RequestAccountDeletion(ctx, middleware.GetViewer(ctx), req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, dto.SuccessResponse{Message: "Solicitud recibida"})
}

// RequestHostActivation asks the team to activate hosting for the viewer
// @Summary Request host activation
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.HostActivationRequest true "Why you want to host"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /me/host-activation [post]
func (c *ContactController) RequestHostActivation(ctx *gin.Context) {
	var req dto.HostActivationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.contactService.RequestHostActivation(ctx, middleware.GetViewer(ctx), req.Message); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, dto.SuccessResponse{Message: "Solicitud recibida"})
}
