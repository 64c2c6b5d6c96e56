package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
	"github.com/girlscollective/collective/internal/pkg/filestorage"
)

var uploadKinds = map[string]filestorage.UploadKind{
	"avatar":      filestorage.KindAvatar,
	"gallery":     filestorage.KindGallery,
	"event-cover": filestorage.KindEventCover,
	"group-cover": filestorage.KindGroupCover,
}

// ProfileController handles onboarding, profiles and image uploads
type ProfileController struct {
	profileService services.ProfileService
	uploadService  services.UploadService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, uploadService services.UploadService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		uploadService:  uploadService,
	}
}

// UsernameAvailable checks a username case-insensitively
// @Summary Check username availability
// @Tags profiles
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.UsernameAvailabilityResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /profiles/availability [get]
func (c *ProfileController) UsernameAvailable(ctx *gin.Context) {
	result, err := c.profileService.UsernameAvailable(ctx, ctx.Query("username"), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result)
}

// GetMyProfile returns the viewer's profile
// @Summary Get my profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 403 {object} dto.ErrorResponse "Profile setup required"
// @Router /me/profile [get]
func (c *ProfileController) GetMyProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetMyProfile(ctx, middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// SaveProfile creates or updates the viewer's profile
// @Summary Save my profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /me/profile [put]
func (c *ProfileController) SaveProfile(ctx *gin.Context) {
	var req dto.SaveProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.SaveProfile(ctx, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// UpdateHost edits the host card
// @Summary Update my host card
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateHostRequest true "Host card"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 403 {object} dto.ErrorResponse "Hosting not activated"
// @Router /me/host [put]
func (c *ProfileController) UpdateHost(ctx *gin.Context) {
	var req dto.UpdateHostRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.UpdateHost(ctx, middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// GetProfileByUsername returns a public profile
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /profiles/{username} [get]
func (c *ProfileController) GetProfileByUsername(ctx *gin.Context) {
	profile, err := c.profileService.GetProfileByUsername(ctx, ctx.Param("username"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// Upload stores an image and returns its public URL
// @Summary Upload an image
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Upload kind" Enums(avatar, gallery, event-cover, group-cover)
// @Param file formData file true "Image, up to 5MB"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /uploads/{kind} [post]
func (c *ProfileController) Upload(ctx *gin.Context) {
	kind, ok := uploadKinds[ctx.Param("kind")]
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Unknown upload kind").WithField("kind")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	uploaded, err := c.uploadService.Upload(ctx, middleware.GetViewer(ctx), kind, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, uploaded)
}
