package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/auth"
	"github.com/girlscollective/collective/internal/pkg/geocode"
	"github.com/rs/zerolog"
)

const (
	maxRelayBody  = 64 << 10
	previewMaxAge = 30 * 24 * time.Hour
)

// Geocoder resolves free-form locations
type Geocoder interface {
	Lookup(ctx context.Context, location, city string) (*geocode.Result, error)
}

// NoticeForwarder relays raw notification bodies to the mailer function
type NoticeForwarder interface {
	Forward(ctx context.Context, body []byte) error
}

// RelayController serves the small public endpoints under /api.
// Responses are plain JSON rather than the APIResponse envelope.
type RelayController struct {
	geocoder       Geocoder
	forwarder      NoticeForwarder
	contactService services.ContactService
	previewHash    string
	secureCookie   bool
	logger         zerolog.Logger
}

// NewRelayController creates a new RelayController
func NewRelayController(
	geocoder Geocoder,
	forwarder NoticeForwarder,
	contactService services.ContactService,
	previewHash string,
	secureCookie bool,
	logger zerolog.Logger,
) *RelayController {
	return &RelayController{
		geocoder:       geocoder,
		forwarder:      forwarder,
		contactService: contactService,
		previewHash:    previewHash,
		secureCookie:   secureCookie,
		logger:         logger,
	}
}

// Geocode resolves a location to coordinates without exposing the API key
// @Summary Geocode a location
// @Tags relays
// @Accept json
// @Produce json
// @Param request body dto.GeocodeRequest true "Location"
// @Success 200 {object} dto.GeocodeResponse
// @Failure 400 {object} map[string]string "Missing location"
// @Failure 404 {object} map[string]string "No results"
// @Failure 500 {object} map[string]string "Geocoding not configured"
// @Failure 502 {object} map[string]string "Upstream failure"
// @Router /geocode [post]
func (c *RelayController) Geocode(ctx *gin.Context) {
	var req dto.GeocodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := c.geocoder.Lookup(ctx, req.Location, req.City)
	if err != nil {
		status := geocode.StatusFor(err)
		if status >= http.StatusInternalServerError {
			c.logger.Error().Err(err).Int("status", status).Msg("Geocode relay failed")
		}
		ctx.JSON(status, gin.H{"error": apperrors.UserMessage(err, "geocoding failed")})
		return
	}

	ctx.JSON(http.StatusOK, dto.GeocodeResponse{
		Lat:       res.Lat,
		Lng:       res.Lng,
		Formatted: res.Formatted,
	})
}

// NotifyApproval forwards an approval notice to the mailer function
// @Summary Forward an approval notification
// @Description The body is forwarded unchanged with the shared secret.
// @Tags relays
// @Accept json
// @Produce json
// @Param request body object true "Notification body"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.OKResponse
// @Failure 502 {object} dto.OKResponse
// @Router /notify-approval [post]
func (c *RelayController) NotifyApproval(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxRelayBody))
	if err != nil || !json.Valid(body) {
		ctx.JSON(http.StatusBadRequest, dto.OKResponse{OK: false, Error: "invalid JSON body"})
		return
	}

	if err := c.forwarder.Forward(ctx, body); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, apperrors.ErrServiceUnavailable) {
			status = http.StatusInternalServerError
		}
		c.logger.Warn().Err(err).Msg("Approval notification relay failed")
		ctx.JSON(status, dto.OKResponse{OK: false, Error: apperrors.UserMessage(err, "notification failed")})
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// JoinWaitlist signs an email up for launch news
// @Summary Join the waitlist
// @Tags relays
// @Accept json
// @Produce json
// @Param request body dto.WaitlistRequest true "Email"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.OKResponse
// @Failure 409 {object} dto.OKResponse "Already on the list"
// @Router /waitlist [post]
func (c *RelayController) JoinWaitlist(ctx *gin.Context) {
	var req dto.WaitlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.OKResponse{OK: false, Error: "Introduce un email válido"})
		return
	}

	if err := c.contactService.JoinWaitlist(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyOnList):
			ctx.JSON(http.StatusConflict, dto.OKResponse{OK: false, Error: apperrors.UserMessage(err, services.AlreadyOnListMessage)})
		case errors.Is(err, apperrors.ErrBadRequest):
			ctx.JSON(http.StatusBadRequest, dto.OKResponse{OK: false, Error: apperrors.UserMessage(err, "bad request")})
		default:
			middleware.HandleAPIError(ctx, err)
		}
		return
	}
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Preview unlocks the site while the coming-soon gate is on
// @Summary Unlock the preview
// @Tags relays
// @Accept json
// @Produce json
// @Param request body dto.PreviewRequest true "Preview key"
// @Success 200 {object} dto.OKResponse
// @Failure 401 {object} dto.OKResponse
// @Router /preview [post]
func (c *RelayController) Preview(ctx *gin.Context) {
	var req dto.PreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.OKResponse{OK: false, Error: "key is required"})
		return
	}

	if !auth.CheckSecret(c.previewHash, req.Key) {
		ctx.JSON(http.StatusUnauthorized, dto.OKResponse{OK: false, Error: "Clave incorrecta"})
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.PreviewCookie, "1", int(previewMaxAge.Seconds()), "/", "", c.secureCookie, true)
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
