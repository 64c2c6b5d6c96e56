package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token format"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrNotMember, http.StatusForbidden, dto.ErrorCodeForbidden, "Join the group to do this"},
	{apperrors.ErrProfileRequired, http.StatusForbidden, dto.ErrorCodeForbidden, "Profile setup required"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already taken"},
	{apperrors.ErrAlreadyOnList, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Already on the list"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrGroupNotApproved, http.StatusConflict, dto.ErrorCodeConflict, "Group is pending approval"},
	{apperrors.ErrEventClosed, http.StatusConflict, dto.ErrorCodeConflict, "Event is not open for attendance"},
	{apperrors.ErrPollClosed, http.StatusConflict, dto.ErrorCodeConflict, "Poll is closed"},
	{apperrors.ErrInvalidOption, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Option does not belong to this poll"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrUpstream, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Upstream service failed"},
	{apperrors.ErrServiceUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable, "Service not configured"},
}

// HandleAPIError handles common API errors and returns appropriate responses.
// Messages carried by a CustomError replace the default message.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, apperrors.UserMessage(err, m.message))
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			detail.WithDetails(ce.Details)
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

// Recovery turns panics into SRV_001 responses
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	})
}
