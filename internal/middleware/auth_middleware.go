package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/girlscollective/collective/internal/app/auth"
	"github.com/girlscollective/collective/internal/app/models"
	"github.com/girlscollective/collective/internal/app/models/dto"
	"github.com/girlscollective/collective/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ViewerKey = "viewer"
	UserIDKey = "userID"
	EmailKey  = "email"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	admins     *appauth.AdminResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, admins *appauth.AdminResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		admins:     admins,
	}
}

// streamTokenKeys are the query parameters a browser websocket may carry its token in
var streamTokenKeys = []string{"access_token", "token"}

// rawToken finds the access token in the Authorization header, and in the query
// string only when allowQuery is set.
func rawToken(c *gin.Context, allowQuery bool) string {
	header := c.GetHeader("Authorization")
	if header == "" && allowQuery {
		for _, key := range streamTokenKeys {
			if v := c.Query(key); v != "" {
				header = v
				break
			}
		}
	}
	header = strings.Trim(strings.TrimSpace(header), "\"'")
	if header == "" {
		return ""
	}
	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		return ""
	}
	return token
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

func (m *AuthMiddleware) attach(c *gin.Context, claims *auth.Claims) {
	viewer := m.admins.Viewer(c.Request.Context(), claims.UserID, claims.Email)
	c.Set(ViewerKey, viewer)
	c.Set(UserIDKey, claims.UserID)
	c.Set(EmailKey, claims.Email)
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return m.requireToken(false)
}

// StreamAuth is JWTAuth for the websocket upgrade, which also reads ?access_token=
// because browsers cannot set headers on a websocket handshake.
func (m *AuthMiddleware) StreamAuth() gin.HandlerFunc {
	return m.requireToken(true)
}

func (m *AuthMiddleware) requireToken(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := rawToken(c, allowQuery)
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
			case errors.Is(err, auth.ErrInvalidFormat):
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
			default:
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			}
			return
		}

		m.attach(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches a viewer when a valid token is present and continues anonymously otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := rawToken(c, false); tokenString != "" {
			if claims, err := m.jwtService.ValidateAndExtractClaims(tokenString); err == nil {
				m.attach(c, claims)
			}
		}
		c.Next()
	}
}

// AdminRequired must run after JWTAuth
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := GetViewer(c)
		if !viewer.Authenticated {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User information not found")
			return
		}
		if !viewer.IsAdmin {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// GetViewer returns the request viewer, anonymous when no valid token was sent
func GetViewer(c *gin.Context) models.Viewer {
	if v, ok := c.Get(ViewerKey); ok {
		if viewer, ok := v.(models.Viewer); ok {
			return viewer
		}
	}
	return models.Anonymous()
}
