package mailer

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the approval email function
type Handler struct {
	sender     Sender
	secret     string
	from       string
	recipients []string
	logger     zerolog.Logger
}

// NewHandler creates a handler sending to recipients
func NewHandler(sender Sender, secret, from string, recipients []string, logger zerolog.Logger) *Handler {
	return &Handler{
		sender:     sender,
		secret:     secret,
		from:       from,
		recipients: recipients,
		logger:     logger,
	}
}

func (h *Handler) authorized(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || h.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

// Send handles POST /
func (h *Handler) Send(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	var notice Notice
	if err := c.ShouldBindJSON(&notice); err != nil || notice.Type == "" || notice.Item == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "type and item are required"})
		return
	}

	html, err := Render(notice)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render notice")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not render email"})
		return
	}

	err = h.sender.Send(c.Request.Context(), Message{
		From:    h.from,
		To:      h.recipients,
		Subject: notice.DefaultSubject(),
		HTML:    html,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("type", notice.Type).Msg("Failed to send approval email")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "email provider failed"})
		return
	}

	h.logger.Info().Str("type", notice.Type).Int("recipients", len(h.recipients)).Msg("Approval email sent")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Router builds the function's gin engine
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/", h.Send)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}
