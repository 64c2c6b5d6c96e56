package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// PreviewCookie marks browsers that entered the preview key
const PreviewCookie = "gc_preview"

// ComingSoonConfig configures the pre-launch gate
type ComingSoonConfig struct {
	Enabled       bool
	AllowPrefixes []string
	LandingPath   string
}

func (cfg ComingSoonConfig) passes(c *gin.Context) bool {
	path := c.Request.URL.Path
	if path == cfg.LandingPath {
		return true
	}
	for _, prefix := range cfg.AllowPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if v, err := c.Cookie(PreviewCookie); err == nil && v != "" {
		return true
	}
	return false
}

// ComingSoon serves the landing page in place of any gated path.
// The request is rewritten in-process, so the browser keeps its URL.
func ComingSoon(engine *gin.Engine, cfg ComingSoonConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || cfg.passes(c) {
			c.Next()
			return
		}

		c.Request.URL.Path = cfg.LandingPath
		engine.HandleContext(c)
		c.Abort()
	}
}
