package controllers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/girlscollective/collective/internal/app/services"
	"github.com/girlscollective/collective/internal/middleware"
)

//go:embed static/coming_soon.html
var comingSoonPage []byte

// SiteController serves crawler files and the coming-soon landing page
type SiteController struct {
	siteService services.SiteService
	baseURL     string
}

// NewSiteController creates a new SiteController
func NewSiteController(siteService services.SiteService, baseURL string) *SiteController {
	return &SiteController{
		siteService: siteService,
		baseURL:     baseURL,
	}
}

// Sitemap renders sitemap.xml
// @Summary Sitemap
// @Tags site
// @Produce xml
// @Success 200 {string} string "sitemap"
// @Router /sitemap.xml [get]
func (c *SiteController) Sitemap(ctx *gin.Context) {
	body, err := c.siteService.Sitemap(ctx, c.baseURL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Robots renders robots.txt
// @Summary Robots
// @Tags site
// @Produce plain
// @Success 200 {string} string "robots"
// @Router /robots.txt [get]
func (c *SiteController) Robots(ctx *gin.Context) {
	ctx.String(http.StatusOK, c.siteService.Robots(c.baseURL))
}

// ComingSoon serves the pre-launch landing page
func (c *SiteController) ComingSoon(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", comingSoonPage)
}
