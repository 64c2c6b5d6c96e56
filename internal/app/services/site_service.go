package services

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/rs/zerolog"
)

// StaticPages are always listed in the sitemap
var StaticPages = []string{"/", "/about", "/contact", "/privacy", "/terms", "/groups/new"}

// RobotsDisallow lists the paths crawlers must skip
var RobotsDisallow = []string{"/auth", "/setup-profile", "/dm", "/api/"}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SiteService renders sitemap.xml and robots.txt
type SiteService interface {
	Sitemap(ctx context.Context, baseURL string) ([]byte, error)
	Robots(baseURL string) string
}

type siteServiceImpl struct {
	cities     cityStore
	categories categoryStore
	logger     zerolog.Logger
}

// NewSiteService creates a new SiteService
func NewSiteService(cities cityStore, categories categoryStore, logger zerolog.Logger) SiteService {
	return &siteServiceImpl{cities: cities, categories: categories, logger: logger}
}

// Sitemap lists the static pages followed by every active city × category page.
// A failed lookup degrades to the static pages only.
func (s *siteServiceImpl) Sitemap(ctx context.Context, baseURL string) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range StaticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + p})
	}

	set.URLs = append(set.URLs, s.matrix(ctx, base)...)

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func (s *siteServiceImpl) matrix(ctx context.Context, base string) []sitemapURL {
	cities, err := s.cities.ListActive(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Sitemap: listing cities failed, serving static pages")
		return nil
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Sitemap: listing categories failed, serving static pages")
		return nil
	}

	urls := make([]sitemapURL, 0, len(cities)*len(categories))
	for _, city := range cities {
		for _, cat := range categories {
			urls = append(urls, sitemapURL{Loc: base + "/" + city.Slug + "/" + cat.Slug})
		}
	}
	return urls
}

func (s *siteServiceImpl) Robots(baseURL string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	for _, p := range RobotsDisallow {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nSitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml\n")
	return b.String()
}
