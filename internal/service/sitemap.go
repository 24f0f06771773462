package service

import (
	"context"
	"encoding/xml"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/headlesswp/internal/model"
	"github.com/templui/headlesswp/internal/wordpress"
)

type SitemapService struct {
	wp      *wordpress.Client
	baseURL string
}

// NewSitemapService creates a new sitemap service
func NewSitemapService(wp *wordpress.Client, baseURL string) *SitemapService {
	return &SitemapService{
		wp:      wp,
		baseURL: trimBaseURL(baseURL),
	}
}

// GenerateSitemap lists the home page and every post page.
func (s *SitemapService) GenerateSitemap(ctx context.Context) ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []model.SitemapURL{{
			Loc:        s.baseURL + HomePath,
			LastMod:    time.Now().Format("2006-01-02"),
			ChangeFreq: "daily",
			Priority:   "1.0",
		}},
	}

	slugs, err := s.wp.AllPostsWithSlug(ctx)
	if err != nil {
		// Still serve the home entry, the backend may be briefly unavailable.
		slog.Warn("failed to get post slugs for sitemap", "error", err)
	}
	for _, slug := range slugs {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + postPrefix + slug,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

// Robots returns robots.txt pointing crawlers at the sitemap.
func (s *SitemapService) Robots() []byte {
	return []byte("User-agent: *\nAllow: /\nSitemap: " + s.baseURL + "/sitemap.xml\n")
}

func trimBaseURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/")
}
