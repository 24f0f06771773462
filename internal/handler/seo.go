package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/headlesswp/internal/service"
)

type SEOHandler struct {
	sitemapService *service.SitemapService
	feedService    *service.FeedService
}

func NewSEOHandler(sitemapService *service.SitemapService, feedService *service.FeedService) *SEOHandler {
	return &SEOHandler{
		sitemapService: sitemapService,
		feedService:    feedService,
	}
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(h.sitemapService.Robots())
}

// Sitemap generates and serves the sitemap.xml dynamically
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap(r.Context())
	if err != nil {
		slog.Error("failed to generate sitemap", "error", err)
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(sitemap)
}

func (h *SEOHandler) Feed(w http.ResponseWriter, r *http.Request) {
	rss, err := h.feedService.RSS(r.Context())
	if err != nil {
		slog.Error("failed to generate feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(rss)
}
