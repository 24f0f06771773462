package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/pagecache"
	"github.com/templui/headlesswp/internal/service"
	"github.com/templui/headlesswp/internal/wordpress"
)

type App struct {
	Cfg            *config.Config
	WordPress      *wordpress.Client
	PageService    *service.PageService
	PreviewService *service.PreviewService
	FeedService    *service.FeedService
	SitemapService *service.SitemapService
	Exporter       *service.Exporter
	Pages          *pagecache.Cache
}

func New(cfg *config.Config) *App {
	// Backend client
	httpClient := &http.Client{Timeout: cfg.BackendTimeout}
	wp := wordpress.New(cfg.WordPressAPIURL, cfg.WordPressAuthToken, httpClient)

	// Services
	pageService := service.NewPageService(wp, cfg)
	previewService := service.NewPreviewService(wp, cfg.WordPressPreviewSecret, cfg.PreviewTTL)
	if !cfg.PreviewEnabled() {
		slog.Info("preview mode disabled, WORDPRESS_PREVIEW_SECRET is empty")
	}
	feedService := service.NewFeedService(wp, cfg.AppName, cfg.AppURL)
	sitemapService := service.NewSitemapService(wp, cfg.AppURL)
	exporter := service.NewExporter(pageService, feedService, sitemapService, cfg.PrerenderConcurrency)

	// Page cache
	pages := pagecache.New(pageService.Render, pagecache.Options{
		Revalidate:    cfg.Revalidate,
		FallbackWait:  cfg.FallbackWait,
		RenderTimeout: 2 * cfg.BackendTimeout,
		Concurrency:   cfg.PrerenderConcurrency,
	})

	return &App{
		Cfg:            cfg,
		WordPress:      wp,
		PageService:    pageService,
		PreviewService: previewService,
		FeedService:    feedService,
		SitemapService: sitemapService,
		Exporter:       exporter,
		Pages:          pages,
	}
}

// Prerender generates the home page and every post page into the page cache.
func (a *App) Prerender(ctx context.Context) error {
	paths, err := a.PageService.StaticPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list static paths: %w", err)
	}
	err = a.Pages.Prerender(ctx, paths)
	if err != nil {
		return err
	}
	slog.Info("prerendered pages", "count", a.Pages.Len())
	return nil
}
