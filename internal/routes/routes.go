package routes

import (
	"net/http"
	"time"

	"github.com/templui/headlesswp/internal/app"
	"github.com/templui/headlesswp/internal/handler"
	"github.com/templui/headlesswp/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.PageService, app.Pages, app.Cfg.Revalidate)
	post := handler.NewPostHandler(app.PageService, app.Pages, app.Cfg.Revalidate)
	preview := handler.NewPreviewHandler(app.PreviewService, app.Cfg.IsProduction())
	seo := handler.NewSEOHandler(app.SitemapService, app.FeedService)

	mux := http.NewServeMux()

	// ============================================================================
	// PAGES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /posts/{slug}", post.ShowPost)

	// ============================================================================
	// PREVIEW
	// ============================================================================

	rateLimit := middleware.RateLimit(10, time.Minute)
	mux.Handle("GET /api/preview", rateLimit(http.HandlerFunc(preview.Begin)))
	mux.HandleFunc("GET /api/exit-preview", preview.Exit)

	// ============================================================================
	// SEO
	// ============================================================================

	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)
	mux.HandleFunc("GET /feed.xml", seo.Feed)

	mux.HandleFunc("GET /healthz", home.Health)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Config(app.Cfg), // Needed by SecurityHeaders for the backend origin
		middleware.Nonce,           // Must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.Preview(app.PreviewService),
	)
}
