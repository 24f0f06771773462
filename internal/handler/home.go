package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/templui/headlesswp/internal/ctxkeys"
	"github.com/templui/headlesswp/internal/pagecache"
	"github.com/templui/headlesswp/internal/service"
	"github.com/templui/headlesswp/internal/ui"
	"github.com/templui/headlesswp/internal/ui/pages"
)

type HomeHandler struct {
	pageService *service.PageService
	pages       pageServer
}

func NewHomeHandler(pageService *service.PageService, cache *pagecache.Cache, revalidate time.Duration) *HomeHandler {
	return &HomeHandler{
		pageService: pageService,
		pages:       pageServer{cache: cache, revalidate: revalidate},
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	if ctxkeys.Preview(r.Context()) != nil {
		page, err := h.pageService.Home(r.Context(), true)
		servePreview(w, r, page, err)
		return
	}

	h.pages.serve(w, r, service.HomePath)
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// Health reports liveness and the number of cached pages.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = fmt.Fprintf(w, `{"status":"ok","cached_pages":%d}`, h.pages.cache.Len())
}
