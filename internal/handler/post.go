package handler

import (
	"net/http"
	"time"

	"github.com/templui/headlesswp/internal/ctxkeys"
	"github.com/templui/headlesswp/internal/pagecache"
	"github.com/templui/headlesswp/internal/service"
	"github.com/templui/headlesswp/internal/ui/pages"
)

type PostHandler struct {
	pageService *service.PageService
	pages       pageServer
}

func NewPostHandler(pageService *service.PageService, cache *pagecache.Cache, revalidate time.Duration) *PostHandler {
	return &PostHandler{
		pageService: pageService,
		pages:       pageServer{cache: cache, revalidate: revalidate},
	}
}

func (h *PostHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if preview := ctxkeys.Preview(r.Context()); preview != nil {
		page, err := h.pageService.Post(r.Context(), slug, preview)
		servePreview(w, r, page, err)
		return
	}

	h.pages.serve(w, r, pages.PostPath(slug))
}
