package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/headlesswp/internal/ctxkeys"
	"github.com/templui/headlesswp/internal/pagecache"
	"github.com/templui/headlesswp/internal/ui"
	"github.com/templui/headlesswp/internal/ui/pages"
)

const cacheStateHeader = "X-Cache"

// pageServer answers page requests from the page cache.
type pageServer struct {
	cache      *pagecache.Cache
	revalidate time.Duration
}

func (s pageServer) serve(w http.ResponseWriter, r *http.Request, key string) {
	page, state, err := s.cache.Lookup(r.Context(), key)
	switch {
	case errors.Is(err, pagecache.ErrPending):
		// Still generating: show the loading page, which reloads itself.
		w.Header().Set("Cache-Control", "no-store")
		ui.Render(w, r, pages.Loading())
		return
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		slog.Error("failed to generate page",
			"key", key,
			"request_id", ctxkeys.RequestID(r.Context()),
			"error", err,
		)
		w.Header().Set("Cache-Control", "no-store")
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Error())
		return
	}

	w.Header().Set(cacheStateHeader, string(state))
	if page.Status == http.StatusOK {
		w.Header().Set("Cache-Control", sharedMaxAge(s.revalidate))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}
	ui.WriteHTML(w, page.Status, page.Body)
}

// servePreview renders without the cache. Preview output must never be
// stored by the cache or a CDN.
func servePreview(w http.ResponseWriter, r *http.Request, page pagecache.Page, err error) {
	w.Header().Set("Cache-Control", "private, no-store")
	if err != nil {
		slog.Error("failed to render preview",
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
			"error", err,
		)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Error())
		return
	}
	ui.WriteHTML(w, page.Status, page.Body)
}

func sharedMaxAge(d time.Duration) string {
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate", int(d.Seconds()))
}
