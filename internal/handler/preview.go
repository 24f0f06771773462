package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/headlesswp/internal/middleware"
	"github.com/templui/headlesswp/internal/model"
	"github.com/templui/headlesswp/internal/service"
	"github.com/templui/headlesswp/internal/ui"
	"github.com/templui/headlesswp/internal/ui/pages"
	"github.com/templui/headlesswp/internal/wordpress"
)

type PreviewHandler struct {
	previewService *service.PreviewService
	secureCookie   bool
}

func NewPreviewHandler(previewService *service.PreviewService, secureCookie bool) *PreviewHandler {
	return &PreviewHandler{
		previewService: previewService,
		secureCookie:   secureCookie,
	}
}

// Begin is called by WordPress with the shared secret and the post id or
// slug. It sets the preview cookie and redirects to the post.
func (h *PreviewHandler) Begin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	preview, token, err := h.previewService.Begin(r.Context(), query.Get("secret"), query.Get("id"))
	switch {
	case errors.Is(err, service.ErrPreviewDisabled):
		ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
		return
	case errors.Is(err, service.ErrInvalidPreviewSecret):
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	case errors.Is(err, wordpress.ErrPostNotFound):
		http.Error(w, "Post not found", http.StatusUnauthorized)
		return
	case err != nil:
		slog.Error("failed to start preview", "error", err)
		http.Error(w, "Failed to start preview", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.PreviewCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.previewService.TTL().Seconds()),
	})
	w.Header().Set("Cache-Control", "private, no-store")
	http.Redirect(w, r, previewPath(preview), http.StatusTemporaryRedirect)
}

// Exit clears the preview cookie.
func (h *PreviewHandler) Exit(w http.ResponseWriter, r *http.Request) {
	middleware.ClearPreviewCookie(w)
	w.Header().Set("Cache-Control", "private, no-store")
	http.Redirect(w, r, service.HomePath, http.StatusTemporaryRedirect)
}

// Drafts have no slug yet and are addressed by database id.
func previewPath(preview *model.Preview) string {
	if preview.Slug != "" {
		return pages.PostPath(preview.Slug)
	}
	return pages.PostPath(strconv.Itoa(preview.DatabaseID))
}
