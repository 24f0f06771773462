package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/headlesswp/internal/ctxkeys"
	"github.com/templui/headlesswp/internal/service"
)

// Preview puts the verified preview target into the context when the
// request carries a valid preview cookie. Invalid cookies are cleared.
func Preview(previewService *service.PreviewService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !previewService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(service.PreviewCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			preview, err := previewService.Verify(cookie.Value)
			if err != nil {
				slog.Debug("dropping preview cookie", "error", err)
				ClearPreviewCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithPreview(r.Context(), preview)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClearPreviewCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     service.PreviewCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
