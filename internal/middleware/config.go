package middleware

import (
	"net/http"

	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/ctxkeys"
)

// Config adds the sanitized configuration to the request context.
// The preview secret, auth token and storage credentials are left out.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
