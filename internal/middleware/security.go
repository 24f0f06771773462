package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/templui/headlesswp/internal/ctxkeys"
)

// embedFrameHosts are the oEmbed providers WordPress turns video URLs into iframes for.
var embedFrameHosts = []string{
	"https://www.youtube.com",
	"https://www.youtube-nocookie.com",
	"https://player.vimeo.com",
}

// SecurityHeaders sets the CSP and related headers for every response.
// Scripts are allowed by nonce and from the htmx CDN; cached pages are rendered
// outside a request and can only rely on the latter.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scriptSrc := []string{"'self'", "https://unpkg.com"}
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc = append(scriptSrc, "'nonce-"+nonce+"'")
		}

		// Post bodies embed images, audio, video and iframes from the WordPress origin.
		imgSrc := []string{"'self'", "data:", "https:"}
		mediaSrc := []string{"'self'"}
		frameSrc := append([]string{"'self'"}, embedFrameHosts...)
		if cfg := ctxkeys.Config(r.Context()); cfg != nil {
			if origin := backendOrigin(cfg.WordPressAPIURL); origin != "" {
				imgSrc = append(imgSrc, origin)
				mediaSrc = append(mediaSrc, origin)
				frameSrc = append(frameSrc, origin)
			}
		}

		csp := strings.Join([]string{
			"default-src 'self'",
			"script-src " + strings.Join(scriptSrc, " "),
			"style-src 'self' 'unsafe-inline'",
			"img-src " + strings.Join(imgSrc, " "),
			"media-src " + strings.Join(mediaSrc, " "),
			"frame-src " + strings.Join(frameSrc, " "),
			"frame-ancestors 'none'",
			"base-uri 'self'",
		}, "; ")

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func backendOrigin(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
