package routes

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/templui/headlesswp/internal/app"
	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/model"
	"github.com/templui/headlesswp/internal/service"
	"github.com/templui/headlesswp/internal/wordpress/wptest"
)

var fixtures = []wptest.Post{
	{DatabaseID: 1, Title: "First", Slug: "first", Content: `<p>Read <a href="https://example.com/x">more</a></p>`, Date: "2024-01-01T10:00:00"},
	{DatabaseID: 2, Title: "Second", Slug: "second", Content: "<p>two</p>", Date: "2024-01-02T10:00:00"},
	{DatabaseID: 4, Title: "Draft", Content: "<p>wip</p>", Date: "2024-01-04T10:00:00", Status: model.PostStatusDraft},
}

func setup(t *testing.T, opts ...func(*config.Config)) (*wptest.Server, *app.App, http.Handler) {
	t.Helper()
	wp := wptest.NewServer(t, fixtures...)
	cfg := &config.Config{
		AppName:                "Blog",
		AppEnv:                 "development",
		AppURL:                 "https://blog.example.com",
		WordPressAPIURL:        wp.APIURL(),
		WordPressAuthToken:     "token",
		WordPressPreviewSecret: "s3cret",
		PreviewTTL:             time.Hour,
		Revalidate:             10 * time.Second,
		FallbackWait:           5 * time.Second,
		BackendTimeout:         5 * time.Second,
		PrerenderConcurrency:   2,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	a := app.New(cfg)
	t.Cleanup(a.Pages.Wait)
	return wp, a, SetupRoutes(a)
}

func get(h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPostPage(t *testing.T) {
	wp, _, h := setup(t)

	t.Run("generated on first request then served from cache", func(t *testing.T) {
		rec := get(h, "/posts/first")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("X-Cache") != "MISS" {
			t.Fatalf("expected MISS, got %q", rec.Header().Get("X-Cache"))
		}
		if got := rec.Header().Get("Cache-Control"); got != "s-maxage=10, stale-while-revalidate" {
			t.Fatalf("unexpected Cache-Control %q", got)
		}
		body := rec.Body.String()
		if !strings.Contains(body, ">First</h1>") {
			t.Fatalf("missing title: %s", body)
		}
		if !strings.Contains(body, `href="/posts/second"`) {
			t.Fatalf("missing more posts: %s", body)
		}
		if !strings.Contains(body, `rel="noopener noreferrer"`) {
			t.Fatalf("external link not hardened: %s", body)
		}

		before := wp.CountQueries("PostBySlug")
		rec = get(h, "/posts/first")
		if rec.Header().Get("X-Cache") != "HIT" {
			t.Fatalf("expected HIT, got %q", rec.Header().Get("X-Cache"))
		}
		if wp.CountQueries("PostBySlug") != before {
			t.Fatal("cached page hit the backend")
		}
	})

	t.Run("unknown slug is a 404 and not cached", func(t *testing.T) {
		rec := get(h, "/posts/nope")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "This page could not be found.") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}

		before := wp.CountQueries("PostBySlug")
		get(h, "/posts/nope")
		if wp.CountQueries("PostBySlug") != before+1 {
			t.Fatal("expected 404 to be regenerated")
		}
	})

	t.Run("post published after start appears", func(t *testing.T) {
		wp.SetPosts(append(slices.Clone(fixtures), wptest.Post{DatabaseID: 5, Title: "Fresh", Slug: "fresh", Date: "2024-01-05T10:00:00"})...)
		defer wp.SetPosts(fixtures...)

		rec := get(h, "/posts/fresh")
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ">Fresh</h1>") {
			t.Fatalf("expected new post, got %d", rec.Code)
		}
	})

	t.Run("backend failure is a 500", func(t *testing.T) {
		wp.Fail(http.StatusBadGateway)
		defer wp.Fail(0)

		rec := get(h, "/posts/second")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Fatalf("error page must not be cached, got %q", rec.Header().Get("Cache-Control"))
		}
	})
}

func TestEncodedSlug(t *testing.T) {
	wp, a, h := setup(t)
	wp.SetPosts(wptest.Post{DatabaseID: 7, Title: "Café", Slug: "caf%c3%a9", Content: "<p>crème</p>", Date: "2024-02-01T10:00:00"})

	err := a.Prerender(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := wp.CountQueries("PostBySlug")
	rec := get(h, "/posts/caf%c3%a9")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("expected prerendered page, got %q", rec.Header().Get("X-Cache"))
	}
	if wp.CountQueries("PostBySlug") != before {
		t.Fatal("prerendered page hit the backend")
	}
	if !strings.Contains(rec.Body.String(), ">Café</h1>") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	home := get(h, "/")
	if !strings.Contains(home.Body.String(), `href="/posts/caf%c3%a9"`) {
		t.Fatalf("home should link the stored slug: %s", home.Body.String())
	}
}

func TestFallbackLoading(t *testing.T) {
	wp, a, h := setup(t, func(cfg *config.Config) {
		cfg.FallbackWait = 20 * time.Millisecond
	})
	wp.SetDelay(300 * time.Millisecond)

	rec := get(h, "/posts/first")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Loading…") || !strings.Contains(rec.Body.String(), `http-equiv="refresh"`) {
		t.Fatalf("expected loading page: %s", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("loading page must not be cached, got %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Fatalf("loading page has no cache state, got %q", rec.Header().Get("X-Cache"))
	}

	deadline := time.Now().Add(5 * time.Second)
	for a.Pages.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("page was never generated")
		}
		time.Sleep(10 * time.Millisecond)
	}
	wp.SetDelay(0)

	rec = get(h, "/posts/first")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("expected generated page, got %d %q", rec.Code, rec.Header().Get("X-Cache"))
	}
	if !strings.Contains(rec.Body.String(), ">First</h1>") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHomePage(t *testing.T) {
	_, a, h := setup(t)

	rec := get(h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "First") || !strings.Contains(body, "Second") {
		t.Fatalf("missing posts: %s", body)
	}
	if strings.Contains(body, "Draft") {
		t.Fatalf("draft on public home page: %s", body)
	}
	if a.Pages.Len() != 1 {
		t.Fatalf("expected home page cached, got %d pages", a.Pages.Len())
	}
}

func TestPrerender(t *testing.T) {
	wp, a, h := setup(t)

	err := a.Prerender(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Pages.Len() != 3 {
		t.Fatalf("expected home and 2 posts cached, got %d", a.Pages.Len())
	}

	wp.Fail(http.StatusBadGateway)
	defer wp.Fail(0)

	rec := get(h, "/posts/second")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("expected prerendered page, got %d %q", rec.Code, rec.Header().Get("X-Cache"))
	}
}

func TestPreview(t *testing.T) {
	_, a, h := setup(t)

	t.Run("invalid secret", func(t *testing.T) {
		rec := get(h, "/api/preview?secret=wrong&id=4")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown post", func(t *testing.T) {
		rec := get(h, "/api/preview?secret=s3cret&id=999")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("draft preview flow", func(t *testing.T) {
		rec := get(h, "/api/preview?secret=s3cret&id=4")
		if rec.Code != http.StatusTemporaryRedirect {
			t.Fatalf("expected redirect, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/posts/4" {
			t.Fatalf("unexpected redirect %q", loc)
		}

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == service.PreviewCookieName {
				cookie = c
			}
		}
		if cookie == nil || !cookie.HttpOnly {
			t.Fatalf("expected http-only preview cookie, got %+v", cookie)
		}

		rec = get(h, "/posts/4", cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), ">Draft</h1>") {
			t.Fatalf("expected draft content: %s", rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "/api/exit-preview") {
			t.Fatal("missing preview banner")
		}
		if rec.Header().Get("Cache-Control") != "private, no-store" || rec.Header().Get("X-Cache") != "" {
			t.Fatalf("preview must bypass caches, got %q %q", rec.Header().Get("Cache-Control"), rec.Header().Get("X-Cache"))
		}

		rec = get(h, "/posts/4")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("draft visible without preview cookie: %d", rec.Code)
		}
		if a.Pages.Len() != 0 {
			t.Fatalf("preview output cached: %d pages", a.Pages.Len())
		}
	})

	t.Run("exit clears cookie", func(t *testing.T) {
		rec := get(h, "/api/exit-preview")
		if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "/" {
			t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Location"))
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
			t.Fatalf("cookie not cleared: %q", rec.Header().Get("Set-Cookie"))
		}
	})
}

func TestSEO(t *testing.T) {
	_, _, h := setup(t)

	tests := []struct {
		path        string
		contentType string
		want        string
	}{
		{"/robots.txt", "text/plain; charset=utf-8", "Sitemap: https://blog.example.com/sitemap.xml"},
		{"/sitemap.xml", "application/xml; charset=utf-8", "<loc>https://blog.example.com/posts/first</loc>"},
		{"/feed.xml", "application/rss+xml; charset=utf-8", "<title>Second</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("unexpected content type %q", got)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestFallbackAndHealth(t *testing.T) {
	_, _, h := setup(t)

	rec := get(h, "/some/where")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Fatal("missing security headers")
	}

	rec = get(h, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}
