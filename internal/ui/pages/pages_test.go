package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/ctxkeys"
	"github.com/templui/headlesswp/internal/link"
	"github.com/templui/headlesswp/internal/model"
	"github.com/templui/headlesswp/internal/ui"
)

var links = link.NewClassifier("https://cms.example.com/graphql")

func TestPost(t *testing.T) {
	t.Run("renders title body and more posts", func(t *testing.T) {
		out := renderString(t, Post(PostView{
			Post: model.Post{Title: "Hello World", Slug: "hello-world", Content: "<p>Body <strong>text</strong></p>"},
			MorePosts: []model.PostNode{
				{Title: "Second", Slug: "second"},
				{Title: "Third", Slug: "third"},
			},
			Links: links,
		}))

		if got := strings.Count(out, ">Hello World</h1>"); got != 1 {
			t.Fatalf("expected title heading once, got %d: %s", got, out)
		}
		if !strings.Contains(out, "<p>Body <strong>text</strong></p>") {
			t.Fatalf("body not rendered verbatim: %s", out)
		}
		if !strings.Contains(out, ">More Posts</h2>") {
			t.Fatalf("missing more posts section: %s", out)
		}
		if got := strings.Count(out, "<li>"); got != 2 {
			t.Fatalf("expected 2 list entries, got %d", got)
		}
		for _, slug := range []string{"second", "third"} {
			if !strings.Contains(out, `href="/posts/`+slug+`"`) {
				t.Fatalf("missing link to %s: %s", slug, out)
			}
		}
		if !strings.Contains(out, `href="/"`) || !strings.Contains(out, "Back to home") {
			t.Fatalf("missing home link: %s", out)
		}
	})

	t.Run("no more posts section when list is empty", func(t *testing.T) {
		out := renderString(t, Post(PostView{
			Post:  model.Post{Title: "Alone", Slug: "alone", Content: "<p>x</p>"},
			Links: links,
		}))
		if strings.Contains(out, "More Posts") {
			t.Fatalf("unexpected more posts section: %s", out)
		}
	})

	t.Run("title is escaped", func(t *testing.T) {
		out := renderString(t, Post(PostView{
			Post:  model.Post{Title: "<script>x</script>", Slug: "s"},
			Links: links,
		}))
		if strings.Contains(out, "<script>x</script>") {
			t.Fatalf("title not escaped: %s", out)
		}
	})

	t.Run("external links in body are hardened", func(t *testing.T) {
		out := renderString(t, Post(PostView{
			Post:  model.Post{Title: "T", Slug: "t", Content: `<p><a href="https://example.com">out</a></p>`},
			Links: links,
		}))
		if !strings.Contains(out, `rel="noopener noreferrer"`) {
			t.Fatalf("body anchor not hardened: %s", out)
		}
	})

	t.Run("preview banner", func(t *testing.T) {
		out := renderString(t, Post(PostView{Post: model.Post{Title: "T"}, Links: links, Preview: true}))
		if !strings.Contains(out, `href="/api/exit-preview"`) {
			t.Fatalf("missing exit preview link: %s", out)
		}
	})
}

func TestLayoutTitleUsesAppName(t *testing.T) {
	ctx := ctxkeys.WithConfig(context.Background(), &config.Config{AppName: "Acme"})
	out := renderWith(t, ctx, Post(PostView{Post: model.Post{Title: "Hello"}, Links: links}))
	if !strings.Contains(out, "<title>Hello | Acme</title>") {
		t.Fatalf("unexpected title: %s", out)
	}
}

func TestLayoutNonce(t *testing.T) {
	out := renderString(t, NotFound())
	if strings.Contains(out, "nonce=") {
		t.Fatalf("nonce attribute without nonce: %s", out)
	}

	ctx := templ.WithNonce(context.Background(), "abc123")
	out = renderWith(t, ctx, NotFound())
	if !strings.Contains(out, `nonce="abc123"`) {
		t.Fatalf("missing nonce: %s", out)
	}
}

func TestStatusPages(t *testing.T) {
	if out := renderString(t, NotFound()); !strings.Contains(out, "This page could not be found.") {
		t.Fatalf("unexpected 404 page: %s", out)
	}
	out := renderString(t, Loading())
	if !strings.Contains(out, "Loading…") || !strings.Contains(out, `http-equiv="refresh"`) {
		t.Fatalf("unexpected loading page: %s", out)
	}
}

func TestHome(t *testing.T) {
	out := renderString(t, Home(HomeView{
		Posts: []model.PostNode{{Title: "First", Slug: "first", Excerpt: "<p>Intro</p>"}},
		Links: links,
	}))
	if !strings.Contains(out, `href="/posts/first"`) || !strings.Contains(out, "<p>Intro</p>") {
		t.Fatalf("unexpected home page: %s", out)
	}

	empty := renderString(t, Home(HomeView{Links: links}))
	if !strings.Contains(empty, "No posts yet.") {
		t.Fatalf("unexpected empty home page: %s", empty)
	}
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	return renderWith(t, context.Background(), c)
}

func renderWith(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	body, err := ui.RenderBytes(ctx, c)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return string(body)
}
