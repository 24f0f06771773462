package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/ctxkeys"
	"github.com/templui/headlesswp/internal/link"
	"github.com/templui/headlesswp/internal/model"
	"github.com/templui/headlesswp/internal/pagecache"
	"github.com/templui/headlesswp/internal/ui"
	"github.com/templui/headlesswp/internal/ui/pages"
	"github.com/templui/headlesswp/internal/wordpress"
)

const (
	HomePath   = "/"
	postPrefix = "/posts/"
)

// PageService turns backend data into rendered pages.
type PageService struct {
	wp    *wordpress.Client
	links link.Classifier
	cfg   *config.Config
}

func NewPageService(wp *wordpress.Client, cfg *config.Config) *PageService {
	return &PageService{
		wp:    wp,
		links: link.NewClassifier(cfg.WordPressAPIURL),
		cfg:   cfg.Sanitized(),
	}
}

// Links returns the classifier pages are rendered with.
func (s *PageService) Links() link.Classifier {
	return s.links
}

// StaticPaths lists every page that can be generated ahead of time. Post
// paths carry the decoded slug so they match the keys requests are served under.
func (s *PageService) StaticPaths(ctx context.Context) ([]string, error) {
	slugs, err := s.wp.AllPostsWithSlug(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(slugs)+1)
	paths = append(paths, HomePath)
	for _, slug := range slugs {
		paths = append(paths, pages.PostPath(wordpress.DecodeSlug(slug)))
	}
	return paths, nil
}

// Render is the pagecache.RenderFunc for public pages.
func (s *PageService) Render(ctx context.Context, path string) (pagecache.Page, error) {
	if path == HomePath {
		return s.Home(ctx, false)
	}
	slug, ok := strings.CutPrefix(path, postPrefix)
	if ok && slug != "" && !strings.Contains(slug, "/") {
		return s.Post(ctx, slug, nil)
	}
	return s.NotFound(ctx)
}

// Post renders a post page for a decoded slug, WordPress is queried with the
// stored form. A post the backend does not know yields a 404 page; any other
// backend failure is returned as an error.
func (s *PageService) Post(ctx context.Context, slug string, preview *model.Preview) (pagecache.Page, error) {
	data, err := s.wp.PostAndMorePosts(ctx, wordpress.EncodeSlug(slug), preview)
	if errors.Is(err, wordpress.ErrPostNotFound) {
		return s.NotFound(ctx)
	}
	if err != nil {
		return pagecache.Page{}, fmt.Errorf("failed to load post %q: %w", slug, err)
	}

	return s.page(ctx, http.StatusOK, pages.Post(pages.PostView{
		Post:      *data.Post,
		MorePosts: data.Posts.Nodes(),
		Links:     s.links,
		Preview:   preview != nil,
	}))
}

func (s *PageService) Home(ctx context.Context, preview bool) (pagecache.Page, error) {
	posts, err := s.wp.AllPostsForHome(ctx, preview)
	if err != nil {
		return pagecache.Page{}, fmt.Errorf("failed to load posts: %w", err)
	}

	return s.page(ctx, http.StatusOK, pages.Home(pages.HomeView{
		Posts:   posts,
		Links:   s.links,
		Preview: preview,
	}))
}

func (s *PageService) NotFound(ctx context.Context) (pagecache.Page, error) {
	return s.page(ctx, http.StatusNotFound, pages.NotFound())
}

func (s *PageService) page(ctx context.Context, status int, c templ.Component) (pagecache.Page, error) {
	if ctxkeys.Config(ctx) == nil {
		ctx = ctxkeys.WithConfig(ctx, s.cfg)
	}
	body, err := ui.RenderBytes(ctx, c)
	if err != nil {
		return pagecache.Page{}, fmt.Errorf("failed to render page: %w", err)
	}
	return pagecache.Page{Status: status, Body: body}, nil
}
