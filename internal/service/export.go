package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/templui/headlesswp/internal/storage"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// ExportResult summarises an export run.
type ExportResult struct {
	Pages   int
	Skipped []string
}

// Exporter renders the whole site into a Storage for static hosting.
type Exporter struct {
	pages       *PageService
	feed        *FeedService
	sitemap     *SitemapService
	concurrency int
}

func NewExporter(pages *PageService, feed *FeedService, sitemap *SitemapService, concurrency int) *Exporter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Exporter{
		pages:       pages,
		feed:        feed,
		sitemap:     sitemap,
		concurrency: concurrency,
	}
}

// Export writes every static path, 404.html, the feed, sitemap and robots.txt.
// Paths whose post disappeared between listing and rendering are skipped.
func (e *Exporter) Export(ctx context.Context, out storage.Storage) (*ExportResult, error) {
	paths, err := e.pages.StaticPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list static paths: %w", err)
	}

	results := make([]bool, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			page, err := e.pages.Render(gctx, path)
			if err != nil {
				return fmt.Errorf("render %s: %w", path, err)
			}
			if page.Status != http.StatusOK {
				slog.Warn("skipping page during export", "path", path, "status", page.Status)
				return nil
			}
			err = out.Save(gctx, FilePath(path), page.Body, contentTypeHTML)
			if err != nil {
				return err
			}
			results[i] = true
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}

	result := &ExportResult{}
	for i, ok := range results {
		if ok {
			result.Pages++
		} else {
			result.Skipped = append(result.Skipped, paths[i])
		}
	}

	notFound, err := e.pages.NotFound(ctx)
	if err != nil {
		return nil, err
	}
	err = out.Save(ctx, "404.html", notFound.Body, contentTypeHTML)
	if err != nil {
		return nil, err
	}

	rss, err := e.feed.RSS(ctx)
	if err != nil {
		return nil, err
	}
	err = out.Save(ctx, "feed.xml", rss, contentTypeXML)
	if err != nil {
		return nil, err
	}

	sitemap, err := e.sitemap.GenerateSitemap(ctx)
	if err != nil {
		return nil, err
	}
	err = out.Save(ctx, "sitemap.xml", sitemap, contentTypeXML)
	if err != nil {
		return nil, err
	}

	err = out.Save(ctx, "robots.txt", e.sitemap.Robots(), contentTypeText)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// FilePath maps a route to the file a static host serves for it:
// "/" -> "index.html", "/posts/a" -> "posts/a/index.html". Routes are the
// decoded cache keys, static hosts decode request paths before the lookup.
func FilePath(route string) string {
	route = strings.Trim(route, "/")
	if route == "" {
		return "index.html"
	}
	return route + "/index.html"
}
