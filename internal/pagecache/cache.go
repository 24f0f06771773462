// Package pagecache keeps rendered pages in memory and regenerates them in
// the background once they are older than the revalidate interval.
package pagecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrPending is returned by Lookup when a page is still being generated after
// the fallback wait elapsed. Generation continues in the background.
var ErrPending = errors.New("page generation pending")

// Page is a rendered response.
type Page struct {
	Status      int
	Body        []byte
	GeneratedAt time.Time
}

// State tells how a page was served.
type State string

const (
	Hit   State = "HIT"
	Stale State = "STALE"
	Miss  State = "MISS"
)

// RenderFunc produces the page for key. A 404 page is a valid result, an
// error means the page could not be produced at all.
type RenderFunc func(ctx context.Context, key string) (Page, error)

type Options struct {
	Revalidate    time.Duration
	FallbackWait  time.Duration
	RenderTimeout time.Duration
	Concurrency   int
}

type Cache struct {
	render RenderFunc
	opts   Options
	now    func() time.Time

	mu    sync.RWMutex
	pages map[string]Page

	group singleflight.Group
	// wg tracks background regenerations so Close can wait for them.
	wg sync.WaitGroup
}

func New(render RenderFunc, opts Options) *Cache {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 30 * time.Second
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Cache{
		render: render,
		opts:   opts,
		now:    time.Now,
		pages:  make(map[string]Page),
	}
}

// Lookup returns the page for key, generating it on first request.
func (c *Cache) Lookup(ctx context.Context, key string) (Page, State, error) {
	c.mu.RLock()
	page, ok := c.pages[key]
	c.mu.RUnlock()

	if ok {
		if c.now().Sub(page.GeneratedAt) < c.opts.Revalidate {
			return page, Hit, nil
		}
		c.revalidate(key)
		return page, Stale, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.generate(key)
	})

	var timeout <-chan time.Time
	if c.opts.FallbackWait > 0 {
		timer := time.NewTimer(c.opts.FallbackWait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return Page{}, Miss, res.Err
		}
		return res.Val.(Page), Miss, nil
	case <-timeout:
		return Page{}, Miss, ErrPending
	case <-ctx.Done():
		return Page{}, Miss, ctx.Err()
	}
}

// Prerender generates every key up front. It returns the first error, pages
// that were generated before it stay cached.
func (c *Cache) Prerender(ctx context.Context, keys []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for _, key := range keys {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, err, _ := c.group.Do(key, func() (any, error) {
				return c.generate(key)
			})
			if err != nil {
				return fmt.Errorf("prerender %s: %w", key, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Invalidate drops key so the next request regenerates it.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.pages, key)
	c.mu.Unlock()
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// Wait blocks until background regenerations finish.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) revalidate(key string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, err, shared := c.group.Do(key, func() (any, error) {
			return c.generate(key)
		})
		if err != nil && !shared {
			// The stale page keeps being served until a regeneration succeeds.
			slog.Error("page revalidation failed", "key", key, "error", err)
		}
	}()
}

// generate renders key detached from any request so an abandoned request
// does not cancel a generation other requests are waiting on.
func (c *Cache) generate(key string) (Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.RenderTimeout)
	defer cancel()

	start := c.now()
	page, err := c.render(ctx, key)
	if err != nil {
		return Page{}, err
	}
	if page.GeneratedAt.IsZero() {
		page.GeneratedAt = c.now()
	}

	if page.Status == http.StatusOK {
		c.mu.Lock()
		c.pages[key] = page
		c.mu.Unlock()
	} else {
		c.Invalidate(key)
	}

	slog.Debug("page generated", "key", key, "status", page.Status, "duration_ms", c.now().Sub(start).Milliseconds())
	return page, nil
}
