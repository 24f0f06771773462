package pagecache

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(render RenderFunc, opts Options) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(render, opts)
	c.now = clock.Now
	return c, clock
}

func okPage(body string) Page {
	return Page{Status: http.StatusOK, Body: []byte(body)}
}

func TestLookupStates(t *testing.T) {
	var calls atomic.Int32
	render := func(ctx context.Context, key string) (Page, error) {
		n := calls.Add(1)
		return okPage(key + "#" + string(rune('0'+n))), nil
	}
	c, clock := newTestCache(render, Options{Revalidate: 10 * time.Second, FallbackWait: time.Second})
	ctx := context.Background()

	page, state, err := c.Lookup(ctx, "/posts/a")
	if err != nil || state != Miss || string(page.Body) != "/posts/a#1" {
		t.Fatalf("first lookup: page=%q state=%s err=%v", page.Body, state, err)
	}

	page, state, err = c.Lookup(ctx, "/posts/a")
	if err != nil || state != Hit || string(page.Body) != "/posts/a#1" {
		t.Fatalf("second lookup: page=%q state=%s err=%v", page.Body, state, err)
	}

	clock.Advance(11 * time.Second)
	page, state, err = c.Lookup(ctx, "/posts/a")
	if err != nil || state != Stale || string(page.Body) != "/posts/a#1" {
		t.Fatalf("stale lookup: page=%q state=%s err=%v", page.Body, state, err)
	}
	c.Wait()

	page, state, _ = c.Lookup(ctx, "/posts/a")
	if state != Hit || string(page.Body) != "/posts/a#2" {
		t.Fatalf("expected regenerated page, got %q state=%s", page.Body, state)
	}
}

func TestNotFoundIsNotCached(t *testing.T) {
	var calls atomic.Int32
	render := func(ctx context.Context, key string) (Page, error) {
		calls.Add(1)
		return Page{Status: http.StatusNotFound, Body: []byte("nope")}, nil
	}
	c, _ := newTestCache(render, Options{Revalidate: time.Minute, FallbackWait: time.Second})

	for i := 0; i < 2; i++ {
		page, _, err := c.Lookup(context.Background(), "/posts/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", page.Status)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 renders, got %d", calls.Load())
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestRenderErrorPropagates(t *testing.T) {
	boom := errors.New("backend unreachable")
	c, _ := newTestCache(func(ctx context.Context, key string) (Page, error) {
		return Page{}, boom
	}, Options{Revalidate: time.Minute, FallbackWait: time.Second})

	_, _, err := c.Lookup(context.Background(), "/posts/a")
	if !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestFailedRevalidationKeepsStalePage(t *testing.T) {
	var fail atomic.Bool
	render := func(ctx context.Context, key string) (Page, error) {
		if fail.Load() {
			return Page{}, errors.New("boom")
		}
		return okPage("v1"), nil
	}
	c, clock := newTestCache(render, Options{Revalidate: time.Second, FallbackWait: time.Second})
	ctx := context.Background()

	if _, _, err := c.Lookup(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fail.Store(true)
	clock.Advance(2 * time.Second)
	page, state, err := c.Lookup(ctx, "k")
	c.Wait()
	if err != nil || state != Stale || string(page.Body) != "v1" {
		t.Fatalf("stale lookup: page=%q state=%s err=%v", page.Body, state, err)
	}

	page, _, err = c.Lookup(ctx, "k")
	c.Wait()
	if err != nil || string(page.Body) != "v1" {
		t.Fatalf("stale page should survive failed revalidation: page=%q err=%v", page.Body, err)
	}
}

func TestFallbackPendingSharesGeneration(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	render := func(ctx context.Context, key string) (Page, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return okPage("done"), nil
	}
	c, _ := newTestCache(render, Options{Revalidate: time.Minute, FallbackWait: 10 * time.Millisecond})

	_, _, err := c.Lookup(context.Background(), "/posts/slow")
	if !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending, got %v", err)
	}
	<-started

	_, _, err = c.Lookup(context.Background(), "/posts/slow")
	if !errors.Is(err, ErrPending) {
		t.Fatalf("expected second ErrPending, got %v", err)
	}

	close(release)
	c.opts.FallbackWait = time.Second
	page, _, err := c.Lookup(context.Background(), "/posts/slow")
	if err != nil || string(page.Body) != "done" {
		t.Fatalf("expected generated page, got %q err=%v", page.Body, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single generation, got %d", calls.Load())
	}
}

func TestLookupHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	c, _ := newTestCache(func(ctx context.Context, key string) (Page, error) {
		<-release
		return okPage("x"), nil
	}, Options{Revalidate: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := c.Lookup(ctx, "k")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPrerender(t *testing.T) {
	t.Run("caches every key", func(t *testing.T) {
		c, _ := newTestCache(func(ctx context.Context, key string) (Page, error) {
			return okPage(key), nil
		}, Options{Revalidate: time.Minute, Concurrency: 2})

		keys := []string{"/", "/posts/a", "/posts/b", "/posts/c"}
		if err := c.Prerender(context.Background(), keys); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Len() != len(keys) {
			t.Fatalf("expected %d cached pages, got %d", len(keys), c.Len())
		}
		_, state, _ := c.Lookup(context.Background(), "/posts/b")
		if state != Hit {
			t.Fatalf("expected hit after prerender, got %s", state)
		}
	})

	t.Run("returns first error", func(t *testing.T) {
		boom := errors.New("boom")
		c, _ := newTestCache(func(ctx context.Context, key string) (Page, error) {
			if key == "/posts/bad" {
				return Page{}, boom
			}
			return okPage(key), nil
		}, Options{Revalidate: time.Minute, Concurrency: 1})

		err := c.Prerender(context.Background(), []string{"/posts/bad", "/posts/good"})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}
