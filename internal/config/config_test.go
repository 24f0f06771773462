package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "https://blog.example.com/")
	t.Setenv("WORDPRESS_API_URL", "https://cms.example.com/graphql")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("REVALIDATE", "30s")
	t.Setenv("PRERENDER_CONCURRENCY", "zero")

	cfg := Load()
	if cfg.AppURL != "https://blog.example.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.AppURL)
	}
	if cfg.Revalidate != 30*time.Second {
		t.Fatalf("unexpected revalidate %s", cfg.Revalidate)
	}
	if cfg.PrerenderConcurrency != 4 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.PrerenderConcurrency)
	}
	if cfg.FallbackWait != 3*time.Second {
		t.Fatalf("unexpected fallback wait %s", cfg.FallbackWait)
	}
}

func TestPreviewEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("WORDPRESS_PREVIEW_SECRET", "")
	if Load().PreviewEnabled() {
		t.Fatal("preview enabled without a secret")
	}

	t.Setenv("WORDPRESS_PREVIEW_SECRET", "s3cret")
	cfg := Load()
	if !cfg.PreviewEnabled() {
		t.Fatal("preview disabled with a secret")
	}
	if cfg.Sanitized().PreviewEnabled() {
		t.Fatal("sanitized config leaks the preview secret")
	}
}
