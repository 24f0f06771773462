package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// WordPress (WPGraphQL)
	WordPressAPIURL        string
	WordPressAuthToken     string // Sent as bearer token, needed for drafts and revisions
	WordPressPreviewSecret string // Empty disables preview mode
	PreviewTTL             time.Duration

	// Page generation
	Revalidate           time.Duration // Age after which a cached page is regenerated in the background
	FallbackWait         time.Duration // How long a request waits for a not-yet-generated page
	BackendTimeout       time.Duration
	Prerender            bool
	PrerenderConcurrency int

	// Observability (optional)
	SentryDSN string

	// Export sink (S3-compatible, only used by "do export --s3")
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Blog"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  strings.TrimSuffix(envRequired("APP_URL"), "/"),
		Port:    envString("PORT", "8090"),

		// WordPress
		WordPressAPIURL:        envRequired("WORDPRESS_API_URL"),
		WordPressAuthToken:     envString("WORDPRESS_AUTH_REFRESH_TOKEN", ""),
		WordPressPreviewSecret: envString("WORDPRESS_PREVIEW_SECRET", ""),
		PreviewTTL:             envDuration("PREVIEW_TTL", time.Hour),

		// Page generation
		Revalidate:           envDuration("REVALIDATE", 10*time.Second),
		FallbackWait:         envDuration("FALLBACK_WAIT", 3*time.Second),
		BackendTimeout:       envDuration("BACKEND_TIMEOUT", 15*time.Second),
		Prerender:            envBool("PRERENDER", true),
		PrerenderConcurrency: envInt("PRERENDER_CONCURRENCY", 4),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Export sink
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects settings that only make sense while developing locally.
func validateProduction(cfg *Config) {
	if strings.HasPrefix(cfg.WordPressAPIURL, "http://localhost") {
		slog.Error("production deployment points WORDPRESS_API_URL at localhost",
			"url", cfg.WordPressAPIURL,
			"hint", "set APP_ENV=development for local testing")
		os.Exit(1)
	}
	if cfg.PreviewEnabled() && cfg.WordPressAuthToken == "" {
		slog.Warn("preview secret set without WORDPRESS_AUTH_REFRESH_TOKEN, drafts will not resolve")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PreviewEnabled reports whether a preview secret is configured.
func (c *Config) PreviewEnabled() bool {
	return c.WordPressPreviewSecret != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Tokens, secrets and storage credentials are excluded.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		WordPressAPIURL: c.WordPressAPIURL, // Needed for CSP img-src and link classification

		Revalidate: c.Revalidate,
	}
}
