package ctxkeys

import (
	"context"

	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	ConfigKey    contextKey = "config"
	RequestIDKey contextKey = "request_id"
	PreviewKey   contextKey = "preview"
)

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Preview returns the verified preview target, nil outside preview mode.
func Preview(ctx context.Context) *model.Preview {
	preview, _ := ctx.Value(PreviewKey).(*model.Preview)
	return preview
}

func WithPreview(ctx context.Context, preview *model.Preview) context.Context {
	return context.WithValue(ctx, PreviewKey, preview)
}
