package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/templui/headlesswp/internal/app"
	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/logger"
	"github.com/templui/headlesswp/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName)

	app := app.New(cfg)

	// Pages not prerendered are generated on first request.
	if cfg.Prerender {
		go func() {
			err := app.Prerender(context.Background())
			if err != nil {
				slog.Warn("prerender incomplete", "error", err)
			}
		}()
	}

	handler := routes.SetupRoutes(app)
	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)

	err := http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
