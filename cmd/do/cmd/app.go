package cmd

import (
	"github.com/templui/headlesswp/internal/app"
	"github.com/templui/headlesswp/internal/config"
	"github.com/templui/headlesswp/internal/logger"
)

func loadApp() *app.App {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName)
	return app.New(cfg)
}
