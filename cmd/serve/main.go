package main

import (
	"log"

	"github.com/bennokress/rss-feeds/internal/api"
	"github.com/bennokress/rss-feeds/internal/config"
	"github.com/bennokress/rss-feeds/internal/notify"
	"github.com/bennokress/rss-feeds/internal/runner"
	"github.com/bennokress/rss-feeds/internal/scheduler"
	"github.com/bennokress/rss-feeds/internal/scraper"
	"github.com/gin-gonic/gin"
)

// Long-running mode: scrape all sources on a cron schedule and serve the
// generated feeds over HTTP.
func main() {
	cfg := config.Load()
	sources := scraper.All()

	r := &runner.Runner{
		DataDir:     cfg.DataDir,
		MaxAttempts: scraper.DefaultMaxAttempts,
	}
	if cfg.WebhookToken != "" {
		r.Notifier = notify.New(cfg.WebhookToken)
		r.WebhookURLs = cfg.WebhookURLs
	}

	s, err := scheduler.New(cfg.CronSpec, r, sources)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()
	go s.RunOnce()

	engine := gin.Default()
	api.NewServer(cfg.DataDir, sources).RegisterRoutes(engine)

	addr := ":" + cfg.AppPort
	log.Printf("starting feed server at %s ...", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
