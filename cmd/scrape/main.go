package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bennokress/rss-feeds/internal/config"
	"github.com/bennokress/rss-feeds/internal/notify"
	"github.com/bennokress/rss-feeds/internal/runner"
	"github.com/bennokress/rss-feeds/internal/scraper"
)

// One-shot scraper run, meant to be invoked by an external scheduler.
// Exit codes: 0 = new content, 1 = nothing to commit, 2 = run failure —
// the surrounding automation keys its commit step off this.
func main() {
	source := flag.String("source", "all", "source to scrape (panther, homey, komood or all)")
	webhook := flag.Bool("webhook", false, "send newly enriched items to the configured webhook")
	flag.Parse()

	cfg := config.Load()

	var sources []scraper.Source
	if *source == "all" {
		sources = scraper.All()
	} else {
		src := scraper.ByName(*source)
		if src == nil {
			log.Printf("unknown source %q", *source)
			os.Exit(2)
		}
		sources = []scraper.Source{src}
	}

	r := &runner.Runner{
		DataDir:     cfg.DataDir,
		MaxAttempts: scraper.DefaultMaxAttempts,
	}
	if *webhook {
		if cfg.WebhookToken == "" {
			log.Println("warn: MAKE_WEBHOOKS_TOKEN not set, webhooks disabled")
		} else {
			r.Notifier = notify.New(cfg.WebhookToken)
			r.WebhookURLs = cfg.WebhookURLs
		}
	}

	var summary []string
	failed := false
	for _, src := range sources {
		res, err := r.Run(src)
		if err != nil {
			log.Printf("scrape %s: %v", src.Name(), err)
			failed = true
			continue
		}
		for _, it := range res.Updated {
			summary = append(summary, runner.SummaryLine(it))
		}
	}

	switch {
	case failed:
		os.Exit(2)
	case len(summary) > 0:
		fmt.Println("\n--- COMMIT_SUMMARY ---")
		for _, line := range summary {
			fmt.Println(line)
		}
		fmt.Println("--- END_SUMMARY ---")
	default:
		log.Println("no new content to commit")
		os.Exit(1)
	}
}
