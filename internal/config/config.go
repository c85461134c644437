package config

import (
	"log"
	"os"
)

type Config struct {
	AppPort  string
	DataDir  string
	CronSpec string

	// Webhook notification, optional. One endpoint per source; the
	// shared token goes into the x-make-apikey header.
	WebhookToken string
	WebhookURLs  map[string]string
}

func Load() *Config {
	cfg := &Config{
		AppPort:      getEnv("APP_PORT", "9000"),
		DataDir:      getEnv("DATA_DIR", "data"),
		CronSpec:     getEnv("CRON_SPEC", "*/15 * * * *"),
		WebhookToken: os.Getenv("MAKE_WEBHOOKS_TOKEN"),
		WebhookURLs: map[string]string{
			"panther": os.Getenv("MAKE_PANTHER_WEBHOOK_URL"),
			"homey":   os.Getenv("MAKE_HOMEY_WEBHOOK_URL"),
			"komood":  os.Getenv("MAKE_KOMOOD_WEBHOOK_URL"),
		},
	}

	log.Printf("config loaded: port=%s data=%s cron=%s", cfg.AppPort, cfg.DataDir, cfg.CronSpec)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
