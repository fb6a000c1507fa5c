package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// DB
	DatabaseURL string

	// HTTP
	Addr string

	// Task broker
	TemporalHost    string
	NotifyTaskQueue string

	// Mail transport
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// Price-book ingest
	PricebookTimeout time.Duration

	// Error reporting (reserved; no reporter is wired yet)
	SentryDSN string
}

func Load() Config {
	return Config{
		DatabaseURL: must("DATABASE_URL"),

		Addr: ":" + getenv("APP_PORT", "8080"),

		TemporalHost:    getenv("TEMPORAL_HOST", "localhost:7233"),
		NotifyTaskQueue: getenv("NOTIFY_TASK_QUEUE", "notify-task-queue"),

		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     getint("SMTP_PORT", 25),
		SMTPUser:     getenv("SMTP_USER", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", "noreply@orderhub.local"),

		PricebookTimeout: getdur("PRICEBOOK_TIMEOUT", 10*time.Second),

		SentryDSN: getenv("SENTRY_DSN", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("missing required env", "key", k)
		os.Exit(1)
	}
	return v
}
