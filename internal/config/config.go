package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Request limits
	MaxTextBytes int64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration

	// Render latency window
	StatsWindow time.Duration

	// Rendering
	PDFFontDir    string
	PDFStrictText bool
	StyleFile     string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("NOTEPRESS_API_KEY"),

		MaxTextBytes: envInt64("MAX_TEXT_BYTES", 5242880), // 5MB

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		JobTTL:      envDuration("JOB_TTL", 30*time.Minute),
		StatsWindow: envDuration("STATS_WINDOW", time.Hour),

		PDFFontDir:    os.Getenv("PDF_FONT_DIR"),
		PDFStrictText: envBool("PDF_STRICT_TEXT", false),
		StyleFile:     os.Getenv("STYLE_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxTextBytes <= 0 {
		cfg.MaxTextBytes = 5242880
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 30 * time.Minute
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("NOTEPRESS_API_KEY is required")
	}
	if c.PDFFontDir != "" {
		info, err := os.Stat(c.PDFFontDir)
		if err != nil {
			return fmt.Errorf("PDF_FONT_DIR: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("PDF_FONT_DIR %q is not a directory", c.PDFFontDir)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
