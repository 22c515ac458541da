package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "NOTEPRESS_API_KEY", "MAX_TEXT_BYTES", "WORKER_COUNT", "MAX_QUEUE_SIZE", "JOB_TTL", "STATS_WINDOW", "PDF_FONT_DIR", "PDF_STRICT_TEXT", "STYLE_FILE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.MaxTextBytes != 5242880 {
		t.Errorf("expected 5MB text limit, got %d", cfg.MaxTextBytes)
	}
	if cfg.WorkerCount != 2 || cfg.MaxQueueSize != 50 {
		t.Errorf("unexpected pool sizing %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.JobTTL != 30*time.Minute || cfg.StatsWindow != time.Hour {
		t.Errorf("unexpected durations %v/%v", cfg.JobTTL, cfg.StatsWindow)
	}
	if cfg.PDFStrictText {
		t.Error("expected strict text off by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("MAX_TEXT_BYTES", "1024")
	t.Setenv("PDF_STRICT_TEXT", "true")
	cfg := Load()
	if !cfg.PDFStrictText {
		t.Error("expected strict text on")
	}
	if cfg.Port != "9000" || cfg.WorkerCount != 8 || cfg.JobTTL != 5*time.Minute || cfg.MaxTextBytes != 1024 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("MAX_QUEUE_SIZE", "lots")
	t.Setenv("JOB_TTL", "soon")
	cfg := Load()
	if cfg.WorkerCount != 2 {
		t.Errorf("expected fallback worker count, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 50 {
		t.Errorf("expected fallback queue size, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected fallback TTL, got %v", cfg.JobTTL)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected an error without an API key")
	}
	if err := (Config{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Config{APIKey: "k", PDFFontDir: t.TempDir()}).Validate(); err != nil {
		t.Errorf("unexpected error for an existing font dir: %v", err)
	}
	if err := (Config{APIKey: "k", PDFFontDir: "/does/not/exist"}).Validate(); err == nil {
		t.Error("expected an error for a missing font dir")
	}
}
