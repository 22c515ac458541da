package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/notepress/internal/api"
	"github.com/dgallion1/notepress/internal/config"
	"github.com/dgallion1/notepress/internal/pipeline"
	"github.com/dgallion1/notepress/internal/style"
	"github.com/dustin/go-humanize"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	styles, err := style.Load(cfg.StyleFile)
	if err != nil {
		log.Error("invalid style file", "path", cfg.StyleFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	stats := pipeline.NewRenderStats(cfg.StatsWindow)
	compiler := pipeline.NewCompiler(styles, pipeline.PageOptions{
		FontDir: cfg.PDFFontDir,
		Strict:  cfg.PDFStrictText,
	}, stats, log)
	orch := pipeline.NewOrchestrator(cfg, compiler, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting notepress",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"max_text", humanize.Bytes(uint64(cfg.MaxTextBytes)),
		"font_dir", cfg.PDFFontDir,
		"style_file", cfg.StyleFile,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
