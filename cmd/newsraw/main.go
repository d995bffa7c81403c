package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"newsraw/app/api"
	"newsraw/app/archive"
	"newsraw/app/cfg"
	"newsraw/app/render"
	"newsraw/app/source"
	"newsraw/app/store"
	"newsraw/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	switch {
	case appCfg.Serve:
		runServe(appCfg)
	case appCfg.Daemon:
		runDaemon(appCfg)
	default:
		if err := runOnce(appCfg); err != nil {
			slog.Error("Run failed", "error", err)
			os.Exit(1)
		}
	}
}

// runOnce executes one full collection run: fetch all sources, merge into
// the store, cap, persist, render the live page and check the archive
// trigger. Per-source failures are isolated; persistence failures are a
// hard stop, since silently losing discovery history is worse than
// crashing.
func runOnce(appCfg *cfg.Cfg) error {
	started := time.Now()

	sources, err := source.LoadSources(appCfg.SourcesFile)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}
	slog.Info("Sources loaded", "count", len(sources), "file", appCfg.SourcesFile)

	st, err := store.Load(appCfg.StateFile)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	slog.Info("Store loaded", "articles", st.Len(), "file", appCfg.StateFile)

	client := source.NewClient(time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.UserAgent)
	runner := tasks.NewRunner(client, appCfg.WorkerCount, appCfg.SourceLimit,
		appCfg.MinTitleLength, appCfg.MinAnchorText)

	results := runner.Run(context.Background(), sources)

	now := time.Now()
	runBase := now.UnixMilli()
	runDate := now.Format("2006-01-02")

	added := 0
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			slog.Warn("Source contributed nothing this run", "source", res.Source.Name, "error", res.Err)
			failed++
			continue
		}
		added += st.Merge(res.Source.Name, res.Candidates, runDate, runBase)
	}

	evicted := st.Cap(appCfg.MaxStoreSize)

	if err := st.Save(); err != nil {
		return fmt.Errorf("failed to persist store: %w", err)
	}

	generator := render.NewGenerator(appCfg.SimilarityThreshold, appCfg.Version)

	// The live page is produced even when some or all sources failed; it
	// simply carries fewer or stale items.
	page, err := generator.Live(st.SnapshotLive(appCfg.LiveLimit), st.Sources(), st.Dates())
	if err != nil {
		return fmt.Errorf("failed to render live page: %w", err)
	}
	if err := os.MkdirAll(appCfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	indexPath := filepath.Join(appCfg.OutputDir, "index.html")
	if err := os.WriteFile(indexPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write live page: %w", err)
	}

	archiver := archive.NewScheduler(filepath.Join(appCfg.OutputDir, "archive"), appCfg.ArchiveHour, generator)
	cut, err := archiver.Run(st, now)
	if err != nil {
		return fmt.Errorf("failed to cut archive: %w", err)
	}

	slog.Info("Run completed",
		"duration", time.Since(started),
		"sources", len(sources),
		"failed_sources", failed,
		"new_articles", added,
		"evicted", evicted,
		"store_size", st.Len(),
		"archive_cut", cut)

	return nil
}

// runDaemon keeps the process alive and triggers collection runs on a cron
// schedule, replacing the external scheduler a one-shot deployment relies
// on. A failing run is logged and the schedule continues. Activations that
// would overlap a still-running collection are skipped, so the state file
// never has two concurrent writers.
func runDaemon(appCfg *cfg.Cfg) {
	slog.Info("Starting newsraw daemon", "cron", appCfg.CronSpec, "version", appCfg.Version)

	if err := runOnce(appCfg); err != nil {
		slog.Error("Initial run failed", "error", err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))
	_, err := c.AddFunc(appCfg.CronSpec, func() {
		if err := runOnce(appCfg); err != nil {
			slog.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("Invalid cron spec %q: %v", appCfg.CronSpec, err)
	}
	c.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("Received signal, shutting down", "signal", sig.String())

	ctx := c.Stop()
	<-ctx.Done()
	slog.Info("Daemon stopped")
}

// cronLogger routes the cron chain's messages through slog. The skip
// wrapper reports dropped activations here when a run outlasts the
// schedule interval.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Info(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// runServe serves the rendered output directory plus health and stats
// endpoints. The store is opened read-only at startup for the stats view.
func runServe(appCfg *cfg.Cfg) {
	st, err := store.Load(appCfg.StateFile)
	if err != nil {
		log.Fatalf("Failed to load store: %v", err)
	}

	handler := api.NewHandler(st, appCfg.OutputDir, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
