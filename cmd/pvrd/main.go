// SPDX-License-Identifier: MIT

// Command pvrd runs the recording orchestrator daemon: it schedules,
// launches, supervises and terminates time-bounded stream captures and
// serves the recording API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pvrd/pvrd/internal/api"
	"github.com/pvrd/pvrd/internal/capture"
	"github.com/pvrd/pvrd/internal/channels"
	"github.com/pvrd/pvrd/internal/config"
	"github.com/pvrd/pvrd/internal/guide"
	"github.com/pvrd/pvrd/internal/log"
	"github.com/pvrd/pvrd/internal/recorder"
	"github.com/pvrd/pvrd/internal/store"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pvrd %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		logger := log.L()
		logger.Error().Err(err).Msg("daemon exited with error")
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: "pvrd",
		Version: version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.RecordingsDir, 0o755); err != nil {
		return fmt.Errorf("create recordings dir: %w", err)
	}

	dir := channels.NewDirectory(cfg.ChannelsFile)
	if err := dir.Load(); err != nil {
		return fmt.Errorf("load channel lineup: %w", err)
	}
	logger.Info().Int("channels", dir.Len()).Str(log.FieldPath, cfg.ChannelsFile).Msg("channel lineup loaded")
	if cfg.WatchLineup {
		if err := dir.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("lineup file watching disabled")
		}
	}

	var lookup guide.Lookup
	if cfg.GuideURL != "" {
		lookup = guide.New(cfg.GuideURL, cfg.GuideTimeout)
		logger.Info().Str("guide_url", cfg.GuideURL).Msg("guide lookups enabled")
	}

	index, err := store.OpenIndex(filepath.Join(cfg.DataDir, "recordings.db"))
	if err != nil {
		return fmt.Errorf("open recordings index: %w", err)
	}
	defer func() { _ = index.Close() }()

	orch := recorder.New(recorder.Config{
		Directory:     dir,
		Guide:         lookup,
		Launcher:      capture.NewFFmpegLauncher(cfg.FFmpegBin, cfg.StopGrace),
		Persister:     store.NewSaver(index),
		Clock:         recorder.RealClock{},
		Location:      cfg.Location(),
		RecordingsDir: cfg.RecordingsDir,
	})

	sched := recorder.NewScheduler(orch, cfg.TickInterval, recorder.RealClock{})
	sched.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewServer(orch, index).Router(api.Options{RateLimitRPS: cfg.RateLimitRPS}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("listen", cfg.Listen).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StopGrace+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown incomplete")
	}

	// Stop live captures and give them one final reconciliation pass so
	// finished recordings still get their sidecars.
	orch.Shutdown(shutdownCtx)
	<-sched.Done()
	time.Sleep(100 * time.Millisecond)
	orch.Tick(shutdownCtx)

	logger.Info().Msg("shutdown complete")
	return nil
}
