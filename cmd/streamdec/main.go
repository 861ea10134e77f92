// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/streamdec/internal/api"
	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/decoder/quirks"
	"github.com/ManuGH/streamdec/internal/decoder/session"
	"github.com/ManuGH/streamdec/internal/engine/sim"
	"github.com/ManuGH/streamdec/internal/health"
	sdlog "github.com/ManuGH/streamdec/internal/log"
	"github.com/ManuGH/streamdec/internal/telemetry"
	"github.com/ManuGH/streamdec/internal/version"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
		case "report":
			os.Exit(runReport(os.Args[2:], os.Stdout, os.Stderr))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Safe defaults until the config is loaded.
	sdlog.Configure(sdlog.Config{Level: "info", Service: "streamdec", Version: version.Version})
	logger := sdlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(strings.TrimSpace(*configPath), version.Version)
	cfg, err := loader.Load()
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		logger.Fatal().Err(err).
			Str(sdlog.FieldEvent, "config.load_failed").
			Str("config_path", loader.Path()).
			Msg("failed to load configuration")
	}
	sdlog.Configure(sdlog.Config{Level: cfg.Log.Level, Service: "streamdec", Version: version.Version})
	logger = sdlog.WithComponent("daemon")

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Str(sdlog.FieldEvent, "startup.checks_failed").Msg("startup checks failed")
	}
	if err := run(ctx, cfg, loader); err != nil {
		logger.Fatal().Err(err).Msg("daemon failed")
	}
	logger.Info().Str(sdlog.FieldEvent, "daemon.stopped").Msg("shutdown complete")
}

func run(ctx context.Context, cfg config.AppConfig, loader *config.Loader) error {
	logger := sdlog.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "streamdec",
		ServiceVersion: version.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	reg := quirks.Default()
	if err := loadQuirks(reg, cfg.Decoder.QuirksFile); err != nil {
		return fmt.Errorf("quirks: %w", err)
	}

	ctrl, err := session.New(sessionDeps(cfg, reg), sessionConfig(cfg.Decoder))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctrl.SetSurface(sim.NewSurface("display-0"))
	if err := applyColor(ctrl, cfg.Color); err != nil {
		return err
	}

	holder := config.NewConfigHolder(cfg, loader)
	srv := api.New(api.Config{
		Listen:              cfg.API.Listen,
		RateLimit:           cfg.API.RateLimit,
		TracingService:      tracingService(cfg),
		Version:             version.Version,
		MaxRecoveryAttempts: cfg.Decoder.MaxRecoveryAttempts,
	}, ctrl, api.WithQuirks(reg),
		api.WithReloader(holder),
		api.WithChecker(health.NewFileChecker("replay_input", cfg.Replay.Input)),
	)
	if _, err := srv.Start(); err != nil {
		return fmt.Errorf("status server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if err := holder.StartWatcher(gctx); err != nil {
		logger.Warn().Err(err).Msg("config watcher disabled")
	}
	updates := make(chan config.AppConfig, 1)
	holder.RegisterListener(updates)
	g.Go(func() error {
		applyUpdates(gctx, updates, cfg.Color, ctrl, reg)
		return nil
	})

	if cfg.Replay.Input != "" {
		g.Go(func() error {
			_, err := replay(gctx, ctrl, cfg.Replay, cfg.Color)
			return err
		})
	}

	<-gctx.Done()
	logger.Info().Str(sdlog.FieldEvent, "daemon.stopping").Msg("shutting down")
	waitErr := g.Wait()
	holder.Wait()

	ctrl.Cleanup()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("status server shutdown")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("tracer shutdown")
	}
	return waitErr
}

func tracingService(cfg config.AppConfig) string {
	if !cfg.Telemetry.Enabled {
		return ""
	}
	return "streamdec-api"
}

// applyUpdates applies reloaded settings. Decoder preferences and quirk
// overrides take effect at the next Setup; a changed HDR mode tears the
// configured engine down.
func applyUpdates(ctx context.Context, updates <-chan config.AppConfig, color config.ColorConfig, ctrl *session.Controller, reg *quirks.Registry) {
	logger := sdlog.WithComponent("daemon")
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-updates:
			sdlog.Configure(sdlog.Config{Level: cfg.Log.Level, Service: "streamdec", Version: version.Version})
			ctrl.SetPreferences(cfg.Decoder.LowLatency, cfg.Decoder.AdaptivePlayback)
			if err := loadQuirks(reg, cfg.Decoder.QuirksFile); err != nil {
				logger.Warn().Err(err).Msg("keeping previous quirk overrides")
			}
			if cfg.Color == color {
				continue
			}
			if err := applyColor(ctrl, cfg.Color); err != nil {
				logger.Warn().Err(err).Msg("color update rejected")
				continue
			}
			color = cfg.Color
		}
	}
}
