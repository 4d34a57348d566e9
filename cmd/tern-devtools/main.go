// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

// tern-devtools runs the remote debugging server standalone, backed
// by a built-in demo page. The embedded-in-browser deployment wires
// the same devtools.Server to the real engine; this binary exists so
// frontend and protocol work can proceed against a fixed page.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/tern-browser/tern/config"
	"github.com/tern-browser/tern/devtools"
	"github.com/tern-browser/tern/prefs"
	"github.com/tern-browser/tern/script"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "tern-devtools: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var listen string
	var wsListen string
	var metricsListen string
	var prefsPath string
	var logLevel string

	flagSet := pflag.NewFlagSet("tern-devtools", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML configuration")
	flagSet.StringVar(&listen, "listen", "", "TCP listen address (overrides config)")
	flagSet.StringVar(&wsListen, "ws-listen", "", "WebSocket listen address (overrides config)")
	flagSet.StringVar(&metricsListen, "metrics-listen", "", "Prometheus listen address (overrides config)")
	flagSet.StringVar(&prefsPath, "prefs", "", "path to JSONC preference file (overrides config)")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if wsListen != "" {
		cfg.WebSocketListen = wsListen
	}
	if metricsListen != "" {
		cfg.MetricsListen = metricsListen
	}
	if prefsPath != "" {
		cfg.Preferences = prefsPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := prefs.Load(cfg.Preferences, logger)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}
	if cfg.Preferences != "" {
		go func() {
			if err := store.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("preference watch stopped", "error", err)
			}
		}()
	}

	server := devtools.NewServer(logger, store)

	events := make(chan script.Event, 64)
	engine := newDemoEngine(events, logger)
	engine.Start(ctx)
	go server.RunEvents(ctx, events)

	if cfg.MetricsListen != "" {
		go serveMetrics(ctx, cfg.MetricsListen, logger)
	}
	if cfg.WebSocketListen != "" {
		go func() {
			if err := server.ListenAndServeWebSocket(ctx, cfg.WebSocketListen); err != nil {
				logger.Error("websocket listener failed", "error", err)
			}
		}()
	}

	err = server.ListenAndServe(ctx, cfg.Listen)
	server.CloseStreams()
	return err
}

func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", "error", err)
	}
}
