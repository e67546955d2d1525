package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-map-service/internal/adapter/faults"
	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/composer"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/refresher"
	"github.com/couchcryptid/quake-map-service/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	logger.Info("map service configured",
		"feed_url", cfg.FeedURL,
		"refresh_interval", cfg.RefreshInterval,
		"fault_lines_path", cfg.FaultLinesPath,
		"display_timezone", cfg.DisplayTimezone,
	)

	if cfg.MapboxToken == "" {
		logger.Warn("MAPBOX_TOKEN not set, base map tiles will fail to load")
	}

	// Tiles are either proxied (token stays server-side) or fetched by the browser directly.
	opts := composer.Options{AccessToken: cfg.MapboxToken}
	var tiles mapbox.TileFetcher
	if cfg.MapboxTileProxy {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		tiles = mapbox.NewCachedTileFetcher(client, cfg.MapboxCacheSize, metrics)
		opts = composer.Options{TileURL: mapbox.ProxyURLTemplate}
		logger.Info("mapbox tile proxy enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	}

	var publisher refresher.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("styled event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	feed := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)
	comp := composer.New(faults.NewFileSource(cfg.FaultLinesPath), opts, logger, metrics)
	r := refresher.New(feed, render.NewRenderer(cfg.DisplayLocation), comp, publisher,
		cfg.RefreshInterval, nil, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, r, tiles, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start feed refresher.
	go func() {
		if err := r.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
