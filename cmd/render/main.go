// Command render fetches the earthquake feed once and writes a static copy
// of the map: index.html with the map document embedded, plus the same
// document as map.json. The page opens directly from disk. Feed, fault
// line, timezone and Mapbox settings come from the same environment
// variables as the service.
//
// Usage:
//
//	go run ./cmd/render -out dist -wait 10s
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/adapter/faults"
	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/composer"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/render"
)

const mapFile = "map.json"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "dist", "output directory for index.html and "+mapFile)
	wait := flag.Duration("wait", 10*time.Second, "how long to wait for fault lines before writing without them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	logger.Info("rendering static map", "out", *outDir, "display_timezone", cfg.DisplayTimezone)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger).FetchEvents(ctx)
	if err != nil {
		return err
	}

	comp := composer.New(faults.NewFileSource(cfg.FaultLinesPath),
		composer.Options{AccessToken: cfg.MapboxToken}, logger, metrics)
	view := comp.Compose(ctx, render.NewRenderer(cfg.DisplayLocation).Render(records))

	if err := export(ctx, *outDir, view, *wait, logger); err != nil {
		return err
	}
	logger.Info("static map written", "dir", *outDir, "events", view.Earthquakes.Len(), "fault_layers", view.FaultLines.Len())
	return nil
}

// export waits up to wait for the fault-line fetch, then writes the page and
// the map document. A view whose fault lines have not settled is written as is.
func export(ctx context.Context, dir string, view *composer.MapView, wait time.Duration, logger *slog.Logger) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-view.FaultLinesSettled():
	case <-timer.C:
		logger.Warn("fault lines not loaded, writing map without them", "wait", wait)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	doc, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, mapFile), doc, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mapFile, err)
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("create index.html: %w", err)
	}
	defer f.Close()

	if err := httpadapter.RenderPage(f, httpadapter.Page{Title: "Earthquakes", DataURL: mapFile, Doc: view}); err != nil {
		return fmt.Errorf("render index.html: %w", err)
	}
	return f.Close()
}
