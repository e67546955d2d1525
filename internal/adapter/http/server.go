package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/composer"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ViewSource supplies the most recently composed map view.
type ViewSource interface {
	sharedobs.ReadinessChecker
	Current() *composer.MapView
}

// Route paths the page depends on.
const (
	MapPath    = "/api/map"
	FaultsPath = "/api/faults"
	LegendPath = "/api/legend"
)

// Server serves the map page, its data endpoints, the optional tile proxy,
// and health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	views      ViewSource
	tiles      mapbox.TileFetcher
	logger     *slog.Logger
}

// NewServer creates the HTTP server. A nil tile fetcher disables /tiles.
func NewServer(addr string, views ViewSource, tiles mapbox.TileFetcher, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		views:  views,
		tiles:  tiles,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET "+MapPath, s.handleMap)
	mux.HandleFunc("GET "+FaultsPath, s.handleFaults)
	mux.HandleFunc("GET "+LegendPath, s.handleLegend)
	if tiles != nil {
		mux.HandleFunc("GET /tiles/{style}/{z}/{x}/{file}", s.handleTile)
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(views))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := RenderPage(&buf, Page{
		Title:     "Earthquakes",
		DataURL:   MapPath,
		FaultsURL: FaultsPath,
	})
	if err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	view := s.views.Current()
	if view == nil {
		writeNotReady(w)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

// handleFaults waits for the current view's fault-line fetch to resolve,
// bounded by the request context. An empty group means the fetch failed.
func (s *Server) handleFaults(w http.ResponseWriter, r *http.Request) {
	view := s.views.Current()
	if view == nil {
		writeNotReady(w)
		return
	}

	select {
	case <-view.FaultLinesSettled():
		sharedobs.WriteJSON(w, http.StatusOK, view.FaultLines)
	case <-r.Context().Done():
		sharedobs.WriteJSON(w, http.StatusGatewayTimeout, map[string]string{
			"error": "fault lines still loading",
		})
	}
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, composer.Legend{
		Position: composer.LegendPosition,
		Title:    composer.LegendTitle,
		Entries:  domain.LegendEntries(),
	})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	key, err := parseTileKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tile, err := s.tiles.FetchTile(r.Context(), key)
	if err != nil {
		if errors.Is(err, mapbox.ErrInvalidTile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "tile unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", tile.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(tile.Data) //nolint:errcheck // client may have gone away
}

func parseTileKey(r *http.Request) (mapbox.TileKey, error) {
	yStr, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		return mapbox.TileKey{}, errors.New("tile path must end in .png")
	}
	z, errZ := strconv.Atoi(r.PathValue("z"))
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(yStr)
	if err := errors.Join(errZ, errX, errY); err != nil {
		return mapbox.TileKey{}, errors.New("tile coordinates must be integers")
	}
	return mapbox.TileKey{Style: r.PathValue("style"), Z: z, X: x, Y: y}, nil
}

func writeNotReady(w http.ResponseWriter) {
	sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "not ready",
		"error":  "no map view composed yet",
	})
}
