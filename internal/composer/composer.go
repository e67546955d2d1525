// Package composer assembles the earthquake map: base layers, overlays,
// the layer switcher and the magnitude legend.
package composer

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/adapter/faults"
	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/render"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
)

// Fixed view settings.
const (
	Container      = "map"
	DefaultZoom    = 5
	LegendPosition = "bottomright"
	LegendTitle    = "Magnitude"
)

// DefaultCenter is the initial map center over the contiguous United States.
var DefaultCenter = domain.LatLng{37.09, -95.71}

// FaultSource provides fault-line geometry.
type FaultSource interface {
	FaultLines(ctx context.Context) (*geojson.FeatureCollection, error)
}

// LayerControl describes the layer switcher.
type LayerControl struct {
	Collapsed  bool     `json:"collapsed"`
	BaseLayers []string `json:"baseLayers"`
	Overlays   []string `json:"overlays"`
}

// Legend describes the magnitude legend control.
type Legend struct {
	Position string               `json:"position"`
	Title    string               `json:"title"`
	Entries  []domain.LegendEntry `json:"entries"`
}

// MapView is one composed, displayable map. Everything except FaultLines is
// fixed at composition; FaultLines fills in when its fetch resolves.
type MapView struct {
	Container    string             `json:"container"`
	Center       domain.LatLng      `json:"center"`
	Zoom         int                `json:"zoom"`
	BaseLayers   []TileLayer        `json:"baseLayers"`
	Earthquakes  render.MarkerLayer `json:"earthquakes"`
	FaultLines   *LayerGroup        `json:"faultLines"`
	ActiveLayers []string           `json:"activeLayers"`
	LayerControl LayerControl       `json:"layerControl"`
	Legend       Legend             `json:"legend"`
	GeneratedAt  time.Time          `json:"generatedAt"`

	settled chan struct{}
}

// FaultLinesSettled is closed once the fault-line fetch has either
// populated the overlay or failed.
func (v *MapView) FaultLinesSettled() <-chan struct{} {
	return v.settled
}

// Options configures tile access for composed views.
type Options struct {
	TileURL     string // defaults to mapbox.TileURLTemplate
	AccessToken string
	Clock       clockwork.Clock
}

// Composer builds MapViews.
type Composer struct {
	faults  FaultSource
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Composer. A nil FaultSource leaves the fault overlay empty.
func New(src FaultSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Composer {
	if opts.TileURL == "" {
		opts.TileURL = mapbox.TileURLTemplate
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Composer{
		faults:  src,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// Compose builds a view around the marker layer and returns immediately.
// The fault-line fetch runs in the background and appends to
// view.FaultLines when it resolves; nothing waits on it.
func (c *Composer) Compose(ctx context.Context, markers render.MarkerLayer) *MapView {
	if markers.Markers == nil {
		markers.Markers = []render.Marker{}
	}

	base := BaseLayers(c.opts.TileURL, c.opts.AccessToken)
	baseNames := make([]string, len(base))
	for i, l := range base {
		baseNames[i] = l.Name
	}

	view := &MapView{
		Container:    Container,
		Center:       DefaultCenter,
		Zoom:         DefaultZoom,
		BaseLayers:   base,
		Earthquakes:  markers,
		FaultLines:   &LayerGroup{},
		ActiveLayers: []string{BaseStreet, OverlayEarthquakes},
		LayerControl: LayerControl{
			Collapsed:  false,
			BaseLayers: baseNames,
			Overlays:   []string{OverlayEarthquakes, OverlayFaultLines},
		},
		Legend: Legend{
			Position: LegendPosition,
			Title:    LegendTitle,
			Entries:  domain.LegendEntries(),
		},
		GeneratedAt: c.opts.Clock.Now().UTC(),
		settled:     make(chan struct{}),
	}

	go c.loadFaultLines(ctx, view)
	return view
}

func (c *Composer) loadFaultLines(ctx context.Context, view *MapView) {
	defer close(view.settled)

	if c.faults == nil {
		return
	}

	fc, err := c.faults.FaultLines(ctx)
	if err != nil {
		c.metrics.FaultLineLoads.WithLabelValues("error").Inc()
		c.logger.Warn("fault lines unavailable, overlay left empty", "error", err)
		return
	}

	view.FaultLines.AddLayer(GeoJSONLayer{Data: fc, Style: FaultLineStyle})
	c.metrics.FaultLineLoads.WithLabelValues("success").Inc()

	stats := faults.Summarize(fc)
	c.logger.Debug("fault lines loaded", "features", stats.Features, "vertices", stats.Vertices)
}
