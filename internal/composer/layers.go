package composer

import (
	"encoding/json"
	"sync"

	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/paulmach/orb/geojson"
)

// Layer names shown in the layer switcher.
const (
	BaseStreet           = "Street Map"
	BaseLight            = "Light Map"
	BaseSatelliteStreets = "Satellite Streets Map"

	OverlayEarthquakes = "Earthquakes"
	OverlayFaultLines  = "Fault Lines"
)

// TileOptions mirrors the L.tileLayer option object.
type TileOptions struct {
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
	ID          string `json:"id"`
	AccessToken string `json:"accessToken,omitempty"`
}

// TileLayer is one base-layer choice.
type TileLayer struct {
	Name    string      `json:"name"`
	URL     string      `json:"url"`
	Options TileOptions `json:"options"`
}

var baseLayerStyles = []struct {
	name  string
	style string
}{
	{BaseStreet, mapbox.StyleStreets},
	{BaseLight, mapbox.StyleLight},
	{BaseSatelliteStreets, mapbox.StyleSatelliteStreets},
}

// BaseLayers builds the three Mapbox base layers against urlTemplate.
// An empty token still yields layers; their tiles simply fail to load.
func BaseLayers(urlTemplate, token string) []TileLayer {
	out := make([]TileLayer, 0, len(baseLayerStyles))
	for _, b := range baseLayerStyles {
		out = append(out, TileLayer{
			Name: b.name,
			URL:  urlTemplate,
			Options: TileOptions{
				Attribution: mapbox.Attribution,
				MaxZoom:     mapbox.MaxZoom,
				ID:          b.style,
				AccessToken: token,
			},
		})
	}
	return out
}

// PathStyle mirrors the Leaflet path style used for GeoJSON layers.
type PathStyle struct {
	FillOpacity float64 `json:"fillOpacity"`
	Weight      float64 `json:"weight"`
	Color       string  `json:"color"`
}

// FaultLineStyle draws fault lines as unfilled orange strokes.
var FaultLineStyle = PathStyle{FillOpacity: 0, Weight: 3, Color: "orange"}

// GeoJSONLayer is a styled GeoJSON overlay.
type GeoJSONLayer struct {
	Data  *geojson.FeatureCollection `json:"data"`
	Style PathStyle                  `json:"style"`
}

// LayerGroup is an overlay that can gain layers after the view is built.
// It is safe for concurrent use.
type LayerGroup struct {
	mu     sync.RWMutex
	layers []GeoJSONLayer
}

// AddLayer appends a layer to the group.
func (g *LayerGroup) AddLayer(l GeoJSONLayer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.layers = append(g.layers, l)
}

// Layers returns a snapshot of the group's layers.
func (g *LayerGroup) Layers() []GeoJSONLayer {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GeoJSONLayer, len(g.layers))
	copy(out, g.layers)
	return out
}

// Len returns the number of layers currently in the group.
func (g *LayerGroup) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.layers)
}

func (g *LayerGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Layers []GeoJSONLayer `json:"layers"`
	}{Layers: g.Layers()})
}
