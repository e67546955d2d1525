// Package render turns earthquake records into Leaflet circle markers.
package render

import (
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// FillOpacity is applied to every earthquake marker.
const FillOpacity = 0.75

// CircleOptions mirrors the L.circle option object.
type CircleOptions struct {
	Stroke      bool    `json:"stroke"`
	FillOpacity float64 `json:"fillOpacity"`
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	Radius      float64 `json:"radius"`
}

// Marker is one earthquake circle with its popup.
type Marker struct {
	ID      string        `json:"id,omitempty"`
	LatLng  domain.LatLng `json:"latlng"`
	Options CircleOptions `json:"options"`
	Popup   string        `json:"popup"`
}

// MarkerLayer is the ordered set of markers for one feed snapshot.
// Later markers paint over earlier ones.
type MarkerLayer struct {
	Markers []Marker `json:"markers"`
}

// Len returns the number of markers.
func (l MarkerLayer) Len() int { return len(l.Markers) }

// Renderer builds marker layers, formatting popup times in a fixed location.
type Renderer struct {
	loc *time.Location
}

// NewRenderer creates a Renderer. A nil location renders times in UTC.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// Render converts records into markers, preserving input order.
func (r *Renderer) Render(records []domain.EventRecord) MarkerLayer {
	markers := make([]Marker, 0, len(records))
	for i := range records {
		markers = append(markers, r.Marker(records[i]))
	}
	return MarkerLayer{Markers: markers}
}

// Marker converts a single record.
func (r *Renderer) Marker(rec domain.EventRecord) Marker {
	color := domain.ColorFor(rec.Magnitude)
	return Marker{
		ID:     rec.ID,
		LatLng: rec.Coordinates,
		Options: CircleOptions{
			Stroke:      false,
			FillOpacity: FillOpacity,
			Color:       color,
			FillColor:   color,
			Radius:      domain.RadiusFor(rec.Magnitude),
		},
		Popup: domain.PopupHTML(rec, r.loc),
	}
}
