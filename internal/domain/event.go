package domain

import "time"

// LatLng is a latitude-first WGS-84 coordinate pair.
type LatLng [2]float64

// Lat returns the latitude.
func (ll LatLng) Lat() float64 { return ll[0] }

// Lng returns the longitude.
func (ll LatLng) Lng() float64 { return ll[1] }

// EventRecord is one reported seismic event as read from the feed.
// Records are never mutated after decoding.
type EventRecord struct {
	ID          string  `json:"id"`
	Place       string  `json:"place"`
	Time        int64   `json:"time"` // epoch milliseconds
	Magnitude   float64 `json:"mag"`
	Coordinates LatLng  `json:"coordinates"`
	Depth       float64 `json:"depth,omitempty"` // km
}

// OccurredAt converts the epoch-millisecond timestamp to a time.Time.
func (r EventRecord) OccurredAt() time.Time {
	return time.UnixMilli(r.Time)
}

// StyledEvent pairs a record with the visual encoding derived from it.
type StyledEvent struct {
	EventRecord
	Band      int       `json:"band"`
	BandLabel string    `json:"band_label"`
	Color     string    `json:"color"`
	Radius    float64   `json:"radius"`
	StyledAt  time.Time `json:"styled_at"`
}

// StyleEvent derives the band, color and radius for a record.
func StyleEvent(r EventRecord) StyledEvent {
	i := BandIndex(r.Magnitude)
	return StyledEvent{
		EventRecord: r,
		Band:        i,
		BandLabel:   bands[i].Label(),
		Color:       bands[i].Color,
		Radius:      RadiusFor(r.Magnitude),
		StyledAt:    clock.Now(),
	}
}
