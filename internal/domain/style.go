package domain

import (
	"math"
	"strconv"
)

// MarkerScale converts a magnitude to a marker radius in metres.
const MarkerScale = 10000.0

// Band is one magnitude range and the color bound to it.
type Band struct {
	Lower float64
	Upper float64 // +Inf for the open top band
	Color string
}

// Label renders the band for the legend: "1-2", or "4+" for the open band.
func (b Band) Label() string {
	lower := strconv.FormatFloat(b.Lower, 'f', -1, 64)
	if math.IsInf(b.Upper, 1) {
		return lower + "+"
	}
	return lower + "-" + strconv.FormatFloat(b.Upper, 'f', -1, 64)
}

var bands = [...]Band{
	{Lower: 0, Upper: 1, Color: "#fafa6e"},
	{Lower: 1, Upper: 2, Color: "#fcce36"},
	{Lower: 2, Upper: 3, Color: "#fd9f00"},
	{Lower: 3, Upper: 4, Color: "#fa6a00"},
	{Lower: 4, Upper: math.Inf(1), Color: "#f20a0a"},
}

// Bands returns a copy of the magnitude band table, lowest band first.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands[:])
	return out
}

// BandIndex returns the index of the band m falls in. Bands are tested from
// the top with a strict greater-than, so boundary values fall to the lower band.
func BandIndex(m float64) int {
	for i := len(bands) - 1; i > 0; i-- {
		if m > bands[i].Lower {
			return i
		}
	}
	return 0
}

// ColorFor returns the band color for a magnitude.
func ColorFor(m float64) string {
	return bands[BandIndex(m)].Color
}

// RadiusFor returns the marker radius in metres for a magnitude.
func RadiusFor(m float64) float64 {
	return m * MarkerScale
}

// LegendEntry is one row of the map legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// LegendEntries builds the legend rows from the band table.
func LegendEntries() []LegendEntry {
	out := make([]LegendEntry, len(bands))
	for i, b := range bands {
		out[i] = LegendEntry{Label: b.Label(), Color: b.Color}
	}
	return out
}
