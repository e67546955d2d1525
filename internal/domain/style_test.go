package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	colorBand0 = "#fafa6e"
	colorBand1 = "#fcce36"
	colorBand2 = "#fd9f00"
	colorBand3 = "#fa6a00"
	colorBand4 = "#f20a0a"
)

func TestRadiusFor(t *testing.T) {
	for _, m := range []float64{-1.5, 0, 0.3, 2, 4.75, 9.1} {
		assert.Equal(t, m*MarkerScale, RadiusFor(m), "magnitude %v", m)
	}
	assert.Equal(t, 52000.0, RadiusFor(5.2))
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		name string
		mag  float64
		want string
	}{
		{"negative", -0.4, colorBand0},
		{"zero", 0, colorBand0},
		{"below one", 0.9, colorBand0},
		{"exactly one", 1.0, colorBand0},
		{"just above one", 1.01, colorBand1},
		{"exactly two", 2.0, colorBand1},
		{"mid band two", 2.5, colorBand2},
		{"exactly three", 3.0, colorBand2},
		{"exactly four", 4.0, colorBand3},
		{"above four", 4.1, colorBand4},
		{"great quake", 9.5, colorBand4},
		{"nan", math.NaN(), colorBand0},
		{"positive infinity", math.Inf(1), colorBand4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorFor(tt.mag))
		})
	}
}

func TestColorFor_BoundaryFallsToLowerBand(t *testing.T) {
	assert.Equal(t, ColorFor(1.5), ColorFor(2.0))
	assert.NotEqual(t, ColorFor(2.1), ColorFor(2.0))

	for _, b := range Bands()[1:] {
		assert.Equal(t, ColorFor(b.Lower-0.5), ColorFor(b.Lower), "boundary %v", b.Lower)
	}
}

func TestLegendEntries_MirrorBandTable(t *testing.T) {
	entries := LegendEntries()

	labels := make([]string, len(entries))
	colors := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
		colors[i] = e.Color
	}

	assert.Equal(t, []string{"0-1", "1-2", "2-3", "3-4", "4+"}, labels)
	assert.Equal(t, []string{colorBand0, colorBand1, colorBand2, colorBand3, colorBand4}, colors)
}

func TestLegendEntries_MatchColorFor(t *testing.T) {
	// A magnitude just inside each band must resolve to that band's legend color.
	entries := LegendEntries()
	for i, b := range Bands() {
		assert.Equal(t, entries[i].Color, ColorFor(b.Lower+0.5), "band %d", i)
	}
}

func TestBands_ReturnsCopy(t *testing.T) {
	b := Bands()
	b[0].Color = "#000000"
	assert.Equal(t, colorBand0, ColorFor(0.5))
}

func TestBandIndex(t *testing.T) {
	assert.Equal(t, 0, BandIndex(1))
	assert.Equal(t, 1, BandIndex(1.2))
	assert.Equal(t, 3, BandIndex(4))
	assert.Equal(t, 4, BandIndex(6.8))
}
