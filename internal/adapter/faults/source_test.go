package faults

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFaults = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"Name": "PA-NA"},
     "geometry": {"type": "LineString", "coordinates": [[-124.5, 40.3], [-122.0, 37.5], [-115.5, 32.5]]}},
    {"type": "Feature", "properties": {"Name": "NA-JF"},
     "geometry": {"type": "MultiLineString", "coordinates": [[[-130.0, 50.0], [-127.0, 44.0]], [[-127.0, 44.0], [-125.0, 40.5]]]}}
  ]
}`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileSource_FaultLines(t *testing.T) {
	src := NewFileSource(writeFile(t, sampleFaults))

	fc, err := src.FaultLines(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{-124.5, 40.3}, ls[0])
	assert.Equal(t, "PA-NA", fc.Features[0].Properties.MustString("Name"))
}

func TestFileSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	src := NewFileSource(path)

	_, err := src.FaultLines(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read fault lines")
	// The composer logs this error, so it must name the file.
	assert.Contains(t, err.Error(), path)
}

func TestFileSource_Malformed(t *testing.T) {
	src := NewFileSource(writeFile(t, `{"type":"FeatureCollection","features":[{`))

	_, err := src.FaultLines(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode fault lines")
}

func TestFileSource_CancelledContext(t *testing.T) {
	src := NewFileSource(writeFile(t, sampleFaults))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FaultLines(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	fc, err := Decode([]byte(sampleFaults))
	require.NoError(t, err)

	s := Summarize(fc)
	assert.Equal(t, 2, s.Features)
	assert.Equal(t, 7, s.Vertices)
	assert.Equal(t, orb.Point{-130.0, 32.5}, s.Bound.Min)
	assert.Equal(t, orb.Point{-115.5, 50.0}, s.Bound.Max)
}

func TestSummarize_Nil(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
}
